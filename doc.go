// Package binlog implements a high-throughput binary structured logging
// engine: a double-buffered encoder that packs log records into a compact,
// relative-timestamp binary format, a process-wide format-string registry
// that interns format strings to compact identifiers, and a decoder that
// reconstructs absolute timestamps and resolved entries from the encoded
// byte stream.
//
// # Quick start
//
//	reg := binlog.NewRegistry()
//	logger, err := binlog.New(64*1024, myHandler, binlog.WithRegistry(reg))
//	if err != nil {
//		panic(err)
//	}
//	defer logger.Close()
//
//	var site binlog.CallSite
//	logger.LogFormat(&site, "conn accepted: peer={}", binlog.Str(peerAddr))
//
// # Decoding
//
//	reader := binlog.NewLogReaderFromSnapshot(buf, reg.Snapshot())
//	entries, err := reader.All()
//
// A Logger is not safe for concurrent use: it is produced by and mutated
// from exactly one goroutine. The Registry it interns against is safe for
// concurrent use by many Loggers at once.
//
// This package ships no concrete Handler implementation (disk, network,
// compression), no CLI front-end, and no benchmark harness; those are left
// to the embedder.
package binlog
