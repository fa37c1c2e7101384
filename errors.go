// errors.go: error taxonomy for the binlog record-production pipeline
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/agilira/go-errors"
)

// Error codes, per the taxonomy in spec section 7.
const (
	// ErrCodeRegistryExhausted: more than 65536 distinct format strings.
	ErrCodeRegistryExhausted errors.ErrorCode = "BINLOG_REGISTRY_EXHAUSTED"
	// ErrCodeRecordTooLarge: a single record exceeds buffer capacity.
	ErrCodeRecordTooLarge errors.ErrorCode = "BINLOG_RECORD_TOO_LARGE"
	// ErrCodeHandlerFailure: downstream handler rejected a buffer.
	ErrCodeHandlerFailure errors.ErrorCode = "BINLOG_HANDLER_FAILURE"
	// ErrCodeEncoderPoisoned: a prior handler failure poisoned the encoder.
	ErrCodeEncoderPoisoned errors.ErrorCode = "BINLOG_ENCODER_POISONED"
	// ErrCodeMalformedInput: truncated or invalid bytes during decode.
	ErrCodeMalformedInput errors.ErrorCode = "BINLOG_MALFORMED_INPUT"
	// ErrCodeMissingBase: a delta record appeared before any base record.
	ErrCodeMissingBase errors.ErrorCode = "BINLOG_MISSING_BASE"
	// ErrCodeUnresolvedFormat: a format id absent from the decode registry.
	ErrCodeUnresolvedFormat errors.ErrorCode = "BINLOG_UNRESOLVED_FORMAT"
)

// ErrorHandler observes internal errors that have nowhere else to go (the
// engine cannot log about itself without recursing through its own record
// pipeline). The default writes to stderr, mirroring the teacher's
// stderr-only default handler.
type ErrorHandler func(err *errors.Error)

var defaultErrorHandler ErrorHandler = func(err *errors.Error) {
	fmt.Fprintf(os.Stderr, "[binlog] %s: %s\n", err.Code, err.Message)
}

var currentErrorHandler = defaultErrorHandler

// SetErrorHandler installs a custom handler for internal errors. Passing
// nil restores the default stderr handler.
func SetErrorHandler(h ErrorHandler) {
	if h == nil {
		currentErrorHandler = defaultErrorHandler
		return
	}
	currentErrorHandler = h
}

// GetErrorHandler returns the currently installed error handler.
func GetErrorHandler() ErrorHandler {
	return currentErrorHandler
}

func handleInternalError(err *errors.Error) {
	if err == nil {
		return
	}
	currentErrorHandler(err)
}

// newError builds a *errors.Error with standard binlog context: component,
// timestamp, and the caller one frame up.
func newError(code errors.ErrorCode, message string) *errors.Error {
	err := errors.New(code, message).
		WithSeverity("error").
		WithContext("component", "binlog").
		WithContext("timestamp", time.Now().UTC())

	if pc, file, line, ok := runtime.Caller(2); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			_ = err.WithContext("caller_func", fn.Name())
		}
		_ = err.WithContext("caller_file", file)
		_ = err.WithContext("caller_line", line)
	}
	return err
}

func newRegistryExhaustedError(size int) *errors.Error {
	err := newError(ErrCodeRegistryExhausted,
		fmt.Sprintf("format-string registry exhausted at %d entries", size))
	handleInternalError(err)
	return err
}

func newRecordTooLargeError(size, capacity int) *errors.Error {
	err := newError(ErrCodeRecordTooLarge,
		fmt.Sprintf("record of %d bytes exceeds buffer capacity of %d bytes", size, capacity))
	handleInternalError(err)
	return err
}

func newHandlerFailureError(cause error) *errors.Error {
	err := errors.Wrap(cause, ErrCodeHandlerFailure, "handler rejected buffer").
		WithSeverity("error").
		WithContext("component", "binlog").
		WithContext("timestamp", time.Now().UTC())
	handleInternalError(err)
	return err
}

func newEncoderPoisonedError() *errors.Error {
	err := newError(ErrCodeEncoderPoisoned, "encoder is poisoned after a prior handler failure")
	handleInternalError(err)
	return err
}

func newMalformedInputError(reason string) *errors.Error {
	err := newError(ErrCodeMalformedInput, "malformed record: "+reason)
	handleInternalError(err)
	return err
}

func newMissingBaseError() *errors.Error {
	err := newError(ErrCodeMissingBase, "delta record observed before any base record")
	handleInternalError(err)
	return err
}

func newUnresolvedFormatError(id uint16) *errors.Error {
	err := newError(ErrCodeUnresolvedFormat,
		fmt.Sprintf("format id %d is not present in the supplied registry snapshot", id))
	handleInternalError(err)
	return err
}

// IsCode reports whether err carries the given binlog error code.
func IsCode(err error, code errors.ErrorCode) bool {
	return errors.HasCode(err, code)
}
