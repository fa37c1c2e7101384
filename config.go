// config.go: configuration for a Logger
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

// Config centralizes the parameters needed to build a Logger. It exists
// alongside the functional-options constructor (New) for callers that
// assemble configuration from an external source (LoadConfigFromJSON,
// LoadConfigFromEnv) rather than composing Options in code.
type Config struct {
	// Capacity is the size, in bytes, of each of the Logger's two buffers.
	Capacity int

	// Handler receives filled buffers on swap-and-handoff. Required.
	Handler Handler

	// Registry is the format-string registry LogFormat interns against.
	// Defaults to DefaultRegistry if nil.
	Registry *Registry
}

// Validate checks that c describes a buildable Logger.
func (c *Config) Validate() error {
	if c.Capacity < baseRecordSize+deltaHeaderSize {
		return newError(ErrCodeRecordTooLarge, "capacity too small to hold even an empty record")
	}
	if c.Handler == nil {
		return newError(ErrCodeHandlerFailure, "handler must not be nil")
	}
	return nil
}

// Build constructs a Logger from c.
func (c *Config) Build() (*Logger, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts := []Option{}
	if c.Registry != nil {
		opts = append(opts, WithRegistry(c.Registry))
	}
	return New(c.Capacity, c.Handler, opts...)
}

// Clone returns a shallow copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
