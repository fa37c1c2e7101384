// config_loader.go: configuration loading from files, env, and a live watcher
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"
)

// validateFilePath rejects empty paths and directory traversal attempts
// before a path reaches os.ReadFile/os.Stat.
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("empty file path")
	}
	cleanPath := filepath.Clean(filename)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains directory traversal: %s", filename)
	}
	return nil
}

// fileHandler is the trivial Handler used by the config loader's own
// validation and by tests: it appends each handed-off buffer to a file. It
// is not the concrete disk handler the spec excludes from this module's
// scope (no rotation, no compression, no retry) — just enough to let
// LoadConfigFromJSON build a usable Logger from an "output" field.
type fileHandler struct {
	f *os.File
}

func (h *fileHandler) Handle(p []byte) error {
	_, err := h.f.Write(p)
	return err
}

// newFileHandler opens path for append, creating it if necessary.
func newFileHandler(path string) (*fileHandler, error) {
	if err := validateFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid output path: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 -- path validated above
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return &fileHandler{f: f}, nil
}

// LoadConfigFromJSON loads a Config from a JSON file with fields:
//
//	{"capacity": 65536, "output": "/path/to/file.bin"}
//
// "output" is optional; when present it is opened as the Config's Handler
// via a minimal append-to-file Handler. Callers that need a real handler
// (network, compression, rotation) should set Config.Handler themselves
// after loading.
func LoadConfigFromJSON(filename string) (*Config, error) {
	config := &Config{}

	if err := validateFilePath(filename); err != nil {
		return config, fmt.Errorf("invalid file path: %w", err)
	}

	data, err := os.ReadFile(filename) // #nosec G304 -- path validated above
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	var jsonConfig struct {
		Capacity int    `json:"capacity"`
		Output   string `json:"output"`
	}
	if err := json.Unmarshal(data, &jsonConfig); err != nil {
		return config, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	if jsonConfig.Capacity > 0 {
		config.Capacity = jsonConfig.Capacity
	}

	if jsonConfig.Output != "" {
		handler, err := newFileHandler(jsonConfig.Output)
		if err != nil {
			return config, err
		}
		config.Handler = handler
	}

	return config, nil
}

// LoadConfigFromEnv loads a Config from BINLOG_CAPACITY and BINLOG_OUTPUT.
func LoadConfigFromEnv() (*Config, error) {
	config := &Config{}

	if capacityStr := os.Getenv("BINLOG_CAPACITY"); capacityStr != "" {
		if capacity, err := strconv.Atoi(capacityStr); err == nil && capacity > 0 {
			config.Capacity = capacity
		}
	}

	if output := os.Getenv("BINLOG_OUTPUT"); output != "" {
		handler, err := newFileHandler(output)
		if err != nil {
			return config, fmt.Errorf("invalid BINLOG_OUTPUT: %w", err)
		}
		config.Handler = handler
	}

	return config, nil
}

// DynamicConfigWatcher hot-reloads a Logger's buffer capacity from a JSON
// config file using argus for file watching. Since the core has no
// in-place resize (capacity is fixed at construction, per spec section
// 4.3), a capacity change is applied by building a fresh Logger via
// rebuild and swapping it into whatever slot the caller's callback
// controls — this watcher never touches an existing Logger's internals.
type DynamicConfigWatcher struct {
	configPath string
	rebuild    func(capacity int) error
	watcher    *argus.Watcher
	enabled    int32
	mu         sync.Mutex
}

// NewDynamicConfigWatcher creates a watcher over configPath. rebuild is
// invoked with the new capacity every time the file changes and the parsed
// capacity differs from what was last applied; its error is routed through
// GetErrorHandler() rather than returned, since it runs on argus's
// background goroutine.
func NewDynamicConfigWatcher(configPath string, rebuild func(capacity int) error) (*DynamicConfigWatcher, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file does not exist: %w", err)
	}

	cfg := argus.Config{
		PollInterval:         2 * time.Second,
		OptimizationStrategy: argus.OptimizationAuto,
		ErrorHandler: func(err error, path string) {
			handleInternalError(newError(ErrCodeMalformedInput,
				fmt.Sprintf("config watcher error for %s: %v", path, err)))
		},
	}

	watcher := argus.New(*cfg.WithDefaults())

	return &DynamicConfigWatcher{
		configPath: configPath,
		rebuild:    rebuild,
		watcher:    watcher,
	}, nil
}

// Start begins watching the configuration file for changes, applying the
// file's capacity once immediately before returning.
func (w *DynamicConfigWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if atomic.LoadInt32(&w.enabled) != 0 {
		return fmt.Errorf("watcher is already started")
	}

	applied := 0
	if initial, err := LoadConfigFromJSON(w.configPath); err == nil && initial.Capacity > 0 {
		if err := w.rebuild(initial.Capacity); err != nil {
			handleInternalError(newError(ErrCodeMalformedInput,
				fmt.Sprintf("initial rebuild from %s failed: %v", w.configPath, err)))
		} else {
			applied = initial.Capacity
		}
	}

	if err := w.watcher.Watch(w.configPath, func(event argus.ChangeEvent) {
		newConfig, err := LoadConfigFromJSON(event.Path)
		if err != nil {
			handleInternalError(newError(ErrCodeMalformedInput,
				fmt.Sprintf("failed to reload config from %s: %v", event.Path, err)))
			return
		}
		if newConfig.Capacity <= 0 || newConfig.Capacity == applied {
			return
		}
		if err := w.rebuild(newConfig.Capacity); err != nil {
			handleInternalError(newError(ErrCodeMalformedInput,
				fmt.Sprintf("rebuild from %s failed: %v", event.Path, err)))
			return
		}
		applied = newConfig.Capacity
	}); err != nil {
		return fmt.Errorf("failed to set up file watcher: %w", err)
	}

	if err := w.watcher.Start(); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	atomic.StoreInt32(&w.enabled, 1)
	return nil
}

// Stop stops watching the configuration file.
func (w *DynamicConfigWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if atomic.LoadInt32(&w.enabled) == 0 {
		return fmt.Errorf("watcher is not started")
	}
	if err := w.watcher.Stop(); err != nil {
		return fmt.Errorf("failed to stop file watcher: %w", err)
	}
	atomic.StoreInt32(&w.enabled, 0)
	return nil
}

// IsRunning reports whether the watcher is currently active.
func (w *DynamicConfigWatcher) IsRunning() bool {
	return atomic.LoadInt32(&w.enabled) != 0
}
