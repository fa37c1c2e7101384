// config_test.go
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package binlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidateRejectsTinyCapacity(t *testing.T) {
	c := &Config{Capacity: 1, Handler: NewMemHandler()}
	require.Error(t, c.Validate())
}

func TestConfigValidateRejectsNilHandler(t *testing.T) {
	c := &Config{Capacity: 4096}
	require.Error(t, c.Validate())
}

func TestConfigBuildProducesWorkingLogger(t *testing.T) {
	reg := NewRegistry()
	c := &Config{Capacity: 4096, Handler: NewMemHandler(), Registry: reg}
	l, err := c.Build()
	require.NoError(t, err)
	require.Same(t, reg, l.Registry())
}

func TestConfigCloneIsIndependent(t *testing.T) {
	c := &Config{Capacity: 4096}
	clone := c.Clone()
	clone.Capacity = 8192
	require.Equal(t, 4096, c.Capacity)
	require.Equal(t, 8192, clone.Capacity)
}

func TestLoadConfigFromJSONReadsCapacityAndOutput(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.bin")
	cfgPath := filepath.Join(dir, "cfg.json")

	body, err := json.Marshal(map[string]any{
		"capacity": 8192,
		"output":   outPath,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, body, 0600))

	config, err := LoadConfigFromJSON(cfgPath)
	require.NoError(t, err)
	require.Equal(t, 8192, config.Capacity)
	require.NotNil(t, config.Handler)
}

func TestLoadConfigFromJSONRejectsTraversal(t *testing.T) {
	_, err := LoadConfigFromJSON("../../etc/passwd")
	require.Error(t, err)
}

func TestLoadConfigFromEnvReadsCapacity(t *testing.T) {
	t.Setenv("BINLOG_CAPACITY", "2048")
	t.Setenv("BINLOG_OUTPUT", "")

	config, err := LoadConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, 2048, config.Capacity)
}
