// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_AllFields(t *testing.T) {
	path := writeTempJSON(t, `{
		"platform": {
			"base_url": "https://api.direct.example.com/json/v5",
			"sandbox": true,
			"request_timeout": "45s",
			"retry_attempts": 6,
			"retry_base_delay": "1s"
		},
		"storage": {
			"db": {
				"driver": "sqlite3",
				"dsn": "./replica.db"
			}
		},
		"workers": {
			"sync_interval": "10m",
			"stats_disabled": true
		}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.direct.example.com/json/v5", cfg.Platform.BaseURL)
	assert.True(t, cfg.Platform.Sandbox)
	assert.Equal(t, 45*time.Second, cfg.Platform.RequestTimeout)
	assert.Equal(t, uint64(6), cfg.Platform.RetryAttempts)
	assert.Equal(t, time.Second, cfg.Platform.RetryBaseDelay)
	assert.Equal(t, "sqlite3", cfg.Storage.DB.Driver)
	assert.Equal(t, "./replica.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 10*time.Minute, cfg.Workers.SyncInterval)
	assert.True(t, cfg.Workers.StatsDisabled)
}

func TestParseJSON_NumericDuration(t *testing.T) {
	// durations may also arrive as plain nanosecond numbers
	path := writeTempJSON(t, `{"workers": {"sync_interval": 60000000000}}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.Workers.SyncInterval)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON("/no/such/file.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_MalformedBody(t *testing.T) {
	path := writeTempJSON(t, `{"platform": `)

	_, err := parseJSON(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"90s"`)))
	assert.Equal(t, Duration(90*time.Second), d)

	require.NoError(t, d.UnmarshalJSON([]byte(`1000000`)))
	assert.Equal(t, Duration(time.Millisecond), d)

	require.Error(t, d.UnmarshalJSON([]byte(`"soon"`)))
}
