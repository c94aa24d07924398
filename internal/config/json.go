package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations, so a config file can write "30s" instead of
// nanosecond integers.
type StructuredJSONConfig struct {
	Platform struct {
		BaseURL        string   `json:"base_url"`
		Sandbox        bool     `json:"sandbox"`
		RequestTimeout Duration `json:"request_timeout"`
		RetryAttempts  uint64   `json:"retry_attempts"`
		RetryBaseDelay Duration `json:"retry_base_delay"`
	} `json:"platform,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Workers struct {
		SyncInterval  Duration `json:"sync_interval"`
		StatsDisabled bool     `json:"stats_disabled"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Platform: Platform{
			BaseURL:        jsonCfg.Platform.BaseURL,
			Sandbox:        jsonCfg.Platform.Sandbox,
			RequestTimeout: time.Duration(jsonCfg.Platform.RequestTimeout),
			RetryAttempts:  jsonCfg.Platform.RetryAttempts,
			RetryBaseDelay: time.Duration(jsonCfg.Platform.RetryBaseDelay),
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Workers: Workers{
			SyncInterval:  time.Duration(jsonCfg.Workers.SyncInterval),
			StatsDisabled: jsonCfg.Workers.StatsDisabled,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
