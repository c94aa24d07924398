// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Fields are resolved through the `env` and `envPrefix` tags declared
// on [StructuredConfig] and its nested platform, storage, and workers sections.
//
// Returns a wrapped error when env.Parse fails, e.g. a value cannot be
// converted to the target type.
func parseEnv(cfg any) error {
	err := env.Parse(cfg)
	if err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
