// Copyright © 2025 Texelcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Built-in defaults for the engine configuration.

package config

// applyDefaults fills missing keys without overwriting user values.
func applyDefaults(cfg Config) {
	cfg.RegisterDefaults("render", Section{
		"tick_ms":    33,
		"color_mode": "auto",
	})
	cfg.RegisterDefaults("input", Section{
		"mouse": "click",
	})
	cfg.RegisterDefaults("session", Section{
		"snapshot":      false,
		"snapshot_path": "",
	})
}
