// Package config provides centralized configuration management for the
// remittance processing system. It handles loading configuration from
// multiple sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern REMIT_* for namespacing:
//
//	REMIT_SERVER_PORT=8080
//	REMIT_PATHS_INPUT_DIR=/data/835
//	REMIT_PATHS_RATES_FILE=/data/RATES.xlsx
//	REMIT_LOGGING_LEVEL=info
//	REMIT_PROCESSING_ENABLE_FAIR_HEALTH=true
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Paths.InputDir)
//
// Paths are anchored to the executable directory, never the current working
// directory, so the application behaves the same regardless of where it is
// launched from.
package config
