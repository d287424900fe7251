// Package config provides centralized configuration management for the dashboard.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority), optionally seeded from a .env file
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BIKE_<SECTION>_<FIELD>:
//
//	BIKE_SERVER_PORT=8080
//	BIKE_DATA_DAILY_SOURCE=./testdata/day.csv
//	BIKE_DATA_STRICT_CODES=true
//	BIKE_TELEMETRY_TRACE_EXPORTER=stdout
//	BIKE_LOGGING_LEVEL=debug
//
// # Configuration File
//
// The file is read from BIKE_CONFIG_FILE when set, otherwise from config.yaml
// or configs/config.yaml:
//
//	server:
//	  port: 8080
//	data:
//	  daily_source: https://example.org/day.csv
//	  hourly_source: https://example.org/hour.csv
//	  fetch_timeout: 30s
package config
