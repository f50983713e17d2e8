// Package config provides configuration management for the AI hub.
//
// Configuration is loaded from an optional YAML file, completed with
// defaults, overridden by environment variables, and validated:
//
//	if err := config.LoadEnvFile(""); err != nil { // optional .env
//	    return err
//	}
//	cfg, err := config.LoadConfigWithEnvOverrides("aihub.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention AIHUB_SECTION_FIELD:
//
//   - AIHUB_GATEWAY_MODELS overrides gateway.models (comma separated)
//   - AIHUB_GATEWAY_ATTEMPT_TIMEOUT overrides gateway.attempt_timeout
//   - AIHUB_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - AIHUB_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// The credential is read from AIHUB_API_KEY, then OPENROUTER_API_KEY, then
// VITE_OPENROUTER_API_KEY, then gateway.api_key. A missing credential is not
// a load error.
//
// # Hot Reload
//
// Watcher observes the configuration file with fsnotify and hands every valid
// new Config to a callback after a debounce interval.
package config
