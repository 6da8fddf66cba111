// Package config loads farmer's runtime settings.
//
// # Overview
//
// Settings say where things live: the Steamworks runtime bridge socket, the
// Steam client's pid file, the persisted App ID file, the log file and an
// optional Prometheus textfile for session metrics. They also set the poll
// interval and log level. None of them are required; farmer runs with the
// built-in defaults on a stock Steam install.
//
// The App ID itself is not a setting. It lives in steam_appid.txt and is
// handled by the appidfile package.
//
// # Layering
//
// Load merges, lowest priority first:
//
//  1. Built-in defaults (Defaults)
//  2. The TOML file at the given path, or ~/.config/farmer/config.toml
//  3. FARMER_* environment variables
//
// Command-line flags are applied last by the caller through Config.Override.
// Empty values never override a lower layer.
//
// # Default Values
//
//   - Config file: ~/.config/farmer/config.toml
//   - Runtime socket: ~/.local/share/farmer/steamworks.sock
//   - Steam pid file: ~/.steam/steam.pid
//   - App ID file: steam_appid.txt (working directory)
//   - Poll interval: 5s
//   - Log file: ~/.local/share/farmer/farmer.log
//   - Log level: info
//   - Metrics file: none (metrics are not written)
//
// # TOML Format
//
//	runtime_socket = "~/.local/share/farmer/steamworks.sock"
//	steam_pid_file = "~/.steam/steam.pid"
//	appid_file = "steam_appid.txt"
//	poll_interval = "5s"
//	log_file = "~/.local/share/farmer/farmer.log"
//	log_level = "info"
//	metrics_file = "/var/lib/node_exporter/textfile/farmer.prom"
//
// # Environment
//
// FARMER_RUNTIME_SOCKET, FARMER_STEAM_PID_FILE, FARMER_APPID_FILE,
// FARMER_POLL_INTERVAL (Go duration syntax), FARMER_LOG_FILE,
// FARMER_LOG_LEVEL, FARMER_METRICS_FILE.
//
// # Error Handling
//
// A missing config file falls back to defaults. An unreadable or invalid
// file, an unparsable environment value, or a non-positive poll interval
// is returned as an error.
package config
