// Package config loads runtime configuration for the SeNiko CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with --config (see LoadJSON).
//  3. Environment: SENIKO_SERVER_URL, SENIKO_CLIENT_TIMEOUT.
//  4. Command-line flags --server and --timeout, bound by the cobra root
//     command, which override earlier values.
//
// # JSON schema
//
// The JSON loader uses timex.Duration, so the timeout can be either a string
// like "5s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "timeout": "10s"
//	}
package config
