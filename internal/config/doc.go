// Package config loads drafty's runtime configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/drafty/config.toml (default)
//  3. If the config file doesn't exist, start from defaults
//  4. Apply DRAFTY_* environment variables on top
//
// # TOML Format
//
//	strategy = "structural"   # or "reflective" (default)
//	auto_freeze = true
//	history_limit = 200
//	seed = "~/.config/drafty/seed.yaml"
//	tick = "1s"               # "0s" disables the clock ticker
//	log_file = "~/.local/state/drafty/drafty.log"
//	log_level = "info"
//
// Every field is optional. Tilde expansion is performed for seed and
// log_file.
//
// # Environment
//
// DRAFTY_STRATEGY, DRAFTY_AUTO_FREEZE, DRAFTY_HISTORY_LIMIT, DRAFTY_SEED,
// DRAFTY_TICK, DRAFTY_LOG_FILE and DRAFTY_LOG_LEVEL override the matching
// file keys.
//
// # Error Handling
//
// Missing config files are NOT an error. Unreadable files, TOML syntax
// errors, malformed environment values and out-of-range settings are.
package config
