// Package config loads palette's configuration file.
//
// # Overview
//
// palette reads a single TOML file, by default ~/.config/palette/config.toml.
// Every key is optional; a missing file or a blank value falls back to the
// built-in default so palette works against a local color service without
// any setup.
//
// # File Format
//
//	api_url          = "http://127.0.0.1:7000"   # base URL of the color service
//	request_timeout  = "5s"                      # per request, single attempt
//	refresh_interval = "30s"                     # background reload, "0" disables
//	copy_feedback    = "500ms"                   # how long "Copied!" stays visible
//	strict_codes     = false                     # reject codes that are not #rgb/#rrggbb
//	log_dir          = "~/.local/share/palette"  # palette.log and traces.jsonl
//	log_level        = "info"                    # debug, info, warn, error
//	tracing          = false                     # write OpenTelemetry spans to log_dir
//
// Durations use Go's time.ParseDuration syntax. Paths beginning with ~ are
// expanded against the user's home directory.
//
// # Error Handling
//
// Load returns an error for unreadable files, malformed TOML and invalid
// durations. A missing file is not an error.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return fmt.Errorf("load config: %w", err)
//	}
//	client, err := colorapi.NewClient(cfg.APIURL, colorapi.WithTimeout(cfg.RequestTimeout))
package config
