// Package app wires palette together.
//
// # Overview
//
// This package is the composition root. It reads configuration, builds the
// pieces the registry needs, and hands them to the TUI or to a one-shot CLI
// command.
//
//	┌──────────────┐
//	│   Setup()    │
//	└──────┬───────┘
//	       ├─────> config.Load()          ~/.config/palette/config.toml
//	       ├─────> logging.Init()         ~/.local/share/palette/palette.log
//	       ├─────> tracing.NewProvider()  noop unless tracing = true
//	       ├─────> prefs.Load()           theme, sort order
//	       ├─────> colorapi.NewClient()   HTTP client for the color service
//	       └─────> registry.New()         store with clipboard + notifier
//
//	┌──────────────┐
//	│    Run()     │ Setup, then
//	└──────┬───────┘
//	       ├─────> StartPoller()          periodic store.Load
//	       └─────> ui.Run()               blocks until quit
//
// # Polling
//
// The poller reloads the store every refresh_interval (30s by default, 0
// disables it, --poll overrides it). It is not a retry mechanism: each tick
// is one ordinary Load, and a failed Load leaves the records as they were
// and notifies the user like any other failure.
//
// # Shutdown
//
// Env.Close releases resources in reverse order: the store's timer and
// subscriptions, then the tracer (flushing spans), then the log file.
package app
