package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/palette/internal/clipboard"
	"github.com/five82/palette/internal/colorapi"
	"github.com/five82/palette/internal/config"
	"github.com/five82/palette/internal/logging"
	"github.com/five82/palette/internal/prefs"
	"github.com/five82/palette/internal/registry"
	"github.com/five82/palette/internal/tracing"
	"github.com/five82/palette/internal/ui"
)

// Options configure the palette application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/palette/prefs.toml
	PollEvery  time.Duration // overrides refresh_interval when positive
	Debug      bool          // log at debug level regardless of config
}

// Env holds everything built from config for one run.
type Env struct {
	Config config.Config
	Prefs  prefs.Prefs
	Client *colorapi.Client
	Store  *registry.Store

	closers []func()
}

// Setup loads config and prefs and builds the logger, tracer, client and
// store. Store notifications go to notifier. Callers must Close the Env.
func Setup(opts Options, notifier registry.NotificationSink) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	env := &Env{Config: cfg}

	level := logging.ParseLevel(cfg.LogLevel)
	if opts.Debug {
		level = logging.LevelDebug
	}
	closeLog, err := logging.Init(cfg.LogPath(), level)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	env.closers = append(env.closers, closeLog)

	provider, err := tracing.NewProvider(cfg.Tracing, cfg.TracePath())
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	env.closers = append(env.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logging.Warn(logging.CatConfig, "tracing shutdown failed", "error", err)
		}
	})

	env.Prefs, err = prefs.Load(opts.PrefsPath)
	if err != nil {
		logging.Warn(logging.CatConfig, "prefs ignored, using defaults", "error", err)
	}

	client, err := colorapi.NewClient(cfg.APIURL,
		colorapi.WithTimeout(cfg.RequestTimeout),
		colorapi.WithTracer(provider.Tracer()),
	)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("init color client: %w", err)
	}
	env.Client = client

	store, err := registry.New(registry.Options{
		Service:        client,
		Clipboard:      clipboard.New(),
		Notifier:       notifier,
		CopyFeedback:   cfg.CopyFeedback,
		StrictCodes:    cfg.StrictCodes,
		SortByCategory: env.Prefs.SortByCategory,
	})
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}
	env.Store = store
	env.closers = append(env.closers, store.Close)

	logging.Info(logging.CatConfig, "palette started",
		"api_url", client.BaseURL(),
		"refresh", cfg.RefreshInterval,
		"strict_codes", cfg.StrictCodes,
		"tracing", provider.Enabled(),
	)
	return env, nil
}

// Close releases resources in reverse order of creation.
func (e *Env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// Run boots the palette TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	notifier := ui.NewNotifier(16)
	env, err := Setup(opts, notifier)
	if err != nil {
		return err
	}
	defer env.Close()

	interval := env.Config.RefreshInterval
	if opts.PollEvery > 0 {
		interval = opts.PollEvery
	}
	StartPoller(ctx, env.Store, interval)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     env.Store,
		Notices:   notifier.Notices(),
		Prefs:     env.Prefs,
		PrefsPath: opts.PrefsPath,
	})
}
