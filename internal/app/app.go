// Package app wires the storefront together: configuration, durable
// storage, the cart and session stores, the API client, and the command
// surface of the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/haugland/velour/internal/api"
	"github.com/haugland/velour/internal/cart"
	"github.com/haugland/velour/internal/persist"
	"github.com/haugland/velour/internal/session"
	"github.com/haugland/velour/internal/storage"
)

// env holds the wired application dependencies for a single invocation.
type env struct {
	cfg      *Config
	lg       *zap.Logger
	client   *api.Client
	carts    *cart.Store
	sessions *session.Store
	adapter  *persist.Adapter
	store    storage.Store
}

// setup creates all dependencies: the selected storage backend, hydrated
// stores with the persistence adapter attached, and the instrumented API
// client. It is the single wiring point for the application.
func setup(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) (*env, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	carts := cart.NewStore()
	sessions := session.NewStore()

	adapter := persist.New(store, lg)
	if err := adapter.Load(ctx, carts, sessions); err != nil {
		// A corrupt record should not brick the storefront: start fresh and
		// let the next mutation overwrite it.
		lg.Warn("Discarding unreadable persisted state", zap.Error(err))
	}
	adapter.Attach(carts, sessions)

	client := api.NewClient(api.ClientConfig{
		BaseURL:        cfg.APIBaseURL,
		Tokens:         sessions,
		Timeout:        cfg.HTTPTimeout,
		TracerProvider: m.TracerProvider(),
	})

	return &env{
		cfg:      cfg,
		lg:       lg,
		client:   client,
		carts:    carts,
		sessions: sessions,
		adapter:  adapter,
		store:    store,
	}, nil
}

// close flushes pending writes and releases the storage backend.
func (e *env) close() {
	e.adapter.Close()
	if err := e.store.Close(); err != nil {
		e.lg.Warn("Closing storage failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "", "file":
		dir := cfg.StateDir
		if dir == "" {
			var err error
			dir, err = storage.DefaultDir()
			if err != nil {
				return nil, err
			}
		}
		return storage.NewFileStore(dir)
	case "redis":
		return storage.NewRedisStore(ctx, cfg.Storage.RedisURL)
	default:
		return nil, errors.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}

const usage = `velour — storefront client

Usage:
  storefront list [-min-price N] [-max-price N] [-min-rating N] [-tags a,b] [-sort MODE]
  storefront show <product-id>
  storefront search <query>
  storefront cart <show|add|rm|qty|clear> [args]
  storefront login -email ADDR -password PASS
  storefront register -name NAME -email ADDR -password PASS [profile flags]
  storefront logout
  storefront checkout
  storefront shop

Sort modes: default, price-low, price-high, rating-high, name-asc, name-desc.
`

// Run dispatches the CLI command in args against a fully wired environment.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config, args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	e, err := setup(ctx, lg, m, cfg)
	if err != nil {
		return errors.Wrap(err, "setup")
	}
	defer e.close()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return runList(ctx, e, rest)
	case "show":
		if len(rest) != 1 {
			return errors.New("usage: show <product-id>")
		}
		return runShow(ctx, e, rest[0])
	case "search":
		if len(rest) == 0 {
			return errors.New("usage: search <query>")
		}
		return runSearch(ctx, e, rest)
	case "cart":
		return runCart(ctx, e, rest)
	case "login":
		return runLogin(ctx, e, rest)
	case "register":
		return runRegister(ctx, e, rest)
	case "logout":
		e.sessions.Logout()
		fmt.Println("Logged out.")
		return nil
	case "checkout":
		return runCheckout(ctx, e)
	case "shop":
		return runShop(ctx, e)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return errors.Errorf("unknown command: %q", cmd)
	}
}
