package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"signa/internal/api"
	"signa/internal/domain"
	"signa/internal/services/signs"
	"signa/internal/services/users"
	"signa/internal/session"
	"signa/internal/store"
	"signa/internal/wizard"
)

// Wire bundles the storage, session, client and services for the CLI.
type Wire struct {
	Config  *Config
	Log     *zap.Logger
	Storage *store.FileStorage
	Session *session.Store
	API     *api.Client
	Signs   *signs.Service
	Users   *users.Service
	HTTP    *http.Client

	nav domain.Navigator
}

// NewWire constructs the dependency graph from cfg and loads the persisted
// session. nav receives the session's and the wizard's navigation requests.
func NewWire(ctx context.Context, cfg *Config, log *zap.Logger, nav domain.Navigator) (*Wire, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, fmt.Errorf("creating home %s: %w", cfg.Home, err)
	}

	// Sealed when a passphrase is configured.
	fs := store.NewFileStorage(cfg.Home)
	if cfg.Passphrase != "" {
		fs = store.NewSealedFileStorage(cfg.Home, cfg.Passphrase)
	}

	sess := session.New(fs, nav, log.Named("session"))
	if err := sess.Init(ctx); err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	client := api.New(cfg.APIURL, httpClient, sess, log.Named("api"))

	return &Wire{
		Config:  cfg,
		Log:     log,
		Storage: fs,
		Session: sess,
		API:     client,
		Signs:   signs.New(client, sess, signs.Options{Log: log.Named("signs")}),
		Users:   users.New(client, sess, log.Named("users")),
		HTTP:    httpClient,
		nav:     nav,
	}, nil
}

// NewFlow returns a creation wizard bound to the session and client.
func (w *Wire) NewFlow() *wizard.Flow {
	return wizard.New(w.API, w.Session, w.nav, wizard.Options{
		RedirectDelay: w.Config.RedirectDelay,
		Log:           w.Log.Named("wizard"),
	})
}

// Close releases pending timers and in-memory session state.
func (w *Wire) Close() {
	w.Signs.Close()
	w.Session.Close()
	_ = w.Log.Sync()
}
