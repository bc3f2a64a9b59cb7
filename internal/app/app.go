package app

import (
	"fmt"
	"os"
	"time"

	"wsnap-go/internal/config"
	"wsnap-go/internal/database"
	"wsnap-go/internal/server"
	"wsnap-go/internal/snap"
	"wsnap-go/internal/vault"
)

// WSnapApp is the application layer between the CLI and the snapshot service.
// It constructs all dependencies from config, exposes high-level operations,
// and manages the store lifecycle on Close.
type WSnapApp struct {
	cfg     *config.Config
	store   snap.Store
	vault   snap.Vault
	service *snap.Service
	logger  snap.Logger
	logFile *os.File
}

// NewWSnapApp creates a fully wired WSnapApp from the given config.
// operation identifies the CLI command being run (e.g. "Backup", "Serve")
// and labels every log line of this invocation.
// The caller must call Close when done.
func NewWSnapApp(cfg *config.Config, operation string) (*WSnapApp, error) {
	store, err := database.NewStoreFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connecting to record store: %w", err)
	}

	// An unset vault type means mirroring is off; that is the common,
	// single-machine setup.
	var v snap.Vault
	if cfg.Vault.Type != "" {
		v, err = vault.NewVaultFromConfig(cfg.Vault)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("creating vault: %w", err)
		}
	}

	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	adapted := &slogAdapter{l: logger}
	svc := snap.NewService(store, v, snap.Paths{
		WorkspaceRoot: cfg.Paths.WorkspaceRoot,
		MemoryDir:     cfg.Paths.MemoryDir,
		ConfigFile:    cfg.Paths.ConfigFile,
	}, cfg.HostID, adapted, snap.RealClock{})

	return &WSnapApp{
		cfg:     cfg,
		store:   store,
		vault:   v,
		service: svc,
		logger:  adapted,
		logFile: logFile,
	}, nil
}

// Backup snapshots the configured paths under the given name and returns the
// new record. An empty name uses the default.
func (a *WSnapApp) Backup(name string) (*snap.Record, error) {
	return a.service.Backup(name)
}

// Restore writes the snapshot with the given id back onto disk.
func (a *WSnapApp) Restore(id int64) error {
	return a.service.Restore(id)
}

// List returns up to limit records, most recent first.
func (a *WSnapApp) List(limit int) ([]*snap.Record, error) {
	return a.service.List(limit)
}

// Serve starts the HTTP API and dashboard, blocking until the listener
// fails. An empty addr falls back to the configured server address.
func (a *WSnapApp) Serve(addr string) error {
	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	srv := server.New(a.service, a.cfg.Paths.WorkspaceRoot, a.logger)
	a.logger.Info("server listening", "addr", addr)
	return srv.ListenAndServe(addr)
}

// Close closes the record store and the log file.
func (a *WSnapApp) Close() error {
	var firstErr error

	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing record store: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
