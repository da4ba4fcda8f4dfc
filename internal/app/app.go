// Package app is the composition root: it wires config, snapshot store,
// encryption, Store and Actor into one embeddable application value.
package app

import (
	"fmt"
	"os"
	"time"

	"organ-go/internal/blob"
	"organ-go/internal/config"
	"organ-go/internal/content"
	"organ-go/internal/encryption"
	"organ-go/internal/store"
)

// App owns the fully wired actor and the resources behind it. The caller
// must call Close when done.
type App struct {
	cfg     *config.Config
	blobs   blob.Store
	actor   *store.Actor
	logFile *os.File
}

// New creates a fully wired App from the given config. The sink may be nil;
// when set it receives one Event per successful mutating message.
func New(cfg *config.Config, sink store.EventSink) (*App, error) {
	blobs, err := blob.NewStoreFromConfig(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot store: %w", err)
	}

	codec, err := encryption.NewCodecFromConfig(cfg.Encryption)
	if err != nil {
		blobs.Close()
		return nil, fmt.Errorf("creating encryption codec: %w", err)
	}
	if codec != nil {
		blobs = blob.NewEncryptedStore(blobs, codec)
	}

	sessionID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, sessionID)
	if err != nil {
		blobs.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	s := store.NewStore(blobs, log, content.RealClock{}, content.UUIDGenerator{})
	s.SetWriteValidation(cfg.Validation.OnWrite)

	return &App{
		cfg:     cfg,
		blobs:   blobs,
		actor:   store.NewActor(s, log, sink),
		logFile: logFile,
	}, nil
}

// Actor returns the message-processing entry point.
func (a *App) Actor() *store.Actor { return a.actor }

// Close releases the snapshot store and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.blobs.Close(); err != nil {
		firstErr = fmt.Errorf("closing snapshot store: %w", err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}
