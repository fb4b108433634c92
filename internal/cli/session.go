package cli

import (
	"fmt"

	"github.com/sadopc/levelup/internal/config"
	"github.com/sadopc/levelup/internal/logging"
	"github.com/sadopc/levelup/internal/store"
	"github.com/sadopc/levelup/internal/tracker"
)

// session is an opened database plus the tracker on top of it.
type session struct {
	cfg     config.Config
	tracker *tracker.Tracker
}

func openSession(opts *options) (*session, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}

	log, logFile, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		logFile.Close()
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("database opened", "path", cfg.DBPath)

	cleanup := func() {
		_ = s.Close()
		_ = logFile.Close()
	}
	return &session{cfg: cfg, tracker: tracker.New(s, tracker.WithLogger(log))}, cleanup, nil
}
