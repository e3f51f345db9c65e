package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/raoulx24/dotfile-archiver/internal/backup"
	"github.com/raoulx24/dotfile-archiver/internal/config"
	"github.com/raoulx24/dotfile-archiver/internal/fs"
	"github.com/raoulx24/dotfile-archiver/internal/logging"
	"github.com/raoulx24/dotfile-archiver/internal/orchestrator"
	"github.com/raoulx24/dotfile-archiver/internal/paths"
	"github.com/raoulx24/dotfile-archiver/internal/registry"
	"github.com/raoulx24/dotfile-archiver/internal/retention"
)

// app wires the components for one invocation.
type app struct {
	cfg   *config.Config
	paths paths.Paths
	log   *logging.RunLogger
	reg   *registry.Registry
	ret   *retention.Engine
	orch  *orchestrator.Orchestrator
}

// loadConfig resolves the config flag to an absolute path and loads it.
// Relative directories in the config resolve against the file's directory.
func loadConfig() (*config.Config, string, error) {
	abs, err := filepath.Abs(flagConfig)
	if err != nil {
		return nil, "", fmt.Errorf("resolving config path: %w", err)
	}

	cfg, err := config.Load(abs)
	if err != nil {
		return nil, "", err
	}
	return cfg, abs, nil
}

// buildApp assembles paths, logger and engines for a run. runName becomes
// the log file stem; pass the run timestamp for orchestrated runs.
func buildApp(cfg *config.Config, configPath, runName string) (*app, error) {
	machineID, err := paths.MachineID()
	if err != nil {
		return nil, err
	}

	p, err := paths.Resolve(cfg, machineID, filepath.Dir(configPath))
	if err != nil {
		return nil, err
	}

	logger := logging.New(os.Stderr, logging.Options{
		Verbose: flagVerbose,
		LogDir:  p.LogDir,
		RunName: runName,
	})

	filesystem := fs.New()

	days := cfg.Retention()
	if flagDays >= 0 {
		days = flagDays
	}
	ret, err := retention.New(days, filesystem, logger)
	if err != nil {
		logger.Close()
		return nil, err
	}

	reg := registry.FromConfig(cfg.Units)
	capt := backup.NewCapturer(filesystem, logger)

	return &app{
		cfg:   cfg,
		paths: p,
		log:   logger,
		reg:   reg,
		ret:   ret,
		orch:  orchestrator.New(reg, capt, ret, p, logger, version),
	}, nil
}

func (a *app) close() {
	_ = a.log.Close()
}
