package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/dotfile-archiver/internal/config"
	"github.com/raoulx24/dotfile-archiver/internal/daemon"
	"github.com/raoulx24/dotfile-archiver/internal/orchestrator"
	"github.com/raoulx24/dotfile-archiver/internal/retention"
	"github.com/raoulx24/dotfile-archiver/internal/run"
)

func runFull(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Units) == 0 {
		return fmt.Errorf("no generation units configured in %s", configPath)
	}

	ts := run.NewTimestamp(time.Now())
	if flagTimestamp != "" {
		if _, err := run.ParseTimestamp(flagTimestamp); err != nil {
			return err
		}
		ts = run.Timestamp(flagTimestamp)
	}

	a, err := buildApp(cfg, configPath, ts.String())
	if err != nil {
		return err
	}
	defer a.close()

	res := a.orch.Run(context.Background(), a.reg.Names(), orchestrator.Options{
		BackupEnabled: true,
		Timestamp:     ts,
	})
	return reportResult(res)
}

func runSingle(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := loadConfig()
	if err != nil {
		return err
	}

	ts := run.NewTimestamp(time.Now())

	a, err := buildApp(cfg, configPath, ts.String())
	if err != nil {
		return err
	}
	defer a.close()

	res := a.orch.Run(context.Background(), []string{args[0]}, orchestrator.Options{
		BackupEnabled: false,
		Timestamp:     ts,
	})
	return reportResult(res)
}

func reportResult(res orchestrator.Result) error {
	if res.State == orchestrator.Succeeded {
		return nil
	}
	if res.FailedUnit != "" {
		return fmt.Errorf("run failed at unit %q (position %d): %w", res.FailedUnit, res.FailedIndex+1, res.Err)
	}
	return res.Err
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := buildApp(cfg, configPath, "")
	if err != nil {
		return err
	}
	defer a.close()

	snaps, err := a.ret.List(a.paths.BackupRoot)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("no backups")
		return nil
	}

	for _, s := range snaps {
		created := "unknown age"
		if s.KnownAge {
			created = s.CreatedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%-20s %-20s %10s  %d artifacts\n",
			s.Name, created, retention.FormatSize(s.SizeBytes), s.Artifacts)
	}
	return nil
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := buildApp(cfg, configPath, "")
	if err != nil {
		return err
	}
	defer a.close()

	if len(args) == 1 {
		removed, err := a.ret.RemoveByName(a.paths.BackupRoot, args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("backup %q not found", args[0])
		}
		fmt.Printf("removed %s\n", args[0])
		return nil
	}

	rep, err := a.ret.Sweep(context.Background(), a.paths.BackupRoot, time.Now(), flagDryRun)
	if err != nil {
		return err
	}

	verb := "removed"
	if flagDryRun {
		verb = "would remove"
	}
	fmt.Printf("examined=%d %s=%d kept=%d\n", rep.Examined, verb, rep.Removed, rep.Kept)
	return nil
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	base, err := buildApp(cfg, configPath, "daemon")
	if err != nil {
		return err
	}
	defer base.close()

	runOnce := func(ctx context.Context, cfg *config.Config) error {
		if len(cfg.Units) == 0 {
			return fmt.Errorf("no generation units configured")
		}

		ts := run.NewTimestamp(time.Now())
		a, err := buildApp(cfg, configPath, ts.String())
		if err != nil {
			return err
		}
		defer a.close()

		res := a.orch.Run(ctx, a.reg.Names(), orchestrator.Options{
			BackupEnabled: true,
			Timestamp:     ts,
		})
		return reportResult(res)
	}

	d := daemon.New(configPath, cfg, base.log, runOnce)
	return d.Start(ctx)
}
