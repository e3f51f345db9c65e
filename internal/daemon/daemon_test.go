package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/raoulx24/dotfile-archiver/internal/config"
	"github.com/raoulx24/dotfile-archiver/internal/logging"
)

func TestStartRequiresSchedule(t *testing.T) {
	cfg := &config.Config{}
	d := New("archiver.yaml", cfg, logging.Nop{}, func(ctx context.Context, cfg *config.Config) error {
		return nil
	})

	assert.Error(t, d.Start(context.Background()))
}

func TestStartRejectsInvalidCron(t *testing.T) {
	cfg := &config.Config{
		Schedule: config.ScheduleConfig{Enabled: true, Cron: "not a cron expr"},
	}
	d := New("archiver.yaml", cfg, logging.Nop{}, func(ctx context.Context, cfg *config.Config) error {
		return nil
	})

	assert.Error(t, d.Start(context.Background()))
}

func TestStartStopsOnContextDone(t *testing.T) {
	cfg := &config.Config{
		Schedule: config.ScheduleConfig{Enabled: true, Cron: "0 3 * * *"},
	}
	d := New("archiver.yaml", cfg, logging.Nop{}, func(ctx context.Context, cfg *config.Config) error {
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- d.Start(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop")
	}
}
