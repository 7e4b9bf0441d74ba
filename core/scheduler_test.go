package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	zc, logs := observer.New(zapcore.InfoLevel)
	return zap.New(zc), logs
}

func schedulerConfig(schedule string) *contract.Config {
	return &contract.Config{
		DataDir:     "data",
		SummaryPath: "data/user_monthly_summary.csv",
		Output:      schema.TextOut,
		Schedule:    schedule,
	}
}

func TestNewSummarySchedulerRejectsBadSchedule(t *testing.T) {
	logger, _ := observed()
	_, err := NewSummaryScheduler(schedulerConfig("every tuesday"), nil, logger)
	assert.ErrorContains(t, err, `invalid schedule "every tuesday"`)
}

func TestSummarySchedulerTick(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		level   zapcore.Level
	}{
		{"success", nil, "summary rebuilt", zapcore.InfoLevel},
		{"failure", errors.New("missing users"), "summary rebuild failed", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := observed()
			s, err := NewSummaryScheduler(schedulerConfig("@daily"), nil, logger)
			require.NoError(t, err)

			var suppressed bool
			s.run = func(ctx context.Context, _ *contract.Config, _ contract.CacheManager) error {
				suppressed = shouldSuppressHeader(ctx)
				return tt.err
			}
			s.tick()

			assert.True(t, suppressed, "scheduled runs never print headers")
			entries := logs.FilterMessage(tt.message).All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)

			fields := entries[0].ContextMap()
			assert.Equal(t, "@daily", fields["schedule"])
			assert.Equal(t, "data/user_monthly_summary.csv", fields["output_file"])
			if tt.err != nil {
				assert.Equal(t, "missing users", fields["error"])
			}
		})
	}
}

func TestSummarySchedulerRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger, logs := observed()
	s, err := NewSummaryScheduler(schedulerConfig("@every 1s"), nil, logger)
	require.NoError(t, err)

	ran := make(chan struct{}, 1)
	s.run = func(context.Context, *contract.Config, contract.CacheManager) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled rebuild never ran")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, 1, logs.FilterMessage("summary scheduler started").Len())
	assert.Equal(t, 1, logs.FilterMessage("summary scheduler stopped").Len())
}

func TestSummarySchedulerRunCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger, logs := observed()
	s, err := NewSummaryScheduler(schedulerConfig("@hourly"), nil, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Run(ctx))
	assert.Zero(t, logs.FilterMessage("summary rebuilt").Len())
}
