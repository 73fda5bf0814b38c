package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicgrid/backend/internal/models"
)

func TestCheckDeadlinesCountsAndNotifies(t *testing.T) {
	workerID := uuid.New()
	notifier := &recordingNotifier{}

	complaintRepo := &fakeComplaintRepo{
		markWarningsFn: func(ctx context.Context, now time.Time, window time.Duration) (int64, error) {
			assert.Equal(t, 6*time.Hour, window)
			return 3, nil
		},
		markViolationsFn: func(ctx context.Context, now time.Time) ([]models.Complaint, error) {
			return []models.Complaint{
				{ID: 1, WorkerID: &workerID},
				{ID: 2}, // unassigned, nobody to notify
			}, nil
		},
	}

	monitor := NewSLAMonitor(complaintRepo, notifier, 6*time.Hour, time.Minute)

	result, err := monitor.CheckDeadlines(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Warned)
	assert.Equal(t, int64(2), result.Violated)

	require.Len(t, notifier.violated, 1)
	assert.Equal(t, workerID, notifier.violated[0][0])
	assert.Equal(t, uint(1), notifier.violated[0][1])
}

func TestCheckDeadlinesPropagatesErrors(t *testing.T) {
	complaintRepo := &fakeComplaintRepo{
		markWarningsFn: func(ctx context.Context, now time.Time, window time.Duration) (int64, error) {
			return 0, errors.New("db down")
		},
	}

	monitor := NewSLAMonitor(complaintRepo, &recordingNotifier{}, 6*time.Hour, time.Minute)

	_, err := monitor.CheckDeadlines(context.Background())
	assert.Error(t, err)
}

func TestSLAMonitorDefaults(t *testing.T) {
	monitor := NewSLAMonitor(&fakeComplaintRepo{}, &recordingNotifier{}, 0, 0)
	m, ok := monitor.(*slaMonitor)
	require.True(t, ok)
	assert.Equal(t, 6*time.Hour, m.warningWindow)
	assert.Equal(t, 5*time.Minute, m.interval)
}

func TestSLAMonitorStartStop(t *testing.T) {
	monitor := NewSLAMonitor(&fakeComplaintRepo{}, &recordingNotifier{}, time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor.Start(ctx)
	monitor.Start(ctx) // second start is a no-op
	monitor.Stop()
	monitor.Stop() // second stop is a no-op
}
