package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextWorkStatus(t *testing.T) {
	tests := []struct {
		current   WorkStatus
		next      WorkStatus
		completed bool
	}{
		{WorkStatusPending, WorkStatusInProgress, false},
		{WorkStatusInProgress, WorkStatusComplete, true},
		{WorkStatusComplete, WorkStatusInProgress, false}, // reopen
	}

	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			next, completed := NextWorkStatus(tt.current)
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.completed, completed)
		})
	}
}

func TestFormatTimeToResolve(t *testing.T) {
	assert.Equal(t, "0 hours 0 minutes", FormatTimeToResolve(0))
	assert.Equal(t, "0 hours 59 minutes", FormatTimeToResolve(3599))
	assert.Equal(t, "1 hours 0 minutes", FormatTimeToResolve(3600))
	assert.Equal(t, "5 hours 42 minutes", FormatTimeToResolve(5*3600+42*60+30))
}

func TestToComplaintResponseIncludesResolutionTime(t *testing.T) {
	secs := int64(7200)
	c := &Complaint{
		ID:                1,
		WorkStatus:        WorkStatusComplete,
		SLAStatus:         SLACompleted,
		TimeToResolveSecs: &secs,
	}

	resp := ToComplaintResponse(c)
	assert.Equal(t, "2 hours 0 minutes", resp.TimeToResolve)
}

func TestToComplaintResponseWorkerName(t *testing.T) {
	c := &Complaint{ID: 2, Worker: &User{Name: "Asha"}}
	assert.Equal(t, "Asha", ToComplaintResponse(c).WorkerName)

	c.Worker = nil
	assert.Empty(t, ToComplaintResponse(c).WorkerName)
}
