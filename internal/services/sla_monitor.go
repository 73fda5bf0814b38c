package services

import (
	"context"
	"log"
	"time"

	"github.com/civicgrid/backend/internal/repository"
)

// SLAMonitor handles background deadline tracking: warning escalation
// for complaints nearing their deadline and violation marking for those
// past it.
type SLAMonitor interface {
	Start(ctx context.Context)
	Stop()
	CheckDeadlines(ctx context.Context) (*SLASweepResult, error)
}

type SLASweepResult struct {
	Warned   int64 `json:"warned"`
	Violated int64 `json:"violated"`
}

type slaMonitor struct {
	complaintRepo repository.ComplaintRepository
	notifications NotificationService
	warningWindow time.Duration
	interval      time.Duration
	stopChan      chan struct{}
	running       bool
}

func NewSLAMonitor(
	complaintRepo repository.ComplaintRepository,
	notifications NotificationService,
	warningWindow time.Duration,
	checkInterval time.Duration,
) SLAMonitor {
	if checkInterval == 0 {
		checkInterval = 5 * time.Minute
	}
	if warningWindow == 0 {
		warningWindow = 6 * time.Hour
	}

	return &slaMonitor{
		complaintRepo: complaintRepo,
		notifications: notifications,
		warningWindow: warningWindow,
		interval:      checkInterval,
		stopChan:      make(chan struct{}),
	}
}

func (m *slaMonitor) Start(ctx context.Context) {
	if m.running {
		return
	}

	m.running = true
	log.Printf("SLA monitor started with interval: %v", m.interval)

	go func() {
		if _, err := m.CheckDeadlines(ctx); err != nil {
			log.Printf("Initial SLA check failed: %v", err)
		}

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := m.CheckDeadlines(ctx); err != nil {
					log.Printf("SLA check failed: %v", err)
				}
			case <-m.stopChan:
				log.Println("SLA monitor stopped")
				return
			case <-ctx.Done():
				log.Println("SLA monitor context cancelled")
				return
			}
		}
	}()
}

func (m *slaMonitor) Stop() {
	if !m.running {
		return
	}

	m.running = false
	close(m.stopChan)
}

// CheckDeadlines runs one sweep: escalate On Track complaints inside the
// warning window, then mark past-deadline complaints Violated and notify
// their workers.
func (m *slaMonitor) CheckDeadlines(ctx context.Context) (*SLASweepResult, error) {
	now := time.Now()
	result := &SLASweepResult{}

	warned, err := m.complaintRepo.MarkSLAWarnings(ctx, now, m.warningWindow)
	if err != nil {
		return nil, err
	}
	result.Warned = warned

	violated, err := m.complaintRepo.MarkSLAViolations(ctx, now)
	if err != nil {
		return nil, err
	}
	result.Violated = int64(len(violated))

	for _, c := range violated {
		if c.WorkerID != nil {
			m.notifications.NotifySLAViolated(ctx, *c.WorkerID, c.ID)
		}
	}

	if result.Warned > 0 || result.Violated > 0 {
		log.Printf("SLA sweep: %d warned, %d violated", result.Warned, result.Violated)
	}
	return result, nil
}
