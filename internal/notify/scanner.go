package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/madanco/crewdeck/pkg/repository"
)

// ReminderScanner walks the job list on an interval and enqueues a
// reminder_due notification for every crew member of a job whose reminder
// date has arrived. Enqueued reminder ids are remembered in-process so a
// reminder fires at most once per server run.
type ReminderScanner struct {
	jobRepo    repository.JobRepo
	notifyRepo repository.NotificationRepo
	logger     *slog.Logger
	interval   time.Duration
	seen       map[string]bool
	stop       chan struct{}
	done       chan struct{}
}

func NewReminderScanner(jr repository.JobRepo, nr repository.NotificationRepo, logger *slog.Logger, interval time.Duration) *ReminderScanner {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderScanner{
		jobRepo:    jr,
		notifyRepo: nr,
		logger:     logger,
		interval:   interval,
		seen:       map[string]bool{},
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (s *ReminderScanner) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.Scan(ctx)
		for {
			select {
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Scan(ctx)
			}
		}
	}()
}

func (s *ReminderScanner) Stop() {
	close(s.stop)
	<-s.done
}

// Scan runs one pass; exported so tests and the init script can trigger it
// without the ticker.
func (s *ReminderScanner) Scan(ctx context.Context) {
	jobs, err := s.jobRepo.ListJobs(ctx)
	if err != nil {
		s.logger.Error("reminder scan: list jobs", "err", err)
		return
	}

	today := time.Now().UTC().Format("2006-01-02")
	for i := range jobs {
		job := &jobs[i]
		for j := range job.Reminders {
			rem := &job.Reminders[j]
			if rem.Date > today || s.seen[rem.ID] {
				continue
			}
			for _, crewID := range job.AssignedCrew {
				if err := EnqueueReminderDue(ctx, s.notifyRepo, job, rem, crewID); err != nil {
					s.logger.Error("enqueue reminder", "err", err, "reminder", rem.ID)
					continue
				}
			}
			s.seen[rem.ID] = true
		}
	}
}
