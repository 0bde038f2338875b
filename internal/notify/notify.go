// Package notify delivers communication and reminder events to recipients
// through a persisted queue drained by a worker pool. Delivery is a log sink
// for now; the queue semantics (retry, backoff, dead-letter) are what matter.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/madanco/crewdeck/pkg/models"
	"github.com/madanco/crewdeck/pkg/repository"
)

const (
	TypeCommunicationCreated  = "notify.communication_created"
	TypeCommunicationResolved = "notify.communication_resolved"
	TypeReminderDue           = "notify.reminder_due"

	// RecipientAdmins fans out to whoever holds the admin role at delivery time.
	RecipientAdmins = "role:admin"
)

const defaultMaxAttempts = 3

// Handler processes one claimed notification.
type Handler func(ctx context.Context, n *models.Notification) error

// ErrMaxAttempts indicates the notification reached max attempts
var ErrMaxAttempts = errors.New("max attempts reached")

// BackoffDuration returns exponential backoff duration for attempt n
func BackoffDuration(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	// simple exponential: base 2^attempt seconds, capped
	d := time.Duration(1<<uint(attempt)) * time.Second
	max := 5 * time.Minute
	if d > max {
		return max
	}
	return d
}

func enqueue(ctx context.Context, repo repository.NotificationRepo, typ, recipientID string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	n := &models.Notification{
		ID:          uuid.NewString(),
		Type:        typ,
		RecipientID: recipientID,
		Payload:     string(b),
		Status:      "pending",
		MaxAttempts: defaultMaxAttempts,
		CreatedAt:   time.Now().UTC().UnixMilli(),
	}
	return repo.EnqueueNotification(ctx, n)
}

// EnqueueCommunicationCreated tells the admins a contractor filed a new
// communication.
func EnqueueCommunicationCreated(ctx context.Context, repo repository.NotificationRepo, c *models.Communication) error {
	payload := map[string]string{
		"communicationId": c.ID,
		"jobId":           c.JobID,
		"contractorId":    c.ContractorID,
		"subject":         c.Subject,
		"priority":        string(c.Priority),
	}
	return enqueue(ctx, repo, TypeCommunicationCreated, RecipientAdmins, payload)
}

// EnqueueCommunicationResolved tells the filing contractor their entry got an
// admin response.
func EnqueueCommunicationResolved(ctx context.Context, repo repository.NotificationRepo, c *models.Communication) error {
	payload := map[string]string{
		"communicationId": c.ID,
		"jobId":           c.JobID,
		"subject":         c.Subject,
		"adminResponse":   c.AdminResponse,
	}
	return enqueue(ctx, repo, TypeCommunicationResolved, c.ContractorID, payload)
}

// EnqueueReminderDue tells a crew member a job reminder has come due.
func EnqueueReminderDue(ctx context.Context, repo repository.NotificationRepo, job *models.Job, rem *models.Reminder, recipientID string) error {
	payload := map[string]string{
		"jobId":      job.ID,
		"jobTitle":   job.Title,
		"reminderId": rem.ID,
		"date":       rem.Date,
		"message":    rem.Message,
		"type":       string(rem.Type),
	}
	return enqueue(ctx, repo, TypeReminderDue, recipientID, payload)
}
