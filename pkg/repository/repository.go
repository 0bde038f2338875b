package repository

import (
	"context"
	"errors"

	"github.com/madanco/crewdeck/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// ErrNotFound is returned by updates and deletes that reference a missing id.
var ErrNotFound = errors.New("record not found")

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) error
	GetJobByID(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	// ListJobsForCrewMember returns only jobs whose assignedCrew contains userID.
	ListJobsForCrewMember(ctx context.Context, userID string) ([]models.Job, error)
	UpdateJob(ctx context.Context, j *models.Job) error
	DeleteJob(ctx context.Context, id string) error
}

type CommunicationRepo interface {
	CreateCommunication(ctx context.Context, c *models.Communication) error
	GetCommunicationByID(ctx context.Context, id string) (*models.Communication, error)
	ListCommunications(ctx context.Context) ([]models.Communication, error)
	// ListCommunicationsForContractor returns only entries with a matching contractorId.
	ListCommunicationsForContractor(ctx context.Context, contractorID string) ([]models.Communication, error)
	UpdateCommunication(ctx context.Context, c *models.Communication) error
}

// CredentialRepo maps usernames to bcrypt password hashes.
type CredentialRepo interface {
	SetCredential(ctx context.Context, username, passwordHash string) error
	GetCredential(ctx context.Context, username string) (string, error)
	DeleteCredential(ctx context.Context, username string) error
}

// NotificationRepo backs the notify worker queue.
type NotificationRepo interface {
	EnqueueNotification(ctx context.Context, n *models.Notification) error
	// FetchNextNotification claims the next runnable entry (pending or retry
	// past its next-try time) and marks it running; returns nil when idle.
	FetchNextNotification(ctx context.Context) (*models.Notification, error)
	UpdateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context) ([]models.Notification, error)
}
