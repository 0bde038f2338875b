// Package mock holds an in-memory repository for tests that don't want a
// database behind the handlers.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/madanco/crewdeck/pkg/models"
	"github.com/madanco/crewdeck/pkg/repository"
)

// Repo implements every repository interface over plain slices. Setting Err
// makes all calls fail with it, for exercising error paths.
type Repo struct {
	mu sync.Mutex

	Err error

	UsersData []models.User
	JobsData  []models.Job
	CommsData []models.Communication
	CredsData map[string]string
	Queue     []models.Notification
}

var _ repository.UserRepo = (*Repo)(nil)
var _ repository.JobRepo = (*Repo)(nil)
var _ repository.CommunicationRepo = (*Repo)(nil)
var _ repository.CredentialRepo = (*Repo)(nil)
var _ repository.NotificationRepo = (*Repo)(nil)

func New() *Repo {
	return &Repo{CredsData: map[string]string{}}
}

func (m *Repo) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.UsersData = append(m.UsersData, *u)
	return nil
}

func (m *Repo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.UsersData {
		if m.UsersData[i].ID == id {
			u := m.UsersData[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (m *Repo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.UsersData {
		if m.UsersData[i].Username == username {
			u := m.UsersData[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (m *Repo) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.User, len(m.UsersData))
	copy(out, m.UsersData)
	return out, nil
}

func (m *Repo) UpdateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.UsersData {
		if m.UsersData[i].ID == u.ID {
			m.UsersData[i] = *u
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Repo) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.UsersData {
		if m.UsersData[i].ID == id {
			m.UsersData = append(m.UsersData[:i], m.UsersData[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Repo) CreateJob(ctx context.Context, j *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.JobsData = append(m.JobsData, *j)
	return nil
}

func (m *Repo) GetJobByID(ctx context.Context, id string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.JobsData {
		if m.JobsData[i].ID == id {
			j := m.JobsData[i]
			return &j, nil
		}
	}
	return nil, nil
}

func (m *Repo) ListJobs(ctx context.Context) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Job, len(m.JobsData))
	copy(out, m.JobsData)
	return out, nil
}

func (m *Repo) ListJobsForCrewMember(ctx context.Context, userID string) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Job{}
	for _, j := range m.JobsData {
		if j.HasCrewMember(userID) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *Repo) UpdateJob(ctx context.Context, j *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.JobsData {
		if m.JobsData[i].ID == j.ID {
			m.JobsData[i] = *j
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Repo) DeleteJob(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.JobsData {
		if m.JobsData[i].ID == id {
			m.JobsData = append(m.JobsData[:i], m.JobsData[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Repo) CreateCommunication(ctx context.Context, c *models.Communication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.CommsData = append(m.CommsData, *c)
	return nil
}

func (m *Repo) GetCommunicationByID(ctx context.Context, id string) (*models.Communication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.CommsData {
		if m.CommsData[i].ID == id {
			c := m.CommsData[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Repo) ListCommunications(ctx context.Context) ([]models.Communication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Communication, len(m.CommsData))
	copy(out, m.CommsData)
	return out, nil
}

func (m *Repo) ListCommunicationsForContractor(ctx context.Context, contractorID string) ([]models.Communication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Communication{}
	for _, c := range m.CommsData {
		if c.ContractorID == contractorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *Repo) UpdateCommunication(ctx context.Context, c *models.Communication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.CommsData {
		if m.CommsData[i].ID == c.ID {
			m.CommsData[i] = *c
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Repo) SetCredential(ctx context.Context, username, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.CredsData[username] = passwordHash
	return nil
}

func (m *Repo) GetCredential(ctx context.Context, username string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.CredsData[username], nil
}

func (m *Repo) DeleteCredential(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.CredsData, username)
	return nil
}

func (m *Repo) EnqueueNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Queue = append(m.Queue, *n)
	return nil
}

func (m *Repo) FetchNextNotification(ctx context.Context) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	now := time.Now().UTC().UnixMilli()
	for i := range m.Queue {
		runnable := m.Queue[i].Status == "pending" ||
			(m.Queue[i].Status == "retry" && m.Queue[i].NextTryAt <= now)
		if runnable {
			m.Queue[i].Status = "running"
			n := m.Queue[i]
			return &n, nil
		}
	}
	return nil, nil
}

func (m *Repo) UpdateNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Queue {
		if m.Queue[i].ID == n.ID {
			m.Queue[i] = *n
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *Repo) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Notification, len(m.Queue))
	copy(out, m.Queue)
	return out, nil
}
