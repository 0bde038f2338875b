package client

import (
	"context"
	"net/http"

	"github.com/madanco/crewdeck/pkg/models"
)

// Drafts and patches mirror the API payloads. Patch fields are pointers so
// only the submitted fields are merged server-side.

type UserDraft struct {
	Username    string      `json:"username"`
	Name        string      `json:"name"`
	Role        models.Role `json:"role"`
	Specialties []string    `json:"specialties,omitempty"`
}

type UserPatch struct {
	Username    *string      `json:"username,omitempty"`
	Name        *string      `json:"name,omitempty"`
	Role        *models.Role `json:"role,omitempty"`
	Specialties *[]string    `json:"specialties,omitempty"`
}

type JobDraft struct {
	Title         string             `json:"title"`
	ClientName    string             `json:"clientName"`
	ClientAddress string             `json:"clientAddress"`
	StartDate     string             `json:"startDate"`
	EndDate       string             `json:"endDate"`
	AssignedCrew  []string           `json:"assignedCrew,omitempty"`
	Status        models.JobStatus   `json:"status"`
	Notes         string             `json:"notes,omitempty"`
	Reminders     []models.Reminder  `json:"reminders,omitempty"`
	ProjectType   models.ProjectType `json:"projectType"`
}

type JobPatch struct {
	Title         *string             `json:"title,omitempty"`
	ClientName    *string             `json:"clientName,omitempty"`
	ClientAddress *string             `json:"clientAddress,omitempty"`
	StartDate     *string             `json:"startDate,omitempty"`
	EndDate       *string             `json:"endDate,omitempty"`
	AssignedCrew  *[]string           `json:"assignedCrew,omitempty"`
	Status        *models.JobStatus   `json:"status,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
	Reminders     *[]models.Reminder  `json:"reminders,omitempty"`
	ProjectType   *models.ProjectType `json:"projectType,omitempty"`
}

type CommunicationDraft struct {
	JobID        string                   `json:"jobId"`
	ContractorID string                   `json:"contractorId,omitempty"`
	Type         models.CommunicationType `json:"type"`
	Subject      string                   `json:"subject"`
	Message      string                   `json:"message"`
	Priority     models.Priority          `json:"priority"`
}

func (c *Client) AddUser(ctx context.Context, draft UserDraft) (*models.User, error) {
	var created models.User
	if err := c.do(ctx, http.MethodPost, "/users", draft, &created); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.users = append(c.users, created)
	c.mu.Unlock()
	return &created, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	var updated models.User
	if err := c.do(ctx, http.MethodPut, "/users/"+id, patch, &updated); err != nil {
		return nil, err
	}
	c.mu.Lock()
	for i := range c.users {
		if c.users[i].ID == id {
			c.users[i] = updated
			break
		}
	}
	c.mu.Unlock()
	return &updated, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/users/"+id, nil, nil); err != nil {
		return err
	}
	c.mu.Lock()
	kept := c.users[:0]
	for _, u := range c.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	c.users = kept
	c.mu.Unlock()
	return nil
}

func (c *Client) AddJob(ctx context.Context, draft JobDraft) (*models.Job, error) {
	var created models.Job
	if err := c.do(ctx, http.MethodPost, "/jobs", draft, &created); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.jobs = append(c.jobs, created)
	c.mu.Unlock()
	return &created, nil
}

func (c *Client) UpdateJob(ctx context.Context, id string, patch JobPatch) (*models.Job, error) {
	var updated models.Job
	if err := c.do(ctx, http.MethodPut, "/jobs/"+id, patch, &updated); err != nil {
		return nil, err
	}
	c.mu.Lock()
	for i := range c.jobs {
		if c.jobs[i].ID == id {
			c.jobs[i] = updated
			break
		}
	}
	c.mu.Unlock()
	return &updated, nil
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/jobs/"+id, nil, nil); err != nil {
		return err
	}
	c.mu.Lock()
	kept := c.jobs[:0]
	for _, j := range c.jobs {
		if j.ID != id {
			kept = append(kept, j)
		}
	}
	c.jobs = kept
	c.mu.Unlock()
	return nil
}

func (c *Client) AddCommunication(ctx context.Context, draft CommunicationDraft) (*models.Communication, error) {
	var created models.Communication
	if err := c.do(ctx, http.MethodPost, "/communications", draft, &created); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.comms = append(c.comms, created)
	c.mu.Unlock()
	return &created, nil
}

func (c *Client) ResolveCommunication(ctx context.Context, id, adminResponse string) (*models.Communication, error) {
	var updated models.Communication
	body := map[string]string{"adminResponse": adminResponse}
	if err := c.do(ctx, http.MethodPut, "/communications/"+id+"/resolve", body, &updated); err != nil {
		return nil, err
	}
	c.mu.Lock()
	for i := range c.comms {
		if c.comms[i].ID == id {
			c.comms[i] = updated
			break
		}
	}
	c.mu.Unlock()
	return &updated, nil
}
