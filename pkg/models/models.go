package models

// Domain models for the CrewDeck scheduling service. Collections are stored
// whole as JSON arrays in the key-value store (see internal/store).

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleContractor Role = "contractor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleContractor:
		return true
	}
	return false
}

type JobStatus string

const (
	JobScheduled  JobStatus = "scheduled"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobScheduled, JobInProgress, JobCompleted, JobCancelled:
		return true
	}
	return false
}

type ProjectType string

const (
	ProjectBathroom ProjectType = "bathroom"
	ProjectKitchen  ProjectType = "kitchen"
	ProjectOther    ProjectType = "other"
)

func (p ProjectType) Valid() bool {
	switch p {
	case ProjectBathroom, ProjectKitchen, ProjectOther:
		return true
	}
	return false
}

type ReminderType string

const (
	ReminderGeneral          ReminderType = "general"
	ReminderMaterialDelivery ReminderType = "material_delivery"
	ReminderInspection       ReminderType = "inspection"
	ReminderClientMeeting    ReminderType = "client_meeting"
)

func (t ReminderType) Valid() bool {
	switch t {
	case ReminderGeneral, ReminderMaterialDelivery, ReminderInspection, ReminderClientMeeting:
		return true
	}
	return false
}

type CommunicationType string

const (
	CommMaterialRequest CommunicationType = "material_request"
	CommChangeOrder     CommunicationType = "change_order"
	CommIssueReport     CommunicationType = "issue_report"
	CommQuestion        CommunicationType = "question"
	CommOther           CommunicationType = "other"
)

func (t CommunicationType) Valid() bool {
	switch t {
	case CommMaterialRequest, CommChangeOrder, CommIssueReport, CommQuestion, CommOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type CommunicationStatus string

const (
	CommPending  CommunicationStatus = "pending"
	CommResolved CommunicationStatus = "resolved"
)

func (s CommunicationStatus) Valid() bool {
	switch s {
	case CommPending, CommResolved:
		return true
	}
	return false
}

type User struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	Role        Role     `json:"role"`
	Specialties []string `json:"specialties,omitempty"`
}

// Reminder is embedded inside a Job and is not independently addressable.
type Reminder struct {
	ID      string       `json:"id"`
	Date    string       `json:"date"` // YYYY-MM-DD
	Message string       `json:"message"`
	Type    ReminderType `json:"type"`
}

type Job struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	ClientName    string      `json:"clientName"`
	ClientAddress string      `json:"clientAddress"`
	StartDate     string      `json:"startDate"` // YYYY-MM-DD
	EndDate       string      `json:"endDate"`   // YYYY-MM-DD
	AssignedCrew  []string    `json:"assignedCrew"`
	Status        JobStatus   `json:"status"`
	Notes         string      `json:"notes"`
	Reminders     []Reminder  `json:"reminders"`
	ProjectType   ProjectType `json:"projectType"`
}

// HasCrewMember reports whether the user id is part of the job's crew.
func (j *Job) HasCrewMember(userID string) bool {
	for _, id := range j.AssignedCrew {
		if id == userID {
			return true
		}
	}
	return false
}

type Communication struct {
	ID            string              `json:"id"`
	JobID         string              `json:"jobId"`
	ContractorID  string              `json:"contractorId"`
	Type          CommunicationType   `json:"type"`
	Subject       string              `json:"subject"`
	Message       string              `json:"message"`
	Priority      Priority            `json:"priority"`
	Status        CommunicationStatus `json:"status"`
	CreatedAt     string              `json:"createdAt"` // RFC 3339
	ResolvedAt    string              `json:"resolvedAt,omitempty"`
	AdminResponse string              `json:"adminResponse,omitempty"`
}

// Notification is a queued delivery generated by communication and reminder
// events; processed by the notify worker pool.
type Notification struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	RecipientID string `json:"recipientId"`
	Payload     string `json:"payload"`
	Status      string `json:"status"` // pending, retry, done, failed
	Attempts    int    `json:"attempts"`
	MaxAttempts int    `json:"maxAttempts"`
	LastError   string `json:"lastError,omitempty"`
	NextTryAt   int64  `json:"nextTryAt,omitempty"` // unix millis
	CreatedAt   int64  `json:"createdAt"`           // unix millis
}
