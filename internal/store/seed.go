package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/madanco/crewdeck/pkg/models"
)

// Seed installs the demo dataset the office starts from on a fresh install.
// It is a no-op when the users collection already exists.
func (s *RecordStore) Seed(ctx context.Context) error {
	existing, err := s.kv.Get(ctx, keyUsers)
	if err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if existing != nil {
		return nil
	}

	admin := models.User{
		ID:       uuid.NewString(),
		Username: "admin",
		Name:     "John Smith",
		Role:     models.RoleAdmin,
	}
	mike := models.User{
		ID:          uuid.NewString(),
		Username:    "mike_plumber",
		Name:        "Mike Johnson",
		Role:        models.RoleContractor,
		Specialties: []string{"Plumbing", "Fixture Installation"},
	}
	sarah := models.User{
		ID:          uuid.NewString(),
		Username:    "sarah_tile",
		Name:        "Sarah Wilson",
		Role:        models.RoleContractor,
		Specialties: []string{"Tile Work", "Flooring"},
	}
	tom := models.User{
		ID:          uuid.NewString(),
		Username:    "tom_electric",
		Name:        "Tom Brown",
		Role:        models.RoleContractor,
		Specialties: []string{"Electrical", "Lighting"},
	}
	users := []models.User{admin, mike, sarah, tom}

	jobs := []models.Job{
		{
			ID:            uuid.NewString(),
			Title:         "Master Bathroom Renovation",
			ClientName:    "Jennifer Davis",
			ClientAddress: "123 Oak Street, Springfield",
			StartDate:     "2024-01-15",
			EndDate:       "2024-01-22",
			AssignedCrew:  []string{mike.ID, sarah.ID},
			Status:        models.JobScheduled,
			Notes:         "Complete gut renovation. Client wants luxury finishes.",
			Reminders: []models.Reminder{
				{
					ID:      uuid.NewString(),
					Date:    "2024-01-14",
					Message: "Confirm tile delivery",
					Type:    models.ReminderMaterialDelivery,
				},
			},
			ProjectType: models.ProjectBathroom,
		},
		{
			ID:            uuid.NewString(),
			Title:         "Kitchen Cabinet Installation",
			ClientName:    "Robert Martinez",
			ClientAddress: "456 Pine Avenue, Springfield",
			StartDate:     "2024-01-20",
			EndDate:       "2024-01-25",
			AssignedCrew:  []string{tom.ID},
			Status:        models.JobInProgress,
			Notes:         "Custom cabinets delivered. Need electrical for under-cabinet lighting.",
			Reminders:     []models.Reminder{},
			ProjectType:   models.ProjectKitchen,
		},
	}

	creds := map[string]string{}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Username+"123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		creds[u.Username] = string(hash)
	}

	if err := s.writeCollection(ctx, keyUsers, users); err != nil {
		return err
	}
	if err := s.writeCollection(ctx, keyJobs, jobs); err != nil {
		return err
	}
	if err := s.writeCollection(ctx, keyCommunications, []models.Communication{}); err != nil {
		return err
	}
	return s.writeCollection(ctx, keyCredentials, creds)
}
