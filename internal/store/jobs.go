package store

import (
	"context"

	"github.com/madanco/crewdeck/pkg/models"
)

func (s *RecordStore) CreateJob(ctx context.Context, j *models.Job) error {
	s.muJobs.Lock()
	defer s.muJobs.Unlock()

	var jobs []models.Job
	if err := s.readCollection(ctx, keyJobs, &jobs); err != nil {
		return err
	}
	jobs = append(jobs, *j)
	return s.writeCollection(ctx, keyJobs, jobs)
}

func (s *RecordStore) GetJobByID(ctx context.Context, id string) (*models.Job, error) {
	var jobs []models.Job
	if err := s.readCollection(ctx, keyJobs, &jobs); err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].ID == id {
			return &jobs[i], nil
		}
	}
	return nil, nil
}

func (s *RecordStore) ListJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := s.readCollection(ctx, keyJobs, &jobs); err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, nil
}

func (s *RecordStore) ListJobsForCrewMember(ctx context.Context, userID string) ([]models.Job, error) {
	jobs, err := s.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	scoped := []models.Job{}
	for _, j := range jobs {
		if j.HasCrewMember(userID) {
			scoped = append(scoped, j)
		}
	}
	return scoped, nil
}

func (s *RecordStore) UpdateJob(ctx context.Context, j *models.Job) error {
	s.muJobs.Lock()
	defer s.muJobs.Unlock()

	var jobs []models.Job
	if err := s.readCollection(ctx, keyJobs, &jobs); err != nil {
		return err
	}
	for i := range jobs {
		if jobs[i].ID == j.ID {
			jobs[i] = *j
			return s.writeCollection(ctx, keyJobs, jobs)
		}
	}
	return ErrNotFound
}

func (s *RecordStore) DeleteJob(ctx context.Context, id string) error {
	s.muJobs.Lock()
	defer s.muJobs.Unlock()

	var jobs []models.Job
	if err := s.readCollection(ctx, keyJobs, &jobs); err != nil {
		return err
	}
	kept := jobs[:0]
	found := false
	for _, j := range jobs {
		if j.ID == id {
			found = true
			continue
		}
		kept = append(kept, j)
	}
	if !found {
		return ErrNotFound
	}
	return s.writeCollection(ctx, keyJobs, kept)
}
