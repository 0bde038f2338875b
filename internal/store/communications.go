package store

import (
	"context"

	"github.com/madanco/crewdeck/pkg/models"
)

func (s *RecordStore) CreateCommunication(ctx context.Context, c *models.Communication) error {
	s.muComms.Lock()
	defer s.muComms.Unlock()

	var comms []models.Communication
	if err := s.readCollection(ctx, keyCommunications, &comms); err != nil {
		return err
	}
	comms = append(comms, *c)
	return s.writeCollection(ctx, keyCommunications, comms)
}

func (s *RecordStore) GetCommunicationByID(ctx context.Context, id string) (*models.Communication, error) {
	var comms []models.Communication
	if err := s.readCollection(ctx, keyCommunications, &comms); err != nil {
		return nil, err
	}
	for i := range comms {
		if comms[i].ID == id {
			return &comms[i], nil
		}
	}
	return nil, nil
}

func (s *RecordStore) ListCommunications(ctx context.Context) ([]models.Communication, error) {
	var comms []models.Communication
	if err := s.readCollection(ctx, keyCommunications, &comms); err != nil {
		return nil, err
	}
	if comms == nil {
		comms = []models.Communication{}
	}
	return comms, nil
}

func (s *RecordStore) ListCommunicationsForContractor(ctx context.Context, contractorID string) ([]models.Communication, error) {
	comms, err := s.ListCommunications(ctx)
	if err != nil {
		return nil, err
	}
	scoped := []models.Communication{}
	for _, c := range comms {
		if c.ContractorID == contractorID {
			scoped = append(scoped, c)
		}
	}
	return scoped, nil
}

func (s *RecordStore) UpdateCommunication(ctx context.Context, c *models.Communication) error {
	s.muComms.Lock()
	defer s.muComms.Unlock()

	var comms []models.Communication
	if err := s.readCollection(ctx, keyCommunications, &comms); err != nil {
		return err
	}
	for i := range comms {
		if comms[i].ID == c.ID {
			comms[i] = *c
			return s.writeCollection(ctx, keyCommunications, comms)
		}
	}
	return ErrNotFound
}
