package store

import (
	"context"

	"github.com/madanco/crewdeck/pkg/models"
)

func (s *RecordStore) CreateUser(ctx context.Context, u *models.User) error {
	s.muUsers.Lock()
	defer s.muUsers.Unlock()

	var users []models.User
	if err := s.readCollection(ctx, keyUsers, &users); err != nil {
		return err
	}
	users = append(users, *u)
	return s.writeCollection(ctx, keyUsers, users)
}

func (s *RecordStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var users []models.User
	if err := s.readCollection(ctx, keyUsers, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (s *RecordStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var users []models.User
	if err := s.readCollection(ctx, keyUsers, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (s *RecordStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.readCollection(ctx, keyUsers, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *RecordStore) UpdateUser(ctx context.Context, u *models.User) error {
	s.muUsers.Lock()
	defer s.muUsers.Unlock()

	var users []models.User
	if err := s.readCollection(ctx, keyUsers, &users); err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = *u
			return s.writeCollection(ctx, keyUsers, users)
		}
	}
	return ErrNotFound
}

func (s *RecordStore) DeleteUser(ctx context.Context, id string) error {
	s.muUsers.Lock()
	defer s.muUsers.Unlock()

	var users []models.User
	if err := s.readCollection(ctx, keyUsers, &users); err != nil {
		return err
	}
	kept := users[:0]
	found := false
	for _, u := range users {
		if u.ID == id {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return ErrNotFound
	}
	return s.writeCollection(ctx, keyUsers, kept)
}
