package store

import (
	"context"
	"time"

	"github.com/madanco/crewdeck/pkg/models"
)

func (s *RecordStore) EnqueueNotification(ctx context.Context, n *models.Notification) error {
	s.muNotifications.Lock()
	defer s.muNotifications.Unlock()

	var queue []models.Notification
	if err := s.readCollection(ctx, keyNotifications, &queue); err != nil {
		return err
	}
	queue = append(queue, *n)
	return s.writeCollection(ctx, keyNotifications, queue)
}

// FetchNextNotification claims the oldest runnable entry under the queue
// mutex, so two workers never pick up the same notification.
func (s *RecordStore) FetchNextNotification(ctx context.Context) (*models.Notification, error) {
	s.muNotifications.Lock()
	defer s.muNotifications.Unlock()

	var queue []models.Notification
	if err := s.readCollection(ctx, keyNotifications, &queue); err != nil {
		return nil, err
	}
	now := time.Now().UTC().UnixMilli()
	for i := range queue {
		runnable := queue[i].Status == "pending" ||
			(queue[i].Status == "retry" && queue[i].NextTryAt <= now)
		if !runnable {
			continue
		}
		queue[i].Status = "running"
		if err := s.writeCollection(ctx, keyNotifications, queue); err != nil {
			return nil, err
		}
		claimed := queue[i]
		return &claimed, nil
	}
	return nil, nil
}

func (s *RecordStore) UpdateNotification(ctx context.Context, n *models.Notification) error {
	s.muNotifications.Lock()
	defer s.muNotifications.Unlock()

	var queue []models.Notification
	if err := s.readCollection(ctx, keyNotifications, &queue); err != nil {
		return err
	}
	for i := range queue {
		if queue[i].ID == n.ID {
			queue[i] = *n
			return s.writeCollection(ctx, keyNotifications, queue)
		}
	}
	return ErrNotFound
}

func (s *RecordStore) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var queue []models.Notification
	if err := s.readCollection(ctx, keyNotifications, &queue); err != nil {
		return nil, err
	}
	if queue == nil {
		queue = []models.Notification{}
	}
	return queue, nil
}
