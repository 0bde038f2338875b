package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/madanco/crewdeck/internal/kvstore"
	"github.com/madanco/crewdeck/pkg/repository"
)

// Collection keys. Each holds one JSON array (or map, for credentials).
const (
	keyUsers          = "users"
	keyJobs           = "jobs"
	keyCommunications = "communications"
	keyCredentials    = "credentials"
	keyNotifications  = "notifications"
)

// ErrNotFound aliases the public sentinel so store code reads naturally.
var ErrNotFound = repository.ErrNotFound

// RecordStore keeps the flat collections over a kvstore.Store. Every mutation
// reads the whole collection, rewrites it, and writes it back. A per-collection
// mutex serializes mutations within the process, which removes the in-process
// lost-update race; writers in other processes sharing the same backend still
// race last-writer-wins.
type RecordStore struct {
	kv     kvstore.Store
	logger *slog.Logger

	muUsers         sync.Mutex
	muJobs          sync.Mutex
	muComms         sync.Mutex
	muCredentials   sync.Mutex
	muNotifications sync.Mutex
}

var _ repository.UserRepo = (*RecordStore)(nil)
var _ repository.JobRepo = (*RecordStore)(nil)
var _ repository.CommunicationRepo = (*RecordStore)(nil)
var _ repository.CredentialRepo = (*RecordStore)(nil)
var _ repository.NotificationRepo = (*RecordStore)(nil)

func New(kv kvstore.Store, logger *slog.Logger) *RecordStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordStore{kv: kv, logger: logger}
}

// readCollection unmarshals the collection at key into out. A missing or
// malformed row leaves out untouched so callers start from an empty slice.
func (s *RecordStore) readCollection(ctx context.Context, key string, out any) error {
	b, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if b == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		s.logger.Warn("malformed collection, treating as empty", "key", key, "err", err)
		return nil
	}
	return nil
}

func (s *RecordStore) writeCollection(ctx context.Context, key string, in any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, b); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
