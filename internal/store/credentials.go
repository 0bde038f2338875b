package store

import "context"

func (s *RecordStore) SetCredential(ctx context.Context, username, passwordHash string) error {
	s.muCredentials.Lock()
	defer s.muCredentials.Unlock()

	creds := map[string]string{}
	if err := s.readCollection(ctx, keyCredentials, &creds); err != nil {
		return err
	}
	creds[username] = passwordHash
	return s.writeCollection(ctx, keyCredentials, creds)
}

// GetCredential returns the stored bcrypt hash, or "" when the username has
// no credential.
func (s *RecordStore) GetCredential(ctx context.Context, username string) (string, error) {
	creds := map[string]string{}
	if err := s.readCollection(ctx, keyCredentials, &creds); err != nil {
		return "", err
	}
	return creds[username], nil
}

func (s *RecordStore) DeleteCredential(ctx context.Context, username string) error {
	s.muCredentials.Lock()
	defer s.muCredentials.Unlock()

	creds := map[string]string{}
	if err := s.readCollection(ctx, keyCredentials, &creds); err != nil {
		return err
	}
	delete(creds, username)
	return s.writeCollection(ctx, keyCredentials, creds)
}
