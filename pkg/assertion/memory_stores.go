// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey.
//
// go-passkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package assertion

import (
	"context"
	"encoding/hex"
	"sync"
	"time"
)

// MemoryCredentialStore is an in-memory implementation of CredentialStore.
// This is intended for development and testing only.
type MemoryCredentialStore struct {
	mu       sync.RWMutex
	byID     map[string]*Credential
	byUserID map[string][]*Credential
}

// NewMemoryCredentialStore creates a new in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		byID:     make(map[string]*Credential),
		byUserID: make(map[string][]*Credential),
	}
}

// Save stores a new credential. Credential IDs are unique store-wide.
func (s *MemoryCredentialStore) Save(ctx context.Context, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	credKey := hex.EncodeToString(cred.ID)
	if _, ok := s.byID[credKey]; ok {
		return ErrCredentialAlreadyExists
	}

	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = time.Now().UTC()
	}

	userKey := hex.EncodeToString(cred.UserID)
	s.byID[credKey] = cred
	s.byUserID[userKey] = append(s.byUserID[userKey], cred)

	return nil
}

// GetByCredentialID retrieves a credential by its ID.
func (s *MemoryCredentialStore) GetByCredentialID(ctx context.Context, credID []byte) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.byID[hex.EncodeToString(credID)]
	if !ok {
		return nil, ErrCredentialNotFound
	}
	return cred, nil
}

// GetByUserID retrieves all credentials for a user.
func (s *MemoryCredentialStore) GetByUserID(ctx context.Context, userID []byte) ([]*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, ok := s.byUserID[hex.EncodeToString(userID)]
	if !ok {
		return []*Credential{}, nil
	}

	// Return a copy to prevent external modification
	result := make([]*Credential, len(creds))
	copy(result, creds)
	return result, nil
}

// UpdateSignCount records a new signature counter under the store lock.
func (s *MemoryCredentialStore) UpdateSignCount(ctx context.Context, credID []byte, signCount uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.byID[hex.EncodeToString(credID)]
	if !ok {
		return ErrCredentialNotFound
	}

	cred.SignCount = signCount
	cred.LastUsedAt = time.Now().UTC()
	return nil
}

// Delete removes a credential by its ID.
func (s *MemoryCredentialStore) Delete(ctx context.Context, credID []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	credKey := hex.EncodeToString(credID)
	cred, ok := s.byID[credKey]
	if !ok {
		return ErrCredentialNotFound
	}

	delete(s.byID, credKey)

	userKey := hex.EncodeToString(cred.UserID)
	creds := s.byUserID[userKey]
	for i, c := range creds {
		if hex.EncodeToString(c.ID) == credKey {
			s.byUserID[userKey] = append(creds[:i], creds[i+1:]...)
			break
		}
	}

	return nil
}

// Count returns the total number of credentials in the store.
func (s *MemoryCredentialStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Clear removes all credentials from the store.
func (s *MemoryCredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]*Credential)
	s.byUserID = make(map[string][]*Credential)
}

// MemoryChallengeStore is an in-memory implementation of ChallengeStore.
// This is intended for development and testing only.
type MemoryChallengeStore struct {
	mu     sync.Mutex
	byUser map[string]*Challenge
}

// NewMemoryChallengeStore creates a new in-memory challenge store.
func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{
		byUser: make(map[string]*Challenge),
	}
}

// Put stores a challenge, replacing any outstanding one for the same user.
func (s *MemoryChallengeStore) Put(ctx context.Context, challenge *Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUser[hex.EncodeToString(challenge.UserID)] = challenge
	return nil
}

// Take retrieves and removes the outstanding challenge for a user. The
// get-and-delete pair runs under the store lock so a challenge can only be
// consumed once.
func (s *MemoryChallengeStore) Take(ctx context.Context, userID []byte) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := hex.EncodeToString(userID)
	challenge, ok := s.byUser[key]
	if !ok {
		return nil, ErrChallengeNotFound
	}

	delete(s.byUser, key)
	return challenge, nil
}

// Count returns the number of outstanding challenges.
func (s *MemoryChallengeStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byUser)
}

// Cleanup removes expired challenges and returns how many were removed.
func (s *MemoryChallengeStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, challenge := range s.byUser {
		if challenge.Expired(now) {
			delete(s.byUser, key)
			removed++
		}
	}
	return removed
}
