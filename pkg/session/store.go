/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package session holds the wallet user's authentication state.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/trustbloc/edge-core/pkg/log"
)

const (
	storageNamespace = "walletsession"
	sessionKey       = "current_session"
)

var logger = log.New("wallet-bridge/session")

// User is the wallet user profile attached to a session.
type User struct {
	AccountID string `json:"accountId"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Session is the authenticated wallet session: a bearer token plus the user it
// belongs to. A session is created by a successful login or by a trusted
// parent handshake message and destroyed on logout.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// IsAuthenticated reports whether the session carries both a token and a user.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// Store persists the current session. The session is written as a whole under
// a single key so readers never observe a token without its user or vice
// versa.
type Store struct {
	store storage.Store
}

// New returns a session store backed by the given storage provider.
func New(p storage.Provider) (*Store, error) {
	store, err := p.OpenStore(storageNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	return &Store{store: store}, nil
}

// Get returns the current session, or nil when no session exists.
func (s *Store) Get() (*Session, error) {
	sessionBytes, err := s.store.Get(sessionKey)
	if err != nil {
		if errors.Is(err, storage.ErrDataNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session

	err = json.Unmarshal(sessionBytes, &session)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Save replaces the current session atomically. Partial sessions are rejected
// so the store can never hold a token without its user.
func (s *Store) Save(session *Session) error {
	if !session.IsAuthenticated() {
		return fmt.Errorf("refusing to save partial session: token and user are both required")
	}

	sessionBytes, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	err = s.store.Put(sessionKey, sessionBytes)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	logger.Debugf("session saved for accountID=%s", session.User.AccountID)

	return nil
}

// Clear removes the current session. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	err := s.store.Delete(sessionKey)
	if err != nil && !errors.Is(err, storage.ErrDataNotFound) {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}

// Token returns the current session's bearer token, or empty when no session
// exists. Outbound backend requests read the token through this method so
// every call after a successful Save automatically carries it.
func (s *Store) Token() string {
	session, err := s.Get()
	if err != nil {
		logger.Warnf("failed to read session for authorization: %s", err)

		return ""
	}

	if !session.IsAuthenticated() {
		return ""
	}

	return session.Token
}
