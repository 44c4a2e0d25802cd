/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package share implements the credential selection and sharing protocol: the
// user selects a subset of credentials, full details are fetched for each, and
// the set is relayed to the hosting parent application in a single message
// targeted strictly at the configured allowed origin.
package share

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/trustbloc/wallet-bridge/pkg/frame"
	"github.com/trustbloc/wallet-bridge/pkg/origin"
	"github.com/trustbloc/wallet-bridge/pkg/session"
	"github.com/trustbloc/wallet-bridge/pkg/userdocs"
	"github.com/trustbloc/wallet-bridge/pkg/vc"
)

// Cross-window message types emitted by the share protocol.
const (
	MsgTypeVCShared     = "VC_SHARED"
	MsgTypeSelectedDocs = "selected-docs"
)

// Share failures surfaced to the user. All of them leave the selection set
// untouched so the user can retry without re-selecting.
var (
	// ErrNoSelection is returned when share is invoked with nothing selected.
	ErrNoSelection = errors.New("no credentials selected")

	// ErrEmbeddingRequired is returned when share is invoked outside an
	// embedding parent context.
	ErrEmbeddingRequired = errors.New("sharing requires the wallet to be embedded in a parent application")

	// ErrFetchDetail is returned when fetching full detail for any selected
	// credential fails. Partial shares are never sent.
	ErrFetchDetail = errors.New("failed to fetch credential details")

	// ErrNoSession is returned when share is invoked without an authenticated
	// session.
	ErrNoSession = errors.New("no authenticated session")
)

var logger = log.New("wallet-bridge/share")

// Phase is the share protocol phase.
type Phase string

// Share protocol phases.
const (
	PhaseIdle    Phase = "idle"
	PhaseSharing Phase = "sharing"
	PhaseShared  Phase = "shared"
	PhaseError   Phase = "error"
)

// CredentialFetcher fetches full credential detail from the wallet backend.
type CredentialFetcher interface {
	GetVC(ctx context.Context, userID, vcID string) (*vc.Credential, error)
}

// Config defines configuration for the share service.
type Config struct {
	Window          frame.Window
	OriginValidator *origin.Validator
	SessionStore    *session.Store
	Fetcher         CredentialFetcher
}

// Service maintains the selection set and executes the share protocol.
type Service struct {
	window          frame.Window
	originValidator *origin.Validator
	sessionStore    *session.Store
	fetcher         CredentialFetcher

	mu       sync.Mutex
	known    map[string]struct{}
	selected map[string]struct{}
	phase    Phase
}

// VCSharedData is the payload of an outbound VC_SHARED message.
type VCSharedData struct {
	VCs       []*vc.Credential `json:"vcs"`
	Timestamp string           `json:"timestamp"`
	UserID    string           `json:"userId"`
}

// Result describes a completed share.
type Result struct {
	Shared    int    `json:"shared"`
	Timestamp string `json:"timestamp"`
}

// New returns a new share service.
func New(config *Config) (*Service, error) {
	if config.Window == nil {
		return nil, fmt.Errorf("window is required")
	}

	if config.OriginValidator == nil {
		return nil, fmt.Errorf("origin validator is required")
	}

	if config.SessionStore == nil {
		return nil, fmt.Errorf("session store is required")
	}

	if config.Fetcher == nil {
		return nil, fmt.Errorf("credential fetcher is required")
	}

	return &Service{
		window:          config.Window,
		originValidator: config.OriginValidator,
		sessionStore:    config.SessionStore,
		fetcher:         config.Fetcher,
		known:           make(map[string]struct{}),
		selected:        make(map[string]struct{}),
		phase:           PhaseIdle,
	}, nil
}

// Phase returns the current protocol phase.
func (s *Service) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phase
}

// SetCredentials records the currently loaded credential ID set and prunes the
// selection to remain a subset of it.
func (s *Service) SetCredentials(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.known = make(map[string]struct{}, len(ids))

	for _, id := range ids {
		s.known[id] = struct{}{}
	}

	for id := range s.selected {
		if _, ok := s.known[id]; !ok {
			delete(s.selected, id)
		}
	}
}

// Toggle flips membership of id in the selection set. Unknown IDs are
// rejected: the selection is always a subset of the loaded credential set.
func (s *Service) Toggle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.known[id]; !ok {
		return fmt.Errorf("unknown credential id '%s'", id)
	}

	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}

	return nil
}

// SelectAll selects every loaded credential.
func (s *Service) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.known {
		s.selected[id] = struct{}{}
	}
}

// DeselectAll empties the selection set.
func (s *Service) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(map[string]struct{})
}

// Selected returns the selected credential IDs in stable order.
func (s *Service) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.selected))

	for id := range s.selected {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// Preview fetches full detail for a single credential for display. The
// selection set is not touched.
func (s *Service) Preview(ctx context.Context, id string) (*vc.Credential, string, error) {
	userID, err := s.accountID()
	if err != nil {
		return nil, "", err
	}

	credential, err := s.fetcher.GetVC(ctx, userID, id)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrFetchDetail, err)
	}

	return credential, vc.DisplayName(credential.JSON), nil
}

// Share packages the selected credentials and relays them to the parent.
//
// The operation is all-or-nothing: detail fetches for all selected IDs run
// concurrently and any single failure aborts the whole share before a message
// is constructed. On failure the selection set is left untouched for retry; on
// success it is cleared.
func (s *Service) Share(ctx context.Context) (*Result, error) {
	ids := s.Selected()
	if len(ids) == 0 {
		s.setPhase(PhaseError)

		return nil, ErrNoSelection
	}

	if !frame.Detect(s.window) {
		s.setPhase(PhaseError)

		return nil, ErrEmbeddingRequired
	}

	targetOrigin, err := s.originValidator.AllowedOrigin()
	if err != nil {
		s.setPhase(PhaseError)

		return nil, fmt.Errorf("sharing is not allowed: %w", err)
	}

	userID, err := s.accountID()
	if err != nil {
		s.setPhase(PhaseError)

		return nil, err
	}

	s.setPhase(PhaseSharing)

	credentials, err := s.fetchAll(ctx, userID, ids)
	if err != nil {
		s.setPhase(PhaseError)

		return nil, err
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(&VCSharedData{VCs: credentials, Timestamp: timestamp, UserID: userID})
	if err != nil {
		s.setPhase(PhaseError)

		return nil, fmt.Errorf("failed to marshal share payload: %w", err)
	}

	err = s.window.PostToParent(&frame.Message{Type: MsgTypeVCShared, Data: data}, targetOrigin)
	if err != nil {
		s.setPhase(PhaseError)

		return nil, fmt.Errorf("sharing not allowed with origin '%s': %w", targetOrigin, err)
	}

	s.DeselectAll()
	s.setPhase(PhaseShared)

	logger.Infof("shared %d credential(s) with parent at '%s'", len(credentials), targetOrigin)

	return &Result{Shared: len(credentials), Timestamp: timestamp}, nil
}

// ShareDocuments relays already-loaded user documents to the parent. Like the
// credential path it targets the configured allowed origin only.
func (s *Service) ShareDocuments(docs []userdocs.Document) error {
	if !frame.Detect(s.window) {
		return ErrEmbeddingRequired
	}

	targetOrigin, err := s.originValidator.AllowedOrigin()
	if err != nil {
		return fmt.Errorf("sharing is not allowed: %w", err)
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}

	err = s.window.PostToParent(&frame.Message{Type: MsgTypeSelectedDocs, Data: data}, targetOrigin)
	if err != nil {
		return fmt.Errorf("sharing not allowed with origin '%s': %w", targetOrigin, err)
	}

	logger.Infof("shared %d document(s) with parent at '%s'", len(docs), targetOrigin)

	return nil
}

// fetchAll fetches full detail for all ids concurrently and joins the results,
// failing the whole batch on the first error.
func (s *Service) fetchAll(ctx context.Context, userID string, ids []string) ([]*vc.Credential, error) {
	type fetchResult struct {
		index      int
		credential *vc.Credential
		err        error
	}

	results := make(chan fetchResult, len(ids))

	for i, id := range ids {
		go func(index int, vcID string) {
			credential, err := s.fetcher.GetVC(ctx, userID, vcID)
			results <- fetchResult{index: index, credential: credential, err: err}
		}(i, id)
	}

	credentials := make([]*vc.Credential, len(ids))

	var fetchErr error

	for range ids {
		result := <-results
		if result.err != nil {
			fetchErr = result.err

			continue
		}

		credentials[result.index] = result.credential
	}

	if fetchErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrFetchDetail, fetchErr)
	}

	return credentials, nil
}

func (s *Service) accountID() (string, error) {
	currentSession, err := s.sessionStore.Get()
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}

	if !currentSession.IsAuthenticated() {
		return "", ErrNoSession
	}

	return currentSession.User.AccountID, nil
}

func (s *Service) setPhase(phase Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = phase
}
