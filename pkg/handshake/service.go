/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package handshake implements the embedding handshake with the hosting
// parent application: the embedded wallet announces readiness over the frame
// channel and waits, bounded by a timeout, for the parent to push
// authentication data.
package handshake

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/trustbloc/wallet-bridge/pkg/frame"
	"github.com/trustbloc/wallet-bridge/pkg/origin"
	"github.com/trustbloc/wallet-bridge/pkg/session"
)

// Cross-window message types exchanged during the handshake.
const (
	MsgTypeWalletAuth  = "WALLET_AUTH"
	MsgTypeIframeReady = "IFRAME_READY"

	defaultParentAuthTimeout = 3000 * time.Millisecond
	defaultReadyResendDelay  = 500 * time.Millisecond

	msgChanBuffer = 16
)

var logger = log.New("wallet-bridge/handshake")

// State is a terminal handshake outcome.
type State string

// Terminal handshake states. Both permit the application to continue:
// StateLoginRequired degrades to the interactive login flow.
const (
	StateAuthenticated State = "authenticated"
	StateLoginRequired State = "login-required"
)

// Config defines configuration for the handshake service.
type Config struct {
	Window          frame.Window
	OriginValidator *origin.Validator
	SessionStore    *session.Store

	// ParentAuthTimeout bounds the wait for the parent's authentication push.
	// Defaults to 3000ms.
	ParentAuthTimeout time.Duration

	// ReadyResendDelay is the delay before the readiness signal is sent a
	// second time, covering races where the parent listener is not attached
	// yet. Defaults to 500ms.
	ReadyResendDelay time.Duration
}

// Service runs the parent handshake.
type Service struct {
	window          frame.Window
	originValidator *origin.Validator
	sessionStore    *session.Store
	embedded        bool
	timeout         time.Duration
	resendDelay     time.Duration

	mu      sync.Mutex
	waiting bool
}

// authPayload is the expected WALLET_AUTH message payload. The user field is
// accepted either as a structured object or as an embedded JSON string.
type authPayload struct {
	WalletToken  string          `json:"walletToken"`
	User         json.RawMessage `json:"user"`
	EmbeddedMode bool            `json:"embeddedMode,omitempty"`
}

type readyData struct {
	Timestamp string `json:"timestamp"`
}

// New returns a new handshake service. The embedding state is evaluated once
// here, at construction.
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

	timeout := config.ParentAuthTimeout
	if timeout == 0 {
		timeout = defaultParentAuthTimeout
	}

	resendDelay := config.ReadyResendDelay
	if resendDelay == 0 {
		resendDelay = defaultReadyResendDelay
	}

	return &Service{
		window:          config.Window,
		originValidator: config.OriginValidator,
		sessionStore:    config.SessionStore,
		embedded:        frame.Detect(config.Window),
		timeout:         timeout,
		resendDelay:     resendDelay,
	}, nil
}

// Embedded reports whether the wallet runs inside a foreign browsing context.
func (s *Service) Embedded() bool {
	return s.embedded
}

// WaitingForParentAuth reports whether Run is currently waiting for the
// parent's authentication push.
func (s *Service) WaitingForParentAuth() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.waiting
}

// Run executes the handshake state machine and returns the terminal state.
// A pre-existing session short-circuits to StateAuthenticated. Handshake
// failures are not fatal: they degrade to StateLoginRequired so the caller can
// fall back to interactive login. The message listener and all timers are
// released before Run returns, so a late parent message cannot reopen the
// wait.
func (s *Service) Run(ctx context.Context) (State, error) {
	existing, err := s.sessionStore.Get()
	if err != nil {
		return "", fmt.Errorf("failed to check for existing session: %w", err)
	}

	if existing.IsAuthenticated() {
		logger.Debugf("existing session found, skipping parent wait")

		return StateAuthenticated, nil
	}

	if !s.embedded {
		return StateLoginRequired, nil
	}

	allowedOrigin, err := s.originValidator.AllowedOrigin()
	if err != nil {
		logger.Errorf("embedded but no allowed parent origin is configured, handshake disabled: %s", err)

		return StateLoginRequired, nil
	}

	return s.waitForParent(ctx, allowedOrigin)
}

func (s *Service) waitForParent(ctx context.Context, allowedOrigin string) (State, error) {
	// the transport drops on a full subscriber buffer, so the channel must
	// absorb a burst of stray messages without losing the auth message that
	// follows them
	msgCh := make(chan *frame.Message, msgChanBuffer)

	if err := s.window.RegisterMsgEvent(msgCh); err != nil {
		return "", fmt.Errorf("failed to register message channel: %w", err)
	}

	defer func() {
		if err := s.window.UnregisterMsgEvent(msgCh); err != nil {
			logger.Warnf("failed to unregister handshake message channel: %s", err)
		}
	}()

	s.setWaiting(true)
	defer s.setWaiting(false)

	s.postReady(allowedOrigin)

	// the parent's listener may not be attached yet, announce again shortly
	resend := time.AfterFunc(s.resendDelay, func() { s.postReady(allowedOrigin) })
	defer resend.Stop()

	timeout := time.NewTimer(s.timeout)
	defer timeout.Stop()

	for {
		select {
		case msg := <-msgCh:
			if !s.originValidator.IsAllowed(msg.Origin) {
				logger.Warnf("dropped inbound '%s' message from untrusted origin '%s'", msg.Type, msg.Origin)

				continue
			}

			if msg.Type != MsgTypeWalletAuth {
				logger.Debugf("ignoring inbound message of type '%s'", msg.Type)

				continue
			}

			newSession, err := parseAuthPayload(msg.Data)
			if err != nil {
				logger.Errorf("discarding malformed authentication payload: %s", err)

				continue
			}

			if err := s.sessionStore.Save(newSession); err != nil {
				return "", fmt.Errorf("failed to save session from parent: %w", err)
			}

			logger.Infof("authenticated via parent handshake for accountID=%s", newSession.User.AccountID)

			return StateAuthenticated, nil
		case <-timeout.C:
			logger.Infof("no authentication from parent within %s, falling back to interactive login", s.timeout)

			return StateLoginRequired, nil
		case <-ctx.Done():
			return StateLoginRequired, fmt.Errorf("parent wait aborted: %w", ctx.Err())
		}
	}
}

func (s *Service) postReady(allowedOrigin string) {
	data, err := json.Marshal(&readyData{Timestamp: time.Now().UTC().Format(time.RFC3339)})
	if err != nil {
		logger.Errorf("failed to marshal readiness signal: %s", err)

		return
	}

	err = s.window.PostToParent(&frame.Message{Type: MsgTypeIframeReady, Data: data}, allowedOrigin)
	if err != nil {
		logger.Warnf("failed to announce readiness to parent at '%s': %s", allowedOrigin, err)
	}
}

func (s *Service) setWaiting(waiting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.waiting = waiting
}

func parseAuthPayload(data json.RawMessage) (*session.Session, error) {
	var payload authPayload

	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth payload: %w", err)
	}

	if payload.WalletToken == "" {
		return nil, fmt.Errorf("auth payload is missing walletToken")
	}

	if len(payload.User) == 0 {
		return nil, fmt.Errorf("auth payload is missing user")
	}

	user, err := parseUser(payload.User)
	if err != nil {
		return nil, err
	}

	return &session.Session{Token: payload.WalletToken, User: user}, nil
}

// parseUser accepts the user either as a structured object or as a JSON
// string containing one.
func parseUser(raw json.RawMessage) (*session.User, error) {
	var embedded string

	if err := json.Unmarshal(raw, &embedded); err == nil {
		raw = json.RawMessage(embedded)
	}

	var user session.User

	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user object: %w", err)
	}

	if user.AccountID == "" {
		return nil, fmt.Errorf("user object is missing accountId")
	}

	return &user, nil
}
