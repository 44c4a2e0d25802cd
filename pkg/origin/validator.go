/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package origin validates the origins of cross-window messages against the
// single allowed parent origin configured for this deployment.
package origin

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/trustbloc/wallet-bridge/pkg/internal/common/bridgeutil"
)

var logger = log.New("wallet-bridge/origin")

// ErrNotConfigured is returned when an operation requires the allowed parent
// origin and none is configured. Configuration absence fails closed.
var ErrNotConfigured = errors.New("allowed parent origin is not configured")

// Validator validates inbound and outbound cross-window message origins.
// Exactly one allowed origin is supported; matching is an exact string
// comparison with no wildcard, prefix, or suffix forms.
type Validator struct {
	allowed string
}

// New returns a validator for the given allowed origin. An empty origin is
// accepted and produces a validator that rejects every candidate. A non-empty
// origin must be a valid http(s) URL.
func New(allowedOrigin string) (*Validator, error) {
	if allowedOrigin != "" && !bridgeutil.ValidHTTPURL(allowedOrigin) {
		return nil, fmt.Errorf("invalid allowed origin '%s'", allowedOrigin)
	}

	return &Validator{allowed: allowedOrigin}, nil
}

// Configured reports whether an allowed origin is set.
func (v *Validator) Configured() bool {
	return v.allowed != ""
}

// IsAllowed reports whether candidate equals the configured allowed origin.
// When no origin is configured every candidate is rejected.
func (v *Validator) IsAllowed(candidate string) bool {
	if v.allowed == "" {
		logger.Warnf("rejecting message origin '%s': no allowed parent origin is configured", candidate)

		return false
	}

	return candidate == v.allowed
}

// AllowedOrigin returns the configured allowed origin for use as an outbound
// postMessage target. Returns ErrNotConfigured when unset so callers surface a
// configuration error instead of degrading to a wildcard target.
func (v *Validator) AllowedOrigin() (string, error) {
	if v.allowed == "" {
		return "", ErrNotConfigured
	}

	return v.allowed, nil
}
