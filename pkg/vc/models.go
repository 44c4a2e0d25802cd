/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package vc holds read-only snapshots of the user's verifiable credentials
// as served by the wallet backend, plus display helpers for them.
package vc

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/trustbloc/wallet-bridge/pkg/internal/common/bridgeutil"
)

// Status is the backend-reported credential status.
type Status string

// Supported credential statuses.
const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
	StatusOther   Status = "other"
)

const defaultDisplayName = "Verifiable Credential"

// date layouts accepted for issuance/expiry values.
// nolint:gochecknoglobals
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// claim keys hidden from credential detail views.
// nolint:gochecknoglobals
var skippedClaimKeys = []string{
	"start_date", "end_date", "id", "@context", "originalvc", "originalvc1", "issueddate", "recordvalidupto",
}

// Credential is a read-only snapshot of a verifiable credential owned by the
// backend. The JSON field carries the raw credential document when the backend
// returns one.
type Credential struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name,omitempty"`
	Issuer            string                 `json:"issuer,omitempty"`
	IssuedAt          string                 `json:"issuedAt,omitempty"`
	ExpiresAt         string                 `json:"expiresAt,omitempty"`
	Status            Status                 `json:"status,omitempty"`
	CredentialSubject map[string]interface{} `json:"credentialSubject,omitempty"`
	JSON              string                 `json:"json,omitempty"`
}

// IsExpired reports whether the credential's expiry date has passed. A missing
// or unparseable expiry date counts as expired.
func (c *Credential) IsExpired() bool {
	return IsExpired(c.ExpiresAt)
}

// IsExpired reports whether the given expiry date has passed. A missing or
// unparseable date counts as expired.
func IsExpired(expiry string) bool {
	date, err := parseDate(expiry)
	if err != nil {
		return true
	}

	return date.Before(time.Now())
}

// FormatDate renders a backend date value for display. Empty values render as
// "N/A" and unparseable values as "Invalid Date".
func FormatDate(value string) string {
	if value == "" {
		return "N/A"
	}

	date, err := parseDate(value)
	if err != nil {
		return "Invalid Date"
	}

	return date.Format("Jan 2, 2006")
}

// DisplayName extracts a human-readable credential name from the raw
// credential document: the first ':'-delimited segment of
// credentialSchema.title when present, else a generic default.
func DisplayName(credentialJSON string) string {
	if credentialJSON == "" {
		return defaultDisplayName
	}

	var doc interface{}

	if err := json.Unmarshal([]byte(credentialJSON), &doc); err != nil {
		return defaultDisplayName
	}

	raw, err := jsonpath.Get("$.credentialSchema.title", doc)
	if err != nil {
		return defaultDisplayName
	}

	title, ok := raw.(string)
	if !ok || title == "" {
		return defaultDisplayName
	}

	return strings.SplitN(title, ":", 2)[0]
}

// DisplayClaims flattens a credentialSubject for display: internal keys are
// skipped, date claims are formatted, and nested values are JSON-rendered.
func DisplayClaims(subject map[string]interface{}) map[string]string {
	claims := make(map[string]string)

	for key, value := range subject {
		if bridgeutil.StringsContains(key, skippedClaimKeys) {
			continue
		}

		switch v := value.(type) {
		case string:
			if key == "Expiry Date" || key == "Issue Date" {
				claims[key] = FormatDate(v)

				continue
			}

			claims[key] = v
		default:
			rendered, err := json.Marshal(v)
			if err != nil {
				claims[key] = fmt.Sprintf("%v", v)

				continue
			}

			claims[key] = string(rendered)
		}
	}

	return claims
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date value is empty")
	}

	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date value '%s'", value)
}
