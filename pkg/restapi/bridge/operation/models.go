/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operation

import "github.com/trustbloc/wallet-bridge/pkg/vc"

// LoginRequest is the interactive login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest creates a new wallet account.
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// RegisterResponse acknowledges a completed registration.
type RegisterResponse struct {
	Registered bool `json:"registered"`
}

// SessionResponse describes the current session and embedding state.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Embedded      bool   `json:"embedded"`
	WaitingOnAuth bool   `json:"waitingOnAuth"`
	AccountID     string `json:"accountId,omitempty"`
	Username      string `json:"username,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
}

// CredentialSummary is a list entry in the credentials response.
type CredentialSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Status      string `json:"status"`
	Expired     bool   `json:"expired"`
	IssuedAt    string `json:"issuedAt,omitempty"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
	Selected    bool   `json:"selected"`
}

// CredentialsResponse is the credential list response.
type CredentialsResponse struct {
	Credentials []CredentialSummary `json:"credentials"`
}

// CredentialDetailResponse is the single-credential response.
type CredentialDetailResponse struct {
	Credential  *vc.Credential    `json:"credential"`
	DisplayName string            `json:"displayName"`
	Claims      map[string]string `json:"claims"`
}

// ToggleSelectRequest toggles a credential's membership in the selection set.
type ToggleSelectRequest struct {
	ID string `json:"id"`
}

// SelectionResponse is the current selection set.
type SelectionResponse struct {
	Selected []string `json:"selected"`
}

// ShareResponse describes a completed share.
type ShareResponse struct {
	Shared    int    `json:"shared"`
	Timestamp string `json:"timestamp"`
}

// UploadQRRequest imports a credential scanned from a QR code.
type UploadQRRequest struct {
	QRData string `json:"qrData"`
}

// SendOTPRequest requests a one-time password.
type SendOTPRequest struct {
	Phone string `json:"phone"`
}

// SendOTPResponse carries the verification token for the OTP just sent.
type SendOTPResponse struct {
	Token string `json:"token"`
}

// VerifyOTPRequest verifies a one-time password.
type VerifyOTPRequest struct {
	Token string `json:"token"`
	OTP   string `json:"otp"`
}
