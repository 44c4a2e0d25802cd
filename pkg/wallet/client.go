/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package wallet is the client for the external wallet backend: login, OTP,
// and verifiable-credential retrieval/upload. The backend owns credential
// storage and verification; this client only speaks its documented contract.
package wallet

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/trustbloc/wallet-bridge/pkg/session"
	"github.com/trustbloc/wallet-bridge/pkg/vc"
)

const (
	loginEndpoint     = "%s/api/wallet/login"
	registerEndpoint  = "%s/auth/register_with_password"
	vcsEndpoint       = "%s/api/wallet/%s/vcs"
	vcDetailEndpoint  = "%s/api/wallet/%s/vcs/%s"
	uploadQREndpoint  = "%s/api/wallet/%s/vcs/upload-qr"
	sendOTPEndpoint   = "%s/otp/send_otp"
	verifyOTPEndpoint = "%s/otp/verify_otp"

	statusOK = 200
)

// generic fallback messages when the backend doesn't provide one.
const (
	loginFailedErr     = "login failed"
	registerFailedErr  = "registration failed"
	fetchVCsFailedErr  = "failed to fetch VCs"
	fetchVCFailedErr   = "failed to fetch VC"
	uploadVCFailedErr  = "failed to upload VC"
	sendOTPFailedErr   = "failed to send OTP"
	verifyOTPFailedErr = "failed to verify OTP"
)

var logger = log.New("wallet-bridge/wallet-client")

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token attached to outbound requests.
type TokenSource interface {
	Token() string
}

// Client calls the wallet backend REST API.
type Client struct {
	baseURL    string
	httpClient httpClient
	tokens     TokenSource
}

// apiResponse is the backend's uniform response envelope.
type apiResponse struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// loginData is the data section of a successful login response.
type loginData struct {
	Token       string `json:"token,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	AccountID   string `json:"accountId"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Username    string `json:"username,omitempty"`
}

type otpData struct {
	Token string `json:"token"`
}

// New returns a new wallet backend client. Requests carry the bearer token
// supplied by tokens, so authenticating once authorizes all subsequent calls.
func New(baseURL string, tlsConfig *tls.Config, tokens TokenSource) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: &http.Transport{TLSClientConfig: tlsConfig}},
		tokens:     tokens,
	}
}

// Login authenticates the user against the backend and returns the resulting
// session. Optional profile fields default to empty strings.
func (c *Client) Login(ctx context.Context, username, password string) (*session.Session, error) {
	reqBytes, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	data, err := c.post(ctx, fmt.Sprintf(loginEndpoint, c.baseURL), reqBytes, loginFailedErr)
	if err != nil {
		return nil, err
	}

	var login loginData

	if err := json.Unmarshal(data, &login); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login data: %w", err)
	}

	token := login.Token
	if token == "" {
		token = login.AccessToken
	}

	if token == "" || login.AccountID == "" {
		return nil, fmt.Errorf("login response is missing token or accountId")
	}

	loginUsername := login.Username
	if loginUsername == "" {
		loginUsername = username
	}

	return &session.Session{
		Token: token,
		User: &session.User{
			AccountID: login.AccountID,
			FirstName: login.FirstName,
			LastName:  login.LastName,
			Email:     login.Email,
			Phone:     login.Phone,
			Username:  loginUsername,
		},
	}, nil
}

// Register creates a new wallet account with a password. The caller logs in
// separately afterwards, registration does not establish a session.
func (c *Client) Register(ctx context.Context, firstName, lastName, phoneNumber, password string) error {
	reqBytes, err := json.Marshal(map[string]string{
		"firstName":   firstName,
		"lastName":    lastName,
		"phoneNumber": phoneNumber,
		"password":    password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal registration request: %w", err)
	}

	_, err = c.post(ctx, fmt.Sprintf(registerEndpoint, c.baseURL), reqBytes, registerFailedErr)

	return err
}

// GetAllVCs fetches the user's credential list.
func (c *Client) GetAllVCs(ctx context.Context, userID string) ([]vc.Credential, error) {
	data, err := c.get(ctx, fmt.Sprintf(vcsEndpoint, c.baseURL, userID), fetchVCsFailedErr)
	if err != nil {
		return nil, err
	}

	var credentials []vc.Credential

	if err := json.Unmarshal(data, &credentials); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential list: %w", err)
	}

	return credentials, nil
}

// GetVC fetches the full detail of a single credential.
func (c *Client) GetVC(ctx context.Context, userID, vcID string) (*vc.Credential, error) {
	data, err := c.get(ctx, fmt.Sprintf(vcDetailEndpoint, c.baseURL, userID, vcID), fetchVCFailedErr)
	if err != nil {
		return nil, err
	}

	var credential vc.Credential

	if err := json.Unmarshal(data, &credential); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential detail: %w", err)
	}

	return &credential, nil
}

// UploadFromQR imports a credential scanned from a QR code.
func (c *Client) UploadFromQR(ctx context.Context, userID, qrData string) error {
	reqBytes, err := json.Marshal(map[string]string{"qrData": qrData})
	if err != nil {
		return fmt.Errorf("failed to marshal upload request: %w", err)
	}

	_, err = c.post(ctx, fmt.Sprintf(uploadQREndpoint, c.baseURL, userID), reqBytes, uploadVCFailedErr)

	return err
}

// SendOTP requests a one-time password for the given phone number and returns
// the verification token to present alongside the OTP.
func (c *Client) SendOTP(ctx context.Context, phone string) (string, error) {
	reqBytes, err := json.Marshal(map[string]string{"phone": phone})
	if err != nil {
		return "", fmt.Errorf("failed to marshal OTP request: %w", err)
	}

	data, err := c.post(ctx, fmt.Sprintf(sendOTPEndpoint, c.baseURL), reqBytes, sendOTPFailedErr)
	if err != nil {
		return "", err
	}

	var otp otpData

	if err := json.Unmarshal(data, &otp); err != nil {
		return "", fmt.Errorf("failed to unmarshal OTP data: %w", err)
	}

	return otp.Token, nil
}

// VerifyOTP verifies a one-time password against its verification token.
func (c *Client) VerifyOTP(ctx context.Context, token, otp string) error {
	reqBytes, err := json.Marshal(map[string]string{"token": token, "otp": otp})
	if err != nil {
		return fmt.Errorf("failed to marshal OTP verification: %w", err)
	}

	_, err = c.post(ctx, fmt.Sprintf(verifyOTPEndpoint, c.baseURL), reqBytes, verifyOTPFailedErr)

	return err
}

func (c *Client) get(ctx context.Context, endpoint, fallbackErr string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.sendRequest(req, fallbackErr)
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte, fallbackErr string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.sendRequest(req, fallbackErr)
}

// sendRequest sends the request with bearer authorization and decodes the
// backend envelope. Backend-provided messages are propagated; otherwise the
// caller's fallback message is used.
func (c *Client) sendRequest(req *http.Request, fallbackErr string) (json.RawMessage, error) {
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fallbackErr, err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warnf("failed to close response body")
		}
	}()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response body", fallbackErr)
	}

	var envelope apiResponse

	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%s: unexpected response [%d]", fallbackErr, resp.StatusCode)
	}

	if envelope.StatusCode != statusOK {
		if envelope.Message != "" {
			return nil, fmt.Errorf("%s", envelope.Message)
		}

		return nil, fmt.Errorf("%s", fallbackErr)
	}

	return envelope.Data, nil
}
