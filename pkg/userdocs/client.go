/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package userdocs is the client for the external user-document service.
package userdocs

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/trustbloc/edge-core/pkg/log"
)

const (
	fetchEndpoint  = "%s/user-docs/fetch"
	deleteEndpoint = "%s/user-docs/delete/%s"
	uploadEndpoint = "%s/user-docs"
)

var logger = log.New("wallet-bridge/userdocs-client")

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token attached to outbound requests.
type TokenSource interface {
	Token() string
}

// Client calls the user-document service.
type Client struct {
	baseURL    string
	httpClient httpClient
	tokens     TokenSource
}

// New returns a new user-docs client.
func New(baseURL string, tlsConfig *tls.Config, tokens TokenSource) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: &http.Transport{TLSClientConfig: tlsConfig}},
		tokens:     tokens,
	}
}

// Fetch returns the user's documents.
func (c *Client) Fetch(ctx context.Context) ([]Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(fetchEndpoint, c.baseURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	body, err := c.sendRequest(req, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	var documents []Document

	if err := json.Unmarshal(body, &documents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal documents: %w", err)
	}

	return documents, nil
}

// Delete removes the document with the given ID.
func (c *Client) Delete(ctx context.Context, docID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf(deleteEndpoint, c.baseURL, url.PathEscape(docID)), nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}

	if _, err := c.sendRequest(req, http.StatusOK); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", docID, err)
	}

	return nil
}

// Upload stores a document using a multipart form with the file contents.
func (c *Client) Upload(ctx context.Context, upload *UploadRequest) error {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"doc_name":    upload.DocName,
		"doc_type":    upload.DocType,
		"doc_subtype": upload.DocSubtype,
	}

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile("file", upload.FileName)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(upload.FileContents); err != nil {
		return fmt.Errorf("failed to write form file: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf(uploadEndpoint, c.baseURL), &buf)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	if _, err := c.sendRequest(req, http.StatusOK); err != nil {
		return fmt.Errorf("failed to upload document: %w", err)
	}

	return nil
}

// UploadForm stores a document reference using a form-encoded body, the
// variant used when the document contents already live elsewhere.
func (c *Client) UploadForm(ctx context.Context, values url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf(uploadEndpoint, c.baseURL),
		strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err := c.sendRequest(req, http.StatusOK); err != nil {
		return fmt.Errorf("failed to upload document: %w", err)
	}

	return nil
}

func (c *Client) sendRequest(req *http.Request, status int) ([]byte, error) {
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warnf("failed to close response body")
		}
	}()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body for status %d: %w", resp.StatusCode, err)
	}

	if resp.StatusCode != status {
		return nil, fmt.Errorf("http request: %d %s", resp.StatusCode, string(body))
	}

	return body, nil
}
