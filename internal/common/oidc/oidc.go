/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package oidc wraps the OpenID Connect provider used for the alternate
// single-sign-on login flow.
package oidc

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc"
	"github.com/trustbloc/edge-core/pkg/log"
	"golang.org/x/oauth2"
)

var logger = log.New("wallet-bridge/oidc")

// Client is the OIDC relying-party client.
type Client struct {
	oidcProvider     *oidc.Provider
	oidcClientID     string
	oidcClientSecret string
	oidcCallbackURL  string
	scopes           []string
	oauth2ConfigFunc func(...string) *oauth2.Config
	tlsConfig        *tls.Config
}

// Config defines configuration for the OIDC client.
type Config struct {
	TLSConfig        *tls.Config
	OIDCProviderURL  string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCCallbackURL  string
	Scopes           []string
}

// New returns a client bound to the provider at config.OIDCProviderURL. The
// provider's discovery document is fetched here, so construction fails fast on
// a misconfigured URL.
func New(config *Config) (*Client, error) {
	svc := &Client{
		oidcClientID:     config.OIDCClientID,
		oidcClientSecret: config.OIDCClientSecret,
		oidcCallbackURL:  config.OIDCCallbackURL,
		scopes:           config.Scopes,
		tlsConfig:        config.TLSConfig,
	}

	idp, err := oidc.NewProvider(
		oidc.ClientContext(
			context.Background(),
			&http.Client{
				Transport: &http.Transport{TLSClientConfig: config.TLSConfig},
			},
		),
		config.OIDCProviderURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init oidc provider with url [%s] : %w", config.OIDCProviderURL, err)
	}

	svc.oidcProvider = idp

	svc.oauth2ConfigFunc = func(scopes ...string) *oauth2.Config {
		oauthConfig := &oauth2.Config{
			ClientID:     svc.oidcClientID,
			ClientSecret: svc.oidcClientSecret,
			Endpoint:     svc.oidcProvider.Endpoint(),
			RedirectURL:  svc.oidcCallbackURL,
			Scopes:       []string{oidc.ScopeOpenID},
		}

		oauthConfig.Scopes = append(oauthConfig.Scopes, svc.scopes...)

		if len(scopes) > 0 {
			oauthConfig.Scopes = append(oauthConfig.Scopes, scopes...)
		}

		return oauthConfig
	}

	return svc, nil
}

// CreateOIDCRequest returns the authorization URL to redirect the user to.
func (c *Client) CreateOIDCRequest(state, scope string) string {
	redirectURL := c.oauth2ConfigFunc(strings.Split(scope, " ")...).AuthCodeURL(state, oauth2.AccessTypeOnline)

	logger.Debugf("redirectURL: %s", redirectURL)

	return redirectURL
}

// GetIDTokenClaims exchanges the authorization code, verifies the resulting
// id_token against the provider keys and returns its claims as JSON.
func (c *Client) GetIDTokenClaims(reqContext context.Context, code string) ([]byte, error) {
	oauthToken, err := c.oauth2ConfigFunc().Exchange(
		context.WithValue(
			reqContext,
			oauth2.HTTPClient,
			&http.Client{Transport: &http.Transport{TLSClientConfig: c.tlsConfig}},
		),
		code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth2 code for token : %w", err)
	}

	rawIDToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("missing id_token in oauth2 token response")
	}

	oidcToken, err := c.oidcProvider.Verifier(&oidc.Config{
		ClientID: c.oidcClientID,
	}).Verify(reqContext, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify id_token : %w", err)
	}

	userData := make(map[string]interface{})

	err = oidcToken.Claims(&userData)
	if err != nil {
		return nil, fmt.Errorf("failed to extract user data from id_token : %w", err)
	}

	bits, err := json.Marshal(userData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user data : %w", err)
	}

	return bits, nil
}

// CheckRefresh returns the given token, refreshed first if it has expired.
func (c *Client) CheckRefresh(tok *oauth2.Token) (*oauth2.Token, error) {
	if tok.Valid() {
		return tok, nil
	}

	refreshed, err := c.oauth2ConfigFunc().TokenSource(
		context.WithValue(
			context.Background(),
			oauth2.HTTPClient,
			&http.Client{Transport: &http.Transport{TLSClientConfig: c.tlsConfig}},
		),
		tok).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh oauth2 token : %w", err)
	}

	return refreshed, nil
}
