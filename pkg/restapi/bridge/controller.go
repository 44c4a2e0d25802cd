/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package bridge

import (
	"github.com/trustbloc/wallet-bridge/pkg/restapi"
	"github.com/trustbloc/wallet-bridge/pkg/restapi/bridge/operation"
)

// New returns new controller instance.
func New(config *operation.Config) (*Controller, error) {
	bridgeService, err := operation.New(config)
	if err != nil {
		return nil, err
	}

	handlers := bridgeService.GetRESTHandlers()

	return &Controller{handlers: handlers}, nil
}

// Controller contains handlers for controller.
type Controller struct {
	handlers []restapi.Handler
}

// GetOperations returns all controller endpoints.
func (c *Controller) GetOperations() []restapi.Handler {
	return c.handlers
}
