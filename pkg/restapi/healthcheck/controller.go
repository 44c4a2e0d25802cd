/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package healthcheck

import (
	"github.com/trustbloc/wallet-bridge/pkg/restapi"
	"github.com/trustbloc/wallet-bridge/pkg/restapi/healthcheck/operation"
)

// New returns new controller instance.
func New() *Controller {
	var allHandlers []restapi.Handler

	rpService := operation.New()
	allHandlers = append(allHandlers, rpService.GetRESTHandlers()...)

	return &Controller{handlers: allHandlers}
}

// Controller contains handlers for controller.
type Controller struct {
	handlers []restapi.Handler
}

// GetOperations returns all controller endpoints.
func (c *Controller) GetOperations() []restapi.Handler {
	return c.handlers
}
