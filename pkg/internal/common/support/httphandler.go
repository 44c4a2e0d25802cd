/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package support

import "net/http"

// HTTPHandler is an HTTP handler for the controller API endpoints.
type HTTPHandler struct {
	path   string
	method string
	handle http.HandlerFunc
}

// NewHTTPHandler returns a configured instance of HTTPHandler.
func NewHTTPHandler(path, method string, handle http.HandlerFunc) *HTTPHandler {
	return &HTTPHandler{path: path, method: method, handle: handle}
}

// Path returns the endpoint path.
func (h *HTTPHandler) Path() string {
	return h.path
}

// Method returns the endpoint HTTP method.
func (h *HTTPHandler) Method() string {
	return h.method
}

// Handle returns the endpoint handler func.
func (h *HTTPHandler) Handle() http.HandlerFunc {
	return h.handle
}
