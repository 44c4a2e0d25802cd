/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package http

import (
	"encoding/json"
	"net/http"

	"github.com/trustbloc/edge-core/pkg/log"
)

// ErrorResponse is the generic error response body.
type ErrorResponse struct {
	// Message is the error message.
	Message string `json:"errMessage,omitempty"`
}

// WriteErrorResponseWithLog writes the error response and logs it against the
// endpoint it occurred on.
func WriteErrorResponseWithLog(rw http.ResponseWriter, status int, msg, endpoint string, logger log.Logger) {
	logger.Errorf("endpoint=[%s] status=[%d] errMsg=[%s]", endpoint, status, msg)

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	err := json.NewEncoder(rw).Encode(ErrorResponse{
		Message: msg,
	})
	if err != nil {
		logger.Errorf("unable to send error message: %s", err)
	}
}

// WriteResponseWithLog writes the response and logs the endpoint it was served
// on.
func WriteResponseWithLog(rw http.ResponseWriter, v interface{}, endpoint string, logger log.Logger) {
	logger.Debugf("endpoint=[%s] msg=[%s]", endpoint, "success")

	rw.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(rw).Encode(v)
	if err != nil {
		logger.Errorf("unable to send response: %s", err)
	}
}
