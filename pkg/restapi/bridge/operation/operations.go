/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package operation provides the wallet bridge REST features.
package operation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/trustbloc/wallet-bridge/pkg/handshake"
	"github.com/trustbloc/wallet-bridge/pkg/internal/common/support"
	"github.com/trustbloc/wallet-bridge/pkg/restapi"
	commhttp "github.com/trustbloc/wallet-bridge/pkg/restapi/internal/common/http"
	"github.com/trustbloc/wallet-bridge/pkg/session"
	"github.com/trustbloc/wallet-bridge/pkg/share"
	"github.com/trustbloc/wallet-bridge/pkg/userdocs"
	"github.com/trustbloc/wallet-bridge/pkg/vc"
)

var logger = log.New("wallet-bridge/restapi")

// constants for endpoints of the wallet bridge controller.
const (
	operationID         = "/wallet"
	LoginPath           = operationID + "/login"
	RegisterPath        = operationID + "/register"
	LogoutPath          = operationID + "/logout"
	SessionPath         = operationID + "/session"
	VCsPath             = operationID + "/vcs"
	VCUploadQRPath      = operationID + "/vcs/upload-qr"
	VCDetailPath        = operationID + "/vcs/{id}"
	SelectionPath       = operationID + "/selection"
	SelectionTogglePath = operationID + "/selection/toggle"
	SelectionAllPath    = operationID + "/selection/all"
	SharePath           = operationID + "/share"
	SendOTPPath         = operationID + "/otp/send"
	VerifyOTPPath       = operationID + "/otp/verify"
	UserDocsPath        = operationID + "/user-docs"
	UserDocsTypesPath   = operationID + "/user-docs/types"
	UserDocsSharePath   = operationID + "/user-docs/share"
	UserDocDeletePath   = operationID + "/user-docs/{id}"
	OIDCLoginPath       = "/oidc/login"
	OIDCCallbackPath    = "/oidc/callback"

	notAuthenticatedErr = "not authenticated"
	invalidRequestErr   = "invalid request"

	maxUploadSize = 10 << 20 // 10 MiB
)

// WalletBackend is the wallet backend contract this controller depends on.
type WalletBackend interface {
	Login(ctx context.Context, username, password string) (*session.Session, error)
	Register(ctx context.Context, firstName, lastName, phoneNumber, password string) error
	GetAllVCs(ctx context.Context, userID string) ([]vc.Credential, error)
	GetVC(ctx context.Context, userID, vcID string) (*vc.Credential, error)
	UploadFromQR(ctx context.Context, userID, qrData string) error
	SendOTP(ctx context.Context, phone string) (string, error)
	VerifyOTP(ctx context.Context, token, otp string) error
}

// DocsBackend is the user-document service contract this controller depends on.
type DocsBackend interface {
	Fetch(ctx context.Context) ([]userdocs.Document, error)
	Delete(ctx context.Context, docID string) error
	Upload(ctx context.Context, upload *userdocs.UploadRequest) error
}

// OIDCClient is the OIDC relying-party contract for the single-sign-on flow.
type OIDCClient interface {
	CreateOIDCRequest(state, scope string) string
	GetIDTokenClaims(reqContext context.Context, code string) ([]byte, error)
}

// Operation is the REST controller for the wallet bridge.
type Operation struct {
	sessionStore   *session.Store
	walletBackend  WalletBackend
	docsBackend    DocsBackend
	shareService   *share.Service
	handshakeSvc   *handshake.Service
	oidcClient     OIDCClient
	transientStore storage.Store
}

// Config defines configuration for wallet bridge operations.
type Config struct {
	SessionStore   *session.Store
	WalletBackend  WalletBackend
	DocsBackend    DocsBackend
	ShareService   *share.Service
	HandshakeSvc   *handshake.Service
	OIDCClient     OIDCClient
	TransientStore storage.Store
}

// New returns a new wallet bridge REST controller instance.
func New(config *Config) (*Operation, error) {
	if config.SessionStore == nil {
		return nil, fmt.Errorf("session store is required")
	}

	if config.WalletBackend == nil {
		return nil, fmt.Errorf("wallet backend is required")
	}

	if config.DocsBackend == nil {
		return nil, fmt.Errorf("docs backend is required")
	}

	if config.ShareService == nil {
		return nil, fmt.Errorf("share service is required")
	}

	if config.HandshakeSvc == nil {
		return nil, fmt.Errorf("handshake service is required")
	}

	if config.OIDCClient != nil && config.TransientStore == nil {
		return nil, fmt.Errorf("transient store is required for the oidc login flow")
	}

	return &Operation{
		sessionStore:   config.SessionStore,
		walletBackend:  config.WalletBackend,
		docsBackend:    config.DocsBackend,
		shareService:   config.ShareService,
		handshakeSvc:   config.HandshakeSvc,
		oidcClient:     config.OIDCClient,
		transientStore: config.TransientStore,
	}, nil
}

// GetRESTHandlers get all controller API handler available for this service.
func (o *Operation) GetRESTHandlers() []restapi.Handler {
	handlers := []restapi.Handler{
		support.NewHTTPHandler(LoginPath, http.MethodPost, o.Login),
		support.NewHTTPHandler(RegisterPath, http.MethodPost, o.Register),
		support.NewHTTPHandler(LogoutPath, http.MethodPost, o.Logout),
		support.NewHTTPHandler(SessionPath, http.MethodGet, o.GetSession),
		support.NewHTTPHandler(VCsPath, http.MethodGet, o.GetCredentials),
		support.NewHTTPHandler(VCUploadQRPath, http.MethodPost, o.UploadFromQR),
		support.NewHTTPHandler(VCDetailPath, http.MethodGet, o.GetCredential),
		support.NewHTTPHandler(SelectionPath, http.MethodGet, o.GetSelection),
		support.NewHTTPHandler(SelectionPath, http.MethodDelete, o.DeselectAll),
		support.NewHTTPHandler(SelectionTogglePath, http.MethodPost, o.ToggleSelection),
		support.NewHTTPHandler(SelectionAllPath, http.MethodPost, o.SelectAll),
		support.NewHTTPHandler(SharePath, http.MethodPost, o.Share),
		support.NewHTTPHandler(SendOTPPath, http.MethodPost, o.SendOTP),
		support.NewHTTPHandler(VerifyOTPPath, http.MethodPost, o.VerifyOTP),
		support.NewHTTPHandler(UserDocsPath, http.MethodGet, o.GetUserDocs),
		support.NewHTTPHandler(UserDocsPath, http.MethodPost, o.UploadUserDoc),
		support.NewHTTPHandler(UserDocsTypesPath, http.MethodGet, o.GetUserDocTypes),
		support.NewHTTPHandler(UserDocsSharePath, http.MethodPost, o.ShareUserDocs),
		support.NewHTTPHandler(UserDocDeletePath, http.MethodDelete, o.DeleteUserDoc),
	}

	if o.oidcClient != nil {
		handlers = append(handlers,
			support.NewHTTPHandler(OIDCLoginPath, http.MethodGet, o.OIDCLogin),
			support.NewHTTPHandler(OIDCCallbackPath, http.MethodGet, o.OIDCCallback),
		)
	}

	return handlers
}

// Login swagger:route POST /wallet/login wallet-bridge loginRequest
//
// Authenticates the user against the wallet backend and establishes the
// session.
//
// Responses:
//    default: genericError
//    200: sessionResponse
func (o *Operation) Login(rw http.ResponseWriter, req *http.Request) {
	var request LoginRequest

	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, invalidRequestErr, LoginPath, logger)

		return
	}

	if request.Username == "" || request.Password == "" {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest,
			"username and password are required", LoginPath, logger)

		return
	}

	newSession, err := o.walletBackend.Login(req.Context(), request.Username, request.Password)
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusUnauthorized, err.Error(), LoginPath, logger)

		return
	}

	if err := o.sessionStore.Save(newSession); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusInternalServerError, err.Error(), LoginPath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, o.sessionResponse(newSession), LoginPath, logger)
}

// Register swagger:route POST /wallet/register wallet-bridge registerRequest
//
// Creates a new wallet account. Registration does not establish a session, the
// user logs in afterwards.
//
// Responses:
//    default: genericError
//    200: registerResponse
func (o *Operation) Register(rw http.ResponseWriter, req *http.Request) {
	var request RegisterRequest

	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, invalidRequestErr, RegisterPath, logger)

		return
	}

	if request.FirstName == "" || request.PhoneNumber == "" || request.Password == "" {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest,
			"firstName, phoneNumber and password are required", RegisterPath, logger)

		return
	}

	err := o.walletBackend.Register(req.Context(),
		request.FirstName, request.LastName, request.PhoneNumber, request.Password)
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, err.Error(), RegisterPath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, &RegisterResponse{Registered: true}, RegisterPath, logger)
}

// Logout swagger:route POST /wallet/logout wallet-bridge logoutRequest
//
// Destroys the current session.
//
// Responses:
//    default: genericError
//    200: sessionResponse
func (o *Operation) Logout(rw http.ResponseWriter, req *http.Request) {
	if err := o.sessionStore.Clear(); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusInternalServerError, err.Error(), LogoutPath, logger)

		return
	}

	o.shareService.DeselectAll()

	commhttp.WriteResponseWithLog(rw, o.sessionResponse(nil), LogoutPath, logger)
}

// GetSession swagger:route GET /wallet/session wallet-bridge sessionRequest
//
// Returns the current session and embedding state.
//
// Responses:
//    default: genericError
//    200: sessionResponse
func (o *Operation) GetSession(rw http.ResponseWriter, req *http.Request) {
	currentSession, err := o.sessionStore.Get()
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusInternalServerError, err.Error(), SessionPath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, o.sessionResponse(currentSession), SessionPath, logger)
}

// GetCredentials swagger:route GET /wallet/vcs wallet-bridge credentialsRequest
//
// Returns the user's credential list. Loading the list also resets the share
// selection universe so stale selections never survive a reload.
//
// Responses:
//    default: genericError
//    200: credentialsResponse
func (o *Operation) GetCredentials(rw http.ResponseWriter, req *http.Request) {
	accountID, ok := o.requireSession(rw, VCsPath)
	if !ok {
		return
	}

	credentials, err := o.walletBackend.GetAllVCs(req.Context(), accountID)
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadGateway, err.Error(), VCsPath, logger)

		return
	}

	ids := make([]string, 0, len(credentials))
	for i := range credentials {
		ids = append(ids, credentials[i].ID)
	}

	o.shareService.SetCredentials(ids)

	selected := make(map[string]struct{})
	for _, id := range o.shareService.Selected() {
		selected[id] = struct{}{}
	}

	resp := &CredentialsResponse{Credentials: make([]CredentialSummary, 0, len(credentials))}

	for i := range credentials {
		credential := &credentials[i]

		_, isSelected := selected[credential.ID]

		resp.Credentials = append(resp.Credentials, CredentialSummary{
			ID:          credential.ID,
			Name:        credential.Name,
			DisplayName: vc.DisplayName(credential.JSON),
			Status:      string(credential.Status),
			Expired:     credential.IsExpired(),
			IssuedAt:    vc.FormatDate(credential.IssuedAt),
			ExpiresAt:   vc.FormatDate(credential.ExpiresAt),
			Selected:    isSelected,
		})
	}

	commhttp.WriteResponseWithLog(rw, resp, VCsPath, logger)
}

// GetCredential swagger:route GET /wallet/vcs/{id} wallet-bridge credentialRequest
//
// Returns the full detail of a single credential.
//
// Responses:
//    default: genericError
//    200: credentialDetailResponse
func (o *Operation) GetCredential(rw http.ResponseWriter, req *http.Request) {
	accountID, ok := o.requireSession(rw, VCDetailPath)
	if !ok {
		return
	}

	vcID := mux.Vars(req)["id"]

	credential, err := o.walletBackend.GetVC(req.Context(), accountID, vcID)
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadGateway, err.Error(), VCDetailPath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, &CredentialDetailResponse{
		Credential:  credential,
		DisplayName: vc.DisplayName(credential.JSON),
		Claims:      vc.DisplayClaims(credential.CredentialSubject),
	}, VCDetailPath, logger)
}

// UploadFromQR swagger:route POST /wallet/vcs/upload-qr wallet-bridge uploadQRRequest
//
// Imports a credential scanned from a QR code.
//
// Responses:
//    default: genericError
//    200: emptyResponse
func (o *Operation) UploadFromQR(rw http.ResponseWriter, req *http.Request) {
	accountID, ok := o.requireSession(rw, VCUploadQRPath)
	if !ok {
		return
	}

	var request UploadQRRequest

	if err := json.NewDecoder(req.Body).Decode(&request); err != nil || request.QRData == "" {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, invalidRequestErr, VCUploadQRPath, logger)

		return
	}

	if err := o.walletBackend.UploadFromQR(req.Context(), accountID, request.QRData); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadGateway, err.Error(), VCUploadQRPath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, struct{}{}, VCUploadQRPath, logger)
}

// GetSelection swagger:route GET /wallet/selection wallet-bridge selectionRequest
//
// Returns the current selection set.
//
// Responses:
//    default: genericError
//    200: selectionResponse
func (o *Operation) GetSelection(rw http.ResponseWriter, req *http.Request) {
	commhttp.WriteResponseWithLog(rw, &SelectionResponse{Selected: o.shareService.Selected()}, SelectionPath, logger)
}

// ToggleSelection swagger:route POST /wallet/selection/toggle wallet-bridge toggleSelectRequest
//
// Toggles a credential's membership in the selection set.
//
// Responses:
//    default: genericError
//    200: selectionResponse
func (o *Operation) ToggleSelection(rw http.ResponseWriter, req *http.Request) {
	var request ToggleSelectRequest

	if err := json.NewDecoder(req.Body).Decode(&request); err != nil || request.ID == "" {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, invalidRequestErr, SelectionTogglePath, logger)

		return
	}

	if err := o.shareService.Toggle(request.ID); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, err.Error(), SelectionTogglePath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, &SelectionResponse{Selected: o.shareService.Selected()},
		SelectionTogglePath, logger)
}

// SelectAll swagger:route POST /wallet/selection/all wallet-bridge selectAllRequest
//
// Selects every loaded credential.
//
// Responses:
//    default: genericError
//    200: selectionResponse
func (o *Operation) SelectAll(rw http.ResponseWriter, req *http.Request) {
	o.shareService.SelectAll()

	commhttp.WriteResponseWithLog(rw, &SelectionResponse{Selected: o.shareService.Selected()},
		SelectionAllPath, logger)
}

// DeselectAll swagger:route DELETE /wallet/selection wallet-bridge deselectAllRequest
//
// Empties the selection set.
//
// Responses:
//    default: genericError
//    200: selectionResponse
func (o *Operation) DeselectAll(rw http.ResponseWriter, req *http.Request) {
	o.shareService.DeselectAll()

	commhttp.WriteResponseWithLog(rw, &SelectionResponse{Selected: o.shareService.Selected()}, SelectionPath, logger)
}

// Share swagger:route POST /wallet/share wallet-bridge shareRequest
//
// Shares the selected credentials with the embedding parent application.
//
// Responses:
//    default: genericError
//    200: shareResponse
func (o *Operation) Share(rw http.ResponseWriter, req *http.Request) {
	result, err := o.shareService.Share(req.Context())
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, shareErrorStatus(err), err.Error(), SharePath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, &ShareResponse{Shared: result.Shared, Timestamp: result.Timestamp},
		SharePath, logger)
}

// SendOTP swagger:route POST /wallet/otp/send wallet-bridge sendOTPRequest
//
// Requests a one-time password for the given phone number.
//
// Responses:
//    default: genericError
//    200: sendOTPResponse
func (o *Operation) SendOTP(rw http.ResponseWriter, req *http.Request) {
	var request SendOTPRequest

	if err := json.NewDecoder(req.Body).Decode(&request); err != nil || request.Phone == "" {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, invalidRequestErr, SendOTPPath, logger)

		return
	}

	token, err := o.walletBackend.SendOTP(req.Context(), request.Phone)
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadGateway, err.Error(), SendOTPPath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, &SendOTPResponse{Token: token}, SendOTPPath, logger)
}

// VerifyOTP swagger:route POST /wallet/otp/verify wallet-bridge verifyOTPRequest
//
// Verifies a one-time password against its verification token.
//
// Responses:
//    default: genericError
//    200: emptyResponse
func (o *Operation) VerifyOTP(rw http.ResponseWriter, req *http.Request) {
	var request VerifyOTPRequest

	if err := json.NewDecoder(req.Body).Decode(&request); err != nil || request.Token == "" || request.OTP == "" {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, invalidRequestErr, VerifyOTPPath, logger)

		return
	}

	if err := o.walletBackend.VerifyOTP(req.Context(), request.Token, request.OTP); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusUnauthorized, err.Error(), VerifyOTPPath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, struct{}{}, VerifyOTPPath, logger)
}

// GetUserDocs swagger:route GET /wallet/user-docs wallet-bridge userDocsRequest
//
// Returns the user's documents.
//
// Responses:
//    default: genericError
//    200: userDocsResponse
func (o *Operation) GetUserDocs(rw http.ResponseWriter, req *http.Request) {
	if _, ok := o.requireSession(rw, UserDocsPath); !ok {
		return
	}

	docs, err := o.docsBackend.Fetch(req.Context())
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadGateway, err.Error(), UserDocsPath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, docs, UserDocsPath, logger)
}

// GetUserDocTypes swagger:route GET /wallet/user-docs/types wallet-bridge userDocTypesRequest
//
// Returns the catalog of recognized document categories.
//
// Responses:
//    default: genericError
//    200: userDocTypesResponse
func (o *Operation) GetUserDocTypes(rw http.ResponseWriter, req *http.Request) {
	commhttp.WriteResponseWithLog(rw, userdocs.DocumentTypes(), UserDocsTypesPath, logger)
}

// UploadUserDoc swagger:route POST /wallet/user-docs wallet-bridge uploadUserDocRequest
//
// Stores a new user document uploaded as a multipart form.
//
// Responses:
//    default: genericError
//    200: emptyResponse
func (o *Operation) UploadUserDoc(rw http.ResponseWriter, req *http.Request) {
	if _, ok := o.requireSession(rw, UserDocsPath); !ok {
		return
	}

	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, invalidRequestErr, UserDocsPath, logger)

		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, "file is required", UserDocsPath, logger)

		return
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Warnf("failed to close uploaded file: %s", closeErr)
		}
	}()

	contents, err := ioutil.ReadAll(file)
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, "failed to read uploaded file",
			UserDocsPath, logger)

		return
	}

	upload := &userdocs.UploadRequest{
		DocName:      req.FormValue("doc_name"),
		DocType:      req.FormValue("doc_type"),
		DocSubtype:   req.FormValue("doc_subtype"),
		FileName:     header.Filename,
		FileContents: contents,
	}

	if upload.DocName == "" {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, "doc_name is required", UserDocsPath, logger)

		return
	}

	if err := o.docsBackend.Upload(req.Context(), upload); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadGateway, err.Error(), UserDocsPath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, struct{}{}, UserDocsPath, logger)
}

// DeleteUserDoc swagger:route DELETE /wallet/user-docs/{id} wallet-bridge deleteUserDocRequest
//
// Removes a user document.
//
// Responses:
//    default: genericError
//    200: emptyResponse
func (o *Operation) DeleteUserDoc(rw http.ResponseWriter, req *http.Request) {
	if _, ok := o.requireSession(rw, UserDocDeletePath); !ok {
		return
	}

	docID := mux.Vars(req)["id"]

	if err := o.docsBackend.Delete(req.Context(), docID); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadGateway, err.Error(), UserDocDeletePath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, struct{}{}, UserDocDeletePath, logger)
}

// ShareUserDocs swagger:route POST /wallet/user-docs/share wallet-bridge shareUserDocsRequest
//
// Relays the given user documents to the embedding parent application.
//
// Responses:
//    default: genericError
//    200: emptyResponse
func (o *Operation) ShareUserDocs(rw http.ResponseWriter, req *http.Request) {
	if _, ok := o.requireSession(rw, UserDocsSharePath); !ok {
		return
	}

	var request struct {
		DocIDs []string `json:"docIds"`
	}

	if err := json.NewDecoder(req.Body).Decode(&request); err != nil || len(request.DocIDs) == 0 {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, invalidRequestErr, UserDocsSharePath, logger)

		return
	}

	docs, err := o.docsBackend.Fetch(req.Context())
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadGateway, err.Error(), UserDocsSharePath, logger)

		return
	}

	byID := make(map[string]userdocs.Document, len(docs))
	for _, doc := range docs {
		byID[doc.DocID] = doc
	}

	toShare := make([]userdocs.Document, 0, len(request.DocIDs))

	for _, id := range request.DocIDs {
		doc, ok := byID[id]
		if !ok {
			commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest,
				fmt.Sprintf("unknown document id '%s'", id), UserDocsSharePath, logger)

			return
		}

		toShare = append(toShare, doc)
	}

	if err := o.shareService.ShareDocuments(toShare); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, shareErrorStatus(err), err.Error(), UserDocsSharePath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, struct{}{}, UserDocsSharePath, logger)
}

// OIDCLogin swagger:route GET /oidc/login wallet-bridge oidcLoginRequest
//
// Redirects the user to the OIDC provider for single sign-on.
//
// Responses:
//    default: genericError
//    302: emptyResponse
func (o *Operation) OIDCLogin(rw http.ResponseWriter, req *http.Request) {
	state := uuid.New().String()

	if err := o.transientStore.Put(state, []byte(state)); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusInternalServerError, err.Error(), OIDCLoginPath, logger)

		return
	}

	redirectURL := o.oidcClient.CreateOIDCRequest(state, req.URL.Query().Get("scope"))

	http.Redirect(rw, req, redirectURL, http.StatusFound)
}

// OIDCCallback swagger:route GET /oidc/callback wallet-bridge oidcCallbackRequest
//
// Completes the single-sign-on flow and establishes the session from the
// verified id_token claims.
//
// Responses:
//    default: genericError
//    200: sessionResponse
func (o *Operation) OIDCCallback(rw http.ResponseWriter, req *http.Request) {
	state := req.URL.Query().Get("state")
	code := req.URL.Query().Get("code")

	if state == "" || code == "" {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, invalidRequestErr, OIDCCallbackPath, logger)

		return
	}

	if _, err := o.transientStore.Get(state); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadRequest, "invalid state", OIDCCallbackPath, logger)

		return
	}

	if err := o.transientStore.Delete(state); err != nil {
		logger.Warnf("failed to remove used oidc state: %s", err)
	}

	claimsBytes, err := o.oidcClient.GetIDTokenClaims(req.Context(), code)
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadGateway, err.Error(), OIDCCallbackPath, logger)

		return
	}

	newSession, err := sessionFromClaims(claimsBytes)
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusBadGateway, err.Error(), OIDCCallbackPath, logger)

		return
	}

	if err := o.sessionStore.Save(newSession); err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusInternalServerError, err.Error(), OIDCCallbackPath, logger)

		return
	}

	commhttp.WriteResponseWithLog(rw, o.sessionResponse(newSession), OIDCCallbackPath, logger)
}

// requireSession resolves the authenticated account ID or writes a 401.
func (o *Operation) requireSession(rw http.ResponseWriter, endpoint string) (string, bool) {
	currentSession, err := o.sessionStore.Get()
	if err != nil {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusInternalServerError, err.Error(), endpoint, logger)

		return "", false
	}

	if !currentSession.IsAuthenticated() {
		commhttp.WriteErrorResponseWithLog(rw, http.StatusUnauthorized, notAuthenticatedErr, endpoint, logger)

		return "", false
	}

	return currentSession.User.AccountID, true
}

func (o *Operation) sessionResponse(currentSession *session.Session) *SessionResponse {
	resp := &SessionResponse{
		Embedded:      o.handshakeSvc.Embedded(),
		WaitingOnAuth: o.handshakeSvc.WaitingForParentAuth(),
	}

	if currentSession.IsAuthenticated() {
		resp.Authenticated = true
		resp.AccountID = currentSession.User.AccountID
		resp.Username = currentSession.User.Username
		resp.FirstName = currentSession.User.FirstName
		resp.LastName = currentSession.User.LastName
	}

	return resp
}

// sessionFromClaims builds a session from verified id_token claims. The token
// is a locally generated handle: the SSO flow authenticates the user to the
// bridge, not to the wallet backend.
func sessionFromClaims(claimsBytes []byte) (*session.Session, error) {
	var claims struct {
		Sub        string `json:"sub"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Email      string `json:"email"`
	}

	if err := json.Unmarshal(claimsBytes, &claims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal id_token claims: %w", err)
	}

	if claims.Sub == "" {
		return nil, fmt.Errorf("id_token claims are missing sub")
	}

	return &session.Session{
		Token: uuid.New().String(),
		User: &session.User{
			AccountID: claims.Sub,
			FirstName: claims.GivenName,
			LastName:  claims.FamilyName,
			Email:     claims.Email,
			Username:  claims.Email,
		},
	}, nil
}

func shareErrorStatus(err error) int {
	switch {
	case errors.Is(err, share.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, share.ErrNoSelection), errors.Is(err, share.ErrEmbeddingRequired):
		return http.StatusBadRequest
	case errors.Is(err, share.ErrFetchDetail):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
