/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/wallet-bridge/pkg/frame"
	"github.com/trustbloc/wallet-bridge/pkg/handshake"
	"github.com/trustbloc/wallet-bridge/pkg/origin"
	"github.com/trustbloc/wallet-bridge/pkg/session"
	"github.com/trustbloc/wallet-bridge/pkg/share"
	"github.com/trustbloc/wallet-bridge/pkg/userdocs"
	"github.com/trustbloc/wallet-bridge/pkg/vc"
)

const parentOrigin = "https://parent.example.com"

func TestNew(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		op := newOperation(t)
		require.Len(t, op.GetRESTHandlers(), 19)
	})

	t.Run("oidc endpoints registered when client is configured", func(t *testing.T) {
		env := newTestEnv(t)
		env.config.OIDCClient = &mockOIDC{}
		env.config.TransientStore = newTransientStore(t)

		op, err := New(env.config)
		require.NoError(t, err)
		require.Len(t, op.GetRESTHandlers(), 21)
	})

	t.Run("missing dependencies", func(t *testing.T) {
		env := newTestEnv(t)
		env.config.SessionStore = nil
		_, err := New(env.config)
		require.EqualError(t, err, "session store is required")

		env = newTestEnv(t)
		env.config.WalletBackend = nil
		_, err = New(env.config)
		require.EqualError(t, err, "wallet backend is required")

		env = newTestEnv(t)
		env.config.DocsBackend = nil
		_, err = New(env.config)
		require.EqualError(t, err, "docs backend is required")

		env = newTestEnv(t)
		env.config.ShareService = nil
		_, err = New(env.config)
		require.EqualError(t, err, "share service is required")

		env = newTestEnv(t)
		env.config.HandshakeSvc = nil
		_, err = New(env.config)
		require.EqualError(t, err, "handshake service is required")

		env = newTestEnv(t)
		env.config.OIDCClient = &mockOIDC{}
		_, err = New(env.config)
		require.EqualError(t, err, "transient store is required for the oidc login flow")
	})
}

func TestOperation_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)

		var gotPhone string

		env.wallet.register = func(firstName, lastName, phoneNumber, password string) error {
			gotPhone = phoneNumber

			return nil
		}

		op := newOperationFromEnv(t, env)

		rr := serveJSON(t, op.Register, http.MethodPost, RegisterPath, &RegisterRequest{
			FirstName:   "Jo",
			LastName:    "Smith",
			PhoneNumber: "5551234",
			Password:    "pw",
		})
		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "5551234", gotPhone)

		var resp RegisterResponse

		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.True(t, resp.Registered)

		// registration does not establish a session
		saved, err := env.config.SessionStore.Get()
		require.NoError(t, err)
		require.Nil(t, saved)
	})

	t.Run("malformed body", func(t *testing.T) {
		op := newOperation(t)

		rr := httptest.NewRecorder()
		op.Register(rr, httptest.NewRequest(http.MethodPost, RegisterPath, bytes.NewBufferString("{")))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing required fields", func(t *testing.T) {
		op := newOperation(t)

		rr := serveJSON(t, op.Register, http.MethodPost, RegisterPath, &RegisterRequest{FirstName: "Jo"})
		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.Contains(t, rr.Body.String(), "firstName, phoneNumber and password are required")
	})

	t.Run("backend failure is propagated", func(t *testing.T) {
		env := newTestEnv(t)
		env.wallet.register = func(string, string, string, string) error {
			return errors.New("phone number already registered")
		}

		op := newOperationFromEnv(t, env)

		rr := serveJSON(t, op.Register, http.MethodPost, RegisterPath, &RegisterRequest{
			FirstName:   "Jo",
			PhoneNumber: "5551234",
			Password:    "pw",
		})
		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.Contains(t, rr.Body.String(), "phone number already registered")
	})
}

func TestOperation_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		env.wallet.login = func(username, password string) (*session.Session, error) {
			return &session.Session{
				Token: "token-1",
				User:  &session.User{AccountID: "user-1", Username: username},
			}, nil
		}

		op := newOperationFromEnv(t, env)

		rr := serveJSON(t, op.Login, http.MethodPost, LoginPath, &LoginRequest{Username: "jo", Password: "pw"})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp SessionResponse

		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.True(t, resp.Authenticated)
		require.Equal(t, "user-1", resp.AccountID)

		saved, err := env.config.SessionStore.Get()
		require.NoError(t, err)
		require.True(t, saved.IsAuthenticated())
	})

	t.Run("malformed body", func(t *testing.T) {
		op := newOperation(t)

		rr := httptest.NewRecorder()
		op.Login(rr, httptest.NewRequest(http.MethodPost, LoginPath, bytes.NewBufferString("{")))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		op := newOperation(t)

		rr := serveJSON(t, op.Login, http.MethodPost, LoginPath, &LoginRequest{Username: "jo"})
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("backend rejects credentials", func(t *testing.T) {
		env := newTestEnv(t)
		env.wallet.login = func(string, string) (*session.Session, error) {
			return nil, errors.New("invalid username or password")
		}

		op := newOperationFromEnv(t, env)

		rr := serveJSON(t, op.Login, http.MethodPost, LoginPath, &LoginRequest{Username: "jo", Password: "pw"})
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.Contains(t, rr.Body.String(), "invalid username or password")
	})
}

func TestOperation_LogoutAndSession(t *testing.T) {
	t.Run("logout clears session and selection", func(t *testing.T) {
		env := newTestEnv(t)
		op := newOperationFromEnv(t, env)

		authenticate(t, env)
		env.config.ShareService.SetCredentials([]string{"vc-1"})
		env.config.ShareService.SelectAll()

		rr := httptest.NewRecorder()
		op.Logout(rr, httptest.NewRequest(http.MethodPost, LogoutPath, nil))
		require.Equal(t, http.StatusOK, rr.Code)

		saved, err := env.config.SessionStore.Get()
		require.NoError(t, err)
		require.Nil(t, saved)
		require.Empty(t, env.config.ShareService.Selected())
	})

	t.Run("session reflects embedding state", func(t *testing.T) {
		env := newTestEnv(t)
		op := newOperationFromEnv(t, env)

		rr := httptest.NewRecorder()
		op.GetSession(rr, httptest.NewRequest(http.MethodGet, SessionPath, nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp SessionResponse

		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.False(t, resp.Authenticated)
		require.True(t, resp.Embedded)
	})
}

func TestOperation_GetCredentials(t *testing.T) {
	t.Run("success resets selection universe", func(t *testing.T) {
		env := newTestEnv(t)
		env.wallet.getAllVCs = func(userID string) ([]vc.Credential, error) {
			require.Equal(t, "user-1", userID)

			return []vc.Credential{
				{ID: "vc-1", Name: "One", ExpiresAt: "2030-01-02", Status: vc.StatusActive},
				{ID: "vc-2", Name: "Two", ExpiresAt: "2001-01-02", Status: vc.StatusExpired},
			}, nil
		}

		op := newOperationFromEnv(t, env)
		authenticate(t, env)

		rr := httptest.NewRecorder()
		op.GetCredentials(rr, httptest.NewRequest(http.MethodGet, VCsPath, nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp CredentialsResponse

		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.Credentials, 2)
		require.False(t, resp.Credentials[0].Expired)
		require.True(t, resp.Credentials[1].Expired)

		require.NoError(t, env.config.ShareService.Toggle("vc-1"))
		require.Error(t, env.config.ShareService.Toggle("vc-99"))
	})

	t.Run("unauthenticated", func(t *testing.T) {
		op := newOperation(t)

		rr := httptest.NewRecorder()
		op.GetCredentials(rr, httptest.NewRequest(http.MethodGet, VCsPath, nil))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("backend failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.wallet.getAllVCs = func(string) ([]vc.Credential, error) {
			return nil, errors.New("backend down")
		}

		op := newOperationFromEnv(t, env)
		authenticate(t, env)

		rr := httptest.NewRecorder()
		op.GetCredentials(rr, httptest.NewRequest(http.MethodGet, VCsPath, nil))
		require.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

func TestOperation_GetCredential(t *testing.T) {
	env := newTestEnv(t)
	env.wallet.getVC = func(userID, vcID string) (*vc.Credential, error) {
		if vcID != "vc-1" {
			return nil, errors.New("not found")
		}

		return &vc.Credential{
			ID:                "vc-1",
			CredentialSubject: map[string]interface{}{"Name": "Jo", "id": "hidden"},
			JSON:              `{"credentialSchema":{"title":"Marksheet:v1"}}`,
		}, nil
	}

	op := newOperationFromEnv(t, env)
	authenticate(t, env)

	t.Run("success", func(t *testing.T) {
		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/wallet/vcs/vc-1", nil),
			map[string]string{"id": "vc-1"})

		rr := httptest.NewRecorder()
		op.GetCredential(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp CredentialDetailResponse

		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Equal(t, "Marksheet", resp.DisplayName)
		require.Equal(t, "Jo", resp.Claims["Name"])
		require.NotContains(t, resp.Claims, "id")
	})

	t.Run("not found", func(t *testing.T) {
		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/wallet/vcs/vc-9", nil),
			map[string]string{"id": "vc-9"})

		rr := httptest.NewRecorder()
		op.GetCredential(rr, req)
		require.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

func TestOperation_Selection(t *testing.T) {
	env := newTestEnv(t)
	op := newOperationFromEnv(t, env)
	env.config.ShareService.SetCredentials([]string{"vc-1", "vc-2"})

	t.Run("toggle", func(t *testing.T) {
		rr := serveJSON(t, op.ToggleSelection, http.MethodPost, SelectionTogglePath, &ToggleSelectRequest{ID: "vc-1"})
		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), "vc-1")
	})

	t.Run("toggle unknown id", func(t *testing.T) {
		rr := serveJSON(t, op.ToggleSelection, http.MethodPost, SelectionTogglePath, &ToggleSelectRequest{ID: "zz"})
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("select all then deselect all", func(t *testing.T) {
		rr := httptest.NewRecorder()
		op.SelectAll(rr, httptest.NewRequest(http.MethodPost, SelectionAllPath, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, []string{"vc-1", "vc-2"}, env.config.ShareService.Selected())

		rr = httptest.NewRecorder()
		op.DeselectAll(rr, httptest.NewRequest(http.MethodDelete, SelectionPath, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		require.Empty(t, env.config.ShareService.Selected())
	})
}

func TestOperation_Share(t *testing.T) {
	t.Run("success posts to parent", func(t *testing.T) {
		env := newTestEnv(t)
		env.wallet.getVC = func(_, vcID string) (*vc.Credential, error) {
			return &vc.Credential{ID: vcID}, nil
		}

		received := make(chan *frame.Message, 1)
		require.NoError(t, env.parent.RegisterMsgEvent(received))

		op := newOperationFromEnv(t, env)
		authenticate(t, env)
		env.config.ShareService.SetCredentials([]string{"vc-1"})
		env.config.ShareService.SelectAll()

		rr := httptest.NewRecorder()
		op.Share(rr, httptest.NewRequest(http.MethodPost, SharePath, nil))
		require.Equal(t, http.StatusOK, rr.Code)

		msg := <-received
		require.Equal(t, share.MsgTypeVCShared, msg.Type)
	})

	t.Run("empty selection", func(t *testing.T) {
		env := newTestEnv(t)
		op := newOperationFromEnv(t, env)
		authenticate(t, env)

		rr := httptest.NewRecorder()
		op.Share(rr, httptest.NewRequest(http.MethodPost, SharePath, nil))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		env := newTestEnv(t)
		op := newOperationFromEnv(t, env)
		env.config.ShareService.SetCredentials([]string{"vc-1"})
		env.config.ShareService.SelectAll()

		rr := httptest.NewRecorder()
		op.Share(rr, httptest.NewRequest(http.MethodPost, SharePath, nil))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestOperation_OTP(t *testing.T) {
	env := newTestEnv(t)
	env.wallet.sendOTP = func(phone string) (string, error) {
		require.Equal(t, "5551234", phone)

		return "otp-token", nil
	}
	env.wallet.verifyOTP = func(token, otp string) error {
		if otp != "123456" {
			return errors.New("wrong otp")
		}

		return nil
	}

	op := newOperationFromEnv(t, env)

	t.Run("send", func(t *testing.T) {
		rr := serveJSON(t, op.SendOTP, http.MethodPost, SendOTPPath, &SendOTPRequest{Phone: "5551234"})
		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), "otp-token")
	})

	t.Run("verify success", func(t *testing.T) {
		rr := serveJSON(t, op.VerifyOTP, http.MethodPost, VerifyOTPPath,
			&VerifyOTPRequest{Token: "otp-token", OTP: "123456"})
		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("verify failure", func(t *testing.T) {
		rr := serveJSON(t, op.VerifyOTP, http.MethodPost, VerifyOTPPath,
			&VerifyOTPRequest{Token: "otp-token", OTP: "000000"})
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestOperation_UserDocs(t *testing.T) {
	t.Run("fetch", func(t *testing.T) {
		env := newTestEnv(t)
		env.docs.fetch = func() ([]userdocs.Document, error) {
			return []userdocs.Document{{DocID: "doc-1", DocName: "Aadhaar Card"}}, nil
		}

		op := newOperationFromEnv(t, env)
		authenticate(t, env)

		rr := httptest.NewRecorder()
		op.GetUserDocs(rr, httptest.NewRequest(http.MethodGet, UserDocsPath, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), "doc-1")
	})

	t.Run("types catalog", func(t *testing.T) {
		op := newOperation(t)

		rr := httptest.NewRecorder()
		op.GetUserDocTypes(rr, httptest.NewRequest(http.MethodGet, UserDocsTypesPath, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), "Aadhaar Card")
	})

	t.Run("delete", func(t *testing.T) {
		env := newTestEnv(t)

		deleted := ""
		env.docs.delete = func(docID string) error {
			deleted = docID

			return nil
		}

		op := newOperationFromEnv(t, env)
		authenticate(t, env)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/wallet/user-docs/doc-1", nil),
			map[string]string{"id": "doc-1"})

		rr := httptest.NewRecorder()
		op.DeleteUserDoc(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "doc-1", deleted)
	})

	t.Run("upload multipart", func(t *testing.T) {
		env := newTestEnv(t)

		var uploaded *userdocs.UploadRequest

		env.docs.upload = func(upload *userdocs.UploadRequest) error {
			uploaded = upload

			return nil
		}

		op := newOperationFromEnv(t, env)
		authenticate(t, env)

		var buf bytes.Buffer

		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.WriteField("doc_name", "Marksheet"))
		require.NoError(t, writer.WriteField("doc_type", "marksProof"))
		require.NoError(t, writer.WriteField("doc_subtype", "marksheet"))

		part, err := writer.CreateFormFile("file", "marksheet.pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte("pdf-bytes"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, UserDocsPath, &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())

		rr := httptest.NewRecorder()
		op.UploadUserDoc(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, uploaded)
		require.Equal(t, "Marksheet", uploaded.DocName)
		require.Equal(t, []byte("pdf-bytes"), uploaded.FileContents)
	})

	t.Run("share documents", func(t *testing.T) {
		env := newTestEnv(t)
		env.docs.fetch = func() ([]userdocs.Document, error) {
			return []userdocs.Document{{DocID: "doc-1"}, {DocID: "doc-2"}}, nil
		}

		received := make(chan *frame.Message, 1)
		require.NoError(t, env.parent.RegisterMsgEvent(received))

		op := newOperationFromEnv(t, env)
		authenticate(t, env)

		rr := serveJSON(t, op.ShareUserDocs, http.MethodPost, UserDocsSharePath,
			map[string][]string{"docIds": {"doc-2"}})
		require.Equal(t, http.StatusOK, rr.Code)

		msg := <-received
		require.Equal(t, share.MsgTypeSelectedDocs, msg.Type)
		require.Contains(t, string(msg.Data), "doc-2")
	})

	t.Run("share unknown document id", func(t *testing.T) {
		env := newTestEnv(t)
		env.docs.fetch = func() ([]userdocs.Document, error) {
			return []userdocs.Document{{DocID: "doc-1"}}, nil
		}

		op := newOperationFromEnv(t, env)
		authenticate(t, env)

		rr := serveJSON(t, op.ShareUserDocs, http.MethodPost, UserDocsSharePath,
			map[string][]string{"docIds": {"doc-9"}})
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestOperation_OIDC(t *testing.T) {
	t.Run("login redirects with stored state", func(t *testing.T) {
		env := newTestEnv(t)
		env.config.OIDCClient = &mockOIDC{authURL: "https://op.example.com/authorize?state=%s"}
		env.config.TransientStore = newTransientStore(t)

		op := newOperationFromEnv(t, env)

		rr := httptest.NewRecorder()
		op.OIDCLogin(rr, httptest.NewRequest(http.MethodGet, OIDCLoginPath, nil))
		require.Equal(t, http.StatusFound, rr.Code)
		require.Contains(t, rr.Header().Get("Location"), "https://op.example.com/authorize")
	})

	t.Run("callback establishes session", func(t *testing.T) {
		env := newTestEnv(t)
		env.config.OIDCClient = &mockOIDC{
			claims: `{"sub":"user-42","given_name":"Jo","email":"jo@example.com"}`,
		}
		env.config.TransientStore = newTransientStore(t)
		require.NoError(t, env.config.TransientStore.Put("state-1", []byte("state-1")))

		op := newOperationFromEnv(t, env)

		rr := httptest.NewRecorder()
		op.OIDCCallback(rr, httptest.NewRequest(http.MethodGet, OIDCCallbackPath+"?state=state-1&code=code-1", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		saved, err := env.config.SessionStore.Get()
		require.NoError(t, err)
		require.True(t, saved.IsAuthenticated())
		require.Equal(t, "user-42", saved.User.AccountID)
	})

	t.Run("callback rejects unknown state", func(t *testing.T) {
		env := newTestEnv(t)
		env.config.OIDCClient = &mockOIDC{}
		env.config.TransientStore = newTransientStore(t)

		op := newOperationFromEnv(t, env)

		rr := httptest.NewRecorder()
		op.OIDCCallback(rr, httptest.NewRequest(http.MethodGet, OIDCCallbackPath+"?state=zz&code=code-1", nil))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

type testEnv struct {
	config *Config
	wallet *mockWalletBackend
	docs   *mockDocsBackend
	parent *frame.InProcWindow
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	parent := frame.NewWindow(parentOrigin)
	child := parent.Embed("https://wallet.example.com")

	validator, err := origin.New(parentOrigin)
	require.NoError(t, err)

	sessionStore, err := session.New(mem.NewProvider())
	require.NoError(t, err)

	wallet := &mockWalletBackend{}
	docs := &mockDocsBackend{}

	shareService, err := share.New(&share.Config{
		Window:          child,
		OriginValidator: validator,
		SessionStore:    sessionStore,
		Fetcher:         wallet,
	})
	require.NoError(t, err)

	handshakeSvc, err := handshake.New(&handshake.Config{
		Window:          child,
		OriginValidator: validator,
		SessionStore:    sessionStore,
	})
	require.NoError(t, err)

	return &testEnv{
		config: &Config{
			SessionStore:  sessionStore,
			WalletBackend: wallet,
			DocsBackend:   docs,
			ShareService:  shareService,
			HandshakeSvc:  handshakeSvc,
		},
		wallet: wallet,
		docs:   docs,
		parent: parent,
	}
}

func newOperation(t *testing.T) *Operation {
	t.Helper()

	return newOperationFromEnv(t, newTestEnv(t))
}

func newOperationFromEnv(t *testing.T, env *testEnv) *Operation {
	t.Helper()

	op, err := New(env.config)
	require.NoError(t, err)

	return op
}

func newTransientStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := mem.NewProvider().OpenStore("transient")
	require.NoError(t, err)

	return store
}

func authenticate(t *testing.T, env *testEnv) {
	t.Helper()

	require.NoError(t, env.config.SessionStore.Save(&session.Session{
		Token: "token-1",
		User:  &session.User{AccountID: "user-1"},
	}))
}

func serveJSON(t *testing.T, handler http.HandlerFunc, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(method, path, bytes.NewReader(raw)))

	return rr
}

type mockWalletBackend struct {
	login     func(username, password string) (*session.Session, error)
	register  func(firstName, lastName, phoneNumber, password string) error
	getAllVCs func(userID string) ([]vc.Credential, error)
	getVC     func(userID, vcID string) (*vc.Credential, error)
	uploadQR  func(userID, qrData string) error
	sendOTP   func(phone string) (string, error)
	verifyOTP func(token, otp string) error
}

func (m *mockWalletBackend) Login(_ context.Context, username, password string) (*session.Session, error) {
	if m.login != nil {
		return m.login(username, password)
	}

	return nil, errors.New("login not supported")
}

func (m *mockWalletBackend) Register(_ context.Context, firstName, lastName, phoneNumber, password string) error {
	if m.register != nil {
		return m.register(firstName, lastName, phoneNumber, password)
	}

	return nil
}

func (m *mockWalletBackend) GetAllVCs(_ context.Context, userID string) ([]vc.Credential, error) {
	if m.getAllVCs != nil {
		return m.getAllVCs(userID)
	}

	return nil, nil
}

func (m *mockWalletBackend) GetVC(_ context.Context, userID, vcID string) (*vc.Credential, error) {
	if m.getVC != nil {
		return m.getVC(userID, vcID)
	}

	return nil, fmt.Errorf("no credential with id '%s'", vcID)
}

func (m *mockWalletBackend) UploadFromQR(_ context.Context, userID, qrData string) error {
	if m.uploadQR != nil {
		return m.uploadQR(userID, qrData)
	}

	return nil
}

func (m *mockWalletBackend) SendOTP(_ context.Context, phone string) (string, error) {
	if m.sendOTP != nil {
		return m.sendOTP(phone)
	}

	return "", nil
}

func (m *mockWalletBackend) VerifyOTP(_ context.Context, token, otp string) error {
	if m.verifyOTP != nil {
		return m.verifyOTP(token, otp)
	}

	return nil
}

type mockDocsBackend struct {
	fetch  func() ([]userdocs.Document, error)
	delete func(docID string) error
	upload func(upload *userdocs.UploadRequest) error
}

func (m *mockDocsBackend) Fetch(context.Context) ([]userdocs.Document, error) {
	if m.fetch != nil {
		return m.fetch()
	}

	return nil, nil
}

func (m *mockDocsBackend) Delete(_ context.Context, docID string) error {
	if m.delete != nil {
		return m.delete(docID)
	}

	return nil
}

func (m *mockDocsBackend) Upload(_ context.Context, upload *userdocs.UploadRequest) error {
	if m.upload != nil {
		return m.upload(upload)
	}

	return nil
}

type mockOIDC struct {
	authURL string
	claims  string
}

func (m *mockOIDC) CreateOIDCRequest(state, _ string) string {
	if m.authURL == "" {
		return "https://op.example.com/authorize?state=" + state
	}

	return fmt.Sprintf(m.authURL, state)
}

func (m *mockOIDC) GetIDTokenClaims(context.Context, string) ([]byte, error) {
	if m.claims == "" {
		return nil, errors.New("exchange failed")
	}

	return []byte(m.claims), nil
}
