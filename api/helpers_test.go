package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/rentals/api"
	"github.com/garnizeh/rentals/internal/config"
	"github.com/garnizeh/rentals/internal/service"
	"github.com/garnizeh/rentals/pkg/repository/mock"
)

const testSecret = "testsecret"

func init() {
	api.SetLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

type testServer struct {
	handler http.Handler
	mocks   *mock.Mocks
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	m := mock.NewMocks()
	cfg := &config.Config{JWTSecret: testSecret, TokenDuration: time.Hour}
	svc := api.Services{
		Properties: service.NewPropertyService(m.Properties, nil),
		Auth:       service.NewAuthService(m.Users, m.Properties, service.AuthOptions{BcryptCost: bcrypt.MinCost, PurgeOnLogout: true}, nil),
	}
	return &testServer{handler: api.SetupRoutes(cfg, "1.0.0", "now", svc), mocks: m}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	res := w.Result()
	defer res.Body.Close()
	data, _ := io.ReadAll(res.Body)
	return res.StatusCode, data
}

// login registers username and returns a session token for it.
func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	creds := map[string]string{"username": username, "password": password}
	if status, body := s.do(t, http.MethodPost, "/v1/auth/register", "", creds); status != http.StatusCreated {
		t.Fatalf("register: status %d body=%s", status, body)
	}
	status, body := s.do(t, http.MethodPost, "/v1/auth/login", "", creds)
	if status != http.StatusOK {
		t.Fatalf("login: status %d body=%s", status, body)
	}
	var ar struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &ar); err != nil || ar.Token == "" {
		t.Fatalf("login: bad token response %s", body)
	}
	return ar.Token
}

func errorKind(t *testing.T, body []byte) string {
	t.Helper()
	var er struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	if err := json.Unmarshal(body, &er); err != nil {
		t.Fatalf("unmarshal error body %s: %v", body, err)
	}
	return er.Kind
}
