package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	hash, err := HashPassword("s3cret-password", 0)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	svc := NewService("operator", hash, tokens, zap.NewNop())
	return NewHandler(svc, zap.NewNop())
}

func doLogin(t *testing.T, h *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleLogin_Success(t *testing.T) {
	h := testHandler(t)
	rec := doLogin(t, h, LoginRequest{Username: "operator", Password: "s3cret-password"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("response AccessToken is empty")
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	h := testHandler(t)
	rec := doLogin(t, h, LoginRequest{Username: "operator", Password: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandleLogin_MissingFields(t *testing.T) {
	h := testHandler(t)
	rec := doLogin(t, h, LoginRequest{Username: "operator"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleLogin_MalformedBody(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
