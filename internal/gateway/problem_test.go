package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBadRequest_WritesProblemJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequest(rec, "bad cidr", "/api/v1/scan")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}

	var p Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if p.Status != http.StatusBadRequest || p.Detail != "bad cidr" || p.Type != ProblemTypeBadRequest {
		t.Errorf("problem = %+v, unexpected fields", p)
	}
}

func TestRateLimited_WritesProblemJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RateLimited(rec, "slow down", "/api/v1/traffic")

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}
