package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aegisnet/appliance/internal/dfe"
	"github.com/aegisnet/appliance/internal/event"
	"github.com/aegisnet/appliance/internal/pta"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func testHandlers(t *testing.T) *Handlers {
	t.Helper()
	bus := event.NewBus(zap.NewNop())

	dbPath := filepath.Join(t.TempDir(), "scan_history.db")
	history, err := dfe.OpenHistoryStore(dbPath)
	if err != nil {
		t.Fatalf("OpenHistoryStore() error = %v", err)
	}
	t.Cleanup(func() { history.Close() })

	scanner := dfe.NewScanner(dfe.DefaultConfig(), dfe.NewOuiDb(), history, bus, zap.NewNop())
	analyzer := pta.NewAnalyzer(pta.DefaultConfig(), bus, zap.NewNop(), pta.NewNetReverseResolver())

	return NewHandlers(scanner, history, analyzer, zap.NewNop())
}

func TestHandleTraffic_ReturnsEmptySnapshot(t *testing.T) {
	h := testHandlers(t)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/traffic", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp trafficResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Flows) != 0 || len(resp.Devices) != 0 {
		t.Errorf("expected empty snapshot before capture starts, got %+v", resp)
	}
}

func TestHandleScanHistory_ReturnsRecordedScans(t *testing.T) {
	h := testHandlers(t)

	rec := dfe.ScanRecord{
		ID:         uuid.New(),
		CIDR:       "10.0.0.0/24",
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
		HostCount:  3,
	}
	if err := h.history.Record(context.Background(), rec); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/scan/history", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var records []dfe.ScanRecord
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(records) != 1 || records[0].CIDR != "10.0.0.0/24" {
		t.Errorf("records = %+v, want one record for 10.0.0.0/24", records)
	}
}

func TestHandleScan_RejectsMalformedBody(t *testing.T) {
	h := testHandlers(t)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
