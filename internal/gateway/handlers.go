package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aegisnet/appliance/internal/dfe"
	"github.com/aegisnet/appliance/internal/pta"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handlers serves the appliance's domain endpoints: on-demand discovery
// scans, scan history, and the live traffic snapshot.
type Handlers struct {
	scanner  *dfe.Scanner
	history  *dfe.HistoryStore
	analyzer *pta.Analyzer
	logger   *zap.Logger
}

// NewHandlers creates a Handlers bound to the discovery scanner, its audit
// history, and the passive traffic analyzer.
func NewHandlers(scanner *dfe.Scanner, history *dfe.HistoryStore, analyzer *pta.Analyzer, logger *zap.Logger) *Handlers {
	return &Handlers{scanner: scanner, history: history, analyzer: analyzer, logger: logger}
}

// RegisterRoutes registers the domain routes on the gateway mux.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/scan", h.handleScan)
	mux.HandleFunc("GET /api/v1/scan/history", h.handleScanHistory)
	mux.HandleFunc("GET /api/v1/traffic", h.handleTraffic)
}

type scanRequest struct {
	CIDR string `json:"cidr"`
}

type scanResponse struct {
	Hosts []dfe.Host `json:"hosts"`
	Count int        `json:"count"`
}

// handleScan runs a synchronous discovery scan against the requested CIDR
// (or the auto-detected local /24 when cidr is omitted) and records it in
// the scan history on return, success or failure.
//
//	@Summary		Run a discovery scan
//	@Description	Scans a /24 subnet and returns the fused host inventory.
//	@Tags			scan
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		scanRequest	false	"Target CIDR; defaults to the local subnet"
//	@Success		200		{object}	scanResponse
//	@Failure		400		{object}	Problem
//	@Failure		500		{object}	Problem
//	@Router			/scan [post]
func (h *Handlers) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			BadRequest(w, "invalid request body", r.URL.Path)
			return
		}
	}

	cidr := req.CIDR
	if cidr == "" {
		cidr = dfe.DetectLocalSubnet()
	}

	startedAt := time.Now()
	hosts, err := h.scanner.Scan(r.Context(), cidr)
	rec := dfe.ScanRecord{
		ID:         uuid.New(),
		CIDR:       cidr,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		HostCount:  len(hosts),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if recErr := h.history.Record(r.Context(), rec); recErr != nil {
		h.logger.Error("record scan history failed", zap.Error(recErr))
	}

	if err != nil {
		h.logger.Error("scan failed", zap.String("cidr", cidr), zap.Error(err))
		BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, scanResponse{Hosts: hosts, Count: len(hosts)})
}

// handleScanHistory returns the most recent recorded scans.
//
//	@Summary		List scan history
//	@Description	Returns the most recent scan audit records, newest first.
//	@Tags			scan
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}	dfe.ScanRecord
//	@Failure		500	{object}	Problem
//	@Router			/scan/history [get]
func (h *Handlers) handleScanHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.List(r.Context(), 50)
	if err != nil {
		h.logger.Error("list scan history failed", zap.Error(err))
		InternalError(w, "failed to list scan history", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type trafficResponse struct {
	Flows   []pta.TrafficFlow   `json:"flows"`
	Devices []pta.DeviceTraffic `json:"devices"`
}

// handleTraffic returns the current passive traffic snapshot.
//
//	@Summary		Get traffic snapshot
//	@Description	Returns the current set of observed flows and per-device statistics.
//	@Tags			traffic
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	trafficResponse
//	@Router			/traffic [get]
func (h *Handlers) handleTraffic(w http.ResponseWriter, _ *http.Request) {
	flows, devices := h.analyzer.Snapshot()
	writeJSON(w, http.StatusOK, trafficResponse{Flows: flows, Devices: devices})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
