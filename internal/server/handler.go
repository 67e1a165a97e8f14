// Package server exposes the scanning and monitoring API over HTTP.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/amazon11335/fraudwatch/internal/analyzer"
	"github.com/amazon11335/fraudwatch/internal/detector"
	"github.com/amazon11335/fraudwatch/internal/gateway"
	"github.com/amazon11335/fraudwatch/internal/monitor"
	"github.com/amazon11335/fraudwatch/internal/policy"
	"github.com/amazon11335/fraudwatch/internal/taxonomy"
)

const maxBodySize = 1 << 20 // 1MB

// HandlerConfig holds the collaborators behind the HTTP API
type HandlerConfig struct {
	Detector *detector.Detector
	Advanced *analyzer.Advanced
	Gateway  *gateway.Gateway
	Monitor  *monitor.Monitor
	Engine   *policy.Engine
	Taxonomy *taxonomy.Taxonomy
	Logger   *logrus.Logger
}

// ErrorResponse is returned on request failures
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type scanRequest struct {
	Text string `json:"text"`
	// Deep requests a remote classification (quota and cache permitting)
	// in addition to the local analysis.
	Deep bool `json:"deep,omitempty"`
}

type scanResponse struct {
	RequestID string                    `json:"request_id"`
	Detection *detector.DetectionResult `json:"detection"`
	Analysis  *analyzer.Report          `json:"analysis"`
	Verdict   *gateway.Verdict          `json:"verdict,omitempty"`
	Elapsed   string                    `json:"elapsed"`
}

// ScanHandler analyzes one piece of text on demand.
func ScanHandler(hc *HandlerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		if r.Method != http.MethodPost {
			sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST required", requestID)
			return
		}

		var req scanRequest
		if err := decodeBody(r, &req); err != nil {
			hc.Logger.WithError(err).Warn("failed to decode scan request")
			sendError(w, http.StatusBadRequest, "invalid_request", "malformed request body", requestID)
			return
		}

		detection := hc.Detector.Detect(req.Text)
		report := hc.Advanced.Report(req.Text, detection)

		resp := scanResponse{
			RequestID: requestID,
			Detection: detection,
			Analysis:  report,
		}
		if req.Deep {
			resp.Verdict = hc.Gateway.Classify(r.Context(), req.Text)
		}
		resp.Elapsed = time.Since(start).String()

		hc.Logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"score":      detection.TotalScore,
			"level":      detection.RiskLevel,
		}).Info("scan completed")

		sendJSON(w, http.StatusOK, resp)
	}
}

type ingestRequest struct {
	Text string `json:"text"`
}

// IngestHandler feeds the structural-content monitoring source.
func IngestHandler(hc *HandlerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		if r.Method != http.MethodPost {
			sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST required", requestID)
			return
		}
		var req ingestRequest
		if err := decodeBody(r, &req); err != nil {
			sendError(w, http.StatusBadRequest, "invalid_request", "malformed request body", requestID)
			return
		}
		hc.Monitor.OnContentInsert(req.Text)
		sendJSON(w, http.StatusAccepted, map[string]string{"request_id": requestID, "status": "queued"})
	}
}

type inputRequest struct {
	Origin string `json:"origin"`
	Text   string `json:"text"`
}

// InputHandler feeds the debounced input monitoring source.
func InputHandler(hc *HandlerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		if r.Method != http.MethodPost {
			sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST required", requestID)
			return
		}
		var req inputRequest
		if err := decodeBody(r, &req); err != nil {
			sendError(w, http.StatusBadRequest, "invalid_request", "malformed request body", requestID)
			return
		}
		hc.Monitor.OnInputChange(req.Origin, req.Text)
		sendJSON(w, http.StatusAccepted, map[string]string{"request_id": requestID, "status": "queued"})
	}
}

type urlRequest struct {
	URL string `json:"url"`
}

// URLHandler feeds the outbound-reference monitoring source.
func URLHandler(hc *HandlerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		if r.Method != http.MethodPost {
			sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST required", requestID)
			return
		}
		var req urlRequest
		if err := decodeBody(r, &req); err != nil {
			sendError(w, http.StatusBadRequest, "invalid_request", "malformed request body", requestID)
			return
		}
		hc.Monitor.OnOutboundRequest(req.URL)
		sendJSON(w, http.StatusAccepted, map[string]string{"request_id": requestID, "status": "checked"})
	}
}

// AlertsHandler returns the queued alerts.
func AlertsHandler(hc *HandlerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, http.StatusOK, map[string]any{"alerts": hc.Monitor.Alerts()})
	}
}

// ActivityHandler returns the capped activity log, most recent first.
func ActivityHandler(hc *HandlerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, http.StatusOK, map[string]any{"activity": hc.Monitor.Activity()})
	}
}

// SettingsHandler reads or replaces the monitor settings.
func SettingsHandler(hc *HandlerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		switch r.Method {
		case http.MethodGet:
			sendJSON(w, http.StatusOK, hc.Monitor.Settings())
		case http.MethodPut, http.MethodPost:
			var s monitor.Settings
			if err := decodeBody(r, &s); err != nil {
				sendError(w, http.StatusBadRequest, "invalid_request", "malformed request body", requestID)
				return
			}
			hc.Monitor.UpdateSettings(s)
			sendJSON(w, http.StatusOK, s)
		default:
			sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET or PUT required", requestID)
		}
	}
}

type phrasesRequest struct {
	Category string   `json:"category"`
	Phrases  []string `json:"phrases"`
}

// CategoriesHandler lists fraud categories or extends one with custom
// phrases.
func CategoriesHandler(hc *HandlerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		switch r.Method {
		case http.MethodGet:
			sendJSON(w, http.StatusOK, map[string]any{"categories": hc.Taxonomy.Stats()})
		case http.MethodPost:
			var req phrasesRequest
			if err := decodeBody(r, &req); err != nil {
				sendError(w, http.StatusBadRequest, "invalid_request", "malformed request body", requestID)
				return
			}
			if err := hc.Taxonomy.AddCustomPhrases(req.Category, req.Phrases...); err != nil {
				sendError(w, http.StatusNotFound, "unknown_category", err.Error(), requestID)
				return
			}
			sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		default:
			sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET or POST required", requestID)
		}
	}
}

type statusResponse struct {
	Status        string         `json:"status"`
	RemoteOnline  bool           `json:"remote_online"`
	Quota         gateway.Usage  `json:"quota"`
	Breaker       map[string]any `json:"breaker"`
	PolicyVersion string         `json:"policy_version"`
	Monitor       monitor.Stats  `json:"monitor"`
}

// StatusHandler reports overall service state.
func StatusHandler(hc *HandlerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := statusResponse{
			Status:       "ok",
			RemoteOnline: hc.Gateway.Online(),
			Quota:        hc.Gateway.Quota(),
			Breaker:      hc.Gateway.BreakerStats(),
			Monitor:      hc.Monitor.Stats(),
		}
		if hc.Engine != nil {
			resp.PolicyVersion = hc.Engine.PolicyVersion()
		}
		sendJSON(w, http.StatusOK, resp)
	}
}

// MonitorControlHandler starts or stops the monitor.
func MonitorControlHandler(hc *HandlerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		if r.Method != http.MethodPost {
			sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST required", requestID)
			return
		}
		var req struct {
			Action string `json:"action"`
		}
		if err := decodeBody(r, &req); err != nil {
			sendError(w, http.StatusBadRequest, "invalid_request", "malformed request body", requestID)
			return
		}
		switch req.Action {
		case "start":
			hc.Monitor.Start()
		case "stop":
			hc.Monitor.Stop()
		default:
			sendError(w, http.StatusBadRequest, "invalid_action", "action must be start or stop", requestID)
			return
		}
		sendJSON(w, http.StatusOK, map[string]any{"active": hc.Monitor.Running()})
	}
}

func decodeBody(r *http.Request, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return err
	}
	r.Body.Close()
	return json.Unmarshal(body, out)
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendError sends a JSON error response
func sendError(w http.ResponseWriter, status int, code, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestID,
	})
}
