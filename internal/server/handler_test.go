package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazon11335/fraudwatch/internal/analyzer"
	"github.com/amazon11335/fraudwatch/internal/detector"
	"github.com/amazon11335/fraudwatch/internal/gateway"
	"github.com/amazon11335/fraudwatch/internal/monitor"
	"github.com/amazon11335/fraudwatch/internal/policy"
	"github.com/amazon11335/fraudwatch/internal/taxonomy"
)

func newTestHandlerConfig(t *testing.T) *HandlerConfig {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	tax := taxonomy.New()
	det := detector.New(tax)
	adv := analyzer.NewAdvanced()
	gw := gateway.New(nil, gateway.NewQuota(nil, 100), det, adv, logger)

	engine, err := policy.NewEngine("", logger)
	require.NoError(t, err)

	mon := monitor.New(monitor.Config{
		PollInterval:   10 * time.Millisecond,
		DebounceWindow: 10 * time.Millisecond,
	}, gw, engine, nil, nil, logger)
	t.Cleanup(mon.Stop)

	return &HandlerConfig{
		Detector: det,
		Advanced: adv,
		Gateway:  gw,
		Monitor:  mon,
		Engine:   engine,
		Taxonomy: tax,
		Logger:   logger,
	}
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestScanHandler(t *testing.T) {
	hc := newTestHandlerConfig(t)

	rec := doJSON(t, ScanHandler(hc), http.MethodPost,
		`{"text":"您好，请立即转账到安全账户，验证码1234，保密！"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		RequestID string `json:"request_id"`
		Detection struct {
			TotalScore float64 `json:"total_score"`
			RiskLevel  string  `json:"risk_level"`
		} `json:"detection"`
		Analysis struct {
			FinalScore int `json:"final_score"`
			Confidence int `json:"confidence"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, float64(100), resp.Detection.TotalScore)
	assert.Equal(t, "critical", resp.Detection.RiskLevel)
	assert.Greater(t, resp.Analysis.FinalScore, 40)
}

func TestScanHandlerDeepIncludesVerdict(t *testing.T) {
	hc := newTestHandlerConfig(t)

	rec := doJSON(t, ScanHandler(hc), http.MethodPost, `{"text":"稳赚不赔的理财","deep":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Verdict *struct {
			Offline bool `json:"isOffline"`
		} `json:"verdict"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Verdict)
	assert.True(t, resp.Verdict.Offline)
}

func TestScanHandlerRejectsBadInput(t *testing.T) {
	hc := newTestHandlerConfig(t)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, ScanHandler(hc), http.MethodPost, "{not json").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, doJSON(t, ScanHandler(hc), http.MethodGet, "").Code)
}

func TestIngestAndAlerts(t *testing.T) {
	hc := newTestHandlerConfig(t)
	hc.Monitor.Start()

	rec := doJSON(t, IngestHandler(hc), http.MethodPost,
		`{"text":"您好，请立即转账到安全账户，验证码1234，保密！"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		return len(hc.Monitor.Alerts()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	alertsRec := doJSON(t, AlertsHandler(hc), http.MethodGet, "")
	require.Equal(t, http.StatusOK, alertsRec.Code)

	var resp struct {
		Alerts []struct {
			Level string `json:"level"`
		} `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(alertsRec.Body.Bytes(), &resp))
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "high", resp.Alerts[0].Level)
}

func TestURLHandler(t *testing.T) {
	hc := newTestHandlerConfig(t)
	hc.Monitor.Start()

	rec := doJSON(t, URLHandler(hc), http.MethodPost, `{"url":"http://phishing.example.com"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		return len(hc.Monitor.Alerts()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSettingsHandler(t *testing.T) {
	hc := newTestHandlerConfig(t)

	get := doJSON(t, SettingsHandler(hc), http.MethodGet, "")
	require.Equal(t, http.StatusOK, get.Code)

	var s monitor.Settings
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &s))
	assert.Equal(t, monitor.DefaultSettings(), s)

	put := doJSON(t, SettingsHandler(hc), http.MethodPut,
		`{"sensitivity":"high","auto_block":true,"sound_alert":false,"visual_alert":true,"log_activity":true}`)
	require.Equal(t, http.StatusOK, put.Code)
	assert.True(t, hc.Monitor.Settings().AutoBlock)
}

func TestCategoriesHandler(t *testing.T) {
	hc := newTestHandlerConfig(t)

	get := doJSON(t, CategoriesHandler(hc), http.MethodGet, "")
	require.Equal(t, http.StatusOK, get.Code)

	var resp struct {
		Categories []taxonomy.CategoryStats `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &resp))
	assert.Len(t, resp.Categories, 7)

	post := doJSON(t, CategoriesHandler(hc), http.MethodPost,
		`{"category":"investment","phrases":["元宇宙","NFT理财"]}`)
	require.Equal(t, http.StatusOK, post.Code)
	assert.Contains(t, hc.Taxonomy.Category("investment").Phrases, "元宇宙")

	unknown := doJSON(t, CategoriesHandler(hc), http.MethodPost,
		`{"category":"nope","phrases":["x"]}`)
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

func TestStatusHandler(t *testing.T) {
	hc := newTestHandlerConfig(t)

	rec := doJSON(t, StatusHandler(hc), http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status        string `json:"status"`
		RemoteOnline  bool   `json:"remote_online"`
		PolicyVersion string `json:"policy_version"`
		Quota         struct {
			MaxRequests int `json:"max_requests"`
		} `json:"quota"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.RemoteOnline)
	assert.NotEmpty(t, resp.PolicyVersion)
	assert.Equal(t, 100, resp.Quota.MaxRequests)
}

func TestMonitorControlHandler(t *testing.T) {
	hc := newTestHandlerConfig(t)

	start := doJSON(t, MonitorControlHandler(hc), http.MethodPost, `{"action":"start"}`)
	require.Equal(t, http.StatusOK, start.Code)
	assert.True(t, hc.Monitor.Running())

	stop := doJSON(t, MonitorControlHandler(hc), http.MethodPost, `{"action":"stop"}`)
	require.Equal(t, http.StatusOK, stop.Code)
	assert.False(t, hc.Monitor.Running())

	bad := doJSON(t, MonitorControlHandler(hc), http.MethodPost, `{"action":"pause"}`)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}
