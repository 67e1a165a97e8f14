package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amazon11335/fraudwatch/internal/analyzer"
	"github.com/amazon11335/fraudwatch/internal/detector"
	"github.com/amazon11335/fraudwatch/internal/taxonomy"
)

func chatReply(content string) string {
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	b, _ := json.Marshal(reply)
	return string(b)
}

func newTestGateway(t *testing.T, srvURL string, maxRequests int) *Gateway {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	var client *Client
	if srvURL != "" {
		client = NewClient(srvURL, "test-key", "test-model", time.Second)
	}
	det := detector.New(taxonomy.New())
	return New(client, NewQuota(nil, maxRequests), det, analyzer.NewAdvanced(), logger)
}

func TestClassifyParsesWellFormedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(chatReply(`{"riskScore":85,"riskLevel":"high","fraudTypes":["investment fraud"],"keyIndicators":["guaranteed returns"],"recommendation":"stop"}`)))
	}))
	defer srv.Close()

	gw := newTestGateway(t, srv.URL, 10)
	gw.SetOnline(true)

	v := gw.Classify(context.Background(), "guaranteed returns, invest now")
	assert.Equal(t, float64(85), v.RiskScore)
	assert.Equal(t, detector.LevelHigh, v.RiskLevel)
	assert.False(t, v.Offline)
	assert.Equal(t, 1, gw.Quota().RequestCount)
}

func TestClassifyClampsRemoteScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply(`{"riskScore":250,"riskLevel":"critical"}`)))
	}))
	defer srv.Close()

	gw := newTestGateway(t, srv.URL, 10)
	gw.SetOnline(true)

	v := gw.Classify(context.Background(), "some text")
	assert.Equal(t, float64(100), v.RiskScore)
}

func TestClassifyRecoversMalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply("这段文字风险评分为75，属于高风险，涉及投资理财，建议停止")))
	}))
	defer srv.Close()

	gw := newTestGateway(t, srv.URL, 10)
	gw.SetOnline(true)

	v := gw.Classify(context.Background(), "some text")
	assert.Equal(t, float64(75), v.RiskScore)
	assert.Equal(t, detector.LevelHigh, v.RiskLevel)
	assert.Contains(t, v.FraudTypes, "investment fraud")
	assert.Equal(t, "Stop the conversation immediately", v.Recommendation)
}

func TestClassifyFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gw := newTestGateway(t, srv.URL, 10)
	gw.SetOnline(true)

	v := gw.Classify(context.Background(), "您好，请立即转账到安全账户，验证码1234，保密！")
	require.NotNil(t, v)
	assert.True(t, v.Offline)
	assert.Greater(t, v.RiskScore, float64(0))

	// The failed call returned its reservation.
	assert.Equal(t, 0, gw.Quota().RequestCount)
}

func TestClassifyOfflineUsesLocalPipeline(t *testing.T) {
	gw := newTestGateway(t, "", 10)

	v := gw.Classify(context.Background(), "稳赚不赔的理财产品，今天马上投资")
	assert.True(t, v.Offline)
	assert.Greater(t, v.RiskScore, float64(0))
	assert.Contains(t, v.FraudTypes, "investment fraud")
	assert.Equal(t, 0, gw.Quota().RequestCount)
}

func TestClassifyQuotaExhaustedFallsBack(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(chatReply(`{"riskScore":10,"riskLevel":"low"}`)))
	}))
	defer srv.Close()

	gw := newTestGateway(t, srv.URL, 1)
	gw.SetOnline(true)

	first := gw.Classify(context.Background(), "first text")
	assert.False(t, first.Offline)

	second := gw.Classify(context.Background(), "second text")
	assert.True(t, second.Offline)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, gw.Quota().RequestCount)
}

func TestClassifyCachesVerdicts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(chatReply(`{"riskScore":60,"riskLevel":"medium"}`)))
	}))
	defer srv.Close()

	gw := newTestGateway(t, srv.URL, 10)
	gw.SetOnline(true)

	first := gw.Classify(context.Background(), "repeated text")
	second := gw.Classify(context.Background(), "repeated text")

	assert.Equal(t, first.RiskScore, second.RiskScore)
	assert.Equal(t, int32(1), calls.Load(), "cache hit must not call remote")
	assert.Equal(t, 1, gw.Quota().RequestCount, "cache hit must not consume quota")
}

func TestProbeRecordsOnlineState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply("ok")))
	}))

	gw := newTestGateway(t, srv.URL, 10)
	assert.True(t, gw.Probe(context.Background()))
	assert.True(t, gw.Online())

	srv.Close()
	assert.False(t, gw.Probe(context.Background()))
	assert.False(t, gw.Online())
}

func TestHealthTreatsBadRequestAsReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "m", time.Second)
	assert.True(t, client.Health(context.Background()))
}

func TestVerdictCacheExpiry(t *testing.T) {
	c := newVerdictCache(10, 20*time.Millisecond)

	c.put("text", &Verdict{RiskScore: 42})
	_, ok := c.get("text")
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = c.get("text")
	assert.False(t, ok)
}

func TestVerdictCacheReturnsCopies(t *testing.T) {
	c := newVerdictCache(10, time.Minute)

	c.put("text", &Verdict{RiskScore: 42})
	first, ok := c.get("text")
	require.True(t, ok)
	first.RiskScore = 99

	second, ok := c.get("text")
	require.True(t, ok)
	assert.Equal(t, float64(42), second.RiskScore)
}
