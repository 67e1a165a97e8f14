// Package gateway wraps the remote text-classification endpoint behind a
// daily quota and an online/offline health state. Every failure path
// degrades to the local multi-dimensional analyzer; callers never see a
// classification error.
package gateway

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amazon11335/fraudwatch/internal/analyzer"
	"github.com/amazon11335/fraudwatch/internal/detector"
	"github.com/amazon11335/fraudwatch/internal/metrics"
)

// Gateway chooses between the remote classifier and the local pipeline.
type Gateway struct {
	client  *Client
	quota   *Quota
	det     *detector.Detector
	adv     *analyzer.Advanced
	cache   *verdictCache
	breaker *CircuitBreaker
	online  atomic.Bool
	logger  *logrus.Logger
}

// New wires a gateway. client may be nil for a purely local deployment.
func New(client *Client, quota *Quota, det *detector.Detector, adv *analyzer.Advanced, logger *logrus.Logger) *Gateway {
	if logger == nil {
		logger = logrus.New()
	}
	return &Gateway{
		client:  client,
		quota:   quota,
		det:     det,
		adv:     adv,
		cache:   newVerdictCache(1000, 10*time.Minute),
		breaker: NewCircuitBreaker(BreakerConfig{}),
		logger:  logger,
	}
}

// Probe runs the startup health check and records the online state.
func (g *Gateway) Probe(ctx context.Context) bool {
	if g.client == nil {
		g.online.Store(false)
		return false
	}
	ok := g.client.Health(ctx)
	g.online.Store(ok)
	g.logger.WithField("online", ok).Info("remote classifier probed")
	return ok
}

// Online reports the last probed health state.
func (g *Gateway) Online() bool {
	return g.online.Load()
}

// SetOnline overrides the health state; used by hosts that run their own
// connectivity checks.
func (g *Gateway) SetOnline(online bool) {
	g.online.Store(online)
}

// Quota exposes current remote usage.
func (g *Gateway) Quota() Usage {
	return g.quota.Snapshot()
}

// BreakerStats exposes the circuit breaker state for status reporting.
func (g *Gateway) BreakerStats() map[string]interface{} {
	return g.breaker.Stats()
}

// Classify returns a verdict for the text. Remote classification is
// attempted only when the endpoint is online and quota remains; cache hits
// and fallbacks never consume quota. Classify never fails.
func (g *Gateway) Classify(ctx context.Context, text string) *Verdict {
	if text == "" {
		return g.localVerdict(text)
	}

	if v, ok := g.cache.get(text); ok {
		metrics.RecordRemoteCall("cache_hit")
		return v
	}

	if !g.online.Load() {
		metrics.RecordRemoteCall("offline")
		return g.localVerdict(text)
	}

	if !g.quota.Acquire() {
		metrics.RecordRemoteCall("quota_exhausted")
		g.logger.Debug("daily quota exhausted, forcing local analysis")
		return g.localVerdict(text)
	}
	metrics.SetQuotaRemaining(g.quota.Snapshot().Remaining)

	verdict, err := g.breaker.Execute(func() (*Verdict, error) {
		return g.client.Classify(ctx, text)
	})
	if err != nil {
		// The reservation is returned: failed calls don't count.
		g.quota.Release()
		metrics.RecordRemoteCall("error")
		g.logger.WithError(err).Debug("remote classification failed, falling back")
		return g.localVerdict(text)
	}

	metrics.RecordRemoteCall("ok")
	g.cache.put(text, verdict)
	return verdict
}

// localVerdict builds the offline verdict from the keyword detector and
// the multi-dimensional analyzer.
func (g *Gateway) localVerdict(text string) *Verdict {
	basic := g.det.Detect(text)
	report := g.adv.Report(text, basic)

	types := make([]string, 0, len(basic.Categories))
	for _, cm := range basic.Categories {
		types = append(types, cm.Name)
	}

	indicators := basic.Keywords
	if len(indicators) > 5 {
		indicators = indicators[:5]
	}

	return &Verdict{
		RiskScore:      float64(report.FinalScore),
		RiskLevel:      report.RiskLevel,
		FraudTypes:     types,
		KeyIndicators:  append([]string(nil), indicators...),
		Recommendation: report.Recommendation,
		Offline:        true,
	}
}
