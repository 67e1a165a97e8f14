// Package policy decides alert disposition with Cedar policies: whether a
// raised alert may pass through untouched or must trigger the auto-block
// obligation on the originating surface.
package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cedar-policy/cedar-go"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Decision represents the result of a policy evaluation.
type Decision string

const (
	ALLOW Decision = "ALLOW"
	DENY  Decision = "DENY"
)

// Obligation represents an action the monitor must take.
type Obligation struct {
	Type string `json:"type"` // "block", "mute"
}

// EvaluationResult contains the decision and any obligations.
type EvaluationResult struct {
	Decision    Decision
	Reason      string
	PolicyID    string
	Obligations []Obligation
}

// AlertContext is the structured input to policy evaluation.
type AlertContext struct {
	RiskScore float64
	Level     string
	Source    string
	AutoBlock bool
	Offline   bool
}

// defaultPolicy applies when no policy file is configured: alerts pass,
// and high-risk candidates are blocked once the host enables auto-block.
const defaultPolicy = `permit (
    principal,
    action == Action::"alert",
    resource
);

@obligation("block")
forbid (
    principal,
    action == Action::"alert",
    resource
)
when { context.risk_score > 70 && context.auto_block };`

// Engine wraps the Cedar policy engine with hot-reloading support.
type Engine struct {
	policySet     atomic.Pointer[cedar.PolicySet]
	policyVersion atomic.Pointer[string]
	PolicyPath    string

	watcher    *fsnotify.Watcher
	stopWatch  chan struct{}
	logger     *logrus.Logger
	reloadLock sync.Mutex
}

// PolicyVersion returns the current policy version (thread-safe).
func (e *Engine) PolicyVersion() string {
	v := e.policyVersion.Load()
	if v == nil {
		return ""
	}
	return *v
}

// NewEngine creates an Engine. An empty policyPath loads the built-in
// default policy.
func NewEngine(policyPath string, logger *logrus.Logger) (*Engine, error) {
	if logger == nil {
		logger = logrus.New()
	}
	e := &Engine{
		PolicyPath: policyPath,
		stopWatch:  make(chan struct{}),
		logger:     logger,
	}

	if err := e.reload(); err != nil {
		return nil, err
	}
	return e, nil
}

// StartHotReload enables fsnotify file watching for policy hot-reloading.
// It is a no-op when the engine runs on the built-in policy.
func (e *Engine) StartHotReload() error {
	if e.PolicyPath == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	e.watcher = watcher

	if err := watcher.Add(e.PolicyPath); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch policy file: %w", err)
	}

	go e.watchLoop()

	e.logger.WithField("path", e.PolicyPath).Info("policy hot-reload enabled")
	return nil
}

// StopHotReload stops the file watcher.
func (e *Engine) StopHotReload() {
	if e.watcher != nil {
		close(e.stopWatch)
		e.watcher.Close()
	}
}

func (e *Engine) watchLoop() {
	// Debounce timer to handle rapid file saves.
	var debounceTimer *time.Timer
	debounce := 500 * time.Millisecond

	for {
		select {
		case event, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, func() {
					e.reloadLock.Lock()
					defer e.reloadLock.Unlock()

					oldVersion := e.PolicyVersion()
					if err := e.reload(); err != nil {
						e.logger.WithError(err).Error("policy hot-reload failed")
					} else {
						e.logger.WithFields(logrus.Fields{
							"old": oldVersion,
							"new": e.PolicyVersion(),
						}).Info("policy hot-reload succeeded")
					}
				})
			}
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			e.logger.WithError(err).Error("policy watcher error")
		case <-e.stopWatch:
			return
		}
	}
}

// reload loads/reloads policies from the file or the built-in default.
func (e *Engine) reload() error {
	source := []byte(defaultPolicy)
	if e.PolicyPath != "" {
		data, err := os.ReadFile(e.PolicyPath)
		if err != nil {
			return fmt.Errorf("failed to read policy file: %w", err)
		}
		source = data
	}

	hash := sha256.Sum256(source)
	version := hex.EncodeToString(hash[:])[:12]

	ps := cedar.NewPolicySet()

	// Split policies by semicolon as a rudimentary parser.
	chunks := strings.Split(string(source), ";")
	for i, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		fullPolicy := chunk + ";"

		var policy cedar.Policy
		if err := policy.UnmarshalCedar([]byte(fullPolicy)); err != nil {
			return fmt.Errorf("failed to unmarshal cedar policy part %d: %w", i, err)
		}

		ps.Add(cedar.PolicyID(fmt.Sprintf("policy%d", i)), &policy)
	}

	e.policySet.Store(ps)
	e.policyVersion.Store(&version)

	return nil
}

// EvaluateAlert checks the alert context against the policies.
func (e *Engine) EvaluateAlert(ctx AlertContext) EvaluationResult {
	ps := e.policySet.Load()
	if ps == nil {
		return EvaluationResult{
			Decision: ALLOW,
			Reason:   "Policy engine not initialized",
		}
	}

	entities := cedar.EntityMap{
		cedar.NewEntityUID("Surface", "page"): cedar.Entity{
			UID: cedar.NewEntityUID("Surface", "page"),
			Attributes: cedar.NewRecord(cedar.RecordMap{
				"kind": cedar.String(ctx.Source),
			}),
		},
	}

	req := cedar.Request{
		Principal: cedar.NewEntityUID("Monitor", "default"),
		Action:    cedar.NewEntityUID("Action", "alert"),
		Resource:  cedar.NewEntityUID("Surface", "page"),
		Context: cedar.NewRecord(cedar.RecordMap{
			"risk_score": cedar.Long(int64(ctx.RiskScore)),
			"level":      cedar.String(ctx.Level),
			"source":     cedar.String(ctx.Source),
			"auto_block": cedar.Boolean(ctx.AutoBlock),
			"offline":    cedar.Boolean(ctx.Offline),
		}),
	}

	ok, diagnostics := cedar.Authorize(ps, entities, req)

	var obligations []Obligation
	var policyID string

	if len(diagnostics.Reasons) > 0 {
		// Take the first policy that contributed to the decision.
		reason := diagnostics.Reasons[0]
		policyID = string(reason.PolicyID)

		p := ps.Get(reason.PolicyID)
		if p != nil {
			annotations := p.Annotations()
			if typeVal, ok := annotations["obligation"]; ok {
				obligations = append(obligations, Obligation{Type: string(typeVal)})
			}
		}
	}

	if ok {
		return EvaluationResult{
			Decision:    ALLOW,
			Reason:      "Policy allowed the alert",
			PolicyID:    policyID,
			Obligations: obligations,
		}
	}

	return EvaluationResult{
		Decision:    DENY,
		Reason:      "Policy requires blocking the surface",
		PolicyID:    policyID,
		Obligations: obligations,
	}
}
