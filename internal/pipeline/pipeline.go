// File path: internal/pipeline/pipeline.go

// Package pipeline orchestrates the assessment phases and owns run state:
// one submission moves pending -> processing -> completed or failed, with
// the current phase advancing strictly forward through the ordered set.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/riventa/pulsecheck/internal/common"
	"github.com/riventa/pulsecheck/internal/config"
	"github.com/riventa/pulsecheck/internal/llm"
	"github.com/riventa/pulsecheck/internal/score"
	"github.com/riventa/pulsecheck/internal/store"
)

// Phase identifies one stage of the assessment run.
type Phase string

const (
	PhaseScoring         Phase = "phase0"
	PhaseCrossFunctional Phase = "phase1"
	PhaseCategoryDive    Phase = "phase1_5"
	PhaseConsolidation   Phase = "phase4"
	PhaseSummaries       Phase = "phase4_5"
	PhaseRendering       Phase = "phase5"
	PhaseComplete        Phase = "complete"
)

var phaseOrder = []Phase{
	PhaseScoring,
	PhaseCrossFunctional,
	PhaseCategoryDive,
	PhaseConsolidation,
	PhaseSummaries,
	PhaseRendering,
	PhaseComplete,
}

// Status values for a run.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var (
	ErrRunInProgress = errors.New("assessment already running")
	ErrRunNotFound   = errors.New("assessment not found")
)

// Metrics accumulates across phases and never decreases within a run.
type Metrics struct {
	TotalTokensUsed int64   `json:"totalTokensUsed"`
	EstimatedCost   float64 `json:"estimatedCost"`
	ExecutionTimeMs int64   `json:"executionTimeMs"`
}

// State is the externally visible snapshot of a run.
type State struct {
	SubmissionID string    `json:"submissionId"`
	Status       string    `json:"status"`
	CurrentPhase Phase     `json:"currentPhase"`
	Metrics      Metrics   `json:"metrics"`
	StartedAt    time.Time `json:"startedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Error        string    `json:"error,omitempty"`
	Reports      []string  `json:"reports,omitempty"`
}

// ProgressFunc receives a state snapshot after every phase transition.
type ProgressFunc func(State)

// Manager coordinates runs and guards state behind a mutex; at most one
// active run per submission id.
type Manager struct {
	mu       sync.Mutex
	cfg      config.Config
	provider llm.Provider
	db       *store.Store
	progress ProgressFunc

	states  map[string]*State
	running map[string]context.CancelFunc
}

// NewManager wires a pipeline manager. The store may be nil for one-shot
// CLI runs that only want filesystem artifacts.
func NewManager(cfg config.Config, provider llm.Provider, db *store.Store) *Manager {
	return &Manager{
		cfg:      cfg,
		provider: provider,
		db:       db,
		states:   make(map[string]*State),
		running:  make(map[string]context.CancelFunc),
	}
}

// SetProgress registers a callback invoked after each phase completes.
func (m *Manager) SetProgress(fn ProgressFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = fn
}

// Start launches a background run for the submission. It returns
// ErrRunInProgress when the submission already has an active run.
func (m *Manager) Start(input score.QuestionnaireInput) error {
	id := input.SubmissionID
	if id == "" {
		return fmt.Errorf("submission id required")
	}
	m.mu.Lock()
	if _, active := m.running[id]; active {
		m.mu.Unlock()
		return ErrRunInProgress
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.running[id] = cancel
	now := time.Now().UTC()
	m.states[id] = &State{
		SubmissionID: id,
		Status:       StatusPending,
		CurrentPhase: PhaseScoring,
		StartedAt:    now,
		UpdatedAt:    now,
	}
	m.mu.Unlock()
	common.Logger().Info("pipeline: run started", "submission", id)
	go func() {
		defer func() {
			m.mu.Lock()
			delete(m.running, id)
			m.mu.Unlock()
			cancel()
		}()
		m.runPipeline(ctx, id, input)
	}()
	return nil
}

// Run executes the pipeline synchronously and returns the final state.
func (m *Manager) Run(ctx context.Context, input score.QuestionnaireInput) (State, error) {
	id := input.SubmissionID
	if id == "" {
		return State{}, fmt.Errorf("submission id required")
	}
	m.mu.Lock()
	if _, active := m.running[id]; active {
		m.mu.Unlock()
		return State{}, ErrRunInProgress
	}
	m.running[id] = func() {}
	now := time.Now().UTC()
	m.states[id] = &State{
		SubmissionID: id,
		Status:       StatusPending,
		CurrentPhase: PhaseScoring,
		StartedAt:    now,
		UpdatedAt:    now,
	}
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.running, id)
		m.mu.Unlock()
	}()
	if err := m.runPipeline(ctx, id, input); err != nil {
		return m.snapshot(id), err
	}
	return m.snapshot(id), nil
}

// Status returns the latest snapshot for a submission.
func (m *Manager) Status(id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[id]
	if !ok {
		return State{}, ErrRunNotFound
	}
	return *st, nil
}

// Stop cancels an active run. Completed runs are left untouched.
func (m *Manager) Stop(id string) error {
	m.mu.Lock()
	cancel, ok := m.running[id]
	m.mu.Unlock()
	if !ok {
		return ErrRunNotFound
	}
	cancel()
	return nil
}

func (m *Manager) snapshot(id string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.states[id]; ok {
		return *st
	}
	return State{SubmissionID: id}
}

// setPhase records that the run has advanced to phase. Backward moves are
// rejected: the phase order is strictly forward.
func (m *Manager) setPhase(id string, phase Phase) error {
	m.mu.Lock()
	st, ok := m.states[id]
	if !ok {
		m.mu.Unlock()
		return ErrRunNotFound
	}
	if phaseIndex(phase) < phaseIndex(st.CurrentPhase) {
		m.mu.Unlock()
		return fmt.Errorf("phase %s cannot follow %s", phase, st.CurrentPhase)
	}
	st.Status = StatusProcessing
	st.CurrentPhase = phase
	st.UpdatedAt = time.Now().UTC()
	snap := *st
	progress := m.progress
	m.mu.Unlock()
	m.persistState(snap)
	if progress != nil {
		progress(snap)
	}
	return nil
}

// addMetrics folds a phase's usage into the run metrics. Deltas are
// clamped at zero so the totals stay monotonic.
func (m *Manager) addMetrics(id string, tokens int64) {
	if tokens < 0 {
		tokens = 0
	}
	m.mu.Lock()
	st, ok := m.states[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	st.Metrics.TotalTokensUsed += tokens
	st.Metrics.EstimatedCost += float64(tokens) / 1000.0 * m.cfg.CostPer1KTokens
	st.Metrics.ExecutionTimeMs = time.Since(st.StartedAt).Milliseconds()
	st.UpdatedAt = time.Now().UTC()
	m.mu.Unlock()
}

func (m *Manager) failPipeline(id string, phase Phase, err error) {
	common.Logger().Error("pipeline: run failed", "submission", id, "phase", string(phase), "error", err)
	m.mu.Lock()
	st, ok := m.states[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	st.Status = StatusFailed
	st.Error = err.Error()
	st.Metrics.ExecutionTimeMs = time.Since(st.StartedAt).Milliseconds()
	st.UpdatedAt = time.Now().UTC()
	snap := *st
	m.mu.Unlock()
	m.persistState(snap)
	if werr := writeErrorArtifact(m.cfg.OutputRoot, snap, string(phase)); werr != nil {
		common.Logger().Warn("pipeline: error artifact not written", "submission", id, "error", werr)
	}
}

func (m *Manager) completePipeline(id string, reports []string) {
	m.mu.Lock()
	st, ok := m.states[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	st.Status = StatusCompleted
	st.CurrentPhase = PhaseComplete
	st.Reports = append([]string(nil), reports...)
	st.Metrics.ExecutionTimeMs = time.Since(st.StartedAt).Milliseconds()
	st.UpdatedAt = time.Now().UTC()
	snap := *st
	progress := m.progress
	m.mu.Unlock()
	m.persistState(snap)
	if err := writeStateArtifact(m.cfg.OutputRoot, snap); err != nil {
		common.Logger().Warn("pipeline: state artifact not written", "submission", id, "error", err)
	}
	if progress != nil {
		progress(snap)
	}
	common.Logger().Info("pipeline: run completed", "submission", id,
		"tokens", snap.Metrics.TotalTokensUsed, "elapsed_ms", snap.Metrics.ExecutionTimeMs)
}

func (m *Manager) persistState(st State) {
	if m.db == nil {
		return
	}
	rec := store.StateRecord{
		SubmissionID: st.SubmissionID,
		Status:       st.Status,
		Phase:        string(st.CurrentPhase),
		Tokens:       st.Metrics.TotalTokensUsed,
		Cost:         st.Metrics.EstimatedCost,
		ElapsedMs:    st.Metrics.ExecutionTimeMs,
		Error:        st.Error,
		UpdatedAt:    st.UpdatedAt,
	}
	if err := m.db.SaveState(context.Background(), rec); err != nil {
		common.Logger().Warn("pipeline: state not persisted", "submission", st.SubmissionID, "error", err)
	}
}

func phaseIndex(p Phase) int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}
