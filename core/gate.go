package core

import (
	"sync"
)

type GateDecision string

const (
	GateExecute  GateDecision = "execute"
	GateQueued   GateDecision = "queued"
	GateRejected GateDecision = "rejected"
)

// GateDrain is the snapshot taken when an initialization attempt settles.
type GateDrain struct {
	Ready      bool
	Operations []PendingOperation
	URLs       []URLDelivery
}

// Gate defers readiness-bound operations until initialization settles. It
// only mutates its own state and queues; executing anything is the
// caller's job.
type Gate struct {
	mu                sync.Mutex
	state             InitState
	epoch             uint64
	replaying         bool
	operations        pendingQueue[PendingOperation]
	urls              pendingQueue[URLDelivery]
	requiresReadiness func(OperationKind) bool
}

func NewGate(requiresReadiness func(OperationKind) bool) *Gate {
	if requiresReadiness == nil {
		requiresReadiness = DefaultRequiresReadiness
	}
	return &Gate{
		state:             InitStateNotStarted,
		requiresReadiness: requiresReadiness,
	}
}

func (g *Gate) State() InitState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Epoch() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.epoch
}

func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.operations.len()
}

func (g *Gate) PendingURLs() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.urls.len()
}

func (g *Gate) RequiresReadiness(kind OperationKind) bool {
	return g.requiresReadiness(kind)
}

// Replaying reports whether the gate is ready but still dispatching the
// work queued before readiness.
func (g *Gate) Replaying() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.replaying
}

// Submit decides the fate of op. A rejected decision carries the NotReady
// error the caller must resolve op with. While a replay is running, new
// gated operations queue behind it.
func (g *Gate) Submit(op PendingOperation) (GateDecision, error) {
	if !g.requiresReadiness(op.Kind) {
		return GateExecute, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case g.state == InitStateReady && !g.replaying:
		return GateExecute, nil
	case g.state == InitStateFailed:
		return GateRejected, NotReadyError(op.Kind)
	default:
		g.operations.push(op)
		return GateQueued, nil
	}
}

// SubmitURL applies the same policy to an externally delivered url.
func (g *Gate) SubmitURL(delivery URLDelivery) GateDecision {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case g.state == InitStateReady && !g.replaying:
		return GateExecute
	case g.state == InitStateFailed:
		return GateRejected
	default:
		g.urls.push(delivery)
		return GateQueued
	}
}

// Begin starts an initialization attempt and returns its epoch.
func (g *Gate) Begin() (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !canTransition(g.state, InitStateInProgress) {
		return g.epoch, InitConflictError(g.state)
	}
	g.state = InitStateInProgress
	return g.epoch, nil
}

// Settle ends the attempt started at epoch and snapshots both queues. It
// returns false when a Reset happened in between; the attempt is then stale
// and must not touch bridge state.
func (g *Gate) Settle(epoch uint64, ready bool) (GateDrain, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch != g.epoch || g.state != InitStateInProgress {
		return GateDrain{}, false
	}
	next := InitStateFailed
	if ready {
		next = InitStateReady
	}
	g.state = next
	g.replaying = ready
	return GateDrain{
		Ready:      ready,
		Operations: g.operations.drain(),
		URLs:       g.urls.drain(),
	}, true
}

// NextReplay hands back whatever queued up behind the replay of the attempt
// started at epoch. When nothing is left the replay ends and ready
// operations execute directly from then on. It returns false once the
// replay is over or the attempt went stale.
func (g *Gate) NextReplay(epoch uint64) (GateDrain, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch != g.epoch || !g.replaying {
		return GateDrain{}, false
	}
	if g.operations.len() == 0 && g.urls.len() == 0 {
		g.replaying = false
		return GateDrain{}, false
	}
	return GateDrain{
		Ready:      true,
		Operations: g.operations.drain(),
		URLs:       g.urls.drain(),
	}, true
}

// Reset returns the gate to NotStarted, invalidates any running attempt and
// hands back whatever was queued so the caller can abandon it.
func (g *Gate) Reset() GateDrain {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = InitStateNotStarted
	g.replaying = false
	g.epoch++
	return GateDrain{
		Operations: g.operations.drain(),
		URLs:       g.urls.drain(),
	}
}
