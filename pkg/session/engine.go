package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-roda/roda/pkg/rac"
	log "github.com/sirupsen/logrus"
)

// DefaultRxTimeout is the deadline a send-and-receive operation waits
// for a correlated response before failing, unless overridden by
// WithRxTimeout.
const DefaultRxTimeout = 1000 * time.Millisecond

// returnStackItemSize mirrors pkg/rac's wire size of one ReturnStackItem:
// used to clamp the usable request/response size envelope down from the
// raw sizes the endpoint advertises.
const returnStackItemSize = 8

var nextOwnerID uint32

// Engine is the client-side RODA session engine. It is safe for
// concurrent use by multiple goroutines; the codec and request/response
// types it wraps are not.
//
// Two locks protect engine state, always acquired in this order:
// connectMu serializes Connect/Disconnect and guards the endpoint
// pointer; internalMu guards everything else (state, counters, inbox).
// No operation holds both locks while blocking.
type Engine struct {
	connectMu sync.Mutex
	endpoint  RODAEndpoint

	internalMu sync.Mutex
	state      State
	stateCh    chan struct{}

	maxRequestSize  uint32
	maxResponseSize uint32

	ownerID      uint32
	sessionCount uint32

	inbox     rac.Response
	inboxFull bool
	overflow  bool
	respCh    chan struct{}

	rxTimeout time.Duration
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithRxTimeout overrides the default response deadline applied to every
// send-and-receive operation.
func WithRxTimeout(d time.Duration) Option {
	return func(e *Engine) { e.rxTimeout = d }
}

// NewEngine creates a disconnected Engine in state NotRegistered.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		state:     NotRegistered,
		stateCh:   make(chan struct{}),
		respCh:    make(chan struct{}),
		ownerID:   atomic.AddUint32(&nextOwnerID, 1),
		rxTimeout: DefaultRxTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OwnerID returns the 32-bit identifier this engine tags its outbound
// return-stack items with. Unlike the reference implementation's
// pointer-derived identifier, this is a process-wide monotonic counter:
// Go gives no portable, stable integer view of an object's identity, and
// a counter serves the same purpose (disambiguating engines sharing a
// transport) without depending on unsafe.Pointer arithmetic.
func (e *Engine) OwnerID() uint32 { return e.ownerID }

// State returns the engine's current connection state.
func (e *Engine) State() State {
	e.internalMu.Lock()
	defer e.internalMu.Unlock()
	return e.state
}

// Connect attaches the engine to roda. Requires state NotRegistered; on
// success the state becomes NotReady and stays there until the endpoint
// calls OnReady. If roda.Register returns an error, the state is rolled
// back to NotRegistered and the endpoint pointer is cleared.
func (e *Engine) Connect(roda RODAEndpoint) error {
	e.connectMu.Lock()
	defer e.connectMu.Unlock()

	e.internalMu.Lock()
	if e.state != NotRegistered {
		e.internalMu.Unlock()
		return ErrAlreadyRegistered
	}
	e.state = NotReady
	e.broadcastStateLocked()
	e.internalMu.Unlock()

	e.endpoint = roda
	if err := roda.Register(e); err != nil {
		e.internalMu.Lock()
		e.state = NotRegistered
		e.broadcastStateLocked()
		e.internalMu.Unlock()
		e.endpoint = nil
		return fmt.Errorf("session: register failed: %w", err)
	}
	log.Debugf("session[%08X]: connected, awaiting ready", e.ownerID)
	return nil
}

// Disconnect detaches the engine from its endpoint. Requires state !=
// NotRegistered. A failing Unregister is a design invariant violation in
// the transport's contract and aborts the process, matching the
// reference implementation's behavior.
func (e *Engine) Disconnect() error {
	e.connectMu.Lock()
	defer e.connectMu.Unlock()

	e.internalMu.Lock()
	if e.state == NotRegistered {
		e.internalMu.Unlock()
		return ErrNotRegistered
	}
	e.internalMu.Unlock()

	if err := e.endpoint.Unregister(); err != nil {
		log.Errorf("session[%08X]: unregister failed, aborting: %v", e.ownerID, err)
		panic(fmt.Sprintf("session: roda endpoint failed to unregister: %v", err))
	}

	e.internalMu.Lock()
	e.resetLocked(NotRegistered)
	e.internalMu.Unlock()
	e.endpoint = nil
	log.Debugf("session[%08X]: disconnected", e.ownerID)
	return nil
}

// WaitForRODAItfReady blocks until the engine reaches state Ready or
// timeoutMs elapses. It fails immediately with a logic error if the
// engine is not registered.
func (e *Engine) WaitForRODAItfReady(timeoutMs uint32) (bool, error) {
	e.internalMu.Lock()
	if e.state == NotRegistered {
		e.internalMu.Unlock()
		return false, newLogicError("session: WaitForRODAItfReady called while not registered")
	}
	if e.state == Ready {
		e.internalMu.Unlock()
		return true, nil
	}
	deadline := time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
	for e.state != Ready {
		ch := e.stateCh
		remaining := time.Until(deadline)
		if remaining <= 0 {
			e.internalMu.Unlock()
			return false, nil
		}
		e.internalMu.Unlock()
		select {
		case <-ch:
		case <-time.After(remaining):
			return false, nil
		}
		e.internalMu.Lock()
		if e.state == NotRegistered {
			e.internalMu.Unlock()
			return false, newLogicError("session: endpoint was disconnected while waiting")
		}
	}
	e.internalMu.Unlock()
	return true, nil
}

// OnReady implements ClientNotifiable. Precondition: state NotReady.
func (e *Engine) OnReady(maxRequestSize, maxResponseSize uint32) {
	e.internalMu.Lock()
	defer e.internalMu.Unlock()
	if e.state != NotReady {
		panic(fmt.Sprintf("session: OnReady called in state %s, expected not_ready", e.state))
	}
	e.maxRequestSize = clampSizeEnvelope(maxRequestSize)
	e.maxResponseSize = clampSizeEnvelope(maxResponseSize)
	e.state = Ready
	e.broadcastStateLocked()
	log.Debugf("session[%08X]: ready, maxRequestSize=%d maxResponseSize=%d", e.ownerID, e.maxRequestSize, e.maxResponseSize)
}

// OnDisconnected implements ClientNotifiable. Precondition: state Ready.
// The engine returns to NotReady; the endpoint remains attached and may
// later call OnReady again.
func (e *Engine) OnDisconnected() {
	e.internalMu.Lock()
	defer e.internalMu.Unlock()
	if e.state != Ready {
		panic(fmt.Sprintf("session: OnDisconnected called in state %s, expected ready", e.state))
	}
	log.Warnf("session[%08X]: endpoint reported disconnection", e.ownerID)
	e.resetLocked(NotReady)
}

// OnRequestProcessed implements ClientNotifiable. It pops the top
// return-stack item and drops the response silently unless it
// correlates to the currently outstanding request: matching owner ID
// and session count.
func (e *Engine) OnRequestProcessed(resp rac.Response) {
	item, err := resp.ReturnStack().Pop()
	if err != nil {
		log.Warnf("session[%08X]: received response with empty return stack, dropped", e.ownerID)
		return
	}
	e.internalMu.Lock()
	defer e.internalMu.Unlock()
	if item.OwnerID != e.ownerID {
		return
	}
	if item.Info != e.sessionCount {
		log.Debugf("session[%08X]: dropped stale response (session %d, current %d)", e.ownerID, item.Info, e.sessionCount)
		return
	}
	if e.inboxFull {
		e.overflow = true
		log.Warnf("session[%08X]: inbox overflow, dropping response", e.ownerID)
		return
	}
	e.inbox = resp
	e.inboxFull = true
	e.broadcastRespLocked()
}

// LoanExecutionContext implements ClientNotifiable with the default
// empty hook.
func (e *Engine) LoanExecutionContext() context.Context { return context.Background() }

// Reset clears session bookkeeping (size envelope, session counter,
// inbox, overflow flag) and transitions to newState, broadcasting the
// state change if it actually changes.
func (e *Engine) Reset(newState State) {
	e.internalMu.Lock()
	defer e.internalMu.Unlock()
	e.resetLocked(newState)
}

func (e *Engine) resetLocked(newState State) {
	e.maxRequestSize = 0
	e.maxResponseSize = 0
	e.sessionCount = 0
	e.inbox = nil
	e.inboxFull = false
	e.overflow = false
	if e.state != newState {
		e.state = newState
		e.broadcastStateLocked()
	}
}

func (e *Engine) broadcastStateLocked() {
	close(e.stateCh)
	e.stateCh = make(chan struct{})
}

func (e *Engine) broadcastRespLocked() {
	close(e.respCh)
	e.respCh = make(chan struct{})
}

// clampSizeEnvelope subtracts the size of one return-stack item from an
// endpoint-advertised max size, clamping to 0 if the result would fall
// below the smallest useful envelope.
func clampSizeEnvelope(maxSize uint32) uint32 {
	if maxSize < rac.MinimumUsefulResponseSize+returnStackItemSize {
		return 0
	}
	return maxSize - returnStackItemSize
}

// currentEndpoint returns the attached endpoint, or nil if none.
func (e *Engine) currentEndpoint() RODAEndpoint {
	e.connectMu.Lock()
	defer e.connectMu.Unlock()
	return e.endpoint
}

// sendAndReceive pushes the engine's own return-stack item onto req,
// sends it via the attached endpoint, and blocks for a correlated
// response or the rxTimeout deadline. The session counter always
// advances once the send completes, whether or not a response arrives,
// so any later delivery for this session is dropped as stale.
func (e *Engine) sendAndReceive(req rac.Request) (rac.Response, error) {
	endpoint := e.currentEndpoint()
	if endpoint == nil {
		return nil, newNotReadyError("session: not connected to an endpoint")
	}

	e.internalMu.Lock()
	if e.state != Ready {
		e.internalMu.Unlock()
		return nil, newNotReadyError("session: endpoint is not ready")
	}
	req.ReturnStack().Push(rac.ReturnStackItem{OwnerID: e.ownerID, Info: e.sessionCount})
	mySession := e.sessionCount
	e.internalMu.Unlock()

	if err := endpoint.Send(req); err != nil {
		e.internalMu.Lock()
		e.sessionCount++
		e.internalMu.Unlock()
		return nil, newRuntimeError(fmt.Sprintf("session: send failed: %v", err))
	}

	resp, overflowed, timedOut := e.waitAndFetchResponse(mySession, e.rxTimeout)

	e.internalMu.Lock()
	e.sessionCount++
	e.internalMu.Unlock()

	if timedOut {
		return nil, newRuntimeError("session: timed out waiting for response")
	}
	if overflowed {
		return nil, newRuntimeError("session: response inbox overflow")
	}
	return resp, nil
}

// waitAndFetchResponse blocks until the inbox is filled, the overflow
// flag is set, or timeout elapses. On success it takes ownership of the
// inbox contents, clearing it for the next request.
func (e *Engine) waitAndFetchResponse(_ uint32, timeout time.Duration) (resp rac.Response, overflowed, timedOut bool) {
	deadline := time.Now().Add(timeout)
	e.internalMu.Lock()
	for {
		if e.overflow {
			e.overflow = false
			e.internalMu.Unlock()
			return nil, true, false
		}
		if e.inboxFull {
			resp = e.inbox
			e.inbox = nil
			e.inboxFull = false
			e.internalMu.Unlock()
			return resp, false, false
		}
		ch := e.respCh
		remaining := time.Until(deadline)
		if remaining <= 0 {
			e.internalMu.Unlock()
			return nil, false, true
		}
		e.internalMu.Unlock()
		select {
		case <-ch:
		case <-time.After(remaining):
			return nil, false, true
		}
		e.internalMu.Lock()
	}
}

// maxResponseBudget returns the response size budget to advertise on an
// outbound request: the negotiated envelope if the engine is ready, or
// the protocol-minimum otherwise (the request will fail with NotReady
// before this matters).
func (e *Engine) maxResponseBudget() uint32 {
	e.internalMu.Lock()
	defer e.internalMu.Unlock()
	if e.maxResponseSize == 0 {
		return rac.MinimumUsefulResponseSize
	}
	return e.maxResponseSize
}
