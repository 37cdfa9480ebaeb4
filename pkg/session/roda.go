package session

import (
	"context"

	"github.com/go-roda/roda/pkg/rac"
)

// RODAEndpoint is the transport-side counterpart an Engine connects to.
// The concrete transport (network socket, in-process channel, CAN
// gateway, ...) is out of scope for this package; it is referenced only
// through this interface.
type RODAEndpoint interface {
	// Register attaches client to the endpoint. The endpoint must call
	// client.OnReady once it knows its size envelope, and
	// client.OnRequestProcessed for every response it receives on the
	// client's behalf.
	Register(client ClientNotifiable) error

	// Unregister detaches the previously registered client. A
	// well-behaved transport always succeeds; Engine.Disconnect treats
	// failure as a fatal design-invariant violation.
	Unregister() error

	// Send hands req to the endpoint for delivery. Ownership of req
	// passes to the endpoint.
	Send(req rac.Request) error
}

// ClientNotifiable is the callback interface implemented by Engine and
// invoked by a RODAEndpoint, on the endpoint's own thread. Each callback
// must acquire the engine's internal lock, perform its bookkeeping, and
// return quickly; none of them may block on I/O.
type ClientNotifiable interface {
	// OnReady reports the endpoint's size envelope. Precondition: the
	// engine is in state NotReady.
	OnReady(maxRequestSize, maxResponseSize uint32)

	// OnDisconnected reports that the endpoint can no longer carry
	// requests. Precondition: the engine is in state Ready.
	OnDisconnected()

	// OnRequestProcessed delivers a response. Valid in any state;
	// responses that do not correlate to an outstanding request are
	// silently dropped.
	OnRequestProcessed(resp rac.Response)

	// LoanExecutionContext is an opt-in hook a transport may use to run
	// work on the engine's behalf. The default implementation returns
	// context.Background().
	LoanExecutionContext() context.Context
}
