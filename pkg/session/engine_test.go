package session

import (
	"testing"
	"time"

	"github.com/go-roda/roda/pkg/rac"
	"github.com/stretchr/testify/require"
)

func connectedEngine(t *testing.T) (*Engine, *fakeEndpoint) {
	t.Helper()
	e := NewEngine(WithRxTimeout(200 * time.Millisecond))
	ep := &fakeEndpoint{}
	require.NoError(t, e.Connect(ep))
	require.Equal(t, NotReady, e.State())
	e.OnReady(4096, 4096)
	require.Equal(t, Ready, e.State())
	return e, ep
}

func TestConnectRequiresNotRegistered(t *testing.T) {
	e, _ := connectedEngine(t)
	err := e.Connect(&fakeEndpoint{})
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestConnectRollsBackOnRegisterFailure(t *testing.T) {
	e := NewEngine()
	ep := &failingRegisterEndpoint{}
	err := e.Connect(ep)
	require.Error(t, err)
	require.Equal(t, NotRegistered, e.State())
	// A fresh connect attempt must be possible after rollback.
	require.NoError(t, e.Connect(&fakeEndpoint{}))
}

type failingRegisterEndpoint struct{ fakeEndpoint }

func (f *failingRegisterEndpoint) Register(ClientNotifiable) error {
	return errRegisterFailed
}

var errRegisterFailed = errRegFailed{}

type errRegFailed struct{}

func (errRegFailed) Error() string { return "register failed" }

func TestDisconnectRequiresRegistered(t *testing.T) {
	e := NewEngine()
	err := e.Disconnect()
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestDisconnectReturnsToNotRegistered(t *testing.T) {
	e, _ := connectedEngine(t)
	require.NoError(t, e.Disconnect())
	require.Equal(t, NotRegistered, e.State())
}

func TestWaitForRODAItfReadyImmediateWhenReady(t *testing.T) {
	e, _ := connectedEngine(t)
	ok, err := e.WaitForRODAItfReady(10)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWaitForRODAItfReadyFailsWhenNotRegistered(t *testing.T) {
	e := NewEngine()
	_, err := e.WaitForRODAItfReady(10)
	require.Error(t, err)
	var logicErr *LogicError
	require.ErrorAs(t, err, &logicErr)
}

func TestWaitForRODAItfReadyBlocksThenSucceeds(t *testing.T) {
	e := NewEngine()
	ep := &fakeEndpoint{}
	require.NoError(t, e.Connect(ep))

	go func() {
		time.Sleep(20 * time.Millisecond)
		e.OnReady(1024, 1024)
	}()

	ok, err := e.WaitForRODAItfReady(500)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWaitForRODAItfReadyTimesOut(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Connect(&fakeEndpoint{}))
	ok, err := e.WaitForRODAItfReady(20)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOnReadyPanicsOutsideNotReady(t *testing.T) {
	e, _ := connectedEngine(t)
	require.Panics(t, func() { e.OnReady(1024, 1024) })
}

func TestOnDisconnectedReturnsToNotReady(t *testing.T) {
	e, _ := connectedEngine(t)
	e.OnDisconnected()
	require.Equal(t, NotReady, e.State())
}

func TestOnRequestProcessedDropsWrongOwner(t *testing.T) {
	e, _ := connectedEngine(t)
	rs := rac.NewReturnStack([]rac.ReturnStackItem{{OwnerID: e.OwnerID() + 1, Info: 0}})
	resp := rac.NewPingResponse(rs)
	e.OnRequestProcessed(resp)
	e.internalMu.Lock()
	full := e.inboxFull
	e.internalMu.Unlock()
	require.False(t, full)
}

func TestOnRequestProcessedDropsStaleSession(t *testing.T) {
	e, _ := connectedEngine(t)
	rs := rac.NewReturnStack([]rac.ReturnStackItem{{OwnerID: e.OwnerID(), Info: 999}})
	resp := rac.NewPingResponse(rs)
	e.OnRequestProcessed(resp)
	e.internalMu.Lock()
	full := e.inboxFull
	e.internalMu.Unlock()
	require.False(t, full)
}

func TestClampSizeEnvelope(t *testing.T) {
	require.Equal(t, uint32(0), clampSizeEnvelope(10))
	require.Equal(t, uint32(0), clampSizeEnvelope(rac.MinimumUsefulResponseSize+returnStackItemSize-1))
	require.Equal(t, uint32(rac.MinimumUsefulResponseSize), clampSizeEnvelope(rac.MinimumUsefulResponseSize+returnStackItemSize))
}
