package session

import (
	"sync"

	"github.com/go-roda/roda/pkg/rac"
)

// fakeEndpoint is an in-process RODAEndpoint test double. Handle, if
// set, is invoked synchronously inside Send and its return value (if
// non-nil) delivered via OnRequestProcessed immediately; tests that need
// to control timing call deliverAsync directly instead.
type fakeEndpoint struct {
	mu       sync.Mutex
	client   ClientNotifiable
	handle   func(rac.Request) rac.Response
	sent     []rac.Request
	unregErr error
}

func (f *fakeEndpoint) Register(c ClientNotifiable) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.client = c
	return nil
}

func (f *fakeEndpoint) Unregister() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.client = nil
	return f.unregErr
}

func (f *fakeEndpoint) Send(req rac.Request) error {
	f.mu.Lock()
	f.sent = append(f.sent, req)
	handle := f.handle
	client := f.client
	f.mu.Unlock()

	if handle == nil {
		return nil
	}
	resp := handle(req)
	if resp != nil && client != nil {
		client.OnRequestProcessed(resp)
	}
	return nil
}

func (f *fakeEndpoint) deliver(resp rac.Response) {
	f.mu.Lock()
	client := f.client
	f.mu.Unlock()
	if client != nil {
		client.OnRequestProcessed(resp)
	}
}

func (f *fakeEndpoint) lastSent() rac.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}
