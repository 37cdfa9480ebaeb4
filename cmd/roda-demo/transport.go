package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-roda/roda/pkg/objdict"
	"github.com/go-roda/roda/pkg/rac"
	"github.com/go-roda/roda/pkg/session"
)

// localTransport is an in-process RODAEndpoint: it hands every
// outbound request straight to an objdict.Store and delivers the
// response back on the caller's own goroutine. There is no wire
// encoding involved, but requests and responses still travel through
// their ToBinary/FromBinary form once, exercising the same codec path
// a networked transport would use.
type localTransport struct {
	store *objdict.Store

	mu       sync.Mutex
	client   session.ClientNotifiable
	maxSize  uint32
	unregErr error
}

func newLocalTransport(store *objdict.Store, maxSize uint32) *localTransport {
	return &localTransport{store: store, maxSize: maxSize}
}

func (t *localTransport) Register(client session.ClientNotifiable) error {
	t.mu.Lock()
	t.client = client
	maxSize := t.maxSize
	t.mu.Unlock()
	client.OnReady(maxSize, maxSize)
	return nil
}

func (t *localTransport) Unregister() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.client = nil
	return t.unregErr
}

func (t *localTransport) Send(req rac.Request) error {
	encoded := req.ToBinary()
	decoded, err := rac.RequestFromBinary(encoded)
	if err != nil {
		return fmt.Errorf("roda-demo: transport re-decode failed: %w", err)
	}
	resp := t.store.Handle(decoded)
	if resp == nil {
		return fmt.Errorf("roda-demo: store returned no response for %s", decoded.Kind())
	}
	resp, err = rac.ResponseFromBinary(resp.ToBinary())
	if err != nil {
		return fmt.Errorf("roda-demo: transport re-decode of response failed: %w", err)
	}

	t.mu.Lock()
	client := t.client
	t.mu.Unlock()
	if client == nil {
		return context.Canceled
	}
	client.OnRequestProcessed(resp)
	return nil
}
