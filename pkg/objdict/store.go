// Package objdict implements a demonstration, in-memory object
// dictionary: the server side of the remote object-dictionary access
// protocol. It answers Read, Write, ObjectEnum, ObjectInfo and Ping
// requests for objects either registered programmatically or loaded
// from an INI-formatted descriptor file, the in-scope analogue of the
// reference implementation's EDS parsing (pkg/od/parser.go). It is a
// test/example fixture, not a production object dictionary: no
// persistence, no access-rights enforcement beyond the Attributes
// bitset, no complete-access transactions.
package objdict

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-roda/roda/pkg/datatype"
	"github.com/go-roda/roda/pkg/rac"
	log "github.com/sirupsen/logrus"
)

// Object is one subindex's value and metadata.
type Object struct {
	Name         string
	DataType     datatype.DataType
	Attributes   rac.Attributes
	MaxSizeInBit uint32
	Data         []byte
	SizeInBit    uint32
	ASM          []byte
}

// Store is a goroutine-safe in-memory object dictionary.
type Store struct {
	mu      sync.RWMutex
	objects map[uint16]map[uint8]*Object
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{objects: make(map[uint16]map[uint8]*Object)}
}

// Set registers or replaces a subindex's object. Subindex 0 of a
// composite object is the caller's responsibility to keep in sync with
// the highest populated subindex, matching spec.md's data model.
func (s *Store) Set(index uint16, subindex uint8, obj *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.objects[index]
	if !ok {
		sub = make(map[uint8]*Object)
		s.objects[index] = sub
	}
	sub[subindex] = obj
	log.Debugf("objdict: set %04X:%02X (%s)", index, subindex, obj.Name)
}

// Get returns the object at index/subindex, or ok=false if absent.
func (s *Store) Get(index uint16, subindex uint8) (*Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.objects[index]
	if !ok {
		return nil, false
	}
	obj, ok := sub[subindex]
	return obj, ok
}

// Indices returns every populated index in ascending order, optionally
// filtered to those carrying at least one subindex whose Attributes
// intersect attrFilter (a zero filter matches everything).
func (s *Store) Indices(attrFilter rac.Attributes) []uint16 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]uint16, 0, len(s.objects))
	for idx, subs := range s.objects {
		if attrFilter != 0 && !anyMatches(subs, attrFilter) {
			continue
		}
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func anyMatches(subs map[uint8]*Object, filter rac.Attributes) bool {
	for _, obj := range subs {
		if obj.Attributes&filter != 0 {
			return true
		}
	}
	return false
}

// subIndices returns the populated subindices of index, ascending, for
// use by the ObjectInfo handler.
func (s *Store) subIndices(index uint16) []uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subs, ok := s.objects[index]
	if !ok {
		return nil
	}
	out := make([]uint8, 0, len(subs))
	for sub := range subs {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Store) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("objdict store: %d objects", len(s.objects))
}
