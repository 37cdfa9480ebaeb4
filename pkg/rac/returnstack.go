package rac

import (
	"fmt"

	"github.com/go-roda/roda/pkg/bitio"
)

// ReturnStackItem is one routing breadcrumb pushed onto a request by a
// transport hop. The topmost item on a response's return stack always
// belongs to the innermost sender.
type ReturnStackItem struct {
	OwnerID uint32
	Info    uint32
}

func (i ReturnStackItem) String() string {
	return fmt.Sprintf("{owner=0x%08X info=0x%08X}", i.OwnerID, i.Info)
}

func (i ReturnStackItem) writeTo(w *bitio.Writer) {
	w.WriteUint32(i.OwnerID)
	w.WriteUint32(i.Info)
}

func readReturnStackItem(r *bitio.Reader) (ReturnStackItem, error) {
	owner, err := r.ReadUint32()
	if err != nil {
		return ReturnStackItem{}, err
	}
	info, err := r.ReadUint32()
	if err != nil {
		return ReturnStackItem{}, err
	}
	return ReturnStackItem{OwnerID: owner, Info: info}, nil
}

// ReturnStack is an ordered stack of ReturnStackItem, bottom first. Stack
// operations are Push, Pop, IsEmpty and Len; SetReturnStack and Items
// replace and read the stack as a whole, which is how a server moves it
// from a request onto its response. There is no accessor for a single
// item by position.
type ReturnStack struct {
	items []ReturnStackItem
}

// NewReturnStack wraps items as-is (bottom-to-top order) for use by a
// deserializer; callers building a stack incrementally should start from
// the zero value and Push.
func NewReturnStack(items []ReturnStackItem) ReturnStack {
	return ReturnStack{items: items}
}

// Push adds item as the new top of the stack.
func (s *ReturnStack) Push(item ReturnStackItem) {
	s.items = append(s.items, item)
}

// SetReturnStack replaces the stack wholesale, bottom-to-top. Servers
// use this to move a request's return stack onto its response verbatim,
// rather than copying it item by item.
func (s *ReturnStack) SetReturnStack(items []ReturnStackItem) {
	s.items = append([]ReturnStackItem(nil), items...)
}

// Items returns the stack's contents, bottom first. Callers must treat
// the result as read-only.
func (s ReturnStack) Items() []ReturnStackItem {
	return s.items
}

// Pop removes and returns the top item. Fails if the stack is empty.
func (s *ReturnStack) Pop() (ReturnStackItem, error) {
	if len(s.items) == 0 {
		return ReturnStackItem{}, ErrEmptyReturnStack
	}
	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return top, nil
}

// IsEmpty reports whether the stack has no items.
func (s ReturnStack) IsEmpty() bool {
	return len(s.items) == 0
}

// Len returns the number of items on the stack.
func (s ReturnStack) Len() int {
	return len(s.items)
}

// BinarySize returns the serialized size, in bytes, of the stack.
func (s ReturnStack) BinarySize() int {
	return len(s.items) * returnStackItemSize
}

func (s ReturnStack) writeTo(w *bitio.Writer) {
	for _, item := range s.items {
		item.writeTo(w)
	}
}

func readReturnStack(r *bitio.Reader, n uint8) (ReturnStack, error) {
	items := make([]ReturnStackItem, 0, n)
	for i := uint8(0); i < n; i++ {
		item, err := readReturnStackItem(r)
		if err != nil {
			return ReturnStack{}, err
		}
		items = append(items, item)
	}
	return ReturnStack{items: items}, nil
}
