package rac

import (
	"fmt"

	"github.com/go-roda/roda/pkg/bitio"
)

// Request is the common interface satisfied by every request variant:
// Read, Write, ObjectEnum, ObjectInfo, Ping.
type Request interface {
	Kind() Kind
	BinarySize() int
	ToBinary() []byte
	String() string

	// ReturnStack returns a pointer to the request's return stack so a
	// transport hop can push its own routing item before forwarding.
	ReturnStack() *ReturnStack

	MaxResponseSize() uint32
}

// requestBase holds the fields common to every request variant.
type requestBase struct {
	kind            Kind
	returnStack     ReturnStack
	maxResponseSize uint32
}

func newRequestBase(kind Kind, maxResponseSize uint32) requestBase {
	return requestBase{kind: kind, maxResponseSize: maxResponseSize}
}

func (b *requestBase) Kind() Kind                  { return b.kind }
func (b *requestBase) ReturnStack() *ReturnStack   { return &b.returnStack }
func (b *requestBase) MaxResponseSize() uint32     { return b.maxResponseSize }
func (b *requestBase) baseBinarySize() int         { return baseBinarySize + b.returnStack.BinarySize() + 4 }
func (b *requestBase) writeHeaderAndStack(w *bitio.Writer) {
	w.WriteUint8(uint8(b.kind))
	w.WriteUint8(CurrentVersion)
	w.WriteUint8(uint8(b.returnStack.Len()))
	b.returnStack.writeTo(w)
	w.WriteUint32(b.maxResponseSize)
}

// decodedRequestHeader is the result of parsing the common header plus return
// stack and maxResponseSize fields shared by every request.
type decodedRequestHeader struct {
	kind            Kind
	version         uint8
	returnStack     ReturnStack
	maxResponseSize uint32
}

func readRequestHeader(r *bitio.Reader) (decodedRequestHeader, error) {
	kindByte, err := r.ReadUint8()
	if err != nil {
		return decodedRequestHeader{}, err
	}
	version, err := r.ReadUint8()
	if err != nil {
		return decodedRequestHeader{}, err
	}
	if version > CurrentVersion {
		return decodedRequestHeader{}, ErrUnsupportedVersion
	}
	kind := Kind(kindByte)
	if !isKnownKind(kind) {
		return decodedRequestHeader{}, ErrUnknownTypeCode
	}
	n, err := r.ReadUint8()
	if err != nil {
		return decodedRequestHeader{}, err
	}
	rs, err := readReturnStack(r, n)
	if err != nil {
		return decodedRequestHeader{}, err
	}
	maxResponseSize, err := r.ReadUint32()
	if err != nil {
		return decodedRequestHeader{}, err
	}
	return decodedRequestHeader{kind: kind, version: version, returnStack: rs, maxResponseSize: maxResponseSize}, nil
}

// RequestFromBinary parses a serialized request, dispatching on the
// common header's type code to the matching payload decoder. It rejects
// unknown type codes and versions newer than this package supports.
func RequestFromBinary(data []byte) (Request, error) {
	r := bitio.NewReader(data)
	h, err := readRequestHeader(r)
	if err != nil {
		return nil, err
	}
	switch h.kind {
	case KindPing:
		return newPingRequestFromBinary(h)
	case KindRead:
		return newReadRequestFromBinary(h, r)
	case KindWrite:
		return newWriteRequestFromBinary(h, r)
	case KindObjectEnum:
		return newObjectEnumRequestFromBinary(h, r)
	case KindObjectInfo:
		return newObjectInfoRequestFromBinary(h, r)
	default:
		return nil, ErrUnknownTypeCode
	}
}

func fmtMaxResponseSize(s uint32) string {
	return fmt.Sprintf("maxResponseSize=%d", s)
}
