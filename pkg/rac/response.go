package rac

import "github.com/go-roda/roda/pkg/bitio"

// Response is the common interface satisfied by every response variant:
// Read, Write, ObjectEnum, ObjectInfo, Ping.
type Response interface {
	Kind() Kind
	BinarySize() int
	ToBinary() []byte
	String() string

	// ReturnStack returns a pointer to the response's return stack,
	// inherited verbatim from the originating request, so a transport
	// hop can pop its own routing item while forwarding the response
	// back toward the originator.
	ReturnStack() *ReturnStack
}

// responseBase holds the fields common to every response variant.
type responseBase struct {
	kind        Kind
	returnStack ReturnStack
}

func newResponseBase(kind Kind, rs ReturnStack) responseBase {
	return responseBase{kind: kind, returnStack: rs}
}

func (b *responseBase) Kind() Kind                { return b.kind }
func (b *responseBase) ReturnStack() *ReturnStack { return &b.returnStack }
func (b *responseBase) baseBinarySize() int       { return baseBinarySize + b.returnStack.BinarySize() }

func (b *responseBase) writeHeaderAndStack(w *bitio.Writer) {
	w.WriteUint8(uint8(b.kind))
	w.WriteUint8(CurrentVersion)
	w.WriteUint8(uint8(b.returnStack.Len()))
	b.returnStack.writeTo(w)
}

type decodedResponseHeader struct {
	kind        Kind
	version     uint8
	returnStack ReturnStack
}

func readResponseHeader(r *bitio.Reader) (decodedResponseHeader, error) {
	kindByte, err := r.ReadUint8()
	if err != nil {
		return decodedResponseHeader{}, err
	}
	version, err := r.ReadUint8()
	if err != nil {
		return decodedResponseHeader{}, err
	}
	if version > CurrentVersion {
		return decodedResponseHeader{}, ErrUnsupportedVersion
	}
	kind := Kind(kindByte)
	if !isKnownKind(kind) {
		return decodedResponseHeader{}, ErrUnknownTypeCode
	}
	n, err := r.ReadUint8()
	if err != nil {
		return decodedResponseHeader{}, err
	}
	rs, err := readReturnStack(r, n)
	if err != nil {
		return decodedResponseHeader{}, err
	}
	return decodedResponseHeader{kind: kind, version: version, returnStack: rs}, nil
}

// ResponseFromBinary reads the common header, dispatches on the type
// code to the matching payload decoder, and returns an owned response
// variant. It is the only caller of each variant's unexported binary
// constructor; that constructor visibility is this package's analogue
// of a passkey-gated deserializer.
func ResponseFromBinary(data []byte) (Response, error) {
	r := bitio.NewReader(data)
	h, err := readResponseHeader(r)
	if err != nil {
		return nil, err
	}
	switch h.kind {
	case KindPing:
		return newPingResponseFromBinary(h)
	case KindRead:
		return newReadResponseFromBinary(h, r)
	case KindWrite:
		return newWriteResponseFromBinary(h, r)
	case KindObjectEnum:
		return newObjectEnumResponseFromBinary(h, r)
	case KindObjectInfo:
		return newObjectInfoResponseFromBinary(h, r)
	default:
		return nil, ErrUnknownTypeCode
	}
}
