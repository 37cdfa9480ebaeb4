package rac

import "fmt"

// Kind identifies which request/response variant a serialized message
// carries. The numbering matches the response-type ordering used on the
// wire; request messages and response messages share the same Kind
// values since a decoder always knows, from context, whether it is
// parsing a request or a response stream.
type Kind uint8

const (
	KindObjectEnum Kind = 0
	KindObjectInfo Kind = 1
	KindPing       Kind = 2
	KindRead       Kind = 3
	KindWrite      Kind = 4
)

func (k Kind) String() string {
	switch k {
	case KindObjectEnum:
		return "object_enum"
	case KindObjectInfo:
		return "object_info"
	case KindPing:
		return "ping"
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	default:
		return fmt.Sprintf("kind(0x%02X)", uint8(k))
	}
}

func isKnownKind(k Kind) bool {
	switch k {
	case KindObjectEnum, KindObjectInfo, KindPing, KindRead, KindWrite:
		return true
	default:
		return false
	}
}
