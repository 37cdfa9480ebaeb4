package rac

// AccessType selects which subindex(es) a Read or Write request targets.
type AccessType uint8

const (
	// SingleSubindex addresses exactly one subindex.
	SingleSubindex AccessType = 0

	// CompleteAccessSI0_8Bit performs a complete access (all subindices
	// of the object, read/written atomically) where subindex 0 is
	// encoded as 8 bits.
	CompleteAccessSI0_8Bit AccessType = 1

	// CompleteAccessSI0_16Bit is like CompleteAccessSI0_8Bit but encodes
	// subindex 0 as 16 bits, for objects whose subindex 0 itself exceeds
	// a single byte's value range in the transfer.
	CompleteAccessSI0_16Bit AccessType = 2
)

func (a AccessType) String() string {
	switch a {
	case SingleSubindex:
		return "single_subindex"
	case CompleteAccessSI0_8Bit:
		return "complete_access_si0_8bit"
	case CompleteAccessSI0_16Bit:
		return "complete_access_si0_16bit"
	default:
		return "unknown_access_type"
	}
}

func isKnownAccessType(a AccessType) bool {
	switch a {
	case SingleSubindex, CompleteAccessSI0_8Bit, CompleteAccessSI0_16Bit:
		return true
	default:
		return false
	}
}

// Attributes is a bitset of object dictionary access permissions
// attached to a subindex, carried verbatim in Read/Write requests and
// ObjectInfo responses.
type Attributes uint16

const (
	AttrRead Attributes = 1 << iota
	AttrWrite
	AttrReadOnInit
	AttrVolatile
	AttrPDOMappable
)
