package datatype

// bitWidthTable gives the CANopen wire width in bits for every data type
// this module supports a codec for. Types absent from the map have no
// fixed width (visible_string/octet_string/unicode_string: width is
// determined by the subindex's configured size) or are unsupported.
var bitWidthTable = map[DataType]uint16{
	Null:              0,
	Boolean:           1,
	BooleanNativeBit1: 1,
	Integer8:          8,
	Integer16:         16,
	Integer32:         32,
	Integer64:         64,
	Unsigned8:         8,
	Unsigned16:        16,
	Unsigned32:        32,
	Unsigned64:        64,
	Real32:            32,
	Real64:            64,
	Bit1:              1,
	Bit2:              2,
	Bit3:              3,
	Bit4:              4,
	Bit5:              5,
	Bit6:              6,
	Bit7:              7,
	Bit8:              8,
}

// nativeBitWidthTable gives the native (in-memory) bit width for the
// types whose native width differs from the wire width. Its only entry
// is Boolean, whose native form is a full byte; every other type's
// native width equals its wire width.
var nativeBitWidthTable = map[DataType]uint16{
	Boolean: 8,
}

// BitWidth returns the CANopen wire width, in bits, of t. Returns
// (0, false) for variable-length string types and for unrecognized
// types.
func BitWidth(t DataType) (uint16, bool) {
	w, ok := bitWidthTable[t]
	return w, ok
}

// NativeBitWidth returns the native in-memory width, in bits, of t.
// Falls back to the wire width for types without an alternative native
// representation.
func NativeBitWidth(t DataType) (uint16, bool) {
	if w, ok := nativeBitWidthTable[t]; ok {
		return w, true
	}
	return BitWidth(t)
}

// IsSupported reports whether the codec (Decode/Encode) implements
// conversions for t. Unsupported-but-defined types (e.g. the 24/40/48/56
// bit integers, time_of_day/time_difference, the meta-only record types)
// report false; callers should fail with ErrUnsupportedType.
func IsSupported(t DataType) bool {
	switch t {
	case Null, Boolean, BooleanNativeBit1,
		Integer8, Integer16, Integer32, Integer64,
		Unsigned8, Unsigned16, Unsigned32, Unsigned64,
		Real32, Real64,
		VisibleString, OctetString, UnicodeString,
		Bit1, Bit2, Bit3, Bit4, Bit5, Bit6, Bit7, Bit8:
		return true
	default:
		return false
	}
}
