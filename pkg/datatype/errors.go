package datatype

import "errors"

// Sentinel errors for the codec. ErrUnsupportedType corresponds to the
// data-type-not-supported error class; the rest correspond to
// invalid-argument.
var (
	// ErrUnsupportedType is returned when the codec is asked to decode or
	// encode a data type it does not implement (e.g. 40-bit integers).
	ErrUnsupportedType = errors.New("datatype: data type not supported")

	// ErrZeroLength is returned for operations that reject an empty
	// value, e.g. decoding zero bits of octet_string/unicode_string, or
	// writing a zero-length visible_string.
	ErrZeroLength = errors.New("datatype: zero-length value not allowed")

	// ErrMalformed is returned when textual input cannot be parsed as the
	// target data type. Integer types are the exception: they report
	// every parse failure as ErrOutOfRange.
	ErrMalformed = errors.New("datatype: malformed value")

	// ErrOutOfRange is returned when an integer value does not fit the
	// target data type's range, or upper bits above a bitN type's width
	// are non-zero. For integer types it is also returned when the text
	// is not a valid integer literal at all.
	ErrOutOfRange = errors.New("datatype: value out of range")

	// ErrBufferTooSmall is returned when a string value does not fit in
	// the target buffer width.
	ErrBufferTooSmall = errors.New("datatype: value does not fit in target buffer")

	// ErrTokenCount is returned when an octet_string/unicode_string hex
	// token count does not match the target width.
	ErrTokenCount = errors.New("datatype: wrong number of hex tokens")
)
