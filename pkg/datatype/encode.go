package datatype

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-roda/roda/pkg/bitio"
)

// Encode parses text and writes it to w as sizeInBit bits of t, the
// inverse of Decode. Integer literals accept an optional sign and 0x/0b
// prefixes; the parenthesized hex annotation Decode produces is not
// required and is ignored if present (only the leading decimal or
// prefixed literal is parsed).
func Encode(w *bitio.Writer, text string, sizeInBit int, t DataType) error {
	switch t {
	case Null:
		return nil

	case Boolean, BooleanNativeBit1:
		switch text {
		case "TRUE", "true", "True":
			w.WriteBits(1, 1)
			return nil
		case "FALSE", "false", "False":
			w.WriteBits(0, 1)
			return nil
		default:
			return ErrMalformed
		}

	case Bit1, Bit2, Bit3, Bit4, Bit5, Bit6, Bit7, Bit8:
		v, err := strconv.ParseUint(leadingLiteral(text), 0, 64)
		if err != nil {
			return ErrMalformed
		}
		if sizeInBit < 64 && v>>uint(sizeInBit) != 0 {
			return ErrOutOfRange
		}
		w.WriteBits(v, sizeInBit)
		return nil

	case Integer8:
		v, err := strconv.ParseInt(leadingLiteral(text), 0, 8)
		if err != nil {
			return ErrOutOfRange
		}
		w.WriteBits(uint64(uint8(int8(v))), 8)
		return nil
	case Integer16:
		v, err := strconv.ParseInt(leadingLiteral(text), 0, 16)
		if err != nil {
			return ErrOutOfRange
		}
		w.WriteBits(uint64(uint16(int16(v))), 16)
		return nil
	case Integer32:
		v, err := strconv.ParseInt(leadingLiteral(text), 0, 32)
		if err != nil {
			return ErrOutOfRange
		}
		w.WriteBits(uint64(uint32(int32(v))), 32)
		return nil
	case Integer64:
		v, err := strconv.ParseInt(leadingLiteral(text), 0, 64)
		if err != nil {
			return ErrOutOfRange
		}
		w.WriteBits(uint64(v), 64)
		return nil

	case Unsigned8:
		v, err := strconv.ParseUint(leadingLiteral(text), 0, 8)
		if err != nil {
			return ErrOutOfRange
		}
		w.WriteBits(v, 8)
		return nil
	case Unsigned16:
		v, err := strconv.ParseUint(leadingLiteral(text), 0, 16)
		if err != nil {
			return ErrOutOfRange
		}
		w.WriteBits(v, 16)
		return nil
	case Unsigned32:
		v, err := strconv.ParseUint(leadingLiteral(text), 0, 32)
		if err != nil {
			return ErrOutOfRange
		}
		w.WriteBits(v, 32)
		return nil
	case Unsigned64:
		v, err := strconv.ParseUint(leadingLiteral(text), 0, 64)
		if err != nil {
			return ErrOutOfRange
		}
		w.WriteBits(v, 64)
		return nil

	case Real32:
		if strings.Contains(text, ",") {
			return ErrMalformed
		}
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return ErrMalformed
		}
		w.WriteBits(uint64(math.Float32bits(float32(f))), 32)
		return nil
	case Real64:
		if strings.Contains(text, ",") {
			return ErrMalformed
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ErrMalformed
		}
		w.WriteBits(math.Float64bits(f), 64)
		return nil

	case VisibleString:
		n := sizeInBit / 8
		if n == 0 {
			return ErrZeroLength
		}
		unq, err := maybeUnquote(text)
		if err != nil {
			return ErrMalformed
		}
		if len(unq) == 0 {
			return ErrZeroLength
		}
		if len(unq) > n {
			return ErrBufferTooSmall
		}
		buf := make([]byte, n)
		copy(buf, unq)
		w.WriteBytes(buf)
		return nil

	case OctetString:
		n := sizeInBit / 8
		if n == 0 {
			return ErrZeroLength
		}
		toks := hexTokens(text)
		if len(toks) != n {
			return ErrTokenCount
		}
		buf := make([]byte, n)
		for i, tok := range toks {
			v, err := strconv.ParseUint(tok, 16, 8)
			if err != nil {
				return ErrMalformed
			}
			buf[i] = byte(v)
		}
		w.WriteBytes(buf)
		return nil

	case UnicodeString:
		nBytes := sizeInBit / 8
		if nBytes == 0 || nBytes%2 != 0 {
			return ErrZeroLength
		}
		nUnits := nBytes / 2
		toks := hexTokens(text)
		if len(toks) != nUnits {
			return ErrTokenCount
		}
		buf := make([]byte, nBytes)
		for i, tok := range toks {
			v, err := strconv.ParseUint(tok, 16, 16)
			if err != nil {
				return ErrMalformed
			}
			buf[2*i] = byte(v)
			buf[2*i+1] = byte(v >> 8)
		}
		w.WriteBytes(buf)
		return nil

	default:
		return ErrUnsupportedType
	}
}

// leadingLiteral strips the parenthesized hex annotation Decode appends
// ("123 (0x7B)"), leaving just the leading numeric literal for parsing.
func leadingLiteral(text string) string {
	if i := strings.IndexByte(text, ' '); i >= 0 {
		return text[:i]
	}
	return text
}

// maybeUnquote strips a surrounding pair of double quotes if present,
// otherwise returns text unchanged.
func maybeUnquote(text string) (string, error) {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		return strconv.Unquote(text)
	}
	return text, nil
}

// hexTokens splits text on whitespace and drops a leading "(hex)" marker
// if present.
func hexTokens(text string) []string {
	fields := strings.Fields(text)
	if len(fields) > 0 && fields[0] == "(hex)" {
		fields = fields[1:]
	}
	return fields
}
