package datatype

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-roda/roda/pkg/bitio"
)

// Decode reads sizeInBit bits from r and renders them as text, following
// the textual conventions of the reference CANopen tooling: unsigned
// integers carry a parenthesized hex rendering, signed integers render
// as plain decimal, bitN values print as binary literals, strings are
// quoted or hex-dumped.
//
// Decode does not rewind r on failure; on error the caller must build a
// fresh Reader to retry (the stream's position is otherwise undefined).
func Decode(r *bitio.Reader, sizeInBit int, t DataType) (string, error) {
	canonical := t // alternative types share the true type's wire form and text rendering
	switch canonical {
	case Null:
		return "", nil

	case Boolean, BooleanNativeBit1:
		bit, err := r.ReadBits(1)
		if err != nil {
			return "", err
		}
		if bit != 0 {
			return "TRUE", nil
		}
		return "FALSE", nil

	case Bit1, Bit2, Bit3, Bit4, Bit5, Bit6, Bit7, Bit8:
		v, err := r.ReadBits(sizeInBit)
		if err != nil {
			return "", err
		}
		return "0b" + binaryString(v, sizeInBit), nil

	case Integer8:
		v, err := r.ReadBits(8)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(int64(int8(v)), 10), nil
	case Integer16:
		v, err := r.ReadBits(16)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(int64(int16(v)), 10), nil
	case Integer32:
		v, err := r.ReadBits(32)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(int64(int32(v)), 10), nil
	case Integer64:
		v, err := r.ReadBits(64)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(int64(v), 10), nil

	case Unsigned8:
		v, err := r.ReadBits(8)
		if err != nil {
			return "", err
		}
		return decodeUnsignedHex(v, 2), nil
	case Unsigned16:
		v, err := r.ReadBits(16)
		if err != nil {
			return "", err
		}
		return decodeUnsignedHex(v, 4), nil
	case Unsigned32:
		v, err := r.ReadBits(32)
		if err != nil {
			return "", err
		}
		return decodeUnsignedHex(v, 8), nil
	case Unsigned64:
		v, err := r.ReadBits(64)
		if err != nil {
			return "", err
		}
		return decodeUint64Hex(v), nil

	case Real32:
		v, err := r.ReadBits(32)
		if err != nil {
			return "", err
		}
		f := math.Float32frombits(uint32(v))
		return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
	case Real64:
		v, err := r.ReadBits(64)
		if err != nil {
			return "", err
		}
		f := math.Float64frombits(v)
		return strconv.FormatFloat(f, 'g', -1, 64), nil

	case VisibleString:
		n := (sizeInBit + 7) / 8
		b, err := r.ReadBytesAligned(n)
		if err != nil {
			return "", err
		}
		end := len(b)
		for i, c := range b {
			if c == 0 {
				end = i
				break
			}
		}
		return strconv.Quote(string(b[:end])), nil

	case OctetString:
		n := (sizeInBit + 7) / 8
		if n == 0 {
			return "", ErrZeroLength
		}
		b, err := r.ReadBytesAligned(n)
		if err != nil {
			return "", err
		}
		parts := make([]string, len(b))
		for i, c := range b {
			parts[i] = fmt.Sprintf("%02X", c)
		}
		return "(hex) " + strings.Join(parts, " "), nil

	case UnicodeString:
		nBytes := (sizeInBit + 7) / 8
		if nBytes == 0 {
			return "", ErrZeroLength
		}
		b, err := r.ReadBytesAligned(nBytes)
		if err != nil {
			return "", err
		}
		nUnits := len(b) / 2
		parts := make([]string, nUnits)
		for i := 0; i < nUnits; i++ {
			unit := uint16(b[2*i]) | uint16(b[2*i+1])<<8
			parts[i] = fmt.Sprintf("%04X", unit)
		}
		return "(hex) " + strings.Join(parts, " "), nil

	default:
		return "", ErrUnsupportedType
	}
}

func binaryString(v uint64, n int) string {
	s := strconv.FormatUint(v, 2)
	if len(s) < n {
		s = strings.Repeat("0", n-len(s)) + s
	}
	return s
}

func decodeUnsignedHex(v uint64, hexDigits int) string {
	return fmt.Sprintf("%d (0x%0*X)", v, hexDigits, v)
}

// decodeUint64Hex renders a 64-bit unsigned value with the hex part split
// into high/low 32-bit groups.
func decodeUint64Hex(v uint64) string {
	hi := uint32(v >> 32)
	lo := uint32(v)
	return fmt.Sprintf("%d (0x%08X.%08X)", v, hi, lo)
}
