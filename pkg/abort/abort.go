// Package abort defines the SDO-style abort/result codes carried in
// remote object-dictionary access responses. The code set and
// descriptions are the same ones used by the local SDO server/client,
// extended with OK as the unique success value.
package abort

import "fmt"

// Code is an SDO-style abort code. Code(OK) marks success; every other
// value is a negative result.
type Code uint32

const (
	OK                     Code = 0x00000000
	ToggleBit              Code = 0x05030000
	Timeout                Code = 0x05040000
	Cmd                    Code = 0x05040001
	BlockSize              Code = 0x05040002
	SeqNum                 Code = 0x05040003
	CRC                    Code = 0x05040004
	OutOfMem               Code = 0x05040005
	UnsupportedAccess      Code = 0x06010000
	WriteOnly              Code = 0x06010001
	ReadOnly               Code = 0x06010002
	NotExist               Code = 0x06020000
	NoMap                  Code = 0x06040041
	MapLen                 Code = 0x06040042
	ParamIncompat          Code = 0x06040043
	DeviceIncompat         Code = 0x06040047
	Hardware               Code = 0x06060000
	TypeMismatch           Code = 0x06070010
	DataLong               Code = 0x06070012
	DataShort              Code = 0x06070013
	SubUnknown             Code = 0x06090011
	InvalidValue           Code = 0x06090030
	ValueHigh              Code = 0x06090031
	ValueLow               Code = 0x06090032
	MaxLessMin             Code = 0x06090036
	NoResource             Code = 0x060A0023
	General                Code = 0x08000000
	DataTransfer           Code = 0x08000020
	DataLocalControl       Code = 0x08000021
	DataDeviceState        Code = 0x08000022
	DataOD                 Code = 0x08000023
	NoData                 Code = 0x08000024
	NotReady               Code = 0x08000030
)

var descriptions = map[Code]string{
	OK:                "success",
	ToggleBit:         "toggle bit not altered",
	Timeout:           "protocol timed out",
	Cmd:               "command specifier not valid or unknown",
	BlockSize:         "invalid block size in block mode",
	SeqNum:            "invalid sequence number in block mode",
	CRC:               "CRC error (block mode only)",
	OutOfMem:          "out of memory",
	UnsupportedAccess: "unsupported access to an object",
	WriteOnly:         "attempt to read a write only object",
	ReadOnly:          "attempt to write a read only object",
	NotExist:          "object does not exist in the object dictionary",
	NoMap:             "object cannot be mapped to the PDO",
	MapLen:            "number and length of objects to be mapped exceeds PDO length",
	ParamIncompat:     "general parameter incompatibility reasons",
	DeviceIncompat:    "general internal incompatibility in device",
	Hardware:          "access failed due to a hardware error",
	TypeMismatch:      "data type does not match, length does not match",
	DataLong:          "data type does not match, length too high",
	DataShort:         "data type does not match, length too short",
	SubUnknown:        "sub-index does not exist",
	InvalidValue:      "invalid value for parameter",
	ValueHigh:         "value range of parameter written too high",
	ValueLow:          "value range of parameter written too low",
	MaxLessMin:        "maximum value is less than minimum value",
	NoResource:        "resource not available",
	General:           "general error",
	DataTransfer:      "data cannot be transferred or stored to application",
	DataLocalControl:  "data cannot be transferred because of local control",
	DataDeviceState:   "data cannot be transferred because of the present device state",
	DataOD:            "object dictionary not present or dynamic generation failed",
	NoData:            "no data available",
	NotReady:          "remote object dictionary access interface is not ready",
}

// Description returns a short human-readable description of c, or
// "unknown abort code" if c is not part of the closed set this package
// defines.
func (c Code) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return "unknown abort code"
}

// Error implements the error interface so a Code can be returned and
// compared like any other Go error. OK.Error() still renders a string;
// callers must check c == OK explicitly, the same way they must check
// any other success/failure discriminator value.
func (c Code) Error() string {
	return fmt.Sprintf("0x%08X: %s", uint32(c), c.Description())
}

// String renders c the same way Error does, so Code satisfies
// fmt.Stringer for logging contexts that don't treat it as an error.
func (c Code) String() string {
	return c.Error()
}

// FromUint32 decodes a wire value strictly: unrecognized codes are
// rejected rather than silently mapped to a default, mirroring the
// strict decode used elsewhere when parsing abort codes off the wire.
func FromUint32(v uint32) (Code, error) {
	c := Code(v)
	if _, ok := descriptions[c]; !ok {
		return 0, fmt.Errorf("abort: unrecognized abort code 0x%08X", v)
	}
	return c, nil
}
