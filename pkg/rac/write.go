package rac

import (
	"fmt"

	"github.com/go-roda/roda/pkg/abort"
	"github.com/go-roda/roda/pkg/bitio"
)

// WriteRequest asks the server to store data into one subindex, or into
// an entire object via complete access. The data buffer is owned by the
// request once constructed; TakeData zeroes it out.
type WriteRequest struct {
	requestBase
	Access      AccessType
	Index       uint16
	Subindex    uint8
	Permissions Attributes
	data        []byte
	sizeInBit   uint32
}

// NewWriteRequest creates a write request. len(data) must equal
// ceil(sizeInBit/8).
func NewWriteRequest(access AccessType, index uint16, subindex uint8, permissions Attributes, data []byte, sizeInBit uint32, maxResponseSize uint32) (*WriteRequest, error) {
	wantLen := int((sizeInBit + 7) / 8)
	if len(data) != wantLen {
		return nil, newInvalidArgument("WriteRequest: data length does not match sizeInBit")
	}
	return &WriteRequest{
		requestBase: newRequestBase(KindWrite, maxResponseSize),
		Access:      access,
		Index:       index,
		Subindex:    subindex,
		Permissions: permissions,
		data:        data,
		sizeInBit:   sizeInBit,
	}, nil
}

// Data returns the request's data and bit length.
func (req *WriteRequest) Data() ([]byte, uint32) { return req.data, req.sizeInBit }

// TakeData returns the request's data and bit length, zeroing the
// request's own copy.
func (req *WriteRequest) TakeData() ([]byte, uint32) {
	data, sizeInBit := req.data, req.sizeInBit
	req.data, req.sizeInBit = nil, 0
	return data, sizeInBit
}

const writeRequestFixedPayloadSize = 1 + 2 + 1 + 2 + 2 + 1 // access, index, subindex, permissions, dataLen, bitsInLastByte

func (req *WriteRequest) BinarySize() int {
	return req.baseBinarySize() + writeRequestFixedPayloadSize + len(req.data)
}

func (req *WriteRequest) ToBinary() []byte {
	w := bitio.NewWriter()
	req.writeHeaderAndStack(w)
	w.WriteUint8(uint8(req.Access))
	w.WriteUint16(req.Index)
	w.WriteUint8(req.Subindex)
	w.WriteUint16(uint16(req.Permissions))
	w.WriteUint16(uint16(len(req.data)))
	w.WriteUint8(bitsInLastByte(len(req.data), req.sizeInBit))
	w.WriteBytes(req.data)
	return w.Bytes()
}

func (req *WriteRequest) String() string {
	return fmt.Sprintf("Write request: %04X:%02X (%s), %d bit, %s", req.Index, req.Subindex, req.Access, req.sizeInBit, fmtMaxResponseSize(req.maxResponseSize))
}

func newWriteRequestFromBinary(h decodedRequestHeader, r *bitio.Reader) (*WriteRequest, error) {
	accessByte, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	access := AccessType(accessByte)
	if !isKnownAccessType(access) {
		return nil, newInvalidArgument("WriteRequest: unknown access type")
	}
	index, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	subindex, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	perm, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	dataLen, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	bLast, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	if dataLen == 0 {
		if bLast != 0 {
			return nil, newInvalidArgument("WriteRequest: bitsInLastByte must be 0 when dataLen is 0")
		}
	} else if bLast == 0 || bLast > 8 {
		return nil, newInvalidArgument("WriteRequest: bitsInLastByte out of range")
	}
	data, err := r.ReadBytesAligned(int(dataLen))
	if err != nil {
		return nil, err
	}
	var sizeInBit uint32
	if dataLen != 0 {
		sizeInBit = uint32(dataLen-1)*8 + uint32(bLast)
	}
	return &WriteRequest{
		requestBase: requestBase{kind: KindWrite, returnStack: h.returnStack, maxResponseSize: h.maxResponseSize},
		Access:      access,
		Index:       index,
		Subindex:    subindex,
		Permissions: Attributes(perm),
		data:        append([]byte(nil), data...),
		sizeInBit:   sizeInBit,
	}, nil
}

// WriteResponse carries only the result of a write request.
type WriteResponse struct {
	responseBase
	result abort.Code
}

// NewWriteResponse creates a write response with the given result.
func NewWriteResponse(result abort.Code, rs ReturnStack) *WriteResponse {
	return &WriteResponse{responseBase: newResponseBase(KindWrite, rs), result: result}
}

// SetResult updates the encapsulated result.
func (resp *WriteResponse) SetResult(result abort.Code) { resp.result = result }

// Result returns the abort code of the operation.
func (resp *WriteResponse) Result() abort.Code { return resp.result }

func (resp *WriteResponse) BinarySize() int { return resp.baseBinarySize() + 4 }

func (resp *WriteResponse) ToBinary() []byte {
	w := bitio.NewWriter()
	resp.writeHeaderAndStack(w)
	w.WriteUint32(uint32(resp.result))
	return w.Bytes()
}

func (resp *WriteResponse) String() string {
	return fmt.Sprintf("Write response: %s", resp.result.Description())
}

func newWriteResponseFromBinary(h decodedResponseHeader, r *bitio.Reader) (*WriteResponse, error) {
	resultU32, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	result, err := abort.FromUint32(resultU32)
	if err != nil {
		return nil, err
	}
	return &WriteResponse{responseBase: responseBase{kind: KindWrite, returnStack: h.returnStack}, result: result}, nil
}
