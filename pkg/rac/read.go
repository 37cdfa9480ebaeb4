package rac

import (
	"fmt"

	"github.com/go-roda/roda/pkg/abort"
	"github.com/go-roda/roda/pkg/bitio"
)

// ReadRequest asks the server for the value of one subindex, or for a
// complete access spanning an entire object.
type ReadRequest struct {
	requestBase
	Access      AccessType
	Index       uint16
	Subindex    uint8
	Permissions Attributes
}

// NewReadRequest creates a read request for the given object/subindex.
func NewReadRequest(access AccessType, index uint16, subindex uint8, permissions Attributes, maxResponseSize uint32) *ReadRequest {
	return &ReadRequest{
		requestBase: newRequestBase(KindRead, maxResponseSize),
		Access:      access,
		Index:       index,
		Subindex:    subindex,
		Permissions: permissions,
	}
}

const readRequestPayloadSize = 1 + 2 + 1 + 2 // access, index, subindex, permissions

func (req *ReadRequest) BinarySize() int { return req.baseBinarySize() + readRequestPayloadSize }

func (req *ReadRequest) ToBinary() []byte {
	w := bitio.NewWriter()
	req.writeHeaderAndStack(w)
	w.WriteUint8(uint8(req.Access))
	w.WriteUint16(req.Index)
	w.WriteUint8(req.Subindex)
	w.WriteUint16(uint16(req.Permissions))
	return w.Bytes()
}

func (req *ReadRequest) String() string {
	return fmt.Sprintf("Read request: %04X:%02X (%s), %s", req.Index, req.Subindex, req.Access, fmtMaxResponseSize(req.maxResponseSize))
}

func newReadRequestFromBinary(h decodedRequestHeader, r *bitio.Reader) (*ReadRequest, error) {
	accessByte, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	access := AccessType(accessByte)
	if !isKnownAccessType(access) {
		return nil, newInvalidArgument("ReadRequest: unknown access type")
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
	return &ReadRequest{
		requestBase: requestBase{kind: KindRead, returnStack: h.returnStack, maxResponseSize: h.maxResponseSize},
		Access:      access,
		Index:       index,
		Subindex:    subindex,
		Permissions: Attributes(perm),
	}, nil
}

// ReadResponse carries the result of a read request, and on success the
// data read plus its exact bit length.
type ReadResponse struct {
	responseBase
	result    abort.Code
	data      []byte
	sizeInBit uint32
}

// NewReadResponse creates a response in the error state. result must not
// be abort.OK; use SetData to transition to success.
func NewReadResponse(result abort.Code) (*ReadResponse, error) {
	if result == abort.OK {
		return nil, newInvalidArgument("ReadResponse: negative result expected")
	}
	return &ReadResponse{responseBase: responseBase{kind: KindRead}, result: result}, nil
}

// SetError keeps the response in the error state with a new result.
// result must not be abort.OK. Any previously attached data is cleared.
func (resp *ReadResponse) SetError(result abort.Code) error {
	if result == abort.OK {
		return newInvalidArgument("ReadResponse.SetError: negative result expected")
	}
	resp.result = result
	resp.data = nil
	resp.sizeInBit = 0
	return nil
}

// SetData transitions the response to the success state, attaching data
// and its exact bit length. len(data) must equal ceil(sizeInBit/8).
func (resp *ReadResponse) SetData(data []byte, sizeInBit uint32) error {
	wantLen := int((sizeInBit + 7) / 8)
	if len(data) != wantLen {
		return newInvalidArgument("ReadResponse.SetData: data length does not match sizeInBit")
	}
	resp.result = abort.OK
	resp.data = data
	resp.sizeInBit = sizeInBit
	return nil
}

// Result returns the abort code of the operation.
func (resp *ReadResponse) Result() abort.Code { return resp.result }

// Data returns the read data and its bit length. Fails with a logic
// error if the result is not OK.
func (resp *ReadResponse) Data() ([]byte, uint32, error) {
	if resp.result != abort.OK {
		return nil, 0, newLogicError("ReadResponse.Data: result is not OK")
	}
	return resp.data, resp.sizeInBit, nil
}

// TakeData returns the read data and its bit length, and zeroes the
// response's own copy, mirroring the move-out semantics of the
// reference implementation. Fails with a logic error if the result is
// not OK.
func (resp *ReadResponse) TakeData() ([]byte, uint32, error) {
	data, sizeInBit, err := resp.Data()
	if err != nil {
		return nil, 0, err
	}
	resp.data = nil
	resp.sizeInBit = 0
	return data, sizeInBit, nil
}

func (resp *ReadResponse) BinarySize() int {
	s := resp.baseBinarySize() + 4
	if resp.result == abort.OK {
		s += 3 + len(resp.data)
	}
	return s
}

func (resp *ReadResponse) ToBinary() []byte {
	w := bitio.NewWriter()
	resp.writeHeaderAndStack(w)
	w.WriteUint32(uint32(resp.result))
	if resp.result == abort.OK {
		dataLen := len(resp.data)
		w.WriteUint16(uint16(dataLen))
		w.WriteUint8(bitsInLastByte(dataLen, resp.sizeInBit))
		w.WriteBytes(resp.data)
	}
	return w.Bytes()
}

// bitsInLastByte returns the number of valid bits in the last byte of a
// dataLen-byte buffer whose logical size is sizeInBit: 0 if dataLen is
// 0, else a value in [1,8].
func bitsInLastByte(dataLen int, sizeInBit uint32) uint8 {
	if dataLen == 0 {
		return 0
	}
	b := sizeInBit - uint32(dataLen-1)*8
	return uint8(b)
}

func (resp *ReadResponse) String() string {
	if resp.result != abort.OK {
		return fmt.Sprintf("Read response: %s", resp.result.Description())
	}
	return fmt.Sprintf("Read response: OK, %d bit", resp.sizeInBit)
}

func newReadResponseFromBinary(h decodedResponseHeader, r *bitio.Reader) (*ReadResponse, error) {
	resultU32, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	result, err := abort.FromUint32(resultU32)
	if err != nil {
		return nil, err
	}
	resp := &ReadResponse{responseBase: responseBase{kind: KindRead, returnStack: h.returnStack}, result: result}
	if result != abort.OK {
		return resp, nil
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
			return nil, newInvalidArgument("ReadResponse: bitsInLastByte must be 0 when dataLen is 0")
		}
	} else if bLast == 0 || bLast > 8 {
		return nil, newInvalidArgument("ReadResponse: bitsInLastByte out of range")
	}
	data, err := r.ReadBytesAligned(int(dataLen))
	if err != nil {
		return nil, err
	}
	resp.data = append([]byte(nil), data...)
	if dataLen == 0 {
		resp.sizeInBit = 0
	} else {
		resp.sizeInBit = uint32(dataLen-1)*8 + uint32(bLast)
	}
	return resp, nil
}
