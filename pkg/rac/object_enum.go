package rac

import (
	"fmt"

	"github.com/go-roda/roda/pkg/abort"
	"github.com/go-roda/roda/pkg/bitio"
)

// maxNbOfIndices is the largest number of indices an ObjectEnumResponse
// can ever carry; a 16-bit index space has exactly this many values.
const maxNbOfIndices = 65536

// objectEnumResponseFixedSize is the serialized size, in bytes, of an
// ObjectEnumResponse with result OK, excluding the base header and the
// indices themselves: 4 bytes for the result plus 3 bytes for the
// complete flag, the indices-count MSB flag, and the 16-bit low count.
const objectEnumResponseFixedSize = 4 + 3

// ObjectEnumRequest asks the server to enumerate object indices in
// [FirstIndex, LastIndex] whose attributes match AttrFilter.
type ObjectEnumRequest struct {
	requestBase
	FirstIndex uint16
	LastIndex  uint16
	AttrFilter Attributes
}

// NewObjectEnumRequest creates an object enumeration request.
func NewObjectEnumRequest(firstIndex, lastIndex uint16, attrFilter Attributes, maxResponseSize uint32) *ObjectEnumRequest {
	return &ObjectEnumRequest{
		requestBase: newRequestBase(KindObjectEnum, maxResponseSize),
		FirstIndex:  firstIndex,
		LastIndex:   lastIndex,
		AttrFilter:  attrFilter,
	}
}

func (req *ObjectEnumRequest) BinarySize() int { return req.baseBinarySize() + 6 }

func (req *ObjectEnumRequest) ToBinary() []byte {
	w := bitio.NewWriter()
	req.writeHeaderAndStack(w)
	w.WriteUint16(req.FirstIndex)
	w.WriteUint16(req.LastIndex)
	w.WriteUint16(uint16(req.AttrFilter))
	return w.Bytes()
}

func (req *ObjectEnumRequest) String() string {
	return fmt.Sprintf("Object enum request: %04X..%04X, filter 0x%04X, %s", req.FirstIndex, req.LastIndex, req.AttrFilter, fmtMaxResponseSize(req.maxResponseSize))
}

func newObjectEnumRequestFromBinary(h decodedRequestHeader, r *bitio.Reader) (*ObjectEnumRequest, error) {
	first, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	last, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	filter, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	return &ObjectEnumRequest{
		requestBase: requestBase{kind: KindObjectEnum, returnStack: h.returnStack, maxResponseSize: h.maxResponseSize},
		FirstIndex:  first,
		LastIndex:   last,
		AttrFilter:  Attributes(filter),
	}, nil
}

// ObjectEnumResponse carries the result of an object enumeration request
// and, on success, a sorted list of matching indices plus a flag
// indicating whether the list is complete or needs further fragments.
type ObjectEnumResponse struct {
	responseBase
	result   abort.Code
	complete bool
	indices  []uint16
}

// NewObjectEnumResponse creates a response in the error state. result
// must not be abort.OK; use SetData to transition to success.
func NewObjectEnumResponse(result abort.Code) (*ObjectEnumResponse, error) {
	if result == abort.OK {
		return nil, newInvalidArgument("ObjectEnumResponse: negative result expected")
	}
	return &ObjectEnumResponse{responseBase: responseBase{kind: KindObjectEnum}, result: result}, nil
}

// CalcMaxNbOfIndices returns the maximum number of indices that can be
// attached to an ObjectEnumResponse while keeping the serialized
// response within maxResponseSize, given a return stack of
// returnStackSize bytes.
func CalcMaxNbOfIndices(maxResponseSize, returnStackSize uint32) uint32 {
	overhead := uint32(baseBinarySize+objectEnumResponseFixedSize) + returnStackSize
	if maxResponseSize <= overhead {
		return 0
	}
	n := (maxResponseSize - overhead) / 2
	if n > maxNbOfIndices {
		n = maxNbOfIndices
	}
	return n
}

// SetError puts the response into the error state and discards any
// attached indices. result must not be abort.OK.
func (resp *ObjectEnumResponse) SetError(result abort.Code) error {
	if result == abort.OK {
		return newInvalidArgument("ObjectEnumResponse.SetError: negative result expected")
	}
	resp.result = result
	resp.indices = nil
	resp.complete = false
	return nil
}

// SetData transitions the response to the success state with the given
// sorted indices and completion flag.
func (resp *ObjectEnumResponse) SetData(indices []uint16, complete bool) error {
	if len(indices) > maxNbOfIndices {
		return newInvalidArgument("ObjectEnumResponse.SetData: too many indices")
	}
	if !complete {
		if len(indices) == 0 {
			return newInvalidArgument("ObjectEnumResponse.SetData: incomplete but no indices")
		}
		if indices[len(indices)-1] == 0xFFFF {
			return newInvalidArgument("ObjectEnumResponse.SetData: incomplete but 0xFFFF included")
		}
		if len(indices) == maxNbOfIndices {
			return newInvalidArgument("ObjectEnumResponse.SetData: incomplete but all indices included")
		}
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] <= indices[i-1] {
			return newInvalidArgument("ObjectEnumResponse.SetData: indices not strictly ascending")
		}
	}
	resp.indices = indices
	resp.complete = complete
	resp.result = abort.OK
	return nil
}

// Result returns the abort code of the operation.
func (resp *ObjectEnumResponse) Result() abort.Code { return resp.result }

// IsComplete reports whether the enumeration is complete. If it is not,
// and nextIndex is non-nil, the index a continuation request should
// start at is written into *nextIndex. Fails with a logic error if the
// result is not OK or the response has no indices while claiming to be
// incomplete.
func (resp *ObjectEnumResponse) IsComplete(nextIndex *uint16) (bool, error) {
	if resp.result != abort.OK {
		return false, newLogicError("ObjectEnumResponse.IsComplete: enumeration failed")
	}
	if !resp.complete {
		if len(resp.indices) == 0 {
			return false, newLogicError("ObjectEnumResponse.IsComplete: no indices")
		}
		if nextIndex != nil {
			n := uint32(resp.indices[len(resp.indices)-1]) + 1
			if n > 0xFFFF {
				return false, newLogicError("ObjectEnumResponse.IsComplete: next index overflows")
			}
			*nextIndex = uint16(n)
		}
	}
	return resp.complete, nil
}

// AddFragment appends a continuation fragment's indices onto this
// response, the accumulator of a fragmented enumeration transfer. On
// failure the accumulator is left unmodified.
func (resp *ObjectEnumResponse) AddFragment(fragment *ObjectEnumResponse) error {
	if resp.result != abort.OK {
		return newLogicError("ObjectEnumResponse.AddFragment: enumeration failed")
	}
	if resp.complete {
		return newLogicError("ObjectEnumResponse.AddFragment: already complete")
	}
	if fragment.result != abort.OK {
		return newInvalidArgument("ObjectEnumResponse.AddFragment: fragment contains bad result")
	}
	if len(resp.indices) > 0 && len(fragment.indices) > 0 && resp.indices[len(resp.indices)-1] >= fragment.indices[0] {
		return newInvalidArgument("ObjectEnumResponse.AddFragment: discontinuity")
	}
	newSize := len(resp.indices) + len(fragment.indices)
	if newSize > maxNbOfIndices {
		return newLogicError("ObjectEnumResponse.AddFragment: too many indices")
	}
	merged := make([]uint16, 0, newSize)
	merged = append(merged, resp.indices...)
	merged = append(merged, fragment.indices...)
	resp.indices = merged
	resp.complete = fragment.complete
	return nil
}

// Indices returns the enumerated indices. Fails with a logic error if
// the result is not OK.
func (resp *ObjectEnumResponse) Indices() ([]uint16, error) {
	if resp.result != abort.OK {
		return nil, newLogicError("ObjectEnumResponse.Indices: enumeration failed")
	}
	return resp.indices, nil
}

func (resp *ObjectEnumResponse) BinarySize() int {
	s := resp.baseBinarySize() + 4
	if resp.result == abort.OK {
		s += 3 + len(resp.indices)*2
	}
	return s
}

func (resp *ObjectEnumResponse) ToBinary() []byte {
	w := bitio.NewWriter()
	resp.writeHeaderAndStack(w)
	w.WriteUint32(uint32(resp.result))
	if resp.result == abort.OK {
		count := len(resp.indices)
		w.WriteBool(resp.complete)
		w.WriteBool(count&0x10000 != 0)
		w.AlignToByte()
		w.WriteUint16(uint16(count & 0xFFFF))
		for _, idx := range resp.indices {
			w.WriteUint16(idx)
		}
	}
	return w.Bytes()
}

func (resp *ObjectEnumResponse) String() string {
	if resp.result != abort.OK {
		return fmt.Sprintf("Object enum response: %s", resp.result.Description())
	}
	state := "complete"
	if !resp.complete {
		state = "not complete"
	}
	return fmt.Sprintf("Object enum response: OK, %s, %d indices", state, len(resp.indices))
}

func newObjectEnumResponseFromBinary(h decodedResponseHeader, r *bitio.Reader) (*ObjectEnumResponse, error) {
	resultU32, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	result, err := abort.FromUint32(resultU32)
	if err != nil {
		return nil, err
	}
	resp := &ObjectEnumResponse{responseBase: responseBase{kind: KindObjectEnum, returnStack: h.returnStack}, result: result}
	if result != abort.OK {
		return resp, nil
	}
	complete, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	msb, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(6); err != nil {
		return nil, err
	}
	lowCount, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	count := uint32(lowCount)
	if msb {
		count |= 1 << 16
	}
	if count > maxNbOfIndices {
		return nil, newInvalidArgument("ObjectEnumResponse: indices count exceeds capacity")
	}
	if count == maxNbOfIndices && !complete {
		return nil, newInvalidArgument("ObjectEnumResponse: maximum count requires complete=true")
	}
	if count == 0 {
		if !complete {
			return nil, newInvalidArgument("ObjectEnumResponse: no indices but incomplete")
		}
		resp.complete = true
		return resp, nil
	}
	indices := make([]uint16, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		if len(indices) > 0 && v <= indices[len(indices)-1] {
			return nil, newInvalidArgument("ObjectEnumResponse: indices not strictly ascending")
		}
		indices = append(indices, v)
	}
	if !complete && indices[len(indices)-1] == 0xFFFF {
		return nil, newInvalidArgument("ObjectEnumResponse: incomplete but last index is 0xFFFF")
	}
	resp.indices = indices
	resp.complete = complete
	return resp, nil
}
