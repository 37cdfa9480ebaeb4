package rac

import (
	"fmt"

	"github.com/go-roda/roda/pkg/abort"
	"github.com/go-roda/roda/pkg/bitio"
	"github.com/go-roda/roda/pkg/datatype"
)

// ObjectInfoRecord describes one subindex of an object: its data type,
// access attributes, maximum size in bit, and two optional fields only
// present when the originating request asked for them.
type ObjectInfoRecord struct {
	DataType     datatype.DataType
	Attributes   Attributes
	MaxSizeInBit uint32

	// Name is valid only if the request set InclNames.
	Name string

	// ASM (application-specific metadata) is valid only if the request
	// set InclASM.
	ASM []byte
}

// ObjectInfoRequest asks the server for per-subindex metadata of one
// object, over the subindex range [FirstSubIndex, LastSubIndex].
type ObjectInfoRequest struct {
	requestBase
	Index         uint16
	FirstSubIndex uint8
	LastSubIndex  uint8
	InclNames     bool
	InclASM       bool
}

// NewObjectInfoRequest creates an object info request.
func NewObjectInfoRequest(index uint16, firstSubIndex, lastSubIndex uint8, inclNames, inclASM bool, maxResponseSize uint32) *ObjectInfoRequest {
	return &ObjectInfoRequest{
		requestBase:   newRequestBase(KindObjectInfo, maxResponseSize),
		Index:         index,
		FirstSubIndex: firstSubIndex,
		LastSubIndex:  lastSubIndex,
		InclNames:     inclNames,
		InclASM:       inclASM,
	}
}

func (req *ObjectInfoRequest) BinarySize() int { return req.baseBinarySize() + 5 }

func (req *ObjectInfoRequest) ToBinary() []byte {
	w := bitio.NewWriter()
	req.writeHeaderAndStack(w)
	w.WriteUint16(req.Index)
	w.WriteUint8(req.FirstSubIndex)
	w.WriteUint8(req.LastSubIndex)
	w.WriteBool(req.InclNames)
	w.WriteBool(req.InclASM)
	w.AlignToByte()
	return w.Bytes()
}

func (req *ObjectInfoRequest) String() string {
	return fmt.Sprintf("Object info request: %04X, sub %d..%d, %s", req.Index, req.FirstSubIndex, req.LastSubIndex, fmtMaxResponseSize(req.maxResponseSize))
}

func newObjectInfoRequestFromBinary(h decodedRequestHeader, r *bitio.Reader) (*ObjectInfoRequest, error) {
	index, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	first, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	last, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	inclNames, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	inclASM, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	r.AlignToByte()
	return &ObjectInfoRequest{
		requestBase:   requestBase{kind: KindObjectInfo, returnStack: h.returnStack, maxResponseSize: h.maxResponseSize},
		Index:         index,
		FirstSubIndex: first,
		LastSubIndex:  last,
		InclNames:     inclNames,
		InclASM:       inclASM,
	}, nil
}

// ObjectInfoResponse carries the result of an object info request and,
// on success, a contiguous run of per-subindex records starting at
// FirstSubIndex, plus a flag indicating whether the run reaches the
// requested last subindex (or the end of the object) or needs further
// fragments.
type ObjectInfoResponse struct {
	responseBase
	result        abort.Code
	firstSubIndex uint8
	inclNames     bool
	inclASM       bool
	complete      bool
	records       []ObjectInfoRecord
}

// NewObjectInfoResponse creates a response in the error state. result
// must not be abort.OK; use SetData to transition to success.
func NewObjectInfoResponse(result abort.Code) (*ObjectInfoResponse, error) {
	if result == abort.OK {
		return nil, newInvalidArgument("ObjectInfoResponse: negative result expected")
	}
	return &ObjectInfoResponse{responseBase: responseBase{kind: KindObjectInfo}, result: result}, nil
}

// SetError puts the response into the error state and discards any
// attached records.
func (resp *ObjectInfoResponse) SetError(result abort.Code) error {
	if result == abort.OK {
		return newInvalidArgument("ObjectInfoResponse.SetError: negative result expected")
	}
	resp.result = result
	resp.records = nil
	resp.complete = false
	return nil
}

// SetData transitions the response to the success state with a run of
// records starting at firstSubIndex.
func (resp *ObjectInfoResponse) SetData(firstSubIndex uint8, inclNames, inclASM bool, records []ObjectInfoRecord, complete bool) error {
	if !complete && len(records) == 0 {
		return newInvalidArgument("ObjectInfoResponse.SetData: incomplete but no records")
	}
	if int(firstSubIndex)+len(records) > 256 {
		return newInvalidArgument("ObjectInfoResponse.SetData: record run exceeds subindex range")
	}
	resp.firstSubIndex = firstSubIndex
	resp.inclNames = inclNames
	resp.inclASM = inclASM
	resp.records = records
	resp.complete = complete
	resp.result = abort.OK
	return nil
}

// Result returns the abort code of the operation.
func (resp *ObjectInfoResponse) Result() abort.Code { return resp.result }

// FirstSubIndex returns the first subindex covered by Records.
func (resp *ObjectInfoResponse) FirstSubIndex() uint8 { return resp.firstSubIndex }

// Records returns the per-subindex records. Fails with a logic error if
// the result is not OK.
func (resp *ObjectInfoResponse) Records() ([]ObjectInfoRecord, error) {
	if resp.result != abort.OK {
		return nil, newLogicError("ObjectInfoResponse.Records: request failed")
	}
	return resp.records, nil
}

// IsComplete reports whether the record run is complete. If it is not,
// and nextSubIndex is non-nil, the subindex a continuation request
// should start at is written into *nextSubIndex.
func (resp *ObjectInfoResponse) IsComplete(nextSubIndex *uint8) (bool, error) {
	if resp.result != abort.OK {
		return false, newLogicError("ObjectInfoResponse.IsComplete: request failed")
	}
	if !resp.complete {
		if len(resp.records) == 0 {
			return false, newLogicError("ObjectInfoResponse.IsComplete: no records")
		}
		next := int(resp.firstSubIndex) + len(resp.records)
		if next > 255 {
			return false, newLogicError("ObjectInfoResponse.IsComplete: next subindex overflows")
		}
		if nextSubIndex != nil {
			*nextSubIndex = uint8(next)
		}
	}
	return resp.complete, nil
}

// AddFragment appends a continuation fragment's records onto this
// response, the accumulator of a fragmented object-info transfer. On
// failure the accumulator is left unmodified.
func (resp *ObjectInfoResponse) AddFragment(fragment *ObjectInfoResponse) error {
	if resp.result != abort.OK {
		return newLogicError("ObjectInfoResponse.AddFragment: request failed")
	}
	if resp.complete {
		return newLogicError("ObjectInfoResponse.AddFragment: already complete")
	}
	if fragment.result != abort.OK {
		return newInvalidArgument("ObjectInfoResponse.AddFragment: fragment contains bad result")
	}
	wantFirst := int(resp.firstSubIndex) + len(resp.records)
	if int(fragment.firstSubIndex) != wantFirst {
		return newInvalidArgument("ObjectInfoResponse.AddFragment: discontinuity")
	}
	merged := make([]ObjectInfoRecord, 0, len(resp.records)+len(fragment.records))
	merged = append(merged, resp.records...)
	merged = append(merged, fragment.records...)
	resp.records = merged
	resp.complete = fragment.complete
	return nil
}

func (resp *ObjectInfoResponse) BinarySize() int {
	s := resp.baseBinarySize() + 4
	if resp.result != abort.OK {
		return s
	}
	s += 1 + 1 + 2 // firstSubIndex, flags byte, recordCount
	for _, rec := range resp.records {
		s += objectInfoRecordSize(rec, resp.inclNames, resp.inclASM)
	}
	return s
}

// objectInfoResponseFixedSize is the serialized size, in bytes, of an
// ObjectInfoResponse's own fixed payload fields on the success path:
// result (4) + firstSubIndex (1) + flags byte (1) + recordCount (2),
// excluding the records themselves.
const objectInfoResponseFixedSize = 4 + 1 + 1 + 2

// CalcMaxObjectInfoPayload returns the largest number of record bytes a
// server may attach to an ObjectInfoResponse while keeping the
// serialized response within maxResponseSize, given a return stack of
// returnStackSize bytes. It subtracts the base header and
// ObjectInfoResponse's own fixed fields, the same treatment
// CalcMaxNbOfIndices gives ObjectEnumResponse's fixed fields. Returns 0
// if the budget does not even cover that overhead.
func CalcMaxObjectInfoPayload(maxResponseSize, returnStackSize uint32) uint32 {
	overhead := uint32(baseBinarySize+objectInfoResponseFixedSize) + returnStackSize
	if maxResponseSize <= overhead {
		return 0
	}
	return maxResponseSize - overhead
}

func objectInfoRecordSize(rec ObjectInfoRecord, inclNames, inclASM bool) int {
	s := 2 + 2 + 4 // dataType, attributes, maxSizeInBit
	if inclNames {
		s += 2 + len(rec.Name)
	}
	if inclASM {
		s += 2 + len(rec.ASM)
	}
	return s
}

func (resp *ObjectInfoResponse) ToBinary() []byte {
	w := bitio.NewWriter()
	resp.writeHeaderAndStack(w)
	w.WriteUint32(uint32(resp.result))
	if resp.result != abort.OK {
		return w.Bytes()
	}
	w.WriteUint8(resp.firstSubIndex)
	w.WriteBool(resp.inclNames)
	w.WriteBool(resp.inclASM)
	w.WriteBool(resp.complete)
	w.AlignToByte()
	w.WriteUint16(uint16(len(resp.records)))
	for _, rec := range resp.records {
		w.WriteUint16(uint16(rec.DataType))
		w.WriteUint16(uint16(rec.Attributes))
		w.WriteUint32(rec.MaxSizeInBit)
		if resp.inclNames {
			w.WriteUint16(uint16(len(rec.Name)))
			w.WriteBytes([]byte(rec.Name))
		}
		if resp.inclASM {
			w.WriteUint16(uint16(len(rec.ASM)))
			w.WriteBytes(rec.ASM)
		}
	}
	return w.Bytes()
}

func (resp *ObjectInfoResponse) String() string {
	if resp.result != abort.OK {
		return fmt.Sprintf("Object info response: %s", resp.result.Description())
	}
	state := "complete"
	if !resp.complete {
		state = "not complete"
	}
	return fmt.Sprintf("Object info response: OK, sub %d.., %s, %d records", resp.firstSubIndex, state, len(resp.records))
}

func newObjectInfoResponseFromBinary(h decodedResponseHeader, r *bitio.Reader) (*ObjectInfoResponse, error) {
	resultU32, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	result, err := abort.FromUint32(resultU32)
	if err != nil {
		return nil, err
	}
	resp := &ObjectInfoResponse{responseBase: responseBase{kind: KindObjectInfo, returnStack: h.returnStack}, result: result}
	if result != abort.OK {
		return resp, nil
	}
	firstSubIndex, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	inclNames, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	inclASM, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	complete, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	r.AlignToByte()
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	if !complete && count == 0 {
		return nil, newInvalidArgument("ObjectInfoResponse: no records but incomplete")
	}
	records := make([]ObjectInfoRecord, 0, count)
	for i := uint16(0); i < count; i++ {
		dt, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		attr, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		maxSize, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		rec := ObjectInfoRecord{DataType: datatype.DataType(dt), Attributes: Attributes(attr), MaxSizeInBit: maxSize}
		if inclNames {
			nameLen, err := r.ReadUint16()
			if err != nil {
				return nil, err
			}
			nameBytes, err := r.ReadBytesAligned(int(nameLen))
			if err != nil {
				return nil, err
			}
			rec.Name = string(nameBytes)
		}
		if inclASM {
			asmLen, err := r.ReadUint16()
			if err != nil {
				return nil, err
			}
			asmBytes, err := r.ReadBytesAligned(int(asmLen))
			if err != nil {
				return nil, err
			}
			rec.ASM = append([]byte(nil), asmBytes...)
		}
		records = append(records, rec)
	}
	resp.firstSubIndex = firstSubIndex
	resp.inclNames = inclNames
	resp.inclASM = inclASM
	resp.complete = complete
	resp.records = records
	return resp, nil
}
