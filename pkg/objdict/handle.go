package objdict

import (
	"github.com/go-roda/roda/pkg/abort"
	"github.com/go-roda/roda/pkg/rac"
	log "github.com/sirupsen/logrus"
)

// Handle dispatches a decoded request to the matching handler and
// returns the response, with the request's return stack moved onto it
// verbatim (spec.md §3.6/§4.2.4): the server never inspects or mutates
// routing tokens, only relays them.
func (s *Store) Handle(req rac.Request) rac.Response {
	var resp rac.Response
	switch r := req.(type) {
	case *rac.PingRequest:
		resp = s.handlePing(r)
	case *rac.ReadRequest:
		resp = s.handleRead(r)
	case *rac.WriteRequest:
		resp = s.handleWrite(r)
	case *rac.ObjectEnumRequest:
		resp = s.handleObjectEnum(r)
	case *rac.ObjectInfoRequest:
		resp = s.handleObjectInfo(r)
	default:
		log.Warnf("objdict: unhandled request kind %s", req.Kind())
		return nil
	}
	resp.ReturnStack().SetReturnStack(req.ReturnStack().Items())
	return resp
}

func (s *Store) handlePing(r *rac.PingRequest) rac.Response {
	return rac.NewPingResponse(rac.ReturnStack{})
}

func (s *Store) handleRead(r *rac.ReadRequest) rac.Response {
	if r.Access != rac.SingleSubindex {
		resp, _ := rac.NewReadResponse(abort.UnsupportedAccess)
		return resp
	}
	obj, ok := s.Get(r.Index, r.Subindex)
	if !ok {
		resp, _ := rac.NewReadResponse(abort.NotExist)
		return resp
	}
	if obj.Attributes&rac.AttrRead == 0 {
		resp, _ := rac.NewReadResponse(abort.WriteOnly)
		return resp
	}
	resp, _ := rac.NewReadResponse(abort.General)
	if err := resp.SetData(obj.Data, obj.SizeInBit); err != nil {
		log.Errorf("objdict: bad stored data for %04X:%02X: %v", r.Index, r.Subindex, err)
		resp, _ = rac.NewReadResponse(abort.General)
		return resp
	}
	return resp
}

func (s *Store) handleWrite(r *rac.WriteRequest) rac.Response {
	if r.Access != rac.SingleSubindex {
		return rac.NewWriteResponse(abort.UnsupportedAccess, rac.ReturnStack{})
	}
	obj, ok := s.Get(r.Index, r.Subindex)
	if !ok {
		return rac.NewWriteResponse(abort.NotExist, rac.ReturnStack{})
	}
	if obj.Attributes&rac.AttrWrite == 0 {
		return rac.NewWriteResponse(abort.ReadOnly, rac.ReturnStack{})
	}
	data, sizeInBit := r.Data()
	obj.Data = append([]byte(nil), data...)
	obj.SizeInBit = sizeInBit
	log.Debugf("objdict: wrote %04X:%02X, %d bit", r.Index, r.Subindex, sizeInBit)
	return rac.NewWriteResponse(abort.OK, rac.ReturnStack{})
}

func (s *Store) handleObjectEnum(r *rac.ObjectEnumRequest) rac.Response {
	matching := s.Indices(r.AttrFilter)
	start := 0
	for start < len(matching) && matching[start] < r.FirstIndex {
		start++
	}
	end := start
	for end < len(matching) && matching[end] <= r.LastIndex {
		end++
	}
	candidates := matching[start:end]

	returnStackSize := uint32(r.ReturnStack().BinarySize())
	maxN := rac.CalcMaxNbOfIndices(r.MaxResponseSize(), returnStackSize)

	resp, _ := rac.NewObjectEnumResponse(abort.General)
	if maxN == 0 && len(candidates) > 0 {
		resp, _ = rac.NewObjectEnumResponse(abort.NoResource)
		return resp
	}
	page := candidates
	complete := true
	if uint32(len(candidates)) > maxN {
		page = candidates[:maxN]
		complete = false
	}
	if err := resp.SetData(page, complete); err != nil {
		log.Errorf("objdict: object enum SetData failed: %v", err)
		resp, _ = rac.NewObjectEnumResponse(abort.General)
		return resp
	}
	return resp
}

func (s *Store) handleObjectInfo(r *rac.ObjectInfoRequest) rac.Response {
	subs := s.subIndices(r.Index)
	if len(subs) == 0 {
		resp, _ := rac.NewObjectInfoResponse(abort.NotExist)
		return resp
	}
	start := 0
	for start < len(subs) && subs[start] < r.FirstSubIndex {
		start++
	}

	returnStackSize := uint32(r.ReturnStack().BinarySize())
	budget := rac.CalcMaxObjectInfoPayload(r.MaxResponseSize(), returnStackSize)

	var records []rac.ObjectInfoRecord
	used := uint32(0)
	idx := start
	for idx < len(subs) && subs[idx] <= r.LastSubIndex {
		obj, ok := s.Get(r.Index, subs[idx])
		if !ok {
			idx++
			continue
		}
		rec := rac.ObjectInfoRecord{
			DataType:     obj.DataType,
			Attributes:   obj.Attributes,
			MaxSizeInBit: obj.MaxSizeInBit,
		}
		if r.InclNames {
			rec.Name = obj.Name
		}
		if r.InclASM {
			rec.ASM = obj.ASM
		}
		recSize := uint32(2 + 2 + 4)
		if r.InclNames {
			recSize += uint32(2 + len(rec.Name))
		}
		if r.InclASM {
			recSize += uint32(2 + len(rec.ASM))
		}
		if len(records) > 0 && used+recSize > budget {
			break
		}
		records = append(records, rec)
		used += recSize
		idx++
	}
	complete := idx >= len(subs) || (idx > 0 && subs[idx-1] >= r.LastSubIndex)

	firstSubIndex := r.FirstSubIndex
	if len(records) > 0 {
		firstSubIndex = subs[start]
	}
	resp, _ := rac.NewObjectInfoResponse(abort.General)
	if err := resp.SetData(firstSubIndex, r.InclNames, r.InclASM, records, complete); err != nil {
		log.Errorf("objdict: object info SetData failed: %v", err)
		resp, _ = rac.NewObjectInfoResponse(abort.General)
		return resp
	}
	return resp
}
