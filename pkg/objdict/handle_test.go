package objdict

import (
	"testing"

	"github.com/go-roda/roda/pkg/abort"
	"github.com/go-roda/roda/pkg/datatype"
	"github.com/go-roda/roda/pkg/rac"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	s := NewStore()
	s.Set(0x1000, 0, &Object{
		Name: "device-type", DataType: datatype.Unsigned32,
		Attributes: rac.AttrRead, MaxSizeInBit: 32, SizeInBit: 32,
		Data: []byte{0x91, 0x00, 0x00, 0x00},
	})
	s.Set(0x2000, 0, &Object{
		Name: "highest-sub", DataType: datatype.Unsigned8,
		Attributes: rac.AttrRead, MaxSizeInBit: 8, SizeInBit: 8,
		Data: []byte{0x02},
	})
	s.Set(0x2000, 1, &Object{
		Name: "counter", DataType: datatype.Unsigned16,
		Attributes: rac.AttrRead | rac.AttrWrite, MaxSizeInBit: 16, SizeInBit: 16,
		Data: []byte{0x00, 0x00},
	})
	s.Set(0x2000, 2, &Object{
		Name: "label", DataType: datatype.VisibleString,
		Attributes: rac.AttrRead, MaxSizeInBit: 32, SizeInBit: 32,
		Data: []byte("hi\x00\x00"),
	})
	return s
}

func withReturnStack(req rac.Request) rac.Request {
	req.ReturnStack().Push(rac.ReturnStackItem{OwnerID: 1, Info: 1})
	return req
}

func TestHandlePingRoundTripsReturnStack(t *testing.T) {
	s := newTestStore()
	req := withReturnStack(rac.NewPingRequest(64))
	resp := s.Handle(req)
	require.Equal(t, rac.KindPing, resp.Kind())
	require.Equal(t, 1, resp.ReturnStack().Len())
}

func TestHandleReadKnownObject(t *testing.T) {
	s := newTestStore()
	req := withReturnStack(rac.NewReadRequest(rac.SingleSubindex, 0x1000, 0, rac.AttrRead, 64))
	resp := s.Handle(req).(*rac.ReadResponse)
	require.Equal(t, abort.OK, resp.Result())
	data, size, err := resp.Data()
	require.NoError(t, err)
	require.Equal(t, []byte{0x91, 0x00, 0x00, 0x00}, data)
	require.Equal(t, uint32(32), size)
}

func TestHandleReadMissingObject(t *testing.T) {
	s := newTestStore()
	req := withReturnStack(rac.NewReadRequest(rac.SingleSubindex, 0x9999, 0, rac.AttrRead, 64))
	resp := s.Handle(req).(*rac.ReadResponse)
	require.Equal(t, abort.NotExist, resp.Result())
}

func TestHandleWriteThenReadBack(t *testing.T) {
	s := newTestStore()
	wreq := withReturnStack(must(rac.NewWriteRequest(rac.SingleSubindex, 0x2000, 1, rac.AttrWrite, []byte{0x2A, 0x00}, 16, 64)))
	wresp := s.Handle(wreq).(*rac.WriteResponse)
	require.Equal(t, abort.OK, wresp.Result())

	rreq := withReturnStack(rac.NewReadRequest(rac.SingleSubindex, 0x2000, 1, rac.AttrRead, 64))
	rresp := s.Handle(rreq).(*rac.ReadResponse)
	data, _, err := rresp.Data()
	require.NoError(t, err)
	require.Equal(t, []byte{0x2A, 0x00}, data)
}

func TestHandleWriteRejectsReadOnly(t *testing.T) {
	s := newTestStore()
	wreq := withReturnStack(must(rac.NewWriteRequest(rac.SingleSubindex, 0x1000, 0, rac.AttrWrite, []byte{0, 0, 0, 0}, 32, 64)))
	wresp := s.Handle(wreq).(*rac.WriteResponse)
	require.Equal(t, abort.ReadOnly, wresp.Result())
}

func TestHandleObjectEnumFragmentsOverSmallBudget(t *testing.T) {
	s := newTestStore()
	// Base header (3) + return stack (8) + fixed (7) = 18; 2 more bytes
	// buys exactly one index, so the first fragment is not complete.
	req := withReturnStack(rac.NewObjectEnumRequest(0x0000, 0xFFFF, 0, 20))
	resp := s.Handle(req).(*rac.ObjectEnumResponse)
	require.Equal(t, abort.OK, resp.Result())
	indices, err := resp.Indices()
	require.NoError(t, err)
	require.Equal(t, []uint16{0x1000}, indices)
	complete, next := false, uint16(0)
	complete, err = resp.IsComplete(&next)
	require.NoError(t, err)
	require.False(t, complete)
	require.Equal(t, uint16(0x1001), next)
}

func TestHandleObjectEnumCompleteWithLargeBudget(t *testing.T) {
	s := newTestStore()
	req := withReturnStack(rac.NewObjectEnumRequest(0x0000, 0xFFFF, 0, 4096))
	resp := s.Handle(req).(*rac.ObjectEnumResponse)
	indices, err := resp.Indices()
	require.NoError(t, err)
	require.Equal(t, []uint16{0x1000, 0x2000}, indices)
	complete, _ := resp.IsComplete(nil)
	require.True(t, complete)
}

func TestHandleObjectInfoIncludesNamesAndTypes(t *testing.T) {
	s := newTestStore()
	req := withReturnStack(rac.NewObjectInfoRequest(0x2000, 0, 255, true, false, 4096))
	resp := s.Handle(req).(*rac.ObjectInfoResponse)
	require.Equal(t, abort.OK, resp.Result())
	records, err := resp.Records()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "highest-sub", records[0].Name)
	require.Equal(t, datatype.Unsigned16, records[1].DataType)
	complete, _ := resp.IsComplete(nil)
	require.True(t, complete)
}

func TestHandleObjectInfoMissingIndex(t *testing.T) {
	s := newTestStore()
	req := withReturnStack(rac.NewObjectInfoRequest(0x9999, 0, 255, false, false, 4096))
	resp := s.Handle(req).(*rac.ObjectInfoResponse)
	require.Equal(t, abort.NotExist, resp.Result())
}

func must(req *rac.WriteRequest, err error) *rac.WriteRequest {
	if err != nil {
		panic(err)
	}
	return req
}
