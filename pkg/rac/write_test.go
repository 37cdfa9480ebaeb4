package rac

import (
	"testing"

	"github.com/go-roda/roda/pkg/abort"
	"github.com/stretchr/testify/require"
)

func TestWriteRequestRoundTrip(t *testing.T) {
	req, err := NewWriteRequest(SingleSubindex, 0x2000, 3, AttrWrite, []byte{0xDE, 0xAD}, 16, 256)
	require.NoError(t, err)

	raw := req.ToBinary()
	require.Equal(t, req.BinarySize(), len(raw))

	decoded, err := RequestFromBinary(raw)
	require.NoError(t, err)
	wr, ok := decoded.(*WriteRequest)
	require.True(t, ok)
	require.Equal(t, uint16(0x2000), wr.Index)
	data, sizeInBit := wr.Data()
	require.Equal(t, []byte{0xDE, 0xAD}, data)
	require.Equal(t, uint32(16), sizeInBit)
}

func TestWriteRequestRejectsLengthMismatch(t *testing.T) {
	_, err := NewWriteRequest(SingleSubindex, 0x2000, 0, AttrWrite, []byte{0x01}, 16, 256)
	require.Error(t, err)
}

func TestWriteRequestTakeDataZeroesSource(t *testing.T) {
	req, err := NewWriteRequest(SingleSubindex, 0x2000, 0, AttrWrite, []byte{0x01}, 8, 256)
	require.NoError(t, err)

	data, sizeInBit := req.TakeData()
	require.Equal(t, []byte{0x01}, data)
	require.Equal(t, uint32(8), sizeInBit)

	data, sizeInBit = req.Data()
	require.Nil(t, data)
	require.Equal(t, uint32(0), sizeInBit)
}

func TestWriteResponseRoundTrip(t *testing.T) {
	resp := NewWriteResponse(abort.OK, ReturnStack{})
	raw := resp.ToBinary()
	require.Equal(t, resp.BinarySize(), len(raw))

	decoded, err := ResponseFromBinary(raw)
	require.NoError(t, err)
	wr, ok := decoded.(*WriteResponse)
	require.True(t, ok)
	require.Equal(t, abort.OK, wr.Result())
}

func TestWriteResponseSetResult(t *testing.T) {
	resp := NewWriteResponse(abort.OK, ReturnStack{})
	resp.SetResult(abort.ReadOnly)
	require.Equal(t, abort.ReadOnly, resp.Result())
}
