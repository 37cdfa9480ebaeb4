package rac

import (
	"testing"

	"github.com/go-roda/roda/pkg/abort"
	"github.com/stretchr/testify/require"
)

func TestReadRequestRoundTrip(t *testing.T) {
	req := NewReadRequest(SingleSubindex, 0x1018, 1, AttrRead|AttrWrite, 512)
	raw := req.ToBinary()
	require.Equal(t, req.BinarySize(), len(raw))

	decoded, err := RequestFromBinary(raw)
	require.NoError(t, err)
	rr, ok := decoded.(*ReadRequest)
	require.True(t, ok)
	require.Equal(t, uint16(0x1018), rr.Index)
	require.Equal(t, uint8(1), rr.Subindex)
	require.Equal(t, SingleSubindex, rr.Access)
	require.Equal(t, AttrRead|AttrWrite, rr.Permissions)
}

func TestReadResponseSuccessRoundTrip(t *testing.T) {
	resp, err := NewReadResponse(abort.OK)
	require.Error(t, err)
	require.Nil(t, resp)

	resp, err = NewReadResponse(abort.NotExist)
	require.NoError(t, err)
	require.NoError(t, resp.SetData([]byte{0x12, 0x34, 0x05}, 20))

	raw := resp.ToBinary()
	require.Equal(t, resp.BinarySize(), len(raw))

	decoded, err := ResponseFromBinary(raw)
	require.NoError(t, err)
	rr, ok := decoded.(*ReadResponse)
	require.True(t, ok)
	require.Equal(t, abort.OK, rr.Result())

	data, sizeInBit, err := rr.Data()
	require.NoError(t, err)
	require.Equal(t, []byte{0x12, 0x34, 0x05}, data)
	require.Equal(t, uint32(20), sizeInBit)
}

func TestReadResponseErrorRoundTrip(t *testing.T) {
	resp, err := NewReadResponse(abort.NotExist)
	require.NoError(t, err)

	raw := resp.ToBinary()
	decoded, err := ResponseFromBinary(raw)
	require.NoError(t, err)
	rr := decoded.(*ReadResponse)
	require.Equal(t, abort.NotExist, rr.Result())

	_, _, err = rr.Data()
	require.Error(t, err)
}

func TestReadResponseTakeDataZeroesSource(t *testing.T) {
	resp, err := NewReadResponse(abort.NotExist)
	require.NoError(t, err)
	require.NoError(t, resp.SetData([]byte{0xFF}, 8))

	data, sizeInBit, err := resp.TakeData()
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF}, data)
	require.Equal(t, uint32(8), sizeInBit)

	_, _, err = resp.Data()
	require.NoError(t, err)
	gotData, gotSize, err := resp.Data()
	require.NoError(t, err)
	require.Nil(t, gotData)
	require.Equal(t, uint32(0), gotSize)
}

func TestReadResponseSetDataRejectsLengthMismatch(t *testing.T) {
	resp, err := NewReadResponse(abort.NotExist)
	require.NoError(t, err)
	err = resp.SetData([]byte{0x01}, 16)
	require.Error(t, err)
}

func TestBitsInLastByte(t *testing.T) {
	require.Equal(t, uint8(0), bitsInLastByte(0, 0))
	require.Equal(t, uint8(8), bitsInLastByte(1, 8))
	require.Equal(t, uint8(4), bitsInLastByte(3, 20))
}
