package rac

import (
	"testing"

	"github.com/go-roda/roda/pkg/abort"
	"github.com/stretchr/testify/require"
)

func TestObjectEnumRequestRoundTrip(t *testing.T) {
	req := NewObjectEnumRequest(0x1000, 0x2000, AttrRead, 1024)
	raw := req.ToBinary()
	require.Equal(t, req.BinarySize(), len(raw))

	decoded, err := RequestFromBinary(raw)
	require.NoError(t, err)
	er, ok := decoded.(*ObjectEnumRequest)
	require.True(t, ok)
	require.Equal(t, uint16(0x1000), er.FirstIndex)
	require.Equal(t, uint16(0x2000), er.LastIndex)
	require.Equal(t, AttrRead, er.AttrFilter)
}

func TestObjectEnumResponseCompleteRoundTrip(t *testing.T) {
	resp, err := NewObjectEnumResponse(abort.NotExist)
	require.NoError(t, err)
	require.NoError(t, resp.SetData([]uint16{0x1000, 0x1001, 0x2000}, true))

	raw := resp.ToBinary()
	require.Equal(t, resp.BinarySize(), len(raw))

	decoded, err := ResponseFromBinary(raw)
	require.NoError(t, err)
	er := decoded.(*ObjectEnumResponse)
	require.Equal(t, abort.OK, er.Result())

	complete, err := er.IsComplete(nil)
	require.NoError(t, err)
	require.True(t, complete)

	indices, err := er.Indices()
	require.NoError(t, err)
	require.Equal(t, []uint16{0x1000, 0x1001, 0x2000}, indices)
}

func TestObjectEnumResponseIncompleteNextIndex(t *testing.T) {
	resp, err := NewObjectEnumResponse(abort.NotExist)
	require.NoError(t, err)
	require.NoError(t, resp.SetData([]uint16{0x1000, 0x1005}, false))

	var next uint16
	complete, err := resp.IsComplete(&next)
	require.NoError(t, err)
	require.False(t, complete)
	require.Equal(t, uint16(0x1006), next)
}

func TestObjectEnumResponseSetDataRejectsNonAscending(t *testing.T) {
	resp, err := NewObjectEnumResponse(abort.NotExist)
	require.NoError(t, err)
	err = resp.SetData([]uint16{2, 1}, true)
	require.Error(t, err)
}

func TestObjectEnumResponseSetDataRejectsIncompleteWithFFFF(t *testing.T) {
	resp, err := NewObjectEnumResponse(abort.NotExist)
	require.NoError(t, err)
	err = resp.SetData([]uint16{0xFFFF}, false)
	require.Error(t, err)
}

func TestObjectEnumResponseAddFragment(t *testing.T) {
	first, err := NewObjectEnumResponse(abort.NotExist)
	require.NoError(t, err)
	require.NoError(t, first.SetData([]uint16{1, 2, 3}, false))

	second, err := NewObjectEnumResponse(abort.NotExist)
	require.NoError(t, err)
	require.NoError(t, second.SetData([]uint16{4, 5}, true))

	require.NoError(t, first.AddFragment(second))

	complete, err := first.IsComplete(nil)
	require.NoError(t, err)
	require.True(t, complete)

	indices, err := first.Indices()
	require.NoError(t, err)
	require.Equal(t, []uint16{1, 2, 3, 4, 5}, indices)
}

func TestObjectEnumResponseAddFragmentRejectsDiscontinuity(t *testing.T) {
	first, err := NewObjectEnumResponse(abort.NotExist)
	require.NoError(t, err)
	require.NoError(t, first.SetData([]uint16{1, 2, 5}, false))

	second, err := NewObjectEnumResponse(abort.NotExist)
	require.NoError(t, err)
	require.NoError(t, second.SetData([]uint16{3, 4}, true))

	err = first.AddFragment(second)
	require.Error(t, err)
}

func TestObjectEnumResponseAddFragmentRejectsAlreadyComplete(t *testing.T) {
	first, err := NewObjectEnumResponse(abort.NotExist)
	require.NoError(t, err)
	require.NoError(t, first.SetData([]uint16{1}, true))

	second, err := NewObjectEnumResponse(abort.NotExist)
	require.NoError(t, err)
	require.NoError(t, second.SetData([]uint16{2}, true))

	err = first.AddFragment(second)
	require.Error(t, err)
}

func TestObjectEnumResponseEmptyCompleteRoundTrip(t *testing.T) {
	resp, err := NewObjectEnumResponse(abort.NotExist)
	require.NoError(t, err)
	require.NoError(t, resp.SetData(nil, true))

	raw := resp.ToBinary()
	decoded, err := ResponseFromBinary(raw)
	require.NoError(t, err)
	er := decoded.(*ObjectEnumResponse)
	indices, err := er.Indices()
	require.NoError(t, err)
	require.Empty(t, indices)
}

func TestCalcMaxNbOfIndices(t *testing.T) {
	n := CalcMaxNbOfIndices(1024, 0)
	require.Greater(t, n, uint32(0))
	require.LessOrEqual(t, n, uint32(maxNbOfIndices))

	require.Equal(t, uint32(0), CalcMaxNbOfIndices(4, 1<<20))
}
