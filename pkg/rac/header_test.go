package rac

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalcMaxDataPayloadBoundaries(t *testing.T) {
	const fixed = baseBinarySize + readResponseFixedSize

	t.Run("budget equal to base header and fixed fields returns 0", func(t *testing.T) {
		require.Equal(t, uint32(0), CalcMaxDataPayload(fixed, 0))
	})

	t.Run("one byte above overhead returns 1", func(t *testing.T) {
		require.Equal(t, uint32(1), CalcMaxDataPayload(fixed+1, 0))
	})

	t.Run("clamps to uint16 max regardless of how large the envelope is", func(t *testing.T) {
		require.Equal(t, uint32(math.MaxUint16), CalcMaxDataPayload(math.MaxUint32, 0))
	})

	t.Run("return stack size is part of the overhead", func(t *testing.T) {
		require.Equal(t, uint32(0), CalcMaxDataPayload(fixed+8, 8))
		require.Equal(t, uint32(1), CalcMaxDataPayload(fixed+9, 8))
	})
}

func TestCalcMaxObjectInfoPayloadBoundaries(t *testing.T) {
	const fixed = baseBinarySize + objectInfoResponseFixedSize

	t.Run("budget equal to base header and fixed fields returns 0", func(t *testing.T) {
		require.Equal(t, uint32(0), CalcMaxObjectInfoPayload(fixed, 0))
	})

	t.Run("one byte above overhead returns 1", func(t *testing.T) {
		require.Equal(t, uint32(1), CalcMaxObjectInfoPayload(fixed+1, 0))
	})

	t.Run("return stack size is part of the overhead", func(t *testing.T) {
		require.Equal(t, uint32(0), CalcMaxObjectInfoPayload(fixed+8, 8))
		require.Equal(t, uint32(1), CalcMaxObjectInfoPayload(fixed+9, 8))
	})
}
