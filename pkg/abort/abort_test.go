package abort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromUint32Known(t *testing.T) {
	c, err := FromUint32(0x06020000)
	require.NoError(t, err)
	assert.Equal(t, NotExist, c)
}

func TestFromUint32Unknown(t *testing.T) {
	_, err := FromUint32(0xDEADBEEF)
	assert.Error(t, err)
}

func TestDescriptionKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "object does not exist in the object dictionary", NotExist.Description())
	assert.Equal(t, "unknown abort code", Code(0x12345678).Description())
}

func TestErrorImplementsError(t *testing.T) {
	var err error = NotExist
	assert.Contains(t, err.Error(), "0x06020000")
}

func TestOKIsZero(t *testing.T) {
	assert.Equal(t, Code(0), OK)
}
