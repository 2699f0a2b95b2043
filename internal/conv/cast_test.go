package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint64(t *testing.T) {
	v, err := IntToUint64(42)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	_, err = IntToUint64(-1)
	assert.Error(t, err)
}

func TestInt64ToUint64(t *testing.T) {
	v, err := Int64ToUint64(1 << 40)
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<40, v)

	_, err = Int64ToUint64(-1)
	assert.Error(t, err)
}
