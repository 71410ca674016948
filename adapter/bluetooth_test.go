package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBDAddr(t *testing.T) {
	addr, err := bdaddr("01:23:45:67:89:AB")
	require.NoError(t, err)
	assert.Equal(t, [6]byte{0xAB, 0x89, 0x67, 0x45, 0x23, 0x01}, addr)

	_, err = bdaddr("01:23:45:67:89")
	assert.Error(t, err)

	_, err = bdaddr("00:00:5e:00:53:00:00:01")
	assert.Error(t, err)
}

func TestBluetoothAdapterNotOpen(t *testing.T) {
	a, err := NewBluetoothAdapter("01:23:45:67:89:AB")
	require.NoError(t, err)

	assert.Equal(t, "01:23:45:67:89:AB", a.Address())
	assert.False(t, a.IsOpen())

	_, err = a.Write([]byte{0x55})
	assert.ErrorIs(t, err, ErrNotOpen)

	_, err = a.Read(make([]byte, 4))
	assert.ErrorIs(t, err, ErrNotOpen)

	assert.NoError(t, a.Close())
}

func TestNewBluetoothAdapterBadAddress(t *testing.T) {
	_, err := NewBluetoothAdapter("not-a-mac")
	assert.Error(t, err)
}
