package pack

import (
	"testing"

	"github.com/lzxindustries/vmprog-go/pkg/vmprog/vmerrors"
	"github.com/stretchr/testify/require"
)

func TestFixedStringPadsAndNullTerminates(t *testing.T) {
	buf := make([]byte, 16)
	require.NoError(t, FixedString(buf, 0, 16, "program_id", "passthru"))

	s, ok := ReadCString(buf, 0, 16)
	require.True(t, ok)
	require.Equal(t, "passthru", s)

	// field-null law: every packed string contains a null byte
	foundNull := false
	for _, b := range buf {
		if b == 0 {
			foundNull = true
			break
		}
	}
	require.True(t, foundNull)
}

func TestFixedStringTooLong(t *testing.T) {
	buf := make([]byte, 8)
	err := FixedString(buf, 0, 8, "program_id", "12345678") // exactly 8 bytes, no room for null
	require.Error(t, err)
	require.True(t, vmerrors.Of(err, vmerrors.KindStringTooLong))
}

func TestFixedStringExactFitMinusOne(t *testing.T) {
	buf := make([]byte, 8)
	require.NoError(t, FixedString(buf, 0, 8, "f", "1234567")) // 7 bytes + null fits exactly
	s, ok := ReadCString(buf, 0, 8)
	require.True(t, ok)
	require.Equal(t, "1234567", s)
}

func TestIntegerRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	U8(buf, 0, 0xAB)
	U16(buf, 1, 0x1234)
	I16(buf, 3, -100)
	U32(buf, 5, 0xDEADBEEF)

	require.Equal(t, uint8(0xAB), ReadU8(buf, 0))
	require.Equal(t, uint16(0x1234), ReadU16(buf, 1))
	require.Equal(t, int16(-100), ReadI16(buf, 3))
	require.Equal(t, uint32(0xDEADBEEF), ReadU32(buf, 5))
}

func TestReadCStringNoNull(t *testing.T) {
	buf := []byte("abcdefgh")
	_, ok := ReadCString(buf, 0, 8)
	require.False(t, ok)
}
