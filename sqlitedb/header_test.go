package sqlitedb

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func validHeaderBytes() [100]byte {
	var buf [100]byte
	copy(buf[0:16], magicString)
	binary.BigEndian.PutUint16(buf[16:18], 4096)
	buf[18] = 1
	buf[19] = 1
	buf[20] = 0
	buf[21] = 64
	buf[22] = 32
	buf[23] = 32
	binary.BigEndian.PutUint32(buf[56:60], 1) // text_encoding = utf8
	binary.BigEndian.PutUint32(buf[44:48], 4) // schema_format_number
	binary.BigEndian.PutUint32(buf[68:72], MbtilesApplicationID)
	return buf
}

func TestParseHeaderValid(t *testing.T) {
	h, err := ParseHeader(validHeaderBytes())
	require.NoError(t, err)
	require.Equal(t, uint16(4096), h.PageSize)
	require.True(t, h.IsMbtilesApplicationID())
}

func TestParseHeaderBadMagic(t *testing.T) {
	buf := validHeaderBytes()
	buf[0] = 'X'
	_, err := ParseHeader(buf)
	require.Error(t, err)

	var sqliteErr *Error
	require.ErrorAs(t, err, &sqliteErr)
	require.Equal(t, ErrInvalidMagic, sqliteErr.Kind)
}

func TestParseHeaderBadPageSize(t *testing.T) {
	buf := validHeaderBytes()
	binary.BigEndian.PutUint16(buf[16:18], 100) // not a power of two, not 1
	_, err := ParseHeader(buf)
	require.Error(t, err)

	var sqliteErr *Error
	require.ErrorAs(t, err, &sqliteErr)
	require.Equal(t, ErrInvalidHeaderField, sqliteErr.Kind)
}
