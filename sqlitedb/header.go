package sqlitedb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// MbtilesApplicationID is the magic "application_id" header field a
// conformant MBTiles SQLite file carries (spec §3: 0x4D504258, "MPBX").
const MbtilesApplicationID uint32 = 0x4D50_4258

var magicString = []byte("SQLite format 3\x00")

// Header is the parsed 100-byte SQLite database file header. Field names
// and offsets follow https://www.sqlite.org/fileformat2.html#the_database_header.
type Header struct {
	PageSize               uint16
	WriteVersion           uint8
	ReadVersion            uint8
	ReservedSpace          uint8
	MaxPayloadFraction     uint8
	MinPayloadFraction     uint8
	LeafPayloadFraction    uint8
	FileChangeCounter      uint32
	DatabaseSize           uint32
	FirstFreelistTrunkPage uint32
	TotalFreelistPages     uint32
	SchemaCookie           uint32
	SchemaFormatNumber     uint32
	DefaultPageCacheSize   uint32
	LargestRootBTreePage   uint32
	TextEncoding           uint32
	UserVersion            uint32
	IncrementalVacuumMode  uint32
	ApplicationID          uint32
	VersionValidFor        uint32
	SQLiteVersionNumber    uint32
}

// ParseHeader decodes a 100-byte SQLite header buffer. The magic string is
// validated first; every subsequent fixed-width field is read as big-endian
// per the file format.
func ParseHeader(buf [100]byte) (Header, error) {
	if !bytes.Equal(buf[0:16], magicString) {
		return Header{}, newErr(ErrInvalidMagic, nil, "bad magic string %q", buf[0:16])
	}
	be16 := func(off int) uint16 { return binary.BigEndian.Uint16(buf[off : off+2]) }
	be32 := func(off int) uint32 { return binary.BigEndian.Uint32(buf[off : off+4]) }

	h := Header{
		PageSize:               be16(16),
		WriteVersion:           buf[18],
		ReadVersion:            buf[19],
		ReservedSpace:          buf[20],
		MaxPayloadFraction:     buf[21],
		MinPayloadFraction:     buf[22],
		LeafPayloadFraction:    buf[23],
		FileChangeCounter:      be32(24),
		DatabaseSize:           be32(28),
		FirstFreelistTrunkPage: be32(32),
		TotalFreelistPages:     be32(36),
		SchemaCookie:           be32(40),
		SchemaFormatNumber:     be32(44),
		DefaultPageCacheSize:   be32(48),
		LargestRootBTreePage:   be32(52),
		TextEncoding:           be32(56),
		UserVersion:            be32(60),
		IncrementalVacuumMode:  be32(64),
		ApplicationID:          be32(68),
		VersionValidFor:        be32(92),
		SQLiteVersionNumber:    be32(96),
	}
	return h, h.Validate()
}

// ReadHeader opens path and parses its first 100 bytes as a Header.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, newErr(ErrPathMissing, err, "open %s", path)
	}
	defer f.Close()

	var buf [100]byte
	if _, err := f.Read(buf[:]); err != nil {
		return Header{}, newErr(ErrInvalidHeaderField, err, "read header of %s", path)
	}
	return ParseHeader(buf)
}

// Validate checks the documented field constraints, matching the
// reference implementation's is_ok() checks field-by-field.
func (h Header) Validate() error {
	if err := h.pageSizeOK(); err != nil {
		return err
	}
	if h.WriteVersion != 1 && h.WriteVersion != 2 {
		return newErr(ErrInvalidHeaderField, nil, "write_version %d", h.WriteVersion)
	}
	if h.ReadVersion != 1 && h.ReadVersion != 2 {
		return newErr(ErrInvalidHeaderField, nil, "read_version %d", h.ReadVersion)
	}
	if h.ReservedSpace > 32 {
		return newErr(ErrInvalidHeaderField, nil, "reserved_space %d", h.ReservedSpace)
	}
	if usable := uint32(h.PageSize) - uint32(h.ReservedSpace); usable < 480 {
		return newErr(ErrInvalidHeaderField, nil, "usable page size %d too small", usable)
	}
	if h.MaxPayloadFraction != 64 || h.MinPayloadFraction != 32 || h.LeafPayloadFraction != 32 {
		return newErr(ErrInvalidHeaderField, nil, "payload fractions %d/%d/%d",
			h.MaxPayloadFraction, h.MinPayloadFraction, h.LeafPayloadFraction)
	}
	if h.TextEncoding != 1 && h.TextEncoding != 2 && h.TextEncoding != 3 {
		return newErr(ErrInvalidHeaderField, nil, "text_encoding %d", h.TextEncoding)
	}
	switch h.SchemaFormatNumber {
	case 1, 2, 3, 4:
	default:
		return newErr(ErrInvalidHeaderField, nil, "schema_format_number %d", h.SchemaFormatNumber)
	}
	return nil
}

func (h Header) pageSizeOK() error {
	if h.PageSize == 1 {
		return nil
	}
	if h.PageSize >= 512 && h.PageSize <= 32768 && h.PageSize&(h.PageSize-1) == 0 {
		return nil
	}
	return newErr(ErrInvalidHeaderField, nil, "page_size %d", h.PageSize)
}

// IsMbtilesApplicationID reports whether h carries the MBTiles magic
// application_id header field.
func (h Header) IsMbtilesApplicationID() bool {
	return h.ApplicationID == MbtilesApplicationID
}

func (h Header) String() string {
	return fmt.Sprintf("SqliteHeader{page_size=%d application_id=0x%08X user_version=%d}",
		h.PageSize, h.ApplicationID, h.UserVersion)
}
