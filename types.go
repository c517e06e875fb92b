// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package unidb defines a typed row/column model shared by database client
// bridges. A Record describes the columns of one result row and owns the
// memory their values are stored in; a driver bridge (see the sqlite and odbc
// packages) fills the record from its native statement handle and callers
// read values back through Variant and VariantView.
package unidb

// Kind numbers. The low byte of a type identifies the storage kind of a
// value; the remaining bits carry group information (see the Group constants
// below). A kind OR'd with its groups forms a complete type.
const (
	KindUnknown uint32 = 0
	KindBool    uint32 = 1
	KindInt8    uint32 = 2
	KindUInt8   uint32 = 3
	KindInt16   uint32 = 4
	KindUInt16  uint32 = 5
	KindInt32   uint32 = 6
	KindUInt32  uint32 = 7
	KindInt64   uint32 = 8
	KindUInt64  uint32 = 9
	KindFloat32 uint32 = 10
	KindFloat64 uint32 = 11
	KindPointer uint32 = 12
	KindGuid    uint32 = 13
	KindString  uint32 = 14
	KindUtf8    uint32 = 15
	KindWString uint32 = 16
	KindUtf32   uint32 = 17
	KindBinary  uint32 = 18
	KindJson    uint32 = 19
	KindXml     uint32 = 20
	KindCsv     uint32 = 21
	KindBit     uint32 = 23
	KindDateTime uint32 = 32
	KindDate    uint32 = 33
	KindTime    uint32 = 34
	KindNumeric uint32 = 35
	KindDecimal uint32 = 36
)

// Group bits. Orthogonal markers OR'd onto a kind; width classes tell how
// many bits a fixed value occupies.
const (
	GroupNumber  uint32 = 0x00000100
	GroupInteger uint32 = 0x00000200
	GroupDecimal uint32 = 0x00000400
	GroupSigned  uint32 = 0x00000800
	GroupString  uint32 = 0x00001000
	GroupDate    uint32 = 0x00002000
	GroupBinary  uint32 = 0x00004000
	GroupBoolean uint32 = 0x00008000

	Group8   uint32 = 0x00010000
	Group16  uint32 = 0x00020000
	Group32  uint32 = 0x00040000
	Group64  uint32 = 0x00080000
	Group128 uint32 = 0x00100000

	GroupNull  uint32 = 0x10000000
	GroupChar  uint32 = 0x20000000
	GroupWChar uint32 = 0x30000000
)

// Complete types: kind, groups and width class combined.
const (
	TypeUnknown  = KindUnknown | GroupNull
	TypeBit      = KindBit | GroupNumber | Group8
	TypeBool     = KindBool | GroupNumber | GroupInteger | GroupBoolean | Group8
	TypeInt8     = KindInt8 | GroupNumber | GroupInteger | GroupSigned | Group8
	TypeInt16    = KindInt16 | GroupNumber | GroupInteger | GroupSigned | Group16
	TypeInt32    = KindInt32 | GroupNumber | GroupInteger | GroupSigned | Group32
	TypeInt64    = KindInt64 | GroupNumber | GroupInteger | GroupSigned | Group64
	TypeUInt8    = KindUInt8 | GroupNumber | GroupInteger | Group8
	TypeUInt16   = KindUInt16 | GroupNumber | GroupInteger | Group16
	TypeUInt32   = KindUInt32 | GroupNumber | GroupInteger | Group32
	TypeUInt64   = KindUInt64 | GroupNumber | GroupInteger | Group64
	TypeFloat32  = KindFloat32 | GroupNumber | GroupDecimal | GroupSigned | Group32
	TypeFloat64  = KindFloat64 | GroupNumber | GroupDecimal | GroupSigned | Group64
	TypeGuid     = KindGuid | GroupBinary | Group128
	TypeBinary   = KindBinary | GroupBinary
	TypeString   = KindString | GroupString | GroupChar
	TypeUtf8     = KindUtf8 | GroupString | GroupChar
	TypeWString  = KindWString | GroupString | GroupWChar
	TypeUtf32    = KindUtf32 | GroupString | GroupWChar
	TypeJson     = KindJson | GroupString | GroupChar
	TypeXml      = KindXml | GroupString | GroupChar
	TypeCsv      = KindCsv | GroupString | GroupChar
	TypeNumeric  = KindNumeric | GroupString | GroupChar
	TypeDecimal  = KindDecimal | GroupString | GroupChar
	TypeDateTime = KindDateTime | GroupDate | Group64
	TypeDate     = KindDate | GroupDate | Group64
	TypeTime     = KindTime | GroupDate | Group64
)

// Masks splitting a complete type into its parts.
const (
	TypeFilterKind  uint32 = 0x000000ff
	TypeFilterGroup uint32 = 0x0000ff00
	TypeFilterType  uint32 = 0x0000ffff
)

// KindOf returns the kind number stored in the low byte of a type.
func KindOf(t uint32) uint32 { return t & TypeFilterKind }

// GroupOf returns the group bits of a type.
func GroupOf(t uint32) uint32 { return t & TypeFilterGroup }

func IsBoolean(t uint32) bool { return t&GroupBoolean != 0 }
func IsString(t uint32) bool  { return t&GroupString != 0 }
func IsInteger(t uint32) bool { return t&GroupInteger != 0 }
func IsDecimal(t uint32) bool { return t&GroupDecimal != 0 }
func IsDate(t uint32) bool    { return t&GroupDate != 0 }
func IsBinary(t uint32) bool  { return t&GroupBinary != 0 }

// ValueSize returns the number of bytes a fixed value of the given kind
// occupies, or 0 for kinds without a static size.
func ValueSize(t uint32) uint32 {
	switch t & TypeFilterKind {
	case KindBool, KindBit, KindInt8, KindUInt8:
		return 1
	case KindInt16, KindUInt16:
		return 2
	case KindInt32, KindUInt32, KindFloat32:
		return 4
	case KindInt64, KindUInt64, KindFloat64, KindPointer:
		return 8
	case KindGuid:
		return 16
	case KindDateTime:
		return 16 // year..second as 16 bit values, 32 bit fraction
	case KindDate, KindTime:
		return 6
	case KindNumeric:
		return 19 // precision, scale, sign and 16 digit bytes
	default:
		return 0
	}
}

// upper7 copies up to the first seven bytes of name, ASCII-uppercased and
// NUL-padded, which is all the type name tables below look at.
func upper7(name string) [7]byte {
	var b [7]byte
	for i := 0; i < len(b) && i < len(name); i++ {
		ch := name[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		b[i] = ch
	}
	return b
}

// TypeFromName translates a short type name into a complete type. Matching
// is case-insensitive and decided by the first few characters, so VARCHAR2
// and VARCHAR(100) both map to TypeString. Recognized names are BINARY, BOOL,
// DECIMAL, DATE, DATETIME, DOUBLE, GUID, FLOAT, INT8..INT64, NUMERIC,
// NVARCHAR, STRING, UINT8..UINT64, UTF8, UTF32 and VARCHAR. Only the first
// letter and at most four more characters are looked at, so other names
// starting with B, D, F, G, I, N, S, U or V also map to one of these types
// (INTEGER to TypeInt32, for one); only the empty name and names starting
// with any other character map to TypeUnknown.
func TypeFromName(name string) uint32 {
	b := upper7(name)
	switch b[0] {
	case 'B':
		if b[1] == 'I' {
			return TypeBinary
		}
		return TypeBool
	case 'D':
		switch {
		case b[4] == 'T': // DATETIME
			return TypeDateTime
		case b[1] == 'O': // DOUBLE
			return TypeFloat64
		case b[2] == 'C': // DECIMAL
			return TypeDecimal
		}
		return TypeDate
	case 'G':
		return TypeGuid
	case 'F':
		return TypeFloat32
	case 'I':
		switch {
		case b[3] == '3':
			return TypeInt32
		case b[3] == '6':
			return TypeInt64
		case b[3] == '1':
			return TypeInt16
		case b[3] == '8':
			return TypeInt8
		}
		return TypeInt32
	case 'N':
		if b[1] == 'V' {
			return TypeWString
		}
		return TypeNumeric
	case 'S':
		return TypeString
	case 'U':
		switch {
		case b[3] == '8': // UTF8
			return TypeUtf8
		case b[3] == '3': // UTF32
			return TypeUtf32
		case b[4] == '3':
			return TypeUInt32
		case b[4] == '6':
			return TypeUInt64
		case b[4] == '1':
			return TypeUInt16
		case b[4] == '8':
			return TypeUInt8
		}
		return TypeUInt32
	case 'V':
		return TypeString
	}
	return TypeUnknown
}

// KindFromName translates a short type name into a bare kind number; same
// matching rules as TypeFromName.
func KindFromName(name string) uint32 { return KindOf(TypeFromName(name)) }
