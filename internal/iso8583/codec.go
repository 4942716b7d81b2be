package iso8583

import (
	"bytes"
	"fmt"
	"strings"
)

// Pack serializes the message: MTI, dual bitmap, then each populated data
// element in ascending index order using its catalog codec. The output is
// byte exact: the same message always packs to the same bytes.
func (m *Message) Pack() ([]byte, error) {
	if !isDigits(m.mti) || len(m.mti) != 4 {
		return nil, packErr(0, fmt.Errorf("%w: %q", ErrInvalidMTI, m.mti))
	}

	var bm bitmap
	bm.set(1) // secondary bitmap always on the wire in this dialect
	for f := range m.fields {
		bm.set(f)
	}

	var buf bytes.Buffer
	buf.WriteString(m.mti)
	buf.Write(bm[:])

	for _, f := range m.Fields() {
		def := catalog[f]
		value := m.fields[f]
		switch def.Length {
		case LengthFixed:
			buf.WriteString(padFixed(value, def))
		case LengthLLVAR:
			fmt.Fprintf(&buf, "%02d", len(value))
			buf.WriteString(value)
		case LengthLLLVAR:
			fmt.Fprintf(&buf, "%03d", len(value))
			buf.WriteString(value)
		}
	}
	return buf.Bytes(), nil
}

// Unpack parses a packed buffer back into a message. A set bitmap bit whose
// index is not in the catalog is an error: its length is unknowable, so
// continuing would decode garbage for every later field.
func Unpack(data []byte) (*Message, error) {
	if len(data) < 4+bitmapBytes {
		return nil, unpackErr(0, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data)))
	}
	mti := string(data[:4])
	if !isDigits(mti) {
		return nil, unpackErr(0, fmt.Errorf("%w: %q", ErrInvalidMTI, mti))
	}

	var bm bitmap
	copy(bm[:], data[4:4+bitmapBytes])
	offset := 4 + bitmapBytes

	msg := NewMessage(mti)
	for _, f := range bm.presentFields() {
		def, ok := catalog[f]
		if !ok {
			return nil, unpackErr(f, ErrFieldNotCataloged)
		}
		var value string
		var err error
		value, offset, err = decodeField(data, offset, f, def)
		if err != nil {
			return nil, err
		}
		msg.fields[f] = value
	}
	return msg, nil
}

func decodeField(data []byte, offset, field int, def FieldDef) (string, int, error) {
	width := def.Width
	if def.Length != LengthFixed {
		prefixLen := 2
		if def.Length == LengthLLLVAR {
			prefixLen = 3
		}
		if offset+prefixLen > len(data) {
			return "", 0, unpackErr(field, ErrTruncated)
		}
		prefix := string(data[offset : offset+prefixLen])
		if !isDigits(prefix) {
			return "", 0, unpackErr(field, fmt.Errorf("%w: %q", ErrBadLengthPrefix, prefix))
		}
		width = 0
		for _, c := range prefix {
			width = width*10 + int(c-'0')
		}
		if width > def.Width {
			return "", 0, unpackErr(field, fmt.Errorf("%w: %d > max %d", ErrBadLengthPrefix, width, def.Width))
		}
		offset += prefixLen
	}
	if offset+width > len(data) {
		return "", 0, unpackErr(field, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, width, len(data)-offset))
	}
	value := string(data[offset : offset+width])
	if def.Length == LengthFixed && def.Type == TypeAlphanumeric {
		value = strings.TrimRight(value, " ")
	}
	return value, offset + width, nil
}

func padFixed(value string, def FieldDef) string {
	if len(value) >= def.Width {
		return value[:def.Width]
	}
	if def.Type == TypeNumeric {
		return strings.Repeat("0", def.Width-len(value)) + value
	}
	return value + strings.Repeat(" ", def.Width-len(value))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
