package iso8583

import (
	"fmt"
	"sort"
	"strconv"
)

// Message is an ordered, sparse mapping from data element index to value,
// plus the four digit MTI. The bitmap is implicit: it is derived from the
// populated indices at pack time. Only indices present in the IMPS catalog
// can be set; re-setting an index replaces the previous value.
type Message struct {
	mti    string
	fields map[int]string
}

// NewMessage constructs an empty message with the given MTI.
func NewMessage(mti string) *Message {
	return &Message{mti: mti, fields: make(map[int]string)}
}

// MTI returns the message type indicator.
func (m *Message) MTI() string { return m.mti }

// Set stores a value for the given data element. It fails when the index is
// not in the catalog or the value exceeds the element's declared width.
func (m *Message) Set(field int, value string) error {
	def, ok := catalog[field]
	if !ok {
		return packErr(field, ErrFieldNotCataloged)
	}
	if def.Length == LengthFixed {
		if len(value) > def.Width {
			return packErr(field, fmt.Errorf("%w: %d > %d", ErrFieldTooLong, len(value), def.Width))
		}
	} else if len(value) > def.Width {
		return packErr(field, fmt.Errorf("%w: %d > %d", ErrFieldTooLong, len(value), def.Width))
	}
	m.fields[field] = value
	return nil
}

// SetNumeric stores a non-negative integer zero padded to the element's
// fixed width.
func (m *Message) SetNumeric(field int, value int64) error {
	def, ok := catalog[field]
	if !ok {
		return packErr(field, ErrFieldNotCataloged)
	}
	return m.Set(field, fmt.Sprintf("%0*d", def.Width, value))
}

// Get returns the stored value for the element and whether it is populated.
func (m *Message) Get(field int) (string, bool) {
	v, ok := m.fields[field]
	return v, ok
}

// GetString returns the stored value, or the empty string when absent.
func (m *Message) GetString(field int) string {
	return m.fields[field]
}

// GetInt parses the stored value as a base-10 integer. Absent or
// non-numeric values return zero.
func (m *Message) GetInt(field int) int64 {
	v, ok := m.fields[field]
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Has reports whether the element is populated.
func (m *Message) Has(field int) bool {
	_, ok := m.fields[field]
	return ok
}

// Fields returns the populated element indices in ascending order.
func (m *Message) Fields() []int {
	out := make([]int, 0, len(m.fields))
	for f := range m.fields {
		out = append(out, f)
	}
	sort.Ints(out)
	return out
}
