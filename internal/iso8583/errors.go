package iso8583

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMTI is returned when the MTI is not exactly four ASCII digits.
	ErrInvalidMTI = errors.New("invalid MTI")
	// ErrFieldNotCataloged is returned when a data element index is not part
	// of the fixed IMPS field catalog.
	ErrFieldNotCataloged = errors.New("field not in catalog")
	// ErrFieldTooLong is returned when a value exceeds the declared width or
	// maximum length of its data element.
	ErrFieldTooLong = errors.New("field value too long")
	// ErrBadLengthPrefix is returned when an LLVAR/LLLVAR length prefix is
	// not numeric or declares more bytes than remain in the buffer.
	ErrBadLengthPrefix = errors.New("bad variable length prefix")
	// ErrTruncated is returned when a buffer ends before a declared field
	// width has been consumed.
	ErrTruncated = errors.New("message truncated")
)

// CodecError annotates a pack or unpack failure with the data element index
// it occurred on. Field is zero for failures outside any field (MTI, bitmap).
type CodecError struct {
	Field int
	Op    string
	Err   error
}

func (e *CodecError) Error() string {
	if e.Field == 0 {
		return fmt.Sprintf("iso8583 %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("iso8583 %s DE%d: %v", e.Op, e.Field, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

func packErr(field int, err error) error {
	return &CodecError{Field: field, Op: "pack", Err: err}
}

func unpackErr(field int, err error) error {
	return &CodecError{Field: field, Op: "unpack", Err: err}
}
