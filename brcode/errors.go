package brcode

import "errors"

var (
	// ErrFieldTooLong is returned when a field value does not fit the
	// two digit length of the TLV encoding.
	ErrFieldTooLong = errors.New("brcode: field value too long")

	// ErrInvalidTag is returned for tags that are not two ASCII digits.
	ErrInvalidTag = errors.New("brcode: invalid tag")

	// ErrInvalidAmount is returned for negative, NaN, infinite or
	// unparsable amounts.
	ErrInvalidAmount = errors.New("brcode: invalid amount")

	// ErrMissingAttribute is returned by Validate.
	ErrMissingAttribute = errors.New("brcode: missing attribute")
)
