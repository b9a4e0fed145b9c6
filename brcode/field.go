package brcode

import (
	"fmt"
	"strings"

	"github.com/moov-io/iso8583/prefix"
)

// MaxFieldLen is the largest value a two digit length can describe.
const MaxFieldLen = 99

// EncodeField returns tag, the two digit byte length of value and value.
// A value longer than MaxFieldLen bytes is rejected with ErrFieldTooLong;
// callers truncate before encoding.
func EncodeField(tag, value string) (string, error) {
	if len(tag) != 2 || !isDigits(tag) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}

	length, err := prefix.ASCII.LL.EncodeLength(MaxFieldLen, len(value))
	if err != nil {
		return "", fmt.Errorf("%w: tag %s has %d bytes: %v", ErrFieldTooLong, tag, len(value), err)
	}

	var sb strings.Builder
	sb.Grow(len(tag) + len(length) + len(value))
	sb.WriteString(tag)
	sb.Write(length)
	sb.WriteString(value)

	return sb.String(), nil
}

// encodeFields encodes tag/value pairs in order and concatenates them.
func encodeFields(pairs ...string) (string, error) {
	if len(pairs)%2 != 0 {
		return "", fmt.Errorf("brcode: odd number of tag/value arguments")
	}

	var sb strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		f, err := EncodeField(pairs[i], pairs[i+1])
		if err != nil {
			return "", err
		}
		sb.WriteString(f)
	}

	return sb.String(), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
