package brcode

import "fmt"

// Validate reports the first required attribute missing from b. It is an
// optional check; Build accepts incomplete builders.
func Validate(b *Builder) error {
	if err := b.Err(); err != nil {
		return err
	}

	switch {
	case b.PixKey() == "":
		return fmt.Errorf("%w: pix key", ErrMissingAttribute)
	case b.MerchantName() == "":
		return fmt.Errorf("%w: merchant name", ErrMissingAttribute)
	case !b.AmountFormat().IsPositive():
		return fmt.Errorf("%w: amount", ErrMissingAttribute)
	}

	return nil
}
