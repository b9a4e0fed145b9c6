// Package pixkey classifies, validates and masks pix keys.
package pixkey

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind is the type of a pix key.
type Kind string

const (
	KindUnknown Kind = "unknown"
	KindCPF     Kind = "cpf"
	KindCNPJ    Kind = "cnpj"
	KindEmail   Kind = "email"
	KindPhone   Kind = "phone"
	KindEVP     Kind = "evp"
)

// maxEmailLen is the longest email accepted as a key.
const maxEmailLen = 77

// Detect returns the kind of key. It does not check CPF/CNPJ digits; see Validate.
func Detect(key string) Kind {
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return KindUnknown
	case strings.Contains(key, "@"):
		return KindEmail
	case strings.HasPrefix(key, "+"):
		return KindPhone
	case len(key) == 36 && isUUID(key):
		return KindEVP
	}

	digits := Normalize(key)
	if !IsDigits(digits) {
		return KindUnknown
	}
	switch len(digits) {
	case 11:
		return KindCPF
	case 14:
		return KindCNPJ
	}

	return KindUnknown
}

// Validate checks that key is a well formed pix key of a known kind.
func Validate(key string) error {
	key = strings.TrimSpace(key)
	switch Detect(key) {
	case KindCPF:
		if !validCPF(Normalize(key)) {
			return fmt.Errorf("invalid cpf check digits")
		}
	case KindCNPJ:
		if !validCNPJ(Normalize(key)) {
			return fmt.Errorf("invalid cnpj check digits")
		}
	case KindEmail:
		at := strings.LastIndex(key, "@")
		if at < 1 || at == len(key)-1 || !strings.Contains(key[at:], ".") {
			return fmt.Errorf("invalid email key")
		}
		if len(key) > maxEmailLen {
			return fmt.Errorf("email key longer than %d", maxEmailLen)
		}
	case KindPhone:
		num := key[1:]
		if !IsDigits(num) || !strings.HasPrefix(num, "55") {
			return fmt.Errorf("phone key must be +55 followed by digits")
		}
		if l := len(num) - 2; l < 10 || l > 11 {
			return fmt.Errorf("phone key must have 10 or 11 digits after +55 (got %d)", l)
		}
	case KindEVP:
		return nil
	default:
		return fmt.Errorf("unrecognized pix key")
	}

	return nil
}

// Normalize drops the punctuation used when printing CPF and CNPJ numbers.
func Normalize(key string) string {
	key = strings.TrimSpace(key)
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', '/', ' ':
			return -1
		default:
			return r
		}
	}, key)
}

// Mask hides most of a key so it can be written to logs.
func Mask(key string) string {
	key = strings.TrimSpace(key)
	if at := strings.LastIndex(key, "@"); at > 0 {
		return key[:1] + strings.Repeat("*", at-1) + key[at:]
	}
	n := len(key)
	if n == 0 {
		return ""
	}
	if n <= 5 {
		return strings.Repeat("*", n)
	}
	return key[:3] + strings.Repeat("*", n-5) + key[n-2:]
}

func IsDigits(s string) bool {
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

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func validCPF(cpf string) bool {
	if len(cpf) != 11 || allSame(cpf) {
		return false
	}
	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(cpf[i]-'0') * (n + 1 - i)
		}
		d := sum * 10 % 11
		if d == 10 {
			d = 0
		}
		if int(cpf[n]-'0') != d {
			return false
		}
	}
	return true
}

var cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

func validCNPJ(cnpj string) bool {
	if len(cnpj) != 14 || allSame(cnpj) {
		return false
	}
	for _, n := range []int{12, 13} {
		// the first digit skips the leading weight
		weights := cnpjWeights[13-n:]
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(cnpj[i]-'0') * weights[i]
		}
		d := 0
		if r := sum % 11; r >= 2 {
			d = 11 - r
		}
		if int(cnpj[n]-'0') != d {
			return false
		}
	}
	return true
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
