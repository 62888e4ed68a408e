// Package gstin checks Indian GST registration numbers.
//
// A GSTIN has 15 characters: a two-digit state code, the holder's PAN
// (five letters, four digits, one letter), an entity number, the letter Z
// and a mod-36 check character computed over the first fourteen.
package gstin

import (
	"errors"
	"fmt"
	"strings"
)

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Length of a GSTIN.
const Length = 15

var (
	ErrLength    = errors.New("gstin: must have 15 characters")
	ErrFormat    = errors.New("gstin: malformed")
	ErrCheckChar = errors.New("gstin: check character mismatch")
)

// Normalize trims spaces and upper-cases s.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Validate checks the layout and check character of an already normalized GSTIN.
func Validate(s string) error {
	if len(s) != Length {
		return ErrLength
	}
	for i := 0; i < Length; i++ {
		if strings.IndexByte(charset, s[i]) < 0 {
			return fmt.Errorf("%w: invalid character %q at %d", ErrFormat, s[i], i+1)
		}
	}
	if !isDigits(s[0:2]) || s[0:2] == "00" {
		return fmt.Errorf("%w: state code %q", ErrFormat, s[0:2])
	}
	if !isLetters(s[2:7]) || !isDigits(s[7:11]) || !isLetters(s[11:12]) {
		return fmt.Errorf("%w: PAN %q", ErrFormat, s[2:12])
	}
	if s[12] == '0' {
		return fmt.Errorf("%w: entity number must not be 0", ErrFormat)
	}
	if s[13] != 'Z' {
		return fmt.Errorf("%w: 14th character must be Z", ErrFormat)
	}
	want, _ := CheckChar(s[:14])
	if s[14] != want {
		return fmt.Errorf("%w: expected %c, got %c", ErrCheckChar, want, s[14])
	}
	return nil
}

// CheckChar computes the check character for the first 14 characters of a GSTIN.
// Odd positions weigh 1 and even positions 2; each product contributes its
// base-36 quotient plus remainder.
func CheckChar(prefix string) (byte, error) {
	if len(prefix) != Length-1 {
		return 0, fmt.Errorf("gstin: check character needs 14 characters, got %d", len(prefix))
	}
	var sum int
	for i := 0; i < len(prefix); i++ {
		v := strings.IndexByte(charset, prefix[i])
		if v < 0 {
			return 0, fmt.Errorf("%w: invalid character %q at %d", ErrFormat, prefix[i], i+1)
		}
		v *= 1 + i%2
		sum += v/36 + v%36
	}
	return charset[(36-sum%36)%36], nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
