package shortener

import (
	"fmt"
	"math"
	"sync"

	"github.com/sqids/sqids-go"
)

var (
	base62 = mustAlphabet("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
	base36 = mustAlphabet("0123456789abcdefghijklmnopqrstuvwxyz")
	base58 = mustAlphabet("123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz")
)

// Alphabet is a positional base-N encoding over a set of unique ASCII characters.
type Alphabet struct {
	chars string
	index [256]int16
}

// NewAlphabet builds an encoding from chars. It needs at least two unique ASCII characters.
func NewAlphabet(chars string) (*Alphabet, error) {
	if len(chars) < 2 {
		return nil, fmt.Errorf("alphabet needs at least 2 characters, got %d", len(chars))
	}

	a := &Alphabet{chars: chars}
	for i := range a.index {
		a.index[i] = -1
	}

	for i := 0; i < len(chars); i++ {
		c := chars[i]
		if c >= 0x80 {
			return nil, fmt.Errorf("alphabet character %q is not ASCII", c)
		}

		if a.index[c] != -1 {
			return nil, fmt.Errorf("alphabet character %q is repeated", c)
		}

		a.index[c] = int16(i)
	}

	return a, nil
}

func mustAlphabet(chars string) *Alphabet {
	a, err := NewAlphabet(chars)
	if err != nil {
		panic(err)
	}

	return a
}

// Base returns the number of characters in the alphabet.
func (a *Alphabet) Base() int {
	return len(a.chars)
}

// Encode writes n most significant digit first. Zero encodes as the first character.
func (a *Alphabet) Encode(n uint64) string {
	if n == 0 {
		return a.chars[:1]
	}

	base := uint64(len(a.chars))

	var buf [64]byte

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = a.chars[n%base]
		n /= base
	}

	return string(buf[i:])
}

// Decode parses a code produced by Encode.
func (a *Alphabet) Decode(code string) (uint64, error) {
	if code == "" {
		return 0, fmt.Errorf("decode: empty code")
	}

	base := uint64(len(a.chars))

	var n uint64

	for i := 0; i < len(code); i++ {
		d := a.index[code[i]]
		if d < 0 {
			return 0, fmt.Errorf("decode: invalid character %q at %d", code[i], i)
		}

		if n > (math.MaxUint64-uint64(d))/base {
			return 0, fmt.Errorf("decode: %q overflows uint64", code)
		}

		n = n*base + uint64(d)
	}

	return n, nil
}

func (a *Alphabet) String() string {
	return a.chars
}

const (
	sqidsAlphabet  = "k3G7QAe51FCsiWrNOYBUwM6XzZvdLT4j9JhyHKg2cVbxfERq0mSoI8lDpunPat"
	sqidsMinLength = 3
)

var (
	sqidsOnce    sync.Once
	sqidsEncoder *sqids.Sqids
	errSqids     error
)

func getSqids() (*sqids.Sqids, error) {
	sqidsOnce.Do(func() {
		sqidsEncoder, errSqids = sqids.New(sqids.Options{
			Alphabet:  sqidsAlphabet,
			MinLength: sqidsMinLength,
		})
	})

	return sqidsEncoder, errSqids
}

func encodeSqids(id uint64) (string, error) {
	sq, err := getSqids()
	if err != nil {
		return "", fmt.Errorf("sqids init: %w", err)
	}

	return sq.Encode([]uint64{id})
}

func decodeSqids(code string) (uint64, error) {
	sq, err := getSqids()
	if err != nil {
		return 0, fmt.Errorf("sqids init: %w", err)
	}

	ids := sq.Decode(code)
	if len(ids) != 1 {
		return 0, fmt.Errorf("decode: %q is not a single sqids id", code)
	}

	// Sqids accepts several spellings of one id; only the canonical one round-trips.
	if canonical, err := sq.Encode(ids); err != nil || canonical != code {
		return 0, fmt.Errorf("decode: %q is not a canonical sqids code", code)
	}

	return ids[0], nil
}
