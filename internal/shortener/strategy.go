package shortener

import (
	"strings"

	"github.com/pkg/errors"
)

// IDStrategy names the encoding used to turn a record identifier into a short code.
type IDStrategy string

const (
	StrategyBase62 IDStrategy = "base62"
	StrategyBase36 IDStrategy = "base36"
	StrategyBase58 IDStrategy = "base58"
	StrategySqids  IDStrategy = "sqids"
)

// DefaultStrategy is used when callers do not pick one.
const DefaultStrategy = StrategyBase62

// Strategies returns every supported strategy in a stable order.
func Strategies() []IDStrategy {
	return []IDStrategy{StrategyBase62, StrategyBase36, StrategyBase58, StrategySqids}
}

// ParseIDStrategy resolves a strategy name, ignoring case and surrounding spaces.
func ParseIDStrategy(name string) (IDStrategy, error) {
	s := IDStrategy(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", errors.Wrapf(ErrUnknownStrategy, "%q", name)
	}

	return s, nil
}

// Valid reports whether s has an encoder.
func (s IDStrategy) Valid() bool {
	switch s {
	case StrategyBase62, StrategyBase36, StrategyBase58, StrategySqids:
		return true
	default:
		return false
	}
}

func (s IDStrategy) String() string {
	return string(s)
}

// Encode maps id to its short code. Distinct ids always produce distinct codes.
func (s IDStrategy) Encode(id uint64) (string, error) {
	switch s {
	case StrategyBase62:
		return base62.Encode(id), nil
	case StrategyBase36:
		return base36.Encode(id), nil
	case StrategyBase58:
		return base58.Encode(id), nil
	case StrategySqids:
		return encodeSqids(id)
	default:
		return "", errors.Wrapf(ErrUnknownStrategy, "%q", string(s))
	}
}

// Decode reverses Encode.
func (s IDStrategy) Decode(code string) (uint64, error) {
	switch s {
	case StrategyBase62:
		return base62.Decode(code)
	case StrategyBase36:
		return base36.Decode(code)
	case StrategyBase58:
		return base58.Decode(code)
	case StrategySqids:
		return decodeSqids(code)
	default:
		return 0, errors.Wrapf(ErrUnknownStrategy, "%q", string(s))
	}
}
