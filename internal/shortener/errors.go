package shortener

import "errors"

var (
	// ErrInvalidURL is returned when the original URL is not an absolute URL.
	ErrInvalidURL = errors.New("malformed url")

	// ErrNotFound is returned by stores when no record matches a lookup.
	ErrNotFound = errors.New("url not found")

	// ErrUnknownStrategy is returned for an IDStrategy that has no encoder.
	ErrUnknownStrategy = errors.New("unknown id strategy")

	// ErrMissingIdentifier is returned when the store saved a record without assigning an ID.
	ErrMissingIdentifier = errors.New("store did not assign an identifier")

	// ErrShortURLTaken is returned when a short URL cannot be assigned because the record
	// already has a different one, or another record owns it.
	ErrShortURLTaken = errors.New("short url already assigned")
)
