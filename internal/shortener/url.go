package shortener

import "time"

// Separator joins the original host and the encoded identifier in a short URL.
const Separator = "/"

// URL is a shortened URL record.
type URL struct {
	ID           int64 // assigned by the store on save, 0 until then
	OriginalURL  string
	ShortenedURL string // empty until the identifier has been encoded
	CreatedAt    time.Time
}

// Result is returned by a successful Shorten call.
type Result struct {
	ID          int64
	OriginalURL string
	ShortenURL  string
	Strategy    IDStrategy
}
