package handlers

import "time"

// ShortenRequest is the request body for shortening a URL.
type ShortenRequest struct {
	Body struct {
		URL      string `doc:"The URL to shorten"                              example:"https://example.com/very/long/path" json:"url"`
		Strategy string `doc:"Encoding strategy: base62, base36, base58, sqids" example:"base62"                             json:"strategy,omitempty" required:"false"`
	}
}

// ShortenResponse is the response for a successfully shortened URL.
type ShortenResponse struct {
	Body struct {
		ID          int64  `doc:"Record identifier" example:"123456789"                          json:"id"`
		OriginalURL string `doc:"The original URL"  example:"https://example.com/very/long/path" json:"originalUrl"`
		ShortenURL  string `doc:"The short URL"     example:"example.com/8M0kX"                  json:"shortenUrl"`
		Strategy    string `doc:"Strategy used"     example:"base62"                             json:"strategy"`
	}
}

// ResolveRequest looks up a short URL.
type ResolveRequest struct {
	ShortURL string `doc:"The short URL" example:"example.com/8M0kX" query:"shortUrl" required:"true"`
}

// ResolveResponse is the stored record for a short URL.
type ResolveResponse struct {
	Body struct {
		ID          int64     `doc:"Record identifier" json:"id"`
		OriginalURL string    `doc:"The original URL"  json:"originalUrl"`
		ShortenURL  string    `doc:"The short URL"     json:"shortenUrl"`
		CreatedAt   time.Time `doc:"Creation time"     json:"createdAt"`
	}
}
