package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the shortening routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "shorten-url",
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Shorten URL",
		Description:   "Saves the URL and returns its short form for the chosen encoding strategy.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
	}, urlHandler.ShortenURL)

	huma.Register(api, huma.Operation{
		OperationID: "resolve-url",
		Method:      http.MethodGet,
		Path:        "/resolve",
		Summary:     "Resolve short URL",
		Description: "Returns the stored record for a short URL.",
		Tags:        []string{"URLs"},
	}, urlHandler.ResolveURL)
}
