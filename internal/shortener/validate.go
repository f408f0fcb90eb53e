package shortener

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ValidateURL checks that raw is an absolute URL with a scheme and a host,
// and returns its hostname (without port).
func ValidateURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidURL, "parse %q", raw)
	}

	if u.Scheme == "" {
		return "", errors.Wrapf(ErrInvalidURL, "%q has no scheme", raw)
	}

	host := u.Hostname()
	if strings.TrimSpace(host) == "" {
		return "", errors.Wrapf(ErrInvalidURL, "%q has no host", raw)
	}

	return host, nil
}
