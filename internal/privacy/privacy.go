// Package privacy scrubs credentials and hostnames out of text that ends up in
// logs, telemetry or user-visible error messages.
package privacy

import (
	"crypto/sha256"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9+.-]*://\S+`)

// ScrubMessage replaces every URL in message with its RedactURL form.
func ScrubMessage(message string) string {
	return urlPattern.ReplaceAllStringFunc(message, RedactURL)
}

// RedactURL keeps the scheme and port of rawURL, replaces the host with its
// category and drops credentials, path and query. Unparseable input becomes
// a short hash.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		hash := sha256.Sum256([]byte(rawURL))
		return fmt.Sprintf("url-hash-%x", hash[:8])
	}

	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(categorizeHost(u.Hostname()))
	if port := u.Port(); port != "" {
		b.WriteString(":")
		b.WriteString(port)
	}
	return b.String()
}

// WrapError returns err with a scrubbed message. errors.Is and errors.As still
// see the original chain.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	return &SanitizedError{original: err, sanitizedMsg: ScrubMessage(err.Error())}
}

// SanitizedError carries a scrubbed message for an underlying error.
type SanitizedError struct {
	original     error
	sanitizedMsg string
}

func (e *SanitizedError) Error() string { return e.sanitizedMsg }

func (e *SanitizedError) Unwrap() error { return e.original }

func categorizeHost(host string) string {
	switch {
	case host == "":
		return "no-host"
	case host == "localhost":
		return "localhost"
	}
	if ip := net.ParseIP(host); ip != nil {
		switch {
		case ip.IsLoopback():
			return "localhost"
		case ip.IsPrivate():
			return "private-ip"
		default:
			return "public-ip"
		}
	}
	if strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".lan") || !strings.Contains(host, ".") {
		return "local-host"
	}
	return "remote-host"
}
