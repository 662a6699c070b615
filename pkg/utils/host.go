package utils

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// UnknownHost labels events whose URL is missing or cannot be parsed.
const UnknownHost = "unknown"

// Non-ASCII hostnames are converted the way browsers do: UTS #46 mapping,
// non-transitional, without the STD3 character restrictions.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
)

// Browsers drop tab and newline characters anywhere in a URL.
var urlNoise = strings.NewReplacer("\t", "", "\n", "", "\r", "")

// SafeHost returns the hostname of rawURL as a browser would report it: lower-cased
// and punycode-encoded. ok is false when the URL is empty, has no scheme, fails to
// parse, has an out of range port or carries no host (about:blank, bare paths).
func SafeHost(rawURL string) (host string, ok bool) {
	rawURL = strings.TrimFunc(rawURL, func(r rune) bool { return r <= ' ' })
	rawURL = urlNoise.Replace(rawURL)
	if rawURL == "" {
		return "", false
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return "", false
	}

	if port := u.Port(); port != "" {
		if _, err := strconv.ParseUint(port, 10, 16); err != nil {
			return "", false
		}
	}

	host = u.Hostname()
	if host == "" {
		return "", false
	}

	if strings.Contains(host, ":") {
		return "[" + strings.ToLower(host) + "]", true
	}
	if isASCII(host) {
		return strings.ToLower(host), true
	}

	host, err = hostProfile.ToASCII(host)
	if err != nil || host == "" {
		return "", false
	}
	return host, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// HostOrUnknown is SafeHost with UnknownHost in place of a failure.
func HostOrUnknown(rawURL string) string {
	if host, ok := SafeHost(rawURL); ok {
		return host
	}
	return UnknownHost
}

// HostMatchesDomain reports whether host is domain itself or one of its subdomains.
func HostMatchesDomain(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "."))
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
