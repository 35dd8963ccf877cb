package http

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPort is used when the URL carries no explicit port
const DefaultPort = 80

// Target is the host, port and path a single request is sent to
type Target struct {
	// Host is the URL authority as written, including any userinfo and port.
	// It is sent verbatim as the Host header.
	Host string

	// Hostname is the authority with userinfo and port removed; it is what
	// gets dialed
	Hostname string

	Port int
	Path string
}

// Resolve splits an absolute URL into a Target. It never fails: a URL that
// cannot be parsed yields a Target without a host, and the problem shows up
// as a ConnectionError when the request is sent.
func Resolve(rawURL string) Target {
	target := Target{Port: DefaultPort, Path: "/"}

	u, err := url.Parse(rawURL)
	if err != nil {
		return target
	}

	target.Hostname = u.Hostname()
	if u.Host != "" || u.User != nil {
		target.Host = rawAuthority(rawURL)
	}

	if p := u.Port(); p != "" {
		if port, err := strconv.Atoi(p); err == nil {
			target.Port = port
		}
	}

	if path := u.EscapedPath(); path != "" {
		target.Path = path
	}

	return target
}

// Addr returns the host:port pair to dial
func (t Target) Addr() string {
	return net.JoinHostPort(t.Hostname, strconv.Itoa(t.Port))
}

// rawAuthority returns the userinfo@host:port part of rawURL exactly as
// written, without url.URL's re-escaping of the userinfo
func rawAuthority(rawURL string) string {
	_, rest, ok := strings.Cut(rawURL, "//")
	if !ok {
		return ""
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
