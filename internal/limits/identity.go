package limits

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
)

// UserHeader carries the authenticated account email, injected by the
// upstream auth proxy. Requests without it are treated as anonymous.
const UserHeader = "X-Caravel-User"

// Identity is the quota key for one caller.
type Identity struct {
	Key           string
	User          string
	Authenticated bool
}

// Identify derives the limiter identity for a request: the account email for
// authenticated callers, a hashed IP + User-Agent composite for anonymous ones.
func Identify(r *http.Request) Identity {
	if user := r.Header.Get(UserHeader); user != "" {
		return Identity{
			Key:           "user:" + user,
			User:          user,
			Authenticated: true,
		}
	}

	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}

	sum := sha256.Sum256([]byte(ip + "|" + r.UserAgent()))
	return Identity{
		Key: "anon:" + hex.EncodeToString(sum[:8]),
	}
}
