// Package routeguard decides whether a navigation target is reachable given
// the current session. It holds no state of its own: every decision reads a
// fresh session snapshot.
package routeguard

import (
	"strings"

	"github.com/productrhq/productr/internal/client/domain"
)

// Decision is the outcome of a navigation check.
type Decision int

const (
	// Allow renders the target.
	Allow Decision = iota
	// Interstitial means session restoration is still running; show a
	// neutral state and make no redirect yet. Deciding early would
	// bounce a restored session through the login page.
	Interstitial
	// RedirectLogin sends an unauthenticated visitor to the login entry
	// point. The original target is discarded.
	RedirectLogin
	// RedirectHome sends an authenticated visitor away from a
	// public-only page to the default landing route.
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Interstitial:
		return "interstitial"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Well-known routes.
const (
	RouteHome  = "/"
	RouteLogin = "/login"
)

// publicOnly are reachable only while logged out: login, registration and
// the OTP entry step.
var publicOnly = []string{
	"/login",
	"/otp",
	"/register",
}

// protected require an authenticated session.
var protected = []string{
	"/",
	"/products",
	"/items",
	"/items/:id",
	"/items/create",
	"/items/:id/edit",
	"/users",
}

// Decide evaluates a navigation to target under the given session.
// Unknown targets never render: they fall through to the login entry point,
// which itself bounces authenticated visitors home.
func Decide(sess domain.Session, target string) Decision {
	if sess.Loading {
		return Interstitial
	}

	if matchAny(publicOnly, target) {
		if sess.Authenticated() {
			return RedirectHome
		}
		return Allow
	}

	if !sess.Authenticated() {
		return RedirectLogin
	}

	if matchAny(protected, target) {
		return Allow
	}

	// Authenticated but unknown: the catch-all sends everyone to login,
	// and login turns an authenticated visitor around to the landing
	// route. Collapse the two hops.
	return RedirectHome
}

// matchAny reports whether target matches one of the patterns. Patterns use
// ":name" segments as single-segment wildcards.
func matchAny(patterns []string, target string) bool {
	for _, p := range patterns {
		if match(p, target) {
			return true
		}
	}
	return false
}

func match(pattern, target string) bool {
	if pattern == target {
		return true
	}

	ps := splitPath(pattern)
	ts := splitPath(target)
	if len(ps) != len(ts) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			continue
		}
		if ps[i] != ts[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
