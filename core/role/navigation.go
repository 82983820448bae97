package role

import (
	"strings"

	"github.com/skillbridge/portal/core/session"
)

// SignInPath is where unauthenticated users are sent.
const SignInPath = "/signin"

var (
	// authOnlyPaths only make sense without a session.
	authOnlyPaths = map[string]bool{
		SignInPath:         true,
		"/signup":          true,
		"/forgot-password": true,
		"/reset-password":  true,
	}

	// areas maps the first path segment to the roles allowed in it.
	areas = map[string][]string{
		"student":         {Student},
		"tutor":           {Tutor},
		"lsm":             {LSM},
		"mentor":          {Mentor},
		"placement":       {Placement},
		"program-manager": {ProgramManager},
		"admin":           {Admin},
		"finance":         {Finance},
		"marketing":       {Marketing},
		"hr":              {HRPartner},
		"sales":           {SalesAgent, SalesLead, SalesHead, SalesAdmin, Admin},
	}
)

// Navigation is the outcome of a path-based navigation attempt.
type Navigation struct {
	Path     string `json:"path"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

func allow(p string) Navigation        { return Navigation{Path: p, Allowed: true} }
func redirect(p, to string) Navigation { return Navigation{Path: p, Redirect: to} }

// Resolve decides whether sess may open path p, and where to send it otherwise:
//   - no session: only auth-only paths are open, everything else goes to SignInPath;
//   - auth-only paths and "/" send a session to its dashboard;
//   - another role's area sends a session to its dashboard.
func Resolve(p string, sess session.Session) Navigation {
	p = cleanPath(p)

	if !sess.IsAuthenticated() {
		if authOnlyPaths[p] {
			return allow(p)
		}
		return redirect(p, SignInPath)
	}

	dashboard := DashboardPath(sess.Role())
	if authOnlyPaths[p] || p == "/" {
		return redirect(p, dashboard)
	}
	if allowed, ok := areas[firstSegment(p)]; ok && !Is(sess.Role(), allowed...) {
		if p == dashboard {
			// unknown roles land on the default dashboard; don't loop
			return allow(p)
		}
		return redirect(p, dashboard)
	}
	return allow(p)
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}
