package identity

import (
	"net/http"
	"strings"

	"github.com/campus-sentry/campus-sentry/internal/domain"
	"github.com/campus-sentry/campus-sentry/internal/identity/jwt"
	"github.com/campus-sentry/campus-sentry/internal/pkg/ctxlog"
	"github.com/campus-sentry/campus-sentry/internal/pkg/metrics"
)

// SigninPath is where unauthenticated users land.
const SigninPath = "/signin"

var authPages = []string{"/signin", "/signup"}

// RouteGuard intercepts every request before handler dispatch and enforces
// coarse role-based routing via redirects.
//
// It decodes the role claim WITHOUT signature verification: the guard runs at
// the edge on every request, and its decisions are routing UX only. Handlers
// that need real authorization call Sessions.CurrentUser, which verifies.
// The guard never fails a request; every failure path resolves to a redirect.
func RouteGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch {
		case isProtectedPath(path):
			guardProtected(w, r, next)
		case isAuthPage(path):
			guardAuthPage(w, r, next)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func isProtectedPath(path string) bool {
	for _, prefix := range domain.RoleDashboards {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isAuthPage(path string) bool {
	for _, prefix := range authPages {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func guardProtected(w http.ResponseWriter, r *http.Request, next http.Handler) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		metrics.RecordGuardRedirect("no_session")
		http.Redirect(w, r, SigninPath, http.StatusFound)
		return
	}

	claims, err := jwt.DecodeUnverified(cookie.Value)
	if err != nil {
		ctxlog.FromContext(r.Context()).Debug("guard decode failed", "error", err)
		metrics.RecordGuardRedirect("malformed_token")
		clearSessionCookie(w)
		http.Redirect(w, r, SigninPath, http.StatusFound)
		return
	}

	// A user may only view the dashboard mapped to their role; URL
	// manipulation across dashboards redirects to their own. Roles outside
	// the mapping pass through unchallenged.
	if allowed, ok := claims.Role.DashboardPath(); ok && !strings.HasPrefix(r.URL.Path, allowed) {
		metrics.RecordGuardRedirect("wrong_dashboard")
		http.Redirect(w, r, allowed, http.StatusFound)
		return
	}

	next.ServeHTTP(w, r)
}

func guardAuthPage(w http.ResponseWriter, r *http.Request, next http.Handler) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		next.ServeHTTP(w, r)
		return
	}

	claims, err := jwt.DecodeUnverified(cookie.Value)
	if err != nil {
		// Invalid token: drop it and let them reach the auth page.
		clearSessionCookie(w)
		next.ServeHTTP(w, r)
		return
	}

	// Already-authenticated users do not see signin/signup.
	if dashboard, ok := claims.Role.DashboardPath(); ok {
		metrics.RecordGuardRedirect("already_authenticated")
		http.Redirect(w, r, dashboard, http.StatusFound)
		return
	}

	next.ServeHTTP(w, r)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
