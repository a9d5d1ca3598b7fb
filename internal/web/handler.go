// Package web serves the minimal server-rendered pages: the signin/signup
// forms and the per-role dashboard landing pages. Dashboard data displays
// live in an external service and are not rendered here.
package web

import (
	"fmt"
	"net/http"

	"github.com/campus-sentry/campus-sentry/internal/domain"
	"github.com/campus-sentry/campus-sentry/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler serves HTML pages.
type Handler struct{}

// NewHandler creates a new page handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes registers page routes. The route guard middleware decides
// who may reach them; the handlers themselves only render.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/signin", h.Signin)
	r.Get("/signup", h.Signup)
	r.Get("/dashboard/student", h.dashboard(domain.RoleStudent))
	r.Get("/dashboard/SecurityGuard", h.dashboard(domain.RoleSecurityGuard))
	r.Get("/dashboard/ambulance", h.dashboard(domain.RoleAmbulance))
}

// Signin handles GET /signin.
func (h *Handler) Signin(w http.ResponseWriter, _ *http.Request) {
	httputil.HTML(w, http.StatusOK, authPage("Sign in", "/api/auth/signin", signinRedirect, `
        <label>Email <input type="email" name="email" required></label>
        <label>Password <input type="password" name="password" required></label>`))
}

// Signup handles GET /signup.
func (h *Handler) Signup(w http.ResponseWriter, _ *http.Request) {
	httputil.HTML(w, http.StatusOK, authPage("Sign up", "/api/auth/signup", signupRedirect, `
        <label>Name <input type="text" name="name" required></label>
        <label>Email <input type="email" name="email" required></label>
        <label>Password <input type="password" name="password" required></label>
        <label>Role
            <select name="role">
                <option value="student">Student</option>
                <option value="SecurityGuard">Security Guard</option>
                <option value="ambulance">Ambulance</option>
            </select>
        </label>`))
}

func (h *Handler) dashboard(role domain.Role) http.HandlerFunc {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Campus Sentry — %[1]s dashboard</title></head>
<body>
    <h1>%[1]s dashboard</h1>
    <p>Signed in. Live detection feeds are served by the monitoring service.</p>
    <form method="post" action="/api/auth/logout">
        <button type="submit">Log out</button>
    </form>
</body>
</html>`, string(role))

	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.HTML(w, http.StatusOK, page)
	}
}

const (
	// After signin the session cookie is set; land on the role's dashboard.
	signinRedirect = `'/dashboard/' + data.user.role`
	// Signup creates the record but issues no session; go sign in.
	signupRedirect = `'/signin'`
)

func authPage(title, action, redirect, fields string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Campus Sentry — %[1]s</title></head>
<body>
    <h1>%[1]s</h1>
    <form id="auth-form">%[4]s
        <button type="submit">%[1]s</button>
    </form>
    <p id="error"></p>
    <script>
        document.getElementById('auth-form').addEventListener('submit', async (e) => {
            e.preventDefault();
            const body = Object.fromEntries(new FormData(e.target));
            const resp = await fetch('%[2]s', {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify(body),
            });
            const data = await resp.json();
            if (!resp.ok) {
                document.getElementById('error').textContent = data.message;
                return;
            }
            window.location = %[3]s;
        });
    </script>
</body>
</html>`, title, action, redirect, fields)
}
