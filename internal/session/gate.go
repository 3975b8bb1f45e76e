// Package session is the sign-in / sign-up gate in front of the dashboard.
package session

import (
	"context"
	"net/http"
	"time"

	"taskboard/internal/backend"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

// Markers prefix every gate message.
const (
	FailureMarker = "❌ "
	SuccessMarker = "✅ "

	MsgSignedIn     = SuccessMarker + "Login successful"
	MsgVerifyEmail  = SuccessMarker + "Check your email to verify your account"
	DashboardPath   = "/dashboard"
	defaultLifetime = time.Hour
)

// Message is the single line shown under the login form.
type Message struct {
	Text string
	OK   bool
}

// Result tells the page what to show and where to go.
type Result struct {
	Message  Message
	Redirect string
	// Session is set only after a successful sign-in.
	Session *models.Session
}

// Gate forwards credentials to the auth service. It never validates them itself.
type Gate struct {
	auth backend.Auth
}

// NewGate builds a Gate.
func NewGate(auth backend.Auth) *Gate {
	return &Gate{auth: auth}
}

// SignIn returns a redirect to the dashboard on success.
func (g *Gate) SignIn(ctx context.Context, email, password string) Result {
	s, err := g.auth.SignIn(ctx, email, password)
	if err != nil {
		logger.Info(ctx, "Sign-in rejected", "error", err)
		return failure(err)
	}
	return Result{
		Message:  Message{Text: MsgSignedIn, OK: true},
		Redirect: DashboardPath,
		Session:  s,
	}
}

// SignUp asks the user to verify by email; it does not sign them in.
func (g *Gate) SignUp(ctx context.Context, email, password string) Result {
	if err := g.auth.SignUp(ctx, email, password); err != nil {
		logger.Info(ctx, "Sign-up rejected", "error", err)
		return failure(err)
	}
	return Result{Message: Message{Text: MsgVerifyEmail, OK: true}}
}

// SignOut revokes the session. Failures are logged; the caller clears the cookie anyway.
func (g *Gate) SignOut(ctx context.Context, token string) {
	if err := g.auth.SignOut(ctx, token); err != nil {
		logger.Warn(ctx, "Sign-out failed", "error", err)
	}
}

func failure(err error) Result {
	return Result{Message: Message{Text: FailureMarker + err.Error()}}
}

// Cookies writes and clears the access-token cookie.
type Cookies struct {
	Name   string
	Secure bool
}

// Set stores the session's access token. Lifetime follows the token expiry.
func (c Cookies) Set(w http.ResponseWriter, s *models.Session) {
	maxAge := int(defaultLifetime / time.Second)
	if !s.ExpiresAt.IsZero() {
		if d := time.Until(s.ExpiresAt); d > 0 {
			maxAge = int(d / time.Second)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    s.AccessToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cookie.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token reads the access token from the request, "" when absent.
func (c Cookies) Token(r *http.Request) string {
	ck, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return ck.Value
}
