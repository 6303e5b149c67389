package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CookieName is the cookie carrying the session ID
const CookieName = "session_id"

// HandlerConfig holds the HTTP-level settings of the handler
type HandlerConfig struct {
	// SecureCookie marks the session cookie Secure (production)
	SecureCookie bool
	// Timeout bounds one login attempt
	Timeout time.Duration
}

// Handler renders and processes the login and registration pages
type Handler struct {
	service Service
	logger  *slog.Logger
	cfg     HandlerConfig
	now     func() time.Time
}

// NewHandler creates a new authentication handler
func NewHandler(service Service, logger *slog.Logger, cfg HandlerConfig) *Handler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Handler{
		service: service,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// LoginForm handles GET /login
func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Registered":          c.Query("registered") == "1",
		"RegistrationEnabled": h.service.RegistrationEnabled(),
	})
}

// Login handles POST /login. The view only ever shows the outcome of the
// current attempt.
func (h *Handler) Login(c *gin.Context) {
	var creds Credentials
	if err := c.ShouldBind(&creds); err != nil {
		creds = Credentials{}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.Timeout)
	defer cancel()

	current, _ := c.Cookie(CookieName)
	sess, err := h.service.Login(ctx, current, creds)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error":               Message(err),
			"Email":               strings.TrimSpace(creds.Email),
			"RegistrationEnabled": h.service.RegistrationEnabled(),
		})
		return
	}

	h.SetSessionCookie(c, sess)
	c.Redirect(http.StatusSeeOther, "/home")
}

// RegisterForm handles GET /register
func (h *Handler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Disabled": !h.service.RegistrationEnabled(),
	})
}

// Register handles POST /register
func (h *Handler) Register(c *gin.Context) {
	if !h.service.RegistrationEnabled() {
		c.HTML(http.StatusForbidden, "register.html", gin.H{
			"Disabled": true,
			"Error":    MessageRegistrationDisabled,
		})
		return
	}

	trimFormValue(c, "email")

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Error": validationMessage(err),
			"Email": strings.TrimSpace(req.Email),
		})
		return
	}

	if _, err := h.service.Register(c.Request.Context(), req); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrEmailExists) {
			status = http.StatusConflict
		}
		c.HTML(status, "register.html", gin.H{
			"Error": Message(err),
			"Email": strings.TrimSpace(req.Email),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/login?registered=1")
}

// Logout handles POST /logout
func (h *Handler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(CookieName); err == nil {
		if err := h.service.Logout(c.Request.Context(), sessionID); err != nil {
			h.logger.ErrorContext(c.Request.Context(), "failed to delete session",
				"error", err,
				"request_id", c.GetString("request_id"),
			)
		}
	}

	h.ClearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

// SetSessionCookie writes the cookie for sess
func (h *Handler) SetSessionCookie(c *gin.Context, sess *session.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, sess.ID, sess.MaxAge(h.now()), "/", "", h.cfg.SecureCookie, true)
}

// ClearSessionCookie expires the session cookie in the browser
func (h *Handler) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", h.cfg.SecureCookie, true)
}

// trimFormValue strips surrounding whitespace from a submitted form field
// before binding validates it
func trimFormValue(c *gin.Context, field string) {
	if err := c.Request.ParseForm(); err != nil {
		return
	}
	for _, values := range []url.Values{c.Request.Form, c.Request.PostForm} {
		if v, ok := values[field]; ok && len(v) > 0 {
			values.Set(field, strings.TrimSpace(v[0]))
		}
	}
}

// validationMessage turns a binding error into a message for the form
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please fill in all fields."
	}

	switch fe := verrs[0]; fe.Field() {
	case "Email":
		return "Please enter a valid email address."
	case "Password":
		if fe.Tag() == "required" {
			return "Please enter a password."
		}
		return "Password must be between 8 and 128 characters."
	case "ConfirmPassword":
		return "Passwords do not match."
	default:
		return "Please fill in all fields."
	}
}
