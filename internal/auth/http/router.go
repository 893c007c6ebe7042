package http

import (
	"context"
	"net/http"
	"time"

	"github.com/mailsign/signup-backend/internal/auth/service"
	"github.com/mailsign/signup-backend/internal/common/constants"
	commonhttp "github.com/mailsign/signup-backend/internal/common/http"
	"github.com/mailsign/signup-backend/internal/common/logger"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string       `json:"message"`
	NewUser userResponse `json:"newUser"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Email   string `json:"email"`
}

type Handler struct {
	auth     *service.AuthService
	errs     *commonhttp.ErrorHandler
	log      *logger.Logger
	timeout  time.Duration
	serveMux *http.ServeMux
}

func NewHandler(auth *service.AuthService, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:    auth,
		errs:    commonhttp.NewErrorHandler(log),
		log:     log,
		timeout: timeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.HandleFunc("/api/send-email", h.register)
	mux.HandleFunc("/api/login", h.login)
	mux.HandleFunc("/api/logout", h.logout)
	h.serveMux = mux

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.serveMux.ServeHTTP(w, r)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req credentialsRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		h.errs.HandleError(w, r, service.ErrFieldsRequired)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.auth.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, registerResponse{
		Message: "Email sent successfully",
		NewUser: userResponse{
			ID:        string(result.User.ID),
			Email:     result.User.Email,
			CreatedAt: result.User.CreatedAt,
		},
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req credentialsRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		h.errs.HandleError(w, r, service.ErrFieldsRequired)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.auth.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	setSessionCookie(w, r, result.SessionID)
	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   result.Token,
		Email:   result.Email,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	var sessionID string
	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	if err := h.auth.Logout(ctx, sessionID); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	clearSessionCookie(w, r)
	commonhttp.WriteMessage(w, http.StatusOK, "Successfully logged out.")
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   r.TLS != nil,
	})
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   r.TLS != nil,
	})
}
