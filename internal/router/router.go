// Package router wires the HTTP surface: routes, request parsing, session
// handling and the mapping from service errors to status codes. All business
// logic is delegated to the account and link services.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mpetrenko/shortly/internal/apperr"
	"github.com/mpetrenko/shortly/internal/gzippedhttp"
	"github.com/mpetrenko/shortly/internal/links"
	"github.com/mpetrenko/shortly/internal/logger"
	"github.com/mpetrenko/shortly/internal/models"
	"github.com/mpetrenko/shortly/internal/user"
)

type accountsService interface {
	CreateUser(ctx context.Context, email, password string) (*user.User, error)
	VerifyUser(ctx context.Context, email, password string) (*user.User, error)
	GetUser(ctx context.Context, userID string) (*user.User, error)
}

type linksService interface {
	CreateLink(ctx context.Context, ownerID, originalURL, customCode, expiresIn string) (*links.Link, error)
	ListLinks(ctx context.Context, ownerID string) ([]links.Link, error)
	DeleteLink(ctx context.Context, ownerID, code string) error
	Resolve(ctx context.Context, code string) (*links.Link, error)
}

type sessionManager interface {
	Issue(userID string) (*http.Cookie, error)
	UserID(request *http.Request) (string, error)
	Clear() *http.Cookie
}

type pinger interface {
	Ping(ctx context.Context) error
}

// ContextKey is a custom type for request-context values to avoid collisions.
type ContextKey string

// UserIDKey is the context key holding the authenticated user's id.
const UserIDKey ContextKey = "userID"

// Router holds the handler dependencies.
type Router struct {
	accounts accountsService
	links    linksService
	sessions sessionManager
	db       pinger
}

// New builds the chi mux with all routes and middleware.
func New(
	accounts accountsService,
	links linksService,
	sessions sessionManager,
	db pinger,
) *chi.Mux {
	rt := &Router{
		accounts: accounts,
		links:    links,
		sessions: sessions,
		db:       db,
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.GzipResponse,
	)

	router.Post(`/signup`, rt.PostSignup)
	router.Post(`/login`, rt.PostLogin)
	router.Get(`/ping`, rt.GetPing)

	router.Group(func(router chi.Router) {
		router.Use(rt.RequireSession)
		router.Post(`/logout`, rt.PostLogout)
		router.Get(`/user`, rt.GetUser)
		router.Post(`/add`, rt.PostAdd)
		router.Post(`/delete`, rt.PostDelete)
		router.Get(`/links`, rt.GetLinks)
	})

	router.Get(`/{shortCode}`, rt.GetRedirectToOriginalURL)

	return router
}

// RequireSession is a middleware that validates the session cookie and puts
// the authenticated user's id into the request context.
func (rt *Router) RequireSession(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		userID, err := rt.sessions.UserID(request)
		if err != nil {
			rt.renderError(response, err)
			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// PostSignup handles POST /signup: creates an account and opens a session.
func (rt *Router) PostSignup(response http.ResponseWriter, request *http.Request) {
	var body models.CredentialsRequest
	if err := decodeJSONBody(request, &body); err != nil {
		rt.renderError(response, err)
		return
	}

	usr, err := rt.accounts.CreateUser(request.Context(), body.Email, body.Password)
	if err != nil {
		rt.renderError(response, err)
		return
	}

	if !rt.openSession(response, usr.ID) {
		return
	}

	writeJSON(response, http.StatusCreated, models.UserResponse{
		UserID: usr.ID,
		Email:  usr.Email,
	})
}

// PostLogin handles POST /login: verifies credentials and opens a session.
func (rt *Router) PostLogin(response http.ResponseWriter, request *http.Request) {
	var body models.CredentialsRequest
	if err := decodeJSONBody(request, &body); err != nil {
		rt.renderError(response, err)
		return
	}

	if strings.TrimSpace(body.Email) == "" || body.Password == "" {
		rt.renderError(response, apperr.Validation("email and password are required"))
		return
	}

	usr, err := rt.accounts.VerifyUser(request.Context(), body.Email, body.Password)
	if err != nil {
		rt.renderError(response, err)
		return
	}

	if !rt.openSession(response, usr.ID) {
		return
	}

	writeJSON(response, http.StatusOK, models.UserResponse{
		UserID: usr.ID,
		Email:  usr.Email,
	})
}

// PostLogout handles POST /logout: clears the session cookie.
func (rt *Router) PostLogout(response http.ResponseWriter, request *http.Request) {
	http.SetCookie(response, rt.sessions.Clear())
	writeJSON(response, http.StatusOK, map[string]bool{"success": true})
}

// GetUser handles GET /user: returns the authenticated account.
func (rt *Router) GetUser(response http.ResponseWriter, request *http.Request) {
	usr, err := rt.accounts.GetUser(request.Context(), userIDFromContext(request))
	if err != nil {
		rt.renderError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, models.UserInfoResponse{
		UserID:    usr.ID,
		Email:     usr.Email,
		CreatedAt: usr.CreatedAt,
	})
}

// PostAdd handles POST /add: creates a short link for the authenticated user.
func (rt *Router) PostAdd(response http.ResponseWriter, request *http.Request) {
	var body models.AddLinkRequest
	if err := decodeJSONBody(request, &body); err != nil {
		rt.renderError(response, err)
		return
	}

	link, err := rt.links.CreateLink(
		request.Context(),
		userIDFromContext(request),
		body.URL,
		body.Code,
		body.ExpiresIn,
	)
	if err != nil {
		rt.renderError(response, err)
		return
	}

	writeJSON(response, http.StatusCreated, models.AddLinkResponse{
		ShortCode:   link.ShortCode,
		OriginalURL: link.URL,
		ExpiresAt:   optionalTimestamp(link.ExpiresAt),
	})
}

// PostDelete handles POST /delete: removes a link owned by the
// authenticated user.
func (rt *Router) PostDelete(response http.ResponseWriter, request *http.Request) {
	var body models.DeleteLinkRequest
	if err := decodeJSONBody(request, &body); err != nil {
		rt.renderError(response, err)
		return
	}

	code := strings.TrimSpace(body.Code)
	if code == "" {
		rt.renderError(response, apperr.Validation("short code is required"))
		return
	}

	if err := rt.links.DeleteLink(request.Context(), userIDFromContext(request), code); err != nil {
		rt.renderError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, map[string]bool{"success": true})
}

// GetLinks handles GET /links: lists the authenticated user's links,
// including expired ones.
func (rt *Router) GetLinks(response http.ResponseWriter, request *http.Request) {
	userLinks, err := rt.links.ListLinks(request.Context(), userIDFromContext(request))
	if err != nil {
		rt.renderError(response, err)
		return
	}

	result := make([]models.UserLinkResponse, 0, len(userLinks))
	for _, link := range userLinks {
		result = append(result, models.UserLinkResponse{
			ShortCode: link.ShortCode,
			URL:       link.URL,
			CreatedAt: link.CreatedAt,
			ExpiresAt: optionalTimestamp(link.ExpiresAt),
			IsExpired: link.IsExpired,
		})
	}

	writeJSON(response, http.StatusOK, result)
}

// GetRedirectToOriginalURL handles GET /{shortCode}: the public redirect.
// Paths containing a period are reserved for static assets and never
// resolve to a short code.
func (rt *Router) GetRedirectToOriginalURL(response http.ResponseWriter, request *http.Request) {
	shortCode := chi.URLParam(request, "shortCode")
	if strings.Contains(shortCode, ".") {
		rt.renderError(response, apperr.NotFound("not found"))
		return
	}

	link, err := rt.links.Resolve(request.Context(), shortCode)
	if err != nil {
		rt.renderError(response, err)
		return
	}

	http.Redirect(response, request, link.URL, http.StatusFound)
}

// GetPing handles GET /ping: the store health check.
func (rt *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := rt.db.Ping(request.Context()); err != nil {
		rt.renderError(response, err)
		return
	}

	response.WriteHeader(http.StatusOK)
}

func (rt *Router) openSession(response http.ResponseWriter, userID string) bool {
	cookie, err := rt.sessions.Issue(userID)
	if err != nil {
		rt.renderError(response, err)
		return false
	}
	http.SetCookie(response, cookie)

	return true
}

// renderError maps an error kind to its status code and renders the
// {"error": message} body.
func (rt *Router) renderError(response http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := apperr.Message(err)

	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrConflict):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrExpired):
		status = http.StatusGone
	default:
		logger.Log.Errorw("internal error", "err", err)
		message = "internal server error"
	}

	writeJSON(response, status, models.ErrorResponse{Error: message})
}

func decodeJSONBody(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return apperr.Validation("invalid JSON body")
	}

	return nil
}

// optionalTimestamp renders a zero timestamp as JSON null.
func optionalTimestamp(ts int64) *int64 {
	if ts == 0 {
		return nil
	}

	return &ts
}

func writeJSON(response http.ResponseWriter, status int, body interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(body); err != nil {
		logger.Log.Errorw("writing response body", "err", err)
	}
}

func userIDFromContext(request *http.Request) string {
	userID, _ := request.Context().Value(UserIDKey).(string)
	return userID
}
