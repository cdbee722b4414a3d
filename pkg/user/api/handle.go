package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/semmi1986/SB-keyclock/pkg/client"
	pkgerrors "github.com/semmi1986/SB-keyclock/pkg/errors"
	"github.com/semmi1986/SB-keyclock/pkg/user"
)

// UserHandler handles HTTP requests for user administration
type UserHandler struct {
	userService *user.UserService
	// BasePath is the mount point used to build Location headers
	BasePath string
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *user.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		BasePath:    "/api/users",
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string                 `json:"status"`
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// CreateUser handles POST /. Responds 201 with an empty body.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req user.UserCreationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderServiceError(w, r, pkgerrors.InvalidFormat(err))
		return
	}

	id, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	if id != uuid.Nil {
		w.Header().Set("Location", h.BasePath+"/"+id.String())
	}
	w.WriteHeader(http.StatusCreated)
}

// GetUserByID handles GET /{id}
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		renderServiceError(w, r, pkgerrors.InvalidInput("id", "not a UUID").WithDetail("id", idStr))
		return
	}

	profile, err := h.userService.GetUserByID(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, profile)
}

// Hello handles GET /hello and echoes the caller's principal as plain text
func (h *UserHandler) Hello(w http.ResponseWriter, r *http.Request) {
	authUser, ok := client.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	render.Status(r, http.StatusOK)
	render.PlainText(w, r, authUser.Principal)
}

// Handler returns the user routes without any access control
func Handler(h *UserHandler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.CreateUser)
	// registered before /{id} so "hello" is never parsed as an id
	r.Get("/hello", h.Hello)
	r.Get("/{id}", h.GetUserByID)

	return r
}

// SecureHandler returns the user routes restricted to the given roles
func SecureHandler(h *UserHandler, roles ...string) http.Handler {
	r := chi.NewRouter()
	r.Use(client.RequireRole(roles...))
	r.Mount("/", Handler(h))
	return r
}

// renderServiceError maps a service error to its HTTP status
func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := pkgerrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("User request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		renderErrorResponse(w, r, status, "Identity provider request failed")
		return
	}

	response := ErrorResponse{
		Status:  "error",
		Code:    string(pkgerrors.GetCode(err)),
		Message: pkgerrors.Message(err),
		Details: pkgerrors.GetDetails(err),
	}

	render.Status(r, status)
	render.JSON(w, r, response)
}

// renderErrorResponse renders an error response with the given status code and message
func renderErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	response := ErrorResponse{
		Status:  "error",
		Message: message,
	}

	render.Status(r, statusCode)
	render.JSON(w, r, response)
}
