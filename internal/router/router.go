// Package router wires the HTTP surface of the memo service: the public auth
// routes, the bearer-token-guarded memo CRUD routes, and the health check.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/example/memoapp/internal/gzippedhttp"
	"github.com/example/memoapp/internal/logger"
	"github.com/example/memoapp/internal/models"
)

type memoService interface {
	Register(ctx context.Context, username, password string) error

	Login(ctx context.Context, username, password string) (string, error)

	ListMemos(ctx context.Context) ([]models.Memo, error)

	CreateMemo(ctx context.Context, content string) (*models.Memo, error)

	UpdateMemo(ctx context.Context, id, content string) (*models.Memo, error)

	DeleteMemo(ctx context.Context, id string) (*models.Memo, error)

	Ping(ctx context.Context) error
}

type authenticator interface {
	Authenticate(h http.Handler) http.Handler
}

// Router holds the HTTP handlers of the service.
type Router struct {
	svc      memoService
	validate *validator.Validate
}

// New builds the chi mux with the middleware chain and all routes attached.
func New(svc memoService, theAuth authenticator) *chi.Mux {
	theRouter := &Router{
		svc:      svc,
		validate: validator.New(),
	}

	mux := chi.NewRouter()
	mux.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.UngzipRequest,
		gzippedhttp.GzipResponse,
	)

	mux.Post(`/auth/register`, theRouter.PostAuthRegister)
	mux.Post(`/auth/login`, theRouter.PostAuthLogin)
	mux.Get(`/ping`, theRouter.GetPing)

	mux.Group(func(protected chi.Router) {
		protected.Use(theAuth.Authenticate)
		protected.Get(`/memo`, theRouter.GetMemo)
		protected.Post(`/memo`, theRouter.PostMemo)
		protected.Patch(`/memo/{id}`, theRouter.PatchMemo)
		protected.Delete(`/memo/{id}`, theRouter.DeleteMemo)
	})

	return mux
}

// PostAuthRegister handles POST /auth/register: it validates the payload,
// hashes the password, and stores the new account.
func (r *Router) PostAuthRegister(response http.ResponseWriter, request *http.Request) {
	var credentials models.CredentialsRequest
	if !r.decodeAndValidate(response, request, &credentials) {
		return
	}

	err := r.svc.Register(request.Context(), credentials.Username, credentials.Password)
	if errors.Is(err, models.ErrDuplicateUsername) {
		respondJSON(response, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	if err != nil {
		r.handleUnexpectedError(response, err)
		return
	}

	respondJSON(response, http.StatusCreated, map[string]string{"message": "registration successful"})
}

// PostAuthLogin handles POST /auth/login: on matching credentials it answers
// with a freshly issued bearer token as the sole payload.
func (r *Router) PostAuthLogin(response http.ResponseWriter, request *http.Request) {
	var credentials models.CredentialsRequest
	if !r.decodeAndValidate(response, request, &credentials) {
		return
	}

	token, err := r.svc.Login(request.Context(), credentials.Username, credentials.Password)
	if errors.Is(err, models.ErrUserNotFound) || errors.Is(err, models.ErrPasswordMismatch) {
		respondJSON(response, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	if err != nil {
		r.handleUnexpectedError(response, err)
		return
	}

	respondJSON(response, http.StatusOK, models.LoginResponse{Token: token})
}

// GetMemo handles GET /memo and returns every memo, most recent first.
func (r *Router) GetMemo(response http.ResponseWriter, request *http.Request) {
	memos, err := r.svc.ListMemos(request.Context())
	if err != nil {
		r.handleUnexpectedError(response, err)
		return
	}

	respondJSON(response, http.StatusOK, memos)
}

// PostMemo handles POST /memo: it validates the payload and persists a new
// memo, answering with the created record.
func (r *Router) PostMemo(response http.ResponseWriter, request *http.Request) {
	var payload models.MemoRequest
	if !r.decodeAndValidate(response, request, &payload) {
		return
	}

	memo, err := r.svc.CreateMemo(request.Context(), payload.Content)
	if err != nil {
		r.handleUnexpectedError(response, err)
		return
	}

	respondJSON(response, http.StatusCreated, memo)
}

// PatchMemo handles PATCH /memo/{id}: it validates the payload and replaces
// the content of the addressed memo.
func (r *Router) PatchMemo(response http.ResponseWriter, request *http.Request) {
	var payload models.MemoRequest
	if !r.decodeAndValidate(response, request, &payload) {
		return
	}

	memo, err := r.svc.UpdateMemo(request.Context(), chi.URLParam(request, "id"), payload.Content)
	if errors.Is(err, models.ErrMemoNotFound) {
		respondJSON(response, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		r.handleUnexpectedError(response, err)
		return
	}

	respondJSON(response, http.StatusOK, models.MemoUpdateResponse{
		Message: "memo updated",
		Memo:    memo,
	})
}

// DeleteMemo handles DELETE /memo/{id} and answers with the removed record.
func (r *Router) DeleteMemo(response http.ResponseWriter, request *http.Request) {
	memo, err := r.svc.DeleteMemo(request.Context(), chi.URLParam(request, "id"))
	if errors.Is(err, models.ErrMemoNotFound) {
		respondJSON(response, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		r.handleUnexpectedError(response, err)
		return
	}

	respondJSON(response, http.StatusOK, models.MemoDeleteResponse{
		Message: "memo deleted",
		Deleted: memo,
	})
}

// GetPing handles GET /ping and reports storage backend health.
func (r *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := r.svc.Ping(request.Context()); err != nil {
		r.handleUnexpectedError(response, err)
		return
	}

	response.WriteHeader(http.StatusOK)
}

// decodeAndValidate parses the JSON request body into target and runs the
// struct validation rules. On failure it answers 400 with the failure
// message and reports false; the store is never touched in that case.
func (r *Router) decodeAndValidate(
	response http.ResponseWriter,
	request *http.Request,
	target interface{},
) bool {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		respondJSON(response, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}

	if err := r.validate.Struct(target); err != nil {
		respondJSON(response, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}

	return true
}

// handleUnexpectedError is the service-wide fallback: the failure is logged
// server-side and the client gets a uniform 400 with the bare message. Store
// faults are deliberately not distinguished from client faults here, to keep
// the externally observable behavior of the original service.
func (r *Router) handleUnexpectedError(response http.ResponseWriter, err error) {
	logger.Log.Errorln("unhandled error while serving request:", err)
	respondJSON(response, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func respondJSON(response http.ResponseWriter, status int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Errorln("error encoding response:", err)
	}
}
