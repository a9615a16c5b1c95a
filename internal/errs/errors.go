package errs

import (
	"errors"
	"net/http"
)

// Category groups errors by how they surface to API callers
type Category int

const (
	CategoryValidation Category = iota + 1
	CategoryNotFound
	CategoryConflict
	CategoryUnauthorized
	CategoryUpstream
	CategoryInternal
)

// Error is an application error that knows which HTTP status it maps to.
// Wrap it with fmt.Errorf("...: %w", err) to add context; HTTPStatus still finds it.
type Error struct {
	Category   Category
	HTTPStatus int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a new application error
func New(category Category, httpStatus int, message string) *Error {
	return &Error{
		Category:   category,
		HTTPStatus: httpStatus,
		Message:    message,
	}
}

// Validation errors
var (
	ErrInvalidRequestBody = New(CategoryValidation, http.StatusBadRequest, "invalid request body")
	ErrInvalidID          = New(CategoryValidation, http.StatusBadRequest, "invalid id")
	ErrEmptyMessage       = New(CategoryValidation, http.StatusBadRequest, "Mensagem não pode estar vazia")
	ErrEmptyQuery         = New(CategoryValidation, http.StatusBadRequest, "consulta não pode estar vazia")
	ErrInvalidLimit       = New(CategoryValidation, http.StatusBadRequest, "limite deve ser maior que zero")
)

// Not found errors
var (
	ErrProductNotFound = New(CategoryNotFound, http.StatusNotFound, "Tinta não encontrada")
	ErrUserNotFound    = New(CategoryNotFound, http.StatusNotFound, "Usuário não encontrado")
)

// Conflict errors. The public API reports these as 400.
var (
	ErrEmailAlreadyExists = New(CategoryConflict, http.StatusBadRequest, "E-mail já cadastrado")
)

// Authentication errors
var (
	ErrInvalidCredentials = New(CategoryUnauthorized, http.StatusUnauthorized, "Credenciais inválidas")
	ErrMissingToken       = New(CategoryUnauthorized, http.StatusUnauthorized, "token de acesso ausente")
	ErrInvalidToken       = New(CategoryUnauthorized, http.StatusUnauthorized, "token de acesso inválido")
)

// Upstream errors
var (
	ErrEmbeddingUnavailable  = New(CategoryUpstream, http.StatusBadGateway, "embedding service unavailable")
	ErrGenerationUnavailable = New(CategoryUpstream, http.StatusBadGateway, "generation service unavailable")
	ErrSearchUnavailable     = New(CategoryUpstream, http.StatusBadGateway, "similarity search unavailable")
	ErrProviderNotConfigured = New(CategoryUpstream, http.StatusBadGateway, "provider is not configured")
)

// Internal errors
var (
	ErrIndexerShuttingDown = New(CategoryInternal, http.StatusServiceUnavailable, "reindex service is shutting down")
)

// As returns the first *Error in err's chain
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err belongs to the given category
func Is(err error, category Category) bool {
	appErr, ok := As(err)
	return ok && appErr.Category == category
}

// HTTPStatus returns the status code for err, 500 for anything unclassified
func HTTPStatus(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
