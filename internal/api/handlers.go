package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"paint-advisor/internal/errs"
	"paint-advisor/internal/middleware"
	"paint-advisor/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const (
	defaultListLimit    = 50
	defaultSearchLimit  = 5
	defaultProductLimit = 3

	embeddingCheckText = "teste de conexão"
)

var errInvalidDebugFlag = errs.New(errs.CategoryValidation, http.StatusBadRequest, "debug deve ser true ou false")

// Handler handles HTTP requests
type Handler struct {
	catalog     ProductCatalog
	recommender ProductRecommender
	auth        Authenticator
	embedder    TextEmbedder
	validate    *validator.Validate
	chatSocket  *ChatSocket
	log         zerolog.Logger
}

func NewHandler(
	catalog ProductCatalog,
	recommender ProductRecommender,
	auth Authenticator,
	embedder TextEmbedder,
	log zerolog.Logger,
) *Handler {
	validate := newValidator()
	return &Handler{
		catalog:     catalog,
		recommender: recommender,
		auth:        auth,
		embedder:    embedder,
		validate:    validate,
		chatSocket:  NewChatSocket(recommender, validate, log),
		log:         log,
	}
}

// Account handlers

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreate
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.auth.Signup(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.ToOutput())
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, r, errs.ErrMissingToken)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

// Product handlers

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductCreate
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.catalog.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultListLimit, 1)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0, 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	products, err := h.catalog.List(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if products == nil {
		products = []*models.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req models.ProductUpdate
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.catalog.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) ReindexProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.catalog.Reindex(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":   "queued",
		"tinta_id": id.String(),
	})
}

// Search and chat handlers

func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.writeError(w, r, errs.ErrEmptyQuery)
		return
	}
	limit, err := queryInt(r, "limite", defaultSearchLimit, 1)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	results, err := h.recommender.Search(r.Context(), query, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if results == nil {
		results = []*models.ScoredProduct{}
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	debug := false
	if raw := r.URL.Query().Get("debug"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, r, errInvalidDebugFlag)
			return
		}
		debug = parsed
	}

	req := models.ChatRequest{ProductsLimit: defaultProductLimit}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errs.ErrInvalidRequestBody)
		return
	}

	message, err := checkChatRequest(h.validate, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result := h.recommender.Recommend(r.Context(), message, req.ProductsLimit)
	writeJSON(w, http.StatusOK, models.NewChatResponse(result, debug))
}

func (h *Handler) ChatHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "chat-recomendador-ia",
	})
}

func (h *Handler) CatalogStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"total_tintas":     stats.Products,
		"total_embeddings": stats.Embeddings,
		"queue_length":     stats.QueueLength,
	})
}

// EmbeddingCheck embeds a fixed text and reports the provider's model and dimension.
// A provider failure is reported in the body with status "error", not as an HTTP error.
func (h *Handler) EmbeddingCheck(w http.ResponseWriter, r *http.Request) {
	vector, err := h.embedder.Embed(r.Context(), embeddingCheckText)
	if err != nil {
		middleware.AddSpanError(r.Context(), err)
		h.log.Warn().Err(err).Str("model", h.embedder.Model()).Msg("embedding check failed")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":           "error",
			"message":          "Erro ao testar embeddings: " + err.Error(),
			"embedding_modelo": h.embedder.Model(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":              "ok",
		"embedding_dimensoes": len(vector),
		"embedding_modelo":    h.embedder.Model(),
	})
}

// checkChatRequest returns the trimmed message of a valid chat request
func checkChatRequest(validate *validator.Validate, req *models.ChatRequest) (string, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", errs.ErrEmptyMessage
	}
	if err := validate.Struct(req); err != nil {
		return "", validationError(err)
	}
	return message, nil
}

// decode reads a JSON body into dst and validates it, writing the error response on failure
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, r, errs.ErrInvalidRequestBody)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.writeError(w, r, validationError(err))
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	detail := err.Error()
	if appErr, ok := errs.As(err); ok {
		detail = appErr.Message
	}

	middleware.AddSpanError(r.Context(), err)
	if status >= http.StatusInternalServerError {
		h.log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
	}

	writeJSON(w, status, map[string]string{"detail": detail})
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// validationError turns validator output into a 400 naming the first offending field
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errs.New(errs.CategoryValidation, http.StatusBadRequest,
			fmt.Sprintf("campo %s inválido (%s)", fe.Field(), fe.Tag()))
	}
	return errs.ErrInvalidRequestBody
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, errs.ErrInvalidID
	}
	return id, nil
}

// queryInt reads an integer query parameter, falling back to def when absent
func queryInt(r *http.Request, name string, def, min int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min {
		return 0, errs.ErrInvalidLimit
	}
	return n, nil
}
