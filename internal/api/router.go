package api

import (
	"net/http"

	"paint-advisor/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

func SetupRoutes(h *Handler, log zerolog.Logger) *mux.Router {
	r := mux.NewRouter()

	// Tracing first so recovered panics still carry a request id
	r.Use(middleware.Tracing(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORS)

	// Collection routes answer with and without the trailing slash
	collection := func(path string, handler http.HandlerFunc, methods ...string) {
		r.HandleFunc(path, handler).Methods(methods...)
		r.HandleFunc(path+"/", handler).Methods(methods...)
	}

	// Accounts
	collection("/usuarios", h.CreateUser, http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	r.Handle("/auth/me", middleware.RequireToken(h.auth)(http.HandlerFunc(h.Me))).Methods(http.MethodGet)

	// Catalog
	collection("/tintas", h.CreateProduct, http.MethodPost)
	collection("/tintas", h.ListProducts, http.MethodGet)
	r.HandleFunc("/tintas/{id}", h.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/tintas/{id}", h.UpdateProduct).Methods(http.MethodPatch)
	r.HandleFunc("/tintas/{id}", h.DeleteProduct).Methods(http.MethodDelete)
	r.HandleFunc("/tintas/{id}/reindexar", h.ReindexProduct).Methods(http.MethodPost)

	// Search and chat
	r.HandleFunc("/busca/recomendar", h.SearchProducts).Methods(http.MethodGet)
	r.HandleFunc("/chat/recomendar", h.Chat).Methods(http.MethodPost)
	r.HandleFunc("/chat/health", h.ChatHealth).Methods(http.MethodGet)
	r.HandleFunc("/chat/test-db", h.CatalogStats).Methods(http.MethodGet)
	r.HandleFunc("/chat/test-embeddings", h.EmbeddingCheck).Methods(http.MethodGet)
	r.HandleFunc("/chat/ws", h.chatSocket.ServeHTTP)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}
