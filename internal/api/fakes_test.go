package api

import (
	"context"
	"strings"
	"sync"

	"paint-advisor/internal/errs"
	"paint-advisor/internal/models"
	"paint-advisor/internal/services"

	"github.com/google/uuid"
)

type memoryCatalog struct {
	mu        sync.Mutex
	products  map[uuid.UUID]*models.Product
	order     []uuid.UUID
	reindexed []uuid.UUID
	queued    int
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{products: make(map[uuid.UUID]*models.Product)}
}

func (c *memoryCatalog) Create(ctx context.Context, req *models.ProductCreate) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := req.ToProduct()
	p.ID = uuid.New()
	c.products[p.ID] = p
	c.order = append(c.order, p.ID)
	return p, nil
}

func (c *memoryCatalog) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, errs.ErrProductNotFound
	}
	return p, nil
}

func (c *memoryCatalog) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*models.Product
	for i, id := range c.order {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		if p, ok := c.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *memoryCatalog) Update(ctx context.Context, id uuid.UUID, req *models.ProductUpdate) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return nil, errs.ErrProductNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Color != nil {
		p.Color = *req.Color
	}
	return p, nil
}

func (c *memoryCatalog) Delete(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.products[id]; !ok {
		return errs.ErrProductNotFound
	}
	delete(c.products, id)
	return nil
}

func (c *memoryCatalog) Reindex(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.products[id]; !ok {
		return errs.ErrProductNotFound
	}
	c.reindexed = append(c.reindexed, id)
	return nil
}

func (c *memoryCatalog) Stats(ctx context.Context) (*services.CatalogStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &services.CatalogStats{
		Products:    int64(len(c.products)),
		Embeddings:  int64(len(c.reindexed)),
		QueueLength: c.queued,
	}, nil
}

type stubRecommender struct {
	mu        sync.Mutex
	queries   []string
	limits    []int
	searchErr error
}

func (s *stubRecommender) Recommend(ctx context.Context, query string, k int) *models.RecommendationResult {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.limits = append(s.limits, k)
	s.mu.Unlock()

	score := 0.9
	products := make([]models.RecommendedProduct, 0, k)
	for i := 0; i < k; i++ {
		p := &models.Product{ID: uuid.New(), Name: "Suvinil Fosco Completo", Color: "Branco Neve"}
		products = append(products, models.NewRecommendedProduct(p, &score))
	}
	return &models.RecommendationResult{
		Answer:         "Recomendo a Suvinil Fosco Completo.",
		Products:       products,
		Context:        "PRODUTO 1: Suvinil Fosco Completo",
		Query:          query,
		EmbeddingModel: "text-embedding-3-small",
		LLMModel:       "gpt-4o-mini",
		Status:         models.StatusOK,
	}
}

func (s *stubRecommender) Search(ctx context.Context, query string, k int) ([]*models.ScoredProduct, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return []*models.ScoredProduct{{
		Product: models.Product{ID: uuid.New(), Name: "Suvinil Toque de Seda", Color: "Gelo"},
		Content: "Suvinil Toque de Seda Gelo",
		Score:   0.87,
	}}, nil
}

type memoryAuth struct {
	mu     sync.Mutex
	emails map[string]string
}

func newMemoryAuth() *memoryAuth {
	return &memoryAuth{emails: make(map[string]string)}
}

func (a *memoryAuth) Signup(ctx context.Context, req *models.UserCreate) (*models.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	email := strings.ToLower(req.Email)
	if _, taken := a.emails[email]; taken {
		return nil, errs.ErrEmailAlreadyExists
	}
	a.emails[email] = req.Password
	role := req.Role
	if role == "" {
		role = models.RoleReader
	}
	return &models.User{ID: uuid.New(), Name: req.Name, Email: email, Role: role}, nil
}

func (a *memoryAuth) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if pw, ok := a.emails[strings.ToLower(req.Email)]; !ok || pw != req.Password {
		return nil, errs.ErrInvalidCredentials
	}
	return &models.TokenResponse{AccessToken: "token-" + req.Email, TokenType: "bearer"}, nil
}

func (a *memoryAuth) ParseToken(token string) (*models.TokenClaims, error) {
	if !strings.HasPrefix(token, "token-") {
		return nil, errs.ErrInvalidToken
	}
	return &models.TokenClaims{UserID: strings.TrimPrefix(token, "token-"), Role: models.RoleReader}, nil
}

type stubEmbedder struct {
	mu    sync.Mutex
	dim   int
	err   error
	texts []string
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	e.texts = append(e.texts, text)
	return make([]float32, e.dim), nil
}

func (e *stubEmbedder) Model() string { return "stub-embedding" }
