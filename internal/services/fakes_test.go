package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"paint-advisor/internal/errs"
	"paint-advisor/internal/models"

	"github.com/google/uuid"
)

// memoryProducts is an in-memory product store
type memoryProducts struct {
	mu       sync.Mutex
	items    map[uuid.UUID]*models.Product
	order    []uuid.UUID
	errOnAll error
}

func newMemoryProducts(products ...*models.Product) *memoryProducts {
	m := &memoryProducts{items: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		_ = m.Create(context.Background(), p)
	}
	return m
}

func (m *memoryProducts) Create(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copied := *p
	m.items[p.ID] = &copied
	m.order = append(m.order, p.ID)
	return nil
}

func (m *memoryProducts) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, errs.ErrProductNotFound)
	}
	copied := *p
	return &copied, nil
}

func (m *memoryProducts) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Product
	for i, id := range m.order {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		copied := *m.items[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memoryProducts) Update(ctx context.Context, id uuid.UUID, columns map[string]interface{}) (*models.Product, error) {
	m.mu.Lock()
	p, ok := m.items[id]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("product %s: %w", id, errs.ErrProductNotFound)
	}
	for column, value := range columns {
		switch column {
		case "nome":
			p.Name = value.(string)
		case "cor":
			p.Color = value.(string)
		case "descricao":
			p.Description = value.(string)
		case "linha":
			p.Line = value.(string)
		case "rendimento_m2_litro":
			v := value.(float64)
			p.CoverageRate = &v
		}
	}
	m.mu.Unlock()
	return m.GetByID(ctx, id)
}

func (m *memoryProducts) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("product %s: %w", id, errs.ErrProductNotFound)
	}
	delete(m.items, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memoryProducts) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

func (m *memoryProducts) SearchByText(ctx context.Context, query string, limit int) ([]*models.Product, error) {
	if m.errOnAll != nil {
		return nil, m.errOnAll
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	var out []*models.Product
	for _, id := range m.order {
		p := m.items[id]
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Color), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			copied := *p
			out = append(out, &copied)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type storedEmbedding struct {
	vector  []float32
	content string
}

// memoryEmbeddings implements the vector store with exact cosine distance
type memoryEmbeddings struct {
	mu       sync.Mutex
	products *memoryProducts
	rows     map[uuid.UUID]storedEmbedding
	err      error
	upserted chan uuid.UUID
}

func newMemoryEmbeddings(products *memoryProducts) *memoryEmbeddings {
	return &memoryEmbeddings{products: products, rows: map[uuid.UUID]storedEmbedding{}, upserted: make(chan uuid.UUID, 100)}
}

func (m *memoryEmbeddings) Upsert(ctx context.Context, productID uuid.UUID, vector []float32, content string) error {
	m.mu.Lock()
	m.rows[productID] = storedEmbedding{vector: vector, content: content}
	m.mu.Unlock()
	m.upserted <- productID
	return nil
}

func (m *memoryEmbeddings) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *memoryEmbeddings) get(id uuid.UUID) (storedEmbedding, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	return row, ok
}

func (m *memoryEmbeddings) SemanticSearch(ctx context.Context, query []float32, k int) ([]*models.ScoredProduct, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ScoredProduct
	for id, row := range m.rows {
		p, err := m.products.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, &models.ScoredProduct{Product: *p, Content: row.content, Score: cosine(query, row.vector)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// staticVectors returns canned search results in the given order
type staticVectors struct {
	results []*models.ScoredProduct
	err     error
}

func (s *staticVectors) SemanticSearch(ctx context.Context, query []float32, k int) ([]*models.ScoredProduct, error) {
	return s.results, s.err
}

// keywordEmbedder maps texts containing a keyword to a fixed vector
type keywordEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
	mu      sync.Mutex
}

func (e *keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	lower := strings.ToLower(text)
	keys := make([]string, 0, len(e.vectors))
	for k := range e.vectors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(lower, k) {
			return e.vectors[k], nil
		}
	}
	return []float32{0, 0, 1}, nil
}

func (e *keywordEmbedder) Model() string { return "fake-embedding" }

type fakeGenerator struct {
	answer     string
	err        error
	lastSystem string
	lastUser   string
}

func (g *fakeGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	g.lastSystem = system
	g.lastUser = user
	return g.answer, g.err
}

func (g *fakeGenerator) Model() string { return "fake-llm" }

// recordingIndexer records submitted ids
type recordingIndexer struct {
	mu      sync.Mutex
	ids     []uuid.UUID
	err     error
	pending int
}

func (r *recordingIndexer) QueueLength() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

func (r *recordingIndexer) Submit(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.ids = append(r.ids, id)
	return nil
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*models.User{}}
}

func (m *memoryUsers) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return errs.ErrEmailAlreadyExists
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	copied := *u
	m.users[u.Email] = &copied
	return nil
}

func (m *memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, errs.ErrUserNotFound)
	}
	copied := *u
	return &copied, nil
}

func (m *memoryUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

var errBoom = errors.New("boom")

func paint(name, color, description string) *models.Product {
	return &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Color:       color,
		Surface:     "alvenaria",
		Environment: models.EnvironmentIndoor,
		Finish:      models.FinishMatte,
		Features:    models.Features{},
		Description: description,
	}
}
