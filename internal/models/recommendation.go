package models

type RecommendationStatus string

const (
	StatusOK       RecommendationStatus = "ok"
	StatusFallback RecommendationStatus = "fallback_busca_simples"
	StatusError    RecommendationStatus = "erro"
)

// RecommendedProduct is the external shape of a recommended paint.
// Score is nil when the product came from the substring fallback.
type RecommendedProduct struct {
	ID          string      `json:"id"`
	Name        string      `json:"nome"`
	Color       string      `json:"cor"`
	Environment Environment `json:"ambiente"`
	Finish      Finish      `json:"acabamento"`
	Line        string      `json:"linha"`
	Score       *float64    `json:"score"`
	Surface     string      `json:"superficie_indicada"`
}

// NewRecommendedProduct converts a product; pass a nil score for unscored hits
func NewRecommendedProduct(p *Product, score *float64) RecommendedProduct {
	return RecommendedProduct{
		ID:          p.ID.String(),
		Name:        p.Name,
		Color:       p.Color,
		Environment: p.Environment,
		Finish:      p.Finish,
		Line:        p.Line,
		Score:       score,
		Surface:     p.Surface,
	}
}

// RecommendationResult is the outcome of one recommendation request.
// It is always returned as a value; failures are reported through Status.
type RecommendationResult struct {
	Answer         string
	Products       []RecommendedProduct
	Context        string
	Query          string
	EmbeddingModel string
	LLMModel       string
	Status         RecommendationStatus
}

type ChatRequest struct {
	Message       string `json:"mensagem" validate:"required,max=2000"`
	ProductsLimit int    `json:"limite_produtos" validate:"gte=1,lte=20"`
}

type ChatDebugInfo struct {
	ContextUsed    string               `json:"contexto_usado"`
	OriginalQuery  string               `json:"consulta_original"`
	TotalProducts  int                  `json:"total_produtos"`
	EmbeddingModel string               `json:"modelo_embedding"`
	LLMModel       string               `json:"modelo_llm"`
	Status         RecommendationStatus `json:"status"`
}

type ChatResponse struct {
	Answer        string               `json:"resposta"`
	FoundProducts []RecommendedProduct `json:"produtos_encontrados"`
	DebugInfo     *ChatDebugInfo       `json:"debug_info,omitempty"`
}

// NewChatResponse shapes a result for the chat endpoint; debug info is attached only on request
func NewChatResponse(result *RecommendationResult, debug bool) ChatResponse {
	products := result.Products
	if products == nil {
		products = []RecommendedProduct{}
	}
	resp := ChatResponse{
		Answer:        result.Answer,
		FoundProducts: products,
	}
	if debug {
		embeddingModel := orNA(result.EmbeddingModel)
		llmModel := orNA(result.LLMModel)
		status := result.Status
		if status == "" {
			status = StatusOK
		}
		resp.DebugInfo = &ChatDebugInfo{
			ContextUsed:    result.Context,
			OriginalQuery:  result.Query,
			TotalProducts:  len(products),
			EmbeddingModel: embeddingModel,
			LLMModel:       llmModel,
			Status:         status,
		}
	}
	return resp
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
