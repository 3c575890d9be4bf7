package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moviequotes/quote-service/internal/adapters/http/dto"
	"github.com/moviequotes/quote-service/internal/domain"
)

// RandomQuoteService is the application operation the quote handler serves.
type RandomQuoteService interface {
	GetRandomQuote(ctx context.Context) (*domain.Quote, error)
}

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service RandomQuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service RandomQuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// QuoteResponse is the wire shape of a quote. Image URLs are always present
// and serialize as null when the quote has no image.
type QuoteResponse struct {
	ID           int64   `json:"id"`
	Quote        string  `json:"quote"`
	Movie        string  `json:"movie"`
	Character    string  `json:"character"`
	PosterURL    *string `json:"poster_url"`
	CharacterURL *string `json:"character_url"`
}

func toQuoteResponse(q *domain.Quote) *QuoteResponse {
	return &QuoteResponse{
		ID:           q.ID,
		Quote:        q.Text,
		Movie:        q.Movie,
		Character:    q.Character,
		PosterURL:    q.PosterURL,
		CharacterURL: q.CharacterURL,
	}
}

// GetRandomQuote handles GET /api/quotes/random.
//
// @Summary Get a random movie quote
// @Tags quotes
// @Produce json
// @Success 200 {object} QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/quotes/random [get]
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	quote, err := h.service.GetRandomQuote(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("/random", h.GetRandomQuote)
}
