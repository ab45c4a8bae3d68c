package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotes-service/internal/app"
	"github.com/jsamuelsen/quotes-service/internal/domain"
	"github.com/jsamuelsen/quotes-service/internal/platform/metrics"
)

// QuoteHandler handles quote endpoints.
type QuoteHandler struct {
	service *app.QuoteService
	metrics *metrics.Manager
}

// NewQuoteHandler creates a quote handler. m may be nil.
func NewQuoteHandler(service *app.QuoteService, m *metrics.Manager) *QuoteHandler {
	return &QuoteHandler{
		service: service,
		metrics: m,
	}
}

// ListQuotes handles GET /quotes.
//
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Success 200 {array} dto.QuoteResponse
// @Router /quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	quotes, err := h.service.ListQuotes(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, dto.NewQuoteListResponse(quotes))
}

// GetQuote handles GET /quotes/:id.
//
// @Summary Get a quote by ID
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	id, ok := pathID(c, domain.EntityQuote)
	if !ok {
		return
	}

	quote, err := h.service.GetQuote(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// CreateQuote handles POST /authors/:id/quotes.
//
// @Summary Add a quote to an author
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path int true "Author ID"
// @Param body body dto.CreateQuoteRequest true "Quote"
// @Success 201 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /authors/{id}/quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	authorID, ok := pathID(c, domain.EntityAuthor)
	if !ok {
		return
	}

	var req dto.CreateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	quote, err := h.service.CreateQuote(c.Request.Context(), authorID, req.Text)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.metrics.Mutation(domain.EntityQuote, opCreate)
	c.PureJSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// UpdateQuote handles PUT /quotes/:id. Only text and author_id can change.
//
// @Summary Update a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param body body dto.UpdateQuoteRequest true "Fields to overwrite"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quotes/{id} [put]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	id, ok := pathID(c, domain.EntityQuote)
	if !ok {
		return
	}

	var req dto.UpdateQuoteRequest
	if err := dto.Bind(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	quote, err := h.service.UpdateQuote(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.metrics.Mutation(domain.EntityQuote, opUpdate)
	c.PureJSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// DeleteQuote handles DELETE /quotes/:id.
//
// @Summary Delete a quote
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quotes/{id} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	id, ok := pathID(c, domain.EntityQuote)
	if !ok {
		return
	}

	if err := h.service.DeleteQuote(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	h.metrics.Mutation(domain.EntityQuote, opDelete)
	c.PureJSON(http.StatusOK, dto.DeletedMessage(domain.EntityQuote, id))
}

// FilterQuotes handles GET /quotes/filter. Filtering is not implemented;
// the query is logged and an empty object returned.
func (h *QuoteHandler) FilterQuotes(c *gin.Context) {
	c.PureJSON(http.StatusOK, h.service.FilterQuotes(c.Request.Context(), c.Request.URL.Query()))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
// POST /authors/:id/quotes is registered here since it creates a quote.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.GET("/filter", h.FilterQuotes)
	quotes.GET("/:id", h.GetQuote)
	quotes.PUT("/:id", h.UpdateQuote)
	quotes.DELETE("/:id", h.DeleteQuote)

	rg.POST("/authors/:id/quotes", h.CreateQuote)
}
