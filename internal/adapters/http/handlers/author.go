package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotes-service/internal/app"
	"github.com/jsamuelsen/quotes-service/internal/domain"
	"github.com/jsamuelsen/quotes-service/internal/platform/metrics"
)

// AuthorHandler handles author endpoints.
type AuthorHandler struct {
	service *app.AuthorService
	metrics *metrics.Manager
}

// NewAuthorHandler creates an author handler. m may be nil.
func NewAuthorHandler(service *app.AuthorService, m *metrics.Manager) *AuthorHandler {
	return &AuthorHandler{
		service: service,
		metrics: m,
	}
}

// ListAuthors handles GET /authors.
//
// @Summary List authors
// @Tags authors
// @Produce json
// @Success 200 {array} dto.AuthorResponse
// @Router /authors [get]
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	authors, err := h.service.ListAuthors(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, dto.NewAuthorListResponse(authors))
}

// GetAuthor handles GET /authors/:id.
//
// @Summary Get an author
// @Tags authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} dto.AuthorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /authors/{id} [get]
func (h *AuthorHandler) GetAuthor(c *gin.Context) {
	id, ok := pathID(c, domain.EntityAuthor)
	if !ok {
		return
	}

	author, err := h.service.GetAuthor(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, dto.NewAuthorResponse(author))
}

// CreateAuthor handles POST /authors. Clients depend on the 200 status,
// so it does not answer 201.
//
// @Summary Create an author
// @Tags authors
// @Accept json
// @Produce json
// @Param body body dto.CreateAuthorRequest true "Author"
// @Success 200 {object} dto.AuthorResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /authors [post]
func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	var req dto.CreateAuthorRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	author, err := h.service.CreateAuthor(c.Request.Context(), req.Name)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.metrics.Mutation(domain.EntityAuthor, opCreate)
	c.PureJSON(http.StatusOK, dto.NewAuthorResponse(author))
}

// UpdateAuthor handles PUT /authors/:id. Only the name can change.
//
// @Summary Update an author
// @Tags authors
// @Accept json
// @Produce json
// @Param id path int true "Author ID"
// @Param body body dto.UpdateAuthorRequest true "Fields to overwrite"
// @Success 200 {object} dto.AuthorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /authors/{id} [put]
func (h *AuthorHandler) UpdateAuthor(c *gin.Context) {
	id, ok := pathID(c, domain.EntityAuthor)
	if !ok {
		return
	}

	var req dto.UpdateAuthorRequest
	if err := dto.Bind(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	author, err := h.service.UpdateAuthor(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.metrics.Mutation(domain.EntityAuthor, opUpdate)
	c.PureJSON(http.StatusOK, dto.NewAuthorResponse(author))
}

// DeleteAuthor handles DELETE /author/:id and DELETE /authors/:id.
// The author's quotes are deleted with it.
//
// @Summary Delete an author and its quotes
// @Tags authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /author/{id} [delete]
func (h *AuthorHandler) DeleteAuthor(c *gin.Context) {
	id, ok := pathID(c, domain.EntityAuthor)
	if !ok {
		return
	}

	if err := h.service.DeleteAuthor(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	h.metrics.Mutation(domain.EntityAuthor, opDelete)
	c.PureJSON(http.StatusOK, dto.DeletedMessage(domain.EntityAuthor, id))
}

// ListAuthorQuotes handles GET /authors/:id/quotes.
//
// @Summary List the quotes of an author
// @Tags authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {array} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /authors/{id}/quotes [get]
func (h *AuthorHandler) ListAuthorQuotes(c *gin.Context) {
	id, ok := pathID(c, domain.EntityAuthor)
	if !ok {
		return
	}

	quotes, err := h.service.ListAuthorQuotes(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, dto.NewQuoteListResponse(quotes))
}

// RegisterAuthorRoutes registers author routes on the given router group.
// The singular DELETE /author/:id is kept for existing clients.
func (h *AuthorHandler) RegisterAuthorRoutes(rg *gin.RouterGroup) {
	authors := rg.Group("/authors")
	authors.GET("", h.ListAuthors)
	authors.POST("", h.CreateAuthor)
	authors.GET("/:id", h.GetAuthor)
	authors.PUT("/:id", h.UpdateAuthor)
	authors.DELETE("/:id", h.DeleteAuthor)
	authors.GET("/:id/quotes", h.ListAuthorQuotes)

	rg.DELETE("/author/:id", h.DeleteAuthor)
}
