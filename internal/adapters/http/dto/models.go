package dto

import (
	"strconv"

	"github.com/jsamuelsen/quotes-service/internal/domain"
)

// AuthorResponse is the JSON form of an author.
type AuthorResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// QuoteResponse is the JSON form of a quote with its author embedded.
type QuoteResponse struct {
	ID     int64          `json:"id"`
	Author AuthorResponse `json:"author"`
	Text   string         `json:"text"`
}

// MessageResponse confirms a deletion.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateAuthorRequest is the body of POST /authors.
type CreateAuthorRequest struct {
	Name string `json:"name" validate:"required,notempty,max=32"`
}

// UpdateAuthorRequest is the body of PUT /authors/{id}. Only name is
// writable; any other key, including id, is ignored.
type UpdateAuthorRequest struct {
	Name *string `json:"name" validate:"omitnil,notempty,max=32"`
}

// ToPatch converts the request into a domain patch.
func (r *UpdateAuthorRequest) ToPatch() domain.AuthorPatch {
	return domain.AuthorPatch{Name: r.Name}
}

// CreateQuoteRequest is the body of POST /authors/{id}/quotes.
type CreateQuoteRequest struct {
	Text string `json:"text" validate:"required,notempty,max=255"`
}

// UpdateQuoteRequest is the body of PUT /quotes/{id}. Only text and
// author_id are writable.
type UpdateQuoteRequest struct {
	Text     *string `json:"text"      validate:"omitnil,notempty,max=255"`
	AuthorID *int64  `json:"author_id" validate:"omitnil,gt=0"`
}

// ToPatch converts the request into a domain patch.
func (r *UpdateQuoteRequest) ToPatch() domain.QuotePatch {
	return domain.QuotePatch{Text: r.Text, AuthorID: r.AuthorID}
}

// NewAuthorResponse converts a domain author.
func NewAuthorResponse(a *domain.Author) AuthorResponse {
	return AuthorResponse{ID: a.ID, Name: a.Name}
}

// NewAuthorListResponse converts authors; an empty input yields [] not null.
func NewAuthorListResponse(authors []domain.Author) []AuthorResponse {
	out := make([]AuthorResponse, 0, len(authors))
	for i := range authors {
		out = append(out, NewAuthorResponse(&authors[i]))
	}

	return out
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:     q.ID,
		Author: NewAuthorResponse(&q.Author),
		Text:   q.Text,
	}
}

// NewQuoteListResponse converts quotes; an empty input yields [] not null.
func NewQuoteListResponse(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, NewQuoteResponse(&quotes[i]))
	}

	return out
}

// DeletedMessage builds the confirmation for a deleted entity.
func DeletedMessage(entity string, id int64) MessageResponse {
	return MessageResponse{Message: entity + " with id=" + strconv.FormatInt(id, 10) + " deleted"}
}

// ParseID parses a path id. Only non-negative base-10 integers that fit
// in an int64 are accepted.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseUint(raw, 10, 63)
	if err != nil {
		return 0, false
	}

	return int64(id), true
}
