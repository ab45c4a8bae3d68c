package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errorKinds = []error{ErrNotFound, ErrConflict, ErrValidation, ErrUnavailable}

func TestErrors_MessagesAndKinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
		kind    error
	}{
		{"author not found", AuthorNotFound(3), "Author with id=3 not found", ErrNotFound},
		{"quote not found", QuoteNotFound(11), "Quote with id=11 not found", ErrNotFound},
		{"raw path id kept", NewNotFoundError(EntityQuote, "abc"), "Quote with id=abc not found", ErrNotFound},
		{"no id", NewNotFoundError(EntityAuthor, ""), "Author not found", ErrNotFound},
		{
			"duplicate name",
			NewConflictError(EntityAuthor, "name already exists", "Mark Twain"),
			"Author conflict: name already exists (Mark Twain)",
			ErrConflict,
		},
		{"conflict without value", NewConflictError(EntityQuote, "duplicate id", ""), "Quote conflict: duplicate id", ErrConflict},
		{
			"long name",
			NewValidationError("name", "must be at most 32 characters"),
			"validation failed for name: must be at most 32 characters",
			ErrValidation,
		},
		{"body level", NewValidationError("", "empty body"), "validation failed: empty body", ErrValidation},
		{
			"database closed",
			NewUnavailableError("sqlite", "database is closed"),
			`service "sqlite" unavailable: database is closed`,
			ErrUnavailable,
		},
		{"no reason", NewUnavailableError("sqlite", ""), `service "sqlite" unavailable`, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())

			wrapped := fmt.Errorf("store: %w", fmt.Errorf("query: %w", tt.err))
			for _, kind := range errorKinds {
				assert.Equal(t, kind == tt.kind, errors.Is(wrapped, kind), "kind %v", kind)
			}
		})
	}
}

func TestErrorKinds_AreDistinct(t *testing.T) {
	for i, a := range errorKinds {
		for _, b := range errorKinds[i+1:] {
			assert.NotErrorIs(t, a, b)
			assert.NotErrorIs(t, b, a)
		}
	}
}

func TestErrors_FieldsSurviveWrapping(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		var nf *NotFoundError
		require.ErrorAs(t, fmt.Errorf("get: %w", AuthorNotFound(9)), &nf)
		assert.Equal(t, EntityAuthor, nf.Entity)
		assert.Equal(t, "9", nf.ID)
	})

	t.Run("conflict", func(t *testing.T) {
		var ce *ConflictError
		require.ErrorAs(t, fmt.Errorf("create: %w", NewConflictError(EntityAuthor, "name already exists", "Twain")), &ce)
		assert.Equal(t, "name already exists", ce.Reason)
		assert.Equal(t, "Twain", ce.Value)
	})

	t.Run("validation keeps the rejected value", func(t *testing.T) {
		var ve *ValidationError
		require.ErrorAs(t, NewValidationErrorWithValue("author_id", "must be greater than 0", -4), &ve)
		assert.Equal(t, "author_id", ve.Field)
		assert.Equal(t, -4, ve.Value)
	})

	t.Run("unavailable", func(t *testing.T) {
		var ue *UnavailableError
		require.ErrorAs(t, fmt.Errorf("ping: %w", NewUnavailableError("sqlite", "closed")), &ue)
		assert.Equal(t, "sqlite", ue.Service)
		assert.Equal(t, "closed", ue.Reason)
	})
}
