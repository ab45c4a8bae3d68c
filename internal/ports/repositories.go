// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Repository methods follow one rule for missing rows: a lookup or mutation
// that targets an id with no row reports found=false with a nil error.
// Errors are reserved for storage failures and constraint violations.
package ports

import (
	"context"

	"github.com/jsamuelsen/quotes-service/internal/domain"
)

// AuthorRepository persists authors.
type AuthorRepository interface {
	// FindByID returns the author with the given id, or found=false.
	FindByID(ctx context.Context, id int64) (author *domain.Author, found bool, err error)

	// ListAll returns every author ordered by id.
	ListAll(ctx context.Context) ([]domain.Author, error)

	// Insert stores a new author and returns it with its generated id.
	// Returns domain.ErrConflict if the name is already taken.
	Insert(ctx context.Context, name string) (*domain.Author, error)

	// Update applies the patch and returns the stored author, or found=false.
	// Returns domain.ErrConflict if the new name is already taken.
	Update(ctx context.Context, id int64, patch domain.AuthorPatch) (author *domain.Author, found bool, err error)

	// DeleteCascading removes the author and all of its quotes as one unit.
	DeleteCascading(ctx context.Context, id int64) (found bool, err error)
}

// QuoteRepository persists quotes. Returned quotes carry their Author.
type QuoteRepository interface {
	// FindByID returns the quote with the given id, or found=false.
	FindByID(ctx context.Context, id int64) (quote *domain.Quote, found bool, err error)

	// ListAll returns every quote ordered by id.
	ListAll(ctx context.Context) ([]domain.Quote, error)

	// ListByAuthor returns the quotes of one author ordered by id.
	ListByAuthor(ctx context.Context, authorID int64) ([]domain.Quote, error)

	// Insert stores a new quote for an existing author.
	// authorFound is false when the author does not exist; nothing is written then.
	Insert(ctx context.Context, authorID int64, text string) (quote *domain.Quote, authorFound bool, err error)

	// Update applies the patch and returns the stored quote, or found=false.
	// A patch that reassigns the quote to a missing author returns a
	// domain.NotFoundError for that author.
	Update(ctx context.Context, id int64, patch domain.QuotePatch) (quote *domain.Quote, found bool, err error)

	// Delete removes a single quote.
	Delete(ctx context.Context, id int64) (found bool, err error)
}
