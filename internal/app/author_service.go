// Package app contains the application services behind the HTTP handlers.
//
// Services turn the found=false signal of the repositories into domain
// not-found errors, check input invariants, and log each use case. They
// depend on port interfaces only.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quotes-service/internal/domain"
	"github.com/jsamuelsen/quotes-service/internal/platform/logging"
	"github.com/jsamuelsen/quotes-service/internal/ports"
)

// AuthorService orchestrates author use cases.
type AuthorService struct {
	authors ports.AuthorRepository
	quotes  ports.QuoteRepository
	logger  *slog.Logger
}

// AuthorServiceConfig contains the dependencies of AuthorService.
type AuthorServiceConfig struct {
	Authors ports.AuthorRepository
	Quotes  ports.QuoteRepository
	Logger  *slog.Logger
}

// NewAuthorService creates an author service. It panics when a repository
// is missing since the service cannot work without it.
func NewAuthorService(cfg AuthorServiceConfig) *AuthorService {
	if cfg.Authors == nil || cfg.Quotes == nil {
		panic("app: AuthorService requires author and quote repositories")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthorService{
		authors: cfg.Authors,
		quotes:  cfg.Quotes,
		logger:  logger.With(slog.String("component", "app.AuthorService")),
	}
}

// ListAuthors returns every author.
func (s *AuthorService) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	authors, err := s.authors.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing authors: %w", err)
	}

	logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "listed authors",
		slog.Int("count", len(authors)),
	)

	return authors, nil
}

// GetAuthor returns one author or a not-found error.
func (s *AuthorService) GetAuthor(ctx context.Context, id int64) (*domain.Author, error) {
	author, found, err := s.authors.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting author %d: %w", id, err)
	}

	if !found {
		return nil, domain.AuthorNotFound(id)
	}

	return author, nil
}

// CreateAuthor stores a new author.
func (s *AuthorService) CreateAuthor(ctx context.Context, name string) (*domain.Author, error) {
	logger := logging.FromContextOr(ctx, s.logger).With(slog.String("method", "CreateAuthor"))

	if err := domain.ValidateAuthorName(name); err != nil {
		return nil, err
	}

	author, err := s.authors.Insert(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("creating author: %w", err)
	}

	logger.InfoContext(ctx, "author created", slog.Int64("author_id", author.ID))

	return author, nil
}

// UpdateAuthor overwrites the fields set in patch.
func (s *AuthorService) UpdateAuthor(ctx context.Context, id int64, patch domain.AuthorPatch) (*domain.Author, error) {
	logger := logging.FromContextOr(ctx, s.logger).With(
		slog.String("method", "UpdateAuthor"),
		slog.Int64("author_id", id),
	)

	if err := patch.Validate(); err != nil {
		// A missing author outranks a bad body.
		if _, found, findErr := s.authors.FindByID(ctx, id); findErr == nil && !found {
			return nil, domain.AuthorNotFound(id)
		}

		return nil, err
	}

	author, found, err := s.authors.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("updating author %d: %w", id, err)
	}

	if !found {
		return nil, domain.AuthorNotFound(id)
	}

	logger.InfoContext(ctx, "author updated", slog.Bool("changed", !patch.IsEmpty()))

	return author, nil
}

// DeleteAuthor removes the author together with all of its quotes.
func (s *AuthorService) DeleteAuthor(ctx context.Context, id int64) error {
	found, err := s.authors.DeleteCascading(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting author %d: %w", id, err)
	}

	if !found {
		return domain.AuthorNotFound(id)
	}

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "author deleted",
		slog.Int64("author_id", id),
	)

	return nil
}

// ListAuthorQuotes returns the quotes of one author. The author lookup and
// the quote scan run concurrently.
func (s *AuthorService) ListAuthorQuotes(ctx context.Context, id int64) ([]domain.Quote, error) {
	author, quotes, err := Parallel2(ctx,
		func(ctx context.Context) (*domain.Author, error) {
			author, found, err := s.authors.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}

			if !found {
				return nil, domain.AuthorNotFound(id)
			}

			return author, nil
		},
		func(ctx context.Context) ([]domain.Quote, error) {
			return s.quotes.ListByAuthor(ctx, id)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("listing quotes of author %d: %w", id, err)
	}

	logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "listed author quotes",
		slog.Int64("author_id", author.ID),
		slog.Int("count", len(quotes)),
	)

	return quotes, nil
}
