package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quotes-service/internal/domain"
	"github.com/jsamuelsen/quotes-service/internal/platform/logging"
	"github.com/jsamuelsen/quotes-service/internal/ports"
)

// QuoteService orchestrates quote use cases.
type QuoteService struct {
	quotes ports.QuoteRepository
	logger *slog.Logger
}

// QuoteServiceConfig contains the dependencies of QuoteService.
type QuoteServiceConfig struct {
	Quotes ports.QuoteRepository
	Logger *slog.Logger
}

// NewQuoteService creates a quote service. It panics without a repository.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Quotes == nil {
		panic("app: QuoteService requires a quote repository")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		quotes: cfg.Quotes,
		logger: logger.With(slog.String("component", "app.QuoteService")),
	}
}

// ListQuotes returns every quote with its author.
func (s *QuoteService) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	quotes, err := s.quotes.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}

	logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "listed quotes",
		slog.Int("count", len(quotes)),
	)

	return quotes, nil
}

// GetQuote returns one quote or a not-found error.
func (s *QuoteService) GetQuote(ctx context.Context, id int64) (*domain.Quote, error) {
	quote, found, err := s.quotes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting quote %d: %w", id, err)
	}

	if !found {
		return nil, domain.QuoteNotFound(id)
	}

	return quote, nil
}

// CreateQuote stores a new quote for an existing author. A missing author
// yields the author's not-found error.
func (s *QuoteService) CreateQuote(ctx context.Context, authorID int64, text string) (*domain.Quote, error) {
	logger := logging.FromContextOr(ctx, s.logger).With(
		slog.String("method", "CreateQuote"),
		slog.Int64("author_id", authorID),
	)

	if err := domain.ValidateQuoteText(text); err != nil {
		return nil, err
	}

	quote, authorFound, err := s.quotes.Insert(ctx, authorID, text)
	if err != nil {
		return nil, fmt.Errorf("creating quote: %w", err)
	}

	if !authorFound {
		return nil, domain.AuthorNotFound(authorID)
	}

	logger.InfoContext(ctx, "quote created", slog.Int64("quote_id", quote.ID))

	return quote, nil
}

// UpdateQuote overwrites the fields set in patch.
func (s *QuoteService) UpdateQuote(ctx context.Context, id int64, patch domain.QuotePatch) (*domain.Quote, error) {
	logger := logging.FromContextOr(ctx, s.logger).With(
		slog.String("method", "UpdateQuote"),
		slog.Int64("quote_id", id),
	)

	if err := patch.Validate(); err != nil {
		// A missing quote outranks a bad body.
		if _, found, findErr := s.quotes.FindByID(ctx, id); findErr == nil && !found {
			return nil, domain.QuoteNotFound(id)
		}

		return nil, err
	}

	quote, found, err := s.quotes.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("updating quote %d: %w", id, err)
	}

	if !found {
		return nil, domain.QuoteNotFound(id)
	}

	logger.InfoContext(ctx, "quote updated", slog.Bool("changed", !patch.IsEmpty()))

	return quote, nil
}

// DeleteQuote removes a single quote.
func (s *QuoteService) DeleteQuote(ctx context.Context, id int64) error {
	found, err := s.quotes.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting quote %d: %w", id, err)
	}

	if !found {
		return domain.QuoteNotFound(id)
	}

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "quote deleted",
		slog.Int64("quote_id", id),
	)

	return nil
}

// FilterQuotes is a placeholder for query filtering. It records the
// received arguments and always returns an empty result.
func (s *QuoteService) FilterQuotes(ctx context.Context, args map[string][]string) map[string]any {
	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "quote filter requested",
		slog.Any("args", args),
	)

	return map[string]any{}
}
