package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/quotes-service/internal/domain"
	"github.com/jsamuelsen/quotes-service/internal/ports"
)

var _ ports.QuoteRepository = (*QuoteRepository)(nil)

// QuoteRepository is the SQLite implementation of ports.QuoteRepository.
type QuoteRepository struct {
	store *Store
}

// FindByID implements ports.QuoteRepository.
func (r *QuoteRepository) FindByID(ctx context.Context, id int64) (quote *domain.Quote, found bool, err error) {
	ctx, done := r.store.observe(ctx, "quotes.find")
	defer func() { done(err) }()

	rec, found, err := findQuote(r.store.db.WithContext(ctx), id)
	if err != nil || !found {
		return nil, found, err
	}

	q := rec.toDomain()

	return &q, true, nil
}

// ListAll implements ports.QuoteRepository.
func (r *QuoteRepository) ListAll(ctx context.Context) (quotes []domain.Quote, err error) {
	ctx, done := r.store.observe(ctx, "quotes.list")
	defer func() { done(err) }()

	var records []quoteRecord
	if err := r.store.db.WithContext(ctx).Preload("Author").Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	return quotesToDomain(records), nil
}

// ListByAuthor implements ports.QuoteRepository.
func (r *QuoteRepository) ListByAuthor(ctx context.Context, authorID int64) (quotes []domain.Quote, err error) {
	ctx, done := r.store.observe(ctx, "quotes.list_by_author")
	defer func() { done(err) }()

	var records []quoteRecord

	err = r.store.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list quotes of author %d: %w", authorID, err)
	}

	return quotesToDomain(records), nil
}

// Insert implements ports.QuoteRepository. The author lookup and the insert
// share a transaction so the quote cannot be attached to a vanished author.
func (r *QuoteRepository) Insert(
	ctx context.Context,
	authorID int64,
	text string,
) (quote *domain.Quote, authorFound bool, err error) {
	ctx, done := r.store.observe(ctx, "quotes.insert")
	defer func() { done(err) }()

	var rec quoteRecord

	err = r.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, found, txErr := findAuthor(tx, authorID)
		if txErr != nil || !found {
			authorFound = found
			return txErr
		}

		authorFound = true
		rec = quoteRecord{AuthorID: authorID, Text: text}

		if txErr = tx.Omit(clause.Associations).Create(&rec).Error; txErr != nil {
			return fmt.Errorf("create quote: %w", txErr)
		}

		rec.Author = *author

		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("insert quote for author %d: %w", authorID, err)
	}

	if !authorFound {
		return nil, false, nil
	}

	q := rec.toDomain()

	return &q, true, nil
}

// Update implements ports.QuoteRepository.
func (r *QuoteRepository) Update(
	ctx context.Context,
	id int64,
	patch domain.QuotePatch,
) (quote *domain.Quote, found bool, err error) {
	ctx, done := r.store.observe(ctx, "quotes.update")
	defer func() { done(err) }()

	var rec *quoteRecord

	err = r.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error

		if _, found, txErr = findQuote(tx, id); txErr != nil || !found {
			return txErr
		}

		updates := make(map[string]any, 2)

		if patch.Text != nil {
			updates["text"] = *patch.Text
		}

		if patch.AuthorID != nil {
			_, authorFound, findErr := findAuthor(tx, *patch.AuthorID)
			if findErr != nil {
				return findErr
			}

			if !authorFound {
				return domain.AuthorNotFound(*patch.AuthorID)
			}

			updates["author_id"] = *patch.AuthorID
		}

		if len(updates) > 0 {
			if txErr = tx.Model(&quoteRecord{ID: id}).Omit(clause.Associations).Updates(updates).Error; txErr != nil {
				return fmt.Errorf("apply quote patch: %w", txErr)
			}
		}

		rec, _, txErr = findQuote(tx, id)

		return txErr
	})
	if err != nil {
		return nil, false, fmt.Errorf("update quote %d: %w", id, err)
	}

	if !found {
		return nil, false, nil
	}

	q := rec.toDomain()

	return &q, true, nil
}

// Delete implements ports.QuoteRepository.
func (r *QuoteRepository) Delete(ctx context.Context, id int64) (found bool, err error) {
	ctx, done := r.store.observe(ctx, "quotes.delete")
	defer func() { done(err) }()

	res := r.store.db.WithContext(ctx).Delete(&quoteRecord{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete quote %d: %w", id, res.Error)
	}

	return res.RowsAffected > 0, nil
}

// findQuote loads one quote with its author, reporting a missing row as found=false.
func findQuote(db *gorm.DB, id int64) (*quoteRecord, bool, error) {
	var rec quoteRecord

	err := db.Preload("Author").Take(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("find quote %d: %w", id, err)
	}

	return &rec, true, nil
}
