package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quotes-service/internal/domain"
	"github.com/jsamuelsen/quotes-service/internal/ports"
)

var _ ports.AuthorRepository = (*AuthorRepository)(nil)

// AuthorRepository is the SQLite implementation of ports.AuthorRepository.
type AuthorRepository struct {
	store *Store
}

// FindByID implements ports.AuthorRepository.
func (r *AuthorRepository) FindByID(ctx context.Context, id int64) (author *domain.Author, found bool, err error) {
	ctx, done := r.store.observe(ctx, "authors.find")
	defer func() { done(err) }()

	rec, found, err := findAuthor(r.store.db.WithContext(ctx), id)
	if err != nil || !found {
		return nil, found, err
	}

	a := rec.toDomain()

	return &a, true, nil
}

// ListAll implements ports.AuthorRepository.
func (r *AuthorRepository) ListAll(ctx context.Context) (authors []domain.Author, err error) {
	ctx, done := r.store.observe(ctx, "authors.list")
	defer func() { done(err) }()

	var records []authorRecord
	if err := r.store.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}

	authors = make([]domain.Author, 0, len(records))
	for i := range records {
		authors = append(authors, records[i].toDomain())
	}

	return authors, nil
}

// Insert implements ports.AuthorRepository.
func (r *AuthorRepository) Insert(ctx context.Context, name string) (author *domain.Author, err error) {
	ctx, done := r.store.observe(ctx, "authors.insert")
	defer func() { done(err) }()

	rec := authorRecord{Name: name}
	if err := r.store.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("insert author: %w", translateError(err, domain.EntityAuthor, name))
	}

	a := rec.toDomain()

	return &a, nil
}

// Update implements ports.AuthorRepository.
func (r *AuthorRepository) Update(
	ctx context.Context,
	id int64,
	patch domain.AuthorPatch,
) (author *domain.Author, found bool, err error) {
	ctx, done := r.store.observe(ctx, "authors.update")
	defer func() { done(err) }()

	var rec *authorRecord

	err = r.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error

		rec, found, txErr = findAuthor(tx, id)
		if txErr != nil || !found {
			return txErr
		}

		if patch.Name == nil {
			return nil
		}

		if txErr = tx.Model(rec).Update("name", *patch.Name).Error; txErr != nil {
			return translateError(txErr, domain.EntityAuthor, *patch.Name)
		}

		rec.Name = *patch.Name

		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("update author %d: %w", id, err)
	}

	if !found {
		return nil, false, nil
	}

	a := rec.toDomain()

	return &a, true, nil
}

// DeleteCascading implements ports.AuthorRepository. The author's quotes and
// the author row are removed in one transaction.
func (r *AuthorRepository) DeleteCascading(ctx context.Context, id int64) (found bool, err error) {
	ctx, done := r.store.observe(ctx, "authors.delete")
	defer func() { done(err) }()

	err = r.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error

		_, found, txErr = findAuthor(tx, id)
		if txErr != nil || !found {
			return txErr
		}

		if txErr = tx.Where("author_id = ?", id).Delete(&quoteRecord{}).Error; txErr != nil {
			return fmt.Errorf("delete quotes: %w", txErr)
		}

		return tx.Delete(&authorRecord{}, id).Error
	})
	if err != nil {
		return false, fmt.Errorf("delete author %d: %w", id, err)
	}

	return found, nil
}

// findAuthor loads one author row, reporting a missing row as found=false.
func findAuthor(db *gorm.DB, id int64) (*authorRecord, bool, error) {
	var rec authorRecord

	err := db.Take(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("find author %d: %w", id, err)
	}

	return &rec, true, nil
}
