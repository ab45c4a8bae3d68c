package sqlite

import "github.com/jsamuelsen/quotes-service/internal/domain"

type authorRecord struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:32;not null;uniqueIndex"`
}

func (authorRecord) TableName() string {
	return "authors"
}

func (r *authorRecord) toDomain() domain.Author {
	return domain.Author{ID: r.ID, Name: r.Name}
}

// quoteRecord belongs to an author; the FK cascades author deletes at the
// schema level in addition to the explicit delete in DeleteCascading.
type quoteRecord struct {
	ID       int64        `gorm:"primaryKey;autoIncrement"`
	AuthorID int64        `gorm:"not null;index"`
	Author   authorRecord `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Text     string       `gorm:"size:255"`
}

func (quoteRecord) TableName() string {
	return "quotes"
}

func (r *quoteRecord) toDomain() domain.Quote {
	return domain.Quote{
		ID:       r.ID,
		AuthorID: r.AuthorID,
		Author:   r.Author.toDomain(),
		Text:     r.Text,
	}
}

func quotesToDomain(records []quoteRecord) []domain.Quote {
	quotes := make([]domain.Quote, 0, len(records))
	for i := range records {
		quotes = append(quotes, records[i].toDomain())
	}

	return quotes
}
