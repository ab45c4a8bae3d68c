package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Entity names used in error messages and logs.
const (
	EntityAuthor = "Author"
	EntityQuote  = "Quote"
)

// Field limits enforced by the schema and request validation.
const (
	MaxAuthorNameLength = 32
	MaxQuoteTextLength  = 255
)

// Author is a person quotes are attributed to. Names are unique.
type Author struct {
	ID   int64
	Name string
}

// Quote is a piece of text attributed to exactly one Author.
// Author is always populated when a Quote leaves the repository.
type Quote struct {
	ID       int64
	AuthorID int64
	Author   Author
	Text     string
}

// AuthorPatch lists the author fields a client may overwrite.
// Nil fields are left untouched.
type AuthorPatch struct {
	Name *string
}

// IsEmpty reports whether the patch changes nothing.
func (p AuthorPatch) IsEmpty() bool {
	return p.Name == nil
}

// QuotePatch lists the quote fields a client may overwrite.
// Nil fields are left untouched; the quote id is never writable.
type QuotePatch struct {
	Text     *string
	AuthorID *int64
}

// IsEmpty reports whether the patch changes nothing.
func (p QuotePatch) IsEmpty() bool {
	return p.Text == nil && p.AuthorID == nil
}

// AuthorNotFound returns the not-found error for an author id.
func AuthorNotFound(id int64) error {
	return NewNotFoundError(EntityAuthor, strconv.FormatInt(id, 10))
}

// QuoteNotFound returns the not-found error for a quote id.
func QuoteNotFound(id int64) error {
	return NewNotFoundError(EntityQuote, strconv.FormatInt(id, 10))
}

// ValidateAuthorName checks the name limits of the authors table.
func ValidateAuthorName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return NewValidationError("name", "must not be empty")
	case utf8.RuneCountInString(name) > MaxAuthorNameLength:
		return NewValidationErrorWithValue("name",
			"must be at most "+strconv.Itoa(MaxAuthorNameLength)+" characters", name)
	}

	return nil
}

// ValidateQuoteText checks the text limits of the quotes table.
func ValidateQuoteText(text string) error {
	switch {
	case strings.TrimSpace(text) == "":
		return NewValidationError("text", "must not be empty")
	case utf8.RuneCountInString(text) > MaxQuoteTextLength:
		return NewValidationErrorWithValue("text",
			"must be at most "+strconv.Itoa(MaxQuoteTextLength)+" characters", len(text))
	}

	return nil
}

// Validate checks every field the patch sets.
func (p AuthorPatch) Validate() error {
	if p.Name != nil {
		return ValidateAuthorName(*p.Name)
	}

	return nil
}

// Validate checks every field the patch sets.
func (p QuotePatch) Validate() error {
	if p.Text != nil {
		if err := ValidateQuoteText(*p.Text); err != nil {
			return err
		}
	}

	if p.AuthorID != nil && *p.AuthorID <= 0 {
		return NewValidationErrorWithValue("author_id", "must be a positive integer", *p.AuthorID)
	}

	return nil
}
