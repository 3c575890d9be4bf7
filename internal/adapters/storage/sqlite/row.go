package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/moviequotes/quote-service/internal/domain"
)

// quoteRow is the raw shape of a quotes row. The text columns are nullable
// here so a row that breaks the NOT NULL contract fails validation instead of Scan.
type quoteRow struct {
	ID           int64
	Quote        sql.NullString
	Movie        sql.NullString
	Character    sql.NullString
	PosterURL    *string
	CharacterURL *string
}

// quoteShape is validated before a row becomes a domain.Quote.
type quoteShape struct {
	ID           int64  `validate:"gt=0"`
	Quote        string `validate:"required"`
	Movie        string `validate:"required"`
	Character    string `validate:"required"`
	PosterURL    string `validate:"image_url"`
	CharacterURL string `validate:"image_url"`
}

func (r *quoteRow) toDomain() (*domain.Quote, error) {
	shape := quoteShape{
		ID:           r.ID,
		Quote:        r.Quote.String,
		Movie:        r.Movie.String,
		Character:    r.Character.String,
		PosterURL:    deref(r.PosterURL),
		CharacterURL: deref(r.CharacterURL),
	}

	if err := rowValidator.Struct(shape); err != nil {
		return nil, fmt.Errorf("quote %d has unexpected shape: %w", r.ID, err)
	}

	return &domain.Quote{
		ID:           shape.ID,
		Text:         shape.Quote,
		Movie:        shape.Movie,
		Character:    shape.Character,
		PosterURL:    r.PosterURL,
		CharacterURL: r.CharacterURL,
	}, nil
}

// isImageURL backs the image_url tag. Blank values pass, as do absolute
// http(s) URLs and root-relative paths such as "/posters/jaws.jpg".
func isImageURL(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	if v == "" {
		return true
	}

	if strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//") {
		_, err := url.Parse(v)
		return err == nil
	}

	u, err := url.Parse(v)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
