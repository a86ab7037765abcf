package model

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"foodgram-backend/internal/shared/apperror"
)

var (
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Tag - nhãn gắn cho recipe (breakfast, lunch, ...)
type Tag struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

// Normalize trims whitespace and upper-cases the color.
func (t *Tag) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	t.Slug = strings.TrimSpace(t.Slug)
	t.Color = strings.ToUpper(strings.TrimSpace(t.Color))
}

func (t Tag) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&t.Color, validation.Required, validation.Match(colorPattern).Error("color must be a hex code like #E26C2D")),
		validation.Field(&t.Slug, validation.Required, validation.Length(1, 200), validation.Match(slugPattern)),
	)
}

var ErrTagNotFound = apperror.New(apperror.NotFound, "TAG_NOT_FOUND", "tag not found")
