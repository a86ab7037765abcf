package model

import (
	"errors"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"foodgram-backend/internal/shared/utils"
)

var (
	maxCookingTime = decimal.NewFromInt(1000)
	maxAmount      = decimal.NewFromInt(100000)
)

// IngredientAmount is one submitted ingredient line: {"id": "...", "amount": 2.5}
type IngredientAmount struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

func (a IngredientAmount) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.By(notNilID)),
		validation.Field(&a.Amount, validation.By(positiveDecimal(maxAmount))),
	)
}

// CreateRequest - POST /api/recipes
type CreateRequest struct {
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	Image       string             `json:"image"`
	CookingTime decimal.Decimal    `json:"cooking_time"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

func (r *CreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Text = strings.TrimSpace(r.Text)
	r.Tags = dedupe(r.Tags)
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.Image, validation.Required),
		validation.Field(&r.CookingTime, validation.By(positiveDecimal(maxCookingTime))),
		validation.Field(&r.Tags, validation.By(tagIDs)),
		validation.Field(&r.Ingredients,
			validation.Required.Error("select at least one ingredient"),
			validation.By(ingredientLines),
		),
	)
}

// UpdateRequest - PATCH /api/recipes/:id. Nil fields are left untouched;
// non-nil Tags / Ingredients replace the whole set.
type UpdateRequest struct {
	Name        *string             `json:"name"`
	Text        *string             `json:"text"`
	Image       *string             `json:"image"`
	CookingTime *decimal.Decimal    `json:"cooking_time"`
	Tags        *[]uuid.UUID        `json:"tags"`
	Ingredients *[]IngredientAmount `json:"ingredients"`
}

func (r *UpdateRequest) Normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Text != nil {
		text := strings.TrimSpace(*r.Text)
		r.Text = &text
	}
	if r.Tags != nil {
		tags := dedupe(*r.Tags)
		r.Tags = &tags
	}
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Text, validation.NilOrNotEmpty),
		validation.Field(&r.Image, validation.NilOrNotEmpty),
		validation.Field(&r.CookingTime, validation.By(positiveDecimal(maxCookingTime))),
		validation.Field(&r.Tags, validation.By(tagIDs)),
		validation.Field(&r.Ingredients,
			validation.NilOrNotEmpty.Error("select at least one ingredient"),
			validation.By(ingredientLines),
		),
	)
}

// IsUploadedImage reports whether s is a new upload (data URI) rather than an existing URL.
func IsUploadedImage(s string) bool {
	return !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://")
}

// ozzo's Indirect calls driver.Valuer, which would turn uuid and decimal into
// strings, so the rules below unwrap pointers by hand.

func notNilID(value interface{}) error {
	var id uuid.UUID
	switch v := value.(type) {
	case uuid.UUID:
		id = v
	case *uuid.UUID:
		if v == nil {
			return nil
		}
		id = *v
	}
	if id == uuid.Nil {
		return errors.New("id is required")
	}
	return nil
}

// positiveDecimal: 0 < d < upper, at most one fractional digit.
func positiveDecimal(upper decimal.Decimal) validation.RuleFunc {
	return func(value interface{}) error {
		var d decimal.Decimal
		switch v := value.(type) {
		case decimal.Decimal:
			d = v
		case *decimal.Decimal:
			if v == nil {
				return nil
			}
			d = *v
		default:
			return errors.New("must be a number")
		}
		if !d.IsPositive() {
			return errors.New("must be greater than 0")
		}
		if d.GreaterThanOrEqual(upper) {
			return errors.New("must be less than " + upper.String())
		}
		if !utils.HasAtMostOneDecimal(d) {
			return errors.New("at most one decimal place is allowed")
		}
		return nil
	}
}

// ingredientLines validates every line and reports a repeated id on the line
// that repeats it, so a duplicate never hides an amount error on another line.
// Keys follow ozzo's slice convention: "3" -> {"id": ..., "amount": ...}.
func ingredientLines(value interface{}) error {
	var lines []IngredientAmount
	switch v := value.(type) {
	case []IngredientAmount:
		lines = v
	case *[]IngredientAmount:
		if v != nil {
			lines = *v
		}
	}

	errs := validation.Errors{}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for i, l := range lines {
		lineErrs := validation.Errors{}
		if err := l.Validate(); err != nil {
			if !errors.As(err, &lineErrs) {
				return err
			}
		}
		if _, dup := seen[l.ID]; dup && l.ID != uuid.Nil {
			lineErrs["id"] = errors.New("ingredient is listed more than once")
		}
		seen[l.ID] = struct{}{}
		if len(lineErrs) > 0 {
			errs[strconv.Itoa(i)] = lineErrs
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func tagIDs(value interface{}) error {
	var ids []uuid.UUID
	switch v := value.(type) {
	case []uuid.UUID:
		ids = v
	case *[]uuid.UUID:
		if v != nil {
			ids = *v
		}
	}
	for _, id := range ids {
		if id == uuid.Nil {
			return errors.New("tag id is required")
		}
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
