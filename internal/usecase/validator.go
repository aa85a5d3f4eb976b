package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Validate проверяет кандидата по схеме растения и возвращает типизированную запись.
// Все нарушения собираются в *ValidationError в порядке полей схемы; вход не изменяется.
func Validate(c Candidate) (*PlantInput, error) {
	var (
		violations []string
		input      PlantInput
	)

	if name, msg := validateRequiredString(fieldName, c.Name); msg != "" {
		violations = append(violations, msg)
	} else {
		input.Name = name
	}

	if price, msg := validatePrice(c.Price); msg != "" {
		violations = append(violations, msg)
	} else {
		input.Price = price
	}

	if categories, msgs := validateCategories(c.Categories); len(msgs) > 0 {
		violations = append(violations, msgs...)
	} else {
		input.Categories = categories
	}

	if c.Availability == nil {
		violations = append(violations, quote(fieldAvailability)+" must be a boolean")
	} else {
		input.Availability = *c.Availability
	}

	if imageURL, msg := validateOptionalString(fieldImageURL, c.ImageURL); msg != "" {
		violations = append(violations, msg)
	} else {
		input.ImageURL = imageURL
	}

	if description, msg := validateOptionalString(fieldDescription, c.Description); msg != "" {
		violations = append(violations, msg)
	} else {
		input.Description = description
	}

	unknown := make([]string, 0, len(c.Unknown))
	for key := range c.Unknown {
		unknown = append(unknown, key)
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		violations = append(violations, quote(key)+" is not allowed")
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	return &input, nil
}

func validateRequiredString(field string, v any) (string, string) {
	if v == nil {
		return "", quote(field) + " is required"
	}

	s, ok := v.(string)
	if !ok {
		return "", quote(field) + " must be a string"
	}
	if strings.TrimSpace(s) == "" {
		return "", quote(field) + " is not allowed to be empty"
	}

	return s, ""
}

func validateOptionalString(field string, v any) (*string, string) {
	if v == nil {
		return nil, ""
	}

	s, ok := v.(string)
	if !ok {
		return nil, quote(field) + " must be a string"
	}

	return &s, ""
}

// validatePrice принимает число или числовую строку (поля формы всегда приходят строками).
func validatePrice(v any) (float64, string) {
	const (
		required = `"price" is required`
		notNum   = `"price" must be a number`
		positive = `"price" must be a positive number`
	)

	var d decimal.Decimal
	switch p := v.(type) {
	case nil:
		return 0, required
	case float64:
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return 0, notNum
		}
		d = decimal.NewFromFloat(p)
	case int:
		d = decimal.NewFromInt(int64(p))
	case int64:
		d = decimal.NewFromInt(p)
	case json.Number:
		parsed, err := decimal.NewFromString(p.String())
		if err != nil {
			return 0, notNum
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil {
			return 0, notNum
		}
		d = parsed
	default:
		return 0, notNum
	}

	if !d.IsPositive() {
		return 0, positive
	}

	price, _ := d.Float64()
	if math.IsInf(price, 0) {
		return 0, notNum
	}

	return price, ""
}

func validateCategories(v []any) ([]string, []string) {
	if len(v) == 0 {
		return nil, []string{quote(fieldCategories) + " must contain at least 1 items"}
	}

	var (
		categories = make([]string, 0, len(v))
		msgs       []string
	)
	for i, item := range v {
		field := fmt.Sprintf("%s[%d]", fieldCategories, i)

		s, ok := item.(string)
		if !ok {
			msgs = append(msgs, quote(field)+" must be a string")
			continue
		}
		if strings.TrimSpace(s) == "" {
			msgs = append(msgs, quote(field)+" is not allowed to be empty")
			continue
		}
		categories = append(categories, s)
	}

	return categories, msgs
}

func quote(field string) string {
	return `"` + field + `"`
}
