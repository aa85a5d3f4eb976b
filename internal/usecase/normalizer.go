package usecase

import (
	"encoding/json"
)

// UploadPathPrefix — префикс imageUrl для файлов, принятых обработчиком загрузки.
const UploadPathPrefix = "/uploads/"

const (
	fieldName         = "name"
	fieldPrice        = "price"
	fieldCategories   = "categories"
	fieldAvailability = "availability"
	fieldImageURL     = "imageUrl"
	fieldDescription  = "description"
)

// Normalize приводит разнородные кодировки клиента к одному кандидату.
// Никогда не возвращает ошибку: некорректный ввод отсеивает валидатор.
func Normalize(raw RawInput, image *UploadedImage) Candidate {
	available := normalizeAvailability(raw[fieldAvailability])

	c := Candidate{
		Name:         raw[fieldName],
		Price:        raw[fieldPrice],
		Categories:   normalizeCategories(raw[fieldCategories]),
		Availability: &available,
		ImageURL:     raw[fieldImageURL],
		Description:  raw[fieldDescription],
	}

	if image != nil {
		c.ImageURL = UploadPathPrefix + image.Filename
	}

	for key, value := range raw {
		switch key {
		case fieldName, fieldPrice, fieldCategories, fieldAvailability, fieldImageURL, fieldDescription:
			continue
		}
		if c.Unknown == nil {
			c.Unknown = make(map[string]any)
		}
		c.Unknown[key] = value
	}

	return c
}

// normalizeCategories пропускает последовательность как есть, а строку разбирает как JSON-массив.
// Отсутствие поля или неразбираемый JSON дают пустую последовательность.
func normalizeCategories(v any) []any {
	switch cats := v.(type) {
	case []any:
		return cats
	case []string:
		out := make([]any, len(cats))
		for i, c := range cats {
			out[i] = c
		}
		return out
	case string:
		var parsed []any
		if err := json.Unmarshal([]byte(cats), &parsed); err != nil || parsed == nil {
			return []any{}
		}
		return parsed
	default:
		return []any{}
	}
}

// normalizeAvailability: только строка "true" или булево true дают true.
func normalizeAvailability(v any) bool {
	switch a := v.(type) {
	case bool:
		return a
	case string:
		return a == "true"
	default:
		return false
	}
}
