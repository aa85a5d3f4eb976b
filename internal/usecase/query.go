package usecase

import (
	"strings"
	"unicode"
)

const (
	// MaxListResults — жёсткий предел выдачи списка, клиент не может его изменить.
	MaxListResults = 50
	// SortByName — единственный порядок выдачи: по имени, по возрастанию.
	SortByName = "name"
)

// BuildListFilter переводит параметры поиска в фильтр для хранилища.
func BuildListFilter(req *ListPlantsReq) ListFilter {
	filter := ListFilter{
		SortField: SortByName,
		Limit:     MaxListResults,
	}

	if search := strings.TrimSpace(req.Search); search != "" {
		filter.Search = &TextSearch{Terms: searchTerms(search)}
	}

	if req.Categories != "" {
		filter.Categories = splitCategories(req.Categories)
	}

	return filter
}

// searchTerms разбивает строку поиска на слова в нижнем регистре без повторов.
func searchTerms(search string) []string {
	words := strings.FieldsFunc(search, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(words))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}

	return terms
}

// splitCategories разбивает список категорий по запятой, отбрасывая пустые значения и повторы.
func splitCategories(raw string) []string {
	parts := strings.Split(raw, ",")

	seen := make(map[string]struct{}, len(parts))
	categories := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		categories = append(categories, p)
	}

	return categories
}
