package pgdb

import (
	"fmt"
	"strings"

	"github.com/DRSN-tech/plant-catalog/internal/usecase"
)

const (
	plantColumns = `id::text, name, price, categories, availability, image_url, description, created_at, updated_at`

	// searchConfig должен совпадать с конфигурацией генерируемого столбца search_vector.
	searchConfig = "english"
)

// renderFindQuery переводит фильтр в параметризованный SQL.
// Пользовательский текст попадает в запрос только через параметры.
func renderFindQuery(filter usecase.ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.Search != nil {
		if len(filter.Search.Terms) == 0 {
			conds = append(conds, "FALSE")
		} else {
			queries := make([]string, 0, len(filter.Search.Terms))
			for _, term := range filter.Search.Terms {
				args = append(args, term)
				queries = append(queries, fmt.Sprintf("plainto_tsquery('%s', $%d)", searchConfig, len(args)))
			}
			conds = append(conds, "search_vector @@ ("+strings.Join(queries, " || ")+")")
		}
	}

	if filter.Categories != nil {
		if len(filter.Categories) == 0 {
			conds = append(conds, "FALSE")
		} else {
			args = append(args, filter.Categories)
			conds = append(conds, fmt.Sprintf("categories && $%d::text[]", len(args)))
		}
	}

	var b strings.Builder
	b.WriteString("SELECT " + plantColumns + " FROM plants")
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY " + orderColumn(filter.SortField) + ` COLLATE "C" ASC`)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}

	return b.String(), args
}

var sortColumns = map[string]string{
	usecase.SortByName: "name",
}

// orderColumn допускает только известные столбцы сортировки.
func orderColumn(field string) string {
	if column, ok := sortColumns[field]; ok {
		return column
	}
	return sortColumns[usecase.SortByName]
}
