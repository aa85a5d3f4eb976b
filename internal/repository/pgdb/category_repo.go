package pgdb

import (
	"context"

	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/DRSN-tech/plant-catalog/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CategoryRepo читает множество категорий из массивов plants.categories.
type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

// DistinctCategories возвращает все различные категории по возрастанию.
func (c *CategoryRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	query := `
		SELECT category
		FROM (SELECT DISTINCT unnest(categories) AS category FROM plants) AS c
		ORDER BY category COLLATE "C"
	`

	rows, err := tr.ExecutorFromCtx(ctx, c.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, category)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
