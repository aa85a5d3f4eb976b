package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/plant-catalog/internal/domain"
	"github.com/DRSN-tech/plant-catalog/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/plant-catalog/internal/usecase"
	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/DRSN-tech/plant-catalog/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// PlantRepo реализует репозиторий растений поверх PostgreSQL.
// Внутри транзакции из контекста запросы выполняются в ней, иначе через пул.
type PlantRepo struct {
	pool *pgxpool.Pool
	conv converter.PlantConverter
}

func NewPlantRepo(pool *pgxpool.Pool, conv converter.PlantConverter) *PlantRepo {
	return &PlantRepo{
		pool: pool,
		conv: conv,
	}
}

// Find возвращает растения, подходящие под фильтр.
func (p *PlantRepo) Find(ctx context.Context, filter usecase.ListFilter) ([]domain.Plant, error) {
	query, args := renderFindQuery(filter)

	rows, err := tr.ExecutorFromCtx(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]*converter.PlantModel, 0)
	for rows.Next() {
		model, err := scanPlant(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

// Insert сохраняет новое растение. Занятое имя возвращается как e.ErrNameConflict.
func (p *PlantRepo) Insert(ctx context.Context, input *usecase.PlantInput) (*domain.Plant, error) {
	query := `
		INSERT INTO plants (name, price, categories, availability, image_url, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + plantColumns

	row := tr.ExecutorFromCtx(ctx, p.pool).QueryRow(ctx, query,
		input.Name,
		input.Price,
		input.Categories,
		input.Availability,
		input.ImageURL,
		input.Description,
	)

	model, err := scanPlant(row)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapPlantError(err))
	}

	return p.conv.ToEntity(model), nil
}

// ReplaceByID заменяет поля растения. Необязательные поля, которых нет во входе, сохраняют прежние значения.
func (p *PlantRepo) ReplaceByID(ctx context.Context, id string, input *usecase.PlantInput) (*domain.Plant, error) {
	plantID, err := uuid.Parse(id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrPlantNotFound)
	}

	query := `
		UPDATE plants
		SET name = $2,
			price = $3,
			categories = $4,
			availability = $5,
			image_url = COALESCE($6, image_url),
			description = COALESCE($7, description),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + plantColumns

	row := tr.ExecutorFromCtx(ctx, p.pool).QueryRow(ctx, query,
		plantID,
		input.Name,
		input.Price,
		input.Categories,
		input.Availability,
		input.ImageURL,
		input.Description,
	)

	model, err := scanPlant(row)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapPlantError(err))
	}

	return p.conv.ToEntity(model), nil
}

// DeleteByID удаляет растение и возвращает удалённую запись.
func (p *PlantRepo) DeleteByID(ctx context.Context, id string) (*domain.Plant, error) {
	plantID, err := uuid.Parse(id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrPlantNotFound)
	}

	query := `DELETE FROM plants WHERE id = $1 RETURNING ` + plantColumns

	model, err := scanPlant(tr.ExecutorFromCtx(ctx, p.pool).QueryRow(ctx, query, plantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrPlantNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func scanPlant(row pgx.Row) (*converter.PlantModel, error) {
	var model converter.PlantModel
	err := row.Scan(
		&model.ID,
		&model.Name,
		&model.Price,
		&model.Categories,
		&model.Availability,
		&model.ImageURL,
		&model.Description,
		&model.CreatedAt,
		&model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}
