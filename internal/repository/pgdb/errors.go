package pgdb

import (
	"errors"

	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode = "23505"
	plantsNameKey       = "plants_name_key"
)

func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// mapPlantError переводит ошибки PostgreSQL в доменные ошибки каталога.
func mapPlantError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return e.ErrPlantNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == plantsNameKey {
		return e.ErrNameConflict
	}

	return err
}
