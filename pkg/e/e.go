package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable  = fmt.Errorf("incorrect environment variable")
	ErrUnknownUploadBackend  = fmt.Errorf("unknown upload backend")
	ErrUnknownStorageBackend = fmt.Errorf("unknown storage backend")

	// 400 Bad Request
	ErrStatusBadRequest = fmt.Errorf("bad request")
	ErrBadForm          = fmt.Errorf("malformed request body")
	ErrUploadRejected   = fmt.Errorf("Only .jpg, .jpeg, .png files are allowed")
	ErrFileTooLarge     = fmt.Errorf("file too large")
	ErrNameConflict     = fmt.Errorf("Plant name already exists")

	// 404 Not Found
	ErrPlantNotFound = fmt.Errorf("Plant not found")
	ErrImageNotFound = fmt.Errorf("image not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
