package usecase

import (
	"fmt"
	"io"
	"strings"
)

// PLANT USECASE

// RawInput — поля запроса на запись в том виде, в котором их прислал клиент.
// Значения: string, []string (повторяющиеся поля формы) или результат декодирования JSON.
type RawInput map[string]any

// UploadedImage — файл, принятый обработчиком загрузки до запуска конвейера записи.
type UploadedImage struct {
	Filename string // сгенерированное уникальное имя файла в хранилище
}

// Candidate — нормализованное представление запроса на запись до валидации.
// Поля, которые нормализатор пропускает без изменений, хранятся как any:
// их типы проверяет валидатор.
type Candidate struct {
	Name         any
	Price        any
	Categories   []any
	Availability *bool
	ImageURL     any
	Description  any
	Unknown      map[string]any // поля, не входящие в схему растения
}

// PlantInput — проверенная запись, готовая к сохранению.
type PlantInput struct {
	Name         string
	Price        float64
	Categories   []string
	Availability bool
	ImageURL     *string
	Description  *string
}

// ValidationError содержит все нарушения схемы, найденные в кандидате.
type ValidationError struct {
	Violations []string
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(v.Violations, "; "))
}

// CreatePlantReq — запрос на создание растения.
type CreatePlantReq struct {
	Raw   RawInput
	Image *UploadedImage
}

// UpdatePlantReq — запрос на полную замену полей растения.
type UpdatePlantReq struct {
	ID    string
	Raw   RawInput
	Image *UploadedImage
}

// ListPlantsReq — параметры поиска, как они пришли в query string.
type ListPlantsReq struct {
	Search     string
	Categories string // через запятую
}

// TextSearch — полнотекстовое условие: запись подходит, если совпал хотя бы один терм.
// Пустой Terms означает, что поиск был запрошен, но не содержит слов, и ничего не подходит.
type TextSearch struct {
	Terms []string
}

// ListFilter — выражение фильтрации для хранилища.
// Условия Search и Categories объединяются через AND; отсутствующее условие не ограничивает выборку.
type ListFilter struct {
	Search     *TextSearch
	Categories []string
	SortField  string
	Limit      int
}

// INFRASTRUCTURE

// UploadImageReq — файл изображения, полученный от транспорта.
type UploadImageReq struct {
	OriginalName string
	Body         io.Reader
	Size         int64
	ContentType  string
}

// MAPPERS

func NewCreatePlantReq(raw RawInput, image *UploadedImage) *CreatePlantReq {
	return &CreatePlantReq{
		Raw:   raw,
		Image: image,
	}
}

func NewUpdatePlantReq(id string, raw RawInput, image *UploadedImage) *UpdatePlantReq {
	return &UpdatePlantReq{
		ID:    id,
		Raw:   raw,
		Image: image,
	}
}

func NewListPlantsReq(search string, categories string) *ListPlantsReq {
	return &ListPlantsReq{
		Search:     search,
		Categories: categories,
	}
}

func NewUploadImageReq(originalName string, body io.Reader, size int64, contentType string) *UploadImageReq {
	return &UploadImageReq{
		OriginalName: originalName,
		Body:         body,
		Size:         size,
		ContentType:  contentType,
	}
}
