package http

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/plant-catalog/internal/usecase"
	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/DRSN-tech/plant-catalog/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type PlantHandler struct {
	plantUsecase  usecase.PlantUC
	imagesInfra   usecase.ImagesInfra
	logger        logger.Logger
	maxUploadSize int64
}

func NewPlantHandler(plantUsecase usecase.PlantUC, imagesInfra usecase.ImagesInfra, logger logger.Logger, maxUploadSize int64) *PlantHandler {
	return &PlantHandler{
		plantUsecase:  plantUsecase,
		imagesInfra:   imagesInfra,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// listPlants
//
//	@Summary		Поиск растений
//	@Description	Возвращает до 50 растений по имени в порядке возрастания
//	@Tags			plants
//	@Produce		json
//	@Param			search		query		string	false	"Полнотекстовый поиск по имени и категориям"
//	@Param			categories	query		string	false	"Категории через запятую"
//	@Success		200			{array}		domain.Plant
//	@Failure		500			{object}	ErrorResponse
//	@Router			/plants [get]
func (p *PlantHandler) listPlants(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := usecase.NewListPlantsReq(query.Get("search"), strings.Join(query["categories"], ","))

	plants, err := p.plantUsecase.ListPlants(r.Context(), req)
	if err != nil {
		p.logger.Errorf(err, "list plants failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, plants)
}

// listCategories
//
//	@Summary		Список категорий
//	@Description	Возвращает все различные категории каталога
//	@Tags			categories
//	@Produce		json
//	@Success		200	{array}		string
//	@Failure		500	{object}	ErrorResponse
//	@Router			/categories [get]
func (p *PlantHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := p.plantUsecase.ListCategories(r.Context())
	if err != nil {
		p.logger.Errorf(err, "list categories failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, categories)
}

// createPlant
//
//	@Summary		Создание растения
//	@Description	Принимает multipart/form-data, urlencoded или JSON. Загруженный файл image заменяет imageUrl
//	@Tags			plants
//	@Accept			multipart/form-data
//	@Accept			json
//	@Produce		json
//	@Param			name			formData	string	true	"Название"
//	@Param			price			formData	number	true	"Цена"
//	@Param			categories		formData	string	true	"JSON-массив категорий"
//	@Param			availability	formData	boolean	false	"Наличие"
//	@Param			description		formData	string	false	"Описание"
//	@Param			imageUrl		formData	string	false	"Ссылка на изображение"
//	@Param			image			formData	file	false	"Изображение (.jpg, .jpeg, .png)"
//	@Success		201				{object}	domain.Plant
//	@Failure		400				{object}	ValidationErrorResponse
//	@Failure		500				{object}	ErrorResponse
//	@Router			/plants [post]
func (p *PlantHandler) createPlant(w http.ResponseWriter, r *http.Request) {
	raw, image, ok := p.readWriteRequest(w, r)
	if !ok {
		return
	}

	plant, err := p.plantUsecase.CreatePlant(r.Context(), usecase.NewCreatePlantReq(raw, image))
	if err != nil {
		p.logFailure(err, "create plant failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, plant)
}

// updatePlant
//
//	@Summary		Изменение растения
//	@Description	Заменяет присланные поля. Проверка та же, что при создании
//	@Tags			plants
//	@Accept			multipart/form-data
//	@Accept			json
//	@Produce		json
//	@Param			id				path		string	true	"Идентификатор растения"
//	@Param			name			formData	string	true	"Название"
//	@Param			price			formData	number	true	"Цена"
//	@Param			categories		formData	string	true	"JSON-массив категорий"
//	@Param			availability	formData	boolean	false	"Наличие"
//	@Param			description		formData	string	false	"Описание"
//	@Param			imageUrl		formData	string	false	"Ссылка на изображение"
//	@Param			image			formData	file	false	"Изображение (.jpg, .jpeg, .png)"
//	@Success		200				{object}	domain.Plant
//	@Failure		400				{object}	ValidationErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Router			/plants/{id} [put]
func (p *PlantHandler) updatePlant(w http.ResponseWriter, r *http.Request) {
	raw, image, ok := p.readWriteRequest(w, r)
	if !ok {
		return
	}

	plant, err := p.plantUsecase.UpdatePlant(r.Context(), usecase.NewUpdatePlantReq(chi.URLParam(r, "id"), raw, image))
	if err != nil {
		p.logFailure(err, "update plant failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, plant)
}

// deletePlant
//
//	@Summary		Удаление растения
//	@Tags			plants
//	@Produce		json
//	@Param			id	path		string	true	"Идентификатор растения"
//	@Success		200	{object}	MessageResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/plants/{id} [delete]
func (p *PlantHandler) deletePlant(w http.ResponseWriter, r *http.Request) {
	if err := p.plantUsecase.DeletePlant(r.Context(), chi.URLParam(r, "id")); err != nil {
		p.logFailure(err, "delete plant failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, &MessageResponse{Message: "Plant deleted successfully"})
}

// serveUpload
//
//	@Summary	Загруженное изображение
//	@Tags		uploads
//	@Produce	image/jpeg
//	@Produce	image/png
//	@Param		filename	path	string	true	"Имя файла"
//	@Success	200
//	@Failure	404	{object}	ErrorResponse
//	@Router		/uploads/{filename} [get]
func (p *PlantHandler) serveUpload(w http.ResponseWriter, r *http.Request) {
	img, err := p.imagesInfra.OpenImage(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		p.logFailure(err, "open upload failed")
		WriteError(w, err)
		return
	}
	defer img.Body.Close()

	if img.ContentType != "" {
		w.Header().Set("Content-Type", img.ContentType)
	}
	if img.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(img.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, img.Body); err != nil {
		p.logger.Warnf("stream upload interrupted: %v", err)
	}
}

// health
//
//	@Summary	Проверка работоспособности
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	StatusResponse
//	@Router		/health [get]
func (p *PlantHandler) health(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, &StatusResponse{Status: "ok"})
}

// readWriteRequest разбирает тело запроса и принимает загруженный файл до запуска конвейера записи.
// При ошибке сам пишет ответ и возвращает ok=false.
func (p *PlantHandler) readWriteRequest(w http.ResponseWriter, r *http.Request) (usecase.RawInput, *usecase.UploadedImage, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, p.maxUploadSize+formOverhead)

	raw, file, err := decodeWriteRequest(r)
	if err != nil {
		p.logger.Warnf("%d %s: %v", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err)
		WriteError(w, err)
		return nil, nil, false
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	if file == nil {
		return raw, nil, true
	}

	image, err := p.acceptImage(r.Context(), file)
	if err != nil {
		p.logFailure(err, "upload rejected")
		WriteError(w, err)
		return nil, nil, false
	}

	return raw, image, true
}

func (p *PlantHandler) acceptImage(ctx context.Context, fh *multipart.FileHeader) (*usecase.UploadedImage, error) {
	if fh.Size > p.maxUploadSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, e.Wrap(fh.Filename, err)
	}
	defer src.Close()

	return p.imagesInfra.AcceptImage(ctx, usecase.NewUploadImageReq(
		fh.Filename, src, fh.Size, fh.Header.Get("Content-Type"),
	))
}

// logFailure пишет клиентские ошибки уровнем warn, остальные уровнем error.
func (p *PlantHandler) logFailure(err error, msg string) {
	if code, _ := ToHTTPResponse(err); code < http.StatusInternalServerError {
		p.logger.Warnf("%s: %v", msg, err)
		return
	}
	p.logger.Errorf(err, "%s", msg)
}
