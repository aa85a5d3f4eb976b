package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/DRSN-tech/plant-catalog/internal/usecase"
	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/jimlawless/whereami"
)

const (
	imageField = "image"
	maxMemory  = 32 << 20
	// formOverhead — запас на текстовые поля и разметку multipart сверх размера файла.
	formOverhead = 1 << 20
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Errors []string `json:"errors"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}

// ToHTTPResponse сопоставляет ошибку со статусом и телом ответа.
func ToHTTPResponse(err error) (int, any) {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, &ValidationErrorResponse{Errors: verr.Violations}
	case errors.Is(err, e.ErrNameConflict):
		return http.StatusBadRequest, NewErrorResponse(e.ErrNameConflict.Error())
	case errors.Is(err, e.ErrUploadRejected):
		return http.StatusBadRequest, NewErrorResponse(e.ErrUploadRejected.Error())
	case errors.Is(err, e.ErrBadForm):
		return http.StatusBadRequest, NewErrorResponse(e.ErrBadForm.Error())
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, NewErrorResponse(e.ErrStatusBadRequest.Error())
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, NewErrorResponse(e.ErrFileTooLarge.Error())
	case errors.Is(err, e.ErrPlantNotFound):
		return http.StatusNotFound, NewErrorResponse(e.ErrPlantNotFound.Error())
	case errors.Is(err, e.ErrImageNotFound):
		return http.StatusNotFound, NewErrorResponse(e.ErrImageNotFound.Error())
	default:
		return http.StatusInternalServerError, NewErrorResponse(e.ErrInternalServerError.Error())
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, body := ToHTTPResponse(err)
	WriteSuccess(w, code, body)
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeWriteRequest читает тело запроса на запись в RawInput.
// Поддерживаются multipart/form-data (с файлом в поле image), urlencoded и JSON.
// Тело другого типа или пустое тело даёт пустой RawInput: недостающие поля отсеет валидатор.
func decodeWriteRequest(r *http.Request) (usecase.RawInput, *multipart.FileHeader, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return usecase.RawInput{}, nil, nil
	}

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, nil, bodyError(err)
		}
		var file *multipart.FileHeader
		if files := r.MultipartForm.File[imageField]; len(files) > 0 {
			file = files[0]
		}
		return formValues(r.MultipartForm.Value), file, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, nil, bodyError(err)
		}
		return formValues(r.PostForm), nil, nil

	case "application/json":
		raw, err := decodeJSONObject(r.Body)
		if err != nil {
			return nil, nil, err
		}
		return raw, nil, nil

	default:
		return usecase.RawInput{}, nil, nil
	}
}

// formValues переводит поля формы в RawInput: одно значение — строка, повторяющиеся — []string.
// Ключ вида "categories[]" всегда даёт последовательность под именем "categories".
func formValues(values url.Values) usecase.RawInput {
	raw := make(usecase.RawInput, len(values))
	for key, vals := range values {
		if name, ok := strings.CutSuffix(key, "[]"); ok {
			raw[name] = append(toStrings(raw[name]), vals...)
			continue
		}
		if _, exists := raw[key]; exists {
			raw[key] = append(toStrings(raw[key]), vals...)
			continue
		}

		switch len(vals) {
		case 0:
		case 1:
			raw[key] = vals[0]
		default:
			raw[key] = append([]string(nil), vals...)
		}
	}
	return raw
}

func toStrings(v any) []string {
	switch s := v.(type) {
	case string:
		return []string{s}
	case []string:
		return s
	default:
		return nil
	}
}

func decodeJSONObject(body io.Reader) (usecase.RawInput, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return usecase.RawInput{}, nil
		}
		return nil, bodyError(err)
	}
	if raw == nil {
		return usecase.RawInput{}, nil
	}

	return usecase.RawInput(raw), nil
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
	}
	return e.Wrap(whereami.WhereAmI(), errors.Join(e.ErrBadForm, err))
}
