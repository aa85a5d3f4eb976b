package infrastructure

import (
	"path/filepath"
	"strings"

	"github.com/DRSN-tech/plant-catalog/pkg/e"
)

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ImageExtension возвращает расширение имени файла в нижнем регистре.
// Поддерживает .jpg, .jpeg, .png. Для остальных возвращает e.ErrUploadRejected.
func ImageExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := imageContentTypes[ext]; !ok {
		return "", e.ErrUploadRejected
	}

	return ext, nil
}

// ContentTypeFromExt возвращает MIME-тип изображения по расширению.
func ContentTypeFromExt(ext string) string {
	if ct, ok := imageContentTypes[strings.ToLower(ext)]; ok {
		return ct
	}

	return "application/octet-stream"
}

// IsPlainFilename сообщает, что имя не содержит компонентов пути.
func IsPlainFilename(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
