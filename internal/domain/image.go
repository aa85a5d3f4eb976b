package domain

import "io"

// Image описывает загруженное изображение растения, которое сохраняется в хранилище объектов.
type Image struct {
	ObjectKey string // сгенерированное уникальное имя файла
	Body      io.Reader
	// Передайте значение -1 в Size, если размер потока неизвестен
	// (внимание: при передаче значения -1 MinIO выделит большой объем памяти).
	Size        int64
	ContentType string // Example: "image/png"
}

func NewImage(objectKey string, body io.Reader, size int64, contentType string) *Image {
	return &Image{
		ObjectKey:   objectKey,
		Body:        body,
		Size:        size,
		ContentType: contentType,
	}
}

// StoredImage — изображение, прочитанное из хранилища для отдачи клиенту.
type StoredImage struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}
