// Package docs содержит swagger-описание HTTP API каталога растений.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/plants": {
            "get": {
                "description": "Возвращает до 50 растений по имени в порядке возрастания",
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "Поиск растений",
                "parameters": [
                    {"type": "string", "description": "Полнотекстовый поиск по имени и категориям", "name": "search", "in": "query"},
                    {"type": "string", "description": "Категории через запятую", "name": "categories", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Plant"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Принимает multipart/form-data, urlencoded или JSON. Загруженный файл image заменяет imageUrl",
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "Создание растения",
                "parameters": [
                    {"type": "string", "description": "Название", "name": "name", "in": "formData", "required": true},
                    {"type": "number", "description": "Цена", "name": "price", "in": "formData", "required": true},
                    {"type": "string", "description": "JSON-массив категорий", "name": "categories", "in": "formData", "required": true},
                    {"type": "boolean", "description": "Наличие", "name": "availability", "in": "formData"},
                    {"type": "string", "description": "Описание", "name": "description", "in": "formData"},
                    {"type": "string", "description": "Ссылка на изображение", "name": "imageUrl", "in": "formData"},
                    {"type": "file", "description": "Изображение (.jpg, .jpeg, .png)", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Plant"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ValidationErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/plants/{id}": {
            "put": {
                "description": "Заменяет присланные поля. Проверка та же, что при создании",
                "consumes": ["multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "Изменение растения",
                "parameters": [
                    {"type": "string", "description": "Идентификатор растения", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Название", "name": "name", "in": "formData", "required": true},
                    {"type": "number", "description": "Цена", "name": "price", "in": "formData", "required": true},
                    {"type": "string", "description": "JSON-массив категорий", "name": "categories", "in": "formData", "required": true},
                    {"type": "boolean", "description": "Наличие", "name": "availability", "in": "formData"},
                    {"type": "string", "description": "Описание", "name": "description", "in": "formData"},
                    {"type": "string", "description": "Ссылка на изображение", "name": "imageUrl", "in": "formData"},
                    {"type": "file", "description": "Изображение (.jpg, .jpeg, .png)", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Plant"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ValidationErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["plants"],
                "summary": "Удаление растения",
                "parameters": [
                    {"type": "string", "description": "Идентификатор растения", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/categories": {
            "get": {
                "description": "Возвращает все различные категории каталога",
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Список категорий",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Plant": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "number"},
                "categories": {"type": "array", "items": {"type": "string"}},
                "availability": {"type": "boolean"},
                "imageUrl": {"type": "string"},
                "description": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "http.ValidationErrorResponse": {
            "type": "object",
            "properties": {"errors": {"type": "array", "items": {"type": "string"}}}
        },
        "http.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        }
    }
}`

// SwaggerInfo содержит метаданные API, которые можно переопределить при запуске.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Plant Catalog API",
	Description:      "Каталог растений: поиск, категории, создание, изменение и удаление записей.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
