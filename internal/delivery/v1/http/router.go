package http

import (
	_ "github.com/DRSN-tech/plant-catalog/docs" // Регистрация swagger-документа
	"github.com/DRSN-tech/plant-catalog/internal/usecase"
	"github.com/DRSN-tech/plant-catalog/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Init регистрирует маршруты каталога под /api/v1 и по исходным путям без префикса.
func (r *Router) Init(plantUC usecase.PlantUC, imagesInfra usecase.ImagesInfra, maxUploadSize int64) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(requestLogger(r.logger))
	r.router.Use(middleware.Recoverer)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	plantHandler := NewPlantHandler(plantUC, imagesInfra, r.logger, maxUploadSize)

	r.router.Get("/health", plantHandler.health)
	r.router.Get("/uploads/{filename}", plantHandler.serveUpload)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerPlantRoutes(v1, plantHandler)
	})
	registerPlantRoutes(r.router, plantHandler)
}

func registerPlantRoutes(router chi.Router, plantHandler *PlantHandler) {
	router.Route("/plants", func(pr chi.Router) {
		pr.Get("/", plantHandler.listPlants)
		pr.Post("/", plantHandler.createPlant)
		pr.Put("/{id}", plantHandler.updatePlant)
		pr.Delete("/{id}", plantHandler.deletePlant)
	})

	router.Get("/categories", plantHandler.listCategories)
}
