package wire

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cinema-tickets/internal/catalog"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/queue"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/docstore"
	"cinema-tickets/pkg/middleware"
	"cinema-tickets/pkg/utils"
)

// App holds the wired HTTP surface.
type App struct {
	Router chi.Router
}

// Wiring assembles repositories, services and handlers into a router.
func Wiring(
	config *utils.Config,
	store docstore.Store,
	cache *catalog.Cache,
	publisher *queue.Publisher,
	guard *docstore.Guard,
	log *zap.Logger,
) *App {
	repo := repository.NewRepository(store, log)
	catalogClient := catalog.NewClient(
		config.Catalog.BaseURL,
		config.Catalog.APIKey,
		config.Catalog.ImageBaseURL,
		config.Catalog.Language,
		log,
	)
	service := usecase.NewService(store, repo, catalogClient, cache, publisher, guard, log)

	router := chi.NewRouter()
	router.Use(middleware.Recover(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	MovieRoutes(router, service)
	ScreeningRoutes(router, service)
	BookingRoutes(router, service, config.JWT.Secret)

	return &App{Router: router}
}
