package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/padelpoint/padel-system/handlers"
	"github.com/padelpoint/padel-system/middleware"
	"github.com/padelpoint/padel-system/models"
)

func SetupRoutes(
	router *chi.Mux,
	scoreHandler *handlers.ScoreHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret string,
	allowedOrigins []string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Живая лента событий по игре; авторизация токеном невозможна в
	// браузерном WebSocket-хендшейке, лента только читает публичные события.
	router.Get("/ws/games/{gameID}", webSocketHandler.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate([]byte(jwtSecret)))

		r.Route("/games/{gameID}/scores", func(r chi.Router) {
			r.Post("/", scoreHandler.SubmitScoreHandler)
			r.Get("/", scoreHandler.GameScoresHandler)
			r.Get("/status", scoreHandler.GameScoreStatusHandler)
			r.Post("/{scoreID}/confirm", scoreHandler.ConfirmScoreHandler)
			r.Post("/{scoreID}/counter", scoreHandler.CounterScoreHandler)
		})

		r.Get("/users/{userID}/rating-history", scoreHandler.UserRatingHistoryHandler)

		// Арбитраж доступен только администраторам клуба.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Post("/admin/scores/{scoreID}/resolve", scoreHandler.AdminResolveScoreHandler)
		})
	})
}
