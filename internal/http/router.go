package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Logger))
	router.Use(NewHTTPMetrics(cfg.Registerer).Middleware())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeaders())

	booksController := NewBooksController(cfg.Books)
	searchController := NewSearchController(cfg.Books)
	favouritesController := NewFavouritesController(cfg.Favourites)
	readsController := NewReadsController(cfg.Reads)
	usersController := NewUsersController(cfg.Users, cfg.LoginLimiter)
	healthController := NewHealthController(cfg.Health, cfg.Collections, cfg.Version)

	api := router.Group("/api")
	{
		api.GET("/health", healthController.Status)

		api.POST("/auth/signup", usersController.Signup)
		api.POST("/auth/login", usersController.Login)
		api.GET("/users", usersController.ListUsers)

		// Static segments are registered before :id
		api.GET("/books", booksController.GetAllBooks)
		api.GET("/books/stats", booksController.GetStats)
		api.GET("/books/facets", booksController.GetFacets)
		api.GET("/books/:id", booksController.GetBook)
		api.GET("/books/:id/content", booksController.GetBookContent)
		api.POST("/books", booksController.CreateBook)
		api.PUT("/books/:id", booksController.UpdateBook)
		api.DELETE("/books/:id", booksController.DeleteBook)

		api.POST("/favorites/:bookId", favouritesController.AddFavourite)
		api.DELETE("/favorites/:bookId", favouritesController.RemoveFavourite)

		api.POST("/read/:bookId", readsController.MarkRead)
		api.DELETE("/read/:bookId", readsController.UnmarkRead)

		api.GET("/search", searchController.Search)
	}

	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	return router
}
