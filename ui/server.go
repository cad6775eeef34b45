package ui

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"mandamentos/app"
	"mandamentos/domain/commandment"
	"mandamentos/ui/middleware"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server represents the web server for the commandments site
type Server struct {
	router    *gin.Engine
	library   *app.Library
	blog      *app.Blog
	board     *Board
	surface   *JSONSurface
	templates *template.Template
	logger    *log.Logger

	unsubscribe func()
}

// NewServer creates the server and attaches its chart board to the JSON
// surface served at /api/charts
func NewServer(library *app.Library, blog *app.Blog, logger *log.Logger) (*Server, error) {
	templates, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		library:   library,
		blog:      blog,
		board:     NewBoard(logger),
		surface:   NewJSONSurface(),
		templates: templates,
		logger:    logger.WithPrefix("http"),
	}

	s.unsubscribe = library.Subscribe(func(*commandment.Snapshot) {
		if err := s.board.Update(library.Summary()); err != nil {
			s.logger.Error("chart update failed", "err", err)
		}
	})
	if library.Snapshot() != nil {
		if err := s.board.Update(library.Summary()); err != nil {
			return nil, err
		}
	}
	if err := s.board.Attach(s.surface); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.Close()
	return srv.Shutdown(shutdownCtx)
}

// Close detaches the chart board and stops listening for new snapshots
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.board.Detach()
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger(s.logger))
}

func (s *Server) setupRoutes() {
	s.router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/lista")
	})
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/lista", s.handleList)

	api := s.router.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.GET("/commandments", s.handleCommandments)
		api.GET("/categories", s.handleCategories)
		api.GET("/charts", s.handleCharts)
		api.GET("/blog", s.handleBlog)
		api.POST("/refresh", s.handleRefresh)
	}
}
