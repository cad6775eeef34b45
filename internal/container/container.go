package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"mandamentos/adapters/feed"
	"mandamentos/adapters/sheet"
	"mandamentos/app"
	"mandamentos/internal/config"
	"mandamentos/internal/policy"
	"mandamentos/ports"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *log.Logger
	Profile *policy.Profile

	// Sources
	Sheet ports.SheetPort
	Feed  ports.FeedPort

	// State
	Library *app.Library
	Blog    *app.Blog
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *log.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	profile, err := policy.Load(cfg.Policy.Profile)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.Sheet.Timeout}
	sheetReader := sheet.NewReader(cfg.SheetReaderConfig(), client, logger)
	feedReader := feed.NewReader(cfg.FeedReaderConfig(), client, logger)

	c := NewWithSources(cfg, logger, profile, sheetReader, feedReader)
	logger.Info("container initialized",
		"profile", profile.Name,
		"sheet", cfg.Sheet.URL,
		"feed", feedReader.URL())
	return c, nil
}

// NewWithSources wires the state holders over the given sources
func NewWithSources(cfg *config.Config, logger *log.Logger, profile *policy.Profile, sheetSource ports.SheetPort, feedSource ports.FeedPort) *Container {
	return &Container{
		Config:  cfg,
		Logger:  logger,
		Profile: profile,
		Sheet:   sheetSource,
		Feed:    feedSource,
		Library: app.NewLibrary(sheetSource, profile, logger),
		Blog:    app.NewBlog(feedSource, logger),
	}
}

// Preload loads the sheet and the blog independently. A failure of one
// never stops the other; both errors are joined.
func (c *Container) Preload(ctx context.Context) error {
	var sheetErr, feedErr error
	var g errgroup.Group
	g.Go(func() error {
		sheetErr = c.Library.EnsureLoaded(ctx)
		return sheetErr
	})
	g.Go(func() error {
		feedErr = c.Blog.EnsureLoaded(ctx)
		return feedErr
	})
	if g.Wait() == nil {
		return nil
	}

	if sheetErr != nil {
		c.Logger.Warn("sheet preload failed", "err", sheetErr)
	}
	if feedErr != nil {
		c.Logger.Warn("blog preload failed", "err", feedErr)
	}
	return errors.Join(sheetErr, feedErr)
}
