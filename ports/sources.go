package ports

import (
	"context"

	"mandamentos/domain/blog"
	"mandamentos/domain/commandment"
)

// SheetPort provides the raw rows of the published commandments sheet
type SheetPort interface {
	Fetch(ctx context.Context) ([]commandment.RawRow, error)
}

// FeedPort provides the latest blog posts
type FeedPort interface {
	Fetch(ctx context.Context) ([]blog.Post, error)
}

// SheetFunc adapts a function to SheetPort
type SheetFunc func(ctx context.Context) ([]commandment.RawRow, error)

func (f SheetFunc) Fetch(ctx context.Context) ([]commandment.RawRow, error) { return f(ctx) }

// FeedFunc adapts a function to FeedPort
type FeedFunc func(ctx context.Context) ([]blog.Post, error)

func (f FeedFunc) Fetch(ctx context.Context) ([]blog.Post, error) { return f(ctx) }
