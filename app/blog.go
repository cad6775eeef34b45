package app

import (
	"context"

	"mandamentos/domain/blog"
	"mandamentos/internal/errors"
	"mandamentos/ports"

	"github.com/charmbracelet/log"
)

// Blog holds the posts loaded from the blog feed
type Blog struct {
	state *loader[[]blog.Post]
}

// NewBlog creates a blog reading from feed
func NewBlog(feed ports.FeedPort, logger *log.Logger) *Blog {
	return &Blog{
		state: newLoader("feed", feed.Fetch, logger.WithPrefix("blog")),
	}
}

// EnsureLoaded fetches the feed unless posts are already held
func (b *Blog) EnsureLoaded(ctx context.Context) error {
	return b.state.ensure(ctx)
}

// Refresh fetches the feed again. Concurrent calls share one request.
func (b *Blog) Refresh(ctx context.Context) error {
	return b.state.refresh(ctx)
}

// Posts returns the loaded posts in feed order
func (b *Blog) Posts() []blog.Post {
	posts, _ := b.state.get()
	return posts
}

// Loading reports whether a fetch is in flight
func (b *Blog) Loading() bool { return b.state.isLoading() }

// Err returns the error of the last fetch
func (b *Blog) Err() error { return b.state.lastError() }

// Message returns the user-visible text for the last failed fetch
func (b *Blog) Message() string { return errors.UserMessage(b.state.lastError()) }

// BlogStatus is the loading state reported to clients
type BlogStatus struct {
	Posts   int    `json:"posts"`
	Loading bool   `json:"loading"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Status summarizes the blog state
func (b *Blog) Status() BlogStatus {
	st := BlogStatus{
		Posts:   len(b.Posts()),
		Loading: b.Loading(),
		Message: b.Message(),
	}
	if err := b.Err(); err != nil {
		st.Code = errors.GetCode(err)
	}
	return st
}
