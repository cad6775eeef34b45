package ui

import (
	"net/http"
	"strings"
	"sync"

	"mandamentos/app"
	"mandamentos/domain/blog"
	"mandamentos/domain/commandment"
	"mandamentos/internal/analysis"
	"mandamentos/internal/errors"
	"mandamentos/internal/policy"
	"mandamentos/internal/selection"

	"github.com/gin-gonic/gin"
)

const excerptRunes = 220

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func httpStatus(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeFetchFailed, errors.CodeParseFailed, errors.CodeEmptyResult,
		errors.CodeFeedStatus:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	c.JSON(httpStatus(err), gin.H{"error": errorBody{
		Code:    errors.GetCode(err),
		Message: errors.UserMessage(err),
	}})
}

// ensureRecords loads the sheet on first use. A failed load is only fatal
// to the request when no earlier snapshot exists.
func (s *Server) ensureRecords(c *gin.Context) bool {
	err := s.library.EnsureLoaded(c.Request.Context())
	if err != nil && s.library.Snapshot() == nil {
		s.writeError(c, err)
		return false
	}
	return true
}

// selectionFromQuery builds the selection named by ?mode= and ?category=
func selectionFromQuery(c *gin.Context) (*selection.Selection, error) {
	sel := selection.New()
	if raw, ok := c.GetQuery("mode"); ok {
		mode, err := commandment.ParseMode(raw)
		if err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput, err)
		}
		if err := sel.SelectMode(mode); err != nil {
			return nil, err
		}
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		if err := sel.SelectCategory(category); err != nil {
			return nil, err
		}
	}
	return sel, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"library": s.library.Status(),
		"blog":    s.blog.Status(),
	})
}

func (s *Server) handleCommandments(c *gin.Context) {
	sel, err := selectionFromQuery(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if !s.ensureRecords(c) {
		return
	}

	records := s.library.Filter(sel)
	c.JSON(http.StatusOK, gin.H{
		"mode":     sel.Mode(),
		"category": sel.Category(),
		"state":    sel.State().String(),
		"count":    len(records),
		"records":  records,
		"message":  s.library.Message(),
	})
}

func (s *Server) handleCategories(c *gin.Context) {
	mode, err := commandment.ParseMode(c.Query("mode"))
	if err != nil {
		s.writeError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	source := policy.CategorySource(strings.ToLower(c.Query("source")))
	switch source {
	case "", policy.SourceStatic, policy.SourceDynamic:
	default:
		s.writeError(c, errors.InvalidInput("source must be static or dynamic"))
		return
	}
	if source == "" {
		source = s.library.Profile().Categories
	}
	if source == policy.SourceDynamic && !s.ensureRecords(c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mode":       mode,
		"source":     source,
		"categories": s.library.Categories(mode, source),
		"message":    s.library.Message(),
	})
}

func (s *Server) handleCharts(c *gin.Context) {
	if !s.ensureRecords(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": s.library.Summary(),
		"charts":  s.surface.Configs(),
		"message": s.library.Message(),
	})
}

// PostView is the blog post shape served to the page
type PostView struct {
	Title     string         `json:"title"`
	Link      string         `json:"link"`
	PubDate   string         `json:"pubDate"`
	Author    string         `json:"author"`
	Thumbnail string         `json:"thumbnail"`
	Excerpt   string         `json:"excerpt"`
	Raw       map[string]any `json:"raw,omitempty"`
}

func newPostView(p blog.Post, withRaw bool) PostView {
	v := PostView{
		Title:     p.Title(),
		Link:      p.Link(),
		PubDate:   p.PubDate(),
		Author:    p.Author(),
		Thumbnail: p.Thumbnail(),
		Excerpt:   p.Excerpt(excerptRunes),
	}
	if withRaw {
		v.Raw = p.Raw
	}
	return v
}

func (s *Server) handleBlog(c *gin.Context) {
	err := s.blog.EnsureLoaded(c.Request.Context())
	posts := s.blog.Posts()
	if err != nil && len(posts) == 0 {
		s.writeError(c, err)
		return
	}

	withRaw := c.Query("raw") == "1"
	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = newPostView(p, withRaw)
	}
	c.JSON(http.StatusOK, gin.H{
		"posts":   views,
		"message": s.blog.Message(),
	})
}

// handleRefresh refetches ?target=sheet, blog or all (the default). Both
// fetches run side by side and neither blocks the other.
func (s *Server) handleRefresh(c *gin.Context) {
	target := strings.ToLower(c.DefaultQuery("target", "all"))
	var refreshers []func() error
	switch target {
	case "sheet":
		refreshers = append(refreshers, func() error { return s.library.Refresh(c.Request.Context()) })
	case "blog":
		refreshers = append(refreshers, func() error { return s.blog.Refresh(c.Request.Context()) })
	case "all":
		refreshers = append(refreshers,
			func() error { return s.library.Refresh(c.Request.Context()) },
			func() error { return s.blog.Refresh(c.Request.Context()) })
	default:
		s.writeError(c, errors.InvalidInput("target must be sheet, blog or all"))
		return
	}

	var wg sync.WaitGroup
	for _, refresh := range refreshers {
		refresh := refresh
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := refresh(); err != nil {
				s.logger.Warn("refresh failed", "target", target, "err", err)
			}
		}()
	}
	wg.Wait()

	c.JSON(http.StatusOK, gin.H{
		"library": s.library.Status(),
		"blog":    s.blog.Status(),
	})
}

// listPage is the data behind templates/lista.html
type listPage struct {
	Mode       commandment.Mode
	Modes      []commandment.Mode
	Category   string
	Categories []commandment.CategoryEntry
	Records    []recordView
	Summary    analysis.Summary
	Status     app.LibraryStatus
	Message    string
}

type recordView struct {
	commandment.Commandment
	Positive bool
	Sources  []commandment.ContentEntry
}

// sourceEntries lists the scripture columns that carry more than the
// profile default
func sourceEntries(r commandment.Commandment, p *policy.Profile) []commandment.ContentEntry {
	fields := []struct {
		field policy.Field
		label string
		value string
	}{
		{policy.FieldBook, "Livro", r.Book},
		{policy.FieldChapter, "Capítulo", r.Chapter},
		{policy.FieldVerse, "Versículo", r.Verse},
		{policy.FieldReference, "Referência", r.Reference},
	}

	var out []commandment.ContentEntry
	for _, f := range fields {
		value := strings.TrimSpace(f.value)
		if value == "" {
			continue
		}
		if fs, ok := p.Spec(f.field); ok && value == fs.Default {
			continue
		}
		out = append(out, commandment.ContentEntry{Label: f.label, Value: value})
	}
	return out
}

func (s *Server) handleList(c *gin.Context) {
	sel, err := selectionFromQuery(c)
	if err != nil {
		c.Status(httpStatus(err))
		s.renderList(c, listPage{Mode: commandment.DefaultMode, Message: errors.UserMessage(err)})
		return
	}

	page := listPage{Mode: sel.Mode(), Category: sel.Category()}
	if err := s.library.EnsureLoaded(c.Request.Context()); err != nil && s.library.Snapshot() == nil {
		c.Status(httpStatus(err))
	}

	profile := s.library.Profile()
	classifier := analysis.NewClassifier(profile.Polarity)
	for _, r := range s.library.Filter(sel) {
		page.Records = append(page.Records, recordView{
			Commandment: r,
			Positive:    classifier.IsPositive(r.Type),
			Sources:     sourceEntries(r, profile),
		})
	}
	page.Categories = s.library.Categories(sel.Mode(), "")
	page.Summary = s.library.Summary()
	page.Status = s.library.Status()
	page.Message = s.library.Message()
	s.renderList(c, page)
}

func (s *Server) renderList(c *gin.Context, page listPage) {
	page.Modes = []commandment.Mode{commandment.ModeBlocos, commandment.ModeTomos}
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(c.Writer, "lista.html", page); err != nil {
		s.logger.Error("template render failed", "err", err)
	}
}
