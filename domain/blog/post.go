// Package blog holds the posts shown on the blog page.
package blog

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// pubDateLayout is the timestamp format the rss2json proxy emits
const pubDateLayout = "2006-01-02 15:04:05"

// Post is one blog post as returned by the rss2json proxy. Raw keeps every field the
// proxy sent; the accessors read the few the site displays.
type Post struct {
	Raw map[string]any `json:"raw"`
}

// Title returns the post title
func (p Post) Title() string { return p.str("title") }

// Link returns the post permalink
func (p Post) Link() string { return p.str("link") }

// PubDate returns the publication timestamp as sent
func (p Post) PubDate() string { return p.str("pubDate") }

// Author returns the post author
func (p Post) Author() string { return p.str("author") }

// Description returns the HTML body of the post
func (p Post) Description() string { return p.str("description") }

// Published parses PubDate. The proxy reports times in UTC.
func (p Post) Published() (time.Time, bool) {
	t, err := time.ParseInLocation(pubDateLayout, strings.TrimSpace(p.PubDate()), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Thumbnail returns the proxy thumbnail, then the enclosure link, then the
// first image in the description
func (p Post) Thumbnail() string {
	if t := p.str("thumbnail"); t != "" {
		return t
	}
	if enc, ok := p.Raw["enclosure"].(map[string]any); ok {
		if link, ok := enc["link"].(string); ok && link != "" {
			return link
		}
	}
	return firstImage(p.Description())
}

// Excerpt returns the description as plain text cut to at most limit runes.
// A limit of zero or less returns the full text.
func (p Post) Excerpt(limit int) string {
	text := PlainText(p.Description())
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace)
	return cut + "…"
}

func (p Post) str(key string) string {
	if p.Raw == nil {
		return ""
	}
	s, _ := p.Raw[key].(string)
	return s
}

// PlainText extracts the visible text of an HTML fragment with whitespace
// collapsed. Script and style contents are dropped.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	var b strings.Builder
	skip := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch atom.Lookup(name) {
			case atom.Script, atom.Style:
				skip++
			case atom.Br, atom.P, atom.Div, atom.Li:
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch atom.Lookup(name) {
			case atom.Script, atom.Style:
				if skip > 0 {
					skip--
				}
			case atom.P, atom.Div, atom.Li:
				b.WriteByte(' ')
			}
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}

func firstImage(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	var walk func(*html.Node) string
	walk = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			for _, a := range n.Attr {
				if a.Key == "src" && a.Val != "" {
					return a.Val
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if src := walk(c); src != "" {
				return src
			}
		}
		return ""
	}
	return walk(doc)
}
