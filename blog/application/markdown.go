package application

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ContentRenderer converts post content to HTML.
type ContentRenderer interface {
	Render(content string) (template.HTML, error)
}

// externalLinkTransformer opens absolute http(s) links in a new tab without
// handing the opener or ranking to the target.
type externalLinkTransformer struct{}

func (t *externalLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var dest string
		switch l := n.(type) {
		case *ast.Link:
			dest = string(l.Destination)
		case *ast.AutoLink:
			if l.AutoLinkType != ast.AutoLinkURL {
				return ast.WalkContinue, nil
			}
			dest = string(l.URL(reader.Source()))
		default:
			return ast.WalkContinue, nil
		}

		if isExternalLink(dest) {
			n.SetAttributeString("target", []byte("_blank"))
			n.SetAttributeString("rel", []byte("nofollow noopener noreferrer"))
		}
		return ast.WalkContinue, nil
	})
}

func isExternalLink(dest string) bool {
	lower := strings.ToLower(dest)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "www.")
}

// MarkdownRenderer renders content as GitHub-flavoured Markdown.
// Raw HTML in the content is dropped and dangerous URLs are blanked.
type MarkdownRenderer struct {
	renderer goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	renderer := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&externalLinkTransformer{}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &MarkdownRenderer{
		renderer: renderer,
	}
}

func (r *MarkdownRenderer) Render(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.renderer.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// PlainRenderer puts escaped content in a single paragraph.
type PlainRenderer struct{}

func (PlainRenderer) Render(content string) (template.HTML, error) {
	return template.HTML("<p>" + template.HTMLEscapeString(content) + "</p>"), nil
}
