package application

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/dfryer1193/localblog/blog/domain"
)

// EmptyListHTML is rendered in place of the list when there are no posts.
const EmptyListHTML template.HTML = `<p class="no-posts">No posts found!</p>`

const postBlockTemplate = `{{range .}}
<div class="post fade-in" data-id="{{.ID}}">
  {{- if .Image}}
  <img src="{{.Image}}" alt="{{.Title}}" class="post-img">
  {{- end}}
  <h3>{{.Title}}</h3>
  <small>{{.Date}}</small>
  <div class="post-content">{{.Content}}</div>
  <div class="actions">
    <a class="edit-btn" href="/edit/{{.ID}}">✏️ Edit</a>
    <form class="delete-form" method="post" action="/delete/{{.ID}}" onsubmit="return confirm('Are you sure you want to delete this post?');">
      <button type="submit" class="delete-btn">🗑️ Delete</button>
    </form>
  </div>
</div>
{{- end}}`

// postView is a Post prepared for the template.
type postView struct {
	ID      int64
	Title   string
	Date    string
	Content template.HTML
	Image   template.URL
}

// ListRenderer turns a post sequence into the HTML of the post list.
// Rendering has no side effects and the same input always yields the same output.
type ListRenderer struct {
	content ContentRenderer
	tmpl    *template.Template
}

func NewListRenderer(content ContentRenderer) *ListRenderer {
	if content == nil {
		content = PlainRenderer{}
	}
	return &ListRenderer{
		content: content,
		tmpl:    template.Must(template.New("posts").Parse(postBlockTemplate)),
	}
}

// Render renders one block per post, in input order.
func (r *ListRenderer) Render(posts []domain.Post) (template.HTML, error) {
	if len(posts) == 0 {
		return EmptyListHTML, nil
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		content, err := r.content.Render(p.Content)
		if err != nil {
			return "", fmt.Errorf("failed to render post %d: %w", p.ID, err)
		}
		views = append(views, postView{
			ID:      p.ID,
			Title:   p.Title,
			Date:    p.Date,
			Content: content,
			Image:   trustedImageURL(p.Image),
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, views); err != nil {
		return "", fmt.Errorf("failed to render post list: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// trustedImageURL passes through inline image data URLs and drops anything else.
func trustedImageURL(image string) template.URL {
	if isImageDataURL(image) {
		return template.URL(image)
	}
	return ""
}
