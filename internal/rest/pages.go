package rest

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/localblog/blog/application"
	"github.com/dfryer1193/localblog/blog/domain"
)

const (
	msgDeleted      = "🗑️ Post deleted!"
	msgDeleteFailed = "Could not delete the post"
	msgThemeFailed  = "Could not save the theme"
	msgTooLarge     = "⚠️ The image is too large"
)

type pageData struct {
	Title      string
	Theme      domain.Theme
	ThemeLabel string
	Toasts     []application.Toast
	Refresh    template.HTML

	// listing page
	Query string
	List  template.HTML

	// form page
	Fields      application.FormFields
	EditID      int64
	SubmitLabel string
}

func (h *Handler) page(c *gin.Context, title string, toasts []application.Toast) pageData {
	theme := h.themes.Current(c.Request.Context())
	return pageData{
		Title:      title,
		Theme:      theme,
		ThemeLabel: application.ThemeToggleLabel(theme),
		Toasts:     append(consumeFlash(c), toasts...),
	}
}

func (h *Handler) formPage(c *gin.Context, form *application.FormController, toasts []application.Toast) pageData {
	data := h.page(c, "Write a post", toasts)
	data.Fields = form.Fields()
	data.EditID = form.EditID()
	data.SubmitLabel = form.SubmitLabel()
	return data
}

// newNotifier collects toasts for the response and mirrors them to the log.
func newNotifier() (*application.ToastQueue, application.Notifier) {
	queue := &application.ToastQueue{}
	return queue, application.Notifiers{queue, application.LogNotifier{}}
}

// ListPosts renders the listing page, filtered by the q query parameter.
func (h *Handler) ListPosts(c *gin.Context) {
	h.posts.Reload(c.Request.Context())

	query := c.Query("q")
	list, err := h.list.Render(h.posts.Search(query))
	if err != nil {
		c.Error(err)
		c.String(http.StatusInternalServerError, "failed to render posts")
		return
	}

	data := h.page(c, "Blog", nil)
	data.Query = query
	data.List = list
	c.HTML(http.StatusOK, "index.html", data)
}

// ShowForm renders the post form, bound to a post when ?edit=<id> names one.
func (h *Handler) ShowForm(c *gin.Context) {
	h.posts.Reload(c.Request.Context())

	queue, notifier := newNotifier()
	form := application.NewFormController(h.posts, notifier)
	form.Init(c.Query("edit"))

	c.HTML(http.StatusOK, "blog.html", h.formPage(c, form, queue.Drain()))
}

// SubmitForm creates or updates a post from the multipart form.
func (h *Handler) SubmitForm(c *gin.Context) {
	ctx := c.Request.Context()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	h.posts.Reload(ctx)

	queue, notifier := newNotifier()
	form := application.NewFormController(h.posts, notifier)

	if err := parseForm(c.Request, h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			notifier.Notify(msgTooLarge, application.SeverityWarning)
			c.HTML(http.StatusRequestEntityTooLarge, "blog.html", h.formPage(c, form, queue.Drain()))
			return
		}
		c.Error(err)
		c.String(http.StatusBadRequest, "malformed form")
		return
	}

	edit := c.PostForm("edit")
	form.Init(edit)
	if edit != "" && form.Mode() == application.ModeCreate {
		// the post was deleted after the form was opened
		log.Info().Str("edit", edit).Msg("Edited post no longer exists, nothing updated")
		data := h.formPage(c, form, nil)
		data.Refresh = refreshMeta(0, "/")
		c.HTML(http.StatusOK, "blog.html", data)
		return
	}

	in := application.FormInput{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
	}

	fileHeader, err := c.FormFile("image")
	switch {
	case err == nil:
		file, err := fileHeader.Open()
		if err != nil {
			c.Error(err)
			c.String(http.StatusInternalServerError, "failed to open upload")
			return
		}
		defer file.Close()
		in.Image = &application.ImageUpload{Filename: fileHeader.Filename, Body: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		c.Error(err)
		c.String(http.StatusBadRequest, "malformed form")
		return
	}

	out, err := form.Submit(ctx, in)
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.HTML(http.StatusUnprocessableEntity, "blog.html", h.formPage(c, form, queue.Drain()))
		return
	case err != nil:
		c.Error(err)
		c.HTML(http.StatusInternalServerError, "blog.html", h.formPage(c, form, queue.Drain()))
		return
	}

	data := h.formPage(c, form, queue.Drain())
	data.Refresh = refreshMeta(h.redirectDelay.Seconds(), out.Redirect)
	c.HTML(http.StatusOK, "blog.html", data)
}

// CancelForm clears the form.
func (h *Handler) CancelForm(c *gin.Context) {
	queue, notifier := newNotifier()
	form := application.NewFormController(h.posts, notifier)
	form.Init(c.PostForm("edit"))
	form.Cancel()

	c.HTML(http.StatusOK, "blog.html", h.formPage(c, form, queue.Drain()))
}

// EditPost sends the browser to the form bound to the post.
func (h *Handler) EditPost(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/blog?"+url.Values{"edit": {c.Param("id")}}.Encode())
}

// DeletePost removes the post and returns to the listing.
func (h *Handler) DeletePost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid post id")
		return
	}

	ctx := c.Request.Context()
	h.posts.Reload(ctx)

	toast := application.Toast{Message: msgDeleted, Severity: application.SeverityError}
	if err := h.posts.Delete(ctx, id); err != nil {
		log.Error().Err(err).Int64("postID", id).Msg("Failed to delete post")
		toast.Message = msgDeleteFailed
	}

	setFlash(c, []application.Toast{toast})
	c.Redirect(http.StatusSeeOther, "/")
}

// ToggleTheme flips the theme and returns to the page it was called from.
func (h *Handler) ToggleTheme(c *gin.Context) {
	if _, err := h.themes.Toggle(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Failed to toggle theme")
		setFlash(c, []application.Toast{{Message: msgThemeFailed, Severity: application.SeverityError}})
	}
	c.Redirect(http.StatusSeeOther, localReferer(c.Request))
}

// Health reports whether the store is reachable.
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseForm reads url-encoded and multipart bodies alike.
func parseForm(r *http.Request, maxMemory int64) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// refreshMeta builds a meta refresh tag sending the browser to target after delay seconds.
func refreshMeta(delay float64, target string) template.HTML {
	if target == "" {
		return ""
	}
	return template.HTML(fmt.Sprintf(`<meta http-equiv="refresh" content="%s;url=%s">`,
		strconv.FormatFloat(delay, 'f', -1, 64),
		template.HTMLEscapeString(target),
	))
}

// localReferer returns the path of the referring page on this site, or "/".
func localReferer(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
