package application

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/localblog/blog/domain"
)

// FormMode is the state of a FormController.
type FormMode int

const (
	// ModeCreate publishes a new post on submit.
	ModeCreate FormMode = iota
	// ModeEdit updates the bound post on submit.
	ModeEdit
)

func (m FormMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

const (
	msgFillAllFields = "⚠️ Please fill in all fields!"
	msgPublished     = "📝 Post published successfully!"
	msgUpdated       = "✅ Post updated successfully!"
	msgCanceled      = "❌ Post creation canceled"
	msgSaveFailed    = "Could not save the post, please try again"
	msgImageFailed   = "Could not read the attached image"
	msgNotAnImage    = "⚠️ The attached file is not an image and was ignored"

	listingPath = "/"
)

// FormFields are the text fields shown in the form.
type FormFields struct {
	Title   string
	Content string
}

// FormInput is one submission of the form.
type FormInput struct {
	Title   string
	Content string
	Image   *ImageUpload
}

// Outcome tells the caller what to do after a submission.
// An empty Redirect means the form stays where it is.
type Outcome struct {
	Redirect string
	Post     domain.Post
}

// FormController drives the create/edit form.
// It starts in ModeCreate; Init binds ModeEdit when pointed at an existing post.
type FormController struct {
	posts    *PostRepository
	notifier Notifier

	mode   FormMode
	editID int64
	fields FormFields
}

func NewFormController(posts *PostRepository, notifier Notifier) *FormController {
	return &FormController{
		posts:    posts,
		notifier: notifier,
		mode:     ModeCreate,
	}
}

// Init binds the edit flow when editParam is the id of an existing post and
// pre-fills the fields from it. Anything else leaves the controller in ModeCreate.
func (c *FormController) Init(editParam string) {
	if editParam == "" {
		return
	}

	id, err := strconv.ParseInt(editParam, 10, 64)
	if err != nil {
		log.Debug().Str("edit", editParam).Msg("Ignoring malformed edit id")
		return
	}

	post, ok := c.posts.FindByID(id)
	if !ok {
		log.Debug().Int64("postID", id).Msg("Edit target not found, staying in create mode")
		return
	}

	c.mode = ModeEdit
	c.editID = post.ID
	c.fields = FormFields{Title: post.Title, Content: post.Content}
}

// Submit encodes the attached image, then creates or updates the post.
// The mutation only starts once the image has been fully read.
func (c *FormController) Submit(ctx context.Context, in FormInput) (Outcome, error) {
	c.fields = FormFields{Title: in.Title, Content: in.Content}

	image, err := EncodeImage(ctx, in.Image)
	if err != nil {
		c.notifier.Notify(msgImageFailed, SeverityError)
		return Outcome{}, err
	}

	return c.Save(ctx, in.Title, in.Content, image)
}

// Save is the mutation phase of a submission with an already encoded image.
func (c *FormController) Save(ctx context.Context, title, content, image string) (Outcome, error) {
	c.fields = FormFields{Title: title, Content: content}

	if image != "" && !isImageDataURL(image) {
		log.Info().Int64("postID", c.editID).Msg("Dropping attachment that is not an image")
		c.notifier.Notify(msgNotAnImage, SeverityWarning)
		image = ""
	}

	var (
		post domain.Post
		err  error
		msg  string
	)
	if c.mode == ModeEdit {
		post, err = c.posts.Update(ctx, c.editID, title, content, image)
		msg = msgUpdated
	} else {
		post, err = c.posts.Create(ctx, title, content, image)
		msg = msgPublished
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		c.notifier.Notify(msgFillAllFields, SeverityWarning)
		return Outcome{}, err
	case errors.Is(err, domain.ErrNotFound):
		// the post vanished between Init and Save, e.g. deleted from another tab
		log.Info().Int64("postID", c.editID).Msg("Edited post no longer exists, nothing updated")
		c.reset()
		return Outcome{Redirect: listingPath}, nil
	case err != nil:
		c.notifier.Notify(msgSaveFailed, SeverityError)
		return Outcome{}, err
	}

	log.Debug().Stringer("mode", c.mode).Int64("postID", post.ID).Msg("Saved post from form")
	c.notifier.Notify(msg, SeveritySuccess)
	c.reset()
	return Outcome{Redirect: listingPath, Post: post}, nil
}

// Cancel clears the fields and returns to ModeCreate.
func (c *FormController) Cancel() {
	c.reset()
	c.notifier.Notify(msgCanceled, SeverityInfo)
}

func (c *FormController) reset() {
	c.mode = ModeCreate
	c.editID = 0
	c.fields = FormFields{}
}

func (c *FormController) Mode() FormMode {
	return c.mode
}

// EditID is the bound post id, or 0 in ModeCreate.
func (c *FormController) EditID() int64 {
	return c.editID
}

func (c *FormController) Fields() FormFields {
	return c.fields
}

// SubmitLabel is the caption of the submit button for the current mode.
func (c *FormController) SubmitLabel() string {
	if c.mode == ModeEdit {
		return "Update Post"
	}
	return "Publish Post"
}
