package application

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/dfryer1193/localblog/blog/domain"
)

func newTestForm(t *testing.T) (*FormController, *PostRepository, *ToastQueue) {
	t.Helper()

	repo, _ := newTestRepository(t)
	queue := &ToastQueue{}
	return NewFormController(repo, queue), repo, queue
}

func assertToasts(t *testing.T, queue *ToastQueue, want ...Toast) {
	t.Helper()

	got := queue.Drain()
	if len(got) != len(want) {
		t.Fatalf("toasts = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("toast[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestFormMode_String(t *testing.T) {
	tests := []struct {
		mode FormMode
		want string
	}{
		{ModeCreate, "create"},
		{ModeEdit, "edit"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("FormMode(%d).String() = %q, want %q", int(tt.mode), got, tt.want)
		}
	}
}

func TestFormController_StartsInCreate(t *testing.T) {
	form, _, _ := newTestForm(t)

	if form.Mode() != ModeCreate {
		t.Errorf("Mode() = %v, want %v", form.Mode(), ModeCreate)
	}
	if form.SubmitLabel() != "Publish Post" {
		t.Errorf("SubmitLabel() = %q, want %q", form.SubmitLabel(), "Publish Post")
	}
}

func TestFormController_Init(t *testing.T) {
	form, repo, _ := newTestForm(t)
	post, _ := repo.Create(context.Background(), "Title", "Body", "")

	tests := []struct {
		name     string
		param    string
		wantMode FormMode
	}{
		{name: "no param", param: "", wantMode: ModeCreate},
		{name: "malformed", param: "abc", wantMode: ModeCreate},
		{name: "unknown id", param: "12", wantMode: ModeCreate},
		{name: "existing id", param: strconv.FormatInt(post.ID, 10), wantMode: ModeEdit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form = NewFormController(repo, &ToastQueue{})
			form.Init(tt.param)

			if form.Mode() != tt.wantMode {
				t.Fatalf("Mode() = %v, want %v", form.Mode(), tt.wantMode)
			}
			if tt.wantMode == ModeEdit {
				if form.EditID() != post.ID {
					t.Errorf("EditID() = %d, want %d", form.EditID(), post.ID)
				}
				if want := (FormFields{Title: "Title", Content: "Body"}); form.Fields() != want {
					t.Errorf("Fields() = %#v, want %#v", form.Fields(), want)
				}
				if form.SubmitLabel() != "Update Post" {
					t.Errorf("SubmitLabel() = %q, want %q", form.SubmitLabel(), "Update Post")
				}
			}
		})
	}
}

func TestFormController_SubmitCreate(t *testing.T) {
	form, repo, queue := newTestForm(t)

	out, err := form.Submit(context.Background(), FormInput{
		Title:   "Hello",
		Content: "World",
		Image:   &ImageUpload{Filename: "a.gif", Body: bytes.NewReader(tinyGIF)},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if out.Redirect != "/" {
		t.Errorf("Redirect = %q, want %q", out.Redirect, "/")
	}
	if !strings.HasPrefix(out.Post.Image, "data:image/gif;base64,") {
		t.Errorf("Image = %q, want a gif data URL", out.Post.Image)
	}
	if got := repo.All(); len(got) != 1 || got[0] != out.Post {
		t.Errorf("All() = %#v, want just %#v", got, out.Post)
	}
	assertToasts(t, queue, Toast{Message: msgPublished, Severity: SeveritySuccess})
}

func TestFormController_SubmitValidation(t *testing.T) {
	form, repo, queue := newTestForm(t)

	out, err := form.Submit(context.Background(), FormInput{Title: "Draft", Content: "  "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Submit() error = %v, want %v", err, domain.ErrValidation)
	}

	if out.Redirect != "" {
		t.Errorf("Redirect = %q, want none", out.Redirect)
	}
	if form.Mode() != ModeCreate {
		t.Errorf("Mode() = %v, want %v", form.Mode(), ModeCreate)
	}
	if form.Fields().Title != "Draft" {
		t.Errorf("Fields().Title = %q, want the submitted value kept", form.Fields().Title)
	}
	if len(repo.All()) != 0 {
		t.Errorf("validation failure created a post")
	}
	assertToasts(t, queue, Toast{Message: msgFillAllFields, Severity: SeverityWarning})
}

func TestFormController_SubmitEdit(t *testing.T) {
	form, repo, queue := newTestForm(t)
	ctx := context.Background()
	created, _ := repo.Create(ctx, "Old", "old body", "data:image/png;base64,AAAA")

	form.Init(strconv.FormatInt(created.ID, 10))
	out, err := form.Submit(ctx, FormInput{Title: "New", Content: "new body"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if out.Redirect != "/" {
		t.Errorf("Redirect = %q, want %q", out.Redirect, "/")
	}
	got, _ := repo.FindByID(created.ID)
	if got.Title != "New" || got.Content != "new body" || got.Image != created.Image {
		t.Errorf("post = %#v, want updated title/content and previous image", got)
	}
	if len(repo.All()) != 1 {
		t.Errorf("edit created a new post")
	}
	if form.Mode() != ModeCreate {
		t.Errorf("Mode() = %v, want %v after a successful edit", form.Mode(), ModeCreate)
	}
	assertToasts(t, queue, Toast{Message: msgUpdated, Severity: SeveritySuccess})
}

func TestFormController_SubmitEditKeepsImageOnNonImageUpload(t *testing.T) {
	form, repo, queue := newTestForm(t)
	ctx := context.Background()

	gif, err := EncodeImage(ctx, &ImageUpload{Filename: "dot.gif", Body: bytes.NewReader(tinyGIF)})
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	created, _ := repo.Create(ctx, "Old", "old body", gif)

	form.Init(strconv.FormatInt(created.ID, 10))
	_, err = form.Submit(ctx, FormInput{
		Title:   "New",
		Content: "new body",
		Image:   &ImageUpload{Filename: "notes.txt", Body: strings.NewReader("hello")},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	got, _ := repo.FindByID(created.ID)
	if got.Image != gif {
		t.Errorf("Image = %q, want the previous gif kept", got.Image)
	}
	if got.Title != "New" {
		t.Errorf("Title = %q, want %q", got.Title, "New")
	}
	assertToasts(t, queue,
		Toast{Message: msgNotAnImage, Severity: SeverityWarning},
		Toast{Message: msgUpdated, Severity: SeveritySuccess},
	)
}

func TestFormController_SubmitCreateDropsNonImage(t *testing.T) {
	form, repo, queue := newTestForm(t)

	_, err := form.Save(context.Background(), "T", "C", "data:text/plain;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	posts := repo.All()
	if len(posts) != 1 || posts[0].Image != "" {
		t.Errorf("posts = %#v, want one post without image", posts)
	}
	assertToasts(t, queue,
		Toast{Message: msgNotAnImage, Severity: SeverityWarning},
		Toast{Message: msgPublished, Severity: SeveritySuccess},
	)
}

func TestFormController_SubmitEditVanished(t *testing.T) {
	form, repo, queue := newTestForm(t)
	ctx := context.Background()
	created, _ := repo.Create(ctx, "Old", "old body", "")

	form.Init(strconv.FormatInt(created.ID, 10))
	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	out, err := form.Submit(ctx, FormInput{Title: "New", Content: "new body"})
	if err != nil {
		t.Fatalf("Submit() error = %v, want silent no-op", err)
	}
	if out.Redirect != "/" {
		t.Errorf("Redirect = %q, want %q", out.Redirect, "/")
	}
	if len(repo.All()) != 0 {
		t.Errorf("update of a vanished post recreated it")
	}
	assertToasts(t, queue)
}

func TestFormController_SubmitImageError(t *testing.T) {
	form, repo, queue := newTestForm(t)

	_, err := form.Submit(context.Background(), FormInput{
		Title:   "T",
		Content: "C",
		Image:   &ImageUpload{Filename: "broken.png", Body: errReader{}},
	})
	if err == nil {
		t.Fatal("Submit() should fail when the image cannot be read")
	}
	if len(repo.All()) != 0 {
		t.Errorf("post saved despite image read failure")
	}
	assertToasts(t, queue, Toast{Message: msgImageFailed, Severity: SeverityError})
}

func TestFormController_Cancel(t *testing.T) {
	form, repo, queue := newTestForm(t)
	created, _ := repo.Create(context.Background(), "T", "C", "")

	form.Init(strconv.FormatInt(created.ID, 10))
	form.Cancel()

	if form.Mode() != ModeCreate {
		t.Errorf("Mode() = %v, want %v", form.Mode(), ModeCreate)
	}
	if form.EditID() != 0 {
		t.Errorf("EditID() = %d, want 0", form.EditID())
	}
	if form.Fields() != (FormFields{}) {
		t.Errorf("Fields() = %#v, want cleared", form.Fields())
	}
	if len(repo.All()) != 1 {
		t.Errorf("Cancel changed the collection")
	}
	assertToasts(t, queue, Toast{Message: msgCanceled, Severity: SeverityInfo})
}
