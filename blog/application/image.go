package application

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ImageUpload is an image file attached to a form submission.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// EncodeImage reads the whole upload and returns it as a base64 data URL.
// A nil or empty upload yields "".
func EncodeImage(ctx context.Context, upload *ImageUpload) (string, error) {
	if upload == nil || upload.Body == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image %q: %w", upload.Filename, err)
	}
	if len(data) == 0 {
		return "", nil
	}

	mediaType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// isImageDataURL reports whether s is an inline data URL of an image type.
func isImageDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}
