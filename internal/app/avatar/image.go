package avatar

import (
	"fmt"
	"html"

	"calmavatar/internal/app/media"
)

// ImageLocator resolves an attachment to the URL an avatar should show.
// It reports false when the attachment no longer exists. Implementations
// must answer from already loaded metadata; rendering does no I/O.
type ImageLocator interface {
	Locate(a *media.Attachment) (url string, ok bool)
}

// ImageSubject is what image mutators receive alongside the HTML.
type ImageSubject struct {
	Attachment *media.Attachment
	URL        string
}

// ImageBased shows an attachment. The attachment belongs to the caller.
type ImageBased struct {
	attachment *media.Attachment
	locator    ImageLocator
	mutators   *Registry[ImageSubject]
}

// NewImageBased creates an image avatar. mutators may be nil.
func NewImageBased(a *media.Attachment, locator ImageLocator, mutators *Registry[ImageSubject]) *ImageBased {
	return &ImageBased{attachment: a, locator: locator, mutators: mutators}
}

// Attachment returns the borrowed attachment.
func (a *ImageBased) Attachment() *media.Attachment {
	return a.attachment
}

func (a *ImageBased) HTML(width, height int) string {
	return validateOrWarn("image", width, height, a.render)
}

func (a *ImageBased) Render(width, height int) (string, error) {
	return validate(width, height, a.render)
}

func (a *ImageBased) render(width, height int) string {
	if a.attachment == nil || a.locator == nil {
		return blankHTML(width, height)
	}
	url, ok := a.locator.Locate(a.attachment)
	if !ok {
		return blankHTML(width, height)
	}

	out := fmt.Sprintf(
		`<img class="avatar avatar-image" src="%s" alt="%s" width='%d' height='%d' `+
			`style="border-radius:50%%;object-fit:cover">`,
		html.EscapeString(url), html.EscapeString(a.attachment.Filename), width, height,
	)

	subject := ImageSubject{Attachment: a.attachment, URL: url}
	return a.mutators.Apply(out, subject, width, height)
}
