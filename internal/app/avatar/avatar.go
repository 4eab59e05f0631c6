/*
Package avatar renders the small visual identity shown next to posts, comments and users.

Three variants implement the Avatar capability: Blank (no identity information),
TextBased (initials on a colour derived from a secondary string such as an email
address) and ImageBased (an uploaded attachment). Every variant validates the
requested geometry before rendering, and the text and image variants pass their
markup through a Registry of mutators owned by the composition root.
*/
package avatar

import (
	"fmt"

	"calmavatar/internal/pkg/errs"
	"calmavatar/internal/pkg/logx"
)

// Avatar is implemented by every avatar variant.
type Avatar interface {
	// HTML renders the avatar inside a width x height box. Non-positive
	// dimensions are logged at warn level and produce an empty string.
	HTML(width, height int) string

	// Render is HTML with the validation failure returned instead of logged.
	Render(width, height int) (string, error)
}

// Square renders a single-dimension avatar, height equal to width.
func Square(a Avatar, size int) string {
	return a.HTML(size, size)
}

// renderFunc is a variant's rendering body. It only ever sees positive dimensions.
type renderFunc func(width, height int) string

// validate guards fn with the geometry precondition.
func validate(width, height int, fn renderFunc) (string, error) {
	if width <= 0 || height <= 0 {
		return "", errs.NewError(errs.ErrInvalidDimensions, width, height)
	}
	return fn(width, height), nil
}

// validateOrWarn is validate for the HTML entry points.
func validateOrWarn(kind string, width, height int, fn renderFunc) string {
	out, err := validate(width, height, fn)
	if err != nil {
		logx.Warn("avatar render skipped: invalid dimensions",
			"kind", kind,
			"width", width,
			"height", height,
		)
		return ""
	}
	return out
}

// Blank is the avatar used when nothing is known about the identity.
type Blank struct{}

func (Blank) HTML(width, height int) string {
	return validateOrWarn("blank", width, height, blankHTML)
}

func (Blank) Render(width, height int) (string, error) {
	return validate(width, height, blankHTML)
}

func blankHTML(width, height int) string {
	return fmt.Sprintf(
		`<span class="avatar avatar-blank" style="display:inline-block;width:%dpx;height:%dpx;`+
			`border-radius:50%%;background-color:#e2e4e7" aria-hidden="true"></span>`,
		width, height,
	)
}
