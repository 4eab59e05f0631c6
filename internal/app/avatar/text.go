package avatar

import (
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TwoInitialsMinWidth is the narrowest box that shows two initials.
const TwoInitialsMinWidth = 40

// TextSubject is what text mutators receive alongside the HTML.
type TextSubject struct {
	PrimaryText string
	ColorFactor string
}

// TextBased shows initials of PrimaryText on a colour derived from
// ColorFactor. ColorFactor is never displayed.
type TextBased struct {
	PrimaryText string
	ColorFactor string

	mutators *Registry[TextSubject]
}

// NewTextBased creates a text avatar. mutators may be nil.
func NewTextBased(primaryText, colorFactor string, mutators *Registry[TextSubject]) *TextBased {
	return &TextBased{
		PrimaryText: primaryText,
		ColorFactor: colorFactor,
		mutators:    mutators,
	}
}

func (a *TextBased) HTML(width, height int) string {
	return validateOrWarn("text", width, height, a.render)
}

func (a *TextBased) Render(width, height int) (string, error) {
	return validate(width, height, a.render)
}

func (a *TextBased) render(width, height int) string {
	if strings.TrimSpace(a.PrimaryText) == "" {
		return blankHTML(width, height)
	}

	fontSize := max(min(width, height)*2/5, 1)
	out := fmt.Sprintf(
		`<span class="avatar avatar-text" style="display:inline-block;width:%dpx;height:%dpx;`+
			`line-height:%dpx;border-radius:50%%;background-color:%s;color:#fff;`+
			`font-family:sans-serif;font-size:%dpx;font-weight:600;text-align:center;`+
			`overflow:hidden" aria-hidden="true">%s</span>`,
		width, height, height, ColorFor(a.ColorFactor), fontSize,
		html.EscapeString(Initials(a.PrimaryText, width)),
	)

	subject := TextSubject{PrimaryText: a.PrimaryText, ColorFactor: a.ColorFactor}
	return a.mutators.Apply(out, subject, width, height)
}

// Initials returns the upper-cased first rune of the first word of text
// and, when width is at least TwoInitialsMinWidth and text has more than
// one word, the first rune of the last word. The last word is used rather
// than the second, so "Ann Marie Lee" gives "AL" and not "AM".
func Initials(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	initials := []rune{firstRune(words[0])}
	if width >= TwoInitialsMinWidth && len(words) > 1 {
		initials = append(initials, firstRune(words[len(words)-1]))
	}
	return string(initials)
}

func firstRune(word string) rune {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.ToUpper(r)
}
