package avatar

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

const (
	// LazyLoadingName is the registry name of the LazyLoading mutator.
	LazyLoadingName = "lazy-loading"
	// ExtraClassName is the registry name of the ExtraClass mutator.
	ExtraClassName = "extra-class"
)

// LazyLoading adds loading="lazy" and decoding="async" to the first <img>.
func LazyLoading() Mutator[ImageSubject] {
	return NewMutator[ImageSubject](LazyLoadingName, Dependency{}, func(fragment string, _ ImageSubject, _, _ int) (string, error) {
		return rewriteFirstTag(fragment, "img", func(tok *html.Token) {
			setAttr(tok, "loading", "lazy")
			setAttr(tok, "decoding", "async")
		})
	})
}

// ExtraClass appends class to the class attribute of the fragment's root
// element. It runs after LazyLoading when both are registered.
func ExtraClass[S any](class string) Mutator[S] {
	dep := Dependency{Priority: After, Target: LazyLoadingName}
	return NewMutator[S](ExtraClassName, dep, func(fragment string, _ S, _, _ int) (string, error) {
		if class == "" {
			return fragment, nil
		}
		return rewriteFirstTag(fragment, "", func(tok *html.Token) {
			for i, a := range tok.Attr {
				if a.Key == "class" {
					tok.Attr[i].Val = strings.TrimSpace(a.Val + " " + class)
					return
				}
			}
			tok.Attr = append(tok.Attr, html.Attribute{Key: "class", Val: class})
		})
	})
}

func setAttr(tok *html.Token, key, val string) {
	for i, a := range tok.Attr {
		if a.Key == key {
			tok.Attr[i].Val = val
			return
		}
	}
	tok.Attr = append(tok.Attr, html.Attribute{Key: key, Val: val})
}

// rewriteFirstTag streams fragment through the tokenizer, applies edit to the
// first start tag named tag (any tag when tag is empty) and copies every
// other token through byte for byte.
func rewriteFirstTag(fragment, tag string, edit func(*html.Token)) (string, error) {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var sb strings.Builder
	done := false
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				return sb.String(), nil
			}
			return "", z.Err()
		}

		raw := string(z.Raw())
		if done || (tt != html.StartTagToken && tt != html.SelfClosingTagToken) {
			sb.WriteString(raw)
			continue
		}

		tok := z.Token()
		if tag != "" && tok.Data != tag {
			sb.WriteString(raw)
			continue
		}

		edit(&tok)
		sb.WriteString(tok.String())
		done = true
	}
}
