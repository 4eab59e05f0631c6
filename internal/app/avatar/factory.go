package avatar

import "calmavatar/internal/app/media"

// Mutators bundles the per-kind registries. The composition root creates
// one and injects it through a Factory; blank avatars have no registry.
type Mutators struct {
	Text  *Registry[TextSubject]
	Image *Registry[ImageSubject]
}

// NewMutators returns empty registries.
func NewMutators() *Mutators {
	return &Mutators{
		Text:  NewRegistry[TextSubject]("text"),
		Image: NewRegistry[ImageSubject]("image"),
	}
}

// Factory constructs avatars wired to shared registries and an image locator.
type Factory struct {
	mutators *Mutators
	locator  ImageLocator
}

// NewFactory creates a Factory. A nil Mutators means no mutation.
func NewFactory(mutators *Mutators, locator ImageLocator) *Factory {
	if mutators == nil {
		mutators = &Mutators{}
	}
	return &Factory{mutators: mutators, locator: locator}
}

// Blank returns the blank avatar.
func (f *Factory) Blank() Avatar {
	return Blank{}
}

// Text returns a text avatar for primaryText coloured by colorFactor.
func (f *Factory) Text(primaryText, colorFactor string) Avatar {
	return NewTextBased(primaryText, colorFactor, f.mutators.Text)
}

// Image returns an image avatar for a.
func (f *Factory) Image(a *media.Attachment) Avatar {
	return NewImageBased(a, f.locator, f.mutators.Image)
}
