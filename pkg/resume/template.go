package resume

import "strings"

// Template is the visual variant of the generated document.
type Template string

const (
	TemplateClassic Template = "classic"
	TemplateModern  Template = "modern"
)

// legacyModern is the old name of the dark sidebar layout; stored orders and
// old frontends still send it.
const legacyModern = "escuro"

// NormalizeTemplate maps any client-supplied name onto the closed set.
// Unknown or empty names fall back to classic.
func NormalizeTemplate(raw string) Template {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(TemplateModern), legacyModern:
		return TemplateModern
	default:
		return TemplateClassic
	}
}

// Valid reports whether t is one of the known variants.
func (t Template) Valid() bool {
	return t == TemplateClassic || t == TemplateModern
}

func (t Template) String() string { return string(t) }
