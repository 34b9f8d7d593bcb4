package composer

import "github.com/artem13815/resumepay/pkg/resume"

type sectionID int

const (
	sectionContact sectionID = iota
	sectionObjective
	sectionExperience
	sectionEducation
	sectionSkills
	sectionCourses
	sectionLanguages
)

var sectionTitles = map[sectionID]string{
	sectionContact:    "Contato",
	sectionObjective:  "Objetivo",
	sectionExperience: "Experiência Profissional",
	sectionEducation:  "Formação Acadêmica",
	sectionSkills:     "Habilidades",
	sectionCourses:    "Cursos",
	sectionLanguages:  "Idiomas",
}

type palette struct {
	name    RGB
	heading RGB
	body    RGB
	muted   RGB
	rule    RGB
	sidebar RGB
}

type sizes struct {
	name     float64
	subtitle float64
	contact  float64
	heading  float64
	body     float64
}

// policy is everything that differs between variants. The section renderers
// are shared; only this table changes.
type policy struct {
	headerAlign   Align
	colors        palette
	sizes         sizes
	sections      []sectionID
	openEnd       string // label for an experience with no end date
	subtitle      bool
	contactInline bool // contact line under the name instead of a section
	sidebar       *Rect
	ruleThickness float64
	skillSep      string
}

var (
	black = RGB{0, 0, 0}
	gray  = RGB{90, 90, 90}
	light = RGB{160, 160, 160}
	navy  = RGB{31, 58, 95}
	teal  = RGB{0, 121, 140}
)

var policies = map[resume.Template]policy{
	resume.TemplateClassic: {
		headerAlign:   AlignCenter,
		colors:        palette{name: black, heading: black, body: black, muted: gray, rule: black},
		sizes:         sizes{name: 20, contact: 9.5, heading: 12, body: 10.5},
		sections:      []sectionID{sectionObjective, sectionEducation, sectionSkills, sectionExperience, sectionCourses, sectionLanguages},
		openEnd:       "",
		contactInline: true,
		ruleThickness: 0.3,
		skillSep:      ", ",
	},
	resume.TemplateModern: {
		headerAlign:   AlignLeft,
		colors:        palette{name: navy, heading: teal, body: RGB{33, 33, 33}, muted: gray, rule: light, sidebar: navy},
		sizes:         sizes{name: 24, subtitle: 12, contact: 9.5, heading: 12.5, body: 10},
		sections:      []sectionID{sectionContact, sectionObjective, sectionExperience, sectionEducation, sectionSkills, sectionCourses, sectionLanguages},
		openEnd:       "Atual",
		subtitle:      true,
		sidebar:       &Rect{X: 0, Y: 0, W: 8, H: 297},
		ruleThickness: 0.5,
		skillSep:      " • ",
	},
}

func policyFor(t resume.Template) (policy, bool) {
	p, ok := policies[t]
	return p, ok
}
