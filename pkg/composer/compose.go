// Package composer turns resume data into a list of layout instructions.
// It knows nothing about PDF; a backend such as pkg/render/pdf executes the list.
package composer

import (
	"strings"

	"github.com/artem13815/resumepay/pkg/resume"
)

const (
	gapAfterHeader  = 4
	gapAfterTitle   = 1.5
	gapBetweenItems = 2
	gapAfterSection = 4
)

// Compose lays out data with the given template. Legacy and unknown template
// names are normalized first, so stored values never fail; ComposerError means
// the policy table has no entry for a normalized template. Missing data just
// shrinks the document.
func Compose(data resume.ResumeData, t resume.Template) ([]Instruction, error) {
	t = resume.NormalizeTemplate(string(t))
	p, ok := policyFor(t)
	if !ok {
		return nil, &ComposerError{Template: t}
	}
	b := &builder{p: p}
	d := data.Trimmed()

	if p.sidebar != nil {
		b.emit(FillRegion{Rect: *p.sidebar, Color: p.colors.sidebar, Repeat: true})
	}
	b.header(d)
	for _, id := range p.sections {
		b.section(id, d)
	}
	return b.out, nil
}

type builder struct {
	p   policy
	out []Instruction
}

func (b *builder) emit(in ...Instruction) { b.out = append(b.out, in...) }

func (b *builder) style(w Weight, size float64, c RGB) {
	b.emit(SetStyle{Weight: w, Size: size, Color: c})
}

func (b *builder) line(text string, align Align) {
	b.emit(WriteText{Text: text, Align: align})
}

func (b *builder) paragraph(text string) {
	b.emit(WriteText{Text: text, Align: AlignLeft, Wrapped: true})
}

func (b *builder) header(d resume.ResumeData) {
	p := b.p
	wrote := false
	if name := d.PersonalInfo.Name; name != "" {
		b.style(WeightBold, p.sizes.name, p.colors.name)
		b.line(name, p.headerAlign)
		wrote = true
	}
	if p.subtitle {
		if sub := Subtitle(d.Objective.Text); sub != "" {
			b.style(WeightRegular, p.sizes.subtitle, p.colors.muted)
			b.line(sub, p.headerAlign)
			wrote = true
		}
	}
	if p.contactInline {
		if c := strings.Join(contactParts(d.PersonalInfo, false), " | "); c != "" {
			b.style(WeightRegular, p.sizes.contact, p.colors.muted)
			b.emit(WriteText{Text: c, Align: p.headerAlign, Wrapped: true})
			wrote = true
		}
	}
	if wrote {
		b.emit(AdvanceVertical{Amount: gapAfterHeader / 2})
		b.emit(DrawRule{Color: p.colors.rule, Thickness: p.ruleThickness})
		b.emit(AdvanceVertical{Amount: gapAfterHeader})
	}
}

// section renders one block, or nothing at all when it has no content.
func (b *builder) section(id sectionID, d resume.ResumeData) {
	var body func()
	switch id {
	case sectionContact:
		lines := contactParts(d.PersonalInfo, true)
		if len(lines) == 0 {
			return
		}
		body = func() {
			b.style(WeightRegular, b.p.sizes.body, b.p.colors.body)
			for _, l := range lines {
				b.line(l, AlignLeft)
			}
		}
	case sectionObjective:
		if d.Objective.Text == "" {
			return
		}
		body = func() {
			b.style(WeightRegular, b.p.sizes.body, b.p.colors.body)
			b.paragraph(d.Objective.Text)
		}
	case sectionExperience:
		items := keptExperiences(d.Experiences)
		if len(items) == 0 {
			return
		}
		body = func() { b.experiences(items) }
	case sectionEducation:
		items := keptEducation(d.Education)
		if len(items) == 0 {
			return
		}
		body = func() { b.education(items) }
	case sectionSkills:
		skills := nonEmpty(d.Skills)
		if len(skills) == 0 {
			return
		}
		body = func() {
			b.style(WeightRegular, b.p.sizes.body, b.p.colors.body)
			b.paragraph(strings.Join(skills, b.p.skillSep))
		}
	case sectionCourses:
		lines := courseLines(d.Courses)
		if len(lines) == 0 {
			return
		}
		body = func() {
			b.style(WeightRegular, b.p.sizes.body, b.p.colors.body)
			for _, l := range lines {
				b.paragraph(l)
			}
		}
	case sectionLanguages:
		lines := languageLines(d.Languages)
		if len(lines) == 0 {
			return
		}
		body = func() {
			b.style(WeightRegular, b.p.sizes.body, b.p.colors.body)
			for _, l := range lines {
				b.line(l, AlignLeft)
			}
		}
	default:
		return
	}

	b.title(sectionTitles[id])
	body()
	b.emit(AdvanceVertical{Amount: gapAfterSection})
}

func (b *builder) title(label string) {
	b.style(WeightBold, b.p.sizes.heading, b.p.colors.heading)
	b.line(label, AlignLeft)
	b.emit(DrawRule{Color: b.p.colors.rule, Thickness: b.p.ruleThickness})
	b.emit(AdvanceVertical{Amount: gapAfterTitle})
}

func (b *builder) experiences(items []resume.Experience) {
	for i, e := range items {
		if i > 0 {
			b.emit(AdvanceVertical{Amount: gapBetweenItems})
		}
		b.style(WeightBold, b.p.sizes.body, b.p.colors.body)
		b.paragraph(joinNonEmpty(" - ", e.Role, e.Organization))
		if meta := joinNonEmpty(" | ", DateRange(e.Start, e.End, b.p.openEnd), e.Location); meta != "" {
			b.style(WeightRegular, b.p.sizes.body-1, b.p.colors.muted)
			b.line(meta, AlignLeft)
		}
		if e.Description != "" {
			b.style(WeightRegular, b.p.sizes.body, b.p.colors.body)
			b.paragraph(e.Description)
		}
	}
}

func (b *builder) education(items []resume.Education) {
	for i, e := range items {
		if i > 0 {
			b.emit(AdvanceVertical{Amount: gapBetweenItems})
		}
		b.style(WeightBold, b.p.sizes.body, b.p.colors.body)
		b.paragraph(e.Program)
		if meta := joinNonEmpty(" | ", e.Institution, DateRange(e.Start, e.End, b.p.openEnd)); meta != "" {
			b.style(WeightRegular, b.p.sizes.body-1, b.p.colors.muted)
			b.line(meta, AlignLeft)
		}
	}
}
