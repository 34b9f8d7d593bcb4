package composer

import (
	"strings"
	"unicode"

	"github.com/artem13815/resumepay/pkg/resume"
)

const (
	subtitleMax  = 60
	subtitleKeep = 57
)

// DateRange formats "start - end". A missing end is replaced by openEnd when
// a start exists; with an empty openEnd only the start is shown.
func DateRange(start, end, openEnd string) string {
	if end == "" && start != "" {
		end = openEnd
	}
	return joinNonEmpty(" - ", start, end)
}

// Subtitle is the first sentence of the objective, shortened to fit a heading.
func Subtitle(objective string) string {
	s := objective
	if i := strings.IndexAny(s, ".!?"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > subtitleMax {
		return string(r[:subtitleKeep]) + "..."
	}
	return s
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(nonEmpty(parts), sep)
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// contactParts lists present contact fields. Labelled parts are used when each
// field gets its own line.
func contactParts(pi resume.PersonalInfo, labelled bool) []string {
	location := joinNonEmpty(" - ", pi.City, pi.Region)
	fields := []struct{ label, value string }{
		{"E-mail", pi.Email},
		{"Telefone", pi.Phone},
		{"Cidade", location},
		{"LinkedIn", pi.LinkedIn},
		{"Site", pi.Website},
	}
	var out []string
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if labelled {
			out = append(out, f.label+": "+f.value)
		} else {
			out = append(out, f.value)
		}
	}
	return out
}

func keptExperiences(in []resume.Experience) []resume.Experience {
	var out []resume.Experience
	for _, e := range in {
		if e.Role == "" && e.Organization == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func keptEducation(in []resume.Education) []resume.Education {
	var out []resume.Education
	for _, e := range in {
		if e.Program == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func courseLines(in []resume.Course) []string {
	var out []string
	for _, c := range in {
		if c.Name == "" {
			continue
		}
		out = append(out, joinNonEmpty(" - ", c.Name, c.Institution, hours(c.Hours)))
	}
	return out
}

// hours appends "h" to a bare number ("40" -> "40h") and leaves other text alone.
func hours(h string) string {
	if h == "" {
		return ""
	}
	for _, r := range h {
		if !unicode.IsDigit(r) {
			return h
		}
	}
	return h + "h"
}

func languageLines(in []resume.Language) []string {
	var out []string
	for _, l := range in {
		if l.Name == "" {
			continue
		}
		out = append(out, joinNonEmpty(" - ", l.Name, l.Level))
	}
	return out
}
