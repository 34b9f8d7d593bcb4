package resume

import (
	"slices"
	"strings"
)

// ResumeData описывает структурированное резюме, которое присылает пользователь.
// Все поля необязательны; проверка обязательных полей делается при создании заказа.
type ResumeData struct {
	PersonalInfo PersonalInfo `json:"personalInfo" yaml:"personalInfo"`
	Objective    Objective    `json:"objective" yaml:"objective"`
	Experiences  []Experience `json:"experiences" yaml:"experiences"`
	Education    []Education  `json:"education" yaml:"education"`
	Skills       []string     `json:"skills" yaml:"skills"`
	Languages    []Language   `json:"languages" yaml:"languages"`
	Courses      []Course     `json:"courses" yaml:"courses"`
}

type PersonalInfo struct {
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	City     string `json:"city" yaml:"city"`
	Region   string `json:"region" yaml:"region"`
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
	Website  string `json:"website" yaml:"website"`
}

type Objective struct {
	Text string `json:"text" yaml:"text"`
}

type Experience struct {
	Role         string `json:"role" yaml:"role"`
	Organization string `json:"organization" yaml:"organization"`
	Location     string `json:"location" yaml:"location"`
	Start        string `json:"start" yaml:"start"` // free text, e.g. "2020" or "03/2020"
	End          string `json:"end" yaml:"end"`     // empty means the job is current
	Description  string `json:"description" yaml:"description"`
}

type Education struct {
	Program     string `json:"program" yaml:"program"`
	Institution string `json:"institution" yaml:"institution"`
	Start       string `json:"start" yaml:"start"`
	End         string `json:"end" yaml:"end"`
}

type Language struct {
	Name  string `json:"name" yaml:"name"`
	Level string `json:"level" yaml:"level"`
}

type Course struct {
	Name        string `json:"name" yaml:"name"`
	Institution string `json:"institution" yaml:"institution"`
	Hours       string `json:"hours" yaml:"hours"`
}

// Trimmed returns a copy with surrounding whitespace removed from every string.
// Slices are copied so the result never aliases the receiver.
func (d ResumeData) Trimmed() ResumeData {
	out := ResumeData{
		PersonalInfo: PersonalInfo{
			Name:     strings.TrimSpace(d.PersonalInfo.Name),
			Email:    strings.TrimSpace(d.PersonalInfo.Email),
			Phone:    strings.TrimSpace(d.PersonalInfo.Phone),
			City:     strings.TrimSpace(d.PersonalInfo.City),
			Region:   strings.TrimSpace(d.PersonalInfo.Region),
			LinkedIn: strings.TrimSpace(d.PersonalInfo.LinkedIn),
			Website:  strings.TrimSpace(d.PersonalInfo.Website),
		},
		Objective: Objective{Text: strings.TrimSpace(d.Objective.Text)},
	}
	for _, e := range d.Experiences {
		out.Experiences = append(out.Experiences, Experience{
			Role:         strings.TrimSpace(e.Role),
			Organization: strings.TrimSpace(e.Organization),
			Location:     strings.TrimSpace(e.Location),
			Start:        strings.TrimSpace(e.Start),
			End:          strings.TrimSpace(e.End),
			Description:  strings.TrimSpace(e.Description),
		})
	}
	for _, e := range d.Education {
		out.Education = append(out.Education, Education{
			Program:     strings.TrimSpace(e.Program),
			Institution: strings.TrimSpace(e.Institution),
			Start:       strings.TrimSpace(e.Start),
			End:         strings.TrimSpace(e.End),
		})
	}
	for _, s := range d.Skills {
		out.Skills = append(out.Skills, strings.TrimSpace(s))
	}
	for _, l := range d.Languages {
		out.Languages = append(out.Languages, Language{
			Name:  strings.TrimSpace(l.Name),
			Level: strings.TrimSpace(l.Level),
		})
	}
	for _, c := range d.Courses {
		out.Courses = append(out.Courses, Course{
			Name:        strings.TrimSpace(c.Name),
			Institution: strings.TrimSpace(c.Institution),
			Hours:       strings.TrimSpace(c.Hours),
		})
	}
	return out
}

// Clone returns a copy that shares no slice memory with d.
func (d ResumeData) Clone() ResumeData {
	d.Experiences = slices.Clone(d.Experiences)
	d.Education = slices.Clone(d.Education)
	d.Skills = slices.Clone(d.Skills)
	d.Languages = slices.Clone(d.Languages)
	d.Courses = slices.Clone(d.Courses)
	return d
}
