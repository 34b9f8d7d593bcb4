package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTemplate(t *testing.T) {
	tests := []struct {
		in   string
		want Template
	}{
		{"classic", TemplateClassic},
		{"modern", TemplateModern},
		{"MODERN", TemplateModern},
		{"escuro", TemplateModern},
		{" Escuro ", TemplateModern},
		{"", TemplateClassic},
		{"claro", TemplateClassic},
		{"moderno", TemplateClassic},
		{"anything", TemplateClassic},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeTemplate(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
			assert.Equal(t, got, NormalizeTemplate(tt.in), "normalization must be deterministic")
		})
	}
	assert.False(t, Template("escuro").Valid())
}

func TestTrimmed(t *testing.T) {
	in := ResumeData{
		PersonalInfo: PersonalInfo{Name: "  Ana  ", Email: "ana@x.com\n"},
		Skills:       []string{" Go "},
		Experiences:  []Experience{{Role: " Dev ", End: " "}},
	}
	out := in.Trimmed()
	assert.Equal(t, "Ana", out.PersonalInfo.Name)
	assert.Equal(t, "ana@x.com", out.PersonalInfo.Email)
	assert.Equal(t, []string{"Go"}, out.Skills)
	assert.Equal(t, "Dev", out.Experiences[0].Role)
	assert.Empty(t, out.Experiences[0].End)

	out.Skills[0] = "changed"
	assert.Equal(t, " Go ", in.Skills[0])
}
