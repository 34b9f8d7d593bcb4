package resume

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingModel struct {
	reply  string
	err    error
	system string
	user   string
}

func (m *recordingModel) Ask(_ context.Context, system, user string) (string, error) {
	m.system, m.user = system, user
	return m.reply, m.err
}

func TestDraftObjective(t *testing.T) {
	m := &recordingModel{reply: ` "Atuar como engenheira de dados." `}
	svc := NewDraftService(m, "test-model")

	res, err := svc.DraftObjective(context.Background(), ResumeData{
		PersonalInfo: PersonalInfo{Name: "Ana Silva", Email: "ana@x.com"},
		Experiences:  []Experience{{Role: "Analista", Organization: "ACME", Description: "ETL em Go"}},
		Skills:       []string{" Go ", "", "SQL"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Atuar como engenheira de dados.", res.Objective)
	assert.Equal(t, "test-model", res.Model)
	assert.False(t, res.Excerpted)

	assert.Contains(t, m.user, "Experiência: Analista em ACME")
	assert.Contains(t, m.user, "Habilidades: Go, SQL")
	assert.NotContains(t, m.user, "ana@x.com")
}

func TestDraftObjective_Truncates(t *testing.T) {
	m := &recordingModel{reply: "ok"}
	svc := NewDraftService(m, "")
	res, err := svc.DraftObjective(context.Background(), ResumeData{
		Experiences: []Experience{{Role: "Dev", Description: strings.Repeat("á", 10_000)}},
	})
	require.NoError(t, err)
	assert.True(t, res.Excerpted)
	assert.Less(t, len([]rune(m.user)), 6_100)
}

func TestDraftObjective_Errors(t *testing.T) {
	_, err := NewDraftService(nil, "").DraftObjective(context.Background(), ResumeData{Skills: []string{"Go"}})
	assert.ErrorIs(t, err, ErrDraftUnavailable)

	_, err = NewDraftService(&recordingModel{}, "").DraftObjective(context.Background(), ResumeData{
		PersonalInfo: PersonalInfo{Name: "Ana"},
		Skills:       []string{"  "},
	})
	assert.ErrorIs(t, err, ErrNothingToDraft)

	boom := errors.New("rate limited")
	_, err = NewDraftService(&recordingModel{err: boom}, "").DraftObjective(context.Background(), ResumeData{Skills: []string{"Go"}})
	assert.ErrorIs(t, err, boom)
}
