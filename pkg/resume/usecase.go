package resume

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/artem13815/resumepay/pkg/llm"
)

var (
	ErrDraftUnavailable = errors.New("objective drafting is not configured")
	ErrNothingToDraft   = errors.New("resume has no experience, education or skills to draft from")
)

// DraftResult is a suggested objective text for the customer to review.
type DraftResult struct {
	Model     string `json:"model"`
	Objective string `json:"objective"`
	Excerpted bool   `json:"excerpted"` // true if the prompt input was truncated
}

// DraftService suggests an objective paragraph from the rest of the resume.
// It never reads or writes orders.
type DraftService interface {
	DraftObjective(ctx context.Context, data ResumeData) (DraftResult, error)
}

type draftService struct {
	llm            llm.ChatModel
	modelName      string
	maxPromptChars int
}

// NewDraftService creates the default implementation. A nil model makes every
// call fail with ErrDraftUnavailable.
func NewDraftService(model llm.ChatModel, modelName string) DraftService {
	return &draftService{
		llm:            model,
		modelName:      modelName,
		maxPromptChars: 6_000,
	}
}

func (s *draftService) DraftObjective(ctx context.Context, data ResumeData) (DraftResult, error) {
	if s.llm == nil {
		return DraftResult{}, ErrDraftUnavailable
	}
	text := strings.TrimSpace(profileText(data.Trimmed()))
	if text == "" {
		return DraftResult{}, ErrNothingToDraft
	}
	excerpted := false
	if r := []rune(text); len(r) > s.maxPromptChars {
		text = string(r[:s.maxPromptChars])
		excerpted = true
	}
	system := "Você é um consultor de carreira. Escreva um objetivo profissional curto para um currículo. Responda apenas com o texto do objetivo, em português, em no máximo duas frases."
	user := fmt.Sprintf("Dados do currículo entre marcadores:\n<<<\n%s\n>>>", text)

	answer, err := s.llm.Ask(ctx, system, user)
	if err != nil {
		return DraftResult{}, fmt.Errorf("draft objective: %w", err)
	}
	return DraftResult{
		Model:     s.modelName,
		Objective: strings.Trim(strings.TrimSpace(answer), `"«»`),
		Excerpted: excerpted,
	}, nil
}

// profileText flattens the parts of the resume that say something about the
// candidate's direction. Contact details are left out of the prompt.
func profileText(d ResumeData) string {
	var b strings.Builder
	for _, e := range d.Experiences {
		if e.Role == "" && e.Organization == "" {
			continue
		}
		fmt.Fprintf(&b, "Experiência: %s", e.Role)
		if e.Organization != "" {
			fmt.Fprintf(&b, " em %s", e.Organization)
		}
		b.WriteString("\n")
		if e.Description != "" {
			b.WriteString(e.Description)
			b.WriteString("\n")
		}
	}
	for _, e := range d.Education {
		if e.Program == "" {
			continue
		}
		fmt.Fprintf(&b, "Formação: %s %s\n", e.Program, e.Institution)
	}
	var skills []string
	for _, s := range d.Skills {
		if s != "" {
			skills = append(skills, s)
		}
	}
	if len(skills) > 0 {
		fmt.Fprintf(&b, "Habilidades: %s\n", strings.Join(skills, ", "))
	}
	return b.String()
}
