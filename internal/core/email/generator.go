// Package email turns a reviewed candidate submission into an introduction
// email for the hiring contact. When an OpenAI key is configured the copy is
// drafted by the model; otherwise a deterministic template is used, so the
// endpoint works the same in both deployments.
package email

import (
	"context"
	"fmt"
	"strings"

	"recruit-cv/config"
	"recruit-cv/pkg/logger"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Submission is the reviewed candidate payload posted to /emails/generate.
type Submission struct {
	CandidateName         string   `json:"candidateName" validate:"required"`
	Unemployed            bool     `json:"employmentStatus"`
	CurrentEmployer       string   `json:"currentEmployer"`
	CurrentPosition       string   `json:"currentPosition"`
	Age                   int      `json:"age" validate:"omitempty,gte=0,lte=120"`
	Location              string   `json:"location"`
	RecruiterName         string   `json:"recruiterName" validate:"required"`
	ContactName           string   `json:"contactName" validate:"required"`
	HardSkills            []string `json:"hardSkills"`
	ExperienceDescription string   `json:"experienceDescription"`
	YearsOfExperience     int      `json:"yearsOfExperience" validate:"omitempty,gte=0"`
	Ungraduated           bool     `json:"graduationStatus"`
	Degree                string   `json:"degree"`
	TargetRoles           []string `json:"targetRoles"`
	Ambitions             string   `json:"ambitions"`
	TravelMode            string   `json:"travelMode" validate:"omitempty,oneof=car 'public transport' bicycle 'on walk'"`
	MinutesOfRoad         []int    `json:"minutesOfRoad" validate:"omitempty,dive,gte=0"`
	OnSiteDays            []int    `json:"onSiteDays" validate:"omitempty,dive,gte=0,lte=7"`
	GrossSalary           int      `json:"grossSalary" validate:"omitempty,gte=0"`
	SalaryPeriod          string   `json:"salaryPeriod" validate:"omitempty,oneof=year month"`
	HoursAWeek            int      `json:"hoursAWeek" validate:"omitempty,oneof=8 16 24 32 40"`
	JobDescriptionText    string   `json:"jobDescriptionText"`
}

// Email is the generated introduction.
type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}
type chatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// Generate builds the introduction email. The LLM path is best-effort: any
// failure falls back to the template so the submission never errors out on a
// model hiccup.
func Generate(ctx context.Context, sub Submission) Email {
	if config.Cfg.OpenAI.Key != "" {
		if email, err := generateLLM(ctx, sub); err == nil {
			return email
		} else {
			logger.Error(err, "%v: llm generation failed, using template", config.ModuleEmail)
		}
	}
	return generateTemplate(sub)
}

func generateLLM(ctx context.Context, sub Submission) (Email, error) {
	client := openai.NewClient(option.WithAPIKey(config.Cfg.OpenAI.Key))
	req := chatRequest{
		Model:       config.Cfg.OpenAI.Model,
		Temperature: 0.3,
		MaxTokens:   512,
		Messages: []chatMessage{
			{Role: "system", Content: promptSystem},
			{Role: "user", Content: buildPrompt(sub)},
		},
	}
	var out chatResponse
	if err := client.Post(ctx, "/chat/completions", req, &out); err != nil {
		return Email{}, err
	}
	if len(out.Choices) == 0 {
		return Email{}, fmt.Errorf("no choices returned")
	}
	body := strings.TrimSpace(out.Choices[0].Message.Content)
	if body == "" {
		return Email{}, fmt.Errorf("empty completion")
	}
	return Email{Subject: subjectFor(sub), Body: body}, nil
}

const promptSystem = "You write short, professional candidate introduction emails " +
	"from a recruiter to a hiring contact. Plain text, no placeholders, at most 150 words."

func buildPrompt(sub Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Candidate: %s\n", sub.CandidateName)
	if sub.CurrentPosition != "" {
		fmt.Fprintf(&b, "Current position: %s", sub.CurrentPosition)
		if sub.CurrentEmployer != "" {
			fmt.Fprintf(&b, " at %s", sub.CurrentEmployer)
		}
		b.WriteString("\n")
	}
	if sub.YearsOfExperience > 0 {
		fmt.Fprintf(&b, "Experience: %d years\n", sub.YearsOfExperience)
	}
	if len(sub.HardSkills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(sub.HardSkills, ", "))
	}
	if sub.Degree != "" {
		fmt.Fprintf(&b, "Degree: %s\n", sub.Degree)
	}
	if len(sub.TargetRoles) > 0 {
		fmt.Fprintf(&b, "Target roles: %s\n", strings.Join(sub.TargetRoles, ", "))
	}
	if sub.Ambitions != "" {
		fmt.Fprintf(&b, "Ambitions: %s\n", sub.Ambitions)
	}
	if sub.JobDescriptionText != "" {
		fmt.Fprintf(&b, "Role under discussion: %s\n", sub.JobDescriptionText)
	}
	fmt.Fprintf(&b, "Recruiter: %s\nAddressed to: %s\n", sub.RecruiterName, sub.ContactName)
	return b.String()
}

func subjectFor(sub Submission) string {
	subject := fmt.Sprintf("Candidate introduction: %s", sub.CandidateName)
	if len(sub.TargetRoles) > 0 {
		subject += fmt.Sprintf(" (%s)", sub.TargetRoles[0])
	}
	return subject
}

func generateTemplate(sub Submission) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", sub.ContactName)
	fmt.Fprintf(&b, "I would like to introduce %s", sub.CandidateName)
	if sub.CurrentPosition != "" {
		fmt.Fprintf(&b, ", currently %s", sub.CurrentPosition)
		if sub.CurrentEmployer != "" {
			fmt.Fprintf(&b, " at %s", sub.CurrentEmployer)
		}
	}
	b.WriteString(".")
	if sub.YearsOfExperience > 0 {
		fmt.Fprintf(&b, " They bring %d years of experience", sub.YearsOfExperience)
		if len(sub.HardSkills) > 0 {
			fmt.Fprintf(&b, " with %s", strings.Join(sub.HardSkills, ", "))
		}
		b.WriteString(".")
	} else if len(sub.HardSkills) > 0 {
		fmt.Fprintf(&b, " Their core skills are %s.", strings.Join(sub.HardSkills, ", "))
	}
	if sub.Degree != "" {
		fmt.Fprintf(&b, " They hold a %s.", sub.Degree)
	}
	if len(sub.TargetRoles) > 0 {
		fmt.Fprintf(&b, "\n\nThey are interested in %s roles.", strings.Join(sub.TargetRoles, " / "))
	}
	fmt.Fprintf(&b, "\n\nLet me know if you would like their full CV.\n\nBest regards,\n%s", sub.RecruiterName)
	return Email{Subject: subjectFor(sub), Body: b.String()}
}
