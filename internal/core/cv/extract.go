package cv

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Candidate holds the fields extracted from a CV, pre-filled for the
// recruiter to review before submission. Field names follow the platform's
// existing API contract.
type Candidate struct {
	Name                  string   `json:"name"`
	CurrentEmployer       string   `json:"currentEmployer"`
	CurrentPosition       string   `json:"currentPosition"`
	Location              string   `json:"location"`
	HardSkills            []string `json:"hardSkills"`
	ExperienceDescription string   `json:"experienceDescription"`
	YearsOfExperience     int      `json:"yearsOfExperience"`
	Degree                string   `json:"degree"`
	TargetRoles           []string `json:"targetRoles"`
}

var (
	yearsPattern  = regexp.MustCompile(`(?i)(\d{1,2})\+?\s*years?\s+(?:of\s+)?experience`)
	degreePattern = regexp.MustCompile(`(?i)\b(bachelor|master|phd|b\.?sc|m\.?sc|mba)\b[^\n.]*`)
)

// knownSkills is the keyword list matched against the CV text. Extraction is
// heuristic by design: the recruiter reviews and corrects every field before
// submission, so recall beats precision here.
var knownSkills = []string{
	"go", "golang", "java", "python", "typescript", "javascript", "c++", "c#",
	"react", "angular", "vue", "node.js", "sql", "mysql", "postgresql",
	"mongodb", "redis", "docker", "kubernetes", "aws", "gcp", "azure",
	"terraform", "kafka", "grpc", "rest", "graphql", "git", "linux",
}

// ExtractCandidate derives candidate fields from CV plain text.
func ExtractCandidate(text string) Candidate {
	lines := lo.Filter(strings.Split(text, "\n"), func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})

	c := Candidate{
		HardSkills:  extractSkills(text),
		TargetRoles: []string{},
	}
	if len(lines) > 0 {
		c.Name = strings.TrimSpace(lines[0])
	}
	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			c.YearsOfExperience = years
		}
	}
	if m := degreePattern.FindString(text); m != "" {
		c.Degree = strings.TrimSpace(m)
	}
	c.ExperienceDescription = experienceSection(lines)
	return c
}

func extractSkills(text string) []string {
	lowered := strings.ToLower(text)
	found := lo.Filter(knownSkills, func(skill string, _ int) bool {
		return containsWord(lowered, skill)
	})
	// Normalize aliases before deduplicating.
	found = lo.Map(found, func(skill string, _ int) string {
		if skill == "golang" {
			return "go"
		}
		return skill
	})
	return lo.Uniq(found)
}

// containsWord reports whether s contains w bounded by non-letter characters,
// so "go" does not match inside "google".
func containsWord(s, w string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], w)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(w)
		startOK := start == 0 || !isWordChar(s[start-1])
		endOK := end == len(s) || !isWordChar(s[end])
		if startOK && endOK {
			return true
		}
		i = start + 1
		if i >= len(s) {
			return false
		}
	}
}

func isWordChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// experienceSection returns the lines following an "experience" heading, up
// to the next heading or ten lines, whichever comes first.
func experienceSection(lines []string) string {
	start := -1
	for i, line := range lines {
		trimmed := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(trimmed, "experience") || strings.HasPrefix(trimmed, "work experience") {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(lines) {
		return ""
	}
	end := start
	for end < len(lines) && end-start < 10 {
		trimmed := strings.ToLower(strings.TrimSpace(lines[end]))
		if trimmed == "education" || trimmed == "skills" || trimmed == "projects" {
			break
		}
		end++
	}
	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}
