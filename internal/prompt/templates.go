package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/bimmerbailey/dumpsong/internal/employee"
	"github.com/bimmerbailey/dumpsong/internal/llm"
)

// SystemInstruction is the persona sent ahead of every prompt.
const SystemInstruction = "You write concise, catchy parody corporate songs."

const songTemplate = `You are a songwriter creating parody corporate jingles for a fictional HR training app. 
Each song is an over-the-top, cheerful parody about firing an employee — intended to show how absurd or tone-deaf corporate communication can sound.

Your task:
Write a 30-second song announcing that an employee has been "let go," using the following details:
- Employee name: {{.Name}}
- Department: {{.Department}}
- Role: {{.Role}}
- Years at company: {{.Years}}

Guidelines:
- Keep lyrics between 6–8 lines (≈ 30 seconds when sung)
- Tone: overly optimistic, corporate-jargon-heavy, ironically cheerful
- Style: parody of a motivational company jingle
- Must sound playful and fictional — no cruelty or realism
- Include workplace clichés like "synergy," "restructuring," "growth mindset"
- End with a catchy, ironic corporate tagline (e.g., "We wish you synergy on your way!")
- Avoid profanity, real company names, or specific insults

Output format:
Return ONLY the song lyrics (no explanations, no preambles).
Optionally suggest a musical style in parentheses at the top.`

var songPrompt = template.Must(template.New("song").Option("missingkey=error").Parse(songTemplate))

// Build renders the song prompt for info.
//
// Name, Department and Role must be non-empty and Years must be
// non-negative; otherwise Build returns ErrMissingField naming the field.
func Build(info employee.Info) (string, error) {
	switch {
	case strings.TrimSpace(info.Name) == "":
		return "", missingField("Name")
	case info.Department == "":
		return "", missingField("Department")
	case info.Role == "":
		return "", missingField("Role")
	case info.Years < 0:
		return "", missingField("Years")
	}

	var sb strings.Builder
	if err := songPrompt.Execute(&sb, info); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}

// Messages returns the system + user conversation for info.
func Messages(info employee.Info) ([]llm.Message, error) {
	text, err := Build(info)
	if err != nil {
		return nil, err
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemInstruction},
		{Role: llm.RoleUser, Content: text},
	}, nil
}
