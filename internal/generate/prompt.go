package generate

import (
	"fmt"
	"strings"
)

// Tone of the generated article.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneTechnical    Tone = "technical"
	ToneFriendly     Tone = "friendly"
)

// Length band of the generated article, mapped to approximate character
// counts in Build.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Prompt describes the article to generate.
type Prompt struct {
	Keyword             string
	Tone                Tone
	Length              Length
	IncludeIntroduction bool
	IncludeConclusion   bool
	IncludeSources      bool
}

// DefaultPrompt returns the prompt settings used for scheduled runs.
func DefaultPrompt(keyword string) Prompt {
	return Prompt{
		Keyword:             keyword,
		Tone:                ToneProfessional,
		Length:              LengthMedium,
		IncludeIntroduction: true,
		IncludeConclusion:   true,
	}
}

func (t Tone) description() string {
	switch t {
	case ToneCasual:
		return "casual, conversational"
	case ToneTechnical:
		return "technical, precise"
	case ToneFriendly:
		return "friendly, approachable"
	default:
		return "professional, authoritative"
	}
}

func (l Length) charRange() string {
	switch l {
	case LengthShort:
		return "800 to 1200"
	case LengthLong:
		return "3000 to 5000"
	default:
		return "1500 to 2500"
	}
}

// Build renders the instruction block sent to every backend. The output is
// deterministic for a given Prompt so tests can pin it.
func (p Prompt) Build() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Write a blog article about %q.\n\n", p.Keyword))
	sb.WriteString("Requirements:\n")
	sb.WriteString(fmt.Sprintf("- Tone: %s\n", p.Tone.description()))
	sb.WriteString(fmt.Sprintf("- Length: approximately %s characters\n", p.Length.charRange()))

	var sections []string
	if p.IncludeIntroduction {
		sections = append(sections, "an introduction")
	}
	if p.IncludeConclusion {
		sections = append(sections, "a conclusion")
	}
	if p.IncludeSources {
		sections = append(sections, "a sources section")
	}
	if len(sections) > 0 {
		sb.WriteString(fmt.Sprintf("- Include %s\n", strings.Join(sections, ", ")))
	}

	sb.WriteString("\nOutput the article title as the first line, followed by the article body.\n")

	return sb.String()
}
