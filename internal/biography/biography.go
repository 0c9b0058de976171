// Package biography produces narrative biographies for family members by
// asking a generative text service. Generation never fails outright: a
// Result carries either the story or a human-readable placeholder together
// with the reason it was produced.
package biography

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/familytree/pkg/types"
)

// Placeholder texts stored in place of a story when generation fails.
const (
	PlaceholderNoAPIKey = "API key is not configured. Set biography.api_key or the API_KEY environment variable."
	PlaceholderEmpty    = "Could not generate a biography."
	PlaceholderError    = "An error occurred while generating the biography, please try again later."
)

// Defaults for the prompt.
const (
	DefaultLanguage = "Simplified Chinese (zh-CN)"
	DefaultWords    = 150
)

// Request carries the public fields of a member the story is based on.
type Request struct {
	Name       string
	Gender     types.Gender
	BirthDate  string
	BirthPlace string
	Occupation string
}

// RequestFor builds the request for m.
func RequestFor(m *types.Member) Request {
	return Request{
		Name:       m.Name,
		Gender:     m.Gender,
		BirthDate:  m.BirthDate,
		BirthPlace: m.BirthPlace,
		Occupation: m.Occupation,
	}
}

// Result is the outcome of one generation. Exactly one of Text and Failure
// is set. Reason holds the underlying error text of a failure, if any.
type Result struct {
	Text    string
	Failure string
	Reason  string
}

// OK reports whether the result carries a generated story.
func (r Result) OK() bool {
	return r.Failure == ""
}

// Body returns the text to store on the member: the story, or the failure
// placeholder.
func (r Result) Body() string {
	if r.OK() {
		return r.Text
	}
	return r.Failure
}

// Failed returns a failure result with the given placeholder and cause.
func Failed(placeholder string, cause error) Result {
	r := Result{Failure: placeholder}
	if cause != nil {
		r.Reason = cause.Error()
	}
	return r
}

// Generator produces a biography for one member.
type Generator interface {
	Generate(ctx context.Context, req Request) Result
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) Result

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) Result {
	return f(ctx, req)
}

// Prompt renders the instruction sent to the text service. Missing place and
// occupation are written as "Unknown".
func Prompt(req Request, language string, words int) string {
	if language == "" {
		language = DefaultLanguage
	}
	if words <= 0 {
		words = DefaultWords
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a short, engaging biography (approx %d words) for a family tree application.\n", words)
	fmt.Fprintf(&b, "Language: %s.\n\n", language)
	b.WriteString("Subject Details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", req.Name)
	fmt.Fprintf(&b, "- Gender: %s\n", req.Gender)
	fmt.Fprintf(&b, "- Birth Date: %s\n", req.BirthDate)
	fmt.Fprintf(&b, "- Birth Place: %s\n", orUnknown(req.BirthPlace))
	fmt.Fprintf(&b, "- Occupation: %s\n\n", orUnknown(req.Occupation))
	b.WriteString("Instructions:\n")
	b.WriteString("1. Write in a respectful, storytelling tone.\n")
	b.WriteString("2. If the birth year is known, mention 1-2 significant historical events from that era (global or Chinese history) to provide context.\n")
	b.WriteString("3. If details are missing, creatively describe the era they lived in based on the date.\n")
	b.WriteString("4. Do not make up specific personal facts not provided, but elaborate on the lifestyle of their occupation/era.\n")
	return b.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
