package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/review-generator/internal/history"
	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/Conceptual-Machines/review-generator/internal/variation"
)

// ForbiddenPhrases are clichés the model must not use
var ForbiddenPhrases = []string{
	"Highly recommend",
	"I felt safe",
	"Amazing experience",
	"Best place ever",
	"Exceeded expectations",
	"Exceeded all my expectations",
	"Cannot recommend enough",
}

// FancyWords are words that make a review sound written by a copywriter
var FancyWords = []string{
	"exceptional", "remarkable", "meticulous", "professionalism",
	"precision", "genuinely", "truly", "outstanding",
}

// Builder assembles the user prompt for one review
type Builder struct {
	loader *Loader
}

// NewPromptBuilder creates a new prompt builder
func NewPromptBuilder() *Builder {
	return &Builder{loader: NewPromptLoader()}
}

// SystemPrompt returns the fixed system instruction
func (b *Builder) SystemPrompt() string {
	return b.loader.GetSystemPrompt()
}

// BuildPrompt renders the instruction document. It is a pure function of its inputs.
func (b *Builder) BuildPrompt(req models.GenerationRequest, params variation.Parameters, openings []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate a realistic %s for a %s called \"%s\" in the %s category.\n\n",
		strings.ToLower(req.UseCase), req.BusinessType, req.BusinessName, req.Category)

	fmt.Fprintf(&sb, "STAR RATING: %d/5\n", req.StarRating)
	fmt.Fprintf(&sb, "SENTIMENT: %s\n\n", Sentiment(req.StarRating))

	sb.WriteString("UNIQUENESS REQUIREMENTS:\n")
	fmt.Fprintf(&sb, "- STRUCTURE PATTERN: %s\n", params.Structure)
	sb.WriteString("- This review MUST be completely different from previous reviews\n")
	for _, opening := range openings {
		fmt.Fprintf(&sb, "  * Don't start like: '%s...'\n", opening)
	}
	sb.WriteString("- Create a FRESH opening sentence (not used before)\n")
	sb.WriteString("- Use different vocabulary and phrasing\n")
	sb.WriteString("- Vary the story and details mentioned\n\n")

	sb.WriteString("STRICT WRITING RULES:\n")
	fmt.Fprintf(&sb, "- Length: Between %d and %d characters\n", params.Range.Min, params.Range.Max)
	sb.WriteString("- Tone: Natural and conversational (like talking to a friend)\n")
	sb.WriteString("- First sentence must be unique (avoid repetitive openings)\n")
	sb.WriteString("- No repetition of ideas\n")
	fmt.Fprintf(&sb, "- Mention business name \"%s\" naturally in the review\n", req.BusinessName)
	sb.WriteString("- Include one emotional detail or personal experience\n")
	sb.WriteString("- Do NOT mention the star rating in the review text\n")
	sb.WriteString("- Do NOT use these overused phrases:\n")
	for _, phrase := range ForbiddenPhrases {
		fmt.Fprintf(&sb, "  * \"%s\"\n", phrase)
	}
	fmt.Fprintf(&sb, "- AVOID fancy/complex words like: %s\n", strings.Join(FancyWords, ", "))
	sb.WriteString("- No exclamation marks\n")
	sb.WriteString("- No dashes (—) in the text\n")
	sb.WriteString("- No em dashes or en dashes\n")
	sb.WriteString("- Use simple periods and commas only for punctuation\n")
	sb.WriteString("- Write like a real person sharing their experience\n")
	sb.WriteString("- Vary sentence structure and length\n\n")

	fmt.Fprintf(&sb, "LANGUAGE: %s\n\n", b.loader.GetLanguageInstructions(req.Language))

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Return ONLY the review text\n")
	sb.WriteString("- No quotes, no markdown, no formatting\n")
	sb.WriteString("- No template-like structure\n")
	sb.WriteString("- Make it sound authentic and unique\n\n")
	sb.WriteString("Generate the review now:")

	return sb.String()
}

// Prompt is a composed request for the completion API
type Prompt struct {
	System string
	User   string
	Params variation.Parameters
}

// Composer draws variation parameters, reads recent history and builds the prompt
type Composer struct {
	builder  *Builder
	history  history.Reader
	selector *variation.Selector
}

// NewComposer creates a composer; a nil reader means no anti-repetition hints
func NewComposer(reader history.Reader, selector *variation.Selector) *Composer {
	if selector == nil {
		selector = variation.NewSelector(nil)
	}
	return &Composer{
		builder:  NewPromptBuilder(),
		history:  reader,
		selector: selector,
	}
}

// Compose builds the prompt for req using one fresh variation draw
func (c *Composer) Compose(ctx context.Context, req models.GenerationRequest) Prompt {
	var openings []string
	if c.history != nil {
		openings = history.Openings(c.history.Load(ctx), history.RecentOpeningsCount, history.OpeningPrefixLength)
	}

	params := c.selector.Draw()
	return Prompt{
		System: c.builder.SystemPrompt(),
		User:   c.builder.BuildPrompt(req, params, openings),
		Params: params,
	}
}
