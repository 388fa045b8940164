package llm

import (
	"strings"
	"testing"

	"trendletter/internal/core"
)

func TestArticlePrompt(t *testing.T) {
	entity := core.TrendEntity{
		Name:          "Dune",
		Type:          "urn:entity:movie",
		Description:   "Epic science fiction film",
		AffinityScore: 0.92,
	}

	prompt := ArticlePrompt(entity, "movies", "Particularly resonates with: Gen Z (81% affinity).")

	for _, want := range []string{
		"Dune",
		"movies",
		"Epic science fiction film",
		"0.92",
		"Gen Z (81% affinity)",
		"400-600 words",
		"Future Outlook",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
}

func TestArticlePrompt_Defaults(t *testing.T) {
	prompt := ArticlePrompt(core.TrendEntity{Name: "Dune"}, "movies", "")

	if !strings.Contains(prompt, "Popular entertainment entity") {
		t.Error("Empty description should use the generic placeholder")
	}
	if !strings.Contains(prompt, "Affinity Score: N/A") {
		t.Error("Zero affinity should render as N/A")
	}
}

func TestLocationArticlePrompt(t *testing.T) {
	entity := core.TrendEntity{Name: "Bad Bunny", Type: "urn:entity:artist", AffinityScore: 0.88}

	prompt := LocationArticlePrompt(entity, "artists", "Tokyo")

	if !strings.Contains(prompt, "Popular in Tokyo") {
		t.Errorf("Prompt missing location context")
	}
	if strings.Count(prompt, "Tokyo") < 4 {
		t.Error("Location prompt should weave the location through the requirements")
	}
	if !strings.Contains(prompt, "Regional Context") {
		t.Error("Prompt missing location structure section")
	}
}
