package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"google.golang.org/genai"

	"trendletter/internal/core"
)

const (
	// DefaultModel is the default Gemini model for article generation.
	DefaultModel = "gemini-2.0-flash-lite"
)

// Client wraps the Gemini SDK for newsletter article generation.
type Client struct {
	apiKey    string
	modelName string
	gClient   *genai.Client
}

// NewClient creates a new LLM client.
// It supports multiple ways to get the API key (in order of preference):
// 1. Environment variable: GEMINI_API_KEY (or alternatives)
// 2. Viper configuration: gemini.api_key
func NewClient(modelName string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		if apiKey = os.Getenv("GOOGLE_GEMINI_API_KEY"); apiKey == "" {
			if apiKey = os.Getenv("GOOGLE_AI_API_KEY"); apiKey == "" {
				apiKey = viper.GetString("gemini.api_key")
			}
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY environment variable or gemini.api_key in config file.\nGet your API key from: https://makersuite.google.com/app/apikey")
	}

	if modelName == "" {
		modelName = viper.GetString("gemini.model")
		if modelName == "" {
			modelName = DefaultModel
		}
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		apiKey:    apiKey,
		modelName: modelName,
		gClient:   gClient,
	}, nil
}

// GenerateArticleText runs the prompt against the configured model and
// returns the raw generated text.
func (c *Client) GenerateArticleText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// Close cleans up client resources.
func (c *Client) Close() error {
	// New SDK client doesn't require explicit close
	return nil
}

// ArticlePrompt builds the generation prompt for a standard premium article
// about a trend entity, including any demographic insight text.
func ArticlePrompt(entity core.TrendEntity, category, demographicInsight string) string {
	description := entity.Description
	if description == "" {
		description = "Popular entertainment entity"
	}
	affinity := "N/A"
	if entity.AffinityScore > 0 {
		affinity = fmt.Sprintf("%.2f", entity.AffinityScore)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a comprehensive, engaging newsletter article about %s in the %s category.\n\n", entity.Name, category)
	fmt.Fprintf(&b, "Entity Information:\n- Name: %s\n- Type: %s\n- Description: %s\n- Affinity Score: %s\n\n", entity.Name, entity.Type, description, affinity)
	fmt.Fprintf(&b, "Demographic Insights: %s\n\n", demographicInsight)
	b.WriteString(`REQUIREMENTS FOR PREMIUM CONTENT:
- Write 400-600 words (2+ minute read)
- Create an engaging hook in the first paragraph
- Include 3-4 main sections with clear narrative flow
- Add specific details, statistics, or interesting facts
- Include quotes or expert opinions (you can create realistic ones)
- Discuss cultural impact and why this matters now
- End with forward-looking insights or predictions
- Write in an engaging, journalistic style
- Remove all markdown formatting and special characters
- Make it feel like premium magazine content

STRUCTURE:
1. Hook/Opening (why this matters right now)
2. Background/Context (what makes this significant)
3. Current Impact (how it's affecting culture/industry)
4. Audience Appeal (why people are drawn to this)
5. Future Outlook (what to expect next)

Write as if for a sophisticated audience who wants depth and insight, not just surface-level information.
Do not use markdown formatting, bullet points, or special characters in your response.
`)
	return b.String()
}

// LocationArticlePrompt builds the prompt for a location-focused article.
func LocationArticlePrompt(entity core.TrendEntity, category, location string) string {
	affinity := "N/A"
	if entity.AffinityScore > 0 {
		affinity = fmt.Sprintf("%.2f", entity.AffinityScore)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a comprehensive, location-focused newsletter article about %s in the %s category.\n\n", entity.Name, category)
	fmt.Fprintf(&b, "Entity Information:\n- Name: %s\n- Type: %s\n- Location Context: Popular in %s\n- Affinity Score: %s\n\n", entity.Name, entity.Type, location, affinity)
	fmt.Fprintf(&b, `REQUIREMENTS FOR PREMIUM LOCATION-BASED CONTENT:
- Write 400-600 words (2+ minute read)
- Focus heavily on local relevance and cultural context in %[1]s
- Include specific details about local popularity or impact
- Discuss how this fits into %[1]s's cultural landscape
- Add insights about regional preferences and trends
- Include local statistics or cultural references where relevant
- Write in an engaging, journalistic style
- Remove all markdown formatting and special characters

STRUCTURE:
1. Local Hook (why this is big in %[1]s right now)
2. Regional Context (how it fits into local culture)
3. Local Impact (specific effects in %[1]s)
4. Community Response (how locals are engaging)
5. Broader Implications (what this means for the region)

Write as premium content for readers interested in %[1]s's cultural scene.
Do not use markdown formatting, bullet points, or special characters.
`, location)
	return b.String()
}
