// Package generator assembles newsletter articles from trend data and AI
// text generation. Every failure in the live path degrades to a static
// fallback article for that category only, so generation as a whole never
// fails.
package generator

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"trendletter/internal/categories"
	"trendletter/internal/core"
	"trendletter/internal/fallback"
	"trendletter/internal/llm"
	"trendletter/internal/logger"
)

const (
	// MaxCategories caps how many categories one newsletter covers.
	MaxCategories = 3
	// TrendingThreshold is the affinity score above which an article is
	// flagged trending.
	TrendingThreshold = 0.7
	// WordsPerMinute is the assumed reading speed for read-time labels.
	WordsPerMinute = 200
	// MinReadMinutes is the floor for the read-time label.
	MinReadMinutes = 2
	// ExcerptLength bounds the sentence-boundary excerpt.
	ExcerptLength = 150
	// recommendationLimit caps personalized entity lookups.
	recommendationLimit = 10
)

// TrendSource supplies candidate entities and audience signals.
type TrendSource interface {
	TrendingByCategory(ctx context.Context, category string, prefs *core.Preferences) ([]core.TrendEntity, error)
	Recommendations(ctx context.Context, category string, prefs *core.Preferences, limit int) ([]core.TrendEntity, error)
	Demographics(ctx context.Context, entityID string) ([]core.Demographic, error)
}

// ArticleWriter turns a prompt into article text.
type ArticleWriter interface {
	GenerateArticleText(ctx context.Context, prompt string) (string, error)
}

// Pipeline generates newsletter content.
type Pipeline struct {
	trends TrendSource
	writer ArticleWriter
}

// NewPipeline wires a content pipeline from its collaborators.
func NewPipeline(trends TrendSource, writer ArticleWriter) *Pipeline {
	return &Pipeline{trends: trends, writer: writer}
}

// Request describes one generation run. Categories should already be
// normalized; Preferences is optional.
type Request struct {
	Categories  []string
	Preferences *core.Preferences
}

// GenerateArticles produces one article per category, capped at
// MaxCategories, in category order. It never returns an error: any live-path
// failure yields the category's fallback article instead.
func (p *Pipeline) GenerateArticles(ctx context.Context, req Request) []core.Article {
	cats := req.Categories
	if len(cats) > MaxCategories {
		cats = cats[:MaxCategories]
	}

	articles := make([]core.Article, 0, len(cats))
	for _, category := range cats {
		article, err := p.generateLive(ctx, category, req.Preferences)
		if err != nil {
			logger.Warn("Live article generation failed, using fallback", "category", category, "error", err.Error())
			article = decorate(fallback.Article(category, nil), category)
		}
		articles = append(articles, article)
	}
	return articles
}

func (p *Pipeline) generateLive(ctx context.Context, category string, prefs *core.Preferences) (core.Article, error) {
	entities, err := p.lookupEntities(ctx, category, prefs)
	if err != nil {
		return core.Article{}, err
	}
	if len(entities) == 0 {
		return core.Article{}, fmt.Errorf("no entities for %s", category)
	}

	entity := pickTopEntity(entities)

	insight := broadAudienceInsight
	if demos, err := p.trends.Demographics(ctx, entity.ID); err != nil {
		logger.Debug("Demographics lookup failed", "entity", entity.Name, "error", err.Error())
	} else {
		insight = SummarizeDemographics(demos)
	}

	prompt := llm.ArticlePrompt(entity, category, insight)
	if prefs != nil && prefs.Location != "" {
		prompt = llm.LocationArticlePrompt(entity, category, prefs.Location)
	}
	text, err := p.writer.GenerateArticleText(ctx, prompt)
	if err != nil {
		return core.Article{}, fmt.Errorf("article generation: %w", err)
	}

	body := CleanContent(text)
	article := core.Article{
		Title:              PremiumTitle(entity.Name, category, entity.AffinityScore),
		Body:               body,
		Category:           categories.DisplayName(category),
		Trending:           entity.AffinityScore > TrendingThreshold,
		AffinityScore:      entity.AffinityScore,
		DemographicSummary: insight,
		SourceEntity:       entity,
		Tags:               fallback.Tags(category),
	}
	return decorate(article, category), nil
}

// lookupEntities resolves the candidate pool for a category. Preferences
// carrying interest, tag or demographic signals switch the lookup to the
// personalized recommendations endpoint; otherwise (and for a plain location
// signal) the trending path is used, which biases its enhancement step by
// location.
func (p *Pipeline) lookupEntities(ctx context.Context, category string, prefs *core.Preferences) ([]core.TrendEntity, error) {
	if personalized(prefs) {
		entities, err := p.trends.Recommendations(ctx, category, prefs, recommendationLimit)
		if err != nil {
			return nil, fmt.Errorf("recommendations lookup: %w", err)
		}
		if len(entities) == 0 {
			return nil, fmt.Errorf("no personalized entities for %s", category)
		}
		return entities, nil
	}

	entities, err := p.trends.TrendingByCategory(ctx, category, prefs)
	if err != nil {
		return nil, fmt.Errorf("trending lookup: %w", err)
	}
	return entities, nil
}

func personalized(prefs *core.Preferences) bool {
	return prefs != nil &&
		(len(prefs.Interests) > 0 || len(prefs.Tags) > 0 || len(prefs.Demographics) > 0)
}

// decorate fills the derived presentation fields shared by live and fallback
// articles.
func decorate(article core.Article, category string) core.Article {
	article.Excerpt = Excerpt(article.Body)
	article.ReadTime = ReadTimeLabel(article.Body)
	article.ImageRef = categories.Lookup(category).ImageRef()
	return article
}

// pickTopEntity returns the entity with the highest affinity score; ties
// keep the earlier entity.
func pickTopEntity(entities []core.TrendEntity) core.TrendEntity {
	sorted := make([]core.TrendEntity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AffinityScore > sorted[j].AffinityScore
	})
	return sorted[0]
}

const broadAudienceInsight = "Appeals to a broad, diverse audience across multiple demographics and cultural segments."

// SummarizeDemographics condenses audience signals into one sentence for
// prompts and article metadata. Empty or unusable input degrades to the
// broad-audience text.
func SummarizeDemographics(demos []core.Demographic) string {
	named := make([]core.Demographic, 0, len(demos))
	for _, d := range demos {
		if d.Name != "" {
			named = append(named, d)
		}
	}
	if len(named) == 0 {
		return broadAudienceInsight
	}

	sort.SliceStable(named, func(i, j int) bool {
		return named[i].AffinityScore > named[j].AffinityScore
	})
	if len(named) > 3 {
		named = named[:3]
	}

	parts := make([]string, 0, len(named))
	for _, d := range named {
		parts = append(parts, fmt.Sprintf("%s (%d%% affinity)", d.Name, int(math.Round(d.AffinityScore*100))))
	}
	return fmt.Sprintf("Particularly resonates with: %s. This broad appeal demonstrates its cross-cultural significance.", strings.Join(parts, ", "))
}

var (
	markupChars    = regexp.MustCompile(`[#"*]`)
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
)

// CleanContent strips stray markup characters from generated text and
// normalizes paragraph breaks to exactly one blank line.
func CleanContent(content string) string {
	content = markupChars.ReplaceAllString(content, "")
	content = paragraphBreak.ReplaceAllString(content, "\n")
	content = strings.ReplaceAll(content, "\n", "\n\n")
	return strings.TrimSpace(content)
}

// Excerpt returns the first two sentences, truncated with an ellipsis when
// they run past ExcerptLength characters.
func Excerpt(content string) string {
	sentences := strings.SplitN(content, ". ", 3)
	n := 2
	if len(sentences) < n {
		n = len(sentences)
	}
	excerpt := strings.Join(sentences[:n], ". ")
	if len(excerpt) > ExcerptLength {
		cut := ExcerptLength - 3
		for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
			cut--
		}
		return excerpt[:cut] + "..."
	}
	return excerpt + "."
}

// ReadTimeLabel estimates reading time at WordsPerMinute with a floor of
// MinReadMinutes.
func ReadTimeLabel(content string) string {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < MinReadMinutes {
		minutes = MinReadMinutes
	}
	return fmt.Sprintf("%d min read", minutes)
}

// NewsletterTitle builds the issue title for a category set and week.
func NewsletterTitle(cats []string, weekOf time.Time) string {
	weekStr := weekOf.Format("Jan 2")
	categoryStr := fmt.Sprintf("%d Categories", len(cats))
	if len(cats) == 1 {
		categoryStr = categories.DisplayName(cats[0])
	}
	return fmt.Sprintf("🎵 %s Trends - Week of %s", categoryStr, weekStr)
}

// NewsletterSubtitle builds the issue subtitle from the category display
// names.
func NewsletterSubtitle(cats []string) string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, categories.DisplayName(c))
	}
	return "Latest insights in " + strings.Join(names, ", ")
}

var premiumTitleTemplates = map[string][]string{
	"artists": {
		"%s: The Cultural Phenomenon Reshaping Music",
		"Inside %s's Rise to Global Stardom",
		"How %s is Redefining Modern Entertainment",
		"%s: The Artist Everyone's Talking About",
	},
	"movies": {
		"%s: The Film That's Captivating Global Audiences",
		"Why %s Represents Cinema's New Direction",
		"%s: A Cultural Moment in Modern Film",
		"The %s Phenomenon: What It Means for Hollywood",
	},
	"trends": {
		"The %s Revolution: Understanding Today's Digital Culture",
		"%s: How One Trend is Shaping Global Conversations",
		"Inside the %s Movement That's Changing Everything",
		"%s: The Cultural Shift You Need to Understand",
	},
	"books": {
		"%s: The Literary Sensation Captivating Readers Worldwide",
		"Why %s is More Than Just a Bestseller",
		"%s: The Book That's Redefining Modern Literature",
		"Inside the %s Phenomenon That's Changing Publishing",
	},
	"tv_shows": {
		"%s: The Series That's Redefining Television Excellence",
		"Why %s Represents the Future of Streaming Content",
		"%s: The Show Everyone's Binge-Watching Right Now",
		"Inside %s: The Series That's Breaking All the Rules",
	},
}

var standardTitleTemplates = map[string][]string{
	"artists": {
		"%s: The Sound of Tomorrow",
		"Spotlight: %s's Cultural Impact",
		"%s: Redefining Modern Music",
		"The %s Phenomenon Explained",
	},
	"trends": {
		"Understanding the %s Movement",
		"%s: The Trend Shaping Our Digital Future",
		"Inside the %s Cultural Shift",
		"Why %s Matters Right Now",
	},
	"movies": {
		"%s: Cinema's Latest Masterpiece",
		"The Cultural Impact of %s",
		"%s: Why Everyone's Talking About This Film",
		"Inside %s: A Cinematic Revolution",
	},
	"books": {
		"%s: The Literary Sensation Explained",
		"Why %s is Captivating Readers Worldwide",
		"%s: More Than Just a Bestseller",
		"The Cultural Phenomenon of %s",
	},
	"tv_shows": {
		"%s: The Series Everyone's Watching",
		"Inside %s: Television's Latest Hit",
		"%s: Why This Show is Breaking Records",
		"The Cultural Impact of %s",
	},
}

// PremiumTitle picks an article title for the entity. High-affinity entities
// get the premium variants. Template choice is derived from the entity name
// so the same entity always titles the same way.
func PremiumTitle(name, category string, affinityScore float64) string {
	templates := standardTitleTemplates[category]
	if affinityScore > 0.8 {
		templates = premiumTitleTemplates[category]
		if templates == nil {
			templates = premiumTitleTemplates["trends"]
		}
	}
	if templates == nil {
		templates = standardTitleTemplates["trends"]
	}
	return fmt.Sprintf(templates[len(name)%len(templates)], name)
}
