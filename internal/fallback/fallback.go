// Package fallback provides static per-category articles used whenever the
// live generation path fails. Content here must never be empty: it is the
// last line of defense that keeps a newsletter publishable.
package fallback

import (
	"trendletter/internal/categories"
	"trendletter/internal/core"
)

type staticArticle struct {
	title string
	body  string
}

var articlesByCategory = map[string]staticArticle{
	"artists": {
		title: "The Evolution of Music in the Digital Age",
		body: `The music industry continues to undergo unprecedented transformation as digital platforms reshape how artists connect with audiences worldwide. Streaming services have democratized music discovery, allowing independent artists to reach global audiences without traditional gatekeepers. This shift has created new opportunities for diverse voices and genres to flourish.

Social media platforms like TikTok have become the new radio, with 15-second clips determining which songs become viral hits. Artists now craft their music with these platforms in mind, creating hooks designed for maximum shareability. The result is a more dynamic, fast-paced music landscape where trends can emerge and evolve within days rather than months.

The rise of playlist culture has also changed how we consume music. Curated playlists for every mood, activity, and moment have replaced traditional album listening experiences. This has influenced how artists structure their releases, with many opting for frequent single drops rather than full album cycles.

Looking ahead, emerging technologies like AI-generated music and virtual concerts are poised to further revolutionize the industry. As artists continue to adapt to these changes, we can expect even more innovative approaches to music creation and distribution in the coming years.`,
	},
	"trends": {
		title: "Digital Culture Shapes Tomorrow's World",
		body: `We are witnessing a fundamental shift in how global culture is created, shared, and consumed. Digital platforms have become the primary drivers of cultural trends, with social media algorithms determining what captures collective attention. This democratization of influence has given rise to new forms of creativity and expression that transcend traditional boundaries.

The creator economy has emerged as a significant force, with individuals building personal brands and businesses around their unique perspectives and talents. This shift represents more than just new career paths; it reflects a broader change in how we value authenticity and personal connection in an increasingly digital world.

Viral phenomena now spread across continents in hours, creating shared global experiences that unite diverse communities around common interests. From dance challenges to social movements, digital culture has proven its power to mobilize and inspire action on unprecedented scales.

The intersection of technology and culture continues to evolve, with emerging platforms and tools constantly reshaping how we interact and express ourselves. As we move forward, understanding these digital cultural currents becomes essential for anyone seeking to navigate our interconnected world.`,
	},
	"movies": {
		title: "Cinema's Renaissance in the Streaming Era",
		body: `The film industry is experiencing a remarkable renaissance as streaming platforms invest billions in original content, creating unprecedented opportunities for diverse storytelling. This shift has democratized film distribution, allowing independent filmmakers and international cinema to reach global audiences without traditional theatrical gatekeepers.

Streaming services have also changed audience expectations, with viewers now accustomed to binge-watching entire series and having instant access to vast libraries of content. This has influenced how filmmakers approach storytelling, with many embracing serialized narratives and experimental formats that wouldn't have been viable in traditional cinema.

The pandemic accelerated these changes, forcing the industry to reimagine release strategies and production methods. Simultaneous streaming and theatrical releases became the norm, while virtual film festivals opened new avenues for discovery and distribution.

International content has found unprecedented success on global platforms, with non-English films and series achieving mainstream popularity. This cultural exchange has enriched the global entertainment landscape and created new opportunities for cross-cultural collaboration and understanding.`,
	},
	"books": {
		title: "The Literary Landscape in Digital Times",
		body: `The publishing world is undergoing a digital transformation that's reshaping how we discover, consume, and discuss literature. Social media platforms like BookTok have become powerful forces in book marketing, with young readers driving bestseller lists through viral recommendations and creative content.

E-books and audiobooks have expanded access to literature, making reading more convenient and accessible than ever before. The rise of audiobook popularity has also created new opportunities for authors and narrators, with some books specifically designed for audio consumption.

Self-publishing platforms have democratized the publishing process, allowing authors to reach readers directly without traditional gatekeepers. This has led to more diverse voices and genres finding their audiences, particularly in romance, fantasy, and other genre fiction categories.

Book clubs and reading communities have flourished online, creating global conversations around literature that transcend geographical boundaries. These digital communities have become influential in shaping reading trends and supporting both established and emerging authors.`,
	},
	"tv_shows": {
		title: "Television's Golden Age Continues to Evolve",
		body: `We are living through an unprecedented era of television excellence, with streaming platforms and traditional networks investing heavily in high-quality, diverse programming. This golden age has been characterized by complex narratives, cinematic production values, and bold creative risks that have elevated television to new artistic heights.

The proliferation of streaming services has created intense competition for viewer attention, resulting in increased investment in original programming and talent. This has led to more opportunities for underrepresented voices and experimental storytelling formats that might not have found homes in traditional television.

International content has gained remarkable traction on global platforms, with series from Korea, Spain, Germany, and other countries achieving worldwide success. This cultural exchange has enriched the global television landscape and demonstrated the universal appeal of compelling storytelling.

The binge-watching phenomenon has fundamentally changed how series are structured and consumed, with creators now able to craft longer narrative arcs and more complex character development. This shift has blurred the lines between television and cinema, creating new hybrid forms of entertainment.`,
	},
}

// Article returns the static article for a category. Unknown categories get
// the broad trends article, so the result is always non-empty. The entity may
// be nil when the failure happened before any trend lookup succeeded.
func Article(category string, entity *core.TrendEntity) core.Article {
	content, ok := articlesByCategory[category]
	if !ok {
		content = articlesByCategory["trends"]
	}

	source := core.TrendEntity{
		ID:   "fallback-" + category,
		Name: content.title,
		Type: category,
	}
	if entity != nil {
		source = *entity
	}

	return core.Article{
		Title:        content.title,
		Body:         content.body,
		Category:     categories.DisplayName(category),
		Trending:     true,
		SourceEntity: source,
		Tags:         Tags(category),
	}
}

// Tags returns the tag list for a category, shared with live articles.
func Tags(category string) []string {
	base := []string{category, "trending", "culture"}
	switch category {
	case "artists":
		return append(base, "music", "entertainment", "streaming")
	case "trends":
		return append(base, "social media", "digital culture", "viral")
	case "movies":
		return append(base, "cinema", "film", "entertainment")
	case "books":
		return append(base, "literature", "reading", "publishing")
	case "tv_shows":
		return append(base, "television", "streaming", "series")
	default:
		return base
	}
}
