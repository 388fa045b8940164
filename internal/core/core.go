package core

import "time"

// User is a newsletter subscriber, keyed by unique email.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category is a content category a user can subscribe to. Categories are
// created lazily on first reference (upsert by unique name).
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// TrendEntity is a candidate subject returned by the trend-data service.
type TrendEntity struct {
	ID            string  `json:"entity_id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Description   string  `json:"description,omitempty"`
	AffinityScore float64 `json:"affinity_score,omitempty"`
}

// Demographic is an audience-affinity signal for a trend entity.
type Demographic struct {
	ID            string  `json:"demographic_id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	AffinityScore float64 `json:"affinity_score"`
}

// Preferences carries optional personalization signals for trend lookups.
type Preferences struct {
	Location     string   `json:"location,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Demographics []string `json:"demographics,omitempty"`
}

// Article is one generated (or fallback) piece of a newsletter. Articles are
// value objects embedded in the newsletter row, not independently addressable.
type Article struct {
	Title              string      `json:"title"`
	Body               string      `json:"body"`
	Category           string      `json:"category"`
	Excerpt            string      `json:"excerpt"`
	Tags               []string    `json:"tags"`
	Trending           bool        `json:"trending"`
	ReadTime           string      `json:"read_time"`
	AffinityScore      float64     `json:"affinity_score,omitempty"`
	DemographicSummary string      `json:"demographic_insights,omitempty"`
	ImageRef           string      `json:"image_url,omitempty"`
	SourceEntity       TrendEntity `json:"source_data"`
}

// Newsletter is the cached digest for one (week, category set) pair.
// Content is frozen at creation; later subscribers receive the same issue.
type Newsletter struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	WeekOf      time.Time `json:"week_of"`
	CategoryKey string    `json:"category_key"`
	Categories  []string  `json:"categories"`
	Articles    []Article `json:"articles"`
	HTMLContent string    `json:"html_content"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeliveryRecord marks one newsletter as sent to one user. Unique on
// (UserID, NewsletterID); a resend only refreshes SentAt.
type DeliveryRecord struct {
	UserID       string    `json:"user_id"`
	NewsletterID string    `json:"newsletter_id"`
	SentAt       time.Time `json:"sent_at"`
}
