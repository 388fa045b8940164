// Package categories normalizes subscriber category selections and carries
// per-category presentation metadata (labels, icons, artwork colors).
package categories

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"trendletter/internal/core"
)

// Set is a normalized category selection. Names is sorted and deduplicated;
// Key is the canonical comma-joined cache key derived from Names.
type Set struct {
	Names []string
	Key   string
}

// Normalize canonicalizes a raw category list: trims whitespace, drops
// empties, deduplicates and sorts. Two inputs with the same members in any
// order and multiplicity produce the same Set. An empty result is rejected
// with a field-level validation error.
func Normalize(raw []string) (Set, error) {
	seen := make(map[string]bool, len(raw))
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	if len(names) == 0 {
		return Set{}, core.NewValidationError("categories", "at least one category is required")
	}
	sort.Strings(names)
	return Set{Names: names, Key: strings.Join(names, ",")}, nil
}

// Metadata describes how a category is presented: directory label and icon,
// reader-facing display name, and artwork palette.
type Metadata struct {
	Name        string
	Label       string
	Icon        string
	DisplayName string

	// Artwork palette and copy for the generated card image.
	PrimaryColor   string
	SecondaryColor string
	BgColor        string
	AccentColor    string
	ArtIcon        string
	ArtLabel       string
	ArtSubtitle    string
}

var metadataByName = map[string]Metadata{
	"artists": {
		Name: "artists", Label: "Artists & Musicians", Icon: "🎵",
		DisplayName:  "Music & Artists",
		PrimaryColor: "#EC4899", SecondaryColor: "#F97316",
		BgColor: "#FDF2F8", AccentColor: "#BE185D",
		ArtIcon: "♪", ArtLabel: "MUSIC", ArtSubtitle: "Trending Sounds",
	},
	"trends": {
		Name: "trends", Label: "Cultural Trends", Icon: "📈",
		DisplayName:  "Global Trends",
		PrimaryColor: "#10B981", SecondaryColor: "#06B6D4",
		BgColor: "#ECFDF5", AccentColor: "#059669",
		ArtIcon: "📈", ArtLabel: "TRENDS", ArtSubtitle: "What's Hot Now",
	},
	"movies": {
		Name: "movies", Label: "Movies & TV", Icon: "🎬",
		DisplayName:  "Cinema & Film",
		PrimaryColor: "#7C3AED", SecondaryColor: "#EC4899",
		BgColor: "#F5F3FF", AccentColor: "#5B21B6",
		ArtIcon: "🎬", ArtLabel: "MOVIES", ArtSubtitle: "Box Office Hits",
	},
	"books": {
		Name: "books", Label: "Books & Literature", Icon: "📚",
		DisplayName:  "Literature & Books",
		PrimaryColor: "#DC2626", SecondaryColor: "#EA580C",
		BgColor: "#FEF2F2", AccentColor: "#B91C1C",
		ArtIcon: "📚", ArtLabel: "BOOKS", ArtSubtitle: "Must-Read Stories",
	},
	"tv_shows": {
		Name: "tv_shows", Label: "Television & Streaming", Icon: "📺",
		DisplayName:  "Television & Streaming",
		PrimaryColor: "#059669", SecondaryColor: "#0891B2",
		BgColor: "#ECFDF5", AccentColor: "#047857",
		ArtIcon: "📺", ArtLabel: "TV", ArtSubtitle: "Binge-Worthy Series",
	},
}

var defaultMetadata = Metadata{
	DisplayName:  "Culture",
	PrimaryColor: "#6366F1", SecondaryColor: "#8B5CF6",
	BgColor: "#F8FAFC", AccentColor: "#4F46E5",
	ArtIcon: "✨", ArtLabel: "CONTENT", ArtSubtitle: "Premium Insights",
}

// Lookup returns the metadata for a category name. Unknown categories get a
// generic palette and a capitalized display name so rendering never fails.
func Lookup(name string) Metadata {
	if m, ok := metadataByName[strings.ToLower(name)]; ok {
		return m
	}
	m := defaultMetadata
	m.Name = name
	m.Label = capitalize(name)
	m.DisplayName = capitalize(name)
	return m
}

// DisplayName returns the reader-facing name for a category.
func DisplayName(name string) string {
	return Lookup(name).DisplayName
}

// Seeds returns the catalog of built-in categories for seeding the store.
func Seeds() []core.Category {
	names := []string{"artists", "trends", "movies", "books", "tv_shows"}
	cats := make([]core.Category, 0, len(names))
	for _, n := range names {
		m := metadataByName[n]
		cats = append(cats, core.Category{Name: m.Name, Label: m.Label, Icon: m.Icon})
	}
	return cats
}

// ImageRef renders the category card as an SVG data URL. The output depends
// only on the category metadata, so the same category always yields the same
// image and rendering cannot fail.
func (m Metadata) ImageRef() string {
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="600" height="400" viewBox="0 0 600 400">
  <defs>
    <linearGradient id="bg" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
      <stop offset="0%%" style="stop-color:%s;stop-opacity:1"/>
      <stop offset="100%%" style="stop-color:%s;stop-opacity:0.1"/>
    </linearGradient>
    <linearGradient id="accent" x1="0%%" y1="0%%" x2="100%%" y2="0%%">
      <stop offset="0%%" style="stop-color:%s;stop-opacity:1"/>
      <stop offset="100%%" style="stop-color:%s;stop-opacity:1"/>
    </linearGradient>
  </defs>
  <rect width="600" height="400" fill="url(#bg)"/>
  <circle cx="300" cy="160" r="56" fill="%s" opacity="0.15"/>
  <text x="300" y="180" text-anchor="middle" font-family="Arial, sans-serif" font-size="52">%s</text>
  <text x="300" y="250" text-anchor="middle" font-family="Arial, sans-serif" font-size="24" font-weight="700" fill="%s">%s</text>
  <text x="300" y="275" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" fill="%s">%s</text>
  <rect x="230" y="290" width="140" height="20" rx="10" fill="%s" opacity="0.1"/>
  <text x="300" y="303" text-anchor="middle" font-family="Arial, sans-serif" font-size="10" font-weight="600" fill="%s">PREMIUM CONTENT</text>
  <rect x="0" y="390" width="600" height="10" fill="url(#accent)" opacity="0.8"/>
</svg>`,
		m.BgColor, m.PrimaryColor,
		m.PrimaryColor, m.SecondaryColor,
		m.PrimaryColor, m.ArtIcon,
		m.AccentColor, m.ArtLabel,
		m.AccentColor, m.ArtSubtitle,
		m.PrimaryColor, m.AccentColor)
	return "data:image/svg+xml," + url.PathEscape(svg)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
