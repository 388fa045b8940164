package qloo

// Curated seed queries per category. The search endpoint needs concrete
// names to resolve entities, so each category keeps a broad pool and each
// run samples a handful for variety.

var artistQueries = []string{
	"Taylor Swift", "Drake", "Bad Bunny", "The Weeknd", "Billie Eilish",
	"Ariana Grande", "Post Malone", "Dua Lipa", "Harry Styles", "Olivia Rodrigo",
	"Kendrick Lamar", "Travis Scott", "Lil Baby", "Future", "21 Savage",
	"BTS", "BLACKPINK", "Rosalía", "Burna Boy", "Tems",
	"Phoebe Bridgers", "Clairo", "Mac Miller", "Tyler, The Creator", "Frank Ocean",
}

var movieQueries = []string{
	"Dune", "Spider-Man", "Avatar", "Top Gun Maverick", "Black Panther",
	"The Batman", "Doctor Strange", "Thor", "Jurassic World", "Fast X",
	"Everything Everywhere All at Once", "The Banshees of Inisherin", "Tar",
	"The Fabelmans", "Triangle of Sadness",
	"Scream", "The Black Phone", "Nope", "Barbarian", "Smile",
	"Parasite", "Minari", "Drive My Car", "The Handmaiden", "Burning",
}

var trendQueries = []string{
	"TikTok", "Instagram Reels", "YouTube Shorts", "BeReal", "Discord", "Twitch",
	"ChatGPT", "Artificial Intelligence", "Cryptocurrency", "Bitcoin",
	"Metaverse", "Virtual Reality", "Web3", "Tesla", "Apple",
	"Fortnite", "Minecraft", "Roblox", "Pokemon", "League of Legends",
	"Netflix", "Disney Plus", "Spotify", "Podcast", "Audiobooks",
	"Balenciaga", "Gucci", "Nike", "Streetwear", "Fashion Week",
	"Plant-based", "Bubble Tea", "Korean BBQ", "Ramen", "Sushi",
	"Yoga", "Pilates", "Meditation", "Mental Health", "Wellness",
	"Sustainability", "Climate Change", "Remote Work", "Digital Nomad",
	"Reality TV", "True Crime", "Documentary", "Stand-up Comedy",
	"Memes", "Internet Culture", "Creator Economy", "Influencer Marketing",
}

var bookQueries = []string{
	"Where the Crawdads Sing", "The Seven Husbands of Evelyn Hugo",
	"It Ends with Us", "The Silent Patient", "Gone Girl",
	"Atomic Habits", "Educated", "Becoming", "Sapiens",
	"Harry Potter", "Game of Thrones", "The Hunger Games", "Dune",
	"The Handmaid's Tale",
	"The Fault in Our Stars", "The Hate U Give",
	"Eleanor Oliphant Is Completely Fine",
	"Pride and Prejudice", "1984", "To Kill a Mockingbird",
	"The Great Gatsby", "Lord of the Rings",
}

var tvQueries = []string{
	"Stranger Things", "The Bear", "House of the Dragon", "Rings of Power",
	"Wednesday", "Euphoria", "The White Lotus", "Succession",
	"Love Island", "Survivor", "Big Brother", "RuPaul's Drag Race",
	"Squid Game", "Money Heist", "Dark", "Lupin", "Elite",
	"The Office", "Friends", "Brooklyn Nine-Nine", "Schitt's Creek",
	"Ted Lasso", "The Good Place", "Parks and Recreation",
}

// seedQueries returns the query pool and sample size for a category.
// Unknown categories use the broad trends pool.
func seedQueries(category string) ([]string, int) {
	switch category {
	case "artists":
		return artistQueries, 8
	case "movies":
		return movieQueries, 8
	case "books":
		return bookQueries, 8
	case "tv_shows":
		return tvQueries, 8
	case "trends":
		return trendQueries, 15
	default:
		return trendQueries, 15
	}
}
