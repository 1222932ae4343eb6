package news

// Article is a bundled blog post.
type Article struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Source      string `json:"source"`
	Author      string `json:"author"`
	ReadMinutes int    `json:"read_minutes"`
}

// RelatedCount is how many related articles Related returns at most.
const RelatedCount = 3

var articles = []Article{
	{
		ID:          1,
		Title:       "Attack on Titan Final Season Part 3 Announced",
		Excerpt:     "The epic saga continues with the announcement of Attack on Titan Final Season Part 3, bringing the story to its climactic conclusion.",
		Content:     "The highly anticipated conclusion to the Attack on Titan anime series has been officially announced. MAPPA studio revealed that Attack on Titan Final Season Part 3 will premiere in 2024, bringing Hajime Isayama's groundbreaking manga to its epic finale.",
		Date:        "2024-01-15",
		Category:    CategoryAnnouncements,
		Image:       "https://cdn.myanimelist.net/images/anime/1948/120625.jpg",
		Source:      "Official Website",
		Author:      "Editorial Team",
		ReadMinutes: 3,
	},
	{
		ID:          2,
		Title:       "Demon Slayer Movie Breaks Box Office Records",
		Excerpt:     "The latest Demon Slayer movie has shattered box office records worldwide, becoming the highest-grossing anime film of the year.",
		Content:     "The latest installment in the Demon Slayer franchise has achieved unprecedented success at the global box office, solidifying its position as one of the most commercially successful anime properties of all time.",
		Date:        "2024-01-14",
		Category:    CategoryBoxOffice,
		Image:       "https://cdn.myanimelist.net/images/anime/1286/99889.jpg",
		Source:      "Anime News Network",
		Author:      "Box Office Reporter",
		ReadMinutes: 5,
	},
	{
		ID:          3,
		Title:       "My Hero Academia Season 7 Release Date Revealed",
		Excerpt:     "Fans rejoice as the official release date for My Hero Academia Season 7 has been announced for Spring 2024.",
		Content:     "Bones Studio has officially announced that My Hero Academia Season 7 will premiere in Spring 2024, continuing the beloved superhero anime series that has captured audiences worldwide.",
		Date:        "2024-01-13",
		Category:    CategoryReleases,
		Image:       "https://cdn.myanimelist.net/images/anime/1965/111417.jpg",
		Source:      "Crunchyroll",
		Author:      "Series Reporter",
		ReadMinutes: 4,
	},
	{
		ID:          4,
		Title:       "Jujutsu Kaisen Announces New Movie Project",
		Excerpt:     "MAPPA studio confirms a new Jujutsu Kaisen movie is in production, featuring an original story by Gege Akutami.",
		Content:     "MAPPA studio has officially confirmed that a new Jujutsu Kaisen movie is in production, marking the franchise's return to theaters following the massive success of \"Jujutsu Kaisen 0.\"",
		Date:        "2024-01-12",
		Category:    CategoryAnnouncements,
		Image:       "https://cdn.myanimelist.net/images/anime/1171/109222.jpg",
		Source:      "Official Twitter",
		Author:      "Editorial Team",
		ReadMinutes: 3,
	},
	{
		ID:          5,
		Title:       "Chainsaw Man Season 2 in Development",
		Excerpt:     "MAPPA confirms that Chainsaw Man Season 2 is officially in production, with more details to be revealed soon.",
		Content:     "MAPPA studio has officially confirmed that Chainsaw Man Season 2 is in production, bringing relief and excitement to fans who have eagerly awaited news about the anime's continuation.",
		Date:        "2024-01-11",
		Category:    CategoryProduction,
		Image:       "https://cdn.myanimelist.net/images/anime/1806/126216.jpg",
		Source:      "Anime Expo",
		Author:      "Production Reporter",
		ReadMinutes: 4,
	},
	{
		ID:          6,
		Title:       "Spy x Family Code: White Movie Premieres Globally",
		Excerpt:     "The highly anticipated Spy x Family movie premieres worldwide, featuring the Forger family in a new adventure.",
		Content:     "The Spy x Family: Code White movie has premiered globally to enthusiastic audiences, marking the franchise's successful transition from television to theatrical releases.",
		Date:        "2024-01-10",
		Category:    CategoryReleases,
		Image:       "https://cdn.myanimelist.net/images/anime/1111/127508.jpg",
		Source:      "Official Site",
		Author:      "Film Critic",
		ReadMinutes: 5,
	},
	{
		ID:          7,
		Title:       "One Piece Reaches Episode 1100 Milestone",
		Excerpt:     "One Piece anime reaches a historic milestone with episode 1100, celebrating over two decades of adventure.",
		Content:     "The One Piece anime has achieved a remarkable milestone with the airing of episode 1100, cementing its place as one of the longest-running and most successful anime series in history.",
		Date:        "2024-01-09",
		Category:    CategoryMilestones,
		Image:       "https://cdn.myanimelist.net/images/anime/6/73245.jpg",
		Source:      "Toei Animation",
		Author:      "Anime Historian",
		ReadMinutes: 3,
	},
	{
		ID:          8,
		Title:       "Tokyo Revengers Final Season Trailer Released",
		Excerpt:     "The final season of Tokyo Revengers gets an epic trailer showcasing the climactic battle.",
		Content:     "The official trailer for Tokyo Revengers' final season has been released, giving fans their first look at the adaptation of the manga's climactic arcs.",
		Date:        "2024-01-08",
		Category:    CategoryTrailers,
		Image:       "https://cdn.myanimelist.net/images/anime/1839/122012.jpg",
		Source:      "YouTube",
		Author:      "Trailer Analysis",
		ReadMinutes: 2,
	},
	{
		ID:          9,
		Title:       "Vinland Saga Season 3 Confirmed for 2025",
		Excerpt:     "MAPPA announces Vinland Saga Season 3 is confirmed for 2025, continuing Thorfinn's journey.",
		Content:     "MAPPA studio has officially confirmed that Vinland Saga Season 3 is in production and scheduled for release in 2025, continuing the critically acclaimed historical epic.",
		Date:        "2024-01-07",
		Category:    CategoryAnnouncements,
		Image:       "https://cdn.myanimelist.net/images/anime/1170/124312.jpg",
		Source:      "Official Press Release",
		Author:      "Series Analyst",
		ReadMinutes: 4,
	},
	{
		ID:          10,
		Title:       "Studio Ghibli Announces New Film Project",
		Excerpt:     "Studio Ghibli reveals a new original film in development, directed by Hayao Miyazaki's protégé.",
		Content:     "Studio Ghibli has announced a new original film project, marking another chapter in the legendary studio's storied history of animated features.",
		Date:        "2024-01-06",
		Category:    CategoryProduction,
		Image:       "https://cdn.myanimelist.net/images/anime/1439/93004.jpg",
		Source:      "Ghibli Museum",
		Author:      "Industry Analyst",
		ReadMinutes: 5,
	},
	{
		ID:          11,
		Title:       "Bleach: Thousand-Year Blood War Part 3 Details",
		Excerpt:     "New details emerge about Bleach TYBW Part 3, including premiere date and key visual reveals.",
		Content:     "Studio Pierrot has released comprehensive details about Bleach: Thousand-Year Blood War Part 3, including premiere date, episode count, and stunning new key visuals.",
		Date:        "2024-01-05",
		Category:    CategoryReleases,
		Image:       "https://cdn.myanimelist.net/images/anime/1764/126627.jpg",
		Source:      "Crunchyroll Expo",
		Author:      "Franchise Reporter",
		ReadMinutes: 4,
	},
	{
		ID:          12,
		Title:       "Frieren: Beyond Journey's End Wins Anime Awards",
		Excerpt:     "Frieren dominates this year's anime awards, winning Best Animation and Best Story categories.",
		Content:     "Frieren: Beyond Journey's End dominated this year's major anime awards, winning multiple categories including Best Animation, Best Story, and Anime of the Year.",
		Date:        "2024-01-04",
		Category:    CategoryAwards,
		Image:       "https://cdn.myanimelist.net/images/anime/1015/138006.jpg",
		Source:      "Anime Awards",
		Author:      "Awards Coverage",
		ReadMinutes: 6,
	},
}

// Articles returns all bundled articles, newest first.
func Articles() []Article {
	return append([]Article(nil), articles...)
}

// ArticlesIn returns the bundled articles of a category. "All" and "" keep everything.
func ArticlesIn(category string) []Article {
	if category == "" || category == CategoryAll {
		return Articles()
	}
	var out []Article
	for _, a := range articles {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// FindArticle looks up a bundled article by id.
func FindArticle(id int) (Article, bool) {
	for _, a := range articles {
		if a.ID == id {
			return a, true
		}
	}
	return Article{}, false
}

// Related returns up to RelatedCount other articles sharing id's category.
func Related(id int) []Article {
	current, ok := FindArticle(id)
	if !ok {
		return nil
	}
	var out []Article
	for _, a := range articles {
		if a.ID != id && a.Category == current.Category {
			out = append(out, a)
			if len(out) == RelatedCount {
				break
			}
		}
	}
	return out
}
