package fallback

import (
	"fmt"
	"sort"

	"github.com/Sternrassler/jikan-client/pkg/catalog"
)

const imageBase = "https://cdn.myanimelist.net/images/anime/"

// seed is the compact form of a bundled entry.
type seed struct {
	id       int
	title    string
	english  string
	japanese string
	image    string // "<dir>/<file>" below imageBase
	kind     string
	score    float64
	episodes int
	year     int
	status   catalog.Status
	rank     int
	synopsis string
	genres   []int
}

func (s seed) entry() catalog.Entry {
	score := s.score
	episodes := s.episodes

	genres := make([]catalog.Genre, 0, len(s.genres))
	for _, id := range s.genres {
		name := fmt.Sprintf("Genre %d", id)
		if info, ok := catalog.GenreByID(id); ok {
			name = info.Name
		}
		genres = append(genres, catalog.Genre{ID: id, Name: name})
	}

	kind := s.kind
	if kind == "" {
		kind = "TV"
	}
	status := s.status
	if status == "" {
		status = catalog.StatusFinished
	}

	return catalog.Entry{
		ID:            s.id,
		URL:           fmt.Sprintf("https://myanimelist.net/anime/%d", s.id),
		Title:         s.title,
		TitleEnglish:  s.english,
		TitleJapanese: s.japanese,
		Synopsis:      s.synopsis,
		Images: catalog.Images{
			JPG: catalog.ImageURLs{
				ImageURL:      imageBase + s.image + ".jpg",
				SmallImageURL: imageBase + s.image + "t.jpg",
				LargeImageURL: imageBase + s.image + "l.jpg",
			},
			WebP: catalog.ImageURLs{
				ImageURL:      imageBase + s.image + ".webp",
				SmallImageURL: imageBase + s.image + "t.webp",
				LargeImageURL: imageBase + s.image + ".webp",
			},
		},
		Type:     kind,
		Score:    &score,
		Episodes: &episodes,
		Status:   status,
		Year:     s.year,
		Rank:     s.rank,
		Genres:   catalog.UniqueGenres(genres),
	}
}

func build(seeds []seed) []catalog.Entry {
	out := make([]catalog.Entry, len(seeds))
	for i, s := range seeds {
		out[i] = s.entry()
	}
	return out
}

var (
	fallbackAnime = build([]seed{
		{id: 5114, title: "Fullmetal Alchemist: Brotherhood", english: "Fullmetal Alchemist: Brotherhood", japanese: "鋼の錬金術師 FULLMETAL ALCHEMIST",
			image: "1208/94745", score: 9.09, episodes: 64, year: 2009, rank: 1, genres: []int{1, 2, 8, 10},
			synopsis: "After a horrific alchemy experiment goes wrong, brothers Edward and Alphonse Elric are left in a catastrophic new reality..."},
		{id: 16498, title: "Shingeki no Kyojin", english: "Attack on Titan", japanese: "進撃の巨人",
			image: "10/47347", score: 8.55, episodes: 25, year: 2013, rank: 5, genres: []int{1, 8, 10},
			synopsis: "Centuries ago, mankind was slaughtered to near extinction by monstrous humanoid creatures called Titans..."},
		{id: 9253, title: "Steins;Gate", english: "Steins;Gate", japanese: "STEINS;GATE",
			image: "5/73199", score: 9.07, episodes: 24, year: 2011, rank: 2, genres: []int{8, 24, 41},
			synopsis: "A self-proclaimed mad scientist rents out a room in Akihabara to perform experiments involving time travel..."},
		{id: 38524, title: "Shingeki no Kyojin Season 3 Part 2", english: "Attack on Titan Season 3 Part 2", japanese: "進撃の巨人 Season3 Part.2",
			image: "1517/100633", score: 9.05, episodes: 10, year: 2019, rank: 3, genres: []int{1, 8},
			synopsis: "Seeking to restore humanity's diminishing hope, the Survey Corps embark on a mission to retake Wall Maria..."},
		{id: 28977, title: "Gintama°", english: "Gintama Season 4", japanese: "銀魂°",
			image: "3/72078", score: 9.06, episodes: 51, year: 2015, rank: 4, genres: []int{1, 4, 24},
			synopsis: "Gintoki, Shinpachi, and Kagura return as the fun-loving but broke members of the Yorozuya team..."},
		{id: 11061, title: "Hunter x Hunter (2011)", english: "Hunter x Hunter", japanese: "HUNTER×HUNTER（ハンター×ハンター）",
			image: "1337/99013", score: 9.04, episodes: 148, year: 2011, rank: 6, genres: []int{1, 2, 10},
			synopsis: "Twelve-year-old Gon Freecss embarks on a journey to become a Hunter and find his father..."},
	})

	featuredSeasonal = build([]seed{
		{id: 52991, title: "Sousou no Frieren", english: "Frieren: Beyond Journey's End", image: "1015/138006", score: 9.35, episodes: 28, year: 2023, genres: []int{2, 8, 10}},
		{id: 51009, title: "Jujutsu Kaisen 2nd Season", english: "Jujutsu Kaisen Season 2", image: "1792/138611", score: 8.85, episodes: 23, year: 2023, genres: []int{1, 10}},
		{id: 54112, title: "Kusuriya no Hitorigoto", english: "The Apothecary Diaries", image: "1708/138033", score: 8.75, episodes: 24, year: 2023, genres: []int{8, 7}},
		{id: 52034, title: "Oshi no Ko", english: "Oshi no Ko", image: "1812/134736", score: 8.40, episodes: 11, year: 2023, genres: []int{8, 37}},
		{id: 50602, title: "Chainsaw Man", english: "Chainsaw Man", image: "1806/126216", score: 8.61, episodes: 12, year: 2022, genres: []int{1, 37}},
		{id: 48569, title: "86 Part 2", english: "86 EIGHTY-SIX Part 2", image: "1111/120718", score: 8.76, episodes: 12, year: 2021, genres: []int{1, 8, 24}},
	})

	trendingNow = build([]seed{
		{id: 55701, title: "Dungeon Meshi", english: "Delicious in Dungeon", image: "1695/140297", score: 8.70, episodes: 24, year: 2024, status: catalog.StatusAiring, genres: []int{2, 4, 10}},
		{id: 57864, title: "Mushoku Tensei II: Isekai Ittara Honki Dasu Part 2", english: "Mushoku Tensei: Jobless Reincarnation Season 2 Part 2", image: "1028/138754", score: 8.72, episodes: 12, year: 2024, status: catalog.StatusAiring, genres: []int{8, 10}},
		{id: 54789, title: "Solo Leveling", english: "Solo Leveling", image: "1437/141316", score: 8.35, episodes: 12, year: 2024, status: catalog.StatusAiring, genres: []int{1, 10}},
		{id: 52701, title: "Kimetsu no Yaiba: Katanakaji no Sato-hen", english: "Demon Slayer: Swordsmith Village Arc", image: "1765/135099", score: 8.26, episodes: 11, year: 2023, genres: []int{1, 10}},
		{id: 51179, title: "Bocchi the Rock!", english: "Bocchi the Rock!", image: "1448/127956", score: 8.77, episodes: 12, year: 2022, genres: []int{4, 36}},
		{id: 40748, title: "Jujutsu Kaisen", english: "Jujutsu Kaisen", image: "1171/109222", score: 8.64, episodes: 24, year: 2020, genres: []int{1, 10}},
	})

	topAnime = build([]seed{
		{id: 5114, title: "Fullmetal Alchemist: Brotherhood", english: "Fullmetal Alchemist: Brotherhood", image: "1208/94745", score: 9.09, episodes: 64, year: 2009, rank: 1, genres: []int{1, 2, 8}},
		{id: 9253, title: "Steins;Gate", english: "Steins;Gate", image: "5/73199", score: 9.07, episodes: 24, year: 2011, rank: 2, genres: []int{8, 24, 41}},
		{id: 28977, title: "Gintama°", english: "Gintama Season 4", image: "3/72078", score: 9.06, episodes: 51, year: 2015, rank: 3, genres: []int{1, 4, 8}},
		{id: 38524, title: "Shingeki no Kyojin Season 3 Part 2", english: "Attack on Titan Season 3 Part 2", image: "1517/100633", score: 9.05, episodes: 10, year: 2019, rank: 4, genres: []int{1, 8}},
		{id: 9969, title: "Gintama'", english: "Gintama Season 2", image: "4/50361", score: 9.03, episodes: 51, year: 2011, rank: 5, genres: []int{1, 4, 8}},
		{id: 11061, title: "Hunter x Hunter (2011)", english: "Hunter x Hunter", image: "1337/99013", score: 9.03, episodes: 148, year: 2011, rank: 6, genres: []int{1, 2, 10}},
		{id: 15417, title: "Gintama': Enchousen", english: "Gintama Season 3", image: "1452/123686", score: 9.03, episodes: 13, year: 2012, rank: 7, genres: []int{1, 4, 8}},
		{id: 820, title: "Ginga Eiyuu Densetsu", english: "Legend of the Galactic Heroes", image: "1976/142016", kind: "OVA", score: 9.02, episodes: 110, year: 1988, rank: 8, genres: []int{8, 24}},
		{id: 39486, title: "Gintama: The Final", english: "Gintama: The Very Final", image: "1245/116760", kind: "Movie", score: 9.02, episodes: 1, year: 2021, rank: 9, genres: []int{1, 4, 8}},
		{id: 918, title: "Gintama", english: "Gintama", image: "10/73274", score: 8.94, episodes: 201, year: 2006, rank: 10, genres: []int{1, 4, 8}},
		{id: 40028, title: "Shingeki no Kyojin: The Final Season", english: "Attack on Titan: Final Season", image: "1000/110531", score: 8.91, episodes: 16, year: 2020, rank: 11, genres: []int{1, 8}},
		{id: 4181, title: "Clannad: After Story", english: "Clannad: After Story", image: "1299/110774", score: 8.91, episodes: 24, year: 2008, rank: 12, genres: []int{8, 22, 36}},
		{id: 35180, title: "3-gatsu no Lion 2nd Season", english: "March Comes in Like a Lion 2nd Season", image: "3/88469", score: 8.91, episodes: 22, year: 2017, rank: 13, genres: []int{8, 36}},
		{id: 34096, title: "Gintama.", english: "Gintama Season 5", image: "3/83528", score: 8.90, episodes: 12, year: 2017, rank: 14, genres: []int{1, 4, 8}},
		{id: 19, title: "Monster", english: "Monster", image: "10/18793", score: 8.87, episodes: 74, year: 2004, rank: 15, genres: []int{8, 7, 41}},
		{id: 37510, title: "Mob Psycho 100 II", english: "Mob Psycho 100 II", image: "1918/96303", score: 8.86, episodes: 13, year: 2019, rank: 16, genres: []int{1, 4, 37}},
		{id: 31758, title: "Kizumonogatari III: Reiketsu-hen", english: "Kizumonogatari Part 3: Reiketsu", image: "6/83527", kind: "Movie", score: 8.84, episodes: 1, year: 2017, rank: 17, genres: []int{1, 7, 37}},
		{id: 35247, title: "Owarimonogatari 2nd Season", english: "Owarimonogatari Second Season", image: "6/87322", score: 8.84, episodes: 7, year: 2017, rank: 18, genres: []int{4, 7, 37}},
		{id: 32281, title: "Kimi no Na wa.", english: "Your Name", image: "5/87048", kind: "Movie", score: 8.83, episodes: 1, year: 2016, rank: 19, genres: []int{8, 22, 37}},
		{id: 1535, title: "Death Note", english: "Death Note", image: "9/9453", score: 8.62, episodes: 37, year: 2006, rank: 20, genres: []int{7, 37, 41}},
		{id: 16498, title: "Shingeki no Kyojin", english: "Attack on Titan", image: "10/47347", score: 8.55, episodes: 25, year: 2013, rank: 21, genres: []int{1, 8}},
	})
)

// FallbackAnime returns the bundled all-time favourites shown when the top
// list cannot be fetched.
func FallbackAnime() []catalog.Entry {
	return catalog.CloneEntries(fallbackAnime)
}

// FeaturedSeasonal returns the curated seasonal picks.
func FeaturedSeasonal() []catalog.Entry {
	return catalog.CloneEntries(featuredSeasonal)
}

// TrendingNow returns the curated trending picks.
func TrendingNow() []catalog.Entry {
	return catalog.CloneEntries(trendingNow)
}

// TopAnime returns the bundled top list ordered by rank.
func TopAnime() []catalog.Entry {
	return catalog.CloneEntries(topAnime)
}

// All returns every bundled entry once, in dataset order
// (favourites, seasonal, trending, top list).
func All() []catalog.Entry {
	seen := make(map[int]bool)
	var out []catalog.Entry
	for _, set := range [][]catalog.Entry{fallbackAnime, featuredSeasonal, trendingNow, topAnime} {
		for _, e := range set {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			out = append(out, e.Clone())
		}
	}
	return out
}

// FindByID returns the richest bundled record for an id.
func FindByID(id int) (catalog.Entry, bool) {
	for _, set := range [][]catalog.Entry{fallbackAnime, featuredSeasonal, trendingNow, topAnime} {
		for _, e := range set {
			if e.ID == id {
				return e.Clone(), true
			}
		}
	}
	return catalog.Entry{}, false
}

// ByGenre returns every bundled entry tagged with the genre, best score first.
func ByGenre(genreID int) []catalog.Entry {
	var out []catalog.Entry
	for _, e := range All() {
		if e.HasGenre(genreID) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScoreValue() > out[j].ScoreValue()
	})
	return out
}
