package main

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// --- Sort / Group Field Selectors ---

type SortField string

const (
	SortByTitle  SortField = "title"
	SortByArtist SortField = "artist"
	SortByAlbum  SortField = "album"
	SortByYear   SortField = "year"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type GroupField string

const (
	GroupNone     GroupField = ""
	GroupByAlbum  GroupField = "album"
	GroupByArtist GroupField = "artist"
	GroupByGenre  GroupField = "genre"
)

// ParseSortField maps user input to a sort field, falling back to title.
func ParseSortField(s string) SortField {
	switch SortField(strings.ToLower(s)) {
	case SortByArtist:
		return SortByArtist
	case SortByAlbum:
		return SortByAlbum
	case SortByYear:
		return SortByYear
	default:
		return SortByTitle
	}
}

// ParseGroupField maps user input to a group field, falling back to none.
func ParseGroupField(s string) GroupField {
	switch GroupField(strings.ToLower(s)) {
	case GroupByAlbum:
		return GroupByAlbum
	case GroupByArtist:
		return GroupByArtist
	case GroupByGenre:
		return GroupByGenre
	default:
		return GroupNone
	}
}

// groupKey returns the bucket name for a song under the given grouping.
func groupKey(s Song, f GroupField) string {
	switch f {
	case GroupByAlbum:
		return s.Album
	case GroupByArtist:
		return s.Artist
	case GroupByGenre:
		return s.Genre
	default:
		return "All Songs"
	}
}

// --- Library ---

// AddSongHook and DeleteSongHook let an embedding host take ownership of
// mutations. When a hook is set the library applies nothing locally.
type AddSongHook func(SongInput)
type DeleteSongHook func(id string)

// Library owns the in-memory song catalog and the current view selection
// (search term, sort, grouping). All state is guarded by mu; HTTP handlers
// run concurrently.
type Library struct {
	mu         sync.Mutex
	songs      []Song
	searchTerm string
	sortField  SortField
	sortOrder  SortOrder
	groupBy    GroupField
	collator   *collate.Collator

	OnAddSong    AddSongHook
	OnDeleteSong DeleteSongHook
}

func NewLibrary(seed []Song) *Library {
	songs := make([]Song, len(seed))
	copy(songs, seed)
	return &Library{
		songs:     songs,
		sortField: SortByTitle,
		sortOrder: SortAsc,
		groupBy:   GroupNone,
		collator:  collate.New(language.English),
	}
}

func (lib *Library) SetSearchTerm(term string) {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	lib.searchTerm = term
}

// ToggleSort flips the order when the field is already active and resets to
// ascending when a new field is selected.
func (lib *Library) ToggleSort(field SortField) {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	if lib.sortField == field {
		if lib.sortOrder == SortAsc {
			lib.sortOrder = SortDesc
		} else {
			lib.sortOrder = SortAsc
		}
		return
	}
	lib.sortField = field
	lib.sortOrder = SortAsc
}

func (lib *Library) SetSort(field SortField, order SortOrder) {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	lib.sortField = field
	if order == SortDesc {
		lib.sortOrder = SortDesc
	} else {
		lib.sortOrder = SortAsc
	}
}

func (lib *Library) SetGroupBy(field GroupField) {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	lib.groupBy = field
}

// AddSong assigns a fresh id and appends the song. With an OnAddSong hook the
// host owns the data: the hook receives the input and ok is false.
func (lib *Library) AddSong(in SongInput) (song Song, ok bool) {
	if lib.OnAddSong != nil {
		lib.OnAddSong(in)
		return Song{}, false
	}
	lib.mu.Lock()
	defer lib.mu.Unlock()
	song = Song{
		ID:       GenerateSongID(),
		Title:    in.Title,
		Artist:   in.Artist,
		Album:    in.Album,
		Year:     in.Year,
		Genre:    in.Genre,
		Duration: in.Duration,
	}
	lib.songs = append(lib.songs, song)
	return song, true
}

// DeleteSong removes the matching song. An unknown id is a no-op, not an error.
func (lib *Library) DeleteSong(id string) {
	if lib.OnDeleteSong != nil {
		lib.OnDeleteSong(id)
		return
	}
	lib.mu.Lock()
	defer lib.mu.Unlock()
	for i, s := range lib.songs {
		if s.ID == id {
			lib.songs = append(lib.songs[:i], lib.songs[i+1:]...)
			return
		}
	}
}

// Songs returns a snapshot of the catalog in insertion order.
func (lib *Library) Songs() []Song {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	out := make([]Song, len(lib.songs))
	copy(out, lib.songs)
	return out
}

// View computes the filtered, sorted, grouped projection plus stats. It is a
// pure function of the catalog and the current selection state.
func (lib *Library) View() LibraryView {
	lib.mu.Lock()
	defer lib.mu.Unlock()

	filtered := make([]Song, 0, len(lib.songs))
	term := strings.ToLower(lib.searchTerm)
	for _, s := range lib.songs {
		if term == "" || songMatches(s, term) {
			filtered = append(filtered, s)
		}
	}

	// Stable sort keeps insertion order for equal keys.
	sort.SliceStable(filtered, func(i, j int) bool {
		c := lib.compareSongs(filtered[i], filtered[j])
		if lib.sortOrder == SortDesc {
			return c > 0
		}
		return c < 0
	})

	view := LibraryView{Stats: lib.stats()}

	// Without a group field there is always exactly one implicit bucket,
	// even when the filter matches nothing.
	if lib.groupBy == GroupNone {
		view.Groups = []SongGroup{{Name: "All Songs", Songs: filtered}}
		return view
	}

	// Buckets appear in first-encountered order of the sorted sequence.
	index := make(map[string]int)
	for _, s := range filtered {
		key := groupKey(s, lib.groupBy)
		i, seen := index[key]
		if !seen {
			i = len(view.Groups)
			index[key] = i
			view.Groups = append(view.Groups, SongGroup{Name: key})
		}
		view.Groups[i].Songs = append(view.Groups[i].Songs, s)
	}
	return view
}

// songMatches reports whether the lowercased term occurs in any of the four
// text fields.
func songMatches(s Song, term string) bool {
	return strings.Contains(strings.ToLower(s.Title), term) ||
		strings.Contains(strings.ToLower(s.Artist), term) ||
		strings.Contains(strings.ToLower(s.Album), term) ||
		strings.Contains(strings.ToLower(s.Genre), term)
}

// compareSongs orders by the active sort field: collated comparison for text,
// numeric comparison for year.
func (lib *Library) compareSongs(a, b Song) int {
	switch lib.sortField {
	case SortByArtist:
		return lib.collator.CompareString(a.Artist, b.Artist)
	case SortByAlbum:
		return lib.collator.CompareString(a.Album, b.Album)
	case SortByYear:
		switch {
		case a.Year < b.Year:
			return -1
		case a.Year > b.Year:
			return 1
		default:
			return 0
		}
	default:
		return lib.collator.CompareString(a.Title, b.Title)
	}
}

// stats aggregates over the whole catalog regardless of the active filter.
// Callers must hold mu.
func (lib *Library) stats() LibraryStats {
	stats := LibraryStats{TotalSongs: len(lib.songs)}
	genres := make(map[string]int)
	artists := make(map[string]int)
	for _, s := range lib.songs {
		stats.TotalDuration += durationValue(s.Duration)
		genres[s.Genre]++
		artists[s.Artist]++
	}
	stats.Genres = len(genres)
	stats.Artists = len(artists)
	return stats
}

// durationValue reads "mm:ss" as minutes + seconds/100, so "1:45" yields 1.45
// rather than 1.75. The upstream stats were always computed this way and the
// displayed totals depend on it, so the quirk is preserved.
func durationValue(d string) float64 {
	v, err := strconv.ParseFloat(strings.Replace(d, ":", ".", 1), 64)
	if err != nil {
		return 0
	}
	return v
}
