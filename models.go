package main

// --- Data Structures ---

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Roles stored in the users table. isAdmin is always derived, never stored.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is the currently authenticated identity reconstructed from a token.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

type Song struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Year     int    `json:"year"`
	Genre    string `json:"genre"`
	Duration string `json:"duration"` // "mm:ss" display string, not a numeric duration
}

// SongInput carries every Song attribute except the id, which the library assigns.
type SongInput struct {
	Title    string `json:"title" binding:"required"`
	Artist   string `json:"artist" binding:"required"`
	Album    string `json:"album" binding:"required"`
	Year     int    `json:"year" binding:"required"`
	Genre    string `json:"genre" binding:"required"`
	Duration string `json:"duration" binding:"required"`
}

// SongGroup is one named bucket of the grouped projection.
type SongGroup struct {
	Name  string `json:"name"`
	Songs []Song `json:"songs"`
}

// LibraryStats aggregates over the full catalog, not the filtered view.
type LibraryStats struct {
	TotalSongs int `json:"totalSongs"`
	// TotalDuration sums each "mm:ss" as minutes + seconds/100, e.g. "1:45"
	// contributes 1.45. Inherited calculation, kept as-is.
	TotalDuration float64 `json:"totalDuration"`
	Genres        int     `json:"genres"`
	Artists       int     `json:"artists"`
}

// LibraryView is the grouped, sorted, filtered projection plus stats.
type LibraryView struct {
	Groups []SongGroup  `json:"groups"`
	Stats  LibraryStats `json:"stats"`
}
