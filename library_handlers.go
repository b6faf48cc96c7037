package main

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

// durationPattern accepts "3:45" style values: minutes unbounded, seconds
// exactly two digits.
var durationPattern = regexp.MustCompile(`^\d+:\d{2}$`)

// getLibraryView returns the grouped, sorted, filtered projection plus stats.
// Unknown sort/group values fall back to their defaults.
func getLibraryView(c *gin.Context) {
	req := ViewRequest{
		Query: c.Query("q"),
		Sort:  c.Query("sort"),
		Order: c.Query("order"),
		Group: c.Query("group"),
	}

	view, err := libraryProvider.View(req)
	if err != nil {
		respondLibraryError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func addSong(c *gin.Context) {
	var input SongInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All song fields are required"})
		return
	}
	if !durationPattern.MatchString(input.Duration) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duration must look like 3:45"})
		return
	}

	song, err := libraryProvider.AddSong(input)
	if err != nil {
		respondLibraryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, song)
}

// deleteSong removes a song by id. Deleting an unknown id still answers 200;
// the catalog simply no longer contains it.
func deleteSong(c *gin.Context) {
	if err := libraryProvider.DeleteSong(c.Param("id")); err != nil {
		respondLibraryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Song deleted"})
}

// respondLibraryError maps provider failures onto HTTP answers. A missing
// remote module is a 503 with remediation steps, never a crash.
func respondLibraryError(c *gin.Context, err error) {
	if errors.Is(err, ErrRemoteUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Music Library Unavailable",
			"detail": "The music library module is not reachable. " +
				"Check that the remote library service is running and that " +
				"library_remote_url points at it, then retry.",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Library error"})
}
