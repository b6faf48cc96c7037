package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrRemoteUnavailable means the configured remote library module could not be
// reached. It is a terminal state for that request only; the next request
// tries again.
var ErrRemoteUnavailable = errors.New("music library module unavailable")

// ViewRequest carries the view selection from the HTTP layer. Unknown field
// values fall back to defaults rather than erroring.
type ViewRequest struct {
	Query string
	Sort  string
	Order string
	Group string
}

// LibraryProvider is the capability boundary around the song library. The
// catalog is served either in-process or by a remote module resolved at
// startup; handlers cannot tell the difference.
type LibraryProvider interface {
	View(req ViewRequest) (LibraryView, error)
	AddSong(in SongInput) (Song, error)
	DeleteSong(id string) error
}

// resolveLibraryProvider picks the provider from configuration. An empty
// library_remote_url means the server owns the catalog itself.
func resolveLibraryProvider(db *sql.DB, lib *Library) LibraryProvider {
	remoteURL, err := GetConfig(db, "library_remote_url")
	if err != nil || remoteURL == "" {
		remoteURL = getEnv("LIBRARY_REMOTE_URL", "")
	}
	if remoteURL == "" {
		log.Println("Serving the music library from the in-process catalog")
		return &localProvider{lib: lib}
	}
	log.Printf("Serving the music library from remote module at %s", remoteURL)
	return &remoteProvider{
		baseURL: strings.TrimRight(remoteURL, "/"),
		token:   getEnv("LIBRARY_REMOTE_TOKEN", ""),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// --- Local provider ---

type localProvider struct {
	// viewMu keeps the selection setters and the projection of one request
	// together; the Library's own lock only covers individual operations.
	viewMu sync.Mutex
	lib    *Library
}

func (p *localProvider) View(req ViewRequest) (LibraryView, error) {
	p.viewMu.Lock()
	defer p.viewMu.Unlock()

	p.lib.SetSearchTerm(req.Query)
	order := SortAsc
	if strings.EqualFold(req.Order, string(SortDesc)) {
		order = SortDesc
	}
	p.lib.SetSort(ParseSortField(req.Sort), order)
	p.lib.SetGroupBy(ParseGroupField(req.Group))
	return p.lib.View(), nil
}

func (p *localProvider) AddSong(in SongInput) (Song, error) {
	song, _ := p.lib.AddSong(in)
	return song, nil
}

func (p *localProvider) DeleteSong(id string) error {
	p.lib.DeleteSong(id)
	return nil
}

// --- Remote provider ---

// remoteProvider forwards library operations to another instance of this
// server over its JSON API.
type remoteProvider struct {
	baseURL string
	token   string // service credential presented to the remote module
	client  *http.Client
}

func (p *remoteProvider) View(req ViewRequest) (LibraryView, error) {
	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("sort", req.Sort)
	q.Set("order", req.Order)
	q.Set("group", req.Group)

	var view LibraryView
	if err := p.do(http.MethodGet, "/api/v1/library?"+q.Encode(), nil, &view); err != nil {
		return LibraryView{}, err
	}
	return view, nil
}

func (p *remoteProvider) AddSong(in SongInput) (Song, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return Song{}, err
	}
	var song Song
	if err := p.do(http.MethodPost, "/api/v1/library/songs", body, &song); err != nil {
		return Song{}, err
	}
	return song, nil
}

func (p *remoteProvider) DeleteSong(id string) error {
	return p.do(http.MethodDelete, "/api/v1/library/songs/"+url.PathEscape(id), nil, nil)
}

func (p *remoteProvider) do(method, path string, body []byte, out interface{}) error {
	req, err := http.NewRequest(method, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("Remote library call %s %s failed: %v", method, path, err)
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Remote library call %s %s returned status %d", method, path, resp.StatusCode)
		return fmt.Errorf("%w: remote returned status %d", ErrRemoteUnavailable, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: bad response: %v", ErrRemoteUnavailable, err)
	}
	return nil
}
