// HTTP implementation of [Catalog] against the catalog server's REST API.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// errNotFound marks a 404 from the catalog; call sites map it to the
// entity-specific sentinel.
var errNotFound = errors.New("not found")

// HTTPCatalog implements [Catalog] over the catalog server's JSON API.
// Requests are rate limited client-side so bulk operations (library
// warm-up in particular) cannot hammer the server.
type HTTPCatalog struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPCatalog creates a catalog client from config. When an access
// token is configured the underlying client attaches it to every request;
// a zero rate limit disables client-side throttling.
func NewHTTPCatalog(config shared.CatalogConfig, client *http.Client) *HTTPCatalog {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if client == nil {
		client = http.DefaultClient
	}

	if config.AccessToken != "" {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.AccessToken})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, source)
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &HTTPCatalog{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    limiter,
	}
}

// doRequest performs a rate-limited request against the catalog API and
// decodes the JSON response into result when non-nil.
func (c *HTTPCatalog) doRequest(ctx context.Context, method, endpoint string, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait interrupted: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d from %s", shared.ErrAPIRequest, resp.StatusCode, endpoint)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Tracks retrieves the full library track listing.
func (c *HTTPCatalog) Tracks(ctx context.Context) ([]models.Track, error) {
	var response struct {
		Tracks []models.Track `json:"tracks"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/tracks", &response); err != nil {
		return nil, err
	}
	return response.Tracks, nil
}

// Albums retrieves the library's album groupings.
func (c *HTTPCatalog) Albums(ctx context.Context) ([]models.Album, error) {
	var response struct {
		Albums []models.Album `json:"albums"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/albums", &response); err != nil {
		return nil, err
	}
	return response.Albums, nil
}

// Artists retrieves the library's artists.
func (c *HTTPCatalog) Artists(ctx context.Context) ([]models.Artist, error) {
	var response struct {
		Artists []models.Artist `json:"artists"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/artists", &response); err != nil {
		return nil, err
	}
	return response.Artists, nil
}

// Playlists retrieves the user's playlists without their tracks.
func (c *HTTPCatalog) Playlists(ctx context.Context) ([]models.Playlist, error) {
	var response struct {
		Playlists []models.Playlist `json:"playlists"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/playlists", &response); err != nil {
		return nil, err
	}
	return response.Playlists, nil
}

// PlaylistTracks retrieves a playlist together with its ordered tracks.
func (c *HTTPCatalog) PlaylistTracks(ctx context.Context, playlistID string) (*models.PlaylistTracks, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: empty playlist id", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("/api/playlists/%s/tracks", url.PathEscape(playlistID))

	var playlist models.PlaylistTracks
	if err := c.doRequest(ctx, http.MethodGet, endpoint, &playlist); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		}
		return nil, err
	}

	return &playlist, nil
}

// Search queries the catalog across tracks, albums, artists, and playlists.
func (c *HTTPCatalog) Search(ctx context.Context, query string) (*SearchResults, error) {
	if strings.TrimSpace(query) == "" {
		return &SearchResults{}, nil
	}

	endpoint := "/api/search?q=" + url.QueryEscape(query)

	var results SearchResults
	if err := c.doRequest(ctx, http.MethodGet, endpoint, &results); err != nil {
		return nil, err
	}

	return &results, nil
}

// StreamURL resolves a track id to a playable stream location.
func (c *HTTPCatalog) StreamURL(ctx context.Context, trackID string) (string, error) {
	if trackID == "" {
		return "", fmt.Errorf("%w: empty track id", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("/api/tracks/%s/stream", url.PathEscape(trackID))

	var response struct {
		URL string `json:"url"`
	}
	if err := c.doRequest(ctx, http.MethodGet, endpoint, &response); err != nil {
		if errors.Is(err, errNotFound) {
			return "", fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID)
		}
		return "", err
	}
	if response.URL == "" {
		return "", fmt.Errorf("%w: no stream for %s", shared.ErrResolveFailed, trackID)
	}

	return response.URL, nil
}

// IncrementPlayCount reports a completed listen for trackID.
func (c *HTTPCatalog) IncrementPlayCount(ctx context.Context, trackID string) error {
	if trackID == "" {
		return fmt.Errorf("%w: empty track id", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("/api/tracks/%s/played", url.PathEscape(trackID))
	if err := c.doRequest(ctx, http.MethodPost, endpoint, nil); err != nil {
		if errors.Is(err, errNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID)
		}
		return err
	}
	return nil
}
