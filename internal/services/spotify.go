// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/walkon/internal/models"
	"github.com/desertthunder/walkon/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	Images      []SpotifyImage  `json:"images"`
	URI         string          `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifySearchResult represents the track portion of a search response.
type SpotifySearchResult struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
		Total int            `json:"total"`
	} `json:"tracks"`
}

// SpotifyDevice represents a playback device registered with Spotify Connect.
type SpotifyDevice struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	VolumePercent int    `json:"volume_percent"`
}

// SpotifyPlaybackState represents the /me/player response.
type SpotifyPlaybackState struct {
	IsPlaying  bool          `json:"is_playing"`
	ProgressMS int           `json:"progress_ms"`
	Item       SpotifyTrack  `json:"item"`
	Device     SpotifyDevice `json:"device"`
}

// SpotifyService implements the Service interface for Spotify API interactions.
//
// Requests are authenticated through an [oauth2.TokenSource] so token refresh
// happens transparently, and rate limited client-side to stay under the Web
// API quota during roster resolution runs.
type SpotifyService struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

// NewSpotifyService creates a new Spotify service authenticated by the given token source.
func NewSpotifyService(ctx context.Context, source oauth2.TokenSource) *SpotifyService {
	return &SpotifyService{
		client:  oauth2.NewClient(ctx, source),
		limiter: rate.NewLimiter(rate.Limit(10), 10),
		baseURL: spotifyBaseURL,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// SetBaseURL overrides the API base URL. Used in tests.
func (s *SpotifyService) SetBaseURL(u string) {
	s.baseURL = u
}

// doRequest performs a rate-limited, authenticated HTTP request to the Spotify API.
//
// A 204 from the player endpoints means no active device or nothing playing;
// callers distinguish that via the returned status code.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) (int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter: %w", err)
	}

	apiURL := s.baseURL + endpoint

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// The player endpoints 404 when no device is active.
	if resp.StatusCode == http.StatusNotFound && strings.HasPrefix(endpoint, "/me/player") {
		return resp.StatusCode, shared.ErrNoActiveDevice
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// SearchTracks searches the Spotify catalog for tracks matching the query.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), limit)

	var result SpotifySearchResult
	if _, err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(result.Tracks.Items))
	for _, item := range result.Tracks.Items {
		tracks = append(tracks, convertTrack(item))
	}

	return tracks, nil
}

// Play starts playback of the given track URI at positionMS on the active device.
// An empty URI resumes the paused context instead.
func (s *SpotifyService) Play(ctx context.Context, uri string, positionMS int) error {
	var body any
	if uri != "" {
		body = map[string]any{
			"uris":        []string{uri},
			"position_ms": positionMS,
		}
	}

	_, err := s.doRequest(ctx, http.MethodPut, "/me/player/play", body, nil)
	return err
}

// Pause pauses playback on the active device.
func (s *SpotifyService) Pause(ctx context.Context) error {
	_, err := s.doRequest(ctx, http.MethodPut, "/me/player/pause", nil, nil)
	return err
}

// Seek moves the playhead of the currently playing track.
func (s *SpotifyService) Seek(ctx context.Context, positionMS int) error {
	if positionMS < 0 {
		return fmt.Errorf("%w: position must not be negative", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("/me/player/seek?position_ms=%d", positionMS)
	_, err := s.doRequest(ctx, http.MethodPut, endpoint, nil, nil)
	return err
}

// PlaybackState returns the current playback state, or nil when nothing is playing.
func (s *SpotifyService) PlaybackState(ctx context.Context) (*PlaybackState, error) {
	var state SpotifyPlaybackState
	status, err := s.doRequest(ctx, http.MethodGet, "/me/player", nil, &state)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}

	return &PlaybackState{
		IsPlaying:  state.IsPlaying,
		ProgressMS: state.ProgressMS,
		Track:      convertTrack(state.Item),
		Device:     convertDevice(state.Device),
	}, nil
}

// Devices lists the playback devices registered with the user's account.
func (s *SpotifyService) Devices(ctx context.Context) ([]Device, error) {
	var result struct {
		Devices []SpotifyDevice `json:"devices"`
	}

	if _, err := s.doRequest(ctx, http.MethodGet, "/me/player/devices", nil, &result); err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(result.Devices))
	for _, d := range result.Devices {
		devices = append(devices, convertDevice(d))
	}

	return devices, nil
}

func convertTrack(t SpotifyTrack) models.Track {
	track := models.Track{
		ID:         t.ID,
		Title:      t.Name,
		Album:      t.Album.Name,
		DurationMS: t.DurationMS,
		URI:        t.URI,
	}

	if len(t.Artists) > 0 {
		track.Artist = t.Artists[0].Name
	}

	return track
}

func convertDevice(d SpotifyDevice) Device {
	return Device{
		ID:            d.ID,
		Name:          d.Name,
		Type:          d.Type,
		IsActive:      d.IsActive,
		VolumePercent: d.VolumePercent,
	}
}
