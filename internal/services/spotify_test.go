package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/walkon/internal/shared"
	"golang.org/x/oauth2"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*SpotifyService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test_access_token"})
	svc := NewSpotifyService(context.Background(), source)
	svc.SetBaseURL(server.URL)

	return svc, server
}

func TestSpotifyService(t *testing.T) {
	t.Run("Search Tracks", func(t *testing.T) {
		var gotPath, gotAuth string
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")

			if r.URL.Query().Get("type") != "track" {
				t.Errorf("expected type=track, got %s", r.URL.Query().Get("type"))
			}

			json.NewEncoder(w).Encode(map[string]any{
				"tracks": map[string]any{
					"items": []map[string]any{
						{
							"id":          "4uLU6hMCjMI75M1A2tKUQC",
							"name":        "Thunderstruck",
							"uri":         "spotify:track:4uLU6hMCjMI75M1A2tKUQC",
							"duration_ms": 292880,
							"artists":     []map[string]any{{"name": "AC/DC"}},
							"album":       map[string]any{"name": "The Razors Edge"},
						},
					},
					"total": 1,
				},
			})
		})

		tracks, err := svc.SearchTracks(context.Background(), "thunderstruck", 10)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}

		if gotPath != "/search" {
			t.Errorf("expected /search, got %s", gotPath)
		}

		if gotAuth != "Bearer test_access_token" {
			t.Errorf("expected bearer auth header, got %q", gotAuth)
		}

		if len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(tracks))
		}

		if tracks[0].Artist != "AC/DC" {
			t.Errorf("expected primary artist AC/DC, got %s", tracks[0].Artist)
		}

		if tracks[0].DurationMS != 292880 {
			t.Errorf("expected duration 292880, got %d", tracks[0].DurationMS)
		}
	})

	t.Run("Search Requires Query", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected for empty query")
		})

		if _, err := svc.SearchTracks(context.Background(), "", 10); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Play Sends URI And Position", func(t *testing.T) {
		var gotBody map[string]any
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/me/player/play" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusNoContent)
		})

		err := svc.Play(context.Background(), "spotify:track:abc", 43000)
		if err != nil {
			t.Fatalf("play failed: %v", err)
		}

		uris, ok := gotBody["uris"].([]any)
		if !ok || len(uris) != 1 || uris[0] != "spotify:track:abc" {
			t.Errorf("unexpected uris in body: %v", gotBody["uris"])
		}

		if gotBody["position_ms"] != float64(43000) {
			t.Errorf("expected position_ms 43000, got %v", gotBody["position_ms"])
		}
	})

	t.Run("Play Resumes Without URI", func(t *testing.T) {
		var bodyLen int64
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			bodyLen = r.ContentLength
			w.WriteHeader(http.StatusNoContent)
		})

		if err := svc.Play(context.Background(), "", 0); err != nil {
			t.Fatalf("resume failed: %v", err)
		}

		if bodyLen > 0 {
			t.Errorf("expected empty body on resume, got %d bytes", bodyLen)
		}
	})

	t.Run("No Active Device", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		if err := svc.Pause(context.Background()); !errors.Is(err, shared.ErrNoActiveDevice) {
			t.Errorf("expected ErrNoActiveDevice, got %v", err)
		}
	})

	t.Run("Seek Rejects Negative Position", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected for invalid position")
		})

		if err := svc.Seek(context.Background(), -1); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Seek Sends Position", func(t *testing.T) {
		var gotPosition string
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			gotPosition = r.URL.Query().Get("position_ms")
			w.WriteHeader(http.StatusNoContent)
		})

		if err := svc.Seek(context.Background(), 15000); err != nil {
			t.Fatalf("seek failed: %v", err)
		}

		if gotPosition != "15000" {
			t.Errorf("expected position_ms 15000, got %s", gotPosition)
		}
	})

	t.Run("Playback State", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"is_playing":  true,
				"progress_ms": 51000,
				"item": map[string]any{
					"id":      "abc",
					"name":    "Thunderstruck",
					"artists": []map[string]any{{"name": "AC/DC"}},
				},
				"device": map[string]any{
					"id":        "device1",
					"name":      "Ballpark PA",
					"is_active": true,
				},
			})
		})

		state, err := svc.PlaybackState(context.Background())
		if err != nil {
			t.Fatalf("playback state failed: %v", err)
		}

		if state == nil || !state.IsPlaying {
			t.Fatal("expected playing state")
		}

		if state.ProgressMS != 51000 {
			t.Errorf("expected progress 51000, got %d", state.ProgressMS)
		}

		if state.Device.Name != "Ballpark PA" {
			t.Errorf("expected device Ballpark PA, got %s", state.Device.Name)
		}
	})

	t.Run("Playback State Empty", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		state, err := svc.PlaybackState(context.Background())
		if err != nil {
			t.Fatalf("playback state failed: %v", err)
		}

		if state != nil {
			t.Errorf("expected nil state when nothing is playing, got %+v", state)
		}
	})

	t.Run("Devices", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me/player/devices" {
				t.Errorf("expected /me/player/devices, got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"devices": []map[string]any{
					{"id": "d1", "name": "Ballpark PA", "type": "Speaker", "is_active": true, "volume_percent": 80},
					{"id": "d2", "name": "Press Box", "type": "Computer", "is_active": false, "volume_percent": 40},
				},
			})
		})

		devices, err := svc.Devices(context.Background())
		if err != nil {
			t.Fatalf("devices failed: %v", err)
		}

		if len(devices) != 2 {
			t.Fatalf("expected 2 devices, got %d", len(devices))
		}

		if !devices[0].IsActive || devices[0].VolumePercent != 80 {
			t.Errorf("unexpected first device: %+v", devices[0])
		}
	})

	t.Run("API Error", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		if _, err := svc.SearchTracks(context.Background(), "anything", 5); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
