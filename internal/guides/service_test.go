package guides

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wayguard/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockGuidesProvider struct {
	response *GuidesAPIResponse
	err      error
	places   []string
}

func (m *mockGuidesProvider) GetGuides(ctx context.Context, place string) (*GuidesAPIResponse, error) {
	m.places = append(m.places, place)
	return m.response, m.err
}

type fakeSession struct {
	details  types.PlaceDetails
	unlocked bool
}

func (f fakeSession) PlaceDetails() (types.PlaceDetails, bool) {
	return f.details, f.unlocked
}

func TestGuidesService_GetGuide(t *testing.T) {
	colombo := types.PlaceDetails{
		Address:   "Colombo, Sri Lanka",
		PlaceName: "Colombo",
		PlaceType: "city",
		City:      "Colombo",
		Country:   "Sri Lanka",
	}

	tests := []struct {
		name      string
		session   fakeSession
		response  *GuidesAPIResponse
		err       error
		wantErr   error
		wantPlace string
		wantDos   int
		wantDonts int
	}{
		{
			name:      "unlocked session",
			session:   fakeSession{details: colombo, unlocked: true},
			response:  &GuidesAPIResponse{Dos: []string{"Dress modestly at temples"}, Donts: []string{"Pose with your back to a Buddha statue"}},
			wantPlace: "Colombo, Sri Lanka",
			wantDos:   1,
			wantDonts: 1,
		},
		{
			name:      "defaulted place is still keyed",
			session:   fakeSession{details: types.DefaultPlaceDetails(), unlocked: true},
			response:  &GuidesAPIResponse{},
			wantPlace: "Unknown City, Unknown Country",
		},
		{
			name:    "locked session",
			session: fakeSession{},
			wantErr: ErrLocked,
		},
		{
			name:    "provider failure",
			session: fakeSession{details: colombo, unlocked: true},
			err:     errors.New("guides API down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockGuidesProvider{response: tt.response, err: tt.err}
			svc := NewGuidesServiceWithProvider(provider, testLogger())

			got, err := svc.GetGuide(context.Background(), tt.session)
			if tt.wantErr != nil || tt.err != nil {
				if err == nil {
					t.Fatal("GetGuide() expected error but got none")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("GetGuide() error = %v, want %v", err, tt.wantErr)
				}
				if tt.wantErr == ErrLocked && len(provider.places) != 0 {
					t.Errorf("provider called for a locked session")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetGuide() unexpected error = %v", err)
			}
			if got.Place != tt.wantPlace || provider.places[0] != tt.wantPlace {
				t.Errorf("Place = %q (requested %q), want %q", got.Place, provider.places[0], tt.wantPlace)
			}
			if len(got.Dos) != tt.wantDos || len(got.Donts) != tt.wantDonts {
				t.Errorf("Dos = %v, Donts = %v", got.Dos, got.Donts)
			}
			if got.Dos == nil || got.Donts == nil {
				t.Error("Dos/Donts must not be nil")
			}
		})
	}
}

func TestClient_GetGuides(t *testing.T) {
	var gotBody guidesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"dos": ["Carry water"], "donts": ["Swim at unmarked beaches"]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	resp, err := client.GetGuides(context.Background(), "Galle, Sri Lanka")
	if err != nil {
		t.Fatalf("GetGuides() error = %v", err)
	}
	if gotBody.Place != "Galle, Sri Lanka" {
		t.Errorf("request place = %q", gotBody.Place)
	}
	if len(resp.Dos) != 1 || len(resp.Donts) != 1 {
		t.Errorf("GetGuides() = %+v", resp)
	}
}

func TestClient_GetGuides_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream model unavailable"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	_, err := client.GetGuides(context.Background(), "Galle, Sri Lanka")
	if err == nil || !strings.Contains(err.Error(), "fetch returned status 502") {
		t.Errorf("GetGuides() error = %v", err)
	}
}
