package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/api"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/mocks"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/repository"
	"github.com/stretchr/testify/mock"
)

func seededInventory(t *testing.T) domain.InventoryReader {
	t.Helper()

	store := repository.NewMemoryInventoryStore()
	if err := store.Save(context.Background(), testTheatre()); err != nil {
		t.Fatalf("failed to seed inventory: %v", err)
	}

	return store
}

func TestListEvents(t *testing.T) {
	t.Run("returns every hall with its events", func(t *testing.T) {
		app := newTestApplication(func(a *Application) {
			a.inventory = seededInventory(t)
		})

		w, r := executeRequest(t, http.MethodGet, "/events", nil)

		app.ListEvents(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("ListEvents() status = %v, want %v", w.Code, http.StatusOK)
		}

		var resp api.TheatreResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if len(resp.Halls) != 2 {
			t.Fatalf("Expected 2 halls, got %d", len(resp.Halls))
		}

		event := resp.Halls[0].Events[0]
		if event.AvailableSeats != 10 {
			t.Errorf("AvailableSeats = %d, want 10", event.AvailableSeats)
		}
		if event.Price.String() != "1500.5" {
			t.Errorf("Price = %s, want 1500.5", event.Price)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		store := &mocks.MockInventoryStore{}
		store.On("Load", mock.Anything).Return(nil, errors.New("disk on fire"))

		app := newTestApplication(func(a *Application) {
			a.inventory = store
		})

		w, r := executeRequest(t, http.MethodGet, "/events", nil)

		app.ListEvents(w, r)

		checkErrorResponse(t, w, struct {
			wantStatus     int
			wantErrMessage string
		}{
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		})

		if w.Code != http.StatusInternalServerError {
			t.Errorf("ListEvents() status = %v, want %v", w.Code, http.StatusInternalServerError)
		}
	})
}

func TestGetEvent(t *testing.T) {
	tests := []struct {
		name           string
		hallId         int
		eventId        string
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:       "existing event",
			hallId:     1,
			eventId:    "evt-1",
			wantStatus: http.StatusOK,
		},
		{
			name:           "unknown hall",
			hallId:         9,
			eventId:        "evt-1",
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrEventNotFound,
		},
		{
			name:           "event scheduled in another hall",
			hallId:         2,
			eventId:        "evt-1",
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrEventNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(func(a *Application) {
				a.inventory = seededInventory(t)
			})

			w, r := executeRequest(t, http.MethodGet, "/events", nil)

			app.GetEvent(w, r, tt.hallId, tt.eventId)

			if got := w.Code; got != tt.wantStatus {
				t.Errorf("GetEvent() status = %v, want %v", got, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusOK {
				var resp api.EventDetailResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}

				if resp.Hall.Id != tt.hallId || resp.Event.Id != tt.eventId {
					t.Errorf("Got hall %d event %s", resp.Hall.Id, resp.Event.Id)
				}
				if resp.Hall.Events != nil {
					t.Errorf("Expected hall without events, got %d", len(resp.Hall.Events))
				}
				if len(resp.Event.BookedSeats) != 2 {
					t.Errorf("BookedSeats = %v, want 2 seats", resp.Event.BookedSeats)
				}
			}

			checkErrorResponse(t, w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}
