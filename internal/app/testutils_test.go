package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/api"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/mocks"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/repository"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/validator"
	"github.com/shopspring/decimal"
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config:    Config{Env: "test"},
		validator: validator.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		inventory: repository.NewMemoryInventoryStore(),
		reserver:  &mocks.MockReserver{},
		bookings:  &mocks.MockBookingManager{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(method, url, bytes.NewReader(jsonData))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		if validationResp.Message == tt.wantErrMessage {
			return
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}

func testTheatre() *domain.Theatre {
	return &domain.Theatre{
		Halls: []domain.Hall{
			{
				ID:          1,
				Name:        "Main Hall",
				Rows:        3,
				SeatsPerRow: 4,
				Events: []domain.Event{
					{
						ID:          "evt-1",
						Name:        "Hamlet",
						Date:        "2025-06-01",
						Time:        "19:30",
						Price:       decimal.RequireFromString("1500.50"),
						BookedSeats: []domain.SeatID{"A-1", "A-2"},
					},
				},
			},
			{
				ID:          2,
				Name:        "Studio",
				Rows:        2,
				SeatsPerRow: 2,
				Events:      []domain.Event{},
			},
		},
	}
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ReferenceNumber: "BOK0001717000000000",
		CustomerName:    "Amina Otieno",
		Phone:           "+254 700 123456",
		EventDetails: domain.EventDetails{
			EventID:   "evt-1",
			EventName: "Hamlet",
			HallID:    1,
			HallName:  "Main Hall",
			Date:      "2025-06-01",
			Time:      "19:30",
		},
		Seats:       []domain.SeatID{"B-1", "B-2"},
		TotalPrice:  decimal.RequireFromString("3001"),
		BookingDate: time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC),
		Status:      domain.BookingStatusConfirmed,
	}
}
