package integration_test

import (
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	TestAdminUsername = "admin"
	TestAdminPassword = "Adm1n!pass"

	TestHallId    = 1
	TestHallName  = "Main Hall"
	TestEventId   = "evt-hamlet"
	TestEventName = "Hamlet"
	TestEventDate = "2025-06-01"
	TestEventTime = "19:30"

	TestCustomerName  = "Amina Otieno"
	TestCustomerPhone = "+254 700 123456"
)

// FixtureTheatre is a 3x4 hall with one event where A-1 is already taken.
func FixtureTheatre() *domain.Theatre {
	return &domain.Theatre{
		Halls: []domain.Hall{
			{
				ID:          TestHallId,
				Name:        TestHallName,
				Rows:        3,
				SeatsPerRow: 4,
				Events: []domain.Event{
					{
						ID:          TestEventId,
						Name:        TestEventName,
						Description: "Prince of Denmark",
						Date:        TestEventDate,
						Time:        TestEventTime,
						Price:       decimal.RequireFromString("1500"),
						Image:       "/images/hamlet.jpg",
						BookedSeats: []domain.SeatID{"A-1"},
					},
				},
			},
		},
	}
}
