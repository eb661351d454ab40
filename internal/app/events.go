package app

import (
	"errors"
	"net/http"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/api"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
)

func (app *Application) ListEvents(w http.ResponseWriter, r *http.Request) {
	theatre, err := app.inventory.Load(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.TheatreResponse{Halls: make([]api.Hall, len(theatre.Halls))}
	for i, hall := range theatre.Halls {
		resp.Halls[i] = toHall(hall, true)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetEvent(w http.ResponseWriter, r *http.Request, hallId int, eventId string) {
	theatre, err := app.inventory.Load(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	hall, event, err := theatre.Resolve(hallId, eventId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			app.errorResponse(w, r, http.StatusNotFound, ErrEventNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.EventDetailResponse{
		Hall:  toHall(*hall, false),
		Event: toEvent(*event),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
