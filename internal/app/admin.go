package app

import (
	"errors"
	"net/http"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/api"
	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
)

// AdminLogin checks admin credentials without opening a session. Later admin
// requests carry the credentials again.
func (app *Application) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var input api.AdminCredentials

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	err = app.bookings.Authenticate(r.Context(), domain.AdminCredentials{Username: input.Username, Password: input.Password})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			contextGetLogger(r).Warn("admin login rejected", "username", input.Username)
			app.invalidCredentialsResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, api.AdminLoginResponse{Success: true}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
