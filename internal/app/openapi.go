package app

import (
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// validateRequest checks requests against the OpenAPI document before they reach
// a handler. Requests for unknown routes pass through so the router can answer
// with 404 or 405.
func (app *Application) validateRequest(doc *openapi3.T) (func(http.Handler) http.Handler, error) {
	doc.Servers = nil

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         false,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}

			err = openapi3filter.ValidateRequest(r.Context(), input)
			if err != nil {
				app.badRequestResponse(w, r, requestValidationError(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func requestValidationError(err error) error {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			return errors.New("invalid parameter " + reqErr.Parameter.Name + ": " + reqErr.Reason)
		}
		if reqErr.RequestBody != nil {
			return errors.New("invalid request body: " + reqErr.Reason)
		}
		return errors.New(reqErr.Reason)
	}

	return errors.New("request does not match the API schema")
}
