package main

import (
	"errors"
	"net/http"

	"storefront/internal/domain/categories"
	"storefront/internal/domain/orders"
	"storefront/internal/domain/products"
	"storefront/internal/domain/reviews"
	"storefront/internal/domain/users"

	"github.com/go-playground/validator/v10"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, err.Error())
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("conflict", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusConflict, err.Error())
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.logger.Warnw("forbidden", "method", r.Method, "path", r.URL.Path)

	writeJSONError(w, http.StatusForbidden, "forbidden")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", retryAfter)

	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter)
}

// domainErrorResponse maps the domain error taxonomy onto HTTP responses.
func (app *application) domainErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr  *products.ValidationError
		vErrs validator.ValidationErrors
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &vErrs):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, categories.ErrNameRequired),
		errors.Is(err, orders.ErrItemsRequired),
		errors.Is(err, orders.ErrInvalidItem),
		errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, reviews.ErrInvalidRating):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, products.ErrProductNotFound),
		errors.Is(err, categories.ErrCategoryNotFound),
		errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, reviews.ErrReviewNotFound),
		errors.Is(err, users.ErrUserNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, categories.ErrDuplicateCategory),
		errors.Is(err, users.ErrEmailTaken):
		app.conflictResponse(w, r, err)
	case errors.Is(err, users.ErrInvalidCredentials):
		app.unauthorizedErrorResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
