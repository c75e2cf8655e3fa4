package main

import (
	"net/http"

	"storefront/internal/domain/reviews"
	"storefront/internal/params"

	"github.com/go-chi/chi/v5"
)

type CreateReviewPayload struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type reviewPageResponse struct {
	Items      []reviews.Review  `json:"items"`
	Pagination params.Pagination `json:"pagination"`
}

// listReviewsHandler godoc
//
//	@Summary		List reviews
//	@Description	Newest first, with product and author names
//	@Tags			reviews
//	@Produce		json
//	@Param			product	query		string	false	"Product ID"
//	@Param			page	query		int		false	"Page number"	default(1)
//	@Param			limit	query		int		false	"Page size"		default(10)
//	@Success		200		{object}	reviewPageResponse
//	@Router			/reviews [get]
func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	list, pg, err := app.reviews.List(r.Context(), q.Get("product"), params.ParsePagination(q))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, reviewPageResponse{Items: list, Pagination: pg}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createReviewHandler godoc
//
//	@Summary		Review a product
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		string				true	"Product ID"
//	@Param			payload		body		CreateReviewPayload	true	"Review"
//	@Success		201			{object}	reviews.Review
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/products/{productID}/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	rv := &reviews.Review{
		ProductID: chi.URLParam(r, "productID"),
		UserID:    user.ID,
		Rating:    payload.Rating,
		Comment:   payload.Comment,
		UserName:  user.Username,
		UserEmail: user.Email,
	}
	if err := app.reviews.Create(r.Context(), rv); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, rv); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteReviewHandler godoc
//
//	@Summary		Delete a review
//	@Tags			reviews
//	@Param			reviewID	path	string	true	"Review ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/reviews/{reviewID} [delete]
func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.reviews.Delete(r.Context(), chi.URLParam(r, "reviewID")); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
