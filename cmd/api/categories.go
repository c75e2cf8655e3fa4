package main

import (
	"net/http"

	"storefront/internal/domain/categories"

	"github.com/go-chi/chi/v5"
)

type CreateCategoryPayload struct {
	Name        string `json:"name" validate:"max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type UpdateCategoryPayload struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type categoryListResponse struct {
	Categories []categories.Category `json:"categories"`
	Total      int                   `json:"total"`
}

type toggleResponse struct {
	Category *categories.Category `json:"category"`
	Message  string               `json:"message"`
}

// listCategoriesHandler godoc
//
//	@Summary		List categories
//	@Description	Sorted by name
//	@Tags			categories
//	@Produce		json
//	@Param			activeOnly	query		bool	false	"Only active categories"
//	@Success		200			{object}	categoryListResponse
//	@Failure		500			{object}	error
//	@Router			/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	list, err := app.categories.List(r.Context(), activeOnly)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, categoryListResponse{Categories: list, Total: len(list)}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getCategoryHandler godoc
//
//	@Summary		Get a category
//	@Tags			categories
//	@Produce		json
//	@Param			categoryID	path		string	true	"Category ID"
//	@Success		200			{object}	categories.Category
//	@Failure		404			{object}	error
//	@Router			/categories/{categoryID} [get]
func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	c, err := app.categories.Get(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, c); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createCategoryHandler godoc
//
//	@Summary		Create a category
//	@Description	Names are trimmed and must be unique. New categories are active.
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateCategoryPayload	true	"Category"
//	@Success		201		{object}	categories.Category
//	@Failure		400		{object}	error
//	@Failure		409		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/categories [post]
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	c, err := app.categories.Create(r.Context(), categories.CreateInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, c); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateCategoryHandler godoc
//
//	@Summary		Update a category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			categoryID	path		string					true	"Category ID"
//	@Param			payload		body		UpdateCategoryPayload	true	"Fields to change"
//	@Success		200			{object}	categories.Category
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/categories/{categoryID} [put]
func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateCategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	c, err := app.categories.Update(r.Context(), chi.URLParam(r, "categoryID"), categories.UpdateInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, c); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteCategoryHandler godoc
//
//	@Summary		Delete a category
//	@Description	Products keep their category name.
//	@Tags			categories
//	@Param			categoryID	path	string	true	"Category ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/categories/{categoryID} [delete]
func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.categories.Delete(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// toggleCategoryHandler godoc
//
//	@Summary		Flip a category's active flag
//	@Tags			categories
//	@Produce		json
//	@Param			categoryID	path		string	true	"Category ID"
//	@Success		200			{object}	toggleResponse
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/categories/{categoryID}/toggle [patch]
func (app *application) toggleCategoryHandler(w http.ResponseWriter, r *http.Request) {
	c, err := app.categories.Toggle(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	msg := "Category deactivated"
	if c.IsActive {
		msg = "Category activated"
	}
	if err := app.jsonResponse(w, http.StatusOK, toggleResponse{Category: c, Message: msg}); err != nil {
		app.internalServerError(w, r, err)
	}
}
