package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/products"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const productFormMaxBytes = maxPhotosPerRequest*maxPhotoBytes + 1<<20

type productPayload struct {
	Name         *string          `json:"name"`
	Price        *decimal.Decimal `json:"price" swaggertype:"number"`
	Category     *string          `json:"category"`
	Description  *string          `json:"description"`
	Color        *string          `json:"color"`
	KeepPhotoIDs json.RawMessage  `json:"keepPhotoIds" swaggertype:"array,string"`
}

type idsPayload struct {
	IDs []string `json:"ids"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type countResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

type restoreResponse struct {
	Message string            `json:"message"`
	Product *products.Product `json:"product"`
}

// keepPhotoIDsFromJSON accepts keepPhotoIds as a JSON array or as a string
// holding a JSON array or comma separated ids. Absent or null means not sent.
func keepPhotoIDsFromJSON(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("keepPhotoIds: %w", err)
		}
		return products.ParseKeepPhotoIDs([]string{s}), nil
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, errors.New("keepPhotoIds must be a list or a string of ids")
	}
	keep := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			keep = append(keep, id)
		}
	}
	return keep, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// readProductForm reads a product body sent either as multipart form data
// (with photos) or as plain JSON.
func (app *application) readProductForm(w http.ResponseWriter, r *http.Request) (products.UpdateInput, error) {
	var p productPayload

	if !isMultipart(r) {
		if err := readJSON(w, r, &p); err != nil {
			return products.UpdateInput{}, err
		}
		keep, err := keepPhotoIDsFromJSON(p.KeepPhotoIDs)
		if err != nil {
			return products.UpdateInput{}, err
		}
		return products.UpdateInput{
			Name:         p.Name,
			Price:        p.Price,
			Category:     p.Category,
			Description:  p.Description,
			Color:        p.Color,
			KeepPhotoIDs: keep,
		}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, productFormMaxBytes)
	if err := r.ParseMultipartForm(formMemoryBytes); err != nil {
		return products.UpdateInput{}, fmt.Errorf("failed to parse form: %w", err)
	}
	form := r.MultipartForm

	p.Name = formValue(form, "name")
	p.Category = formValue(form, "category")
	p.Description = formValue(form, "description")
	p.Color = formValue(form, "color")
	if raw := formValue(form, "price"); raw != nil && strings.TrimSpace(*raw) != "" {
		price, err := products.ParsePrice(*raw)
		if err != nil {
			return products.UpdateInput{}, err
		}
		p.Price = &price
	}

	files, err := photoUploads(form)
	if err != nil {
		return products.UpdateInput{}, err
	}

	var keep []string
	if vals, ok := formValues(form, "keepPhotoIds"); ok {
		keep = products.ParseKeepPhotoIDs(vals)
	}

	return products.UpdateInput{
		Name:         p.Name,
		Price:        p.Price,
		Category:     p.Category,
		Description:  p.Description,
		Color:        p.Color,
		KeepPhotoIDs: keep,
		Files:        files,
	}, nil
}

// listProductsHandler godoc
//
//	@Summary		List products
//	@Description	Catalog query with search, category, color, price range, trash and active-category filters
//	@Tags			products
//	@Produce		json
//	@Param			search					query		string	false	"Case-insensitive name search"
//	@Param			category				query		string	false	"Exact category name"
//	@Param			color					query		string	false	"Exact color"
//	@Param			minPrice				query		number	false	"Lower price bound"
//	@Param			maxPrice				query		number	false	"Upper price bound"
//	@Param			deleted					query		bool	false	"List trashed products"
//	@Param			activeCategoriesOnly	query		bool	false	"Only products in active categories"
//	@Param			page					query		int		false	"Page number"	default(1)
//	@Param			limit					query		int		false	"Page size"		default(10)
//	@Success		200						{object}	products.Page
//	@Failure		400						{object}	error
//	@Failure		500						{object}	error
//	@Router			/products [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	f, err := products.ParseFilter(r.URL.Query())
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page, err := app.products.List(ctx, f)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, page); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getProductHandler godoc
//
//	@Summary		Get a product
//	@Tags			products
//	@Produce		json
//	@Param			productID	path		string	true	"Product ID"
//	@Success		200			{object}	products.Product
//	@Failure		404			{object}	error
//	@Router			/products/{productID} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	p, err := app.products.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createProductHandler godoc
//
//	@Summary		Create a product
//	@Description	Accepts multipart form data with up to 8 photos (5MB each) or a JSON body
//	@Tags			products
//	@Accept			mpfd,json
//	@Produce		json
//	@Param			name		formData	string	true	"Name"
//	@Param			price		formData	number	true	"Price"
//	@Param			category	formData	string	true	"Category"
//	@Param			description	formData	string	false	"Description"
//	@Param			color		formData	string	false	"Color"
//	@Param			photos		formData	file	false	"Photos"
//	@Success		201			{object}	products.Product
//	@Failure		400			{object}	error
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/products [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	defer removeMultipart(r)

	in, err := app.readProductForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p, err := app.products.Create(r.Context(), products.CreateInput{
		Name:        deref(in.Name),
		Price:       in.Price,
		Category:    deref(in.Category),
		Description: deref(in.Description),
		Color:       deref(in.Color),
		Files:       in.Files,
	})
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateProductHandler godoc
//
//	@Summary		Update a product
//	@Description	Overwrites sent fields. keepPhotoIds, when sent, drops every photo not listed; new photos are appended.
//	@Tags			products
//	@Accept			mpfd,json
//	@Produce		json
//	@Param			productID		path		string	true	"Product ID"
//	@Param			keepPhotoIds	formData	string	false	"Public ids to keep (JSON array or comma separated)"
//	@Param			photos			formData	file	false	"Photos to append"
//	@Success		200				{object}	products.Product
//	@Failure		400				{object}	error
//	@Failure		404				{object}	error
//	@Failure		500				{object}	error
//	@Security		ApiKeyAuth
//	@Router			/products/{productID} [put]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	defer removeMultipart(r)

	in, err := app.readProductForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p, err := app.products.Update(r.Context(), chi.URLParam(r, "productID"), in)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteProductHandler godoc
//
//	@Summary		Move a product to the trash
//	@Tags			products
//	@Produce		json
//	@Param			productID	path		string	true	"Product ID"
//	@Success		200			{object}	messageResponse
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/products/{productID} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.products.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, messageResponse{Message: "Moved to trash"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// bulkDeleteProductsHandler godoc
//
//	@Summary		Move several products to the trash
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		idsPayload	true	"Product ids"
//	@Success		200		{object}	countResponse
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/products [delete]
func (app *application) bulkDeleteProductsHandler(w http.ResponseWriter, r *http.Request) {
	var payload idsPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	n, err := app.products.BulkDelete(r.Context(), payload.IDs)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, countResponse{Message: "Moved to trash", Count: n}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// restoreProductHandler godoc
//
//	@Summary		Restore a product from the trash
//	@Tags			products
//	@Produce		json
//	@Param			productID	path		string	true	"Product ID"
//	@Success		200			{object}	restoreResponse
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/products/{productID}/restore [put]
func (app *application) restoreProductHandler(w http.ResponseWriter, r *http.Request) {
	p, err := app.products.Restore(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, restoreResponse{Message: "Restored", Product: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// purgeProductsHandler godoc
//
//	@Summary		Permanently remove products
//	@Description	Photos of purged products are left in the asset store.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		idsPayload	true	"Product ids"
//	@Success		200		{object}	countResponse
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/products/purge [delete]
func (app *application) purgeProductsHandler(w http.ResponseWriter, r *http.Request) {
	var payload idsPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	n, err := app.products.Purge(r.Context(), payload.IDs)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, countResponse{Message: "Purged", Count: n}); err != nil {
		app.internalServerError(w, r, err)
	}
}
