package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"storefront/internal/domain/orders"
	"storefront/internal/params"

	"github.com/go-chi/chi/v5"
)

// LinePayload is one cart line. Name and price are accepted for older clients
// and never read.
type LinePayload struct {
	Product  string          `json:"product"`
	Quantity int             `json:"quantity"`
	Name     json.RawMessage `json:"name,omitempty" swaggerignore:"true"`
	Price    json.RawMessage `json:"price,omitempty" swaggerignore:"true"`
}

// Item checks are left to the order service so the messages stay stable.
type CreateTransactionPayload struct {
	Items           []LinePayload `json:"items"`
	ShippingAddress string        `json:"shippingAddress" validate:"max=500"`
	ContactPhone    string        `json:"contactPhone" validate:"max=30"`
	Notes           string        `json:"notes" validate:"max=1000"`
}

type UpdateStatusPayload struct {
	Status orders.Status `json:"status" validate:"required,oneof=pending paid shipped completed cancelled"`
}

type placedResponse struct {
	Message     string        `json:"message"`
	Transaction *orders.Order `json:"transaction"`
}

type myTransactionsResponse struct {
	Items []orders.Order `json:"items"`
}

type transactionPageResponse struct {
	Items      []orders.Order    `json:"items"`
	Pagination params.Pagination `json:"pagination"`
}

// createTransactionHandler godoc
//
//	@Summary		Place an order
//	@Description	Prices are read from the catalog; any client-sent price is ignored.
//	@Tags			transactions
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateTransactionPayload	true	"Cart lines and shipping"
//	@Success		201		{object}	placedResponse
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/transactions [post]
func (app *application) createTransactionHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateTransactionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	lines := make([]orders.LineRequest, 0, len(payload.Items))
	for _, it := range payload.Items {
		lines = append(lines, orders.LineRequest{ProductID: it.Product, Quantity: it.Quantity})
	}

	o, err := app.orders.Place(r.Context(), orders.PlaceInput{
		UserID:          user.ID,
		CustomerName:    user.Username,
		CustomerEmail:   user.Email,
		Items:           lines,
		ShippingAddress: payload.ShippingAddress,
		ContactPhone:    payload.ContactPhone,
		Notes:           payload.Notes,
	})
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, placedResponse{Message: "Order placed", Transaction: o}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// myTransactionsHandler godoc
//
//	@Summary		List own orders
//	@Tags			transactions
//	@Produce		json
//	@Success		200	{object}	myTransactionsResponse
//	@Security		ApiKeyAuth
//	@Router			/transactions/me [get]
func (app *application) myTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	list, err := app.orders.ListMine(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, myTransactionsResponse{Items: list}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminListTransactionsHandler godoc
//
//	@Summary		List all orders
//	@Tags			admin
//	@Produce		json
//	@Param			status	query		string	false	"Status filter"
//	@Param			page	query		int		false	"Page number"	default(1)
//	@Param			limit	query		int		false	"Page size"		default(10)
//	@Success		200		{object}	transactionPageResponse
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/transactions [get]
func (app *application) adminListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	list, pg, err := app.orders.List(r.Context(), orders.Status(q.Get("status")), params.ParsePagination(q))
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, transactionPageResponse{Items: list, Pagination: pg}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func orderIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid order id")
	}
	return id, nil
}

// adminGetTransactionHandler godoc
//
//	@Summary		Get an order
//	@Tags			admin
//	@Produce		json
//	@Param			orderID	path		int	true	"Order ID"
//	@Success		200		{object}	orders.Order
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/transactions/{orderID} [get]
func (app *application) adminGetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	o, err := app.orders.Get(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, o); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminUpdateTransactionStatusHandler godoc
//
//	@Summary		Set an order's status
//	@Description	Any status may follow any other.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			orderID	path		int					true	"Order ID"
//	@Param			payload	body		UpdateStatusPayload	true	"New status"
//	@Success		200		{object}	orders.Order
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/transactions/{orderID}/status [patch]
func (app *application) adminUpdateTransactionStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	o, err := app.orders.UpdateStatus(r.Context(), id, payload.Status)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, o); err != nil {
		app.internalServerError(w, r, err)
	}
}
