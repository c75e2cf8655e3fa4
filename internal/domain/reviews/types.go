package reviews

import (
	"context"
	"errors"
	"time"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product"`
	UserID    string    `json:"user"`
	Rating    int       `json:"rating"` // 1-5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`

	// Joined fields
	ProductName string `json:"productName,omitempty"`
	UserName    string `json:"userName,omitempty"`
	UserEmail   string `json:"userEmail,omitempty"`
}

type Store interface {
	// List returns a page of reviews, newest first, for one product or for all
	// when productID is empty, plus the total count.
	List(ctx context.Context, productID string, limit, offset int) ([]Review, int, error)
	Create(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id string) error
}
