package categories

import (
	"context"
	"strings"
)

// Service owns the category activation gate: names are unique after
// trimming, and the active set scopes storefront catalog queries.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type CreateInput struct {
	Name        string
	Description string
}

// UpdateInput changes the name when it is non-blank and the description when
// it is non-nil.
type UpdateInput struct {
	Name        *string
	Description *string
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]Category, error) {
	return s.store.List(ctx, activeOnly)
}

func (s *Service) Get(ctx context.Context, id string) (*Category, error) {
	return s.store.GetByID(ctx, id)
}

// ActiveNames lists the names of active categories.
func (s *Service) ActiveNames(ctx context.Context) ([]string, error) {
	return s.store.ActiveNames(ctx)
}

// Create adds an active category. The duplicate check runs before the insert
// and is not atomic with it; the unique index catches the race.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	exists, err := s.store.ExistsByName(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateCategory
	}

	c := &Category{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Category, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != "" && name != c.Name {
			exists, err := s.store.ExistsByName(ctx, name, id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrDuplicateCategory
			}
			c.Name = name
		}
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}

	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Toggle flips the active flag. Products in the category remain untouched.
func (s *Service) Toggle(ctx context.Context, id string) (*Category, error) {
	return s.store.Toggle(ctx, id)
}
