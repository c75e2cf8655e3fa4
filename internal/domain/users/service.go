package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/assets"

	"go.uber.org/zap"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Photo    *assets.Upload
}

// ProfileInput changes every non-empty field.
type ProfileInput struct {
	Username string
	Email    string
	Password string
	Photo    *assets.Upload
}

// Service registers and authenticates customers. Profile photos live in the
// asset store.
type Service struct {
	store  Store
	photos assets.Store
	logger *zap.SugaredLogger
}

func NewService(store Store, photos assets.Store, logger *zap.SugaredLogger) *Service {
	return &Service{store: store, photos: photos, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := &User{
		Username: strings.TrimSpace(in.Username),
		Email:    email,
		Role:     RoleCustomer,
	}
	if err := user.Password.Set(in.Password); err != nil {
		return nil, err
	}

	photo, err := s.uploadPhoto(ctx, in.Photo)
	if err != nil {
		return nil, err
	}
	user.Photo = photo

	if err := s.store.Create(ctx, user); err != nil {
		s.discardPhoto(ctx, user.Photo)
		return nil, err
	}
	return user, nil
}

// Login returns ErrInvalidCredentials for an unknown email and a wrong
// password alike.
func (s *Service) Login(ctx context.Context, email, pass string) (*User, error) {
	user, err := s.store.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := user.Password.Compare(pass); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateProfile applies the changes and replaces the photo. The previous
// photo is removed from the asset store only after the record is saved.
func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.Username); v != "" {
		user.Username = v
	}
	if v := normalizeEmail(in.Email); v != "" {
		user.Email = v
	}
	if in.Password != "" {
		if err := user.Password.Set(in.Password); err != nil {
			return nil, err
		}
	}

	previous := user.Photo
	photo, err := s.uploadPhoto(ctx, in.Photo)
	if err != nil {
		return nil, err
	}
	if photo != nil {
		user.Photo = photo
	}

	if err := s.store.Update(ctx, user); err != nil {
		s.discardPhoto(ctx, photo)
		return nil, err
	}
	if photo != nil {
		s.discardPhoto(ctx, previous)
	}
	return user, nil
}

func (s *Service) uploadPhoto(ctx context.Context, up *assets.Upload) (*assets.Asset, error) {
	if up == nil {
		return nil, nil
	}
	uploaded, err := assets.UploadAll(ctx, s.photos, []assets.Upload{*up})
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}
	return &uploaded[0], nil
}

func (s *Service) discardPhoto(ctx context.Context, photo *assets.Asset) {
	if photo == nil || photo.PublicID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	if err := s.photos.Delete(ctx, photo.PublicID); err != nil {
		s.logger.Warnw("profile photo delete failed", "public_id", photo.PublicID, "err", err)
	}
}
