package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"storefront/internal/assets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	byID map[string]*User
	fail error
}

func newMemStore() *memStore { return &memStore{byID: map[string]*User{}} }

func (m *memStore) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memStore) Create(_ context.Context, u *User) error {
	if m.fail != nil {
		return m.fail
	}
	u.ID = fmt.Sprintf("u%d", len(m.byID)+1)
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memStore) Update(_ context.Context, u *User) error {
	if m.fail != nil {
		return m.fail
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

type photoStore struct {
	deleted []string
}

func (p *photoStore) Upload(_ context.Context, r io.Reader) (assets.Asset, error) {
	b, _ := io.ReadAll(r)
	return assets.Asset{URL: "https://cdn.test/" + string(b), PublicID: string(b)}, nil
}

func (p *photoStore) Delete(_ context.Context, id string) error {
	p.deleted = append(p.deleted, id)
	return nil
}

func upload(name string) *assets.Upload {
	return &assets.Upload{
		Filename: name,
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(name)), nil },
	}
}

func newTestService() (*Service, *memStore, *photoStore) {
	store := newMemStore()
	photos := &photoStore{}
	return NewService(store, photos, zap.NewNop().Sugar()), store, photos
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "ana", Email: " Ana@Example.com ", Password: "secret", Photo: upload("face")})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, RoleCustomer, u.Role)
	require.NotNil(t, u.Photo)
	assert.Equal(t, "face", u.Photo.PublicID)

	logged, err := svc.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	_, err = svc.Login(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "a", Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "b", Email: "A@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterStoreFailureDiscardsPhoto(t *testing.T) {
	svc, store, photos := newTestService()
	store.fail = errors.New("insert failed")

	_, err := svc.Register(context.Background(), RegisterInput{Username: "a", Email: "a@example.com", Password: "pw", Photo: upload("face")})
	require.Error(t, err)
	assert.Equal(t, []string{"face"}, photos.deleted)
}

func TestUpdateProfileReplacesPhoto(t *testing.T) {
	svc, _, photos := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "a", Email: "a@example.com", Password: "pw", Photo: upload("old")})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{Username: "ann", Password: "new", Photo: upload("new")})
	require.NoError(t, err)

	assert.Equal(t, "ann", updated.Username)
	assert.Equal(t, "a@example.com", updated.Email)
	assert.Equal(t, "new", updated.Photo.PublicID)
	assert.Equal(t, []string{"old"}, photos.deleted)

	_, err = svc.Login(ctx, "a@example.com", "new")
	assert.NoError(t, err)
}

func TestUpdateProfileWithoutPhotoKeepsIt(t *testing.T) {
	svc, _, photos := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "a", Email: "a@example.com", Password: "pw", Photo: upload("old")})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{Email: "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "old", updated.Photo.PublicID)
	assert.Empty(t, photos.deleted)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.UpdateProfile(context.Background(), "missing", ProfileInput{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
