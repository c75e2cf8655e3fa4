package main

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"storefront/internal/assets"
	"storefront/internal/domain/users"
)

type userKey string

const userCtx userKey = "user"

const userFormMaxBytes = maxUserPhotoBytes + 1<<20

type RegisterUserPayload struct {
	Username string `json:"username" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type UpdateProfilePayload struct {
	Username string `json:"username" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

type userResponse struct {
	User *users.User `json:"user"`
}

// readUserForm fills dst from a JSON body, or from form fields plus an
// optional "photo" file when the request is multipart.
func readUserForm(w http.ResponseWriter, r *http.Request, dst map[string]*string) (*assets.Upload, error) {
	if !isMultipart(r) {
		body := map[string]string{}
		if err := readJSON(w, r, &body); err != nil {
			return nil, err
		}
		for k, v := range body {
			target, ok := dst[k]
			if !ok {
				return nil, fmt.Errorf("json: unknown field %q", k)
			}
			*target = v
		}
		return nil, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, userFormMaxBytes)
	if err := r.ParseMultipartForm(formMemoryBytes); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	for k, target := range dst {
		if v := formValue(r.MultipartForm, k); v != nil {
			*target = *v
		}
	}

	file, fh, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}
	file.Close()
	return userPhoto(fh)
}

func userPhoto(fh *multipart.FileHeader) (*assets.Upload, error) {
	up, err := checkImage(fh, maxUserPhotoBytes)
	if err != nil {
		return nil, err
	}
	return &up, nil
}

// registerUserHandler godoc
//
//	@Summary		Register a customer
//	@Description	JSON or multipart form data with an optional photo (3MB)
//	@Tags			auth
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			payload	body		RegisterUserPayload	true	"User credentials"
//	@Success		201		{object}	tokenResponse
//	@Failure		400		{object}	error
//	@Failure		409		{object}	error
//	@Failure		500		{object}	error
//	@Router			/register [post]
func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	defer removeMultipart(r)

	var payload RegisterUserPayload
	photo, err := readUserForm(w, r, map[string]*string{
		"username": &payload.Username,
		"email":    &payload.Email,
		"password": &payload.Password,
	})
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.users.Register(r.Context(), users.RegisterInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		Photo:    photo,
	})
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	token, err := app.authenticator.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, tokenResponse{Token: token, User: user}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// loginHandler godoc
//
//	@Summary		Log in
//	@Description	Exchanges email and password for a bearer token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		LoginPayload	true	"Credentials"
//	@Success		200		{object}	tokenResponse
//	@Failure		400		{object}	error
//	@Failure		401		{object}	error
//	@Router			/login [post]
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.users.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	token, err := app.authenticator.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, tokenResponse{Token: token, User: user}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// meHandler godoc
//
//	@Summary		Current user
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	userResponse
//	@Failure		401	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/auth/me [get]
func (app *application) meHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, userResponse{User: getUserFromContext(r)}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateProfileHandler godoc
//
//	@Summary		Update own profile
//	@Description	Changes every non-empty field. A new photo replaces the previous one.
//	@Tags			users
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			payload	body		UpdateProfilePayload	true	"Profile fields"
//	@Success		200		{object}	userResponse
//	@Failure		400		{object}	error
//	@Failure		409		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/user/profile [put]
func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	defer removeMultipart(r)

	var payload UpdateProfilePayload
	photo, err := readUserForm(w, r, map[string]*string{
		"username": &payload.Username,
		"email":    &payload.Email,
		"password": &payload.Password,
	})
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updated, err := app.users.UpdateProfile(r.Context(), user.ID, users.ProfileInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		Photo:    photo,
	})
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, userResponse{User: updated}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func getUserFromContext(r *http.Request) *users.User {
	if user, ok := r.Context().Value(userCtx).(*users.User); ok {
		return user
	}
	return nil
}
