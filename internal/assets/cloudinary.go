package assets

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary stores assets in one folder of a Cloudinary account.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cld *cloudinary.Cloudinary, folder string) *Cloudinary {
	return &Cloudinary{cld: cld, folder: folder}
}

// NewCloudinaryFromURL builds the client from a cloudinary:// URL.
func NewCloudinaryFromURL(rawURL, folder string) (*Cloudinary, error) {
	if rawURL == "" {
		return nil, errors.New("cloudinary url is empty")
	}
	cld, err := cloudinary.NewFromURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return NewCloudinary(cld, folder), nil
}

// Folder returns a store writing to another folder of the same account.
func (c *Cloudinary) Folder(folder string) *Cloudinary {
	return &Cloudinary{cld: c.cld, folder: folder}
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader) (Asset, error) {
	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:    c.folder,
		Overwrite: api.Bool(false),
	})
	if err != nil {
		return Asset{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	// API level failures come back in the payload, not as err
	if resp.Error.Message != "" {
		return Asset{}, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	return Asset{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, resp.Error.Message)
	}
	if resp.Result != "ok" {
		return fmt.Errorf("cloudinary destroy %s: result %q", publicID, resp.Result)
	}
	return nil
}
