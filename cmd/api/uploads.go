package main

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"storefront/internal/assets"
)

const (
	maxPhotosPerRequest = 8
	maxPhotoBytes       = 5 << 20
	maxUserPhotoBytes   = 3 << 20

	// form parts beyond this are spilled to temp files
	formMemoryBytes = 1 << 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func sniffMIME(file multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read: %w", err)
	}
	mime := http.DetectContentType(buf[:n])

	// reset so later reads start from byte 0
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek reset: %w", err)
	}
	return mime, nil
}

// removeMultipart deletes temp files left by ParseMultipartForm. Deferred
// before the form is read so failed reads are cleaned up too.
func removeMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// checkImage validates one uploaded file and turns it into an assets.Upload.
func checkImage(fh *multipart.FileHeader, maxBytes int64) (assets.Upload, error) {
	if fh.Size > maxBytes {
		return assets.Upload{}, fmt.Errorf("%s exceeds %d MB", fh.Filename, maxBytes>>20)
	}

	file, err := fh.Open()
	if err != nil {
		return assets.Upload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	mime, err := sniffMIME(file)
	file.Close()
	if err != nil {
		return assets.Upload{}, fmt.Errorf("sniff mime: %w", err)
	}
	if !allowedImageTypes[mime] {
		return assets.Upload{}, fmt.Errorf("invalid image type: %s", mime)
	}

	return assets.Upload{
		Filename: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}

// photoUploads collects the files sent as "photos" or "photos[]".
func photoUploads(form *multipart.Form) ([]assets.Upload, error) {
	if form == nil {
		return nil, nil
	}
	var headers []*multipart.FileHeader
	headers = append(headers, form.File["photos"]...)
	headers = append(headers, form.File["photos[]"]...)

	if len(headers) > maxPhotosPerRequest {
		return nil, fmt.Errorf("maximum %d photos allowed", maxPhotosPerRequest)
	}

	uploads := make([]assets.Upload, 0, len(headers))
	for _, fh := range headers {
		up, err := checkImage(fh, maxPhotoBytes)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, up)
	}
	return uploads, nil
}

// formValues returns the values posted under key or key[], and whether the
// field was present at all.
func formValues(form *multipart.Form, key string) ([]string, bool) {
	if form == nil {
		return nil, false
	}
	a, okA := form.Value[key]
	b, okB := form.Value[key+"[]"]
	if !okA && !okB {
		return nil, false
	}
	return append(append([]string{}, a...), b...), true
}

// formValue returns a pointer to the first value for key, nil when absent.
func formValue(form *multipart.Form, key string) *string {
	if form == nil {
		return nil
	}
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}
