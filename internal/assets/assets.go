// Package assets uploads and deletes binary photo files at an external asset
// store. Every stored file is addressed by a stable public id.
package assets

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Asset is a stored file: its public URL and the store's key for it.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Upload is a file waiting to be sent to the store.
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

type Store interface {
	Upload(ctx context.Context, r io.Reader) (Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// UploadAll sends every file to the store in parallel and returns the assets
// in input order. If any upload fails the error is returned together with the
// assets that did upload, so the caller can clean them up.
func UploadAll(ctx context.Context, s Store, files []Upload) ([]Asset, error) {
	if len(files) == 0 {
		return []Asset{}, nil
	}

	results := make([]Asset, len(files))
	done := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("open %q: %w", f.Filename, err)
			}
			defer rc.Close()

			a, err := s.Upload(gctx, rc)
			if err != nil {
				return fmt.Errorf("upload %q: %w", f.Filename, err)
			}
			results[i] = a
			done[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uploaded := make([]Asset, 0, len(files))
		for i, ok := range done {
			if ok {
				uploaded = append(uploaded, results[i])
			}
		}
		return uploaded, err
	}
	return results, nil
}

// DeleteReport is the outcome of a best-effort bulk delete.
type DeleteReport struct {
	Deleted []string
	Failed  map[string]error
}

func (r DeleteReport) OK() bool { return len(r.Failed) == 0 }

// DeleteAll issues one delete per public id concurrently. Failures are
// collected in the report and never retried.
func DeleteAll(ctx context.Context, s Store, publicIDs []string) DeleteReport {
	report := DeleteReport{Failed: map[string]error{}}
	if len(publicIDs) == 0 {
		return report
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, id := range publicIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := s.Delete(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[id] = err
				return
			}
			report.Deleted = append(report.Deleted, id)
		}(id)
	}
	wg.Wait()

	return report
}
