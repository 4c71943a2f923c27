// Package source fetches the dataset and the boundary collection from a
// local path, an http(s) URL or an s3://bucket/key location.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

var ErrFetch = errors.New("fetch failed")

// Fetcher reads raw bytes from a location. S3 is only needed for s3://
// locations.
type Fetcher struct {
	HTTP *http.Client
	S3   ObjectGetter
}

func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	start := time.Now()
	data, err := f.fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, location, err)
	}
	log.Infof("fetched %s (%d bytes) in %v", location, len(data), time.Since(start))
	return data, nil
}

func (f *Fetcher) fetch(ctx context.Context, location string) ([]byte, error) {
	switch {
	case strings.HasPrefix(location, "s3://"):
		if f.S3 == nil {
			return nil, errors.New("no s3 client configured")
		}
		bucket, key, err := splitS3(location)
		if err != nil {
			return nil, err
		}
		return getObject(ctx, f.S3, bucket, key)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return f.get(ctx, location)
	}
	return os.ReadFile(location)
}

func (f *Fetcher) get(ctx context.Context, location string) ([]byte, error) {
	client := f.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func splitS3(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", err
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("malformed s3 location %q", location)
	}
	return u.Host, key, nil
}

// Payload is the raw startup input.
type Payload struct {
	Dataset []byte
	Geo     []byte
}

// LoadAll fetches the dataset and the boundary collection concurrently. The
// first failure cancels the other fetch.
func (f *Fetcher) LoadAll(ctx context.Context, dataset, geo string) (*Payload, error) {
	var p Payload
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := f.Fetch(ctx, dataset)
		p.Dataset = data
		return err
	})
	g.Go(func() error {
		data, err := f.Fetch(ctx, geo)
		p.Geo = data
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &p, nil
}

// NeedsS3 reports whether any location is on S3.
func NeedsS3(locations ...string) bool {
	for _, l := range locations {
		if strings.HasPrefix(l, "s3://") {
			return true
		}
	}
	return false
}
