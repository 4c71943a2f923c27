package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func TestFetchFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "dataset_*.json")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())
	if _, err := tmpFile.WriteString(`[]`); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()

	f := &Fetcher{}
	data, err := f.Fetch(context.Background(), tmpFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("Unexpected content %q", data)
	}

	if _, err := f.Fetch(context.Background(), tmpFile.Name()+".missing"); !errors.Is(err, ErrFetch) {
		t.Errorf("Expected ErrFetch, got %v", err)
	}
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/world.geojson" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	f := &Fetcher{HTTP: srv.Client()}
	data, err := f.Fetch(context.Background(), srv.URL+"/world.geojson")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseBoundaries(data); err != nil {
		t.Errorf("Expected valid boundaries, got %v", err)
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/nope"); !errors.Is(err, ErrFetch) {
		t.Errorf("Expected ErrFetch on 404, got %v", err)
	}
}

func TestFetchS3(t *testing.T) {
	f := &Fetcher{S3: &fakeS3{objects: map[string][]byte{"data/gdp/merged.json": []byte(`[1]`)}}}

	data, err := f.Fetch(context.Background(), "s3://data/gdp/merged.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[1]" {
		t.Errorf("Unexpected content %q", data)
	}

	if _, err := f.Fetch(context.Background(), "s3://data"); !errors.Is(err, ErrFetch) {
		t.Errorf("Expected ErrFetch for location without key, got %v", err)
	}
	if _, err := (&Fetcher{}).Fetch(context.Background(), "s3://data/x"); !errors.Is(err, ErrFetch) {
		t.Errorf("Expected ErrFetch without client, got %v", err)
	}
}

func TestLoadAll(t *testing.T) {
	f := &Fetcher{S3: &fakeS3{objects: map[string][]byte{
		"b/data.json": []byte(`[]`),
		"b/geo.json":  []byte(`{"features":[]}`),
	}}}

	p, err := f.LoadAll(context.Background(), "s3://b/data.json", "s3://b/geo.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(p.Dataset) != "[]" || string(p.Geo) != `{"features":[]}` {
		t.Errorf("Unexpected payload %q / %q", p.Dataset, p.Geo)
	}

	// One failure fails the whole load
	if _, err := f.LoadAll(context.Background(), "s3://b/data.json", "s3://b/missing.json"); !errors.Is(err, ErrFetch) {
		t.Errorf("Expected ErrFetch, got %v", err)
	}
}

func TestParseBoundaries(t *testing.T) {
	if _, err := ParseBoundaries([]byte(`{"type":"FeatureCollection"}`)); !errors.Is(err, ErrBoundaries) {
		t.Errorf("Expected ErrBoundaries without features, got %v", err)
	}
	if _, err := ParseBoundaries([]byte(`[`)); !errors.Is(err, ErrBoundaries) {
		t.Errorf("Expected ErrBoundaries for bad JSON, got %v", err)
	}
}

func TestNeedsS3(t *testing.T) {
	if NeedsS3("data.json", "https://x/y") {
		t.Error("No s3 location given")
	}
	if !NeedsS3("data.json", "s3://b/k") {
		t.Error("Expected s3 location to be detected")
	}
}
