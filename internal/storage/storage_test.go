package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"alcyxob/gym-tracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonCatalog = `{
  "defaultSetsIfMissing": 3,
  "profiles": [{
    "id": "cecilia", "name": "Cecilia",
    "plans": [{"id": "cecilia-rutina-6", "name": "Rutina 6", "weeks": [
      {"week": 1, "days": [{"day": 1, "exercises": [
        {"name": "SENTADILLA", "reps": "12", "sets": 4},
        {"name": "REMO", "reps": "10+10+10", "sets": null}
      ]}]}
    ]}]
  }]
}`

const yamlCatalog = `
defaultSetsIfMissing: 3
profiles:
  - id: cecilia
    name: Cecilia
    plans:
      - id: cecilia-rutina-6
        name: Rutina 6
        weeks:
          - week: 1
            days:
              - day: 1
                exercises:
                  - name: SENTADILLA
                    reps: "12"
                    sets: 4
                  - name: REMO
                    reps: 10
                    sets: null
`

func TestDecodeCatalog_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := DecodeCatalog([]byte(jsonCatalog), FormatJSON)
	require.NoError(t, err)
	fromYAML, err := DecodeCatalog([]byte(yamlCatalog), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, 3, fromYAML.DefaultSetsIfMissing)
	exercises := fromYAML.DayExercises("cecilia", "cecilia-rutina-6", 1, 1)
	require.Len(t, exercises, 2)
	assert.Equal(t, "SENTADILLA", exercises[0].Name)
	require.NotNil(t, exercises[0].Sets)
	assert.Equal(t, 4, *exercises[0].Sets)
	assert.Nil(t, exercises[1].Sets)
	assert.JSONEq(t, "10", string(exercises[1].Reps))

	assert.Equal(t, fromJSON.DayExercises("cecilia", "cecilia-rutina-6", 1, 1)[0].Name, exercises[0].Name)

	_, err = DecodeCatalog([]byte("{"), FormatJSON)
	assert.Error(t, err)
	_, err = DecodeCatalog([]byte("a: [b"), FormatYAML)
	assert.Error(t, err)
}

func TestFormatFromName(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromName("routine.YML"))
	assert.Equal(t, FormatYAML, FormatFromName("catalog/routine.yaml"))
	assert.Equal(t, FormatJSON, FormatFromName("routine.json"))
	assert.Equal(t, FormatJSON, FormatFromName("routine"))
}

func TestFileCatalogSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlCatalog), 0o600))

	db, err := NewFileCatalogSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cecilia", db.Profiles[0].ID)

	_, err = NewFileCatalogSource(filepath.Join(dir, "missing.json")).Load(context.Background())
	assert.ErrorIs(t, err, ErrCatalogNotFound)
}

func TestNewCatalogSource(t *testing.T) {
	src, err := NewCatalogSource(config.Config{Catalog: config.CatalogConfig{Source: "file", Path: "routine.json"}})
	require.NoError(t, err)
	assert.Equal(t, "file routine.json", src.Describe())

	_, err = NewCatalogSource(config.Config{Catalog: config.CatalogConfig{Source: "ftp"}})
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, err = NewCatalogSource(config.Config{Catalog: config.CatalogConfig{Source: "s3"}})
	assert.Error(t, err, "bucket and key are required")
}

// fakeBucket is a minimal path-style S3 endpoint holding objects in memory.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]string
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch r.Method {
	case http.MethodGet:
		body, ok := b.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		io.WriteString(w, body)
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		b.objects[r.URL.Path] = string(data)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3CatalogSource(t *testing.T) {
	bucket := &fakeBucket{objects: map[string]string{"/plans/catalog/routine.json": jsonCatalog}}
	srv := httptest.NewServer(bucket)
	defer srv.Close()

	cfg := config.S3Config{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		BucketName:      "plans",
		CatalogKey:      "catalog/routine.json",
	}
	src, err := NewS3CatalogSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, "s3://plans/catalog/routine.json", src.Describe())

	db, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, db.DefaultSetsIfMissing)

	require.NoError(t, src.Publish(context.Background(), []byte(strings.Replace(jsonCatalog, `"defaultSetsIfMissing": 3`, `"defaultSetsIfMissing": 5`, 1)), FormatJSON))
	bucket.mu.Lock()
	stored := bucket.objects["/plans/catalog/routine.json"]
	bucket.mu.Unlock()
	assert.Contains(t, stored, `"defaultSetsIfMissing": 5`)

	assert.Error(t, src.Publish(context.Background(), []byte("{"), FormatJSON), "broken catalogs are not uploaded")

	// YAML published under a .json key is stored as JSON so Load can read it back.
	require.NoError(t, src.Publish(context.Background(), []byte(yamlCatalog), FormatYAML))
	fromYAML, err := src.Load(context.Background())
	require.NoError(t, err)
	expected, err := DecodeCatalog([]byte(yamlCatalog), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, expected, fromYAML)

	cfg.CatalogKey = "catalog/missing.json"
	missing, err := NewS3CatalogSource(cfg)
	require.NoError(t, err)
	_, err = missing.Load(context.Background())
	assert.ErrorIs(t, err, ErrCatalogNotFound)
}
