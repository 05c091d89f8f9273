package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string   `json:"name" yaml:"name"`
	Count  int      `json:"count" yaml:"count"`
	Tags   []string `json:"tags" yaml:"tags"`
	Hidden int      `json:"-" yaml:"-"`
	Inner  *inner   `json:"inner,omitempty" yaml:"inner,omitempty"`
}

type inner struct {
	Value float64 `json:"value" yaml:"value"`
}

func TestWriterFormats(t *testing.T) {
	v := sample{Name: "posix", Count: 3, Tags: []string{"a", "b"}, Hidden: 7, Inner: &inner{Value: 1.5}}

	tests := []struct {
		format Format
		want   []string
	}{
		{FormatJSON, []string{`"name": "posix"`, `"count": 3`, `"value": 1.5`}},
		{FormatYAML, []string{"name: posix", "count: 3", "  value: 1.5"}},
		{FormatTable, []string{"FIELD", "name", "posix", "tags[1]", "inner.value"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewWriter(tt.format, &buf).Serialize(context.Background(), v))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
			assert.NotContains(t, buf.String(), "Hidden")
		})
	}
}

func TestWriterUnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter("xml", &buf).Serialize(context.Background(), map[string]int{"a": 1}))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestWriterEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), struct{}{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("a.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("a.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("a.yaml"))
	assert.Equal(t, FormatTable, FormatFromPath("a.txt"))
	assert.Equal(t, FormatYAML, FormatFromPath("fsmond.conf"))
}

func TestReader(t *testing.T) {
	r, err := NewReader(FormatYAML, strings.NewReader("name: dht\ncount: 2\n"))
	require.NoError(t, err)
	var got sample
	require.NoError(t, r.Deserialize(&got))
	assert.Equal(t, "dht", got.Name)
	assert.Equal(t, 2, got.Count)
	require.NoError(t, r.Close())

	r, err = NewReader(FormatYAML, strings.NewReader("bogus: 1\n"))
	require.NoError(t, err)
	assert.Error(t, r.Deserialize(&got))

	_, err = NewReader(FormatTable, strings.NewReader(""))
	assert.Error(t, err)

	var nilReader *Reader
	assert.Error(t, nilReader.Deserialize(&got))
	assert.NoError(t, nilReader.Close())
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"afr","count":9}`), 0o600))

	var got sample
	require.NoError(t, FromFile(path, &got))
	assert.Equal(t, "afr", got.Name)
	assert.Equal(t, 9, got.Count)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	assert.NoError(t, FromFile(empty, &got))

	assert.Error(t, FromFile(filepath.Join(dir, "missing.yaml"), &got))
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusAccepted, map[string]string{"path": "/tmp/glusterfs.1"})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"path":"/tmp/glusterfs.1"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, func() {})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
