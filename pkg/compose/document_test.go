package compose

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lucas-albers-lz4/cmig/pkg/fileutil"
)

func TestParseRejectsNonMappingDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "comment only", content: "# nothing here\n"},
		{name: "null document", content: "---\n"},
		{name: "sequence root", content: "- web\n- db\n"},
		{name: "scalar root", content: "just a string\n"},
		{name: "malformed", content: "services:\n  web: [unterminated\n"},
		{name: "tab indentation", content: "services:\n\tweb:\n"},
		{name: "multiple documents", content: "a: {image: nginx}\n---\nb: {image: redis}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, ErrInvalidFormat), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/stack/docker-compose.yml", []byte("services:\n  web:\n    image: nginx\n"), fileutil.ReadWriteUserReadOthers))
	require.NoError(t, afero.WriteFile(fs, "/stack/broken.yml", []byte("- not\n- a mapping\n"), fileutil.ReadWriteUserReadOthers))

	doc, err := Load(fs, "/stack/docker-compose.yml")
	require.NoError(t, err)
	require.NotNil(t, doc.Root())
	assert.Equal(t, yaml.MappingNode, doc.Root().Kind)

	_, err = Load(fs, "/stack/missing.yml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "/stack/missing.yml")

	_, err = Load(fs, "/stack/broken.yml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Contains(t, err.Error(), "/stack/broken.yml")
}

func TestEncodeKeepsOrderCommentsAndStyle(t *testing.T) {
	input := `# production stack
services:
  web:
    image: "nginx:1.0" # pinned
    ports:
      - "80:80"
  cache:
    image: redis
  api:
    build:
      context: ./api
      image: acme/api:2
x-note: untouched
`
	doc, err := Parse([]byte(input))
	require.NoError(t, err)

	_, err = MigrateImages(doc, "registry.example.com", nil)
	require.NoError(t, err)

	out, err := doc.Bytes()
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "# production stack")
	assert.Contains(t, text, `image: "registry.example.com/nginx:1.0" # pinned`)
	assert.Contains(t, text, "image: registry.example.com/redis:latest")
	assert.Contains(t, text, "image: registry.example.com/api:2")
	assert.Contains(t, text, "x-note: untouched")

	order := []string{"\n  web:", "\n  cache:", "\n  api:", "\nx-note:"}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		require.GreaterOrEqual(t, idx, 0, "missing %q", key)
		assert.Greater(t, idx, last, "%q out of order", key)
		last = idx
	}
}
