package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		name     string
		image    string
		registry string
		want     string
	}{
		{name: "namespace dropped tag kept", image: "library/nginx:1.21", registry: "registry.example.com", want: "registry.example.com/nginx:1.21"},
		{name: "default tag", image: "redis", registry: "registry.example.com", want: "registry.example.com/redis:latest"},
		{name: "empty input unchanged", image: "", registry: "x", want: ""},
		{name: "registry and namespaces dropped", image: "quay.io/org/team/app:v2", registry: "harbor.local/mirror", want: "harbor.local/mirror/app:v2"},
		{name: "registry used verbatim", image: "postgres:16", registry: "harbor.local/", want: "harbor.local//postgres:16"},
		{name: "only second colon part is the tag", image: "a:b:c", registry: "r", want: "r/a:b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transform(tt.image, tt.registry))
		})
	}
}

func TestBaseNameAndLastSegment(t *testing.T) {
	assert.Equal(t, "library/nginx", BaseName("library/nginx:1.21"))
	assert.Equal(t, "redis", BaseName("redis"))
	assert.Equal(t, "nginx", LastSegment("library/nginx:1.21"))
	assert.Equal(t, "redis", LastSegment("redis:7"))
	assert.Equal(t, "", LastSegment(""))
}
