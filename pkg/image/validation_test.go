package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "bare name", input: "nginx", want: true},
		{name: "namespace and tag", input: "library/nginx:1.21", want: true},
		{name: "registry namespace and tag", input: "my.registry.io/ns/app-name:v2_0", want: true},
		{name: "uppercase is lowercased first", input: "UPPER/case", want: true},
		{name: "mixed case tag", input: "Redis:Alpine", want: true},
		{name: "deep path", input: "a/b/c/d/e", want: true},
		{name: "empty", input: "", want: false},
		{name: "double slash", input: "bad//double-slash", want: false},
		{name: "leading colon", input: ":leadingcolon", want: false},
		{name: "double colon", input: "bad::name", want: false},
		{name: "two tags", input: "nginx:1:2", want: false},
		{name: "registry with port", input: "localhost:5000/app", want: false},
		{name: "digest", input: "nginx@sha256:abcdef", want: false},
		{name: "trailing separator", input: "nginx-", want: false},
		{name: "doubled separator", input: "ng..inx", want: false},
		{name: "trailing slash", input: "nginx/", want: false},
		{name: "empty tag", input: "nginx:", want: false},
		{name: "template variable", input: "${IMAGE}", want: false},
		{name: "whitespace", input: " nginx", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.input), "IsValid(%q)", tt.input)
		})
	}
}
