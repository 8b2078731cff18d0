package image

import "strings"

const (
	// DefaultTag is used when a reference carries no tag.
	DefaultTag = "latest"
	// TagSeparator separates the name from the tag.
	TagSeparator = ":"
	// PathSeparator separates registry and namespace segments.
	PathSeparator = "/"
)

// BaseName returns the reference without its tag, i.e. the text before the first ':'.
func BaseName(ref string) string {
	name, _, _ := strings.Cut(ref, TagSeparator)
	return name
}

// LastSegment returns the final '/'-separated segment of the untagged name.
func LastSegment(ref string) string {
	name := BaseName(ref)
	return name[strings.LastIndex(name, PathSeparator)+1:]
}

// Transform rewrites ref to live under newRegistry, keeping only the last path
// segment of the name and the tag (DefaultTag when absent):
//
//	Transform("library/nginx:1.21", "registry.example.com") == "registry.example.com/nginx:1.21"
//	Transform("redis", "registry.example.com")              == "registry.example.com/redis:latest"
//
// Namespace segments are dropped on purpose. An empty ref is returned unchanged.
func Transform(ref, newRegistry string) string {
	if ref == "" {
		return ref
	}

	parts := strings.Split(ref, TagSeparator)
	tag := DefaultTag
	if len(parts) > 1 {
		tag = parts[1]
	}
	return newRegistry + PathSeparator + LastSegment(parts[0]) + TagSeparator + tag
}
