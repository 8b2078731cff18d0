package image

import (
	"strings"

	"github.com/distribution/reference"
	"github.com/pkg/errors"
)

// Reference is the normalized view of an image reference, as a registry client
// would resolve it. It is used for reporting only.
type Reference struct {
	Original   string `json:"image"`
	Registry   string `json:"registry"`
	Repository string `json:"repository"`
	Tag        string `json:"tag"`
}

// String returns registry/repository:tag.
func (r *Reference) String() string {
	return r.Registry + PathSeparator + r.Repository + TagSeparator + r.Tag
}

// Describe normalizes ref with the distribution reference grammar, filling in
// the implicit docker.io registry, library/ namespace and latest tag.
func Describe(ref string) (*Reference, error) {
	if ref == "" {
		return nil, ErrEmptyImageString
	}
	if !IsValid(ref) {
		return nil, errors.Wrapf(ErrInvalidImageString, "%q", ref)
	}

	named, err := reference.ParseNormalizedNamed(strings.ToLower(ref))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse image reference %q", ref)
	}
	named = reference.TagNameOnly(named)

	result := &Reference{
		Original:   ref,
		Registry:   reference.Domain(named),
		Repository: reference.Path(named),
		Tag:        DefaultTag,
	}
	if tagged, ok := named.(reference.Tagged); ok {
		result.Tag = tagged.Tag()
	}
	return result, nil
}
