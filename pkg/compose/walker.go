package compose

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lucas-albers-lz4/cmig/pkg/image"
	log "github.com/lucas-albers-lz4/cmig/pkg/log"
)

const (
	servicesKey = "services"
	imageKey    = "image"
	buildKey    = "build"
	strTag      = "!!str"
)

// Field names the location of an image reference inside a service.
type Field string

const (
	// FieldImage is the service's own image key.
	FieldImage Field = "image"
	// FieldBuildImage is the image key of the service's build mapping.
	FieldBuildImage Field = "build.image"
)

// Rewrite records one image reference replaced by MigrateImages.
type Rewrite struct {
	Service string `json:"service"`
	Field   Field  `json:"field"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// Matcher decides whether an image may be rewritten. targets.Set implements it.
type Matcher interface {
	ShouldMigrate(ref string) bool
}

// imageRef is a located, valid image reference.
type imageRef struct {
	service string
	field   Field
	parent  *yaml.Node // service or build mapping the reference belongs to
	owner   *yaml.Node // mapping holding the image key; differs from parent when merged in
	index   int        // index of the value node in owner.Content
	value   string     // reference as read, before any rewrite
}

// set replaces the reference. An aliased scalar is replaced by a fresh node so
// the anchor and its other aliases keep their value. An image inherited through
// a merge key gets an explicit image key on parent, leaving the merged mapping
// untouched.
func (r imageRef) set(v string) {
	scalar := &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: v}
	if r.owner != r.parent {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: imageKey}
		r.parent.Content = append(r.parent.Content, key, scalar)
		return
	}
	n := r.owner.Content[r.index]
	if n.Kind == yaml.AliasNode {
		r.owner.Content[r.index] = scalar
		return
	}
	n.Value = v
}

// Services returns the mapping of service name to definition: the value of a
// top-level 'services' key when present, otherwise the root itself.
func (d *Document) Services() (*yaml.Node, error) {
	root := d.Root()
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: root is not a mapping", ErrInvalidFormat)
	}

	services, _, idx := lookupMerged(root, servicesKey)
	if idx < 0 {
		return root, nil
	}
	services = resolve(services)
	if services.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: '%s' is not a mapping", ErrInvalidFormat, servicesKey)
	}
	return services, nil
}

// ExtractImages returns the distinct valid image references of all services,
// sorted ascending.
func ExtractImages(d *Document) ([]string, error) {
	refs, err := findImages(d)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(refs))
	images := make([]string, 0, len(refs))
	for _, ref := range refs {
		v := ref.value
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		images = append(images, v)
	}
	sort.Strings(images)
	return images, nil
}

// MigrateImages rewrites every valid image reference accepted by allow (nil
// accepts all) to live under newRegistry, using image.Transform. It returns the
// rewrites in document order. Everything else in the document is left as is.
func MigrateImages(d *Document, newRegistry string, allow Matcher) ([]Rewrite, error) {
	refs, err := findImages(d)
	if err != nil {
		return nil, err
	}

	rewrites := make([]Rewrite, 0, len(refs))
	for _, ref := range refs {
		from := ref.value
		if allow != nil && !allow.ShouldMigrate(from) {
			log.Debug("Image not in target list, skipping", "service", ref.service, "field", ref.field, "image", from)
			continue
		}
		to := image.Transform(from, newRegistry)
		ref.set(to)
		rewrites = append(rewrites, Rewrite{Service: ref.service, Field: ref.field, From: from, To: to})
		log.Debug("Rewrote image", "service", ref.service, "field", ref.field, "from", from, "to", to)
	}
	return rewrites, nil
}

// findImages walks the services and collects valid image references in
// document order. Values are captured before any rewrite, so a service merging
// another service's mapping sees the original reference. A service mapping shared through an alias is visited once.
// Merge keys are expanded for services, image and build.
func findImages(d *Document) ([]imageRef, error) {
	services, err := d.Services()
	if err != nil {
		return nil, err
	}

	var refs []imageRef
	visited := make(map[*yaml.Node]bool)
	pairs := entries(services)
	for _, pair := range pairs {
		name := pair[0].Value
		svc := resolve(pair[1])
		if svc == nil || svc.Kind != yaml.MappingNode || visited[svc] {
			continue
		}
		visited[svc] = true

		if ref, ok := imageAt(svc, name, FieldImage); ok {
			refs = append(refs, ref)
		}
		if build, _, idx := lookupMerged(svc, buildKey); idx >= 0 {
			if build = resolve(build); build.Kind == yaml.MappingNode && !visited[build] {
				visited[build] = true
				if ref, ok := imageAt(build, name, FieldBuildImage); ok {
					refs = append(refs, ref)
				}
			}
		}
	}
	log.Debug("Scanned services for images", "services", len(pairs), "images", len(refs))
	return refs, nil
}

// imageAt returns the image key of mapping m when it holds a non-empty string
// that is a valid image reference.
func imageAt(m *yaml.Node, service string, field Field) (imageRef, bool) {
	value, owner, idx := lookupMerged(m, imageKey)
	if idx < 0 {
		return imageRef{}, false
	}
	value = resolve(value)
	if value == nil || value.Kind != yaml.ScalarNode || value.ShortTag() != strTag || value.Value == "" {
		return imageRef{}, false
	}
	if !image.IsValid(value.Value) {
		log.Debug("Skipping invalid image reference", "service", service, "field", field, "image", value.Value)
		return imageRef{}, false
	}
	return imageRef{service: service, field: field, parent: m, owner: owner, index: idx, value: value.Value}, true
}
