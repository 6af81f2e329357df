// Package apiurl builds resource URLs for the local gallery REST API.
//
// Builders are pure: no validation, no errors. Identifiers are interpolated
// verbatim; callers pass URL-safe ids. Filesystem paths are percent-encoded
// as query values.
package apiurl

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultBase is the base address of the gallery backend.
const DefaultBase = "http://localhost:8324/api"

// Resource names used in the endpoint descriptor.
const (
	Thumbnail     = "thumbnail"
	Image         = "image"
	ImagePath     = "image-by-path"
	ImageDetails  = "image-details"
	ImageFilePath = "image-file-path"
	Images        = "images"
	Directories   = "directories"
	Directory     = "directory"
	Health        = "health"
)

// Builder computes URLs against a fixed base address.
type Builder struct {
	base string
}

// New returns a Builder for base. A trailing slash on base is dropped.
func New(base string) *Builder {
	return &Builder{base: strings.TrimRight(base, "/")}
}

// Base returns the base address without trailing slash.
func (b *Builder) Base() string {
	return b.base
}

// Thumbnail returns {base}/thumbnail/{id}.
func (b *Builder) Thumbnail(id string) string {
	return b.base + "/thumbnail/" + id
}

// Image returns {base}/image/{id}.
func (b *Builder) Image(id string) string {
	return b.base + "/image/" + id
}

// ImagePath returns {base}/image/path?file_path={path}, with path encoded the
// way a browser's encodeURIComponent does (space becomes %20, not +).
func (b *Builder) ImagePath(path string) string {
	return b.base + "/image/path?file_path=" + EncodeComponent(path)
}

// ImageDetails returns {base}/image/details/{id}.
func (b *Builder) ImageDetails(id string) string {
	return b.base + "/image/details/" + id
}

// ImageFilePath returns {base}/image/path/{id}, the stored file path of an image.
func (b *Builder) ImageFilePath(id string) string {
	return b.base + "/image/path/" + id
}

// Images returns the paged image listing URL. A non-positive limit omits both
// paging parameters.
func (b *Builder) Images(limit, offset int) string {
	if limit <= 0 {
		return b.base + "/images"
	}
	return b.base + "/images?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(max(offset, 0))
}

// Directories returns {base}/directories.
func (b *Builder) Directories() string {
	return b.base + "/directories"
}

// Directory returns {base}/directories/{id}.
func (b *Builder) Directory(id string) string {
	return b.base + "/directories/" + id
}

// Health returns {base}/health.
func (b *Builder) Health() string {
	return b.base + "/health"
}

// Endpoint computes a URL from a single caller-supplied parameter.
type Endpoint func(param string) string

// Endpoints returns the endpoint descriptor: resource name to URL function.
// Resources without a parameter ignore it.
func (b *Builder) Endpoints() map[string]Endpoint {
	return map[string]Endpoint{
		Thumbnail:     b.Thumbnail,
		Image:         b.Image,
		ImagePath:     b.ImagePath,
		ImageDetails:  b.ImageDetails,
		ImageFilePath: b.ImageFilePath,
		Images:        func(string) string { return b.Images(0, 0) },
		Directories:   func(string) string { return b.Directories() },
		Directory:     b.Directory,
		Health:        func(string) string { return b.Health() },
	}
}

// Templates returns each endpoint rendered with a "{param}" placeholder, for
// clients that fill in parameters themselves.
func (b *Builder) Templates() map[string]string {
	const placeholder = "{param}"
	out := make(map[string]string, 9)
	for name, fn := range b.Endpoints() {
		if name == ImagePath {
			out[name] = b.base + "/image/path?file_path=" + placeholder
			continue
		}
		out[name] = fn(placeholder)
	}
	return out
}

// EncodeComponent percent-encodes s as a URI component.
func EncodeComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	// encodeURIComponent leaves these unreserved marks alone
	for _, r := range []string{"!", "'", "(", ")", "*"} {
		escaped = strings.ReplaceAll(escaped, url.QueryEscape(r), r)
	}
	return escaped
}

// ID formats a numeric image or directory id.
func ID(id int64) string {
	return strconv.FormatInt(id, 10)
}

var defaultBuilder = New(DefaultBase)

// Default returns the Builder for DefaultBase.
func Default() *Builder { return defaultBuilder }

// ThumbnailURL returns the thumbnail URL of id against DefaultBase.
func ThumbnailURL(id string) string { return defaultBuilder.Thumbnail(id) }

// ImageURL returns the image URL of id against DefaultBase.
func ImageURL(id string) string { return defaultBuilder.Image(id) }

// ImagePathURL returns the by-path image URL of path against DefaultBase.
func ImagePathURL(path string) string { return defaultBuilder.ImagePath(path) }

// ImageDetailsURL returns the details URL of id against DefaultBase.
func ImageDetailsURL(id string) string { return defaultBuilder.ImageDetails(id) }
