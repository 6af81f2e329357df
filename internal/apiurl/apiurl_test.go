package apiurl

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEndpoints(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://localhost:8324/api/thumbnail/42", ThumbnailURL("42"))
	assert.Equal(t, "http://localhost:8324/api/image/42", ImageURL("42"))
	assert.Equal(t, "http://localhost:8324/api/image/details/42", ImageDetailsURL("42"))
	assert.Equal(t, "http://localhost:8324/api/thumbnail/42", ThumbnailURL(ID(42)))
}

func TestImagePathEncoding(t *testing.T) {
	t.Parallel()

	got := ImagePathURL("/a/b c.jpg")
	assert.Equal(t, "http://localhost:8324/api/image/path?file_path=%2Fa%2Fb%20c.jpg", got)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/a/b c.jpg", u.Query().Get("file_path"))
}

func TestEncodeComponent(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"", ""},
		{"plain", "plain"},
		{"a b", "a%20b"},
		{"a+b", "a%2Bb"},
		{"x&y=z", "x%26y%3Dz"},
		{"it's (1)*!", "it's%20(1)*!"},
		{"~_-.", "~_-."},
		{"照片/猫.png", "%E7%85%A7%E7%89%87%2F%E7%8C%AB.png"},
		{`C:\Users\me\a.jpg`, "C%3A%5CUsers%5Cme%5Ca.jpg"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EncodeComponent(tt.in), "input %q", tt.in)
	}
}

func TestDetailsIsImageWithDetailsSegment(t *testing.T) {
	t.Parallel()

	b := New(DefaultBase)
	for _, id := range []string{"1", "abc", "999999"} {
		image := b.Image(id)
		idx := strings.LastIndex(image, "/")
		assert.Equal(t, image[:idx]+"/details"+image[idx:], b.ImageDetails(id))
	}
}

func TestIDsAreNotEncoded(t *testing.T) {
	t.Parallel()

	b := New(DefaultBase)
	assert.Equal(t, "http://localhost:8324/api/image/a b", b.Image("a b"))
	assert.Equal(t, "http://localhost:8324/api/thumbnail/", b.Thumbnail(""))
}

func TestCustomBase(t *testing.T) {
	t.Parallel()

	b := New("http://127.0.0.1:9000/api/")
	assert.Equal(t, "http://127.0.0.1:9000/api", b.Base())
	assert.Equal(t, "http://127.0.0.1:9000/api/thumbnail/7", b.Thumbnail("7"))
	assert.Equal(t, "http://127.0.0.1:9000/api/health", b.Health())
}

func TestExtendedResources(t *testing.T) {
	t.Parallel()

	b := Default()
	assert.Equal(t, "http://localhost:8324/api/image/path/5", b.ImageFilePath("5"))
	assert.Equal(t, "http://localhost:8324/api/images", b.Images(0, 10))
	assert.Equal(t, "http://localhost:8324/api/images?limit=50&offset=100", b.Images(50, 100))
	assert.Equal(t, "http://localhost:8324/api/images?limit=50&offset=0", b.Images(50, -3))
	assert.Equal(t, "http://localhost:8324/api/directories", b.Directories())
	assert.Equal(t, "http://localhost:8324/api/directories/3", b.Directory("3"))
}

func TestEndpointsDescriptor(t *testing.T) {
	t.Parallel()

	b := Default()
	eps := b.Endpoints()

	require.Len(t, eps, 9)
	assert.Equal(t, b.Thumbnail("9"), eps[Thumbnail]("9"))
	assert.Equal(t, b.Image("9"), eps[Image]("9"))
	assert.Equal(t, b.ImagePath("/x y"), eps[ImagePath]("/x y"))
	assert.Equal(t, b.ImageDetails("9"), eps[ImageDetails]("9"))
	assert.Equal(t, b.Health(), eps[Health]("ignored"))
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	tpl := Default().Templates()
	assert.Equal(t, "http://localhost:8324/api/thumbnail/{param}", tpl[Thumbnail])
	assert.Equal(t, "http://localhost:8324/api/image/path?file_path={param}", tpl[ImagePath])
	assert.Equal(t, "http://localhost:8324/api/health", tpl[Health])
}
