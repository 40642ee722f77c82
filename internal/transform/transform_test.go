package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleURL = "https://res.cloudinary.com/demo/image/upload/sample.jpg"

func TestApplyDisabledReturnsInput(t *testing.T) {
	cfg := Config{Enabled: false, Width: 200, Height: 100, Format: "webp"}
	assert.Equal(t, sampleURL, Apply(sampleURL, cfg))
}

func TestApplyNoTokensReturnsInput(t *testing.T) {
	assert.Equal(t, sampleURL, Apply(sampleURL, Config{Enabled: true}))
}

func TestApplyForeignHostReturnsInput(t *testing.T) {
	in := "https://example.com/a/b.png"
	assert.Equal(t, in, Apply(in, Config{Enabled: true, Width: 100}))
}

func TestApplyMalformedURLReturnsInput(t *testing.T) {
	in := "https://res.cloudinary.com/%zz/upload/x.jpg"
	assert.Equal(t, in, Apply(in, Config{Enabled: true, Width: 100}))
}

func TestApplyNoUploadSegmentReturnsInput(t *testing.T) {
	in := "https://res.cloudinary.com/demo/image/fetch/sample.jpg"
	assert.Equal(t, in, Apply(in, Config{Enabled: true, Width: 100}))
}

func TestApplyInsertsTransformationSegment(t *testing.T) {
	got := Apply(sampleURL, Config{Enabled: true, Width: 200, Height: 100})
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/w_200,h_100/sample.jpg", got)
}

func TestApplyTokenOrder(t *testing.T) {
	cfg := Config{
		Enabled: true,
		Width:   200,
		Height:  100,
		Quality: "80",
		Format:  "auto",
		Crop:    "fill",
	}
	got := Apply(sampleURL, cfg)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/w_200,h_100,c_fill,q_80,f_auto/sample.jpg", got)
}

func TestApplyFormatSwapsExtension(t *testing.T) {
	got := Apply(sampleURL, Config{Enabled: true, Format: "webp"})
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/f_webp/sample.webp", got)
}

func TestApplyFormatAutoKeepsExtension(t *testing.T) {
	got := Apply(sampleURL, Config{Enabled: true, Format: "auto"})
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/f_auto/sample.jpg", got)
}

func TestApplyFormatWithoutExtension(t *testing.T) {
	in := "https://res.cloudinary.com/demo/image/upload/sample"
	got := Apply(in, Config{Enabled: true, Format: "webp"})
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/f_webp/sample", got)
}

func TestApplyVersionedPath(t *testing.T) {
	in := "https://res.cloudinary.com/demo/image/upload/v1712345678/folder/pic.png"
	got := Apply(in, Config{Enabled: true, Width: 640, Quality: "auto"})
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/w_640,q_auto/v1712345678/folder/pic.png", got)
}

func TestApplyPreservesQueryString(t *testing.T) {
	in := sampleURL + "?x=1"
	got := Apply(in, Config{Enabled: true, Width: 10})
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/w_10/sample.jpg?x=1", got)
}

func TestTokensEmptyConfig(t *testing.T) {
	assert.Empty(t, Config{}.Tokens())
}
