package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
)

// GeneratePNG encodes a plain white image of the given size.
func GeneratePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	return buf.Bytes()
}

// NewCandidate returns a valid record for a Mayo image placed in an org unit.
func NewCandidate(mayoImageID, orgUnitID, insertedBy string) *model.StoredImage {
	return &model.StoredImage{
		MayoImageID:      mayoImageID,
		MayoImageTitle:   "Title of " + mayoImageID,
		MayoThumbnailURL: fmt.Sprintf("https://mayo.example.com/thumbs/%s.jpg", mayoImageID),
		MayoFullImageURL: fmt.Sprintf("https://mayo.example.com/full/%s.jpg", mayoImageID),
		D2LImageURL:      fmt.Sprintf("https://d2l.example.com/content/%s/%s.jpg", orgUnitID, mayoImageID),
		D2LOrgUnitID:     orgUnitID,
		D2LFileName:      mayoImageID + ".jpg",
		D2LFilePath:      "/content/" + orgUnitID + "/" + mayoImageID + ".jpg",
		InsertedBy:       insertedBy,
	}
}

func Ptr[T any](v T) *T { return &v }
