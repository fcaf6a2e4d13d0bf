package service

import (
	"bytes"
	"crypto/sha256"
	"image"
	"image/color"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

const (
	avatarGridSize  = 5
	avatarPixelSize = 256
	avatarQuality   = 80
)

// AvatarService renders fallback avatars locally. The client normally
// points at a hosted avatar generator, but the self-hosted gateway can
// serve deterministic identicons so profiles render offline too.
type AvatarService struct{}

func NewAvatarService() *AvatarService {
	return &AvatarService{}
}

// Render produces a WebP identicon for the seed. The same seed always
// yields the same image.
func (s *AvatarService) Render(seed string) ([]byte, error) {
	digest := sha256.Sum256([]byte(seed))

	fg := color.RGBA{
		R: 64 + digest[0]%128,
		G: 64 + digest[1]%128,
		B: 64 + digest[2]%128,
		A: 255,
	}
	bg := color.RGBA{R: 240, G: 240, B: 245, A: 255}

	// Mirror the left half onto the right so the pattern is symmetric.
	grid := image.NewRGBA(image.Rect(0, 0, avatarGridSize, avatarGridSize))
	for y := 0; y < avatarGridSize; y++ {
		for x := 0; x <= avatarGridSize/2; x++ {
			c := bg
			if digest[3+y*3+x]%2 == 0 {
				c = fg
			}
			grid.SetRGBA(x, y, c)
			grid.SetRGBA(avatarGridSize-1-x, y, c)
		}
	}

	scaled := image.NewRGBA(image.Rect(0, 0, avatarPixelSize, avatarPixelSize))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), grid, grid.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, scaled, &webp.Options{Quality: avatarQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
