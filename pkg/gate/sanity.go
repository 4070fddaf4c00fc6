package gate

import (
	"bytes"
	"context"
	"fmt"
	"image"

	_ "image/jpeg" // raster panels arrive as JPEG or PNG
	_ "image/png"

	"github.com/parti-studio/parti/pkg/errors"
	"github.com/parti-studio/parti/pkg/spec"
)

// drawn reports whether a pixel carries content. Panels render dark
// linework on a light canvas, so anything visibly darker than the
// paper counts, and fully transparent pixels never do.
func drawn(r, g, b, a uint32) bool {
	if a < 0x8000 {
		return false
	}
	// 16-bit channels; ~92% white is the paper threshold.
	const paper = 0xEB00
	return r < paper || g < paper || b < paper
}

// checkSanity decodes a rasterized technical panel and validates its
// drawn-content distribution: occupancy ratio, bounding-box ratio, and
// an absolute thin-strip floor for degenerate axis-collapsed output.
// An undecodable image is returned as an error; threshold misses are
// returned as failure reasons.
func checkSanity(ctx context.Context, data []byte, cfg spec.SanityConfig) ([]string, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeGateSanity, "empty panel image")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGateSanity, err, "decode panel image")
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, errors.New(errors.ErrCodeGateSanity, "zero-size panel image")
	}

	var count int
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "sanity scan cancelled")
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if drawn(img.At(x, y).RGBA()) {
				count++
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	var reasons []string

	occupancy := float64(count) / float64(w*h)
	if occupancy < cfg.MinOccupancy {
		reasons = append(reasons, fmt.Sprintf(
			"Content occupancy %.1f%% below %.0f%% minimum",
			occupancy*100, cfg.MinOccupancy*100))
	}

	if count == 0 {
		return reasons, nil
	}

	bboxW := float64(maxX-minX+1) / float64(w)
	bboxH := float64(maxY-minY+1) / float64(h)
	if bboxW < cfg.MinBBoxRatio {
		reasons = append(reasons, fmt.Sprintf(
			"Content bounding box width %.1f%% below %.0f%% minimum",
			bboxW*100, cfg.MinBBoxRatio*100))
	}
	if bboxH < cfg.MinBBoxRatio {
		reasons = append(reasons, fmt.Sprintf(
			"Content bounding box height %.1f%% below %.0f%% minimum",
			bboxH*100, cfg.MinBBoxRatio*100))
	}
	if bboxW < cfg.ThinStripFloor || bboxH < cfg.ThinStripFloor {
		reasons = append(reasons, fmt.Sprintf(
			"Degenerate thin-strip content below %.0f%% of canvas",
			cfg.ThinStripFloor*100))
	}

	return reasons, nil
}
