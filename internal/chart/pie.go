package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/ricardonunez-io/reviewlens/internal/aggregator"
	"github.com/ricardonunez-io/reviewlens/internal/analyzer"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Title  = "Sentiment Breakdown"
	Width  = 600
	Height = 480
	radius = 170
)

var ErrNoData = errors.New("no sentiments to chart")

var sliceColors = map[analyzer.Sentiment]color.NRGBA{
	analyzer.Positive: {R: 0x2e, G: 0x9e, B: 0x44, A: 0xff},
	analyzer.Neutral:  {R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff},
	analyzer.Negative: {R: 0xd6, G: 0x33, B: 0x33, A: 0xff},
}

func SliceColor(s analyzer.Sentiment) color.NRGBA {
	return sliceColors[s]
}

// RenderPie draws the breakdown as a PNG pie chart, slices clockwise from
// twelve o'clock in Positive, Neutral, Negative order.
func RenderPie(b aggregator.Breakdown) ([]byte, error) {
	if b.Total == 0 {
		return nil, ErrNoData
	}

	img := imaging.New(Width, Height, color.White)
	slices := b.Slices()
	center := image.Pt(Width/2-80, Height/2+15)

	bounds := make([]float64, len(slices))
	cum, last := 0, 0
	for i, s := range slices {
		cum += s.Count
		bounds[i] = float64(cum) / float64(b.Total) * 2 * math.Pi
		if s.Count > 0 {
			last = i
		}
	}
	// the last colored slice closes the circle
	bounds[last] = 2 * math.Pi

	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			dx, dy := float64(x-center.X), float64(y-center.Y)
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			angle := math.Atan2(dy, dx) + math.Pi/2
			if angle < 0 {
				angle += 2 * math.Pi
			}
			for i, bound := range bounds {
				if (angle <= bound || i == last) && slices[i].Count > 0 {
					img.SetNRGBA(x, y, sliceColors[slices[i].Label])
					break
				}
			}
		}
	}

	drawText(img, Width/2-len(Title)*7/2, 30, Title)

	legendX := center.X + radius + 30
	for i, s := range slices {
		y := center.Y - 30 + i*24
		fillRect(img, image.Rect(legendX, y-10, legendX+12, y+2), sliceColors[s.Label])
		drawText(img, legendX+18, y, fmt.Sprintf("%s %d (%.1f%%)", s.Label, s.Count, s.Percent))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}

	log.Info().Int("total", b.Total).Int("bytes", buf.Len()).Msg("Rendered sentiment chart")
	return buf.Bytes(), nil
}

func drawText(img *image.NRGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}
