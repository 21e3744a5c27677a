package viz

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"github.com/san-kum/ledsim/internal/display"
	"github.com/san-kum/ledsim/internal/pixel"
)

const gifPath = "ledsim.gif"

var unlitGray = color.RGBA{30, 30, 30, 255}

// FrameImage rasterizes f with the LED look of geo onto a Plan 9 palette.
func FrameImage(f pixel.Frame, bg pixel.RGB, geo display.Geometry) *image.Paletted {
	w, h := geo.Size(f.Width, f.Height)
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{10, 10, 10, 255}), image.Point{}, draw.Src)

	for p, c := range f.Pixels() {
		x, y, edge := geo.Cell(p.X, p.Y)
		var col color.Color = color.RGBA{c.R, c.G, c.B, 255}
		if c == bg {
			col = unlitGray
		}
		draw.Draw(rgba, image.Rect(x, y, x+edge, y+edge), image.NewUniform(col), image.Point{}, draw.Src)
	}

	img := image.NewPaletted(rgba.Bounds(), palette.Plan9)
	draw.Draw(img, img.Bounds(), rgba, image.Point{}, draw.Src)
	return img
}

// EncodeGIF writes frames as a looping animation, delay in 100ths of a second.
func EncodeGIF(w io.Writer, frames []pixel.Frame, bg pixel.RGB, geo display.Geometry, delay int) error {
	anim := gif.GIF{LoopCount: 0}
	for _, f := range frames {
		anim.Image = append(anim.Image, FrameImage(f, bg, geo))
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

func saveGIF(path string, frames []pixel.Frame, bg pixel.RGB, geo display.Geometry, delay int) error {
	if len(frames) == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeGIF(f, frames, bg, geo, delay); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
