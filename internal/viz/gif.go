package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	charW = 8
	charH = 16
)

// GIFRecorder rasterises canvas frames into an animated GIF.
type GIFRecorder struct {
	frames []*image.Paletted
	delay  int
}

// NewGIFRecorder records frames shown for delay hundredths of a second.
func NewGIFRecorder(delay int) *GIFRecorder {
	if delay < 1 {
		delay = 2
	}
	return &GIFRecorder{delay: delay}
}

func (r *GIFRecorder) Len() int { return len(r.frames) }

func (r *GIFRecorder) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), palette.Plan9)
	bg := uint8(img.Palette.Index(color.Black))
	for i := range img.Pix {
		img.Pix[i] = bg
	}

	dotW, dotH := charW/2, charH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - blank)
			if pattern == 0 {
				continue
			}
			idx := uint8(img.Palette.Index(cellColor(c.Colors[row][col])))
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					x0, y0 := col*charW+dx*dotW, row*charH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(x0+px, y0+py, idx)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func cellColor(hex string) color.Color {
	if hex == "" {
		return color.White
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.White
	}
	return c
}

// Save writes the recording to path and drops the captured frames.
func (r *GIFRecorder) Save(path string) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	r.frames = nil
	return nil
}
