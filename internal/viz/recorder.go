package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/san-kum/flocksim/internal/render"
)

var errNoFrames = errors.New("viz: nothing recorded")

// Recorder collects rendered frames for an animated GIF. Each grid pixel
// becomes a Dot x Dot square.
type Recorder struct {
	Dot    int
	Delay  int // hundredths of a second per frame
	frames []*image.Paletted
}

func NewRecorder() *Recorder {
	return &Recorder{Dot: 2, Delay: 2}
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Capture(g render.Grid) {
	w, h := g.Size()
	img := image.NewPaletted(image.Rect(0, 0, w*r.Dot, h*r.Dot), color.Palette{color.Black, color.White})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !g.Lit(x, y) {
				continue
			}
			for py := 0; py < r.Dot; py++ {
				for px := 0; px < r.Dot; px++ {
					img.SetColorIndex(x*r.Dot+px, y*r.Dot+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save encodes the recorded frames to path and resets the recorder.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return errNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.Delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	r.frames = nil
	return f.Close()
}
