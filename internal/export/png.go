package export

import (
	"fmt"
	"io"
	"os"

	"github.com/gogpu/gg"

	"Kaleidoboard/internal/render"
	"Kaleidoboard/internal/state"
)

// WritePNG replays segs onto a fresh raster canvas and encodes it to w.
func WritePNG(w io.Writer, segs []state.Segment, width, height int, background gg.RGBA) error {
	s := render.NewRasterSurface(width, height)
	defer s.Close()

	s.Background(background)
	for _, seg := range segs {
		render.RenderAt(seg, s)
	}
	if err := s.WritePNG(w); err != nil {
		return err
	}
	render.Logger().Info("[EXPORT] png written", "segments", len(segs), "width", width, "height", height)
	return nil
}

// WritePNGFile is WritePNG to a file at path.
func WritePNGFile(path string, segs []state.Segment, width, height int, background gg.RGBA) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WritePNG(f, segs, width, height, background)
}
