package export

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gogpu/gg"
	"github.com/jung-kurt/gofpdf"

	"Kaleidoboard/internal/render"
	"Kaleidoboard/internal/state"
)

// PDFSurface is a render.Surface that writes vector strokes to a single PDF
// page sized like the canvas, one point per canvas pixel.
type PDFSurface struct {
	pdf    *gofpdf.Fpdf
	width  float64
	height float64
}

var _ render.Surface = (*PDFSurface)(nil)

func NewPDFSurface(width, height float64) *PDFSurface {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	return &PDFSurface{pdf: pdf, width: width, height: height}
}

func (p *PDFSurface) Push() { p.pdf.TransformBegin() }
func (p *PDFSurface) Pop()  { p.pdf.TransformEnd() }

func (p *PDFSurface) Translate(x, y float64) {
	p.pdf.TransformTranslate(x, y)
}

// Rotate turns clockwise on the page, matching the raster surface whose y
// axis points down. gofpdf rotates counter-clockwise, hence the sign.
func (p *PDFSurface) Rotate(degrees float64) {
	p.pdf.TransformRotate(-degrees, 0, 0)
}

// Scale takes factors; gofpdf wants percentages.
func (p *PDFSurface) Scale(sx, sy float64) {
	p.pdf.TransformScale(sx*100, sy*100, 0, 0)
}

func (p *PDFSurface) Stroke(c gg.RGBA) {
	r, g, b := rgb255(c)
	p.pdf.SetDrawColor(r, g, b)
}

func (p *PDFSurface) StrokeWeight(w float64) {
	p.pdf.SetLineWidth(w)
}

func (p *PDFSurface) Line(x1, y1, x2, y2 float64) {
	p.pdf.Line(x1, y1, x2, y2)
}

func (p *PDFSurface) Background(c gg.RGBA) {
	r, g, b := rgb255(c)
	p.pdf.SetFillColor(r, g, b)
	p.pdf.Rect(0, 0, p.width, p.height, "F")
}

func (p *PDFSurface) Width() float64  { return p.width }
func (p *PDFSurface) Height() float64 { return p.height }

// Output writes the finished document to w.
func (p *PDFSurface) Output(w io.Writer) error {
	if err := p.pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func rgb255(c gg.RGBA) (int, int, int) {
	conv := func(v float64) int {
		return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return conv(c.R), conv(c.G), conv(c.B)
}

// WritePDF replays segs onto a fresh page of the given size, over a
// background fill, and writes the document to w.
func WritePDF(w io.Writer, segs []state.Segment, width, height float64, background gg.RGBA) error {
	s := NewPDFSurface(width, height)
	s.Background(background)
	for _, seg := range segs {
		render.RenderAt(seg, s)
	}
	if err := s.Output(w); err != nil {
		return err
	}
	render.Logger().Info("[EXPORT] pdf written", "segments", len(segs), "width", width, "height", height)
	return nil
}

// WritePDFFile is WritePDF to a file at path.
func WritePDFFile(path string, segs []state.Segment, width, height float64, background gg.RGBA) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WritePDF(f, segs, width, height, background)
}
