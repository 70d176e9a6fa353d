package depict

import (
	"fmt"
	"image"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/pkj0421/CIM/internal/domain/molecule"
	"github.com/pkj0421/CIM/pkg/errors"
)

// Grid defaults.
const (
	DefaultMolsPerRow = 4
	DefaultCellWidth  = 250
	DefaultCellHeight = 250
)

const (
	legendHeight = 20.0
	cellMargin   = 14.0
	lineWidth    = 1.6
	// maxBondPixels keeps small molecules from being blown up.
	maxBondPixels = 36.0
	labelRadius   = 7.0
)

// Cell is one structure of a grid.  A nil Molecule draws an empty cell
// that still carries its legend.
type Cell struct {
	Molecule *molecule.Molecule
	Legend   string
}

// Grid lays cells out row by row.
type Grid struct {
	MolsPerRow int
	CellWidth  int
	CellHeight int
}

// DefaultGrid returns a grid of 250x250 cells, four per row.
func DefaultGrid() Grid {
	return Grid{MolsPerRow: DefaultMolsPerRow, CellWidth: DefaultCellWidth, CellHeight: DefaultCellHeight}
}

func (g Grid) normalized() Grid {
	if g.MolsPerRow <= 0 {
		g.MolsPerRow = DefaultMolsPerRow
	}
	if g.CellWidth <= 0 {
		g.CellWidth = DefaultCellWidth
	}
	if g.CellHeight <= 0 {
		g.CellHeight = DefaultCellHeight
	}
	return g
}

// Size returns the pixel size of a grid holding n cells.
func (g Grid) Size(n int) (width, height int) {
	g = g.normalized()
	if n == 0 {
		return g.CellWidth, g.CellHeight
	}
	cols := g.MolsPerRow
	if n < cols {
		cols = n
	}
	rows := (n + g.MolsPerRow - 1) / g.MolsPerRow
	return cols * g.CellWidth, rows * g.CellHeight
}

// Render draws cells onto a white canvas.
func (g Grid) Render(cells []Cell) (image.Image, error) {
	g = g.normalized()
	w, h := g.Size(len(cells))
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	for i, c := range cells {
		x := float64((i % g.MolsPerRow) * g.CellWidth)
		y := float64((i / g.MolsPerRow) * g.CellHeight)
		if err := g.drawCell(dc, c, x, y); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeMoleculeRenderFailed, fmt.Sprintf("render cell %d", i))
		}
	}
	return dc.Image(), nil
}

// WritePNG renders cells and encodes the grid as PNG.
func (g Grid) WritePNG(w io.Writer, cells []Cell) error {
	img, err := g.Render(cells)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	if err := dc.EncodePNG(w); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "encode png")
	}
	return nil
}

// SavePNG renders cells into the file at path.
func (g Grid) SavePNG(path string, cells []Cell) error {
	img, err := g.Render(cells)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "save png").WithDetail(path)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Cell drawing
// ─────────────────────────────────────────────────────────────────────────────

func (g Grid) drawCell(dc *gg.Context, c Cell, x0, y0 float64) error {
	cw, ch := float64(g.CellWidth), float64(g.CellHeight)
	if c.Legend != "" {
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(fitLegend(dc, c.Legend, cw-4), x0+cw/2, y0+ch-legendHeight/2, 0.5, 0.5)
	}
	if c.Molecule == nil || len(c.Molecule.Atoms) == 0 {
		return nil
	}
	m, err := c.Molecule.Kekulized()
	if err != nil {
		m = c.Molecule
	}
	pts := Layout(m)

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	boxW, boxH := cw-2*cellMargin, ch-legendHeight-2*cellMargin
	scale := maxBondPixels / BondLength
	if spanX := maxX - minX; spanX > 0 {
		scale = math.Min(scale, boxW/spanX)
	}
	if spanY := maxY - minY; spanY > 0 {
		scale = math.Min(scale, boxH/spanY)
	}
	cx, cy := x0+cw/2, y0+(ch-legendHeight)/2
	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	px := func(p molecule.Point) (float64, float64) {
		return cx + (p.X-midX)*scale, cy - (p.Y-midY)*scale
	}

	labels := make([]string, len(m.Atoms))
	for i := range m.Atoms {
		labels[i] = atomLabel(m, i)
	}

	dc.SetLineWidth(lineWidth)
	offset := math.Max(2, scale*BondLength*0.09)
	for _, b := range m.Bonds {
		x1, y1 := px(pts[b.Begin])
		x2, y2 := px(pts[b.End])
		x1, y1, x2, y2 = trim(x1, y1, x2, y2, labels[b.Begin] != "", labels[b.End] != "")
		dc.SetRGB(0, 0, 0)
		switch b.Order {
		case molecule.BondDouble:
			strokeParallel(dc, x1, y1, x2, y2, []float64{-offset, offset})
		case molecule.BondTriple:
			strokeParallel(dc, x1, y1, x2, y2, []float64{-1.6 * offset, 0, 1.6 * offset})
		case molecule.BondAromatic:
			strokeParallel(dc, x1, y1, x2, y2, []float64{0})
			dc.SetDash(3, 3)
			strokeParallel(dc, x1, y1, x2, y2, []float64{2 * offset})
			dc.SetDash()
		default:
			strokeParallel(dc, x1, y1, x2, y2, []float64{0})
		}
	}

	for i, label := range labels {
		if label == "" {
			continue
		}
		x, y := px(pts[i])
		r, gr, bl := elementColor(m.Atoms[i].Element)
		dc.SetRGB(r, gr, bl)
		dc.DrawStringAnchored(label, x, y, 0.5, 0.35)
	}
	return nil
}

func trim(x1, y1, x2, y2 float64, a, b bool) (float64, float64, float64, float64) {
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l < 3*labelRadius {
		return x1, y1, x2, y2
	}
	ux, uy := dx/l, dy/l
	if a {
		x1, y1 = x1+ux*labelRadius, y1+uy*labelRadius
	}
	if b {
		x2, y2 = x2-ux*labelRadius, y2-uy*labelRadius
	}
	return x1, y1, x2, y2
}

func strokeParallel(dc *gg.Context, x1, y1, x2, y2 float64, offsets []float64) {
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l, dx/l
	for _, o := range offsets {
		dc.DrawLine(x1+nx*o, y1+ny*o, x2+nx*o, y2+ny*o)
		dc.Stroke()
	}
}

// atomLabel is empty for plain carbons.
func atomLabel(m *molecule.Molecule, i int) string {
	a := &m.Atoms[i]
	if a.Element == 6 && a.Charge == 0 && a.Isotope == 0 && m.Degree(i) > 0 {
		return ""
	}
	var sb strings.Builder
	if a.Isotope > 0 {
		fmt.Fprintf(&sb, "%d", a.Isotope)
	}
	if a.Element == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(a.Symbol())
	}
	if a.HCount > 0 {
		sb.WriteString("H")
		if a.HCount > 1 {
			fmt.Fprintf(&sb, "%d", a.HCount)
		}
	}
	switch {
	case a.Charge == 1:
		sb.WriteString("+")
	case a.Charge == -1:
		sb.WriteString("-")
	case a.Charge > 1:
		fmt.Fprintf(&sb, "%d+", a.Charge)
	case a.Charge < -1:
		fmt.Fprintf(&sb, "%d-", -a.Charge)
	}
	return sb.String()
}

// elementColor returns the label colour for an element.
func elementColor(z int) (r, g, b float64) {
	switch z {
	case 7:
		return 0.13, 0.20, 0.90
	case 8:
		return 0.90, 0.05, 0.05
	case 9, 17:
		return 0.10, 0.65, 0.10
	case 15:
		return 1.00, 0.50, 0.00
	case 16:
		return 0.80, 0.65, 0.00
	case 35:
		return 0.60, 0.13, 0.00
	case 53:
		return 0.58, 0.00, 0.58
	}
	return 0, 0, 0
}

func fitLegend(dc *gg.Context, s string, width float64) string {
	if w, _ := dc.MeasureString(s); w <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 1 {
		r = r[:len(r)-1]
		if w, _ := dc.MeasureString(string(r) + "..."); w <= width {
			break
		}
	}
	return string(r) + "..."
}

//Personal.AI order the ending
