// Package export renders a computed graph scene to static files: SVG and PNG
// snapshots, and a self-contained interactive HTML viewer.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/regulomics/grnscope/pkg/graphview"
	"github.com/regulomics/grnscope/pkg/model"
)

// SnapshotOptions controls snapshot export behaviour.
type SnapshotOptions struct {
	Path   string           // Output path; format inferred from extension when Format empty
	Format string           // "svg", "png" or "html" (case-insensitive). If empty, inferred from Path.
	Title  string           // Optional title rendered in the summary block
	Scene  *graphview.Scene // Rendered scene to export
}

// SaveSnapshot writes a static snapshot of the scene. The summary block keeps
// the same numbers the status line shows so exported images stay comparable
// with what was on screen.
func SaveSnapshot(opts SnapshotOptions) error {
	if opts.Scene == nil || opts.Scene.Outcome != model.OutcomeRendered {
		return fmt.Errorf("no rendered scene to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		case ".html", ".htm":
			format = "html"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	switch format {
	case "svg":
		return renderSVG(opts)
	case "png":
		return renderPNG(opts)
	case "html":
		return WriteHTMLFile(opts.Path, opts.Title, opts.Scene)
	default:
		return fmt.Errorf("unsupported format %q (want svg, png or html)", format)
	}
}

// --- canvas geometry -------------------------------------------------------

const (
	canvasPadding = 40.0
	headerHeight  = 90.0
	nodeRadius    = 7.0
)

// canvasSize returns the pixel dimensions for a scene, header included.
func canvasSize(s *graphview.Scene) (int, int) {
	w := int(s.Space.Width + 2*canvasPadding)
	h := int(s.Space.Height + 2*canvasPadding + headerHeight)
	if w < 640 {
		w = 640
	}
	if h < 480 {
		h = 480
	}
	return w, h
}

func nodeXY(n graphview.Node) (float64, float64) {
	return n.Pos.X + canvasPadding, n.Pos.Y + canvasPadding + headerHeight
}

// --- colors ----------------------------------------------------------------

var (
	colorTF       = color.RGBA{0x42, 0xa5, 0xf5, 0xff} // regulators
	colorTarget   = color.RGBA{0xc8, 0xe6, 0xc9, 0xff} // regulated genes
	colorBoth     = color.RGBA{0xab, 0x47, 0xbc, 0xff} // regulator that is itself regulated
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorEdge     = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
)

func roleColor(r model.Role) color.RGBA {
	switch r {
	case model.RoleTF:
		return colorTF
	case model.RoleBoth:
		return colorBoth
	default:
		return colorTarget
	}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// --- SVG -------------------------------------------------------------------

func renderSVG(opts SnapshotOptions) error {
	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, opts.Title, opts.Scene)
}

func renderSVGToWriter(w io.Writer, title string, scene *graphview.Scene) error {
	width, height := canvasSize(scene)

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, width-32, int(headerHeight-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	if strings.TrimSpace(title) == "" {
		title = "Regulatory Network"
	}
	canvas.Text(32, 40, title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 60, fmt.Sprintf("nodes: %d  edges: %d  threshold: %.2f", len(scene.Nodes), len(scene.Edges), scene.Threshold),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))

	for _, e := range scene.Edges {
		x1, y1 := nodeXY(scene.Nodes[e.Source])
		x2, y2 := nodeXY(scene.Nodes[e.Target])
		canvas.Line(int(x1), int(y1), int(x2), int(y2),
			fmt.Sprintf("stroke:%s;stroke-width:%.1f;stroke-opacity:%.2f", css(colorEdge), e.Weight, e.Opacity))
	}

	for _, n := range scene.Nodes {
		x, y := nodeXY(n)
		canvas.Circle(int(x), int(y), int(nodeRadius),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", css(roleColor(n.Role)), css(colorStroke)))
		canvas.Text(int(x)+10, int(y)+4, n.Name,
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorText)))
	}

	canvas.End()
	return nil
}

// --- PNG -------------------------------------------------------------------

func renderPNG(opts SnapshotOptions) error {
	scene := opts.Scene
	width, height := canvasSize(scene)

	dc := gg.NewContext(width, height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	// header
	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(width)-32, headerHeight-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "Regulatory Network"
	}
	dc.SetColor(colorText)
	dc.DrawStringAnchored(title, 32, 38, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("nodes: %d  edges: %d  threshold: %.2f",
		len(scene.Nodes), len(scene.Edges), scene.Threshold), 32, 58, 0, 0.5)

	for _, e := range scene.Edges {
		x1, y1 := nodeXY(scene.Nodes[e.Source])
		x2, y2 := nodeXY(scene.Nodes[e.Target])
		c := colorEdge
		c.A = uint8(e.Opacity * 255)
		dc.SetColor(c)
		dc.SetLineWidth(e.Weight)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	for _, n := range scene.Nodes {
		x, y := nodeXY(n)
		dc.SetColor(roleColor(n.Role))
		dc.DrawCircle(x, y, nodeRadius)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1.2)
		dc.DrawCircle(x, y, nodeRadius)
		dc.Stroke()

		dc.SetColor(colorText)
		dc.DrawStringAnchored(n.Name, x+10, y, 0, 0.5)
	}

	return dc.SavePNG(opts.Path)
}
