package render

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/planbiir/gsimplify/internal/speed"
	"github.com/planbiir/gsimplify/internal/trace"
)

// Options controls the PNG plot
type Options struct {
	Width      int
	Height     int
	Padding    float64
	LineWidth  float64
	Background string
	SlowColor  string
	FastColor  string
	Title      string
	GridLines  int
}

// DefaultOptions matches a 10x6 figure at 100 dpi
func DefaultOptions() Options {
	return Options{
		Width:      1000,
		Height:     600,
		Padding:    60,
		LineWidth:  3,
		Background: "#ffffff",
		SlowColor:  "#2c7bb6",
		FastColor:  "#d7191c",
		Title:      "Simplified trace",
		GridLines:  5,
	}
}

// Validate rejects options PNG cannot draw with
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.Errorf("render size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Padding < 0 || 2*o.Padding >= float64(min(o.Width, o.Height)) {
		return errors.Errorf("padding %.0f leaves no plot area on a %dx%d canvas", o.Padding, o.Width, o.Height)
	}
	if _, err := NewColormap(o.SlowColor, o.FastColor); err != nil {
		return err
	}
	if _, err := colorful.Hex(o.Background); err != nil {
		return errors.Wrapf(err, "background colour %q", o.Background)
	}
	return nil
}

// frame maps (lon, lat) onto pixel space. Axes are scaled independently.
type frame struct {
	bound         orb.Bound
	left, top     float64
	width, height float64
}

func newFrame(pts []trace.Point, opts Options) frame {
	mp := make(orb.MultiPoint, len(pts))
	for i, p := range pts {
		mp[i] = orb.Point{p.Lon, p.Lat}
	}
	b := mp.Bound()

	// Pad flat extents so a straight north-south or east-west trace still
	// gets a drawable axis
	if b.Max[0] == b.Min[0] {
		b.Min[0], b.Max[0] = b.Min[0]-0.0005, b.Max[0]+0.0005
	}
	if b.Max[1] == b.Min[1] {
		b.Min[1], b.Max[1] = b.Min[1]-0.0005, b.Max[1]+0.0005
	}

	return frame{
		bound:  b,
		left:   opts.Padding,
		top:    opts.Padding,
		width:  float64(opts.Width) - 2*opts.Padding,
		height: float64(opts.Height) - 2*opts.Padding,
	}
}

func (f frame) project(p trace.Point) (float64, float64) {
	x := f.left + (p.Lon-f.bound.Min[0])/(f.bound.Max[0]-f.bound.Min[0])*f.width
	y := f.top + (f.bound.Max[1]-p.Lat)/(f.bound.Max[1]-f.bound.Min[1])*f.height
	return x, y
}

// PNG plots the simplified trace with each segment coloured by its speed
// relative to the profile's range.
func PNG(w io.Writer, pts []trace.Point, profile speed.Profile, opts Options) error {
	if len(pts) < 2 {
		return errors.Wrapf(trace.ErrInvalidInput, "need at least 2 points to plot, got %d", len(pts))
	}
	if len(profile.Speeds) != len(pts)-1 {
		return errors.Wrapf(trace.ErrInvalidInput, "%d segment speeds for %d points", len(profile.Speeds), len(pts))
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	cmap, _ := NewColormap(opts.SlowColor, opts.FastColor)
	background, _ := colorful.Hex(opts.Background)

	f := newFrame(pts, opts)
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(background)
	dc.Clear()

	drawGrid(dc, f, opts)

	dc.SetLineWidth(opts.LineWidth)
	dc.SetLineCap(gg.LineCapRound)
	for i, v := range profile.Speeds {
		x1, y1 := f.project(pts[i])
		x2, y2 := f.project(pts[i+1])
		dc.SetColor(cmap.At(Normalize(v, profile.Min, profile.Max)))
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	// retained points
	dc.SetRGB(0.2, 0.2, 0.2)
	for _, p := range pts {
		x, y := f.project(p)
		dc.DrawCircle(x, y, opts.LineWidth*0.75)
		dc.Fill()
	}

	drawLabels(dc, opts, profile)

	return errors.Wrap(dc.EncodePNG(w), "encode PNG")
}

func drawGrid(dc *gg.Context, f frame, opts Options) {
	if opts.GridLines < 2 {
		return
	}

	dc.SetRGB(0.85, 0.85, 0.85)
	dc.SetLineWidth(1)
	dc.SetDash(4, 4)
	for i := 0; i < opts.GridLines; i++ {
		t := float64(i) / float64(opts.GridLines-1)

		x := f.left + t*f.width
		dc.DrawLine(x, f.top, x, f.top+f.height)
		dc.Stroke()
		lon := f.bound.Min[0] + t*(f.bound.Max[0]-f.bound.Min[0])
		dc.SetRGB(0.3, 0.3, 0.3)
		dc.DrawStringAnchored(fmt.Sprintf("%.4f", lon), x, f.top+f.height+14, 0.5, 0.5)
		dc.SetRGB(0.85, 0.85, 0.85)

		y := f.top + t*f.height
		dc.DrawLine(f.left, y, f.left+f.width, y)
		dc.Stroke()
		lat := f.bound.Max[1] - t*(f.bound.Max[1]-f.bound.Min[1])
		dc.SetRGB(0.3, 0.3, 0.3)
		dc.DrawStringAnchored(fmt.Sprintf("%.4f", lat), f.left-6, y, 1, 0.5)
		dc.SetRGB(0.85, 0.85, 0.85)
	}
	dc.SetDash()
}

func drawLabels(dc *gg.Context, opts Options, profile speed.Profile) {
	w, h := float64(opts.Width), float64(opts.Height)

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(opts.Title, w/2, opts.Padding/2, 0.5, 0.5)
	dc.DrawStringAnchored("Longitude", w/2, h-opts.Padding/4, 0.5, 0.5)

	dc.Push()
	dc.RotateAbout(gg.Radians(-90), opts.Padding/4, h/2)
	dc.DrawStringAnchored("Latitude", opts.Padding/4, h/2, 0.5, 0.5)
	dc.Pop()

	legend := fmt.Sprintf("speed %.1f - %.1f m/s", profile.Min, profile.Max)
	dc.DrawStringAnchored(legend, w-opts.Padding, opts.Padding/2, 1, 0.5)
}
