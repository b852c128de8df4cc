package og

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	titleColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	dateColor  = color.RGBA{0xbf, 0xbf, 0xbf, 0xff}

	gradientFrom = color.RGBA{0x0f, 0x17, 0x2a, 0xff}
	gradientTo   = color.RGBA{0x5b, 0x21, 0xb6, 0xff}
)

// Renderer draws preview images. Its font and images are read once, on the
// first render, and shared by every render after that. A Renderer is safe
// for concurrent use.
type Renderer struct {
	fontPath       string
	fontData       []byte
	backgroundPath string
	avatarPath     string

	once       sync.Once
	loadErr    error
	font       *opentype.Font
	background image.Image
	avatar     image.Image
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFontFile uses the TrueType or OpenType font at path.
func WithFontFile(path string) Option {
	return func(r *Renderer) { r.fontPath = path }
}

// WithFontData uses an in-memory TrueType or OpenType font.
func WithFontData(data []byte) Option {
	return func(r *Renderer) { r.fontData = data }
}

// WithBackgroundFile scales the image at path to cover the canvas. Without
// one a gradient is drawn.
func WithBackgroundFile(path string) Option {
	return func(r *Renderer) { r.backgroundPath = path }
}

// WithAvatarFile draws the image at path as a round avatar in the top left.
func WithAvatarFile(path string) Option {
	return func(r *Renderer) { r.avatarPath = path }
}

// NewRenderer returns a Renderer. Nothing is read from disk until the first
// call to Render.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) load() error {
	r.once.Do(func() {
		data := r.fontData
		if r.fontPath != "" {
			b, err := os.ReadFile(r.fontPath)
			if err != nil {
				r.loadErr = fmt.Errorf("og: read font: %w", err)
				return
			}
			data = b
		}
		if data == nil {
			data = gomedium.TTF
		}
		f, err := opentype.Parse(data)
		if err != nil {
			r.loadErr = fmt.Errorf("og: parse font: %w", err)
			return
		}
		r.font = f

		if r.backgroundPath != "" {
			if r.background, err = decodeFile(r.backgroundPath); err != nil {
				r.loadErr = fmt.Errorf("og: background: %w", err)
				return
			}
		}
		if r.avatarPath != "" {
			if r.avatar, err = decodeFile(r.avatarPath); err != nil {
				r.loadErr = fmt.Errorf("og: avatar: %w", err)
				return
			}
		}
	})
	return r.loadErr
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// faces are per render; opentype faces cache glyphs and must not be shared
// between goroutines.
func (r *Renderer) faces() (title, date font.Face, err error) {
	title, err = opentype.NewFace(r.font, &opentype.FaceOptions{Size: TitleSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, nil, fmt.Errorf("og: title face: %w", err)
	}
	date, err = opentype.NewFace(r.font, &opentype.FaceOptions{Size: DateSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		title.Close()
		return nil, nil, fmt.Errorf("og: date face: %w", err)
	}
	return title, date, nil
}

// Layout returns the text positions Render would use for p.
func (r *Renderer) Layout(p Params) (Frame, error) {
	if err := r.load(); err != nil {
		return Frame{}, err
	}
	tf, df, err := r.faces()
	if err != nil {
		return Frame{}, err
	}
	defer tf.Close()
	defer df.Close()
	return Layout(tf, df, p), nil
}

// Render draws the image for p.
func (r *Renderer) Render(p Params) (*image.RGBA, error) {
	if err := r.load(); err != nil {
		return nil, err
	}
	tf, df, err := r.faces()
	if err != nil {
		return nil, err
	}
	defer tf.Close()
	defer df.Close()

	dst := image.NewRGBA(image.Rect(0, 0, Width, Height))
	if r.background != nil {
		drawCover(dst, r.background)
	} else {
		drawGradient(dst, gradientFrom, gradientTo)
	}
	if r.avatar != nil {
		drawAvatar(dst, r.avatar, image.Pt(Padding, Padding))
	}

	frame := Layout(tf, df, p)
	for _, l := range frame.Title {
		drawText(dst, tf, titleColor, l)
	}
	if frame.Date != nil {
		drawText(dst, df, dateColor, *frame.Date)
	}
	return dst, nil
}

// RenderPNG draws the image for p and writes it to w as PNG.
func (r *Renderer) RenderPNG(w io.Writer, p Params) error {
	img, err := r.Render(p)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("og: encode png: %w", err)
	}
	return nil
}

func drawText(dst draw.Image, face font.Face, c color.Color, l Line) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(l.X, l.Y),
	}
	d.DrawString(l.Text)
}

// drawCover scales src to fill dst, cropping the overflowing axis around the
// centre.
func drawCover(dst *image.RGBA, src image.Image) {
	sb := src.Bounds()
	db := dst.Bounds()
	var crop image.Rectangle
	if sb.Dx()*db.Dy() > sb.Dy()*db.Dx() {
		w := sb.Dy() * db.Dx() / db.Dy()
		x := sb.Min.X + (sb.Dx()-w)/2
		crop = image.Rect(x, sb.Min.Y, x+w, sb.Max.Y)
	} else {
		h := sb.Dx() * db.Dy() / db.Dx()
		y := sb.Min.Y + (sb.Dy()-h)/2
		crop = image.Rect(sb.Min.X, y, sb.Max.X, y+h)
	}
	draw.CatmullRom.Scale(dst, db, src, crop, draw.Src, nil)
}

func drawGradient(dst *image.RGBA, from, to color.RGBA) {
	b := dst.Bounds()
	span := b.Dx() + b.Dy()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := float64(x+y) / float64(span)
			dst.SetRGBA(x, y, color.RGBA{
				R: lerp(from.R, to.R, t),
				G: lerp(from.G, to.G, t),
				B: lerp(from.B, to.B, t),
				A: 0xff,
			})
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// drawAvatar draws src as a circle with a white ring; at is the top-left
// corner of the ring.
func drawAvatar(dst *image.RGBA, src image.Image, at image.Point) {
	outer := AvatarSize/2 + AvatarRing
	centre := at.Add(image.Pt(outer, outer))

	ring := &circle{centre, outer}
	draw.DrawMask(dst, ring.Bounds(), image.NewUniform(color.White), image.Point{}, ring, ring.Bounds().Min, draw.Over)

	scaled := image.NewRGBA(image.Rect(0, 0, AvatarSize, AvatarSize))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	inner := &circle{centre, AvatarSize / 2}
	draw.DrawMask(dst, inner.Bounds(), scaled, image.Point{}, inner, inner.Bounds().Min, draw.Over)
}

// circle is an alpha mask for a filled disc.
type circle struct {
	p image.Point
	r int
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(c.p.X-c.r, c.p.Y-c.r, c.p.X+c.r, c.p.Y+c.r)
}

func (c *circle) At(x, y int) color.Color {
	xx := float64(x-c.p.X) + 0.5
	yy := float64(y-c.p.Y) + 0.5
	rr := float64(c.r)
	if xx*xx+yy*yy < rr*rr {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}
