package og

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"
)

func TestParamsFromQuery(t *testing.T) {
	long := strings.Repeat("a", 150)
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Title: DefaultTitle}},
		{"title=Hello+World", Params{Title: "Hello World"}},
		{"title=", Params{Title: ""}},
		{"title=Hi&date=June+30%2C+2023", Params{Title: "Hi", Date: "June 30, 2023", HasDate: true}},
		{"date=", Params{Title: DefaultTitle, HasDate: true}},
		{"title=" + long, Params{Title: long[:MaxTitleLength]}},
	}
	for _, tt := range tests {
		q, err := url.ParseQuery(tt.query)
		if err != nil {
			t.Fatal(err)
		}
		if got := ParamsFromQuery(q, DefaultTitle); got != tt.want {
			t.Errorf("ParamsFromQuery(%q) = %+v, want %+v", tt.query, got, tt.want)
		}
	}
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 100, "short"},
		{"exactly", 7, "exactly"},
		{"abcdef", 3, "abc"},
		{"héllo wörld", 4, "héll"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateTitle(tt.input, tt.n); got != tt.want {
			t.Errorf("TruncateTitle(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}

	long := strings.Repeat("é", 140)
	if got := utf8.RuneCountInString(TruncateTitle(long, MaxTitleLength)); got != MaxTitleLength {
		t.Errorf("truncated title has %d characters, want %d", got, MaxTitleLength)
	}
}

func TestRenderSizeWithoutDate(t *testing.T) {
	r := NewRenderer()
	p := Params{Title: "Hello World"}
	img, err := r.Render(p)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != Width || b.Dy() != Height {
		t.Errorf("image is %dx%d, want %dx%d", b.Dx(), b.Dy(), Width, Height)
	}
	frame, err := r.Layout(p)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Date != nil {
		t.Errorf("frame has a date line %+v, want none", frame.Date)
	}
	if len(frame.Title) != 1 || frame.Title[0].Text != "Hello World" {
		t.Errorf("title lines = %+v", frame.Title)
	}
}

func TestLayoutWithDate(t *testing.T) {
	frame, err := NewRenderer().Layout(Params{Title: "Hello", Date: "June 30, 2023", HasDate: true})
	if err != nil {
		t.Fatal(err)
	}
	if frame.Date == nil || frame.Date.Text != "June 30, 2023" {
		t.Fatalf("date line = %+v", frame.Date)
	}
	if len(frame.Title) != 1 {
		t.Fatalf("title lines = %+v", frame.Title)
	}
	if frame.Title[0].Y >= frame.Date.Y {
		t.Errorf("title baseline %d should sit above date baseline %d", frame.Title[0].Y, frame.Date.Y)
	}
	if frame.Date.Y >= Height-Padding {
		t.Errorf("date baseline %d intrudes into the bottom padding", frame.Date.Y)
	}
	if frame.Date.X != Padding || frame.Title[0].X != Padding {
		t.Errorf("text should start at the left padding")
	}
}

func TestLayoutEmptyDateStillDrawn(t *testing.T) {
	frame, err := NewRenderer().Layout(Params{Title: "x", HasDate: true})
	if err != nil {
		t.Fatal(err)
	}
	if frame.Date == nil {
		t.Error("a present but empty date should still produce a date line")
	}
}

func TestLayoutWrapsLongTitles(t *testing.T) {
	r := NewRenderer()
	title := strings.Repeat("Serverless ", 9)
	frame, err := r.Layout(Params{Title: title})
	if err != nil {
		t.Fatal(err)
	}
	if len(frame.Title) < 2 {
		t.Fatalf("expected wrapping, got %d line(s)", len(frame.Title))
	}
	for i := 1; i < len(frame.Title); i++ {
		if frame.Title[i].Y <= frame.Title[i-1].Y {
			t.Errorf("line %d baseline %d not below line %d", i, frame.Title[i].Y, i-1)
		}
	}
	last := frame.Title[len(frame.Title)-1]
	if last.Y > Height-Padding {
		t.Errorf("last line baseline %d below the padding", last.Y)
	}
}

func TestLayoutExplicitNewlines(t *testing.T) {
	frame, err := NewRenderer().Layout(Params{Title: "One\nTwo"})
	if err != nil {
		t.Fatal(err)
	}
	if len(frame.Title) != 2 || frame.Title[0].Text != "One" || frame.Title[1].Text != "Two" {
		t.Errorf("title lines = %+v", frame.Title)
	}
}

func TestLayoutEmptyTitle(t *testing.T) {
	frame, err := NewRenderer().Layout(Params{})
	if err != nil {
		t.Fatal(err)
	}
	if len(frame.Title) != 0 || frame.Date != nil {
		t.Errorf("empty params should draw nothing, got %+v", frame)
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer().RenderPNG(&buf, Params{Title: "Hello", Date: "June 30, 2023", HasDate: true}); err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != Width || cfg.Height != Height {
		t.Errorf("PNG is %dx%d", cfg.Width, cfg.Height)
	}
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestRenderWithImages(t *testing.T) {
	dir := t.TempDir()
	bg := filepath.Join(dir, "bg.png")
	avatar := filepath.Join(dir, "me.png")
	writePNG(t, bg, 300, 100, color.RGBA{0, 0, 0xff, 0xff})
	writePNG(t, avatar, 40, 40, color.RGBA{0xff, 0, 0, 0xff})

	img, err := NewRenderer(WithBackgroundFile(bg), WithAvatarFile(avatar)).Render(Params{})
	if err != nil {
		t.Fatal(err)
	}

	centre := Padding + AvatarSize/2 + AvatarRing
	if got := img.RGBAAt(centre, centre); got.R < 0xf0 || got.B > 0x10 {
		t.Errorf("avatar centre = %v, want red", got)
	}
	if got := img.RGBAAt(Padding+1, centre); got != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("avatar ring = %v, want white", got)
	}
	if got := img.RGBAAt(Width-10, Height-10); got.B < 0xf0 || got.R > 0x10 {
		t.Errorf("background corner = %v, want blue", got)
	}
	if got := img.RGBAAt(Padding-10, Padding-10); got.B < 0xf0 {
		t.Errorf("outside avatar = %v, want background", got)
	}
}

func TestRenderGradientWithoutBackground(t *testing.T) {
	img, err := NewRenderer().Render(Params{})
	if err != nil {
		t.Fatal(err)
	}
	if img.RGBAAt(0, 0) == img.RGBAAt(Width-1, Height-1) {
		t.Error("gradient corners should differ")
	}
}

func TestRenderMissingAssets(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.png")
	tests := []struct {
		name string
		opt  Option
	}{
		{"font", WithFontFile(missing)},
		{"background", WithBackgroundFile(missing)},
		{"avatar", WithAvatarFile(missing)},
		{"bad font data", WithFontData([]byte("not a font"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(tt.opt)
			if _, err := r.Render(Params{Title: "x"}); err == nil {
				t.Fatal("expected error")
			}
			// The failure is remembered rather than retried.
			if _, err := r.Render(Params{Title: "x"}); err == nil {
				t.Fatal("expected error on second render")
			}
		})
	}
}

func TestRenderConcurrent(t *testing.T) {
	r := NewRenderer()
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Render(Params{Title: "Concurrent", Date: "today", HasDate: true}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
