package og

import (
	"math"
	"strings"

	"golang.org/x/image/font"
)

const (
	Padding      = 80
	TitleSize    = 60
	TitleLeading = 1.4
	DateSize     = 35
	DateMargin   = 5
	AvatarSize   = 120
	AvatarRing   = 4
)

// TextWidth is the widest a title line may be.
const TextWidth = Width - 2*Padding

// Line is one run of text and the position of its baseline.
type Line struct {
	Text string
	X, Y int
}

// Frame holds every line of text to draw. Date is nil when the image has no
// date line.
type Frame struct {
	Title []Line
	Date  *Line
}

// Layout positions the title and date so that the block sits on the bottom
// padding, title lines first and the date underneath.
func Layout(titleFace, dateFace font.Face, p Params) Frame {
	var f Frame
	bottom := Height - Padding

	if p.HasDate {
		m := dateFace.Metrics()
		top := bottom - (m.Ascent + m.Descent).Ceil()
		f.Date = &Line{Text: p.Date, X: Padding, Y: top + m.Ascent.Ceil()}
		bottom = top - DateMargin
	}

	lines := Wrap(titleFace, p.Title, TextWidth)
	if len(lines) == 0 {
		return f
	}
	m := titleFace.Metrics()
	lh := int(math.Round(TitleSize * TitleLeading))
	half := (lh - (m.Ascent + m.Descent).Ceil()) / 2
	top := bottom - lh*len(lines)
	for i, text := range lines {
		f.Title = append(f.Title, Line{
			Text: text,
			X:    Padding,
			Y:    top + i*lh + half + m.Ascent.Ceil(),
		})
	}
	return f
}

// Wrap breaks s into lines no wider than maxWidth pixels. Explicit newlines
// are kept; words longer than a line are split between characters.
func Wrap(face font.Face, s string, maxWidth int) []string {
	if s == "" {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, w := range words {
			candidate := w
			if cur != "" {
				candidate = cur + " " + w
			}
			if font.MeasureString(face, candidate).Ceil() <= maxWidth {
				cur = candidate
				continue
			}
			if cur != "" {
				lines = append(lines, cur)
			}
			cur = ""
			for _, part := range splitWord(face, w, maxWidth) {
				if cur != "" {
					lines = append(lines, cur)
				}
				cur = part
			}
		}
		lines = append(lines, cur)
	}
	return lines
}

func splitWord(face font.Face, w string, maxWidth int) []string {
	if font.MeasureString(face, w).Ceil() <= maxWidth {
		return []string{w}
	}
	var parts []string
	var b strings.Builder
	for _, r := range w {
		next := b.String() + string(r)
		if b.Len() > 0 && font.MeasureString(face, next).Ceil() > maxWidth {
			parts = append(parts, b.String())
			b.Reset()
		}
		b.WriteRune(r)
	}
	if b.Len() > 0 {
		parts = append(parts, b.String())
	}
	return parts
}
