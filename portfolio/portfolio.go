// Package portfolio holds the hand-maintained data behind the static pages:
// speaking appearances, projects, work history and the about page.
package portfolio

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var defaultData []byte

// AppearanceType classifies a speaking appearance.
type AppearanceType int

const (
	Conference AppearanceType = iota + 1
	Talk
	Stream
	Podcast
)

var appearanceCodes = map[string]AppearanceType{
	"CONF":   Conference,
	"TALK":   Talk,
	"STREAM": Stream,
	"POD":    Podcast,
}

// Label is the human-readable name shown on the speaking page.
func (t AppearanceType) Label() string {
	switch t {
	case Conference:
		return "Conference"
	case Talk:
		return "Talk"
	case Stream:
		return "Live Stream"
	case Podcast:
		return "Podcast"
	}
	return ""
}

func (t AppearanceType) String() string { return t.Label() }

// UnmarshalYAML accepts either the short code (CONF, TALK, STREAM, POD) or
// the label.
func (t *AppearanceType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if v, ok := appearanceCodes[strings.ToUpper(strings.TrimSpace(s))]; ok {
		*t = v
		return nil
	}
	for _, v := range appearanceCodes {
		if strings.EqualFold(v.Label(), s) {
			*t = v
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown appearance type %q", value.Line, s)
}

// Appearance is one talk, conference slot, stream or podcast episode.
type Appearance struct {
	Title        string         `yaml:"title"`
	Type         AppearanceType `yaml:"type"`
	Event        string         `yaml:"event"`
	Date         time.Time      `yaml:"date"`
	Link         string         `yaml:"href"`
	CallToAction string         `yaml:"cta"`
	Image        string         `yaml:"image"`
}

// FormattedDate renders the date day-first, e.g. 30/06/2023.
func (a Appearance) FormattedDate() string {
	return a.Date.Format("02/01/2006")
}

// ISODate renders the date as YYYY-MM-DD.
func (a Appearance) ISODate() string {
	return a.Date.Format("2006-01-02")
}

type Project struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Link        string `yaml:"href"`
	Label       string `yaml:"label"`
	Icon        string `yaml:"icon"`
}

// Role is one position in the work history. An empty End means current.
type Role struct {
	Company string `yaml:"company"`
	Title   string `yaml:"title"`
	Logo    string `yaml:"logo"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
}

// EndLabel is End, or "Present" for a current role.
func (r Role) EndLabel() string {
	if r.End == "" {
		return "Present"
	}
	return r.End
}

type Achievement struct {
	Issuer string `yaml:"issuer"`
	Title  string `yaml:"title"`
	Logo   string `yaml:"logo"`
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
}

func (a Achievement) EndLabel() string {
	if a.End == "" {
		return "Present"
	}
	return a.End
}

type Social struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	Link  string `yaml:"href"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type About struct {
	Portrait   string   `yaml:"portrait"`
	Paragraphs []string `yaml:"paragraphs"`
}

// Page is the copy for one static page.
type Page struct {
	Title       string `yaml:"title"`
	Heading     string `yaml:"heading"`
	Description string `yaml:"description"`
	Intro       string `yaml:"intro"`
}

// Data is everything the static pages render.
type Data struct {
	Pages          map[string]Page `yaml:"pages"`
	About          About           `yaml:"about"`
	Socials        []Social        `yaml:"socials"`
	Work           []Role          `yaml:"work"`
	Achievements   []Achievement   `yaml:"achievements"`
	Certifications Link            `yaml:"certifications"`
	Projects       []Project       `yaml:"projects"`
	Appearances    []Appearance    `yaml:"appearances"`
}

// Page returns the copy for name, or a zero Page.
func (d *Data) Page(name string) Page {
	return d.Pages[name]
}

// Speaking returns the appearances newest first. The receiver is not modified.
func (d *Data) Speaking() []Appearance {
	out := make([]Appearance, len(d.Appearances))
	copy(out, d.Appearances)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Default returns the data compiled into the binary.
func Default() (*Data, error) {
	return Decode(bytes.NewReader(defaultData))
}

// LoadFile reads portfolio data from a YAML file.
func LoadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses and validates YAML portfolio data. Unknown keys are errors.
func Decode(r io.Reader) (*Data, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var d Data
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return &Data{}, nil
		}
		return nil, fmt.Errorf("portfolio: decode: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Data) validate() error {
	for i, a := range d.Appearances {
		switch {
		case a.Title == "":
			return fmt.Errorf("portfolio: appearance %d: missing title", i)
		case a.Type == 0:
			return fmt.Errorf("portfolio: appearance %q: missing type", a.Title)
		case a.Date.IsZero():
			return fmt.Errorf("portfolio: appearance %q: missing date", a.Title)
		case a.Link == "":
			return fmt.Errorf("portfolio: appearance %q: missing href", a.Title)
		}
	}
	for i, p := range d.Projects {
		if p.Name == "" || p.Link == "" {
			return fmt.Errorf("portfolio: project %d: name and href are required", i)
		}
	}
	return nil
}
