package presenter

import (
	"fmt"
	"strings"
)

// Format is the image encoding of rendered charts.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("unknown image format %q", s)
}

// ContentType is the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Chart is a rendered chart attached to a mount.
type Chart struct {
	Mount       string
	Description Description
	Image       []byte
	Format      Format
}

// Page is a display surface: an ordered set of named mount points.
type Page struct {
	ID     string
	Format Format

	order  []string
	charts map[string]*Chart
}

// NewPage declares the mount points a page offers.
func NewPage(id string, f Format, mounts ...string) *Page {
	p := &Page{ID: id, Format: f, charts: make(map[string]*Chart, len(mounts))}
	for _, m := range mounts {
		if _, dup := p.charts[m]; dup {
			continue
		}
		p.order = append(p.order, m)
		p.charts[m] = nil
	}
	return p
}

// HasMount reports whether the page offers a mount point.
func (p *Page) HasMount(id string) bool {
	_, ok := p.charts[id]
	return ok
}

// Mounts lists the mount points in declaration order.
func (p *Page) Mounts() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Chart returns the chart attached to a mount.
func (p *Page) Chart(id string) (*Chart, bool) {
	c := p.charts[id]
	return c, c != nil
}

// Charts lists attached charts in mount order.
func (p *Page) Charts() []*Chart {
	var out []*Chart
	for _, m := range p.order {
		if c := p.charts[m]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (p *Page) attach(c *Chart) {
	p.charts[c.Mount] = c
}
