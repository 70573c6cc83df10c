// Package deck binds the projection catalog to the pages of the pitch deck.
package deck

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/snikulin87-hue/pres-entation/internal/format"
	"github.com/snikulin87-hue/pres-entation/internal/presenter"
	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

const (
	PageDeck    = "deck"
	PageLanding = "landing"

	MountFinance = "financeChart"
	MountClients = "chart-clients"
)

var (
	ErrUnknownPage  = errors.New("unknown page")
	ErrUnknownMount = errors.New("unknown mount")
)

// ScenarioMount is the mount of a scenario's own chart, e.g. "chart-average".
func ScenarioMount(sc projection.Scenario) string { return "chart-" + string(sc) }

var pages = map[string][]string{
	PageDeck: {
		MountFinance,
		ScenarioMount(projection.Pessimistic),
		ScenarioMount(projection.Average),
		ScenarioMount(projection.Positive),
		MountClients,
	},
	PageLanding: {MountFinance},
}

// PageNames lists the page templates.
func PageNames() []string {
	out := make([]string, 0, len(pages))
	for p := range pages {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

var scenarioTitles = map[projection.Scenario]string{
	projection.Pessimistic: "Пессимистичный сценарий",
	projection.Average:     "Средний сценарий",
	projection.Positive:    "Позитивный сценарий",
}

// Deck renders catalog variants onto page templates.
type Deck struct {
	catalog   *projection.Catalog
	presenter *presenter.Presenter
	log       logrus.FieldLogger
}

func New(catalog *projection.Catalog, p *presenter.Presenter, log logrus.FieldLogger) *Deck {
	return &Deck{catalog: catalog, presenter: p, log: log}
}

func (d *Deck) Catalog() *projection.Catalog { return d.catalog }

// Build renders every chart the page template mounts for a variant.
func (d *Deck) Build(variant, page string, f presenter.Format) (*presenter.Page, error) {
	mounts, ok := pages[page]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	v, err := d.catalog.Variant(variant)
	if err != nil {
		return nil, err
	}
	pg := presenter.NewPage(variant+"/"+page, f, mounts...)
	if err := d.mount(pg, v); err != nil {
		return nil, err
	}
	d.log.WithFields(logrus.Fields{"variant": variant, "page": page, "format": f, "charts": len(pg.Charts())}).
		Info("deck: page built")
	return pg, nil
}

// Chart renders only the requested mount of a page template.
func (d *Deck) Chart(variant, page, mount string, f presenter.Format) (*presenter.Chart, error) {
	mounts, ok := pages[page]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	v, err := d.catalog.Variant(variant)
	if err != nil {
		return nil, err
	}
	pg := presenter.NewPage(variant+"/"+page, f, mounts...)
	if !pg.HasMount(mount) {
		return nil, fmt.Errorf("%w: %q on page %q", ErrUnknownMount, mount, page)
	}
	if err := d.present(pg, v, mount); err != nil {
		return nil, err
	}
	c, _ := pg.Chart(mount)
	return c, nil
}

// mount offers every chart of the deck to the page; the presenter skips mounts
// the page lacks.
func (d *Deck) mount(pg *presenter.Page, v projection.Variant) error {
	for _, m := range pages[PageDeck] {
		if err := d.present(pg, v, m); err != nil {
			return err
		}
	}
	return nil
}

func (d *Deck) present(pg *presenter.Page, v projection.Variant, mount string) error {
	desc, err := d.describe(v, mount)
	if err != nil {
		return err
	}
	if err := d.presenter.Present(pg, mount, desc); err != nil {
		return fmt.Errorf("%s: %w", mount, err)
	}
	return nil
}

// describe maps a mount to its chart: the finance comparison, a scenario chart
// of v, or the dual-axis clients chart, which always comes from the clients variant.
func (d *Deck) describe(v projection.Variant, mount string) (presenter.Description, error) {
	switch mount {
	case MountFinance:
		return FinanceDescription(v)
	case MountClients:
		clients, err := d.catalog.Variant(projection.VariantClients)
		if err != nil {
			return presenter.Description{}, err
		}
		desc, err := ScenarioDescription(clients, projection.Average, presenter.AxisDual)
		if err != nil {
			return presenter.Description{}, err
		}
		desc.Title = clients.Title
		return desc, nil
	}
	for _, sc := range v.Scenarios() {
		if ScenarioMount(sc) == mount {
			return ScenarioDescription(v, sc, presenter.AxisSingle)
		}
	}
	return presenter.Description{}, fmt.Errorf("%w: %q", ErrUnknownMount, mount)
}

// FinanceDescription compares the variant's cumulative cash flow across
// scenarios, or its revenue when cash flow is not tracked.
func FinanceDescription(v projection.Variant) (presenter.Description, error) {
	field, title := projection.FieldCashFlow, "Cumulative Cash Flow"
	if !v.Has(field) {
		field, title = projection.FieldRevenue, "Revenue by Scenario"
	}
	return presenter.Compare(v, field, presenter.Options{
		Title:    title,
		Subtitle: "Million Rubles",
		Names:    presenter.EnglishNames(),
		Tick:     format.TickMillions,
		Scale:    1e6,
	})
}

// ScenarioDescription is the single-scenario chart of a variant.
func ScenarioDescription(v projection.Variant, sc projection.Scenario, mode presenter.AxisMode) (presenter.Description, error) {
	s, err := v.Scenario(sc)
	if err != nil {
		return presenter.Description{}, err
	}
	opts := presenter.Options{
		Title:    scenarioTitles[sc],
		Subtitle: v.Title,
		AxisMode: mode,
	}
	if v.Has(projection.FieldCashFlow) && !v.Has(projection.FieldRevenue) {
		opts.Tick = format.TickMillions
	}
	return presenter.Describe(s, opts), nil
}
