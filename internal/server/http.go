package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/snikulin87-hue/pres-entation/internal/deck"
	"github.com/snikulin87-hue/pres-entation/internal/presenter"
	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

type Handler struct {
	deck *deck.Deck
	log  logrus.FieldLogger
}

// NewRouter registers the deck routes; webhook may be nil when no bot runs.
func NewRouter(d *deck.Deck, webhook http.HandlerFunc, log logrus.FieldLogger) *mux.Router {
	h := &Handler{deck: d, log: log}
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }).Methods("GET")
	r.HandleFunc("/deck/{variant}/{page}", h.Page).Methods("GET")
	r.HandleFunc("/charts/{variant}/{page}/{mount}.{format:png|svg}", h.Chart).Methods("GET")
	r.HandleFunc("/api/{variant}/{scenario}", h.Description).Methods("GET")
	if webhook != nil {
		r.HandleFunc("/telegram/webhook", webhook).Methods("POST")
	}
	return r
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Page serves the HTML page of a variant; ?format=svg switches the images.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	f, err := presenter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, err := h.deck.Catalog().Variant(vars["variant"])
	if err != nil {
		h.fail(w, err)
		return
	}
	pg, err := h.deck.Build(v.Name, vars["page"], f)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(deck.PageHTML(v.Title, pg))); err != nil {
		h.log.WithError(err).Debug("http: page write failed")
	}
}

func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	c, err := h.deck.Chart(vars["variant"], vars["page"], vars["mount"], presenter.Format(vars["format"]))
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", c.Format.ContentType())
	if _, err := w.Write(c.Image); err != nil {
		h.log.WithError(err).WithField("mount", c.Mount).Debug("http: chart write failed")
	}
}

// Description returns the chart description of one scenario as JSON;
// ?axis=dual adds the client-count axis where the variant tracks clients.
func (h *Handler) Description(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	v, err := h.deck.Catalog().Variant(vars["variant"])
	if err != nil {
		h.fail(w, err)
		return
	}
	sc, err := projection.ParseScenario(vars["scenario"])
	if err != nil {
		h.fail(w, err)
		return
	}
	mode := presenter.AxisSingle
	if r.URL.Query().Get("axis") == string(presenter.AxisDual) {
		mode = presenter.AxisDual
	}
	d, err := deck.ScenarioDescription(v, sc, mode)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(d); err != nil {
		h.log.WithError(err).Debug("http: description encode failed")
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, projection.ErrUnknownVariant),
		errors.Is(err, projection.ErrUnknownScenario),
		errors.Is(err, deck.ErrUnknownPage),
		errors.Is(err, deck.ErrUnknownMount):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.log.WithError(err).Error("http: render failed")
		http.Error(w, "render failed: "+err.Error(), http.StatusInternalServerError)
	}
}

func ListenAndServe(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
