// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hbnb_web/internal/adapters/observability"
	"hbnb_web/internal/app"
	"hbnb_web/internal/domain"
	"hbnb_web/internal/pages"
	"hbnb_web/internal/render"
	"hbnb_web/internal/session"
)

const (
	flashCookie  = "flash"
	maxFormBytes = 64 << 10
)

type Handlers struct {
	Pages    *pages.Registry
	Loader   *app.PageService
	Commands *app.CommandService
	Flash    domain.FlashStore
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		h.servePage(w, r, "index.html", session.FromRequest(r), r.URL.Query(), "", nil)
	})
	s.mux.Get("/logout", h.logout)
	s.mux.Get("/{page}", h.getPage)
	s.mux.Post("/{page}", h.postPage)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func (h *Handlers) getPage(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, chi.URLParam(r, "page"), session.FromRequest(r), r.URL.Query(), "", nil)
}

// postPage routes a form submission by the kind of page it was posted to.
func (h *Handlers) postPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "page")
	kind, ok := h.Pages.Kind(name)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no such page")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid form", err.Error())
		return
	}
	sess := session.FromRequest(r)

	var cmd app.Command
	switch kind {
	case pages.Login:
		cmd = app.LoginRequested{Email: r.PostFormValue("email"), Password: r.PostFormValue("password")}
	case pages.Details, pages.AddReview:
		cmd = app.ReviewSubmitted{
			Page:    kind,
			PlaceID: r.FormValue("id"),
			Text:    firstNonEmpty(r.PostFormValue("text"), r.PostFormValue("review"), r.PostFormValue("review-text")),
			Rating:  r.PostFormValue("rating"),
		}
	default:
		writeProblem(w, http.StatusMethodNotAllowed, "Method Not Allowed", "page has no form")
		return
	}

	out := h.Commands.Handle(r.Context(), sess, cmd)
	h.apply(w, r, name, kind, sess, out)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromRequest(r)
	h.apply(w, r, "index.html", pages.List, sess, h.Commands.Handle(r.Context(), sess, app.LogoutRequested{}))
}

// apply turns a command Outcome into cookies plus a redirect or a rendered page.
func (h *Handlers) apply(w http.ResponseWriter, r *http.Request, name string, kind pages.Kind, sess domain.Session, out app.Outcome) {
	if out.ClearToken {
		session.ClearToken(w)
		sess = domain.Session{}
	}
	if out.SetToken != "" {
		session.SetToken(w, out.SetToken)
		sess = domain.Session{Token: out.SetToken}
	}

	switch {
	case out.Redirect != "":
		if out.Flash != "" {
			h.putFlash(w, r, out.Flash)
		}
		observability.ObservePage(kind.String(), "redirect")
		http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
	case out.Refresh:
		h.servePage(w, r, name, sess, url.Values{"id": {r.FormValue("id")}}, out.Alert, nil)
	default:
		h.servePage(w, r, name, sess, url.Values{"id": {r.FormValue("id")}}, out.Alert, func(doc *goquery.Document) {
			switch kind {
			case pages.Login:
				render.FillLoginForm(doc, out.Email)
			case pages.Details, pages.AddReview:
				render.FillReviewForm(doc, out.Text, out.Rating)
			}
		})
	}
}

// servePage runs the page's load workflow and writes the painted markup.
// alert, when empty, is taken from a pending flash message.
func (h *Handlers) servePage(w http.ResponseWriter, r *http.Request, name string, sess domain.Session, q url.Values, alert string, fill func(*goquery.Document)) {
	doc, kind, err := h.Pages.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeProblem(w, http.StatusNotFound, "Not Found", "no such page")
			return
		}
		log.Error().Err(err).Str("page", name).Msg("open page failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	v, redirect := h.Loader.Load(r.Context(), kind, sess, q)
	if redirect != "" {
		observability.ObservePage(kind.String(), "redirect")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	app.Paint(doc, v)
	if alert == "" {
		alert = h.takeFlash(w, r)
	}
	render.Alert(doc, alert)
	if fill != nil {
		fill(doc)
	}

	body, err := render.HTML(doc)
	if err != nil {
		log.Error().Err(err).Str("page", name).Msg("serialize page failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	observability.ObservePage(kind.String(), "rendered")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// pages are always rebuilt from the API, never reused
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Error().Err(err).Str("page", name).Msg("failed to write page")
	}
}

func (h *Handlers) putFlash(w http.ResponseWriter, r *http.Request, msg string) {
	if h.Flash == nil {
		return
	}
	id, err := h.Flash.Put(r.Context(), msg)
	if err != nil {
		log.Warn().Err(err).Msg("flash put failed")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: id, Path: "/", HttpOnly: true, MaxAge: 60, SameSite: http.SameSiteLaxMode})
}

func (h *Handlers) takeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || h.Flash == nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", Expires: time.Unix(0, 0).UTC(), MaxAge: -1})
	msg, ok, err := h.Flash.Take(r.Context(), c.Value)
	if err != nil {
		log.Warn().Err(err).Msg("flash take failed")
		return ""
	}
	if !ok {
		return ""
	}
	return msg
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
