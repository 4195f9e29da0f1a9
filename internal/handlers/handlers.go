package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/Frankvj09/Actas/internal/db"
	"github.com/Frankvj09/Actas/internal/models"
	"github.com/Frankvj09/Actas/internal/storage"
	"github.com/Frankvj09/Actas/internal/workflow"
)

type Handler struct {
	DB          *db.Database
	Store       *sessions.CookieStore
	Templates   *template.Template
	Actas       *workflow.ActaService
	Cronogramas *workflow.CronogramaService
	ActaFiles   *storage.Store
	CronFiles   *storage.Store
}

func New(database *db.Database, store *sessions.CookieStore, actaFiles, cronFiles *storage.Store) *Handler {
	tmpl := template.Must(template.ParseGlob("templates/*.html"))
	return &Handler{
		DB:          database,
		Store:       store,
		Templates:   tmpl,
		Actas:       workflow.NewActaService(database, actaFiles),
		Cronogramas: workflow.NewCronogramaService(database, cronFiles),
		ActaFiles:   actaFiles,
		CronFiles:   cronFiles,
	}
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func (h *Handler) currentActor(r *http.Request) (workflow.Actor, bool) {
	session, _ := h.Store.Get(r, "session")
	userID, ok := session.Values["user_id"].(int)
	if !ok {
		return workflow.Actor{}, false
	}
	role, _ := session.Values["role"].(string)
	return workflow.Actor{ID: userID, Role: models.Role(role)}, true
}

func (h *Handler) currentUsername(r *http.Request) string {
	session, _ := h.Store.Get(r, "session")
	username, _ := session.Values["username"].(string)
	return username
}

func (h *Handler) flash(w http.ResponseWriter, r *http.Request, category, message string) {
	session, _ := h.Store.Get(r, "session")
	session.AddFlash(category + "|" + message)
	session.Save(r, w)
}

func (h *Handler) flashes(w http.ResponseWriter, r *http.Request) []Flash {
	session, _ := h.Store.Get(r, "session")
	raw := session.Flashes()
	if len(raw) > 0 {
		session.Save(r, w)
	}

	var out []Flash
	for _, f := range raw {
		s, ok := f.(string)
		if !ok {
			continue
		}
		category, message, found := strings.Cut(s, "|")
		if !found {
			category, message = "info", s
		}
		out = append(out, Flash{Category: category, Message: message})
	}
	return out
}

func (h *Handler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("error renderizando %s: %v", name, err)
	}
}

// fail maps a workflow error to a user-visible response: validation and
// permission problems become flash messages, missing entities become a
// 404, anything else is logged and reported generically.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, redirect string) {
	switch {
	case errors.Is(err, workflow.ErrPermissionDenied):
		h.flash(w, r, "danger", "Acceso denegado")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	case errors.Is(err, workflow.ErrValidation):
		h.flash(w, r, "warning", err.Error())
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	case errors.Is(err, workflow.ErrNotFound):
		http.NotFound(w, r)
	default:
		log.Printf("error inesperado en %s: %v", r.URL.Path, err)
		h.flash(w, r, "danger", "Ocurrió un error inesperado")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	}
}
