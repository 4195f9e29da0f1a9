package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Frankvj09/Actas/internal/models"
	"github.com/Frankvj09/Actas/internal/storage"
)

func (h *Handler) CronogramasIndex(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)

	cronogramas, err := h.Cronogramas.List(r.Context())
	if err != nil {
		cronogramas = []models.Cronograma{}
	}

	h.render(w, "cronogramas.html", map[string]interface{}{
		"Flashes":     h.flashes(w, r),
		"Username":    h.currentUsername(r),
		"IsAdmin":     actor.IsAdmin(),
		"ActorID":     actor.ID,
		"Cronogramas": cronogramas,
	})
}

func (h *Handler) SubirCronogramaPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "subir_cronograma.html", map[string]interface{}{
		"Flashes":  h.flashes(w, r),
		"Username": h.currentUsername(r),
	})
}

func (h *Handler) SubirCronogramaSubmit(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)

	r.ParseMultipartForm(storage.MaxFileSize)
	nombre := r.FormValue("nombre")
	fechaEvento := r.FormValue("fecha_evento")

	src, filename, size := formFile(r, "archivo")
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	if _, err := h.Cronogramas.Upload(r.Context(), actor, nombre, fechaEvento, filename, src, size); err != nil {
		h.fail(w, r, err, "/cronogramas/subir")
		return
	}

	h.flash(w, r, "success", "Cronograma guardado")
	http.Redirect(w, r, "/cronogramas/subir", http.StatusSeeOther)
}

func (h *Handler) EditarCronogramaPage(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	c, err := h.Cronogramas.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "/cronogramas")
		return
	}

	if !actor.IsAdmin() && actor.ID != c.SubidoPor {
		h.flash(w, r, "danger", "Acceso denegado")
		http.Redirect(w, r, "/cronogramas", http.StatusSeeOther)
		return
	}

	h.render(w, "editar_cronograma.html", map[string]interface{}{
		"Flashes":    h.flashes(w, r),
		"Username":   h.currentUsername(r),
		"Cronograma": c,
	})
}

func (h *Handler) EditarCronogramaSubmit(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	r.ParseMultipartForm(storage.MaxFileSize)
	nombre := r.FormValue("nombre")
	fechaEvento := r.FormValue("fecha_evento")

	src, filename, size := formFile(r, "archivo")
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	if _, err := h.Cronogramas.Edit(r.Context(), actor, id, nombre, fechaEvento, filename, src, size); err != nil {
		h.fail(w, r, err, "/cronogramas")
		return
	}

	h.flash(w, r, "success", "Cronograma actualizado")
	http.Redirect(w, r, "/cronogramas", http.StatusSeeOther)
}

func (h *Handler) EliminarCronograma(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	if err := h.Cronogramas.Delete(r.Context(), actor, id); err != nil {
		h.fail(w, r, err, "/cronogramas")
		return
	}

	h.flash(w, r, "success", "Cronograma eliminado")
	http.Redirect(w, r, "/cronogramas", http.StatusSeeOther)
}

func (h *Handler) VerCronograma(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	stored, err := h.Cronogramas.Download(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err, "/cronogramas")
		return
	}

	h.serveStored(w, r, h.CronFiles, stored, false, "/cronogramas")
}

func (h *Handler) DescargarCronograma(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	stored, err := h.Cronogramas.Download(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err, "/cronogramas")
		return
	}

	h.serveStored(w, r, h.CronFiles, stored, true, "/cronogramas")
}
