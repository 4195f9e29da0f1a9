package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Frankvj09/Actas/internal/models"
	"github.com/Frankvj09/Actas/internal/storage"
)

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)

	actas, err := h.DB.ListActas(r.Context())
	if err != nil {
		actas = []models.Acta{}
	}

	lecturas := map[int]models.Lectura{}
	if list, err := h.DB.ListLecturasByUser(r.Context(), actor.ID); err == nil {
		for _, l := range list {
			lecturas[l.ActaID] = l
		}
	}

	cronogramas, err := h.Cronogramas.List(r.Context())
	if err != nil {
		cronogramas = []models.Cronograma{}
	}

	h.render(w, "dashboard.html", map[string]interface{}{
		"Flashes":     h.flashes(w, r),
		"Username":    h.currentUsername(r),
		"IsAdmin":     actor.IsAdmin(),
		"Actas":       actas,
		"Lecturas":    lecturas,
		"Cronogramas": cronogramas,
	})
}

func (h *Handler) SubirActaPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "subir_acta.html", map[string]interface{}{
		"Flashes":  h.flashes(w, r),
		"Username": h.currentUsername(r),
	})
}

func (h *Handler) SubirActaSubmit(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)

	r.ParseMultipartForm(storage.MaxFileSize)
	title := r.FormValue("title")

	src, filename, size := formFile(r, "archivo")
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	if _, err := h.Actas.Upload(r.Context(), actor, title, filename, src, size); err != nil {
		h.fail(w, r, err, "/subir")
		return
	}

	h.flash(w, r, "success", "Acta subida correctamente")
	http.Redirect(w, r, "/subir", http.StatusSeeOther)
}

func (h *Handler) VerActa(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	actaID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	detail, err := h.Actas.View(r.Context(), actor, actaID)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}

	yaVerifico := false
	for _, id := range detail.Verificadores {
		if id == actor.ID {
			yaVerifico = true
			break
		}
	}

	h.render(w, "leer_acta.html", map[string]interface{}{
		"Flashes":       h.flashes(w, r),
		"Username":      h.currentUsername(r),
		"IsAdmin":       actor.IsAdmin(),
		"ActorID":       actor.ID,
		"Acta":          detail.Acta,
		"Lectura":       detail.Lectura,
		"Sugerencias":   detail.Sugerencias,
		"Verificadores": detail.Verificadores,
		"YaVerifico":    yaVerifico,
	})
}

func (h *Handler) DescargarActa(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	actaID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	stored, err := h.Actas.Download(r.Context(), actor, actaID)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}

	h.serveStored(w, r, h.ActaFiles, stored, true, "/")
}

func (h *Handler) SugerirActa(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	actaID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	texto := r.FormValue("sugerencia")

	redirect := fmt.Sprintf("/ver/%d", actaID)
	if _, err := h.Actas.Suggest(r.Context(), actor, actaID, texto); err != nil {
		h.fail(w, r, err, redirect)
		return
	}

	h.flash(w, r, "success", "Sugerencia enviada")
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *Handler) ResponderSugerencia(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	sugID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	respuesta := r.FormValue("respuesta")

	sug, err := h.Actas.Respond(r.Context(), actor, sugID, respuesta)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}

	h.flash(w, r, "success", "Respuesta guardada")
	http.Redirect(w, r, fmt.Sprintf("/ver/%d", sug.ActaID), http.StatusSeeOther)
}

func (h *Handler) EditarActaPage(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	actaID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	acta, err := h.DB.GetActaByID(r.Context(), actaID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if !actor.IsAdmin() && actor.ID != acta.SubidoPor {
		h.flash(w, r, "danger", "Acceso denegado")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, "editar_acta.html", map[string]interface{}{
		"Flashes":  h.flashes(w, r),
		"Username": h.currentUsername(r),
		"Acta":     acta,
	})
}

func (h *Handler) EditarActaSubmit(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	actaID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	r.ParseMultipartForm(storage.MaxFileSize)
	title := r.FormValue("title")

	src, filename, size := formFile(r, "archivo")
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	if _, err := h.Actas.Edit(r.Context(), actor, actaID, title, filename, src, size); err != nil {
		h.fail(w, r, err, "/")
		return
	}

	h.flash(w, r, "success", "Acta actualizada")
	http.Redirect(w, r, fmt.Sprintf("/ver/%d", actaID), http.StatusSeeOther)
}

func (h *Handler) EliminarActa(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	actaID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	forced, err := h.Actas.Delete(r.Context(), actor, actaID)
	if err != nil {
		h.fail(w, r, err, "/")
		return
	}

	if forced {
		h.flash(w, r, "warning", "Acta antigua eliminada forzosamente")
	} else {
		h.flash(w, r, "success", "Acta eliminada correctamente")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) VerificarActa(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	actaID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	ajax := r.Header.Get("X-Requested-With") == "XMLHttpRequest"

	estado, err := h.Actas.ToggleVerification(r.Context(), actor, actaID)
	if err != nil {
		if ajax {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"mensaje": "No se pudo actualizar la verificación",
			})
			return
		}
		h.fail(w, r, err, "/")
		return
	}

	mensaje := "Has quitado la verificación del acta."
	if estado {
		mensaje = "Has verificado el acta correctamente."
	}

	if ajax {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"estado":  estado,
			"mensaje": mensaje,
		})
		return
	}

	if estado {
		h.flash(w, r, "success", mensaje)
	} else {
		h.flash(w, r, "warning", mensaje)
	}
	http.Redirect(w, r, fmt.Sprintf("/ver/%d", actaID), http.StatusSeeOther)
}

// formFile extracts an optional upload field. A missing file is not an
// error: the caller gets a nil reader.
func formFile(r *http.Request, field string) (io.Reader, string, int64) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", 0
	}
	return file, header.Filename, header.Size
}

// serveStored streams a stored file, handling the record-without-file
// case gracefully: a missing blob is a flash warning, never a crash.
func (h *Handler) serveStored(w http.ResponseWriter, r *http.Request, store *storage.Store, name string, attachment bool, redirect string) {
	path, err := store.Path(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if _, err := os.Stat(path); err != nil {
		h.flash(w, r, "warning", "El archivo ya no está disponible")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}

	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	http.ServeFile(w, r, path)
}
