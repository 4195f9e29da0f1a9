package handlers

import (
	"net/http"

	"github.com/Frankvj09/Actas/internal/auth"
	"github.com/Frankvj09/Actas/internal/models"
)

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentActor(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, "login.html", map[string]interface{}{
		"Flashes": h.flashes(w, r),
	})
}

func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.DB.GetUserByUsername(r.Context(), username)
	if err != nil {
		h.flash(w, r, "danger", "Usuario o contraseña incorrectos")
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		h.flash(w, r, "danger", "Usuario o contraseña incorrectos")
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	session, _ := h.Store.Get(r, "session")
	session.Values["user_id"] = user.ID
	session.Values["username"] = user.Username
	session.Values["role"] = string(user.Role)
	session.Save(r, w)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.Store.Get(r, "session")
	session.Options.MaxAge = -1
	session.Save(r, w)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// Registration is an admin-management operation, not public signup: the
// router mounts it behind RequireAdmin.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	actor, _ := h.currentActor(r)
	h.render(w, "register.html", map[string]interface{}{
		"Flashes":  h.flashes(w, r),
		"Username": h.currentUsername(r),
		"IsAdmin":  actor.IsAdmin(),
	})
}

func (h *Handler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	role := models.Role(r.FormValue("role"))

	if username == "" {
		h.flash(w, r, "warning", "El nombre de usuario es obligatorio")
		http.Redirect(w, r, "/auth/register", http.StatusSeeOther)
		return
	}

	if !role.Valid() {
		role = models.RoleUser
	}

	if err := auth.ValidatePassword(password); err != nil {
		h.flash(w, r, "warning", err.Error())
		http.Redirect(w, r, "/auth/register", http.StatusSeeOther)
		return
	}

	exists, err := h.DB.UsernameExists(r.Context(), username)
	if err != nil {
		h.fail(w, r, err, "/auth/register")
		return
	}
	if exists {
		h.flash(w, r, "warning", "Usuario ya existe")
		http.Redirect(w, r, "/auth/register", http.StatusSeeOther)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		h.fail(w, r, err, "/auth/register")
		return
	}

	if _, err := h.DB.CreateUser(r.Context(), username, hash, role); err != nil {
		h.fail(w, r, err, "/auth/register")
		return
	}

	h.flash(w, r, "success", "Usuario creado")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
