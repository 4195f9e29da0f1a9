package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"

	"github.com/Frankvj09/Actas/internal/db"
	"github.com/Frankvj09/Actas/internal/handlers"
	"github.com/Frankvj09/Actas/internal/middleware"
	"github.com/Frankvj09/Actas/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment as-is")
	}

	database, err := db.New()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	actaFiles, err := storage.New(uploadDir, "actas")
	if err != nil {
		log.Fatalf("Failed to create acta upload dir: %v", err)
	}
	cronFiles, err := storage.New(uploadDir, "cronogramas")
	if err != nil {
		log.Fatalf("Failed to create cronograma upload dir: %v", err)
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "default-secret-key-change-in-production"
	}

	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}

	h := handlers.New(database, store, actaFiles, cronFiles)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", h.LoginPage)
		r.Post("/login", h.LoginSubmit)
		r.Get("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(store))
			r.Get("/register", h.RegisterPage)
			r.Post("/register", h.RegisterSubmit)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(store))

		r.Get("/", h.Dashboard)
		r.Get("/subir", h.SubirActaPage)
		r.Post("/subir", h.SubirActaSubmit)
		r.Get("/ver/{id}", h.VerActa)
		r.Get("/descargar/{id}", h.DescargarActa)
		r.Get("/acta/{id}/editar", h.EditarActaPage)
		r.Post("/acta/{id}/editar", h.EditarActaSubmit)
		r.Post("/acta/{id}/eliminar", h.EliminarActa)
		r.Post("/acta/{id}/sugerir", h.SugerirActa)
		r.Post("/acta/{id}/verificar", h.VerificarActa)
		r.Post("/sugerencia/{id}/responder", h.ResponderSugerencia)

		r.Route("/cronogramas", func(r chi.Router) {
			r.Get("/", h.CronogramasIndex)
			r.Get("/subir", h.SubirCronogramaPage)
			r.Post("/subir", h.SubirCronogramaSubmit)
			r.Get("/{id}/editar", h.EditarCronogramaPage)
			r.Post("/{id}/editar", h.EditarCronogramaSubmit)
			r.Post("/{id}/eliminar", h.EliminarCronograma)
			r.Get("/ver/{id}", h.VerCronograma)
			r.Get("/descargar/{id}", h.DescargarCronograma)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "5500"
	}

	log.Printf("Servidor escuchando en :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
