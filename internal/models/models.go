package models

import "time"

// Role is the closed set of account roles. The column is text in the
// database, so Valid guards anything read back from storage or a form.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

type Acta struct {
	ID          int       `json:"id"`
	Nombre      string    `json:"nombre"`
	Archivo     *string   `json:"archivo"`
	FechaSubida time.Time `json:"fecha_subida"`
	SubidoPor   int       `json:"subido_por"`

	// Verificada is recomputed from verificaciones_actas on every read,
	// never stored.
	Verificada bool `json:"verificada"`
}

type Lectura struct {
	ID           int       `json:"id"`
	UsuarioID    int       `json:"usuario_id"`
	ActaID       int       `json:"acta_id"`
	FechaLectura time.Time `json:"fecha_lectura"`
	Conforme     bool      `json:"conforme"`
	Firma        string    `json:"firma"`
}

type Sugerencia struct {
	ID             int       `json:"id"`
	ActaID         int       `json:"acta_id"`
	UsuarioID      int       `json:"usuario_id"`
	Username       string    `json:"username"`
	Comentario     string    `json:"comentario"`
	RespuestaAdmin *string   `json:"respuesta_admin"`
	Fecha          time.Time `json:"fecha"`
}

type Cronograma struct {
	ID          int        `json:"id"`
	Nombre      string     `json:"nombre"`
	Archivo     *string    `json:"archivo"`
	Fecha       *time.Time `json:"fecha"`
	FechaSubida time.Time  `json:"fecha_subida"`
	SubidoPor   int        `json:"subido_por"`
}

type VerificacionActa struct {
	ID                int       `json:"id"`
	ActaID            int       `json:"acta_id"`
	UsuarioID         int       `json:"usuario_id"`
	FechaVerificacion time.Time `json:"fecha_verificacion"`
}
