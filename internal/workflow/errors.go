package workflow

import (
	"errors"

	"github.com/Frankvj09/Actas/internal/models"
)

// Every operation failure maps onto one of these sentinels so handlers
// can dispatch with errors.Is.
var (
	ErrValidation        = errors.New("datos inválidos")
	ErrPermissionDenied  = errors.New("acceso denegado")
	ErrNotFound          = errors.New("no encontrado")
	ErrIntegrityConflict = errors.New("conflicto de integridad referencial")
	ErrStorage           = errors.New("error de almacenamiento")
)

// Actor is the identity an operation runs as. It is passed explicitly
// into every operation instead of being read from ambient session state.
type Actor struct {
	ID   int
	Role models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}
