package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Frankvj09/Actas/internal/db"
	"github.com/Frankvj09/Actas/internal/models"
)

// ActaStore is the slice of the data layer the acta workflow needs.
// *db.Database satisfies it.
type ActaStore interface {
	CreateActa(ctx context.Context, nombre string, archivo *string, subidoPor int) (*models.Acta, error)
	GetActaByID(ctx context.Context, id int) (*models.Acta, error)
	UpdateActa(ctx context.Context, id int, nombre string, archivo *string) error
	DeleteActaCascade(ctx context.Context, id int) error
	ForceDeleteActa(ctx context.Context, id int) error
	EnsureLectura(ctx context.Context, usuarioID, actaID int) (*models.Lectura, error)
	CreateSugerencia(ctx context.Context, actaID, usuarioID int, comentario string) (*models.Sugerencia, error)
	ListSugerenciasByActa(ctx context.Context, actaID int) ([]models.Sugerencia, error)
	GetSugerenciaByID(ctx context.Context, id int) (*models.Sugerencia, error)
	RespondSugerencia(ctx context.Context, id int, respuesta string) error
	ToggleVerificacion(ctx context.Context, actaID, usuarioID int) (bool, error)
	ListVerificadoresByActa(ctx context.Context, actaID int) ([]int, error)
}

// BlobStore is the file side of an upload. *storage.Store satisfies it.
type BlobStore interface {
	Save(name string, src io.Reader, size int64) (string, error)
	Remove(name string) error
}

type ActaService struct {
	store ActaStore
	blobs BlobStore
}

func NewActaService(store ActaStore, blobs BlobStore) *ActaService {
	return &ActaService{store: store, blobs: blobs}
}

// ActaDetail is everything the acta page renders: the record, the
// viewer's read receipt, suggestions newest-first and the IDs of users
// holding an active verification mark.
type ActaDetail struct {
	Acta          *models.Acta
	Lectura       *models.Lectura
	Sugerencias   []models.Sugerencia
	Verificadores []int
}

// Upload stores the file first and only then the record referencing it,
// so a crash in between leaves an orphaned file rather than a record
// pointing at nothing.
func (s *ActaService) Upload(ctx context.Context, actor Actor, title, filename string, src io.Reader, size int64) (*models.Acta, error) {
	var archivo *string
	if src != nil && filename != "" {
		stored, err := s.blobs.Save(filename, src, size)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		archivo = &stored
	}

	nombre := strings.TrimSpace(title)
	if nombre == "" {
		nombre = filename
	}
	if nombre == "" {
		nombre = "Acta sin título"
	}

	acta, err := s.store.CreateActa(ctx, nombre, archivo, actor.ID)
	if err != nil {
		return nil, err
	}

	return acta, nil
}

// View returns the acta and, as a side effect, marks it read by the
// actor. The mark is lazy and idempotent: the first view creates the
// lectura, later views return the same row.
func (s *ActaService) View(ctx context.Context, actor Actor, actaID int) (*ActaDetail, error) {
	acta, err := s.store.GetActaByID(ctx, actaID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	lectura, err := s.store.EnsureLectura(ctx, actor.ID, acta.ID)
	if err != nil {
		return nil, err
	}

	sugerencias, err := s.store.ListSugerenciasByActa(ctx, acta.ID)
	if err != nil {
		return nil, err
	}

	verificadores, err := s.store.ListVerificadoresByActa(ctx, acta.ID)
	if err != nil {
		return nil, err
	}

	return &ActaDetail{
		Acta:          acta,
		Lectura:       lectura,
		Sugerencias:   sugerencias,
		Verificadores: verificadores,
	}, nil
}

// Download resolves the stored filename for an acta's file.
func (s *ActaService) Download(ctx context.Context, actor Actor, actaID int) (string, error) {
	acta, err := s.store.GetActaByID(ctx, actaID)
	if err != nil {
		return "", mapNotFound(err)
	}
	if acta.Archivo == nil {
		return "", fmt.Errorf("%w: no hay archivo para descargar", ErrValidation)
	}
	return *acta.Archivo, nil
}

// ToggleVerification flips the actor's verification mark on the acta and
// reports the resulting state. The flip is resolved by the data layer
// inside a transaction, so duplicate concurrent calls cannot leave more
// than one active mark.
func (s *ActaService) ToggleVerification(ctx context.Context, actor Actor, actaID int) (bool, error) {
	acta, err := s.store.GetActaByID(ctx, actaID)
	if err != nil {
		return false, mapNotFound(err)
	}
	return s.store.ToggleVerificacion(ctx, acta.ID, actor.ID)
}

func (s *ActaService) Suggest(ctx context.Context, actor Actor, actaID int, texto string) (*models.Sugerencia, error) {
	texto = strings.TrimSpace(texto)
	if texto == "" {
		return nil, fmt.Errorf("%w: la sugerencia no puede estar vacía", ErrValidation)
	}

	acta, err := s.store.GetActaByID(ctx, actaID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	return s.store.CreateSugerencia(ctx, acta.ID, actor.ID, texto)
}

// Respond records an admin answer on a suggestion.
func (s *ActaService) Respond(ctx context.Context, actor Actor, sugerenciaID int, respuesta string) (*models.Sugerencia, error) {
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	sug, err := s.store.GetSugerenciaByID(ctx, sugerenciaID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if err := s.store.RespondSugerencia(ctx, sug.ID, respuesta); err != nil {
		return nil, err
	}

	sug.RespuestaAdmin = &respuesta
	return sug, nil
}

// Edit renames an acta and optionally replaces its file. Only an admin
// or the original uploader may edit; the permission check runs before
// any state changes. Removing the replaced file is best-effort.
func (s *ActaService) Edit(ctx context.Context, actor Actor, actaID int, newTitle, filename string, src io.Reader, size int64) (*models.Acta, error) {
	acta, err := s.store.GetActaByID(ctx, actaID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if !actor.IsAdmin() && actor.ID != acta.SubidoPor {
		return nil, ErrPermissionDenied
	}

	nombre := strings.TrimSpace(newTitle)
	if nombre == "" {
		nombre = acta.Nombre
	}

	var archivo *string
	if src != nil && filename != "" {
		stored, err := s.blobs.Save(filename, src, size)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if acta.Archivo != nil {
			if err := s.blobs.Remove(*acta.Archivo); err != nil {
				log.Printf("no se pudo eliminar el archivo anterior %q: %v", *acta.Archivo, err)
			}
		}
		archivo = &stored
	}

	if err := s.store.UpdateActa(ctx, acta.ID, nombre, archivo); err != nil {
		return nil, err
	}

	acta.Nombre = nombre
	if archivo != nil {
		acta.Archivo = archivo
	}
	return acta, nil
}

// Delete removes an acta, its file and its dependent rows. Admin only.
// When the cascade hits a referential-integrity conflict (legacy rows
// that predate the current constraints), the acta row itself is deleted
// directly; the returned forced flag tells the caller to report a
// degraded success instead of a clean one.
func (s *ActaService) Delete(ctx context.Context, actor Actor, actaID int) (forced bool, err error) {
	if !actor.IsAdmin() {
		return false, ErrPermissionDenied
	}

	acta, err := s.store.GetActaByID(ctx, actaID)
	if err != nil {
		return false, mapNotFound(err)
	}

	if acta.Archivo != nil {
		if err := s.blobs.Remove(*acta.Archivo); err != nil {
			log.Printf("no se pudo eliminar el archivo %q del acta %d: %v", *acta.Archivo, acta.ID, err)
		}
	}

	if err := s.store.DeleteActaCascade(ctx, acta.ID); err != nil {
		if !db.IsIntegrityViolation(err) {
			return false, err
		}
		log.Printf("eliminación en cascada del acta %d bloqueada (%v), forzando borrado directo", acta.ID, err)
		if err := s.store.ForceDeleteActa(ctx, acta.ID); err != nil {
			return false, fmt.Errorf("%w: %v", ErrIntegrityConflict, err)
		}
		return true, nil
	}

	return false, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
