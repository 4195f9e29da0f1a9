package workflow

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/Frankvj09/Actas/internal/models"
)

// CronogramaStore is the data-layer slice for the schedule workflow.
// *db.Database satisfies it.
type CronogramaStore interface {
	CreateCronograma(ctx context.Context, nombre string, archivo *string, fecha *time.Time, subidoPor int) (*models.Cronograma, error)
	ListCronogramas(ctx context.Context) ([]models.Cronograma, error)
	GetCronogramaByID(ctx context.Context, id int) (*models.Cronograma, error)
	UpdateCronograma(ctx context.Context, id int, nombre string, fecha *time.Time, archivo *string) error
	DeleteCronograma(ctx context.Context, id int) error
}

type CronogramaService struct {
	store CronogramaStore
	blobs BlobStore
}

func NewCronogramaService(store CronogramaStore, blobs BlobStore) *CronogramaService {
	return &CronogramaService{store: store, blobs: blobs}
}

var fechaLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseFecha parses an ISO-8601 date or date-time from a form field.
// Anything unparsable yields nil: a bad event date never fails the
// operation carrying it.
func ParseFecha(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range fechaLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func (s *CronogramaService) Upload(ctx context.Context, actor Actor, nombre, fechaEvento, filename string, src io.Reader, size int64) (*models.Cronograma, error) {
	var archivo *string
	if src != nil && filename != "" {
		stored, err := s.blobs.Save(filename, src, size)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		archivo = &stored
	}

	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		nombre = "Cronograma"
	}

	return s.store.CreateCronograma(ctx, nombre, archivo, ParseFecha(fechaEvento), actor.ID)
}

func (s *CronogramaService) List(ctx context.Context) ([]models.Cronograma, error) {
	return s.store.ListCronogramas(ctx)
}

func (s *CronogramaService) Get(ctx context.Context, id int) (*models.Cronograma, error) {
	c, err := s.store.GetCronogramaByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

// Download resolves the stored filename for a cronograma's file.
func (s *CronogramaService) Download(ctx context.Context, actor Actor, id int) (string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if c.Archivo == nil {
		return "", fmt.Errorf("%w: no hay archivo para este cronograma", ErrValidation)
	}
	return *c.Archivo, nil
}

// Edit renames a cronograma, optionally moves its event date and
// optionally replaces its file. Admin or uploader only. An unparsable
// new date keeps the previous one.
func (s *CronogramaService) Edit(ctx context.Context, actor Actor, id int, nombre, fechaEvento, filename string, src io.Reader, size int64) (*models.Cronograma, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && actor.ID != c.SubidoPor {
		return nil, ErrPermissionDenied
	}

	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		nombre = c.Nombre
	}

	var archivo *string
	if src != nil && filename != "" {
		stored, err := s.blobs.Save(filename, src, size)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if c.Archivo != nil {
			if err := s.blobs.Remove(*c.Archivo); err != nil {
				log.Printf("no se pudo eliminar el archivo anterior %q: %v", *c.Archivo, err)
			}
		}
		archivo = &stored
	}

	fecha := ParseFecha(fechaEvento)
	if err := s.store.UpdateCronograma(ctx, c.ID, nombre, fecha, archivo); err != nil {
		return nil, err
	}

	c.Nombre = nombre
	if fecha != nil {
		c.Fecha = fecha
	}
	if archivo != nil {
		c.Archivo = archivo
	}
	return c, nil
}

// Delete removes a cronograma and its file. Admin only. Unlike actas
// there is no forced-delete fallback: cronogramas have no legacy rows
// predating the constraints, so a failed delete is a plain error.
func (s *CronogramaService) Delete(ctx context.Context, actor Actor, id int) error {
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if c.Archivo != nil {
		if err := s.blobs.Remove(*c.Archivo); err != nil {
			log.Printf("no se pudo eliminar el archivo %q del cronograma %d: %v", *c.Archivo, c.ID, err)
		}
	}

	return s.store.DeleteCronograma(ctx, c.ID)
}
