package db

import (
	"context"
	"time"

	"github.com/Frankvj09/Actas/internal/models"
)

func (db *Database) CreateCronograma(ctx context.Context, nombre string, archivo *string, fecha *time.Time, subidoPor int) (*models.Cronograma, error) {
	c := models.Cronograma{Nombre: nombre, Archivo: archivo, Fecha: fecha, SubidoPor: subidoPor}

	err := db.Pool.QueryRow(ctx,
		"INSERT INTO cronogramas (nombre, archivo, fecha, subido_por) VALUES ($1, $2, $3, $4) RETURNING id, fecha_subida",
		nombre, archivo, fecha, subidoPor,
	).Scan(&c.ID, &c.FechaSubida)

	if err != nil {
		return nil, err
	}

	return &c, nil
}

// ListCronogramas orders by event date ascending; rows without a date
// sort wherever PostgreSQL puts NULLs, callers should not depend on it.
func (db *Database) ListCronogramas(ctx context.Context) ([]models.Cronograma, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT id, nombre, archivo, fecha, fecha_subida, subido_por FROM cronogramas ORDER BY fecha ASC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cronogramas []models.Cronograma
	for rows.Next() {
		var c models.Cronograma
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Archivo, &c.Fecha, &c.FechaSubida, &c.SubidoPor); err != nil {
			return nil, err
		}
		cronogramas = append(cronogramas, c)
	}

	return cronogramas, rows.Err()
}

func (db *Database) GetCronogramaByID(ctx context.Context, id int) (*models.Cronograma, error) {
	var c models.Cronograma

	err := db.Pool.QueryRow(ctx,
		"SELECT id, nombre, archivo, fecha, fecha_subida, subido_por FROM cronogramas WHERE id = $1",
		id,
	).Scan(&c.ID, &c.Nombre, &c.Archivo, &c.Fecha, &c.FechaSubida, &c.SubidoPor)

	if err != nil {
		return nil, err
	}

	return &c, nil
}

// UpdateCronograma keeps the previous fecha or archivo when the new value
// is nil.
func (db *Database) UpdateCronograma(ctx context.Context, id int, nombre string, fecha *time.Time, archivo *string) error {
	_, err := db.Pool.Exec(ctx,
		"UPDATE cronogramas SET nombre = $1, fecha = COALESCE($2, fecha), archivo = COALESCE($3, archivo) WHERE id = $4",
		nombre, fecha, archivo, id,
	)

	return err
}

func (db *Database) DeleteCronograma(ctx context.Context, id int) error {
	_, err := db.Pool.Exec(ctx, "DELETE FROM cronogramas WHERE id = $1", id)
	return err
}
