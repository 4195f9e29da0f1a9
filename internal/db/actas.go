package db

import (
	"context"

	"github.com/Frankvj09/Actas/internal/models"
)

func (db *Database) CreateActa(ctx context.Context, nombre string, archivo *string, subidoPor int) (*models.Acta, error) {
	a := models.Acta{Nombre: nombre, Archivo: archivo, SubidoPor: subidoPor}

	err := db.Pool.QueryRow(ctx,
		"INSERT INTO actas (nombre, archivo, subido_por) VALUES ($1, $2, $3) RETURNING id, fecha_subida",
		nombre, archivo, subidoPor,
	).Scan(&a.ID, &a.FechaSubida)

	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (db *Database) ListActas(ctx context.Context) ([]models.Acta, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT a.id, a.nombre, a.archivo, a.fecha_subida, a.subido_por,
		        EXISTS (SELECT 1 FROM verificaciones_actas v WHERE v.acta_id = a.id) AS verificada
		 FROM actas a
		 ORDER BY a.fecha_subida DESC, a.id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actas []models.Acta
	for rows.Next() {
		var a models.Acta
		if err := rows.Scan(&a.ID, &a.Nombre, &a.Archivo, &a.FechaSubida, &a.SubidoPor, &a.Verificada); err != nil {
			return nil, err
		}
		actas = append(actas, a)
	}

	return actas, rows.Err()
}

func (db *Database) GetActaByID(ctx context.Context, id int) (*models.Acta, error) {
	var a models.Acta

	err := db.Pool.QueryRow(ctx,
		`SELECT a.id, a.nombre, a.archivo, a.fecha_subida, a.subido_por,
		        EXISTS (SELECT 1 FROM verificaciones_actas v WHERE v.acta_id = a.id) AS verificada
		 FROM actas a
		 WHERE a.id = $1`,
		id,
	).Scan(&a.ID, &a.Nombre, &a.Archivo, &a.FechaSubida, &a.SubidoPor, &a.Verificada)

	if err != nil {
		return nil, err
	}

	return &a, nil
}

// UpdateActa renames an acta and, when archivo is non-nil, replaces the
// stored file reference.
func (db *Database) UpdateActa(ctx context.Context, id int, nombre string, archivo *string) error {
	_, err := db.Pool.Exec(ctx,
		"UPDATE actas SET nombre = $1, archivo = COALESCE($2, archivo) WHERE id = $3",
		nombre, archivo, id,
	)

	return err
}

// DeleteActaCascade removes an acta and its dependent rows in one
// transaction.
func (db *Database) DeleteActaCascade(ctx context.Context, id int) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		"DELETE FROM lecturas WHERE acta_id = $1",
		"DELETE FROM sugerencias WHERE acta_id = $1",
		"DELETE FROM verificaciones_actas WHERE acta_id = $1",
		"DELETE FROM actas WHERE id = $1",
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ForceDeleteActa removes the acta row itself, ignoring dependent rows.
// It is the repair path for legacy actas whose dependents predate the
// current constraints and block the cascade.
func (db *Database) ForceDeleteActa(ctx context.Context, id int) error {
	_, err := db.Pool.Exec(ctx, "DELETE FROM actas WHERE id = $1", id)
	return err
}

// EnsureLectura records that a user has seen an acta. The UNIQUE
// (usuario_id, acta_id) constraint keeps duplicate concurrent calls from
// creating a second row; the returned lectura is whichever row survived.
func (db *Database) EnsureLectura(ctx context.Context, usuarioID, actaID int) (*models.Lectura, error) {
	_, err := db.Pool.Exec(ctx,
		"INSERT INTO lecturas (usuario_id, acta_id) VALUES ($1, $2) ON CONFLICT (usuario_id, acta_id) DO NOTHING",
		usuarioID, actaID,
	)
	if err != nil {
		return nil, err
	}

	var l models.Lectura
	err = db.Pool.QueryRow(ctx,
		"SELECT id, usuario_id, acta_id, fecha_lectura, conforme, COALESCE(firma, '') FROM lecturas WHERE usuario_id = $1 AND acta_id = $2",
		usuarioID, actaID,
	).Scan(&l.ID, &l.UsuarioID, &l.ActaID, &l.FechaLectura, &l.Conforme, &l.Firma)

	if err != nil {
		return nil, err
	}

	return &l, nil
}

func (db *Database) ListLecturasByUser(ctx context.Context, usuarioID int) ([]models.Lectura, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT id, usuario_id, acta_id, fecha_lectura, conforme, COALESCE(firma, '') FROM lecturas WHERE usuario_id = $1",
		usuarioID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lecturas []models.Lectura
	for rows.Next() {
		var l models.Lectura
		if err := rows.Scan(&l.ID, &l.UsuarioID, &l.ActaID, &l.FechaLectura, &l.Conforme, &l.Firma); err != nil {
			return nil, err
		}
		lecturas = append(lecturas, l)
	}

	return lecturas, rows.Err()
}

func (db *Database) CreateSugerencia(ctx context.Context, actaID, usuarioID int, comentario string) (*models.Sugerencia, error) {
	s := models.Sugerencia{ActaID: actaID, UsuarioID: usuarioID, Comentario: comentario}

	err := db.Pool.QueryRow(ctx,
		"INSERT INTO sugerencias (acta_id, usuario_id, comentario) VALUES ($1, $2, $3) RETURNING id, fecha",
		actaID, usuarioID, comentario,
	).Scan(&s.ID, &s.Fecha)

	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (db *Database) ListSugerenciasByActa(ctx context.Context, actaID int) ([]models.Sugerencia, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT s.id, s.acta_id, s.usuario_id, u.username, s.comentario, s.respuesta_admin, s.fecha
		 FROM sugerencias s
		 JOIN users u ON s.usuario_id = u.id
		 WHERE s.acta_id = $1
		 ORDER BY s.fecha DESC, s.id DESC`,
		actaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sugerencias []models.Sugerencia
	for rows.Next() {
		var s models.Sugerencia
		if err := rows.Scan(&s.ID, &s.ActaID, &s.UsuarioID, &s.Username, &s.Comentario, &s.RespuestaAdmin, &s.Fecha); err != nil {
			return nil, err
		}
		sugerencias = append(sugerencias, s)
	}

	return sugerencias, rows.Err()
}

func (db *Database) GetSugerenciaByID(ctx context.Context, id int) (*models.Sugerencia, error) {
	var s models.Sugerencia

	err := db.Pool.QueryRow(ctx,
		"SELECT id, acta_id, usuario_id, comentario, respuesta_admin, fecha FROM sugerencias WHERE id = $1",
		id,
	).Scan(&s.ID, &s.ActaID, &s.UsuarioID, &s.Comentario, &s.RespuestaAdmin, &s.Fecha)

	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (db *Database) RespondSugerencia(ctx context.Context, id int, respuesta string) error {
	_, err := db.Pool.Exec(ctx,
		"UPDATE sugerencias SET respuesta_admin = $1 WHERE id = $2",
		respuesta, id,
	)

	return err
}

// ToggleVerificacion flips the per-user verification mark inside a
// transaction. The result depends on prior state: an existing mark is
// removed (false), a missing one is created (true). ON CONFLICT DO
// NOTHING plus the UNIQUE (acta_id, usuario_id) constraint guarantees at
// most one row per pair even under duplicate concurrent requests.
func (db *Database) ToggleVerificacion(ctx context.Context, actaID, usuarioID int) (bool, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		"DELETE FROM verificaciones_actas WHERE acta_id = $1 AND usuario_id = $2",
		actaID, usuarioID,
	)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() > 0 {
		return false, tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO verificaciones_actas (acta_id, usuario_id) VALUES ($1, $2) ON CONFLICT (acta_id, usuario_id) DO NOTHING",
		actaID, usuarioID,
	)
	if err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

func (db *Database) ListVerificadoresByActa(ctx context.Context, actaID int) ([]int, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT usuario_id FROM verificaciones_actas WHERE acta_id = $1",
		actaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
