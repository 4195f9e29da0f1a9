package db

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Frankvj09/Actas/internal/models"
)

// These tests exercise the real constraints and need a database; they
// skip unless DATABASE_URL is set.

func testDB(t *testing.T) *Database {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL no definido")
	}
	database, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(database.Close)
	return database
}

func createTestUser(t *testing.T, database *Database) *models.User {
	t.Helper()
	username := fmt.Sprintf("test_%d", time.Now().UnixNano())
	user, err := database.CreateUser(context.Background(), username, "x", models.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func createTestActa(t *testing.T, database *Database, uploader int) *models.Acta {
	t.Helper()
	acta, err := database.CreateActa(context.Background(), "Acta de prueba", nil, uploader)
	if err != nil {
		t.Fatalf("CreateActa: %v", err)
	}
	return acta
}

func TestEnsureLecturaIsIdempotent(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, database)
	acta := createTestActa(t, database, user.ID)

	first, err := database.EnsureLectura(ctx, user.ID, acta.ID)
	if err != nil {
		t.Fatalf("EnsureLectura: %v", err)
	}

	for i := 0; i < 5; i++ {
		again, err := database.EnsureLectura(ctx, user.ID, acta.ID)
		if err != nil {
			t.Fatalf("EnsureLectura repetida: %v", err)
		}
		if again.ID != first.ID {
			t.Fatalf("se creó una segunda lectura: %d != %d", again.ID, first.ID)
		}
	}

	var count int
	err = database.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM lecturas WHERE usuario_id = $1 AND acta_id = $2",
		user.ID, acta.ID,
	).Scan(&count)
	if err != nil || count != 1 {
		t.Errorf("lecturas = %d (err %v), quería 1", count, err)
	}
}

func TestToggleVerificacionNeverDuplicatesUnderConcurrency(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, database)
	acta := createTestActa(t, database, user.ID)

	const calls = 8
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := database.ToggleVerificacion(ctx, acta.ID, user.ID); err != nil {
				t.Errorf("ToggleVerificacion: %v", err)
			}
		}()
	}
	wg.Wait()

	var count int
	err := database.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM verificaciones_actas WHERE acta_id = $1 AND usuario_id = $2",
		acta.ID, user.ID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count > 1 {
		t.Errorf("verificaciones = %d, nunca debería superar 1", count)
	}
}

func TestToggleVerificacionSequence(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, database)
	acta := createTestActa(t, database, user.ID)

	estado, err := database.ToggleVerificacion(ctx, acta.ID, user.ID)
	if err != nil || !estado {
		t.Fatalf("primer toggle = (%v, %v)", estado, err)
	}
	estado, err = database.ToggleVerificacion(ctx, acta.ID, user.ID)
	if err != nil || estado {
		t.Fatalf("segundo toggle = (%v, %v)", estado, err)
	}

	got, err := database.GetActaByID(ctx, acta.ID)
	if err != nil {
		t.Fatalf("GetActaByID: %v", err)
	}
	if got.Verificada {
		t.Error("verificada debería ser false tras quitar la marca")
	}
}

func TestDeleteActaCascadeRemovesDependents(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, database)
	acta := createTestActa(t, database, user.ID)

	if _, err := database.EnsureLectura(ctx, user.ID, acta.ID); err != nil {
		t.Fatalf("EnsureLectura: %v", err)
	}
	if _, err := database.CreateSugerencia(ctx, acta.ID, user.ID, "revisar"); err != nil {
		t.Fatalf("CreateSugerencia: %v", err)
	}
	if _, err := database.ToggleVerificacion(ctx, acta.ID, user.ID); err != nil {
		t.Fatalf("ToggleVerificacion: %v", err)
	}

	if err := database.DeleteActaCascade(ctx, acta.ID); err != nil {
		t.Fatalf("DeleteActaCascade: %v", err)
	}

	for _, q := range []string{
		"SELECT COUNT(*) FROM actas WHERE id = $1",
		"SELECT COUNT(*) FROM lecturas WHERE acta_id = $1",
		"SELECT COUNT(*) FROM sugerencias WHERE acta_id = $1",
		"SELECT COUNT(*) FROM verificaciones_actas WHERE acta_id = $1",
	} {
		var count int
		if err := database.Pool.QueryRow(ctx, q, acta.ID).Scan(&count); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
		if count != 0 {
			t.Errorf("%s = %d, quería 0", q, count)
		}
	}
}
