package workflow

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Frankvj09/Actas/internal/models"
)

// In-memory stand-ins for the db and storage layers. They mirror the
// contracts the real implementations provide: pgx.ErrNoRows for missing
// rows, pair-keyed maps for the uniqueness invariants.

type fakeActaStore struct {
	nextID         int
	actas          map[int]models.Acta
	lecturas       map[[2]int]models.Lectura // (usuarioID, actaID)
	sugerencias    []models.Sugerencia
	verificaciones map[[2]int]time.Time // (actaID, usuarioID)

	cascadeErr error
	forced     []int
}

func newFakeActaStore() *fakeActaStore {
	return &fakeActaStore{
		actas:          map[int]models.Acta{},
		lecturas:       map[[2]int]models.Lectura{},
		verificaciones: map[[2]int]time.Time{},
	}
}

func (f *fakeActaStore) CreateActa(_ context.Context, nombre string, archivo *string, subidoPor int) (*models.Acta, error) {
	f.nextID++
	a := models.Acta{ID: f.nextID, Nombre: nombre, Archivo: archivo, FechaSubida: time.Now(), SubidoPor: subidoPor}
	f.actas[a.ID] = a
	return &a, nil
}

func (f *fakeActaStore) GetActaByID(_ context.Context, id int) (*models.Acta, error) {
	a, ok := f.actas[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	for k := range f.verificaciones {
		if k[0] == id {
			a.Verificada = true
			break
		}
	}
	return &a, nil
}

func (f *fakeActaStore) UpdateActa(_ context.Context, id int, nombre string, archivo *string) error {
	a, ok := f.actas[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Nombre = nombre
	if archivo != nil {
		a.Archivo = archivo
	}
	f.actas[id] = a
	return nil
}

func (f *fakeActaStore) DeleteActaCascade(_ context.Context, id int) error {
	if f.cascadeErr != nil {
		return f.cascadeErr
	}
	for k := range f.lecturas {
		if k[1] == id {
			delete(f.lecturas, k)
		}
	}
	for k := range f.verificaciones {
		if k[0] == id {
			delete(f.verificaciones, k)
		}
	}
	kept := f.sugerencias[:0]
	for _, s := range f.sugerencias {
		if s.ActaID != id {
			kept = append(kept, s)
		}
	}
	f.sugerencias = kept
	delete(f.actas, id)
	return nil
}

func (f *fakeActaStore) ForceDeleteActa(_ context.Context, id int) error {
	f.forced = append(f.forced, id)
	delete(f.actas, id)
	return nil
}

func (f *fakeActaStore) EnsureLectura(_ context.Context, usuarioID, actaID int) (*models.Lectura, error) {
	key := [2]int{usuarioID, actaID}
	if l, ok := f.lecturas[key]; ok {
		return &l, nil
	}
	f.nextID++
	l := models.Lectura{ID: f.nextID, UsuarioID: usuarioID, ActaID: actaID, FechaLectura: time.Now()}
	f.lecturas[key] = l
	return &l, nil
}

func (f *fakeActaStore) CreateSugerencia(_ context.Context, actaID, usuarioID int, comentario string) (*models.Sugerencia, error) {
	f.nextID++
	s := models.Sugerencia{ID: f.nextID, ActaID: actaID, UsuarioID: usuarioID, Comentario: comentario, Fecha: time.Now()}
	f.sugerencias = append(f.sugerencias, s)
	return &s, nil
}

func (f *fakeActaStore) ListSugerenciasByActa(_ context.Context, actaID int) ([]models.Sugerencia, error) {
	var out []models.Sugerencia
	for i := len(f.sugerencias) - 1; i >= 0; i-- {
		if f.sugerencias[i].ActaID == actaID {
			out = append(out, f.sugerencias[i])
		}
	}
	return out, nil
}

func (f *fakeActaStore) GetSugerenciaByID(_ context.Context, id int) (*models.Sugerencia, error) {
	for _, s := range f.sugerencias {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeActaStore) RespondSugerencia(_ context.Context, id int, respuesta string) error {
	for i := range f.sugerencias {
		if f.sugerencias[i].ID == id {
			r := respuesta
			f.sugerencias[i].RespuestaAdmin = &r
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeActaStore) ToggleVerificacion(_ context.Context, actaID, usuarioID int) (bool, error) {
	key := [2]int{actaID, usuarioID}
	if _, ok := f.verificaciones[key]; ok {
		delete(f.verificaciones, key)
		return false, nil
	}
	f.verificaciones[key] = time.Now()
	return true, nil
}

func (f *fakeActaStore) ListVerificadoresByActa(_ context.Context, actaID int) ([]int, error) {
	var ids []int
	for k := range f.verificaciones {
		if k[0] == actaID {
			ids = append(ids, k[1])
		}
	}
	return ids, nil
}

type fakeCronogramaStore struct {
	nextID      int
	cronogramas map[int]models.Cronograma
}

func newFakeCronogramaStore() *fakeCronogramaStore {
	return &fakeCronogramaStore{cronogramas: map[int]models.Cronograma{}}
}

func (f *fakeCronogramaStore) CreateCronograma(_ context.Context, nombre string, archivo *string, fecha *time.Time, subidoPor int) (*models.Cronograma, error) {
	f.nextID++
	c := models.Cronograma{ID: f.nextID, Nombre: nombre, Archivo: archivo, Fecha: fecha, FechaSubida: time.Now(), SubidoPor: subidoPor}
	f.cronogramas[c.ID] = c
	return &c, nil
}

func (f *fakeCronogramaStore) ListCronogramas(_ context.Context) ([]models.Cronograma, error) {
	var out []models.Cronograma
	for _, c := range f.cronogramas {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCronogramaStore) GetCronogramaByID(_ context.Context, id int) (*models.Cronograma, error) {
	c, ok := f.cronogramas[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (f *fakeCronogramaStore) UpdateCronograma(_ context.Context, id int, nombre string, fecha *time.Time, archivo *string) error {
	c, ok := f.cronogramas[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Nombre = nombre
	if fecha != nil {
		c.Fecha = fecha
	}
	if archivo != nil {
		c.Archivo = archivo
	}
	f.cronogramas[id] = c
	return nil
}

func (f *fakeCronogramaStore) DeleteCronograma(_ context.Context, id int) error {
	delete(f.cronogramas, id)
	return nil
}

type fakeBlobs struct {
	files   map[string]string
	saveErr error
	removed []string
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{files: map[string]string{}}
}

func (f *fakeBlobs) Save(name string, src io.Reader, size int64) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	stored := name
	for i := 1; ; i++ {
		if _, ok := f.files[stored]; !ok {
			break
		}
		stored = fmt.Sprintf("%d_%s", i, name)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	f.files[stored] = string(data)
	return stored, nil
}

func (f *fakeBlobs) Remove(name string) error {
	if _, ok := f.files[name]; !ok {
		return os.ErrNotExist
	}
	f.removed = append(f.removed, name)
	delete(f.files, name)
	return nil
}
