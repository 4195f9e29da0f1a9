package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"acta enero.pdf", "acta_enero.pdf"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\boot.ini", "boot.ini"},
		{"dir/sub/file.txt", "file.txt"},
		{".hidden", "hidden"},
		{"...", "archivo"},
		{"", "archivo"},
		{"año-2026.pdf", "a_o-2026.pdf"},
		{"ok_name-1.PDF", "ok_name-1.PDF"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, quería %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveAndOpen(t *testing.T) {
	s, err := New(t.TempDir(), "actas")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	stored, err := s.Save("acta enero.pdf", strings.NewReader("contenido"), 9)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if stored != "acta_enero.pdf" {
		t.Errorf("stored = %q", stored)
	}

	f, err := s.Open(stored)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	data := make([]byte, 16)
	n, _ := f.Read(data)
	if string(data[:n]) != "contenido" {
		t.Errorf("contenido leído = %q", data[:n])
	}
}

func TestSaveNeverOverwrites(t *testing.T) {
	s, err := New(t.TempDir(), "actas")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first, _ := s.Save("report.pdf", strings.NewReader("uno"), 3)
	second, err := s.Save("report.pdf", strings.NewReader("dos"), 3)
	if err != nil {
		t.Fatalf("Save duplicado: %v", err)
	}
	if first != "report.pdf" || second != "report_1.pdf" {
		t.Errorf("nombres = %q, %q", first, second)
	}

	third, _ := s.Save("report.pdf", strings.NewReader("tres"), 4)
	if third != "report_2.pdf" {
		t.Errorf("tercer nombre = %q", third)
	}

	orig, _ := os.ReadFile(filepath.Join(s.Dir(), "report.pdf"))
	if string(orig) != "uno" {
		t.Errorf("el original fue sobrescrito: %q", orig)
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	s, _ := New(t.TempDir(), "actas")

	if _, err := s.Save("big.bin", strings.NewReader("x"), MaxFileSize+1); err == nil {
		t.Fatal("un archivo sobre el límite debería rechazarse")
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	s, _ := New(t.TempDir(), "actas")

	for _, name := range []string{"../secret", "a/b.txt", "..\\x", "", "café.pdf"} {
		if _, err := s.Path(name); err == nil {
			t.Errorf("Path(%q) debería fallar", name)
		}
	}
}

func TestRemove(t *testing.T) {
	s, _ := New(t.TempDir(), "actas")
	stored, _ := s.Save("a.txt", strings.NewReader("x"), 1)

	if err := s.Remove(stored); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(stored); err == nil {
		t.Error("eliminar dos veces debería devolver error")
	}
}

func TestStoresAreNamespaced(t *testing.T) {
	root := t.TempDir()
	actas, _ := New(root, "actas")
	crons, _ := New(root, "cronogramas")

	a, _ := actas.Save("plan.pdf", strings.NewReader("acta"), 4)
	c, _ := crons.Save("plan.pdf", strings.NewReader("cron"), 4)
	if a != "plan.pdf" || c != "plan.pdf" {
		t.Fatalf("nombres = %q, %q", a, c)
	}

	data, _ := os.ReadFile(filepath.Join(actas.Dir(), "plan.pdf"))
	if string(data) != "acta" {
		t.Errorf("el acta fue pisada por el cronograma: %q", data)
	}
}
