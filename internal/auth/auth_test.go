package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "admin123" {
		t.Fatal("el hash no debería ser la contraseña en claro")
	}

	if err := CheckPassword("admin123", hash); err != nil {
		t.Errorf("la contraseña correcta no verificó: %v", err)
	}
	if err := CheckPassword("otra", hash); err == nil {
		t.Error("una contraseña incorrecta verificó")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("corta"); err == nil {
		t.Error("5 caracteres deberían rechazarse")
	}
	if err := ValidatePassword("admin123"); err != nil {
		t.Errorf("ValidatePassword: %v", err)
	}
}
