package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/Frankvj09/Actas/internal/auth"
	"github.com/Frankvj09/Actas/internal/db"
	"github.com/Frankvj09/Actas/internal/models"
)

func main() {
	godotenv.Load()

	database, err := db.New()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()

	username := "admin"
	password := "admin123"

	exists, err := database.UsernameExists(ctx, username)
	if err != nil {
		log.Fatalf("Failed to check admin account: %v", err)
	}
	if exists {
		fmt.Println("La cuenta admin ya existe, no se hizo nada.")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin, err := database.CreateUser(ctx, username, hash, models.RoleAdmin)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Println("Administrador creado correctamente")
	fmt.Printf("Usuario:    %s\n", username)
	fmt.Printf("Contraseña: %s\n", password)
	fmt.Printf("ID: %d, Rol: %s\n", admin.ID, admin.Role)
	fmt.Println("\nCambie la contraseña después del primer inicio de sesión.")
}
