package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"bikepulse/internal/app"
)

// Embedded dashboard page and assets
//
//go:embed frontend/*
var frontendFiles embed.FS

func main() {
	frontendFS, err := frontend()
	if err != nil {
		slog.Error("Frontend embedding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	application, err := app.NewApplication(frontendFS)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// frontend returns the embedded files rooted at the frontend directory
func frontend() (fs.FS, error) {
	return fs.Sub(frontendFiles, "frontend")
}
