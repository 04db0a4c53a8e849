package main

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

type runManifest struct {
	RunID       string    `json:"run_id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Files       []string  `json:"files"`
	GeneratedAt time.Time `json:"generated_at"`
}

func writeManifest(outputDir string, manifest runManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "run_manifest.json"), data, 0644)
}

// archiveOutput snapshots the output files into a dated folder, zips the
// folder under output/archive, and removes the intermediate folder. The
// pre-clean of a leftover staging folder is best effort.
func archiveOutput(outputDir string, today time.Time) (string, error) {
	stamp := today.Format("2006-01-02")
	staging := filepath.Join(outputDir, stamp+"_update")

	_ = os.RemoveAll(staging)
	if err := os.MkdirAll(staging, 0755); err != nil {
		return "", fmt.Errorf("create staging folder: %w", err)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", fmt.Errorf("read output dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(outputDir, entry.Name())
		dst := filepath.Join(staging, entry.Name())
		if err := copyFile(src, dst); err != nil {
			return "", fmt.Errorf("copy %s: %w", entry.Name(), err)
		}
	}

	archiveDir := filepath.Join(outputDir, "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	zipPath := filepath.Join(archiveDir, stamp+"_update.zip")
	if err := zipFolder(staging, zipPath); err != nil {
		return "", err
	}

	_ = os.RemoveAll(staging)
	return zipPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// zipFolder zips the files directly inside dir; the report output is flat.
func zipFolder(dir, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}

	zw := zip.NewWriter(out)
	entries, err := os.ReadDir(dir)
	if err != nil {
		out.Close()
		return fmt.Errorf("read staging dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := addToZip(zw, filepath.Join(dir, entry.Name()), entry.Name()); err != nil {
			zw.Close()
			out.Close()
			return fmt.Errorf("zip %s: %w", entry.Name(), err)
		}
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finish zip: %w", err)
	}
	return out.Close()
}

func addToZip(zw *zip.Writer, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, file)
	return err
}
