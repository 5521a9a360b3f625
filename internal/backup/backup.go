// Package backup archives the Washboard server database as a tar.gz,
// checkpointing the WAL first so the copy is consistent, and restores
// such archives in place.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// Create writes a tar.gz archive at outputPath containing the database
// file and, when present, the config file.
func Create(_ context.Context, dbPath, configPath, outputPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database file not found: %w", err)
	}
	if err := checkpointWAL(dbPath); err != nil {
		return fmt.Errorf("WAL checkpoint failed: %w", err)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer outFile.Close()

	gw := gzip.NewWriter(outFile)
	defer gw.Close()
	tw := tar.NewWriter(gw)
	defer tw.Close()

	if err := writeEntry(tw, dbPath, filepath.Base(dbPath)); err != nil {
		return fmt.Errorf("archiving database: %w", err)
	}
	if configPath != "" {
		// A missing config file is skipped, not an error.
		if _, err := os.Stat(configPath); err == nil {
			if err := writeEntry(tw, configPath, filepath.Base(configPath)); err != nil {
				return fmt.Errorf("archiving config: %w", err)
			}
		}
	}
	return nil
}

// Restore extracts an archive produced by Create into destDir. Entries
// with path separators are rejected.
func Restore(_ context.Context, archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	defer gr.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive entry: %w", err)
		}
		if hdr.Name != filepath.Base(hdr.Name) || strings.Contains(hdr.Name, "..") {
			return fmt.Errorf("unsafe archive entry %q", hdr.Name)
		}
		if err := extractEntry(tr, filepath.Join(destDir, hdr.Name), hdr.FileInfo().Mode()); err != nil {
			return fmt.Errorf("restoring %q: %w", hdr.Name, err)
		}
	}
}

// checkpointWAL flushes pending WAL frames into the main database file.
func checkpointWAL(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

func writeEntry(tw *tar.Writer, filePath, name string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}

func extractEntry(tr *tar.Reader, path string, mode os.FileMode) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, tr)
	return err
}
