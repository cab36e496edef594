// Package archive unpacks downloaded storefront packages and creates
// pre-upgrade backups of the install directory.
package archive

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// ProgressFunc reports extraction progress.
// current: files extracted so far
// total: total files (-1 if unknown)
// name: current file being extracted
type ProgressFunc func(current, total int64, name string)

// Extract unpacks a package archive into destDir, dispatching on the
// archive extension. Supported: .tar.lz4 and .zip.
func Extract(archivePath, destDir string, progress ProgressFunc) error {
	switch {
	case strings.HasSuffix(archivePath, ".tar.lz4"):
		return extractTarLz4(archivePath, destDir, progress)
	case strings.HasSuffix(archivePath, ".zip"):
		return extractZip(archivePath, destDir, progress)
	}
	return fmt.Errorf("unsupported package format: %s", filepath.Base(archivePath))
}

// securePath joins name under destDir, rejecting path traversal.
func securePath(destDir, name string) (string, error) {
	cleanName := filepath.Clean(name)
	if strings.HasPrefix(cleanName, "..") || strings.HasPrefix(cleanName, "/") {
		return "", fmt.Errorf("invalid path in archive: %s", name)
	}
	target := filepath.Join(destDir, cleanName)
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("path traversal detected: %s", name)
	}
	return target, nil
}

func extractTarLz4(archivePath, destDir string, progress ProgressFunc) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	tarReader := tar.NewReader(lz4.NewReader(f))

	var fileCount int64
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		targetPath, err := securePath(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("create dir %s: %w", header.Name, err)
			}
		case tar.TypeReg:
			if err := writeFile(targetPath, tarReader, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("extract %s: %w", header.Name, err)
			}
			fileCount++
			if progress != nil {
				progress(fileCount, -1, header.Name)
			}
		}
	}
	return nil
}

func extractZip(archivePath, destDir string, progress ProgressFunc) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	total := int64(len(r.File))
	var fileCount int64
	for _, zf := range r.File {
		targetPath, err := securePath(destDir, zf.Name)
		if err != nil {
			return err
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, zf.Mode()); err != nil {
				return fmt.Errorf("create dir %s: %w", zf.Name, err)
			}
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", zf.Name, err)
		}
		err = writeFile(targetPath, rc, zf.Mode())
		rc.Close()
		if err != nil {
			return fmt.Errorf("extract %s: %w", zf.Name, err)
		}
		fileCount++
		if progress != nil {
			progress(fileCount, total, zf.Name)
		}
	}
	return nil
}

func writeFile(path string, src io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
