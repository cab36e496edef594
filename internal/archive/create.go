package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
)

// Create writes a tar.lz4 archive of srcDir to destPath. Used to back up
// the install directory before an upgrade mutates it.
func Create(srcDir, destPath string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	lz4Writer := lz4.NewWriter(out)
	tarWriter := tar.NewWriter(lz4Writer)

	walkErr := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tarWriter, f)
		return err
	})

	if walkErr != nil {
		tarWriter.Close()
		lz4Writer.Close()
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("archive %s: %w", srcDir, walkErr)
	}

	for _, c := range []io.Closer{tarWriter, lz4Writer, out} {
		if err := c.Close(); err != nil {
			os.Remove(destPath)
			return fmt.Errorf("finalize archive: %w", err)
		}
	}
	return nil
}
