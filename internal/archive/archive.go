// Package archive packs a directory's contents into a compressed tarball for
// distribution. Supported codecs are gzip (default) and xz.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"

	"github.com/MarcoChavezB/pybundle/internal/logfields"
)

// Format identifies the compression codec of the archive.
type Format string

const (
	FormatGzip Format = "gz"
	FormatXz   Format = "xz"
)

// ParseFormat maps a config string onto a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatGzip, FormatXz:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported archive format %q", s)
	}
}

// WriteDir compresses the contents of srcDir (not the directory itself) into
// a tar archive at dst. Entry names inside the archive are relative to
// srcDir, so unpacking yields the artifact files directly.
func WriteDir(dst string, srcDir string, format Format) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()

	var compressor io.WriteCloser
	switch format {
	case FormatGzip:
		compressor = gzip.NewWriter(out)
	case FormatXz:
		compressor, err = xz.NewWriter(out)
		if err != nil {
			return fmt.Errorf("failed to create xz writer: %w", err)
		}
	default:
		return fmt.Errorf("unsupported archive format %q", format)
	}

	tw := tar.NewWriter(compressor)
	if err := addDir(tw, srcDir); err != nil {
		_ = tw.Close()
		_ = compressor.Close()
		return err
	}

	if err := tw.Close(); err != nil {
		_ = compressor.Close()
		return fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if err := compressor.Close(); err != nil {
		return fmt.Errorf("failed to finalize compressed stream: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("failed to sync archive file: %w", err)
	}

	slog.Info("Wrote archive", logfields.Path(dst))
	return nil
}

// addDir walks srcDir and writes each regular file into the tar stream.
func addDir(tw *tar.Writer, srcDir string) error {
	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
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
			return fmt.Errorf("failed to build tar header for %s: %w", rel, err)
		}
		header.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar header for %s: %w", rel, err)
		}
		if info.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() {
			_ = f.Close()
		}()

		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("failed to write %s into archive: %w", rel, err)
		}
		return nil
	})
}
