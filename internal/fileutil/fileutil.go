package fileutil

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/atomic"
)

const (
	DefaultBufferSize = 128 * 1024 // 128KB
	SmallBufferSize   = 32 * 1024  // 32KB
)

var ErrUnsafePath = errors.New("archive entry escapes destination")

type progressWriter struct {
	writer         io.Writer
	totalBytes     uint64
	extractedBytes *uint64
	progress       *atomic.Float64
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.writer.Write(p)
	if n > 0 && pw.progress != nil && pw.totalBytes > 0 {
		*pw.extractedBytes += uint64(n)
		frac := float64(*pw.extractedBytes) / float64(pw.totalBytes)
		if frac > 1 {
			frac = 1
		}
		pw.progress.Store(frac)
	}
	return n, err
}

// countingReader tracks how much of the compressed archive has been read so
// progress can be reported without a first pass over the tarball.
type countingReader struct {
	reader io.Reader
	read   uint64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.read += uint64(n)
	return n, err
}

func TempDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(wd, ".tmp")
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Untar extracts a gzip-compressed tarball into destDir. Progress is the
// fraction of the compressed file consumed.
func Untar(archivePath string, destDir string, progress *atomic.Float64) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	var totalBytes uint64
	if info, err := file.Stat(); err == nil {
		totalBytes = uint64(info.Size())
	}

	counter := &countingReader{reader: bufio.NewReaderSize(file, DefaultBufferSize)}

	gz, err := gzip.NewReader(counter)
	if err != nil {
		return fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	root, err := filepath.Abs(destDir)
	if err != nil {
		return err
	}

	buffer := make([]byte, SmallBufferSize)
	tr := tar.NewReader(gz)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}

		target, err := safeJoin(root, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create parent directory for %s: %w", target, err)
			}
			if err := extractFile(tr, target, os.FileMode(header.Mode).Perm(), buffer); err != nil {
				return fmt.Errorf("failed to extract file %s: %w", header.Name, err)
			}
		case tar.TypeSymlink:
			if filepath.IsAbs(header.Linkname) {
				return fmt.Errorf("%w: %s", ErrUnsafePath, header.Linkname)
			}
			if _, err := safeJoin(root, filepath.Join(filepath.Dir(header.Name), header.Linkname)); err != nil {
				return err
			}
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("failed to create symlink %s: %w", target, err)
			}
		}

		if progress != nil && totalBytes > 0 {
			p := float64(counter.read) / float64(totalBytes)
			if p > 1 {
				p = 1
			}
			progress.Store(p)
		}
	}

	if progress != nil {
		progress.Store(1)
	}

	return nil
}

func safeJoin(root, name string) (string, error) {
	target := filepath.Join(root, name)
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

func extractFile(src io.Reader, destPath string, mode os.FileMode, buffer []byte) error {
	if mode == 0 {
		mode = 0644
	}

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer destFile.Close()

	bufWriter := bufio.NewWriterSize(destFile, SmallBufferSize)

	if _, err := io.CopyBuffer(bufWriter, src, buffer); err != nil {
		return err
	}

	return bufWriter.Flush()
}

// CopyWithProgress copies src to dst, publishing written/total to progress.
func CopyWithProgress(dst io.Writer, src io.Reader, total uint64, progress *atomic.Float64) (int64, error) {
	var extracted uint64
	pw := &progressWriter{
		writer:         dst,
		totalBytes:     total,
		extractedBytes: &extracted,
		progress:       progress,
	}
	return io.CopyBuffer(pw, src, make([]byte, SmallBufferSize))
}
