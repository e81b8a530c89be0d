package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StagedFile is an accepted upload waiting in the staging area.
type StagedFile struct {
	Path         string
	OriginalName string
	ContentType  string
	Size         int64
}

// Releaser removes staged files. Each staged file must be released once.
type Releaser interface {
	Release(f StagedFile) error
}

// StagingArea owns the local directory uploads are written to before they
// are pushed to the object store.
type StagingArea struct {
	dir    string
	logger *logger.Logger
}

func NewStagingArea(dir string, log *logger.Logger) (*StagingArea, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve staging dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create staging dir %s: %w", abs, err)
	}
	return &StagingArea{dir: abs, logger: log.Named("StagingArea")}, nil
}

func (s *StagingArea) Dir() string { return s.dir }

var extRe = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)

// Stage copies r into a uniquely named file. Only image content is accepted.
func (s *StagingArea) Stage(originalName, contentType string, r io.Reader) (StagedFile, error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return StagedFile{}, domain.InputError("not an image, please upload an image")
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !extRe.MatchString(ext) {
		ext = ""
	}
	path := filepath.Join(s.dir, uuid.NewString()+ext)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return StagedFile{}, fmt.Errorf("create staged file: %w", err)
	}
	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return StagedFile{}, fmt.Errorf("write staged file: %w", err)
	}

	s.logger.Debug("file staged",
		zap.String("original_name", originalName),
		zap.String("path", path),
		zap.Int64("size", n),
	)
	return StagedFile{Path: path, OriginalName: originalName, ContentType: contentType, Size: n}, nil
}

// Release deletes a staged file. Paths outside the staging directory are refused.
func (s *StagingArea) Release(f StagedFile) error {
	rel, err := filepath.Rel(s.dir, f.Path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || strings.ContainsRune(rel, filepath.Separator) {
		return fmt.Errorf("staged file %s is outside %s", f.Path, s.dir)
	}
	if err := os.Remove(f.Path); err != nil {
		return fmt.Errorf("release staged file %s: %w", f.Path, err)
	}
	return nil
}

// ReleaseAll releases files that never reached the pipeline.
func ReleaseAll(r Releaser, files []StagedFile, log *logger.Logger) {
	for _, f := range files {
		if err := r.Release(f); err != nil {
			log.Warn("failed to release staged file", zap.String("path", f.Path), zap.Error(err))
		}
	}
}
