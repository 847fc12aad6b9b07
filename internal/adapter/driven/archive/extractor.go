package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
	"github.com/diillson/billing-usage-report-go/internal/domain/repository"
	"github.com/diillson/billing-usage-report-go/internal/domain/usage"
)

// Stages reported in ArchiveAccessError.
const (
	StageOpenOuter    = "open-outer"
	StageFindInner    = "find-inner"
	StageExtractInner = "extract-inner"
	StageOpenInner    = "open-inner"
	StageFindTarget   = "find-target"
	StageOpenTarget   = "open-target"
	StageReadHeader   = "read-header"
)

// Extractor implementa o ArchiveRepository para exports zip aninhados
// (arquivo externo -> pacote de billing -> CSV).
//
// The inner bundle is extracted into a temporary directory owned by the
// Extractor and named after the run, so two runs never share a file. Each
// extracted bundle is removed when its stream is closed or when opening it
// fails; Close removes the directory itself.
type Extractor struct {
	runID   string
	opts    entity.RecordLayout
	tempDir string
}

// NewExtractor cria um novo Extractor.
func NewExtractor(runID string, opts entity.RecordLayout) *Extractor {
	return &Extractor{runID: runID, opts: opts}
}

var _ repository.ArchiveRepository = (*Extractor)(nil)

// TempDir returns the scratch directory, empty until the first extraction.
func (e *Extractor) TempDir() string { return e.tempDir }

func (e *Extractor) ensureTempDir() (string, error) {
	if e.tempDir != "" {
		if _, err := os.Stat(e.tempDir); err == nil {
			return e.tempDir, nil
		}
	}
	dir, err := os.MkdirTemp("", fmt.Sprintf("usage-report-%s-", e.runID))
	if err != nil {
		return "", fmt.Errorf("error creating temporary directory: %w", err)
	}
	e.tempDir = dir
	return dir, nil
}

// OpenRecords abre o CSV de billing e devolve um stream de registros.
func (e *Extractor) OpenRecords(ctx context.Context, outerPath, inner, target string) (repository.RecordStream, error) {
	rc, err := e.Open(ctx, outerPath, inner, target)
	if err != nil {
		return nil, err
	}
	records, err := NewRecordReader(rc, e.opts)
	if err != nil {
		closeErr := rc.Close()
		return nil, &usage.ArchiveAccessError{
			Outer: outerPath, Inner: inner, Target: target,
			Stage: StageReadHeader, Err: errors.Join(err, closeErr),
		}
	}
	return records, nil
}

// Open returns a reader over target. When inner is empty target is read
// straight from the outer archive.
func (e *Extractor) Open(ctx context.Context, outerPath, inner, target string) (io.ReadCloser, error) {
	fail := func(stage string, err error) error {
		return &usage.ArchiveAccessError{Outer: outerPath, Inner: inner, Target: target, Stage: stage, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, fail(StageOpenOuter, err)
	}

	outer, err := zip.OpenReader(outerPath)
	if err != nil {
		return nil, fail(StageOpenOuter, err)
	}

	if inner == "" {
		entry := findEntry(outer.File, target)
		if entry == nil {
			outer.Close()
			return nil, fail(StageFindTarget, fmt.Errorf("entry %q not found", target))
		}
		rc, err := entry.Open()
		if err != nil {
			outer.Close()
			return nil, fail(StageOpenTarget, err)
		}
		return &extractedFile{ReadCloser: rc, archive: outer}, nil
	}

	innerEntry := findEntry(outer.File, inner)
	if innerEntry == nil {
		outer.Close()
		return nil, fail(StageFindInner, fmt.Errorf("entry %q not found", inner))
	}

	extracted, err := e.extract(ctx, innerEntry)
	outer.Close()
	if err != nil {
		return nil, fail(StageExtractInner, err)
	}

	bundle, err := zip.OpenReader(extracted)
	if err != nil {
		os.Remove(extracted)
		return nil, fail(StageOpenInner, err)
	}

	entry := findEntry(bundle.File, target)
	if entry == nil {
		bundle.Close()
		os.Remove(extracted)
		return nil, fail(StageFindTarget, fmt.Errorf("entry %q not found", target))
	}

	rc, err := entry.Open()
	if err != nil {
		bundle.Close()
		os.Remove(extracted)
		return nil, fail(StageOpenTarget, err)
	}

	return &extractedFile{ReadCloser: rc, archive: bundle, path: extracted}, nil
}

// extract copies a zip entry into the scratch directory.
func (e *Extractor) extract(ctx context.Context, f *zip.File) (string, error) {
	dir, err := e.ensureTempDir()
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dest := filepath.Join(dir, path.Base(f.Name))
	src, err := f.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dest)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return "", err
	}
	return dest, nil
}

// Close removes the scratch directory and anything still in it.
func (e *Extractor) Close() error {
	if e.tempDir == "" {
		return nil
	}
	dir := e.tempDir
	e.tempDir = ""
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("error removing temporary directory %s: %w", dir, err)
	}
	return nil
}

// findEntry looks up name by exact path first, then by base name.
func findEntry(files []*zip.File, name string) *zip.File {
	for _, f := range files {
		if f.Name == name {
			return f
		}
	}
	for _, f := range files {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		if strings.EqualFold(path.Base(f.Name), name) {
			return f
		}
	}
	return nil
}

// extractedFile closes the entry, its archive and the extracted bundle.
type extractedFile struct {
	io.ReadCloser
	archive io.Closer
	path    string
}

func (f *extractedFile) Close() error {
	errs := []error{f.ReadCloser.Close(), f.archive.Close()}
	if f.path != "" {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
