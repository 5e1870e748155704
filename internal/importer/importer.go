// Package importer reads bank export files into transactions and maps each
// file to the account it belongs to.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/lil-bank-buddy/internal/config"
	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

var (
	// ErrUnsupportedFormat is returned for files no parser handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMissingColumn is returned when a CSV export lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrExportDirNotFound is returned when the export directory does not exist.
	ErrExportDirNotFound = errors.New("export directory not found")
)

// Parser converts one export format into transactions.
type Parser interface {
	Parse(ctx context.Context, r io.Reader) ([]model.Transaction, error)
	Extensions() []string
}

// Registry maps file extensions to parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes an export file found by Scan.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates a registry with the CSV and OFX/QFX parsers.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register(NewCSVParser())
	r.Register(NewOFXParser())
	return r
}

// Register adds a parser for each of its extensions. Panics on a duplicate.
func (r *Registry) Register(p Parser) {
	for _, ext := range p.Extensions() {
		key := strings.ToLower(ext)
		if _, ok := r.parsers[key]; ok {
			panic("duplicate parser extension: " + key)
		}
		r.parsers[key] = p
	}
}

// Supports reports whether a parser handles the file's extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.parsers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ParserFor returns the parser registered for the file's extension.
func (r *Registry) ParserFor(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
	return p, nil
}

// Parse reads an export file with the parser matching its extension.
func (r *Registry) Parse(ctx context.Context, path string) ([]model.Transaction, error) {
	p, err := r.ParserFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the user's export directory
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	transactions, err := p.Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return transactions, nil
}

// Scan lists the supported export files in dir, sorted by name.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrExportDirNotFound, dir)
		}
		return nil, fmt.Errorf("reading export dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !r.Supports(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ResolveAccount returns the id of the first account whose file patterns
// match file. Unmatched files map to their stem with dashes turned into
// underscores, so "joint-visa.csv" lands in "joint_visa".
func ResolveAccount(file string, accounts []config.Account) string {
	for _, account := range accounts {
		if account.Matches(file) {
			return account.ID
		}
	}

	base := filepath.Base(file)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(stem, "-", "_")
}
