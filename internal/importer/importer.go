package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/troskovi/internal/currency"
	"github.com/cleared-dev/troskovi/internal/model"
)

// Row failure causes, matched with errors.Is.
var (
	ErrMissingField = errors.New("missing required field")
	ErrBadDate      = errors.New("unparseable date")
	ErrBadAmount    = errors.New("non-numeric amount")
)

// Categorizer assigns a category to a description.
type Categorizer interface {
	Categorize(description string) string
}

// Parser converts a statement export into Transactions. Bad rows never fail
// the whole parse; they are skipped and reported in Result.Errors. The error
// return is reserved for failures reading the input itself.
type Parser interface {
	Parse(r io.Reader) (Result, error)
	Format() string
}

// Result is the outcome of parsing one statement.
type Result struct {
	Transactions []model.Transaction
	Errors       []RowError
}

// RowError records a skipped row.
type RowError struct {
	Line int // 1-based line in the input, or entry index for OFX
	Raw  string
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForFile picks a parser from the file extension: OFX/QFX files use the
// OFX parser and everything else the delimited statement parser.
func (r *Registry) ForFile(name string) Parser {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ofx", ".qfx":
		return r.Get(FormatOFX)
	default:
		return r.Get(FormatStatement)
	}
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry(conv *currency.Converter, cat Categorizer) *Registry {
	r := NewRegistry()
	r.Register(&StatementParser{Converter: conv, Categorizer: cat})
	r.Register(&OFXParser{Converter: conv, Categorizer: cat})
	return r
}

// importDir is the subdirectory for statements waiting to be imported.
const importDir = "import"

// processedDir is the subdirectory for imported statements.
const processedDir = "import/processed"

var importExts = map[string]bool{
	".csv": true,
	".tsv": true,
	".txt": true,
	".ofx": true,
	".qfx": true,
}

// Scan returns statement files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !importExts[strings.ToLower(filepath.Ext(e.Name()))] {
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
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

func categorize(c Categorizer, description string) string {
	if c == nil {
		return model.DefaultCategory
	}
	return c.Categorize(description)
}

func converter(c *currency.Converter) *currency.Converter {
	if c == nil {
		return currency.Default()
	}
	return c
}
