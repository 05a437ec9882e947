package source

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/encoding"

	"weeder/internal/faults"
	"weeder/internal/logging"
)

// Options controls which files a Directory source reads and how.
type Options struct {
	Extensions []string
	Encoding   string
	Logger     *slog.Logger
}

type entry struct {
	name string
	path string
	html bool
}

// Directory reads one document per regular file of a directory. The file
// listing is captured when the source is opened so both passes see the same
// documents.
type Directory struct {
	dir     string
	entries []entry
	enc     encoding.Encoding
	logger  *slog.Logger
}

// OpenDirectory lists dir and returns a Source over the files whose extension
// is in opts.Extensions (".txt" when empty), sorted by file name.
func OpenDirectory(dir string, opts Options) (*Directory, error) {
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "source", "encoding", opts.Encoding, err)
	}
	logger := logging.NewComponentLogger(opts.Logger, "source")

	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = []string{".txt"}
	}

	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, faults.Wrap(faults.ErrSource, "source", "list", dir, err)
	}

	entries := make([]entry, 0, len(items))
	seen := make(map[string]string, len(items))
	for _, item := range items {
		if !item.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(item.Name()))
		if !slices.Contains(extensions, ext) {
			continue
		}
		name := strings.TrimSuffix(item.Name(), filepath.Ext(item.Name()))
		if prev, dup := seen[name]; dup {
			logging.WarnWithContext(logger, "document name collision; skipping file", "document_name_collision",
				logging.String("file", item.Name()),
				logging.String("kept", prev),
				logging.String(logging.FieldErrorHint, "rename one of the files so each document has a unique base name"),
				logging.String(logging.FieldImpact, "file is excluded from the corpus"),
			)
			continue
		}
		seen[name] = item.Name()
		entries = append(entries, entry{
			name: name,
			path: filepath.Join(dir, item.Name()),
			html: ext == ".html" || ext == ".htm",
		})
	}
	// os.ReadDir already sorts by file name; sorting by document name keeps
	// "a.txt" and "a.html" collisions deterministic regardless of extension.
	slices.SortStableFunc(entries, func(a, b entry) int { return strings.Compare(a.name, b.name) })

	logger.Debug("corpus listed",
		logging.String("dir", dir),
		logging.Int("documents", len(entries)),
	)
	return &Directory{dir: dir, entries: entries, enc: enc, logger: logger}, nil
}

func (d *Directory) Count() int { return len(d.entries) }

// Dir returns the directory the source reads from.
func (d *Directory) Dir() string { return d.dir }

func (d *Directory) Walk(ctx context.Context, fn func(Document) error) error {
	for i, e := range d.entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := d.read(e)
		if err != nil {
			return err
		}
		if err := fn(Document{Index: i, Name: e.name, Text: text}); err != nil {
			return err
		}
	}
	return nil
}

func (d *Directory) read(e entry) (string, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		return "", faults.Wrap(faults.ErrSource, "source", "read", e.path, err)
	}
	text, err := decode(d.enc, data)
	if err != nil {
		return "", faults.Wrap(faults.ErrSource, "source", "decode", e.path, err)
	}
	if !e.html {
		return text, nil
	}
	extracted, err := ExtractHTMLText(strings.NewReader(text))
	if err != nil {
		return "", faults.Wrap(faults.ErrSource, "source", "extract html", e.path, err)
	}
	return extracted, nil
}
