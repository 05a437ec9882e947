package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"weeder/internal/faults"
	"weeder/internal/logging"
)

// Options configures a Directory sink.
type Options struct {
	// OwnerUID and OwnerGID are applied to the recreated directory. -1 leaves
	// the corresponding id unchanged.
	OwnerUID int
	OwnerGID int
	Logger   *slog.Logger
}

// Directory writes artifacts as files in a directory that is destroyed and
// recreated by Prepare.
type Directory struct {
	dir      string
	opts     Options
	logger   *slog.Logger
	lockPath string
	lock     *flock.Flock
}

// NewDirectory returns a sink rooted at dir.
func NewDirectory(dir string, opts Options) *Directory {
	dir = filepath.Clean(dir)
	lockPath := LockPath(dir)
	return &Directory{
		dir:      dir,
		opts:     opts,
		logger:   logging.NewComponentLogger(opts.Logger, "sink"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
}

// LockPath returns the lock file guarding dir. It lives beside dir because
// Prepare removes dir itself.
func LockPath(dir string) string {
	return filepath.Clean(dir) + ".lock"
}

// Dir returns the output directory.
func (d *Directory) Dir() string { return d.dir }

// Lock takes the advisory output lock so a concurrent run cannot clear this
// run's output. It fails with faults.ErrLocked when another process holds it.
func (d *Directory) Lock() error {
	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return faults.Wrap(faults.ErrSink, "sink", "lock", "create parent directory", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return faults.Wrap(faults.ErrSink, "sink", "lock", d.lockPath, err)
	}
	if !ok {
		return faults.Wrap(faults.ErrLocked, "sink", "lock", fmt.Sprintf("another run is writing %s", d.dir), nil)
	}
	d.logger.Debug("output lock acquired", logging.String("lock", d.lockPath))
	return nil
}

// Unlock releases the output lock. The lock file itself is left in place.
func (d *Directory) Unlock() {
	if !d.lock.Locked() {
		return
	}
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release output lock", "output_unlock_failed",
			logging.String("lock", d.lockPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the lock file if no weeder run is active"),
			logging.String(logging.FieldImpact, "lock is released when the process exits"),
		)
	}
}

func (d *Directory) Prepare(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(d.dir); err != nil {
		return faults.Wrap(faults.ErrSink, "sink", "clear", d.dir, err)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return faults.Wrap(faults.ErrSink, "sink", "create", d.dir, err)
	}
	if d.opts.OwnerUID >= 0 || d.opts.OwnerGID >= 0 {
		if err := os.Chown(d.dir, d.opts.OwnerUID, d.opts.OwnerGID); err != nil {
			return faults.Wrap(faults.ErrSink, "sink", "chown", d.dir, err)
		}
	}
	d.logger.Info("output directory recreated",
		logging.String("dir", d.dir),
		logging.String(logging.FieldEventType, "output_prepared"),
	)
	return nil
}

func (d *Directory) Write(ctx context.Context, name, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkName(name); err != nil {
		return faults.Wrap(faults.ErrSink, "sink", "write", name, err)
	}
	path := filepath.Join(d.dir, name+ArtifactExtension)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return faults.Wrap(faults.ErrSink, "sink", "write", path, err)
	}
	return nil
}

var errBadName = errors.New("document name must be a plain file name")

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errBadName
	}
	return nil
}
