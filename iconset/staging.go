package iconset

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"cdr.dev/slog/v3"
)

// IconsetName is the directory name iconutil expects its input under.
const IconsetName = "out.iconset"

// Staging is the scratch tree an iconset is assembled in before iconutil
// runs:
//
//	<tempBase>/svg2icns/<random>/out.iconset
//
// The tree is only removed by an explicit Commit. A run that fails after
// staging leaves it behind so the rendered files can be inspected.
type Staging struct {
	fs     afero.Fs
	root   string
	logger slog.Logger
}

// Stage creates a fresh scratch tree under tempBase. Concurrent runs get
// distinct trees.
func Stage(ctx context.Context, fsys afero.Fs, tempBase string, logger slog.Logger) (*Staging, error) {
	parent := filepath.Join(tempBase, "svg2icns")
	if err := fsys.MkdirAll(parent, 0o700); err != nil {
		return nil, xerrors.Errorf("create temporary directory %q: %w", parent, err)
	}
	root, err := afero.TempDir(fsys, parent, "")
	if err != nil {
		return nil, xerrors.Errorf("create temporary directory in %q: %w", parent, err)
	}
	if err := fsys.Mkdir(filepath.Join(root, IconsetName), 0o700); err != nil {
		// The root was created just above and holds nothing yet.
		_ = fsys.RemoveAll(root)
		return nil, xerrors.Errorf("create %s directory: %w", IconsetName, err)
	}
	logger.Debug(ctx, "staged scratch tree", slog.F("dir", root))
	return &Staging{
		fs:     fsys,
		root:   root,
		logger: logger,
	}, nil
}

// Dir returns the root of the scratch tree.
func (s *Staging) Dir() string {
	return s.root
}

// Iconset returns the path of the out.iconset directory.
func (s *Staging) Iconset() string {
	return filepath.Join(s.root, IconsetName)
}

// Commit removes the scratch tree. Call it only once the icns file has
// been written.
func (s *Staging) Commit() error {
	if err := s.fs.RemoveAll(s.root); err != nil {
		return xerrors.Errorf("remove %q: %w", s.root, err)
	}
	return nil
}
