package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"cdr.dev/slog/v3"

	"github.com/coder/serpent"

	"github.com/coder/svg2icns/buildinfo"
	"github.com/coder/svg2icns/cli/cliui"
	"github.com/coder/svg2icns/fontlist"
	"github.com/coder/svg2icns/iconset"
	"github.com/coder/svg2icns/iconutil"
	"github.com/coder/svg2icns/svgrender"
)

// convert implements the root command: render the image given as the only
// argument at every iconset size, then pack the result with iconutil.
func (r *RootCmd) convert(inv *serpent.Invocation) error {
	ctx := inv.Context()

	if len(inv.Args) == 0 {
		_ = inv.Command.HelpHandler(inv)
		return xerrors.New("missing path to an svg image")
	}
	input := inv.Args[0]

	logger := r.Logger(inv)
	fields := []slog.Field{
		slog.F("version", buildinfo.Version()),
		slog.F("input", input),
		slog.F("lenient", r.lenient),
	}
	if built, ok := buildinfo.Time(); ok {
		fields = append(fields, slog.F("built", built))
	}
	logger.Debug(ctx, "starting", fields...)

	fontlist.Dump(inv.Stderr)

	fsys := afero.NewOsFs()
	staging, err := iconset.Stage(ctx, fsys, os.TempDir(), logger)
	if err != nil {
		return xerrors.Errorf("unable to create temporary directory: %w", err)
	}
	// Failures past this point keep the scratch tree on disk so the
	// rendered files can be inspected.
	keep := func() {
		cliui.Warn(inv.Stderr, "Temporary dir not removed: "+cliui.Keyword(staging.Dir()))
	}

	icon, err := svgrender.Load(fsys, input, svgrender.Options{Lenient: r.lenient})
	if err != nil {
		keep()
		return xerrors.Errorf("unable to load %s: %w", input, err)
	}

	exporter := iconset.Exporter{
		Renderer:   icon,
		Filesystem: fsys,
		Logger:     logger,
	}
	if err := exporter.Export(ctx, staging.Iconset()); err != nil {
		keep()
		return xerrors.Errorf("unable to write iconset: %w", err)
	}

	outFile := outputName(input)
	err = iconutil.Convert(ctx, staging.Iconset(), outFile, iconutil.Options{
		Stderr: inv.Stderr,
		Logger: logger,
	})
	if err != nil {
		keep()
		return err
	}

	if err := staging.Commit(); err != nil {
		logger.Debug(ctx, "remove staging", slog.Error(err))
		keep()
	}
	logger.Debug(ctx, "wrote icns", slog.F("file", outFile))
	return nil
}

// outputName derives the icns file name from the input path the way the
// classic tooling does: the last path element with everything from its
// first dot dropped, so "dark.icon.svg" becomes "dark.icns".
func outputName(input string) string {
	base := filepath.Base(input)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base + ".icns"
}
