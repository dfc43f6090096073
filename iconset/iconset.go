// Package iconset assembles the out.iconset directory that iconutil
// compiles into an icns file.
package iconset

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"cdr.dev/slog/v3"
)

// Entry describes one rendered size and the file names it is stored under.
type Entry struct {
	// Size is the edge length of the rendered image in pixels.
	Size int
	// Name is the primary file name inside the iconset directory.
	Name string
	// Alias is a second name the same image is written under. Sizes that
	// fill both a 1x slot and the 2x slot of the next size down have one.
	Alias string
}

// entries is the fixed set of rasterizations icns files are built from.
// The names follow the icon_<w>x<h>[@2x].png convention iconutil expects.
var entries = []Entry{
	{Size: 1024, Name: "icon_512x512@2x.png"},
	{Size: 512, Name: "icon_512x512.png", Alias: "icon_256x256@2x.png"},
	{Size: 256, Name: "icon_256x256.png", Alias: "icon_128x128@2x.png"},
	{Size: 128, Name: "icon_128x128.png"},
	{Size: 64, Name: "icon_32x32@2x.png"},
	{Size: 32, Name: "icon_32x32.png", Alias: "icon_16x16@2x.png"},
	{Size: 16, Name: "icon_16x16.png"},
}

// Entries returns the rasterizations an iconset is built from, largest
// first. The caller may modify the returned slice.
func Entries() []Entry {
	return slices.Clone(entries)
}

// Renderer produces a square image with the given edge length in pixels.
type Renderer interface {
	Render(size int) *image.RGBA
}

// Exporter writes the png files of an iconset.
type Exporter struct {
	// Renderer supplies the image for each entry.
	Renderer Renderer
	// Filesystem receives the files.
	Filesystem afero.Fs
	Logger     slog.Logger
}

// Export renders every entry once and writes it into dir, encoding each
// size a single time so an entry's alias is byte for byte identical to its
// primary file. The first failed write aborts the export; files written
// before it are left in place.
func (e Exporter) Export(ctx context.Context, dir string) error {
	for _, entry := range Entries() {
		img := e.Renderer.Render(entry.Size)

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return xerrors.Errorf("encode %q: %w", entry.Name, err)
		}

		names := []string{entry.Name}
		if entry.Alias != "" {
			names = append(names, entry.Alias)
		}
		for _, name := range names {
			path := filepath.Join(dir, name)
			if err := afero.WriteFile(e.Filesystem, path, buf.Bytes(), 0o600); err != nil {
				return xerrors.Errorf("write %q: %w", path, err)
			}
			e.Logger.Debug(ctx, "wrote icon",
				slog.F("file", name),
				slog.F("size", entry.Size),
				slog.F("bytes", buf.Len()),
			)
		}
	}
	return nil
}
