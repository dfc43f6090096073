// Package svgrender loads SVG documents and rasterizes them to square
// RGBA images.
package svgrender

import (
	"bufio"
	"bytes"
	"image"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/xerrors"
)

// gzipMagic prefixes every gzip stream, which is how compressed svgz
// documents are told apart from plain xml.
var gzipMagic = []byte{0x1f, 0x8b}

// Options control how the source document is parsed.
type Options struct {
	// Lenient downgrades errors about unsupported svg features so that
	// imperfect documents still load. Parse failures remain fatal.
	Lenient bool
}

// Icon is a parsed vector image ready for rasterization.
//
// An Icon is not safe for concurrent use: rendering adjusts the icon's
// internal transform.
type Icon struct {
	svg *oksvg.SvgIcon
}

// Load reads and parses the svg or svgz document at path.
func Load(fsys afero.Fs, path string, opts Options) (*Icon, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("open %q: %w", path, err)
	}
	defer file.Close()

	buf := bufio.NewReader(file)
	var src io.Reader = buf
	if magic, err := buf.Peek(len(gzipMagic)); err == nil && bytes.Equal(magic, gzipMagic) {
		gz, err := gzip.NewReader(buf)
		if err != nil {
			return nil, xerrors.Errorf("decompress %q: %w", path, err)
		}
		defer gz.Close()
		src = gz
	}

	mode := oksvg.StrictErrorMode
	if opts.Lenient {
		mode = oksvg.WarnErrorMode
	}
	svg, err := oksvg.ReadIconStream(src, mode)
	if err != nil {
		return nil, xerrors.Errorf("parse %q: %w", path, err)
	}
	if svg.ViewBox.W <= 0 || svg.ViewBox.H <= 0 {
		return nil, xerrors.Errorf("parse %q: viewbox %gx%g has no area", path, svg.ViewBox.W, svg.ViewBox.H)
	}
	return &Icon{svg: svg}, nil
}

// Render rasterizes the icon into a size by size pixel image. The drawing
// is scaled to fill the whole canvas, so documents with a non-square
// viewbox are stretched. size must be positive.
func (i *Icon) Render(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	i.svg.SetTarget(0, 0, float64(size), float64(size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	i.svg.Draw(rasterx.NewDasher(size, size, scanner), 1)
	return img
}
