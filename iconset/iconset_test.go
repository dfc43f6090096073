package iconset_test

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/xerrors"

	"github.com/coder/svg2icns/iconset"
	"github.com/coder/svg2icns/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubRenderer returns solid images and records the sizes requested.
type stubRenderer struct {
	sizes []int
}

func (r *stubRenderer) Render(size int) *image.RGBA {
	r.sizes = append(r.sizes, size)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 0x80, G: 0x40, B: 0x20, A: 0xff}), image.Point{}, draw.Src)
	return img
}

// failingFs rejects writes to paths containing needle.
type failingFs struct {
	afero.Fs
	needle string
}

func (f failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if strings.Contains(name, f.needle) {
		return nil, xerrors.New("synthetic write failure")
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestEntries(t *testing.T) {
	t.Parallel()

	want := []iconset.Entry{
		{Size: 1024, Name: "icon_512x512@2x.png"},
		{Size: 512, Name: "icon_512x512.png", Alias: "icon_256x256@2x.png"},
		{Size: 256, Name: "icon_256x256.png", Alias: "icon_128x128@2x.png"},
		{Size: 128, Name: "icon_128x128.png"},
		{Size: 64, Name: "icon_32x32@2x.png"},
		{Size: 32, Name: "icon_32x32.png", Alias: "icon_16x16@2x.png"},
		{Size: 16, Name: "icon_16x16.png"},
	}
	if diff := cmp.Diff(want, iconset.Entries()); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}

	// Mutating the returned slice must not leak into later calls.
	got := iconset.Entries()
	got[0].Size = 1
	require.Equal(t, want, iconset.Entries())
}

func TestExport(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()
		ctx := testutil.Context(t, testutil.WaitShort)
		fsys := afero.NewMemMapFs()
		require.NoError(t, fsys.Mkdir("/icons", 0o700))

		renderer := &stubRenderer{}
		exporter := iconset.Exporter{
			Renderer:   renderer,
			Filesystem: fsys,
			Logger:     testutil.Logger(t),
		}
		require.NoError(t, exporter.Export(ctx, "/icons"))

		// One render per size, reused for the alias.
		require.Equal(t, []int{1024, 512, 256, 128, 64, 32, 16}, renderer.sizes)

		infos, err := afero.ReadDir(fsys, "/icons")
		require.NoError(t, err)
		names := make([]string, 0, len(infos))
		for _, info := range infos {
			names = append(names, info.Name())
		}
		require.ElementsMatch(t, []string{
			"icon_512x512@2x.png",
			"icon_512x512.png",
			"icon_256x256@2x.png",
			"icon_256x256.png",
			"icon_128x128@2x.png",
			"icon_128x128.png",
			"icon_32x32@2x.png",
			"icon_32x32.png",
			"icon_16x16@2x.png",
			"icon_16x16.png",
		}, names)

		for _, entry := range iconset.Entries() {
			data, err := afero.ReadFile(fsys, filepath.Join("/icons", entry.Name))
			require.NoError(t, err)
			cfg, err := png.DecodeConfig(bytes.NewReader(data))
			require.NoError(t, err)
			require.Equal(t, entry.Size, cfg.Width)
			require.Equal(t, entry.Size, cfg.Height)

			if entry.Alias == "" {
				continue
			}
			alias, err := afero.ReadFile(fsys, filepath.Join("/icons", entry.Alias))
			require.NoError(t, err)
			require.Equal(t, data, alias, "%s must be identical to %s", entry.Alias, entry.Name)
		}
	})

	t.Run("ReadOnly", func(t *testing.T) {
		t.Parallel()
		ctx := testutil.Context(t, testutil.WaitShort)
		mem := afero.NewMemMapFs()

		exporter := iconset.Exporter{
			Renderer:   &stubRenderer{},
			Filesystem: afero.NewReadOnlyFs(mem),
			Logger:     testutil.Logger(t),
		}
		err := exporter.Export(ctx, "/icons")
		require.Error(t, err)
		// The largest size is written first, so it is the one that fails.
		require.ErrorContains(t, err, "icon_512x512@2x.png")

		ok, err := afero.Exists(mem, "/icons/icon_512x512@2x.png")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("MidwayFailure", func(t *testing.T) {
		t.Parallel()
		ctx := testutil.Context(t, testutil.WaitShort)
		mem := afero.NewMemMapFs()
		require.NoError(t, mem.Mkdir("/icons", 0o700))

		exporter := iconset.Exporter{
			Renderer:   &stubRenderer{},
			Filesystem: failingFs{Fs: mem, needle: "icon_256x256.png"},
			Logger:     testutil.Logger(t),
		}
		err := exporter.Export(ctx, "/icons")
		require.Error(t, err)
		require.ErrorContains(t, err, "icon_256x256.png")

		// Everything staged before the failure stays put.
		for _, name := range []string{"icon_512x512@2x.png", "icon_512x512.png", "icon_256x256@2x.png"} {
			ok, err := afero.Exists(mem, filepath.Join("/icons", name))
			require.NoError(t, err)
			require.True(t, ok, name)
		}
		// Nothing past it was attempted.
		ok, err := afero.Exists(mem, "/icons/icon_128x128.png")
		require.NoError(t, err)
		require.False(t, ok)
	})
}
