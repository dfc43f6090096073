// Package fontlist enumerates installed system fonts for the startup
// diagnostic dump.
package fontlist

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/adrg/sysfont"
)

// smoothSizes is the point size ladder reported for scalable faces.
var smoothSizes = []int{6, 7, 8, 9, 10, 11, 12, 14, 16, 18, 20, 22, 24, 26, 28, 36, 48, 72}

// Face is one family and style combination available on the system.
type Face struct {
	Family string
	Style  string
	Sizes  []int
}

// List returns the installed font faces sorted by family, then style.
// Entries without a usable family name are dropped.
func List() []Face {
	finder := sysfont.NewFinder(nil)

	seen := make(map[string]struct{})
	var faces []Face
	for _, font := range finder.List() {
		family := strings.TrimSpace(font.Family)
		if family == "" {
			continue
		}
		style := strings.TrimSpace(strings.TrimPrefix(font.Name, family))
		if style == "" {
			style = "Regular"
		}
		key := family + "\x00" + style
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		faces = append(faces, Face{
			Family: family,
			Style:  style,
			Sizes:  slices.Clone(smoothSizes),
		})
	}
	slices.SortFunc(faces, compareFaces)
	return faces
}

func compareFaces(a, b Face) int {
	if c := strings.Compare(a.Family, b.Family); c != 0 {
		return c
	}
	return strings.Compare(a.Style, b.Style)
}

// Dump writes the face list in the traditional tab separated diagnostic
// format. The dump is informational only, so write errors are ignored and
// a system without fonts produces just the header.
func Dump(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Font\t|\tSmooth Sizes")
	for _, face := range List() {
		sizes := make([]string, len(face.Sizes))
		for i, size := range face.Sizes {
			sizes[i] = strconv.Itoa(size)
		}
		_, _ = fmt.Fprintf(w, "%s\t|\t%s\t|\t%s\n", face.Family, face.Style, strings.Join(sizes, " "))
	}
}
