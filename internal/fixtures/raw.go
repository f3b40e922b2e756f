// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fixtures

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
)

// RawPDF describes a PDF assembled object by object, for content that
// fpdf never writes: text placed through the CTM, composite fonts, form
// XObjects, and pages split over several content streams.
//
// Every page shares one resource dictionary. /F1 is Helvetica with
// WinAnsiEncoding. /F2 is an Identity-H composite font whose ToUnicode
// CMap maps each two-byte code in ToUnicode to its rune. Each entry of
// Forms is available to the pages as a form XObject of the same name.
type RawPDF struct {
	Pages     [][]string
	ToUnicode map[uint16]rune
	Forms     map[string]RawForm
}

// RawForm is a form XObject. Matrix holds the six numbers of /Matrix, or
// is empty for the identity.
type RawForm struct {
	Matrix  string
	Content string
}

type rawWriter struct {
	buf     bytes.Buffer
	offsets []int
}

// reserve allocates the next object number.
func (w *rawWriter) reserve() int {
	w.offsets = append(w.offsets, 0)
	return len(w.offsets)
}

func (w *rawWriter) object(nr int, body string) {
	w.offsets[nr-1] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", nr, body)
}

func (w *rawWriter) stream(nr int, dict, data string) {
	w.object(nr, fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data))
}

// WriteRawPDF writes doc to path. At least one page is always written.
func WriteRawPDF(path string, doc RawPDF) error {
	pages := doc.Pages
	if len(pages) == 0 {
		pages = [][]string{{""}}
	}

	w := &rawWriter{}
	w.buf.WriteString("%PDF-1.4\n")

	catalog, tree := w.reserve(), w.reserve()
	helvetica, composite, cmap := w.reserve(), w.reserve(), w.reserve()

	names := make([]string, 0, len(doc.Forms))
	for name := range doc.Forms {
		names = append(names, name)
	}
	sort.Strings(names)
	var xobjects strings.Builder
	forms := make(map[string]int, len(names))
	for _, name := range names {
		forms[name] = w.reserve()
		fmt.Fprintf(&xobjects, " /%s %d 0 R", name, forms[name])
	}
	resources := fmt.Sprintf("<< /Font << /F1 %d 0 R /F2 %d 0 R >> /XObject <<%s >> >>", helvetica, composite, xobjects.String())

	w.object(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", tree))
	w.object(helvetica, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	w.object(composite, fmt.Sprintf("<< /Type /Font /Subtype /Type0 /BaseFont /Fixture /Encoding /Identity-H /ToUnicode %d 0 R >>", cmap))
	w.stream(cmap, "", toUnicodeCMap(doc.ToUnicode))

	for _, name := range names {
		f := doc.Forms[name]
		dict := "/Type /XObject /Subtype /Form /BBox [0 0 612 792] /Resources " + resources
		if f.Matrix != "" {
			dict += " /Matrix [" + f.Matrix + "]"
		}
		w.stream(forms[name], dict, f.Content)
	}

	kids := make([]string, 0, len(pages))
	for _, streams := range pages {
		page := w.reserve()
		kids = append(kids, fmt.Sprintf("%d 0 R", page))

		refs := make([]string, 0, len(streams))
		nrs := make([]int, len(streams))
		for i := range streams {
			nrs[i] = w.reserve()
			refs = append(refs, fmt.Sprintf("%d 0 R", nrs[i]))
		}
		contents := refs[0]
		if len(refs) > 1 {
			contents = "[" + strings.Join(refs, " ") + "]"
		}
		w.object(page, fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources %s /Contents %s >>", tree, resources, contents))
		for i, s := range streams {
			w.stream(nrs[i], "", s)
		}
	}
	w.object(tree, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids)))

	xref := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n0000000000 65535 f \n", len(w.offsets)+1)
	for _, off := range w.offsets {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(w.offsets)+1, catalog, xref)

	if err := os.WriteFile(path, w.buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func toUnicodeCMap(m map[uint16]rune) string {
	codes := make([]int, 0, len(m))
	for c := range m {
		codes = append(codes, int(c))
	}
	sort.Ints(codes)

	var b strings.Builder
	b.WriteString("begincmap\n1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")
	if len(codes) > 0 {
		fmt.Fprintf(&b, "%d beginbfchar\n", len(codes))
		for _, c := range codes {
			fmt.Fprintf(&b, "<%04X> <%04X>\n", c, m[uint16(c)])
		}
		b.WriteString("endbfchar\n")
	}
	b.WriteString("endcmap")
	return b.String()
}
