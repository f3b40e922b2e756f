// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdflayout

import (
	"fmt"
	"strings"

	rpdf "rsc.io/pdf"
)

// Fragment is a run of text shown at one origin. Coordinates are in PDF
// user space after the current transformation matrix: X grows to the
// right, Y grows upward.
type Fragment struct {
	X    float64
	Y    float64
	Text string
}

// matrix is a PDF affine transform [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns m×n, which applies m first and then n.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func matrixOf(vals []rpdf.Value) (matrix, bool) {
	if len(vals) < 6 {
		return identity, false
	}
	vals = vals[len(vals)-6:]
	var m matrix
	for i := range m {
		m[i] = vals[i].Float64()
	}
	return m, true
}

func arrayValues(v rpdf.Value) []rpdf.Value {
	if v.Kind() != rpdf.Array {
		return nil
	}
	out := make([]rpdf.Value, v.Len())
	for i := range out {
		out[i] = v.Index(i)
	}
	return out
}

// graphicsState is the part of the PDF graphics state saved by q and
// restored by Q that affects where text lands and how it decodes.
type graphicsState struct {
	ctm     matrix
	enc     rpdf.TextEncoding
	leading float64
}

const maxFormDepth = 8

// tjSpaceThreshold is the kerning adjustment (thousandths of text space)
// beyond which a TJ gap is read as a word break.
const tjSpaceThreshold = -200

// interpreter walks page content with rsc.io/pdf and records where each
// shown string starts. Consecutive shows without repositioning join into
// one fragment, so a cell written in several pieces stays whole.
type interpreter struct {
	gs       graphicsState
	saved    []graphicsState
	tm, tlm  matrix
	advanced bool
	depth    int
	out      []Fragment
}

func newInterpreter() *interpreter {
	return &interpreter{gs: graphicsState{ctm: identity}, tm: identity, tlm: identity}
}

func (in *interpreter) run(strm, resources rpdf.Value) {
	rpdf.Interpret(strm, func(stk *rpdf.Stack, op string) {
		n := stk.Len()
		args := make([]rpdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		in.do(op, args, resources)
	})
}

// arg returns an operand counted from the end: 0 is the last operand.
func arg(args []rpdf.Value, i int) rpdf.Value {
	if i < len(args) {
		return args[len(args)-1-i]
	}
	return rpdf.Value{}
}

func (in *interpreter) do(op string, args []rpdf.Value, resources rpdf.Value) {
	switch op {
	case "q":
		in.saved = append(in.saved, in.gs)
	case "Q":
		if n := len(in.saved); n > 0 {
			in.gs = in.saved[n-1]
			in.saved = in.saved[:n-1]
		}
	case "cm":
		if m, ok := matrixOf(args); ok {
			in.gs.ctm = m.mul(in.gs.ctm)
		}
	case "BT":
		in.tm, in.tlm = identity, identity
		in.advanced = false
	case "Tf":
		font := rpdf.Font{V: resources.Key("Font").Key(arg(args, 1).Name())}
		in.gs.enc = font.Encoder()
	case "TL":
		in.gs.leading = arg(args, 0).Float64()
	case "Td":
		in.moveLine(arg(args, 1).Float64(), arg(args, 0).Float64())
	case "TD":
		ty := arg(args, 0).Float64()
		in.gs.leading = -ty
		in.moveLine(arg(args, 1).Float64(), ty)
	case "Tm":
		if m, ok := matrixOf(args); ok {
			in.tm, in.tlm = m, m
			in.advanced = false
		}
	case "T*":
		in.moveLine(0, -in.gs.leading)
	case "Tj":
		in.show(in.decode(arg(args, 0).RawString()))
	case "'", "\"":
		in.moveLine(0, -in.gs.leading)
		in.show(in.decode(arg(args, 0).RawString()))
	case "TJ":
		in.show(in.joinTJ(arg(args, 0)))
	case "Do":
		in.form(resources, arg(args, 0).Name())
	}
}

func (in *interpreter) moveLine(tx, ty float64) {
	in.tlm = matrix{1, 0, 0, 1, tx, ty}.mul(in.tlm)
	in.tm = in.tlm
	in.advanced = false
}

func (in *interpreter) decode(raw string) string {
	if in.gs.enc == nil {
		return raw
	}
	return in.gs.enc.Decode(raw)
}

func (in *interpreter) joinTJ(arr rpdf.Value) string {
	var b strings.Builder
	for _, e := range arrayValues(arr) {
		switch e.Kind() {
		case rpdf.String:
			b.WriteString(in.decode(e.RawString()))
		case rpdf.Integer, rpdf.Real:
			s := b.String()
			if e.Float64() < tjSpaceThreshold && s != "" && !strings.HasSuffix(s, " ") {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

func (in *interpreter) show(text string) {
	if in.advanced && len(in.out) > 0 {
		in.out[len(in.out)-1].Text += text
		return
	}
	trm := in.tm.mul(in.gs.ctm)
	in.out = append(in.out, Fragment{X: trm[4], Y: trm[5], Text: text})
	in.advanced = true
}

// form runs a Form XObject in place, under its own matrix and resources.
// Image XObjects are ignored.
func (in *interpreter) form(resources rpdf.Value, name string) {
	xo := resources.Key("XObject").Key(name)
	if in.depth >= maxFormDepth || xo.Kind() != rpdf.Stream || xo.Key("Subtype").Name() != "Form" {
		return
	}
	res := xo.Key("Resources")
	if res.Kind() != rpdf.Dict {
		res = resources
	}

	gs, saved, tm, tlm := in.gs, in.saved, in.tm, in.tlm
	if m, ok := matrixOf(arrayValues(xo.Key("Matrix"))); ok {
		in.gs.ctm = m.mul(in.gs.ctm)
	}
	in.saved = nil
	in.depth++
	in.run(xo, res)
	in.depth--
	in.gs, in.saved, in.tm, in.tlm = gs, saved, tm, tlm
	in.advanced = false
}

// fragments returns what was shown, with surrounding whitespace trimmed
// and empty fragments dropped.
func (in *interpreter) fragments() []Fragment {
	var out []Fragment
	for _, f := range in.out {
		f.Text = strings.TrimSpace(f.Text)
		if f.Text != "" {
			out = append(out, f)
		}
	}
	return out
}

// pageFragments interprets every content stream of page nr. rsc.io/pdf
// panics on malformed input; the fragments read before the failure are
// returned together with the error.
func pageFragments(r *rpdf.Reader, nr int) (frags []Fragment, err error) {
	in := newInterpreter()
	defer func() {
		if p := recover(); p != nil {
			frags = in.fragments()
			err = fmt.Errorf("interpreting page %d: %v", nr, p)
		}
	}()

	page := r.Page(nr)
	resources := page.Resources()
	contents := page.V.Key("Contents")
	switch contents.Kind() {
	case rpdf.Stream:
		in.run(contents, resources)
	case rpdf.Array:
		for _, strm := range arrayValues(contents) {
			if strm.Kind() == rpdf.Stream {
				in.run(strm, resources)
			}
		}
	}
	return in.fragments(), nil
}
