package main

import (
	"bufio"
	"fmt"
	"io"

	addigital "github.com/emoryta/ADDigitalProj"
	"github.com/emoryta/ADDigitalProj/internal/color"
)

const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	resetStyle  = "\x1b[0m"
	eol         = "\x1b[K\r\n"
)

// strip keeps the last frame a topology buffer committed. The right strip
// is shown last, so its writes trigger a redraw.
type strip struct {
	px      []color.RGB
	onWrite func()
}

func (s *strip) Write(px []color.RGB) {
	s.px = append(s.px[:0], px...)
	if s.onWrite != nil {
		s.onWrite()
	}
}

func (s *strip) at(i int) color.RGB {
	if i < len(s.px) {
		return s.px[i]
	}
	return color.Black
}

// screen draws the U as truecolor blocks: the top bar, then one row per
// LED with the left strip on the left and the right strip on the right.
type screen struct {
	w     *bufio.Writer
	left  *strip
	right *strip
	n     int
	info  func() []string
}

func newScreen(w io.Writer, n int, info func() []string) *screen {
	s := &screen{w: bufio.NewWriter(w), left: &strip{}, right: &strip{}, n: n, info: info}
	s.right.onWrite = s.draw
	return s
}

func (s *screen) begin() {
	fmt.Fprint(s.w, hideCursor, clearScreen)
	s.w.Flush()
}

func (s *screen) end() {
	fmt.Fprint(s.w, resetStyle, showCursor, "\r\n")
	s.w.Flush()
}

func (s *screen) draw() {
	fmt.Fprint(s.w, cursorHome)
	if s.info != nil {
		for _, line := range s.info() {
			fmt.Fprint(s.w, "  ", line, eol)
		}
	}
	fmt.Fprint(s.w, eol)

	fmt.Fprint(s.w, "   ")
	for i := 0; i < 14; i++ {
		fmt.Fprint(s.w, "▄")
	}
	fmt.Fprint(s.w, eol)
	for i := 0; i < s.n; i++ {
		fmt.Fprint(s.w, "   ")
		s.led(s.left.at(i))
		fmt.Fprint(s.w, "        ")
		s.led(s.right.at(i))
		fmt.Fprint(s.w, eol)
	}
	fmt.Fprint(s.w, eol, "  space: next mode   q: quit", eol)
	s.w.Flush()
}

func (s *screen) led(c color.RGB) {
	fmt.Fprintf(s.w, "\x1b[38;2;%d;%d;%dm███%s", c.R, c.G, c.B, resetStyle)
}

func engineInfo(e *addigital.Engine, source string) func() []string {
	return func() []string {
		res := e.Last()
		kind := "ambient"
		if res.Mode.Reactive() {
			kind = "sound"
		}
		return []string{
			fmt.Sprintf("source %s  variant %s", source, e.Config().Variant),
			fmt.Sprintf("mode %-16s %-7s loud %.3f  punch %.3f  gain %.2f",
				res.Mode, kind, res.Signals.Loudness, res.Signals.Punch, res.Signals.AutoGain),
		}
	}
}

// hexFrame formats logical pixels for the offline dump.
func hexFrame(px []color.RGB) string {
	b := make([]byte, 0, len(px)*8)
	for i, c := range px {
		if i > 0 {
			b = append(b, ' ')
		}
		b = fmt.Appendf(b, "%02x%02x%02x", c.R, c.G, c.B)
	}
	return string(b)
}
