package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{`                     _          _     _            `, "#34d399"},
	{` _ __   __ ___   __ | |__  _ __(_) __| | __ _  ___ `, "#2dd4bf"},
	{`| '_ \ / _' \ \ / / | '_ \| '__| |/ _' |/ _' |/ _ \`, "#22d3ee"},
	{`| | | | (_| |\ V /  | |_) | |  | | (_| | (_| |  __/`, "#38bdf8"},
	{`|_| |_|\__,_| \_/   |_.__/|_|  |_|\__,_|\__, |\___|`, "#60a5fa"},
	{`                                        |___/      `, "#818cf8"},
}

// PrintBanner writes the navbridge banner to w, colored when w is a
// capable terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  navigation bridge "+version).Faint())
	fmt.Fprintln(w)
}
