package theme

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

//go:embed palettes/plasma.gpl
var plasmaGPL []byte

type RGB [3]uint8

// Hex formats c as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Palette is an ordered gradient of colors
type Palette struct {
	Name   string
	Colors []RGB
}

// DefaultPalette returns the embedded plasma gradient
func DefaultPalette() *Palette {
	p, err := ParseGPL(bytes.NewReader(plasmaGPL))
	if err != nil {
		panic("embedded palette: " + err.Error())
	}
	return p
}

// LoadGPL reads a GIMP palette file from disk
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("open palette"))
	}
	defer f.Close()

	p, err := ParseGPL(f)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("load palette", "Could not load palette "+path))
	}
	return p, nil
}

// ParseGPL reads GIMP palette text. Lines that are not "R G B [name]"
// are skipped.
func ParseGPL(r io.Reader) (*Palette, error) {
	p := &Palette{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if name, ok := strings.CutPrefix(line, "Name:"); ok {
			p.Name = strings.TrimSpace(name)
			continue
		}
		if c, ok := parseColor(line); ok {
			p.Colors = append(p.Colors, c)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fault.Wrap(err, fmsg.With("read palette"))
	}
	if len(p.Colors) == 0 {
		return nil, fault.Wrap(fault.New("no colors found in palette"), ftag.With(ftag.InvalidArgument))
	}
	return p, nil
}

func parseColor(line string) (RGB, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return RGB{}, false
	}
	var c RGB
	for i := range c {
		v, err := strconv.ParseUint(fields[i], 10, 8)
		if err != nil {
			return RGB{}, false
		}
		c[i] = uint8(v)
	}
	return c, true
}

// Lookup interpolates the color at norm, clamped to 0-1
func (p *Palette) Lookup(norm float64) RGB {
	last := len(p.Colors) - 1
	switch {
	case norm <= 0 || last == 0:
		return p.Colors[0]
	case norm >= 1:
		return p.Colors[last]
	}

	pos := norm * float64(last)
	i := int(pos)
	t := pos - float64(i)
	var out RGB
	for ch := range out {
		a, b := float64(p.Colors[i][ch]), float64(p.Colors[i+1][ch])
		out[ch] = uint8(a + (b-a)*t)
	}
	return out
}
