package export

import (
	"fmt"
	"strconv"
)

// parseHexColor converts "#rrggbb" or "#rrggbbaa" to normalized RGBA.
func parseHexColor(hex string) ([4]float32, error) {
	if len(hex) == 0 || hex[0] != '#' {
		return [4]float32{}, fmt.Errorf("bad hex color %q", hex)
	}
	h := hex[1:]
	if len(h) != 6 && len(h) != 8 {
		return [4]float32{}, fmt.Errorf("bad hex color length %q", hex)
	}
	var c [4]uint64
	c[3] = 255
	for i := 0; i*2 < len(h); i++ {
		v, err := strconv.ParseUint(h[i*2:i*2+2], 16, 8)
		if err != nil {
			return [4]float32{}, fmt.Errorf("bad hex color %q: %w", hex, err)
		}
		c[i] = v
	}
	return [4]float32{
		float32(c[0]) / 255,
		float32(c[1]) / 255,
		float32(c[2]) / 255,
		float32(c[3]) / 255,
	}, nil
}
