// Package export serializes the sculpted world to mesh formats.
package export

import (
	"bufio"
	"fmt"
	"io"

	"handsculpt.ai/internal/sim/world"
)

// Unit cube centered on the voxel coordinate, matching the picking
// geometry (half extent 0.5 per axis).
var cubeCorners = [8][3]float64{
	{-0.5, -0.5, -0.5},
	{0.5, -0.5, -0.5},
	{0.5, 0.5, -0.5},
	{-0.5, 0.5, -0.5},
	{-0.5, -0.5, 0.5},
	{0.5, -0.5, 0.5},
	{0.5, 0.5, 0.5},
	{-0.5, 0.5, 0.5},
}

// Quad per cube face, corners wound counter-clockwise seen from outside.
var cubeFaces = [6][4]int{
	{0, 3, 2, 1}, // -z
	{4, 5, 6, 7}, // +z
	{0, 4, 7, 3}, // -x
	{1, 2, 6, 5}, // +x
	{0, 1, 5, 4}, // -y
	{3, 7, 6, 2}, // +y
}

// WriteOBJ emits every voxel as a cube of 8 vertices and 6 quad faces.
// Voxels reference palette materials by color index (see WriteMTL).
func WriteOBJ(w io.Writer, wld *world.World) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# handsculpt export")
	fmt.Fprintln(bw, "mtllib sculpt.mtl")
	fmt.Fprintln(bw, "o sculpt")

	base := 1 // OBJ indices are 1-based
	lastColor := -1
	for _, v := range wld.All() {
		if v.ColorIndex != lastColor {
			fmt.Fprintf(bw, "usemtl c%d\n", v.ColorIndex)
			lastColor = v.ColorIndex
		}
		for _, c := range cubeCorners {
			fmt.Fprintf(bw, "v %g %g %g\n",
				float64(v.Pos.X)+c[0],
				float64(v.Pos.Y)+c[1],
				float64(v.Pos.Z)+c[2])
		}
		for _, f := range cubeFaces {
			fmt.Fprintf(bw, "f %d %d %d %d\n", base+f[0], base+f[1], base+f[2], base+f[3])
		}
		base += 8
	}
	return bw.Flush()
}

// WriteMTL emits one diffuse material per palette entry, named c0..cN.
func WriteMTL(w io.Writer, palette []string) error {
	bw := bufio.NewWriter(w)
	for i, hex := range palette {
		rgba, err := parseHexColor(hex)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "newmtl c%d\n", i)
		fmt.Fprintf(bw, "Kd %g %g %g\n", rgba[0], rgba[1], rgba[2])
	}
	return bw.Flush()
}
