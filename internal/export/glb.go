package export

import (
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"handsculpt.ai/internal/sim/world"
)

// Outward normal per cubeFaces entry.
var cubeNormals = [6][3]float32{
	{0, 0, -1},
	{0, 0, 1},
	{-1, 0, 0},
	{1, 0, 0},
	{0, -1, 0},
	{0, 1, 0},
}

// WriteGLB emits the world as a single vertex-colored GLB mesh with
// flat per-face normals. Each voxel contributes 24 vertices (4 per
// face) so adjacent faces keep hard edges.
func WriteGLB(w io.Writer, wld *world.World, palette []string) error {
	voxels := wld.All()

	var (
		positions [][3]float32
		normals   [][3]float32
		colors    [][4]float32
		indices   []uint32
	)
	for _, v := range voxels {
		rgba, err := parseHexColor(palette[paletteIndex(v.ColorIndex, len(palette))])
		if err != nil {
			return err
		}
		for fi, f := range cubeFaces {
			start := uint32(len(positions))
			for _, ci := range f {
				c := cubeCorners[ci]
				positions = append(positions, [3]float32{
					float32(float64(v.Pos.X) + c[0]),
					float32(float64(v.Pos.Y) + c[1]),
					float32(float64(v.Pos.Z) + c[2]),
				})
				normals = append(normals, cubeNormals[fi])
				colors = append(colors, rgba)
			}
			indices = append(indices,
				start, start+1, start+2,
				start, start+2, start+3)
		}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "handsculpt"

	if len(positions) > 0 {
		posAccessor := modeler.WritePosition(doc, positions)
		normalAccessor := modeler.WriteNormal(doc, normals)
		colorAccessor := modeler.WriteColor(doc, colors)
		indicesAccessor := modeler.WriteIndices(doc, indices)

		prim := &gltf.Primitive{
			Attributes: map[string]int{
				gltf.POSITION: posAccessor,
				gltf.NORMAL:   normalAccessor,
				gltf.COLOR_0:  colorAccessor,
			},
			Indices: gltf.Index(indicesAccessor),
		}

		doc.Materials = []*gltf.Material{{
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{1, 1, 1, 1},
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(1),
			},
			AlphaMode: gltf.AlphaOpaque,
		}}
		prim.Material = gltf.Index(0)

		doc.Meshes = []*gltf.Mesh{{Name: "sculpt", Primitives: []*gltf.Primitive{prim}}}
		doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return enc.Encode(doc)
}

func paletteIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
