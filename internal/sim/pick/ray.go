package pick

import (
	"math"

	"handsculpt.ai/internal/sim/geom"
)

// Ray is a world-space pick ray with a normalized direction.
type Ray struct {
	Origin geom.Vec3
	Dir    geom.Vec3
}

// Camera carries the renderer-owned parameters needed to build a pick
// ray. It is passed in per frame, never stored.
type Camera struct {
	Position geom.Vec3
	Forward  geom.Vec3
	Up       geom.Vec3
	FOVDeg   float64
	Aspect   float64
}

// PickRay builds a world-space ray through the screen point (nx, ny),
// both in [0,1] with the origin at the top-left.
func PickRay(nx, ny float64, cam Camera) Ray {
	// Normalized device coordinates, y flipped.
	ndcX := 2*nx - 1
	ndcY := 1 - 2*ny

	forward := cam.Forward.Normalize()
	right := forward.Cross(cam.Up).Normalize()
	up := right.Cross(forward)

	fov := cam.FOVDeg
	if fov <= 0 {
		fov = 60
	}
	aspect := cam.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	tanHalfFov := math.Tan(fov * math.Pi / 360)

	dir := forward.
		Add(right.Scale(ndcX * aspect * tanHalfFov)).
		Add(up.Scale(ndcY * tanHalfFov)).
		Normalize()

	return Ray{Origin: cam.Position, Dir: dir}
}
