package geom

// Plain value types decoded from score files. Coordinates are in the
// writer's units; this layer does not interpret them.

type Point struct {
	X, Y float64
}

type Size struct {
	W, H float64
}

type Scale struct {
	W, H float64
}

type Rect struct {
	X, Y, W, H float64
}

type Color struct {
	R, G, B, A uint8
}
