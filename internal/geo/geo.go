// Package geo holds the small amount of planar geometry the label
// placer needs: signed area and centroid for closed rings, and the
// arc-length midpoint of a polyline for anchoring a road label.
package geo

import "math"

// Point is a planar coordinate in projected map units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SignedArea returns the shoelace area of a ring. Positive for
// counter-clockwise winding. Rings need not repeat their first vertex.
func SignedArea(ring []Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	sum := 0.0
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Centroid returns the area centroid of a ring. Degenerate rings
// (fewer than three vertices, or zero area) fall back to the vertex
// average so a label anchor always exists.
func Centroid(ring []Point) Point {
	area := SignedArea(ring)
	if len(ring) < 3 || area == 0 {
		return vertexAverage(ring)
	}

	var cx, cy float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		cross := p.X*q.Y - q.X*p.Y
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	f := 1 / (6 * area)
	return Point{X: cx * f, Y: cy * f}
}

// PathLength returns the total arc length of a polyline.
func PathLength(line []Point) float64 {
	total := 0.0
	for i := 1; i < len(line); i++ {
		total += dist(line[i-1], line[i])
	}
	return total
}

// PathMidpoint returns the point halfway along a polyline by arc
// length. This is where a road label anchors: roads are open
// linestrings, so an area centroid is meaningless for them.
func PathMidpoint(line []Point) Point {
	switch len(line) {
	case 0:
		return Point{}
	case 1:
		return line[0]
	}

	total := PathLength(line)
	if total == 0 {
		return line[0]
	}

	remaining := total / 2
	for i := 1; i < len(line); i++ {
		d := dist(line[i-1], line[i])
		if d < remaining {
			remaining -= d
			continue
		}
		t := remaining / d
		return Point{
			X: line[i-1].X + (line[i].X-line[i-1].X)*t,
			Y: line[i-1].Y + (line[i].Y-line[i-1].Y)*t,
		}
	}
	return line[len(line)-1]
}

func vertexAverage(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return Point{X: sx / n, Y: sy / n}
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
