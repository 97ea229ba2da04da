package render

// AssembleTriangles groups vertices into consecutive triangles in source
// order. A trailing group of fewer than three vertices is dropped.
func AssembleTriangles(vertices []Vertex) [][3]Vertex {
	n := len(vertices) / 3
	tris := make([][3]Vertex, n)
	for i := range n {
		tris[i] = [3]Vertex{vertices[3*i], vertices[3*i+1], vertices[3*i+2]}
	}
	return tris
}

// AssembleLines groups vertices into consecutive segments in source order.
// A trailing unpaired vertex is dropped.
func AssembleLines(vertices []Vertex) [][2]Vertex {
	n := len(vertices) / 2
	lines := make([][2]Vertex, n)
	for i := range n {
		lines[i] = [2]Vertex{vertices[2*i], vertices[2*i+1]}
	}
	return lines
}

// InsideClipVolume reports whether the vertex's NDC position lies in the
// closed cube [-1, 1]³. NaN coordinates are outside.
func InsideClipVolume(v Vertex) bool {
	p := v.NDCPosition
	return p.X >= -1 && p.X <= 1 &&
		p.Y >= -1 && p.Y <= 1 &&
		p.Z >= -1 && p.Z <= 1
}

// CullTriangles keeps triangles with at least one vertex inside the clip
// volume. This is conservative per vertex, not exact clipping: a large
// triangle whose corners all lie outside is dropped even when its interior
// crosses the screen.
func CullTriangles(tris [][3]Vertex) [][3]Vertex {
	kept := make([][3]Vertex, 0, len(tris))
	for _, tri := range tris {
		if InsideClipVolume(tri[0]) || InsideClipVolume(tri[1]) || InsideClipVolume(tri[2]) {
			kept = append(kept, tri)
		}
	}
	return kept
}
