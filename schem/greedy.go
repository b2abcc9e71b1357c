package schem

// Vertex is a mesh corner tagged with the palette id of its block.
type Vertex struct {
	Position [3]float32
	Block    uint32
}

// Mesh is an indexed triangle list covering every exposed block face.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	// Palette maps Vertex.Block back to block ids; entry 0 is air.
	Palette []string
}

type dirSpec struct {
	normal [3]float32
	u, v   int
	du, dv [3]int
}

var directions = []dirSpec{
	{[3]float32{1, 0, 0}, 1, 2, [3]int{0, 1, 0}, [3]int{0, 0, 1}},
	{[3]float32{-1, 0, 0}, 1, 2, [3]int{0, 1, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, 1, 0}, 0, 2, [3]int{1, 0, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, -1, 0}, 0, 2, [3]int{1, 0, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, 0, 1}, 0, 1, [3]int{1, 0, 0}, [3]int{0, 1, 0}},
	{[3]float32{0, 0, -1}, 0, 1, [3]int{1, 0, 0}, [3]int{0, 1, 0}},
}

type solidGrid struct {
	dims [3]int
	ids  []uint32
}

func (g *solidGrid) at(pos [3]int) uint32 {
	for i, d := range g.dims {
		if pos[i] < 0 || pos[i] >= d {
			return 0
		}
	}
	return g.ids[pos[0]+pos[2]*g.dims[0]+pos[1]*g.dims[0]*g.dims[2]]
}

func addQuad(mesh *Mesh, dir dirSpec, start [3]int, w, h int, block uint32, perp int) {
	base := [3]float32{}
	base[perp] = float32(start[0])
	if dir.normal[perp] > 0 {
		base[perp] += 1
	}
	base[dir.u] = float32(start[1])
	base[dir.v] = float32(start[2])

	var verts [4]Vertex
	for i, step := range [4][2]int{{0, 0}, {h, 0}, {h, w}, {0, w}} {
		p := base
		for k := 0; k < 3; k++ {
			p[k] += float32(dir.du[k]*step[0] + dir.dv[k]*step[1])
		}
		verts[i] = Vertex{Position: p, Block: block}
	}

	if (dir.normal[perp] < 0) != (perp == 1) {
		verts[1], verts[3] = verts[3], verts[1]
	}

	baseIdx := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices, verts[:]...)
	mesh.Indices = append(mesh.Indices, baseIdx, baseIdx+1, baseIdx+2, baseIdx, baseIdx+2, baseIdx+3)
}

// GenerateMesh builds a greedy mesh of s: coplanar exposed faces of the
// same block are merged into rectangles.
func GenerateMesh(s *Structure) *Mesh {
	ids, palette := s.dense()
	grid := &solidGrid{dims: [3]int{s.Width, s.Height, s.Length}, ids: ids}
	mesh := &Mesh{Palette: palette}
	dims := grid.dims

	for _, dir := range directions {
		perp := 3 - dir.u - dir.v

		for p := 0; p < dims[perp]; p++ {
			mask := make([][]uint32, dims[dir.u])
			visited := make([][]bool, dims[dir.u])
			for i := range mask {
				mask[i] = make([]uint32, dims[dir.v])
				visited[i] = make([]bool, dims[dir.v])
			}

			for u := 0; u < dims[dir.u]; u++ {
				for v := 0; v < dims[dir.v]; v++ {
					pos := [3]int{}
					pos[dir.u] = u
					pos[dir.v] = v
					pos[perp] = p

					block := grid.at(pos)
					if block == 0 {
						continue
					}
					adj := pos
					if dir.normal[perp] < 0 {
						adj[perp] = p - 1
					} else {
						adj[perp] = p + 1
					}
					if grid.at(adj) == 0 {
						mask[u][v] = block
					}
				}
			}

			for u := 0; u < dims[dir.u]; u++ {
				for v := 0; v < dims[dir.v]; {
					if mask[u][v] == 0 || visited[u][v] {
						v++
						continue
					}
					block := mask[u][v]
					width := 1
					for w := v + 1; w < dims[dir.v] && mask[u][w] == block && !visited[u][w]; w++ {
						width++
					}
					height := 1
					stop := false
					for h := u + 1; h < dims[dir.u] && !stop; h++ {
						for w := v; w < v+width; w++ {
							if mask[h][w] != block || visited[h][w] {
								stop = true
								break
							}
						}
						if !stop {
							height++
						}
					}
					for hu := u; hu < u+height; hu++ {
						for hv := v; hv < v+width; hv++ {
							visited[hu][hv] = true
						}
					}
					addQuad(mesh, dir, [3]int{p, u, v}, width, height, block, perp)
					v += width
				}
			}
		}
	}
	return mesh
}
