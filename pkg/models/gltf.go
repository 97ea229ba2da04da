package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Options
	CalculateNormals bool
	SmoothNormals    bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a binary GLTF (.glb) or a .gltf file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load opens path and converts every triangle primitive it holds.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.Convert(doc, filepath.Base(path))
}

// Convert flattens the triangle primitives of doc into a mesh. Each
// primitive is colored by the base color factor of its material.
func (l *GLTFLoader) Convert(doc *gltf.Document, name string) (*Mesh, error) {
	var vertices []render.Vertex
	for _, m := range doc.Meshes {
		var err error
		if vertices, err = l.processMesh(doc, m, vertices); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh := NewMesh(name, vertices)
	if l.CalculateNormals && !mesh.HasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}
	render.Logger().Debug("gltf mesh loaded", "name", name, "triangles", mesh.TriangleCount())
	return mesh, nil
}

// processMesh appends the triangles of m to out.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, out []render.Vertex) ([]render.Vertex, error) {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx, modeler.ReadPosition)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readVec3Accessor(doc, normIdx, modeler.ReadNormal); err != nil {
				return nil, fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readTexCoords(doc, uvIdx); err != nil {
				return nil, fmt.Errorf("read uvs: %w", err)
			}
		}

		color := primitiveMaterial(doc, prim).Color()
		vertex := func(i int) (render.Vertex, error) {
			if i < 0 || i >= len(positions) {
				return render.Vertex{}, fmt.Errorf("index %d out of range [0, %d)", i, len(positions))
			}
			v := render.Vertex{Position: positions[i], Color: color}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(uvs) {
				// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
				v.UV = math3d.V2(uvs[i].X, 1.0-uvs[i].Y)
			}
			return v, nil
		}

		// No indices means sequential triangles.
		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return nil, fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			for _, idx := range indices[i : i+3] {
				v, err := vertex(idx)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
		}
	}
	return out, nil
}

// primitiveMaterial returns the material of prim, or DefaultMaterial.
func primitiveMaterial(doc *gltf.Document, prim *gltf.Primitive) Material {
	if prim.Material == nil || *prim.Material < 0 || *prim.Material >= len(doc.Materials) {
		return DefaultMaterial
	}
	gm := doc.Materials[*prim.Material]
	mat := Material{Name: gm.Name, BaseColor: DefaultMaterial.BaseColor}
	if pbr := gm.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		mat.BaseColor = *pbr.BaseColorFactor
	}
	return mat
}

// readVec3Accessor reads a float VEC3 accessor through modeler, which
// handles byte strides, sparse data and accessors without a buffer view.
func readVec3Accessor(doc *gltf.Document, accessorIdx int, read func(*gltf.Document, *gltf.Accessor, [][3]float32) ([][3]float32, error)) ([]math3d.Vec3, error) {
	accessor, err := lookupAccessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	data, err := read(doc, accessor, nil)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec3, len(data))
	for i, v := range data {
		result[i] = math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
	}
	return result, nil
}

// readTexCoords reads a VEC2 accessor; normalized integer coordinates are
// converted to [0, 1].
func readTexCoords(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor, err := lookupAccessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadTextureCoord(doc, accessor, nil)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec2, len(data))
	for i, v := range data {
		result[i] = math3d.V2(float64(v[0]), float64(v[1]))
	}
	return result, nil
}

// readIndices reads an unsigned scalar index accessor of any width.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor, err := lookupAccessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadIndices(doc, accessor, nil)
	if err != nil {
		return nil, err
	}
	result := make([]int, len(data))
	for i, idx := range data {
		result[i] = int(idx)
	}
	return result, nil
}

// lookupAccessor returns accessor idx after checking the references modeler
// slices without bounds checks.
func lookupAccessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	accessor := doc.Accessors[idx]
	if accessor.BufferView != nil {
		bv := *accessor.BufferView
		if bv < 0 || bv >= len(doc.BufferViews) {
			return nil, fmt.Errorf("accessor %d: buffer view %d out of range", idx, bv)
		}
		if view := doc.BufferViews[bv]; accessor.ByteOffset > view.ByteLength {
			return nil, fmt.Errorf("accessor %d: offset %d past buffer view of %d bytes", idx, accessor.ByteOffset, view.ByteLength)
		}
	}
	return accessor, nil
}
