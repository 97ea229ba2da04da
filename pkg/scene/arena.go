package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/diorama/pkg/models"
)

// ErrUnknownMesh is returned for a MeshID or key the arena does not hold.
var ErrUnknownMesh = errors.New("unknown mesh")

// MeshID references a mesh stored in a MeshArena.
type MeshID int

// MeshArena owns the meshes of a scene. Objects refer to meshes by MeshID so
// any number of them can share one read-only vertex array, and a mesh can be
// swapped between frames without touching the objects.
type MeshArena struct {
	meshes []*models.Mesh
	byKey  map[string]MeshID
}

// NewMeshArena creates an empty arena.
func NewMeshArena() *MeshArena {
	return &MeshArena{byKey: make(map[string]MeshID)}
}

// Add stores m under key and returns its id. Adding an existing key
// replaces that mesh and returns the same id.
func (a *MeshArena) Add(key string, m *models.Mesh) MeshID {
	if id, ok := a.byKey[key]; ok {
		a.meshes[id] = m
		return id
	}
	id := MeshID(len(a.meshes))
	a.meshes = append(a.meshes, m)
	a.byKey[key] = id
	return id
}

// Get returns the mesh for id, or nil.
func (a *MeshArena) Get(id MeshID) *models.Mesh {
	if id < 0 || int(id) >= len(a.meshes) {
		return nil
	}
	return a.meshes[id]
}

// Lookup returns the id stored under key.
func (a *MeshArena) Lookup(key string) (MeshID, bool) {
	id, ok := a.byKey[key]
	return id, ok
}

// Replace swaps the mesh stored under key.
func (a *MeshArena) Replace(key string, m *models.Mesh) error {
	id, ok := a.byKey[key]
	if !ok {
		return fmt.Errorf("replace mesh %q: %w", key, ErrUnknownMesh)
	}
	a.meshes[id] = m
	return nil
}

// Len returns the number of meshes.
func (a *MeshArena) Len() int {
	return len(a.meshes)
}
