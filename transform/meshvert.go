package transform

import (
	"fmt"

	"github.com/shapefit/shapefit/errs"
	"github.com/shapefit/shapefit/geom"
	"github.com/shapefit/shapefit/pipeline"
)

// MeshVertices extracts the vertex positions from each mesh in a collection,
// discarding connectivity on the forward pass. Fitting captures reference
// connectivity (the faces of the first training mesh) so the inverse pass can
// rebuild meshes from bare vertex arrays.
type MeshVertices struct{}

var _ pipeline.Step = (*MeshVertices)(nil)

// NewMeshVertices creates the mesh-to-vertices step.
func NewMeshVertices() *MeshVertices {
	return &MeshVertices{}
}

// Fit captures the reference connectivity from the first mesh of the
// training collection.
func (s *MeshVertices) Fit(data any) (pipeline.FittedStep, error) {
	meshes, ok := data.([]geom.Mesh)
	if !ok {
		return nil, fmt.Errorf("%w: want []geom.Mesh, got %T", errs.ErrShapeMismatch, data)
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("%w: no meshes to fit on", errs.ErrEmptyInput)
	}
	if meshes[0].NumVertices() == 0 {
		return nil, fmt.Errorf("%w: reference mesh has no vertices", errs.ErrEmptyInput)
	}

	faces := make([]geom.Triangle, len(meshes[0].Faces))
	copy(faces, meshes[0].Faces)

	return &FittedMeshVertices{Faces: faces, VertexCount: meshes[0].NumVertices()}, nil
}

// FittedMeshVertices holds the reference connectivity captured at fit time.
// A zero value has no reference and its Inverse fails.
type FittedMeshVertices struct {
	Faces       []geom.Triangle
	VertexCount int
}

var (
	_ pipeline.FittedStep = (*FittedMeshVertices)(nil)
	_ pipeline.Inverter   = (*FittedMeshVertices)(nil)
)

// Transform extracts a vertex cloud per mesh. The input meshes are not
// modified; each output cloud is a copy.
func (f *FittedMeshVertices) Transform(data any) (any, error) {
	meshes, ok := data.([]geom.Mesh)
	if !ok {
		return nil, fmt.Errorf("%w: want []geom.Mesh, got %T", errs.ErrShapeMismatch, data)
	}

	clouds := make([]geom.PointCloud, len(meshes))
	for i, m := range meshes {
		clouds[i] = m.Vertices.Clone()
	}

	return clouds, nil
}

// Inverse rebuilds meshes from vertex clouds by re-attaching the reference
// connectivity captured at fit time. It fails with errs.ErrNoReference when
// no forward/fit pass captured connectivity on this state.
func (f *FittedMeshVertices) Inverse(data any) (any, error) {
	if f.VertexCount == 0 {
		return nil, fmt.Errorf("%w: mesh connectivity was never captured", errs.ErrNoReference)
	}

	clouds, ok := data.([]geom.PointCloud)
	if !ok {
		return nil, fmt.Errorf("%w: want []geom.PointCloud, got %T", errs.ErrShapeMismatch, data)
	}

	meshes := make([]geom.Mesh, len(clouds))
	for i, c := range clouds {
		faces := make([]geom.Triangle, len(f.Faces))
		copy(faces, f.Faces)
		meshes[i] = geom.Mesh{Vertices: c.Clone(), Faces: faces}
	}

	return meshes, nil
}
