package ports

import (
	"context"

	"cad-pipeline-service/internal/core/domain"
)

// Solid is an opaque handle to a solid under construction. Handles are owned
// by the kernel adapter that produced them and must not be mixed between
// adapters.
type Solid interface{}

// GeometryKernel is the port to the external solid-modeling kernel. The
// kernel does all B-rep work; callers only compose primitives and ask for a
// serialized export.
type GeometryKernel interface {
	Box(ctx context.Context, length, width, height float64) (Solid, error)
	Chamfer(ctx context.Context, solid Solid, distance float64) (Solid, error)
	Translate(ctx context.Context, solid Solid, x, y, z float64) (Solid, error)
	Union(ctx context.Context, a, b Solid) (Solid, error)
	Cut(ctx context.Context, base, tool Solid) (Solid, error)
	Export(ctx context.Context, solid Solid, format domain.Format) ([]byte, error)
}
