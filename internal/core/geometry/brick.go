package geometry

import (
	"context"

	ports "cad-pipeline-service/internal/core/ports/output"
)

// buildBrick produces a chamfered box aligned to the positive octant so that
// placement code can treat (0,0,0) as the brick's lower front-left corner.
func buildBrick(ctx context.Context, kernel ports.GeometryKernel, length, width, height, chamfer float64) (ports.Solid, error) {
	brick, err := kernel.Box(ctx, length, width, height)
	if err != nil {
		return nil, err
	}
	brick, err = kernel.Chamfer(ctx, brick, chamfer)
	if err != nil {
		return nil, err
	}
	return kernel.Translate(ctx, brick, length/2, width/2, height/2)
}

// AssembleBrick generates a single full brick.
func AssembleBrick(ctx context.Context, kernel ports.GeometryKernel, spec BrickSpec) (ports.Solid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return buildBrick(ctx, kernel, spec.Length, spec.Width, spec.Height, spec.MortarChamfer)
}
