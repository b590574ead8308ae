package geometry

import (
	"context"

	ports "cad-pipeline-service/internal/core/ports/output"
)

// AssembleWall tiles a WallWidth x WallHeight grid with brick tiles, then
// subtracts the configured rectangular cutouts (door and window openings).
func AssembleWall(ctx context.Context, kernel ports.GeometryKernel, spec WallSpec) (ports.Solid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	tileLength, tileHeight := spec.Tile.footprint()

	var wall ports.Solid
	for row := 0; row < spec.WallHeight; row++ {
		for col := 0; col < spec.WallWidth; col++ {
			tile, err := AssembleBrickTile(ctx, kernel, spec.Tile)
			if err != nil {
				return nil, err
			}
			placed, err := kernel.Translate(ctx, tile, float64(col)*tileLength, 0, float64(row)*tileHeight)
			if err != nil {
				return nil, err
			}
			if wall == nil {
				wall = placed
			} else if wall, err = kernel.Union(ctx, wall, placed); err != nil {
				return nil, err
			}
		}
	}

	for _, c := range spec.Cutouts {
		tool, err := kernel.Box(ctx, c.Width, c.Depth, c.Height)
		if err != nil {
			return nil, err
		}
		tool, err = kernel.Translate(ctx, tool, c.X, 0, c.Z)
		if err != nil {
			return nil, err
		}
		if wall, err = kernel.Cut(ctx, wall, tool); err != nil {
			return nil, err
		}
	}
	return wall, nil
}
