package geometry

import (
	"context"

	ports "cad-pipeline-service/internal/core/ports/output"
)

// flemishRowShift divides the brick length to obtain the leftward offset of
// odd rows in a flemish bond. length/1.5 lines the shifted row's half-brick
// centre up with the joint of the row below; the older length/2 variant left
// the joints stacked vertically.
const flemishRowShift = 1.5

// AssembleBrickTile places bricks row by row according to the bond pattern
// and unions them into a single solid. Flemish rows alternate full and half
// bricks and shift every odd row; stretcher and stack rows are full bricks
// with no shift.
func AssembleBrickTile(ctx context.Context, kernel ports.GeometryKernel, spec TileSpec) (ports.Solid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var tile ports.Solid
	for i := 0; i < spec.RowRepetition; i++ {
		x := 0.0
		if spec.Bond == BondFlemish && i%2 != 0 {
			x = -spec.Brick.Length / flemishRowShift
		}
		z := float64(i) * spec.Brick.Height

		for j := 0; j < spec.TileWidth; j++ {
			length := spec.Brick.Length
			if spec.Bond == BondFlemish && j%2 != 0 {
				length /= 2
			}

			brick, err := buildBrick(ctx, kernel, length, spec.Brick.Width, spec.Brick.Height, spec.Brick.MortarChamfer)
			if err != nil {
				return nil, err
			}
			placed, err := kernel.Translate(ctx, brick, x, 0, z)
			if err != nil {
				return nil, err
			}

			if tile == nil {
				tile = placed
			} else if tile, err = kernel.Union(ctx, tile, placed); err != nil {
				return nil, err
			}

			// Advance by the placed brick's own length.
			x += length
		}
	}
	return tile, nil
}

// footprint reports the x extent of the widest row and the total height of
// the tile, used to step the wall grid.
func (t TileSpec) footprint() (length, height float64) {
	for j := 0; j < t.TileWidth; j++ {
		if t.Bond == BondFlemish && j%2 != 0 {
			length += t.Brick.Length / 2
		} else {
			length += t.Brick.Length
		}
	}
	return length, float64(t.RowRepetition) * t.Brick.Height
}
