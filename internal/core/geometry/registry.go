package geometry

import (
	"context"

	"cad-pipeline-service/internal/core/domain"
	ports "cad-pipeline-service/internal/core/ports/output"
)

// Assembler turns an assembly's parameter bag into a solid.
type Assembler func(ctx context.Context, kernel ports.GeometryKernel, params domain.Parameters) (ports.Solid, error)

// Validator checks a parameter bag without touching the kernel, so malformed
// input is rejected at create/update time and never reaches geometry code.
type Validator func(params domain.Parameters) error

type entry struct {
	validate Validator
	assemble Assembler // nil when no generator exists for the kind yet
}

// registry maps each assembly kind to its validator and assembler. It is
// fixed at compile time; kinds without an assembler accept parameters but
// fail export with ErrUnsupportedKind.
var registry = map[domain.Kind]entry{
	domain.KindBrick: {
		validate: func(p domain.Parameters) error {
			_, err := ParseBrickSpec(p)
			return err
		},
		assemble: func(ctx context.Context, k ports.GeometryKernel, p domain.Parameters) (ports.Solid, error) {
			spec, err := ParseBrickSpec(p)
			if err != nil {
				return nil, err
			}
			return AssembleBrick(ctx, k, spec)
		},
	},
	domain.KindBrickTile: {
		validate: func(p domain.Parameters) error {
			_, err := ParseTileSpec(p)
			return err
		},
		assemble: func(ctx context.Context, k ports.GeometryKernel, p domain.Parameters) (ports.Solid, error) {
			spec, err := ParseTileSpec(p)
			if err != nil {
				return nil, err
			}
			return AssembleBrickTile(ctx, k, spec)
		},
	},
	domain.KindWall: {
		validate: func(p domain.Parameters) error {
			_, err := ParseWallSpec(p)
			return err
		},
		assemble: func(ctx context.Context, k ports.GeometryKernel, p domain.Parameters) (ports.Solid, error) {
			spec, err := ParseWallSpec(p)
			if err != nil {
				return nil, err
			}
			return AssembleWall(ctx, k, spec)
		},
	},
	// Structural kinds without a generator. Parameters are stored as-is.
	domain.KindBuilding: {validate: acceptParams},
	domain.KindDoor:     {validate: acceptParams},
	domain.KindRoof:     {validate: acceptParams},
	domain.KindTrack:    {validate: acceptParams},
	domain.KindFence:    {validate: acceptParams},
}

func acceptParams(domain.Parameters) error { return nil }

// ValidateParameters runs the kind's validator against a parameter bag.
func ValidateParameters(kind domain.Kind, params domain.Parameters) error {
	e, ok := registry[kind]
	if !ok {
		return domain.ErrInvalidKind
	}
	return e.validate(params)
}

// Build resolves the kind's assembler and runs it.
func Build(ctx context.Context, kernel ports.GeometryKernel, kind domain.Kind, params domain.Parameters) (ports.Solid, error) {
	e, ok := registry[kind]
	if !ok || e.assemble == nil {
		return nil, domain.ErrUnsupportedKind
	}
	return e.assemble(ctx, kernel, params)
}
