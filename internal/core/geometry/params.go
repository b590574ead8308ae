package geometry

import (
	"encoding/json"
	"fmt"

	"cad-pipeline-service/internal/core/domain"
)

type BondPattern string

const (
	BondFlemish   BondPattern = "flemish"
	BondStretcher BondPattern = "stretcher"
	BondStack     BondPattern = "stack"
)

type BrickSpec struct {
	Length        float64
	Width         float64
	Height        float64
	MortarChamfer float64
}

type TileSpec struct {
	Bond          BondPattern
	RowRepetition int
	TileWidth     int
	Brick         BrickSpec
}

type Cutout struct {
	X      float64
	Z      float64
	Width  float64
	Height float64
	Depth  float64
}

type WallSpec struct {
	Tile       TileSpec
	WallWidth  int
	WallHeight int
	Cutouts    []Cutout
}

func (b BrickSpec) Validate() error {
	if b.Length <= 0 || b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: brick dimensions must be positive", domain.ErrInvalidParameters)
	}
	if b.MortarChamfer <= 0 {
		return fmt.Errorf("%w: mortar_chamfer must be positive", domain.ErrInvalidParameters)
	}
	return nil
}

func (t TileSpec) Validate() error {
	switch t.Bond {
	case BondFlemish, BondStretcher, BondStack:
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedPattern, t.Bond)
	}
	if t.RowRepetition <= 0 {
		return fmt.Errorf("%w: row_repetition must be positive", domain.ErrInvalidParameters)
	}
	if t.TileWidth <= 0 {
		return fmt.Errorf("%w: tile_width must be positive", domain.ErrInvalidParameters)
	}
	return t.Brick.Validate()
}

func (w WallSpec) Validate() error {
	if w.WallWidth <= 0 || w.WallHeight <= 0 {
		return fmt.Errorf("%w: wall_width and wall_height must be positive", domain.ErrInvalidParameters)
	}
	for _, c := range w.Cutouts {
		if c.Width <= 0 || c.Height <= 0 || c.Depth <= 0 {
			return fmt.Errorf("%w: cutout dimensions must be positive", domain.ErrInvalidParameters)
		}
	}
	return w.Tile.Validate()
}

func ParseBrickSpec(p domain.Parameters) (BrickSpec, error) {
	var spec BrickSpec
	var err error
	if spec.Length, err = floatParam(p, "brick_length"); err != nil {
		return spec, err
	}
	if spec.Width, err = floatParam(p, "brick_width"); err != nil {
		return spec, err
	}
	if spec.Height, err = floatParam(p, "brick_height"); err != nil {
		return spec, err
	}
	if spec.MortarChamfer, err = floatParam(p, "mortar_chamfer"); err != nil {
		return spec, err
	}
	return spec, spec.Validate()
}

// ParseTileSpec reads a brick-tile parameter bag. bond_pattern, row_repetition
// and tile_width fall back to the seed defaults (flemish, 2 rows, 4 columns)
// when absent; brick dimensions are always required.
func ParseTileSpec(p domain.Parameters) (TileSpec, error) {
	var spec TileSpec
	var err error
	if spec.Bond, err = bondParam(p, "bond_pattern", BondFlemish); err != nil {
		return spec, err
	}
	if spec.RowRepetition, err = intParamDefault(p, "row_repetition", 2); err != nil {
		return spec, err
	}
	if spec.TileWidth, err = intParamDefault(p, "tile_width", 4); err != nil {
		return spec, err
	}
	if spec.Brick, err = ParseBrickSpec(p); err != nil {
		return spec, err
	}
	return spec, spec.Validate()
}

func ParseWallSpec(p domain.Parameters) (WallSpec, error) {
	var spec WallSpec
	var err error
	if spec.WallWidth, err = intParam(p, "wall_width"); err != nil {
		return spec, err
	}
	if spec.WallHeight, err = intParam(p, "wall_height"); err != nil {
		return spec, err
	}
	if spec.Cutouts, err = cutoutsParam(p, "cutouts"); err != nil {
		return spec, err
	}
	if spec.Tile, err = ParseTileSpec(p); err != nil {
		return spec, err
	}
	return spec, spec.Validate()
}

func floatParam(p domain.Parameters, key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidParameters, key)
	}
	return asFloat(v, key)
}

func intParam(p domain.Parameters, key string) (int, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidParameters, key)
	}
	return asInt(v, key)
}

func intParamDefault(p domain.Parameters, key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	return asInt(v, key)
}

func bondParam(p domain.Parameters, key string, def BondPattern) (BondPattern, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", domain.ErrInvalidParameters, key)
	}
	return BondPattern(s), nil
}

func cutoutsParam(p domain.Parameters, key string) ([]Cutout, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list", domain.ErrInvalidParameters, key)
	}
	cutouts := make([]Cutout, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: cutout %d must be an object", domain.ErrInvalidParameters, i)
		}
		c := Cutout{}
		var err error
		fields := []struct {
			dst *float64
			key string
		}{
			{&c.X, "x"}, {&c.Z, "z"},
			{&c.Width, "width"}, {&c.Height, "height"}, {&c.Depth, "depth"},
		}
		for _, f := range fields {
			fv, ok := m[f.key]
			if !ok {
				return nil, fmt.Errorf("%w: cutout %d is missing %s", domain.ErrInvalidParameters, i, f.key)
			}
			if *f.dst, err = asFloat(fv, f.key); err != nil {
				return nil, err
			}
		}
		cutouts = append(cutouts, c)
	}
	return cutouts, nil
}

// Parameter bags decoded from JSON carry float64 for every number, but values
// set programmatically may be Go ints. Accept both.
func asFloat(v any, key string) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidParameters, key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidParameters, key)
	}
}

func asInt(v any, key string) (int, error) {
	f, err := asFloat(v, key)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidParameters, key)
	}
	return int(f), nil
}
