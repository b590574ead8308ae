package domain

import "time"

type Format string

const (
	FormatSTEP Format = "step"
	FormatSTL  Format = "stl"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSTEP, FormatSTL:
		return Format(s), nil
	default:
		return "", ErrInvalidFormat
	}
}

// ExportedArtifact is a cached rendering of an assembly's geometry in one
// output format. At most one artifact exists per (assembly, format) pair;
// re-export overwrites it. AssemblyVersion records the assembly version the
// bytes were generated from, so a stale artifact is detectable without
// touching the geometry kernel.
type ExportedArtifact struct {
	ID              int64     `json:"id"`
	AssemblyID      int64     `json:"assembly_id"`
	Format          Format    `json:"format"`
	Data            []byte    `json:"data"`
	AssemblyVersion int       `json:"assembly_version"`
	GeneratedAt     time.Time `json:"generated_at"`
}
