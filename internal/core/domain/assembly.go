package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

type Kind string

const (
	KindBrick     Kind = "brick"
	KindBrickTile Kind = "brick_tile"
	KindWall      Kind = "wall"
	KindBuilding  Kind = "building"
	KindDoor      Kind = "door"
	KindRoof      Kind = "roof"
	KindTrack     Kind = "track"
	KindFence     Kind = "fence"
)

var kinds = map[Kind]bool{
	KindBrick:     true,
	KindBrickTile: true,
	KindWall:      true,
	KindBuilding:  true,
	KindDoor:      true,
	KindRoof:      true,
	KindTrack:     true,
	KindFence:     true,
}

func (k Kind) Valid() bool {
	return kinds[k]
}

// Parameters is the open JSON parameter bag of an assembly (dimensions, bond
// pattern, cutout list, ...). Per-kind structure is enforced by the geometry
// package's validators, not here.
type Parameters map[string]any

// Equal compares two parameter bags by value. Both sides are normalized
// through JSON encoding so that values decoded from the database and values
// decoded from a request body compare equal regardless of Go numeric type.
func (p Parameters) Equal(other Parameters) bool {
	a, err := json.Marshal(p)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

type Assembly struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Kind       Kind       `json:"kind"`
	ParentID   *int64     `json:"parent_id"`
	Parameters Parameters `json:"parameters"`
	Version    int        `json:"version"`
	IsDeleted  bool       `json:"is_deleted"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
