package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cad-pipeline-service/internal/core/domain"
	ports "cad-pipeline-service/internal/core/ports/output"
)

// FakeSolid carries a structural description of everything that built it, so
// identical geometry always exports to identical bytes and different
// geometry to different bytes.
type FakeSolid struct {
	Desc string
}

type BoxCall struct {
	Length, Width, Height float64
}

type TranslateCall struct {
	From    string
	X, Y, Z float64
}

// FakeKernel is an in-memory geometry kernel for tests. It records every
// call and produces deterministic export bytes from the solid's structure.
type FakeKernel struct {
	mu         sync.Mutex
	Boxes      []BoxCall
	Translates []TranslateCall
	Unions     int
	Cuts       int

	ExportCalls int
	// FailExport injects a kernel failure for the given format.
	FailExport map[domain.Format]error
}

func NewFakeKernel() *FakeKernel {
	return &FakeKernel{}
}

var _ ports.GeometryKernel = (*FakeKernel)(nil)

func (k *FakeKernel) Box(_ context.Context, length, width, height float64) (ports.Solid, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.Boxes = append(k.Boxes, BoxCall{Length: length, Width: width, Height: height})
	return &FakeSolid{Desc: fmt.Sprintf("box(%g,%g,%g)", length, width, height)}, nil
}

func (k *FakeKernel) Chamfer(_ context.Context, solid ports.Solid, distance float64) (ports.Solid, error) {
	s := solid.(*FakeSolid)
	return &FakeSolid{Desc: fmt.Sprintf("chamfer(%g|%s)", distance, s.Desc)}, nil
}

func (k *FakeKernel) Translate(_ context.Context, solid ports.Solid, x, y, z float64) (ports.Solid, error) {
	s := solid.(*FakeSolid)
	k.mu.Lock()
	defer k.mu.Unlock()
	k.Translates = append(k.Translates, TranslateCall{From: s.Desc, X: x, Y: y, Z: z})
	return &FakeSolid{Desc: fmt.Sprintf("translate(%g,%g,%g|%s)", x, y, z, s.Desc)}, nil
}

func (k *FakeKernel) Union(_ context.Context, a, b ports.Solid) (ports.Solid, error) {
	sa, sb := a.(*FakeSolid), b.(*FakeSolid)
	k.mu.Lock()
	k.Unions++
	k.mu.Unlock()
	return &FakeSolid{Desc: fmt.Sprintf("union(%s|%s)", sa.Desc, sb.Desc)}, nil
}

func (k *FakeKernel) Cut(_ context.Context, base, tool ports.Solid) (ports.Solid, error) {
	sb, st := base.(*FakeSolid), tool.(*FakeSolid)
	k.mu.Lock()
	k.Cuts++
	k.mu.Unlock()
	return &FakeSolid{Desc: fmt.Sprintf("cut(%s|%s)", sb.Desc, st.Desc)}, nil
}

func (k *FakeKernel) Export(_ context.Context, solid ports.Solid, format domain.Format) ([]byte, error) {
	k.mu.Lock()
	k.ExportCalls++
	failErr := k.FailExport[format]
	k.mu.Unlock()
	if failErr != nil {
		return nil, failErr
	}
	s := solid.(*FakeSolid)
	return []byte(string(format) + ":" + s.Desc), nil
}

// PlacementTranslates returns the translate calls that positioned a brick in
// its row, excluding the brick-internal centering translate (whose operand is
// the bare chamfered box) and tile-level grid moves.
func (k *FakeKernel) PlacementTranslates() []TranslateCall {
	k.mu.Lock()
	defer k.mu.Unlock()
	placements := []TranslateCall{}
	for _, t := range k.Translates {
		if strings.HasPrefix(t.From, "translate(") {
			placements = append(placements, t)
		}
	}
	return placements
}
