package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cad-pipeline-service/internal/core/domain"
	"cad-pipeline-service/internal/testutil"
)

type exportFixture struct {
	assemblies *testutil.MockAssemblyRepo
	artifacts  *testutil.MockArtifactRepo
	cache      *testutil.StubCache
	kernel     *testutil.FakeKernel
	svc        *ExportService
}

func newExportFixture() *exportFixture {
	f := &exportFixture{
		assemblies: new(testutil.MockAssemblyRepo),
		artifacts:  new(testutil.MockArtifactRepo),
		cache:      testutil.NewStubCache(),
		kernel:     testutil.NewFakeKernel(),
	}
	f.svc = NewExportService(f.assemblies, f.artifacts, f.cache, f.kernel, time.Hour)
	return f
}

func TestExport_BuildsAndStoresArtifact(t *testing.T) {
	f := newExportFixture()
	f.assemblies.On("GetByID", mock.Anything, int64(3)).Return(storedAssembly(3), nil)
	f.artifacts.On("GetByAssemblyAndFormat", mock.Anything, int64(3), domain.FormatSTEP).
		Return(nil, domain.ErrArtifactNotFound)
	f.artifacts.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.ExportedArtifact")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.ExportedArtifact).ID = 11
		}).
		Return(nil)

	results, err := f.svc.GetOrBuild(context.Background(), 3, []domain.Format{domain.FormatSTEP})
	require.NoError(t, err)

	artifact := results[domain.FormatSTEP]
	require.NotNil(t, artifact)
	assert.Equal(t, int64(11), artifact.ID)
	assert.Equal(t, 1, artifact.AssemblyVersion)
	assert.NotEmpty(t, artifact.Data)
	assert.Equal(t, 1, f.kernel.ExportCalls)
	assert.True(t, f.cache.Has("export:3:v1:step"))
}

func TestExport_SecondCallServedFromCache(t *testing.T) {
	f := newExportFixture()
	f.assemblies.On("GetByID", mock.Anything, int64(3)).Return(storedAssembly(3), nil)
	f.artifacts.On("GetByAssemblyAndFormat", mock.Anything, int64(3), domain.FormatSTEP).
		Return(nil, domain.ErrArtifactNotFound).Once()
	f.artifacts.On("Upsert", mock.Anything, mock.Anything).Return(nil).Once()

	first, err := f.svc.GetOrBuild(context.Background(), 3, []domain.Format{domain.FormatSTEP})
	require.NoError(t, err)

	second, err := f.svc.GetOrBuild(context.Background(), 3, []domain.Format{domain.FormatSTEP})
	require.NoError(t, err)

	// Identical bytes, no second kernel export, no second repo lookup.
	assert.Equal(t, first[domain.FormatSTEP].Data, second[domain.FormatSTEP].Data)
	assert.Equal(t, 1, f.kernel.ExportCalls)
	f.artifacts.AssertExpectations(t)
}

func TestExport_VersionBumpInvalidatesCache(t *testing.T) {
	f := newExportFixture()
	v1 := storedAssembly(3)
	f.assemblies.On("GetByID", mock.Anything, int64(3)).Return(v1, nil).Once()
	f.artifacts.On("GetByAssemblyAndFormat", mock.Anything, int64(3), domain.FormatSTEP).
		Return(nil, domain.ErrArtifactNotFound).Once()
	f.artifacts.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	first, err := f.svc.GetOrBuild(context.Background(), 3, []domain.Format{domain.FormatSTEP})
	require.NoError(t, err)

	// The assembly's parameters change and its version bumps to 2. The v1
	// cache entry and the stale artifact row are both skipped.
	v2 := storedAssembly(3)
	v2.Parameters["brick_length"] = float64(230)
	v2.Version = 2
	f.assemblies.On("GetByID", mock.Anything, int64(3)).Return(v2, nil)
	stale := &domain.ExportedArtifact{ID: 11, AssemblyID: 3, Format: domain.FormatSTEP, Data: first[domain.FormatSTEP].Data, AssemblyVersion: 1}
	f.artifacts.On("GetByAssemblyAndFormat", mock.Anything, int64(3), domain.FormatSTEP).
		Return(stale, nil)

	second, err := f.svc.GetOrBuild(context.Background(), 3, []domain.Format{domain.FormatSTEP})
	require.NoError(t, err)

	assert.NotEqual(t, first[domain.FormatSTEP].Data, second[domain.FormatSTEP].Data)
	assert.Equal(t, 2, second[domain.FormatSTEP].AssemblyVersion)
	assert.Equal(t, 2, f.kernel.ExportCalls)
	assert.True(t, f.cache.Has("export:3:v2:step"))
}

func TestExport_FreshArtifactRowSkipsKernel(t *testing.T) {
	f := newExportFixture()
	f.assemblies.On("GetByID", mock.Anything, int64(3)).Return(storedAssembly(3), nil)
	fresh := &domain.ExportedArtifact{ID: 11, AssemblyID: 3, Format: domain.FormatSTL, Data: []byte("stl-bytes"), AssemblyVersion: 1}
	f.artifacts.On("GetByAssemblyAndFormat", mock.Anything, int64(3), domain.FormatSTL).
		Return(fresh, nil)

	results, err := f.svc.GetOrBuild(context.Background(), 3, []domain.Format{domain.FormatSTL})
	require.NoError(t, err)

	assert.Equal(t, []byte("stl-bytes"), results[domain.FormatSTL].Data)
	assert.Equal(t, 0, f.kernel.ExportCalls)
	// The repository hit repopulates the cache.
	assert.True(t, f.cache.Has("export:3:v1:stl"))
}

func TestExport_MultiFormatBuildsSolidOnce(t *testing.T) {
	f := newExportFixture()
	f.assemblies.On("GetByID", mock.Anything, int64(3)).Return(storedAssembly(3), nil)
	f.artifacts.On("GetByAssemblyAndFormat", mock.Anything, int64(3), mock.Anything).
		Return(nil, domain.ErrArtifactNotFound)
	f.artifacts.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	results, err := f.svc.GetOrBuild(context.Background(), 3, []domain.Format{domain.FormatSTEP, domain.FormatSTL})
	require.NoError(t, err)

	require.Len(t, results, 2)
	// One brick built once: one box, two exports.
	assert.Len(t, f.kernel.Boxes, 1)
	assert.Equal(t, 2, f.kernel.ExportCalls)
}

func TestExport_KernelFailureAfterFirstFormat(t *testing.T) {
	f := newExportFixture()
	f.assemblies.On("GetByID", mock.Anything, int64(3)).Return(storedAssembly(3), nil)
	f.artifacts.On("GetByAssemblyAndFormat", mock.Anything, int64(3), mock.Anything).
		Return(nil, domain.ErrArtifactNotFound)
	f.artifacts.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.kernel.FailExport = map[domain.Format]error{domain.FormatSTL: assert.AnError}

	_, err := f.svc.GetOrBuild(context.Background(), 3, []domain.Format{domain.FormatSTEP, domain.FormatSTL})
	assert.ErrorIs(t, err, domain.ErrExportFailed)

	// The step artifact was committed before stl failed, and nothing was
	// cached for stl.
	f.artifacts.AssertNumberOfCalls(t, "Upsert", 1)
	assert.True(t, f.cache.Has("export:3:v1:step"))
	assert.False(t, f.cache.Has("export:3:v1:stl"))
}

func TestExport_UnsupportedKind(t *testing.T) {
	f := newExportFixture()
	roof := storedAssembly(3)
	roof.Kind = domain.KindRoof
	roof.Parameters = domain.Parameters{"pitch": float64(35)}
	f.assemblies.On("GetByID", mock.Anything, int64(3)).Return(roof, nil)
	f.artifacts.On("GetByAssemblyAndFormat", mock.Anything, int64(3), mock.Anything).
		Return(nil, domain.ErrArtifactNotFound)

	_, err := f.svc.GetOrBuild(context.Background(), 3, []domain.Format{domain.FormatSTEP})
	assert.ErrorIs(t, err, domain.ErrUnsupportedKind)
	assert.NotErrorIs(t, err, domain.ErrExportFailed)
}

func TestExport_UnknownFormat(t *testing.T) {
	f := newExportFixture()
	f.assemblies.On("GetByID", mock.Anything, int64(3)).Return(storedAssembly(3), nil)

	_, err := f.svc.GetOrBuild(context.Background(), 3, []domain.Format{domain.Format("obj")})
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestExport_AssemblyNotFound(t *testing.T) {
	f := newExportFixture()
	f.assemblies.On("GetByID", mock.Anything, int64(42)).Return(nil, domain.ErrAssemblyNotFound)

	_, err := f.svc.GetOrBuild(context.Background(), 42, []domain.Format{domain.FormatSTEP})
	assert.ErrorIs(t, err, domain.ErrAssemblyNotFound)
}

func TestGetArtifact(t *testing.T) {
	f := newExportFixture()
	stored := &domain.ExportedArtifact{ID: 11, AssemblyID: 3, Format: domain.FormatSTEP, Data: []byte("step-bytes")}
	f.artifacts.On("GetByID", mock.Anything, int64(11)).Return(stored, nil)
	f.artifacts.On("GetByID", mock.Anything, int64(12)).Return(nil, domain.ErrArtifactNotFound)

	artifact, err := f.svc.GetArtifact(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, []byte("step-bytes"), artifact.Data)

	_, err = f.svc.GetArtifact(context.Background(), 12)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}
