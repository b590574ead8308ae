package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cad-pipeline-service/internal/core/domain"
	ports "cad-pipeline-service/internal/core/ports/output"
	"cad-pipeline-service/internal/testutil"
)

func brickParams() domain.Parameters {
	return domain.Parameters{
		"brick_length":   float64(215),
		"brick_width":    102.5,
		"brick_height":   float64(65),
		"mortar_chamfer": float64(10),
	}
}

func storedAssembly(id int64) *domain.Assembly {
	now := time.Now().UTC()
	return &domain.Assembly{
		ID:         id,
		Name:       "brick-a",
		Kind:       domain.KindBrick,
		Parameters: brickParams(),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestAssemblyCreate(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	cache := testutil.NewStubCache()
	svc := NewAssemblyService(repo, cache, time.Hour)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Assembly")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Assembly).ID = 7
		}).
		Return(nil)

	assembly, err := svc.Create(context.Background(), "brick-a", domain.KindBrick, nil, brickParams())
	require.NoError(t, err)

	assert.Equal(t, int64(7), assembly.ID)
	assert.Equal(t, 1, assembly.Version)
	assert.True(t, cache.Has("assembly:7"))
	repo.AssertExpectations(t)
}

func TestAssemblyCreate_NameConflict(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	svc := NewAssemblyService(repo, testutil.NewStubCache(), time.Hour)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrNameConflict)

	_, err := svc.Create(context.Background(), "brick-a", domain.KindBrick, nil, brickParams())
	assert.ErrorIs(t, err, domain.ErrNameConflict)
}

func TestAssemblyCreate_Validation(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	svc := NewAssemblyService(repo, testutil.NewStubCache(), time.Hour)

	_, err := svc.Create(context.Background(), "", domain.KindBrick, nil, brickParams())
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(context.Background(), "x", domain.Kind("gazebo"), nil, brickParams())
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	_, err = svc.Create(context.Background(), "x", domain.KindBrick, nil, domain.Parameters{"brick_length": float64(215)})
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)

	// Invalid input never reaches the repository.
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssemblyCreate_ParentMissing(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	svc := NewAssemblyService(repo, testutil.NewStubCache(), time.Hour)

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrAssemblyNotFound)

	parent := int64(99)
	_, err := svc.Create(context.Background(), "child", domain.KindBrick, &parent, brickParams())
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssemblyGet_CacheMissThenHit(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	cache := testutil.NewStubCache()
	svc := NewAssemblyService(repo, cache, time.Hour)

	stored := storedAssembly(3)
	repo.On("GetByID", mock.Anything, int64(3)).Return(stored, nil).Once()

	got, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, stored.Name, got.Name)
	assert.True(t, cache.Has("assembly:3"))

	// Second read is served from the cache; the single-use repo
	// expectation would fail otherwise.
	again, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, stored.Version, again.Version)
	repo.AssertExpectations(t)
}

func TestAssemblyGet_NotFound(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	svc := NewAssemblyService(repo, testutil.NewStubCache(), time.Hour)

	repo.On("GetByID", mock.Anything, int64(42)).Return(nil, domain.ErrAssemblyNotFound)

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrAssemblyNotFound)
}

func TestAssemblyList_RejectsUnknownKindFilter(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	svc := NewAssemblyService(repo, testutil.NewStubCache(), time.Hour)

	_, err := svc.List(context.Background(), ports.ListFilter{Kind: "gazebo"})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAssemblyUpdate_ParametersChangedBumpsVersion(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	cache := testutil.NewStubCache()
	svc := NewAssemblyService(repo, cache, time.Hour)

	repo.On("GetByID", mock.Anything, int64(3)).Return(storedAssembly(3), nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Assembly")).Return(nil)

	changed := brickParams()
	changed["brick_length"] = float64(230)

	updated, err := svc.Update(context.Background(), 3, map[string]interface{}{"parameters": domain.Parameters(changed)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	// Eviction happens before the repopulating write.
	require.Len(t, cache.Ops, 2)
	assert.Equal(t, "delete assembly:3", cache.Ops[0])
	assert.Equal(t, "set assembly:3", cache.Ops[1])
}

func TestAssemblyUpdate_EqualParametersKeepVersion(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	svc := NewAssemblyService(repo, testutil.NewStubCache(), time.Hour)

	repo.On("GetByID", mock.Anything, int64(3)).Return(storedAssembly(3), nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	// Same values, freshly built map.
	updated, err := svc.Update(context.Background(), 3, map[string]interface{}{"parameters": brickParams()})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)
}

func TestAssemblyUpdate_RenameOnlyKeepsVersion(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	svc := NewAssemblyService(repo, testutil.NewStubCache(), time.Hour)

	repo.On("GetByID", mock.Anything, int64(3)).Return(storedAssembly(3), nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.Update(context.Background(), 3, map[string]interface{}{"name": "brick-b"})
	require.NoError(t, err)
	assert.Equal(t, "brick-b", updated.Name)
	assert.Equal(t, 1, updated.Version)
}

func TestAssemblyUpdate_EvictionFailureAborts(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	cache := testutil.NewStubCache()
	cache.FailDelete = assert.AnError
	svc := NewAssemblyService(repo, cache, time.Hour)

	repo.On("GetByID", mock.Anything, int64(3)).Return(storedAssembly(3), nil)

	_, err := svc.Update(context.Background(), 3, map[string]interface{}{"name": "brick-b"})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAssemblySoftDelete(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	cache := testutil.NewStubCache()
	svc := NewAssemblyService(repo, cache, time.Hour)

	cache.Set(context.Background(), "assembly:3", []byte("{}"), time.Hour)
	repo.On("SoftDelete", mock.Anything, int64(3)).Return(nil)

	require.NoError(t, svc.SoftDelete(context.Background(), 3))
	assert.False(t, cache.Has("assembly:3"))
	repo.AssertExpectations(t)
}

func TestAssemblySoftDelete_AlreadyDeleted(t *testing.T) {
	repo := new(testutil.MockAssemblyRepo)
	svc := NewAssemblyService(repo, testutil.NewStubCache(), time.Hour)

	repo.On("SoftDelete", mock.Anything, int64(3)).Return(domain.ErrAlreadyDeleted)

	err := svc.SoftDelete(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrAlreadyDeleted)
}
