package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adoptionModel "adoption-center-backend/internal/domains/adoption/model"
	animalModel "adoption-center-backend/internal/domains/animal/model"
)

// ========================================
// FAKE CATALOG
// ========================================

type fakeCatalog struct {
	mu      sync.Mutex
	animals map[uuid.UUID]animalModel.Animal
	listErr error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{animals: make(map[uuid.UUID]animalModel.Animal)}
}

func (f *fakeCatalog) add(name string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.animals[id] = animalModel.Animal{ID: id, Name: name}
	return id
}

func (f *fakeCatalog) rename(id uuid.UUID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.animals[id]
	a.Name = name
	f.animals[id] = a
}

func (f *fakeCatalog) remove(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.animals, id)
}

func (f *fakeCatalog) Register(context.Context, animalModel.RegisterAnimalRequest, animalModel.PhotoRef) (*animalModel.Animal, error) {
	panic("not used by coordinator")
}

func (f *fakeCatalog) GetByID(_ context.Context, id uuid.UUID) (*animalModel.Animal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.animals[id]
	if !ok {
		return nil, animalModel.ErrAnimalNotFound
	}
	return &a, nil
}

func (f *fakeCatalog) List(_ context.Context) ([]animalModel.Animal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]animalModel.Animal, 0, len(f.animals))
	for _, a := range f.animals {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeCatalog) Delete(context.Context, uuid.UUID) error { return nil }
func (f *fakeCatalog) Start(context.Context)                   {}

// ========================================
// FAKE ADOPTIONS
// ========================================

type fakeAdoptions struct {
	mu       sync.Mutex
	requests map[uuid.UUID]adoptionModel.Request
}

func newFakeAdoptions() *fakeAdoptions {
	return &fakeAdoptions{requests: make(map[uuid.UUID]adoptionModel.Request)}
}

func (f *fakeAdoptions) Submit(_ context.Context, req adoptionModel.SubmitRequestRequest, animalID uuid.UUID, animalName string) (*adoptionModel.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := adoptionModel.Request{
		ID:         uuid.New(),
		AnimalID:   animalID,
		AnimalName: animalName,
		FullName:   req.FullName,
		Address:    req.Address,
		Notes:      req.Notes,
		Status:     adoptionModel.StatusPending,
		CreatedAt:  time.Now(),
	}
	f.requests[r.ID] = r
	return &r, nil
}

func (f *fakeAdoptions) GetByID(_ context.Context, id uuid.UUID) (*adoptionModel.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, adoptionModel.ErrRequestNotFound
	}
	return &r, nil
}

func (f *fakeAdoptions) List(_ context.Context) ([]adoptionModel.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]adoptionModel.Request, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeAdoptions) ListPending(_ context.Context) ([]adoptionModel.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]adoptionModel.Request, 0)
	for _, r := range f.requests {
		if r.IsPending() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAdoptions) Approve(_ context.Context, id uuid.UUID) (*adoptionModel.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, adoptionModel.ErrRequestNotFound
	}
	if r.Status != adoptionModel.StatusApproved {
		for _, other := range f.requests {
			if other.AnimalID == r.AnimalID && other.Status == adoptionModel.StatusApproved {
				return &r, adoptionModel.ErrAnimalAdopted
			}
		}
		r.Status = adoptionModel.StatusApproved
		f.requests[id] = r
	}
	return &r, nil
}

func (f *fakeAdoptions) Start(context.Context) {}

// ========================================
// HELPERS
// ========================================

func submitFor(animalID uuid.UUID) adoptionModel.SubmitRequestRequest {
	return adoptionModel.SubmitRequestRequest{
		AnimalID: animalID.String(),
		FullName: "Tran Thi B",
		Address:  "45 Le Loi, Hue",
	}
}

// ========================================
// TESTS
// ========================================

func TestRequestAdoptionSnapshotsCurrentName(t *testing.T) {
	catalog := newFakeCatalog()
	coord := NewCoordinator(catalog, newFakeAdoptions())
	animalID := catalog.add("Max")

	resp, err := coord.RequestAdoption(context.Background(), submitFor(animalID))
	require.NoError(t, err)

	assert.Equal(t, "Max", resp.AnimalName)
	assert.Equal(t, adoptionModel.StatusPending, resp.Status)
}

func TestRequestAdoptionForUnknownAnimalFails(t *testing.T) {
	coord := NewCoordinator(newFakeCatalog(), newFakeAdoptions())

	_, err := coord.RequestAdoption(context.Background(), submitFor(uuid.New()))
	assert.ErrorIs(t, err, animalModel.ErrAnimalNotFound)
}

func TestRequestAdoptionValidatesInput(t *testing.T) {
	catalog := newFakeCatalog()
	coord := NewCoordinator(catalog, newFakeAdoptions())
	animalID := catalog.add("Max")

	req := submitFor(animalID)
	req.FullName = ""

	_, err := coord.RequestAdoption(context.Background(), req)
	assert.ErrorIs(t, err, adoptionModel.ErrValidationFailed)
}

func TestListingShowsRenamedAnimal(t *testing.T) {
	catalog := newFakeCatalog()
	coord := NewCoordinator(catalog, newFakeAdoptions())
	animalID := catalog.add("Max")

	_, err := coord.RequestAdoption(context.Background(), submitFor(animalID))
	require.NoError(t, err)

	// Animal đổi tên sau khi request được submit
	catalog.rename(animalID, "Maximilian")

	requests, err := coord.ListRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "Maximilian", requests[0].AnimalName)
}

func TestListingFallsBackToSnapshotWhenAnimalDeleted(t *testing.T) {
	catalog := newFakeCatalog()
	coord := NewCoordinator(catalog, newFakeAdoptions())
	animalID := catalog.add("Max")

	_, err := coord.RequestAdoption(context.Background(), submitFor(animalID))
	require.NoError(t, err)

	catalog.remove(animalID)

	requests, err := coord.ListRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "Max", requests[0].AnimalName)
}

func TestListingSurvivesCatalogOutage(t *testing.T) {
	catalog := newFakeCatalog()
	coord := NewCoordinator(catalog, newFakeAdoptions())
	animalID := catalog.add("Max")

	_, err := coord.RequestAdoption(context.Background(), submitFor(animalID))
	require.NoError(t, err)

	catalog.listErr = assert.AnError

	requests, err := coord.ListRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "Max", requests[0].AnimalName)
}

func TestApproveRequestReturnsApprovedResponse(t *testing.T) {
	catalog := newFakeCatalog()
	coord := NewCoordinator(catalog, newFakeAdoptions())
	animalID := catalog.add("Max")

	resp, err := coord.RequestAdoption(context.Background(), submitFor(animalID))
	require.NoError(t, err)

	approved, err := coord.ApproveRequest(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, adoptionModel.StatusApproved, approved.Status)
	assert.Equal(t, "Max", approved.AnimalName)
}

func TestApproveSecondRequestForAdoptedAnimal(t *testing.T) {
	catalog := newFakeCatalog()
	coord := NewCoordinator(catalog, newFakeAdoptions())
	animalID := catalog.add("Max")

	r1, err := coord.RequestAdoption(context.Background(), submitFor(animalID))
	require.NoError(t, err)
	r2, err := coord.RequestAdoption(context.Background(), submitFor(animalID))
	require.NoError(t, err)

	_, err = coord.ApproveRequest(context.Background(), uuid.MustParse(r1.ID))
	require.NoError(t, err)

	_, err = coord.ApproveRequest(context.Background(), uuid.MustParse(r2.ID))
	assert.ErrorIs(t, err, adoptionModel.ErrAnimalAdopted)
}

func TestListPendingExcludesApproved(t *testing.T) {
	catalog := newFakeCatalog()
	coord := NewCoordinator(catalog, newFakeAdoptions())
	maxID := catalog.add("Max")
	lunaID := catalog.add("Luna")

	r1, err := coord.RequestAdoption(context.Background(), submitFor(maxID))
	require.NoError(t, err)
	_, err = coord.RequestAdoption(context.Background(), submitFor(lunaID))
	require.NoError(t, err)

	_, err = coord.ApproveRequest(context.Background(), uuid.MustParse(r1.ID))
	require.NoError(t, err)

	pending, err := coord.ListPendingRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Luna", pending[0].AnimalName)
}
