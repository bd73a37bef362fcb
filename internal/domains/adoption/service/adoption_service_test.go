package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoption-center-backend/internal/domains/adoption/model"
	"adoption-center-backend/pkg/retry"
)

// ========================================
// FAKE REPOSITORY
// ========================================

type fakeRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]model.Request

	snapshots chan []model.Request
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		requests:  make(map[uuid.UUID]model.Request),
		snapshots: make(chan []model.Request, 4),
	}
}

func (f *fakeRepo) Create(_ context.Context, r *model.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	r.CreatedAt = time.Now()
	f.requests[r.ID] = *r
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.requests[id]
	if !ok {
		return nil, model.ErrRequestNotFound
	}
	return &r, nil
}

func (f *fakeRepo) sorted(filter func(model.Request) bool) []model.Request {
	out := make([]model.Request, 0)
	for _, r := range f.requests {
		if filter(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeRepo) List(_ context.Context) ([]model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(model.Request) bool { return true }), nil
}

func (f *fakeRepo) ListPending(_ context.Context) ([]model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(r model.Request) bool { return r.IsPending() }), nil
}

func (f *fakeRepo) Approve(_ context.Context, id uuid.UUID) (*model.Request, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.requests[id]
	if !ok {
		return nil, false, model.ErrRequestNotFound
	}
	if r.Status == model.StatusApproved {
		return &r, false, nil
	}

	// Guard: một animal chỉ có một approval
	for _, other := range f.requests {
		if other.AnimalID == r.AnimalID && other.Status == model.StatusApproved {
			return &r, false, model.ErrAnimalAdopted
		}
	}

	r.Status = model.StatusApproved
	f.requests[id] = r
	return &r, true, nil
}

func (f *fakeRepo) Subscribe(_ context.Context) (<-chan []model.Request, error) {
	return f.snapshots, nil
}

// ========================================
// HELPERS
// ========================================

func newTestService(repo *fakeRepo) Service {
	return NewAdoptionService(repo, nil, retry.Policy{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	})
}

func validSubmit(animalID uuid.UUID) model.SubmitRequestRequest {
	return model.SubmitRequestRequest{
		AnimalID: animalID.String(),
		FullName: "Nguyen Van A",
		Address:  "123 Tran Hung Dao, Da Nang",
		Notes:    "Has a garden",
	}
}

// ========================================
// SUBMIT
// ========================================

func TestSubmitCreatesPendingRequestWithNameSnapshot(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	animalID := uuid.New()

	request, err := svc.Submit(context.Background(), validSubmit(animalID), animalID, "Max")
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, request.Status)
	assert.Equal(t, "Max", request.AnimalName)
	assert.Equal(t, animalID, request.AnimalID)
	assert.False(t, request.CreatedAt.IsZero())
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())
	animalID := uuid.New()

	cases := []struct {
		name   string
		mutate func(*model.SubmitRequestRequest)
	}{
		{"missing animal id", func(r *model.SubmitRequestRequest) { r.AnimalID = "" }},
		{"malformed animal id", func(r *model.SubmitRequestRequest) { r.AnimalID = "not-a-uuid" }},
		{"missing full name", func(r *model.SubmitRequestRequest) { r.FullName = "" }},
		{"missing address", func(r *model.SubmitRequestRequest) { r.Address = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validSubmit(animalID)
			tc.mutate(&req)

			_, err := svc.Submit(context.Background(), req, animalID, "Max")
			assert.ErrorIs(t, err, model.ErrValidationFailed)
		})
	}
}

// ========================================
// LISTING
// ========================================

func TestListOrdersNewestFirst(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	animalID := uuid.New()

	first, err := svc.Submit(context.Background(), validSubmit(animalID), animalID, "Max")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.Submit(context.Background(), validSubmit(animalID), animalID, "Max")
	require.NoError(t, err)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestListPendingFiltersApproved(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	a1, a2 := uuid.New(), uuid.New()
	r1, err := svc.Submit(context.Background(), validSubmit(a1), a1, "Max")
	require.NoError(t, err)
	r2, err := svc.Submit(context.Background(), validSubmit(a2), a2, "Luna")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), r1.ID)
	require.NoError(t, err)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, r2.ID, pending[0].ID)
}

func TestListPendingUsesProjectionSnapshot(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Start(ctx)

	repo.snapshots <- []model.Request{
		{ID: uuid.New(), Status: model.StatusPending, AnimalName: "Max"},
		{ID: uuid.New(), Status: model.StatusApproved, AnimalName: "Luna"},
	}

	require.Eventually(t, func() bool {
		pending, err := svc.ListPending(context.Background())
		return err == nil && len(pending) == 1 && pending[0].AnimalName == "Max"
	}, 2*time.Second, 10*time.Millisecond)
}

// ========================================
// APPROVE
// ========================================

func TestApproveFlipsPendingToApproved(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	animalID := uuid.New()

	request, err := svc.Submit(context.Background(), validSubmit(animalID), animalID, "Max")
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)
}

func TestApproveTwiceIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	animalID := uuid.New()

	request, err := svc.Submit(context.Background(), validSubmit(animalID), animalID, "Max")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), request.ID)
	require.NoError(t, err)

	// Lần hai: vẫn success, status không đổi
	again, err := svc.Approve(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, again.Status)
}

func TestApproveMissingRequestFails(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Approve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrRequestNotFound)
}

func TestApproveSecondRequestForSameAnimalIsRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	animalID := uuid.New()

	r1, err := svc.Submit(context.Background(), validSubmit(animalID), animalID, "Max")
	require.NoError(t, err)
	r2, err := svc.Submit(context.Background(), validSubmit(animalID), animalID, "Max")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), r1.ID)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), r2.ID)
	assert.ErrorIs(t, err, model.ErrAnimalAdopted)
}
