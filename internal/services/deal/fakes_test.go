package deal

import (
	"context"
	"errors"
	"sort"

	apperrors "mcadesk/internal/errors"
	"mcadesk/internal/models"
	"mcadesk/internal/repositories"

	"github.com/stretchr/testify/mock"
)

var errStorage = errors.New("connection reset by peer")

// fakeDealRepo is an in-memory DealRepository whose transactions roll back
// every write when the callback fails.
type fakeDealRepo struct {
	deals     map[uint]models.Deal
	history   []models.StageHistory
	decisions []models.UnderwritingDecision
	nextID    uint

	failAppendHistory  bool
	failCreateDecision bool
	beforeUpdate       func(r *fakeDealRepo, id uint)
}

func newFakeDealRepo(deals ...models.Deal) *fakeDealRepo {
	r := &fakeDealRepo{deals: map[uint]models.Deal{}, nextID: 1}
	for _, d := range deals {
		r.deals[d.ID] = d
		if d.ID >= r.nextID {
			r.nextID = d.ID + 1
		}
	}
	return r
}

func (r *fakeDealRepo) Create(_ context.Context, deal *models.Deal) error {
	deal.ID = r.nextID
	r.nextID++
	r.deals[deal.ID] = *deal
	return nil
}

func (r *fakeDealRepo) GetByID(_ context.Context, id uint) (*models.Deal, error) {
	d, ok := r.deals[id]
	if !ok {
		return nil, apperrors.ErrDealNotFound
	}
	return &d, nil
}

func (r *fakeDealRepo) GetDetailed(ctx context.Context, id uint) (*models.Deal, error) {
	d, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.History, _ = r.History(ctx, id)
	return d, nil
}

func (r *fakeDealRepo) List(_ context.Context, filter repositories.DealFilter, offset, limit int) ([]models.Deal, int64, error) {
	var out []models.Deal
	for _, d := range r.deals {
		if filter.Stage != "" && d.Stage != filter.Stage {
			continue
		}
		if filter.MerchantID != 0 && d.MerchantID != filter.MerchantID {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if offset >= len(out) {
		return []models.Deal{}, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *fakeDealRepo) UpdateWithVersion(_ context.Context, deal *models.Deal, expectedVersion int) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate(r, deal.ID)
	}
	stored, ok := r.deals[deal.ID]
	if !ok {
		return apperrors.ErrDealNotFound
	}
	if stored.Version != expectedVersion {
		return apperrors.ErrConcurrentModification
	}
	r.deals[deal.ID] = *deal
	return nil
}

func (r *fakeDealRepo) AppendHistory(_ context.Context, entry *models.StageHistory) error {
	if r.failAppendHistory {
		return errStorage
	}
	entry.ID = uint(len(r.history) + 1)
	r.history = append(r.history, *entry)
	return nil
}

func (r *fakeDealRepo) History(_ context.Context, dealID uint) ([]models.StageHistory, error) {
	var out []models.StageHistory
	for _, h := range r.history {
		if h.DealID == dealID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeDealRepo) CreateDecision(_ context.Context, decision *models.UnderwritingDecision) error {
	if r.failCreateDecision {
		return errStorage
	}
	decision.ID = uint(len(r.decisions) + 1)
	r.decisions = append(r.decisions, *decision)
	return nil
}

func (r *fakeDealRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.deals[id]; !ok {
		return apperrors.ErrDealNotFound
	}
	delete(r.deals, id)
	kept := r.history[:0]
	for _, h := range r.history {
		if h.DealID != id {
			kept = append(kept, h)
		}
	}
	r.history = kept
	return nil
}

func (r *fakeDealRepo) PipelineSummary(context.Context) ([]models.StageSummary, error) {
	return nil, nil
}

func (r *fakeDealRepo) ExecuteInTransaction(_ context.Context, fn func(repositories.DealRepository) error) error {
	deals := make(map[uint]models.Deal, len(r.deals))
	for id, d := range r.deals {
		deals[id] = d
	}
	history := append([]models.StageHistory(nil), r.history...)
	decisions := append([]models.UnderwritingDecision(nil), r.decisions...)
	nextID := r.nextID

	if err := fn(r); err != nil {
		r.deals, r.history, r.decisions, r.nextID = deals, history, decisions, nextID
		return err
	}
	return nil
}

func (r *fakeDealRepo) historyFor(id uint) []models.StageHistory {
	h, _ := r.History(context.Background(), id)
	return h
}

type fakeCommentRepo struct {
	comments []models.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, c *models.Comment) error {
	c.ID = uint(len(r.comments) + 1)
	r.comments = append(r.comments, *c)
	return nil
}

func (r *fakeCommentRepo) ListByDeal(_ context.Context, dealID uint, offset, limit int) ([]models.Comment, int64, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.DealID == dealID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

type fakeMerchantRepo struct {
	ids map[uint]bool
}

func (r *fakeMerchantRepo) Create(context.Context, *models.Merchant) error { return nil }

func (r *fakeMerchantRepo) GetByID(_ context.Context, id uint) (*models.Merchant, error) {
	if !r.ids[id] {
		return nil, apperrors.ErrMerchantNotFound
	}
	return &models.Merchant{ID: id}, nil
}

func (r *fakeMerchantRepo) Exists(_ context.Context, id uint) (bool, error) {
	return r.ids[id], nil
}

func (r *fakeMerchantRepo) List(context.Context, string, int, int) ([]models.Merchant, int64, error) {
	return nil, 0, nil
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetDeal(ctx context.Context, id uint) (*models.Deal, bool, error) {
	args := m.Called(ctx, id)
	deal, _ := args.Get(0).(*models.Deal)
	return deal, args.Bool(1), args.Error(2)
}

func (m *MockCache) CacheDeal(ctx context.Context, deal *models.Deal) error {
	return m.Called(ctx, deal).Error(0)
}

func (m *MockCache) InvalidateDeal(ctx context.Context, id uint, version int) error {
	return m.Called(ctx, id, version).Error(0)
}
