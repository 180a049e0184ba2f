package worker

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/magazine-service/internal/domain"
	"github.com/spec-kit/magazine-service/internal/repository"
)

// Fakes embed the repository interfaces and override only what the jobs
// touch; calling anything else panics, which is what a job test wants.

type fakeSubscriptionRepo struct {
	repository.SubscriptionRepository
	subs map[string]*domain.Subscription
}

func (r *fakeSubscriptionRepo) ExpireDue(_ context.Context, now time.Time) ([]domain.Subscription, error) {
	var expired []domain.Subscription
	for _, sub := range r.subs {
		if sub.Status == domain.SubscriptionStatusActive && sub.EndDate != nil && !sub.EndDate.After(now) {
			sub.Status = domain.SubscriptionStatusExpired
			expired = append(expired, *sub)
		}
	}
	return expired, nil
}

func (r *fakeSubscriptionRepo) CountByStatus(_ context.Context, status domain.SubscriptionStatus) (int, error) {
	count := 0
	for _, sub := range r.subs {
		if sub.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	repository.UserRepository
	users map[string]*domain.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, errNotFound
}

func (r *fakeUserRepo) Count(_ context.Context) (int, error) {
	return len(r.users), nil
}

func (r *fakeUserRepo) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	count := 0
	for _, user := range r.users {
		if !user.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeMagazineRepo struct {
	repository.MagazineRepository
	magazines map[string]*domain.Magazine
}

func (r *fakeMagazineRepo) GetByID(_ context.Context, id string) (*domain.Magazine, error) {
	if magazine, ok := r.magazines[id]; ok {
		return magazine, nil
	}
	return nil, errNotFound
}

type fakeCommentRepo struct {
	repository.CommentRepository
	total   int
	pending int
}

func (r *fakeCommentRepo) Count(_ context.Context) (int, error)        { return r.total, nil }
func (r *fakeCommentRepo) CountPending(_ context.Context) (int, error) { return r.pending, nil }

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []domain.ActivityLog
}

func (r *fakeActivityRepo) Create(_ context.Context, entry *domain.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeActivityRepo) ListRecent(_ context.Context, limit int) ([]domain.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	return append([]domain.ActivityLog(nil), r.entries[:limit]...), nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	fail error
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

type notFoundError struct{}

func (notFoundError) Error() string { return "no rows in result set" }

var errNotFound = notFoundError{}
