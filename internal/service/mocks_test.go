package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/magazine-service/internal/domain"
)

// In-memory repository fakes. Not-found surfaces as pgx.ErrNoRows so the
// services see the same sentinel they would from a real pool.

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByVerificationToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.VerificationToken != nil && *user.VerificationToken == token {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByResetToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ResetToken != nil && *user.ResetToken == token &&
			user.ResetExpires != nil && user.ResetExpires.After(time.Now()) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		all = append(all, *user)
	}
	return window(all, limit, offset), nil
}

func (r *memUserRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func (r *memUserRepo) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, user := range r.users {
		if !user.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type memRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newMemRefreshTokenRepo() *memRefreshTokenRepo {
	return &memRefreshTokenRepo{tokens: make(map[string]*domain.RefreshToken)}
}

func (r *memRefreshTokenRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.tokens[token.Token] = &clone
	return nil
}

func (r *memRefreshTokenRepo) Consume(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.tokens[token]
	if !ok || !record.ExpiresAt.After(time.Now()) {
		return nil, pgx.ErrNoRows
	}
	delete(r.tokens, token)
	return record, nil
}

func (r *memRefreshTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for key, record := range r.tokens {
		if !record.ExpiresAt.After(now) {
			delete(r.tokens, key)
			deleted++
		}
	}
	return deleted, nil
}

type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemBlacklist() *memBlacklist {
	return &memBlacklist{revoked: make(map[string]time.Time)}
}

func (b *memBlacklist) Add(_ context.Context, token string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = time.Now().Add(ttl)
	return nil
}

func (b *memBlacklist) Contains(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	expiry, ok := b.revoked[token]
	return ok && expiry.After(time.Now()), nil
}

type memMagazineRepo struct {
	mu        sync.Mutex
	seq       int
	magazines map[string]*domain.Magazine
}

func newMemMagazineRepo() *memMagazineRepo {
	return &memMagazineRepo{magazines: make(map[string]*domain.Magazine)}
}

func (r *memMagazineRepo) Create(_ context.Context, magazine *domain.Magazine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if magazine.ID == "" {
		magazine.ID = fmt.Sprintf("magazine-%d", r.seq)
	}
	magazine.CreatedAt = time.Now()
	magazine.UpdatedAt = magazine.CreatedAt
	clone := *magazine
	r.magazines[magazine.ID] = &clone
	return nil
}

func (r *memMagazineRepo) Update(_ context.Context, magazine *domain.Magazine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.magazines[magazine.ID]; !ok {
		return pgx.ErrNoRows
	}
	magazine.UpdatedAt = time.Now()
	clone := *magazine
	r.magazines[magazine.ID] = &clone
	return nil
}

func (r *memMagazineRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.magazines[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.magazines, id)
	return nil
}

func (r *memMagazineRepo) GetByID(_ context.Context, id string) (*domain.Magazine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if magazine, ok := r.magazines[id]; ok {
		clone := *magazine
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memMagazineRepo) List(_ context.Context, limit, offset int) ([]domain.Magazine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Magazine, 0, len(r.magazines))
	for _, magazine := range r.magazines {
		all = append(all, *magazine)
	}
	return window(all, limit, offset), nil
}

func (r *memMagazineRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.magazines), nil
}

type memSubscriptionRepo struct {
	mu   sync.Mutex
	seq  int
	subs map[string]*domain.Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{subs: make(map[string]*domain.Subscription)}
}

func (r *memSubscriptionRepo) Upsert(_ context.Context, userID, magazineID string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if sub.UserID == userID && sub.MagazineID == magazineID {
			clone := *sub
			return &clone, nil
		}
	}
	r.seq++
	sub := &domain.Subscription{
		ID:         fmt.Sprintf("subscription-%d", r.seq),
		UserID:     userID,
		MagazineID: magazineID,
		Status:     domain.SubscriptionStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	r.subs[sub.ID] = sub
	clone := *sub
	return &clone, nil
}

func (r *memSubscriptionRepo) GetByID(_ context.Context, id string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub, ok := r.subs[id]; ok {
		clone := *sub
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memSubscriptionRepo) Activate(_ context.Context, id string, startDate time.Time) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	sub.Status = domain.SubscriptionStatusActive
	sub.StartDate = &startDate
	sub.UpdatedAt = time.Now()
	clone := *sub
	return &clone, nil
}

func (r *memSubscriptionRepo) Cancel(_ context.Context, id string, endDate time.Time) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	sub.Status = domain.SubscriptionStatusCancelled
	sub.EndDate = &endDate
	sub.UpdatedAt = time.Now()
	clone := *sub
	return &clone, nil
}

func (r *memSubscriptionRepo) ExpireDue(_ context.Context, now time.Time) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired []domain.Subscription
	for _, sub := range r.subs {
		if sub.Status == domain.SubscriptionStatusActive && sub.EndDate != nil && !sub.EndDate.After(now) {
			sub.Status = domain.SubscriptionStatusExpired
			sub.UpdatedAt = time.Now()
			expired = append(expired, *sub)
		}
	}
	return expired, nil
}

func (r *memSubscriptionRepo) List(_ context.Context, limit, offset int) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		all = append(all, *sub)
	}
	return window(all, limit, offset), nil
}

func (r *memSubscriptionRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs), nil
}

func (r *memSubscriptionRepo) CountByStatus(_ context.Context, status domain.SubscriptionStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, sub := range r.subs {
		if sub.Status == status {
			count++
		}
	}
	return count, nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	seq      int
	comments map[string]*domain.Comment
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: make(map[string]*domain.Comment)}
}

func (r *memCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if comment.ID == "" {
		comment.ID = fmt.Sprintf("comment-%d", r.seq)
	}
	comment.CreatedAt = time.Now()
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *memCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment, ok := r.comments[id]; ok {
		clone := *comment
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memCommentRepo) Approve(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	comment.Approved = true
	clone := *comment
	return &clone, nil
}

func (r *memCommentRepo) ListApproved(_ context.Context, limit, offset int) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var approved []domain.Comment
	for _, comment := range r.comments {
		if comment.Approved {
			approved = append(approved, *comment)
		}
	}
	return window(approved, limit, offset), nil
}

func (r *memCommentRepo) ListPending(_ context.Context) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []domain.Comment
	for _, comment := range r.comments {
		if !comment.Approved {
			pending = append(pending, *comment)
		}
	}
	return pending, nil
}

func (r *memCommentRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.comments), nil
}

func (r *memCommentRepo) CountApproved(ctx context.Context) (int, error) {
	approved, err := r.ListApproved(ctx, len(r.comments), 0)
	return len(approved), err
}

func (r *memCommentRepo) CountPending(ctx context.Context) (int, error) {
	pending, err := r.ListPending(ctx)
	return len(pending), err
}

type memActivityRepo struct {
	mu      sync.Mutex
	entries []domain.ActivityLog
}

func newMemActivityRepo() *memActivityRepo { return &memActivityRepo{} }

func (r *memActivityRepo) Create(_ context.Context, entry *domain.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("activity-%d", len(r.entries)+1)
	}
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memActivityRepo) ListRecent(_ context.Context, limit int) ([]domain.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]domain.ActivityLog, limit)
	copy(out, r.entries[len(r.entries)-limit:])
	return out, nil
}

// recordingMailer captures outgoing mail instead of delivering it.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, html string) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
