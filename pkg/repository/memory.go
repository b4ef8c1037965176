package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Titan-M/mailsift/pkg/types"
)

// MemoryBackend is an in-memory BackendRepository used in local mode and
// tests. Insert-if-absent semantics match the Postgres constraint.
type MemoryBackend struct {
	mu       sync.Mutex
	emails   map[string]*types.Email // key: userId + "\x00" + gmailId
	profiles map[string]*types.UserProfile
	creds    map[string]*types.GmailCredentials
	nextId   uint
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		emails:   make(map[string]*types.Email),
		profiles: make(map[string]*types.UserProfile),
		creds:    make(map[string]*types.GmailCredentials),
	}
}

func emailKey(userId, gmailId string) string {
	return userId + "\x00" + gmailId
}

func (m *MemoryBackend) GetEmailByGmailId(_ context.Context, userId, gmailId string) (*types.Email, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.emails[emailKey(userId, gmailId)]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (m *MemoryBackend) InsertEmail(_ context.Context, email *types.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := emailKey(email.UserId, email.GmailId)
	if _, exists := m.emails[key]; exists {
		return ErrDuplicateEmail
	}

	m.nextId++
	email.Id = m.nextId
	email.ExternalId = uuid.NewString()
	now := time.Now().UTC()
	email.ProcessedAt = now
	email.CreatedAt = now

	copied := *email
	m.emails[key] = &copied
	return nil
}

func (m *MemoryBackend) ListEmails(_ context.Context, userId string, filter types.EmailFilter) ([]types.Email, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []types.Email
	for _, e := range m.emails {
		if e.UserId != userId {
			continue
		}
		if filter.Category != "" && string(e.Category) != filter.Category {
			continue
		}
		if filter.Priority != "" && string(e.Priority) != filter.Priority {
			continue
		}
		matched = append(matched, *e)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ReceivedAt.After(matched[j].ReceivedAt)
	})

	total := len(matched)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *MemoryBackend) DeleteEmail(_ context.Context, userId, externalId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, e := range m.emails {
		if e.UserId == userId && e.ExternalId == externalId {
			delete(m.emails, key)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *MemoryBackend) UpsertLastSync(_ context.Context, userId string, syncedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := syncedAt
	m.profiles[userId] = &types.UserProfile{
		UserId:        userId,
		LastEmailSync: &t,
		UpdatedAt:     time.Now().UTC(),
	}
	return nil
}

func (m *MemoryBackend) GetProfile(_ context.Context, userId string) (*types.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userId]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *MemoryBackend) SaveCredentials(_ context.Context, creds *types.GmailCredentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *creds
	copied.UpdatedAt = time.Now().UTC()
	m.creds[creds.UserId] = &copied
	return nil
}

func (m *MemoryBackend) GetCredentials(_ context.Context, userId string) (*types.GmailCredentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.creds[userId]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *MemoryBackend) Ping(_ context.Context) error {
	return nil
}

var _ BackendRepository = (*MemoryBackend)(nil)
