package journal

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/storylens-backend/internal/models"
	"github.com/AnshRaj112/storylens-backend/internal/mood"
	"github.com/AnshRaj112/storylens-backend/internal/services"
	"github.com/AnshRaj112/storylens-backend/pkg/ctxutil"
)

// memDB backs the entry, collection and draft fakes so cascades behave like the real schema.
type memDB struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]models.Entry
	collections map[uuid.UUID]models.Collection
	drafts      map[string]models.Draft
	writes      int
	listCalls   int
	clock       time.Time
}

func newMemDB() *memDB {
	return &memDB{
		entries:     make(map[uuid.UUID]models.Entry),
		collections: make(map[uuid.UUID]models.Collection),
		drafts:      make(map[string]models.Draft),
		clock:       time.Now().UTC().Add(-time.Hour),
	}
}

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

type memEntries struct{ db *memDB }

func (m memEntries) Create(_ context.Context, e models.Entry) (*models.Entry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.writes++
	e.CreatedAt = m.db.tick()
	e.UpdatedAt = e.CreatedAt
	m.db.entries[e.ID] = e
	return &e, nil
}

func (m memEntries) Update(_ context.Context, e models.Entry) (*models.Entry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	cur, ok := m.db.entries[e.ID]
	if !ok || cur.UserID != e.UserID {
		return nil, models.ErrNotFound
	}
	m.db.writes++
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = m.db.tick()
	m.db.entries[e.ID] = e
	return &e, nil
}

func (m memEntries) GetByID(_ context.Context, userID, id uuid.UUID) (*models.Entry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.entries[id]
	if !ok || e.UserID != userID {
		return nil, models.ErrNotFound
	}
	return &e, nil
}

func (m memEntries) List(_ context.Context, userID uuid.UUID, f models.EntryFilter) ([]models.Entry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.listCalls++
	out := make([]models.Entry, 0)
	for _, e := range m.db.entries {
		if e.UserID != userID {
			continue
		}
		if f.Unorganized && e.CollectionID != nil {
			continue
		}
		if f.CollectionID != nil && (e.CollectionID == nil || *e.CollectionID != *f.CollectionID) {
			continue
		}
		if !f.Since.IsZero() && e.CreatedAt.Before(f.Since) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.Ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m memEntries) Delete(_ context.Context, userID, id uuid.UUID) (*models.Entry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.entries[id]
	if !ok || e.UserID != userID {
		return nil, models.ErrNotFound
	}
	m.db.writes++
	delete(m.db.entries, id)
	return &e, nil
}

type memCollections struct{ db *memDB }

func (m memCollections) Create(_ context.Context, c models.Collection) (*models.Collection, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.writes++
	c.CreatedAt = m.db.tick()
	c.UpdatedAt = c.CreatedAt
	m.db.collections[c.ID] = c
	return &c, nil
}

func (m memCollections) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Collection, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := make([]models.Collection, 0)
	for _, c := range m.db.collections {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memCollections) GetByID(_ context.Context, userID, id uuid.UUID) (*models.Collection, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c, ok := m.db.collections[id]
	if !ok || c.UserID != userID {
		return nil, models.ErrNotFound
	}
	return &c, nil
}

func (m memCollections) Delete(_ context.Context, userID, id uuid.UUID) (*models.Collection, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c, ok := m.db.collections[id]
	if !ok || c.UserID != userID {
		return nil, models.ErrNotFound
	}
	m.db.writes++
	delete(m.db.collections, id)
	for eid, e := range m.db.entries {
		if e.CollectionID != nil && *e.CollectionID == id {
			e.CollectionID = nil
			m.db.entries[eid] = e
		}
	}
	return &c, nil
}

type memDrafts struct{ db *memDB }

func (m memDrafts) Get(_ context.Context, userID string) (*models.Draft, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	d, ok := m.db.drafts[userID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m memDrafts) Save(_ context.Context, d models.Draft) (*models.Draft, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.writes++
	d.UpdatedAt = m.db.tick()
	if cur, ok := m.db.drafts[d.UserID]; ok {
		d.CreatedAt = cur.CreatedAt
	} else {
		d.CreatedAt = d.UpdatedAt
	}
	m.db.drafts[d.UserID] = d
	return &d, nil
}

func (m memDrafts) Clear(_ context.Context, userID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.drafts[userID]; ok {
		m.db.writes++
	}
	delete(m.db.drafts, userID)
	return nil
}

// fakeIdentity resolves callers provisioned with signIn.
type fakeIdentity struct {
	mu    sync.Mutex
	users map[string]*models.User
	err   error
}

func (f *fakeIdentity) Resolve(ctx context.Context) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, models.ErrUnauthenticated
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id.ExternalID]
	if !ok {
		return nil, models.ErrUnauthenticated
	}
	return u, nil
}

type fakeAdmission struct {
	mu      sync.Mutex
	deny    models.AdmissionReason
	calls   int
	lastReq services.AdmissionRequest
}

func (f *fakeAdmission) Protect(_ context.Context, req services.AdmissionRequest) services.Decision {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	if f.deny != "" {
		return services.Decision{Allowed: false, Reason: f.deny, Remaining: 0, Reset: time.Minute}
	}
	return services.Decision{Allowed: true, Remaining: 9, Reset: time.Hour}
}

type fakeImages struct {
	mu      sync.Mutex
	url     string
	err     error
	queries []string
}

func (f *fakeImages) Find(_ context.Context, query string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.url, f.err
}

type fakeEvents struct {
	mu     sync.Mutex
	events []models.DashboardEvent
	err    error
}

func (f *fakeEvents) Publish(_ context.Context, e models.DashboardEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return f.err
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetWithTTL(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

type harness struct {
	svc       *Service
	db        *memDB
	identity  *fakeIdentity
	admission *fakeAdmission
	images    *fakeImages
	events    *fakeEvents
	cache     *fakeCache
}

func newHarness() *harness {
	h := &harness{
		db:        newMemDB(),
		identity:  &fakeIdentity{users: make(map[string]*models.User)},
		admission: &fakeAdmission{},
		images:    &fakeImages{url: "https://img.example/mood.jpg"},
		events:    &fakeEvents{},
		cache:     &fakeCache{data: make(map[string][]byte)},
	}
	h.svc = NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		h.identity,
		mood.NewRegistry(),
		memEntries{h.db},
		memCollections{h.db},
		memDrafts{h.db},
		h.admission,
		h.images,
		h.events,
		h.cache,
	)
	return h
}

// signIn provisions a user and returns a context carrying their identity.
func (h *harness) signIn(externalID string) (context.Context, *models.User) {
	u := &models.User{ID: uuid.New(), ExternalID: externalID}
	h.identity.mu.Lock()
	h.identity.users[externalID] = u
	h.identity.mu.Unlock()
	return ctxutil.WithIdentity(context.Background(), models.Identity{ExternalID: externalID}), u
}
