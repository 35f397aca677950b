package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/repositories"
	"github.com/tjmun/confreg/internal/pkg/filestorage"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

var _ repositories.IUserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return 0, repositories.ErrDuplicateEmail
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt, u.UpdatedAt = fixedNow, fixedNow
	cp := *u
	r.users[u.ID] = &cp
	return u.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit uint64) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.User
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	if offset >= uint64(len(all)) {
		return []*models.User{}, total, nil
	}
	end := min(offset+limit, uint64(len(all)))
	return all[offset:end], total, nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id int64, role models.RoleType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.RoleType = role
	return nil
}

func (r *fakeUserRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeConferenceRepo struct {
	mu          sync.Mutex
	nextID      int64
	conferences map[int64]*models.Conference
}

var _ repositories.IConferenceRepository = (*fakeConferenceRepo)(nil)

func newFakeConferenceRepo() *fakeConferenceRepo {
	return &fakeConferenceRepo{conferences: map[int64]*models.Conference{}}
}

func (r *fakeConferenceRepo) put(c *models.Conference) *models.Conference {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.conferences[c.ID] = &cp
	return c
}

func (r *fakeConferenceRepo) conflict(c *models.Conference) error {
	for _, existing := range r.conferences {
		if existing.ID == c.ID {
			continue
		}
		if existing.Name == c.Name {
			return repositories.ErrDuplicateConferenceName
		}
		if existing.Slug == c.Slug {
			return repositories.ErrDuplicateConferenceSlug
		}
	}
	return nil
}

func (r *fakeConferenceRepo) Create(_ context.Context, c *models.Conference) (int64, error) {
	r.mu.Lock()
	if err := r.conflict(c); err != nil {
		r.mu.Unlock()
		return 0, err
	}
	r.mu.Unlock()
	return r.put(c).ID, nil
}

func (r *fakeConferenceRepo) Update(_ context.Context, c *models.Conference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conferences[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	if err := r.conflict(c); err != nil {
		return err
	}
	cp := *c
	r.conferences[c.ID] = &cp
	return nil
}

func (r *fakeConferenceRepo) GetByID(_ context.Context, id int64) (*models.Conference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conferences[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeConferenceRepo) GetBySlug(_ context.Context, slug string) (*models.Conference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conferences {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeConferenceRepo) List(context.Context) ([]*models.Conference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Conference{}
	for _, c := range r.conferences {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r *fakeConferenceRepo) exists(match func(*models.Conference) bool, excludeID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conferences {
		if c.ID != excludeID && match(c) {
			return true
		}
	}
	return false
}

func (r *fakeConferenceRepo) ExistsByName(_ context.Context, name string, excludeID int64) (bool, error) {
	return r.exists(func(c *models.Conference) bool { return c.Name == name }, excludeID), nil
}

func (r *fakeConferenceRepo) ExistsBySlug(_ context.Context, slug string, excludeID int64) (bool, error) {
	return r.exists(func(c *models.Conference) bool { return c.Slug == slug }, excludeID), nil
}

func (r *fakeConferenceRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.conferences)), nil
}

type fakeAnnouncementRepo struct {
	mu            sync.Mutex
	nextID        int64
	announcements map[int64]*models.Announcement
}

var _ repositories.IAnnouncementRepository = (*fakeAnnouncementRepo)(nil)

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{announcements: map[int64]*models.Announcement{}}
}

func (r *fakeAnnouncementRepo) Create(_ context.Context, a *models.Announcement) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	cp := *a
	r.announcements[a.ID] = &cp
	return a.ID, nil
}

func (r *fakeAnnouncementRepo) Update(_ context.Context, a *models.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.announcements[a.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *a
	r.announcements[a.ID] = &cp
	return nil
}

func (r *fakeAnnouncementRepo) GetByID(_ context.Context, id int64) (*models.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.announcements[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAnnouncementRepo) List(_ context.Context, publishedOnly bool) ([]*models.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Announcement{}
	for _, a := range r.announcements {
		if publishedOnly && a.Status != models.AnnouncementPublished {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeAnnouncementRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.announcements)), nil
}

type fakeRegistrationRepo struct {
	mu            sync.Mutex
	nextID        int64
	registrations map[int64]*models.Registration
	failURLUpdate bool
}

var _ repositories.IRegistrationRepository = (*fakeRegistrationRepo)(nil)

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{registrations: map[int64]*models.Registration{}}
}

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *models.Registration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.registrations {
		if existing.UserID == reg.UserID && existing.ConferenceID == reg.ConferenceID {
			return 0, repositories.ErrDuplicateRegistration
		}
	}
	r.nextID++
	reg.ID = r.nextID
	reg.RegisteredAt, reg.UpdatedAt = fixedNow, fixedNow
	cp := *reg
	r.registrations[reg.ID] = &cp
	return reg.ID, nil
}

func (r *fakeRegistrationRepo) GetByID(_ context.Context, id int64) (*models.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.registrations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *reg
	return &cp, nil
}

func (r *fakeRegistrationRepo) GetByUserAndConference(_ context.Context, userID, conferenceID int64) (*models.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.registrations {
		if reg.UserID == userID && reg.ConferenceID == conferenceID {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeRegistrationRepo) ListByUser(_ context.Context, userID int64) ([]*models.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Registration{}
	for _, reg := range r.registrations {
		if reg.UserID == userID {
			cp := *reg
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeRegistrationRepo) List(_ context.Context, filter models.RegistrationFilter) ([]*models.Registration, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Registration{}
	for _, reg := range r.registrations {
		if filter.Status != nil && reg.RegistrationStatus != *filter.Status {
			continue
		}
		if filter.ConferenceID != nil && reg.ConferenceID != *filter.ConferenceID {
			continue
		}
		cp := *reg
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRegistrationRepo) mutate(id int64, fn func(*models.Registration)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.registrations[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(reg)
	return nil
}

func (r *fakeRegistrationRepo) UpdateStatus(_ context.Context, id int64, status models.RegistrationStatus) error {
	return r.mutate(id, func(reg *models.Registration) { reg.RegistrationStatus = status })
}

func (r *fakeRegistrationRepo) UpdatePayment(_ context.Context, id int64, status models.PaymentStatus, transactionID *string) error {
	return r.mutate(id, func(reg *models.Registration) {
		reg.PaymentStatus = status
		reg.PaymentTransactionID = transactionID
	})
}

func (r *fakeRegistrationRepo) UpdateTestScore(_ context.Context, id int64, score int) error {
	return r.mutate(id, func(reg *models.Registration) { reg.TestScore = &score })
}

func (r *fakeRegistrationRepo) UpdateAcademicTestURL(_ context.Context, id int64, url string) error {
	if r.failURLUpdate {
		return errors.New("connection reset")
	}
	return r.mutate(id, func(reg *models.Registration) { reg.AcademicTestURL = &url })
}

func (r *fakeRegistrationRepo) Count(_ context.Context, status *models.RegistrationStatus) (int64, error) {
	_, n, err := r.List(context.Background(), models.RegistrationFilter{Status: status})
	return n, err
}

type fakeSeatRepo struct {
	mu    sync.Mutex
	rows  []models.SeatAssignment
	calls int
}

var _ repositories.ISeatAssignmentRepository = (*fakeSeatRepo)(nil)

// ReplaceAll mirrors the unique (name, phone, venue) skip of the real table
func (r *fakeSeatRepo) ReplaceAll(_ context.Context, rows []models.SeatAssignment) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	seen := map[[3]string]bool{}
	r.rows = nil
	for i, s := range rows {
		key := [3]string{s.Name, s.Phone, s.Venue}
		if seen[key] {
			continue
		}
		seen[key] = true
		s.ID = int64(i + 1)
		r.rows = append(r.rows, s)
	}
	return int64(len(r.rows)), nil
}

func (r *fakeSeatRepo) FindMatches(_ context.Context, q models.SeatQuery) ([]*models.SeatAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.SeatAssignment
	for i := range r.rows {
		s := r.rows[i]
		if strings.EqualFold(s.Name, q.Name) && strings.HasSuffix(s.Phone, q.PhoneLastFour) {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *fakeSeatRepo) List(_ context.Context, offset, limit uint64) ([]*models.SeatAssignment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.SeatAssignment{}
	for i := range r.rows {
		if uint64(i) < offset || uint64(len(out)) >= limit {
			continue
		}
		s := r.rows[i]
		out = append(out, &s)
	}
	return out, int64(len(r.rows)), nil
}

type fakeSiteConfigRepo struct {
	mu      sync.Mutex
	entries map[string]models.SiteConfig
}

var _ repositories.ISiteConfigRepository = (*fakeSiteConfigRepo)(nil)

func newFakeSiteConfigRepo() *fakeSiteConfigRepo {
	return &fakeSiteConfigRepo{entries: map[string]models.SiteConfig{}}
}

func (r *fakeSiteConfigRepo) GetAll(context.Context) ([]*models.SiteConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.SiteConfig{}
	for _, e := range r.entries {
		cp := e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *fakeSiteConfigRepo) GetByKeys(_ context.Context, keys []string) ([]*models.SiteConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.SiteConfig{}
	for _, k := range keys {
		if e, ok := r.entries[k]; ok {
			cp := e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSiteConfigRepo) UpsertMany(_ context.Context, entries []models.SiteConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.Key] = e
	}
	return nil
}

func (r *fakeSiteConfigRepo) InsertDefaults(_ context.Context, entries []models.SiteConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		if _, ok := r.entries[e.Key]; !ok {
			r.entries[e.Key] = e
		}
	}
	return nil
}

// memoryStorage keeps saved files in a map keyed by URL
type memoryStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

var _ filestorage.FileStorage = (*memoryStorage)(nil)

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (m *memoryStorage) Save(r io.Reader, subPath, filename string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	url := "/uploads/" + subPath + "/" + filename
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[url] = buf.Bytes()
	return url, nil
}

func (m *memoryStorage) DeleteFile(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, url)
	m.deleted = append(m.deleted, url)
	return nil
}

func (m *memoryStorage) GetFullPath(url string) string {
	return url
}
