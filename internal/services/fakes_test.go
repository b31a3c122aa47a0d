package services

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	repo "github.com/yungbote/solutions-catalog/internal/data/repos/catalog"
	"github.com/yungbote/solutions-catalog/internal/domain/catalog"
)

type fakeRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*catalog.Solution
	failWith  error
	lastQuery catalog.ListQuery
	calls     map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uuid.UUID]*catalog.Solution{}, calls: map[string]int{}}
}

func (f *fakeRepo) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.failWith
}

func clone(s *catalog.Solution) *catalog.Solution {
	cp := *s
	return &cp
}

func (f *fakeRepo) Create(ctx context.Context, tx *gorm.DB, s *catalog.Solution) (*catalog.Solution, error) {
	if err := f.hit("Create"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.LinkIdentifier != nil {
		for _, r := range f.rows {
			if r.LinkIdentifier != nil && *r.LinkIdentifier == *s.LinkIdentifier {
				return nil, gorm.ErrDuplicatedKey
			}
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	f.rows[s.ID] = clone(s)
	return s, nil
}

func (f *fakeRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*catalog.Solution, error) {
	if err := f.hit("GetActiveByID"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || !r.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return clone(r), nil
}

func (f *fakeRepo) Update(ctx context.Context, tx *gorm.DB, s *catalog.Solution) error {
	if err := f.hit("Update"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[s.ID]
	if !ok || !r.IsActive {
		return gorm.ErrRecordNotFound
	}
	cp := clone(s)
	cp.ViewCount, cp.LikeCount = r.ViewCount, r.LikeCount
	f.rows[s.ID] = cp
	return nil
}

func (f *fakeRepo) SetCounter(ctx context.Context, tx *gorm.DB, id uuid.UUID, field repo.CounterField, value int64) error {
	if err := f.hit("SetCounter"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || !r.IsActive {
		return gorm.ErrRecordNotFound
	}
	if field == repo.CounterLikes {
		r.LikeCount = value
	} else {
		r.ViewCount = value
	}
	return nil
}

func (f *fakeRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if err := f.hit("SoftDelete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || !r.IsActive {
		return gorm.ErrRecordNotFound
	}
	r.IsActive = false
	return nil
}

func (f *fakeRepo) active() []*catalog.Solution {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*catalog.Solution{}
	for _, r := range f.rows {
		if r.IsActive {
			out = append(out, clone(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (f *fakeRepo) List(ctx context.Context, tx *gorm.DB, q catalog.ListQuery) ([]*catalog.Solution, int64, error) {
	if err := f.hit("List"); err != nil {
		return nil, 0, err
	}
	f.mu.Lock()
	f.lastQuery = q
	f.mu.Unlock()
	all := f.active()
	start := q.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (f *fakeRepo) Distinct(ctx context.Context, tx *gorm.DB, field string, flt catalog.Filter) ([]string, error) {
	if err := f.hit("Distinct"); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, r := range f.active() {
		if flt.ExactBookTitle != "" && r.BookTitle != flt.ExactBookTitle {
			continue
		}
		var v string
		switch field {
		case repo.FieldBookTitle:
			v = r.BookTitle
		case repo.FieldChapter:
			v = r.Chapter
		case repo.FieldSubject:
			v = r.Subject
		case repo.FieldGrade:
			v = r.Grade
		}
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeRepo) CountBy(ctx context.Context, tx *gorm.DB, field string, flt catalog.Filter, limit int) ([]catalog.GroupCount, error) {
	if err := f.hit("CountBy"); err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, r := range f.active() {
		switch field {
		case repo.FieldContentType:
			counts[string(r.ContentType)]++
		case repo.FieldDifficulty:
			counts[string(r.Difficulty)]++
		case repo.FieldBookTitle:
			counts[r.BookTitle]++
		}
	}
	out := []catalog.GroupCount{}
	for k, v := range counts {
		out = append(out, catalog.GroupCount{Value: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) Totals(ctx context.Context, tx *gorm.DB) (int64, int64, error) {
	if err := f.hit("Totals"); err != nil {
		return 0, 0, err
	}
	var n, views int64
	for _, r := range f.active() {
		n++
		views += r.ViewCount
	}
	return n, views, nil
}

func (f *fakeRepo) ListVideos(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*catalog.Solution, error) {
	return nil, nil
}

func (f *fakeRepo) SetLinkFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, linkID, thumbnailURL string) error {
	return f.hit("SetLinkFields")
}

func (f *fakeRepo) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *memCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type recordingCleaner struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingCleaner) Schedule(ctx context.Context, key string) error {
	r.mu.Lock()
	r.keys = append(r.keys, key)
	r.mu.Unlock()
	return nil
}

func (r *recordingCleaner) scheduled() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Name() string { return "memory" }

func (m *memStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.objects[key] = b
	m.types[key] = contentType
	m.mu.Unlock()
	return "/uploads/" + key, nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}
