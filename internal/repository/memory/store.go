// Package memory provides map-backed repositories used when no database is
// configured and by the service tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/repository"
)

type record[T any] struct {
	seq   uint64
	value T
}

type db struct {
	mu       sync.RWMutex
	seq      uint64
	lastTick time.Time
	now      func() time.Time

	users       map[string]record[domain.User]
	emails      map[string]string
	agencies    map[string]record[domain.Agency]
	categories  map[string]record[domain.Category]
	submissions map[string]record[domain.Submission]
	responses   map[string]record[domain.AdminResponse]
	history     map[string]record[domain.SubmissionHistory]
}

// NewStore returns a repository.Store whose repositories share one in-memory database.
func NewStore() *repository.Store {
	d := &db{
		now:         time.Now,
		users:       map[string]record[domain.User]{},
		emails:      map[string]string{},
		agencies:    map[string]record[domain.Agency]{},
		categories:  map[string]record[domain.Category]{},
		submissions: map[string]record[domain.Submission]{},
		responses:   map[string]record[domain.AdminResponse]{},
		history:     map[string]record[domain.SubmissionHistory]{},
	}
	return &repository.Store{
		Users:       &userRepository{db: d},
		Agencies:    &agencyRepository{db: d},
		Categories:  &categoryRepository{db: d},
		Submissions: &submissionRepository{db: d},
		Responses:   &responseRepository{db: d},
		History:     &historyRepository{db: d},
	}
}

// next hands out an identifier, an insertion sequence and a timestamp.
// Callers must hold the write lock.
func (d *db) next() (string, uint64, time.Time) {
	d.seq++
	return uuid.NewString(), d.seq, d.tick()
}

// tick never returns the same instant twice so creation order survives sorting
// by timestamp. Callers must hold the write lock.
func (d *db) tick() time.Time {
	now := d.now().UTC()
	if !now.After(d.lastTick) {
		now = d.lastTick.Add(time.Microsecond)
	}
	d.lastTick = now
	return now
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// sorted orders values by cmp, falling back to insertion order on ties.
func sorted[T any](items []record[T], cmp func(a, b T) int) []T {
	sort.SliceStable(items, func(i, j int) bool {
		if c := cmp(items[i].value, items[j].value); c != 0 {
			return c < 0
		}
		return items[i].seq < items[j].seq
	})
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = item.value
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
