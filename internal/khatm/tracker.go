// Package khatm tracks reading progress through the Quran.
//
// A khatm is one complete reading cycle of the 604-page mushaf. Each user has at most
// one active khatm; progress is the last page read as a percentage of the total.
// Reaching page 604 does not complete the khatm on its own.
package khatm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/audit"
	"github.com/mrlokans/shayfa/internal/entities"
)

// GuestUserID owns the progress of anonymous readers.
const GuestUserID = "guest-user"

var (
	ErrNotInitialized = errors.New("khatm tracker is not initialized")
	ErrInvalidPage    = fmt.Errorf("page must be between 1 and %d", entities.TotalPages)
	ErrSurahNotFound  = errors.New("surah not found")
)

// Tracker holds the active khatm of one user and a cache of surahs.
type Tracker struct {
	mu     sync.Mutex
	client *api.Client
	guard  *singleflight.Group
	audit  *audit.Service
	now    func() time.Time

	surahs []entities.Surah
	khatm  *entities.Khatm
}

// NewTracker creates a tracker. guard should be shared process wide, see cart.NewEngine.
func NewTracker(client *api.Client, guard *singleflight.Group, auditService *audit.Service) *Tracker {
	if guard == nil {
		guard = &singleflight.Group{}
	}
	return &Tracker{
		client: client,
		guard:  guard,
		audit:  auditService,
		now:    time.Now,
	}
}

// Init loads the surah list and the active khatm of userID, starting a new khatm
// when there is none.
func (t *Tracker) Init(ctx context.Context, userID string) error {
	if userID == "" {
		userID = GuestUserID
	}

	surahs, err := api.ListAs[entities.Surah](ctx, t.client, entities.CollectionQuran)
	if err != nil {
		return fmt.Errorf("failed to load surahs: %w", err)
	}

	v, err, _ := t.guard.Do("khatm:"+userID, func() (any, error) {
		return t.findOrStart(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("failed to load khatm for %s: %w", userID, err)
	}

	t.mu.Lock()
	t.surahs = surahs
	t.khatm = v.(*entities.Khatm).Clone()
	t.mu.Unlock()
	return nil
}

// Current returns a copy of the active khatm, or nil before Init.
func (t *Tracker) Current() *entities.Khatm {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.khatm.Clone()
}

// UpdateProgress records that the reader reached page in surahID.
func (t *Tracker) UpdateProgress(ctx context.Context, page, surahID int) (*entities.Khatm, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.khatm == nil {
		return nil, ErrNotInitialized
	}
	if page < 1 || page > entities.TotalPages {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}

	next := t.khatm.Clone()
	readAt := t.now().UTC()
	next.LastPage = page
	next.LastSurah = surahID
	next.CompletedPages = page
	next.Progress = ProgressFor(page)
	next.LastReadAt = &readAt

	rec, err := api.Encode(next)
	if err != nil {
		return nil, err
	}
	if _, err := t.client.Put(ctx, entities.CollectionKhatm, next.ID, rec); err != nil {
		return nil, err
	}
	t.khatm = next

	t.audit.LogProgress(next.UserID, next.ID, page, next.Progress)
	return next.Clone(), nil
}

// GetSurah looks number up in the cached surah list, reloading it when empty.
func (t *Tracker) GetSurah(ctx context.Context, number int) (*entities.Surah, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.surahs) == 0 {
		surahs, err := api.ListAs[entities.Surah](ctx, t.client, entities.CollectionQuran)
		if err != nil {
			return nil, err
		}
		t.surahs = surahs
	}

	for _, s := range t.surahs {
		if s.Number == number {
			surah := s
			return &surah, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrSurahNotFound, number)
}

// ProgressFor converts a page number into a whole percentage of the mushaf.
func ProgressFor(page int) int {
	return int(math.Round(float64(page) / entities.TotalPages * 100))
}

func (t *Tracker) findOrStart(ctx context.Context, userID string) (*entities.Khatm, error) {
	khatms, err := api.ListAs[entities.Khatm](ctx, t.client, entities.CollectionKhatm)
	if err != nil {
		return nil, err
	}
	for i := range khatms {
		if khatms[i].UserID == userID && khatms[i].Status == entities.KhatmStatusActive {
			return &khatms[i], nil
		}
	}

	k := &entities.Khatm{
		ID:         "khatm-" + uuid.NewString(),
		UserID:     userID,
		Status:     entities.KhatmStatusActive,
		StartDate:  t.now().UTC(),
		Progress:   0,
		LastPage:   1,
		LastSurah:  1,
		GoalPerDay: entities.DefaultGoalPerDay,
	}
	rec, err := api.Encode(k)
	if err != nil {
		return nil, err
	}
	if _, err := t.client.Post(ctx, entities.CollectionKhatm, rec); err != nil {
		return nil, err
	}
	return k, nil
}
