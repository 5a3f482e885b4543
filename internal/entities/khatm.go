package entities

import "time"

const (
	// TotalPages is the number of pages in the standard mushaf.
	TotalPages = 604

	// DefaultGoalPerDay is roughly one juz a month.
	DefaultGoalPerDay = 4
)

type KhatmStatus string

const (
	KhatmStatusActive    KhatmStatus = "active"
	KhatmStatusCompleted KhatmStatus = "completed"
)

// Khatm tracks one reading cycle through all pages.
type Khatm struct {
	ID             string      `json:"id"`
	UserID         string      `json:"userId"`
	Status         KhatmStatus `json:"status"`
	StartDate      time.Time   `json:"startDate"`
	Progress       int         `json:"progress"` // percent, 0-100
	LastPage       int         `json:"lastPage"`
	LastSurah      int         `json:"lastSurah"`
	CompletedPages int         `json:"completedPages"`
	GoalPerDay     int         `json:"goalPerDay"`
	LastReadAt     *time.Time  `json:"lastReadAt,omitempty"`
}

// Clone returns a copy of the khatm.
func (k *Khatm) Clone() *Khatm {
	if k == nil {
		return nil
	}
	out := *k
	if k.LastReadAt != nil {
		t := *k.LastReadAt
		out.LastReadAt = &t
	}
	return &out
}
