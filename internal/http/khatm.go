package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shayfa/internal/auth"
	"github.com/mrlokans/shayfa/internal/khatm"
)

type KhatmController struct {
	trackers *khatm.Registry
}

func NewKhatmController(trackers *khatm.Registry) *KhatmController {
	return &KhatmController{trackers: trackers}
}

type progressRequest struct {
	Page    int `json:"page" binding:"required"`
	SurahID int `json:"surahId"`
}

func (kc *KhatmController) tracker(c *gin.Context) (*khatm.Tracker, bool) {
	tracker, err := kc.trackers.For(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		respondDomainError(c, err, "load khatm")
		return nil, false
	}
	return tracker, true
}

// Get handles GET /api/khatm.
func (kc *KhatmController) Get(c *gin.Context) {
	tracker, ok := kc.tracker(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tracker.Current())
}

// UpdateProgress handles PUT /api/khatm/progress.
func (kc *KhatmController) UpdateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "page is required")
		return
	}

	tracker, ok := kc.tracker(c)
	if !ok {
		return
	}
	updated, err := tracker.UpdateProgress(c.Request.Context(), req.Page, req.SurahID)
	if err != nil {
		respondDomainError(c, err, "update progress")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Surah handles GET /api/quran/surahs/:number.
func (kc *KhatmController) Surah(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		respondBadRequest(c, "invalid surah number")
		return
	}

	tracker, ok := kc.tracker(c)
	if !ok {
		return
	}
	surah, err := tracker.GetSurah(c.Request.Context(), number)
	if err != nil {
		respondDomainError(c, err, "get surah")
		return
	}
	c.JSON(http.StatusOK, surah)
}
