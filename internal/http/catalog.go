package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/entities"
	"github.com/mrlokans/shayfa/internal/upload"
)

// CatalogController lets admins manage products, surahs, videos and see orders.
type CatalogController struct {
	client *api.Client
	now    func() time.Time
}

func NewCatalogController(client *api.Client) *CatalogController {
	return &CatalogController{client: client, now: time.Now}
}

type productRequest struct {
	Title    string           `json:"title" binding:"required"`
	Price    *decimal.Decimal `json:"price" binding:"required"`
	Category string           `json:"category"`
	Image    string           `json:"image"`
}

type pdfRequest struct {
	Category string `json:"category" binding:"required"`
	Filename string `json:"filename" binding:"required"`
}

type surahRequest struct {
	Number int         `json:"number" binding:"required,min=1,max=114"`
	Title  string      `json:"title" binding:"required"`
	Type   string      `json:"type"`
	Verses int         `json:"verses" binding:"min=0"`
	PDF    *pdfRequest `json:"pdf"`
}

type videoRequest struct {
	Title    string `json:"title" binding:"required"`
	URL      string `json:"url"`
	Duration string `json:"duration"`
	Category string `json:"category"`
}

// Products handles GET /api/admin/products.
func (cc *CatalogController) Products(c *gin.Context) {
	list[entities.Product](c, cc.client, entities.CollectionProducts)
}

// AddProduct handles POST /api/admin/products.
func (cc *CatalogController) AddProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and price are required")
		return
	}
	if req.Price.IsNegative() {
		respondBadRequest(c, "price must not be negative")
		return
	}

	create(c, cc.client, entities.CollectionProducts, entities.Product{
		Title:    strings.TrimSpace(req.Title),
		Price:    *req.Price,
		Category: req.Category,
		Image:    req.Image,
	})
}

// Surahs handles GET /api/admin/quran.
func (cc *CatalogController) Surahs(c *gin.Context) {
	list[entities.Surah](c, cc.client, entities.CollectionQuran)
}

// AddSurah handles POST /api/admin/quran. The surah number is its id; an attached
// PDF gets its object storage path reserved on the record.
func (cc *CatalogController) AddSurah(c *gin.Context) {
	var req surahRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "number (1-114) and title are required")
		return
	}

	surah := entities.Surah{
		ID:     strconv.Itoa(req.Number),
		Title:  strings.TrimSpace(req.Title),
		Number: req.Number,
		Type:   req.Type,
		Verses: req.Verses,
	}
	switch surah.Type {
	case "":
		surah.Type = entities.SurahTypeMeccan
	case entities.SurahTypeMeccan, entities.SurahTypeMedinan:
	default:
		respondBadRequest(c, "type must be Meccan or Medinan")
		return
	}

	if req.PDF != nil {
		category, err := upload.ParseCategory(req.PDF.Category)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		surah.PDFCategory = string(category)
		surah.PDFPath = upload.ObjectPath(category, req.PDF.Filename, cc.now())
	}

	create(c, cc.client, entities.CollectionQuran, surah)
}

// Videos handles GET /api/admin/videos.
func (cc *CatalogController) Videos(c *gin.Context) {
	list[entities.Video](c, cc.client, entities.CollectionVideos)
}

// AddVideo handles POST /api/admin/videos.
func (cc *CatalogController) AddVideo(c *gin.Context) {
	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title is required")
		return
	}

	video := entities.Video{
		Title:    strings.TrimSpace(req.Title),
		URL:      req.URL,
		Duration: req.Duration,
		Category: req.Category,
	}
	if video.Duration == "" {
		video.Duration = entities.DefaultVideoDuration
	}
	if video.Category == "" {
		video.Category = entities.DefaultVideoCategory
	}
	create(c, cc.client, entities.CollectionVideos, video)
}

// Orders handles GET /api/admin/orders?status=.
func (cc *CatalogController) Orders(c *gin.Context) {
	orders, err := api.ListAs[entities.Order](c.Request.Context(), cc.client, entities.CollectionOrders)
	if err != nil {
		respondDomainError(c, err, "list orders")
		return
	}

	status := entities.OrderStatus(c.Query("status"))
	filtered := make([]entities.Order, 0, len(orders))
	for _, o := range orders {
		if status == "" || o.Status == status {
			filtered = append(filtered, o)
		}
	}
	c.JSON(http.StatusOK, gin.H{"orders": filtered, "total": len(filtered)})
}

// Delete returns a handler for DELETE /api/admin/<collection>/:id.
func (cc *CatalogController) Delete(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		existed, err := cc.client.Delete(c.Request.Context(), collection, c.Param("id"))
		if err != nil {
			respondDomainError(c, err, "delete "+collection)
			return
		}
		if !existed {
			respondNotFound(c, "item")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// list writes every record of collection decoded as T.
func list[T any](c *gin.Context, client *api.Client, collection string) {
	items, err := api.ListAs[T](c.Request.Context(), client, collection)
	if err != nil {
		respondDomainError(c, err, "list "+collection)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// create posts v to collection and answers 201 with the stored record. Records
// without an id get one assigned by the store.
func create(c *gin.Context, client *api.Client, collection string, v any) {
	rec, err := api.Encode(v)
	if err != nil {
		respondInternalError(c, err, "encode "+collection)
		return
	}
	stored, err := client.Post(c.Request.Context(), collection, rec)
	if err != nil {
		respondDomainError(c, err, "create "+collection)
		return
	}
	c.JSON(http.StatusCreated, stored)
}
