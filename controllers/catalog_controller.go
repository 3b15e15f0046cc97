package controllers

import (
	"net/http"

	"land_records_lending/app"
	"land_records_lending/db"
	"land_records_lending/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 创建请求 -> 文档
type catalogInput[T models.CatalogDocument] interface {
	toDocument(id string) T
}

// 更新请求 -> 列名/值
type catalogPatch interface {
	changes() map[string]any
}

type CatalogController[T models.CatalogDocument, C catalogInput[T], U catalogPatch] struct {
	*Srv
	cat *db.Catalog[T]
}

func PropertyBookController(s *Srv) *CatalogController[models.PropertyBook, PropertyBookInput, PropertyBookPatch] {
	return &CatalogController[models.PropertyBook, PropertyBookInput, PropertyBookPatch]{Srv: s, cat: db.PropertyBooks(s.Repo)}
}

func SurveyDeedController(s *Srv) *CatalogController[models.SurveyDeed, SurveyDeedInput, SurveyDeedPatch] {
	return &CatalogController[models.SurveyDeed, SurveyDeedInput, SurveyDeedPatch]{Srv: s, cat: db.SurveyDeeds(s.Repo)}
}

func ArchivalDossierController(s *Srv) *CatalogController[models.ArchivalDossier, ArchivalDossierInput, ArchivalDossierPatch] {
	return &CatalogController[models.ArchivalDossier, ArchivalDossierInput, ArchivalDossierPatch]{Srv: s, cat: db.ArchivalDossiers(s.Repo)}
}

// GET 列表（含可借状态）
func (cc *CatalogController[T, C, U]) List(c *gin.Context) {
	items, err := cc.cat.ListWithAvailability(c.Request.Context())
	if err != nil {
		cc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

func (cc *CatalogController[T, C, U]) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	doc, err := cc.cat.Get(c.Request.Context(), id)
	if err != nil {
		cc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (cc *CatalogController[T, C, U]) Create(c *gin.Context) {
	var in C
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	doc := in.toDocument(uuid.NewString())
	if err := cc.cat.Create(c.Request.Context(), &doc); err != nil {
		cc.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (cc *CatalogController[T, C, U]) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var in U
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	doc, err := cc.cat.Update(c.Request.Context(), id, in.changes())
	if err != nil {
		cc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (cc *CatalogController[T, C, U]) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	deleted, err := cc.cat.Delete(c.Request.Context(), id)
	if err != nil {
		cc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"deleted": deleted})
}

// --- 三种目录的请求体 ---

type PropertyBookInput struct {
	RightNumber string `json:"rightNumber" binding:"required,max=120"`
	OwnerName   string `json:"ownerName" binding:"required"`
	Village     string `json:"village" binding:"required"`
	District    string `json:"district" binding:"required"`
}

func (in PropertyBookInput) toDocument(id string) models.PropertyBook {
	return models.PropertyBook{
		ID:          id,
		RightNumber: in.RightNumber,
		OwnerName:   in.OwnerName,
		Village:     in.Village,
		District:    in.District,
	}
}

type PropertyBookPatch struct {
	RightNumber *string `json:"rightNumber" binding:"omitempty,min=1,max=120"`
	OwnerName   *string `json:"ownerName" binding:"omitempty,min=1"`
	Village     *string `json:"village" binding:"omitempty,min=1"`
	District    *string `json:"district" binding:"omitempty,min=1"`
}

func (p PropertyBookPatch) changes() map[string]any {
	m := map[string]any{}
	setIf(m, "right_number", p.RightNumber)
	setIf(m, "owner_name", p.OwnerName)
	setIf(m, "village", p.Village)
	setIf(m, "district", p.District)
	return m
}

type SurveyDeedInput struct {
	DeedNumber string  `json:"deedNumber" binding:"required,max=120"`
	Year       int     `json:"year" binding:"required,min=1800,max=3000"`
	Area       float64 `json:"area" binding:"required,gt=0"`
	Village    string  `json:"village" binding:"required"`
}

func (in SurveyDeedInput) toDocument(id string) models.SurveyDeed {
	return models.SurveyDeed{
		ID:         id,
		DeedNumber: in.DeedNumber,
		Year:       in.Year,
		Area:       in.Area,
		Village:    in.Village,
	}
}

type SurveyDeedPatch struct {
	DeedNumber *string  `json:"deedNumber" binding:"omitempty,min=1,max=120"`
	Year       *int     `json:"year" binding:"omitempty,min=1800,max=3000"`
	Area       *float64 `json:"area" binding:"omitempty,gt=0"`
	Village    *string  `json:"village" binding:"omitempty,min=1"`
}

func (p SurveyDeedPatch) changes() map[string]any {
	m := map[string]any{}
	setIf(m, "deed_number", p.DeedNumber)
	setIf(m, "year", p.Year)
	setIf(m, "area", p.Area)
	setIf(m, "village", p.Village)
	return m
}

type ArchivalDossierInput struct {
	DossierNumber  string `json:"dossierNumber" binding:"required,max=120"`
	RightNumber    string `json:"rightNumber" binding:"required"`
	Village        string `json:"village" binding:"required"`
	District       string `json:"district" binding:"required"`
	DI208Reference string `json:"di208Reference" binding:"required"`
}

func (in ArchivalDossierInput) toDocument(id string) models.ArchivalDossier {
	return models.ArchivalDossier{
		ID:            id,
		DossierNumber: in.DossierNumber,
		RightNumber:   in.RightNumber,
		Village:       in.Village,
		District:      in.District,
		DI208:         in.DI208Reference,
	}
}

type ArchivalDossierPatch struct {
	DossierNumber  *string `json:"dossierNumber" binding:"omitempty,min=1,max=120"`
	RightNumber    *string `json:"rightNumber" binding:"omitempty,min=1"`
	Village        *string `json:"village" binding:"omitempty,min=1"`
	District       *string `json:"district" binding:"omitempty,min=1"`
	DI208Reference *string `json:"di208Reference" binding:"omitempty,min=1"`
}

func (p ArchivalDossierPatch) changes() map[string]any {
	m := map[string]any{}
	setIf(m, "dossier_number", p.DossierNumber)
	setIf(m, "right_number", p.RightNumber)
	setIf(m, "village", p.Village)
	setIf(m, "district", p.District)
	setIf(m, "di208_reference", p.DI208Reference)
	return m
}

func setIf[V any](m map[string]any, col string, v *V) {
	if v != nil {
		m[col] = *v
	}
}
