// models/document.go
package models

import "time"

const (
	PropertyBookTable    = "lr_property_books"
	SurveyDeedTable      = "lr_survey_deeds"
	ArchivalDossierTable = "lr_archival_dossiers"
)

type DocumentType string

const (
	DocPropertyBook    DocumentType = "property_book"    // buku tanah
	DocSurveyDeed      DocumentType = "survey_deed"      // surat ukur
	DocArchivalDossier DocumentType = "archival_dossier" // warkah
)

// DocumentTypes 固定顺序，报表按此顺序输出
var DocumentTypes = []DocumentType{DocPropertyBook, DocSurveyDeed, DocArchivalDossier}

func (t DocumentType) Valid() bool {
	switch t {
	case DocPropertyBook, DocSurveyDeed, DocArchivalDossier:
		return true
	}
	return false
}

// Table returns the catalog table that stores documents of this type.
func (t DocumentType) Table() string {
	switch t {
	case DocPropertyBook:
		return PropertyBookTable
	case DocSurveyDeed:
		return SurveyDeedTable
	case DocArchivalDossier:
		return ArchivalDossierTable
	}
	return ""
}

// DocumentRef points at one row in one of the three catalogs.
type DocumentRef struct {
	Type DocumentType `json:"documentType"`
	ID   string       `json:"documentId"`
}

// CatalogDocument is satisfied by the three catalog models only.
type CatalogDocument interface {
	PropertyBook | SurveyDeed | ArchivalDossier
	DocType() DocumentType
	CodeColumn() string
	UniqueCode() string
	Key() string
}

type PropertyBook struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	RightNumber string    `gorm:"size:120;uniqueIndex;not null" json:"rightNumber"` // 唯一编号（nomor hak）
	OwnerName   string    `gorm:"size:255;not null" json:"ownerName"`
	Village     string    `gorm:"size:120;not null" json:"village"`
	District    string    `gorm:"size:120;not null" json:"district"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type SurveyDeed struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	DeedNumber string    `gorm:"size:120;uniqueIndex;not null" json:"deedNumber"` // nomor SU
	Year       int       `gorm:"not null" json:"year"`
	Area       float64   `gorm:"type:numeric(12,2);not null" json:"area"` // m²
	Village    string    `gorm:"size:120;not null" json:"village"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type ArchivalDossier struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	DossierNumber string    `gorm:"size:120;uniqueIndex;not null" json:"dossierNumber"`
	RightNumber   string    `gorm:"size:120;not null;index" json:"rightNumber"`
	Village       string    `gorm:"size:120;not null" json:"village"`
	District      string    `gorm:"size:120;not null" json:"district"`
	DI208         string    `gorm:"column:di208_reference;size:120;not null" json:"di208Reference"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (PropertyBook) TableName() string    { return PropertyBookTable }
func (SurveyDeed) TableName() string      { return SurveyDeedTable }
func (ArchivalDossier) TableName() string { return ArchivalDossierTable }

func (PropertyBook) DocType() DocumentType    { return DocPropertyBook }
func (SurveyDeed) DocType() DocumentType      { return DocSurveyDeed }
func (ArchivalDossier) DocType() DocumentType { return DocArchivalDossier }

func (PropertyBook) CodeColumn() string    { return "right_number" }
func (SurveyDeed) CodeColumn() string      { return "deed_number" }
func (ArchivalDossier) CodeColumn() string { return "dossier_number" }

func (d PropertyBook) UniqueCode() string    { return d.RightNumber }
func (d SurveyDeed) UniqueCode() string      { return d.DeedNumber }
func (d ArchivalDossier) UniqueCode() string { return d.DossierNumber }

func (d PropertyBook) Key() string    { return d.ID }
func (d SurveyDeed) Key() string      { return d.ID }
func (d ArchivalDossier) Key() string { return d.ID }
