package models

import "time"

type DocumentReport struct {
	DocumentType      DocumentType `json:"documentType"`
	TotalBorrowed     int64        `json:"totalBorrowed"`
	TotalReturned     int64        `json:"totalReturned"`
	CurrentlyBorrowed int64        `json:"currentlyBorrowed"`
}

type UserBorrowingReport struct {
	UserID            string `json:"userId"`
	UserName          string `json:"userName"`
	TotalBorrowings   int64  `json:"totalBorrowings"`
	OverdueBorrowings int64  `json:"overdueBorrowings"`
}

// OverdueReport.DaysOverdue 是超过阈值的天数，不是借出总天数
type OverdueReport struct {
	BorrowingID  string       `json:"borrowingId"`
	UserID       string       `json:"userId"`
	UserName     string       `json:"userName"`
	DocumentType DocumentType `json:"documentType"`
	DocumentID   string       `json:"documentId"`
	OpenedAt     time.Time    `json:"openedAt"`
	DaysOverdue  int          `json:"daysOverdue"`
}

type DashboardStats struct {
	TotalDocuments    int64 `json:"totalDocuments"`
	TotalUsers        int64 `json:"totalUsers"`
	TotalBorrowings   int64 `json:"totalBorrowings"`
	ActiveBorrowings  int64 `json:"activeBorrowings"`
	OverdueBorrowings int64 `json:"overdueBorrowings"`
}
