package models

import "time"

type Donation struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Amount         float64    `json:"amount"`
	Provider       string     `json:"provider"`
	AccountNumber  string     `json:"account_number"`
	IFSC           string     `json:"ifsc"`
	TransactionRef string     `json:"transaction_ref"`
	InvoicePath    string     `json:"invoice_path"`
	QRPath         string     `json:"qr_path"`
	IsVerified     bool       `json:"is_verified"`
	VerifiedBy     *int       `json:"verified_by,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// DonationFilter — уже распарсенные фильтры для репозитория.
// Текстовые поля матчатся без учёта регистра. EndDate — строгая
// верхняя граница (created_at < EndDate): сервис передаёт начало
// следующего дня, так что выбранный день попадает целиком.
type DonationFilter struct {
	Email     string
	Provider  string
	StartDate *time.Time
	EndDate   *time.Time
}

type DonationSummary struct {
	TotalDonations int         `json:"total_donations"`
	VerifiedCount  int         `json:"verified_count"`
	TotalAmount    float64     `json:"total_amount"`
	AverageAmount  float64     `json:"average_amount"`
	Recent         []*Donation `json:"recent"`
}
