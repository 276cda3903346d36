// internal/models/investment.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Investment is the single ledger row per (investor, farm) pair. Repeated
// contributions accumulate into the same row instead of creating duplicates.
type Investment struct {
	BaseModel
	InvestorID      uuid.UUID       `json:"investor_id" gorm:"type:uuid;not null;uniqueIndex:idx_investor_farm"`
	FarmID          uuid.UUID       `json:"farm_id" gorm:"type:uuid;not null;uniqueIndex:idx_investor_farm;index"`
	Tokens          int64           `json:"tokens" gorm:"not null"`
	Invested        decimal.Decimal `json:"invested" gorm:"type:decimal(15,2);not null"`
	CurrentValue    decimal.Decimal `json:"current_value" gorm:"type:decimal(15,2)"`
	ROI             float64         `json:"roi" gorm:"default:28.5"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"type:varchar(10)"`
	TransactionHash string          `json:"transaction_hash,omitempty" gorm:"size:100"`

	// Relationships
	Investor   User        `json:"investor,omitempty" gorm:"foreignKey:InvestorID"`
	Farm       Farm        `json:"farm,omitempty" gorm:"foreignKey:FarmID"`
	ROIRecords []ROIRecord `json:"roi_records,omitempty" gorm:"foreignKey:InvestmentID;constraint:OnDelete:CASCADE"`
}

// ROIRecord is an append-only payout entry tied to an investment.
type ROIRecord struct {
	BaseModel
	InvestmentID uuid.UUID       `json:"investment_id" gorm:"type:uuid;not null;index"`
	ROIAmount    decimal.Decimal `json:"roi_amount" gorm:"type:decimal(15,2);not null"`
	TxHash       string          `json:"tx_hash,omitempty" gorm:"size:255"`

	// Relationships
	Investment Investment `json:"investment,omitempty" gorm:"foreignKey:InvestmentID"`
}
