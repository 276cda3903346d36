// internal/models/farm.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Farm struct {
	BaseModel
	OwnerID        uuid.UUID       `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name           string          `json:"name" gorm:"size:150;not null"`
	ImageURL       string          `json:"image_url,omitempty" gorm:"size:500"`
	Size           decimal.Decimal `json:"size" gorm:"type:decimal(10,2)"` // acres
	CropType       CropType        `json:"crop_type" gorm:"type:varchar(50);index"`
	Location       string          `json:"location" gorm:"size:255"`
	Valuation      decimal.Decimal `json:"valuation" gorm:"type:decimal(15,2);not null"`
	Description    string          `json:"description" gorm:"type:text"`
	TokenID        string          `json:"token_id,omitempty" gorm:"size:50"` // Hedera token ID
	TokenPrice     decimal.Decimal `json:"token_price" gorm:"type:decimal(10,2);default:125.00"`
	Investors      int64           `json:"investors" gorm:"default:0"`
	Raised         decimal.Decimal `json:"raised" gorm:"type:decimal(15,2);default:0"`
	ExpectedROI    float64         `json:"expected_roi" gorm:"default:28.5"`
	Status         FarmStatus      `json:"status" gorm:"type:varchar(50);default:'pending';index"`
	Certifications pq.StringArray  `json:"certifications,omitempty" gorm:"type:text[]"`

	// Relationships
	Owner           User         `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	FarmInvestments []Investment `json:"farm_investments,omitempty" gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE"`
}

// FundingPercent returns raised as a percentage of valuation.
func (f *Farm) FundingPercent() float64 {
	if f.Valuation.IsZero() {
		return 0
	}
	pct, _ := f.Raised.Div(f.Valuation).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
