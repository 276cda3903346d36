// internal/models/withdrawal.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Withdrawal struct {
	BaseModel
	InvestorID  uuid.UUID        `json:"investor_id" gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal  `json:"amount" gorm:"type:decimal(15,2);not null"`
	Method      WithdrawalMethod `json:"method" gorm:"type:varchar(10);not null"`
	Status      WithdrawalStatus `json:"status" gorm:"type:varchar(10);default:'pending';index"`
	TxHash      string           `json:"tx_hash,omitempty" gorm:"size:255"`
	ApprovedBy  *uuid.UUID       `json:"approved_by,omitempty" gorm:"type:uuid"`
	ApprovedAt  *time.Time       `json:"approved_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`

	// Relationships
	Investor User  `json:"investor,omitempty" gorm:"foreignKey:InvestorID"`
	Approver *User `json:"approver,omitempty" gorm:"foreignKey:ApprovedBy"`
}
