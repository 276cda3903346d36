// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleFarmer   UserRole = "farmer"
	UserRoleInvestor UserRole = "investor"
	UserRoleAdmin    UserRole = "admin"
)

type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusVerified KYCStatus = "verified"
	KYCStatusRejected KYCStatus = "rejected"
)

type FarmStatus string

const (
	FarmStatusPending   FarmStatus = "pending"
	FarmStatusActive    FarmStatus = "active"
	FarmStatusFunded    FarmStatus = "funded"
	FarmStatusCompleted FarmStatus = "completed"
)

type CropType string

const (
	CropTypeCoffee  CropType = "coffee"
	CropTypeMaize   CropType = "maize"
	CropTypeRice    CropType = "rice"
	CropTypeWheat   CropType = "wheat"
	CropTypeAvocado CropType = "avocado"
	CropTypeTea     CropType = "tea"
	CropTypeCocoa   CropType = "cocoa"
	CropTypeOther   CropType = "other"
)

type PaymentMethod string

const (
	PaymentMethodUSD  PaymentMethod = "usd"
	PaymentMethodHBAR PaymentMethod = "hbar"
)

type WithdrawalMethod string

const (
	WithdrawalMethodFiat   WithdrawalMethod = "fiat"
	WithdrawalMethodCrypto WithdrawalMethod = "crypto"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusApproved  WithdrawalStatus = "approved"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
)

// CanTransitionTo reports whether a withdrawal may move from its current
// status to the target status. Only forward transitions are allowed.
func (s WithdrawalStatus) CanTransitionTo(target WithdrawalStatus) bool {
	switch s {
	case WithdrawalStatusPending:
		return target == WithdrawalStatusApproved
	case WithdrawalStatusApproved:
		return target == WithdrawalStatusCompleted
	default:
		return false
	}
}

// CanTransitionTo reports whether a farm may advance to the target status.
// The lifecycle is pending -> active -> funded -> completed, one step at a time.
func (s FarmStatus) CanTransitionTo(target FarmStatus) bool {
	order := map[FarmStatus]int{
		FarmStatusPending:   0,
		FarmStatusActive:    1,
		FarmStatusFunded:    2,
		FarmStatusCompleted: 3,
	}
	from, ok := order[s]
	if !ok {
		return false
	}
	to, ok := order[target]
	if !ok {
		return false
	}
	return to == from+1
}
