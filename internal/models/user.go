// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName    string    `json:"first_name" gorm:"size:30"`
	LastName     string    `json:"last_name" gorm:"size:30"`
	Phone        string    `json:"phone,omitempty" gorm:"size:20"`
	WalletID     string    `json:"wallet_id,omitempty" gorm:"size:100"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         UserRole  `json:"role" gorm:"type:varchar(10);not null;index"`
	KYCStatus    KYCStatus `json:"kyc_status" gorm:"type:varchar(20);default:'pending'"`
	// Private S3 object key; the document itself is only served through
	// short-lived presigned URLs.
	KYCDocumentKey string `json:"-" gorm:"size:500"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Farms       []Farm       `json:"farms,omitempty" gorm:"foreignKey:OwnerID"`
	Investments []Investment `json:"investments,omitempty" gorm:"foreignKey:InvestorID"`
	Withdrawals []Withdrawal `json:"withdrawals,omitempty" gorm:"foreignKey:InvestorID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// Summary is the denormalized user payload returned alongside token pairs.
func (u *User) Summary() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"role":       u.Role,
		"kyc_status": u.KYCStatus,
	}
}
