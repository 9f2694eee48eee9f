package profile

import (
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentDisabled PaymentStatus = "disabled"
)

// Profile is the account row the purchase-to-session handoff operates on.
// The login token triple is minted by the payment flow and consumed exactly
// once by the handoff; the handoff never clears or re-arms it.
type Profile struct {
	gorm.Model
	Email             string        `json:"email" gorm:"uniqueIndex;not null"`
	Name              string        `json:"name"`
	Password          string        `json:"-"`
	PaymentStatus     PaymentStatus `json:"payment_status" gorm:"size:10;not null;default:'pending';index"`
	PaidAt            *time.Time    `json:"paid_at,omitempty" gorm:"index"`
	OrderReference    string        `json:"-" gorm:"index"`
	LoginToken        *string       `json:"-" gorm:"uniqueIndex"`
	LoginTokenExpires *time.Time    `json:"-"`
	LoginTokenUsed    bool          `json:"-" gorm:"default:false"`
	LoginTokenUsedAt  *time.Time    `json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) HasPassword() bool {
	return p.Password != ""
}

func (p *Profile) TokenExpired(now time.Time) bool {
	return p.LoginTokenExpires == nil || !now.Before(*p.LoginTokenExpires)
}
