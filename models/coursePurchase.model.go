package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Purchase lifecycle. A purchase is created pending, flips to completed on a
// verified gateway callback and never reverses. Failed is terminal too.
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
)

// PaymentDetail carries the gateway identifiers captured during verification.
type PaymentDetail struct {
	OrderID    string     `json:"razorpay_order_id"`
	PaymentID  string     `json:"razorpay_payment_id"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

type CoursePurchase struct {
	gorm.Model
	CourseID uint    `gorm:"index;not null" json:"courseId"`
	UserID   uint    `gorm:"index;not null" json:"userId"`
	Amount   float64 `gorm:"not null" json:"amount"`
	Currency string  `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	Status   string  `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	// RAZORPAY for gateway purchases.
	PaymentMethod string `gorm:"type:varchar(30)" json:"paymentMethod"`
	// Holds the gateway order id while pending, replaced by the gateway
	// payment id once the callback verifies.
	PaymentID     string                                `gorm:"index" json:"paymentId"`
	PaymentDetail datatypes.JSONType[PaymentDetail]     `json:"paymentDetail"`
	User          *User                                 `gorm:"foreignKey:UserID" json:"-"`
	Course        *Course                               `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
