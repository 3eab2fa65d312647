// Package domain holds DTOs for the payment check endpoint
package domain

import "context"

// CheckOutput tells the client whether its next query must be paid
type CheckOutput struct {
	NeedsPayment bool   `json:"needsPayment" example:"true"`
	QueryCount   int64  `json:"queryCount"   example:"3"`
	Message      string `json:"message"      example:"This will be query #4. Payment required."`
}

// ServicePort is implemented by the payment service
type ServicePort interface {
	Check(ctx context.Context, address string) (CheckOutput, error)
}
