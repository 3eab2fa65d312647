// Package service answers payment status questions over the access gate
package service

import (
	"context"
	"strings"

	"xfriends/internal/services/access"
	"xfriends/internal/services/api/payment/domain"
)

// Checker is the slice of the access gate this service needs
type Checker interface {
	CheckAccess(ctx context.Context, owner string) (access.Record, error)
}

// Service implements domain.ServicePort
type Service struct {
	gate Checker
}

var _ domain.ServicePort = (*Service)(nil)

// New builds the service
func New(g Checker) *Service { return &Service{gate: g} }

// Check reads the owner's access record and renders the status message
func (s *Service) Check(ctx context.Context, address string) (domain.CheckOutput, error) {
	rec, err := s.gate.CheckAccess(ctx, strings.TrimSpace(address))
	if err != nil {
		return domain.CheckOutput{}, err
	}
	return domain.CheckOutput{
		NeedsPayment: rec.NeedsPayment,
		QueryCount:   rec.QueryCount,
		Message:      access.Message(rec),
	}, nil
}
