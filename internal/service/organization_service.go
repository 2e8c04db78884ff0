package service

import (
	"context"
	"errors"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
	"github.com/rlawlghkd12/tutomate-sub000/internal/license"
	"github.com/rlawlghkd12/tutomate-sub000/internal/repository"
)

var ErrNotActivated = errors.New("user is not bound to an organization")

// OrganizationService resolves the organization context of authenticated
// users. Every data-plane request goes through this resolution; the bound
// organization, not the request body, decides which rows are visible.
type OrganizationService interface {
	// ResolveForUser returns the organization the user is bound to
	ResolveForUser(ctx context.Context, userID string) (*domain.Organization, error)
	// IsAdmin reports whether the user's organization runs on the admin plan
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// organizationService implements OrganizationService
type organizationService struct {
	orgRepo        repository.OrganizationRepository
	membershipRepo repository.MembershipRepository
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(
	orgRepo repository.OrganizationRepository,
	membershipRepo repository.MembershipRepository,
) OrganizationService {
	return &organizationService{
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
	}
}

// ResolveForUser returns the organization the user is bound to
func (s *organizationService) ResolveForUser(ctx context.Context, userID string) (*domain.Organization, error) {
	membership, err := s.membershipRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotActivated
	}

	org, err := s.orgRepo.GetByID(ctx, membership.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrNotActivated
	}
	return org, nil
}

// IsAdmin reports whether the user's organization runs on the admin plan
func (s *organizationService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	org, err := s.ResolveForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotActivated) {
			return false, nil
		}
		return false, err
	}
	return org.Plan == license.PlanAdmin, nil
}
