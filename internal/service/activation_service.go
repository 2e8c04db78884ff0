package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
	"github.com/rlawlghkd12/tutomate-sub000/internal/dto"
	"github.com/rlawlghkd12/tutomate-sub000/internal/license"
	"github.com/rlawlghkd12/tutomate-sub000/internal/repository"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/logger"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/telemetry"
)

var (
	ErrInvalidFormat     = errors.New("license key format is invalid")
	ErrInvalidKey        = errors.New("license key does not exist")
	ErrUnauthorized      = errors.New("caller is not authenticated")
	ErrMaxSeatsReached   = errors.New("organization has no free seats")
	ErrLinkFailed        = errors.New("failed to link user to organization")
	ErrOrgCreationFailed = errors.New("failed to create organization")
	ErrAlreadyActivated  = errors.New("user already belongs to a different organization")
)

// ActivationConfig carries provisioning defaults for first-time activations
type ActivationConfig struct {
	DefaultMaxSeats int
	DefaultOrgName  string
}

// ActivationService defines the license activation operations
type ActivationService interface {
	// Activate runs the activation protocol for an authenticated user
	Activate(ctx context.Context, userID string, req *dto.ActivateLicenseRequest) (*dto.ActivateLicenseResponse, error)
}

// activationService implements ActivationService
type activationService struct {
	keyRepo        repository.LicenseKeyRepository
	orgRepo        repository.OrganizationRepository
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	cfg            ActivationConfig
	log            *logger.Logger
	metrics        *telemetry.ActivationMetrics

	// orgLocks serializes the seat check and membership insert per
	// organization so that concurrent activations cannot both pass the
	// seat check and oversubscribe.
	orgLocks sync.Map // orgID -> *sync.Mutex
}

// NewActivationService creates a new ActivationService
func NewActivationService(
	keyRepo repository.LicenseKeyRepository,
	orgRepo repository.OrganizationRepository,
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	cfg ActivationConfig,
	log *logger.Logger,
	metrics *telemetry.ActivationMetrics,
) ActivationService {
	if cfg.DefaultMaxSeats <= 0 {
		cfg.DefaultMaxSeats = 5
	}
	if cfg.DefaultOrgName == "" {
		cfg.DefaultOrgName = "TutoMate"
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &activationService{
		keyRepo:        keyRepo,
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		cfg:            cfg,
		log:            log,
		metrics:        metrics,
	}
}

// Activate runs the activation protocol:
// format check, key lookup, organization resolution, then either a device
// reassignment, a seat-checked join, or first-time provisioning.
func (s *activationService) Activate(ctx context.Context, userID string, req *dto.ActivateLicenseRequest) (*dto.ActivateLicenseResponse, error) {
	s.metrics.RecordAttempt(ctx)

	// The format gate runs before any storage access so that malformed
	// input never reaches the key table.
	key := license.Normalize(req.LicenseKey)
	if !license.ValidFormat(key) {
		s.metrics.RecordRejection(ctx, "invalid_format")
		return nil, ErrInvalidFormat
	}

	record, err := s.keyRepo.GetByHash(ctx, license.Hash(key))
	if err != nil {
		return nil, err
	}
	if record == nil {
		s.metrics.RecordRejection(ctx, "invalid_key")
		return nil, ErrInvalidKey
	}

	if userID == "" {
		s.metrics.RecordRejection(ctx, "unauthorized")
		return nil, ErrUnauthorized
	}

	org, err := s.orgRepo.GetByLicenseKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if org == nil {
		return s.provision(ctx, userID, key, record)
	}

	return s.join(ctx, userID, req.DeviceID, org)
}

// provision creates the organization for a first-time key activation and
// binds the activating user as its owner.
func (s *activationService) provision(ctx context.Context, userID, key string, record *domain.LicenseKey) (*dto.ActivateLicenseResponse, error) {
	now := time.Now()
	org := &domain.Organization{
		ID:         uuid.New().String(),
		LicenseKey: key,
		Name:       s.cfg.DefaultOrgName,
		Plan:       record.Plan,
		MaxSeats:   s.cfg.DefaultMaxSeats,
		CreatedAt:  now,
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		// A concurrent activation may have provisioned the key first;
		// fall back to joining that organization.
		existing, lookupErr := s.orgRepo.GetByLicenseKey(ctx, key)
		if lookupErr == nil && existing != nil {
			return s.join(ctx, userID, "", existing)
		}
		s.log.ErrorContext(ctx, "organization provisioning failed", zap.Error(err))
		s.metrics.RecordRejection(ctx, "org_creation_failed")
		return nil, ErrOrgCreationFailed
	}

	membership := &domain.Membership{
		UserID:         userID,
		OrganizationID: org.ID,
		Role:           domain.RoleOwner,
		CreatedAt:      now,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		s.log.ErrorContext(ctx, "owner binding failed",
			zap.String("organization_id", org.ID), zap.Error(err))
		s.metrics.RecordRejection(ctx, "link_failed")
		return nil, ErrLinkFailed
	}

	s.log.InfoContext(ctx, "organization provisioned",
		zap.String("organization_id", org.ID), zap.String("plan", org.Plan))
	s.metrics.RecordSuccess(ctx, true)

	return &dto.ActivateLicenseResponse{
		OrganizationID: org.ID,
		IsNewOrg:       true,
		Plan:           org.Plan,
	}, nil
}

// join attaches the user to an existing organization, preferring device
// reassignment over consuming a fresh seat.
func (s *activationService) join(ctx context.Context, userID, deviceID string, org *domain.Organization) (*dto.ActivateLicenseResponse, error) {
	// Re-activation from a user already bound to this organization is a
	// no-op success.
	existing, err := s.membershipRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.OrganizationID != org.ID {
			s.metrics.RecordRejection(ctx, "already_activated")
			return nil, ErrAlreadyActivated
		}
		s.metrics.RecordSuccess(ctx, false)
		return &dto.ActivateLicenseResponse{
			OrganizationID: org.ID,
			IsNewOrg:       false,
			Plan:           org.Plan,
		}, nil
	}

	if deviceID != "" {
		resp, handled, err := s.reassign(ctx, userID, deviceID, org)
		if handled || err != nil {
			return resp, err
		}
	}

	unlock := s.lockOrg(org.ID)
	defer unlock()

	count, err := s.membershipRepo.CountByOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	if count >= org.MaxSeats {
		s.metrics.RecordRejection(ctx, "max_seats_reached")
		return nil, ErrMaxSeatsReached
	}

	membership := &domain.Membership{
		UserID:         userID,
		OrganizationID: org.ID,
		Role:           domain.RoleMember,
		DeviceID:       deviceID,
		CreatedAt:      time.Now(),
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		s.log.ErrorContext(ctx, "member binding failed",
			zap.String("organization_id", org.ID), zap.Error(err))
		s.metrics.RecordRejection(ctx, "link_failed")
		return nil, ErrLinkFailed
	}

	s.metrics.RecordSuccess(ctx, false)
	return &dto.ActivateLicenseResponse{
		OrganizationID: org.ID,
		IsNewOrg:       false,
		Plan:           org.Plan,
	}, nil
}

// reassign rebinds an already-claimed device to the activating user without
// consuming a seat. Returns handled=false when no binding exists for the
// device, in which case the caller falls through to the seat-checked join.
func (s *activationService) reassign(ctx context.Context, userID, deviceID string, org *domain.Organization) (*dto.ActivateLicenseResponse, bool, error) {
	oldUserID, err := s.membershipRepo.ReassignDevice(ctx, org.ID, deviceID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBindingNotFound) {
			return nil, false, nil
		}
		return nil, true, err
	}

	// The previous anonymous identity is orphaned once its binding moves;
	// dropping it keeps the seat count honest. Cleanup failure is logged
	// and tolerated.
	if oldUserID != "" && oldUserID != userID {
		old, err := s.userRepo.GetByID(ctx, oldUserID)
		if err == nil && old != nil && old.Anonymous {
			if err := s.userRepo.Delete(ctx, oldUserID); err != nil {
				s.log.WarnContext(ctx, "orphaned user cleanup failed",
					zap.String("user_id", oldUserID), zap.Error(err))
			}
		}
	}

	s.log.InfoContext(ctx, "device reassigned",
		zap.String("organization_id", org.ID), zap.String("device_id", deviceID))
	s.metrics.RecordSuccess(ctx, false)

	return &dto.ActivateLicenseResponse{
		OrganizationID: org.ID,
		IsNewOrg:       false,
		Plan:           org.Plan,
	}, true, nil
}

// lockOrg acquires the per-organization mutex and returns its unlock func
func (s *activationService) lockOrg(orgID string) func() {
	v, _ := s.orgLocks.LoadOrStore(orgID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
