package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
	"github.com/rlawlghkd12/tutomate-sub000/internal/dto"
	"github.com/rlawlghkd12/tutomate-sub000/internal/license"
	"github.com/rlawlghkd12/tutomate-sub000/internal/repository"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/logger"
)

const maxMemoLength = 200

var (
	ErrInvalidPlan = errors.New("unknown license plan")
	ErrMemoTooLong = errors.New("memo exceeds maximum length")
)

// LicenseService defines the admin-side key management operations
type LicenseService interface {
	// Generate issues a new license key for the given plan
	Generate(ctx context.Context, req *dto.GenerateLicenseRequest) (*dto.GenerateLicenseResponse, error)
	// List retrieves all issued keys, newest first
	List(ctx context.Context) (*dto.ListLicensesResponse, error)
}

// licenseService implements LicenseService
type licenseService struct {
	keyRepo repository.LicenseKeyRepository
	orgRepo repository.OrganizationRepository
	log     *logger.Logger
}

// NewLicenseService creates a new LicenseService
func NewLicenseService(
	keyRepo repository.LicenseKeyRepository,
	orgRepo repository.OrganizationRepository,
	log *logger.Logger,
) LicenseService {
	if log == nil {
		log = logger.NewNop()
	}
	return &licenseService{
		keyRepo: keyRepo,
		orgRepo: orgRepo,
		log:     log,
	}
}

// Generate issues a new license key. An omitted plan means basic.
func (s *licenseService) Generate(ctx context.Context, req *dto.GenerateLicenseRequest) (*dto.GenerateLicenseResponse, error) {
	plan := req.Plan
	if plan == "" {
		plan = license.PlanBasic
	}
	if !license.ValidPlan(plan) {
		return nil, ErrInvalidPlan
	}
	if len(req.Memo) > maxMemoLength {
		return nil, ErrMemoTooLong
	}

	key, err := license.Generate(plan)
	if err != nil {
		return nil, err
	}

	record := &domain.LicenseKey{
		KeyHash:   license.Hash(key),
		Key:       key,
		Plan:      plan,
		Memo:      req.Memo,
		CreatedAt: time.Now(),
	}
	if err := s.keyRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "license key issued", zap.String("plan", plan))

	return &dto.GenerateLicenseResponse{
		LicenseKey: key,
		Plan:       record.Plan,
		Memo:       record.Memo,
		CreatedAt:  record.CreatedAt,
	}, nil
}

// List retrieves all issued keys, newest first, marking each key that has an
// organization provisioned against it.
func (s *licenseService) List(ctx context.Context) (*dto.ListLicensesResponse, error) {
	records, err := s.keyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	licenses := make([]dto.LicenseKeyInfo, 0, len(records))
	for _, record := range records {
		org, err := s.orgRepo.GetByLicenseKey(ctx, record.Key)
		if err != nil {
			return nil, err
		}
		licenses = append(licenses, dto.LicenseKeyInfo{
			LicenseKey: record.Key,
			Plan:       record.Plan,
			Memo:       record.Memo,
			Activated:  org != nil,
			CreatedAt:  record.CreatedAt,
		})
	}

	return &dto.ListLicensesResponse{
		Licenses: licenses,
		Total:    len(licenses),
	}, nil
}
