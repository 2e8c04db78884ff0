package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlawlghkd12/tutomate-sub000/internal/dto"
	"github.com/rlawlghkd12/tutomate-sub000/internal/license"
	"github.com/rlawlghkd12/tutomate-sub000/internal/repository"
)

func newLicenseService() (LicenseService, *repository.MemoryLicenseKeyRepository, *repository.MemoryOrganizationRepository) {
	keyRepo := repository.NewMemoryLicenseKeyRepository()
	orgRepo := repository.NewMemoryOrganizationRepository()
	return NewLicenseService(keyRepo, orgRepo, nil), keyRepo, orgRepo
}

func TestLicenseService_GenerateBasicKey(t *testing.T) {
	svc, keyRepo, _ := newLicenseService()

	resp, err := svc.Generate(context.Background(), &dto.GenerateLicenseRequest{
		Plan: license.PlanBasic,
		Memo: "pilot customer",
	})

	require.NoError(t, err)
	assert.True(t, license.ValidFormat(resp.LicenseKey))
	assert.True(t, strings.HasPrefix(resp.LicenseKey, "TMKH-"))
	assert.Equal(t, "pilot customer", resp.Memo)

	record, err := keyRepo.GetByHash(context.Background(), license.Hash(resp.LicenseKey))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, license.PlanBasic, record.Plan)
}

func TestLicenseService_GenerateDefaultsToBasicPlan(t *testing.T) {
	svc, keyRepo, _ := newLicenseService()

	resp, err := svc.Generate(context.Background(), &dto.GenerateLicenseRequest{Memo: "no plan given"})

	require.NoError(t, err)
	assert.Equal(t, license.PlanBasic, resp.Plan)
	assert.True(t, strings.HasPrefix(resp.LicenseKey, "TMKH-"))

	record, err := keyRepo.GetByHash(context.Background(), license.Hash(resp.LicenseKey))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, license.PlanBasic, record.Plan)
}

func TestLicenseService_GenerateAdminKeyPrefix(t *testing.T) {
	svc, _, _ := newLicenseService()

	resp, err := svc.Generate(context.Background(), &dto.GenerateLicenseRequest{Plan: license.PlanAdmin})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.LicenseKey, "TMKA-"))
}

func TestLicenseService_GenerateRejectsBadInput(t *testing.T) {
	svc, _, _ := newLicenseService()

	_, err := svc.Generate(context.Background(), &dto.GenerateLicenseRequest{Plan: "enterprise"})
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = svc.Generate(context.Background(), &dto.GenerateLicenseRequest{
		Plan: license.PlanBasic,
		Memo: strings.Repeat("x", maxMemoLength+1),
	})
	assert.ErrorIs(t, err, ErrMemoTooLong)
}

func TestLicenseService_ListMarksActivatedKeys(t *testing.T) {
	svc, keyRepo, orgRepo := newLicenseService()

	issued, err := svc.Generate(context.Background(), &dto.GenerateLicenseRequest{Plan: license.PlanBasic})
	require.NoError(t, err)
	_, err = svc.Generate(context.Background(), &dto.GenerateLicenseRequest{Plan: license.PlanBasic})
	require.NoError(t, err)

	// Activate the first key by provisioning an organization against it.
	membershipRepo := repository.NewMemoryMembershipRepository()
	userRepo := repository.NewMemoryUserRepository()
	actSvc := NewActivationService(keyRepo, orgRepo, membershipRepo, userRepo, ActivationConfig{}, nil, nil)
	_, err = actSvc.Activate(context.Background(), "owner-1", &dto.ActivateLicenseRequest{LicenseKey: issued.LicenseKey})
	require.NoError(t, err)

	resp, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)

	activated := 0
	for _, info := range resp.Licenses {
		if info.Activated {
			activated++
			assert.Equal(t, issued.LicenseKey, info.LicenseKey)
		}
	}
	assert.Equal(t, 1, activated)
}
