package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
	"github.com/rlawlghkd12/tutomate-sub000/internal/dto"
	"github.com/rlawlghkd12/tutomate-sub000/internal/license"
	"github.com/rlawlghkd12/tutomate-sub000/internal/repository"
)

// countingKeyRepo wraps a LicenseKeyRepository and counts lookups
type countingKeyRepo struct {
	repository.LicenseKeyRepository
	lookups int
}

func (r *countingKeyRepo) GetByHash(ctx context.Context, keyHash string) (*domain.LicenseKey, error) {
	r.lookups++
	return r.LicenseKeyRepository.GetByHash(ctx, keyHash)
}

type activationFixture struct {
	keyRepo        *countingKeyRepo
	orgRepo        *repository.MemoryOrganizationRepository
	membershipRepo *repository.MemoryMembershipRepository
	userRepo       *repository.MemoryUserRepository
	svc            ActivationService
	licenseSvc     LicenseService
}

func newActivationFixture(t *testing.T, maxSeats int) *activationFixture {
	t.Helper()

	keyRepo := &countingKeyRepo{LicenseKeyRepository: repository.NewMemoryLicenseKeyRepository()}
	orgRepo := repository.NewMemoryOrganizationRepository()
	membershipRepo := repository.NewMemoryMembershipRepository()
	userRepo := repository.NewMemoryUserRepository()

	svc := NewActivationService(keyRepo, orgRepo, membershipRepo, userRepo, ActivationConfig{
		DefaultMaxSeats: maxSeats,
		DefaultOrgName:  "TutoMate",
	}, nil, nil)

	return &activationFixture{
		keyRepo:        keyRepo,
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		svc:            svc,
		licenseSvc:     NewLicenseService(keyRepo, orgRepo, nil),
	}
}

func (f *activationFixture) issueKey(t *testing.T, plan string) string {
	t.Helper()
	resp, err := f.licenseSvc.Generate(context.Background(), &dto.GenerateLicenseRequest{Plan: plan})
	require.NoError(t, err)
	return resp.LicenseKey
}

func (f *activationFixture) newUser(t *testing.T) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, f.userRepo.Create(context.Background(), &domain.User{ID: id, Anonymous: true}))
	return id
}

func TestActivationService_FirstActivationProvisionsOrganization(t *testing.T) {
	f := newActivationFixture(t, 5)
	key := f.issueKey(t, license.PlanBasic)
	userID := f.newUser(t)

	resp, err := f.svc.Activate(context.Background(), userID, &dto.ActivateLicenseRequest{
		LicenseKey: key,
		DeviceID:   "device-1",
	})

	require.NoError(t, err)
	assert.True(t, resp.IsNewOrg)
	assert.Equal(t, license.PlanBasic, resp.Plan)
	assert.NotEmpty(t, resp.OrganizationID)

	org, err := f.orgRepo.GetByID(context.Background(), resp.OrganizationID)
	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, 5, org.MaxSeats)

	m, err := f.membershipRepo.GetByUser(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, domain.RoleOwner, m.Role)
}

func TestActivationService_SecondUserJoinsAsMember(t *testing.T) {
	f := newActivationFixture(t, 5)
	key := f.issueKey(t, license.PlanBasic)

	owner := f.newUser(t)
	first, err := f.svc.Activate(context.Background(), owner, &dto.ActivateLicenseRequest{LicenseKey: key})
	require.NoError(t, err)

	member := f.newUser(t)
	second, err := f.svc.Activate(context.Background(), member, &dto.ActivateLicenseRequest{
		LicenseKey: key,
		DeviceID:   "device-2",
	})

	require.NoError(t, err)
	assert.False(t, second.IsNewOrg)
	assert.Equal(t, first.OrganizationID, second.OrganizationID)

	m, err := f.membershipRepo.GetByUser(context.Background(), member)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, domain.RoleMember, m.Role)
	assert.Equal(t, "device-2", m.DeviceID)
}

func TestActivationService_ReactivationIsIdempotent(t *testing.T) {
	f := newActivationFixture(t, 5)
	key := f.issueKey(t, license.PlanBasic)
	userID := f.newUser(t)

	first, err := f.svc.Activate(context.Background(), userID, &dto.ActivateLicenseRequest{LicenseKey: key})
	require.NoError(t, err)
	assert.True(t, first.IsNewOrg)

	second, err := f.svc.Activate(context.Background(), userID, &dto.ActivateLicenseRequest{LicenseKey: key})
	require.NoError(t, err)
	assert.False(t, second.IsNewOrg)
	assert.Equal(t, first.OrganizationID, second.OrganizationID)

	count, err := f.membershipRepo.CountByOrganization(context.Background(), first.OrganizationID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestActivationService_InvalidFormatRejectedBeforeLookup(t *testing.T) {
	f := newActivationFixture(t, 5)

	cases := []string{
		"TMKX-AAAA-AAAA-AAAA",
		"TMKH-AAA-AAAA-AAAA",
		"not a key",
		"",
	}
	for _, input := range cases {
		_, err := f.svc.Activate(context.Background(), "user-1", &dto.ActivateLicenseRequest{LicenseKey: input})
		assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", input)
	}

	assert.Equal(t, 0, f.keyRepo.lookups, "malformed keys must never reach the key table")
}

func TestActivationService_WellFormedUnknownKeyRejected(t *testing.T) {
	f := newActivationFixture(t, 5)

	_, err := f.svc.Activate(context.Background(), "user-1", &dto.ActivateLicenseRequest{
		LicenseKey: "TMKH-AAAA-BBBB-CCCC",
	})

	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Equal(t, 1, f.keyRepo.lookups)
}

func TestActivationService_UnauthenticatedCallerRejected(t *testing.T) {
	f := newActivationFixture(t, 5)
	key := f.issueKey(t, license.PlanBasic)

	_, err := f.svc.Activate(context.Background(), "", &dto.ActivateLicenseRequest{LicenseKey: key})

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestActivationService_SeatCapEnforced(t *testing.T) {
	f := newActivationFixture(t, 2)
	key := f.issueKey(t, license.PlanBasic)

	for i := 0; i < 2; i++ {
		userID := f.newUser(t)
		_, err := f.svc.Activate(context.Background(), userID, &dto.ActivateLicenseRequest{
			LicenseKey: key,
			DeviceID:   fmt.Sprintf("device-%d", i),
		})
		require.NoError(t, err)
	}

	extra := f.newUser(t)
	_, err := f.svc.Activate(context.Background(), extra, &dto.ActivateLicenseRequest{
		LicenseKey: key,
		DeviceID:   "device-extra",
	})

	assert.ErrorIs(t, err, ErrMaxSeatsReached)
}

func TestActivationService_DeviceReassignmentDoesNotConsumeSeat(t *testing.T) {
	f := newActivationFixture(t, 1)
	key := f.issueKey(t, license.PlanBasic)

	oldUser := f.newUser(t)
	first, err := f.svc.Activate(context.Background(), oldUser, &dto.ActivateLicenseRequest{
		LicenseKey: key,
		DeviceID:   "shared-device",
	})
	require.NoError(t, err)

	// Same device, fresh identity: the binding moves instead of a new
	// seat being consumed, even though the organization is full.
	newUser := f.newUser(t)
	second, err := f.svc.Activate(context.Background(), newUser, &dto.ActivateLicenseRequest{
		LicenseKey: key,
		DeviceID:   "shared-device",
	})
	require.NoError(t, err)
	assert.Equal(t, first.OrganizationID, second.OrganizationID)
	assert.False(t, second.IsNewOrg)

	count, err := f.membershipRepo.CountByOrganization(context.Background(), first.OrganizationID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	m, err := f.membershipRepo.GetByOrgAndDevice(context.Background(), first.OrganizationID, "shared-device")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, newUser, m.UserID)

	// The orphaned anonymous identity is cleaned up.
	orphan, err := f.userRepo.GetByID(context.Background(), oldUser)
	require.NoError(t, err)
	assert.Nil(t, orphan)
}

func TestActivationService_OwnerDeviceWithoutDeviceIDStillBinds(t *testing.T) {
	f := newActivationFixture(t, 5)
	key := f.issueKey(t, license.PlanBasic)
	userID := f.newUser(t)

	resp, err := f.svc.Activate(context.Background(), userID, &dto.ActivateLicenseRequest{LicenseKey: key})

	require.NoError(t, err)
	assert.True(t, resp.IsNewOrg)
}

func TestActivationService_UserBoundToOtherOrgRejected(t *testing.T) {
	f := newActivationFixture(t, 5)
	keyA := f.issueKey(t, license.PlanBasic)
	keyB := f.issueKey(t, license.PlanBasic)

	userID := f.newUser(t)
	_, err := f.svc.Activate(context.Background(), userID, &dto.ActivateLicenseRequest{LicenseKey: keyA})
	require.NoError(t, err)

	otherOwner := f.newUser(t)
	_, err = f.svc.Activate(context.Background(), otherOwner, &dto.ActivateLicenseRequest{LicenseKey: keyB})
	require.NoError(t, err)

	_, err = f.svc.Activate(context.Background(), userID, &dto.ActivateLicenseRequest{LicenseKey: keyB})
	assert.ErrorIs(t, err, ErrAlreadyActivated)
}

func TestActivationService_ConcurrentActivationsNeverOversubscribe(t *testing.T) {
	const maxSeats = 3
	const contenders = 20

	f := newActivationFixture(t, maxSeats)
	key := f.issueKey(t, license.PlanBasic)

	owner := f.newUser(t)
	resp, err := f.svc.Activate(context.Background(), owner, &dto.ActivateLicenseRequest{LicenseKey: key})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		userID := f.newUser(t)
		deviceID := fmt.Sprintf("device-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Activate(context.Background(), userID, &dto.ActivateLicenseRequest{
				LicenseKey: key,
				DeviceID:   deviceID,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrMaxSeatsReached)
		}
	}
	assert.Equal(t, maxSeats-1, succeeded)

	count, err := f.membershipRepo.CountByOrganization(context.Background(), resp.OrganizationID)
	require.NoError(t, err)
	assert.Equal(t, maxSeats, count)
}
