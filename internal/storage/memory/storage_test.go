package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lifecompass/attribution/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Device identity tests

func (s *StorageSuite) TestGetDeviceIdentityNotFound() {
	_, err := s.storage.GetDeviceIdentity(s.ctx)
	s.ErrorIs(err, model.ErrIdentityNotFound)
}

func (s *StorageSuite) TestSaveAndGetDeviceIdentity() {
	err := s.storage.SaveDeviceIdentity(s.ctx, "device-1")
	s.Require().NoError(err)

	id, err := s.storage.GetDeviceIdentity(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.DeviceIdentity("device-1"), id)
}

// Pending referral tests

func (s *StorageSuite) TestGetPendingReferralNotFound() {
	_, err := s.storage.GetPendingReferral(s.ctx)
	s.ErrorIs(err, model.ErrNoPendingReferral)
}

func (s *StorageSuite) TestSaveAndGetPendingReferral() {
	pending := &model.PendingReferral{
		ReferralCode:   "USER-1",
		Source:         model.SourceDeepLink,
		DeviceIdentity: "device-1",
		CreatedAt:      time.Now(),
	}

	err := s.storage.SavePendingReferral(s.ctx, pending)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPendingReferral(s.ctx)
	s.Require().NoError(err)
	s.Equal("USER-1", retrieved.ReferralCode)
	s.Equal(model.SourceDeepLink, retrieved.Source)
}

func (s *StorageSuite) TestSavePendingReferralReplaces() {
	_ = s.storage.SavePendingReferral(s.ctx, &model.PendingReferral{ReferralCode: "A"})
	_ = s.storage.SavePendingReferral(s.ctx, &model.PendingReferral{ReferralCode: "B"})

	retrieved, err := s.storage.GetPendingReferral(s.ctx)
	s.Require().NoError(err)
	s.Equal("B", retrieved.ReferralCode)
}

func (s *StorageSuite) TestTakePendingReferralRemovesRecord() {
	_ = s.storage.SavePendingReferral(s.ctx, &model.PendingReferral{ReferralCode: "A"})

	taken, err := s.storage.TakePendingReferral(s.ctx)
	s.Require().NoError(err)
	s.Equal("A", taken.ReferralCode)

	_, err = s.storage.GetPendingReferral(s.ctx)
	s.ErrorIs(err, model.ErrNoPendingReferral)
}

func (s *StorageSuite) TestTakePendingReferralSucceedsOnce() {
	_ = s.storage.SavePendingReferral(s.ctx, &model.PendingReferral{ReferralCode: "A"})

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan *model.PendingReferral, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if taken, err := s.storage.TakePendingReferral(s.ctx); err == nil {
				results <- taken
			}
		}()
	}
	wg.Wait()
	close(results)

	s.Len(results, 1)
}

func (s *StorageSuite) TestDeletePendingReferralIsIdempotent() {
	s.NoError(s.storage.DeletePendingReferral(s.ctx))

	_ = s.storage.SavePendingReferral(s.ctx, &model.PendingReferral{ReferralCode: "A"})
	s.NoError(s.storage.DeletePendingReferral(s.ctx))
	s.NoError(s.storage.DeletePendingReferral(s.ctx))

	_, err := s.storage.GetPendingReferral(s.ctx)
	s.ErrorIs(err, model.ErrNoPendingReferral)
}

// Completed referral log tests

func (s *StorageSuite) TestCompletedReferralsStartEmpty() {
	completed, err := s.storage.GetCompletedReferrals(s.ctx)
	s.Require().NoError(err)
	s.Empty(completed)
}

func (s *StorageSuite) TestAppendCompletedReferralPreservesOrder() {
	_ = s.storage.AppendCompletedReferral(s.ctx, &model.CompletedReferral{ReferralCode: "first"})
	_ = s.storage.AppendCompletedReferral(s.ctx, &model.CompletedReferral{ReferralCode: "second"})

	completed, err := s.storage.GetCompletedReferrals(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(completed, 2)
	s.Equal("first", completed[0].ReferralCode)
	s.Equal("second", completed[1].ReferralCode)
}

// Notification tests

func (s *StorageSuite) TestMarkNotificationRead() {
	_ = s.storage.AppendNotification(s.ctx, &model.ReferralNotification{ID: "n-1"})
	_ = s.storage.AppendNotification(s.ctx, &model.ReferralNotification{ID: "n-2"})

	err := s.storage.MarkNotificationRead(s.ctx, "n-1")
	s.Require().NoError(err)

	notifications, err := s.storage.GetNotifications(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(notifications, 2)
	s.True(notifications[0].Read)
	s.False(notifications[1].Read)
}

func (s *StorageSuite) TestMarkNotificationReadNotFound() {
	err := s.storage.MarkNotificationRead(s.ctx, "missing")
	s.ErrorIs(err, model.ErrNotificationNotFound)
}

// Entered code tests

func (s *StorageSuite) TestTakeEnteredCodeSucceedsOnce() {
	_ = s.storage.SaveEnteredCode(s.ctx, "FRIEND-1")

	code, err := s.storage.TakeEnteredCode(s.ctx)
	s.Require().NoError(err)
	s.Equal("FRIEND-1", code)

	_, err = s.storage.TakeEnteredCode(s.ctx)
	s.ErrorIs(err, model.ErrNoEnteredCode)
}

// Founder assignment tests

func (s *StorageSuite) TestGetFounderAssignmentNotFound() {
	_, err := s.storage.GetFounderAssignment(s.ctx)
	s.ErrorIs(err, model.ErrNoAssignment)
}

func (s *StorageSuite) TestSaveAndGetFounderAssignment() {
	assignment := &model.FounderAssignment{
		FounderCode:    "FOUNDER-001",
		DeviceIdentity: "device-1",
		AssignedAt:     time.Now(),
	}

	err := s.storage.SaveFounderAssignment(s.ctx, assignment)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetFounderAssignment(s.ctx)
	s.Require().NoError(err)
	s.Equal("FOUNDER-001", retrieved.FounderCode)
}
