package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
	"github.com/tjmun/confreg/internal/pkg/auth"
)

func newConferenceFixture(t *testing.T) (*conferenceServiceImpl, *fakeConferenceRepo, *fakeRegistrationRepo) {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	confs := newFakeConferenceRepo()
	regs := newFakeRegistrationRepo()
	svc := NewConferenceService(confs, regs, loc).(*conferenceServiceImpl)
	svc.now = clock(fixedNow)
	return svc, confs, regs
}

func conferenceRequest(name, slug string) *dto.ConferenceRequest {
	return &dto.ConferenceRequest{
		Name:                  name,
		Slug:                  slug,
		Description:           "年度会议",
		StartDate:             "2025-04-01T09:00",
		EndDate:               "2025-04-03T18:00",
		RegistrationOpenDate:  "2025-03-01T00:00:00",
		RegistrationCloseDate: "2025-03-20T23:59:00+08:00",
		Fee:                   dto.FlexibleFloat(200),
	}
}

func TestConferenceService_CreateParsesDates(t *testing.T) {
	svc, _, _ := newConferenceFixture(t)

	c, err := svc.Create(context.Background(), conferenceRequest("模联大会", "mun-2025"))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 4, 1, 1, 0, 0, 0, time.UTC), c.StartDate.UTC())
	assert.Equal(t, time.Date(2025, 2, 28, 16, 0, 0, 0, time.UTC), c.RegistrationOpenDate.UTC())
	assert.Equal(t, time.Date(2025, 3, 20, 15, 59, 0, 0, time.UTC), c.RegistrationCloseDate.UTC())
	assert.Equal(t, 200.0, c.Fee)
	assert.Nil(t, c.TestPromptURL)
}

func TestConferenceService_CreateRejectsBadDate(t *testing.T) {
	svc, confs, _ := newConferenceFixture(t)
	req := conferenceRequest("模联大会", "mun-2025")
	req.EndDate = "next tuesday"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "无效的日期时间格式")
	assert.Equal(t, "endDate", apperrors.FieldOf(err))
	assert.Empty(t, confs.conferences)
}

func TestConferenceService_DuplicateSlugConflicts(t *testing.T) {
	svc, confs, _ := newConferenceFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, conferenceRequest("模联大会", "mun-2025"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, conferenceRequest("另一个会议", "mun-2025"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, msgConferenceSlugUsed, err.Error())
	assert.Len(t, confs.conferences, 1)

	_, err = svc.Create(ctx, conferenceRequest("模联大会", "other-slug"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Len(t, confs.conferences, 1)
}

func TestConferenceService_UpdateChecksUniquenessExcludingSelf(t *testing.T) {
	svc, confs, _ := newConferenceFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, conferenceRequest("春季会议", "spring"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, conferenceRequest("秋季会议", "autumn"))
	require.NoError(t, err)

	// keeping its own name and slug is fine
	req := conferenceRequest("春季会议", "spring")
	req.Description = "更新后的描述"
	updated, err := svc.Update(ctx, first.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "更新后的描述", updated.Description)

	// taking the other conference's slug is not
	_, err = svc.Update(ctx, first.ID, conferenceRequest("春季会议", "autumn"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := confs.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "autumn", stored.Slug)

	_, err = svc.Update(ctx, 999, conferenceRequest("x", "x"))
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestConferenceService_PublicDetailIncludesOwnRegistration(t *testing.T) {
	svc, _, regs := newConferenceFixture(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, conferenceRequest("模联大会", "mun-2025"))
	require.NoError(t, err)

	detail, err := svc.GetPublicBySlug(ctx, "mun-2025", nil)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationOpen, detail.RegistrationState)
	assert.Nil(t, detail.MyRegistration)

	_, err = regs.Create(ctx, &models.Registration{UserID: 3, ConferenceID: c.ID,
		RegistrationStatus: models.RegistrationApproved, PaymentStatus: models.PaymentPaid})
	require.NoError(t, err)

	detail, err = svc.GetPublicBySlug(ctx, "mun-2025", &auth.Principal{UserID: 3, Role: models.RoleStudent})
	require.NoError(t, err)
	require.NotNil(t, detail.MyRegistration)
	assert.Equal(t, models.RegistrationApproved, detail.MyRegistration.RegistrationStatus)

	detail, err = svc.GetPublicBySlug(ctx, "mun-2025", &auth.Principal{UserID: 4, Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Nil(t, detail.MyRegistration)

	_, err = svc.GetPublicBySlug(ctx, "missing", nil)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
