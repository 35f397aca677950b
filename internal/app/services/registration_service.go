package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/app/repositories"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
	"github.com/tjmun/confreg/internal/pkg/auth"
	"github.com/tjmun/confreg/internal/pkg/filestorage"
	"github.com/tjmun/confreg/internal/pkg/helpers"
	"github.com/tjmun/confreg/internal/pkg/logger"
)

const (
	msgRegistrationNotOpen   = "报名尚未开始"
	msgRegistrationClosed    = "报名已结束"
	msgAlreadyRegistered     = "您已经报名过本次会议"
	msgRegistrationNotFound  = "报名记录不存在"
	msgNotRegistered         = "您尚未报名本次会议"
	msgTestNotRequired       = "本会议不需要提交学术测试"
	msgUnsupportedTestFormat = "仅支持 PDF、Word、JPG、PNG 格式的文件"
	msgEmptyTestFile         = "请选择要上传的文件"
	msgInvalidScore          = "分数必须在0到100之间"

	testUploadSubPath = "tests"
)

// acceptedTestTypes maps accepted MIME types to the stored file extension
var acceptedTestTypes = []struct {
	mime string
	ext  string
}{
	{"application/pdf", "pdf"},
	{"application/msword", "doc"},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "docx"},
	{"image/jpeg", "jpg"},
	{"image/png", "png"},
}

// genericContainers are sniffed types too coarse to decide on; the declared
// Content-Type is consulted instead.
var genericContainers = []string{
	"application/zip",
	"application/x-ole-storage",
	"application/octet-stream",
}

// TestUpload is an academic test document received from a registrant
type TestUpload struct {
	Filename     string
	DeclaredType string
	Size         int64
	Content      io.Reader
}

// RegistrationService defines the registration workflow
type RegistrationService interface {
	Create(ctx context.Context, principal auth.Principal, conferenceID int64) (*models.Registration, error)
	ListMine(ctx context.Context, principal auth.Principal) ([]*models.Registration, error)
	List(ctx context.Context, filter models.RegistrationFilter) ([]*models.Registration, int64, error)
	SetStatus(ctx context.Context, id int64, status string) (*models.Registration, error)
	SetPayment(ctx context.Context, id int64, status string, transactionID *string) (*models.Registration, error)
	SetTestScore(ctx context.Context, id int64, score int) (*models.Registration, error)
	SubmitAcademicTest(ctx context.Context, principal auth.Principal, conferenceID int64, upload TestUpload) (*dto.UploadTestResponse, error)
}

type registrationServiceImpl struct {
	registrationRepo repositories.IRegistrationRepository
	conferenceRepo   repositories.IConferenceRepository
	storage          filestorage.FileStorage
	maxTestFileSize  int64
	now              func() time.Time
}

// NewRegistrationService creates a new registration service instance
func NewRegistrationService(
	registrationRepo repositories.IRegistrationRepository,
	conferenceRepo repositories.IConferenceRepository,
	storage filestorage.FileStorage,
	maxTestFileSize int64,
) RegistrationService {
	return &registrationServiceImpl{
		registrationRepo: registrationRepo,
		conferenceRepo:   conferenceRepo,
		storage:          storage,
		maxTestFileSize:  maxTestFileSize,
		now:              time.Now,
	}
}

func (s *registrationServiceImpl) loadConference(ctx context.Context, id int64) (*models.Conference, error) {
	c, err := s.conferenceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError(msgConferenceNotFound)
		}
		return nil, fmt.Errorf("error loading conference: %w", err)
	}
	return c, nil
}

func (s *registrationServiceImpl) Create(ctx context.Context, principal auth.Principal, conferenceID int64) (*models.Registration, error) {
	c, err := s.loadConference(ctx, conferenceID)
	if err != nil {
		return nil, err
	}

	// An existing registration wins over the window state
	_, err = s.registrationRepo.GetByUserAndConference(ctx, principal.UserID, conferenceID)
	switch {
	case err == nil:
		return nil, apperrors.NewConflictError(msgAlreadyRegistered)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("error checking registration: %w", err)
	}

	switch c.RegistrationStateAt(s.now()) {
	case models.RegistrationNotOpen:
		return nil, apperrors.NewInvalidStateError(msgRegistrationNotOpen)
	case models.RegistrationClosed:
		return nil, apperrors.NewInvalidStateError(msgRegistrationClosed)
	case models.RegistrationOpen:
	}

	reg := &models.Registration{
		UserID:             principal.UserID,
		ConferenceID:       conferenceID,
		RegistrationStatus: models.RegistrationPending,
		PaymentStatus:      models.PaymentUnpaid,
	}
	if _, err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, repositories.ErrDuplicateRegistration) {
			return nil, apperrors.NewConflictError(msgAlreadyRegistered)
		}
		return nil, fmt.Errorf("error creating registration: %w", err)
	}

	logger.Info().
		Int64("registrationID", reg.ID).
		Int64("userID", reg.UserID).
		Int64("conferenceID", reg.ConferenceID).
		Msg("Registration created")
	return reg, nil
}

func (s *registrationServiceImpl) ListMine(ctx context.Context, principal auth.Principal) ([]*models.Registration, error) {
	return s.registrationRepo.ListByUser(ctx, principal.UserID)
}

func (s *registrationServiceImpl) List(ctx context.Context, filter models.RegistrationFilter) ([]*models.Registration, int64, error) {
	return s.registrationRepo.List(ctx, filter)
}

// reload returns the registration after an admin update
func (s *registrationServiceImpl) reload(ctx context.Context, id int64, updateErr error) (*models.Registration, error) {
	if updateErr != nil {
		if errors.Is(updateErr, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError(msgRegistrationNotFound)
		}
		return nil, updateErr
	}
	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError(msgRegistrationNotFound)
		}
		return nil, fmt.Errorf("error loading registration: %w", err)
	}
	return reg, nil
}

func (s *registrationServiceImpl) SetStatus(ctx context.Context, id int64, status string) (*models.Registration, error) {
	parsed, err := models.ParseRegistrationStatus(status)
	if err != nil {
		return nil, apperrors.NewValidationError("status", "报名状态无效")
	}
	reg, err := s.reload(ctx, id, s.registrationRepo.UpdateStatus(ctx, id, parsed))
	if err == nil {
		logger.Info().Int64("registrationID", id).Str("status", parsed.Label()).Msg("Registration status updated")
	}
	return reg, err
}

func (s *registrationServiceImpl) SetPayment(ctx context.Context, id int64, status string, transactionID *string) (*models.Registration, error) {
	parsed, err := models.ParsePaymentStatus(status)
	if err != nil {
		return nil, apperrors.NewValidationError("status", "支付状态无效")
	}
	var txID *string
	if transactionID != nil {
		txID = helpers.NullIfEmpty(*transactionID)
	}
	reg, err := s.reload(ctx, id, s.registrationRepo.UpdatePayment(ctx, id, parsed, txID))
	if err == nil {
		logger.Info().Int64("registrationID", id).Str("payment", parsed.Label()).Msg("Registration payment updated")
	}
	return reg, err
}

func (s *registrationServiceImpl) SetTestScore(ctx context.Context, id int64, score int) (*models.Registration, error) {
	if score < 0 || score > 100 {
		return nil, apperrors.NewValidationError("score", msgInvalidScore)
	}
	return s.reload(ctx, id, s.registrationRepo.UpdateTestScore(ctx, id, score))
}

// detectTestType returns the stored extension of an accepted document
func detectTestType(data []byte, declared string) (string, bool) {
	detected := mimetype.Detect(data)
	for _, t := range acceptedTestTypes {
		if detected.Is(t.mime) {
			return t.ext, true
		}
	}

	generic := false
	for _, g := range genericContainers {
		if detected.Is(g) {
			generic = true
			break
		}
	}
	if !generic {
		return "", false
	}

	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return "", false
	}
	for _, t := range acceptedTestTypes {
		if strings.EqualFold(mediaType, t.mime) {
			return t.ext, true
		}
	}
	return "", false
}

func (s *registrationServiceImpl) SubmitAcademicTest(ctx context.Context, principal auth.Principal, conferenceID int64, upload TestUpload) (*dto.UploadTestResponse, error) {
	c, err := s.loadConference(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	if !c.TestRequired {
		return nil, apperrors.NewInvalidStateError(msgTestNotRequired)
	}

	reg, err := s.registrationRepo.GetByUserAndConference(ctx, principal.UserID, conferenceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError(msgNotRegistered)
		}
		return nil, fmt.Errorf("error loading registration: %w", err)
	}

	if upload.Size > s.maxTestFileSize {
		return nil, apperrors.NewPayloadTooLargeError(s.maxTestFileSize)
	}
	data, err := io.ReadAll(io.LimitReader(upload.Content, s.maxTestFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading upload: %w", err)
	}
	if int64(len(data)) > s.maxTestFileSize {
		return nil, apperrors.NewPayloadTooLargeError(s.maxTestFileSize)
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("file", msgEmptyTestFile)
	}

	ext, ok := detectTestType(data, upload.DeclaredType)
	if !ok {
		logger.Warn().
			Str("detected", mimetype.Detect(data).String()).
			Str("declared", upload.DeclaredType).
			Int64("registrationID", reg.ID).
			Msg("Rejected academic test upload type")
		return nil, apperrors.NewUnsupportedMediaTypeError(msgUnsupportedTestFormat)
	}

	filename := fmt.Sprintf("%d-%d.%s", reg.ID, s.now().UnixMilli(), ext)
	url, err := s.storage.Save(bytes.NewReader(data), testUploadSubPath, filename)
	if err != nil {
		return nil, fmt.Errorf("error storing academic test: %w", err)
	}

	if err := s.registrationRepo.UpdateAcademicTestURL(ctx, reg.ID, url); err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			logger.Error().Err(delErr).Str("url", url).Msg("Failed to remove orphaned academic test file")
		}
		return nil, fmt.Errorf("error recording academic test: %w", err)
	}

	logger.Info().Int64("registrationID", reg.ID).Str("url", url).Msg("Academic test uploaded")
	return &dto.UploadTestResponse{
		RegistrationID:  reg.ID,
		AcademicTestURL: url,
	}, nil
}
