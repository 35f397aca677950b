package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/repositories"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
	"github.com/tjmun/confreg/internal/pkg/logger"
	"github.com/tjmun/confreg/internal/pkg/seatsheet"
	"github.com/tjmun/confreg/internal/pkg/validation"
)

const msgSeatNotFound = "未找到匹配的座位信息"

// SeatService imports and queries the seat-assignment dataset
type SeatService interface {
	// Import parses a spreadsheet and replaces the dataset, returning the
	// number of inserted rows. A parse failure leaves the dataset untouched.
	Import(ctx context.Context, r io.Reader, filename string) (int64, error)
	Lookup(ctx context.Context, query models.SeatQuery) (*models.SeatAssignment, error)
	List(ctx context.Context, offset, limit uint64) ([]*models.SeatAssignment, int64, error)
}

type seatServiceImpl struct {
	seatRepo repositories.ISeatAssignmentRepository
}

// NewSeatService creates a new seat service instance
func NewSeatService(seatRepo repositories.ISeatAssignmentRepository) SeatService {
	return &seatServiceImpl{seatRepo: seatRepo}
}

func (s *seatServiceImpl) Import(ctx context.Context, r io.Reader, filename string) (int64, error) {
	rows, err := seatsheet.Parse(r, filename)
	if err != nil {
		switch {
		case errors.Is(err, seatsheet.ErrUnsupportedFormat):
			return 0, apperrors.NewUnsupportedMediaTypeError(err.Error())
		case errors.Is(err, seatsheet.ErrInvalidHeader),
			errors.Is(err, seatsheet.ErrMissingDataRows),
			errors.Is(err, seatsheet.ErrNoValidRows),
			errors.Is(err, seatsheet.ErrEmptyWorkbook):
			return 0, apperrors.NewValidationError("file", err.Error())
		}
		logger.Warn().Err(err).Str("file", filename).Msg("Failed to read seat spreadsheet")
		return 0, apperrors.NewValidationError("file", "无法读取上传的文件")
	}

	inserted, err := s.seatRepo.ReplaceAll(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("error replacing seat assignments: %w", err)
	}

	logger.Info().
		Int("parsed", len(rows)).
		Int64("inserted", inserted).
		Str("file", filename).
		Msg("Seat assignments imported")
	return inserted, nil
}

func (s *seatServiceImpl) Lookup(ctx context.Context, query models.SeatQuery) (*models.SeatAssignment, error) {
	query.Name = strings.TrimSpace(query.Name)
	query.PhoneLastFour = strings.TrimSpace(query.PhoneLastFour)
	if query.Name == "" {
		return nil, apperrors.NewValidationError("name", "姓名不能为空")
	}
	if !validation.PhoneSuffixPattern.MatchString(query.PhoneLastFour) {
		return nil, apperrors.NewValidationError("phoneLastFour", "手机号后四位必须是4位数字")
	}

	matches, err := s.seatRepo.FindMatches(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, apperrors.NewResourceNotFoundError(msgSeatNotFound)
	}
	if len(matches) > 1 {
		logger.Warn().
			Int("matches", len(matches)).
			Int64("returnedID", matches[0].ID).
			Msg("Seat query matched several rows, returning the first")
	}
	return matches[0], nil
}

func (s *seatServiceImpl) List(ctx context.Context, offset, limit uint64) ([]*models.SeatAssignment, int64, error) {
	return s.seatRepo.List(ctx, offset, limit)
}
