package student

import (
	"context"
	"encoding/json"
	"time"

	"sistema-asistencia/internal/shared/clock"
	"sistema-asistencia/internal/shared/contextutil"
	studenterrors "sistema-asistencia/internal/student/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ProgressKeyPrefix = "students:progress:"
	progressCacheTTL  = 5 * time.Minute
)

func GetProgressKey(studentID string) string {
	return ProgressKeyPrefix + studentID
}

//go:generate mockgen -source=student_service.go -destination=mock/student_service_mock.go -package=mock
type Service interface {
	GetByID(ctx context.Context, id string) (StudentResponse, error)
	GetAll(ctx context.Context) ([]StudentResponse, error)
	GetProgress(ctx context.Context, id string) (ProgressResponse, error)
	InvalidateProgress(ctx context.Context, id string)
	SyncCompletion(ctx context.Context, id string) (bool, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("student.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("student.service")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		clock:  clk,
		logger: l,
	}
}

func (s *service) GetByID(ctx context.Context, id string) (StudentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return StudentResponse{}, studenterrors.ErrInvalidStudentID
	}

	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return StudentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*st), nil
}

func (s *service) GetAll(ctx context.Context) ([]StudentResponse, error) {
	s.logger.Debug("get all students requested", zap.String("request_id", contextutil.GetRequestID(ctx)))

	list, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all students failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(list), nil
}

func (s *service) GetProgress(ctx context.Context, id string) (ProgressResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ProgressResponse{}, studenterrors.ErrInvalidStudentID
	}

	cacheKey := GetProgressKey(id)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp ProgressResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// the dashboard polls progress for every open tab
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		st, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToProgress(*st)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, progressCacheTTL).Err(); err != nil {
					s.logger.Warn("cache student progress failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return ProgressResponse{}, err
	}

	return v.(ProgressResponse), nil
}

func (s *service) InvalidateProgress(ctx context.Context, id string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetProgressKey(id)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate student progress cache",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

// SyncCompletion stamps completed_at once required hours are reached and clears it if a later
// subtraction drops the total back below. It reports whether the student is complete.
func (s *service) SyncCompletion(ctx context.Context, id string) (bool, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, mapRepositoryError(err)
	}

	completed := st.HasCompleted()
	switch {
	case completed && st.CompletedAt == nil:
		now := s.clock.Now()
		if err := s.repo.SetCompletedAt(ctx, id, &now); err != nil {
			s.logger.Error("stamp student completion failed", zap.String("student_id", id), zap.Error(err))
			return false, mapRepositoryError(err)
		}
		s.logger.Info("student completed required hours",
			zap.String("student_id", id),
			zap.Float64("accumulated_hours", st.AccumulatedHours),
			zap.Float64("required_hours", st.RequiredHours),
		)
	case !completed && st.CompletedAt != nil:
		if err := s.repo.SetCompletedAt(ctx, id, nil); err != nil {
			s.logger.Error("clear student completion failed", zap.String("student_id", id), zap.Error(err))
			return false, mapRepositoryError(err)
		}
		s.logger.Warn("student completion revoked",
			zap.String("student_id", id),
			zap.Float64("accumulated_hours", st.AccumulatedHours),
		)
	default:
		return completed, nil
	}

	s.InvalidateProgress(ctx, id)
	return completed, nil
}
