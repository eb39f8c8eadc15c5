package rooms

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidArgument = errors.New("rooms: invalid argument")

// Service owns the call lifecycle per group:
//
//	no active call --create--> active --end--> no active call
//
// Create is idempotent-join: an existing active call is returned unchanged
// regardless of who asks. End is one-way; ending a group with no active call
// is ErrNotFound, not a no-op success.
type Service struct {
	repo  Repository
	cache *ActiveCache // optional
	locks Locker       // optional
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// WithCache attaches the active-record cache.
func (s *Service) WithCache(c *ActiveCache) *Service {
	s.cache = c
	return s
}

// WithLocker attaches the per-group create lock.
func (s *Service) WithLocker(l Locker) *Service {
	s.locks = l
	return s
}

// CreateOrGetActive returns the group's active call, creating one if absent.
// created=false means an existing call was joined. Two concurrent creators
// cannot both insert: the repository's constraint hands the loser the
// winner's record.
func (s *Service) CreateOrGetActive(ctx context.Context, groupID, creatorID string) (CallRecord, bool, error) {
	if groupID == "" || creatorID == "" {
		return CallRecord{}, false, ErrInvalidArgument
	}

	if s.locks != nil {
		release, ok, err := s.locks.Acquire(ctx, groupID)
		if err != nil {
			slog.Warn("create lock unavailable, relying on store constraint", "group_id", groupID, "err", err)
		} else if ok {
			defer release()
		}
		// ok=false: another creator holds the lock; proceed anyway, the
		// insert below resolves to their record.
	}

	if existing, err := s.repo.GetActive(ctx, groupID); err == nil {
		s.cache.Set(ctx, existing)
		return existing, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return CallRecord{}, false, err
	}

	now := s.clock().UTC()
	rec := CallRecord{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		RoomID:    NewRoomID(groupID),
		CreatorID: creatorID,
		Active:    true,
		CreatedAt: now,
	}

	out, created, err := s.repo.InsertActive(ctx, rec)
	if errors.Is(err, ErrNotFound) {
		// A concurrent call was created and ended between our insert and the
		// conflict re-read. The slot is free again, take it.
		out, created, err = s.repo.InsertActive(ctx, rec)
	}
	if err != nil {
		return CallRecord{}, false, err
	}
	s.cache.Set(ctx, out)
	return out, created, nil
}

// GetActive returns the group's active call or ErrNotFound.
func (s *Service) GetActive(ctx context.Context, groupID string) (CallRecord, error) {
	if groupID == "" {
		return CallRecord{}, ErrInvalidArgument
	}
	if rec, ok := s.cache.Get(ctx, groupID); ok {
		return rec, nil
	}
	rec, err := s.repo.GetActive(ctx, groupID)
	if err != nil {
		return CallRecord{}, err
	}
	s.cache.Set(ctx, rec)
	return rec, nil
}

// End transitions the group's active call to ended. ErrNotFound when there
// is none; no record is altered in that case.
func (s *Service) End(ctx context.Context, groupID string) (CallRecord, error) {
	if groupID == "" {
		return CallRecord{}, ErrInvalidArgument
	}
	rec, err := s.repo.EndActive(ctx, groupID, s.clock().UTC())
	if err != nil {
		return CallRecord{}, err
	}
	s.cache.Invalidate(ctx, groupID)
	return rec, nil
}

// GetByRoomID resolves a room token to its record, active or ended.
func (s *Service) GetByRoomID(ctx context.Context, roomID string) (CallRecord, error) {
	if roomID == "" {
		return CallRecord{}, ErrInvalidArgument
	}
	return s.repo.GetByRoomID(ctx, roomID)
}

// History returns every call ever recorded for the group, newest first.
func (s *Service) History(ctx context.Context, groupID string) ([]CallRecord, error) {
	if groupID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListByGroup(ctx, groupID)
}
