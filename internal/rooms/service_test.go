package rooms

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestService(repo Repository) *Service {
	s := NewService(repo)
	s.clock = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return s
}

func TestCreateOrGetActive_IsIdempotentPerGroup(t *testing.T) {
	repo := NewMemoryRepo()
	s := newTestService(repo)
	ctx := context.Background()

	first, created, err := s.CreateOrGetActive(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created || !first.Active {
		t.Fatalf("expected new active record, got created=%v rec=%+v", created, first)
	}
	if !strings.HasPrefix(first.RoomID, "room_g1_") {
		t.Fatalf("unexpected room id %q", first.RoomID)
	}

	// A different member joining gets the same room, creator unchanged.
	second, created, err := s.CreateOrGetActive(ctx, "g1", "u2")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if created {
		t.Fatalf("expected join, not create")
	}
	if second.RoomID != first.RoomID || second.CreatorID != "u1" {
		t.Fatalf("expected existing record unchanged, got %+v", second)
	}
	if repo.ActiveCount("g1") != 1 {
		t.Fatalf("expected exactly one active record, got %d", repo.ActiveCount("g1"))
	}
}

func TestEnd_ThenRecreateYieldsNewRoom(t *testing.T) {
	repo := NewMemoryRepo()
	s := newTestService(repo)
	ctx := context.Background()

	first, _, err := s.CreateOrGetActive(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ended, err := s.End(ctx, "g1")
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Active || ended.EndedAt == nil {
		t.Fatalf("expected ended record, got %+v", ended)
	}

	if _, err := s.GetActive(ctx, "g1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after end, got %v", err)
	}

	next, created, err := s.CreateOrGetActive(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if !created {
		t.Fatalf("expected a fresh record")
	}
	if next.RoomID == first.RoomID {
		t.Fatalf("room id must not be reused: %q", next.RoomID)
	}

	// Both calls remain in the log.
	hist, err := s.History(ctx, "g1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 records in history, got %d", len(hist))
	}
	if hist[0].RoomID != next.RoomID {
		t.Fatalf("expected newest first, got %+v", hist)
	}
}

func TestEnd_WithoutActiveCallIsNotFound(t *testing.T) {
	repo := NewMemoryRepo()
	s := newTestService(repo)
	ctx := context.Background()

	if _, err := s.End(ctx, "g1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Ending twice is not idempotent-success.
	if _, _, err := s.CreateOrGetActive(ctx, "g1", "u1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.End(ctx, "g1"); err != nil {
		t.Fatalf("first end: %v", err)
	}
	if _, err := s.End(ctx, "g1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second end, got %v", err)
	}
}

func TestCreateOrGetActive_ConcurrentCallersShareOneRoom(t *testing.T) {
	repo := NewMemoryRepo()
	s := newTestService(repo)
	ctx := context.Background()

	const n = 32
	roomIDs := make([]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			rec, _, err := s.CreateOrGetActive(ctx, "g1", "u1")
			if err != nil {
				t.Errorf("create %d: %v", i, err)
				return
			}
			roomIDs[i] = rec.RoomID
		}(i)
	}
	wg.Wait()

	if repo.ActiveCount("g1") != 1 {
		t.Fatalf("expected exactly one active record, got %d", repo.ActiveCount("g1"))
	}
	for i := 1; i < n; i++ {
		if roomIDs[i] != roomIDs[0] {
			t.Fatalf("caller %d got a different room: %q vs %q", i, roomIDs[i], roomIDs[0])
		}
	}
}

// vanishingWinnerRepo simulates losing an insert race to a call that is
// already ended by the time the conflict is re-read.
type vanishingWinnerRepo struct {
	*MemoryRepo
	misses int
}

func (r *vanishingWinnerRepo) InsertActive(ctx context.Context, rec CallRecord) (CallRecord, bool, error) {
	if r.misses > 0 {
		r.misses--
		return CallRecord{}, false, ErrNotFound
	}
	return r.MemoryRepo.InsertActive(ctx, rec)
}

func TestCreateOrGetActive_RetriesWhenWinnerEndsMidFlight(t *testing.T) {
	repo := &vanishingWinnerRepo{MemoryRepo: NewMemoryRepo(), misses: 1}
	s := newTestService(repo)
	ctx := context.Background()

	rec, created, err := s.CreateOrGetActive(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created || !rec.Active {
		t.Fatalf("expected a fresh active record, got created=%v rec=%+v", created, rec)
	}

	// Only a transient vanish is retried; a repeat miss surfaces as-is.
	repo.misses = 2
	if _, err := s.End(ctx, "g1"); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, _, err := s.CreateOrGetActive(ctx, "g1", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after repeated misses, got %v", err)
	}
}

func TestGetByRoomID_ResolvesEndedRooms(t *testing.T) {
	repo := NewMemoryRepo()
	s := newTestService(repo)
	ctx := context.Background()

	rec, _, err := s.CreateOrGetActive(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.End(ctx, "g1"); err != nil {
		t.Fatalf("end: %v", err)
	}

	got, err := s.GetByRoomID(ctx, rec.RoomID)
	if err != nil {
		t.Fatalf("get by room id: %v", err)
	}
	if got.Active {
		t.Fatalf("expected ended record, got %+v", got)
	}

	if _, err := s.GetByRoomID(ctx, "room_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_RejectsEmptyArguments(t *testing.T) {
	s := newTestService(NewMemoryRepo())
	ctx := context.Background()

	if _, _, err := s.CreateOrGetActive(ctx, "", "u1"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, _, err := s.CreateOrGetActive(ctx, "g1", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := s.GetActive(ctx, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := s.End(ctx, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
