package service

import (
	"context"
	"fmt"
	"time"

	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/common/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SeatHoldService keeps short-lived advisory holds in Redis so one user
// filling in passenger details does not race another for the same seat.
// Holds are advisory only: the database constraint still decides who
// gets the ticket, and an expired hold never blocks a booking.
type SeatHoldService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSeatHoldService(client *redis.Client, ttl time.Duration) *SeatHoldService {
	return &SeatHoldService{client: client, ttl: ttl}
}

type SeatRef struct {
	TripID     int64 `json:"trip"`
	WagonID    int64 `json:"wagon"`
	SeatNumber int   `json:"seat_number"`
}

type SeatHold struct {
	Token     string    `json:"token"`
	Seats     []SeatRef `json:"seats"`
	ExpiresAt time.Time `json:"expires_at"`
}

func holdKey(seat SeatRef) string {
	return fmt.Sprintf("seat_hold:%d:%d:%d", seat.TripID, seat.WagonID, seat.SeatNumber)
}

// Acquire holds every seat or none. On a conflict mid-way it releases
// the seats it already took.
func (s *SeatHoldService) Acquire(ctx context.Context, seats []SeatRef) (*SeatHold, error) {
	const action = "AcquireSeatHold"

	if len(seats) == 0 {
		return nil, apperr.New(apperr.KindValidation, "at least one seat is required")
	}

	token := uuid.NewString()
	taken := make([]SeatRef, 0, len(seats))

	for _, seat := range seats {
		ok, err := s.client.SetNX(ctx, holdKey(seat), token, s.ttl).Result()
		if err != nil {
			s.release(ctx, token, taken)
			logger.Error(action, "redis SetNX failed", "", "", err.Error())
			return nil, err
		}
		if !ok {
			s.release(ctx, token, taken)
			return nil, apperr.New(apperr.KindSeatConflict, "this seat is already held by another user").
				WithField("seat_number", fmt.Sprintf("seat %d in wagon %d is held", seat.SeatNumber, seat.WagonID))
		}
		taken = append(taken, seat)
	}

	return &SeatHold{
		Token:     token,
		Seats:     seats,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

// Release drops the holds owned by token. Seats held by someone else
// are left alone.
func (s *SeatHoldService) Release(ctx context.Context, token string, seats []SeatRef) error {
	if token == "" {
		return apperr.New(apperr.KindValidation, "hold token is required")
	}
	s.release(ctx, token, seats)
	return nil
}

func (s *SeatHoldService) release(ctx context.Context, token string, seats []SeatRef) {
	for _, seat := range seats {
		key := holdKey(seat)
		owner, err := s.client.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			logger.Warn("ReleaseSeatHold", "redis Get failed", "", key, err.Error())
			continue
		}
		if owner != token {
			continue
		}
		if err := s.client.Del(ctx, key).Err(); err != nil {
			logger.Warn("ReleaseSeatHold", "redis Del failed", "", key, err.Error())
		}
	}
}
