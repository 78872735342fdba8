package service

import (
	"context"

	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/station/model"
)

// validateSchedule enforces the trip scheduling invariants before any
// write: arrival after departure, and no time overlap with another trip
// of the same train. excludeTripID skips the trip itself on update.
func (s *TripService) validateSchedule(ctx context.Context, trip model.Trip, excludeTripID int64) error {
	if !trip.ArrivalTime.After(trip.DepartureTime) {
		return apperr.New(apperr.KindValidation, "invalid trip schedule").
			WithField("arrival_time", "arrival time must be later than departure time")
	}

	overlaps, err := s.repo.HasOverlappingTrip(ctx, trip.TrainID, trip.DepartureTime, trip.ArrivalTime, excludeTripID)
	if err != nil {
		return err
	}
	if overlaps {
		return apperr.New(apperr.KindValidation, "invalid trip schedule").
			WithField("departure_time", "train is already assigned to another trip overlapping in time")
	}

	return nil
}
