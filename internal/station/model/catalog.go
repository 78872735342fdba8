package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Station struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type Route struct {
	ID                   int64     `json:"id"`
	OriginStationID      int64     `json:"origin_station"`
	DestinationStationID int64     `json:"destination_station"`
	DistanceKm           int       `json:"distance_km"`
	CreatedAt            time.Time `json:"-"`
	UpdatedAt            time.Time `json:"-"`

	Origin      *Station `json:"-"`
	Destination *Station `json:"-"`
}

type TrainType string

const (
	TrainPassenger TrainType = "passenger"
	TrainExpress   TrainType = "express"
	TrainSuburban  TrainType = "suburban"
)

func (t TrainType) Valid() bool {
	switch t {
	case TrainPassenger, TrainExpress, TrainSuburban:
		return true
	}
	return false
}

type Train struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Number    string    `json:"number"`
	Type      TrainType `json:"train_type"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type WagonType struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	FareMultiplier decimal.Decimal `json:"fare_multiplier"`
}

type WagonAmenity struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Wagon struct {
	ID      int64 `json:"id"`
	TrainID int64 `json:"train"`
	Number  int   `json:"number"`
	TypeID  int64 `json:"type"`
	Seats   int   `json:"seats"`

	Type      *WagonType     `json:"-"`
	Train     *Train         `json:"-"`
	Amenities []WagonAmenity `json:"-"`
}
