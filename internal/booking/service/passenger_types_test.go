package service

import (
	"context"
	"testing"

	"github.com/charmheroku/railway-station/internal/booking/model"
)

type countingTypeRepo struct {
	fakeTypeReader
	active    []model.PassengerType
	listCalls int
}

func (r *countingTypeRepo) ListActive(_ context.Context) ([]model.PassengerType, error) {
	r.listCalls++
	return r.active, nil
}

func TestListActiveUsesCache(t *testing.T) {
	repo := &countingTypeRepo{
		active: []model.PassengerType{
			{ID: 1, Code: "adult", Name: "Adult"},
			{ID: 2, Code: "child", Name: "Child", DiscountPercent: 50},
		},
	}
	svc := NewPassengerTypeService(repo)

	for i := 0; i < 3; i++ {
		types, err := svc.ListActive(context.Background())
		if err != nil {
			t.Fatalf("ListActive: %v", err)
		}
		if len(types) != 2 {
			t.Fatalf("got %d types, want 2", len(types))
		}
	}

	if repo.listCalls != 1 {
		t.Errorf("repository hit %d times, want 1 (cached)", repo.listCalls)
	}
}
