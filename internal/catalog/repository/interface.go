package repository

import (
	"context"
	"time"
)

// Level is one tier of the vehicle catalog.
type Level struct {
	table        string
	parentColumn string
	label        string
	childLabel   string
}

var (
	Brands = Level{table: "car_brands", label: "brand", childLabel: "models"}
	Models = Level{table: "car_models", parentColumn: "brand_id", label: "model", childLabel: "trims"}
	Trims  = Level{table: "car_trims", parentColumn: "model_id", label: "trim"}
)

// Label names the level in error messages.
func (l Level) Label() string { return l.label }

// Node is a brand, model or trim. ParentID is nil for brands.
type Node struct {
	ID        int64
	ParentID  *int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines catalog persistence.
type Repository interface {
	List(ctx context.Context, level Level, parentID *int64) ([]Node, error)
	Get(ctx context.Context, level Level, id int64) (Node, error)
	Create(ctx context.Context, level Level, parentID *int64, name string) (Node, error)
	Rename(ctx context.Context, level Level, id int64, name string) (Node, error)
	Delete(ctx context.Context, level Level, id int64) error
}
