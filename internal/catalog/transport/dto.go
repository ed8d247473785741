package transport

import "time"

// NameRequest creates or renames any catalog entry.
type NameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type BrandResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ModelResponse struct {
	ID        int64     `json:"id"`
	BrandID   int64     `json:"brandId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TrimResponse struct {
	ID        int64     `json:"id"`
	ModelID   int64     `json:"modelId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
