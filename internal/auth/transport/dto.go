package transport

import (
	"time"

	"github.com/shopspring/decimal"
)

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"accessToken"`
}

type CreateUserRequest struct {
	Name            string           `json:"name" validate:"required,min=1,max=100"`
	Email           string           `json:"email" validate:"required,email,max=200"`
	Password        string           `json:"password" validate:"required,min=8,max=72"`
	Role            string           `json:"role" validate:"required,userrole"`
	TargetPrice     *decimal.Decimal `json:"targetPrice,omitempty"`
	Commission      *decimal.Decimal `json:"commission,omitempty"`
	BonusCommission *decimal.Decimal `json:"bonusCommission,omitempty"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required,userrole"`
}

type TargetsRequest struct {
	TargetPrice     *decimal.Decimal `json:"targetPrice"`
	Commission      *decimal.Decimal `json:"commission"`
	BonusCommission *decimal.Decimal `json:"bonusCommission"`
}

type ListUsersRequest struct {
	Role string `form:"role" validate:"omitempty,userrole"`
}

type CategoryLimitItem struct {
	Category string `json:"category" validate:"required,min=1,max=50"`
	Quota    int    `json:"quota" validate:"gte=0,lte=100000"`
}

type CategoryLimitsRequest struct {
	Limits []CategoryLimitItem `json:"limits" validate:"required,min=1,max=50,dive"`
}

type UserResponse struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Role            string           `json:"role"`
	TargetPrice     *decimal.Decimal `json:"targetPrice"`
	Commission      *decimal.Decimal `json:"commission"`
	BonusCommission *decimal.Decimal `json:"bonusCommission"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type CategoryLimitResponse struct {
	Category  string    `json:"category"`
	Quota     int       `json:"quota"`
	UpdatedAt time.Time `json:"updatedAt"`
}
