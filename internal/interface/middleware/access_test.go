package middleware

import (
	"errors"
	"testing"

	"github.com/danieloks/account-service/internal/domain/entity"
)

func TestCheckRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		role    entity.Role
		allowed []entity.Role
		want    error
	}{
		{"admin allowed", entity.RoleAdmin, []entity.Role{entity.RoleAdmin}, nil},
		{"user denied admin route", entity.RoleUser, []entity.Role{entity.RoleAdmin}, ErrForbiddenRole},
		{"creator in multi allow", entity.RoleCreator, []entity.Role{entity.RoleAdmin, entity.RoleCreator}, nil},
		{"user denied multi allow", entity.RoleUser, []entity.Role{entity.RoleAdmin, entity.RoleCreator}, ErrForbiddenRole},
		{"empty allow set denies everyone", entity.RoleAdmin, nil, ErrForbiddenRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRole(Identity{Role: tt.role}, tt.allowed...)
			if !errors.Is(err, tt.want) && err != tt.want {
				t.Errorf("CheckRole(%v, %v) = %v, want %v", tt.role, tt.allowed, err, tt.want)
			}
		})
	}
}

func TestCheckVerified(t *testing.T) {
	t.Parallel()

	if err := CheckVerified(Identity{IsVerified: true}); err != nil {
		t.Errorf("verified identity denied: %v", err)
	}
	if err := CheckVerified(Identity{IsVerified: false}); !errors.Is(err, ErrNotVerified) {
		t.Errorf("unverified identity allowed, err = %v", err)
	}
}
