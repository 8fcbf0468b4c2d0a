package session

import (
	"context"
	"strings"
	"time"

	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
	"github.com/raditmaulana/bengkelhub-backend/pkg/redis"
)

// RoleState is a client's simulated role plus the landing view it maps to.
// This is a UI mode switch, not authentication.
type RoleState struct {
	Role        enums.UserRole `json:"role"`
	DefaultView string         `json:"default_view"`
}

// Service stores the per-client role selection.
type Service interface {
	Switch(ctx context.Context, clientID string, role enums.UserRole) (*RoleState, error)
	Current(ctx context.Context, clientID string) (*RoleState, error)
}

type service struct {
	store *redis.Client
	ttl   time.Duration
	logg  *logger.Logger
}

// NewService wires the role-switch store.
func NewService(store *redis.Client, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if store == nil || logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session service missing dependencies")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &service{store: store, ttl: ttl, logg: logg}, nil
}

func (s *service) Switch(ctx context.Context, clientID string, role enums.UserRole) (*RoleState, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	key := s.store.RoleSessionKey(clientID)
	if err := s.store.Set(ctx, key, string(role), s.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store role selection")
	}
	s.logg.Info(s.logg.WithActorRole(ctx, string(role)), "role switched")
	return &RoleState{Role: role, DefaultView: role.DefaultView()}, nil
}

// Current reads the stored role, defaulting to the public role when nothing
// has been selected yet.
func (s *service) Current(ctx context.Context, clientID string) (*RoleState, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	raw, err := s.store.Get(ctx, s.store.RoleSessionKey(clientID))
	if err != nil {
		if redis.IsNil(err) {
			return &RoleState{Role: enums.RolePublic, DefaultView: enums.RolePublic.DefaultView()}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read role selection")
	}
	role, parseErr := enums.ParseUserRole(raw)
	if parseErr != nil {
		role = enums.RolePublic
	}
	return &RoleState{Role: role, DefaultView: role.DefaultView()}, nil
}
