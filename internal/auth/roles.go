// Package auth adapts the external auth/role provider. The workflow engines
// only see the RoleChecker capability; identity and session handling stay
// upstream.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"assistance-service/internal/models"
)

// RoleChecker answers whether a principal holds a role. Every gate-specific
// workflow action consults it before mutating state.
type RoleChecker interface {
	HasRole(ctx context.Context, principalID string, role models.Role) (bool, error)
}

const roleKeyPrefix = "user_roles:"

// RedisRoleProvider reads role sets published by the auth service into
// Redis, one JSON-encoded string array per principal.
type RedisRoleProvider struct {
	client *redis.Client
}

func NewRedisRoleProvider(client *redis.Client) *RedisRoleProvider {
	return &RedisRoleProvider{client: client}
}

func (p *RedisRoleProvider) Roles(ctx context.Context, principalID string) ([]models.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	raw, err := p.client.Get(ctx, roleKeyPrefix+principalID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read role set for %s: %w", principalID, err)
	}

	var roles []models.Role
	if err := json.Unmarshal([]byte(raw), &roles); err != nil {
		return nil, fmt.Errorf("failed to decode role set for %s: %w", principalID, err)
	}
	return roles, nil
}

func (p *RedisRoleProvider) HasRole(ctx context.Context, principalID string, role models.Role) (bool, error) {
	roles, err := p.Roles(ctx, principalID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r == role || r == models.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

// StaticRoleChecker holds a fixed principal → roles table. Used in tests and
// single-tenant deployments without the auth service.
type StaticRoleChecker map[string][]models.Role

func (s StaticRoleChecker) HasRole(_ context.Context, principalID string, role models.Role) (bool, error) {
	for _, r := range s[principalID] {
		if r == role || r == models.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}
