package roles

import (
	"context"
	"encoding/json"
	"time"

	"nostr-ads-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role event types written to the RoleEvents audit table.
const (
	EventRoleSwitched     = "ROLE_SWITCHED"
	EventRoleGranted      = "ROLE_GRANTED"
	EventRoleRevoked      = "ROLE_REVOKED"
	EventTestRolesEnabled = "TEST_ROLES_ENABLED"
)

// Store is the durable record of which roles a user holds and which is
// current. All reads/writes go through GORM; uniqueness of (user_id, role)
// is enforced by the UserRoles index. Every mutation invalidates the
// resolution cache mirror.
type Store struct {
	DB    *gorm.DB
	Cache *Cache
}

// GrantRole grants a role to a user. Idempotent: an inactive grant is
// reactivated, an active grant is a no-op success.
func (s *Store) GrantRole(ctx context.Context, userID uuid.UUID, role Role) error {
	return s.grant(ctx, userID, role, false)
}

// GrantAllTestRoles grants every enumerated role to the user, marking grants
// it creates as test-only. Used by the enable-all debug endpoints.
func (s *Store) GrantAllTestRoles(ctx context.Context, userID uuid.UUID) error {
	for _, r := range AllRoles {
		if err := s.grant(ctx, userID, r, true); err != nil {
			return err
		}
	}
	s.audit(ctx, userID, EventTestRolesEnabled, map[string]interface{}{
		"roles": AllRoles,
	})
	return nil
}

func (s *Store) grant(ctx context.Context, userID uuid.UUID, role Role, asTest bool) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	var grant models.UserRole
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role.String()).
		First(&grant).Error
	if err == gorm.ErrRecordNotFound {
		grant = models.UserRole{
			UserID:     userID,
			Role:       role.String(),
			IsActive:   true,
			IsTestRole: asTest,
		}
		if err := s.DB.WithContext(ctx).Create(&grant).Error; err != nil {
			return err
		}
		s.audit(ctx, userID, EventRoleGranted, map[string]interface{}{
			"role": role, "is_test_role": asTest,
		})
		s.invalidate(ctx, userID)
		return nil
	}
	if err != nil {
		return err
	}
	if grant.IsActive {
		return nil
	}
	grant.IsActive = true
	if asTest {
		grant.IsTestRole = true
	}
	if err := s.DB.WithContext(ctx).Save(&grant).Error; err != nil {
		return err
	}
	s.audit(ctx, userID, EventRoleGranted, map[string]interface{}{
		"role": role, "reactivated": true, "is_test_role": grant.IsTestRole,
	})
	s.invalidate(ctx, userID)
	return nil
}

// RevokeRole deactivates a grant. Fails with ErrInvariantViolation if the
// user would be left with zero active grants — the viewer baseline must
// survive; callers needing full removal grant viewer first. Revoking a role
// that is not actively granted is a no-op success.
func (s *Store) RevokeRole(ctx context.Context, userID uuid.UUID, role Role) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	var grant models.UserRole
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND role = ? AND is_active = ?", userID, role.String(), true).
		First(&grant).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	var activeCount int64
	if err := s.DB.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&activeCount).Error; err != nil {
		return err
	}
	if activeCount <= 1 {
		return ErrInvariantViolation
	}
	grant.IsActive = false
	if err := s.DB.WithContext(ctx).Save(&grant).Error; err != nil {
		return err
	}
	s.audit(ctx, userID, EventRoleRevoked, map[string]interface{}{"role": role})
	s.invalidate(ctx, userID)
	return nil
}

// ListActiveRoles returns the user's active grants, sorted. An empty set is
// only possible transiently before the first grant.
func (s *Store) ListActiveRoles(ctx context.Context, userID uuid.UUID) ([]Role, error) {
	var grants []models.UserRole
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&grants).Error; err != nil {
		return nil, err
	}
	out := make([]Role, 0, len(grants))
	for _, g := range grants {
		out = append(out, Role(g.Role))
	}
	return SortRoles(out), nil
}

// CurrentRole reads the stored current role for a user.
func (s *Store) CurrentRole(ctx context.Context, userID uuid.UUID) (Role, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return Role(u.CurrentRole), nil
}

// SetCurrentRole switches the user's active role. Fails with ErrNotGranted
// unless the role is actively granted, or override (test mode) is true, in
// which case any enumerated role is accepted. Records the previous role and
// change timestamp for audit.
func (s *Store) SetCurrentRole(ctx context.Context, userID uuid.UUID, role Role, override bool) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	if !override {
		active, err := s.ListActiveRoles(ctx, userID)
		if err != nil {
			return err
		}
		if !containsRole(active, role) {
			return ErrNotGranted
		}
	}

	var u models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrUserNotFound
		}
		return err
	}
	previous := u.CurrentRole
	now := time.Now()

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	u.PreviousRole = &previous
	u.CurrentRole = role.String()
	u.LastRoleChange = &now
	if err := tx.Save(&u).Error; err != nil {
		tx.Rollback()
		return err
	}
	data, _ := json.Marshal(map[string]interface{}{
		"previous_role": previous,
		"new_role":      role,
		"override":      override,
	})
	if err := tx.Create(&models.RoleEvent{
		UserID:    userID,
		EventType: EventRoleSwitched,
		EventData: datatypes.JSON(data),
	}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// audit appends a RoleEvent row; failures are swallowed — the audit trail
// never blocks the role operation itself.
func (s *Store) audit(ctx context.Context, userID uuid.UUID, eventType string, detail map[string]interface{}) {
	data, _ := json.Marshal(detail)
	_ = s.DB.WithContext(ctx).Create(&models.RoleEvent{
		UserID:    userID,
		EventType: eventType,
		EventData: datatypes.JSON(data),
	}).Error
}

func (s *Store) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, userID)
	}
}

func containsRole(rs []Role, r Role) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}
