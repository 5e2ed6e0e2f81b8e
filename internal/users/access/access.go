// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package access maps a principal's role onto presentation and capability flags.

It is the single place that decides what a role may see or start. Handlers
that expose admin data call [Gate.CanViewAdminPanels] themselves even when the
route is already behind role middleware.
*/
package access

import (
	"github.com/bazaari/bazaari/internal/platform/sec"
	"github.com/bazaari/bazaari/internal/users/session"
)

// Badge is the display descriptor for a role.
type Badge struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Tier  string `json:"tier"`
}

var badges = map[sec.UserRole]Badge{
	sec.RoleOwner:   {Label: "Owner", Icon: "crown", Tier: "gold"},
	sec.RolePremium: {Label: "Premium", Icon: "shield-check", Tier: "teal"},
	sec.RoleNormal:  {Label: "Member", Icon: "user", Tier: "slate"},
}

// BadgeFor returns the badge of role. Unknown roles get the member badge.
func BadgeFor(role sec.UserRole) Badge {
	if badge, ok := badges[role]; ok {
		return badge
	}
	return badges[sec.RoleNormal]
}

// # Gate

// Gate answers capability questions for one principal. The zero value and a
// gate built from nil deny everything.
type Gate struct {
	role   sec.UserRole
	active bool
}

// For builds the gate of principal. A nil principal is anonymous.
func For(principal *session.Principal) Gate {
	if principal == nil {
		return Gate{}
	}
	return Gate{role: principal.Role, active: true}
}

// CanAccessAdmin reports whether the admin area may be opened.
func (gate Gate) CanAccessAdmin() bool {
	return gate.active && gate.role == sec.RoleOwner
}

// CanViewAdminPanels reports whether admin data may be rendered.
func (gate Gate) CanViewAdminPanels() bool {
	return gate.active && gate.role == sec.RoleOwner
}

// CanStartPremiumUpgrade is true only for Normal members.
func (gate Gate) CanStartPremiumUpgrade() bool {
	return gate.active && gate.role == sec.RoleNormal
}

// UpgradeComplete is true once the principal is Premium or Owner.
func (gate Gate) UpgradeComplete() bool {
	return gate.active && (gate.role == sec.RolePremium || gate.role == sec.RoleOwner)
}

// Capabilities is the rendered form of a gate.
type Capabilities struct {
	Badge                  Badge `json:"badge"`
	CanAccessAdmin         bool  `json:"can_access_admin"`
	CanViewAdminPanels     bool  `json:"can_view_admin_panels"`
	CanStartPremiumUpgrade bool  `json:"can_start_premium_upgrade"`
	UpgradeComplete        bool  `json:"upgrade_complete"`
}

// Capabilities renders the gate with the badge of its role.
func (gate Gate) Capabilities() Capabilities {
	return Capabilities{
		Badge:                  BadgeFor(gate.role),
		CanAccessAdmin:         gate.CanAccessAdmin(),
		CanViewAdminPanels:     gate.CanViewAdminPanels(),
		CanStartPremiumUpgrade: gate.CanStartPremiumUpgrade(),
		UpgradeComplete:        gate.UpgradeComplete(),
	}
}
