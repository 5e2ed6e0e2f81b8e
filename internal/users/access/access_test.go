// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bazaari/bazaari/internal/platform/sec"
	"github.com/bazaari/bazaari/internal/users/access"
	"github.com/bazaari/bazaari/internal/users/session"
)

/*
TestBadgeFor verifies each role maps onto its badge.
*/
func TestBadgeFor(t *testing.T) {
	tests := []struct {
		role     sec.UserRole
		expected access.Badge
	}{
		{sec.RoleOwner, access.Badge{Label: "Owner", Icon: "crown", Tier: "gold"}},
		{sec.RolePremium, access.Badge{Label: "Premium", Icon: "shield-check", Tier: "teal"}},
		{sec.RoleNormal, access.Badge{Label: "Member", Icon: "user", Tier: "slate"}},
		{"", access.Badge{Label: "Member", Icon: "user", Tier: "slate"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.expected, access.BadgeFor(tt.role))
		})
	}
}

/*
TestGate verifies the capability matrix, including the anonymous case.
*/
func TestGate(t *testing.T) {
	tests := []struct {
		name      string
		principal *session.Principal
		admin     bool
		upgrade   bool
		complete  bool
	}{
		{"anonymous", nil, false, false, false},
		{"normal", &session.Principal{Role: sec.RoleNormal}, false, true, false},
		{"premium", &session.Principal{Role: sec.RolePremium}, false, false, true},
		{"owner", &session.Principal{Role: sec.RoleOwner}, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := access.For(tt.principal)

			assert.Equal(t, tt.admin, gate.CanAccessAdmin())
			assert.Equal(t, tt.admin, gate.CanViewAdminPanels())
			assert.Equal(t, tt.upgrade, gate.CanStartPremiumUpgrade())
			assert.Equal(t, tt.complete, gate.UpgradeComplete())

			caps := gate.Capabilities()
			assert.Equal(t, tt.admin, caps.CanViewAdminPanels)
			assert.Equal(t, tt.upgrade, caps.CanStartPremiumUpgrade)
		})
	}

	assert.False(t, access.Gate{}.CanViewAdminPanels())
}
