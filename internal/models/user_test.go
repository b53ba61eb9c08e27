package models

import "testing"

func TestUserRoles(t *testing.T) {
	tests := []struct {
		name          string
		role          string
		wantModerator bool
		wantAdmin     bool
	}{
		{"news user", RoleNews, false, false},
		{"regular user", RoleUser, false, false},
		{"moderator", RoleModerator, true, false},
		{"admin", RoleAdmin, true, true},
		{"unknown role", "superuser", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsModerator(); got != tt.wantModerator {
				t.Errorf("IsModerator() = %v, want %v", got, tt.wantModerator)
			}
			if got := u.IsAdmin(); got != tt.wantAdmin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.wantAdmin)
			}
		})
	}
}
