package workspaces

import (
	"testing"

	"github.com/cobranzahq/cobranza/internal/tenant"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"", tenant.RoleAgent, false},
		{"  ", tenant.RoleAgent, false},
		{"owner", tenant.RoleOwner, false},
		{" Manager ", tenant.RoleManager, false},
		{"AGENT", tenant.RoleAgent, false},
		{"admin", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeRole(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeRole(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeRole(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"active", tenant.StatusActive, false},
		{" INACTIVE ", tenant.StatusInactive, false},
		{"", "", true},
		{"deleted", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeStatus(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeStatus(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
