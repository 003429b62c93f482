package domain

import (
	"testing"
)

func TestNewUserType(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    UserType
		wantErr bool
	}{
		{name: "vendor", value: "vendor", want: UserTypeVendor},
		{name: "admin", value: "admin", want: UserTypeAdmin},
		{name: "uppercase rejected", value: "ADMIN", wantErr: true},
		{name: "empty rejected", value: "", wantErr: true},
		{name: "employee rejected", value: "employee", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewUserType(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewUserType(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NewUserType(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestDeriveUserType(t *testing.T) {
	tests := []struct {
		email string
		want  UserType
	}{
		{"a@1957ventures.com", UserTypeAdmin},
		{"vendor@acme.com", UserTypeVendor},
		{"Admin@acme.com", UserTypeAdmin},
		{"procurement.TEAM@corp.sa", UserTypeAdmin},
		{"user1957@gmail.com", UserTypeAdmin},
		{"x@1957VENTURES.sa", UserTypeAdmin},
		{"sales@techcorp.sa", UserTypeVendor},
		{"", UserTypeVendor},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := DeriveUserType(tt.email); got != tt.want {
				t.Errorf("DeriveUserType(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestDemoCompanyName(t *testing.T) {
	if got := DemoCompanyName(UserTypeAdmin); got != "1957 Ventures" {
		t.Errorf("admin company = %q", got)
	}
	if got := DemoCompanyName(UserTypeVendor); got != "Demo Company Inc." {
		t.Errorf("vendor company = %q", got)
	}
}

func TestApprovalLevelFor(t *testing.T) {
	tests := []struct {
		budget float64
		want   ApprovalLevel
	}{
		{0, ApprovalProcurementOfficer},
		{100_000, ApprovalProcurementOfficer},
		{100_000.01, ApprovalManager},
		{350_000, ApprovalManager},
		{500_000, ApprovalManager},
		{750_000, ApprovalCFO},
		{1_000_000, ApprovalCFO},
		{1_000_001, ApprovalCEO},
	}

	for _, tt := range tests {
		if got := ApprovalLevelFor(tt.budget); got != tt.want {
			t.Errorf("ApprovalLevelFor(%v) = %q, want %q", tt.budget, got, tt.want)
		}
	}
}
