package domain

import "testing"

func TestNewRFPStatus(t *testing.T) {
	tests := []struct {
		value   string
		want    RFPStatus
		wantErr bool
	}{
		{value: "active", want: RFPActive},
		{value: "closed", want: RFPClosed},
		{value: "awarded", want: RFPAwarded},
		{value: "draft", want: RFPStatusDraft},
		{value: "Draft", wantErr: true},
		{value: "archived", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := NewRFPStatus(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRFPStatus(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NewRFPStatus(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
