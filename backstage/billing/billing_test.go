package billing

import (
	"errors"
	"testing"

	"github.com/velvetradio/backstage/backstage/economy/ledger"
)

func TestCatalog_ValidateChange(t *testing.T) {
	c := NewCatalog(ledger.New(ledger.NewDefaultConfig()))

	tests := []struct {
		raw         string
		wantErr     bool
		wantMonthly int64
	}{
		{raw: "free", wantMonthly: 0},
		{raw: "tier2", wantMonthly: 500},
		{raw: "tier3", wantMonthly: 1500},
		{raw: "pro", wantMonthly: 4000},
		{raw: "platinum", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			result, err := c.ValidateChange(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownTier) {
					t.Errorf("ValidateChange(%q) error = %v, want ErrUnknownTier", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateChange(%q) error = %v", tt.raw, err)
			}
			if result.MonthlyCredits != tt.wantMonthly {
				t.Errorf("monthly = %d, want %d", result.MonthlyCredits, tt.wantMonthly)
			}
		})
	}
}
