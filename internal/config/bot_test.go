package config

import "testing"

func TestLoadBotDefaults(t *testing.T) {
	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.CommissionPercent != 30 {
		t.Fatalf("CommissionPercent = %d, want 30", cfg.CommissionPercent)
	}
	if cfg.SessionTTL != 0 {
		t.Fatalf("SessionTTL = %v, want 0", cfg.SessionTTL)
	}
}

func TestLoadBotAdminIDs(t *testing.T) {
	t.Setenv("ADMIN_IDS", "42,1001")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if len(cfg.AdminIDs) != 2 || cfg.AdminIDs[0] != 42 || cfg.AdminIDs[1] != 1001 {
		t.Fatalf("unexpected admin ids: %v", cfg.AdminIDs)
	}
	if !cfg.IsAdmin(42) || cfg.IsAdmin(7) {
		t.Fatalf("IsAdmin mismatch for %v", cfg.AdminIDs)
	}
}
