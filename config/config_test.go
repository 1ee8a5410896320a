package config

import "testing"

func TestDefaultsAppliesTags(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults() error = %v", err)
	}
	if cfg.BurstRateHz != 1000 {
		t.Errorf("BurstRateHz = %v, want 1000", cfg.BurstRateHz)
	}
	if cfg.SIMDBatchThreshold != 50000 {
		t.Errorf("SIMDBatchThreshold = %v, want 50000", cfg.SIMDBatchThreshold)
	}
	if cfg.DefaultFireLedgerWindow != 16 {
		t.Errorf("DefaultFireLedgerWindow = %v, want 16", cfg.DefaultFireLedgerWindow)
	}
	if cfg.FQSamplerFrequencyHz != 30 {
		t.Errorf("FQSamplerFrequencyHz = %v, want 30", cfg.FQSamplerFrequencyHz)
	}
}
