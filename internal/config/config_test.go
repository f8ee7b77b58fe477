package config

import (
	"os"
	"testing"
)

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.Server.HTTPAddr != ":8080" {
		t.Fatalf("http_addr=%q", cfg.Server.HTTPAddr)
	}
	if cfg.Engine.ContactSilenceDays != 7 || cfg.Engine.ContactWeightCap != 30 {
		t.Fatalf("contact defaults=%+v", cfg.Engine)
	}
	if cfg.Engine.TieBreak != "total_amount" {
		t.Fatalf("tie_break=%q", cfg.Engine.TieBreak)
	}
	if got := cfg.Engine.StageSLADays["NEGOTIATION"]; got != 10 {
		t.Fatalf("negotiation sla=%d", got)
	}
	if !cfg.Writeback.Enabled || cfg.Writeback.QueueSize != 1024 {
		t.Fatalf("writeback defaults=%+v", cfg.Writeback)
	}
	if cfg.Cron.ScoreRefresh != "@every 15m" {
		t.Fatalf("score_refresh=%q", cfg.Cron.ScoreRefresh)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	os.Setenv("DO_ENGINE_TIE_BREAK", "contact_silence")
	os.Setenv("DO_SERVER_HTTP_ADDR", ":9090")
	defer os.Unsetenv("DO_ENGINE_TIE_BREAK")
	defer os.Unsetenv("DO_SERVER_HTTP_ADDR")

	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.Engine.TieBreak != "contact_silence" {
		t.Fatalf("tie_break=%q want env override", cfg.Engine.TieBreak)
	}
	if cfg.Server.HTTPAddr != ":9090" {
		t.Fatalf("http_addr=%q want env override", cfg.Server.HTTPAddr)
	}
}
