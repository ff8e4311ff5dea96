// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123456:test-token")
	t.Setenv("MODERATOR_CHAT_ID", "-1001234567890")
	t.Setenv("CHANNEL_INVITE_LINK", "https://example.invalid/join")
}

func TestFromEnv(t *testing.T) {
	t.Run("all required present", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := FromEnv()
		if err != nil {
			t.Fatalf("FromEnv failed: %v", err)
		}
		if cfg.BotToken != "123456:test-token" {
			t.Errorf("BotToken = %q", cfg.BotToken)
		}
		if cfg.ModeratorChatID != -1001234567890 {
			t.Errorf("ModeratorChatID = %d", cfg.ModeratorChatID)
		}
		if cfg.APIURL != "https://api.telegram.org" {
			t.Errorf("APIURL default = %q", cfg.APIURL)
		}
		if cfg.StateDB != "" {
			t.Errorf("StateDB default = %q, want empty", cfg.StateDB)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		setRequiredEnv(t)
		os.Unsetenv("BOT_TOKEN")

		if _, err := FromEnv(); err == nil {
			t.Fatal("expected error for missing BOT_TOKEN")
		}
	})

	t.Run("non-numeric chat id", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("MODERATOR_CHAT_ID", "not-a-number")

		if _, err := FromEnv(); err == nil {
			t.Fatal("expected error for malformed MODERATOR_CHAT_ID")
		}
	})
}

func TestLoadFile(t *testing.T) {
	type profile struct {
		Questions []string `yaml:"questions"`
		Greeting  string   `yaml:"greeting"`
	}

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.yaml")
		content := "questions:\n  - \"How old are you?\"\n  - \"Why join?\"\ngreeting: \"Hello!\"\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		var p profile
		if err := LoadFile(path, &p); err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		if len(p.Questions) != 2 {
			t.Errorf("got %d questions, want 2", len(p.Questions))
		}
		if p.Greeting != "Hello!" {
			t.Errorf("Greeting = %q", p.Greeting)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.yaml")
		if err := os.WriteFile(path, []byte("questoins: []\n"), 0o600); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		var p profile
		if err := LoadFile(path, &p); err == nil {
			t.Fatal("expected error for unknown key")
		}
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.yaml")
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		p := profile{Greeting: "default"}
		if err := LoadFile(path, &p); err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		if p.Greeting != "default" {
			t.Errorf("Greeting = %q, want default preserved", p.Greeting)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var p profile
		if err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), &p); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
