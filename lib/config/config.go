// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Env is doorman's environment variable set. The first three values
// are mandatory: the process refuses to start without them.
type Env struct {
	// BotToken is the bot credential issued by the messaging platform.
	BotToken string `env:"BOT_TOKEN,required"`

	// ModeratorChatID is the numeric ID of the moderator chat where
	// applications are posted for review. Group chat IDs are negative.
	ModeratorChatID int64 `env:"MODERATOR_CHAT_ID,required"`

	// ChannelInviteLink is the access grant delivered to an applicant
	// on acceptance.
	ChannelInviteLink string `env:"CHANNEL_INVITE_LINK,required"`

	// StateDB is the path to the SQLite state database. Empty selects
	// the in-memory store: active conversations are lost on restart.
	StateDB string `env:"DOORMAN_STATE_DB"`

	// APIURL is the base URL of the messaging platform API. Override
	// for tests or a self-hosted API gateway.
	APIURL string `env:"DOORMAN_API_URL" envDefault:"https://api.telegram.org"`
}

// FromEnv parses the process environment into an Env. A missing
// required variable is reported here so startup can fail before any
// network activity.
func FromEnv() (*Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return &cfg, nil
}

// LoadFile reads a YAML file into target. Unknown keys are an error:
// a typo in a profile file should fail startup, not silently fall
// back to a default phrase.
func LoadFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty file: keep the target's defaults.
			return nil
		}
		return fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return nil
}
