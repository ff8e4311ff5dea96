// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

// Command doorman runs the community intake bot: it collects
// questionnaire answers from applicants in private chats and routes
// confirmed applications to a moderator chat for review.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/doorman-bot/doorman/intake"
	"github.com/doorman-bot/doorman/intake/sqlitestore"
	"github.com/doorman-bot/doorman/lib/clock"
	"github.com/doorman-bot/doorman/lib/config"
	"github.com/doorman-bot/doorman/telegram"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "doorman: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		profilePath = pflag.String("profile", "", "YAML profile overriding the built-in questions and phrases")
		showVersion = pflag.Bool("version", false, "print version information and exit")
	)
	pflag.Parse()

	if *showVersion {
		fmt.Println("doorman " + version)
		return nil
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	env, err := config.FromEnv()
	if err != nil {
		return err
	}

	profile := intake.DefaultProfile()
	if *profilePath != "" {
		if err := config.LoadFile(*profilePath, &profile); err != nil {
			return err
		}
		if len(profile.Questions) == 0 {
			return fmt.Errorf("profile %s has no questions", *profilePath)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := telegram.NewClient(telegram.ClientConfig{
		Token:  env.BotToken,
		APIURL: env.APIURL,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	// Fail fast on a bad token before entering the update loop.
	identity, err := client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("verifying bot token: %w", err)
	}
	logger.Info("bot identity verified", "user_id", identity.ID, "username", identity.Username)

	store, closeStore, err := openStore(env, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	transport := &clientTransport{client: client}
	engine := intake.NewEngine(store, transport, profile, logger)
	workflow := intake.NewWorkflow(store, transport, profile, env.ModeratorChatID, env.ChannelInviteLink, logger)
	dispatcher := intake.NewDispatcher(store, engine, workflow, transport, profile, env.ModeratorChatID, logger)

	logger.Info("doorman running",
		"version", version,
		"moderator_chat_id", env.ModeratorChatID,
		"questions", len(profile.Questions),
	)

	telegram.RunUpdateLoop(ctx, client, telegram.UpdateLoopConfig{}, func(ctx context.Context, update telegram.Update) {
		dispatchUpdate(ctx, dispatcher, update)
	}, clock.Real(), logger)

	logger.Info("shutting down")
	return nil
}

// openStore selects the state backend: SQLite when a database path is
// configured, in-memory otherwise.
func openStore(env *config.Env, logger *slog.Logger) (intake.Store, func(), error) {
	if env.StateDB == "" {
		logger.Info("using in-memory state store")
		return intake.NewMemoryStore(), func() {}, nil
	}

	store, err := sqlitestore.Open(sqlitestore.Config{Path: env.StateDB, Logger: logger})
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Error("closing state store", "error", err)
		}
	}
	return store, closeStore, nil
}

// dispatchUpdate translates one platform update into a dispatcher
// event. Updates without a usable payload (no sender, no text, no
// callback) are ignored.
func dispatchUpdate(ctx context.Context, dispatcher *intake.Dispatcher, update telegram.Update) {
	if query := update.CallbackQuery; query != nil {
		dispatcher.HandleCallback(ctx, intake.ButtonPress{
			CallbackID: query.ID,
			SenderID:   query.From.ID,
			SenderName: query.From.Username,
			Data:       query.Data,
		})
		return
	}

	message := update.Message
	if message == nil {
		message = update.EditedMessage
	}
	if message == nil || message.From == nil || message.Text == "" {
		return
	}
	dispatcher.HandleText(ctx, intake.TextMessage{
		ChatID:     message.Chat.ID,
		SenderID:   message.From.ID,
		SenderName: message.From.Username,
		Text:       message.Text,
	})
}
