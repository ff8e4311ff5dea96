// Copyright 2026 The Doorman Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads doorman's process configuration.
//
// Two sources, no fallbacks and no automatic discovery:
//
//   - Environment variables carry the deployment-specific values
//     (bot credential, moderator chat, invite link). The three core
//     variables are required; a missing one is a fatal startup error,
//     never a runtime one. See [Env].
//   - An optional YAML file, passed via the --profile flag, overrides
//     the questionnaire prompts and user-visible phrases. See
//     [LoadFile]. Without it, compiled-in defaults apply.
//
// Key exports:
//
//   - [Env] -- the environment variable set
//   - [FromEnv] -- parse and validate the environment
//   - [LoadFile] -- strict YAML loading into any target struct
package config
