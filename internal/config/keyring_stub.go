//go:build nokeyring

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package config

import "errors"

// Headless builds (CI, containers) have no OS keychain; token storage is
// simply unavailable there.
var errNoKeyring = errors.New("keyring support disabled in this build")

var (
	keyringGet    = func(service, key string) (string, error) { return "", errNoKeyring }
	keyringSet    = func(service, key, value string) error { return errNoKeyring }
	keyringDelete = func(service, key string) error { return errNoKeyring }
)
