// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads the daemon configuration.
//
// Precedence is ENV > YAML file > defaults. The YAML file is decoded strictly:
// unknown keys and multiple documents are rejected. Environment keys carry the
// STREAMFLIX_ prefix, e.g. STREAMFLIX_LISTEN_ADDR or STREAMFLIX_CATALOG_BACKEND.
package config
