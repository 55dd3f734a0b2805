// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// Shutdown limits how long telemetry may flush when a command exits.
const Shutdown = 5 * time.Second

// ScenarioStep caps one scenario step, recompute included.
const ScenarioStep = 10 * time.Second

// StoreOpen caps opening the SQLite store and applying migrations.
const StoreOpen = 10 * time.Second
