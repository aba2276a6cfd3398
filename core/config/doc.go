// Package config loads and aggregates the application configuration.
//
// Configuration comes from environment variables, with optional overrides
// from a .env file. Each subsystem owns its partial Config struct
// (server, database, storage, log, sync); this package binds their
// mapstructure/default tags into viper and unmarshals the whole tree.
//
// Nested keys map to underscore-separated environment variables, e.g.
// SYNC_CRON_SPEC -> sync.cron_spec, DATABASE_HOST -> database.host.
package config
