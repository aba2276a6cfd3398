// Package database handles database connections.
//
// It provides a wrapper around GORM to configure the MySQL connection used
// in production and the sqlite driver used by tests (":memory:" databases).
// Connection, read, and write timeouts come from the configuration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
