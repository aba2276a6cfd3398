// Package models defines the persistence and result types of calendar sync.
//
// Listing and Reservation are the GORM models the sync core touches.
// BusyInterval is the transient, in-memory representation of a feed event;
// IntervalKey is the natural-key rule shared by intervals and reservations.
// SyncResult and FleetSyncResult are the shapes returned to the HTTP layer.
package models
