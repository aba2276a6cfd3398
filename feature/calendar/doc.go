// Package calendar imports external ICS availability feeds and keeps each
// listing's imported reservations in sync with them.
//
// A sync run fetches the listing's feed, normalizes its events into busy
// intervals, and reconciles those intervals against the reservations
// previously imported for the listing. Reconciliation is idempotent: a
// repeat run against an unchanged feed produces no writes. Imported
// reservations carry a zero price, which is how they are told apart from
// paid bookings; paid bookings are never touched by a sync.
//
// A force resync clears every imported reservation for the listing,
// past and future, and reimports the feed from scratch. It is the
// recovery path for corrupted state.
package calendar
