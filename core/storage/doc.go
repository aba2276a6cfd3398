// Package storage provides the object storage client used by the feed archive.
//
// Every successful feed fetch can be snapshotted to an S3-compatible bucket
// so that operators can inspect exactly what an external calendar served at
// a given time, and recover from a bad import with a force resync.
//
// # Client Interface
//
// The Client interface abstracts the Minio SDK operations the archive needs
// (bucket checks, uploads, listing, batch removal), allowing mocks in tests.
//
// # Configuration
//
// The Config struct defines the endpoint, credentials, bucket, and the
// snapshot retention window.
package storage
