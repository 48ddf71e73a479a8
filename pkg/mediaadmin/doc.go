// Package mediaadmin provides the media upload and association
// reconciliation core of the catalog administration backend.
//
// It exposes a single Service interface that orchestrates presigned
// upload credential issuance (file acceptance policy, storage key
// derivation, blob-store signing), content-hash duplicate detection,
// and diff-based reconciliation of track-artist and track-release
// association edges. Implementations of the repository (memory,
// Postgres) and the blob signer (S3) are provided under subpackages,
// together with the retry wrapper used to harden durable-store calls.
//
// Authorization is explicit: every mutating operation takes the
// caller's Principal and fails closed when the administrative
// capability is missing.
package mediaadmin
