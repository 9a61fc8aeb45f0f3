// Package mongostore persists two-factor credentials in MongoDB, one
// document per user keyed by user ID.
//
// The twofactor.Storage contract requires Transact to behave as a serialized
// read-modify-write per user. This implementation achieves it with optimistic
// concurrency: every document carries a version counter, updates are
// conditional on the version read, and a lost race retries against the fresh
// state. Two concurrent redemptions of the same backup code therefore cannot
// both commit - the loser re-reads a credential whose code is already marked
// used and fails the redemption.
//
// Connect with the pkg/mongo helpers:
//
//	db, err := mongoconn.NewWithDatabase(ctx, cfg, "sitetrack")
//	if err != nil { ... }
//	store := mongostore.New(db)
//	svc, err := twofactor.New(store, twofactor.Config{Issuer: "SiteTrack"})
package mongostore
