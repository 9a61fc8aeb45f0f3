package mongostore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/sitetrack/authkit/pkg/twofactor"
)

// DefaultCollection is the collection holding one credential document per user.
const DefaultCollection = "twofactor_credentials"

// transactRetries bounds the optimistic-concurrency retry loop. Contention on
// a single user's credential is rare (parallel logins), so a handful of
// attempts is plenty before reporting a conflict.
const transactRetries = 5

// document wraps the credential with the version counter used for
// conditional updates.
type document struct {
	ID         string               `bson:"_id"` // userID in string form
	Version    int64                `bson:"version"`
	Credential twofactor.Credential `bson:"credential"`
}

// Store implements twofactor.Storage on MongoDB. Put is a replace-upsert;
// Transact uses compare-and-swap on a version field, so concurrent
// read-modify-write cycles for one user serialize and exactly one redeemer
// of a backup code wins.
type Store struct {
	collection *mongo.Collection
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	collection string
}

// WithCollection overrides the collection name.
func WithCollection(name string) StoreOption {
	return func(c *storeConfig) {
		if name != "" {
			c.collection = name
		}
	}
}

// New creates a credential store on the given database.
func New(db *mongo.Database, opts ...StoreOption) *Store {
	cfg := storeConfig{collection: DefaultCollection}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store{collection: db.Collection(cfg.collection)}
}

func (s *Store) Get(ctx context.Context, userID uuid.UUID) (*twofactor.Credential, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, twofactor.ErrCredentialNotFound
		}
		return nil, err
	}
	return doc.Credential.Clone(), nil
}

func (s *Store) Put(ctx context.Context, cred *twofactor.Credential) error {
	update := bson.M{
		"$set": bson.M{"credential": cred},
		"$inc": bson.M{"version": int64(1)},
	}
	opts := options.UpdateOne().SetUpsert(true)
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": cred.UserID.String()}, update, opts)
	return err
}

// Transact loads the credential, applies fn to a private copy, and persists
// it with a conditional update matching the version read. A lost race
// re-reads and retries; exhausting the retries reports
// twofactor.ErrTransactConflict.
func (s *Store) Transact(ctx context.Context, userID uuid.UUID, fn func(*twofactor.Credential) error) error {
	for i := 0; i < transactRetries; i++ {
		var doc document
		err := s.collection.FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&doc)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return twofactor.ErrCredentialNotFound
			}
			return err
		}

		working := doc.Credential.Clone()
		if err := fn(working); err != nil {
			return err
		}

		update := bson.M{
			"$set": bson.M{"credential": working},
			"$inc": bson.M{"version": int64(1)},
		}
		res, err := s.collection.UpdateOne(ctx,
			bson.M{"_id": userID.String(), "version": doc.Version},
			update,
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			return nil
		}
		// Version moved underneath us; retry against the fresh state.
	}
	return twofactor.ErrTransactConflict
}

// Delete removes a credential document outright.
func (s *Store) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": userID.String()})
	return err
}
