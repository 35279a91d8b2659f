package claimsource

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoConfig describes the connection to a MongoDB deployment holding claim
// values.
type MongoConfig struct {
	ConnectionURL  string        `env:"CLAIMS_MONGODB_URL,required"`                    // ConnectionURL is the mongodb:// URL.
	ConnectTimeout time.Duration `env:"CLAIMS_MONGODB_CONNECT_TIMEOUT" envDefault:"10s"` // ConnectTimeout bounds each connection attempt.
	RetryAttempts  int           `env:"CLAIMS_MONGODB_RETRY_ATTEMPTS" envDefault:"3"`   // RetryAttempts is the number of connection attempts before giving up.
	RetryInterval  time.Duration `env:"CLAIMS_MONGODB_RETRY_INTERVAL" envDefault:"5s"`  // RetryInterval is the wait between attempts.
}

// ConnectMongo establishes a MongoDB client with retry, verifying it with a
// ping before handing it out.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	for range cfg.RetryAttempts {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout),
		)
		if err == nil {
			if err := client.Ping(ctx, nil); err == nil {
				return client, nil
			}
			_ = client.Disconnect(ctx)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrMongoNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrMongoNotReady
}

// claimDocument is the persisted shape of one claim value.
type claimDocument struct {
	ClaimKey  string    `bson:"claim_key"`
	UserID    string    `bson:"user_id"`
	Value     any       `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoSource implements Source on top of a MongoDB collection. Documents are
// keyed by (claim_key, user_id).
type MongoSource struct {
	coll *mongo.Collection
}

// NewMongoSource creates a Source backed by the given collection.
func NewMongoSource(coll *mongo.Collection) *MongoSource {
	return &MongoSource{coll: coll}
}

// Get returns the stored value for (claimKey, userID) or ErrNotFound.
func (s *MongoSource) Get(ctx context.Context, claimKey, userID string) (any, error) {
	if err := validateKey(claimKey, userID); err != nil {
		return nil, err
	}

	var doc claimDocument
	err := s.coll.FindOne(ctx, bson.M{"claim_key": claimKey, "user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Value, nil
}

// Set stores the value for (claimKey, userID), upserting the document.
func (s *MongoSource) Set(ctx context.Context, claimKey, userID string, value any) error {
	if err := validateKey(claimKey, userID); err != nil {
		return err
	}

	_, err := s.coll.UpdateOne(ctx,
		bson.M{"claim_key": claimKey, "user_id": userID},
		bson.M{"$set": bson.M{"value": value, "updated_at": time.Now()}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

// Delete removes the value for (claimKey, userID).
func (s *MongoSource) Delete(ctx context.Context, claimKey, userID string) error {
	if err := validateKey(claimKey, userID); err != nil {
		return err
	}

	_, err := s.coll.DeleteOne(ctx, bson.M{"claim_key": claimKey, "user_id": userID})
	return err
}
