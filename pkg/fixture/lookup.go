package fixture

import (
	"context"
	"fmt"
	"math/rand"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aggfix/aggfix/internal/logctx"
	"github.com/aggfix/aggfix/pkg/docgen"
)

// LookupSuffix is appended to the source collection name to derive the
// lookup target collection.
const LookupSuffix = "_lookup"

// DefaultMaxRefs bounds the per-document reference count in fan-out mode.
const DefaultMaxRefs = 10

// RefMode selects how source documents reference target documents.
type RefMode int

const (
	// OneToOne makes source document i reference target document i.
	OneToOne RefMode = iota

	// FanOut gives each source document a randomly sized array of random
	// references into the target key space.
	FanOut
)

// LookupSeeder populates a source collection and a derived lookup target
// for join-style pipelines. Both collections are generated in a single pass
// from one seeded random source, so every foreign key in the source
// references a key present in the target.
type LookupSeeder struct {
	// NumDocs is the document count for both collections.
	NumDocs int

	// Mode selects the reference shape.
	Mode RefMode

	// MaxRefs bounds the fan-out reference array. Zero means
	// DefaultMaxRefs. Ignored in OneToOne mode.
	MaxRefs int

	// Seed overrides the fixed generation seed. Zero means docgen.Seed.
	Seed int64
}

// Target derives the lookup target collection from the source handle.
func (s *LookupSeeder) Target(coll *mongo.Collection) *mongo.Collection {
	return coll.Database().Collection(coll.Name() + LookupSuffix)
}

func (s *LookupSeeder) seed() int64 {
	if s.Seed != 0 {
		return s.Seed
	}
	return docgen.Seed
}

func (s *LookupSeeder) maxRefs() int {
	if s.MaxRefs > 0 {
		return s.MaxRefs
	}
	return DefaultMaxRefs
}

// datasets generates source and target documents in one ascending pass over
// the shared index, consuming a single seeded random source.
func (s *LookupSeeder) datasets() (source, target []interface{}) {
	rng := rand.New(rand.NewSource(s.seed()))
	refs := docgen.Refs(s.NumDocs, s.maxRefs())

	source = make([]interface{}, s.NumDocs)
	target = make([]interface{}, s.NumDocs)
	for i := 0; i < s.NumDocs; i++ {
		switch s.Mode {
		case FanOut:
			source[i] = refs(i, rng)
		default:
			source[i] = bson.D{{Key: "_id", Value: i}, {Key: "key", Value: i}}
		}
		target[i] = bson.D{{Key: "_id", Value: i}, {Key: "value", Value: i * i}}
	}
	return source, target
}

// Setup drops both collections and repopulates them.
func (s *LookupSeeder) Setup(ctx context.Context, coll *mongo.Collection) error {
	log := logctx.FromContext(ctx)
	targetColl := s.Target(coll)

	if err := coll.Drop(ctx); err != nil {
		return fmt.Errorf("drop collection %s: %w", coll.Name(), err)
	}
	if err := targetColl.Drop(ctx); err != nil {
		return fmt.Errorf("drop collection %s: %w", targetColl.Name(), err)
	}

	source, target := s.datasets()
	opts := options.InsertMany().SetOrdered(false)
	if len(source) > 0 {
		if _, err := coll.InsertMany(ctx, source, opts); err != nil {
			return fmt.Errorf("insert %d documents into %s: %w", s.NumDocs, coll.Name(), err)
		}
		if _, err := targetColl.InsertMany(ctx, target, opts); err != nil {
			return fmt.Errorf("insert %d documents into %s: %w", s.NumDocs, targetColl.Name(), err)
		}
	}

	log.Debug().
		Str("collection", coll.Name()).
		Str("target", targetColl.Name()).
		Int("docs", s.NumDocs).
		Msg("lookup collections seeded")

	return nil
}

// Teardown drops the source and the derived target collection.
func (s *LookupSeeder) Teardown(ctx context.Context, coll *mongo.Collection) error {
	if err := coll.Drop(ctx); err != nil {
		return fmt.Errorf("drop collection %s: %w", coll.Name(), err)
	}
	if err := s.Target(coll).Drop(ctx); err != nil {
		return fmt.Errorf("drop collection %s%s: %w", coll.Name(), LookupSuffix, err)
	}
	return nil
}
