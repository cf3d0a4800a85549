package fixture

import (
	"context"
	"fmt"
	"math/rand"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aggfix/aggfix/internal/logctx"
	"github.com/aggfix/aggfix/pkg/docgen"
)

// Seeder populates a single collection with a deterministic generated
// dataset and declares its indexes.
type Seeder struct {
	// NumDocs is the number of documents to generate.
	NumDocs int

	// Docs produces the document at each index.
	Docs docgen.Generator

	// Indexes are created after the bulk load, in declaration order.
	Indexes []mongo.IndexModel

	// Seed overrides the fixed generation seed. Zero means docgen.Seed.
	Seed int64
}

func (s *Seeder) seed() int64 {
	if s.Seed != 0 {
		return s.Seed
	}
	return docgen.Seed
}

// documents generates the full dataset in ascending index order. The random
// source is created here, immediately before generation, so the output is
// independent of anything that ran earlier in the process.
func (s *Seeder) documents() []interface{} {
	rng := rand.New(rand.NewSource(s.seed()))
	docs := make([]interface{}, s.NumDocs)
	for i := 0; i < s.NumDocs; i++ {
		docs[i] = s.Docs(i, rng)
	}
	return docs
}

// Setup drops the collection, bulk-loads the generated dataset with an
// unordered insert, then creates the declared indexes. Index creation after
// the load keeps index maintenance out of the dataset's structural
// properties; any index failure is returned as-is to abort suite setup.
func (s *Seeder) Setup(ctx context.Context, coll *mongo.Collection) error {
	log := logctx.FromContext(ctx)

	if err := coll.Drop(ctx); err != nil {
		return fmt.Errorf("drop collection %s: %w", coll.Name(), err)
	}

	docs := s.documents()
	if len(docs) > 0 {
		opts := options.InsertMany().SetOrdered(false)
		if _, err := coll.InsertMany(ctx, docs, opts); err != nil {
			return fmt.Errorf("insert %d documents into %s: %w", s.NumDocs, coll.Name(), err)
		}
	}

	for i, idx := range s.Indexes {
		if _, err := coll.Indexes().CreateOne(ctx, idx); err != nil {
			return fmt.Errorf("create index %d of %d on %s: %w", i+1, len(s.Indexes), coll.Name(), err)
		}
	}

	log.Debug().
		Str("collection", coll.Name()).
		Int("docs", s.NumDocs).
		Int("indexes", len(s.Indexes)).
		Msg("collection seeded")

	return nil
}

// Teardown drops the seeded collection.
func (s *Seeder) Teardown(ctx context.Context, coll *mongo.Collection) error {
	if err := coll.Drop(ctx); err != nil {
		return fmt.Errorf("drop collection %s: %w", coll.Name(), err)
	}
	return nil
}
