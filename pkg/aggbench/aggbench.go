// Package aggbench declares the aggregation benchmark suite.
//
// Each declaration is a sparse suite.Options record; the builder fills in
// the deterministic populator, tags, and pipeline normalization. The
// resulting registry is handed whole to an external runner.
package aggbench

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aggfix/aggfix/pkg/docgen"
	"github.com/aggfix/aggfix/pkg/fixture"
	"github.com/aggfix/aggfix/pkg/suite"
)

// lookupTarget is the placeholder-derived name of the join target
// collection; the runner resolves the embedded collection placeholder.
const lookupTarget = suite.CollPlaceholder + fixture.LookupSuffix

// outTarget is the placeholder-derived name of the collection the
// materializing case writes to.
const outTarget = suite.CollPlaceholder + "_out"

// Register declares every benchmark case into the registry, stopping at the
// first failed declaration.
func Register(r *suite.Registry) error {
	for _, opts := range declarations() {
		if err := r.Declare(opts); err != nil {
			return fmt.Errorf("declare %s: %w", opts.Name, err)
		}
	}
	return nil
}

// Default builds a fresh registry holding the full suite.
func Default() (*suite.Registry, error) {
	r := suite.NewRegistry()
	if err := Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

func declarations() []suite.Options {
	return []suite.Options{
		{
			Name:     "Empty",
			Pipeline: mongo.Pipeline{},
		},
		{
			Name: "Match",
			Pipeline: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{{Key: "nested.x", Value: bson.D{{Key: "$lt", Value: 250}}}}}},
			},
		},
		{
			Name: "Project",
			Pipeline: mongo.Pipeline{
				{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}, {Key: "nested", Value: 1}}}},
			},
		},
		{
			Name: "AddFields",
			Pipeline: mongo.Pipeline{
				{{Key: "$addFields", Value: bson.D{
					{Key: "z", Value: bson.D{{Key: "$add", Value: bson.A{"$nested.x", "$nested.y"}}}},
				}}},
			},
		},
		{
			Name: "Limit",
			Pipeline: mongo.Pipeline{
				{{Key: "$limit", Value: 10}},
			},
		},
		{
			Name: "Skip",
			Pipeline: mongo.Pipeline{
				{{Key: "$skip", Value: 250}},
			},
		},
		{
			Name: "Count",
			Pipeline: mongo.Pipeline{
				{{Key: "$count", Value: "n"}},
			},
		},
		{
			Name: "Sample",
			Pipeline: mongo.Pipeline{
				{{Key: "$sample", Value: bson.D{{Key: "size", Value: 50}}}},
			},
		},
		{
			Name: "GroupAll",
			Docs: docgen.GroupKey(10),
			Pipeline: mongo.Pipeline{
				{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: nil},
					{Key: "total", Value: bson.D{{Key: "$sum", Value: "$value"}}},
				}}},
			},
		},
		{
			Name: "GroupByKey",
			Docs: docgen.GroupKey(10),
			Pipeline: mongo.Pipeline{
				{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: "$key"},
					{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$value"}}},
				}}},
			},
		},
		{
			Name: "GroupManyKeys",
			Docs: docgen.GroupKey(suite.DefaultNumDocs),
			Pipeline: mongo.Pipeline{
				{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: "$key"},
					{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
				}}},
			},
		},
		{
			Name: "BucketAuto",
			Docs: docgen.SortKey(),
			Pipeline: mongo.Pipeline{
				{{Key: "$bucketAuto", Value: bson.D{
					{Key: "groupBy", Value: "$key"},
					{Key: "buckets", Value: 10},
				}}},
			},
		},
		{
			Name: "Sort",
			Docs: docgen.SortKey(),
			Pipeline: mongo.Pipeline{
				{{Key: "$sort", Value: bson.D{{Key: "key", Value: 1}}}},
			},
		},
		{
			Name: "SortThenLimit",
			Docs: docgen.SortKey(),
			Pipeline: mongo.Pipeline{
				{{Key: "$sort", Value: bson.D{{Key: "key", Value: -1}}}},
				{{Key: "$limit", Value: 10}},
			},
		},
		{
			Name:    "SortIndexed",
			Docs:    docgen.SortKey(),
			Indexes: []mongo.IndexModel{{Keys: bson.D{{Key: "key", Value: 1}}}},
			Pipeline: mongo.Pipeline{
				{{Key: "$sort", Value: bson.D{{Key: "key", Value: 1}}}},
			},
		},
		{
			Name: "Unwind",
			Docs: docgen.UnwindArray(8),
			Pipeline: mongo.Pipeline{
				{{Key: "$unwind", Value: "$items"}},
			},
		},
		{
			Name: "UnwindThenGroup",
			Docs: docgen.UnwindArray(8),
			Pipeline: mongo.Pipeline{
				{{Key: "$unwind", Value: "$items"}},
				{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: "$items"},
					{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
				}}},
			},
		},
		{
			Name: "UnwindThenSort",
			Docs: docgen.UnwindArray(8),
			Pipeline: mongo.Pipeline{
				{{Key: "$unwind", Value: "$items"}},
				{{Key: "$sort", Value: bson.D{{Key: "items", Value: 1}}}},
			},
		},
		{
			Name:    "GeoNear2d",
			Docs:    docgen.Geo(),
			Indexes: []mongo.IndexModel{{Keys: bson.D{{Key: "loc", Value: "2d"}}}},
			Pipeline: mongo.Pipeline{
				{{Key: "$geoNear", Value: bson.D{
					{Key: "near", Value: bson.A{0.0, 0.0}},
					{Key: "distanceField", Value: "dist"},
				}}},
			},
		},
		{
			Name:    "GeoNear2dFiltered",
			Docs:    docgen.Geo(),
			Indexes: []mongo.IndexModel{{Keys: bson.D{{Key: "loc", Value: "2d"}}}},
			Pipeline: mongo.Pipeline{
				{{Key: "$geoNear", Value: bson.D{
					{Key: "near", Value: bson.A{0.0, 0.0}},
					{Key: "distanceField", Value: "dist"},
					{Key: "query", Value: bson.D{{Key: "include", Value: true}}},
				}}},
			},
		},
		{
			Name: "Facet",
			Pipeline: mongo.Pipeline{
				{{Key: "$facet", Value: bson.D{
					{Key: "counts", Value: bson.A{bson.D{{Key: "$count", Value: "n"}}}},
					{Key: "first", Value: bson.A{bson.D{{Key: "$limit", Value: 5}}}},
				}}},
			},
		},
		{
			Name:    "Out",
			Fixture: outFixture(),
			Pipeline: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{{Key: "nested.x", Value: bson.D{{Key: "$lt", Value: 250}}}}}},
				{{Key: "$out", Value: outTarget}},
			},
		},
		{
			Name:    "Lookup",
			Fixture: &fixture.LookupSeeder{NumDocs: suite.DefaultNumDocs, Mode: fixture.OneToOne},
			Pipeline: mongo.Pipeline{
				{{Key: "$lookup", Value: bson.D{
					{Key: "from", Value: lookupTarget},
					{Key: "localField", Value: "key"},
					{Key: "foreignField", Value: "_id"},
					{Key: "as", Value: "joined"},
				}}},
			},
		},
		{
			Name:    "LookupFanOut",
			Fixture: &fixture.LookupSeeder{NumDocs: suite.DefaultNumDocs, Mode: fixture.FanOut},
			Pipeline: mongo.Pipeline{
				{{Key: "$lookup", Value: bson.D{
					{Key: "from", Value: lookupTarget},
					{Key: "localField", Value: "refs"},
					{Key: "foreignField", Value: "_id"},
					{Key: "as", Value: "joined"},
				}}},
			},
		},
		{
			Name:    "GraphLookup",
			Fixture: &fixture.LookupSeeder{NumDocs: suite.DefaultNumDocs, Mode: fixture.OneToOne},
			Pipeline: mongo.Pipeline{
				{{Key: "$graphLookup", Value: bson.D{
					{Key: "from", Value: lookupTarget},
					{Key: "startWith", Value: "$key"},
					{Key: "connectFromField", Value: "key"},
					{Key: "connectToField", Value: "_id"},
					{Key: "maxDepth", Value: 2},
					{Key: "as", Value: "chain"},
				}}},
			},
		},
	}
}

// outFixture seeds the standard dataset and additionally tears down the
// collection the $out stage writes; the default teardown only knows about
// one collection.
func outFixture() fixture.Fixture {
	seeder := &fixture.Seeder{
		NumDocs: suite.DefaultNumDocs,
		Docs:    docgen.Default(),
	}
	return fixture.Funcs{
		Pre: seeder.Setup,
		Post: func(ctx context.Context, coll *mongo.Collection) error {
			if err := seeder.Teardown(ctx, coll); err != nil {
				return err
			}
			out := coll.Database().Collection(coll.Name() + "_out")
			if err := out.Drop(ctx); err != nil {
				return fmt.Errorf("drop collection %s: %w", out.Name(), err)
			}
			return nil
		},
	}
}
