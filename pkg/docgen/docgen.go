// Package docgen provides deterministic document generators for benchmark
// datasets.
//
// A Generator maps a document index to a bson.D. Generators are pure in the
// index except for explicit use of the *rand.Rand handle threaded in by the
// populator, which seeds it to a fixed constant before generation begins.
// Given the same index sequence and seed, every generator reproduces the
// same documents across runs and processes.
package docgen

import (
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/aggfix/aggfix/pkg/strpool"
)

// Seed is the fixed seed populators use for dataset generation.
const Seed = 42

// PayloadBytes is the filler-string size of the default document, chosen so
// a default dataset has realistic per-document weight.
const PayloadBytes = 12 << 10

// ReferenceTime is the fixed instant stamped into generated metadata.
// A wall-clock timestamp would break byte-identical reproduction across
// runs, so generation time is pinned.
var ReferenceTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// filler serves every payload request in this package. Sized above the
// largest payload any generator asks for.
var filler = strpool.New(16 << 10)

// Generator produces the document at index i, drawing any randomness from
// rng only.
type Generator func(i int, rng *rand.Rand) bson.D

// Default returns the standard payload generator: a unique _id, a filler
// string of PayloadBytes, a nested sub-document derived from the index, and
// a static metadata block.
func Default() Generator {
	return func(i int, _ *rand.Rand) bson.D {
		return bson.D{
			{Key: "_id", Value: i},
			{Key: "payload", Value: filler.Slice(PayloadBytes)},
			{Key: "nested", Value: bson.D{
				{Key: "x", Value: i},
				{Key: "y", Value: i * i},
			}},
			{Key: "meta", Value: bson.D{
				{Key: "description", Value: "benchmark fixture document"},
				{Key: "created", Value: ReferenceTime},
			}},
		}
	}
}

// Geo returns a generator producing uniform 2-D and 3-D coordinates plus a
// boolean filter flag, for geo-near pipelines.
func Geo() Generator {
	return func(i int, rng *rand.Rand) bson.D {
		return bson.D{
			{Key: "_id", Value: i},
			{Key: "loc", Value: bson.A{
				rng.Float64()*360 - 180,
				rng.Float64()*180 - 90,
			}},
			{Key: "loc3d", Value: bson.A{rng.Float64(), rng.Float64(), rng.Float64()}},
			{Key: "include", Value: rng.Intn(2) == 0},
		}
	}
}

// GroupKey returns a generator bucketing documents into the given number of
// modulo groups, with a random value field to aggregate over.
func GroupKey(buckets int) Generator {
	return func(i int, rng *rand.Rand) bson.D {
		return bson.D{
			{Key: "_id", Value: i},
			{Key: "key", Value: i % buckets},
			{Key: "value", Value: rng.Float64()},
		}
	}
}

// SortKey returns a generator with a uniformly random sort key, so sort
// pipelines see unordered input.
func SortKey() Generator {
	return func(i int, rng *rand.Rand) bson.D {
		return bson.D{
			{Key: "_id", Value: i},
			{Key: "key", Value: rng.Int63()},
		}
	}
}

// UnwindArray returns a generator carrying an array of n heterogeneously
// typed items, for flattening pipelines.
func UnwindArray(n int) Generator {
	return func(i int, rng *rand.Rand) bson.D {
		items := make(bson.A, n)
		for j := range items {
			switch j % 5 {
			case 0:
				items[j] = "item"
			case 1:
				items[j] = int32(i + j)
			case 2:
				items[j] = rng.Float64()
			case 3:
				items[j] = bson.D{{Key: "n", Value: j}}
			default:
				items[j] = j%2 == 0
			}
		}
		return bson.D{
			{Key: "_id", Value: i},
			{Key: "items", Value: items},
		}
	}
}

// Refs returns a generator whose documents carry a randomly sized array of
// 1..maxRefs references drawn uniformly from [0, space), modeling join
// fan-out into a target collection keyed 0..space-1.
func Refs(space, maxRefs int) Generator {
	return func(i int, rng *rand.Rand) bson.D {
		refs := make(bson.A, 1+rng.Intn(maxRefs))
		for j := range refs {
			refs[j] = rng.Intn(space)
		}
		return bson.D{
			{Key: "_id", Value: i},
			{Key: "refs", Value: refs},
		}
	}
}
