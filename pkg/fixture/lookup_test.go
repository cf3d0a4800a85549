package fixture

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func field(t *testing.T, doc interface{}, key string) interface{} {
	t.Helper()
	for _, e := range doc.(bson.D) {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("field %q missing from %v", key, doc)
	return nil
}

func TestLookupSeederOneToOne(t *testing.T) {
	s := &LookupSeeder{NumDocs: 100, Mode: OneToOne}

	source, target := s.datasets()
	if len(source) != 100 || len(target) != 100 {
		t.Fatalf("generated %d/%d documents, want 100/100", len(source), len(target))
	}

	targetKeys := make(map[int]bool, len(target))
	for _, doc := range target {
		targetKeys[field(t, doc, "_id").(int)] = true
	}

	for i, doc := range source {
		key := field(t, doc, "key").(int)
		if key != i {
			t.Fatalf("source %d references key %d, want %d", i, key, i)
		}
		if !targetKeys[key] {
			t.Fatalf("source %d references absent target key %d", i, key)
		}
	}
}

func TestLookupSeederFanOutReferencesResolve(t *testing.T) {
	const n = 500
	s := &LookupSeeder{NumDocs: n, Mode: FanOut}

	source, target := s.datasets()

	targetKeys := make(map[int]bool, len(target))
	for _, doc := range target {
		targetKeys[field(t, doc, "_id").(int)] = true
	}

	for i, doc := range source {
		refs := field(t, doc, "refs").(bson.A)
		if len(refs) < 1 || len(refs) > DefaultMaxRefs {
			t.Fatalf("source %d has %d refs, want 1..%d", i, len(refs), DefaultMaxRefs)
		}
		for _, r := range refs {
			v := r.(int)
			if v < 0 || v >= n {
				t.Fatalf("source %d ref %d outside [0,%d)", i, v, n)
			}
			if !targetKeys[v] {
				t.Fatalf("source %d references absent target key %d", i, v)
			}
		}
	}
}

func TestLookupSeederDeterministic(t *testing.T) {
	s := &LookupSeeder{NumDocs: 200, Mode: FanOut, MaxRefs: 5}

	src1, tgt1 := s.datasets()
	src2, tgt2 := s.datasets()

	if diff := cmp.Diff(src1, src2); diff != "" {
		t.Errorf("source datasets differ between runs:\n%s", diff)
	}
	if diff := cmp.Diff(tgt1, tgt2); diff != "" {
		t.Errorf("target datasets differ between runs:\n%s", diff)
	}
}

func TestLookupSeederTargetNaming(t *testing.T) {
	// Connect is lazy in the driver; deriving collection handles performs
	// no I/O.
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	coll := client.Database("bench").Collection("agg")
	s := &LookupSeeder{NumDocs: 10}

	tgt := s.Target(coll)
	if tgt.Name() != "agg"+LookupSuffix {
		t.Errorf("target name = %q, want %q", tgt.Name(), "agg"+LookupSuffix)
	}
	if tgt.Database().Name() != "bench" {
		t.Errorf("target database = %q, want bench", tgt.Database().Name())
	}
}
