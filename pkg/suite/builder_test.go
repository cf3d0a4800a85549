package suite

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aggfix/aggfix/pkg/docgen"
	"github.com/aggfix/aggfix/pkg/fixture"
)

var bypass = bson.D{{Key: "$skip", Value: int64(1e9)}}

func commandField(t *testing.T, cmd bson.D, key string) interface{} {
	t.Helper()
	for _, e := range cmd {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("command field %q missing from %v", key, cmd)
	return nil
}

func TestBuildAppendsBypassStage(t *testing.T) {
	stageA := bson.D{{Key: "$match", Value: bson.D{{Key: "key", Value: 1}}}}
	stageB := bson.D{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}}}}

	tc, err := Build(Options{Name: "X", Pipeline: mongo.Pipeline{stageA, stageB}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got := commandField(t, tc.Ops[0].Command, "pipeline").(mongo.Pipeline)
	want := mongo.Pipeline{stageA, stageB, bypass}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("normalized pipeline mismatch:\n%s", diff)
	}
}

func TestBuildKeepsMaterializingPipeline(t *testing.T) {
	for _, terminal := range []string{"$out", "$merge"} {
		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.D{{Key: "key", Value: 1}}}},
			{{Key: terminal, Value: "results"}},
		}

		tc, err := Build(Options{Name: "X" + terminal, Pipeline: pipeline})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}

		got := commandField(t, tc.Ops[0].Command, "pipeline").(mongo.Pipeline)
		if diff := cmp.Diff(pipeline, got); diff != "" {
			t.Errorf("%s pipeline was modified:\n%s", terminal, diff)
		}
	}
}

func TestBuildEmptyPipelineUnchanged(t *testing.T) {
	tc, err := Build(Options{Name: "Empty", Pipeline: mongo.Pipeline{}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got := commandField(t, tc.Ops[0].Command, "pipeline").(mongo.Pipeline)
	if len(got) != 0 {
		t.Errorf("empty pipeline gained %d stages: %v", len(got), got)
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	pipeline := mongo.Pipeline{{{Key: "$limit", Value: 10}}}

	if _, err := Build(Options{Name: "X", Pipeline: pipeline}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(pipeline) != 1 {
		t.Errorf("input pipeline mutated to %d stages", len(pipeline))
	}
}

func TestBuildName(t *testing.T) {
	tc, err := Build(Options{Name: "Sort", Pipeline: mongo.Pipeline{{{Key: "$limit", Value: 1}}}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if tc.Name != "Aggregation.Sort" {
		t.Errorf("Name = %q, want Aggregation.Sort", tc.Name)
	}
}

func TestBuildDefaults(t *testing.T) {
	tc, err := Build(Options{Name: "X", Pipeline: mongo.Pipeline{{{Key: "$limit", Value: 10}}}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if diff := cmp.Diff([]string{"aggregation", "regression"}, tc.Tags); diff != "" {
		t.Errorf("default tags mismatch:\n%s", diff)
	}

	seeder, ok := tc.Fixture.(*fixture.Seeder)
	if !ok {
		t.Fatalf("default fixture is %T, want *fixture.Seeder", tc.Fixture)
	}
	if seeder.NumDocs != DefaultNumDocs {
		t.Errorf("NumDocs = %d, want %d", seeder.NumDocs, DefaultNumDocs)
	}
	if seeder.Docs == nil {
		t.Error("default generator not set")
	}
	if seeder.Indexes != nil {
		t.Errorf("default indexes = %v, want none", seeder.Indexes)
	}
}

func TestBuildExplicitTagsPassThrough(t *testing.T) {
	tags := []string{"custom"}
	tc, err := Build(Options{Name: "X", Pipeline: mongo.Pipeline{}, Tags: tags})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if diff := cmp.Diff(tags, tc.Tags); diff != "" {
		t.Errorf("explicit tags modified:\n%s", diff)
	}
}

func TestBuildCommandShape(t *testing.T) {
	tc, err := Build(Options{Name: "X", Pipeline: mongo.Pipeline{{{Key: "$limit", Value: 10}}}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(tc.Ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(tc.Ops))
	}
	op := tc.Ops[0]
	if op.Kind != OpCommand {
		t.Errorf("Kind = %q, want %q", op.Kind, OpCommand)
	}
	if op.Namespace != DBPlaceholder {
		t.Errorf("Namespace = %q, want %q", op.Namespace, DBPlaceholder)
	}
	if got := commandField(t, op.Command, "aggregate"); got != CollPlaceholder {
		t.Errorf("aggregate target = %v, want %q", got, CollPlaceholder)
	}
	cursor, ok := commandField(t, op.Command, "cursor").(bson.D)
	if !ok || len(cursor) != 0 {
		t.Errorf("cursor = %v, want empty document", commandField(t, op.Command, "cursor"))
	}
}

func TestBuildMissingName(t *testing.T) {
	_, err := Build(Options{Pipeline: mongo.Pipeline{}})
	if !errors.Is(err, ErrMissingName) {
		t.Errorf("err = %v, want ErrMissingName", err)
	}
}

func TestBuildMissingPipeline(t *testing.T) {
	_, err := Build(Options{Name: "X"})
	if !errors.Is(err, ErrMissingPipeline) {
		t.Errorf("err = %v, want ErrMissingPipeline", err)
	}
}

func TestBuildPartialOverride(t *testing.T) {
	fx := fixture.Funcs{}
	pipeline := mongo.Pipeline{{{Key: "$limit", Value: 1}}}

	cases := map[string]Options{
		"numDocs": {Name: "X", Pipeline: pipeline, Fixture: fx, NumDocs: 10},
		"indexes": {Name: "X", Pipeline: pipeline, Fixture: fx, Indexes: []mongo.IndexModel{{Keys: bson.D{{Key: "key", Value: 1}}}}},
		"docs":    {Name: "X", Pipeline: pipeline, Fixture: fx, Docs: docgen.Default()},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Build(opts); !errors.Is(err, ErrPartialOverride) {
				t.Errorf("err = %v, want ErrPartialOverride", err)
			}
		})
	}
}

func TestBuildCustomFixture(t *testing.T) {
	fx := fixture.Funcs{}
	tc, err := Build(Options{Name: "X", Pipeline: mongo.Pipeline{}, Fixture: fx})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, ok := tc.Fixture.(fixture.Funcs); !ok {
		t.Errorf("fixture is %T, want the supplied fixture.Funcs", tc.Fixture)
	}
}

func TestBuildCustomNumDocsAndIndexes(t *testing.T) {
	idx := []mongo.IndexModel{{Keys: bson.D{{Key: "loc", Value: "2d"}}}}
	tc, err := Build(Options{
		Name:     "Geo",
		Pipeline: mongo.Pipeline{},
		NumDocs:  1000,
		Indexes:  idx,
		Docs:     docgen.Geo(),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	seeder := tc.Fixture.(*fixture.Seeder)
	if seeder.NumDocs != 1000 {
		t.Errorf("NumDocs = %d, want 1000", seeder.NumDocs)
	}
	if len(seeder.Indexes) != 1 {
		t.Errorf("got %d indexes, want 1", len(seeder.Indexes))
	}
}
