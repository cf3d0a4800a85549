package suite

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aggfix/aggfix/pkg/docgen"
	"github.com/aggfix/aggfix/pkg/fixture"
)

// DefaultNumDocs is the dataset size used when a declaration leaves NumDocs
// unset.
const DefaultNumDocs = 500

// DefaultTags are applied when a declaration carries no tags.
var DefaultTags = []string{"aggregation", "regression"}

// bypassCount is the row count the terminal skip stage discards. It dwarfs
// any feasible result set, so cursor consumption never reaches the timed
// path.
const bypassCount = int64(1e9)

// Options is the sparse input of one case declaration. Name and Pipeline
// are required; everything else has a documented default.
type Options struct {
	// Name is the case name without the namespace prefix.
	Name string

	// Pipeline is the aggregation pipeline to measure. A nil pipeline is
	// an error; a non-nil empty pipeline is legal and passes through
	// unmodified.
	Pipeline mongo.Pipeline

	// Tags replace DefaultTags when set.
	Tags []string

	// NumDocs is the dataset size for the default populator. Zero means
	// DefaultNumDocs.
	NumDocs int

	// Indexes are created by the default populator after the bulk load, in
	// order.
	Indexes []mongo.IndexModel

	// Docs overrides the default document generator.
	Docs docgen.Generator

	// Fixture replaces the default populator and teardown entirely. It is
	// all-or-nothing: combining it with NumDocs, Indexes, or Docs fails
	// validation rather than silently ignoring them.
	Fixture fixture.Fixture
}

func (o *Options) validate() error {
	if o.Name == "" {
		return ErrMissingName
	}
	if o.Pipeline == nil {
		return fmt.Errorf("%w: case %q", ErrMissingPipeline, o.Name)
	}
	if o.Fixture != nil && (o.NumDocs != 0 || o.Indexes != nil || o.Docs != nil) {
		return fmt.Errorf("%w: case %q", ErrPartialOverride, o.Name)
	}
	return nil
}

// isMaterializing reports whether the stage writes its results to a
// collection instead of streaming them to the caller. Such stages must
// remain last, so the bypass stage is never appended after them.
func isMaterializing(stage bson.D) bool {
	if len(stage) == 0 {
		return false
	}
	switch stage[0].Key {
	case "$out", "$merge":
		return true
	}
	return false
}

// normalize returns a copy of the pipeline with the bypass stage appended,
// unless the pipeline is empty or already ends in a materializing stage.
func normalize(p mongo.Pipeline) mongo.Pipeline {
	out := make(mongo.Pipeline, len(p), len(p)+1)
	copy(out, p)
	if len(out) == 0 || isMaterializing(out[len(out)-1]) {
		return out
	}
	return append(out, bson.D{{Key: "$skip", Value: bypassCount}})
}

// Build turns a sparse declaration into a fully specified TestCase.
func Build(opts Options) (TestCase, error) {
	if err := opts.validate(); err != nil {
		return TestCase{}, err
	}

	fx := opts.Fixture
	if fx == nil {
		numDocs := opts.NumDocs
		if numDocs == 0 {
			numDocs = DefaultNumDocs
		}
		gen := opts.Docs
		if gen == nil {
			gen = docgen.Default()
		}
		fx = &fixture.Seeder{
			NumDocs: numDocs,
			Docs:    gen,
			Indexes: opts.Indexes,
		}
	}

	tags := opts.Tags
	if tags == nil {
		tags = append([]string(nil), DefaultTags...)
	}

	command := bson.D{
		{Key: "aggregate", Value: CollPlaceholder},
		{Key: "pipeline", Value: normalize(opts.Pipeline)},
		{Key: "cursor", Value: bson.D{}},
	}

	return TestCase{
		Name:    Namespace + "." + opts.Name,
		Tags:    tags,
		Fixture: fx,
		Ops: []Operation{{
			Kind:      OpCommand,
			Namespace: DBPlaceholder,
			Command:   command,
		}},
	}, nil
}
