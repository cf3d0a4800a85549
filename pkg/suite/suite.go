// Package suite builds fully specified benchmark test cases from sparse
// declarations and accumulates them in a registry.
//
// A declaration supplies a name and a pipeline and, optionally, dataset
// options. The builder fills in defaults (document count, tags, populator,
// teardown) and normalizes the pipeline so the produced case measures
// pipeline-stage cost rather than result serialization: unless the pipeline
// already ends in a stage that writes its results out, a terminal skip
// stage discarding far more rows than any feasible result set is appended.
//
// The registry is consumed by an external runner, which resolves the
// namespace placeholders embedded in each command to concrete database and
// collection identities, invokes Setup, times the ops, and invokes
// Teardown. This package never resolves placeholders and never executes
// pipelines.
package suite

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/aggfix/aggfix/pkg/fixture"
)

// Namespace prefixes every case name, separating this suite from others
// sharing a runner.
const Namespace = "Aggregation"

// Placeholder tokens resolved by the runner. They may appear anywhere in an
// operation's command document, including inside pipeline stages.
const (
	DBPlaceholder   = "#B_DB"
	CollPlaceholder = "#B_COLL"
)

// OpCommand is the kind of every operation this suite emits.
const OpCommand = "command"

// Operation is one runner-visible operation of a test case.
type Operation struct {
	// Kind is always OpCommand.
	Kind string

	// Namespace is the placeholder the command runs against.
	Namespace string

	// Command is the full command document.
	Command bson.D
}

// TestCase is a self-contained benchmark unit. It is immutable once built;
// the registry owns it for the life of the process.
type TestCase struct {
	// Name is the namespace-prefixed case name, unique within a registry.
	Name string

	// Tags classify the case for suite selection by the runner.
	Tags []string

	// Fixture populates and tears down the case dataset.
	Fixture fixture.Fixture

	// Ops are executed in order by the runner. Every case this suite
	// produces has exactly one command operation; the slice form leaves
	// room for multi-op cases.
	Ops []Operation
}
