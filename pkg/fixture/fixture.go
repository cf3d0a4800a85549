// Package fixture implements dataset population and teardown for benchmark
// collections.
//
// A Fixture prepares a collection for one benchmark case and cleans up
// afterwards. Setup is idempotent: it always drops whatever a previous run
// left behind before repopulating, so a fixture can be re-run at will.
// Teardown must leave unrelated persistent state undisturbed.
//
// Population is deterministic: Setup constructs a fresh random source from
// a fixed seed before any document is generated, so the dataset never
// depends on how many other cases were declared or run earlier in the
// process. Generation order is strictly ascending document index,
// regardless of how the unordered bulk insert is applied by the server.
package fixture

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Fixture prepares and tears down the dataset backing one benchmark case.
type Fixture interface {
	// Setup resets the target collection and loads the case dataset.
	Setup(ctx context.Context, coll *mongo.Collection) error

	// Teardown removes everything Setup created.
	Teardown(ctx context.Context, coll *mongo.Collection) error
}

// Funcs adapts a pair of setup/teardown functions into a Fixture. A nil
// function is a no-op.
type Funcs struct {
	Pre  func(ctx context.Context, coll *mongo.Collection) error
	Post func(ctx context.Context, coll *mongo.Collection) error
}

func (f Funcs) Setup(ctx context.Context, coll *mongo.Collection) error {
	if f.Pre == nil {
		return nil
	}
	return f.Pre(ctx, coll)
}

func (f Funcs) Teardown(ctx context.Context, coll *mongo.Collection) error {
	if f.Post == nil {
		return nil
	}
	return f.Post(ctx, coll)
}
