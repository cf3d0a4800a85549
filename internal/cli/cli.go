// Package cli implements the command-line interface for aggfix.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/aggfix/aggfix/internal/logctx"
	"github.com/aggfix/aggfix/pkg/aggbench"
	"github.com/aggfix/aggfix/pkg/docgen"
	"github.com/aggfix/aggfix/pkg/fixture"
	"github.com/aggfix/aggfix/pkg/humanfmt"
	"github.com/aggfix/aggfix/pkg/logging"
	"github.com/aggfix/aggfix/pkg/suite"
)

// Run executes the CLI with the given arguments.
func Run(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: aggfix <command> [options]\ncommands: list, dump, seed")
	}

	switch args[0] {
	case "list":
		return runList(args[1:])
	case "dump":
		return runDump(args[1:])
	case "seed":
		return runSeed(args[1:])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// selectCases returns the registered cases whose name contains the filter
// substring; an empty filter selects everything.
func selectCases(filter string) ([]suite.TestCase, error) {
	registry, err := aggbench.Default()
	if err != nil {
		return nil, fmt.Errorf("build suite: %w", err)
	}

	if filter == "" {
		return registry.Cases(), nil
	}

	var selected []suite.TestCase
	for _, tc := range registry.Cases() {
		if strings.Contains(tc.Name, filter) {
			selected = append(selected, tc)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no cases match %q", filter)
	}
	return selected, nil
}

// datasetSize estimates the loaded weight of a case's dataset by marshaling
// its first generated document. Custom fixtures expose no generator to
// sample, so their byte size is unknown.
func datasetSize(tc suite.TestCase) (docs int, size int64, known bool) {
	switch fx := tc.Fixture.(type) {
	case *fixture.Seeder:
		rng := rand.New(rand.NewSource(docgen.Seed))
		raw, err := bson.Marshal(fx.Docs(0, rng))
		if err != nil {
			return fx.NumDocs, 0, false
		}
		return fx.NumDocs, int64(len(raw)) * int64(fx.NumDocs), true
	case *fixture.LookupSeeder:
		// Source plus the derived target collection.
		return fx.NumDocs * 2, 0, false
	default:
		return 0, 0, false
	}
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	filter := fs.String("case", "", "only cases whose name contains this substring")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cases, err := selectCases(*filter)
	if err != nil {
		return err
	}

	for _, tc := range cases {
		docs, size, known := datasetSize(tc)
		line := fmt.Sprintf("%-32s tags=%s docs=%s", tc.Name, strings.Join(tc.Tags, ","), humanfmt.Count(int64(docs)))
		if known {
			line += " data=" + humanfmt.Bytes(size)
		}
		fmt.Println(line)
	}
	return nil
}

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	filter := fs.String("case", "", "only cases whose name contains this substring")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cases, err := selectCases(*filter)
	if err != nil {
		return err
	}

	for _, tc := range cases {
		for _, op := range tc.Ops {
			doc, err := bson.MarshalExtJSON(op.Command, true, false)
			if err != nil {
				return fmt.Errorf("marshal command for %s: %w", tc.Name, err)
			}
			fmt.Printf("%s\t%s\t%s\n", tc.Name, op.Namespace, doc)
		}
	}
	return nil
}

// collectionFor derives a per-case collection name so every fixture loads
// into its own namespace.
func collectionFor(prefix string, tc suite.TestCase) string {
	name := strings.TrimPrefix(tc.Name, suite.Namespace+".")
	return prefix + "_" + strings.ToLower(name)
}

func runSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	uri := fs.String("uri", "mongodb://localhost:27017", "connection string of the target deployment")
	db := fs.String("db", "aggfix", "database to load fixtures into")
	prefix := fs.String("coll-prefix", "agg", "collection name prefix, one collection per case")
	filter := fs.String("case", "", "only cases whose name contains this substring")
	teardown := fs.Bool("teardown", false, "tear fixtures down instead of loading them")
	timeout := fs.Duration("timeout", 5*time.Minute, "per-case time budget")
	debug := fs.Bool("debug", false, "enable debug logging")
	human := fs.Bool("human", false, "human-friendly log output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logging.Init(*debug, *human)
	log := logging.L()

	cases, err := selectCases(*filter)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*uri))
	if err != nil {
		return fmt.Errorf("connect to %s: %w", *uri, err)
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Warn().Err(err).Msg("disconnect failed")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping %s: %w", *uri, err)
	}

	for _, tc := range cases {
		coll := client.Database(*db).Collection(collectionFor(*prefix, tc))

		caseCtx, cancel := context.WithTimeout(ctx, *timeout)
		caseCtx = logctx.WithLogger(caseCtx, logging.WithCase(tc.Name))

		var op string
		if *teardown {
			op = "teardown"
			err = tc.Fixture.Teardown(caseCtx, coll)
		} else {
			op = "setup"
			err = tc.Fixture.Setup(caseCtx, coll)
		}
		cancel()

		if err != nil {
			return fmt.Errorf("%s %s: %w", op, tc.Name, err)
		}
		log.Info().
			Str("case", tc.Name).
			Str("collection", coll.Name()).
			Str("op", op).
			Msg("fixture processed")
	}
	return nil
}
