// Package rolepref provides a preference-driven role assignment engine.
//
// Every round, a host hands the engine a pool of identities with the roles they
// currently hold and the open capacity per role. The engine looks up each identity's
// preference record (a ranked list of all roles plus a rolling average of the ranks it
// actually received), computes a capacity-respecting assignment under a fixed
// operation budget, and folds the achieved ranks back into the records.
//
// # Quick Start
//
// Basic usage with file-backed records:
//
//	import (
//	    "github.com/arloliu/rolepref"
//	    "github.com/arloliu/rolepref/store"
//	)
//
//	cfg := rolepref.DefaultConfig()
//	catalog, _ := cfg.Catalog()
//
//	storage, _ := store.NewFileStorage("preferences")
//	records := store.New(catalog, storage)
//	if err := records.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	engine, err := rolepref.NewEngine(&cfg, records)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := engine.Assign(ctx, pool, nil)
//	for identity, role := range res.Assignment {
//	    game.SetRole(identity, role)
//	}
//
// # Key Features
//
//   - Bounded Search: Branch-and-bound that returns the best assignment found within budget
//   - Pairwise Swap: Local search that only improves the roles already handed out
//   - Fairness Smoothing: Ratings blend raw rank with each identity's historical luck
//   - Self-Healing Records: Corrupt persisted records are repaired deterministically and re-saved
//   - Pluggable Storage: Directory of text files, NATS JetStream KV, or memory
//
// # Budget and Degradation
//
// Assignments never block on wall-clock time. Every branch attempt or pairwise
// comparison spends one operation of Config.MaxOperationBudget. When the budget runs
// out the best assignment found so far is used; when nothing was found the engine
// keeps the current roles and reports StatusFailed. Both cases write a snapshot of
// all records to Config.SnapshotDir for offline tuning.
//
// # Advanced Usage
//
// Custom strategy and hooks:
//
//	import (
//	    "github.com/arloliu/rolepref"
//	    "github.com/arloliu/rolepref/strategy"
//	)
//
//	swap := strategy.NewPairwiseSwap(catalog,
//	    strategy.WithWeightMultiplier(0.5),
//	)
//
//	hooks := &rolepref.Hooks{
//	    OnBudgetExhausted: func(ctx context.Context, diag rolepref.Diagnostics) error {
//	        alert.Send("role assignment ran out of budget", diag)
//	        return nil
//	    },
//	}
//
//	engine, err := rolepref.NewEngine(&cfg, records,
//	    rolepref.WithStrategy(swap),
//	    rolepref.WithHooks(hooks),
//	)
//
// See cmd/rolepref for a complete administrative CLI.
package rolepref
