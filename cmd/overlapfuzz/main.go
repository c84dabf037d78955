// overlapfuzz cross-checks the overlap solver against brute-force address
// enumeration on randomly generated strided views.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vugar/ndarray/overlap"
)

type options struct {
	iters   int
	workers int
	seed    int64
	maxWork int64
}

func main() {
	opts := options{}
	root := &cobra.Command{
		Use:   "overlapfuzz",
		Short: "Fuzz the strided-view overlap solver against brute force",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}
	root.Flags().IntVar(&opts.iters, "iters", 100000, "total number of random view pairs")
	root.Flags().IntVar(&opts.workers, "workers", 4, "number of concurrent workers")
	root.Flags().Int64Var(&opts.seed, "seed", 1, "base random seed")
	root.Flags().Int64Var(&opts.maxWork, "max-work", overlap.WorkExact, "solver work budget (-1 for exact)")

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	log.Info("fuzzing overlap solver",
		"iters", opts.iters, "workers", opts.workers,
		"seed", opts.seed, "max_work", opts.maxWork)

	g, ctx := errgroup.WithContext(ctx)
	per := opts.iters / opts.workers
	for w := 0; w < opts.workers; w++ {
		seed := opts.seed + int64(w)
		g.Go(func() error {
			return fuzzWorker(ctx, log, seed, per, opts.maxWork)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("done", "checked", per*opts.workers)
	return nil
}

func fuzzWorker(ctx context.Context, log *slog.Logger, seed int64, iters int, maxWork int64) error {
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < iters; i++ {
		if i%10000 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		a := randomView(rng)
		b := randomView(rng)
		truth := viewsIntersect(a, b)

		got, err := overlap.MayShareMemory(a, b, maxWork)
		if err != nil {
			// An exhausted budget must still err on the side of overlap.
			if got {
				continue
			}
			return fmt.Errorf("seed %d iter %d: budget gave up with a negative answer (a=%+v b=%+v)", seed, i, a, b)
		}
		if got != truth {
			return fmt.Errorf("seed %d iter %d: solver says %v, brute force says %v (a=%+v b=%+v)",
				seed, i, got, truth, a, b)
		}
	}
	log.Info("worker finished", "seed", seed, "iters", iters)
	return nil
}

func randomView(rng *rand.Rand) overlap.View {
	ndim := 1 + rng.Intn(3)
	itemSize := []int{1, 2, 4, 8}[rng.Intn(4)]
	v := overlap.View{
		Shape:    make([]int, ndim),
		Strides:  make([]int, ndim),
		ItemSize: itemSize,
		Offset:   rng.Intn(64),
	}
	for i := range v.Shape {
		v.Shape[i] = 1 + rng.Intn(4)
		v.Strides[i] = (rng.Intn(9) - 4) * itemSize
	}
	return v
}

func viewsIntersect(a, b overlap.View) bool {
	set := make(map[int64]struct{})
	eachAddress(a, func(off int64) { set[off] = struct{}{} })
	hit := false
	eachAddress(b, func(off int64) {
		if _, ok := set[off]; ok {
			hit = true
		}
	})
	return hit
}

func eachAddress(v overlap.View, fn func(int64)) {
	n := 1
	for _, d := range v.Shape {
		n *= d
	}
	coords := make([]int, len(v.Shape))
	for i := 0; i < n; i++ {
		rem := i
		for d := len(v.Shape) - 1; d >= 0; d-- {
			coords[d] = rem % v.Shape[d]
			rem /= v.Shape[d]
		}
		off := int64(v.Offset)
		for d, c := range coords {
			off += int64(c) * int64(v.Strides[d])
		}
		for u := int64(0); u < int64(v.ItemSize); u++ {
			fn(off + u)
		}
	}
}
