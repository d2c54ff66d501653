package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/render"
	"github.com/vango-dev/vpatch/pkg/server"
	"github.com/vango-dev/vpatch/pkg/vdom"
)

func benchCmd() *cobra.Command {
	var opts benchOptions

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Patch randomized keyed list permutations",
		Long: `Patch a keyed list through a sequence of random permutations and
report the operations applied.

Each round shuffles the list, drops a fraction of the keys and inserts
the same number of fresh ones. The live tree is checked against the
expected order after every round. "min moves" is the number of kept
items outside the longest run that kept its relative order, the fewest
moves any reorder could use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runBench(cmd.Context(), opts)
			if err != nil {
				return err
			}
			res.print(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.size, "size", "n", 100, "List length")
	cmd.Flags().IntVarP(&opts.rounds, "rounds", "r", 100, "Number of permutations")
	cmd.Flags().Float64Var(&opts.churn, "churn", 0.1, "Fraction of keys replaced each round")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Random seed")

	return cmd
}

type benchOptions struct {
	size   int
	rounds int
	churn  float64
	seed   uint64
}

type benchResult struct {
	opts     benchOptions
	ops      map[host.OpKind]int
	total    int
	created  int
	removed  int
	moved    int
	minMoves int
	elapsed  time.Duration
}

func runBench(ctx context.Context, opts benchOptions) (*benchResult, error) {
	if opts.size <= 0 || opts.rounds <= 0 {
		return nil, fmt.Errorf("size and rounds must be positive")
	}
	if opts.churn < 0 || opts.churn > 1 {
		return nil, fmt.Errorf("churn must be between 0 and 1")
	}

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed))
	s := server.NewSession("bench", server.Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	next := 0
	keys := make([]int, opts.size)
	for i := range keys {
		keys[i] = next
		next++
	}
	if _, err := s.Apply(ctx, keyedList(keys)); err != nil {
		return nil, err
	}

	res := &benchResult{opts: opts, ops: make(map[host.OpKind]int)}
	for round := 0; round < opts.rounds; round++ {
		prev := keys
		keys = permute(rng, prev, int(opts.churn*float64(opts.size)), &next)

		frame, err := s.Apply(ctx, keyedList(keys))
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		if got, want := s.HTML(render.Config{}), expectedHTML(keys); got != want {
			return nil, fmt.Errorf("round %d: live tree out of order", round)
		}

		for _, op := range frame.Ops {
			res.ops[op.Kind]++
		}
		st := s.Stats()
		res.total += len(frame.Ops)
		res.created += st.Created
		res.removed += st.Removed
		res.moved += st.Moved
		res.minMoves += minMoves(prev, keys)
		res.elapsed += st.Duration
	}
	return res, nil
}

// permute shuffles keys and replaces n of them with fresh keys.
func permute(rng *rand.Rand, keys []int, n int, next *int) []int {
	out := make([]int, len(keys))
	copy(out, keys)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	for i := 0; i < n && i < len(out); i++ {
		out[rng.IntN(len(out))] = *next
		*next++
	}
	return out
}

func keyedList(keys []int) *vdom.VNode {
	items := make([]any, len(keys))
	for i, k := range keys {
		s := strconv.Itoa(k)
		items[i] = vdom.Li(vdom.Key(s), s)
	}
	return vdom.Ul(items...)
}

func expectedHTML(keys []int) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for _, k := range keys {
		fmt.Fprintf(&b, "<li>%d</li>", k)
	}
	b.WriteString("</ul>")
	return b.String()
}

// minMoves returns the number of keys kept from prev that lie outside the
// longest increasing run of their old positions in next.
func minMoves(prev, next []int) int {
	pos := make(map[int]int, len(prev))
	for i, k := range prev {
		pos[k] = i
	}
	var seq []int
	for _, k := range next {
		if i, ok := pos[k]; ok {
			seq = append(seq, i)
		}
	}
	var tails []int
	for _, v := range seq {
		i := sort.SearchInts(tails, v)
		if i == len(tails) {
			tails = append(tails, v)
		} else {
			tails[i] = v
		}
	}
	return len(seq) - len(tails)
}

func (r *benchResult) print(w io.Writer) {
	rounds := float64(r.opts.rounds)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "size\t%d\n", r.opts.size)
	fmt.Fprintf(tw, "rounds\t%d\n", r.opts.rounds)
	fmt.Fprintf(tw, "churn\t%.2f\n", r.opts.churn)
	fmt.Fprintf(tw, "ops/round\t%.1f\n", float64(r.total)/rounds)
	fmt.Fprintf(tw, "created/round\t%.1f\n", float64(r.created)/rounds)
	fmt.Fprintf(tw, "removed/round\t%.1f\n", float64(r.removed)/rounds)
	fmt.Fprintf(tw, "moved/round\t%.1f\n", float64(r.moved)/rounds)
	fmt.Fprintf(tw, "min moves/round\t%.1f\n", float64(r.minMoves)/rounds)
	fmt.Fprintf(tw, "time/round\t%s\n", r.elapsed/time.Duration(r.opts.rounds))
	tw.Flush()

	fmt.Fprintln(w)
	kinds := make([]host.OpKind, 0, len(r.ops))
	for k := range r.ops {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		info(w, "%-16s %d", k, r.ops[k])
	}
}
