package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/pkg/host"
	"github.com/vango-dev/vpatch/pkg/patch"
	"github.com/vango-dev/vpatch/pkg/render"
	"github.com/vango-dev/vpatch/pkg/server"
	"github.com/vango-dev/vpatch/pkg/treefile"
)

func diffCmd() *cobra.Command {
	var (
		html        bool
		diagnostics string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Patch one tree document into another and print the operations",
		Long: `Mount OLD into an empty document, patch it to NEW and print every
host operation the patch applied, followed by the patch counters.

With --html the rendered document before and after the patch is
compared line by line.

Examples:
  vpatch diff old.json new.json
  vpatch diff --html before.yaml after.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			diag, err := patch.ParseDiagnostics(diagnostics)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
			return runDiff(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], diffOptions{
				html: html,
				cfg: server.Config{
					Logger:      logger,
					Diagnostics: diag,
				},
			})
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "Show a line diff of the rendered HTML")
	cmd.Flags().StringVar(&diagnostics, "diagnostics", "warn", "Contract violation mode: off, warn or strict")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log patch details to stderr")

	return cmd
}

type diffOptions struct {
	html bool
	cfg  server.Config
}

func runDiff(ctx context.Context, w io.Writer, oldPath, newPath string, opts diffOptions) error {
	oldDoc, err := treefile.Load(oldPath)
	if err != nil {
		return err
	}
	newDoc, err := treefile.Load(newPath)
	if err != nil {
		return err
	}

	s := server.NewSession("diff", opts.cfg)
	if _, err := s.Apply(ctx, treefile.ToVNode(oldDoc)); err != nil {
		return err
	}
	pretty := render.Config{Pretty: true}
	before := s.HTML(pretty)

	frame, err := s.Apply(ctx, treefile.ToVNode(newDoc))
	if err != nil {
		return err
	}

	for _, op := range frame.Ops {
		fmt.Fprintln(w, colorOp(op))
	}
	if len(frame.Ops) == 0 {
		success(w, "no changes")
	}

	st := s.Stats()
	fmt.Fprintln(w)
	info(w, "%d ops  created %d  removed %d  moved %d  text %d  hooks %d  (%s)",
		len(frame.Ops), st.Created, st.Removed, st.Moved, st.TextUpdates, st.HookCalls, st.Duration)

	if opts.html {
		fmt.Fprintln(w)
		writeLineDiff(w, before, s.HTML(pretty))
	}
	return nil
}

func colorOp(op host.Op) string {
	s := op.String()
	switch op.Kind {
	case host.OpCreateElement, host.OpCreateText, host.OpCreateComment, host.OpInsert:
		return green("+ ") + s
	case host.OpRemove:
		return red("- ") + s
	case host.OpMove:
		return cyan("~ ") + s
	default:
		return yellow("* ") + s
	}
}

// writeLineDiff prints a line-oriented diff of before and after.
func writeLineDiff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	fmt.Fprintln(w, red("--- before"))
	fmt.Fprintln(w, green("+++ after"))
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fmt.Fprintln(w, green("+"+line))
			case diffmatchpatch.DiffDelete:
				fmt.Fprintln(w, red("-"+line))
			default:
				fmt.Fprintln(w, faint(" "+line))
			}
		}
	}
}
