package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/vango-dev/vpatch/internal/config"
	"github.com/vango-dev/vpatch/internal/errors"
	"github.com/vango-dev/vpatch/pkg/patch"
)

func init() {
	color.NoColor = true
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const oldDoc = `{"tag": "ul", "children": [
	{"tag": "li", "key": "a", "children": [{"text": "A"}]},
	{"tag": "li", "key": "b", "children": [{"text": "B"}]},
	{"tag": "li", "key": "c", "children": [{"text": "C"}]}
]}`

const newDoc = `tag: ul
children:
  - tag: li
    key: c
    children: [{text: C}]
  - tag: li
    key: a
    children: [{text: A}]
  - tag: li
    key: d
    children: [{text: D}]
`

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != "dev\n" {
		t.Errorf("version = %q", out)
	}
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.json", oldDoc)
	newPath := writeFile(t, dir, "new.yaml", newDoc)

	out, err := run(t, "diff", oldPath, newPath)
	if err != nil {
		t.Fatalf("diff: %v\n%s", err, out)
	}
	for _, want := range []string{
		"~ Move",
		"- Remove",
		"+ CreateElement",
		"removed 1  moved 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "+++ after") {
		t.Error("html diff printed without --html")
	}
}

func TestDiffHTML(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.json", oldDoc)
	newPath := writeFile(t, dir, "new.yaml", newDoc)

	out, err := run(t, "diff", "--html", oldPath, newPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"+++ after", "-  <li>B</li>", "+  <li>D</li>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDiffNoChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.json", oldDoc)

	out, err := run(t, "diff", path, path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "no changes") || !strings.Contains(out, "0 ops") {
		t.Errorf("output = %s", out)
	}
}

func TestDiffErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", oldDoc)
	bad := writeFile(t, dir, "bad.json", `{"tag": "p", "text": "x"}`)
	dup := writeFile(t, dir, "dup.json", `{"tag": "ul", "children": [{"tag": "li", "key": "a"}, {"tag": "li", "key": "a"}]}`)

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"invalid document", []string{"diff", good, bad}, errors.CodeBadDocument},
		{"missing file", []string{"diff", good, filepath.Join(dir, "nope.json")}, errors.CodeBadDocument},
		{"strict duplicate", []string{"diff", "--diagnostics", "strict", good, dup}, errors.CodeDuplicateKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if got := errors.Code(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}

	if _, err := run(t, "diff", good); err == nil {
		t.Error("diff with one argument succeeded")
	}
	if _, err := run(t, "diff", "--diagnostics", "loud", good, good); err == nil {
		t.Error("unknown diagnostics mode accepted")
	}
}

func TestBench(t *testing.T) {
	out, err := run(t, "bench", "--size", "30", "--rounds", "20", "--seed", "7")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"rounds", "moved/round", "min moves/round", "Move"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunBench(t *testing.T) {
	opts := benchOptions{size: 40, rounds: 25, churn: 0.2, seed: 3}
	res, err := runBench(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	// Each fresh item creates an element and its text; removal detaches
	// only the element.
	if res.created != 2*res.removed {
		t.Errorf("created %d, removed %d", res.created, res.removed)
	}
	if res.removed == 0 || res.removed > 25*8 {
		t.Errorf("removed = %d, want 1..%d", res.removed, 25*8)
	}
	if res.moved < res.minMoves {
		t.Errorf("moved %d below the lower bound %d", res.moved, res.minMoves)
	}

	again, err := runBench(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if again.total != res.total || again.moved != res.moved {
		t.Error("same seed produced different results")
	}

	if _, err := runBench(context.Background(), benchOptions{size: 0, rounds: 1}); err == nil {
		t.Error("size 0 accepted")
	}
	if _, err := runBench(context.Background(), benchOptions{size: 1, rounds: 1, churn: 2}); err == nil {
		t.Error("churn 2 accepted")
	}
}

func TestMinMoves(t *testing.T) {
	tests := []struct {
		prev, next []int
		want       int
	}{
		{[]int{1, 2, 3}, []int{1, 2, 3}, 0},
		{[]int{1, 2, 3}, []int{3, 1, 2}, 1},
		{[]int{1, 2, 3, 4}, []int{4, 3, 2, 1}, 3},
		{[]int{1, 2, 3}, []int{9, 2, 1}, 1},
	}
	for _, tt := range tests {
		if got := minMoves(tt.prev, tt.next); got != tt.want {
			t.Errorf("minMoves(%v, %v) = %d, want %d", tt.prev, tt.next, got, tt.want)
		}
	}
}

func TestServerConfig(t *testing.T) {
	cfg := config.New()
	cfg.Diagnostics = "strict"
	cfg.IsolateHooks = true
	cfg.Metrics.Enabled = true
	cfg.Metrics.Subsystem = "live"
	cfg.Server.WriteTimeout = "3s"

	out, err := serverConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if out.Diagnostics != patch.DiagnosticsStrict || !out.IsolateHooks {
		t.Errorf("diagnostics = %v isolate = %v", out.Diagnostics, out.IsolateHooks)
	}
	if out.Registry == nil || out.Subsystem != "live" || out.Namespace != "vpatch" {
		t.Errorf("metrics = %v %q %q", out.Registry, out.Namespace, out.Subsystem)
	}
	if out.WriteTimeout.Seconds() != 3 {
		t.Errorf("write timeout = %v", out.WriteTimeout)
	}

	cfg.Metrics.Enabled = false
	if out, _ := serverConfig(cfg); out.Registry != nil {
		t.Error("registry created with metrics disabled")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "vpatch.toml", "diagnostics = \"off\"\n[server]\naddr = \":9999\"\n")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Diagnostics != "off" || cfg.Server.Addr != ":9999" {
		t.Errorf("cfg = %+v", cfg)
	}
}
