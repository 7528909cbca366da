package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/pipeline"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func fileContains(path, s string) func() bool {
	return func() bool {
		data, err := os.ReadFile(path)
		return err == nil && bytes.Contains(data, []byte(s))
	}
}

func TestWatchRerendersOnChange(t *testing.T) {
	captureStdout(t)
	dir := t.TempDir()
	tree := writeTree(t, dir, "ada.json")
	out := filepath.Join(dir, "ada.svg")

	c := New(&bytes.Buffer{}, LogInfo)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		opts := pipeline.Options{TreePath: tree, Formats: []string{pipeline.FormatSVG}}
		done <- c.watch(ctx, opts, "", true, 20*time.Millisecond)
	}()

	waitFor(t, "initial render", fileContains(out, "Ada Lovelace"))

	root := sampleTree()
	root.Name = "Augusta Ada King"
	if err := family.Save(tree, root); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "re-render after change", fileContains(out, "Augusta Ada King"))

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("watch returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchKeepsRunningAfterBadEdit(t *testing.T) {
	captureStdout(t)
	dir := t.TempDir()
	tree := writeTree(t, dir, "ada.json")
	out := filepath.Join(dir, "ada.svg")

	c := New(&bytes.Buffer{}, LogInfo)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- c.watch(ctx, pipeline.Options{TreePath: tree}, "", true, 20*time.Millisecond)
	}()
	waitFor(t, "initial render", fileContains(out, "Ada Lovelace"))

	if err := os.WriteFile(tree, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	root := sampleTree()
	root.Name = "Ada King"
	if err := family.Save(tree, root); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "recovery render", fileContains(out, "Ada King"))

	cancel()
	<-done
}

func TestWatchRejectsBadOptions(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	opts := pipeline.Options{TreePath: "ada.json", Formats: []string{"pdf"}}
	if err := c.watch(context.Background(), opts, "", true, time.Millisecond); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
