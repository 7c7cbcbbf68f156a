package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hogwildml/hogwild/sgd"
)

func writeTempSVMLight(t *testing.T, lines string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.svm")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestLoadFileDispatchesByFormat(t *testing.T) {
	path := writeTempSVMLight(t, "1 1:1.0 2:1.0\n-1 1:1.0 3:1.0\n")
	examples, dim, err := loadFile(path, "svmlight")
	if err != nil {
		t.Fatalf("loadFile: %v", err)
	}
	if dim != 3 {
		t.Fatalf("dim = %d, want 3", dim)
	}
	if len(examples) != 2 {
		t.Fatalf("got %d examples, want 2", len(examples))
	}
}

func TestLoadFileRejectsUnknownFormat(t *testing.T) {
	path := writeTempSVMLight(t, "1 1:1.0\n")
	if _, _, err := loadFile(path, "bogus"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestAccuracyHelper(t *testing.T) {
	ds := sgd.NewDataset([]sgd.Example{
		{X: sgd.NewDenseVector([]float64{1}), Y: 1},
		{X: sgd.NewDenseVector([]float64{1}), Y: -1},
	}, 1, false)
	acc := accuracy([]float64{1, 1}, ds)
	if acc != 0.5 {
		t.Fatalf("accuracy = %v, want 0.5", acc)
	}
}

func TestRunEndToEndSGDNoLock(t *testing.T) {
	path := writeTempSVMLight(t, "1 1:1.0 2:0.1\n-1 1:-1.0 2:0.2\n1 1:0.9 2:0.1\n-1 1:-0.8 2:0.3\n")
	c := newCLI()
	c.trainPath = path
	c.testPath = path
	c.format = "svmlight"
	c.lambda = 0.1
	c.rounds = 5
	c.threads = 2
	c.lossName = "hinge"
	c.clfName = "sgd-nolock"
	c.c0 = 1.0

	if err := c.run(c.rootCmd, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunRejectsMissingFiles(t *testing.T) {
	c := newCLI()
	if err := c.run(c.rootCmd, nil); err == nil {
		t.Fatal("expected error when --train/--test are missing")
	}
}
