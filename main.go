// Command hogwild trains a linear classifier with parallel (Hogwild)
// stochastic gradient descent, or with the batch gradient descent
// reference implementation, over a svmlight/binary/ASCII feature file.
package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/hogwildml/hogwild/data"
	"github.com/hogwildml/hogwild/sgd"

	"github.com/spf13/cobra"
)

func main() {
	if err := newCLI().Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// CLI wraps the root cobra command, grounded on the collect-command CLI
// struct used elsewhere in the pack: a thin struct around *cobra.Command
// with flag fields and a PersistentPreRun hook that wires up slog.
type CLI struct {
	verbose bool
	rootCmd *cobra.Command

	trainPath     string
	testPath      string
	format        string
	lambda        float64
	rounds        int
	offset        int
	threads       int
	lossName      string
	clfName       string
	c0            float64
	keepHistories bool
}

func newCLI() *CLI {
	c := &CLI{}
	c.setupCommand()
	return c
}

func (c *CLI) setupCommand() {
	c.rootCmd = &cobra.Command{
		Use:   "hogwild --train FILE --test FILE",
		Short: "Train a linear classifier with parallel or batch SGD",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.initLogging()
		},
		RunE: c.run,
	}

	flags := c.rootCmd.Flags()
	flags.StringVar(&c.trainPath, "train", "", "training set path (required)")
	flags.StringVar(&c.testPath, "test", "", "test set path (required)")
	flags.StringVar(&c.format, "format", "svmlight", "file format: svmlight, binary, ascii")
	flags.Float64Var(&c.lambda, "lambda", 0.1, "L2 regularization strength")
	flags.IntVar(&c.rounds, "rounds", 10, "number of training rounds (epochs)")
	flags.IntVar(&c.offset, "offset", 0, "learning-rate schedule time-step offset t0")
	flags.IntVar(&c.threads, "threads", 1, "requested worker count")
	flags.StringVar(&c.lossName, "loss", "hinge", "loss function: square, hinge, ramp, logistic")
	flags.StringVar(&c.clfName, "clf", "sgd-lock", "classifier: gd, sgd-nolock, sgd-lock")
	flags.Float64Var(&c.c0, "c0", 1.0, "step-size scale c0")
	flags.BoolVar(&c.keepHistories, "keep-histories", false, "retain a weight snapshot per round")
	c.rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose output, including per-round risk")
}

// Run executes the CLI and returns any error.
func (c *CLI) Run() error {
	return c.rootCmd.Execute()
}

func (c *CLI) initLogging() {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func (c *CLI) run(cmd *cobra.Command, args []string) error {
	if c.trainPath == "" || c.testPath == "" {
		return &sgd.ConfigError{Field: "train/test", Msg: "both --train and --test must be given"}
	}

	lossKind, err := sgd.ParseLossKind(c.lossName)
	if err != nil {
		return err
	}

	trainExamples, trainDim, err := loadFile(c.trainPath, c.format)
	if err != nil {
		return fmt.Errorf("loading training set: %w", err)
	}
	testExamples, testDim, err := loadFile(c.testPath, c.format)
	if err != nil {
		return fmt.Errorf("loading test set: %w", err)
	}
	dim := trainDim
	if testDim > dim {
		dim = testDim
	}

	training := sgd.NewDataset(trainExamples, dim, true)
	testing := sgd.NewDataset(testExamples, dim, true)

	model := sgd.Model{Loss: lossKind, Lambda: c.lambda}
	cfg := sgd.TrainingConfig{
		Rounds:        c.rounds,
		Workers:       c.threads,
		Offset:        c.offset,
		C0:            c.c0,
		KeepHistories: c.keepHistories,
		NUMANode:      -1,
	}

	switch c.clfName {
	case "gd":
		return c.runBatchGD(model, cfg, training, testing)
	case "sgd-nolock":
		cfg.Locking = false
		return c.runSGD(model, cfg, "sgd-nolock", training, testing)
	case "sgd-lock":
		cfg.Locking = true
		return c.runSGD(model, cfg, "sgd-lock", training, testing)
	default:
		return &sgd.ConfigError{Field: "clf", Msg: "must be one of gd, sgd-nolock, sgd-lock"}
	}
}

func loadFile(path, format string) ([]sgd.Example, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	switch format {
	case "svmlight":
		return data.ReadSVMLight(f)
	case "binary":
		return data.ReadBinary(f)
	case "ascii":
		return data.ReadASCII(f)
	default:
		return nil, 0, &sgd.ConfigError{Field: "format", Msg: "must be one of svmlight, binary, ascii"}
	}
}

func (c *CLI) runSGD(model sgd.Model, cfg sgd.TrainingConfig, name string, training, testing *sgd.Dataset) error {
	if c.verbose {
		cfg.KeepHistories = true
	}
	trainer := sgd.NewTrainer(model, cfg, name)

	if err := trainer.Fit(training); err != nil {
		return err
	}

	if c.verbose {
		for _, h := range trainer.History() {
			slog.Debug("round complete", "round", h.Round,
				"elapsed_ms", float64(h.ElapsedUs)/1000,
				"empirical_risk", model.EmpiricalRisk(h.W, training))
		}
	}

	evalClassifier(model, name, trainer.Weights(), trainer.MapConfig(), training, testing)
	return nil
}

func (c *CLI) runBatchGD(model sgd.Model, cfg sgd.TrainingConfig, training, testing *sgd.Dataset) error {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	trainer := sgd.NewBatchGD(model, cfg)
	if err := trainer.Fit(training); err != nil {
		return err
	}
	evalClassifier(model, "gd", trainer.Weights(), map[string]string{
		"clf_name":        "gd",
		"clf_nrounds":     fmt.Sprint(cfg.Rounds),
		"clf_training_sz": fmt.Sprint(training.N()),
	}, training, testing)
	return nil
}

// evalClassifier prints the completion report described in SPEC_FULL.md
// §6, grounded on the original implementation's tlearn.cc::evalclf: norm
// of w, infinity norm, empirical risk, gradient norm, train/test
// accuracy, and the configuration dump.
func evalClassifier(model sgd.Model, name string, w []float64, cfg map[string]string, training, testing *sgd.Dataset) {
	norm2 := vecNorm2(w)
	normInf := vecNormInf(w)
	risk := model.EmpiricalRisk(w, training)
	gradNorm := model.NormGradEmpiricalRisk(w, training)
	trainAcc := accuracy(model.Predict(w, training), training)
	testAcc := accuracy(model.Predict(w, testing), testing)

	slog.Info("training complete",
		"clf", name,
		"norm2", norm2,
		"norm_inf", normInf,
		"empirical_risk", risk,
		"grad_norm", gradNorm,
		"train_accuracy", trainAcc,
		"test_accuracy", testAcc,
	)
	for k, v := range cfg {
		slog.Info("config", "key", k, "value", v)
	}
}

func vecNorm2(w []float64) float64 {
	var sum float64
	for _, x := range w {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func vecNormInf(w []float64) float64 {
	var m float64
	for _, x := range w {
		if math.Abs(x) > m {
			m = math.Abs(x)
		}
	}
	return m
}

func accuracy(pred []float64, ds *sgd.Dataset) float64 {
	correct := 0
	for i, p := range pred {
		if p == ds.At(i).Y {
			correct++
		}
	}
	return float64(correct) / float64(len(pred))
}
