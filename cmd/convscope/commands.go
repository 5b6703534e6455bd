package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/born-ml/convscope/internal/assistant"
	"github.com/born-ml/convscope/internal/backend/cpu"
	"github.com/born-ml/convscope/internal/config"
	"github.com/born-ml/convscope/internal/imageio"
	"github.com/born-ml/convscope/internal/nn"
	"github.com/born-ml/convscope/internal/parallel"
	"github.com/born-ml/convscope/internal/preview"
	"github.com/born-ml/convscope/internal/session"
	"github.com/born-ml/convscope/internal/tokenizer"
	"github.com/born-ml/convscope/internal/vision"
)

func runKernels(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("kernels", stderr)
	verbose := fs.Bool("v", false, "print the kernel values")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, p := range vision.Presets {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Slug, p.Name, p.Description)
		if *verbose {
			for _, row := range strings.Split(p.Kernel.String(), "\n") {
				fmt.Fprintf(tw, "\t%s\t\n", row)
			}
		}
	}
	return tw.Flush()
}

func runConvolve(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("convolve", stderr)
	var g globalFlags
	var o optionFlags
	g.register(fs)
	o.register(fs)
	in := fs.String("in", "", "input image (png, jpeg, gif, bmp, webp)")
	out := fs.String("out", "", "output PNG path")
	heatmap := fs.Bool("heatmap", false, "color the output intensity with a heatmap")
	workers := fs.Int("workers", 0, "worker goroutines (0 uses every core)")
	debounce := fs.Duration("debounce", 0, "quiet period before the preview is computed (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return errors.New("convolve: -in and -out are required")
	}

	cfg, kernel, logger, err := g.load(stderr)
	if err != nil {
		return err
	}
	if isSet(fs, "workers") {
		cfg.Preview.Workers = *workers
	}
	if isSet(fs, "debounce") {
		if *debounce < 0 {
			return fmt.Errorf("convolve: -debounce must not be negative, got %s", *debounce)
		}
		cfg.Preview.Debounce = *debounce
	}

	img, err := imageio.Load(*in, cfg.MaxImageSide)
	if err != nil {
		return err
	}

	backend := cpu.NewWithConfig(parallel.DefaultConfig().WithWorkers(cfg.Preview.Workers))
	state := session.DefaultState().
		WithKernel(kernel).
		WithOptions(o.apply(fs, cfg.Options))

	sched := preview.NewScheduler(backend, cfg.Preview.Debounce, logger)
	s, err := session.New(img, state, sched, nil, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	s.Refresh()
	var res preview.Result
	for res.Seq != s.LatestPreview() {
		select {
		case r, ok := <-s.Previews():
			if !ok {
				return errors.New("convolve: preview closed before completing")
			}
			res = r
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	result := res.Image
	if *heatmap {
		result = imageio.Heatmap(result)
	}
	if err := imageio.Save(*out, result); err != nil {
		return err
	}

	logger.Info("convolved image",
		slog.String("in", *in),
		slog.String("out", *out),
		slog.Int("width", result.Width),
		slog.Int("height", result.Height),
		slog.Duration("elapsed", res.Elapsed))
	fmt.Fprintf(stdout, "wrote %s (%dx%d)\n", *out, result.Width, result.Height)
	return nil
}

// forwardReport is the JSON form of a forward pass.
type forwardReport struct {
	Patch         vision.Patch                                  `json:"patch"`
	Kernel        vision.Kernel                                 `json:"kernel"`
	Pooling       vision.PoolingMode                            `json:"pooling"`
	ReLU          bool                                          `json:"relu"`
	Raw           [nn.FeatureMapSize][nn.FeatureMapSize]float64 `json:"feature_map_raw"`
	Activated     [nn.FeatureMapSize][nn.FeatureMapSize]float64 `json:"feature_map_activated"`
	Pooled        float64                                       `json:"pooled"`
	Flatten       [nn.FlattenSize]float64                       `json:"flatten"`
	Logits        [nn.NumClasses]float64                        `json:"logits"`
	Probabilities map[string]float64                            `json:"probabilities"`
	Prediction    string                                        `json:"prediction"`
}

func runForward(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("forward", stderr)
	var g globalFlags
	g.register(fs)
	in := fs.String("in", "", "image to take the patch from")
	x := fs.Int("x", 0, "patch left edge")
	y := fs.Int("y", 0, "patch top edge")
	patchValues := fs.String("patch", "", "sixteen grayscale values, row-major, instead of -in")
	pooling := fs.String("pooling", "", "max or average")
	relu := fs.Bool("relu", true, "apply ReLU (false passes the raw signed value)")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, kernel, logger, err := g.load(stderr)
	if err != nil {
		return err
	}
	mode, err := cfg.PoolingMode()
	if err != nil {
		return err
	}
	if isSet(fs, "pooling") {
		if mode, err = vision.ParsePoolingMode(*pooling); err != nil {
			return err
		}
	}
	useReLU := cfg.Options.UseReLU
	if isSet(fs, "relu") {
		useReLU = *relu
	}

	var (
		patch vision.Patch
		res   nn.Result
	)
	switch {
	case *patchValues != "":
		if patch, err = parsePatch(*patchValues); err != nil {
			return err
		}
		if res, err = nn.Forward(patch, kernel, useReLU, mode); err != nil {
			return err
		}
	case *in != "":
		px, py := cfg.Patch.X, cfg.Patch.Y
		if isSet(fs, "x") {
			px = *x
		}
		if isSet(fs, "y") {
			py = *y
		}
		img, err := imageio.Load(*in, cfg.MaxImageSide)
		if err != nil {
			return err
		}
		state := session.DefaultState().
			WithKernel(kernel).
			WithOptions(vision.ProcessingOptions{UseReLU: useReLU}).
			WithPooling(mode).
			WithPatch(px, py)
		s, err := session.New(img, state, nil, nil, logger)
		if err != nil {
			return err
		}
		insp, err := s.Inspect()
		if err != nil {
			return err
		}
		patch, res = insp.Patch, insp.Result
	default:
		return errors.New("forward: one of -in or -patch is required")
	}

	logger.Debug("forward pass", slog.String("pooling", string(mode)), slog.Bool("relu", useReLU), slog.String("prediction", res.Label()))

	if *asJSON {
		report := forwardReport{
			Patch:         patch,
			Kernel:        kernel,
			Pooling:       mode,
			ReLU:          useReLU,
			Raw:           res.FeatureMap.Raw,
			Activated:     res.FeatureMap.Activated,
			Pooled:        res.Pooled,
			Flatten:       res.Flatten,
			Logits:        res.Logits,
			Probabilities: make(map[string]float64, nn.NumClasses),
			Prediction:    res.Label(),
		}
		for c, label := range nn.ClassLabels {
			report.Probabilities[label] = res.Probabilities[c]
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printForward(stdout, patch, kernel, mode, res)
	return nil
}

func printForward(w io.Writer, patch vision.Patch, kernel vision.Kernel, mode vision.PoolingMode, res nn.Result) {
	fmt.Fprintln(w, "patch:")
	for _, row := range patch {
		fmt.Fprintf(w, "  %3d %3d %3d %3d\n", row[0], row[1], row[2], row[3])
	}
	fmt.Fprintln(w, "kernel:")
	for _, row := range strings.Split(kernel.String(), "\n") {
		fmt.Fprintf(w, "  %s\n", row)
	}
	fmt.Fprintln(w, "feature map (raw -> activated):")
	for r := range res.FeatureMap.Raw {
		fmt.Fprintf(w, "  %8.2f %8.2f  ->  %8.2f %8.2f\n",
			res.FeatureMap.Raw[r][0], res.FeatureMap.Raw[r][1],
			res.FeatureMap.Activated[r][0], res.FeatureMap.Activated[r][1])
	}
	fmt.Fprintf(w, "pooled (%s): %.4g\n", mode, res.Pooled)
	fmt.Fprintf(w, "flatten: %v\n", res.Flatten)
	fmt.Fprintf(w, "logits: %.4f\n", res.Logits)
	fmt.Fprintln(w, "probabilities:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	for c, label := range nn.ClassLabels {
		fmt.Fprintf(tw, "  %s\t%.2f%%\t\n", label, res.Probabilities[c])
	}
	tw.Flush()
	fmt.Fprintf(w, "prediction: %s\n", res.Label())
}

// parsePatch reads sixteen integers separated by spaces, commas or
// semicolons.
func parsePatch(s string) (vision.Patch, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '\t' || r == '\n'
	})
	if len(fields) != vision.PatchSize*vision.PatchSize {
		return vision.Patch{}, &vision.ConfigError{
			Field:   "patch",
			Details: fmt.Sprintf("expected %d values, got %d", vision.PatchSize*vision.PatchSize, len(fields)),
			Err:     vision.ErrInvalidShape,
		}
	}
	rows := make([][]int, vision.PatchSize)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return vision.Patch{}, &vision.ConfigError{Field: "patch", Details: err.Error(), Err: vision.ErrOutOfRange}
		}
		rows[i/vision.PatchSize] = append(rows[i/vision.PatchSize], v)
	}
	return vision.NewPatch(rows)
}

func newAssistant(cfg config.Config, logger *slog.Logger) assistant.Assistant {
	clientCfg := cfg.AssistantClientConfig()
	if strings.TrimSpace(clientCfg.Endpoint) == "" {
		return assistant.New(clientCfg)
	}
	counter, err := tokenizer.NewCounter(cfg.Assistant.Encoding)
	if err != nil {
		logger.Warn("token encoding unavailable, approximating prompt size",
			slog.String("encoding", cfg.Assistant.Encoding),
			slog.Any("err", err))
	}
	return assistant.New(clientCfg, assistant.WithCounter(counter), assistant.WithLogger(logger))
}

func runExplain(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("explain", stderr)
	var g globalFlags
	g.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, kernel, logger, err := g.load(stderr)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, kernel.String())
	fmt.Fprintln(stdout)

	text, err := newAssistant(cfg, logger).Explain(ctx, kernel)
	if err != nil {
		logger.Info("kernel explanation unavailable", slog.Any("err", err))
		fmt.Fprintln(stdout, assistant.FallbackMessage(err))
		return nil
	}
	fmt.Fprintln(stdout, text)
	return nil
}

func runSuggest(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("suggest", stderr)
	var g globalFlags
	g.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	description := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if description == "" {
		return errors.New("suggest: describe the effect you want, e.g. convscope suggest \"soft blur\"")
	}
	cfg, _, logger, err := g.load(stderr)
	if err != nil {
		return err
	}

	suggestion, err := newAssistant(cfg, logger).Suggest(ctx, description)
	if err != nil {
		logger.Info("kernel suggestion unavailable", slog.Any("err", err))
		fmt.Fprintln(stdout, assistant.FallbackMessage(err))
		return nil
	}
	fmt.Fprintln(stdout, suggestion.Kernel.String())
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, suggestion.Explanation)
	return nil
}
