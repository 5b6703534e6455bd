// Package main provides the convscope CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
)

const version = "v0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "convscope: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "convscope %s\n", version)
		return nil
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	case "kernels":
		return runKernels(rest, stdout, stderr)
	case "convolve":
		return runConvolve(ctx, rest, stdout, stderr)
	case "forward":
		return runForward(rest, stdout, stderr)
	case "explain":
		return runExplain(ctx, rest, stdout, stderr)
	case "suggest":
		return runSuggest(ctx, rest, stdout, stderr)
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "convscope - step through a convolution and a tiny CNN")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  kernels    List the built-in kernel presets")
	fmt.Fprintln(w, "  convolve   Convolve an image and write the result as PNG")
	fmt.Fprintln(w, "  forward    Run the patch forward pass and print every stage")
	fmt.Fprintln(w, "  explain    Ask the assistant what a kernel does")
	fmt.Fprintln(w, "  suggest    Ask the assistant for a kernel matching a description")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'convscope <command> -h' for command flags.")
}
