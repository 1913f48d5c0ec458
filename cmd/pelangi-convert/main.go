package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := &cli.Command{
		Name:            "pelangi-convert",
		Usage:           "offline PDF to xlsx conversion using the server's converters",
		Version:         common.GetFullVersion(),
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (TOML), may be repeated"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "enable debug logging"},
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Converts a PDF to xlsx",
				ArgsUsage: "SOURCE.pdf",
				Action:    runConvert,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "destination `FILE` (default: SOURCE with .xlsx extension)"},
					&cli.BoolFlag{Name: "remote", Usage: "force the remote (PDF.co) conversion path"},
					&cli.BoolFlag{Name: "local", Usage: "force the local table reconstruction path"},
				},
			},
			{
				Name:      "detect",
				Usage:     "Prints the conversion format selected for a PDF",
				ArgsUsage: "SOURCE.pdf",
				Action:    runDetect,
			},
			{
				Name:      "info",
				Usage:     "Prints page count, size and encryption of a PDF",
				ArgsUsage: "SOURCE.pdf",
				Action:    runInfo,
			},
		},
	}

	err := cmd.Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		os.Exit(1)
	}
}
