package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	cli "github.com/urfave/cli/v3"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/convert"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/excel"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/pdf"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/pdfco"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/upload"
)

// toolkit is the converter stack shared by all commands.
type toolkit struct {
	extractor *pdf.Extractor
	converter *convert.Service
	logger    arbor.ILogger
}

func newToolkit(cmd *cli.Command) (*toolkit, error) {
	config, err := common.LoadFromFiles(cmd.Root().StringSlice("config")...)
	if err != nil {
		return nil, fmt.Errorf("unable to load configuration: %w", err)
	}
	if cmd.Root().Bool("debug") {
		config.Logging.Level = "debug"
	}
	logger := common.InitLogger(config)

	extractor := pdf.NewExtractor(logger)
	remote := pdfco.NewClient(config.PDFCo.APIKey,
		pdfco.WithBaseURL(config.PDFCo.BaseURL),
		pdfco.WithTimeout(common.ParseDuration(config.PDFCo.Timeout, pdfco.DefaultTimeout)),
		pdfco.WithLogger(logger),
	)

	return &toolkit{
		extractor: extractor,
		converter: convert.NewService(extractor, excel.NewWriter(logger), remote, logger),
		logger:    logger,
	}, nil
}

func sourceArg(cmd *cli.Command) (string, error) {
	src := cmd.Args().First()
	if src == "" {
		return "", errors.New("SOURCE is required")
	}
	return src, nil
}

// outputPath replaces the source extension with .xlsx.
func outputPath(src, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".xlsx"
}

func selectFormat(ctx context.Context, cmd *cli.Command, tk *toolkit, src string) (models.Format, error) {
	remote, local := cmd.Bool("remote"), cmd.Bool("local")
	switch {
	case remote && local:
		return "", errors.New("--remote and --local are mutually exclusive")
	case remote:
		return models.FormatNeraca, nil
	case local:
		return models.FormatDefault, nil
	}
	return tk.converter.DetectFormat(ctx, src, filepath.Base(src)), nil
}

func runConvert(ctx context.Context, cmd *cli.Command) error {
	src, err := sourceArg(cmd)
	if err != nil {
		return err
	}
	tk, err := newToolkit(cmd)
	if err != nil {
		return err
	}

	format, err := selectFormat(ctx, cmd, tk, src)
	if err != nil {
		return err
	}
	dst := outputPath(src, cmd.String("output"))

	result, err := tk.converter.Convert(ctx, format, src, dst)
	if err != nil {
		return fmt.Errorf("%s: %w", upload.ConvertStage(format), err)
	}

	tk.logger.Info().
		Str("source", src).
		Str("output", result.OutputPath).
		Str("format", format.String()).
		Int("rows", result.Rows).
		Msg("Conversion complete")
	return nil
}

func runDetect(ctx context.Context, cmd *cli.Command) error {
	src, err := sourceArg(cmd)
	if err != nil {
		return err
	}
	tk, err := newToolkit(cmd)
	if err != nil {
		return err
	}

	format := tk.converter.DetectFormat(ctx, src, filepath.Base(src))
	_, err = fmt.Fprintln(cmd.Root().Writer, format)
	return err
}

func runInfo(ctx context.Context, cmd *cli.Command) error {
	src, err := sourceArg(cmd)
	if err != nil {
		return err
	}
	tk, err := newToolkit(cmd)
	if err != nil {
		return err
	}

	meta, err := tk.extractor.GetMetadata(ctx, src)
	if err != nil {
		return err
	}
	return printInfo(cmd.Root().Writer, src, meta.PageCount, meta.FileSize, meta.IsEncrypted)
}

func printInfo(w io.Writer, src string, pages int, size int64, encrypted bool) error {
	_, err := fmt.Fprintf(w, "file:      %s\npages:     %d\nsize:      %d\nencrypted: %t\n", src, pages, size, encrypted)
	return err
}
