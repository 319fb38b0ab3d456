// lotto-cli gera o relatório de combinações 2D offline, sem os serviços.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/radieske/lotto-2d-generator/internal/generator/backup"
	"github.com/radieske/lotto-2d-generator/internal/generator/combo"
	"github.com/radieske/lotto-2d-generator/internal/shared/logger"
)

const defaultAppURL = "https://warengonzaga.github.io/pcso-2d-lotto-generator"

// relógio injetável nos testes
var now = time.Now

type options struct {
	input   string
	version string
	output  string
	backup  string
	appURL  string
	preview bool
	verbose bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("lotto-cli", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.input, "input", "i", "-", "JSON list of combinations or a backup file (- reads stdin)")
	flagSet.StringVar(&opts.version, "version", "", "version label for the report footer (empty omits the line)")
	flagSet.StringVarP(&opts.output, "output", "o", "", "write the report to this file instead of stdout")
	flagSet.StringVar(&opts.backup, "backup", "", "also write a backup file with the combinations and the report")
	flagSet.StringVar(&opts.appURL, "app-url", defaultAppURL, "app URL recorded in backup files")
	flagSet.BoolVar(&opts.preview, "preview", false, "print totals only")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	log, err := logger.NewCLI(opts.verbose)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer log.Sync()

	raw, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}
	records, err := parseRecords(raw)
	if err != nil {
		return err
	}
	log.Debug("records loaded", zap.String("input", opts.input), zap.Int("records", len(records)))

	if opts.preview {
		t := combo.ComputeTotals(records)
		fmt.Fprintf(stdout, "Total Combinations: %d\nTotal Amount: %s\n", t.TotalCombinations, combo.FormatPeso(t.TotalCost))
		return nil
	}

	ts := now()
	text, err := combo.BuildReport(records, combo.FormatTimestamp(ts), opts.version)
	if err != nil {
		if errors.Is(err, combo.ErrNoRecords) {
			return errors.New("please add at least one valid combination")
		}
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info("report written", zap.String("path", opts.output))
	} else {
		fmt.Fprintln(stdout, text)
	}

	if opts.backup != "" {
		var buf bytes.Buffer
		meta := backup.NewMetadata(records, opts.version, opts.appURL, ts)
		if err := backup.Export(&buf, meta, text, ts); err != nil {
			return fmt.Errorf("export backup: %w", err)
		}
		if err := os.WriteFile(opts.backup, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		log.Info("backup written", zap.String("path", opts.backup))
	}
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}

// parseRecords aceita um backup ou uma lista JSON; aplica o clamp do formulário e valida cada registro
func parseRecords(raw []byte) ([]combo.Record, error) {
	var records []combo.Record
	if backup.IsBackup(raw) {
		meta, err := backup.Import(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		records = meta.Combinations
	} else if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode combinations: %w", err)
	}

	for i := range records {
		records[i] = combo.Sanitize(records[i])
		if err := combo.Validate(records[i]); err != nil {
			return nil, fmt.Errorf("combination %d: %w", i+1, err)
		}
	}
	return records, nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `lotto-cli expands PCSO 2D lotto combinations into ticket lines.

Reads a JSON list of combinations ({"num1","num2","amount","buffer","isRambolito"})
or a backup file previously written with --backup.

Usage:
  lotto-cli [flags]

Flags:
%s`, flagSet.FlagUsages())
}
