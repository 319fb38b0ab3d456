package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2026, 10, 14, 15, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func TestRunReportFromStdin(t *testing.T) {
	fixedClock(t)
	in := strings.NewReader(`[{"num1":1,"num2":2,"amount":20,"buffer":0,"isRambolito":false}]`)
	var out, errOut bytes.Buffer

	if err := run([]string{"--version", "1.3.0"}, in, &out, &errOut); err != nil {
		t.Fatalf("run: %v (stderr=%s)", err, errOut.String())
	}

	want := "01 02 20\n\n-------\nTotal Combinations: 1\nTotal Amount: ₱20\nGenerated: 10/14/2026, 03:04:05 PM\nPCSO 2D Lotto Generator v1.3.0\n"
	if out.String() != want {
		t.Fatalf("unexpected report:\n%q\nwant:\n%q", out.String(), want)
	}
}

func TestRunPreview(t *testing.T) {
	in := strings.NewReader(`[{"num1":7,"num2":26,"amount":20,"buffer":1,"isRambolito":true}]`)
	var out bytes.Buffer

	if err := run([]string{"--preview"}, in, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "Total Combinations: 5\nTotal Amount: ₱100\n" {
		t.Fatalf("unexpected preview %q", got)
	}
}

func TestRunBackupRoundTrip(t *testing.T) {
	fixedClock(t)
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.txt")
	backupPath := filepath.Join(dir, "backup.txt")

	in := strings.NewReader(`[{"num1":1,"num2":2,"amount":20,"buffer":1,"isRambolito":false}]`)
	if err := run([]string{"-o", reportPath, "--backup", backupPath}, in, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	report, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	// o backup gerado serve de entrada e reproduz o mesmo relatório
	var out bytes.Buffer
	if err := run([]string{"--input", backupPath}, nil, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run from backup: %v", err)
	}
	if out.String() != string(report) {
		t.Fatalf("report from backup differs:\n%q\nvs\n%q", out.String(), report)
	}
}

func TestRunErrors(t *testing.T) {
	cases := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{"empty list", nil, `[]`, "at least one valid combination"},
		{"bad json", nil, `{`, "decode combinations"},
		{"zero amount", nil, `[{"num1":1,"num2":2,"amount":0}]`, "combination 1"},
		{"extra arg", []string{"foo"}, `[]`, "unexpected argument"},
		{"missing file", []string{"-i", "/nonexistent/combos.json"}, ``, "read input"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := run(tc.args, strings.NewReader(tc.input), &bytes.Buffer{}, &bytes.Buffer{})
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestRunSanitizesOutOfRangeInput(t *testing.T) {
	in := strings.NewReader(`[{"num1":40,"num2":-3,"amount":10,"buffer":9,"isRambolito":true}]`)
	var out bytes.Buffer

	if err := run([]string{"--preview"}, in, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "Total Combinations: 5\nTotal Amount: ₱50\n" {
		t.Fatalf("unexpected preview %q", got)
	}
}

func TestRunHelp(t *testing.T) {
	var errOut bytes.Buffer
	if err := run([]string{"--help"}, nil, &bytes.Buffer{}, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(errOut.String(), "--preview") {
		t.Fatalf("help must list flags, got %q", errOut.String())
	}
}
