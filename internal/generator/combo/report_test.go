package combo

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestFormatLine(t *testing.T) {
	cases := []struct {
		n1, n2    int
		amount    int64
		rambolito bool
		want      string
	}{
		{1, 2, 20, false, "01 02 20"},
		{1, 2, 20, true, "01 02 20 R"},
		{0, 31, 1500, false, "00 31 1500"},
		{10, 9, 5, true, "10 09 5 R"},
	}
	for _, tc := range cases {
		if got := FormatLine(tc.n1, tc.n2, tc.amount, tc.rambolito); got != tc.want {
			t.Fatalf("FormatLine(%d,%d,%d,%v) = %q, want %q", tc.n1, tc.n2, tc.amount, tc.rambolito, got, tc.want)
		}
	}
}

func TestFormatLineInjective(t *testing.T) {
	seen := make(map[string]string)
	for n1 := MinNumber; n1 <= MaxNumber; n1++ {
		for n2 := MinNumber; n2 <= MaxNumber; n2++ {
			for _, amount := range []int64{1, 10, 20, 100} {
				for _, r := range []bool{false, true} {
					line := FormatLine(n1, n2, amount, r)
					key := fmt.Sprintf("%d|%d|%d|%v", n1, n2, amount, r)
					if prev, ok := seen[line]; ok && prev != key {
						t.Fatalf("line %q produced by two tuples", line)
					}
					seen[line] = key
				}
			}
		}
	}
	if len(seen) != 32*32*4*2 {
		t.Fatalf("expected %d distinct lines, got %d", 32*32*4*2, len(seen))
	}
}

func TestBuildReportSingleExactRecord(t *testing.T) {
	records := []Record{{Num1: 1, Num2: 2, Amount: 20, Buffer: 0, IsRambolito: false}}

	got, err := BuildReport(records, "10/14/2026, 03:04:05 PM", "")
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	want := "01 02 20\n\n-------\nTotal Combinations: 1\nTotal Amount: ₱20\nGenerated: 10/14/2026, 03:04:05 PM"
	if got != want {
		t.Fatalf("unexpected report:\n%s\nwant:\n%s", got, want)
	}

	totals := ComputeTotals(records)
	if totals.TotalCombinations != 1 || totals.TotalCost != 20 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestBuildReportVersionFooter(t *testing.T) {
	records := []Record{{Num1: 1, Num2: 2, Amount: 20}}

	got, err := BuildReport(records, "now", "1.4.0")
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if !strings.HasSuffix(got, "\nGenerated: now\nPCSO 2D Lotto Generator v1.4.0") {
		t.Fatalf("expected version footer, got:\n%s", got)
	}
}

func TestGenerateTotalsAcrossRecords(t *testing.T) {
	records := []Record{
		{Num1: 7, Num2: 26, Amount: 20, Buffer: 1, IsRambolito: true},
		{Num1: 1, Num2: 2, Amount: 50, Buffer: 0, IsRambolito: false},
	}

	rep, err := Generate(records, "ts", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if rep.Totals.TotalCombinations != 6 || rep.Totals.TotalCost != 150 {
		t.Fatalf("unexpected totals %+v", rep.Totals)
	}
	if got := ComputeTotals(records); got != rep.Totals {
		t.Fatalf("totals mismatch: %+v vs %+v", got, rep.Totals)
	}
	if !strings.Contains(rep.Text, "Total Combinations: 6\nTotal Amount: ₱150\n") {
		t.Fatalf("footer missing totals:\n%s", rep.Text)
	}

	// primeiro bloco pertence ao primeiro registro
	for _, line := range rep.Lines[:5] {
		if !strings.HasSuffix(line, " 20 R") {
			t.Fatalf("unexpected line in first block: %q", line)
		}
	}
	if rep.Lines[5] != "01 02 50" {
		t.Fatalf("unexpected last line %q", rep.Lines[5])
	}
}

func TestTotalsMatchReportLineCount(t *testing.T) {
	records := []Record{
		{Num1: 0, Num2: 0, Amount: 10, Buffer: 2, IsRambolito: false},
		{Num1: 31, Num2: 31, Amount: 15, Buffer: 2, IsRambolito: true},
		{Num1: 7, Num2: 26, Amount: 20, Buffer: 1, IsRambolito: false},
		{Num1: 9, Num2: 9, Amount: 5, Buffer: 0, IsRambolito: true},
	}

	text, err := BuildReport(records, "ts", "2.0.0")
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	body := strings.SplitN(text, "\n\n"+Divider, 2)[0]
	lines := strings.Split(body, "\n")

	totals := ComputeTotals(records)
	if len(lines) != totals.TotalCombinations {
		t.Fatalf("expected %d ticket lines, got %d", totals.TotalCombinations, len(lines))
	}
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if seen[l] {
			t.Fatalf("duplicate line %q", l)
		}
		seen[l] = true
	}
	for _, want := range []string{"00 02 10", "02 00 10", "29 31 15 R", "26 07 20", "09 09 5 R"} {
		if !seen[want] {
			t.Fatalf("expected line %q in report", want)
		}
	}
}

func TestBuildReportNoRecords(t *testing.T) {
	_, err := BuildReport(nil, "ts", "")
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	if got := ComputeTotals(nil); got != (Totals{}) {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}

func TestFormatPeso(t *testing.T) {
	cases := map[int64]string{
		0:       "₱0",
		150:     "₱150",
		1000:    "₱1,000",
		1234567: "₱1,234,567",
	}
	for in, want := range cases {
		if got := FormatPeso(in); got != want {
			t.Fatalf("FormatPeso(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 10, 14, 15, 4, 5, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "10/14/2026, 03:04:05 PM" {
		t.Fatalf("unexpected timestamp %q", got)
	}
}

func TestVersionTag(t *testing.T) {
	if got := VersionTag("1.2.0"); got != "v1.2.0" {
		t.Fatalf("unexpected tag %q", got)
	}
	if got := VersionTag("v1.2.0"); got != "v1.2.0" {
		t.Fatalf("unexpected tag %q", got)
	}
	if got := VersionTag(""); got != "" {
		t.Fatalf("unexpected tag %q", got)
	}
}

func TestPreviewTotalsSanitizes(t *testing.T) {
	records := []Record{{Num1: 40, Num2: -3, Amount: 10, Buffer: 9, IsRambolito: true}}

	// clamp: (31,0) com buffer 2 -> (31,0),(29,0),(30,0),(31,1),(31,2)
	got := PreviewTotals(records)
	if got.TotalCombinations != 5 || got.TotalCost != 50 {
		t.Fatalf("unexpected totals %+v", got)
	}
	if records[0].Num1 != 40 {
		t.Fatal("input records must not be modified")
	}
}
