package ocr

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type stubRunner struct {
	stdout string
	stderr string
	err    error

	gotName string
	gotArgs []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.gotName = name
	s.gotArgs = args
	return []byte(s.stdout), []byte(s.stderr), s.err
}

func TestExtractInvokesTesseract(t *testing.T) {
	stub := &stubRunner{stdout: "LULU HYPERMARKET\nTotal: 28.18 SAR\n15/01/2024\n"}
	e := NewExtractor(Config{TessdataDir: "/opt/tessdata", PSM: 6}, nil)
	e.runner = stub

	res, err := e.Extract(context.Background(), "receipt.jpg")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if stub.gotName != "tesseract" {
		t.Errorf("command = %q, want tesseract", stub.gotName)
	}
	joined := strings.Join(stub.gotArgs, " ")
	if !strings.Contains(joined, "-l ara+eng") {
		t.Errorf("args %q missing default ara+eng language", joined)
	}
	if !strings.Contains(joined, "--psm 6") {
		t.Errorf("args %q missing psm", joined)
	}
	if !strings.Contains(joined, "--tessdata-dir /opt/tessdata") {
		t.Errorf("args %q missing tessdata dir", joined)
	}
	if res.Text == "" || res.Language != "ara+eng" {
		t.Errorf("result = %+v", res)
	}
}

func TestExtractError(t *testing.T) {
	stub := &stubRunner{stderr: "Error opening data file", err: errors.New("exit status 1")}
	e := NewExtractor(Config{}, nil)
	e.runner = stub

	res, err := e.Extract(context.Background(), "receipt.jpg")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], "Error opening data file") {
		t.Errorf("warnings = %v, want stderr carried through", res.Warnings)
	}
}

func TestExecRunnerLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := newExecRunner(logger)
	_, _, err := r.Run(context.Background(), "no-such-ocr-binary-for-this-test")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(buf.String(), "ocr.exec.failed") {
		t.Errorf("log output %q missing ocr.exec.failed entry", buf.String())
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 10); got != "short" {
		t.Errorf("clip(short) = %q", got)
	}
	long := strings.Repeat("e", 20)
	if got := clip(long, 10); got != long[:10]+"...(truncated)" {
		t.Errorf("clip(long) = %q", got)
	}
}

func TestHeuristicConfidence(t *testing.T) {
	rich := "LULU HYPERMARKET\n15/01/2024\nMilk 8.50\nTotal: 28.18 SAR\n" + strings.Repeat("x", 120)
	poor := "~~~"

	hi := heuristicConfidence(rich)
	lo := heuristicConfidence(poor)
	if hi <= lo {
		t.Fatalf("confidence ordering wrong: rich %v <= poor %v", hi, lo)
	}
	if lo != 0.2 {
		t.Errorf("base confidence = %v, want 0.2", lo)
	}
	if hi > 1.0 {
		t.Errorf("confidence %v exceeds 1.0", hi)
	}

	arabic := "بندة\n١٥/٠١/٢٠٢٤\nالإجمالي ٩٫٥٠ ريال"
	if c := heuristicConfidence(arabic); c <= 0.2 {
		t.Errorf("arabic receipt confidence = %v, want boosted above base", c)
	}
}
