package testutils

import (
	"bytes"
	"math"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/laughinglion/PeachPDF-sub000/logger"
)

func AssertEqual(t *testing.T, got, exp interface{}) {
	t.Helper()
	if !reflect.DeepEqual(exp, got) {
		t.Fatalf("expected\n%v\n got \n%v", exp, got)
	}
}

// AssertApprox checks that got and exp differ by less than 0.01.
func AssertApprox[T ~float32 | ~float64](t *testing.T, got, exp T) {
	t.Helper()
	if math.Abs(float64(got-exp)) > 0.01 {
		t.Fatalf("expected %g, got %g", float64(exp), float64(got))
	}
}

// CapturedLogs stores the warnings emitted
// between CaptureLogs and one of its assertion methods.
type CapturedLogs struct {
	buf bytes.Buffer
}

// CaptureLogs redirects [logger.WarningLogger] and silences
// [logger.ProgressLogger] until one of the assertion methods is called.
func CaptureLogs() *CapturedLogs {
	var out CapturedLogs
	logger.WarningLogger.SetOutput(&out.buf)
	logger.ProgressLogger.SetOutput(&bytes.Buffer{})
	return &out
}

func (c *CapturedLogs) restore() {
	logger.WarningLogger.SetOutput(os.Stdout)
	logger.ProgressLogger.SetOutput(os.Stdout)
}

// Logs restores the loggers and returns the captured lines.
func (c *CapturedLogs) Logs() []string {
	c.restore()
	s := strings.TrimSpace(c.buf.String())
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// AssertNoLogs fails if a warning has been emitted.
func (c *CapturedLogs) AssertNoLogs(t *testing.T) {
	t.Helper()
	if logs := c.Logs(); len(logs) != 0 {
		t.Fatalf("expected no logs, got %d:\n%s", len(logs), strings.Join(logs, "\n"))
	}
}

// AssertLogsContain fails if no captured line contains each of the given fragments.
func (c *CapturedLogs) AssertLogsContain(t *testing.T, fragments ...string) {
	t.Helper()
	logs := c.Logs()
	for _, frag := range fragments {
		found := false
		for _, l := range logs {
			if strings.Contains(l, frag) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected a log containing %q, got:\n%s", frag, strings.Join(logs, "\n"))
		}
	}
}
