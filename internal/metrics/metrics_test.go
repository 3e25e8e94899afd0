package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/skipfinder/skipfinder/internal/report"
	"github.com/skipfinder/skipfinder/internal/scan"
)

func testReport(tests ...scan.Test) *report.Report {
	result := &scan.Result{Root: "/repo", Files: 3, Tests: tests}
	return report.New(result, report.WithClock(func() time.Time {
		return time.Unix(1700000000, 0)
	}))
}

func TestCollector_Observe(t *testing.T) {
	r := require.New(t)
	c, err := New()
	r.NoError(err)

	c.Observe(testReport(
		scan.Test{Name: "a", Path: "/repo/a.java", Language: "Java", Status: scan.StatusSkipped},
		scan.Test{Name: "b", Path: "/repo/a.java", Language: "Java", Status: scan.StatusRunnable},
		scan.Test{Name: "c", Path: "/repo/c_test.go", Language: "Go", Status: scan.StatusSkipped},
		scan.Test{Name: "d", Path: "/repo/d_test.go", Language: "Go", Status: scan.StatusSkipped},
	))

	r.Equal(1.0, testutil.ToFloat64(c.skippedTests.WithLabelValues("Java")))
	r.Equal(2.0, testutil.ToFloat64(c.skippedTests.WithLabelValues("Go")))
	r.Equal(1.0, testutil.ToFloat64(c.tests.WithLabelValues("Java", "runnable")))
	r.Equal(3.0, testutil.ToFloat64(c.filesWithSkipped))
	r.Equal(3.0, testutil.ToFloat64(c.scannedFiles))
	r.Equal(1700000000.0, testutil.ToFloat64(c.lastScanTimestamp))

	// a second observation must not keep languages of the first one
	c.Observe(testReport(scan.Test{Name: "x", Path: "/repo/x.py", Language: "Python", Status: scan.StatusRunnable}))
	r.Equal(1, testutil.CollectAndCount(c.skippedTests))
	r.Equal(0.0, testutil.ToFloat64(c.filesWithSkipped))
}

func TestWrite(t *testing.T) {
	r := require.New(t)
	path := filepath.Join(t.TempDir(), "metrics", "skipfinder.prom")
	r.NoError(Write(path, testReport(
		scan.Test{Name: "a", Path: "/repo/a.java", Language: "Java", Status: scan.StatusSkipped},
	)))

	data, err := os.ReadFile(path)
	r.NoError(err)
	out := string(data)
	r.Contains(out, "# TYPE skipfinder_skipped_tests gauge")
	r.Contains(out, `skipfinder_skipped_tests{language="Java"} 1`)
	r.Contains(out, `skipfinder_tests{language="Java",status="skipped"} 1`)
	r.Contains(out, "skipfinder_files_with_skipped_tests 1")
	r.Contains(out, "# TYPE skipfinder_last_scan_timestamp_seconds gauge")
}
