package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func writeInputs(t *testing.T, dir string) {
	t.Helper()
	matches := "match_id,tournament_id,match_date,home_team_score,away_team_score,draw\n" +
		"M-01,1,1930-07-13,4,1,0\n" +
		"M-02,2,2022-11-20,0,2,0\n"
	tournaments := "tournament_id,tournament_name,year\n" +
		"1,1930 FIFA Men's World Cup,1930\n" +
		"2,2022 FIFA Men's World Cup,2022\n"
	if err := os.WriteFile(filepath.Join(dir, "matches.csv"), []byte(matches), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tournaments.csv"), []byte(tournaments), 0o600); err != nil {
		t.Fatal(err)
	}
}

func setEnv(vars map[string]string) func() {
	for k, v := range vars {
		_ = os.Setenv(k, v)
	}
	return func() {
		for k := range vars {
			_ = os.Unsetenv(k)
		}
	}
}

func TestRun(t *testing.T) {
	convey.Convey("Given input files in a temporary directory", t, func() {
		dir := t.TempDir()
		writeInputs(t, dir)
		out := filepath.Join(dir, "data_clean")
		var stdout, stderr bytes.Buffer

		convey.Convey("When the program runs against them", func() {
			defer setEnv(map[string]string{
				"WCPREP_MATCHES_PATH":     filepath.Join(dir, "matches.csv"),
				"WCPREP_TOURNAMENTS_PATH": filepath.Join(dir, "tournaments.csv"),
				"WCPREP_OUTPUT_DIR":       out,
				"WCPREP_LOG_LEVEL":        "error",
				"WCPREP_METRICS_PATH":     filepath.Join(dir, "wcprep.prom"),
			})()

			code := run(&stdout, &stderr)

			convey.Convey("Then it should exit cleanly and write both files", func() {
				convey.So(code, convey.ShouldEqual, 0)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "Wrote train set to: "+filepath.Join(out, "matches_train.csv"))
				convey.So(stdout.String(), convey.ShouldContainSubstring, "Wrote test set to:  "+filepath.Join(out, "matches_test.csv"))

				train, err := os.ReadFile(filepath.Join(out, "matches_train.csv"))
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(train), convey.ShouldContainSubstring, "M-01,1,1930-07-13,4,1,0,1930")

				test, err := os.ReadFile(filepath.Join(out, "matches_test.csv"))
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(test), convey.ShouldContainSubstring, "M-02,2,2022-11-20,0,2,0,2022")
			})

			convey.Convey("And every metric should carry the run id", func() {
				prom, err := os.ReadFile(filepath.Join(dir, "wcprep.prom"))
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(prom), convey.ShouldContainSubstring, `wcprep_pipeline_runs_total{outcome="success",run_id="`)
			})
		})

		convey.Convey("When the matches file is missing", func() {
			defer setEnv(map[string]string{
				"WCPREP_MATCHES_PATH":     filepath.Join(dir, "absent.csv"),
				"WCPREP_TOURNAMENTS_PATH": filepath.Join(dir, "tournaments.csv"),
				"WCPREP_OUTPUT_DIR":       out,
			})()

			code := run(&stdout, &stderr)

			convey.Convey("Then it should exit non-zero with a diagnostic", func() {
				convey.So(code, convey.ShouldEqual, 1)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "fatal: load:")
				convey.So(stdout.Len(), convey.ShouldEqual, 0)
				_, err := os.Stat(out)
				convey.So(os.IsNotExist(err), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the configuration is invalid", func() {
			defer setEnv(map[string]string{"WCPREP_TEST_YEAR": "1950"})()

			code := run(&stdout, &stderr)

			convey.Convey("Then it should exit non-zero before reading any input", func() {
				convey.So(code, convey.ShouldEqual, 1)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "failed to load config")
			})
		})
	})
}
