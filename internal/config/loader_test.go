package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/wcprep/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("WCPREP_MATCHES_PATH", "in/m.csv")
			_ = os.Setenv("WCPREP_OUTPUT_DIR", "out")
			_ = os.Setenv("WCPREP_TRAIN_TO_YEAR", "2014")
			_ = os.Setenv("WCPREP_TEST_YEAR", "2018")
			_ = os.Setenv("WCPREP_SQLITE_PATH", "out/matches.sqlite")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MatchesPath, convey.ShouldEqual, "in/m.csv")
				convey.So(cfg.TrainPath(), convey.ShouldEqual, filepath.Join("out", "matches_train.csv"))
				convey.So(cfg.TrainToYear, convey.ShouldEqual, 2014)
				convey.So(cfg.TestYear, convey.ShouldEqual, 2018)
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "out/matches.sqlite")
				convey.So(cfg.TrainFromYear, convey.ShouldEqual, 1930)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# outputs go next to the inputs
log_level: debug
output_dir: prepared
name_pattern: "FIFA Women's World Cup"
train_from_year: 1991
train_to_year: 2015
test_year: 2019
xlsx_path: prepared/matches.xlsx
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("WCPREP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep defaults elsewhere", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.OutputDir, convey.ShouldEqual, "prepared")
				convey.So(cfg.NamePattern, convey.ShouldEqual, "FIFA Women's World Cup")
				convey.So(cfg.TrainFromYear, convey.ShouldEqual, 1991)
				convey.So(cfg.TrainToYear, convey.ShouldEqual, 2015)
				convey.So(cfg.TestYear, convey.ShouldEqual, 2019)
				convey.So(cfg.XLSXPath, convey.ShouldEqual, "prepared/matches.xlsx")
				convey.So(cfg.TrainFile, convey.ShouldEqual, "matches_train.csv") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "output_dir: prepared\ntest_year: 2026\n")
			_ = os.Setenv("WCPREP_CONFIG", tmpFile)
			_ = os.Setenv("WCPREP_OUTPUT_DIR", "override") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.OutputDir, convey.ShouldEqual, "override") // Overridden by env
				convey.So(cfg.TestYear, convey.ShouldEqual, 2026)         // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("WCPREP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("WCPREP_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "/non/existent/file.yaml")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("WCPREP_TEST_YEAR", "next year")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an empty output directory", func() {
			_ = os.Setenv("WCPREP_OUTPUT_DIR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "OutputDir (required)")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the test year is moved into the train range", func() {
			_ = os.Setenv("WCPREP_TEST_YEAR", "1998")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"WCPREP_CONFIG",
		"WCPREP_LOG_LEVEL",
		"WCPREP_MATCHES_PATH",
		"WCPREP_TOURNAMENTS_PATH",
		"WCPREP_OUTPUT_DIR",
		"WCPREP_TRAIN_FILE",
		"WCPREP_TEST_FILE",
		"WCPREP_NAME_PATTERN",
		"WCPREP_TRAIN_FROM_YEAR",
		"WCPREP_TRAIN_TO_YEAR",
		"WCPREP_TEST_YEAR",
		"WCPREP_SQLITE_PATH",
		"WCPREP_XLSX_PATH",
		"WCPREP_METRICS_PATH",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wcprep-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
