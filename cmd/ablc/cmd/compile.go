package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwbudde/ablc/internal/backend"
	"github.com/cwbudde/ablc/internal/backend/debugdump"
	"github.com/cwbudde/ablc/internal/config"
	"github.com/cwbudde/ablc/internal/diagnostics"
	"github.com/cwbudde/ablc/internal/session"
)

var (
	inputFile  string
	backendName string
	outputDir  string
	assetDir   string
	paramFlags []string
	configFlags []string
	configFile string
	doBuild    bool
	doRun      bool
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a script and hand it off to a backend",
	RunE:  runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	addCompileFlags(compileCmd)
	compileCmd.Flags().StringVarP(&backendName, "backend", "b", "", "target backend (c|flame|flamegpu|mason|mason2|dmason|debugdump)")
	_ = compileCmd.MarkFlagRequired("backend")
}

// addCompileFlags registers the -i/-o/-A/-P/-C/--config-file/-B/-R flag set
// on compile; lint does not use it and registers only its own -i.
func addCompileFlags(c *cobra.Command) {
	c.Flags().StringVarP(&inputFile, "input", "i", "", "input script file")
	_ = c.MarkFlagRequired("input")
	c.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory for generated backend artifacts")
	c.Flags().StringVarP(&assetDir, "asset-dir", "A", "./asset", "asset directory")
	c.Flags().StringArrayVarP(&paramFlags, "param", "P", nil, "override a `param` constant: name=value")
	c.Flags().StringArrayVarP(&configFlags, "config", "C", nil, "set a backend configuration value: key=value")
	c.Flags().StringVar(&configFile, "config-file", "", "YAML file of backend configuration values")
	c.Flags().BoolVarP(&doBuild, "build", "B", false, "build the generated backend project (not implemented by this front end)")
	c.Flags().BoolVarP(&doRun, "run", "R", false, "run the built backend project (not implemented by this front end)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	return compileOrLint(false)
}

func compileOrLint(lintOnly bool) error {
	source, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputFile, err)
	}

	params, err := parseParamFlags(paramFlags)
	if err != nil {
		return err
	}

	result := session.Run(session.Options{
		Filename: inputFile,
		Source:   string(source),
		LintOnly: lintOnly,
		Params:   params,
	})

	if len(result.Diagnostics) > 0 {
		color := colorEnabled()
		fmt.Fprintln(os.Stderr, result.Diagnostics.Format(color))
	}
	if result.HasErrors() {
		return fmt.Errorf("compilation failed")
	}
	if lintOnly {
		return nil
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	reg := backend.NewRegistry()
	debugdump.Register(reg)

	ctx := backend.Context{
		OutputDir: outputDir,
		AssetDir:  assetDir,
		Config:    cfg,
		Params:    result.Analysis.ParamOverrides,
		BuildID:   uuid.NewString(),
	}
	if err := session.GenerateBackend(result, reg, backendName, ctx); err != nil {
		return err
	}

	if doBuild || doRun {
		fmt.Fprintln(os.Stderr, "note: -B/--build and -R/--run are accepted for CLI-surface compatibility but this front end does not build or run generated backend projects itself")
	}
	return nil
}

// parseParamFlags splits each `-P name=value` flag into a map, the same
// shape session.Options.Params expects; validation against the script's
// declared param constants happens inside session.Run, alongside the rest
// of its diagnostics.
func parseParamFlags(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	params := make(map[string]string, len(flags))
	for _, kv := range flags {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("malformed parameter override %q: missing \"=\"", kv)
		}
		params[name] = value
	}
	return params, nil
}

// buildConfig merges --config-file (if given) with -C overrides, the
// latter always winning — the same last-write-wins rule OpenABL's
// Options.config std::map::insert-per-flag application has.
func buildConfig() (*config.Config, error) {
	cfg := config.New()
	if configFile != "" {
		loaded, err := config.LoadFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	for _, kv := range configFlags {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("malformed configuration value %q: missing \"=\"", kv)
		}
		cfg.Set(name, value)
	}
	return cfg, nil
}

func colorEnabled() bool {
	return diagnostics.ColorEnabled(os.Stderr.Fd())
}
