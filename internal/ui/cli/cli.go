// Package cli is the typelint command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"typelint/internal/shared/version"
)

const (
	envPrefix = "TYPELINT"

	configFlagName     = "config"
	formatFlagName     = "format"
	outputFlagName     = "output"
	failOnFlagName     = "fail-on"
	workersFlagName    = "workers"
	metricsOutFlagName = "metrics-out"
	verboseFlagName    = "verbose"
	logFileFlagName    = "log-file"
)

// Exit codes.
const (
	ExitPass  = 0
	ExitFail  = 1
	ExitUsage = 2
)

// Run executes the command line against the process streams.
func Run(args []string) int {
	return Execute(context.Background(), args, os.Stdout, os.Stderr)
}

// Execute runs args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := newRunner(stdout, stderr)
	root := r.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return ExitUsage
	}
	return r.code
}

// runner carries one invocation's settings and exit code.
type runner struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
	code   int
}

func newRunner(stdout, stderr io.Writer) *runner {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return &runner{v: v, stdout: stdout, stderr: stderr}
}

func (r *runner) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "typelint",
		Short: "Architectural convention linter for TypeScript projects",
		Long: `typelint checks that type-level declarations live in type modules, that
exported constants carry behavior rather than plain data, and suggests
consolidation for structurally duplicated types.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String(configFlagName, "", "path to typelint.toml (default: <root>/typelint.toml when present)")
	flags.String(formatFlagName, "", "output format: text, json or sarif")
	flags.StringP(outputFlagName, "o", "", "write the report to this file instead of stdout")
	flags.String(failOnFlagName, "", "lowest failing severity: low, medium, high, critical or never")
	flags.Int(workersFlagName, 0, "parallel file workers (0: number of CPUs)")
	flags.String(metricsOutFlagName, "", "write Prometheus metrics in text format to this file")
	flags.BoolP(verboseFlagName, "v", false, "enable debug logging")
	flags.String(logFileFlagName, "", "write logs to this rotating file instead of stderr")
	for _, name := range []string{
		configFlagName, formatFlagName, outputFlagName, failOnFlagName,
		workersFlagName, metricsOutFlagName, verboseFlagName, logFileFlagName,
	} {
		bindFlagToConfig(r.v, flags.Lookup(name), name)
	}

	cmd.AddCommand(r.checkCommand(), r.watchCommand(), r.versionCommand())
	return cmd
}

// bindFlagToConfig wires a Cobra flag to a Viper key so env values feed the flag.
func bindFlagToConfig(v *viper.Viper, flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(v.BindPFlag(key, flag))
}

func (r *runner) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [root]",
		Short: "Analyze the project once and exit",
		Long: `Analyze the project once and exit. The root defaults to the nearest
directory above the working directory holding tsconfig.json, typelint.toml
or .git.

Exit status: 0 pass, 1 violations at or above the failing severity or a
missing project configuration, 2 usage or configuration errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r.code = r.check(cmd.Context(), args)
			return nil
		},
	}
}

func (r *runner) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [root]",
		Short: "Analyze the project and re-run on every change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r.code = r.watch(cmd.Context(), args)
			return nil
		},
	}
}

func (r *runner) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(r.stdout, "typelint %s\n", version.Version)
		},
	}
}
