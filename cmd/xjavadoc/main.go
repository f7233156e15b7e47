// Package main provides the CLI entry point for xjavadoc, a tool that builds
// javadoc jars for the Android OpenGL ES and EGL bindings from the Khronos
// reference pages and registers them with Android Studio.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"go.jacobcolvin.com/xjavadoc/annotate"
	"go.jacobcolvin.com/xjavadoc/fragment"
	"go.jacobcolvin.com/xjavadoc/jdktable"
	"go.jacobcolvin.com/xjavadoc/log"
	"go.jacobcolvin.com/xjavadoc/pipeline"
	"go.jacobcolvin.com/xjavadoc/profile"
	"go.jacobcolvin.com/xjavadoc/version"
)

var (
	// ErrRunFailed is returned when a run finished with failed stages.
	ErrRunFailed = errors.New("run finished with failures")
	// ErrWriteOutput is returned when command output cannot be written.
	ErrWriteOutput = errors.New("write output")
)

func main() {
	logCfg := log.NewConfig()
	profCfg := profile.NewConfig()

	var (
		logger  *slog.Logger
		session *profile.Session
	)

	rootCmd := &cobra.Command{
		Use:   "xjavadoc",
		Short: "Build javadoc jars for Android GLES bindings",
		Long: `xjavadoc attaches the OpenGL ES reference pages to the Android SDK's GLES
and EGL binding sources, runs javadoc on them, packs the result into a jar in
the SDK docs directory and registers that jar in Android Studio's SDK table.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := logCfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			logger = l
			slog.SetDefault(l)

			session = profCfg.NewSession()

			return session.Start()
		},
	}

	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profCfg.RegisterFlags(rootCmd.PersistentFlags())

	completionErr := errors.Join(
		logCfg.RegisterCompletions(rootCmd),
		profCfg.RegisterCompletions(rootCmd),
	)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	loggerFn := func() *slog.Logger { return logger }

	rootCmd.AddCommand(
		newRunCmd(loggerFn),
		newAnnotateCmd(loggerFn),
		newRegisterCmd(loggerFn),
		newTargetsCmd(),
		newVersionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if session != nil {
		err = errors.Join(err, session.Stop())
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRunCmd(logger func() *slog.Logger) *cobra.Command {
	cfg := pipeline.NewConfig()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build and register javadoc jars",
		Long: `run builds every documentation target against the highest installed SDK
platform and registers the resulting jars in the IDE's jdk.table.xml. A backup
of the table is written next to it first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targets, err := cfg.LoadTargets()
			if err != nil {
				return err
			}

			d, err := cfg.NewDriver(logger())
			if err != nil {
				return err
			}

			rep, err := d.Run(cmd.Context(), targets...)
			if err != nil {
				return err
			}

			err = printReport(cmd.OutOrStdout(), rep)
			if err != nil {
				return err
			}

			if rep.Failed() {
				return ErrRunFailed
			}

			return nil
		},
	}

	cfg.RegisterFlags(cmd.Flags())

	completionErr := cfg.RegisterCompletions(cmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	return cmd
}

func printReport(w io.Writer, rep pipeline.Report) error {
	_, err := fmt.Fprintf(w, "run %s (api level %d)\n", rep.RunID, rep.APILevel)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	for _, t := range rep.Targets {
		_, err = fmt.Fprintf(w, "%s -> %s\n", t.Target, t.JarPath)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}

		for _, s := range t.Stages {
			line := fmt.Sprintf("  %-9s %s", s.Stage, s.Outcome)

			switch {
			case s.Err != nil:
				line += ": " + s.Err.Error()
			case s.Detail != "":
				line += ": " + s.Detail
			}

			_, err = fmt.Fprintln(w, line)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}
		}
	}

	return nil
}

func newAnnotateCmd(logger func() *slog.Logger) *cobra.Command {
	var archivePath string

	cmd := &cobra.Command{
		Use:   "annotate --archive <fragments> <src.java> <dst.java>",
		Short: "Attach reference documentation to one Java source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := fragment.Open(archivePath)
			if err != nil {
				return err
			}

			rep := annotate.New(archive, annotate.WithLogger(logger())).AnnotateFile(args[0], args[1])
			if rep.Err != nil {
				return rep.Err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d annotated, %d skipped, %d failed\n",
				args[1],
				rep.Count(annotate.StatusAnnotated),
				rep.Count(annotate.StatusSkipped),
				rep.Count(annotate.StatusFailed),
			)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&archivePath, "archive", "a", "html-es2.0.zip",
		"fragment archive (.zip or .tar.xz)")

	return cmd
}

func newRegisterCmd(logger func() *slog.Logger) *cobra.Command {
	var (
		configPath string
		homePath   string
	)

	cmd := &cobra.Command{
		Use:   "register --config-path <jdk.table.xml> <jar>",
		Short: "Register a javadoc jar in an IDE SDK table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []jdktable.Option
			if homePath != "" {
				opts = append(opts, jdktable.WithHomePath(homePath))
			}

			res, err := jdktable.PatchFile(configPath, args[0], opts...)
			if err != nil {
				return err
			}

			if !res.Changed {
				logger().Warn("no javadoc location in IDE config", slog.String("config", configPath))
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "changed: %t, backup: %s\n", res.Changed, res.Backup)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config-path", "", "IDE jdk.table.xml")
	cmd.Flags().StringVar(&homePath, "home-path", "", "only register in the SDK entry with this home path")

	err := cmd.MarkFlagRequired("config-path")
	if err != nil {
		fmt.Fprintf(os.Stderr, "mark config-path required: %v\n", err)
	}

	return cmd
}

func newTargetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Inspect documentation target definitions",
	}

	var file string

	list := &cobra.Command{
		Use:   "list",
		Short: "Print targets as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targets := pipeline.DefaultTargets()

			if file != "" {
				var err error

				targets, err = pipeline.LoadTargets(file)
				if err != nil {
					return err
				}
			}

			out, err := yaml.Marshal(pipeline.TargetFile{Targets: targets})
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			_, err = cmd.OutOrStdout().Write(out)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			return nil
		},
	}

	list.Flags().StringVarP(&file, "targets", "t", "", "YAML file with documentation targets")

	schema := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of target files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := pipeline.TargetSchema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			out = append(out, '\n')

			_, err = cmd.OutOrStdout().Write(out)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			return nil
		},
	}

	cmd.AddCommand(list, schema)

	return cmd
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()

			var err error

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				err = enc.Encode(info)
			} else {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), info)
			}

			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
