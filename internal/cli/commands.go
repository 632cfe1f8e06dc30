package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dfm/internal/version"
	"github.com/arthur-debert/dfm/pkg/config"
	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/arthur-debert/dfm/pkg/logging"
	"github.com/arthur-debert/dfm/pkg/output"
	"github.com/arthur-debert/dfm/pkg/paths"
	"github.com/arthur-debert/dfm/pkg/topics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&globalOptions{})
}

func newRootCmd(opts *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dfm",
		Short:   MsgRootShort,
		Long:    msgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.StringVar(&opts.format, "format", "auto", MsgFlagFormat)
	flags.StringVar(&opts.source, "source", "", MsgFlagSource)
	flags.StringVar(&opts.profile, "profile", "", MsgFlagProfile)
	flags.StringVar(&opts.target, "target", "", MsgFlagTarget)

	rootCmd.AddCommand(newLinkCmd(opts))
	rootCmd.AddCommand(newUnlinkCmd(opts))
	rootCmd.AddCommand(newRemoveCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newPlanCmd(opts))
	rootCmd.AddCommand(newMappingsCmd(opts))
	rootCmd.AddCommand(newGenConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	var renderer topics.Renderer = &topics.PlainRenderer{}
	if output.DetectFormat(os.Stdout) == output.FormatTerminal {
		renderer = topics.NewGlamourRenderer()
	}
	if _, err := topics.Install(rootCmd, topics.Content, topics.ContentDir, topics.Options{Renderer: renderer}); err != nil {
		// Logging is not set up yet; cobra's default help still works.
		fmt.Fprintf(os.Stderr, "Warning: help topics unavailable: %v\n", err)
	}

	return rootCmd
}

// PrintError renders err on stderr.
func PrintError(err error) {
	renderer, rerr := output.NewRenderer(os.Stderr, output.FormatAuto)
	if rerr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	_ = renderer.Error(err)
}

func newLinkCmd(opts *globalOptions) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "link",
		Short: MsgLinkShort,
		Long:  msgLinkLong,
		Example: `  # Link the current repository into $HOME
  dfm link

  # Preview, replacing real files that are in the way
  dfm link --overwrite --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}

			report, err := s.manager.Link(opts.dryRun, overwrite)
			if report != nil {
				if rerr := s.renderer.Link(report); rerr != nil && err == nil {
					err = rerr
				}
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, MsgFlagOverwrite)
	return cmd
}

func newUnlinkCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink",
		Short: MsgUnlinkShort,
		Long:  msgUnlinkLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}

			report, err := s.manager.Unlink(opts.dryRun)
			if report != nil {
				if rerr := s.renderer.Unlink(report); rerr != nil && err == nil {
					err = rerr
				}
			}
			return err
		},
	}
}

func newRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: MsgRemoveShort,
		Long:  msgRemoveLong,
		Example: `  # See what removing the work profile would do
  dfm remove work --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.source != "" || opts.profile != "" {
				return errors.New(errors.ErrInvalidInput, "remove takes the profile as its argument, not --source or --profile")
			}

			name := args[0]
			dir, err := paths.ProfilePath(name)
			if err != nil {
				return err
			}
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				return errors.Newf(errors.ErrNotFound, "profile %q does not exist", name).
					WithDetail("path", dir)
			}

			// Links are collected while the profile still exists; afterwards
			// they could not be told apart from any other dangling link.
			s, err := openSession(cmd, opts, dir)
			if err != nil {
				return err
			}
			unlinked, err := s.manager.UnlinkOwned(opts.dryRun)
			if err != nil {
				return err
			}

			if !opts.dryRun {
				if err := os.RemoveAll(dir); err != nil {
					return errors.Wrapf(err, errors.ErrFileRemove, "failed to remove profile %s", name).
						WithDetail("path", dir)
				}
				log.Info().Str("profile", name).Str("path", dir).Msg("Profile removed")
			}

			return s.renderer.RemoveProfile(&output.ProfileRemoval{
				Profile:  name,
				Path:     dir,
				DryRun:   opts.dryRun,
				Unlinked: unlinked.Removed,
			})
		},
	}
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}

			statuses, err := s.manager.Status()
			if err != nil {
				return err
			}
			return s.renderer.Status(statuses)
		},
	}
}

func newPlanCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: MsgPlanShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}

			if err := s.manager.Validate(); err != nil {
				return err
			}
			directives, err := s.manager.EnumerateDirectives()
			if err != nil {
				return err
			}
			return s.renderer.Plan(directives)
		},
	}
}

func newMappingsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mappings",
		Short: MsgMappingsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			return s.renderer.Mappings(s.manager.Mappings(), len(s.config.Mappings))
		},
	}
}

func newGenConfigCmd(opts *globalOptions) *cobra.Command {
	var (
		asTOML bool
		write  bool
	)

	cmd := &cobra.Command{
		Use:   "genconfig",
		Short: MsgGenConfigShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := config.FormatYAML
			if asTOML {
				format = config.FormatTOML
			}

			content, err := config.Generate(format)
			if err != nil {
				return err
			}

			if !write {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}

			sourceDir, err := resolveSource(cmd, opts)
			if err != nil {
				return err
			}
			existing, err := config.FindConfigFile(sourceDir)
			if err != nil {
				return err
			}
			if existing != "" {
				return errors.Newf(errors.ErrInvalidInput, "%s already exists", existing).
					WithDetail("path", existing)
			}

			path := filepath.Join(sourceDir, config.FileName(format))
			renderer, err := newRenderer(cmd, opts)
			if err != nil {
				return err
			}
			if opts.dryRun {
				return renderer.Success("Would write " + path)
			}
			if err := os.WriteFile(path, content, 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", path).
					WithDetail("path", path)
			}
			return renderer.Success(fmt.Sprintf(MsgConfigWritten, path))
		},
	}
	cmd.Flags().BoolVar(&asTOML, "toml", false, MsgFlagTOML)
	cmd.Flags().BoolVar(&write, "write", false, MsgFlagWrite)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version.String())
			if version.Commit != "" {
				fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, "Built:  %s\n", version.Date)
			}
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  msgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
