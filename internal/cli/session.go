package cli

import (
	"fmt"

	"github.com/arthur-debert/dfm/pkg/config"
	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/arthur-debert/dfm/pkg/links"
	"github.com/arthur-debert/dfm/pkg/logging"
	"github.com/arthur-debert/dfm/pkg/output"
	"github.com/arthur-debert/dfm/pkg/paths"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	verbosity int
	dryRun    bool
	format    string
	source    string
	profile   string
	target    string

	// lister replaces git enumeration when set.
	lister links.SourceLister
}

// session is everything a command needs for one invocation.
type session struct {
	sourceDir string
	config    *config.ProfileConfig
	manager   *links.LinkManager
	renderer  *output.Renderer
}

// resolveSource picks the source directory: --profile, then --source, then
// discovery.
func resolveSource(cmd *cobra.Command, opts *globalOptions) (string, error) {
	if opts.profile != "" && opts.source != "" {
		return "", errors.New(errors.ErrInvalidInput, "--profile and --source cannot be used together")
	}

	if opts.profile != "" {
		return paths.ProfilePath(opts.profile)
	}
	if opts.source != "" {
		return paths.NormalizePath(opts.source)
	}

	root, usedFallback, err := paths.FindSourceRoot()
	if err != nil {
		return "", err
	}
	if usedFallback {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning, root)
	}
	return root, nil
}

func newRenderer(cmd *cobra.Command, opts *globalOptions) (*output.Renderer, error) {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(cmd.OutOrStdout(), format)
}

// newSession resolves the source, loads its config and builds the manager.
func newSession(cmd *cobra.Command, opts *globalOptions) (*session, error) {
	if _, err := output.ParseFormat(opts.format); err != nil {
		return nil, err
	}
	sourceDir, err := resolveSource(cmd, opts)
	if err != nil {
		return nil, err
	}
	return openSession(cmd, opts, sourceDir)
}

// openSession is newSession for an already chosen source directory.
func openSession(cmd *cobra.Command, opts *globalOptions, sourceDir string) (*session, error) {
	logger := logging.GetLogger("cli")

	renderer, err := newRenderer(cmd, opts)
	if err != nil {
		return nil, err
	}

	var overrides map[string]interface{}
	if opts.target != "" {
		overrides = map[string]interface{}{"target_dir": opts.target}
	}
	cfg, err := config.LoadProfileConfig(sourceDir, overrides)
	if err != nil {
		return nil, err
	}

	var managerOpts []links.Option
	if opts.lister != nil {
		managerOpts = append(managerOpts, links.WithLister(opts.lister))
	}
	manager, err := links.FromConfig(sourceDir, cfg, managerOpts...)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("source", manager.SourceDir()).
		Str("target", manager.TargetDir()).
		Str("config", cfg.Path).
		Bool("dry_run", opts.dryRun).
		Msg("Session ready")

	return &session{
		sourceDir: sourceDir,
		config:    cfg,
		manager:   manager,
		renderer:  renderer,
	}, nil
}
