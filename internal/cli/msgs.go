package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Link dotfiles from a source tree into your home directory"
	MsgLinkShort       = "Create symlinks for every file in the source"
	MsgUnlinkShort     = "Remove symlinks created by link"
	MsgRemoveShort     = "Delete a named profile and the links into it"
	MsgStatusShort     = "Show the state of every link"
	MsgPlanShort       = "List the links that link would create"
	MsgMappingsShort   = "Show the effective mappings in evaluation order"
	MsgGenConfigShort  = "Print or write a sample profile config"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgConfigWritten = "Wrote %s"

	// Fallback warning
	MsgFallbackWarning = "Warning: Not in a git repository and DFM_SOURCE_DIR not set.\n" +
		"Using current directory: %s\n\n"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun    = "Preview changes without executing them"
	MsgFlagFormat    = "Output format: auto, term, text or json"
	MsgFlagSource    = "Source directory (default: the enclosing git repository)"
	MsgFlagProfile   = "Use the named profile under the dfm config directory"
	MsgFlagTarget    = "Target directory (default: target_dir from config, else home)"
	MsgFlagOverwrite = "Replace real files and directories at link destinations"
	MsgFlagTOML      = "Generate TOML instead of YAML"
	MsgFlagWrite     = "Write the config into the source directory"
)

const msgRootLong = `dfm links the files of a dotfiles source tree, usually a git repository,
into a target directory, usually your home directory.

Every tracked or untracked-but-not-ignored file becomes a symlink at the same
relative path under the target. Mappings in the source's .dfm.yml skip
files, rename them, move them under other directories or link whole
directories at once.

See 'dfm help mappings' and 'dfm help config'.`

const msgLinkLong = `Link creates a symlink for every file in the source directory.

Existing symlinks at a destination are replaced. Real files and directories
are left alone and reported as obstructed unless --overwrite is given, in
which case they are removed first.`

const msgUnlinkLong = `Unlink removes every destination that is a symlink to its source file.
Anything else found at a destination is left untouched.`

const msgRemoveLong = `Remove deletes the profile NAME from the dfm profiles directory.

Before the directory is deleted, every destination that is a symlink into
the profile is removed, so no link is left dangling. Real files are never
touched. With --dry-run nothing is removed and the plan is printed.`

const msgCompletionLong = `To load completions:

Bash:
  $ source <(dfm completion bash)

Zsh:
  $ dfm completion zsh > "${fpath[1]}/_dfm"

Fish:
  $ dfm completion fish | source

PowerShell:
  PS> dfm completion powershell | Out-String | Invoke-Expression
`
