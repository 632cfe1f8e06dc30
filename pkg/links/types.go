package links

// Directive is a resolved link: Destination becomes a symlink to Source.
// Directives are compared by value.
type Directive struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// SourceLister enumerates the files of a source directory as absolute paths.
type SourceLister interface {
	ListFiles(dir string) ([]string, error)
}

// LinkReport describes the outcome of a Link pass.
type LinkReport struct {
	DryRun bool `json:"dry_run"`
	// Linked holds the directives that were linked, or would be in a dry run.
	Linked []Directive `json:"linked"`
	// Obstructed holds directives skipped because real data sits at the
	// destination and overwriting was not allowed.
	Obstructed []Directive `json:"obstructed"`
}

// UnlinkReport describes the outcome of an Unlink pass.
type UnlinkReport struct {
	DryRun  bool        `json:"dry_run"`
	Removed []Directive `json:"removed"`
}

// LinkState is the on-disk state of a directive's destination.
type LinkState string

const (
	// StateLinked means the destination is a symlink to the source.
	StateLinked LinkState = "linked"
	// StateMissing means nothing exists at the destination.
	StateMissing LinkState = "missing"
	// StateObstructed means a real file or directory occupies the destination.
	StateObstructed LinkState = "obstructed"
	// StateForeign means the destination is a symlink pointing elsewhere.
	StateForeign LinkState = "foreign"
)

// DirectiveStatus pairs a directive with its state.
type DirectiveStatus struct {
	Directive
	State LinkState `json:"state"`
	// LinkTarget is the current target of a foreign or linked symlink.
	LinkTarget string `json:"link_target,omitempty"`
}
