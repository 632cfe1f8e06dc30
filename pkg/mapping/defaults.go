package mapping

// ConfigFilePattern matches the profile config files dfm reads from a
// source directory.
const ConfigFilePattern = `/\.dfm\.(yml|yaml|toml)$`

// Defaults returns the built-in mappings. They are appended after user
// mappings, so for a file matched by both the built-in rule is evaluated
// last and decides the outcome.
func Defaults() []*Mapping {
	return []*Mapping{
		MustNew(Options{Match: `/\.git/`, Skip: true}),
		MustNew(Options{Match: `/\.gitignore$`, Skip: true}),
		MustNew(Options{Match: `/\.ggitignore$`, Dest: ".gitignore"}),
		MustNew(Options{Match: `/LICENSE(\.md)?$`, Skip: true}),
		MustNew(Options{Match: ConfigFilePattern, Skip: true}),
		MustNew(Options{Match: `/README(\.md)?$`, Skip: true}),
	}
}
