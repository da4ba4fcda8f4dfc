package content

import "fmt"

// ProjectKind distinguishes the two top-level project flavours.
// A project's kind is set at creation and never changes.
type ProjectKind string

const (
	ProjectSite  ProjectKind = "site"
	ProjectTheme ProjectKind = "theme"
)

// ParseProjectKind converts a wire string into a ProjectKind.
func ParseProjectKind(s string) (ProjectKind, error) {
	switch s {
	case string(ProjectSite):
		return ProjectSite, nil
	case string(ProjectTheme):
		return ProjectTheme, nil
	default:
		return "", fmt.Errorf("%w: unknown project type %q", ErrValidation, s)
	}
}

// FileKind is the declared type of a file. The six built-in kinds determine
// which attribute containers exist on the node; custom collections produce
// files whose kind equals the collection name and whose attributes live in
// the extension fields map only.
type FileKind string

const (
	FilePage     FileKind = "page"
	FilePost     FileKind = "post"
	FileAsset    FileKind = "asset"
	FileTemplate FileKind = "template"
	FilePartial  FileKind = "partial"
	FileText     FileKind = "text"
)

// IsBuiltinFileKind reports whether s names one of the six built-in kinds.
func IsBuiltinFileKind(s string) bool {
	switch FileKind(s) {
	case FilePage, FilePost, FileAsset, FileTemplate, FilePartial, FileText:
		return true
	}
	return false
}

// BuiltinCollections returns the fixed collection vocabulary for a project
// kind. Built-in collection names double as the file kind of their files.
func BuiltinCollections(kind ProjectKind) []string {
	switch kind {
	case ProjectSite:
		return []string{"page", "post", "asset"}
	case ProjectTheme:
		return []string{"template", "partial", "text", "asset"}
	}
	return nil
}

// CollectionAllowed reports whether a collection name is in the built-in
// vocabulary for the given project kind.
func CollectionAllowed(kind ProjectKind, name string) bool {
	for _, n := range BuiltinCollections(kind) {
		if n == name {
			return true
		}
	}
	return false
}
