package domain

// HelpTopic is the help entry published for a command.
type HelpTopic struct {
	// Name is "/name", or "/minecraft:name" when another actor holds the bare name.
	Name       string `json:"name" yaml:"name"`
	ShortText  string `json:"short_text" yaml:"short"`
	FullText   string `json:"full_text" yaml:"full"`
	Permission string `json:"permission,omitempty" yaml:"permission,omitempty"`
}

// HelpPrefix returns the help entry name for a command.
func HelpPrefix(name string) string {
	return "/" + name
}
