// Package flow handles parsing and representation of YAML flow files: an optional
// config document followed by a list of element steps.
package flow

// Flow represents a parsed flow file.
type Flow struct {
	SourcePath string // Path to the source file
	Config     Config // Flow configuration (name, url, tags, etc.)
	Steps      []Step // Steps to execute
}

// Config represents flow-level configuration.
type Config struct {
	Name    string            `yaml:"name"`
	URL     string            `yaml:"url"` // Opened before the first step when set
	Tags    []string          `yaml:"tags"`
	Env     map[string]string `yaml:"env"`
	Timeout int               `yaml:"timeout"` // Default element wait timeout in ms
}

// DisplayName returns the configured name or the source path.
func (f *Flow) DisplayName() string {
	if f.Config.Name != "" {
		return f.Config.Name
	}
	return f.SourcePath
}
