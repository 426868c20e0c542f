package seed

// File represents the top-level structure of the seed YAML file
type File struct {
	Entries []EntrySpec `yaml:"entries"`
	Groups  []GroupSpec `yaml:"groups,omitempty"`
}

// EntrySpec describes one seeded entry
type EntrySpec struct {
	Title       string   `yaml:"title"`
	URL         string   `yaml:"url"`
	Description string   `yaml:"description,omitempty"`
	Favicon     string   `yaml:"favicon,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// GroupSpec describes one seeded group
type GroupSpec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}
