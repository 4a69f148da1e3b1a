// Package resume holds the résumé content rendered by the site: contact
// details, experience, education, skills and projects. The default résumé
// is embedded; a YAML or TOML file of the same shape can replace it.
package resume

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed resume.yaml
var defaultYAML []byte

// ErrNoName is returned when a résumé has no name to put in its header.
var ErrNoName = errors.New("resume: name is required")

// Resume is the whole document.
type Resume struct {
	Name         string       `yaml:"name" toml:"name" json:"name"`
	Title        string       `yaml:"title" toml:"title" json:"title"`
	ProfileImage string       `yaml:"profile_image,omitempty" toml:"profile_image,omitempty" json:"profileImage,omitempty"`
	Summary      string       `yaml:"summary" toml:"summary" json:"summary"`
	ShowProjects bool         `yaml:"show_projects" toml:"show_projects" json:"showProjects"`
	Contact      Contact      `yaml:"contact" toml:"contact" json:"contact"`
	Experiences  []Experience `yaml:"experiences" toml:"experiences" json:"experiences"`
	Education    []Education  `yaml:"education" toml:"education" json:"education"`
	Skills       []SkillGroup `yaml:"skills" toml:"skills" json:"skills"`
	Projects     []Project    `yaml:"projects,omitempty" toml:"projects,omitempty" json:"projects,omitempty"`
	Orgs         []Org        `yaml:"organizations,omitempty" toml:"organizations,omitempty" json:"organizations,omitempty"`
	Print        PrintExtras  `yaml:"print,omitempty" toml:"print,omitempty" json:"-"`
}

// Contact holds the header links. Empty fields are not rendered.
type Contact struct {
	Email    string `yaml:"email,omitempty" toml:"email,omitempty" json:"email,omitempty"`
	Phone    string `yaml:"phone,omitempty" toml:"phone,omitempty" json:"phone,omitempty"`
	Location string `yaml:"location,omitempty" toml:"location,omitempty" json:"location,omitempty"`
	LinkedIn string `yaml:"linkedin,omitempty" toml:"linkedin,omitempty" json:"linkedin,omitempty"`
	GitHub   string `yaml:"github,omitempty" toml:"github,omitempty" json:"github,omitempty"`
	Website  string `yaml:"website,omitempty" toml:"website,omitempty" json:"website,omitempty"`
}

// Experience is one role on the timeline. Accent selects the title colour.
type Experience struct {
	Company      string   `yaml:"company" toml:"company" json:"company"`
	Position     string   `yaml:"position" toml:"position" json:"position"`
	StartDate    string   `yaml:"start_date" toml:"start_date" json:"startDate"`
	EndDate      string   `yaml:"end_date" toml:"end_date" json:"endDate"`
	Description  string   `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Accent       string   `yaml:"accent,omitempty" toml:"accent,omitempty" json:"accent,omitempty"`
	Achievements []string `yaml:"achievements,omitempty" toml:"achievements,omitempty" json:"achievements,omitempty"`
}

// Current reports whether the role is still held.
func (e Experience) Current() bool {
	return strings.EqualFold(e.EndDate, "present")
}

// Education is a degree, program or certification.
type Education struct {
	Institution  string   `yaml:"institution" toml:"institution" json:"institution"`
	Degree       string   `yaml:"degree,omitempty" toml:"degree,omitempty" json:"degree,omitempty"`
	Field        string   `yaml:"field" toml:"field" json:"field"`
	StartDate    string   `yaml:"start_date,omitempty" toml:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate      string   `yaml:"end_date,omitempty" toml:"end_date,omitempty" json:"endDate,omitempty"`
	Description  string   `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Achievements []string `yaml:"achievements,omitempty" toml:"achievements,omitempty" json:"achievements,omitempty"`
}

// Period renders the date range, collapsing equal start and end years.
func (e Education) Period() string {
	switch {
	case e.StartDate == "" || e.StartDate == e.EndDate:
		return e.EndDate
	case e.EndDate == "":
		return e.StartDate
	default:
		return e.StartDate + " - " + e.EndDate
	}
}

type SkillGroup struct {
	Category string   `yaml:"category" toml:"category" json:"category"`
	Skills   []string `yaml:"skills" toml:"skills" json:"skills"`
}

type Project struct {
	Title        string   `yaml:"title" toml:"title" json:"title"`
	Description  string   `yaml:"description" toml:"description" json:"description"`
	Technologies []string `yaml:"technologies,omitempty" toml:"technologies,omitempty" json:"technologies,omitempty"`
	Link         string   `yaml:"link,omitempty" toml:"link,omitempty" json:"link,omitempty"`
}

// Org is a GitHub organization badge shown under the activity calendar.
type Org struct {
	Name   string `yaml:"name" toml:"name" json:"name"`
	Avatar string `yaml:"avatar,omitempty" toml:"avatar,omitempty" json:"avatar,omitempty"`
	URL    string `yaml:"url" toml:"url" json:"url"`
}

// PrintExtras is content only shown on the one-page print layout.
type PrintExtras struct {
	Summary string   `yaml:"summary,omitempty" toml:"summary,omitempty"`
	Metrics []Metric `yaml:"metrics,omitempty" toml:"metrics,omitempty"`
}

// Metric is one entry of the print layout's key metrics bar.
type Metric struct {
	Value string `yaml:"value" toml:"value" json:"value"`
	Label string `yaml:"label" toml:"label" json:"label"`
}

// Default returns the embedded résumé.
func Default() (*Resume, error) {
	return Parse(defaultYAML)
}

// Load returns the résumé at file, or the embedded one when file is empty.
func Load(file string) (*Resume, error) {
	if file == "" {
		return Default()
	}
	return LoadFile(file)
}

// LoadFile reads a résumé from a file. A .toml extension selects TOML;
// anything else is read as YAML.
func LoadFile(file string) (*Resume, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	parse := Parse
	if strings.EqualFold(filepath.Ext(file), ".toml") {
		parse = ParseTOML
	}
	r, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return r, nil
}

// Parse decodes and validates a YAML résumé.
func Parse(data []byte) (*Resume, error) {
	var r Resume
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse resume: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// ParseTOML decodes and validates a TOML résumé.
func ParseTOML(data []byte) (*Resume, error) {
	var r Resume
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse resume: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks the fields every layout depends on.
func (r *Resume) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNoName
	}
	for i, e := range r.Experiences {
		if e.Company == "" || e.Position == "" {
			return fmt.Errorf("resume: experience %d needs a company and a position", i)
		}
	}
	for i, g := range r.Skills {
		if g.Category == "" {
			return fmt.Errorf("resume: skill group %d has no category", i)
		}
	}
	return nil
}

// GitHubUsername is the last path segment of the GitHub contact link.
func (r *Resume) GitHubUsername() string {
	link := strings.TrimRight(r.Contact.GitHub, "/")
	if link == "" {
		return ""
	}
	return path.Base(link)
}
