// Package entrycodec converts catalog entries to and from their Markdown
// document form: YAML frontmatter for scalar fields followed by a fixed
// set of "## " sections for lists, prose and user interactions.
package entrycodec

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/josephgoksu/DBAtlas/models"
	"gopkg.in/yaml.v3"
)

// ErrMalformedEntry wraps every decode failure and every value that cannot
// be represented in the document format.
var ErrMalformedEntry = errors.New("malformed entry")

const fence = "---"

type sectionKind int

const (
	kindProse sectionKind = iota
	kindList
	kindLinks
	kindRatings
	kindComments
)

type section struct {
	title string
	kind  sectionKind
	// always is set for sections written even when empty.
	always bool
	// list returns a pointer to the backing slice for list sections.
	list func(e *models.Entry) *[]string
	// prose returns a pointer to the backing string for prose sections.
	prose func(e *models.Entry) *string
}

// sections is the document layout, in write order.
var sections = []section{
	{title: "Description", kind: kindProse, always: true, prose: func(e *models.Entry) *string { return &e.Description }},
	{title: "Short Description", kind: kindProse, prose: func(e *models.Entry) *string { return &e.ShortDescription }},
	{title: "Links", kind: kindLinks},
	{title: "Features", kind: kindList, always: true, list: func(e *models.Entry) *[]string { return &e.Features }},
	{title: "Use Cases", kind: kindList, always: true, list: func(e *models.Entry) *[]string { return &e.UseCases }},
	{title: "Supported Languages", kind: kindList, always: true, list: func(e *models.Entry) *[]string { return &e.Languages }},
	{title: "Pros", kind: kindList, always: true, list: func(e *models.Entry) *[]string { return &e.Pros }},
	{title: "Cons", kind: kindList, always: true, list: func(e *models.Entry) *[]string { return &e.Cons }},
	{title: "Not Recommended For", kind: kindList, list: func(e *models.Entry) *[]string { return &e.NotRecommendedFor }},
	{title: "Query Languages", kind: kindList, list: func(e *models.Entry) *[]string { return &e.QueryLanguages }},
	{title: "Indexing Support", kind: kindList, list: func(e *models.Entry) *[]string { return &e.IndexingSupport }},
	{title: "Security Features", kind: kindList, list: func(e *models.Entry) *[]string { return &e.SecurityFeatures }},
	{title: "Performance Characteristics", kind: kindList, list: func(e *models.Entry) *[]string { return &e.PerformanceCharacteristics }},
	{title: "Scalability Options", kind: kindList, list: func(e *models.Entry) *[]string { return &e.ScalabilityOptions }},
	{title: "Backup Options", kind: kindList, list: func(e *models.Entry) *[]string { return &e.BackupOptions }},
	{title: "Cloud Providers", kind: kindList, list: func(e *models.Entry) *[]string { return &e.CloudProviders }},
	{title: "API Support", kind: kindList, list: func(e *models.Entry) *[]string { return &e.APISupport }},
	{title: "Integrations", kind: kindList, list: func(e *models.Entry) *[]string { return &e.Integrations }},
	{title: "Ratings", kind: kindRatings, always: true},
	{title: "Comments", kind: kindComments, always: true},
}

func lookupSection(title string) (section, bool) {
	for _, s := range sections {
		if s.title == title {
			return s, true
		}
	}
	return section{}, false
}

// frontmatter carries every field that is not stored in a body section.
type frontmatter struct {
	Name                string                 `yaml:"name"`
	Slug                string                 `yaml:"slug"`
	Category            string                 `yaml:"category"`
	Type                models.DatabaseType    `yaml:"type"`
	License             models.License         `yaml:"license"`
	CloudOffering       bool                   `yaml:"cloudOffering"`
	SelfHosted          bool                   `yaml:"selfHosted"`
	Popularity          int                    `yaml:"popularity"`
	Stars               int                    `yaml:"stars,omitempty"`
	Tagline             string                 `yaml:"tagline,omitempty"`
	KeyStrength         string                 `yaml:"keyStrength,omitempty"`
	Contributors        string                 `yaml:"contributors,omitempty"`
	CreatedAt           time.Time              `yaml:"createdAt"`
	UpdatedAt           time.Time              `yaml:"updatedAt"`
	OfficialDescription string                 `yaml:"officialDescription,omitempty"`
	Architecture        string                 `yaml:"architecture,omitempty"`
	DataModel           string                 `yaml:"dataModel,omitempty"`
	ReplicationSupport  bool                   `yaml:"replicationSupport"`
	ShardingSupport     bool                   `yaml:"shardingSupport"`
	EnterpriseSupport   bool                   `yaml:"enterpriseSupport"`
	OnPremiseSupport    bool                   `yaml:"onPremiseSupport"`
	CommunitySize       string                 `yaml:"communitySize,omitempty"`
	DevelopmentStatus   string                 `yaml:"developmentStatus,omitempty"`
	LatestVersion       string                 `yaml:"latestVersion,omitempty"`
	ReleaseFrequency    string                 `yaml:"releaseFrequency,omitempty"`
	MaintenanceStatus   string                 `yaml:"maintenanceStatus,omitempty"`
	UseCaseDetails      []models.UseCaseDetail `yaml:"useCaseDetails,omitempty"`
}

func toFrontmatter(e models.Entry) frontmatter {
	return frontmatter{
		Name:                e.Name,
		Slug:                e.Slug,
		Category:            e.Category,
		Type:                e.Type,
		License:             e.License,
		CloudOffering:       e.CloudOffering,
		SelfHosted:          e.SelfHosted,
		Popularity:          e.Popularity,
		Stars:               e.Stars,
		Tagline:             e.Tagline,
		KeyStrength:         e.KeyStrength,
		Contributors:        e.Contributors,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
		OfficialDescription: e.OfficialDescription,
		Architecture:        e.Architecture,
		DataModel:           e.DataModel,
		ReplicationSupport:  e.ReplicationSupport,
		ShardingSupport:     e.ShardingSupport,
		EnterpriseSupport:   e.EnterpriseSupport,
		OnPremiseSupport:    e.OnPremiseSupport,
		CommunitySize:       e.CommunitySize,
		DevelopmentStatus:   e.DevelopmentStatus,
		LatestVersion:       e.LatestVersion,
		ReleaseFrequency:    e.ReleaseFrequency,
		MaintenanceStatus:   e.MaintenanceStatus,
		UseCaseDetails:      e.UseCaseDetails,
	}
}

func (f frontmatter) apply(e *models.Entry) {
	e.Name = f.Name
	e.Slug = f.Slug
	e.Category = f.Category
	e.Type = f.Type
	e.License = f.License
	e.CloudOffering = f.CloudOffering
	e.SelfHosted = f.SelfHosted
	e.Popularity = f.Popularity
	e.Stars = f.Stars
	e.Tagline = f.Tagline
	e.KeyStrength = f.KeyStrength
	e.Contributors = f.Contributors
	e.CreatedAt = f.CreatedAt
	e.UpdatedAt = f.UpdatedAt
	e.OfficialDescription = f.OfficialDescription
	e.Architecture = f.Architecture
	e.DataModel = f.DataModel
	e.ReplicationSupport = f.ReplicationSupport
	e.ShardingSupport = f.ShardingSupport
	e.EnterpriseSupport = f.EnterpriseSupport
	e.OnPremiseSupport = f.OnPremiseSupport
	e.CommunitySize = f.CommunitySize
	e.DevelopmentStatus = f.DevelopmentStatus
	e.LatestVersion = f.LatestVersion
	e.ReleaseFrequency = f.ReleaseFrequency
	e.MaintenanceStatus = f.MaintenanceStatus
	e.UseCaseDetails = f.UseCaseDetails
}

type link struct {
	label string
	field func(e *models.Entry) *string
}

var links = []link{
	{label: "Website", field: func(e *models.Entry) *string { return &e.WebsiteURL }},
	{label: "Documentation", field: func(e *models.Entry) *string { return &e.DocumentationURL }},
	{label: "GitHub", field: func(e *models.Entry) *string { return &e.GithubURL }},
	{label: "Logo", field: func(e *models.Entry) *string { return &e.LogoURL }},
}

// Metadata keys used inside rating and comment blocks.
const (
	keyRating      = "Rating"
	keyID          = "ID"
	keyDate        = "Date"
	keyEmail       = "Email"
	keyExperience  = "Experience"
	keyUseCase     = "Use Case"
	keyCompanySize = "Company Size"
	keyIndustry    = "Industry"
	keyHelpful     = "Helpful"
)

// escapeLine protects body lines that would otherwise read as headings.
func escapeLine(line string) string {
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, `\`) {
		return `\` + line
	}
	return line
}

func unescapeLine(line string) string {
	return strings.TrimPrefix(line, `\`)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedEntry, fmt.Sprintf(format, args...))
}

func encodeFrontmatter(e models.Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toFrontmatter(e)); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeFrontmatter(raw string) (frontmatter, error) {
	var fm frontmatter
	dec := yaml.NewDecoder(strings.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&fm); err != nil {
		return frontmatter{}, malformed("frontmatter: %v", err)
	}
	if fm.Name == "" {
		return frontmatter{}, malformed("frontmatter: name is required")
	}
	if !fm.Type.Valid() {
		return frontmatter{}, malformed("frontmatter: %v", fmt.Errorf("%w: %q", models.ErrInvalidType, fm.Type))
	}
	if !fm.License.Valid() {
		return frontmatter{}, malformed("frontmatter: %v", fmt.Errorf("%w: %q", models.ErrInvalidLicense, fm.License))
	}
	return fm, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, malformed("%s %q is not a number", key, value)
	}
	return n, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, malformed("date %q: %v", value, err)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
