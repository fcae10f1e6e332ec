package models

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DatabaseType is the broad family a catalog record belongs to.
type DatabaseType string

const (
	TypeSQL        DatabaseType = "SQL"
	TypeNoSQL      DatabaseType = "NoSQL"
	TypeNewSQL     DatabaseType = "NewSQL"
	TypeGraph      DatabaseType = "Graph"
	TypeTimeSeries DatabaseType = "Time Series"
	TypeKeyValue   DatabaseType = "Key-Value"
	TypeDocument   DatabaseType = "Document"
	TypeVector     DatabaseType = "Vector"
	TypeOther      DatabaseType = "Other"
)

// DatabaseTypes lists every accepted DatabaseType in display order.
var DatabaseTypes = []DatabaseType{
	TypeSQL, TypeNoSQL, TypeNewSQL, TypeGraph, TypeTimeSeries,
	TypeKeyValue, TypeDocument, TypeVector, TypeOther,
}

// License describes how a database is distributed.
type License string

const (
	LicenseOpenSource License = "Open Source"
	LicenseCommercial License = "Commercial"
	LicenseHybrid     License = "Hybrid"
	LicenseUnknown    License = "Unknown"
)

// Licenses lists every accepted License.
var Licenses = []License{LicenseOpenSource, LicenseCommercial, LicenseHybrid, LicenseUnknown}

var (
	// ErrInvalidType is returned when a string is not a known DatabaseType.
	ErrInvalidType = errors.New("invalid database type")
	// ErrInvalidLicense is returned when a string is not a known License.
	ErrInvalidLicense = errors.New("invalid license")
	// ErrValidation wraps every struct validation failure.
	ErrValidation = errors.New("validation failed")
)

// ParseDatabaseType converts s into a DatabaseType. Matching ignores case.
func ParseDatabaseType(s string) (DatabaseType, error) {
	for _, t := range DatabaseTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Valid reports whether t is one of the known types.
func (t DatabaseType) Valid() bool {
	return slices.Contains(DatabaseTypes, t)
}

// Relational reports whether schemas for this type use SQL spellings.
func (t DatabaseType) Relational() bool {
	return t == TypeSQL || t == TypeNewSQL
}

// ParseLicense converts s into a License. Matching ignores case.
func ParseLicense(s string) (License, error) {
	for _, l := range Licenses {
		if strings.EqualFold(string(l), strings.TrimSpace(s)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLicense, s)
}

// Valid reports whether l is one of the known licenses.
func (l License) Valid() bool {
	return slices.Contains(Licenses, l)
}

// UseCaseDetail is a long-form description of one way a database is used.
type UseCaseDetail struct {
	Title                 string   `json:"title" yaml:"title" validate:"required"`
	Description           string   `json:"description" yaml:"description"`
	Industry              string   `json:"industry,omitempty" yaml:"industry,omitempty"`
	CompanySize           string   `json:"companySize,omitempty" yaml:"companySize,omitempty"`
	TechnicalRequirements []string `json:"technicalRequirements,omitempty" yaml:"technicalRequirements,omitempty"`
	Benefits              []string `json:"benefits,omitempty" yaml:"benefits,omitempty"`
	Challenges            []string `json:"challenges,omitempty" yaml:"challenges,omitempty"`
}

// Database is a catalog record describing one database product.
type Database struct {
	Name              string          `json:"name" yaml:"name" validate:"required,min=1,max=100"`
	Slug              string          `json:"slug" yaml:"slug" validate:"omitempty,slug"`
	Description       string          `json:"description" yaml:"description"`
	ShortDescription  string          `json:"shortDescription,omitempty" yaml:"shortDescription,omitempty"`
	Category          string          `json:"category" yaml:"category" validate:"required"`
	Type              DatabaseType    `json:"type" yaml:"type" validate:"required,dbtype"`
	License           License         `json:"license" yaml:"license" validate:"required,license"`
	CloudOffering     bool            `json:"cloudOffering" yaml:"cloudOffering"`
	SelfHosted        bool            `json:"selfHosted" yaml:"selfHosted"`
	Features          []string        `json:"features" yaml:"features"`
	UseCases          []string        `json:"useCases" yaml:"useCases"`
	Languages         []string        `json:"languages" yaml:"languages"`
	Pros              []string        `json:"pros" yaml:"pros"`
	Cons              []string        `json:"cons" yaml:"cons"`
	Popularity        int             `json:"popularity" yaml:"popularity" validate:"min=0,max=100"`
	Stars             int             `json:"stars,omitempty" yaml:"stars,omitempty" validate:"min=0"`
	WebsiteURL        string          `json:"websiteUrl,omitempty" yaml:"websiteUrl,omitempty" validate:"omitempty,url"`
	DocumentationURL  string          `json:"documentationUrl,omitempty" yaml:"documentationUrl,omitempty" validate:"omitempty,url"`
	GithubURL         string          `json:"githubUrl,omitempty" yaml:"githubUrl,omitempty" validate:"omitempty,url"`
	LogoURL           string          `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty" validate:"omitempty,url"`
	Tagline           string          `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	KeyStrength       string          `json:"keyStrength,omitempty" yaml:"keyStrength,omitempty"`
	NotRecommendedFor []string        `json:"notRecommendedFor,omitempty" yaml:"notRecommendedFor,omitempty"`
	UseCaseDetails    []UseCaseDetail `json:"useCaseDetails,omitempty" yaml:"useCaseDetails,omitempty" validate:"dive"`
	Contributors      string          `json:"contributors,omitempty" yaml:"contributors,omitempty"`
	CreatedAt         time.Time       `json:"createdAt" yaml:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt" yaml:"updatedAt"`
}

// HasFeature reports whether the record lists feature verbatim.
func (d Database) HasFeature(feature string) bool {
	return slices.Contains(d.Features, feature)
}

// Validate checks the record's struct tags and enumerations.
func (d Database) Validate() error {
	return ValidateStruct(d)
}

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify lowercases name and collapses every run of characters outside
// [a-z0-9] into a single hyphen.
func Slugify(name string) string {
	s := nonSlugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("dbtype", func(fl validator.FieldLevel) bool {
		return DatabaseType(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("license", func(fl validator.FieldLevel) bool {
		return License(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	var messages []string
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(messages, "; "))
}
