package models

import (
	"math"
	"regexp"
	"time"
)

// usernamePattern matches GitHub handles.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9]){0,38}$`)

// ValidUsername reports whether name looks like a GitHub handle.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// Rating is one user's score for a catalog entry.
type Rating struct {
	Username    string    `json:"username" yaml:"username" validate:"required,username"`
	Email       string    `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Rating      int       `json:"rating" yaml:"rating" validate:"required,min=1,max=5"`
	Comment     string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	Date        time.Time `json:"date" yaml:"date"`
	Experience  string    `json:"experience,omitempty" yaml:"experience,omitempty"`
	UseCase     string    `json:"useCase,omitempty" yaml:"useCase,omitempty"`
	CompanySize string    `json:"companySize,omitempty" yaml:"companySize,omitempty"`
	Industry    string    `json:"industry,omitempty" yaml:"industry,omitempty"`
}

// Comment is a free-text remark left on a catalog entry.
type Comment struct {
	ID         string    `json:"id" yaml:"id" validate:"required,uuid4"`
	Username   string    `json:"username" yaml:"username" validate:"required,username"`
	Email      string    `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Content    string    `json:"content" yaml:"content" validate:"required"`
	Date       time.Time `json:"date" yaml:"date"`
	Experience string    `json:"experience,omitempty" yaml:"experience,omitempty"`
	UseCase    string    `json:"useCase,omitempty" yaml:"useCase,omitempty"`
	Helpful    int       `json:"helpful,omitempty" yaml:"helpful,omitempty" validate:"min=0"`
}

// RatingSummary aggregates the ratings of one entry.
type RatingSummary struct {
	Average float64  `json:"averageRating"`
	Total   int      `json:"totalRatings"`
	Ratings []Rating `json:"ratings"`
}

// Summarize computes the average of ratings, rounded to one decimal place.
func Summarize(ratings []Rating) RatingSummary {
	summary := RatingSummary{Total: len(ratings), Ratings: ratings}
	if len(ratings) == 0 {
		summary.Ratings = []Rating{}
		return summary
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	summary.Average = math.Round(float64(sum)/float64(len(ratings))*10) / 10
	return summary
}

// Entry is the persisted form of a catalog record: the record itself, the
// long-form technical profile and the user interactions left on it.
type Entry struct {
	Database `yaml:",inline"`

	OfficialDescription        string   `json:"officialDescription,omitempty" yaml:"officialDescription,omitempty"`
	Architecture               string   `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	DataModel                  string   `json:"dataModel,omitempty" yaml:"dataModel,omitempty"`
	QueryLanguages             []string `json:"queryLanguages,omitempty" yaml:"queryLanguages,omitempty"`
	IndexingSupport            []string `json:"indexingSupport,omitempty" yaml:"indexingSupport,omitempty"`
	ReplicationSupport         bool     `json:"replicationSupport" yaml:"replicationSupport"`
	ShardingSupport            bool     `json:"shardingSupport" yaml:"shardingSupport"`
	BackupOptions              []string `json:"backupOptions,omitempty" yaml:"backupOptions,omitempty"`
	SecurityFeatures           []string `json:"securityFeatures,omitempty" yaml:"securityFeatures,omitempty"`
	PerformanceCharacteristics []string `json:"performanceCharacteristics,omitempty" yaml:"performanceCharacteristics,omitempty"`
	ScalabilityOptions         []string `json:"scalabilityOptions,omitempty" yaml:"scalabilityOptions,omitempty"`
	CommunitySize              string   `json:"communitySize,omitempty" yaml:"communitySize,omitempty"`
	EnterpriseSupport          bool     `json:"enterpriseSupport" yaml:"enterpriseSupport"`
	CloudProviders             []string `json:"cloudProviders,omitempty" yaml:"cloudProviders,omitempty"`
	OnPremiseSupport           bool     `json:"onPremiseSupport" yaml:"onPremiseSupport"`
	APISupport                 []string `json:"apiSupport,omitempty" yaml:"apiSupport,omitempty"`
	Integrations               []string `json:"integrations,omitempty" yaml:"integrations,omitempty"`
	DevelopmentStatus          string   `json:"developmentStatus,omitempty" yaml:"developmentStatus,omitempty"`
	LatestVersion              string   `json:"latestVersion,omitempty" yaml:"latestVersion,omitempty"`
	ReleaseFrequency           string   `json:"releaseFrequency,omitempty" yaml:"releaseFrequency,omitempty"`
	MaintenanceStatus          string   `json:"maintenanceStatus,omitempty" yaml:"maintenanceStatus,omitempty"`

	Ratings  []Rating  `json:"ratings" yaml:"-" validate:"dive"`
	Comments []Comment `json:"comments" yaml:"-" validate:"dive"`
}

// NewEntry wraps db in an Entry, deriving the technical profile defaults
// from the record's own fields.
func NewEntry(db Database) Entry {
	if db.Slug == "" {
		db.Slug = Slugify(db.Name)
	}
	return Entry{
		Database:            db,
		OfficialDescription: db.Description,
		DataModel:           string(db.Type),
		OnPremiseSupport:    db.SelfHosted,
		DevelopmentStatus:   "Active",
		MaintenanceStatus:   "Maintained",
	}
}

// Validate checks the entry and every rating and comment on it.
func (e Entry) Validate() error {
	return ValidateStruct(e)
}

// RatingBy returns the rating left by username, if any.
func (e Entry) RatingBy(username string) (Rating, bool) {
	for _, r := range e.Ratings {
		if r.Username == username {
			return r, true
		}
	}
	return Rating{}, false
}

// UpsertRating replaces the rating previously left by the same user or
// appends r when there is none.
func (e *Entry) UpsertRating(r Rating) {
	for i := range e.Ratings {
		if e.Ratings[i].Username == r.Username {
			e.Ratings[i] = r
			return
		}
	}
	e.Ratings = append(e.Ratings, r)
}
