package consultant

import (
	"fmt"

	"github.com/josephgoksu/DBAtlas/models"
)

// Architecture is the suggested deployment shape.
type Architecture struct {
	Pattern         string   `json:"pattern"`
	Components      []string `json:"components"`
	ScalingStrategy string   `json:"scalingStrategy"`
	BackupStrategy  string   `json:"backupStrategy"`
}

// Implementation is the suggested rollout plan.
type Implementation struct {
	Steps          []string `json:"steps"`
	Considerations []string `json:"considerations"`
	Timeline       string   `json:"timeline"`
}

// Costs are coarse cost levels.
type Costs struct {
	Development string `json:"development"`
	Operational string `json:"operational"`
	Scaling     string `json:"scaling"`
}

const defaultPattern = "Standard three-tier architecture"

var architecturePatterns = map[ProjectType]string{
	ProjectWeb:       "Three-tier architecture with load balancer",
	ProjectMobile:    "API-first architecture with CDN",
	ProjectAnalytics: "Data lake architecture with ETL pipeline",
	ProjectIoT:       "Event-driven architecture with message queues",
	ProjectECommerce: "Microservices architecture with CQRS",
}

func planArchitecture(db models.Database, req Requirements) Architecture {
	pt := req.ProjectType
	if pt == "" {
		pt = ProjectWeb
	}
	pattern, ok := architecturePatterns[pt]
	if !ok {
		pattern = defaultPattern
	}

	components := []string{"Application Server", "Database", "Cache Layer"}
	if req.ExpectedLoad == LoadHigh {
		components = append(components, "Load Balancer", "Read Replicas")
	}
	if req.ProjectType == ProjectAnalytics {
		components = append(components, "Data Warehouse", "ETL Pipeline")
	}

	scaling := "Start with single instance, scale as needed"
	if req.ExpectedLoad == LoadHigh {
		if db.HasFeature("Horizontal Scaling") {
			scaling = "Horizontal scaling with sharding"
		} else {
			scaling = "Vertical scaling with read replicas"
		}
	}

	backup := "Regular automated backups with offsite storage"
	if db.CloudOffering {
		backup = "Automated cloud backups with point-in-time recovery"
	}

	return Architecture{
		Pattern:         pattern,
		Components:      components,
		ScalingStrategy: scaling,
		BackupStrategy:  backup,
	}
}

func planImplementation(db models.Database, req Requirements) Implementation {
	steps := []string{
		"Set up development environment",
		fmt.Sprintf("Install and configure %s", db.Name),
		"Design database schema",
		"Implement data access layer",
		"Set up monitoring and logging",
	}
	if req.ExpectedLoad == LoadHigh {
		steps = append(steps, "Configure load balancing", "Set up read replicas")
	}

	considerations := []string{
		"Plan for data migration strategy",
		"Implement proper indexing",
		"Set up backup and recovery procedures",
	}
	if db.Type == models.TypeNoSQL {
		considerations = append(considerations, "Design for eventual consistency")
	}

	return Implementation{
		Steps:          steps,
		Considerations: considerations,
		Timeline:       estimateTimeline(req),
	}
}

func estimateTimeline(req Requirements) string {
	weeks := 1
	switch req.Team {
	case TeamSolo:
		weeks = 4
	case TeamSmall:
		weeks = 2
	}
	if req.ExpectedLoad == LoadHigh {
		weeks *= 2
	}
	return fmt.Sprintf("%d-%d weeks for initial implementation", weeks, weeks+2)
}

func estimateCosts(db models.Database, req Requirements) Costs {
	c := Costs{Development: "High", Operational: "Low", Scaling: "Low-Medium"}
	switch req.Team {
	case TeamSolo:
		c.Development = "Low"
	case TeamSmall:
		c.Development = "Medium"
	}
	if db.License == models.LicenseCommercial {
		c.Operational = "High"
	} else if db.CloudOffering && req.ExpectedLoad == LoadHigh {
		c.Operational = "Medium-High"
	}
	if req.ExpectedLoad == LoadHigh {
		c.Scaling = "High"
	}
	return c
}
