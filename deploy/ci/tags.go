package ci

import (
	"strconv"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const (
	defaultBusinessUnit = "Platforms"
	defaultApplication  = "Data Engineering"
	defaultOwner        = "Data Engineering:dataengineering@digital.justice.gov.uk"
)

// Tagger produces the organisation tags applied to every declared resource
type Tagger struct {
	EnvironmentName string
	SourceCode      string
	BusinessUnit    string
	Application     string
	Owner           string
	IsProduction    bool
}

// NewTags returns the tags for a resource using the default organisation values
func NewTags(environmentName, sourceCode, resourceName string) map[string]string {
	return Tagger{
		EnvironmentName: environmentName,
		SourceCode:      sourceCode,
		IsProduction:    true,
	}.Tags(resourceName)
}

// Tags returns the plain tag mapping for the named resource
func (t Tagger) Tags(resourceName string) map[string]string {
	return map[string]string{
		"Name":             resourceName,
		"environment-name": t.EnvironmentName,
		"source-code":      t.SourceCode,
		"business-unit":    orDefault(t.BusinessUnit, defaultBusinessUnit),
		"application":      orDefault(t.Application, defaultApplication),
		"owner":            orDefault(t.Owner, defaultOwner),
		"is-production":    strconv.FormatBool(t.IsProduction),
	}
}

// CreateTags returns the tags for the named resource as a pulumi input
func (t Tagger) CreateTags(resourceName string) pulumi.StringMap {
	return pulumi.ToStringMap(t.Tags(resourceName))
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
