// Package ci contains the infra required to run database access deployments on AWS CodeBuild
package ci

import (
	"fmt"
	"log"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all the configuration from environment variables
type Config struct {
	// Key used by the build to unlock the git-crypt encrypted repository
	GitCryptKey string `envconfig:"GIT_CRYPT_KEY" required:"true"`
	// GitHub personal access token registered as the CodeBuild source credential
	GithubToken string `envconfig:"GITHUB_TOKEN" required:"true"`

	EnvironmentName string `envconfig:"ENVIRONMENT_NAME" default:"alpha"`
	SourceCodeURL   string `envconfig:"SOURCE_CODE_URL" default:"https://github.com/moj-analytical-services/data-engineering-database-access-deploy"`
	ResourcePrefix  string `envconfig:"RESOURCE_PREFIX" default:"database-access"`
	ServiceRoleName string `envconfig:"SERVICE_ROLE_NAME" default:"database-access-codebuild-service-role"`

	// Repository cloned by both build projects
	RepositoryURL   string `envconfig:"REPOSITORY_URL" default:"https://github.com/moj-analytical-services/data-engineering-database-access.git"`
	MainBranch      string `envconfig:"MAIN_BRANCH" default:"main"`
	BuildImage      string `envconfig:"BUILD_IMAGE" default:"aws/codebuild/standard:5.0"`
	ComputeType     string `envconfig:"COMPUTE_TYPE" default:"BUILD_GENERAL1_SMALL"`
	EnvironmentType string `envconfig:"ENVIRONMENT_TYPE" default:"LINUX_CONTAINER"`

	PullRequestBuildspec string `envconfig:"PULL_REQUEST_BUILDSPEC" default:".codebuild/buildspec_pull_request.yaml"`
	PushBuildspec        string `envconfig:"PUSH_BUILDSPEC" default:".codebuild/buildspec_push.yaml"`

	// Bucket holding the pulumi state the builds read and write
	StateBucket string `envconfig:"STATE_BUCKET" default:"data-engineering-pulumi.analytics.justice.gov.uk"`
	// Role name prefixes the builds are allowed to manage within the account
	ManagedRolePrefixes []string `envconfig:"MANAGED_ROLE_PREFIXES" default:"alpha_user_,alpha_app_"`

	BusinessUnit string `envconfig:"TAG_BUSINESS_UNIT" default:"Platforms"`
	Application  string `envconfig:"TAG_APPLICATION" default:"Data Engineering"`
	Owner        string `envconfig:"TAG_OWNER" default:"Data Engineering:dataengineering@digital.justice.gov.uk"`
	IsProduction bool   `envconfig:"TAG_IS_PRODUCTION" default:"true"`

	ProtectResources bool `envconfig:"PROTECT_RESOURCES" default:"false"`
}

// LoadConfig loads configuration from environment variables.
// GIT_CRYPT_KEY and GITHUB_TOKEN are required and cause an error if not set.
func LoadConfig() (*Config, error) {
	var config Config

	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment variables: %w", err)
	}

	// envconfig accepts a required key that is set but empty
	if config.GitCryptKey == "" || config.GithubToken == "" {
		return nil, fmt.Errorf("failed to load configuration: GIT_CRYPT_KEY and GITHUB_TOKEN must not be empty")
	}

	if len(config.ManagedRolePrefixes) == 0 {
		return nil, fmt.Errorf("failed to load configuration: at least one managed role prefix is required")
	}

	log.Printf("Configuration loaded successfully:")
	log.Printf("  Environment Name: %s", config.EnvironmentName)
	log.Printf("  Resource Prefix: %s", config.ResourcePrefix)
	log.Printf("  Service Role Name: %s", config.ServiceRoleName)
	log.Printf("  Repository URL: %s", config.RepositoryURL)
	log.Printf("  Main Branch: %s", config.MainBranch)
	log.Printf("  Build Image: %s", config.BuildImage)
	log.Printf("  State Bucket: %s", config.StateBucket)
	log.Printf("  Managed Role Prefixes: %v", config.ManagedRolePrefixes)
	log.Printf("  Protect Resources: %t", config.ProtectResources)

	return &config, nil
}

// Tagger returns the tagger for every resource declared with this config
func (c *Config) Tagger() Tagger {
	return Tagger{
		EnvironmentName: c.EnvironmentName,
		SourceCode:      c.SourceCodeURL,
		BusinessUnit:    c.BusinessUnit,
		Application:     c.Application,
		Owner:           c.Owner,
		IsProduction:    c.IsProduction,
	}
}
