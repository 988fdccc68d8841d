package ci

import (
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/codebuild"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const gitCryptKeyVariable = "GIT_CRYPT_KEY"

// BuildJob describes one CodeBuild project and the webhook events that trigger it
type BuildJob struct {
	// Short name used for the pulumi resources of the job
	ResourceName string
	Name         string
	Description  string
	Buildspec    string
	FilterGroup  FilterGroup
}

// BuildJobs returns the pull request validation job and the main branch deployment job
func BuildJobs(config *Config) []BuildJob {
	return []BuildJob{
		{
			ResourceName: "pull-request",
			Name:         config.ResourcePrefix + "-pull-request",
			Description:  "Runs pulumi preview on database access pull requests",
			Buildspec:    config.PullRequestBuildspec,
			FilterGroup:  PullRequestFilterGroup(),
		},
		{
			ResourceName: "push",
			Name:         config.ResourcePrefix + "-push",
			Description:  "Runs pulumi up on database access pushes to " + config.MainBranch,
			Buildspec:    config.PushBuildspec,
			FilterGroup:  PushFilterGroup(config.MainBranch),
		},
	}
}

// projectArgs binds a job to the shared environment, source repository and service role
func projectArgs(job BuildJob, config *Config, serviceRoleArn pulumi.StringInput, gitCryptKey pulumi.StringInput, tags pulumi.StringMap) *codebuild.ProjectArgs {
	return &codebuild.ProjectArgs{
		Name:         pulumi.String(job.Name),
		Description:  pulumi.String(job.Description),
		ServiceRole:  serviceRoleArn,
		BadgeEnabled: pulumi.Bool(false),
		Cache: &codebuild.ProjectCacheArgs{
			Type: pulumi.String("NO_CACHE"),
		},
		Artifacts: &codebuild.ProjectArtifactsArgs{
			Type: pulumi.String("NO_ARTIFACTS"),
		},
		Environment: &codebuild.ProjectEnvironmentArgs{
			ComputeType: pulumi.String(config.ComputeType),
			Type:        pulumi.String(config.EnvironmentType),
			Image:       pulumi.String(config.BuildImage),
			EnvironmentVariables: codebuild.ProjectEnvironmentEnvironmentVariableArray{
				&codebuild.ProjectEnvironmentEnvironmentVariableArgs{
					Name:  pulumi.String(gitCryptKeyVariable),
					Value: gitCryptKey,
				},
			},
		},
		Source: &codebuild.ProjectSourceArgs{
			Type:              pulumi.String("GITHUB"),
			Location:          pulumi.String(config.RepositoryURL),
			Buildspec:         pulumi.String(job.Buildspec),
			GitCloneDepth:     pulumi.Int(1),
			ReportBuildStatus: pulumi.Bool(true),
		},
		Tags: tags,
	}
}
