package ci

import (
	"fmt"

	namer "github.com/davidmontoyago/commodity-namer"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/codebuild"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// CodeBuildPipeline represents the CodeBuild CI infrastructure components
type CodeBuildPipeline struct {
	pulumi.ResourceState
	namer.Namer

	AccountID         string
	ServiceRole       *iam.Role
	ServiceRolePolicy *iam.RolePolicy
	SourceCredential  *codebuild.SourceCredential

	PullRequestProject *codebuild.Project
	PullRequestWebhook *codebuild.Webhook
	PushProject        *codebuild.Project
	PushWebhook        *codebuild.Webhook

	config *Config
	tagger Tagger
}

// NewCodeBuildPipeline creates the CodeBuild projects, their service role and their GitHub webhooks
func NewCodeBuildPipeline(ctx *pulumi.Context, config *Config, opts ...pulumi.ResourceOption) (*CodeBuildPipeline, error) {
	pipeline := &CodeBuildPipeline{
		Namer:  namer.New(config.ResourcePrefix),
		config: config,
		tagger: config.Tagger(),
	}

	componentName := fmt.Sprintf("%s-codebuild", config.ResourcePrefix)

	err := ctx.RegisterComponentResource("database-access-deploy:ci:CodeBuildPipeline", componentName, pipeline, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to register component resource: %w", err)
	}

	err = pipeline.deploy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy component resources: %w", err)
	}

	err = ctx.RegisterResourceOutputs(pipeline, pulumi.Map{
		"serviceRoleArn":         pipeline.ServiceRole.Arn,
		"pullRequestProjectName": pipeline.PullRequestProject.Name,
		"pushProjectName":        pipeline.PushProject.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register component outputs: %w", err)
	}

	return pipeline, nil
}

func (p *CodeBuildPipeline) deploy(ctx *pulumi.Context) error {
	identity, err := aws.GetCallerIdentity(ctx, &aws.GetCallerIdentityArgs{})
	if err != nil {
		return fmt.Errorf("failed to get caller account ID: %w", err)
	}

	p.AccountID = identity.AccountId

	serviceRole, serviceRolePolicy, err := p.newServiceRole(ctx)
	if err != nil {
		return fmt.Errorf("failed to create CodeBuild service role: %w", err)
	}

	sourceCredential, err := codebuild.NewSourceCredential(ctx, p.NewResourceName("github", "credential", 63), &codebuild.SourceCredentialArgs{
		AuthType:   pulumi.String("PERSONAL_ACCESS_TOKEN"),
		ServerType: pulumi.String("GITHUB"),
		Token:      secretString(p.config.GithubToken),
	},
		pulumi.Parent(p),
		pulumi.Protect(p.config.ProtectResources),
	)
	if err != nil {
		return fmt.Errorf("failed to create GitHub source credential: %w", err)
	}

	p.ServiceRole = serviceRole
	p.ServiceRolePolicy = serviceRolePolicy
	p.SourceCredential = sourceCredential

	gitCryptKey := secretString(p.config.GitCryptKey)

	for _, job := range BuildJobs(p.config) {
		project, webhook, err := p.newBuildJob(ctx, job, gitCryptKey)
		if err != nil {
			return fmt.Errorf("failed to create %s build job: %w", job.ResourceName, err)
		}

		switch job.ResourceName {
		case "pull-request":
			p.PullRequestProject, p.PullRequestWebhook = project, webhook
		case "push":
			p.PushProject, p.PushWebhook = project, webhook
		}
	}

	return nil
}

// newServiceRole creates the role assumed by CodeBuild and attaches its inline policy
func (p *CodeBuildPipeline) newServiceRole(ctx *pulumi.Context) (*iam.Role, *iam.RolePolicy, error) {
	assumeRolePolicy, err := renderPolicyDocument(ctx, AssumeRoleStatements())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render assume role policy: %w", err)
	}

	role, err := iam.NewRole(ctx, p.NewResourceName("codebuild", "role", 63), &iam.RoleArgs{
		Name:                pulumi.String(p.config.ServiceRoleName),
		AssumeRolePolicy:    pulumi.String(assumeRolePolicy),
		ForceDetachPolicies: pulumi.Bool(true),
		Tags:                p.tagger.CreateTags(p.config.ServiceRoleName),
	},
		pulumi.Parent(p),
		pulumi.Protect(p.config.ProtectResources),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create IAM role: %w", err)
	}

	policy, err := renderPolicyDocument(ctx, ServiceRolePolicyStatements(p.AccountID, p.config))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render service role policy: %w", err)
	}

	rolePolicy, err := iam.NewRolePolicy(ctx, p.NewResourceName("codebuild", "role-policy", 63), &iam.RolePolicyArgs{
		Role:   role.Name,
		Policy: pulumi.String(policy),
	}, pulumi.Parent(role))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create IAM role policy: %w", err)
	}

	return role, rolePolicy, nil
}

// newBuildJob creates the CodeBuild project for a job and the webhook that triggers it
func (p *CodeBuildPipeline) newBuildJob(ctx *pulumi.Context, job BuildJob, gitCryptKey pulumi.StringInput) (*codebuild.Project, *codebuild.Webhook, error) {
	args := projectArgs(job, p.config, p.ServiceRole.Arn, gitCryptKey, p.tagger.CreateTags(job.Name))

	// The role must exist before CodeBuild validates that it can assume it
	project, err := codebuild.NewProject(ctx, p.NewResourceName(job.ResourceName, "project", 63), args,
		pulumi.Parent(p),
		pulumi.Protect(p.config.ProtectResources),
		pulumi.DependsOn([]pulumi.Resource{p.ServiceRole, p.ServiceRolePolicy}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create CodeBuild project: %w", err)
	}

	webhook, err := codebuild.NewWebhook(ctx, p.NewResourceName(job.ResourceName, "webhook", 63), &codebuild.WebhookArgs{
		ProjectName:  project.Name,
		FilterGroups: job.FilterGroup.Args(),
	},
		pulumi.Parent(project),
		pulumi.DependsOn([]pulumi.Resource{p.SourceCredential}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create CodeBuild webhook: %w", err)
	}

	return project, webhook, nil
}

func secretString(value string) pulumi.StringOutput {
	return pulumi.ToSecret(pulumi.String(value)).(pulumi.StringOutput)
}
