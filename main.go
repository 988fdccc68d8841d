package main

import (
	"log"

	"github.com/moj-analytical-services/data-engineering-database-access-deploy/deploy/ci"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// Load configuration from environment variables
		config, err := ci.LoadConfig()
		if err != nil {
			return err
		}

		log.Printf("Deploying to stack: %s", ctx.Stack())
		log.Printf("Environment: %s", config.EnvironmentName)

		pipeline, err := ci.NewCodeBuildPipeline(ctx, config)
		if err != nil {
			return err
		}

		ctx.Export("accountId", pulumi.String(pipeline.AccountID))
		ctx.Export("serviceRoleArn", pipeline.ServiceRole.Arn)
		ctx.Export("pullRequestProjectName", pipeline.PullRequestProject.Name)
		ctx.Export("pushProjectName", pipeline.PushProject.Name)
		ctx.Export("pullRequestWebhookUrl", pipeline.PullRequestWebhook.Url)
		ctx.Export("pushWebhookUrl", pipeline.PushWebhook.Url)

		log.Println("CodeBuild pipeline deployment loaded and ready!")
		return nil
	})
}
