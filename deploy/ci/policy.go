package ci

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const (
	codeBuildServicePrincipal = "codebuild.amazonaws.com"
	policyEffectAllow         = "Allow"
)

// AssumeRoleStatements allows the CodeBuild service, and nothing else, to assume the service role
func AssumeRoleStatements() []iam.GetPolicyDocumentStatement {
	return []iam.GetPolicyDocumentStatement{
		{
			Actions: []string{"sts:AssumeRole"},
			Effect:  pulumi.StringRef(policyEffectAllow),
			Principals: []iam.GetPolicyDocumentStatementPrincipal{
				{
					Type:        "Service",
					Identifiers: []string{codeBuildServicePrincipal},
				},
			},
		},
	}
}

// ManagedRoleARNs returns one role ARN pattern per prefix, scoped to the account
func ManagedRoleARNs(accountID string, prefixes []string) []string {
	arns := make([]string, 0, len(prefixes))

	for _, prefix := range prefixes {
		arns = append(arns, fmt.Sprintf("arn:aws:iam::%s:role/%s*", accountID, prefix))
	}

	return arns
}

// BucketARNs returns the ARNs of a bucket and of every object in it
func BucketARNs(bucket string) []string {
	return []string{
		fmt.Sprintf("arn:aws:s3:::%s", bucket),
		fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
	}
}

// ServiceRolePolicyStatements returns the inline permissions of the CodeBuild service role
func ServiceRolePolicyStatements(accountID string, config *Config) []iam.GetPolicyDocumentStatement {
	return []iam.GetPolicyDocumentStatement{
		{
			// iam:* on the managed prefixes only; the builds create and delete user and app roles
			Sid:       pulumi.StringRef("IamPolicy"),
			Actions:   []string{"iam:*"},
			Effect:    pulumi.StringRef(policyEffectAllow),
			Resources: ManagedRoleARNs(accountID, config.ManagedRolePrefixes),
		},
		{
			Sid: pulumi.StringRef("CloudWatchLogsPolicy"),
			Actions: []string{
				"logs:CreateLogGroup",
				"logs:CreateLogStream",
				"logs:PutLogEvents",
			},
			Effect:    pulumi.StringRef(policyEffectAllow),
			Resources: []string{"*"},
		},
		{
			Sid:       pulumi.StringRef("S3Policy"),
			Actions:   []string{"s3:*"},
			Effect:    pulumi.StringRef(policyEffectAllow),
			Resources: BucketARNs(config.StateBucket),
		},
	}
}

// renderPolicyDocument renders statements to a policy JSON document through the provider
func renderPolicyDocument(ctx *pulumi.Context, statements []iam.GetPolicyDocumentStatement, opts ...pulumi.InvokeOption) (string, error) {
	document, err := iam.GetPolicyDocument(ctx, &iam.GetPolicyDocumentArgs{
		Statements: statements,
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to render policy document: %w", err)
	}

	return document.Json, nil
}
