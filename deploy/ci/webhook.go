package ci

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/codebuild"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// Webhook filter types understood by CodeBuild
const (
	FilterTypeEvent          = "EVENT"
	FilterTypeHeadRef        = "HEAD_REF"
	FilterTypeBaseRef        = "BASE_REF"
	FilterTypeActorAccountID = "ACTOR_ACCOUNT_ID"
	FilterTypeFilePath       = "FILE_PATH"
	FilterTypeCommitMessage  = "COMMIT_MESSAGE"
)

// GitHub webhook events understood by CodeBuild
const (
	EventPush                = "PUSH"
	EventPullRequestCreated  = "PULL_REQUEST_CREATED"
	EventPullRequestUpdated  = "PULL_REQUEST_UPDATED"
	EventPullRequestReopened = "PULL_REQUEST_REOPENED"
	EventPullRequestMerged   = "PULL_REQUEST_MERGED"
	EventPullRequestClosed   = "PULL_REQUEST_CLOSED"
)

// Filter is a single webhook filter condition
type Filter struct {
	Type                  string
	Pattern               string
	ExcludeMatchedPattern bool
}

// FilterGroup triggers a build when every one of its filters matches
type FilterGroup []Filter

// Event is the part of a webhook delivery that filters are evaluated against
type Event struct {
	Type           string
	HeadRef        string
	BaseRef        string
	ActorAccountID string
	CommitMessage  string
	FilePaths      []string
}

// PullRequestFilterGroup matches pull requests being opened, updated or reopened
func PullRequestFilterGroup() FilterGroup {
	return FilterGroup{
		{
			Type: FilterTypeEvent,
			Pattern: strings.Join([]string{
				EventPullRequestCreated,
				EventPullRequestUpdated,
				EventPullRequestReopened,
			}, ","),
		},
	}
}

// PushFilterGroup matches pushes to the given branch only
func PushFilterGroup(branch string) FilterGroup {
	return FilterGroup{
		{Type: FilterTypeEvent, Pattern: EventPush},
		{Type: FilterTypeHeadRef, Pattern: BranchRefPattern(branch)},
	}
}

// BranchRefPattern returns an anchored pattern matching exactly the branch ref
func BranchRefPattern(branch string) string {
	return fmt.Sprintf("^refs/heads/%s$", regexp.QuoteMeta(branch))
}

// Matches reports whether the event would trigger a build
func (g FilterGroup) Matches(event Event) (bool, error) {
	if len(g) == 0 {
		return false, nil
	}

	for _, filter := range g {
		matched, err := filter.matches(event)
		if err != nil {
			return false, err
		}

		if matched == filter.ExcludeMatchedPattern {
			return false, nil
		}
	}

	return true, nil
}

func (f Filter) matches(event Event) (bool, error) {
	switch f.Type {
	case FilterTypeEvent:
		return slices.Contains(strings.Split(f.Pattern, ","), event.Type), nil
	case FilterTypeHeadRef:
		return matchPattern(f.Pattern, event.HeadRef)
	case FilterTypeBaseRef:
		return matchPattern(f.Pattern, event.BaseRef)
	case FilterTypeActorAccountID:
		return matchPattern(f.Pattern, event.ActorAccountID)
	case FilterTypeCommitMessage:
		return matchPattern(f.Pattern, event.CommitMessage)
	case FilterTypeFilePath:
		for _, path := range event.FilePaths {
			matched, err := matchPattern(f.Pattern, path)
			if err != nil || matched {
				return matched, err
			}
		}

		return false, nil
	default:
		return false, fmt.Errorf("unsupported webhook filter type %q", f.Type)
	}
}

func matchPattern(pattern, value string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid webhook filter pattern %q: %w", pattern, err)
	}

	return re.MatchString(value), nil
}

// Args converts the group to the provider's webhook filter groups
func (g FilterGroup) Args() codebuild.WebhookFilterGroupArray {
	filters := make(codebuild.WebhookFilterGroupFilterArray, 0, len(g))

	for _, filter := range g {
		args := &codebuild.WebhookFilterGroupFilterArgs{
			Type:    pulumi.String(filter.Type),
			Pattern: pulumi.String(filter.Pattern),
		}
		if filter.ExcludeMatchedPattern {
			args.ExcludeMatchedPattern = pulumi.Bool(true)
		}

		filters = append(filters, args)
	}

	return codebuild.WebhookFilterGroupArray{
		&codebuild.WebhookFilterGroupArgs{
			Filters: filters,
		},
	}
}
