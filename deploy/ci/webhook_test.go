package ci_test

import (
	"testing"

	"github.com/moj-analytical-services/data-engineering-database-access-deploy/deploy/ci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPullRequestFilterGroup_Matches(t *testing.T) {
	group := ci.PullRequestFilterGroup()

	tests := []struct {
		event string
		want  bool
	}{
		{ci.EventPullRequestCreated, true},
		{ci.EventPullRequestUpdated, true},
		{ci.EventPullRequestReopened, true},
		{ci.EventPullRequestMerged, false},
		{ci.EventPullRequestClosed, false},
		{ci.EventPush, false},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			matched, err := group.Matches(ci.Event{Type: tt.event, HeadRef: "refs/heads/feature"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, matched)
		})
	}
}

func TestPushFilterGroup_Matches(t *testing.T) {
	group := ci.PushFilterGroup("main")

	tests := []struct {
		name  string
		event ci.Event
		want  bool
	}{
		{"push to main", ci.Event{Type: ci.EventPush, HeadRef: "refs/heads/main"}, true},
		{"push to feature branch", ci.Event{Type: ci.EventPush, HeadRef: "refs/heads/feature"}, false},
		{"push to branch prefixed by main", ci.Event{Type: ci.EventPush, HeadRef: "refs/heads/main-old"}, false},
		{"push to nested branch", ci.Event{Type: ci.EventPush, HeadRef: "refs/heads/release/main"}, false},
		{"tag named main", ci.Event{Type: ci.EventPush, HeadRef: "refs/tags/main"}, false},
		{"pull request from main", ci.Event{Type: ci.EventPullRequestCreated, HeadRef: "refs/heads/main"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := group.Matches(tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, matched)
		})
	}
}

func TestFilterGroup_ExcludeMatchedPattern(t *testing.T) {
	group := ci.FilterGroup{
		{Type: ci.FilterTypeEvent, Pattern: ci.EventPush},
		{Type: ci.FilterTypeCommitMessage, Pattern: `\[skip ci\]`, ExcludeMatchedPattern: true},
	}

	matched, err := group.Matches(ci.Event{Type: ci.EventPush, CommitMessage: "fix grants"})
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = group.Matches(ci.Event{Type: ci.EventPush, CommitMessage: "docs [skip ci]"})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestFilterGroup_FilePath(t *testing.T) {
	group := ci.FilterGroup{
		{Type: ci.FilterTypeEvent, Pattern: ci.EventPush},
		{Type: ci.FilterTypeFilePath, Pattern: `^databases/`},
	}

	matched, err := group.Matches(ci.Event{Type: ci.EventPush, FilePaths: []string{"README.md", "databases/prod.yaml"}})
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = group.Matches(ci.Event{Type: ci.EventPush, FilePaths: []string{"README.md"}})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestFilterGroup_Errors(t *testing.T) {
	_, err := ci.FilterGroup{{Type: "UNKNOWN", Pattern: "x"}}.Matches(ci.Event{Type: ci.EventPush})
	assert.Error(t, err)

	_, err = ci.FilterGroup{{Type: ci.FilterTypeHeadRef, Pattern: "(["}}.Matches(ci.Event{HeadRef: "refs/heads/main"})
	assert.Error(t, err)

	matched, err := ci.FilterGroup{}.Matches(ci.Event{Type: ci.EventPush})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestBranchRefPattern(t *testing.T) {
	assert.Equal(t, "^refs/heads/main$", ci.BranchRefPattern("main"))
	assert.Equal(t, `^refs/heads/release\.1$`, ci.BranchRefPattern("release.1"))
}

func TestFilterGroup_Args(t *testing.T) {
	groups := ci.PushFilterGroup("main").Args()
	require.Len(t, groups, 1)
}
