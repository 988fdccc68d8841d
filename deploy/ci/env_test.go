package ci_test

import (
	"os"
	"testing"

	"github.com/moj-analytical-services/data-engineering-database-access-deploy/deploy/ci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	config, err := ci.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test-git-crypt-key", config.GitCryptKey)
	assert.Equal(t, "test-github-token", config.GithubToken)
	assert.Equal(t, "alpha", config.EnvironmentName)
	assert.Equal(t, "database-access", config.ResourcePrefix)
	assert.Equal(t, "main", config.MainBranch)
	assert.Equal(t, "aws/codebuild/standard:5.0", config.BuildImage)
	assert.Equal(t, "BUILD_GENERAL1_SMALL", config.ComputeType)
	assert.Equal(t, "LINUX_CONTAINER", config.EnvironmentType)
	assert.Equal(t, []string{"alpha_user_", "alpha_app_"}, config.ManagedRolePrefixes)
	assert.Equal(t, "data-engineering-pulumi.analytics.justice.gov.uk", config.StateBucket)
	assert.False(t, config.ProtectResources)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAIN_BRANCH", "trunk")
	t.Setenv("MANAGED_ROLE_PREFIXES", "dev_user_")
	t.Setenv("PROTECT_RESOURCES", "true")

	config, err := ci.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "trunk", config.MainBranch)
	assert.Equal(t, []string{"dev_user_"}, config.ManagedRolePrefixes)
	assert.True(t, config.ProtectResources)
}

func TestLoadConfig_RequiresSecrets(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{
			name: "git crypt key unset",
			setup: func(t *testing.T) {
				require.NoError(t, os.Unsetenv("GIT_CRYPT_KEY"))
			},
		},
		{
			name: "github token unset",
			setup: func(t *testing.T) {
				require.NoError(t, os.Unsetenv("GITHUB_TOKEN"))
			},
		},
		{
			name: "github token empty",
			setup: func(t *testing.T) {
				t.Setenv("GITHUB_TOKEN", "")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			tt.setup(t)

			config, err := ci.LoadConfig()
			require.Error(t, err)
			assert.Nil(t, config)
		})
	}
}
