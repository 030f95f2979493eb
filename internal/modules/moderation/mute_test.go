package moderation

import (
	"testing"

	"femb-paradise/internal/platform/platformtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMuteCreatesRoleOnce(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	fake.AddChannel(&discordgo.Channel{ID: "c1", Name: "general"})
	fake.AddChannel(&discordgo.Channel{ID: "c2", Name: "memes"})
	muter := NewMuter(fake, zap.NewNop())

	require.NoError(t, muter.Mute("g1", "u1"))
	require.NoError(t, muter.Mute("g1", "u1"))

	role := fake.RoleByName(MutedRoleName)
	require.NotNil(t, role)
	require.Len(t, fake.Permissions, 2)
	for _, set := range fake.Permissions {
		require.Equal(t, role.ID, set.TargetID)
		require.Equal(t, int64(MutedDeny), set.Deny)
		require.Equal(t, discordgo.PermissionOverwriteTypeRole, set.TargetType)
	}
	require.Equal(t, []string{"u1:" + role.ID, "u1:" + role.ID}, fake.RoleGrants)
}

func TestUnmute(t *testing.T) {
	fake := platformtest.New("g1", "bot")
	muter := NewMuter(fake, zap.NewNop())

	found, err := muter.Unmute("g1", "u1")
	require.NoError(t, err)
	require.False(t, found)

	role := fake.AddRole(&discordgo.Role{Name: MutedRoleName})
	found, err = muter.Unmute("g1", "u1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"u1:" + role.ID}, fake.RoleRevokes)
}
