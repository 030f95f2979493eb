package utils

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func TestMemberPermissions(t *testing.T) {
	guild := &discordgo.Guild{
		ID:      "g1",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "g1", Permissions: discordgo.PermissionSendMessages},
			{ID: "mod", Permissions: discordgo.PermissionKickMembers},
			{ID: "admin", Permissions: discordgo.PermissionAdministrator},
		},
	}

	tests := []struct {
		name   string
		member *discordgo.Member
		bit    int64
		want   bool
	}{
		{name: "everyone role applies", member: &discordgo.Member{User: &discordgo.User{ID: "u"}}, bit: discordgo.PermissionSendMessages, want: true},
		{name: "missing bit", member: &discordgo.Member{User: &discordgo.User{ID: "u"}}, bit: discordgo.PermissionKickMembers, want: false},
		{name: "role grants bit", member: &discordgo.Member{User: &discordgo.User{ID: "u"}, Roles: []string{"mod"}}, bit: discordgo.PermissionKickMembers, want: true},
		{name: "administrator implies all", member: &discordgo.Member{User: &discordgo.User{ID: "u"}, Roles: []string{"admin"}}, bit: discordgo.PermissionBanMembers, want: true},
		{name: "owner implies all", member: &discordgo.Member{User: &discordgo.User{ID: "owner"}}, bit: discordgo.PermissionManageRoles, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, HasPermission(MemberPermissions(guild, tt.member), tt.bit))
		})
	}

	require.Zero(t, MemberPermissions(nil, nil))
	require.True(t, HasRole(&discordgo.Member{Roles: []string{"a", "b"}}, "b"))
	require.False(t, HasRole(nil, "b"))
}
