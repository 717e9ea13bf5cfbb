package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// ensureRole finds the named role in the guild, creating it if absent, and
// returns its ID.
func ensureRole(s *discordgo.Session, guildID, roleName string) (string, error) {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return "", fmt.Errorf("failed to list roles: %w", err)
	}

	for _, role := range roles {
		if role.Name == roleName {
			return role.ID, nil
		}
	}

	created, err := s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: roleName})
	if err != nil {
		return "", fmt.Errorf("failed to create role %q: %w", roleName, err)
	}
	return created.ID, nil
}

// findRole returns the named role's ID without creating it, or "" if absent.
func findRole(s *discordgo.Session, guildID, roleName string) (string, error) {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return "", fmt.Errorf("failed to list roles: %w", err)
	}
	for _, role := range roles {
		if role.Name == roleName {
			return role.ID, nil
		}
	}
	return "", nil
}

// grantRole gives a member the named role, creating the role if needed.
func grantRole(s *discordgo.Session, guildID, userID, roleName string) error {
	roleID, err := ensureRole(s, guildID, roleName)
	if err != nil {
		return err
	}
	return s.GuildMemberRoleAdd(guildID, userID, roleID)
}

// removeRole takes the named role from a member; a missing role is a no-op.
func removeRole(s *discordgo.Session, guildID, userID, roleName string) error {
	roleID, err := findRole(s, guildID, roleName)
	if err != nil {
		return err
	}
	if roleID == "" {
		return nil
	}
	return s.GuildMemberRoleRemove(guildID, userID, roleID)
}

// setNickname changes a member's guild nickname. This fails on members who
// outrank the bot, most notably the guild owner; callers treat it as cosmetic.
func setNickname(s *discordgo.Session, guildID, userID, nick string) error {
	return s.GuildMemberNickname(guildID, userID, nick)
}

// memberDisplayName returns the name shown in the guild for a member.
func memberDisplayName(m *discordgo.Member) string {
	if m == nil || m.User == nil {
		return ""
	}
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}
