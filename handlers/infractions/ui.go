package infractions

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"modbot/model"
)

const (
	pageSize       = 10
	colorInfo      = 0x3498DB
	colorWarn      = 0xE67E22
	maxReasonChars = 60
)

func kindTitle(kind model.InfractionKind) string {
	if kind == "" {
		return ""
	}
	return strings.ToUpper(string(kind[:1])) + string(kind[1:])
}

func timestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return "no reason specified"
	}
	return reason
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// buildDetailEmbed shows one infraction. mute is the active mute of a mute
// infraction, or nil.
func buildDetailEmbed(inf *model.Infraction, mute *model.Mute) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Infraction #%d", inf.ID),
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s> (`%s`)", inf.UserID, inf.UserID), Inline: true},
			{Name: "Moderator", Value: fmt.Sprintf("<@%s>", inf.ModeratorID), Inline: true},
			{Name: "Type", Value: kindTitle(inf.Kind), Inline: true},
			{Name: "Created", Value: timestamp(inf.Created(), "f"), Inline: true},
			{Name: "Reason", Value: reasonOrDefault(inf.Reason)},
		},
	}
	if edited, ok := inf.Edited(); ok {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Last edited", Value: timestamp(edited, "f"), Inline: true,
		})
	}
	if inf.Kind == model.KindMute {
		status := "Inactive"
		if mute != nil {
			status = "Active, expires " + timestamp(mute.ExpiresAt(), "R")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Mute", Value: status, Inline: true})
	}
	return embed
}

func formatLine(inf *model.Infraction, withUser bool) string {
	line := fmt.Sprintf("`#%d` %s", inf.ID, timestamp(inf.Created(), "d"))
	if withUser {
		line += fmt.Sprintf(" **%s** <@%s>", kindTitle(inf.Kind), inf.UserID)
	}
	return line + ": " + truncate(reasonOrDefault(inf.Reason), maxReasonChars)
}

// buildListEmbed renders one page of a guild's infractions.
func buildListEmbed(infs []model.Infraction, page int, kind string) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	start, end, page, pages := pageBounds(len(infs), page)

	title := "Recent infractions"
	if kind != "" && kind != kindAll {
		title = fmt.Sprintf("Recent infractions (%s)", kind)
	}
	embed := &discordgo.MessageEmbed{Title: title, Color: colorInfo}

	if len(infs) == 0 {
		embed.Description = "No infractions found."
		return embed, nil
	}

	lines := make([]string, 0, end-start)
	for idx := start; idx < end; idx++ {
		lines = append(lines, formatLine(&infs[idx], true))
	}
	embed.Description = strings.Join(lines, "\n")
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("%d infractions, page %d of %d", len(infs), page, pages),
	}
	return embed, paginationComponents(page, pages, kind)
}

// buildUserEmbed renders a user's infractions grouped by kind.
func buildUserEmbed(userID string, groups []model.InfractionGroup) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Infractions of user `%s`", userID),
		Color: colorInfo,
	}
	newest, total := model.MostRecent(groups)
	if newest == nil {
		embed.Description = fmt.Sprintf("<@%s> has no recorded infractions.", userID)
		return embed
	}

	embed.Description = fmt.Sprintf("<@%s> has %d infractions, the most recent was %s (%s).",
		userID, total, timestamp(newest.Created(), "R"), newest.Kind)
	if total > 3 {
		embed.Color = colorWarn
	}
	for _, group := range groups {
		lines := make([]string, 0, len(group.Infractions))
		for idx := range group.Infractions {
			if idx == 5 {
				lines = append(lines, fmt.Sprintf("… and %d more", len(group.Infractions)-5))
				break
			}
			lines = append(lines, formatLine(&group.Infractions[idx], false))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%ss (%d)", kindTitle(group.Kind), len(group.Infractions)),
			Value: strings.Join(lines, "\n"),
		})
	}
	return embed
}

// buildStatsEmbed ranks moderators by infraction count over window.
func buildStatsEmbed(window time.Duration, stats []model.ModeratorCount, total int) *discordgo.MessageEmbed {
	var b strings.Builder
	fmt.Fprintf(&b, "### Infractions in the past %s\n", formatWindow(window))
	fmt.Fprintf(&b, "**Total: %d**\n\n", total)
	if len(stats) == 0 {
		b.WriteString("No infractions in this period.")
	}
	for i, st := range stats {
		fmt.Fprintf(&b, "%d. <@%s>: %d\n", i+1, st.ModeratorID, st.Count)
	}
	return &discordgo.MessageEmbed{
		Title:       "Moderator leaderboard",
		Description: b.String(),
		Color:       colorInfo,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func formatWindow(d time.Duration) string {
	if d%(24*time.Hour) == 0 {
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "day"
		}
		return fmt.Sprintf("%d days", days)
	}
	return d.String()
}
