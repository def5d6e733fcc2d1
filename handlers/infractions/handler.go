package infractions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"modbot/model"
	"modbot/moderation"
	"modbot/utils"
)

const (
	// PagePrefix prefixes the custom IDs of the list pagination buttons.
	PagePrefix = "infraction_page"
	kindAll    = "all"

	defaultStatsPeriod = 7 * 24 * time.Hour

	requestTimeout = 15 * time.Second
)

var log = logrus.WithField("module", "infractions")

func pageBounds(total, page int) (start, end, clamped, pages int) {
	return utils.PageBounds(total, pageSize, page)
}

func paginationComponents(page, pages int, kind string) []discordgo.MessageComponent {
	if kind == "" {
		kind = kindAll
	}
	return utils.CreatePaginationComponents(page, pages, PagePrefix, kind)
}

// HandleInfractionCommand dispatches the /infraction subcommands.
func HandleInfractionCommand(s *discordgo.Session, i *discordgo.InteractionCreate, ledger *moderation.Ledger) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	opts := utils.Options(sub.Options)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch sub.Name {
	case "detail":
		handleDetail(ctx, s, i, ledger, opts.Int("id", 0))
	case "reason":
		handleReason(ctx, s, i, ledger, opts.Int("id", 0), opts.String("reason"))
	case "delete":
		handleDelete(ctx, s, i, ledger, opts.Int("id", 0))
	case "list":
		handleList(ctx, s, i, ledger, opts.String("kind"), 1, false)
	case "user":
		handleUser(ctx, s, i, ledger, opts.UserID("user"))
	case "stats":
		handleStats(ctx, s, i, ledger, opts.String("period"))
	}
}

// HandleListPage serves the pagination buttons of /infraction list.
func HandleListPage(s *discordgo.Session, i *discordgo.InteractionCreate, ledger *moderation.Ledger) {
	page, args, err := utils.ParsePaginationID(i.MessageComponentData().CustomID)
	if err != nil {
		log.WithError(err).Debug("Ignoring pagination component")
		return
	}
	kind := kindAll
	if len(args) > 0 {
		kind = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	handleList(ctx, s, i, ledger, kind, page, true)
}

func handleDetail(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, ledger *moderation.Ledger, id int64) {
	inf, mute, err := ledger.Detail(ctx, id, i.GuildID)
	if err != nil {
		respondError(s, i, err)
		return
	}
	utils.SendEmbedResponse(s, i, buildDetailEmbed(inf, mute), nil)
}

func handleReason(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, ledger *moderation.Ledger, id int64, reason string) {
	inf, err := ledger.EditReason(ctx, id, i.GuildID, reason, utils.InvokerID(i))
	if err != nil {
		respondError(s, i, err)
		return
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Updated reason of infraction #%d", inf.ID),
		Description: reasonOrDefault(inf.Reason),
		Color:       colorInfo,
	}, nil)
}

func handleDelete(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, ledger *moderation.Ledger, id int64) {
	res, err := ledger.Delete(ctx, id, i.GuildID, utils.InvokerID(i))
	if err != nil {
		respondError(s, i, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Deleted infraction #%d", res.Infraction.ID),
		Description: fmt.Sprintf("%s for <@%s>: %s", kindTitle(res.Infraction.Kind), res.Infraction.UserID, reasonOrDefault(res.Infraction.Reason)),
		Color:       colorInfo,
	}
	if res.ReversedMute != nil {
		value := "The active mute was lifted."
		if res.ReversalErr != nil {
			value = "The mute was ended, but the mute role could not be removed: " + utils.DescribeError(res.ReversalErr)
			embed.Color = colorWarn
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Mute", Value: value})
	}
	utils.SendEmbedResponse(s, i, embed, nil)
}

func handleList(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, ledger *moderation.Ledger, kind string, page int, update bool) {
	var kinds []model.InfractionKind
	if kind != "" && kind != kindAll {
		k, err := model.ParseInfractionKind(kind)
		if err != nil {
			utils.SendErrorResponse(s, i, err.Error())
			return
		}
		kinds = append(kinds, k)
	}

	infs, err := ledger.List(ctx, i.GuildID, kinds...)
	if err != nil {
		respondError(s, i, err)
		return
	}
	embed, comps := buildListEmbed(infs, page, kind)
	if update {
		utils.UpdateEmbedResponse(s, i, embed, comps)
		return
	}
	utils.SendEmbedResponse(s, i, embed, comps)
}

func handleUser(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, ledger *moderation.Ledger, userID string) {
	groups, err := ledger.ListByUser(ctx, i.GuildID, userID)
	if err != nil {
		respondError(s, i, err)
		return
	}
	utils.SendEmbedResponse(s, i, buildUserEmbed(userID, groups), nil)
}

func handleStats(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, ledger *moderation.Ledger, period string) {
	window := defaultStatsPeriod
	if period != "" {
		d, err := utils.ParseDuration(period)
		if err != nil || d <= 0 {
			utils.SendErrorResponse(s, i, "Invalid period, use something like `7d` or `1w`.")
			return
		}
		window = d
	}
	stats, total, err := ledger.Stats(ctx, i.GuildID, time.Now().Add(-window))
	if err != nil {
		respondError(s, i, err)
		return
	}
	utils.SendEmbedResponse(s, i, buildStatsEmbed(window, stats, total), nil)
}

func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	if !errors.Is(err, moderation.ErrNotFound) {
		log.WithError(err).WithField("guild_id", i.GuildID).Error("Infraction command failed")
	}
	utils.SendErrorResponse(s, i, utils.DescribeError(err))
}
