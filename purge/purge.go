package purge

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const (
	// MaxScan is the largest number of messages a single purge looks at.
	MaxScan  = 1000
	pageSize = 100
	// Discord refuses to bulk delete messages older than two weeks.
	bulkMaxAge = 14 * 24 * time.Hour
)

var log = logrus.WithField("module", "purge")

// Channel is the part of *discordgo.Session used to purge messages.
type Channel interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Filter selects the messages to delete.
type Filter func(*discordgo.Message) bool

func All(*discordgo.Message) bool { return true }

// ByAuthors matches messages sent by any of the given user IDs.
func ByAuthors(ids ...string) Filter {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(m *discordgo.Message) bool {
		if m.Author == nil {
			return false
		}
		_, ok := set[m.Author.ID]
		return ok
	}
}

// Containing matches messages whose content contains text.
func Containing(text string) Filter {
	return func(m *discordgo.Message) bool {
		return strings.Contains(m.Content, text)
	}
}

// Purge looks at up to limit of the most recent messages in channelID and
// deletes those matching match. Recent messages are bulk deleted, older ones
// one by one. It returns how many messages were deleted.
func Purge(ctx context.Context, ch Channel, channelID string, limit int, match Filter) (int, error) {
	if limit <= 0 {
		return 0, nil
	}
	if limit > MaxScan {
		limit = MaxScan
	}
	now := time.Now()
	opt := discordgo.WithContext(ctx)

	var recent, old []string
	before := ""
	for scanned := 0; scanned < limit; {
		n := min(pageSize, limit-scanned)
		messages, err := ch.ChannelMessages(channelID, n, before, "", "", opt)
		if err != nil {
			return 0, fmt.Errorf("error fetching messages for channel %s: %w", channelID, err)
		}
		if len(messages) == 0 {
			break
		}
		scanned += len(messages)
		// Messages are returned newest first.
		before = messages[len(messages)-1].ID
		for _, msg := range messages {
			if msg.ID == "" || !match(msg) {
				continue
			}
			if now.Sub(msg.Timestamp) < bulkMaxAge {
				recent = append(recent, msg.ID)
			} else {
				old = append(old, msg.ID)
			}
		}
		if len(messages) < n {
			break
		}
	}

	deleted := 0
	for start := 0; start < len(recent); start += pageSize {
		chunk := recent[start:min(start+pageSize, len(recent))]
		if len(chunk) == 1 {
			old = append(old, chunk[0])
			continue
		}
		if err := ch.ChannelMessagesBulkDelete(channelID, chunk, opt); err != nil {
			return deleted, fmt.Errorf("error bulk deleting messages in channel %s: %w", channelID, err)
		}
		deleted += len(chunk)
	}
	for _, id := range old {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if err := ch.ChannelMessageDelete(channelID, id, opt); err != nil {
			return deleted, fmt.Errorf("error deleting message %s in channel %s: %w", id, channelID, err)
		}
		deleted++
	}

	log.WithFields(logrus.Fields{"channel_id": channelID, "deleted": deleted}).Info("Purged messages")
	return deleted, nil
}

// ParseIDs splits a list of user IDs separated by spaces or commas. Duplicates
// are dropped.
func ParseIDs(s string) ([]string, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("you need to specify at least one ID to purge")
	}
	seen := make(map[string]struct{}, len(fields))
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, err := strconv.ParseUint(f, 10, 64); err != nil {
			return nil, fmt.Errorf("%q is not a valid ID", f)
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		ids = append(ids, f)
	}
	return ids, nil
}
