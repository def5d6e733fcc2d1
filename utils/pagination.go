package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// CreatePaginationComponents creates a set of pagination buttons. Custom IDs
// have the form prefix:page[:arg...].
func CreatePaginationComponents(currentPage, totalPages int, customIDPrefix string, args ...string) []discordgo.MessageComponent {
	if totalPages <= 1 {
		return nil
	}

	buttonArgs := ""
	for _, arg := range args {
		buttonArgs += ":" + arg
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Style:    discordgo.PrimaryButton,
					Disabled: currentPage == 1,
					CustomID: fmt.Sprintf("%s:%d%s", customIDPrefix, currentPage-1, buttonArgs),
				},
				discordgo.Button{
					Label:    fmt.Sprintf("%d / %d", currentPage, totalPages),
					Style:    discordgo.SecondaryButton,
					Disabled: true,
					CustomID: customIDPrefix + ":current",
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.PrimaryButton,
					Disabled: currentPage == totalPages,
					CustomID: fmt.Sprintf("%s:%d%s", customIDPrefix, currentPage+1, buttonArgs),
				},
			},
		},
	}
}

// ParsePaginationID splits a custom ID built by CreatePaginationComponents.
func ParsePaginationID(customID string) (page int, args []string, err error) {
	parts := strings.Split(customID, ":")
	if len(parts) < 2 {
		return 0, nil, fmt.Errorf("malformed pagination id %q", customID)
	}
	page, err = strconv.Atoi(parts[1])
	if err != nil || page < 1 {
		return 0, nil, fmt.Errorf("malformed page in %q", customID)
	}
	return page, parts[2:], nil
}

// PageBounds returns the slice bounds of page (1-based) and the page count.
// page is clamped into range.
func PageBounds(total, pageSize, page int) (start, end, clamped, pages int) {
	pages = (total + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start = (page - 1) * pageSize
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end, page, pages
}
