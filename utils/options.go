package utils

import "github.com/bwmarrin/discordgo"

type OptionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

// Options indexes interaction options by name.
func Options(options []*discordgo.ApplicationCommandInteractionDataOption) OptionMap {
	optionMap := make(OptionMap, len(options))
	for _, opt := range options {
		optionMap[opt.Name] = opt
	}
	return optionMap
}

// String returns the option's string value or "" if it was not given.
func (m OptionMap) String(name string) string {
	if opt, ok := m[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// Int returns the option's integer value or def if it was not given.
func (m OptionMap) Int(name string, def int64) int64 {
	if opt, ok := m[name]; ok {
		return opt.IntValue()
	}
	return def
}

// UserID returns the ID of a user option without resolving it.
func (m OptionMap) UserID(name string) string {
	if opt, ok := m[name]; ok {
		if id, ok := opt.Value.(string); ok {
			return id
		}
	}
	return ""
}

// RoleID returns the ID of a role option without resolving it.
func (m OptionMap) RoleID(name string) string {
	return m.UserID(name)
}

// InvokerID returns the ID of the user who triggered the interaction.
func InvokerID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
