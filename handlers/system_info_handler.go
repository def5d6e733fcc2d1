package handlers

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"modbot/model"
)

func SystemInfoHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	embed := &discordgo.MessageEmbed{
		Title:  "System information",
		Color:  0x5865F2, // Discord Blurple
		Fields: systemInfoFields(cpuCount, cpuPercent, vm, hostInfo),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("System monitor・today %s", time.Now().Format("15:04")),
		},
	}

	var dbSize int64
	if fi, err := os.Stat(b.GetConfig().DatabasePath); err == nil {
		dbSize = fi.Size()
	}
	var activeMutes int
	if err := b.GetDB().Get(&activeMutes, "SELECT COUNT(*) FROM mutes WHERE active = 1"); err != nil {
		log.WithError(err).Warn("Failed to count active mutes")
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "🗃️ Database size", Value: fmt.Sprintf("%.1f KB", float64(dbSize)/1024), Inline: true},
		&discordgo.MessageEmbedField{Name: "🔇 Active mutes", Value: fmt.Sprintf("%d", activeMutes), Inline: true},
		&discordgo.MessageEmbedField{Name: "⏱️ WebSocket latency", Value: s.HeartbeatLatency().String(), Inline: true},
		&discordgo.MessageEmbedField{Name: "🌍 Cached guilds", Value: fmt.Sprintf("%d", len(s.State.Guilds)), Inline: true},
	)

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// systemInfoFields tolerates missing readings; gopsutil returns nil on
// platforms it cannot inspect.
func systemInfoFields(cpuCount int, cpuPercent []float64, vm *mem.VirtualMemoryStat, hostInfo *host.InfoStat) []*discordgo.MessageEmbedField {
	osVersion, kernel := "unknown", "unknown"
	if hostInfo != nil {
		osVersion = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
		kernel = hostInfo.KernelVersion
	}
	cpuUsage := "unknown"
	if len(cpuPercent) > 0 {
		cpuUsage = fmt.Sprintf("%.1f%%", cpuPercent[0])
	}
	memory := "unknown"
	if vm != nil {
		memory = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}

	return []*discordgo.MessageEmbedField{
		{Name: "💻 OS version", Value: osVersion, Inline: true},
		{Name: "🔧 Kernel", Value: kernel, Inline: true},
		{Name: "🐹 Go version", Value: runtime.Version(), Inline: true},
		{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
		{Name: "🔥 CPU usage", Value: cpuUsage, Inline: true},
		{Name: "🧠 Memory", Value: memory, Inline: true},
		{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
	}
}
