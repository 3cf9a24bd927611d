package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/tournest/tournest-api/internal/models"
)

// DiscordRelay pushes outbox rows to the operations channel so the team can
// follow booking activity without opening the dashboard.
type DiscordRelay struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordRelay(botToken, channelID string) (*DiscordRelay, error) {
	if botToken == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	if channelID == "" {
		return nil, fmt.Errorf("discord channel ID is empty")
	}

	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	return &DiscordRelay{
		session:   session,
		channelID: channelID,
	}, nil
}

func (r *DiscordRelay) Send(n models.Notification) error {
	if r.session == nil {
		return fmt.Errorf("discord session is nil")
	}

	message := fmt.Sprintf("🔔 **%s**\n%s\n**User:** %d | **%s:** #%d",
		n.Title,
		n.Message,
		n.UserID,
		n.RelatedType,
		n.RelatedID,
	)

	_, err := r.session.ChannelMessageSend(r.channelID, message)
	return err
}
