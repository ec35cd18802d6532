package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/disgo/webhook"
	"github.com/velvetradio/backstage/backstage/events"
)

type Config struct {
	Enabled    bool   `toml:"enabled"`
	WebhookURL string `toml:"webhook_url"`
}

var embedColors = map[events.Type]int{
	events.TypeLevelUp:    0x57F287,
	events.TypeRenewal:    0x5865F2,
	events.TypeChartEntry: 0xFEE75C,
}

// Discord forwards engine events to a Discord channel webhook. Only
// milestone event types are forwarded; the rest stay in the feed.
type Discord struct {
	client webhook.Client
}

func NewDiscord(cfg Config) (*Discord, error) {
	client, err := webhook.NewWithURL(cfg.WebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook client: %w", err)
	}
	return &Discord{client: client}, nil
}

// Emit posts milestone events as embeds. Non-milestone types are
// silently skipped.
func (d *Discord) Emit(ctx context.Context, event events.Event) error {
	color, ok := embedColors[event.Type]
	if !ok {
		return nil
	}

	embed := discord.Embed{
		Title:       string(event.Type),
		Description: event.Message,
		Color:       color,
		Timestamp:   &event.CreatedAt,
	}
	for key, value := range event.Fields {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name:  key,
			Value: fmt.Sprintf("%v", value),
		})
	}

	if _, err := d.client.CreateMessage(discord.WebhookMessageCreate{
		Embeds: []discord.Embed{embed},
	}, rest.WithCtx(ctx)); err != nil {
		slog.Error("Failed to forward event to Discord",
			slog.String("type", "sys"),
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
		return err
	}
	return nil
}

func (d *Discord) Close(ctx context.Context) {
	d.client.Close(ctx)
}
