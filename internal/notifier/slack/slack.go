package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/notifier"
	"github.com/mauv0809/cricket-hub/internal/tournament"
	"github.com/slack-go/slack"
)

// slackClient is the part of slack.Client we use, so tests can stub it.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts tournament announcements to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	// forceDryRun is set when no token is configured.
	forceDryRun bool
}

// NewNotifier creates a Notifier. Without a token every message is logged
// instead of posted.
func NewNotifier(token, channelID string, m metrics.Metrics) *Notifier {
	if token == "" {
		log.Warn("No Slack token configured, notifications run in dry-run mode")
		return &Notifier{channelID: channelID, metrics: m, forceDryRun: true}
	}
	return &Notifier{api: slack.New(token), channelID: channelID, metrics: m}
}

// NewNotifierWithAPI creates a Notifier with a specific client. Useful for
// tests that intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, m metrics.Metrics) *Notifier {
	return &Notifier{api: api, channelID: channelID, metrics: m}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.forceDryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncNotificationsFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotificationsSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendFixtureResult(ctx context.Context, t *tournament.Tournament, f *tournament.Fixture, dryRun bool) error {
	if f.Result == nil {
		return fmt.Errorf("fixture %s has no result", f.ID)
	}
	_, _, err := s.sendMessage(ctx, formatFixtureResult(t, f), dryRun)
	return err
}

func (s *Notifier) SendPointsTable(ctx context.Context, t *tournament.Tournament, table *tournament.PointsTable, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatPointsTable(t, table), dryRun)
	return err
}

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, true, false)
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func formatFixtureResult(t *tournament.Tournament, f *tournament.Fixture) slack.Message {
	r := f.Result
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain("🏏 Match result 🏏")),
		slack.NewSectionBlock(markdown(fmt.Sprintf("*%s* · Match %d (%s)", t.Name, f.MatchNumber, f.Round)), nil, nil),
	}

	scores := fmt.Sprintf("%s  %s (%.1f ov)\n%s  %s (%.1f ov)",
		f.Team1Name, r.Team1Score(), r.Team1Overs,
		f.Team2Name, r.Team2Score(), r.Team2Overs)
	blocks = append(blocks, slack.NewSectionBlock(plain(scores), nil, nil))

	var outcome string
	switch r.ResultType {
	case tournament.ResultTie:
		outcome = "Match tied"
	case tournament.ResultNoResult:
		outcome = "No result"
	default:
		outcome = fmt.Sprintf("🏆 %s won", r.WinnerName)
	}
	blocks = append(blocks, slack.NewSectionBlock(markdown("*"+outcome+"*"), nil, nil))

	var details []slack.MixedElement
	if f.Venue != "" {
		details = append(details, plain("📍 "+f.Venue))
	}
	if r.ManOfTheMatch != "" {
		details = append(details, plain("⭐ Player of the match: "+r.ManOfTheMatch))
	}
	if len(details) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", details...))
	}
	return slack.NewBlockMessage(blocks...)
}

func formatPointsTable(t *tournament.Tournament, table *tournament.PointsTable) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain(fmt.Sprintf("📊 %s standings", t.Name))),
	}
	if table == nil || table.NoData || len(table.Standings) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(plain("No completed fixtures yet."), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var sb strings.Builder
	sb.WriteString("```\n")
	sb.WriteString(fmt.Sprintf("%-3s %-20s %3s %3s %3s %4s %7s\n", "#", "Team", "P", "W", "L", "Pts", "NRR"))
	for _, row := range table.Standings {
		sb.WriteString(fmt.Sprintf("%-3d %-20s %3d %3d %3d %4d %+7.3f%s\n",
			row.Position, truncate(row.TeamName, 20), row.Played, row.Won, row.Lost, row.Points, row.NetRunRate, movement(row.Change)))
	}
	sb.WriteString("```")
	blocks = append(blocks, slack.NewSectionBlock(markdown(sb.String()), nil, nil))
	blocks = append(blocks, slack.NewContextBlock("", plain("Updated "+table.UpdatedAt.Format("Monday 02 Jan, 15:04"))))
	return slack.NewBlockMessage(blocks...)
}

func movement(change int) string {
	switch {
	case change > 0:
		return fmt.Sprintf(" ▲%d", change)
	case change < 0:
		return fmt.Sprintf(" ▼%d", -change)
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
