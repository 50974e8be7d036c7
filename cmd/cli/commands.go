package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var (
	dryRun bool
	period string
	limit  int
	role   string
)

func init() {
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without changing it")
	leaderboardCmd.Flags().StringVar(&period, "period", "overall", "overall, season, month or week")
	commentaryCmd.Flags().IntVar(&limit, "limit", 20, "Number of lines, newest first")
	usersCmd.Flags().StringVar(&role, "role", "", "player, coach, admin, academy or tournament")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(tournamentsCmd)
	rootCmd.AddCommand(pointsTableCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(commentaryCmd)
	rootCmd.AddCommand(liveCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the lifetime activity counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/activity")
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run one tournament lifecycle pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/process"
		if dryRun {
			endpoint += "?dry_run=true"
		}
		return performRequest(http.MethodPost, endpoint)
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List user profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/api/users"
		if role != "" {
			endpoint += "?role=" + url.QueryEscape(role)
		}
		return performGetRequest(endpoint)
	},
}

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "List tournaments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/tournaments")
	},
}

var pointsTableCmd = &cobra.Command{
	Use:   "points-table <tournament-id>",
	Short: "Show a tournament's points table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/tournaments/" + url.PathEscape(args[0]) + "/points-table")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <runs|wickets|average|strike-rate|economy|catches>",
	Short: "Show a player leaderboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/leaderboards/" + url.PathEscape(args[0]) + "?period=" + url.QueryEscape(period))
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <match-id>",
	Short: "Show the live score of a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/matches/" + url.PathEscape(args[0]) + "/score")
	},
}

var commentaryCmd = &cobra.Command{
	Use:   "commentary <match-id>",
	Short: "Show recent ball-by-ball commentary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(fmt.Sprintf("/api/matches/%s/commentary?limit=%d", url.PathEscape(args[0]), limit))
	},
}

var liveCmd = &cobra.Command{
	Use:   "live <match-id>",
	Short: "Follow a match as it is played",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return followMatch(args[0])
	},
}

func performGetRequest(endpoint string) error {
	return performRequest(http.MethodGet, endpoint)
}

func performRequest(method, endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

// followMatch prints every frame of the live stream until interrupted or the
// server closes it.
func followMatch(matchID string) error {
	wsURL := "ws" + strings.TrimPrefix(host, "http") + "/api/matches/" + url.PathEscape(matchID) + "/live"
	fmt.Printf("Connecting to %s\n", wsURL)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to connect (status %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
		conn.Close()
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			if ce, ok := err.(*websocket.CloseError); ok {
				return fmt.Errorf("stream closed by server: %s", ce.Text)
			}
			return nil
		}
		fmt.Println(string(frame))
	}
}
