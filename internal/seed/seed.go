// Package seed loads a small, consistent demo data set: the user profiles
// behind it, one academy, one coached team, a four-team T20 tournament with two results, player
// scorecards for those results and a live match with a few deliveries.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/academy"
	"github.com/mauv0809/cricket-hub/internal/coach"
	"github.com/mauv0809/cricket-hub/internal/matchcenter"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/stats"
	"github.com/mauv0809/cricket-hub/internal/tournament"
	"github.com/mauv0809/cricket-hub/internal/user"
)

// Services are the domain services the seeder writes through, so seeded
// records pass the same validation as API writes.
type Services struct {
	Academy     academy.AcademyService
	Coach       coach.CoachService
	Tournament  tournament.TournamentService
	Player      player.PlayerService
	MatchCenter matchcenter.MatchCenterService
	User        user.UserService
}

type Report struct {
	Skipped      bool   `json:"skipped"`
	OwnerID      string `json:"owner_id,omitempty"`
	CoachID      string `json:"coach_id,omitempty"`
	OrganizerID  string `json:"organizer_id,omitempty"`
	AcademyID    string `json:"academy_id,omitempty"`
	TeamID       string `json:"team_id,omitempty"`
	TournamentID string `json:"tournament_id,omitempty"`
	Fixtures     int    `json:"fixtures"`
	Scorecards   int    `json:"scorecards"`
	MatchID      string `json:"match_id,omitempty"`
	Deliveries   int    `json:"deliveries"`
}

var sides = []tournament.TeamRegistration{
	{TeamID: "royal-strikers", TeamName: "Royal Strikers"},
	{TeamID: "kings-xi", TeamName: "Kings XI"},
	{TeamID: "super-giants", TeamName: "Super Giants"},
	{TeamID: "thunder-bolts", TeamName: "Thunder Bolts"},
}

// Run seeds once. If any tournament exists the database is left alone.
func Run(ctx context.Context, svc Services, now time.Time) (Report, error) {
	existing, err := svc.Tournament.GetAllTournaments(ctx)
	if err != nil {
		return Report{}, err
	}
	if len(existing) > 0 {
		log.Info("Database already has data, skipping seed", "tournaments", len(existing))
		return Report{Skipped: true}, nil
	}

	var report Report
	steps := []struct {
		name string
		run  func(context.Context, Services, time.Time, *Report) error
	}{
		{"users", seedUsers},
		{"academy", seedAcademy},
		{"team", seedTeam},
		{"tournament", seedTournament},
		{"live match", seedLiveMatch},
	}
	for _, step := range steps {
		if err := step.run(ctx, svc, now, &report); err != nil {
			return report, fmt.Errorf("seed %s: %w", step.name, err)
		}
		log.Info("Seeded", "step", step.name)
	}
	return report, nil
}

func seedUsers(ctx context.Context, svc Services, now time.Time, r *Report) error {
	profiles := []struct {
		in   user.NewUser
		into *string
	}{
		{user.NewUser{Email: "user@example.com", Name: "SCricPlayUser", Role: user.RolePlayer, Phone: "+91 98765 43210"}, nil},
		{user.NewUser{Email: "owner@elitecricket.example", Name: "Academy Owner", Role: user.RoleAcademy}, &r.OwnerID},
		{user.NewUser{Email: "ravi.menon@elitecricket.example", Name: "Ravi Menon", Role: user.RoleCoach}, &r.CoachID},
		{user.NewUser{Email: "events@cricplay.example", Name: "CricPlay Organizers", Role: user.RoleTournament}, &r.OrganizerID},
	}
	for _, p := range profiles {
		existing, err := svc.User.GetUserByEmail(ctx, p.in.Email)
		if err != nil {
			return err
		}
		if existing == nil {
			if existing, err = svc.User.CreateUser(ctx, p.in); err != nil {
				return err
			}
		}
		if p.into != nil {
			*p.into = existing.ID
		}
	}
	return nil
}

func seedAcademy(ctx context.Context, svc Services, now time.Time, r *Report) error {
	a, err := svc.Academy.CreateAcademy(ctx, academy.NewAcademy{
		Name:         "Elite Cricket Academy",
		Description:  "Professional cricket training for all ages",
		OwnerID:      r.OwnerID,
		OwnerName:    "Academy Owner",
		Location:     "Andheri Sports Complex",
		City:         "Mumbai",
		State:        "Maharashtra",
		ContactEmail: "info@elitecricket.example",
		Coaches: []academy.NewCoach{
			{CoachID: r.CoachID, CoachName: "Ravi Menon", Specialization: []string{"batting", "fielding"}, Experience: 12},
			{CoachID: "coach-2", CoachName: "Anil Desai", Specialization: []string{"fast bowling"}, Experience: 8},
		},
		Students: []academy.NewStudent{
			{StudentID: "student-1", StudentName: "Arjun Patil", Level: academy.LevelIntermediate},
			{StudentID: "student-2", StudentName: "Priya Nair", Level: academy.LevelBeginner},
			{StudentID: "student-3", StudentName: "Kabir Shah", Level: academy.LevelAdvanced},
		},
	})
	if err != nil {
		return err
	}
	r.AcademyID = a.ID

	program, err := svc.Academy.CreateTrainingProgram(ctx, academy.NewProgram{
		AcademyID:     a.ID,
		Name:          "Advanced Batting Techniques",
		Description:   "Footwork, shot selection and playing spin",
		CoachID:       r.CoachID,
		Level:         academy.LevelIntermediate,
		Schedule:      academy.Schedule{Days: []string{"monday", "wednesday", "friday"}, Time: "16:00", DurationMinutes: 120, Venue: "Main nets"},
		DurationWeeks: 12,
		MaxStudents:   20,
		Status:        academy.ProgramOngoing,
		StartDate:     now.AddDate(0, 0, -14),
		EndDate:       now.AddDate(0, 0, 70),
	})
	if err != nil {
		return err
	}
	for _, id := range []string{"student-1", "student-2", "student-3"} {
		if _, err := svc.Academy.EnrollStudent(ctx, program.ID, id); err != nil {
			return err
		}
	}

	past, err := svc.Academy.CreateTrainingSession(ctx, academy.NewSession{
		ProgramID: program.ID, ScheduledAt: now.AddDate(0, 0, -2), Topic: "Playing the short ball",
	})
	if err != nil {
		return err
	}
	if _, err := svc.Academy.MarkAttendance(ctx, past.ID, []academy.AttendanceInput{
		{StudentID: "student-1", Status: academy.AttendancePresent},
		{StudentID: "student-2", Status: academy.AttendanceLate},
		{StudentID: "student-3", Status: academy.AttendanceAbsent, Notes: "school exam"},
	}); err != nil {
		return err
	}
	if _, err := svc.Academy.CreateTrainingSession(ctx, academy.NewSession{
		ProgramID: program.ID, ScheduledAt: now.AddDate(0, 0, 2), Topic: "Sweep and reverse sweep",
	}); err != nil {
		return err
	}

	weight, height := 58.0, 168.0
	if _, err := svc.Academy.RecordHealthMetric(ctx, academy.NewHealthMetric{
		StudentID: "student-1", StudentName: "Arjun Patil", Date: now.AddDate(0, 0, -7),
		Weight: &weight, Height: &height, RecordedBy: r.CoachID,
	}); err != nil {
		return err
	}
	_, err = svc.Academy.RecordVideoAnalysis(ctx, academy.NewVideoAnalysis{
		StudentID: "student-1", StudentName: "Arjun Patil", SessionID: past.ID,
		VideoURL: "https://videos.example/arjun-nets.mp4", Title: "Batting Technique Analysis",
		Analysis: academy.TechniqueAnalysis{Batting: &academy.BattingAnalysis{
			Stance: "balanced", Backlift: "slightly high", Footwork: "good against pace",
			Recommendations: []string{"work on front foot defence against spin"},
		}},
		Tags:       []string{"batting", "nets"},
		RecordedAt: now.AddDate(0, 0, -2),
	})
	return err
}

func seedTeam(ctx context.Context, svc Services, now time.Time, r *Report) error {
	team, err := svc.Coach.CreateTeam(ctx, coach.NewTeam{
		Name: "Royal Strikers", City: "Mumbai", State: "Maharashtra", CoachID: r.CoachID,
		Players: []coach.NewTeamPlayer{
			{PlayerID: "p-rs-1", PlayerName: "Aditya Rao", Role: coach.RoleBatsman, JerseyNumber: 18},
			{PlayerID: "p-rs-2", PlayerName: "Vikram Singh", Role: coach.RoleBowler, JerseyNumber: 93},
			{PlayerID: "p-rs-3", PlayerName: "Rahul Joshi", Role: coach.RoleAllRounder, JerseyNumber: 33},
			{PlayerID: "p-rs-4", PlayerName: "Sameer Khan", Role: coach.RoleWicketKeeper, JerseyNumber: 7},
		},
	})
	if err != nil {
		return err
	}
	r.TeamID = team.ID
	return nil
}

// result is one seeded fixture outcome plus the scorecards behind it.
type result struct {
	team1, team2 int
	input        tournament.ResultInput
	cards        []player.Scorecard
}

func seedTournament(ctx context.Context, svc Services, now time.Time, r *Report) error {
	t, err := svc.Tournament.CreateTournament(ctx, tournament.NewTournament{
		Name:                 "CricPlay Championship",
		Description:          "The premier cricket tournament featuring the best teams",
		OrganizerID:          r.OrganizerID,
		OrganizerName:        "CricPlay Organizers",
		RegistrationDeadline: now.AddDate(0, 0, 1),
		StartDate:            now.AddDate(0, 0, 2),
		EndDate:              now.AddDate(0, 1, 0),
		Format:               tournament.FormatT20,
		Status:               tournament.StatusRegistration,
		MaxTeams:             8,
		PrizePool:            "₹1,00,000",
		Location:             "Mumbai",
		Rules:                []string{"T20 format", "Maximum 16 players per team", "All matches will be played at designated venues"},
	})
	if err != nil {
		return err
	}
	r.TournamentID = t.ID
	for _, side := range sides {
		if _, err := svc.Tournament.RegisterTeamForTournament(ctx, t.ID, side); err != nil {
			return err
		}
		if _, err := svc.Tournament.UpdateTeamRegistrationStatus(ctx, t.ID, side.TeamID, tournament.TeamConfirmed); err != nil {
			return err
		}
	}

	fixtureIDs := map[[2]int]string{}
	number := 0
	for i := range sides {
		for j := i + 1; j < len(sides); j++ {
			number++
			f, err := svc.Tournament.CreateFixture(ctx, t.ID, tournament.NewFixture{
				Team1ID:     sides[i].TeamID,
				Team2ID:     sides[j].TeamID,
				ScheduledAt: now.AddDate(0, 0, 2+number).Truncate(time.Hour),
				Venue:       "Wankhede Stadium",
			})
			if err != nil {
				return err
			}
			fixtureIDs[[2]int{i, j}] = f.ID
			r.Fixtures++
		}
	}

	results := []result{
		{
			team1: 0, team2: 1,
			input: tournament.ResultInput{
				ResultType: tournament.ResultNormal, WinnerID: sides[0].TeamID,
				Team1Runs: 185, Team1Wickets: 6, Team1Overs: 20,
				Team2Runs: 172, Team2Wickets: 8, Team2Overs: 20,
				ManOfTheMatch: "Aditya Rao",
			},
			cards: []player.Scorecard{
				{PlayerID: "p-rs-1", PlayerName: "Aditya Rao", TeamID: sides[0].TeamID, TeamName: sides[0].TeamName,
					Batting: &player.BattingLine{Runs: 78, Balls: 52, Fours: 8, Sixes: 3, Dismissed: true, DismissalType: "caught"}},
				{PlayerID: "p-rs-2", PlayerName: "Vikram Singh", TeamID: sides[0].TeamID, TeamName: sides[0].TeamName,
					Bowling:  &player.BowlingLine{Overs: 4, Runs: 28, Wickets: 3},
					Fielding: &player.FieldingLine{Catches: 1}},
				{PlayerID: "p-kx-1", PlayerName: "Manish Pandey", TeamID: sides[1].TeamID, TeamName: sides[1].TeamName,
					Batting: &player.BattingLine{Runs: 64, Balls: 45, Fours: 6, Sixes: 2, Dismissed: true, DismissalType: "bowled"}},
			},
		},
		{
			team1: 2, team2: 3,
			input: tournament.ResultInput{
				ResultType: tournament.ResultNormal, WinnerID: sides[3].TeamID,
				Team1Runs: 150, Team1Wickets: 10, Team1Overs: 18.4,
				Team2Runs: 151, Team2Wickets: 4, Team2Overs: 17.2,
			},
			cards: []player.Scorecard{
				{PlayerID: "p-sg-1", PlayerName: "Deepak Hooda", TeamID: sides[2].TeamID, TeamName: sides[2].TeamName,
					Batting: &player.BattingLine{Runs: 41, Balls: 30, Fours: 4, Sixes: 1, Dismissed: true, DismissalType: "lbw"}},
				{PlayerID: "p-tb-1", PlayerName: "Yash Dayal", TeamID: sides[3].TeamID, TeamName: sides[3].TeamName,
					Bowling:  &player.BowlingLine{Overs: 3.4, Runs: 22, Wickets: 4},
					Fielding: &player.FieldingLine{Catches: 2}},
				{PlayerID: "p-tb-2", PlayerName: "Nitish Rana", TeamID: sides[3].TeamID, TeamName: sides[3].TeamName,
					Batting: &player.BattingLine{Runs: 67, Balls: 48, Fours: 7, Sixes: 2}},
			},
		},
	}
	for _, res := range results {
		fixtureID := fixtureIDs[[2]int{res.team1, res.team2}]
		f, err := svc.Tournament.RecordFixtureResult(ctx, fixtureID, res.input)
		if err != nil {
			return err
		}
		for i := range res.cards {
			card := res.cards[i]
			card.MatchID = f.ID
			card.MatchDate = f.ScheduledAt
			if _, err := svc.Player.RecordScorecard(ctx, &card); err != nil {
				return err
			}
			r.Scorecards++
		}
	}
	return nil
}

func seedLiveMatch(ctx context.Context, svc Services, now time.Time, r *Report) error {
	m, err := svc.MatchCenter.SetupMatch(ctx, matchcenter.NewMatch{
		Team1: "Royal Strikers", Team2: "Kings XI", BattingFirst: "Kings XI", Overs: 20, Venue: "Wankhede Stadium",
	})
	if err != nil {
		return err
	}
	r.MatchID = m.ID

	deliveries := []matchcenter.NewEvent{
		{Innings: 1, Over: 0, Ball: 1, Bowler: "Vikram Singh", Batsman: "Manish Pandey"},
		{Innings: 1, Over: 0, Ball: 2, Bowler: "Vikram Singh", Batsman: "Manish Pandey", Runs: 4},
		{Innings: 1, Over: 0, Ball: 3, Bowler: "Vikram Singh", Batsman: "Manish Pandey", Extras: 1, Extra: stats.ExtraWide},
		{Innings: 1, Over: 0, Ball: 3, Bowler: "Vikram Singh", Batsman: "Manish Pandey", Runs: 1},
		{Innings: 1, Over: 0, Ball: 4, Bowler: "Vikram Singh", Batsman: "Shikhar Dhawan", Runs: 6},
		{Innings: 1, Over: 0, Ball: 5, Bowler: "Vikram Singh", Batsman: "Shikhar Dhawan", Wicket: true, Dismissal: "caught behind"},
		{Innings: 1, Over: 0, Ball: 6, Bowler: "Vikram Singh", Batsman: "Liam Livingstone", Runs: 2},
	}
	for _, d := range deliveries {
		if _, err := svc.MatchCenter.PublishEvent(ctx, m.ID, d); err != nil {
			return err
		}
		r.Deliveries++
	}
	return nil
}
