package bot

import (
	"fmt"
	"strings"

	"tourney-bot/internal/app/public"
	"tourney-bot/internal/store"
)

const (
	buttonTournaments = "🏆 Tournaments"
	buttonMyEntries   = "👤 My tournaments"
	buttonAbout       = "ℹ️ About & support"
	buttonAdminPanel  = "🔧 Admin panel"

	buttonCreate      = "Create tournament"
	buttonConfirmPay  = "Confirm payment"
	buttonPublishLink = "Publish link"
	buttonFinish      = "Finish tournament"
	buttonBan         = "Ban user"
	buttonBackToMain  = "Back to main menu"
)

func mainMenu(isAdmin bool) [][]string {
	rows := [][]string{
		{buttonTournaments},
		{buttonMyEntries},
		{buttonAbout},
	}
	if isAdmin {
		rows = append(rows, []string{buttonAdminPanel})
	}
	return rows
}

func adminMenu() [][]string {
	return [][]string{
		{buttonCreate},
		{buttonConfirmPay, buttonPublishLink},
		{buttonFinish, buttonBan},
		{buttonBackToMain},
	}
}

const welcomeText = "Welcome to the tournament bot!"

const aboutText = "Support: contact the organizers.\nRules: entry fees are collected up front; prizes are paid out after results are verified."

// tournamentSummary is the post-creation report: the original's fund,
// prize payout and commission math, plus the payment details line.
func tournamentSummary(t *store.Tournament, commissionPercent int64, paymentDetails string) string {
	fund := t.MaxPlayers * t.EntryFee
	var prizeSum int64
	for _, p := range t.Prizes {
		prizeSum += p
	}
	commission := fund * commissionPercent / 100

	var b strings.Builder
	fmt.Fprintf(&b, "Tournament #%d created!\n", t.ID)
	fmt.Fprintf(&b, "Game: %s\n", t.Game)
	fmt.Fprintf(&b, "Mode: %s\n", t.Mode)
	fmt.Fprintf(&b, "Max players: %d\n", t.MaxPlayers)
	fmt.Fprintf(&b, "Entry fee: %d\n", t.EntryFee)
	fmt.Fprintf(&b, "Prize places: %d\n", t.PrizePlaces)
	b.WriteString("Prizes:\n")
	for i, p := range t.Prizes {
		fmt.Fprintf(&b, "  %d - %d\n", i+1, p)
	}
	fmt.Fprintf(&b, "\nFund: %d\nPrize payout: %d\nCommission: %d\n", fund, prizeSum, commission)
	if paymentDetails != "" {
		fmt.Fprintf(&b, "Payment details: %s", paymentDetails)
	}
	return b.String()
}

func tournamentListText(res *public.TournamentsResponse) string {
	if len(res.Items) == 0 {
		return "No active tournaments right now."
	}
	var b strings.Builder
	b.WriteString("Active tournaments:\n")
	for _, t := range res.Items {
		fmt.Fprintf(&b, "\n#%d %s (%s)\nPlayers: up to %d, entry fee: %d, prize pool: %d\n", t.ID, t.Game, t.Mode, t.MaxPlayers, t.EntryFee, t.PrizeSum)
		if t.Description != "" {
			fmt.Fprintf(&b, "%s\n", t.Description)
		}
		fmt.Fprintf(&b, "Register with /join %d\n", t.ID)
	}
	return b.String()
}

func registrationsText(res *public.RegistrationsResponse) string {
	if len(res.Items) == 0 {
		return "You are not registered for any tournaments."
	}
	var b strings.Builder
	b.WriteString("Your tournaments:\n")
	for _, r := range res.Items {
		fmt.Fprintf(&b, "\n#%d %s (%s) - %s\nNickname: %s, payment: %s\n",
			r.TournamentID, r.Game, r.Mode, r.TournamentStatus, r.Nickname, r.PaymentStatus)
	}
	return b.String()
}
