package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tourney-bot/internal/app/lifecycle"
	"tourney-bot/internal/config"
	"tourney-bot/internal/wizard"
)

const (
	wizardCreateTournament = "create_tournament"
	wizardRegister         = "register"
	wizardConfirmPayment   = "confirm_payment"
	wizardAssignLink       = "assign_link"
	wizardFinish           = "finish_tournament"
	wizardBan              = "ban_user"
)

func registerWizards(engine *wizard.Engine, svc *lifecycle.Service, cfg config.BotConfig) {
	engine.Register(createTournamentWizard(svc, cfg))
	engine.Register(registerWizard(svc))
	engine.Register(confirmPaymentWizard(svc))
	engine.Register(assignLinkWizard(svc))
	engine.Register(finishWizard(svc))
	engine.Register(banWizard(svc))
}

func createTournamentWizard(svc *lifecycle.Service, cfg config.BotConfig) *wizard.Wizard {
	return &wizard.Wizard{
		ID: wizardCreateTournament,
		Steps: []wizard.Step{
			{
				Key:      "game",
				Prompt:   func(map[string]any) string { return "Choose a game:" },
				Options:  [][]string{{"Brawl Stars", "Standoff 2"}},
				Validate: wizard.TextRange(2, 64),
			},
			{
				Key:      "mode",
				Prompt:   func(map[string]any) string { return "Choose a mode:" },
				Options:  [][]string{{"Solo Showdown", "1v1", "3v3"}},
				Validate: wizard.TextRange(2, 64),
			},
			{
				Key:      "max_players",
				Prompt:   func(map[string]any) string { return "Max number of paying players:" },
				Options:  [][]string{{"8", "16", "32"}},
				Validate: wizard.IntRange(2, 128),
			},
			{
				Key:      "entry_fee",
				Prompt:   func(map[string]any) string { return "Entry fee:" },
				Options:  [][]string{{"50", "100", "200"}},
				Validate: wizard.MinInt(10),
			},
			{
				Key:      "prize_places",
				Prompt:   func(map[string]any) string { return "How many prize places (1-5)?" },
				Options:  [][]string{{"1", "2", "3", "4", "5"}},
				Validate: wizard.IntRange(1, 5),
				OnAnswer: func(answers map[string]any, value any) {
					answers["prize_places"] = value
					answers["prizes"] = []int64{}
					answers["prize_index"] = int64(1)
				},
			},
			{
				// Repeated once per prize place; the counter in the
				// answer map drives the loop, not the step list.
				Key: "prize",
				Prompt: func(answers map[string]any) string {
					return fmt.Sprintf("Prize for place %d:", answers["prize_index"].(int64))
				},
				Validate: wizard.MinInt(0),
				OnAnswer: func(answers map[string]any, value any) {
					answers["prizes"] = append(answers["prizes"].([]int64), value.(int64))
					answers["prize_index"] = answers["prize_index"].(int64) + 1
				},
				Next: func(answers map[string]any, current int) (int, bool) {
					if answers["prize_index"].(int64) <= answers["prize_places"].(int64) {
						return current, false
					}
					return current + 1, false
				},
			},
			{
				Key:      "want_map",
				Prompt:   func(map[string]any) string { return "Attach a map/bracket photo?" },
				Options:  [][]string{{"Yes", "No"}},
				Validate: wizard.YesNo(),
				Next: func(answers map[string]any, current int) (int, bool) {
					if answers["want_map"].(bool) {
						return current + 1, false
					}
					return current + 2, false
				},
			},
			{
				Key:      "map_photo",
				Prompt:   func(map[string]any) string { return "Send one photo:" },
				Validate: wizard.Image(),
			},
			{
				Key:      "want_description",
				Prompt:   func(map[string]any) string { return "Add a description?" },
				Options:  [][]string{{"Yes", "No"}},
				Validate: wizard.YesNo(),
				Next: func(answers map[string]any, current int) (int, bool) {
					if answers["want_description"].(bool) {
						return current + 1, false
					}
					return current + 2, false
				},
			},
			{
				Key:      "description",
				Prompt:   func(map[string]any) string { return "Describe the tournament:" },
				Validate: wizard.TextRange(1, 512),
			},
		},
		OnComplete: func(ctx context.Context, userID int64, answers map[string]any) (string, error) {
			fields := lifecycle.CreateFields{
				Game:        answers["game"].(string),
				Mode:        answers["mode"].(string),
				MaxPlayers:  answers["max_players"].(int64),
				EntryFee:    answers["entry_fee"].(int64),
				PrizePlaces: answers["prize_places"].(int64),
				Prizes:      answers["prizes"].([]int64),
			}
			if ref, ok := answers["map_photo"].(string); ok {
				fields.MapPhoto = ref
			}
			if desc, ok := answers["description"].(string); ok {
				fields.Description = desc
			}
			idemKey, _ := answers["idempotency_key"].(string)

			created, err := svc.CreateTournament(ctx, fields, idemKey)
			if err != nil {
				return "", err
			}
			return tournamentSummary(created, cfg.CommissionPercent, cfg.PaymentDetails), nil
		},
	}
}

func registerWizard(svc *lifecycle.Service) *wizard.Wizard {
	return &wizard.Wizard{
		ID: wizardRegister,
		Steps: []wizard.Step{
			{
				Key:      "nickname",
				Prompt:   func(map[string]any) string { return "Your in-game nickname:" },
				Validate: wizard.TextRange(2, 64),
			},
			{
				Key: "payment_photo",
				Prompt: func(answers map[string]any) string {
					fee, _ := answers["entry_fee"].(int64)
					details, _ := answers["payment_details"].(string)
					if details != "" {
						return fmt.Sprintf("Pay the entry fee of %d to %s and attach a screenshot of the payment.", fee, details)
					}
					return "Attach a screenshot of your entry fee payment."
				},
				Validate: wizard.Image(),
			},
		},
		OnComplete: func(ctx context.Context, userID int64, answers map[string]any) (string, error) {
			tournamentID := answers["tournament_id"].(int64)
			err := svc.RegisterParticipant(ctx, tournamentID, userID,
				answers["nickname"].(string), answers["payment_photo"].(string))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("You're registered for tournament #%d. An organizer will confirm your payment shortly.", tournamentID), nil
		},
	}
}

// moderationWizard is the single free-form-input dialogue behind each
// admin action.
func moderationWizard(id, prompt string, validate wizard.Validator,
	exec func(ctx context.Context, value any) (string, error)) *wizard.Wizard {
	return &wizard.Wizard{
		ID: id,
		Steps: []wizard.Step{
			{
				Key:      "input",
				Prompt:   func(map[string]any) string { return prompt },
				Validate: validate,
			},
		},
		OnComplete: func(ctx context.Context, _ int64, answers map[string]any) (string, error) {
			return exec(ctx, answers["input"])
		},
	}
}

func confirmPaymentWizard(svc *lifecycle.Service) *wizard.Wizard {
	return moderationWizard(wizardConfirmPayment,
		"Confirm payment: send \"<tournament id> <user id>\".",
		idPair(),
		func(ctx context.Context, value any) (string, error) {
			pair := value.([2]int64)
			if err := svc.ConfirmPayment(ctx, pair[0], pair[1]); err != nil {
				return "", err
			}
			return fmt.Sprintf("Payment confirmed for user %d in tournament #%d.", pair[1], pair[0]), nil
		})
}

func assignLinkWizard(svc *lifecycle.Service) *wizard.Wizard {
	return moderationWizard(wizardAssignLink,
		"Publish link: send \"<tournament id> <link>\".",
		idAndText(),
		func(ctx context.Context, value any) (string, error) {
			target := value.(idText)
			if err := svc.AssignLink(ctx, target.ID, target.Text); err != nil {
				return "", err
			}
			return fmt.Sprintf("Link published for tournament #%d and broadcast to everyone.", target.ID), nil
		})
}

func finishWizard(svc *lifecycle.Service) *wizard.Wizard {
	return moderationWizard(wizardFinish,
		"Finish tournament: send its id.",
		singleID(),
		func(ctx context.Context, value any) (string, error) {
			id := value.(int64)
			if err := svc.FinishTournament(ctx, id); err != nil {
				return "", err
			}
			return fmt.Sprintf("Tournament #%d finished. Participants were asked for results.", id), nil
		})
}

func banWizard(svc *lifecycle.Service) *wizard.Wizard {
	return moderationWizard(wizardBan,
		"Ban user: send \"<user id> <reason>\".",
		idAndText(),
		func(ctx context.Context, value any) (string, error) {
			target := value.(idText)
			if err := svc.BanUser(ctx, target.ID, target.Text); err != nil {
				return "", err
			}
			return fmt.Sprintf("User %d banned.", target.ID), nil
		})
}

type idText struct {
	ID   int64
	Text string
}

func singleID() wizard.Validator {
	return func(in wizard.Input) (any, *wizard.ValidationError) {
		id, err := strconv.ParseInt(strings.TrimSpace(in.Text), 10, 64)
		if err != nil || id < 1 {
			return nil, &wizard.ValidationError{Reason: "Send a numeric id."}
		}
		return id, nil
	}
}

func idPair() wizard.Validator {
	return func(in wizard.Input) (any, *wizard.ValidationError) {
		parts := strings.Fields(in.Text)
		if len(parts) != 2 {
			return nil, &wizard.ValidationError{Reason: "Send two numeric ids separated by a space."}
		}
		a, errA := strconv.ParseInt(parts[0], 10, 64)
		b, errB := strconv.ParseInt(parts[1], 10, 64)
		if errA != nil || errB != nil {
			return nil, &wizard.ValidationError{Reason: "Send two numeric ids separated by a space."}
		}
		return [2]int64{a, b}, nil
	}
}

func idAndText() wizard.Validator {
	return func(in wizard.Input) (any, *wizard.ValidationError) {
		parts := strings.SplitN(strings.TrimSpace(in.Text), " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return nil, &wizard.ValidationError{Reason: "Send an id followed by text."}
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil || id < 1 {
			return nil, &wizard.ValidationError{Reason: "Send an id followed by text."}
		}
		return idText{ID: id, Text: strings.TrimSpace(parts[1])}, nil
	}
}
