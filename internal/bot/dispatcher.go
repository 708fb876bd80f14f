package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"tourney-bot/internal/app/lifecycle"
	"tourney-bot/internal/app/public"
	"tourney-bot/internal/config"
	"tourney-bot/internal/notify"
	"tourney-bot/internal/store"
	"tourney-bot/internal/wizard"
)

type Dispatcher struct {
	cfg       config.BotConfig
	store     *store.Store
	engine    *wizard.Engine
	lifecycle *lifecycle.Service
	public    *public.Service
	notifier  *notify.Notifier
	sender    Sender
}

func NewDispatcher(cfg config.BotConfig, st *store.Store, engine *wizard.Engine,
	lc *lifecycle.Service, pub *public.Service, notifier *notify.Notifier, sender Sender) *Dispatcher {
	d := &Dispatcher{
		cfg:       cfg,
		store:     st,
		engine:    engine,
		lifecycle: lc,
		public:    pub,
		notifier:  notifier,
		sender:    sender,
	}
	registerWizards(engine, lc, cfg)
	return d
}

// HandleEvent processes one inbound event to completion: session lookup,
// wizard advancement or stateless command, store writes, notifications.
// Events are handled strictly one at a time by the transport.
func (d *Dispatcher) HandleEvent(ctx context.Context, ev InboundEvent) error {
	if err := d.store.TouchUser(ctx, ev.UserID); err != nil {
		log.Warn().Err(err).Int64("user_id", ev.UserID).Msg("touch user failed")
	}

	banned, err := d.store.IsBanned(ctx, ev.UserID)
	if err != nil {
		return err
	}
	if banned {
		return d.reply(ctx, ev.UserID, "You are banned from this service.", nil)
	}

	text := strings.TrimSpace(ev.Text)

	if text == wizard.CancelCommand {
		if d.engine.Cancel(ev.UserID) {
			return d.reply(ctx, ev.UserID, "Cancelled.", mainMenu(d.cfg.IsAdmin(ev.UserID)))
		}
		return d.reply(ctx, ev.UserID, "Nothing to cancel.", mainMenu(d.cfg.IsAdmin(ev.UserID)))
	}

	if d.engine.Active(ev.UserID) {
		return d.advanceWizard(ctx, ev, text)
	}
	return d.handleCommand(ctx, ev, text)
}

func (d *Dispatcher) advanceWizard(ctx context.Context, ev InboundEvent, text string) error {
	res, err := d.engine.Handle(ctx, ev.UserID, wizard.Input{Text: text, ImageRef: ev.ImageRef})
	if err != nil {
		return d.reply(ctx, ev.UserID, errorMessage(err), mainMenu(d.cfg.IsAdmin(ev.UserID)))
	}
	buttons := res.Buttons
	if res.Done {
		buttons = mainMenu(d.cfg.IsAdmin(ev.UserID))
	}
	return d.reply(ctx, ev.UserID, res.Reply, buttons)
}

func (d *Dispatcher) handleCommand(ctx context.Context, ev InboundEvent, text string) error {
	isAdmin := d.cfg.IsAdmin(ev.UserID)

	switch {
	case text == "/start":
		return d.reply(ctx, ev.UserID, welcomeText, mainMenu(isAdmin))

	case text == buttonTournaments || text == "/tournaments":
		res, err := d.public.ActiveTournaments(ctx)
		if err != nil {
			return err
		}
		return d.reply(ctx, ev.UserID, tournamentListText(res), mainMenu(isAdmin))

	case text == buttonMyEntries || text == "/my":
		res, err := d.public.MyRegistrations(ctx, ev.UserID)
		if err != nil {
			return err
		}
		return d.reply(ctx, ev.UserID, registrationsText(res), mainMenu(isAdmin))

	case text == buttonAbout:
		return d.reply(ctx, ev.UserID, aboutText, mainMenu(isAdmin))

	case strings.HasPrefix(text, "/join"):
		return d.startRegistration(ctx, ev.UserID, text)

	case strings.HasPrefix(text, "/result"):
		return d.recordResult(ctx, ev.UserID, text)

	case text == buttonAdminPanel && isAdmin:
		return d.reply(ctx, ev.UserID, "Admin panel:", adminMenu())

	case text == buttonBackToMain && isAdmin:
		return d.reply(ctx, ev.UserID, welcomeText, mainMenu(isAdmin))

	case text == buttonCreate && isAdmin:
		return d.startWizard(ctx, ev.UserID, wizardCreateTournament, map[string]any{
			"idempotency_key": store.NewIdempotencyKey(),
		})

	case text == buttonConfirmPay && isAdmin:
		return d.startWizard(ctx, ev.UserID, wizardConfirmPayment, nil)

	case text == buttonPublishLink && isAdmin:
		return d.startWizard(ctx, ev.UserID, wizardAssignLink, nil)

	case text == buttonFinish && isAdmin:
		return d.startWizard(ctx, ev.UserID, wizardFinish, nil)

	case text == buttonBan && isAdmin:
		return d.startWizard(ctx, ev.UserID, wizardBan, nil)
	}

	return d.reply(ctx, ev.UserID, "I didn't understand that. Use the menu below.", mainMenu(isAdmin))
}

func (d *Dispatcher) startWizard(ctx context.Context, userID int64, wizardID string, seed map[string]any) error {
	res, err := d.engine.Start(userID, wizardID, seed)
	if err != nil {
		return err
	}
	return d.reply(ctx, userID, res.Reply, res.Buttons)
}

// startRegistration begins the register wizard for "/join <id>" after
// checking the target tournament up front, so the user is not dragged
// through the dialogue only to fail at the end.
func (d *Dispatcher) startRegistration(ctx context.Context, userID int64, text string) error {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		return d.reply(ctx, userID, "Use /join <tournament id>.", mainMenu(d.cfg.IsAdmin(userID)))
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id < 1 {
		return d.reply(ctx, userID, "Use /join <tournament id>.", mainMenu(d.cfg.IsAdmin(userID)))
	}

	t, err := d.public.Tournament(ctx, id)
	if err != nil {
		if errors.Is(err, public.ErrTournamentNotFound) || errors.Is(err, public.ErrInvalidRequest) {
			return d.reply(ctx, userID, "No such tournament.", mainMenu(d.cfg.IsAdmin(userID)))
		}
		return err
	}
	if t.Status != store.TournamentActive {
		return d.reply(ctx, userID, "That tournament is already finished.", mainMenu(d.cfg.IsAdmin(userID)))
	}

	return d.startWizard(ctx, userID, wizardRegister, map[string]any{
		"tournament_id":   t.ID,
		"entry_fee":       t.EntryFee,
		"payment_details": d.cfg.PaymentDetails,
	})
}

// recordResult accepts "/result <tournament id> <claim>" from a
// participant and forwards the claimed outcome to the admins. Claims are
// recorded as-is; verification is a human job.
func (d *Dispatcher) recordResult(ctx context.Context, userID int64, text string) error {
	isAdmin := d.cfg.IsAdmin(userID)
	parts := strings.SplitN(text, " ", 3)
	if len(parts) != 3 || strings.TrimSpace(parts[2]) == "" {
		return d.reply(ctx, userID, "Use /result <tournament id> <your result>.", mainMenu(isAdmin))
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id < 1 {
		return d.reply(ctx, userID, "Use /result <tournament id> <your result>.", mainMenu(isAdmin))
	}

	p, err := d.store.GetParticipant(ctx, id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return d.reply(ctx, userID, "You are not a participant of that tournament.", mainMenu(isAdmin))
		}
		return err
	}

	claim := strings.TrimSpace(parts[2])
	log.Info().Int64("tournament_id", id).Int64("user_id", userID).Str("claim", claim).Msg("result claimed")
	if d.notifier != nil {
		_ = d.notifier.Broadcast(ctx, notify.Admins(), notify.Message{
			Text: fmt.Sprintf("Result claim for tournament #%d from %s (user %d): %s", id, p.Nickname, userID, claim),
		})
	}
	return d.reply(ctx, userID, "Result recorded. The organizers will verify it.", mainMenu(isAdmin))
}

func (d *Dispatcher) reply(ctx context.Context, userID int64, text string, buttons [][]string) error {
	return d.sender.SendAction(ctx, OutboundAction{Recipient: userID, Text: text, Buttons: buttons})
}

func errorMessage(err error) string {
	var verr *lifecycle.ValidationError
	switch {
	case errors.As(err, &verr):
		return "Invalid data: " + verr.Reason
	case errors.Is(err, lifecycle.ErrBanned):
		return "You are banned and cannot register."
	case errors.Is(err, lifecycle.ErrNotFound):
		return "Not found. Check the id and try again."
	case errors.Is(err, lifecycle.ErrAlreadyFinished):
		return "That tournament is already finished."
	case errors.Is(err, lifecycle.ErrNotActive):
		return "That tournament is no longer active."
	}
	log.Error().Err(err).Msg("operation failed")
	return "Something went wrong. Try again later."
}
