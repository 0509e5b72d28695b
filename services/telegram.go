package services

import (
	ctx2 "context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tb "gopkg.in/telebot.v3"

	appctx "github.com/requiem-ai/modelhub/context"
	"github.com/requiem-ai/modelhub/manager"
)

const TELEGRAM_SVC = "telegram_svc"

// TelegramService is the chat surface over the hub: prompts arrive as bot
// commands and are routed to one or all model instances.
type TelegramService struct {
	appctx.DefaultService

	Bot *tb.Bot

	hub *HubService

	allowedUserID int64
}

func (svc TelegramService) Id() string {
	return TELEGRAM_SVC
}

func (svc *TelegramService) Configure(ctx *appctx.Context) (err error) {
	allowedUserID, err := svc.parseAllowedUserID()
	if err != nil {
		return err
	}
	svc.allowedUserID = allowedUserID

	svc.Bot, err = tb.NewBot(tb.Settings{
		Token: os.Getenv("TELEGRAM_SECRET"),
		Poller: &tb.LongPoller{
			Timeout: 30 * time.Second,
		},
		OnError: func(err error, c tb.Context) {
			svc.decorateTelegramEvent(log.Error().Err(err), c).Msg("telegram bot error")
		},
	})
	if err != nil {
		return err
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *TelegramService) Start() error {
	svc.hub = svc.Service(HUB_SVC).(*HubService)

	svc.setupHandlers()

	svc.Bot.Start()

	return nil
}

func (svc *TelegramService) Shutdown() {
	if svc.Bot == nil {
		return
	}
	svc.Bot.Stop()
}

func (svc *TelegramService) setupHandlers() {
	svc.Bot.Handle("/models", svc.guardHandler(svc.onModels))
	svc.Bot.Handle("/ask", svc.guardHandler(svc.onAsk))
	svc.Bot.Handle("/all", svc.guardHandler(svc.onAll))
	svc.Bot.Handle("/history", svc.guardHandler(svc.onHistory))
	svc.Bot.Handle("/forget", svc.guardHandler(svc.onForget))

	svc.Bot.Handle(tb.OnText, svc.guardHandler(svc.onText))
}

func (svc *TelegramService) onModels(c tb.Context) error {
	var b strings.Builder
	b.WriteString("Backend types:\n")
	for _, name := range svc.hub.Hub.BackendTypes() {
		fmt.Fprintf(&b, "  %s\n", name)
	}
	b.WriteString("Instances:\n")
	instances := svc.hub.Hub.Instances()
	if len(instances) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, id := range instances {
		fmt.Fprintf(&b, "  %s\n", id)
	}
	return c.Send(b.String())
}

func (svc *TelegramService) onAsk(c tb.Context) error {
	id, prompt, ok := splitIDPrompt(c.Message().Payload)
	if !ok {
		return c.Send("Usage: /ask <instance> <prompt>")
	}

	reply, err := svc.hub.Hub.Dispatch(ctx2.Background(), id, prompt, manager.Options{
		SaveContext:  true,
		AppendPrompt: true,
	})
	if err != nil {
		return c.Send(fmt.Sprintf("%s failed: %v", id, err))
	}

	return c.Send(fmt.Sprintf("%s: %s", id, reply))
}

func (svc *TelegramService) onAll(c tb.Context) error {
	prompt := strings.TrimSpace(c.Message().Payload)
	if prompt == "" {
		return c.Send("Usage: /all <prompt>")
	}

	ids := svc.hub.Hub.Instances()
	if len(ids) == 0 {
		return c.Send("No model instances are live.")
	}

	results := svc.hub.Hub.DispatchAll(ctx2.Background(), ids, prompt, manager.Options{
		SaveContext:  true,
		AppendPrompt: true,
	})

	return c.Send(formatResults(results))
}

func (svc *TelegramService) onHistory(c tb.Context) error {
	id := strings.TrimSpace(c.Message().Payload)
	if id == "" {
		return c.Send("Usage: /history <instance>")
	}

	entries, err := svc.hub.Hub.Transcript(id)
	if err != nil {
		return c.Send(err.Error())
	}

	return c.Send(formatTranscript(id, entries))
}

func (svc *TelegramService) onForget(c tb.Context) error {
	id := strings.TrimSpace(c.Message().Payload)
	if id == "" {
		return c.Send("Usage: /forget <instance>")
	}

	svc.hub.Hub.Remove(id)
	return c.Send(fmt.Sprintf("Removed %s (if it existed).", id))
}

func (svc *TelegramService) onText(c tb.Context) error {
	return c.Send("Commands: /models, /ask, /all, /history, /forget")
}

func (svc *TelegramService) guardHandler(handler tb.HandlerFunc) tb.HandlerFunc {
	return func(c tb.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}
		if svc.allowedUserID != 0 && sender.ID != svc.allowedUserID {
			svc.decorateTelegramEvent(log.Warn(), c).Msg("ignoring message from unknown user")
			return nil
		}
		return handler(c)
	}
}

func (svc *TelegramService) parseAllowedUserID() (int64, error) {
	raw := strings.TrimSpace(os.Getenv("TELEGRAM_USER_ID"))
	if raw == "" {
		log.Warn().Msg("TELEGRAM_USER_ID not set; bot answers anyone")
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid TELEGRAM_USER_ID %q: %w", raw, err)
	}
	return value, nil
}

func (svc *TelegramService) decorateTelegramEvent(evt *zerolog.Event, c tb.Context) *zerolog.Event {
	if c == nil {
		return evt
	}
	if sender := c.Sender(); sender != nil {
		evt = evt.Int64("user_id", sender.ID)
	}
	if chat := c.Chat(); chat != nil {
		evt = evt.Int64("chat_id", chat.ID)
	}
	return evt
}

// splitIDPrompt pulls the leading instance id off a command payload.
func splitIDPrompt(payload string) (id, prompt string, ok bool) {
	fields := strings.SplitN(strings.TrimSpace(payload), " ", 2)
	if len(fields) < 2 {
		return "", "", false
	}
	id = fields[0]
	prompt = strings.TrimSpace(fields[1])
	if id == "" || prompt == "" {
		return "", "", false
	}
	return id, prompt, true
}

func formatTranscript(id string, entries []manager.TranscriptEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s ---\n", id)
	for _, e := range entries {
		fmt.Fprintf(&b, "%s: %s\n", e.Role, e.Content)
	}
	b.WriteString("--- end ---")
	return b.String()
}

func formatResults(results map[string]manager.Result) string {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		res := results[id]
		if res.Err != nil {
			fmt.Fprintf(&b, "%s: ERROR: %v\n", id, res.Err)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", id, res.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
