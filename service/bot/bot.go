// Package bot is the chat transport: it long-polls for commands, routes
// them onto the core operations and delivers alert messages.
package bot

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/armyhq/restockbot/model"
	"github.com/armyhq/restockbot/service/singleton"
)

// ErrConflict means another instance is consuming the same update stream.
// Running two copies against one store is unsupported, so this is fatal:
// the operator has to stop one of them.
var ErrConflict = errors.New("another bot instance is already polling this token")

type Bot struct {
	api  *tgbotapi.BotAPI
	conf *model.Config
}

// New authenticates against the chat API.
func New() (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(singleton.Conf.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("bot auth failed: %w", err)
	}
	api.Debug = singleton.Conf.Debug
	return &Bot{api: api, conf: singleton.Conf}, nil
}

// SendAlert delivers one message to the alert channel. A rate limit is
// honored by waiting out the instructed backoff and retrying once; any
// other failure is returned for the caller to log.
func (b *Bot) SendAlert(text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(b.conf.Bot.ChatID, text))
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.Code == 429 {
		wait := time.Duration(tgErr.RetryAfter) * time.Second
		if wait <= 0 {
			wait = 3 * time.Second
		}
		log.Println("RESTOCK>> rate limited, retrying alert in", wait)
		time.Sleep(wait)
		_, err = b.api.Send(tgbotapi.NewMessage(b.conf.Bot.ChatID, text))
	}
	return err
}

// Run long-polls for updates until stop closes. It survives transient
// transport errors indefinitely; only a consumer conflict makes it return.
func (b *Bot) Run(stop <-chan struct{}) error {
	log.Println("RESTOCK>> chat transport online as", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	for {
		updates, err := b.poll(stop, u)
		if err != nil {
			if errors.Is(err, errStopped) {
				return nil
			}
			var tgErr *tgbotapi.Error
			if errors.As(err, &tgErr) {
				switch tgErr.Code {
				case 409:
					return fmt.Errorf("%w: %s", ErrConflict, tgErr.Message)
				case 429:
					wait := time.Duration(tgErr.RetryAfter) * time.Second
					if wait <= 0 {
						wait = 3 * time.Second
					}
					log.Println("RESTOCK>> update polling rate limited, waiting", wait)
					if !waitOrStop(stop, wait) {
						return nil
					}
					continue
				}
			}
			log.Println("RESTOCK>> transient transport error:", err)
			if !waitOrStop(stop, 3*time.Second) {
				return nil
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= u.Offset {
				u.Offset = update.UpdateID + 1
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			go func() {
				defer func() {
					if r := recover(); r != nil {
						log.Println("RESTOCK>> handler panicked:", r)
					}
				}()
				b.handleMessage(msg)
			}()
		}
	}
}

var errStopped = errors.New("stop requested")

// poll runs one GetUpdates round on its own goroutine so a close of stop
// takes effect immediately instead of waiting out the long-poll timeout. An
// abandoned round drains in the background; its updates keep their
// server-side offset and are delivered again on the next start.
func (b *Bot) poll(stop <-chan struct{}, u tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	type result struct {
		updates []tgbotapi.Update
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		updates, err := b.api.GetUpdates(u)
		ch <- result{updates, err}
	}()
	select {
	case <-stop:
		return nil, errStopped
	case res := <-ch:
		return res.updates, res.err
	}
}

// waitOrStop sleeps for d unless stop closes first, reporting whether the
// full wait elapsed.
func waitOrStop(stop <-chan struct{}, d time.Duration) bool {
	select {
	case <-stop:
		return false
	case <-time.After(d):
		return true
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}
	b.routeText(msg)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(msg, startText())
	case "ping":
		b.reply(msg, pingText())
	case "schedule", "horarios":
		start, end := singleton.SilentWindow()
		b.reply(msg, scheduleText(start, end))
	case "products":
		b.reply(msg, productsText(b.conf))
	case "check":
		b.manualCheck(msg)
	case "info":
		b.info(msg)
	case "peak":
		b.togglePeak(msg)
	case "silent":
		b.toggleSilent(msg)
	case "myid":
		b.reply(msg, fmt.Sprintf("Your ID is %d", msg.From.ID))
	case "addpremium":
		b.adminPremium(msg, singleton.AddPremium,
			"User %d is now premium.", "User %d was already premium.")
	case "delpremium":
		b.adminPremium(msg, singleton.RemovePremium,
			"User %d removed from premium.", "User %d was not premium.")
	case "premiumlist":
		b.premiumList(msg)
	default:
		b.reply(msg, "Unknown command. Use the buttons below.")
	}
}

// routeText matches free text against the keyboard labels so buttons work
// like their command counterparts.
func (b *Bot) routeText(msg *tgbotapi.Message) {
	txt := strings.ToLower(strings.TrimSpace(msg.Text))
	switch {
	case strings.Contains(txt, "premium") && strings.Contains(txt, "peak"):
		b.premiumLocked(msg, "Peak mode")
	case strings.Contains(txt, "premium") && strings.Contains(txt, "silent"):
		b.premiumLocked(msg, "Silent mode")
	case strings.Contains(txt, "peak"):
		b.togglePeak(msg)
	case strings.Contains(txt, "silent"):
		b.toggleSilent(msg)
	case strings.Contains(txt, "check"):
		b.manualCheck(msg)
	case strings.Contains(txt, "info"):
		b.info(msg)
	case strings.Contains(txt, "ping"):
		b.reply(msg, pingText())
	case strings.Contains(txt, "schedule"):
		start, end := singleton.SilentWindow()
		b.reply(msg, scheduleText(start, end))
	case strings.Contains(txt, "product"):
		b.reply(msg, productsText(b.conf))
	default:
		b.reply(msg, "Use the buttons below.")
	}
}

func (b *Bot) manualCheck(msg *tgbotapi.Message) {
	if !singleton.AllowManualCheck(msg.From.ID) {
		b.reply(msg, "Easy — a check just ran. Try again in a moment.")
		return
	}

	if _, err := b.api.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		log.Println("RESTOCK>> chat action failed:", err)
	}
	progress, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "Checking stock…"))
	if err != nil {
		log.Println("RESTOCK>> failed to open manual check:", err)
		return
	}

	// same serialized cycle as the scheduled triggers
	singleton.WatcherShared.RunCheck(model.CheckModeManual)

	last, err := singleton.LastCheck()
	if err != nil {
		log.Println("RESTOCK>> cannot read last check:", err)
		return
	}
	now := time.Now().In(singleton.Loc)
	b.send(tgbotapi.NewEditMessageText(msg.Chat.ID, progress.MessageID,
		manualResultText(last, b.conf, now)))
}

func (b *Bot) info(msg *tgbotapi.Message) {
	mem, err := singleton.GetMemory()
	if err != nil {
		log.Println("RESTOCK>> cannot read status memory:", err)
		b.reply(msg, "Store unavailable, try again shortly.")
		return
	}
	stats, err := singleton.StatsLast24h()
	if err != nil {
		log.Println("RESTOCK>> cannot read 24h stats:", err)
	}
	topLat, _ := singleton.TopHoursByLatency(7, 3)
	topRes, _ := singleton.TopHoursByRestocks(30, 3)

	settings := singleton.GetSettings()
	b.reply(msg, buildInfoText(infoData{
		Conf:     b.conf,
		Premium:  singleton.IsPremium(msg.From.ID),
		Memory:   mem,
		Peak:     settings.PeakEnabled,
		Silent:   settings.SilentEnabled,
		PeakNow:  model.IsPeakTime(time.Now().In(singleton.Loc)),
		LastMode: singleton.WatcherShared.LastMode(),
		Stats:    stats,
		TopLat:   topLat,
		TopRes:   topRes,
	}))
}

func (b *Bot) togglePeak(msg *tgbotapi.Message) {
	if !singleton.IsPremium(msg.From.ID) {
		b.premiumLocked(msg, "Peak mode")
		return
	}
	b.reply(msg, peakToggleText(singleton.TogglePeak(), b.conf))
}

func (b *Bot) toggleSilent(msg *tgbotapi.Message) {
	if !singleton.IsPremium(msg.From.ID) {
		b.premiumLocked(msg, "Silent mode")
		return
	}
	b.reply(msg, silentToggleText(singleton.ToggleSilent()))
}

func (b *Bot) premiumLocked(msg *tgbotapi.Message, feature string) {
	b.reply(msg, premiumLockedText(feature))
}

func (b *Bot) adminPremium(msg *tgbotapi.Message, op func(int64) bool, okText, noopText string) {
	if !b.conf.IsAdmin(msg.From.ID) {
		b.reply(msg, "Admins only.")
		return
	}
	arg := strings.TrimSpace(msg.CommandArguments())
	target, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		b.reply(msg, fmt.Sprintf("Usage: /%s <user_id>", msg.Command()))
		return
	}
	if op(target) {
		b.reply(msg, fmt.Sprintf(okText, target))
	} else {
		b.reply(msg, fmt.Sprintf(noopText, target))
	}
}

func (b *Bot) premiumList(msg *tgbotapi.Message) {
	if !b.conf.IsAdmin(msg.From.ID) {
		b.reply(msg, "Admins only.")
		return
	}
	ids := singleton.ListPremium()
	if len(ids) == 0 {
		b.reply(msg, "No premium users yet.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Premium users\n")
	for _, id := range ids {
		fmt.Fprintf(&sb, "  %d\n", id)
	}
	b.reply(msg, strings.TrimRight(sb.String(), "\n"))
}

// reply sends text with the per-user keyboard attached.
func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyMarkup = b.keyboard(msg.From.ID)
	b.send(out)
}

func (b *Bot) keyboard(userID int64) tgbotapi.ReplyKeyboardMarkup {
	settings := singleton.GetSettings()
	labels := keyboardLabels(singleton.IsPremium(userID),
		settings.PeakEnabled, settings.SilentEnabled, b.conf)

	rows := make([][]tgbotapi.KeyboardButton, 0, len(labels))
	for _, row := range labels {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Println("RESTOCK>> send failed:", err)
	}
}
