package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"daily-menu/config"
	"daily-menu/menutree"
	"daily-menu/metrics"
	"daily-menu/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// botAPI is the part of *tgbotapi.BotAPI the editor uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Store keeps drafts between restarts and receives published menus.
type Store interface {
	LoadDraft(ctx context.Context, adminID int64) ([]byte, bool, error)
	SaveDraft(ctx context.Context, adminID int64, snapshot []byte) error
	DeleteDraft(ctx context.Context, adminID int64) error
	Publish(ctx context.Context, days []models.DayMenu, publishedBy int64) error
}

// Editor is the Telegram admin bot that edits the daily menus. Every admin
// gets an own session with its own undo history.
type Editor struct {
	api     botAPI
	store   Store
	admins  map[int64]bool
	log     *zap.SugaredLogger
	metrics *metrics.Editor
	images  *imageFetcher

	historyLimit int
	now          func() time.Time
	treeOpts     []menutree.Option

	mu       sync.Mutex
	sessions map[int64]*session
}

// New creates the editor using TOKEN. Only ADMIN_IDS are served.
func New(cfg *config.Config, store Store, log *zap.SugaredLogger, m *metrics.Editor) (*Editor, error) {
	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("TOKEN not set")
	}
	if len(cfg.Telegram.AdminIDs) == 0 {
		return nil, fmt.Errorf("ADMIN_IDS not set")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	log.Infow("authorized on telegram", "bot", api.Self.UserName)
	return newEditor(api, store, log, m, cfg.Telegram.AdminIDs, cfg.Editor), nil
}

func newEditor(api botAPI, store Store, log *zap.SugaredLogger, m *metrics.Editor, adminIDs []int64, ec config.EditorConfig) *Editor {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &Editor{
		api:          api,
		store:        store,
		admins:       admins,
		log:          log,
		metrics:      m,
		images:       newImageFetcher(api, ec.ImageMaxBytes),
		historyLimit: ec.HistoryLimit,
		now:          time.Now,
		sessions:     make(map[int64]*session),
	}
}

// Start consumes updates until ctx is cancelled.
func (e *Editor) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := e.api.GetUpdatesChan(u)
	e.log.Infow("menu editor started", "admins", len(e.admins))

	for {
		select {
		case <-ctx.Done():
			e.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			e.handleUpdate(ctx, update)
		}
	}
}

func (e *Editor) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.From == nil || !e.admins[cq.From.ID] {
			e.answer(cq.ID, "⛔ Not allowed")
			return
		}
		e.handleCallback(ctx, cq)
		return
	}
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !e.admins[msg.From.ID] {
		e.send(msg.Chat.ID, "🔒 This bot is for menu admins only.")
		return
	}
	e.handleMessage(ctx, msg)
}

const draftUnavailable = "❌ Could not load your saved draft. Please try again in a moment."

// session returns the admin's session, loading the saved draft the first
// time. A draft that no longer validates is dropped. When the store fails
// nothing is cached, so the next update retries and the stored draft is
// never overwritten by an empty tree.
func (e *Editor) session(ctx context.Context, adminID int64) (*session, error) {
	e.mu.Lock()
	s, ok := e.sessions[adminID]
	e.mu.Unlock()
	if ok {
		return s, nil
	}

	root, err := e.loadDraft(ctx, adminID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.sessions[adminID]; ok {
		return s, nil
	}
	s = &session{history: menutree.NewHistory(root.Rollover(), e.historyLimit)}
	e.sessions[adminID] = s
	e.metrics.Sessions.Inc()
	return s, nil
}

func (e *Editor) loadDraft(ctx context.Context, adminID int64) (*menutree.Tree, error) {
	data, ok, err := e.store.LoadDraft(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return e.newTree(), nil
	}
	tr, err := menutree.Restore(data, e.opts()...)
	if err != nil {
		e.log.Warnw("discarding invalid draft", "admin_id", adminID, "error", err)
		return e.newTree(), nil
	}
	return tr, nil
}

// rollover moves a session that outlived its day onto the current date.
// Undo history does not cross days.
func (e *Editor) rollover(ctx context.Context, adminID int64, s *session) {
	rolled := s.tree().Rollover()
	if rolled == s.tree() {
		return
	}
	s.history.Reset(rolled)
	e.saveDraft(ctx, adminID, rolled)
}

func (e *Editor) opts() []menutree.Option {
	return append([]menutree.Option{menutree.WithClock(e.now)}, e.treeOpts...)
}

func (e *Editor) newTree() *menutree.Tree {
	return menutree.New(e.opts()...)
}

func (e *Editor) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID, adminID := msg.Chat.ID, msg.From.ID
	text := strings.TrimSpace(msg.Text)

	s, err := e.session(ctx, adminID)
	if err != nil {
		e.log.Errorw("open session", "admin_id", adminID, "error", err)
		e.send(chatID, draftUnavailable)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.rollover(ctx, adminID, s)

	var notice string
	switch {
	case text == "/start":
		s.prompt = prompt{}
	case text == "/cancel":
		if s.prompt.kind != promptNone {
			notice = "Cancelled."
		}
		s.prompt = prompt{}
	case commandCallbacks[text] != (callback{}):
		notice = e.dispatch(ctx, adminID, s, commandCallbacks[text])
	case len(msg.Photo) > 0 || msg.Document != nil:
		notice = e.attachImage(ctx, adminID, s, msg)
	case s.prompt.kind != promptNone:
		notice = e.answerPrompt(ctx, adminID, s, text)
	}

	s.cursor = s.cursor.resolve(s.tree())
	v := e.screen(s)
	if notice != "" {
		v.text = notice + "\n\n" + v.text
	}
	e.sendView(chatID, v)
}

func (e *Editor) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	cb, ok := parseCallback(cq.Data)
	if !ok {
		e.answer(cq.ID, "")
		return
	}

	s, err := e.session(ctx, cq.From.ID)
	if err != nil {
		e.log.Errorw("open session", "admin_id", cq.From.ID, "error", err)
		e.answer(cq.ID, draftUnavailable)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.rollover(ctx, cq.From.ID, s)

	notice := e.dispatch(ctx, cq.From.ID, s, cb)
	s.cursor = s.cursor.resolve(s.tree())
	e.answer(cq.ID, notice)
	if cq.Message == nil {
		return
	}
	e.editView(cq.Message.Chat.ID, cq.Message.MessageID, e.screen(s))
}

// dispatch runs cb against the session and returns a short notice for the
// admin. It is empty when the new view speaks for itself.
func (e *Editor) dispatch(ctx context.Context, adminID int64, s *session, cb callback) string {
	s.prompt = prompt{}
	c := s.cursor.resolve(s.tree())

	switch cb.verb {
	case verbHome:
		s.cursor = cursor{}
	case verbDay:
		s.cursor = cursor{dayID: cb.arg}
	case verbAddDay:
		s.prompt = prompt{kind: promptDate}
	case verbRemoveDay:
		ok, notice := e.apply(ctx, adminID, s, menutree.Edit{Op: menutree.OpRemoveDay, DayID: c.dayID})
		if !ok {
			return notice
		}
		s.cursor = cursor{}
		return "🗑 Day removed."
	case verbAddShift:
		typ := models.ShiftType(cb.arg)
		ok, notice := e.apply(ctx, adminID, s, menutree.Edit{Op: menutree.OpAddShift, DayID: c.dayID, Shift: typ})
		if !ok {
			return notice
		}
		d, _ := s.tree().Day(c.dayID)
		if sh, found := d.ShiftOf(typ); found {
			s.cursor = cursor{dayID: c.dayID, shiftID: sh.ID}
		}
	case verbOpenShift:
		s.cursor = cursor{dayID: c.dayID, shiftID: cb.arg}
	case verbAddVariant:
		ok, notice := e.apply(ctx, adminID, s, menutree.Edit{Op: menutree.OpAddVariant, DayID: c.dayID, ShiftID: c.shiftID})
		if !ok {
			return notice
		}
		if sh, found := s.tree().Shift(c.dayID, c.shiftID); found {
			c.variantID = sh.Variants[len(sh.Variants)-1].ID
			s.cursor = c
		}
	case verbOpenVariant:
		s.cursor = cursor{dayID: c.dayID, shiftID: c.shiftID, variantID: cb.arg}
	case verbDishName:
		s.prompt = prompt{kind: promptDishName}
	case verbPrice:
		s.prompt = prompt{kind: promptPrice}
	case verbImage:
		s.prompt = prompt{kind: promptImage}
	case verbClearImage:
		if ok, notice := e.apply(ctx, adminID, s, variantEdit(c, menutree.FieldImage, "")); !ok {
			return notice
		}
	case verbItem:
		s.prompt = prompt{kind: promptItemText, itemID: cb.arg}
	case verbAddItem:
		ok, notice := e.apply(ctx, adminID, s, menutree.Edit{
			Op: menutree.OpAddMenuItem, DayID: c.dayID, ShiftID: c.shiftID, VariantID: c.variantID,
		})
		if !ok {
			return notice
		}
		if v, found := s.tree().Variant(c.dayID, c.shiftID, c.variantID); found {
			s.prompt = prompt{kind: promptItemText, itemID: v.MenuItems[len(v.MenuItems)-1].ID}
		}
	case verbRemoveItem:
		if ok, notice := e.apply(ctx, adminID, s, menutree.Edit{
			Op: menutree.OpRemoveMenuItem, DayID: c.dayID, ShiftID: c.shiftID, VariantID: c.variantID, ItemID: cb.arg,
		}); !ok {
			return notice
		}
	case verbUp:
		s.cursor = c.up()
	case verbUndo:
		if _, ok := s.history.Undo(); !ok {
			return "Nothing to undo."
		}
		e.saveDraft(ctx, adminID, s.tree())
		return "↩️ Undone."
	case verbRedo:
		if _, ok := s.history.Redo(); !ok {
			return "Nothing to redo."
		}
		e.saveDraft(ctx, adminID, s.tree())
		return "↪️ Redone."
	case verbPublish:
		return e.publish(ctx, adminID, s)
	case verbDiscard:
		s.history.Reset(e.newTree())
		s.cursor = cursor{}
		if err := e.store.DeleteDraft(ctx, adminID); err != nil {
			e.log.Warnw("delete draft", "admin_id", adminID, "error", err)
		}
		return "🗑 Draft discarded."
	}
	return ""
}

func variantEdit(c cursor, field menutree.VariantField, value string) menutree.Edit {
	return menutree.Edit{
		Op:        menutree.OpSetVariantField,
		DayID:     c.dayID,
		ShiftID:   c.shiftID,
		VariantID: c.variantID,
		Field:     field,
		Value:     value,
	}
}

// answerPrompt handles free text typed while a prompt is open. The prompt
// stays open when the answer is rejected.
func (e *Editor) answerPrompt(ctx context.Context, adminID int64, s *session, text string) string {
	if text == "" {
		return "⚠️ Please send text."
	}
	c := s.cursor.resolve(s.tree())

	switch s.prompt.kind {
	case promptDate:
		if _, err := time.Parse(menutree.DateLayout, text); err != nil {
			return "⚠️ Send the date as YYYY-MM-DD."
		}
		if text < menutree.MinDate(e.now) {
			return "⚠️ The date cannot be in the past."
		}
		ok, notice := e.apply(ctx, adminID, s, menutree.Edit{Op: menutree.OpAddDay, Date: text})
		if !ok {
			return notice
		}
		if d, found := s.tree().DayByDate(text); found {
			s.cursor = cursor{dayID: d.ID}
		}
	case promptDishName:
		if ok, notice := e.apply(ctx, adminID, s, variantEdit(c, menutree.FieldDishName, text)); !ok {
			return notice
		}
	case promptPrice:
		price := strings.ReplaceAll(text, " ", "")
		if ok, notice := e.apply(ctx, adminID, s, variantEdit(c, menutree.FieldPrice, price)); !ok {
			return notice
		}
	case promptItemText:
		if ok, notice := e.apply(ctx, adminID, s, menutree.Edit{
			Op: menutree.OpSetMenuItemText, DayID: c.dayID, ShiftID: c.shiftID, VariantID: c.variantID,
			ItemID: s.prompt.itemID, Value: text,
		}); !ok {
			return notice
		}
	case promptImage:
		return "🖼 Send a photo, or /cancel."
	}
	s.prompt = prompt{}
	return "✅ Saved."
}

func (e *Editor) attachImage(ctx context.Context, adminID int64, s *session, msg *tgbotapi.Message) string {
	c := s.cursor.resolve(s.tree())
	if c.variantID == "" {
		return "🖼 Open a variant first, then send the photo."
	}
	fileID, ok := pickImageFile(msg, e.images.maxBytes)
	if !ok {
		return "⚠️ Only images can be attached."
	}
	data, err := e.images.fetch(ctx, fileID)
	if errors.Is(err, errImageTooLarge) {
		return fmt.Sprintf("⚠️ The image is larger than %d KB.", e.images.maxBytes>>10)
	}
	if err != nil {
		e.log.Errorw("fetch image", "admin_id", adminID, "file_id", fileID, "error", err)
		return "❌ Could not download the image, try again."
	}
	if ok, notice := e.apply(ctx, adminID, s, menutree.Edit{
		Op: menutree.OpAttachImage, DayID: c.dayID, ShiftID: c.shiftID, VariantID: c.variantID, Image: data,
	}); !ok {
		return notice
	}
	s.prompt = prompt{}
	return "✅ Image attached."
}

// apply runs a checked edit. Applied edits become the newest history entry
// and are saved as the admin's draft.
func (e *Editor) apply(ctx context.Context, adminID int64, s *session, edit menutree.Edit) (bool, string) {
	op := string(edit.Op)
	next, err := s.tree().Apply(edit)
	switch {
	case err == nil:
	case menutree.IsUserError(err):
		e.metrics.Edits.WithLabelValues(op, metrics.OutcomeRejected).Inc()
		e.log.Debugw("edit rejected", "admin_id", adminID, "op", op, "error", err)
		return false, describe(err)
	default:
		e.metrics.Edits.WithLabelValues(op, metrics.OutcomeFailed).Inc()
		e.log.Errorw("edit failed", "admin_id", adminID, "op", op, "error", err)
		return false, "❌ Something went wrong."
	}

	s.history.Push(next)
	e.metrics.Edits.WithLabelValues(op, metrics.OutcomeApplied).Inc()
	e.saveDraft(ctx, adminID, next)
	return true, ""
}

func (e *Editor) publish(ctx context.Context, adminID int64, s *session) string {
	days := s.tree().Days()
	if err := e.store.Publish(ctx, days, adminID); err != nil {
		e.metrics.Publishes.WithLabelValues(metrics.OutcomeFailed).Inc()
		e.log.Errorw("publish menus", "admin_id", adminID, "days", len(days), "error", err)
		return "❌ Publish failed, try again."
	}
	e.metrics.Publishes.WithLabelValues(metrics.OutcomeApplied).Inc()
	e.log.Infow("menus published", "admin_id", adminID, "days", len(days))
	return fmt.Sprintf("✅ Published %d day(s).", len(days))
}

func (e *Editor) saveDraft(ctx context.Context, adminID int64, tr *menutree.Tree) {
	data, err := json.Marshal(tr)
	if err != nil {
		e.log.Errorw("marshal draft", "admin_id", adminID, "error", err)
		return
	}
	if err := e.store.SaveDraft(ctx, adminID, data); err != nil {
		e.log.Warnw("save draft", "admin_id", adminID, "error", err)
	}
}

var userErrors = []error{
	menutree.ErrDuplicateDate,
	menutree.ErrInvalidDate,
	menutree.ErrDuplicateShift,
	menutree.ErrInvalidShiftType,
	menutree.ErrTodayPinned,
	menutree.ErrLastMenuItem,
	menutree.ErrInvalidPrice,
	menutree.ErrNotImage,
	menutree.ErrDayNotFound,
	menutree.ErrShiftNotFound,
	menutree.ErrVariantNotFound,
	menutree.ErrMenuItemNotFound,
}

// describe turns a rejected edit into a message without internal ids.
func describe(err error) string {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return "⚠️ " + target.Error()
		}
	}
	return "⚠️ " + err.Error()
}

func (e *Editor) screen(s *session) view {
	v := renderView(s.tree(), s.cursor, s.history.CanUndo(), s.history.CanRedo())
	if p := promptText(s.prompt, menutree.MinDate(e.now)); p != "" {
		v.text += "\n\n" + p
	}
	return v
}

func (e *Editor) send(chatID int64, text string) {
	if _, err := e.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		e.log.Warnw("send", "chat_id", chatID, "error", err)
	}
}

func (e *Editor) sendView(chatID int64, v view) {
	msg := tgbotapi.NewMessage(chatID, clip(v.text, maxMessageRunes))
	msg.ReplyMarkup = v.kb
	if _, err := e.api.Send(msg); err != nil {
		e.log.Warnw("send", "chat_id", chatID, "error", err)
	}
}

// editView redraws the message the callback came from. When the message can
// not be edited a fresh one is sent.
func (e *Editor) editView(chatID int64, messageID int, v view) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, clip(v.text, maxMessageRunes), v.kb)
	_, err := e.api.Send(edit)
	if err == nil || strings.Contains(err.Error(), "not modified") {
		return
	}
	e.log.Warnw("edit message", "chat_id", chatID, "message_id", messageID, "error", err)
	e.sendView(chatID, v)
}

func (e *Editor) answer(callbackID, text string) {
	if _, err := e.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		e.log.Debugw("answer callback", "error", err)
	}
}
