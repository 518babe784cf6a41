// Package editor is the admin-side configuration editor: a modal state machine
// over a draft variant, plus the list view of all variants. It talks to the
// server only through Repository.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/modules/hero/invariant"
	"github.com/yungbote/storefront-admin/internal/modules/hero/preview"
	"github.com/yungbote/storefront-admin/internal/modules/hero/validation"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

// Repository is the remote store of variants.
type Repository interface {
	ListVariants(ctx context.Context) ([]hero.Variant, error)
	CreateVariant(ctx context.Context, v hero.Variant) (*hero.Variant, error)
	UpdateVariant(ctx context.Context, key string, patch hero.Patch) (*hero.Variant, error)
	DeleteVariant(ctx context.Context, key string) error
	SetActiveVariant(ctx context.Context, key string) error
}

type ImageUploader interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

type LookupResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type ProductLookup interface {
	SearchProducts(ctx context.Context, query string) ([]LookupResult, error)
}

type CategoryLookup interface {
	SearchCategories(ctx context.Context, query string) ([]LookupResult, error)
}

var (
	ErrWriteInFlight     = errors.New("another write is in flight")
	ErrNotDrafting       = errors.New("editor is not open")
	ErrKeyImmutable      = errors.New("variant key cannot be changed after creation")
	ErrUnknownField      = errors.New("unknown field")
	ErrNotConfirmed      = errors.New("deletion not confirmed")
	ErrLimitReached      = errors.New("limit reached")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrLookupUnavailable = errors.New("lookup is not configured")
)

type State string

const (
	StateIdle       State = "idle"
	StateDrafting   State = "drafting"
	StateSubmitting State = "submitting"
)

type Tab string

const (
	TabBasic    Tab = "basic"
	TabContent  Tab = "content"
	TabAdvanced Tab = "advanced"
)

func (t Tab) valid() bool {
	return t == TabBasic || t == TabContent || t == TabAdvanced
}

type Options struct {
	Uploader   ImageUploader
	Products   ProductLookup
	Categories CategoryLookup
	Log        *logger.Logger
}

// Editor is safe for concurrent use. The lock is never held across a call to
// the Repository, so the list view stays readable while a write is pending.
type Editor struct {
	repo       Repository
	uploader   ImageUploader
	products   ProductLookup
	categories CategoryLookup
	log        *logger.Logger

	mu         sync.Mutex
	state      State
	tab        Tab
	editingKey string
	draft      Draft
	errs       map[string]string
	collection []hero.Variant
	stale      bool
	inFlight   bool
	discard    bool
}

func New(repo Repository, opts Options) *Editor {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Editor{
		repo:       repo,
		uploader:   opts.Uploader,
		products:   opts.Products,
		categories: opts.Categories,
		log:        log.With("component", "HeroEditor"),
		state:      StateIdle,
		tab:        TabBasic,
		errs:       map[string]string{},
		stale:      true,
	}
}

// Refresh replaces the cached collection with the server's list.
func (e *Editor) Refresh(ctx context.Context) error {
	list, err := e.repo.ListVariants(ctx)
	if err != nil {
		e.log.Warn("list variants failed", "error", err)
		return err
	}
	coll := make([]hero.Variant, len(list))
	for i := range list {
		coll[i] = list[i].Clone()
	}
	e.mu.Lock()
	e.collection = coll
	e.stale = false
	e.mu.Unlock()
	return nil
}

func (e *Editor) Collection() []hero.Variant {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]hero.Variant, len(e.collection))
	for i := range e.collection {
		out[i] = e.collection[i].Clone()
	}
	return out
}

// Stale reports whether the cached collection predates the last successful
// write.
func (e *Editor) Stale() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stale
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Editor) Tab() Tab {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tab
}

func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.clone()
}

// EditingKey is the key of the record being edited, or "" in create mode.
func (e *Editor) EditingKey() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editingKey
}

// KeyEditable is false while editing an existing record.
func (e *Editor) KeyEditable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editingKey == ""
}

func (e *Editor) Errors() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.errs))
	for k, v := range e.errs {
		out[k] = v
	}
	return out
}

// SubmitEnabled reports whether the submit control should be clickable.
func (e *Editor) SubmitEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateDrafting && !e.inFlight
}

func (e *Editor) open(key string, d Draft) error {
	if e.state == StateSubmitting {
		return ErrWriteInFlight
	}
	e.state = StateDrafting
	e.tab = TabBasic
	e.editingKey = key
	e.draft = d
	e.errs = map[string]string{}
	return nil
}

// OpenCreate opens the modal with an empty draft.
func (e *Editor) OpenCreate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open("", Draft{})
}

// OpenEdit opens the modal on a copy of the cached record with the given key.
func (e *Editor) OpenEdit(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := hero.FindByKey(e.collection, key)
	if idx < 0 {
		return fmt.Errorf("%w: %q", hero.ErrNotFound, key)
	}
	return e.open(key, DraftFromVariant(e.collection[idx]))
}

// Cancel closes the modal and discards the draft. A write already sent is not
// aborted; its outcome no longer reopens the modal.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateSubmitting {
		e.discard = true
	}
	e.reset()
}

func (e *Editor) reset() {
	e.state = StateIdle
	e.tab = TabBasic
	e.editingKey = ""
	e.draft = Draft{}
	e.errs = map[string]string{}
}

func (e *Editor) SetTab(tab Tab) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateDrafting {
		return ErrNotDrafting
	}
	if !tab.valid() {
		return fmt.Errorf("unknown tab %q", tab)
	}
	e.tab = tab
	return nil
}

// Change sets a scalar field. Editing a field clears its error until the next
// blur or submit.
func (e *Editor) Change(field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateDrafting {
		return ErrNotDrafting
	}
	if field == validation.FieldVariantKey && e.editingKey != "" {
		return ErrKeyImmutable
	}
	if !e.draft.set(field, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	delete(e.errs, field)
	return nil
}

// Blur validates one field and records the result. It returns the message,
// "" when the field is valid.
func (e *Editor) Blur(field string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateDrafting {
		return ""
	}
	value, ok := e.draft.Value(field)
	if !ok {
		return ""
	}
	msg := validation.ValidateField(field, value)
	if msg == "" {
		delete(e.errs, field)
	} else {
		e.errs[field] = msg
	}
	return msg
}

func (e *Editor) SetActive(active bool) error {
	return e.mutate(func(d *Draft) error {
		d.IsActive = active
		return nil
	})
}

func (e *Editor) mutate(fn func(d *Draft) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateDrafting {
		return ErrNotDrafting
	}
	return fn(&e.draft)
}

// Submit validates the draft and writes it. On success the modal closes, the
// cached list is marked stale and re-fetched. On failure the modal stays open
// with the draft intact.
func (e *Editor) Submit(ctx context.Context) (*hero.Variant, error) {
	e.mu.Lock()
	if e.state == StateSubmitting || e.inFlight {
		e.mu.Unlock()
		return nil, ErrWriteInFlight
	}
	if e.state != StateDrafting {
		e.mu.Unlock()
		return nil, ErrNotDrafting
	}

	editing := e.editingKey
	errs := validation.ValidateForm(e.draft.Form())
	if editing != "" {
		// The stored key cannot change, so its format is not re-checked.
		delete(errs, validation.FieldVariantKey)
	}
	if len(errs) == 0 {
		errs = validation.ValidateCollections(e.draft.Normalize())
	}
	if len(errs) > 0 {
		for k, v := range errs {
			e.errs[k] = v
		}
		e.mu.Unlock()
		return nil, &hero.ValidationError{Fields: errs}
	}

	rec := e.draft.Normalize()
	if editing != "" {
		rec.VariantKey = editing
	}
	for i := range e.collection {
		if e.collection[i].VariantKey == rec.VariantKey && e.collection[i].VariantKey != editing {
			e.errs[validation.FieldVariantKey] = "A variant with this key already exists"
			e.mu.Unlock()
			return nil, fmt.Errorf("%w: %q", hero.ErrDuplicateKey, rec.VariantKey)
		}
	}

	e.state = StateSubmitting
	e.inFlight = true
	e.discard = false
	e.mu.Unlock()

	var (
		saved *hero.Variant
		err   error
	)
	if editing == "" {
		saved, err = e.repo.CreateVariant(ctx, rec)
	} else {
		saved, err = e.repo.UpdateVariant(ctx, editing, hero.PatchFrom(rec))
	}

	e.mu.Lock()
	e.inFlight = false
	discarded := e.discard
	e.discard = false
	if err != nil {
		if !discarded {
			e.state = StateDrafting
		}
		e.mu.Unlock()
		e.log.Warn("save variant failed", "key", rec.VariantKey, "create", editing == "", "error", err)
		return nil, err
	}
	if !discarded {
		e.reset()
	}
	e.stale = true
	e.mu.Unlock()

	if rerr := e.Refresh(ctx); rerr != nil {
		e.log.Warn("refresh after save failed", "key", rec.VariantKey, "error", rerr)
	}
	return saved, nil
}

// Delete removes an inactive variant after confirm approves it. A nil confirm
// counts as declined.
func (e *Editor) Delete(ctx context.Context, key string, confirm func(hero.Variant) bool) error {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrWriteInFlight
	}
	if err := invariant.CanDelete(e.collection, key); err != nil {
		e.mu.Unlock()
		return err
	}
	target := e.collection[hero.FindByKey(e.collection, key)].Clone()
	e.mu.Unlock()

	if confirm == nil || !confirm(target) {
		return ErrNotConfirmed
	}
	return e.write(ctx, "delete", key, func() error { return e.repo.DeleteVariant(ctx, key) })
}

// Activate makes key the only active variant.
func (e *Editor) Activate(ctx context.Context, key string) error {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrWriteInFlight
	}
	idx := hero.FindByKey(e.collection, key)
	if idx < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: %q", hero.ErrNotFound, key)
	}
	e.mu.Unlock()
	return e.write(ctx, "activate", key, func() error { return e.repo.SetActiveVariant(ctx, key) })
}

func (e *Editor) write(ctx context.Context, op, key string, call func() error) error {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrWriteInFlight
	}
	e.inFlight = true
	e.mu.Unlock()

	err := call()

	e.mu.Lock()
	e.inFlight = false
	if err == nil {
		e.stale = true
	}
	e.mu.Unlock()

	if err != nil {
		e.log.Warn(op+" variant failed", "key", key, "error", err)
		if errors.Is(err, hero.ErrNotFound) {
			_ = e.Refresh(ctx)
		}
		return err
	}
	if rerr := e.Refresh(ctx); rerr != nil {
		e.log.Warn("refresh after "+op+" failed", "key", key, "error", rerr)
	}
	return nil
}

// Preview renders a cached record.
func (e *Editor) Preview(key string, mode preview.Viewport) (preview.Rendering, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := hero.FindByKey(e.collection, key)
	if idx < 0 {
		return preview.Rendering{}, fmt.Errorf("%w: %q", hero.ErrNotFound, key)
	}
	return preview.Render(e.collection[idx], mode), nil
}

// PreviewDraft renders the open draft as it would be saved.
func (e *Editor) PreviewDraft(mode preview.Viewport) (preview.Rendering, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateIdle {
		return preview.Rendering{}, ErrNotDrafting
	}
	rec := e.draft.Normalize()
	if e.editingKey != "" {
		rec.VariantKey = e.editingKey
	}
	return preview.Render(rec, mode), nil
}

// UploadBackground uploads an image and stores the resulting URL in the
// backgroundImage field of the open draft.
func (e *Editor) UploadBackground(ctx context.Context, filename string, r io.Reader) (string, error) {
	url, err := e.UploadImage(ctx, filename, r)
	if err != nil {
		return "", err
	}
	if err := e.Change(validation.FieldBackgroundImage, url); err != nil {
		return "", err
	}
	return url, nil
}

func (e *Editor) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if e.uploader == nil {
		return "", ErrLookupUnavailable
	}
	url, err := e.uploader.UploadImage(ctx, filename, r)
	if err != nil {
		e.log.Warn("upload image failed", "filename", filename, "error", err)
		return "", err
	}
	return url, nil
}

func (e *Editor) SearchProducts(ctx context.Context, query string) ([]LookupResult, error) {
	if e.products == nil {
		return nil, ErrLookupUnavailable
	}
	return e.products.SearchProducts(ctx, strings.TrimSpace(query))
}

func (e *Editor) SearchCategories(ctx context.Context, query string) ([]LookupResult, error) {
	if e.categories == nil {
		return nil, ErrLookupUnavailable
	}
	return e.categories.SearchCategories(ctx, strings.TrimSpace(query))
}
