package printtemplate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"odinpos/infrastructure/apperr"
	"odinpos/infrastructure/kv"
)

// Keys under which the collections are persisted.
const (
	TemplatesKey = "odin_print_templates"
	OverridesKey = "odin_print_template_overrides"
)

const copySuffix = " (Copia)"

// Store persists templates and overrides as JSON arrays through a kv.Store.
// Every mutation rewrites the whole collection.
type Store struct {
	kv    kv.Store
	now   func() time.Time
	newID func() string

	mu sync.Mutex
}

type StoreOption func(*Store)

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewStore(store kv.Store, opts ...StoreOption) *Store {
	s := &Store{
		kv:    store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListTemplates returns every stored template, seeding one default per kind
// when the collection is missing or empty.
func (s *Store) ListTemplates(ctx context.Context) ([]Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSeeded(ctx)
}

func (s *Store) GetTemplate(ctx context.Context, id string) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadSeeded(ctx)
	if err != nil {
		return Template{}, err
	}
	idx := indexOfTemplate(all, id)
	if idx < 0 {
		return Template{}, notFound(id)
	}
	return all[idx], nil
}

// CreateTemplate stores a new non-default template built from d.
func (s *Store) CreateTemplate(ctx context.Context, d Draft) (Template, error) {
	if !d.Kind.Valid() {
		return Template{}, validationErr([]Issue{{Code: IssueInvalidKind, Message: fmt.Sprintf("unknown template kind %q", d.Kind)}})
	}
	if d.PaperWidth == 0 {
		d.PaperWidth = Paper80
	}
	if !d.PaperWidth.Valid() {
		return Template{}, validationErr([]Issue{{Code: IssueInvalidPaperWidth, Message: fmt.Sprintf("paper width %dmm is not supported", d.PaperWidth)}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadSeeded(ctx)
	if err != nil {
		return Template{}, err
	}

	blocks := SortByOrder(d.Blocks)
	for i := range blocks {
		if blocks[i].ID == "" {
			blocks[i].ID = s.newID()
		}
	}
	Renumber(blocks)
	if blocks == nil {
		blocks = []Block{}
	}

	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = d.Kind.Label()
	}
	now := s.now()
	t := Template{
		ID:         s.newID(),
		Name:       name,
		Kind:       d.Kind,
		PaperWidth: d.PaperWidth,
		Blocks:     blocks,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.storeTemplates(ctx, append(all, t)); err != nil {
		return Template{}, err
	}
	return t, nil
}

// SaveTemplate overwrites an existing template after validation. The
// default flag and creation time of the stored record are kept and the
// kind cannot change, so each kind keeps exactly one default.
func (s *Store) SaveTemplate(ctx context.Context, t Template) (Template, error) {
	if res := Validate(t); !res.IsValid {
		return Template{}, validationErr(res.Errors)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadSeeded(ctx)
	if err != nil {
		return Template{}, err
	}
	idx := indexOfTemplate(all, t.ID)
	if idx < 0 {
		return Template{}, notFound(t.ID)
	}

	prev := all[idx]
	if t.Kind != prev.Kind {
		return Template{}, validationErr([]Issue{{
			Code:    IssueKindChanged,
			Message: fmt.Sprintf("template kind cannot change from %q to %q", prev.Kind, t.Kind),
		}})
	}
	saved := t.Clone()
	saved.Blocks = SortByOrder(saved.Blocks)
	Renumber(saved.Blocks)
	saved.IsDefault = prev.IsDefault
	saved.CreatedAt = prev.CreatedAt
	saved.Version = prev.Version + 1
	saved.UpdatedAt = s.now()
	all[idx] = saved

	if err := s.storeTemplates(ctx, all); err != nil {
		return Template{}, err
	}
	return saved, nil
}

// DuplicateTemplate copies the template with id under a new id, with fresh
// block ids and no default flag. An empty newName yields "<name> (Copia)".
func (s *Store) DuplicateTemplate(ctx context.Context, id, newName string) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadSeeded(ctx)
	if err != nil {
		return Template{}, err
	}
	idx := indexOfTemplate(all, id)
	if idx < 0 {
		return Template{}, notFound(id)
	}

	src := all[idx]
	name := strings.TrimSpace(newName)
	if name == "" {
		name = src.Name + copySuffix
	}
	now := s.now()
	dup := Template{
		ID:         s.newID(),
		Name:       name,
		Kind:       src.Kind,
		PaperWidth: src.PaperWidth,
		Blocks:     WithFreshIDs(src.Blocks, s.newID),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.storeTemplates(ctx, append(all, dup)); err != nil {
		return Template{}, err
	}
	return dup, nil
}

// DeleteTemplate removes a non-default template and its override.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadSeeded(ctx)
	if err != nil {
		return err
	}
	idx := indexOfTemplate(all, id)
	if idx < 0 {
		return notFound(id)
	}
	if all[idx].IsDefault {
		return apperr.New(apperr.CodeInvalidOperation, "no se puede eliminar la plantilla predeterminada").
			WithDetails(map[string]any{"templateId": id})
	}

	// Drop the override first: if that write fails the template is untouched.
	overrides, err := s.loadOverrides(ctx)
	if err != nil {
		return err
	}
	if i := indexOfOverride(overrides, id); i >= 0 {
		overrides = append(overrides[:i:i], overrides[i+1:]...)
		if err := s.storeOverrides(ctx, overrides); err != nil {
			return err
		}
	}

	rest := append(all[:idx:idx], all[idx+1:]...)
	return s.storeTemplates(ctx, rest)
}

// SetDefaultTemplate makes id the default of its kind.
func (s *Store) SetDefaultTemplate(ctx context.Context, id string) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadSeeded(ctx)
	if err != nil {
		return Template{}, err
	}
	idx := indexOfTemplate(all, id)
	if idx < 0 {
		return Template{}, notFound(id)
	}
	kind := all[idx].Kind
	now := s.now()
	for i := range all {
		if all[i].Kind != kind {
			continue
		}
		want := i == idx
		if all[i].IsDefault != want {
			all[i].IsDefault = want
			all[i].UpdatedAt = now
		}
	}
	if err := s.storeTemplates(ctx, all); err != nil {
		return Template{}, err
	}
	return all[idx], nil
}

// ResetAll drops both collections; the next read seeds defaults again.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, TemplatesKey); err != nil {
		return fmt.Errorf("remove templates: %w", err)
	}
	if err := s.kv.Remove(ctx, OverridesKey); err != nil {
		return fmt.Errorf("remove overrides: %w", err)
	}
	return nil
}

func (s *Store) ListOverrides(ctx context.Context) ([]Override, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOverrides(ctx)
}

func (s *Store) GetOverride(ctx context.Context, templateID string) (Override, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overrides, err := s.loadOverrides(ctx)
	if err != nil {
		return Override{}, false, err
	}
	if i := indexOfOverride(overrides, templateID); i >= 0 {
		return overrides[i], true, nil
	}
	return Override{}, false, nil
}

// SaveOverride inserts or replaces the override for o.TemplateID, which
// must name an existing template.
func (s *Store) SaveOverride(ctx context.Context, o Override) (Override, error) {
	if err := o.check(); err != nil {
		return Override{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadSeeded(ctx)
	if err != nil {
		return Override{}, err
	}
	if indexOfTemplate(all, o.TemplateID) < 0 {
		return Override{}, notFound(o.TemplateID)
	}

	overrides, err := s.loadOverrides(ctx)
	if err != nil {
		return Override{}, err
	}
	o.UpdatedAt = s.now()
	if i := indexOfOverride(overrides, o.TemplateID); i >= 0 {
		overrides[i] = o
	} else {
		overrides = append(overrides, o)
	}
	if err := s.storeOverrides(ctx, overrides); err != nil {
		return Override{}, err
	}
	return o, nil
}

func (s *Store) RemoveOverride(ctx context.Context, templateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	overrides, err := s.loadOverrides(ctx)
	if err != nil {
		return err
	}
	i := indexOfOverride(overrides, templateID)
	if i < 0 {
		return apperr.Newf(apperr.CodeNotFound, "override for %q not found", templateID)
	}
	overrides = append(overrides[:i:i], overrides[i+1:]...)
	return s.storeOverrides(ctx, overrides)
}

// ResolveTemplate returns the template with id and its override applied.
func (s *Store) ResolveTemplate(ctx context.Context, id string) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadSeeded(ctx)
	if err != nil {
		return Template{}, err
	}
	idx := indexOfTemplate(all, id)
	if idx < 0 {
		return Template{}, notFound(id)
	}
	overrides, err := s.loadOverrides(ctx)
	if err != nil {
		return Template{}, err
	}
	if i := indexOfOverride(overrides, id); i >= 0 {
		return ApplyOverride(all[idx], overrides[i]), nil
	}
	return all[idx], nil
}

func (s *Store) loadSeeded(ctx context.Context) ([]Template, error) {
	all, err := s.loadTemplates(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > 0 {
		return all, nil
	}
	seeded := DefaultTemplates(s.now(), s.newID)
	if err := s.storeTemplates(ctx, seeded); err != nil {
		return nil, err
	}
	return seeded, nil
}

func (s *Store) loadTemplates(ctx context.Context) ([]Template, error) {
	raw, ok, err := s.kv.Get(ctx, TemplatesKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeNotFound, err, "no se pudieron cargar las plantillas")
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var out []Template
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "decode templates")
	}
	return out, nil
}

func (s *Store) storeTemplates(ctx context.Context, all []Template) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "encode templates")
	}
	if err := s.kv.Set(ctx, TemplatesKey, string(raw)); err != nil {
		return apperr.Wrap(apperr.CodeNotFound, err, "no se pudieron guardar las plantillas")
	}
	return nil
}

func (s *Store) loadOverrides(ctx context.Context) ([]Override, error) {
	raw, ok, err := s.kv.Get(ctx, OverridesKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeNotFound, err, "no se pudieron cargar las personalizaciones")
	}
	if !ok || raw == "" {
		return []Override{}, nil
	}
	var out []Override
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "decode overrides")
	}
	return out, nil
}

func (s *Store) storeOverrides(ctx context.Context, all []Override) error {
	if all == nil {
		all = []Override{}
	}
	raw, err := json.Marshal(all)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "encode overrides")
	}
	if err := s.kv.Set(ctx, OverridesKey, string(raw)); err != nil {
		return apperr.Wrap(apperr.CodeNotFound, err, "no se pudieron guardar las personalizaciones")
	}
	return nil
}

func indexOfTemplate(all []Template, id string) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfOverride(all []Override, templateID string) int {
	for i := range all {
		if all[i].TemplateID == templateID {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return apperr.Newf(apperr.CodeNotFound, "plantilla %q no encontrada", id).
		WithDetails(map[string]any{"templateId": id})
}

func validationErr(issues []Issue) error {
	return apperr.New(apperr.CodeValidation, "la plantilla no es válida").WithDetails(issues)
}
