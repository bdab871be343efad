package printtemplate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"odinpos/infrastructure/apperr"
	"odinpos/infrastructure/kv"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestStore(t *testing.T) (*Store, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	clock := &testClock{now: fixedNow}
	n := 0
	store := NewStore(mem,
		WithClock(clock.Now),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%03d", n) }),
	)
	return store, mem
}

func findByKind(t *testing.T, all []Template, kind Kind) Template {
	t.Helper()
	for _, tpl := range all {
		if tpl.Kind == kind {
			return tpl
		}
	}
	t.Fatalf("no template of kind %s", kind)
	return Template{}
}

func TestListTemplatesSeedsDefaults(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()

	all, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(AllKinds))
	for _, kind := range AllKinds {
		tpl := findByKind(t, all, kind)
		require.True(t, tpl.IsDefault)
		require.Equal(t, kind.Label(), tpl.Name)
	}

	raw, ok, err := mem.Get(ctx, TemplatesKey)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted []Template
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Len(t, persisted, len(AllKinds))

	again, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	require.Equal(t, all, again)
}

func TestListTemplatesReseedsEmptyCollection(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, TemplatesKey, "[]"))

	all, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(AllKinds))
}

func TestListTemplatesCorruptPayload(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, TemplatesKey, "{not json"))

	_, err := store.ListTemplates(ctx)
	require.Error(t, err)
	require.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
}

func TestGetTemplateNotFound(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.GetTemplate(context.Background(), "nope")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateTemplate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	blank, err := store.CreateTemplate(ctx, Draft{Name: " Cocina 2 ", Kind: KindKitchenOrder})
	require.NoError(t, err)
	require.Equal(t, "Cocina 2", blank.Name)
	require.False(t, blank.IsDefault)
	require.Equal(t, Paper80, blank.PaperWidth)
	require.NotNil(t, blank.Blocks)
	require.Empty(t, blank.Blocks)

	withBlocks := blocksOf(BlockItems, BlockTotals)
	withBlocks[0].ID = ""
	withBlocks[0].Order, withBlocks[1].Order = 7, 3
	created, err := store.CreateTemplate(ctx, Draft{Kind: KindTicket, PaperWidth: Paper58, Blocks: withBlocks})
	require.NoError(t, err)
	require.Equal(t, "Ticket", created.Name)
	require.Equal(t, BlockTotals, created.Blocks[0].Kind)
	require.Equal(t, BlockItems, created.Blocks[1].Kind)
	requireDenseOrder(t, created.Blocks)
	require.NotEmpty(t, created.Blocks[1].ID)

	got, err := store.GetTemplate(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	_, err = store.CreateTemplate(ctx, Draft{Kind: "menu"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, err = store.CreateTemplate(ctx, Draft{Kind: KindTicket, PaperWidth: 72})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSaveTemplateRejectsInvalid(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	all, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	tpl := findByKind(t, all, KindTicket)
	idx := indexOfKind(tpl.Blocks, BlockTotals)
	tpl.Blocks = append(tpl.Blocks[:idx:idx], tpl.Blocks[idx+1:]...)
	Renumber(tpl.Blocks)

	_, err = store.SaveTemplate(ctx, tpl)
	require.ErrorIs(t, err, apperr.ErrValidation)
	issues, ok := apperr.As(err).Details().([]Issue)
	require.True(t, ok)
	require.Equal(t, []string{IssueMissingTotals}, issueCodes(issues))

	stored, err := store.GetTemplate(ctx, tpl.ID)
	require.NoError(t, err)
	require.NotEqual(t, -1, indexOfKind(stored.Blocks, BlockTotals))
}

func TestSaveTemplateKeepsIdentityAndBumpsVersion(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	all, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	tpl := findByKind(t, all, KindTicket)

	edited := tpl.Clone()
	edited.Name = "Ticket barra"
	edited.IsDefault = false
	edited.CreatedAt = time.Time{}
	edited.Blocks, err = MoveBlock(edited.Blocks, 0, 2)
	require.NoError(t, err)

	saved, err := store.SaveTemplate(ctx, edited)
	require.NoError(t, err)
	require.True(t, saved.IsDefault)
	require.Equal(t, tpl.CreatedAt, saved.CreatedAt)
	require.Equal(t, tpl.Version+1, saved.Version)
	require.True(t, saved.UpdatedAt.After(tpl.UpdatedAt))
	require.Equal(t, BlockHeader, saved.Blocks[2].Kind)

	missing := edited
	missing.ID = "ghost"
	_, err = store.SaveTemplate(ctx, missing)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDuplicateTemplate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	src, err := store.GetTemplate(ctx, DefaultTemplateID(KindTicket))
	require.NoError(t, err)

	dup, err := store.DuplicateTemplate(ctx, src.ID, "")
	require.NoError(t, err)
	require.Equal(t, "Ticket (Copia)", dup.Name)
	require.NotEqual(t, src.ID, dup.ID)
	require.False(t, dup.IsDefault)
	require.Len(t, dup.Blocks, len(src.Blocks))

	srcIDs := make(map[string]struct{})
	for _, b := range src.Blocks {
		srcIDs[b.ID] = struct{}{}
	}
	for i, b := range dup.Blocks {
		_, shared := srcIDs[b.ID]
		require.False(t, shared, "block %d reuses id %s", i, b.ID)
		require.Equal(t, src.Blocks[i].Kind, b.Kind)
	}

	named, err := store.DuplicateTemplate(ctx, src.ID, "Mesa VIP")
	require.NoError(t, err)
	require.Equal(t, "Mesa VIP", named.Name)

	_, err = store.DuplicateTemplate(ctx, "ghost", "")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteTemplate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.DeleteTemplate(ctx, DefaultTemplateID(KindInvoice))
	require.ErrorIs(t, err, apperr.ErrInvalidOperation)
	_, err = store.GetTemplate(ctx, DefaultTemplateID(KindInvoice))
	require.NoError(t, err)

	dup, err := store.DuplicateTemplate(ctx, DefaultTemplateID(KindInvoice), "")
	require.NoError(t, err)
	footer := "Promo de martes"
	_, err = store.SaveOverride(ctx, Override{TemplateID: dup.ID, CustomFooter: footer})
	require.NoError(t, err)

	require.NoError(t, store.DeleteTemplate(ctx, dup.ID))
	_, err = store.GetTemplate(ctx, dup.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, ok, err := store.GetOverride(ctx, dup.ID)
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, store.DeleteTemplate(ctx, dup.ID), apperr.ErrNotFound)
}

func TestSetDefaultTemplate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	dup, err := store.DuplicateTemplate(ctx, DefaultTemplateID(KindBarOrder), "Barra terraza")
	require.NoError(t, err)

	marked, err := store.SetDefaultTemplate(ctx, dup.ID)
	require.NoError(t, err)
	require.True(t, marked.IsDefault)

	all, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	defaults := 0
	for _, tpl := range all {
		if tpl.Kind == KindBarOrder && tpl.IsDefault {
			defaults++
			require.Equal(t, dup.ID, tpl.ID)
		}
	}
	require.Equal(t, 1, defaults)

	// the former default can now be deleted
	require.NoError(t, store.DeleteTemplate(ctx, DefaultTemplateID(KindBarOrder)))
}

func TestResetAllReseeds(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()

	_, err := store.DuplicateTemplate(ctx, DefaultTemplateID(KindTicket), "")
	require.NoError(t, err)
	require.NoError(t, store.ResetAll(ctx))
	require.Zero(t, mem.Len())

	all, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(AllKinds))
}

func TestOverridesResolve(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	base, err := store.GetTemplate(ctx, DefaultTemplateID(KindTicket))
	require.NoError(t, err)
	header := base.Blocks[0]

	name := "Ticket sucursal norte"
	width := Paper58
	_, err = store.SaveOverride(ctx, Override{
		TemplateID:     base.ID,
		Name:           &name,
		PaperWidth:     &width,
		HiddenBlockIDs: []string{header.ID, "unknown"},
		CustomFooter:   "Síguenos en redes",
	})
	require.NoError(t, err)

	resolved, err := store.ResolveTemplate(ctx, base.ID)
	require.NoError(t, err)
	require.Equal(t, name, resolved.Name)
	require.Equal(t, Paper58, resolved.PaperWidth)
	require.False(t, resolved.Blocks[0].Visible)
	last := resolved.Blocks[len(resolved.Blocks)-1]
	require.Equal(t, BlockCustomText, last.Kind)
	require.Equal(t, "Síguenos en redes", last.Content.Text)
	requireDenseOrder(t, resolved.Blocks)
	require.True(t, Validate(resolved).IsValid)

	stored, err := store.GetTemplate(ctx, base.ID)
	require.NoError(t, err)
	require.Equal(t, base, stored)

	list, err := store.ListOverrides(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, store.RemoveOverride(ctx, base.ID))
	require.ErrorIs(t, store.RemoveOverride(ctx, base.ID), apperr.ErrNotFound)

	plain, err := store.ResolveTemplate(ctx, base.ID)
	require.NoError(t, err)
	require.Equal(t, base, plain)
}

func TestSaveOverrideValidation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveOverride(ctx, Override{})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	bad := PaperWidth(99)
	_, err = store.SaveOverride(ctx, Override{TemplateID: DefaultTemplateID(KindTicket), PaperWidth: &bad})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = store.SaveOverride(ctx, Override{TemplateID: "ghost"})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }
func (f failingKV) Remove(context.Context, string) error              { return f.err }

func TestStorePortFailuresAreUserFacing(t *testing.T) {
	cause := errors.New("quota exceeded")
	store := NewStore(failingKV{err: cause})

	_, err := store.ListTemplates(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, cause)
	require.True(t, apperr.IsUserFacing(err))
}

func TestSaveTemplateRejectsKindChange(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	all, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	ticket := findByKind(t, all, KindTicket)
	ticket.Kind = KindInvoice

	_, err = store.SaveTemplate(ctx, ticket)
	require.ErrorIs(t, err, apperr.ErrValidation)
	issues, ok := apperr.As(err).Details().([]Issue)
	require.True(t, ok)
	require.Equal(t, []string{IssueKindChanged}, issueCodes(issues))

	all, err = store.ListTemplates(ctx)
	require.NoError(t, err)
	defaults := make(map[Kind]int)
	for _, tpl := range all {
		if tpl.IsDefault {
			defaults[tpl.Kind]++
		}
	}
	for _, kind := range AllKinds {
		require.Equalf(t, 1, defaults[kind], "defaults of kind %s", kind)
	}
}

func TestSaveTemplateRenumbersSparseOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	tpl, err := store.GetTemplate(ctx, DefaultTemplateID(KindTicket))
	require.NoError(t, err)
	for i := range tpl.Blocks {
		tpl.Blocks[i].Order = i * 5
	}

	saved, err := store.SaveTemplate(ctx, tpl)
	require.NoError(t, err)
	requireDenseOrder(t, saved.Blocks)

	blocks, err := AddBlock(saved.Blocks, BlockSeparator)
	require.NoError(t, err)
	requireDenseOrder(t, blocks)
	last := SortByOrder(blocks)[len(blocks)-1]
	require.Equal(t, BlockSeparator, last.Kind)
}

// overrideWriteFails accepts every write except the overrides collection.
type overrideWriteFails struct {
	*kv.MemoryStore
	err error
}

func (o overrideWriteFails) Set(ctx context.Context, key, value string) error {
	if key == OverridesKey {
		return o.err
	}
	return o.MemoryStore.Set(ctx, key, value)
}

func TestDeleteTemplateKeepsTemplateWhenOverrideWriteFails(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	seed := NewStore(mem)

	dup, err := seed.DuplicateTemplate(ctx, DefaultTemplateID(KindTicket), "")
	require.NoError(t, err)
	_, err = seed.SaveOverride(ctx, Override{TemplateID: dup.ID, CustomFooter: "Gracias"})
	require.NoError(t, err)

	cause := errors.New("disk full")
	store := NewStore(overrideWriteFails{MemoryStore: mem, err: cause})
	require.ErrorIs(t, store.DeleteTemplate(ctx, dup.ID), cause)

	_, err = store.GetTemplate(ctx, dup.ID)
	require.NoError(t, err)
	_, ok, err := store.GetOverride(ctx, dup.ID)
	require.NoError(t, err)
	require.True(t, ok)
}
