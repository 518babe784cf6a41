package hero

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/storefront-admin/internal/data/repos/testutil"
	types "github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/platform/dbctx"
)

func TestHeroVariantRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewHeroVariantRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	a, err := repo.Create(dbc, &types.Variant{
		VariantKey: "spring",
		Title:      "Spring",
		IsActive:   true,
		PrimaryCta: &types.CTA{Text: "Shop", Href: "/shop"},
		Stats:      []types.Stat{{Value: "10k", Label: "Customers", Icon: "users"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("Create: id not assigned")
	}
	if _, err := repo.Create(dbc, &types.Variant{VariantKey: "summer", Title: "Summer"}); err != nil {
		t.Fatalf("Create summer: %v", err)
	}

	got, err := repo.GetByKey(dbc, "spring")
	if err != nil || got == nil {
		t.Fatalf("GetByKey: %v %v", got, err)
	}
	if got.PrimaryCta == nil || got.PrimaryCta.Href != "/shop" || len(got.Stats) != 1 || got.Stats[0].Icon != "users" {
		t.Fatalf("GetByKey: round trip lost content: %+v", got)
	}
	if got.SecondaryCta != nil || got.Features != nil {
		t.Fatalf("GetByKey: unset fields came back set: %+v", got)
	}

	missing, err := repo.GetByKey(dbc, "nope")
	if err != nil || missing != nil {
		t.Fatalf("GetByKey(missing): %v %v", missing, err)
	}

	active, err := repo.GetActive(dbc)
	if err != nil || active == nil || active.VariantKey != "spring" {
		t.Fatalf("GetActive: %v %v", active, err)
	}

	list, err := repo.ListForUpdate(dbc)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListForUpdate: %d %v", len(list), err)
	}

	got.Title = "Spring 2"
	got.PrimaryCta = nil
	got.Stats = nil
	if err := repo.Save(dbc, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, _ := repo.GetByKey(dbc, "spring")
	if again.Title != "Spring 2" || again.PrimaryCta != nil || len(again.Stats) != 0 {
		t.Fatalf("Save: %+v", again)
	}

	if err := repo.Deactivate(dbc, []string{"spring"}); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if active, _ := repo.GetActive(dbc); active != nil {
		t.Fatalf("GetActive after Deactivate: %+v", active)
	}

	ok, err := repo.DeleteByKey(dbc, "summer")
	if err != nil || !ok {
		t.Fatalf("DeleteByKey: %v %v", ok, err)
	}
	ok, err = repo.DeleteByKey(dbc, "summer")
	if err != nil || ok {
		t.Fatalf("DeleteByKey(again): %v %v", ok, err)
	}

	list, err = repo.List(dbc)
	if err != nil || len(list) != 1 {
		t.Fatalf("List: %d %v", len(list), err)
	}
}

func TestHeroVariantRepoDuplicateKey(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewHeroVariantRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	if _, err := repo.Create(dbc, &types.Variant{VariantKey: "dup", Title: "One"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := repo.Create(dbc, &types.Variant{VariantKey: "dup", Title: "Two"})
	if !errors.Is(err, types.ErrDuplicateKey) {
		t.Fatalf("want ErrDuplicateKey, got %v", err)
	}
}
