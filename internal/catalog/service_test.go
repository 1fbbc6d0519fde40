package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
)

func TestValidateEdit(t *testing.T) {
	t.Run("emptyEditRejected", func(t *testing.T) {
		err := validateEdit(EditInput{})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("blankName", func(t *testing.T) {
		blank := "   "
		err := validateEdit(EditInput{Name: &blank})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("negativePrice", func(t *testing.T) {
		price := decimal.NewFromInt(-1)
		err := validateEdit(EditInput{Price: &price})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("invalidStatus", func(t *testing.T) {
		status := enums.ProductStatus("archived")
		err := validateEdit(EditInput{Status: &status})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("twoDefaultDosages", func(t *testing.T) {
		options := []DosageEditInput{
			{Name: "1mg", Price: decimal.NewFromInt(100), IsDefault: true},
			{Name: "2mg", Price: decimal.NewFromInt(150), IsDefault: true},
		}
		err := validateEdit(EditInput{DosageOptions: &options})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("validEdit", func(t *testing.T) {
		name := "Custom Name"
		price := decimal.NewFromInt(199)
		options := []DosageEditInput{
			{Name: "1mg", Price: decimal.NewFromInt(100), IsDefault: true},
			{Name: "2mg", Price: decimal.NewFromInt(150)},
		}
		if err := validateEdit(EditInput{Name: &name, Price: &price, DosageOptions: &options}); err != nil {
			t.Fatalf("expected valid edit, got %v", err)
		}
	})
}

func TestCheckVersion(t *testing.T) {
	version := func(v int) *int { return &v }

	t.Run("nilExpectedAlwaysPasses", func(t *testing.T) {
		if err := checkVersion(nil, &models.ProductOverride{Version: 7}); err != nil {
			t.Fatalf("expected pass, got %v", err)
		}
	})

	t.Run("matchPasses", func(t *testing.T) {
		if err := checkVersion(version(7), &models.ProductOverride{Version: 7}); err != nil {
			t.Fatalf("expected pass, got %v", err)
		}
	})

	t.Run("mismatchConflicts", func(t *testing.T) {
		err := checkVersion(version(3), &models.ProductOverride{Version: 7})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("noOverrideMeansVersionZero", func(t *testing.T) {
		if err := checkVersion(version(0), nil); err != nil {
			t.Fatalf("expected pass against absent override, got %v", err)
		}
		err := checkVersion(version(2), nil)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
			t.Fatalf("expected conflict, got %v", err)
		}
	})
}

func TestApplyEditToOverrideMergesFieldLevel(t *testing.T) {
	name := "First"
	override := &models.ProductOverride{}
	applyEditToOverride(override, EditInput{Name: &name})

	price := decimal.NewFromInt(42)
	applyEditToOverride(override, EditInput{Price: &price})

	if override.Name == nil || *override.Name != "First" {
		t.Fatalf("second edit should keep earlier name, got %v", override.Name)
	}
	if override.MerchantPrice == nil || !override.MerchantPrice.Equal(price) {
		t.Fatalf("expected merged price, got %v", override.MerchantPrice)
	}
	if override.DosageOptionsSet {
		t.Fatal("dosage flag should stay off without a dosage edit")
	}
}

func TestApplyEditToOverrideCopiesArrays(t *testing.T) {
	benefits := []string{"a", "b"}
	override := &models.ProductOverride{}
	applyEditToOverride(override, EditInput{Benefits: &benefits})

	benefits[0] = "mutated"
	if (*override.Benefits)[0] != "a" {
		t.Fatal("override should hold its own copy of the array")
	}
}

func TestApplyEditToOverrideReplacesExistingArray(t *testing.T) {
	old := pq.StringArray{"old"}
	override := &models.ProductOverride{Benefits: &old}

	next := []string{"new-1", "new-2"}
	applyEditToOverride(override, EditInput{Benefits: &next})

	if len(*override.Benefits) != 2 || (*override.Benefits)[0] != "new-1" {
		t.Fatalf("expected wholesale replacement, got %v", *override.Benefits)
	}
}

func TestBuildDosageRowsAssignsPositions(t *testing.T) {
	rows := buildDosageRows(uuid.Nil, []DosageEditInput{
		{Name: " 1mg ", Price: decimal.NewFromInt(10), IsDefault: true},
		{Name: "2mg", Price: decimal.NewFromInt(20)},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "1mg" {
		t.Fatalf("expected trimmed name, got %q", rows[0].Name)
	}
	if rows[0].Position != 0 || rows[1].Position != 1 {
		t.Fatalf("expected sequential positions, got %d %d", rows[0].Position, rows[1].Position)
	}
}
