package validation

import (
	"context"
	"testing"
	"time"

	"github.com/seconnect/ice-backend/internal/domain/entity"
)

func TestAllStopsAtFirstFailure(t *testing.T) {
	calls := 0
	pass := Func[int](func(ctx context.Context, v int, action RowAction) Result {
		calls++
		return OK()
	})
	fail := Func[int](func(ctx context.Context, v int, action RowAction) Result {
		calls++
		return Fail("nope")
	})

	res := All[int](pass, fail, pass).Validate(context.Background(), 1, ActionAdd)
	if res.Valid {
		t.Fatal("expected failure")
	}
	if res.Message != "nope" {
		t.Errorf("Message = %q, want nope", res.Message)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (third validator must not run)", calls)
	}
}

func TestWorkflowSetupDateRange(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, -1, 0)
	after := start.AddDate(0, 1, 0)

	v := WorkflowSetupDateRange()
	ctx := context.Background()

	if res := v.Validate(ctx, &entity.WorkflowSetup{EffectiveStartDate: start}, ActionAdd); !res.Valid {
		t.Errorf("open-ended window rejected: %s", res.Message)
	}
	if res := v.Validate(ctx, &entity.WorkflowSetup{EffectiveStartDate: start, EffectiveEndDate: &after}, ActionAdd); !res.Valid {
		t.Errorf("valid window rejected: %s", res.Message)
	}
	if res := v.Validate(ctx, &entity.WorkflowSetup{WorkflowSetupID: 9, EffectiveStartDate: start, EffectiveEndDate: &before}, ActionUpdate); res.Valid {
		t.Error("inverted window accepted")
	}
}

func TestWorkflowSetupRecipients(t *testing.T) {
	v := WorkflowSetupRecipients()
	ctx := context.Background()

	if res := v.Validate(ctx, &entity.WorkflowSetup{EmailRequiredInd: false}, ActionAdd); !res.Valid {
		t.Error("row without email requirement rejected")
	}
	if res := v.Validate(ctx, &entity.WorkflowSetup{EmailRequiredInd: true, EmailSubject: "S", EmailBody: "B"}, ActionAdd); !res.Valid {
		t.Errorf("complete row rejected: %s", res.Message)
	}
	if res := v.Validate(ctx, &entity.WorkflowSetup{EmailRequiredInd: true, EmailSubject: "S"}, ActionAdd); res.Valid {
		t.Error("row without body accepted")
	}
}

func TestReferenceValueCodesUnique(t *testing.T) {
	v := ReferenceValueCodesUnique()
	ctx := context.Background()

	ok := &entity.ReferenceValueCategory{
		CategoryName: "SalesLetterStatusType",
		Values: []entity.ReferenceValue{
			{Code: "Draft"},
			{Code: "Notified"},
		},
	}
	if res := v.Validate(ctx, ok, ActionAdd); !res.Valid {
		t.Errorf("unique codes rejected: %s", res.Message)
	}

	dup := &entity.ReferenceValueCategory{
		CategoryName: "SalesLetterStatusType",
		Values: []entity.ReferenceValue{
			{Code: "Draft"},
			{Code: "Draft"},
		},
	}
	if res := v.Validate(ctx, dup, ActionAdd); res.Valid {
		t.Error("duplicate codes accepted")
	}
}
