package validation

import (
	"context"
	"fmt"

	"github.com/seconnect/ice-backend/internal/domain/entity"
)

// WorkflowSetupDateRange rejects setup rows whose effective window is
// inverted.
func WorkflowSetupDateRange() Validator[*entity.WorkflowSetup] {
	return Func[*entity.WorkflowSetup](func(ctx context.Context, setup *entity.WorkflowSetup, action RowAction) Result {
		if setup.EffectiveEndDate != nil && setup.EffectiveEndDate.Before(setup.EffectiveStartDate) {
			return Fail(fmt.Sprintf("Workflow setup %d effective end date precedes its start date", setup.WorkflowSetupID))
		}
		return OK()
	})
}

// WorkflowSetupRecipients rejects rows that require email but name no
// subject or body.
func WorkflowSetupRecipients() Validator[*entity.WorkflowSetup] {
	return Func[*entity.WorkflowSetup](func(ctx context.Context, setup *entity.WorkflowSetup, action RowAction) Result {
		if !setup.EmailRequiredInd {
			return OK()
		}
		if setup.EmailSubject == "" || setup.EmailBody == "" {
			return Fail(fmt.Sprintf("Workflow setup %d requires email but has no subject or body configured", setup.WorkflowSetupID))
		}
		return OK()
	})
}

// ReferenceValueCodesUnique rejects a category carrying duplicate codes.
func ReferenceValueCodesUnique() Validator[*entity.ReferenceValueCategory] {
	return Func[*entity.ReferenceValueCategory](func(ctx context.Context, category *entity.ReferenceValueCategory, action RowAction) Result {
		seen := make(map[string]bool, len(category.Values))
		for _, v := range category.Values {
			if seen[v.Code] {
				return Fail(fmt.Sprintf("Reference value code %q is duplicated in category %s", v.Code, category.CategoryName))
			}
			seen[v.Code] = true
		}
		return OK()
	})
}
