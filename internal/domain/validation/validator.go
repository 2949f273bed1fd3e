package validation

import "context"

// RowAction is the mutation a validator is asked to judge.
type RowAction string

const (
	ActionAdd    RowAction = "ADD"
	ActionUpdate RowAction = "UPDATE"
	ActionDelete RowAction = "DELETE"
)

// Result is the outcome of validating one entity.
type Result struct {
	Valid   bool
	Message string
}

// OK is the passing result.
func OK() Result { return Result{Valid: true} }

// Fail returns a failing result with a message.
func Fail(message string) Result { return Result{Valid: false, Message: message} }

// Validator judges one concrete entity type at compile time. Each entity
// kind gets its own implementation; there is no runtime type dispatch.
type Validator[T any] interface {
	Validate(ctx context.Context, value T, action RowAction) Result
}

// Func adapts a function to the Validator interface.
type Func[T any] func(ctx context.Context, value T, action RowAction) Result

// Validate implements Validator.
func (f Func[T]) Validate(ctx context.Context, value T, action RowAction) Result {
	return f(ctx, value, action)
}

// All runs validators in order and returns the first failure.
func All[T any](validators ...Validator[T]) Validator[T] {
	return Func[T](func(ctx context.Context, value T, action RowAction) Result {
		for _, v := range validators {
			if res := v.Validate(ctx, value, action); !res.Valid {
				return res
			}
		}
		return OK()
	})
}
