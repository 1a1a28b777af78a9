package domain

// Category is the stable, transport-agnostic outcome of a business operation
type Category string

const (
	CategoryOK            Category = "ok"
	CategoryUnprocessable Category = "unprocessable"
	CategoryConflict      Category = "conflict"
	CategoryNotFound      Category = "not_found"
	CategoryInternal      Category = "internal"
)

// internalMessage replaces the text of errors outside the business taxonomy
const internalMessage = "internal server error"

var categoryByKind = map[ErrorKind]Category{
	KindValidation: CategoryUnprocessable,
	KindConflict:   CategoryConflict,
	KindNotFound:   CategoryNotFound,
}

// Result is the translated outcome handed to the boundary layer
type Result struct {
	Category Category
	Message  string
}

// Translate maps an error returned by a business operation to its result category.
// Store and transport failures become CategoryInternal with a generic message.
func Translate(err error) Result {
	if err == nil {
		return Result{Category: CategoryOK}
	}

	kind, ok := KindOf(err)
	if !ok {
		return Result{Category: CategoryInternal, Message: internalMessage}
	}

	category, ok := categoryByKind[kind]
	if !ok {
		return Result{Category: CategoryInternal, Message: internalMessage}
	}

	return Result{Category: category, Message: err.Error()}
}
