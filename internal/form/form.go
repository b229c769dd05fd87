// Package form turns raw expense form input into a validated payload.
//
// Input is normalized on every keystroke (Form.Change) and validated only
// when a submit is attempted (Form.Submit). A field edited after a failed
// submit goes back to the unvalidated display state but keeps its text.
package form

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"expenses/internal/core"
)

var (
	amountShape = regexp.MustCompile(`^\d{1,10}(\.\d{1,2})?$`)
	dateShape   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Input is the state of a single field while the form is open.
type Input struct {
	Raw   string `json:"value"`
	Valid bool   `json:"isValid"`
}

// Form holds the three inputs of an add or edit interaction.
type Form struct {
	inputs map[FieldName]*Input
}

// New opens a form. With defaults it is prefilled for editing; every field
// starts out displayed as valid.
func New(defaults *core.Expense) *Form {
	f := &Form{inputs: map[FieldName]*Input{
		FieldAmount:      {Valid: true},
		FieldDate:        {Valid: true},
		FieldDescription: {Valid: true},
	}}
	if defaults != nil {
		if !defaults.Amount.IsZero() {
			f.inputs[FieldAmount].Raw = defaults.Amount.String()
		}
		if !defaults.Date.IsZero() {
			f.inputs[FieldDate].Raw = defaults.Date.Format()
		}
		f.inputs[FieldDescription].Raw = defaults.Description
	}
	return f
}

// Change stores a keystroke for field after normalization and returns the
// stored value. Unknown fields are ignored.
func (f *Form) Change(field FieldName, raw string) string {
	in, ok := f.inputs[field]
	if !ok {
		return raw
	}
	in.Raw = Normalize(field, raw)
	in.Valid = true
	return in.Raw
}

// Input returns the current state of field.
func (f *Form) Input(field FieldName) Input {
	if in, ok := f.inputs[field]; ok {
		return *in
	}
	return Input{}
}

// Invalid reports whether any field is currently flagged invalid.
func (f *Form) Invalid() bool {
	for _, in := range f.inputs {
		if !in.Valid {
			return true
		}
	}
	return false
}

// Messages lists the messages of the fields currently flagged invalid.
func (f *Form) Messages() []string {
	var out []string
	for _, name := range Fields {
		if !f.inputs[name].Valid {
			out = append(out, Message(name))
		}
	}
	return out
}

// Validate checks the current inputs without touching their flags.
func (f *Form) Validate() Result {
	return Validate(f.inputs[FieldAmount].Raw, f.inputs[FieldDate].Raw, f.inputs[FieldDescription].Raw)
}

// Submit validates every field and records each field's validity. When all
// pass, onSuccess is called once with the payload and its error is returned.
// Otherwise onSuccess is not called and a *ValidationError is returned.
func (f *Form) Submit(onSuccess func(core.Payload) error) (Result, error) {
	res := f.Validate()
	for _, name := range Fields {
		f.inputs[name].Valid = res.Valid(name)
	}
	payload, ok := res.Payload()
	if !ok {
		return res, res.Err()
	}
	if onSuccess == nil {
		return res, nil
	}
	return res, onSuccess(payload)
}

// Validate evaluates the three submit rules independently.
func Validate(amount, date, description string) Result {
	return Result{
		Amount:      ValidateAmount(amount),
		Date:        ValidateDate(date),
		Description: ValidateDescription(description),
	}
}

// ValidateAmount requires 1 to 10 integer digits, an optional one or two
// digit fraction and a value above zero.
func ValidateAmount(raw string) Field[decimal.Decimal] {
	if !amountShape.MatchString(raw) {
		return Invalid[decimal.Decimal]("amount must have up to 10 digits and 2 decimals")
	}
	d, err := core.ParseAmount(raw)
	if err != nil {
		return Invalid[decimal.Decimal]("amount must be greater than zero")
	}
	return Valid(d)
}

// ValidateDate requires the YYYY-MM-DD shape and a real calendar date.
func ValidateDate(raw string) Field[core.Date] {
	if !dateShape.MatchString(raw) {
		return Invalid[core.Date]("date must look like YYYY-MM-DD")
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return Invalid[core.Date]("date does not exist")
	}
	// The zero date means unset to every backend.
	if d.IsZero() {
		return Invalid[core.Date]("date is out of range")
	}
	return Valid(d)
}

// ValidateDescription requires non blank text of at most MaxDescriptionWords
// words. The payload carries the trimmed text.
func ValidateDescription(raw string) Field[string] {
	desc := strings.TrimSpace(raw)
	if desc == "" {
		return Invalid[string]("description is empty")
	}
	if WordCount(desc) > MaxDescriptionWords {
		return Invalid[string]("description has more than 100 words")
	}
	return Valid(desc)
}
