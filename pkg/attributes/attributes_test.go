package attributes

import (
	"math"
	"reflect"
	"testing"

	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
)

func requireValidationError(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	if typed.Message() != want {
		t.Fatalf("expected message %q got %q", want, typed.Message())
	}
}

func TestValidateRequiredMissing(t *testing.T) {
	schema := []Definition{{Name: "size", Type: TypeString, Required: true}}

	err := Validate(schema, Map{})
	requireValidationError(t, err, "attribute 'size' is required")
}

func TestValidateRequiredNil(t *testing.T) {
	schema := []Definition{{Name: "size", Type: TypeString, Required: true}}

	err := Validate(schema, Map{"size": nil})
	requireValidationError(t, err, "attribute 'size' is required")
}

func TestValidateRequiredEmptyString(t *testing.T) {
	schema := []Definition{{Name: "size", Type: TypeString, Required: true}}

	err := Validate(schema, Map{"size": ""})
	requireValidationError(t, err, "attribute 'size' is required")
}

func TestValidateRequiredPresent(t *testing.T) {
	schema := []Definition{{Name: "size", Type: TypeString, Required: true}}

	if err := Validate(schema, Map{"size": "M"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateNumberRejectsString(t *testing.T) {
	schema := []Definition{{Name: "qty", Type: TypeNumber, Required: false}}

	err := Validate(schema, Map{"qty": "five"})
	requireValidationError(t, err, "attribute 'qty' must be a number")
}

func TestValidateNumberAcceptsNumericKinds(t *testing.T) {
	schema := []Definition{{Name: "qty", Type: TypeNumber, Required: false}}

	for _, value := range []any{5, int64(5), float64(5), float32(5.5)} {
		if err := Validate(schema, Map{"qty": value}); err != nil {
			t.Fatalf("value %v (%T): unexpected error %v", value, value, err)
		}
	}
}

func TestValidateNumberRejectsNaN(t *testing.T) {
	schema := []Definition{{Name: "qty", Type: TypeNumber, Required: false}}

	err := Validate(schema, Map{"qty": math.NaN()})
	requireValidationError(t, err, "attribute 'qty' must be a number")
}

func TestValidateOptionalAbsent(t *testing.T) {
	schema := []Definition{{Name: "qty", Type: TypeNumber, Required: false}}

	if err := Validate(schema, Map{}); err != nil {
		t.Fatalf("optional absent attribute should pass, got %v", err)
	}
}

func TestValidateBoolean(t *testing.T) {
	schema := []Definition{{Name: "organic", Type: TypeBoolean, Required: true}}

	if err := Validate(schema, Map{"organic": true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Validate(schema, Map{"organic": "true"})
	requireValidationError(t, err, "attribute 'organic' must be a boolean")
}

func TestValidateUnknownDeclaredTypeFallsBackToString(t *testing.T) {
	schema := []Definition{{Name: "note", Type: Type("text"), Required: false}}

	if err := Validate(schema, Map{"note": "hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Validate(schema, Map{"note": 7})
	requireValidationError(t, err, "attribute 'note' must be a string")
}

func TestValidateUnknownKeysAccepted(t *testing.T) {
	schema := []Definition{{Name: "size", Type: TypeString, Required: true}}

	err := Validate(schema, Map{"size": "M", "color": "red", "weight": 12})
	if err != nil {
		t.Fatalf("unknown keys must pass, got %v", err)
	}
}

func TestValidateReportsFirstViolationInSchemaOrder(t *testing.T) {
	schema := []Definition{
		{Name: "sku", Type: TypeString, Required: true},
		{Name: "qty", Type: TypeNumber, Required: true},
	}

	err := Validate(schema, Map{"qty": "five"})
	requireValidationError(t, err, "attribute 'sku' is required")
}

func TestMergeOverlaysIncoming(t *testing.T) {
	existing := Map{"size": "M", "color": "red"}
	incoming := Map{"color": "blue"}

	merged := Merge(existing, incoming)
	want := Map{"size": "M", "color": "blue"}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("expected %v got %v", want, merged)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	existing := Map{"size": "M", "color": "red"}
	incoming := Map{"color": "blue"}

	once := Merge(existing, incoming)
	twice := Merge(once, incoming)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge not idempotent: %v vs %v", once, twice)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	existing := Map{"size": "M"}
	incoming := Map{"size": "L"}

	_ = Merge(existing, incoming)
	if existing["size"] != "M" {
		t.Fatalf("existing map mutated: %v", existing)
	}
}

func TestMergeThenValidatePreservesRequiredField(t *testing.T) {
	schema := []Definition{{Name: "sku", Type: TypeString, Required: true}}
	existing := Map{"sku": "A1"}
	incoming := Map{"color": "red"}

	merged := Merge(existing, incoming)
	if err := Validate(schema, merged); err != nil {
		t.Fatalf("merged update must not re-demand required field, got %v", err)
	}
	if merged["sku"] != "A1" || merged["color"] != "red" {
		t.Fatalf("unexpected merged map %v", merged)
	}
}
