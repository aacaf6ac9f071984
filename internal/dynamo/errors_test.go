package dynamo

import (
	"errors"
	"testing"
)

func TestBodyError(t *testing.T) {
	err := &BodyError{Index: 3, Wrapped: ErrInvalidState}
	if err.Error() != "body 3: dynamo: invalid state (NaN or Inf detected)" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("BodyError should unwrap to ErrInvalidState")
	}
}
