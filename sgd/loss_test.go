package sgd

import (
	"math"
	"testing"
)

func TestHingeLossAndGrad(t *testing.T) {
	l := HingeLoss
	if got := l.Loss(1, 2); got != 0 {
		t.Fatalf("hinge loss at margin 2 = %v, want 0", got)
	}
	if got := l.Loss(1, 0); got != 1 {
		t.Fatalf("hinge loss at margin 0 = %v, want 1", got)
	}
	if got := l.DLoss(1, 2); got != 0 {
		t.Fatalf("hinge dloss beyond margin = %v, want 0", got)
	}
	if got := l.DLoss(1, 0); got != -1 {
		t.Fatalf("hinge dloss at margin 0 = %v, want -1", got)
	}
}

func TestRampLossClips(t *testing.T) {
	l := RampLoss
	if got := l.Loss(1, -5); got != 2 {
		t.Fatalf("ramp loss far negative margin = %v, want 2 (clipped)", got)
	}
	if got := l.Loss(1, 5); got != 0 {
		t.Fatalf("ramp loss far positive margin = %v, want 0", got)
	}
	if got := l.DLoss(1, -5); got != 0 {
		t.Fatalf("ramp dloss beyond clip = %v, want 0", got)
	}
}

func TestSquareLoss(t *testing.T) {
	l := SquareLoss
	if got := l.Loss(1, 1); got != 0 {
		t.Fatalf("square loss at y=yhat = %v, want 0", got)
	}
	if got := l.DLoss(2, 1); got != -1 {
		t.Fatalf("square dloss(2,1) = %v, want -1", got)
	}
}

func TestLogisticLossPositive(t *testing.T) {
	l := LogisticLoss
	if got := l.Loss(1, 0); math.Abs(got-math.Log(2)) > 1e-9 {
		t.Fatalf("logistic loss at margin 0 = %v, want log(2)", got)
	}
}

func TestParseLossKindRoundTrip(t *testing.T) {
	for _, k := range []LossKind{SquareLoss, HingeLoss, RampLoss, LogisticLoss} {
		parsed, err := ParseLossKind(k.String())
		if err != nil {
			t.Fatalf("ParseLossKind(%s): %v", k.String(), err)
		}
		if parsed != k {
			t.Fatalf("round trip mismatch: %v != %v", parsed, k)
		}
	}
	if _, err := ParseLossKind("bogus"); err == nil {
		t.Fatal("expected error for unknown loss kind")
	}
}
