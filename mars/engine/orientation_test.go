package engine

import (
	"errors"
	"testing"
)

var allOrientations = []Orientation{North, East, South, West}

func TestRotateLeftCycle(t *testing.T) {
	expected := map[Orientation]Orientation{
		North: West,
		West:  South,
		South: East,
		East:  North,
	}

	for from, to := range expected {
		if got := from.RotateLeft(); got != to {
			t.Errorf("RotateLeft(%s): expected %s, got %s", from, to, got)
		}
	}
}

func TestRotateRightCycle(t *testing.T) {
	expected := map[Orientation]Orientation{
		North: East,
		East:  South,
		South: West,
		West:  North,
	}

	for from, to := range expected {
		if got := from.RotateRight(); got != to {
			t.Errorf("RotateRight(%s): expected %s, got %s", from, to, got)
		}
	}
}

func TestRotationInverse(t *testing.T) {
	for _, o := range allOrientations {
		if got := o.RotateLeft().RotateRight(); got != o {
			t.Errorf("left then right from %s returned %s", o, got)
		}
		if got := o.RotateRight().RotateLeft(); got != o {
			t.Errorf("right then left from %s returned %s", o, got)
		}
	}
}

func TestRotationFullTurn(t *testing.T) {
	for _, o := range allOrientations {
		left, right := o, o
		for i := 0; i < 4; i++ {
			left = left.RotateLeft()
			right = right.RotateRight()
		}
		if left != o {
			t.Errorf("four left turns from %s returned %s", o, left)
		}
		if right != o {
			t.Errorf("four right turns from %s returned %s", o, right)
		}
	}
}

func TestOrientationVector(t *testing.T) {
	tests := []struct {
		o        Orientation
		expected Position
	}{
		{North, Position{X: 0, Y: 1}},
		{East, Position{X: 1, Y: 0}},
		{South, Position{X: 0, Y: -1}},
		{West, Position{X: -1, Y: 0}},
	}

	for _, test := range tests {
		if got := test.o.Vector(); got != test.expected {
			t.Errorf("Vector(%s): expected %+v, got %+v", test.o, test.expected, got)
		}
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		label    string
		expected Orientation
	}{
		{"N", North},
		{"E", East},
		{"S", South},
		{"W", West},
		{" w ", West},
	}

	for _, test := range tests {
		got, err := ParseOrientation(test.label)
		if err != nil {
			t.Errorf("ParseOrientation(%q): unexpected error %v", test.label, err)
			continue
		}
		if got != test.expected {
			t.Errorf("ParseOrientation(%q): expected %s, got %s", test.label, test.expected, got)
		}
		if got.String() != test.expected.String() {
			t.Errorf("label round trip failed for %q", test.label)
		}
	}

	_, err := ParseOrientation("X")
	if !errors.Is(err, ErrConfig) {
		t.Errorf("Expected ErrConfig for unknown label, got %v", err)
	}
}
