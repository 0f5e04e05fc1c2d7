package block

import (
	"errors"
	"testing"
)

func TestSetInputRecordsParent(t *testing.T) {
	parent := New("text_print")
	child := NewValue("text")

	if err := parent.SetValue("TEXT", child); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if child.Parent() != parent {
		t.Error("child.Parent() should be parent")
	}
	if parent.InputTarget("TEXT") != child {
		t.Error("InputTarget(TEXT) should return child")
	}
	if parent.InputTarget("MISSING") != nil {
		t.Error("InputTarget of unknown input should be nil")
	}
}

func TestSetInputReplacesTarget(t *testing.T) {
	parent := New("text_print")
	a := NewValue("text")
	b := NewValue("text")

	_ = parent.SetValue("TEXT", a)
	if err := parent.SetValue("TEXT", b); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if a.Parent() != nil {
		t.Error("replaced block should be detached")
	}
	if parent.InputTarget("TEXT") != b {
		t.Error("input should hold the new target")
	}
}

func TestConnectionErrors(t *testing.T) {
	a := New("a")
	b := New("b")
	c := New("c")

	if err := a.SetNext(a); !errors.Is(err, ErrSelfConnection) {
		t.Errorf("SetNext(self) = %v, want ErrSelfConnection", err)
	}

	_ = a.SetNext(c)
	if err := b.SetNext(c); !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("second parent = %v, want ErrAlreadyConnected", err)
	}

	_ = a.AddInput("DO", InputStatement)
	if err := a.SetValue("DO", NewValue("x")); !errors.Is(err, ErrInputKindMismatch) {
		t.Errorf("kind mismatch = %v, want ErrInputKindMismatch", err)
	}
}

func TestSetNextNilDetaches(t *testing.T) {
	a := New("a")
	b := New("b")
	_ = a.SetNext(b)
	_ = a.SetNext(nil)

	if a.Next() != nil {
		t.Error("Next() should be nil")
	}
	if b.Parent() != nil {
		t.Error("detached block should have no parent")
	}
}

func TestChildrenAndDescendants(t *testing.T) {
	ifBlock := New("controls_if")
	cond := NewValue("logic_boolean")
	body := New("text_print")
	after := New("text_print")

	_ = ifBlock.SetValue("IF0", cond)
	_ = ifBlock.SetStatement("DO0", body)
	_ = ifBlock.SetNext(after)

	children := ifBlock.Children()
	if len(children) != 3 || children[0] != cond || children[1] != body || children[2] != after {
		t.Errorf("Children() order unexpected: %v", children)
	}

	desc := ifBlock.Descendants()
	if len(desc) != 4 || desc[0] != ifBlock {
		t.Errorf("Descendants() = %d blocks, want 4 starting with self", len(desc))
	}
}

func TestFields(t *testing.T) {
	b := (&Block{Type: "text"}).WithField("TEXT", "hi")
	if b.Field("TEXT") != "hi" {
		t.Errorf("Field(TEXT) = %q", b.Field("TEXT"))
	}
	if b.Field("OTHER") != "" {
		t.Error("unset field should be empty")
	}
}

func TestInputKindString(t *testing.T) {
	if InputValue.String() != "value" || InputStatement.String() != "statement" {
		t.Error("unexpected InputKind strings")
	}
}
