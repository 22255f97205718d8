package mock

import (
	"errors"
	"testing"
	"time"

	"github.com/devicelab-dev/webelement/pkg/element"
)

func TestDriver_FindElement_NoMatch(t *testing.T) {
	d := New()
	_, err := d.FindElement(element.StrategyCSS, "#missing")
	if !errors.Is(err, ErrNoSuchElement) {
		t.Errorf("err = %v, want ErrNoSuchElement", err)
	}
	els, err := d.FindElements(element.StrategyCSS, "#missing")
	if err != nil || len(els) != 0 {
		t.Errorf("FindElements = %v, %v", els, err)
	}
}

func TestDriver_AutoCreate(t *testing.T) {
	d := New()
	d.AutoCreate = true

	first, err := d.FindElement(element.StrategyID, "user")
	if err != nil {
		t.Fatalf("FindElement() error = %v", err)
	}
	again, _ := d.FindElement(element.StrategyID, "user")
	if first != again {
		t.Error("same locator should resolve to the same element")
	}

	child, err := first.FindElement(element.StrategyCSS, "span")
	if err != nil {
		t.Fatalf("child FindElement() error = %v", err)
	}
	if shown, _ := child.IsDisplayed(); !shown {
		t.Error("auto elements should be displayed")
	}
	if child.(*Element).ID == first.(*Element).ID {
		t.Error("child should be a distinct element")
	}
}

func TestDriver_Wait(t *testing.T) {
	d := New()
	var seen []int
	d.OnPoll = func(n int) { seen = append(seen, n) }

	err := d.Wait(func() (bool, error) { return len(seen) == 3, nil }, time.Second, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if d.Polls() != 3 {
		t.Errorf("Polls() = %d, want 3", d.Polls())
	}

	err = d.Wait(func() (bool, error) { return false, nil }, time.Second, 250*time.Millisecond)
	if !errors.Is(err, ErrWaitTimeout) {
		t.Errorf("err = %v, want ErrWaitTimeout", err)
	}
	if d.Polls() != 7 {
		t.Errorf("Polls() = %d, want 7 (3 + 4)", d.Polls())
	}
}

func TestDriver_ExecuteScript_SetAttribute(t *testing.T) {
	d := New()
	el := NewElement("q")
	d.Add(element.ByID("q"), el)

	if _, err := d.ExecuteScript("arguments[0].setAttribute(arguments[1], arguments[2]);", el, "value", "go"); err != nil {
		t.Fatal(err)
	}
	if got, _ := el.GetAttribute("value"); got != "go" {
		t.Errorf("value = %q, want go", got)
	}
	if len(d.Scripts()) != 1 {
		t.Errorf("Scripts() = %d, want 1", len(d.Scripts()))
	}
}
