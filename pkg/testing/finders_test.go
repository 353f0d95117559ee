package testing

import (
	"testing"

	"github.com/go-drift/lifecycle/pkg/views"
)

func mountSample(t *testing.T) (*Tester, *Recorder) {
	t.Helper()
	tester := NewTesterWithT(t)
	rec := &Recorder{}

	app := views.NewApp("app")
	page := NewPage("page", rec)
	outer := NewView("outer", rec)
	inner := NewView("inner", rec)
	outer.SetContent(inner)
	outer.SetBindingContext(NewViewModel("outer-vm", rec))
	inner.SetBindingContext(NewViewModel("inner-vm", rec))
	page.SetContent(outer)
	app.SetMainPage(page)

	tester.Mount(app)
	return tester, rec
}

func TestFind_ByName(t *testing.T) {
	tester, _ := mountSample(t)

	result := tester.Find(ByName("inner-vm"))
	if result.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", result.Count())
	}
	if vm, ok := result.First().(*ViewModel); !ok || vm.Name() != "inner-vm" {
		t.Errorf("First() = %v", result.First())
	}
	if tester.Find(ByName("missing")).Exists() {
		t.Error("unexpected match for missing name")
	}
}

func TestFind_ByTypeInTraversalOrder(t *testing.T) {
	tester, _ := mountSample(t)

	result := tester.Find(ByType[*View]())
	if result.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", result.Count())
	}
	if result.All()[0].(*View).Name() != "outer" || result.All()[1].(*View).Name() != "inner" {
		t.Errorf("unexpected order: %v", result.All())
	}
}

func TestFind_Descendant(t *testing.T) {
	tester, _ := mountSample(t)

	result := tester.Find(Descendant(ByName("inner"), ByType[*ViewModel]()))
	if result.Count() != 1 || result.First().(*ViewModel).Name() != "inner-vm" {
		t.Errorf("Descendant found %v", result.All())
	}
}

func TestFind_CleaningUp(t *testing.T) {
	tester, _ := mountSample(t)

	tester.Find(ByName("inner")).First().(*View).Dispose()

	result := tester.Find(CleaningUp())
	if result.Count() != 2 {
		t.Errorf("CleaningUp() matched %v, want inner and inner-vm", result.All())
	}
}

func TestFinderResult_FirstPanicsWhenEmpty(t *testing.T) {
	tester := NewTesterWithT(t)
	defer func() {
		if recover() == nil {
			t.Error("First() on an empty result should panic")
		}
	}()
	tester.Find(ByName("x")).First()
}
