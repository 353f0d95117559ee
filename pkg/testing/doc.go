// Package testing provides helpers for testing lifecycle-aware trees.
//
// # Quick Start
//
// Create a tester, mount a tree built from recording nodes, drive it and
// make assertions:
//
//	func TestBasket(t *testing.T) {
//	    tester := lctest.NewTesterWithT(t)
//	    rec := &lctest.Recorder{}
//
//	    page := lctest.NewPage("cart", rec)
//	    basket := lctest.NewView("basket", rec)
//	    page.SetContent(basket)
//	    tester.Mount(page)
//
//	    page.Appear()
//	    if rec.Count("basket", "page.appearing") != 1 {
//	        t.Errorf("basket did not see the page appear: %v", rec.Strings())
//	    }
//
//	    page.Disappear()
//	    if tester.Messages().CountFor(basket) != 1 {
//	        t.Error("expected one disappearing message for basket")
//	    }
//	}
//
// # Finders
//
// Locate nodes in the mounted tree:
//
//	vm := tester.Find(lctest.ByName("basket-vm")).First()
//
// # Snapshot Testing
//
// Capture the tree with its resolved sources and the recorded events, and
// compare against a golden file:
//
//	tester.CaptureSnapshot(rec).MatchesFile(t, "testdata/basket.snapshot.json")
//
// Update snapshots with:
//
//	LCTEST_UPDATE_SNAPSHOTS=1 go test ./...
package testing
