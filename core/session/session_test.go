package session

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"floorplan-markup/core/entity"
	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
)

func point(x, y float64) types.Coordinate {
	return types.Coordinate{X: x, Y: y}
}

func newTestSession(t *testing.T, purpose types.DesignPurpose) *Session {
	t.Helper()
	sess, err := New(purpose)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sess
}

func TestNewRejectsUnknownPurpose(t *testing.T) {
	if _, err := New(types.DesignPurpose("doodling")); !errors.IsType(err, errors.TypeInput) {
		t.Fatalf("expected INPUT_ERROR, got %v", err)
	}
}

// TestCalibrateThenMeasure walks the reference scenario end to end
// through the session surface.
func TestCalibrateThenMeasure(t *testing.T) {
	sess := newTestSession(t, types.PurposePrelimMarkup)

	if err := sess.Calibrate(point(0, 0), point(100, 0), 5.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cal := sess.Calibration()
	if cal == nil || cal.MetersPerPixel() != 0.05 {
		t.Fatalf("expected 0.05 m/px, got %+v", cal)
	}

	if _, err := sess.AddEntity(types.KindSupplyLine,
		[]types.Coordinate{point(0, 0), point(100, 0), point(100, 100)},
		types.Attributes{"service": types.StringValue("ac")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := sess.Takeoff()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, l := range summary.Lengths {
		if l.Kind == types.KindSupplyLine && !l.TotalMeters.Equal(decimal.NewFromFloat(10)) {
			t.Errorf("expected 10 m, got %s", l.TotalMeters)
		}
	}
}

// TestRecalibrationKeepsPixelGeometry proves replacing the calibration
// only moves derived readouts, never stored geometry.
func TestRecalibrationKeepsPixelGeometry(t *testing.T) {
	sess := newTestSession(t, types.PurposePrelimMarkup)
	if err := sess.Calibrate(point(0, 0), point(100, 0), 5.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	placed, err := sess.AddEntity(types.KindSupplyLine,
		[]types.Coordinate{point(0, 0), point(100, 0)},
		types.Attributes{"service": types.StringValue("ac")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Re-calibrate: same segment now means 10 meters
	if err := sess.Calibrate(point(0, 0), point(100, 0), 10.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := sess.Entity(placed.ID)
	if stored.Geometry[1] != point(100, 0) {
		t.Error("re-calibration must not rewrite stored pixel geometry")
	}

	summary, err := sess.Takeoff()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, l := range summary.Lengths {
		if l.Kind == types.KindSupplyLine && !l.TotalMeters.Equal(decimal.NewFromFloat(10)) {
			t.Errorf("expected re-projected 10 m, got %s", l.TotalMeters)
		}
	}
}

func TestDisallowedKindCreatesNothing(t *testing.T) {
	sess := newTestSession(t, types.PurposePVDesign)
	_, err := sess.AddEntity(types.KindContainmentRun,
		[]types.Coordinate{point(0, 0), point(10, 0)},
		types.Attributes{"containment": types.StringValue("tray")})
	if !errors.IsType(err, errors.TypeDisallowedKind) {
		t.Fatalf("expected DISALLOWED_KIND, got %v", err)
	}
	if len(sess.Entities()) != 0 {
		t.Error("no entity may be created by a rejected add")
	}
	if sess.CanUndo() {
		t.Error("rejected add must not reach the history")
	}
}

// TestPurposeSwitchFlagsWithoutDeleting proves the mode-switch data-loss
// guard and the projector exclusion at the session level.
func TestPurposeSwitchFlagsWithoutDeleting(t *testing.T) {
	sess := newTestSession(t, types.PurposeBudgetMarkup)
	if err := sess.Calibrate(point(0, 0), point(100, 0), 5.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	zone, err := sess.AddEntity(types.KindZone,
		[]types.Coordinate{point(0, 0), point(100, 0), point(100, 100), point(0, 100)},
		types.Attributes{"label": types.StringValue("office")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := sess.SetPurpose(types.PurposeCableSchedule); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	flagged, err := sess.Entity(zone.ID)
	if err != nil {
		t.Fatal("entity was deleted by a purpose switch")
	}
	if !flagged.OutOfScope {
		t.Error("entity should be flagged out of scope")
	}

	summary, err := sess.Takeoff()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.TotalZoneArea.Equal(decimal.Zero) {
		t.Errorf("out-of-scope zone leaked into totals: %s", summary.TotalZoneArea)
	}
	if summary.Excluded != 1 {
		t.Errorf("expected 1 excluded entity, got %d", summary.Excluded)
	}

	// A same-purpose switch records nothing: it must not kill the redo
	// branch the way a real command would
	if err := sess.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sess.CanRedo() {
		t.Fatal("redo should be available after undoing the switch")
	}
	if err := sess.SetPurpose(sess.Purpose()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sess.CanRedo() {
		t.Error("no-op purpose switch must not clear the redo stack")
	}
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		combo string
		op    HistoryOp
		bound bool
	}{
		{"ctrl+z", OpUndo, true},
		{"Ctrl+Z", OpUndo, true},
		{"ctrl+y", OpRedo, true},
		{"ctrl+shift+z", OpRedo, true},
		{"ctrl+s", "", false},
	}
	for _, tt := range tests {
		op, ok := BindingFor(tt.combo)
		if ok != tt.bound {
			t.Errorf("BindingFor(%q) bound = %v, want %v", tt.combo, ok, tt.bound)
			continue
		}
		if ok && op != tt.op {
			t.Errorf("BindingFor(%q) = %s, want %s", tt.combo, op, tt.op)
		}
	}

	sess := newTestSession(t, types.PurposePrelimMarkup)
	if err := sess.HandleKey("ctrl+z"); !errors.IsType(err, errors.TypeNothingToUndo) {
		t.Errorf("expected NOTHING_TO_UNDO, got %v", err)
	}
	if err := sess.HandleKey("ctrl+s"); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR for unbound combo, got %v", err)
	}

	if _, err := sess.AddEntity(types.KindEquipmentPoint,
		[]types.Coordinate{point(1, 1)},
		types.Attributes{"category": types.StringValue("socket")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sess.HandleKey("ctrl+z"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Entities()) != 0 {
		t.Error("ctrl+z did not undo the add")
	}
	if err := sess.HandleKey("ctrl+shift+z"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.Entities()) != 1 {
		t.Error("ctrl+shift+z did not redo the add")
	}
}

func TestSnapshotRestore(t *testing.T) {
	sess := newTestSession(t, types.PurposeBudgetMarkup)
	if err := sess.Calibrate(point(0, 0), point(100, 0), 5.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sess.AddEntity(types.KindSupplyLine,
		[]types.Coordinate{point(0, 0), point(100, 0)},
		types.Attributes{"service": types.StringValue("ac")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := sess.Snapshot()

	restored := newTestSession(t, types.PurposePrelimMarkup)
	if err := restored.Restore(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.Purpose() != types.PurposeBudgetMarkup {
		t.Errorf("purpose not restored: %s", restored.Purpose())
	}
	if restored.Calibration() == nil {
		t.Fatal("calibration not restored")
	}
	if len(restored.Entities()) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(restored.Entities()))
	}
	if restored.CanUndo() || restored.CanRedo() {
		t.Error("history must not span a document load")
	}
}

func TestRestoreRejectsBadDocuments(t *testing.T) {
	sess := newTestSession(t, types.PurposePrelimMarkup)

	if err := sess.Restore(types.Document{DesignPurpose: "bogus"}); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR, got %v", err)
	}

	bad := types.Document{
		DesignPurpose: types.PurposePrelimMarkup,
		Calibration:   &types.ScaleCalibration{ReferencePixelLength: 0, ReferenceRealLength: 5},
	}
	if err := sess.Restore(bad); !errors.IsType(err, errors.TypeInvalidCalibration) {
		t.Errorf("expected INVALID_CALIBRATION, got %v", err)
	}
}

// fakeRepo records saves and lets the test inject failures
type fakeRepo struct {
	docs map[string]types.Document
	fail bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[string]types.Document)}
}

func (r *fakeRepo) Save(ctx context.Context, id string, doc types.Document) error {
	if r.fail {
		return errors.Persistence("disk full", nil)
	}
	r.docs[id] = doc.Clone()
	return nil
}

func (r *fakeRepo) Load(ctx context.Context, id string) (types.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return types.Document{}, errors.NotFound("drawing", id)
	}
	return doc.Clone(), nil
}

func waitForState(t *testing.T, sess *Session, want SyncState) SyncStatus {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		status := sess.SyncStatus()
		if status.State == want {
			return status
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("sync state never reached %s (currently %s)", want, sess.SyncStatus().State)
	return SyncStatus{}
}

func TestSaveToUpdatesSyncStatus(t *testing.T) {
	sess := newTestSession(t, types.PurposePrelimMarkup)
	if _, err := sess.AddEntity(types.KindEquipmentPoint,
		[]types.Coordinate{point(1, 1)},
		types.Attributes{"category": types.StringValue("socket")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo := newFakeRepo()
	gen := sess.SaveTo(context.Background(), repo, "drawing-1")
	status := waitForState(t, sess, SyncSaved)
	if status.Generation != gen {
		t.Errorf("expected generation %d, got %d", gen, status.Generation)
	}
	if len(repo.docs["drawing-1"].Entities) != 1 {
		t.Error("saved document is missing the entity")
	}
}

// TestSaveFailureKeepsLocalEdits proves a persistence failure surfaces in
// the sync status without rolling back in-memory state.
func TestSaveFailureKeepsLocalEdits(t *testing.T) {
	sess := newTestSession(t, types.PurposePrelimMarkup)
	if _, err := sess.AddEntity(types.KindEquipmentPoint,
		[]types.Coordinate{point(1, 1)},
		types.Attributes{"category": types.StringValue("socket")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo := newFakeRepo()
	repo.fail = true
	sess.SaveTo(context.Background(), repo, "drawing-1")
	status := waitForState(t, sess, SyncFailed)
	if status.Error == "" {
		t.Error("failed status should carry the error")
	}
	if len(sess.Entities()) != 1 {
		t.Error("save failure must never roll back local edits")
	}
	if !sess.CanUndo() {
		t.Error("save failure must never touch history")
	}
}

func TestLoadFromRoundTrip(t *testing.T) {
	repo := newFakeRepo()

	src := newTestSession(t, types.PurposePVDesign)
	if err := src.Calibrate(point(0, 0), point(50, 0), 2.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := src.AddEntity(types.KindZone,
		[]types.Coordinate{point(0, 0), point(50, 0), point(50, 50)},
		types.Attributes{"label": types.StringValue("roof")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src.SaveTo(context.Background(), repo, "pv-1")
	waitForState(t, src, SyncSaved)

	dst := newTestSession(t, types.PurposePrelimMarkup)
	if err := dst.LoadFrom(context.Background(), repo, "pv-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dst.Purpose() != types.PurposePVDesign {
		t.Errorf("purpose not loaded: %s", dst.Purpose())
	}
	if len(dst.Entities()) != 1 {
		t.Errorf("expected 1 entity, got %d", len(dst.Entities()))
	}

	if err := dst.LoadFrom(context.Background(), repo, "missing"); !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

// TestUpdateEntityRoundTrip proves a session-level patch is undoable back
// to the untouched entity, attributes included.
func TestUpdateEntityRoundTrip(t *testing.T) {
	sess := newTestSession(t, types.PurposePrelimMarkup)
	placed, err := sess.AddEntity(types.KindSupplyLine,
		[]types.Coordinate{point(0, 0), point(100, 0)},
		types.Attributes{"service": types.StringValue("ac"), "cores": types.NumberValue(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := sess.UpdateEntity(placed.ID, entity.Patch{
		Attributes: types.Attributes{"service": types.StringValue("dc")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Attributes.GetString("service") != "dc" {
		t.Errorf("patch not applied: %v", updated.Attributes)
	}
	if _, ok := updated.Attributes["cores"]; ok {
		t.Error("attribute replacement should have dropped cores")
	}

	if err := sess.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reverted, _ := sess.Entity(placed.ID)
	if !reverted.Equal(placed) {
		t.Error("undo must restore every field, including unpatched attributes")
	}
}
