package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseAssignedSet(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []uint
	}{
		{"empty string", "", nil},
		{"null literal", "null", nil},
		{"json array", "[1,2,3]", []uint{1, 2, 3}},
		{"empty json array", "[]", []uint{}},
		{"json array of strings", `["4","7"]`, []uint{4, 7}},
		{"legacy comma string", "5,6,9", []uint{5, 6, 9}},
		{"legacy with spaces", " 5 , 6 ", []uint{5, 6}},
		{"legacy with malformed entry", "1,abc,3", []uint{1, 3}},
		{"legacy trailing comma", "1,2,", []uint{1, 2}},
		{"single id", "42", []uint{42}},
		{"garbage json array", "[1,oops]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAssignedSet(tt.raw))
		})
	}
}

func TestEncodeAssignedSet(t *testing.T) {
	assert.Equal(t, "[]", EncodeAssignedSet(nil))
	assert.Equal(t, "[]", EncodeAssignedSet([]uint{}))
	assert.Equal(t, "[3,1,2]", EncodeAssignedSet([]uint{3, 1, 2}))
}

func TestEncodeRoundTripsLegacyFormat(t *testing.T) {
	// Reading a legacy comma row and writing it back must produce the
	// current representation.
	ids := ParseAssignedSet("8,12,3")
	assert.Equal(t, "[8,12,3]", EncodeAssignedSet(ids))
}

func TestAppendAssigned(t *testing.T) {
	assert.Equal(t, []uint{1, 2, 3}, AppendAssigned([]uint{1, 2}, 3))
	assert.Equal(t, []uint{1, 2}, AppendAssigned([]uint{1, 2}, 2), "duplicate append is a no-op")
	assert.Equal(t, []uint{7}, AppendAssigned(nil, 7))
}

func TestRemoveAssigned(t *testing.T) {
	assert.Equal(t, []uint{1, 3}, RemoveAssigned([]uint{1, 2, 3}, 2))
	assert.Equal(t, []uint{1, 2}, RemoveAssigned([]uint{1, 2}, 9), "absent id leaves set unchanged")
	assert.Equal(t, []uint{}, RemoveAssigned([]uint{5}, 5))
}

func worker(id uuid.UUID, assigned string) User {
	return User{ID: id, Role: RoleWorker, AssignedIDs: assigned}
}

func TestSelectLeastLoadedPicksMinimum(t *testing.T) {
	w1 := worker(uuid.New(), "[1,2,3]")
	w2 := worker(uuid.New(), "[4]")
	w3 := worker(uuid.New(), "[5,6]")

	selected := SelectLeastLoaded([]User{w1, w2, w3}, 5)
	assert.NotNil(t, selected)
	assert.Equal(t, w2.ID, selected.ID)
}

func TestSelectLeastLoadedCapacityIsExclusive(t *testing.T) {
	w1 := worker(uuid.New(), "[1,2,3,4,5]")
	w2 := worker(uuid.New(), "[6,7,8,9,10]")

	assert.Nil(t, SelectLeastLoaded([]User{w1, w2}, 5), "workers at capacity are never selected")

	w3 := worker(uuid.New(), "[11,12,13,14]")
	selected := SelectLeastLoaded([]User{w1, w2, w3}, 5)
	assert.NotNil(t, selected)
	assert.Equal(t, w3.ID, selected.ID)
}

func TestSelectLeastLoadedTieGoesToFirst(t *testing.T) {
	w1 := worker(uuid.New(), "[1,2]")
	w2 := worker(uuid.New(), "[3,4]")

	selected := SelectLeastLoaded([]User{w1, w2}, 5)
	assert.NotNil(t, selected)
	assert.Equal(t, w1.ID, selected.ID, "ties resolve to the earliest worker in the roster")
}

func TestSelectLeastLoadedEmptyRoster(t *testing.T) {
	assert.Nil(t, SelectLeastLoaded(nil, 5))
}

func TestCanClaim(t *testing.T) {
	assignee := uuid.New()
	w := worker(uuid.New(), "[]")
	w.DepartmentCode = "DPT_W"

	tests := []struct {
		name      string
		complaint Complaint
		worker    User
		want      bool
	}{
		{"pending unassigned same department", Complaint{WorkStatus: WorkStatusPending, DepartmentCode: "DPT_W"}, w, true},
		{"other department", Complaint{WorkStatus: WorkStatusPending, DepartmentCode: "DPT_E"}, w, false},
		{"already assigned", Complaint{WorkStatus: WorkStatusPending, DepartmentCode: "DPT_W", WorkerID: &assignee}, w, false},
		{"not pending", Complaint{WorkStatus: WorkStatusComplete, DepartmentCode: "DPT_W"}, w, false},
		{"not a worker", Complaint{WorkStatus: WorkStatusPending, DepartmentCode: "DPT_W"}, User{Role: RoleManager, DepartmentCode: "DPT_W"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanClaim(&tt.complaint, &tt.worker))
		})
	}
}

func TestCanClaimAtCapacity(t *testing.T) {
	// Direct pickup is not automatic selection: a worker already at
	// capacity may still deliberately take pending work in their
	// department.
	w := worker(uuid.New(), "[1,2,3,4,5]")
	w.DepartmentCode = "DPT_W"

	assert.True(t, CanClaim(&Complaint{WorkStatus: WorkStatusPending, DepartmentCode: "DPT_W"}, &w))
}
