package approval

import (
	"testing"

	"github.com/google/uuid"

	"nirman/internal/model"
)

func TestCanAccessProject(t *testing.T) {
	projectA := uuid.New()
	projectB := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	assignments := []model.ProjectAssignment{
		{ProjectID: projectA, UserID: alice, Active: true},
		{ProjectID: projectB, UserID: alice, Active: false}, // revoked
	}

	tests := []struct {
		name    string
		project uuid.UUID
		user    uuid.UUID
		role    string
		want    bool
	}{
		{"admin sees everything", projectB, bob, model.RoleAdmin, true},
		{"active assignment grants access", projectA, alice, model.RoleUser, true},
		{"inactive assignment denies access", projectB, alice, model.RoleUser, false},
		{"no assignment denies access", projectA, bob, model.RoleUser, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAccessProject(tt.project, tt.user, tt.role, assignments)
			if got != tt.want {
				t.Errorf("CanAccessProject = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterAccessibleProjects(t *testing.T) {
	alice := uuid.New()
	projects := []model.Project{
		{ID: uuid.New(), Name: "Tower A"},
		{ID: uuid.New(), Name: "Tower B"},
		{ID: uuid.New(), Name: "Warehouse"},
	}
	assignments := []model.ProjectAssignment{
		{ProjectID: projects[0].ID, UserID: alice, Active: true},
		{ProjectID: projects[2].ID, UserID: alice, Active: true},
	}

	got := FilterAccessibleProjects(projects, alice, model.RoleUser, assignments)
	if len(got) != 2 {
		t.Fatalf("expected 2 accessible projects, got %d", len(got))
	}
	if got[0].Name != "Tower A" || got[1].Name != "Warehouse" {
		t.Errorf("unexpected filtered set: %v, %v", got[0].Name, got[1].Name)
	}

	all := FilterAccessibleProjects(projects, uuid.New(), model.RoleAdmin, nil)
	if len(all) != 3 {
		t.Errorf("admin should see all projects, got %d", len(all))
	}
}

func TestCanAccessResourceWithoutProject(t *testing.T) {
	// Org-wide resources (no project) are visible to any member.
	if !CanAccessResource(nil, uuid.New(), model.RoleUser, nil) {
		t.Error("resource without a project should be accessible to members")
	}

	projectID := uuid.New()
	if CanAccessResource(&projectID, uuid.New(), model.RoleUser, nil) {
		t.Error("project resource should not be accessible without assignment")
	}
}
