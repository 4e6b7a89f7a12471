package approval

import (
	"github.com/google/uuid"

	"nirman/internal/model"
)

// CanAccessProject reports whether a user may see a project. Admins see
// every project in their organization; everyone else needs an active
// assignment row matching both project and user.
func CanAccessProject(projectID, userID uuid.UUID, role string, assignments []model.ProjectAssignment) bool {
	if role == model.RoleAdmin {
		return true
	}
	for _, a := range assignments {
		if a.Active && a.ProjectID == projectID && a.UserID == userID {
			return true
		}
	}
	return false
}

// FilterAccessibleProjects keeps only the projects the user can access.
func FilterAccessibleProjects(projects []model.Project, userID uuid.UUID, role string, assignments []model.ProjectAssignment) []model.Project {
	if role == model.RoleAdmin {
		return projects
	}
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if CanAccessProject(p.ID, userID, role, assignments) {
			out = append(out, p)
		}
	}
	return out
}

// CanAccessResource applies the project access rule to a governed resource.
// Resources without a project are organization-wide and visible to any
// member of the organization.
func CanAccessResource(projectID *uuid.UUID, userID uuid.UUID, role string, assignments []model.ProjectAssignment) bool {
	if projectID == nil {
		return true
	}
	return CanAccessProject(*projectID, userID, role, assignments)
}
