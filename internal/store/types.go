package store

import (
	"time"

	"dorm-housing-backend/internal/model"
)

// StudentInput carries the editable fields of a student record.
type StudentInput struct {
	FullName string `json:"full_name"`
	Group    string `json:"group"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// SubmitInput is the public application form.
type SubmitInput struct {
	Kind        model.ApplicationKind `json:"kind"`
	Name        string                `json:"student_name"`
	Group       string                `json:"student_group"`
	Email       string                `json:"contact_email"`
	Phone       string                `json:"contact_phone"`
	DesiredRoom string                `json:"desired_room"`
	Reason      string                `json:"reason"`
}

// ApproveResult is the outcome of a successful approval.
type ApproveResult struct {
	Application *model.Application `json:"application"`
	// Warning is set when a move found no current bed and was handled as a settle.
	Warning string `json:"warning,omitempty"`
}

// ApplicationView is what the public status page may see about an application.
type ApplicationView struct {
	PublicCode  string                  `json:"public_code"`
	Kind        model.ApplicationKind   `json:"kind"`
	Status      model.ApplicationStatus `json:"status"`
	StudentName string                  `json:"student_name"`
	DesiredRoom string                  `json:"desired_room,omitempty"`
	AssignedBed string                  `json:"assigned_bed,omitempty"`
	AdminNote   string                  `json:"admin_note,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// NewApplicationView builds the public view of app. AssignedBed.Room should be preloaded.
func NewApplicationView(app *model.Application) ApplicationView {
	view := ApplicationView{
		PublicCode:  app.PublicCode,
		Kind:        app.Kind,
		Status:      app.Status,
		StudentName: app.StudentName,
		DesiredRoom: app.DesiredRoom,
		AdminNote:   app.AdminNote,
		CreatedAt:   app.CreatedAt,
		UpdatedAt:   app.UpdatedAt,
	}
	if app.AssignedBed != nil {
		view.AssignedBed = app.AssignedBed.DisplayName()
	}
	return view
}

// Stats summarizes the inventory and the review queue.
type Stats struct {
	Rooms    int64 `json:"rooms"`
	Beds     int64 `json:"beds"`
	FreeBeds int64 `json:"free_beds"`
	Students int64 `json:"students"`
	Queued   int64 `json:"queued"`
}
