package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccessToken is a persisted bearer token issued to one device of a user.
// A token is valid for as long as its record exists.
type AccessToken struct {
	ID         string     `json:"id"`
	UserID     int64      `json:"user_id"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

type Type struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Task struct {
	ID          int64      `json:"id"`
	TypeID      int64      `json:"type_id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   Date       `json:"start_date"`
	Deadline    Date       `json:"deadline"`
	FinishDate  Date       `json:"finish_date"`
	Status      TaskStatus `json:"status"`
	StatusLabel string     `json:"status_label"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

func (t *Task) Trashed() bool {
	return t.DeletedAt != nil
}

// TaskPatch carries the fields of a partial task update; nil fields are left
// untouched.
type TaskPatch struct {
	TypeID      *int64
	Title       *string
	Description *string
	StartDate   *Date
	Deadline    *Date
	FinishDate  *Date
	Status      *TaskStatus
}

// Apply merges the patch onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.TypeID != nil {
		t.TypeID = *p.TypeID
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	if p.FinishDate != nil {
		t.FinishDate = *p.FinishDate
	}
	if p.Status != nil {
		t.Status = *p.Status
		t.StatusLabel = t.Status.Label()
	}
}
