package models

// Request payloads. Date fields stay strings until validated so that every
// malformed field can be reported; the conversion helpers below must only be
// called on payloads that passed validation.

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	DeviceName string `json:"device_name" validate:"required"`
}

type CreateTaskRequest struct {
	TypeID      *int64 `json:"type_id" validate:"required"`
	Title       string `json:"title" validate:"required,filled"`
	Description string `json:"description" validate:"required,filled"`
	StartDate   string `json:"start_date" validate:"required,date"`
	Deadline    string `json:"deadline" validate:"required,date"`
	FinishDate  string `json:"finish_date" validate:"required,date"`
	Status      string `json:"status" validate:"required,task_status"`
}

func (r CreateTaskRequest) Task(userID int64) Task {
	status := TaskStatus(r.Status)
	return Task{
		TypeID:      *r.TypeID,
		UserID:      userID,
		Title:       r.Title,
		Description: r.Description,
		StartDate:   MustParseDate(r.StartDate),
		Deadline:    MustParseDate(r.Deadline),
		FinishDate:  MustParseDate(r.FinishDate),
		Status:      status,
		StatusLabel: status.Label(),
	}
}

type UpdateTaskRequest struct {
	TypeID      *int64  `json:"type_id" validate:"omitempty,required"`
	Title       *string `json:"title" validate:"omitempty,filled"`
	Description *string `json:"description" validate:"omitempty,filled"`
	StartDate   *string `json:"start_date" validate:"omitempty,date"`
	Deadline    *string `json:"deadline" validate:"omitempty,date"`
	FinishDate  *string `json:"finish_date" validate:"omitempty,date"`
	Status      *string `json:"status" validate:"omitempty,task_status"`
}

func (r UpdateTaskRequest) Patch() TaskPatch {
	patch := TaskPatch{
		TypeID:      r.TypeID,
		Title:       r.Title,
		Description: r.Description,
		StartDate:   datePtr(r.StartDate),
		Deadline:    datePtr(r.Deadline),
		FinishDate:  datePtr(r.FinishDate),
	}
	if r.Status != nil {
		status := TaskStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

type CreateTypeRequest struct {
	Name string `json:"name" validate:"required,filled"`
}

// UpdateTypeRequest requires name even though it is the only field.
type UpdateTypeRequest struct {
	Name string `json:"name" validate:"required,filled"`
}

func datePtr(s *string) *Date {
	if s == nil {
		return nil
	}
	d := MustParseDate(*s)
	return &d
}
