package profile

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/upbhushan/placement-iiitn--sub001/core"
)

// Profile is the student record forms auto-fill from. Optional numbers & dates are pointers.
type Profile struct {
	UserID         string      `json:"user_id" bson:"_id" db:"user_id"`
	Name           string      `json:"name" bson:"name"`
	Email          string      `json:"email" bson:"email"`
	RollNumber     string      `json:"roll_number" bson:"roll_number"`
	Branch         string      `json:"branch" bson:"branch"`
	Batch          string      `json:"batch" bson:"batch"`
	CGPA           *float64    `json:"cgpa" bson:"cgpa,omitempty"`
	Phone          string      `json:"phone" bson:"phone"`
	Gender         string      `json:"gender" bson:"gender"`
	DateOfBirth    *time.Time  `json:"date_of_birth" bson:"date_of_birth,omitempty"`
	ActiveBacklogs *int        `json:"active_backlogs" bson:"active_backlogs,omitempty"`
	Education      Education   `json:"education" bson:"education"`
	Placement      Placement   `json:"placement" bson:"placement"`
	SocialLinks    SocialLinks `json:"social_links" bson:"social_links"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updated_at"` // UTC
}

type Education struct {
	TenthMarks   *float64 `json:"tenth_marks" bson:"tenth_marks,omitempty"`
	TwelfthMarks *float64 `json:"twelfth_marks" bson:"twelfth_marks,omitempty"`
	DiplomaMarks *float64 `json:"diploma_marks" bson:"diploma_marks,omitempty"`
}

type Placement struct {
	IsPlaced  bool       `json:"is_placed" bson:"is_placed"`
	Company   string     `json:"company" bson:"company"`
	Package   *float64   `json:"package" bson:"package,omitempty"` // LPA
	OfferDate *time.Time `json:"offer_date" bson:"offer_date,omitempty"`
}

type SocialLinks struct {
	LinkedIn string `json:"linkedin" bson:"linkedin"`
	GitHub   string `json:"github" bson:"github"`
}

// UpdateProfile replaces every editable attribute of a Profile.
// Dates are sent as YYYY-MM-DD strings.
type UpdateProfile struct {
	Name           string   `json:"name" validate:"required,notblank"`
	Email          string   `json:"email" validate:"omitempty,email"`
	RollNumber     string   `json:"roll_number" validate:"omitempty,max=32"`
	Branch         string   `json:"branch" validate:"omitempty,max=64"`
	Batch          string   `json:"batch" validate:"omitempty,max=16"`
	CGPA           *float64 `json:"cgpa" validate:"omitempty,min=0,max=10"`
	Phone          string   `json:"phone" validate:"omitempty,max=20"`
	Gender         string   `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth    string   `json:"date_of_birth" validate:"omitempty,isodate"`
	ActiveBacklogs *int     `json:"active_backlogs" validate:"omitempty,min=0"`
	Education      struct {
		TenthMarks   *float64 `json:"tenth_marks" validate:"omitempty,min=0,max=100"`
		TwelfthMarks *float64 `json:"twelfth_marks" validate:"omitempty,min=0,max=100"`
		DiplomaMarks *float64 `json:"diploma_marks" validate:"omitempty,min=0,max=100"`
	} `json:"education"`
	Placement struct {
		IsPlaced  bool     `json:"is_placed"`
		Company   string   `json:"company" validate:"omitempty,max=128"`
		Package   *float64 `json:"package" validate:"omitempty,min=0"`
		OfferDate string   `json:"offer_date" validate:"omitempty,isodate"`
	} `json:"placement"`
	SocialLinks struct {
		LinkedIn string `json:"linkedin" validate:"omitempty,url"`
		GitHub   string `json:"github" validate:"omitempty,url"`
	} `json:"social_links"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Name = core.CleanString(up.Name)
	up.Email = core.CleanString(up.Email, true /* lower */)
	up.RollNumber = core.CleanString(up.RollNumber)
	up.Branch = core.CleanString(up.Branch)
	up.Batch = core.CleanString(up.Batch)
	up.Gender = core.CleanString(up.Gender, true /* lower */)
	up.Placement.Company = core.CleanString(up.Placement.Company)
	return validate.Struct(up)
}

// apply copies the update onto p; dates are expected to be validated already.
func (up UpdateProfile) apply(p *Profile) {
	p.Name = up.Name
	p.Email = up.Email
	p.RollNumber = up.RollNumber
	p.Branch = up.Branch
	p.Batch = up.Batch
	p.CGPA = up.CGPA
	p.Phone = up.Phone
	p.Gender = up.Gender
	p.DateOfBirth = parseDate(up.DateOfBirth)
	p.ActiveBacklogs = up.ActiveBacklogs
	p.Education = Education{
		TenthMarks:   up.Education.TenthMarks,
		TwelfthMarks: up.Education.TwelfthMarks,
		DiplomaMarks: up.Education.DiplomaMarks,
	}
	p.Placement = Placement{
		IsPlaced:  up.Placement.IsPlaced,
		Company:   up.Placement.Company,
		Package:   up.Placement.Package,
		OfferDate: parseDate(up.Placement.OfferDate),
	}
	p.SocialLinks = SocialLinks{LinkedIn: up.SocialLinks.LinkedIn, GitHub: up.SocialLinks.GitHub}
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
